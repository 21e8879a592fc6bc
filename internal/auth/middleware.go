package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/entities"
)

// Keys under which the middleware stores the caller in the gin context.
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyRole     = "auth_role"
	ContextKeyAuthType = "auth_type" // "session", "bearer", or "none"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
)

// DefaultUserID marks an unauthenticated request.
const DefaultUserID = uint(0)

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	defaultUser    *entities.User
	publicPaths    map[string]bool
	publicPrefixes []string
}

// NewMiddleware creates a new authentication middleware. Extra public paths
// (for example the metrics endpoint) bypass authentication in local mode.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth, extraPublic ...string) *Middleware {
	publicPaths := map[string]bool{
		"/health":      true,
		"/ping":        true,
		"/login":       true,
		"/logout":      true,
		"/setup":       true,
		"/favicon.ico": true,
	}
	for _, p := range extraPublic {
		publicPaths[p] = true
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		publicPaths:    publicPaths,
		publicPrefixes: []string{"/static/", "/demo/"},
	}
}

// WithDefaultUser sets the account every request acts as when auth is disabled.
// Annotations reference a real user row, so the anonymous superuser must exist.
func (m *Middleware) WithDefaultUser(user *entities.User) *Middleware {
	m.defaultUser = user
	return m
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode == config.AuthModeNone {
		return m.noAuthHandler()
	}
	return m.authHandler()
}

// noAuthHandler treats every request as the anonymous superuser.
func (m *Middleware) noAuthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, DefaultUserID)
		c.Set(ContextKeyRole, entities.UserRoleAdmin)
		if m.defaultUser != nil {
			c.Set(ContextKeyUserID, m.defaultUser.ID)
			c.Set(ContextKeyUsername, m.defaultUser.Username)
		}
		c.Set(ContextKeyAuthType, AuthTypeNone)
		c.Next()
	}
}

func (m *Middleware) authHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.isPublicPath(c.Request.URL.Path) {
			// Public pages still know who is logged in
			if user := m.trySessionAuth(c); user != nil {
				m.setUserContext(c, user, AuthTypeSession)
			} else {
				c.Set(ContextKeyUserID, DefaultUserID)
				c.Set(ContextKeyAuthType, AuthTypeNone)
			}
			c.Next()
			return
		}

		// API clients first, then the browser session
		if user := m.tryBearerAuth(c); user != nil {
			m.setUserContext(c, user, AuthTypeBearer)
			c.Next()
			return
		}
		if user := m.trySessionAuth(c); user != nil {
			m.setUserContext(c, user, AuthTypeSession)
			c.Next()
			return
		}

		m.rejectUnauthenticated(c)
	}
}

func (m *Middleware) rejectUnauthenticated(c *gin.Context) {
	if isAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
		return
	}
	c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
	c.Abort()
}

func (m *Middleware) tryBearerAuth(c *gin.Context) *entities.User {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil
	}
	user, err := m.service.ValidateToken(token)
	if err != nil {
		return nil
	}
	return user
}

// trySessionAuth loads the user behind the session cookie. A session whose
// user was deleted counts as anonymous.
func (m *Middleware) trySessionAuth(c *gin.Context) *entities.User {
	if m.sessionManager == nil {
		return nil
	}
	userID := m.sessionManager.GetUserID(c.Request)
	if userID == DefaultUserID {
		return nil
	}
	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return nil
	}
	return user
}

func (m *Middleware) setUserContext(c *gin.Context, user *entities.User, authType AuthType) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUsername, user.Username)
	c.Set(ContextKeyRole, user.Role)
	c.Set(ContextKeyAuthType, authType)
}

func (m *Middleware) isPublicPath(path string) bool {
	if m.publicPaths[path] {
		return true
	}
	for _, prefix := range m.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireAuth rejects requests without an authenticated user in local mode.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Mode == config.AuthModeLocal && GetUserID(c) == DefaultUserID {
			m.rejectUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireRole returns a middleware that requires one of the given roles.
// With auth disabled every request is a superuser and passes.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		if m.config.Mode == config.AuthModeNone {
			c.Next()
			return
		}

		if GetUserID(c) == DefaultUserID {
			m.rejectUnauthenticated(c)
			return
		}

		if !roleSet[GetUserRole(c)] {
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": ErrForbidden.Error()})
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}
		c.Next()
	}
}

// RequireSuperuser guards the dataset, label, stats and export pages.
func (m *Middleware) RequireSuperuser() gin.HandlerFunc {
	return m.RequireRole(entities.UserRoleAdmin)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

// isAPIRequest decides between a JSON error and a redirect to the login page.
func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.GetHeader("Authorization") != ""
}

// contextValue reads a typed value set by the middleware.
func contextValue[T any](c *gin.Context, key string) (T, bool) {
	var zero T
	v, exists := c.Get(key)
	if !exists {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// GetUserID returns the signed-in user's ID, or DefaultUserID.
func GetUserID(c *gin.Context) uint {
	if id, ok := contextValue[uint](c, ContextKeyUserID); ok {
		return id
	}
	return DefaultUserID
}

func GetUsername(c *gin.Context) string {
	name, _ := contextValue[string](c, ContextKeyUsername)
	return name
}

func GetUserRole(c *gin.Context) entities.UserRole {
	role, _ := contextValue[entities.UserRole](c, ContextKeyRole)
	return role
}

func GetAuthType(c *gin.Context) AuthType {
	if t, ok := contextValue[AuthType](c, ContextKeyAuthType); ok {
		return t
	}
	return AuthTypeNone
}

// IsSuperuser reports whether the request may use the admin pages.
func IsSuperuser(c *gin.Context) bool {
	return GetUserRole(c) == entities.UserRoleAdmin
}
