package auth

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/entities"
)

// setupMutex serializes setup requests so only one admin can be created.
var setupMutex sync.Mutex

// isLocalPath reports whether path is safe to redirect to (same-origin only).
func isLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	// Protocol-relative URLs, schemes and backslash tricks
	if strings.HasPrefix(path, "//") || strings.Contains(path, "://") || strings.Contains(path, "\\") {
		return false
	}
	return true
}

func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/projects"
}

// AuthLogger records login attempts. *audit.Service satisfies it.
type AuthLogger interface {
	LogAuth(userID uint, action, ip string, err error)
}

// AuthController serves the login, logout and first-run setup pages.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	auditor        AuthLogger
}

func NewAuthController(service *Service, sessionManager *SessionManager, auditor AuthLogger) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		auditor:        auditor,
	}
}

func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout)
	router.GET("/setup", ac.SetupPage)
	router.POST("/setup", ac.Setup)
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager != nil && ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/projects")
		return
	}
	// a fresh install has nobody to log in as
	if hasUsers, _ := ac.service.HasUsers(); !hasUsers {
		c.Redirect(http.StatusFound, "/setup")
		return
	}
	ac.renderLogin(c, http.StatusOK, sanitizeRedirectPath(c.Query("next")), "", c.Query("error"))
}

func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := sanitizeRedirectPath(c.PostForm("next"))

	user, err := ac.service.Authenticate(username, c.PostForm("password"))
	if err != nil {
		ac.logAuth(0, "login_failed", c.ClientIP(), err)
		msg := "Invalid username or password"
		if errors.Is(err, ErrAccountLocked) {
			msg = "Account is locked. Please try again later."
		}
		ac.renderLogin(c, http.StatusUnauthorized, next, username, msg)
		return
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			ac.renderLogin(c, http.StatusInternalServerError, next, username, "Failed to create session")
			return
		}
	}

	ac.logAuth(user.ID, "login", c.ClientIP(), nil)
	c.Redirect(http.StatusFound, next)
}

func (ac *AuthController) renderLogin(c *gin.Context, status int, next, username, msg string) {
	c.HTML(status, "auth/login.html", gin.H{
		"Title":     "Login",
		"Next":      next,
		"Username":  username,
		"CSRFToken": GetCSRFToken(c),
		"Error":     msg,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	c.Redirect(http.StatusFound, "/login")
}

// SetupPage renders the first-run form that creates the initial superuser.
func (ac *AuthController) SetupPage(c *gin.Context) {
	hasUsers, err := ac.service.HasUsers()
	if err == nil && hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	errorMsg := c.Query("error")
	if err != nil {
		errorMsg = "Database error. Please try again."
	}

	c.HTML(http.StatusOK, "auth/setup.html", gin.H{
		"Title":     "Initial Setup",
		"CSRFToken": GetCSRFToken(c),
		"Error":     errorMsg,
	})
}

func (ac *AuthController) Setup(c *gin.Context) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		ac.renderSetupError(c, "", "", "Database error. Please try again.")
		return
	}
	if hasUsers {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if password != c.PostForm("confirm_password") {
		ac.renderSetupError(c, username, email, "Passwords do not match")
		return
	}

	user, err := ac.service.CreateUser(username, email, password, entities.UserRoleAdmin)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		ac.renderSetupError(c, username, email, setupErrorMessage(err))
		return
	}

	if ac.sessionManager != nil {
		_ = ac.sessionManager.CreateSession(c.Request, user)
	}
	ac.logAuth(user.ID, "setup", c.ClientIP(), nil)

	c.Redirect(http.StatusFound, "/projects")
}

// setupErrors maps CreateUser failures to the message shown on the setup form.
var setupErrors = []struct {
	err error
	msg string
}{
	{ErrPasswordTooShort, "Password must be at least 12 characters"},
	{ErrPasswordTooLong, "Password exceeds maximum length of 72 characters"},
	{ErrUsernameRequired, "Username is required"},
	{ErrUsernameInvalid, "Username must be 3-64 characters, alphanumeric with underscore/hyphen only"},
	{ErrEmailRequired, "Email is required"},
	{ErrEmailInvalid, "Invalid email format"},
}

func setupErrorMessage(err error) string {
	for _, e := range setupErrors {
		if errors.Is(err, e.err) {
			return e.msg
		}
	}
	return "Failed to create user"
}

func (ac *AuthController) renderSetupError(c *gin.Context, username, email, msg string) {
	c.HTML(http.StatusBadRequest, "auth/setup.html", gin.H{
		"Title":     "Initial Setup",
		"Username":  username,
		"Email":     email,
		"CSRFToken": GetCSRFToken(c),
		"Error":     msg,
	})
}

func (ac *AuthController) logAuth(userID uint, action, ip string, err error) {
	if ac.auditor != nil {
		ac.auditor.LogAuth(userID, action, ip, err)
	}
}

// APITokenController issues bearer tokens for the JSON API.
type APITokenController struct {
	service *Service
}

func NewAPITokenController(service *Service) *APITokenController {
	return &APITokenController{service: service}
}

// signedInUser returns the caller's ID, or answers 401 when nobody is signed in.
func signedInUser(c *gin.Context) (uint, bool) {
	userID := GetUserID(c)
	if userID == DefaultUserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrAuthRequired.Error()})
		return 0, false
	}
	return userID, true
}

// GenerateToken replaces the caller's API token. The plaintext is shown once.
func (tc *APITokenController) GenerateToken(c *gin.Context) {
	userID, ok := signedInUser(c)
	if !ok {
		return
	}
	token, err := tc.service.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Store this token securely, it will not be shown again",
	})
}

func (tc *APITokenController) RevokeToken(c *gin.Context) {
	userID, ok := signedInUser(c)
	if !ok {
		return
	}
	if err := tc.service.RevokeToken(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}
