package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
)

const contextKeyAuthTemplateData = "auth_template_data"

// AuthTemplateData holds authentication info for templates.
type AuthTemplateData struct {
	Enabled   bool   // Whether auth is enabled (AuthModeLocal)
	LoggedIn  bool   // Whether a user is logged in
	Username  string // Current user's username (empty if not logged in)
	Superuser bool   // Whether the admin pages are available
	CSRFToken string // CSRF token for forms (empty when auth disabled)
}

// AuthContextMiddleware injects authentication data into the Gin context.
// Page handlers pass it to templates as .Auth.
func AuthContextMiddleware(authMode config.AuthMode) gin.HandlerFunc {
	authEnabled := authMode == config.AuthModeLocal

	return func(c *gin.Context) {
		data := AuthTemplateData{
			Enabled:   authEnabled,
			Superuser: auth.IsSuperuser(c),
			CSRFToken: auth.GetCSRFToken(c),
		}
		if authEnabled && auth.GetUserID(c) != auth.DefaultUserID {
			data.LoggedIn = true
			data.Username = auth.GetUsername(c)
		}

		c.Set(contextKeyAuthTemplateData, data)
		c.Next()
	}
}

// GetAuthTemplateData retrieves auth data from context for use in templates.
func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	data, _ := c.Get(contextKeyAuthTemplateData)
	authData, _ := data.(AuthTemplateData)
	return authData
}
