package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/doclabel/internal/demo"
)

// DemoTemplateData holds demo mode info for templates.
type DemoTemplateData struct {
	Enabled bool // Whether demo mode is active
}

// GetDemoTemplateData retrieves demo mode data from context for use in templates.
func GetDemoTemplateData(c *gin.Context) DemoTemplateData {
	return DemoTemplateData{Enabled: c.GetBool(demo.ContextKeyDemoMode)}
}

// DemoStatusResponse contains demo mode status information.
type DemoStatusResponse struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// DemoStatus reports whether write operations are blocked.
// GET /api/demo/status
func DemoStatus(middleware *demo.Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware == nil || !middleware.IsEnabled() {
			c.JSON(http.StatusOK, DemoStatusResponse{Enabled: false, Message: "Demo mode is not active"})
			return
		}
		c.JSON(http.StatusOK, DemoStatusResponse{
			Enabled: true,
			Message: "Demo mode is active - uploads, labels and annotations are read-only",
		})
	}
}
