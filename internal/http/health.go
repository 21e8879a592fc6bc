package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping() error
}

// HealthController reports the state of the annotation database.
type HealthController struct {
	version string
	deps    map[string]Pinger
}

// NewHealthController checks db under the "database" key. A nil db is
// reported as not configured and does not make the server unhealthy.
func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{
		version: version,
		deps:    map[string]Pinger{"database": db},
	}
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  healthy,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.deps)),
	}

	for name, dep := range h.deps {
		if dep == nil {
			resp.Checks[name] = "not configured"
			continue
		}
		if err := dep.Ping(); err != nil {
			resp.Checks[name] = "error: " + err.Error()
			resp.Status = unhealthy
			continue
		}
		resp.Checks[name] = "ok"
	}

	code := http.StatusOK
	if resp.Status == unhealthy {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
