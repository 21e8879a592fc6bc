package http

import (
	"html/template"
	"net/http"

	"github.com/mrlokans/doclabel/internal/audit"
	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/demo"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Projects ProjectStore
	Importer DocumentImporter
	Exporter DatasetExporter
	Auditor  *audit.Service

	// UI
	Templates       *template.Template // Parsed page set; loaded from TemplatesPath when nil
	TemplatesPath   string             // Empty means the embedded templates
	StaticPath      string
	DatasetPageSize int

	// Upload limits
	UploadMaxBytes int64

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware // nil acts as auth mode "none"
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Background maintenance (optional)
	TaskRunner         TaskRunner
	AuditRetentionDays int

	// Demo mode
	DemoMiddleware *demo.Middleware

	// Prometheus endpoint
	MetricsEnabled bool
	MetricsPath    string
	MetricsHandler http.Handler // Defaults to promhttp.Handler()

	// Application info
	Version string
}
