package http

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/templates"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	authMiddleware := cfg.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(cfg.AuthService, nil, config.Auth{Mode: config.AuthModeNone})
	}
	router.Use(authMiddleware.Handler())
	superuser := authMiddleware.RequireSuperuser()

	// Inject auth data for templates
	router.Use(AuthContextMiddleware(cfg.AuthConfig.Mode))

	if cfg.DemoMiddleware != nil && cfg.DemoMiddleware.IsEnabled() {
		router.Use(cfg.DemoMiddleware.InjectContext())
		router.Use(cfg.DemoMiddleware.Handler())
	}

	tmpl := cfg.Templates
	if tmpl == nil {
		tmpl = template.Must(templates.Load(cfg.TemplatesPath))
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Typed nil pointers must not end up inside the interfaces below
	var auditor DatasetAuditor
	var authLogger auth.AuthLogger
	if cfg.Auditor != nil {
		auditor = cfg.Auditor
		authLogger = cfg.Auditor
	}
	var pinger Pinger
	if cfg.Database != nil {
		pinger = cfg.Database
	}

	// Health endpoints
	health := NewHealthController(pinger, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	if cfg.MetricsEnabled {
		handler := cfg.MetricsHandler
		if handler == nil {
			handler = promhttp.Handler()
		}
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(handler))
	}

	// Auth routes only exist in local mode
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		auth.NewAuthController(cfg.AuthService, cfg.SessionManager, authLogger).RegisterRoutes(router)

		tokenController := auth.NewAPITokenController(cfg.AuthService)
		router.POST("/api/auth/token", tokenController.GenerateToken)
		router.DELETE("/api/auth/token", tokenController.RevokeToken)
	}

	pages := NewPagesController(cfg.Projects, cfg.DatasetPageSize)
	dataset := NewDatasetController(cfg.Projects, cfg.Importer, cfg.Exporter, auditor, cfg.UploadMaxBytes)
	api := NewAPIController(cfg.Projects)

	router.GET("/", pages.Index)
	router.GET("/projects", pages.Projects)
	router.POST("/projects", superuser, pages.CreateProject)
	router.GET("/projects/:project_id", pages.Project)

	// Admin pages
	admin := router.Group("/projects/:project_id", superuser)
	admin.GET("/docs", pages.Dataset)
	admin.GET("/docs/create", dataset.UploadPage)
	admin.POST("/docs/create", dataset.Upload)
	admin.GET("/docs/download", dataset.DownloadPage)
	admin.GET("/docs/download_file", dataset.Download)
	admin.GET("/labels", pages.Labels)
	admin.GET("/stats", pages.Stats)
	admin.GET("/guideline", pages.Guideline)

	// JSON API
	projectAPI := router.Group("/api/projects/:project_id")
	projectAPI.GET("/labels", api.ListLabels)
	projectAPI.POST("/labels", superuser, api.CreateLabel)
	projectAPI.GET("/stats", superuser, api.Stats)
	projectAPI.POST("/docs/:doc_id/annotations", api.CreateAnnotation)

	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Projects, cfg.Auditor)
		projectAPI.GET("/events", superuser, auditController.ProjectEvents)
		router.GET("/api/audit/failures", superuser, auditController.FailureSummary)
	}

	if cfg.TaskRunner != nil {
		tasksController := NewTasksController(cfg.TaskRunner, cfg.AuditRetentionDays)
		router.GET("/api/tasks/:id", superuser, tasksController.GetTaskStatus)
		router.POST("/api/tasks/cleanup_audit_events/run", superuser, tasksController.RunAuditCleanup)
	}

	// Demo pages are public
	router.GET("/demo/text_classification", DemoPage("demo/demo_text_classification.html", "Text classification demo"))
	router.GET("/demo/named_entity_recognition", DemoPage("demo/demo_named_entity.html", "Named entity recognition demo"))
	router.GET("/demo/translation", DemoPage("demo/demo_translation.html", "Translation demo"))
	router.GET("/api/demo/status", DemoStatus(cfg.DemoMiddleware))

	router.NoRoute(NotFound)

	return router
}
