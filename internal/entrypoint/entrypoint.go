package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrlokans/doclabel/internal/audit"
	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/config"
	"github.com/mrlokans/doclabel/internal/database"
	auditrepo "github.com/mrlokans/doclabel/internal/database/audit"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/demo"
	"github.com/mrlokans/doclabel/internal/exporters"
	http_controllers "github.com/mrlokans/doclabel/internal/http"
	"github.com/mrlokans/doclabel/internal/importers"
	"github.com/mrlokans/doclabel/internal/metrics"
	"github.com/mrlokans/doclabel/internal/scheduler"
	"github.com/mrlokans/doclabel/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Stop background work after the last request has finished
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// OpenDatabase opens the configured SQLite file with the configured gorm log level.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	return database.NewDatabaseWithOptions(cfg.Database.Path, database.Options{LogLevel: cfg.Database.LogLevel})
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting doclabel v%s", version)

	var demoMiddleware *demo.Middleware
	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - write operations will be blocked")
		demoMiddleware = demo.NewMiddleware(true)
	}

	db, err := OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repo := projects.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()

	authService, authMiddleware, sessionManager, csrfSecret := setupAuth(cfg, db)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)
	}

	// A nil *tasks.Client must not end up inside the interface
	var enqueuer scheduler.TaskEnqueuer
	var taskRunner http_controllers.TaskRunner
	if taskClient != nil {
		enqueuer = taskClient
		taskRunner = taskClient
	}

	cleanupScheduler := scheduler.NewAuditCleanupScheduler(cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, enqueuer, auditService)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := cleanupScheduler.Start(schedulerCtx); err != nil {
		log.Printf("WARNING: audit cleanup disabled: %v", err)
	} else if next := cleanupScheduler.NextRun(); next != nil {
		log.Printf("Audit cleanup: %s, next run at %s", scheduler.CronDescription(cfg.Audit.CleanupSchedule), next.Format(time.RFC3339))
	}

	if cfg.Metrics.Enabled {
		metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:           db,
		Projects:           repo,
		Importer:           importers.NewPipeline(repo, nil),
		Exporter:           exporters.NewExporter(repo, nil),
		Auditor:            auditService,
		TemplatesPath:      cfg.UI.TemplatesPath,
		StaticPath:         cfg.UI.StaticPath,
		DatasetPageSize:    cfg.UI.DatasetPageSize,
		UploadMaxBytes:     cfg.Upload.MaxBytes,
		AuthService:        authService,
		AuthMiddleware:     authMiddleware,
		SessionManager:     sessionManager,
		AuthConfig:         cfg.Auth,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Auth.SecureCookies,
		TaskRunner:         taskRunner,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		DemoMiddleware:     demoMiddleware,
		MetricsEnabled:     cfg.Metrics.Enabled,
		MetricsPath:        cfg.Metrics.Path,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// setupAuth builds the auth service and middleware for the configured mode.
// Sessions and CSRF protection only exist in local mode.
func setupAuth(cfg *config.Config, db *database.Database) (*auth.Service, *auth.Middleware, *auth.SessionManager, []byte) {
	authService := auth.NewService(db.DB, cfg.Auth)

	if cfg.Auth.Mode != config.AuthModeLocal {
		log.Printf("Authentication mode: none (no authentication required)")

		anonymous, err := authService.EnsureAnonymousUser()
		if err != nil {
			log.Fatalf("Failed to prepare anonymous user: %v", err)
		}
		middleware := auth.NewMiddleware(authService, nil, cfg.Auth).WithDefaultUser(anonymous)
		return authService, middleware, nil, nil
	}

	log.Printf("Authentication mode: local")

	if cfg.Auth.SessionSecret == "" {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		cfg.Auth.SessionSecret = secret
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	csrfSecret, err := hex.DecodeString(cfg.Auth.SessionSecret)
	if err != nil {
		// Not hex, use as raw bytes
		csrfSecret = []byte(cfg.Auth.SessionSecret)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var public []string
	if cfg.Metrics.Enabled {
		public = append(public, cfg.Metrics.Path)
	}
	middleware := auth.NewMiddleware(authService, sessionManager, cfg.Auth, public...)

	if hasUsers, _ := authService.HasUsers(); !hasUsers {
		log.Printf("No users found. Visit /setup to create an administrator account.")
	}

	return authService, middleware, sessionManager, csrfSecret
}
