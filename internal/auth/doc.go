// Package auth provides authentication and authorization for the application.
//
// It supports two authentication modes:
//   - "none": No login (default). Every request acts as the anonymous superuser.
//   - "local": Local user database with session cookies for the web UI and
//     Bearer tokens for the JSON API.
//
// Superusers (role admin) reach the dataset, label, stats and export pages.
// Annotators only see the annotation page of projects they belong to.
//
// # Configuration
//
//	AUTH_MODE=none   # Default, no auth required
//	AUTH_MODE=local  # Requires user creation and login
//
// For local mode:
//
//	AUTH_SESSION_SECRET=<32+ chars>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_TOKEN_EXPIRY=720h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//	AUTH_LOCKOUT_ATTEMPTS=5
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	authService := auth.NewService(db.DB, cfg.Auth)
//	mw := auth.NewMiddleware(authService, sessionManager, cfg.Auth)
//	router.Use(mw.Handler())
//	admin := router.Group("/projects/:project_id", mw.RequireSuperuser())
package auth
