// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── projects/        # Projects, labels, documents and annotations
//	├── users/           # User accounts and login bookkeeping
//	└── audit/           # Import, export and auth audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./doclabel.db")
//
//	projectsRepo := projects.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	project, err := projectsRepo.GetProjectByID(1)
//	docs, err := projectsRepo.GetAnnotatedDocuments(project)
//
// SQLite foreign keys are switched on for every connection, so a document
// can never reference a project that does not exist.
package database
