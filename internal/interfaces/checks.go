package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/doclabel/internal/audit"
	"github.com/mrlokans/doclabel/internal/auth"
	"github.com/mrlokans/doclabel/internal/database"
	"github.com/mrlokans/doclabel/internal/database/projects"
	"github.com/mrlokans/doclabel/internal/exporters"
	"github.com/mrlokans/doclabel/internal/http"
	"github.com/mrlokans/doclabel/internal/importers"
	"github.com/mrlokans/doclabel/internal/scheduler"
	"github.com/mrlokans/doclabel/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// ProjectStore implementations
var _ http.ProjectStore = (*projects.Repository)(nil)

// DocumentStore / DocumentSource implementations
var _ importers.DocumentStore = (*projects.Repository)(nil)
var _ exporters.DocumentSource = (*projects.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Dataset Pipelines
// =============================================================================

var _ http.DocumentImporter = (*importers.Pipeline)(nil)
var _ http.DatasetExporter = (*exporters.Exporter)(nil)

// Parser implementations
var _ importers.Parser = importers.CSVParser{}
var _ importers.Parser = importers.JSONLinesParser{}
var _ importers.Parser = importers.TextParser{}
var _ importers.Parser = (*importers.ExcelParser)(nil)

// Serializer implementations
var _ exporters.Serializer = exporters.CSVSerializer{}
var _ exporters.Serializer = exporters.JSONLinesSerializer{}
var _ exporters.Serializer = exporters.BIOSerializer{}

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.DatasetAuditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ auth.AuthLogger = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.EventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskRunner = (*tasks.Client)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
