// Package interfaces documents the core abstractions used throughout the application.
//
// The interfaces themselves live next to their consumers; this package only
// lists them and holds the compile-time checks in checks.go.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ProjectStore: Projects, labels, dataset pages and annotations (internal/http/stores.go)
//   - DocumentStore: Atomic bulk insert of imported documents (internal/importers/pipeline.go)
//   - DocumentSource: Annotated documents for export (internal/exporters/exporter.go)
//   - Pinger: Database liveness for the health check (internal/http/health.go)
//
// ## Dataset Interfaces
//
//   - Parser: One upload format (internal/importers/parser.go)
//   - Serializer: One download format (internal/exporters/serializer.go)
//   - DocumentImporter / DatasetExporter: What the HTTP layer needs from the pipelines (internal/http/stores.go)
//
// ## Audit Interfaces
//
//   - DatasetAuditor: Import and export events (internal/http/stores.go)
//   - AuditReader: Event listing and failure counts (internal/http/audit.go)
//   - AuthLogger: Login attempts (internal/auth/handlers.go)
//   - AuditEventCleaner / EventCleaner: Retention cleanup (internal/tasks, internal/scheduler)
//
// ## Background Task Interfaces
//
//   - TaskRunner: Enqueue and inspect tasks over HTTP (internal/http/tasks.go)
//   - TaskEnqueuer: Scheduled cleanup runs (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Upload Format
//
//  1. Implement Parser in internal/importers/
//
//     type TSVParser struct{}
//
//     func (TSVParser) Format() string { return "tsv" }
//
//     func (TSVParser) Parse(r io.Reader) ([]RawDocument, error) {
//         // One RawDocument per record
//     }
//
//     var _ Parser = TSVParser{}
//
//  2. Register it in DefaultRegistry. The upload form lists every
//     registered format, so no template change is needed.
//
// # Adding a New Download Format
//
//  1. Implement Serializer in internal/exporters/
//
//     type ConllSerializer struct{}
//
//     func (ConllSerializer) Format() string      { return "conll" }
//     func (ConllSerializer) ContentType() string { return "text/plain" }
//     func (ConllSerializer) Extension() string   { return "conll" }
//     func (ConllSerializer) Serialize(w io.Writer, docs []entities.Document) error
//
//  2. Register it in DefaultRegistry.
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to the AutoMigrate list in internal/database/database.go
//
//  4. Add compile-time check to checks.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
