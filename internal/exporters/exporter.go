package exporters

import (
	"bytes"
	"fmt"
	"log"

	"github.com/mrlokans/doclabel/internal/entities"
	"github.com/mrlokans/doclabel/internal/metrics"
	"github.com/mrlokans/doclabel/internal/utils"
)

// DocumentSource loads the documents of a project that have annotations.
type DocumentSource interface {
	GetAnnotatedDocuments(project *entities.Project) ([]entities.Document, error)
}

// Output is a fully serialized download.
type Output struct {
	Data        []byte
	ContentType string
	Filename    string
	Documents   int
}

// Exporter serializes a project's annotated documents in memory so that
// a failure never leaves a half-written response behind.
type Exporter struct {
	source   DocumentSource
	registry *Registry
}

// NewExporter creates an exporter. A nil registry means DefaultRegistry.
func NewExporter(source DocumentSource, registry *Registry) *Exporter {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Exporter{source: source, registry: registry}
}

func (e *Exporter) Formats() []string {
	return e.registry.Formats()
}

// Export returns ErrUnsupportedFormat (wrapped) when no serializer handles format.
func (e *Exporter) Export(project *entities.Project, format string) (*Output, error) {
	serializer, err := e.registry.Get(format)
	if err != nil {
		return nil, err
	}

	docs, err := e.source.GetAnnotatedDocuments(project)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := serializer.Serialize(&buf, docs); err != nil {
		return nil, fmt.Errorf("failed to write %s export: %w", format, err)
	}

	metrics.Exports.WithLabelValues(format).Inc()
	log.Printf("[EXPORT] Serialized %d documents of project %d as %s", len(docs), project.ID, format)

	return &Output{
		Data:        buf.Bytes(),
		ContentType: serializer.ContentType(),
		Filename:    utils.ExportFilename(project.Name, serializer.Extension()),
		Documents:   len(docs),
	}, nil
}
