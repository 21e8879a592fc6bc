package importers

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedFormat is returned for a format tag no parser is registered for.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// RawDocument is a single record read from an uploaded file.
type RawDocument struct {
	Text     string
	Metadata string // JSON object, empty when the format carries none
}

// Parser reads every record of one file format.
//
// Implementations:
//   - CSVParser (csv.go)
//   - JSONLinesParser (json.go)
//   - TextParser (txt.go)
//   - ExcelParser (excel.go)
type Parser interface {
	// Format is the tag the upload form sends for this parser.
	Format() string
	// Parse reads all records. Any error aborts the whole import.
	Parse(r io.Reader) ([]RawDocument, error)
}

// Registry maps format tags to parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// DefaultRegistry knows every format the upload page offers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		CSVParser{},
		JSONLinesParser{},
		TextParser{},
		NewExcelParser(),
	)
}

// Register adds p, replacing any parser with the same format tag.
func (r *Registry) Register(p Parser) {
	if _, exists := r.parsers[p.Format()]; !exists {
		r.order = append(r.order, p.Format())
	}
	r.parsers[p.Format()] = p
}

func (r *Registry) Get(format string) (Parser, error) {
	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return p, nil
}

// Formats lists the registered format tags in registration order.
func (r *Registry) Formats() []string {
	return append([]string(nil), r.order...)
}
