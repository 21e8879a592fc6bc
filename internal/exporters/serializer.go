// Package exporters writes a project's annotated documents as downloadable files.
package exporters

import (
	"errors"
	"fmt"
	"io"

	"github.com/mrlokans/doclabel/internal/entities"
)

// ErrUnsupportedFormat is returned for a format tag no serializer is registered for.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Serializer writes documents in one download format.
//
// Implementations:
//   - CSVSerializer (csv.go)
//   - JSONLinesSerializer (json.go)
//   - BIOSerializer (bio.go)
type Serializer interface {
	Format() string
	ContentType() string
	Extension() string
	Serialize(w io.Writer, docs []entities.Document) error
}

// Registry maps format tags to serializers.
type Registry struct {
	serializers map[string]Serializer
	order       []string
}

func NewRegistry(serializers ...Serializer) *Registry {
	r := &Registry{serializers: make(map[string]Serializer, len(serializers))}
	for _, s := range serializers {
		r.Register(s)
	}
	return r
}

// DefaultRegistry knows every format the download page offers.
func DefaultRegistry() *Registry {
	return NewRegistry(CSVSerializer{}, JSONLinesSerializer{}, BIOSerializer{})
}

func (r *Registry) Register(s Serializer) {
	if _, exists := r.serializers[s.Format()]; !exists {
		r.order = append(r.order, s.Format())
	}
	r.serializers[s.Format()] = s
}

func (r *Registry) Get(format string) (Serializer, error) {
	s, ok := r.serializers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return s, nil
}

func (r *Registry) Formats() []string {
	return append([]string(nil), r.order...)
}
