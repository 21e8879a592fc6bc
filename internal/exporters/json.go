package exporters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrlokans/doclabel/internal/entities"
)

// JSONLinesSerializer writes one Document.ToJSON object per line. Non-ASCII
// and HTML characters are written as-is rather than escaped.
type JSONLinesSerializer struct{}

func (JSONLinesSerializer) Format() string      { return "json" }
func (JSONLinesSerializer) ContentType() string { return "text/json" }
func (JSONLinesSerializer) Extension() string   { return "json" }

func (JSONLinesSerializer) Serialize(w io.Writer, docs []entities.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range docs {
		// Encode terminates every value with a newline
		if err := enc.Encode(docs[i].ToJSON()); err != nil {
			return fmt.Errorf("document %d: %w", docs[i].ID, err)
		}
	}
	return nil
}

var _ Serializer = JSONLinesSerializer{}
