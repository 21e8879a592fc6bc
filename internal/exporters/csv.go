package exporters

import (
	"encoding/csv"
	"io"

	"github.com/mrlokans/doclabel/internal/entities"
)

// CSVSerializer writes Document.ToCSV rows with standard CSV quoting.
type CSVSerializer struct{}

func (CSVSerializer) Format() string      { return "csv" }
func (CSVSerializer) ContentType() string { return "text/csv" }
func (CSVSerializer) Extension() string   { return "csv" }

func (CSVSerializer) Serialize(w io.Writer, docs []entities.Document) error {
	writer := csv.NewWriter(w)
	for i := range docs {
		if err := writer.WriteAll(docs[i].ToCSV()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

var _ Serializer = CSVSerializer{}
