package exporters

import (
	"bufio"
	"io"

	"github.com/mrlokans/doclabel/internal/entities"
)

// BIOSerializer writes Document.ToBIO blocks separated by a blank line.
type BIOSerializer struct{}

func (BIOSerializer) Format() string      { return "bio" }
func (BIOSerializer) ContentType() string { return "text/plain" }
func (BIOSerializer) Extension() string   { return "txt" }

func (BIOSerializer) Serialize(w io.Writer, docs []entities.Document) error {
	bw := bufio.NewWriter(w)
	for i := range docs {
		if _, err := bw.WriteString(docs[i].ToBIO() + "\n\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var _ Serializer = BIOSerializer{}
