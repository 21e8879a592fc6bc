package importers

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// CSVParser takes the first field of every row as the document text.
// Further columns, such as the ones a csv export adds, are ignored.
type CSVParser struct{}

func (CSVParser) Format() string { return "csv" }

func (CSVParser) Parse(r io.Reader) ([]RawDocument, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	var docs []RawDocument
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		text := strings.TrimSpace(record[0])
		if text == "" {
			continue
		}
		docs = append(docs, RawDocument{Text: text})
	}

	return docs, nil
}

// skipBOM drops a leading UTF-8 byte order mark, as written by spreadsheet tools.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

var _ Parser = CSVParser{}
