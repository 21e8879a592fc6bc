package importers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMissingText = errors.New(`missing "text" field`)

type jsonLine struct {
	Text     *string         `json:"text"`
	Metadata json.RawMessage `json:"metadata"`
}

// JSONLinesParser reads one JSON object per line and stores its "text" field.
// A "metadata" object, as written by the json export, is kept with the document.
// A single malformed line fails the whole file.
type JSONLinesParser struct{}

func (JSONLinesParser) Format() string { return "json" }

func (JSONLinesParser) Parse(r io.Reader) ([]RawDocument, error) {
	var docs []RawDocument
	err := scanLines(r, func(lineNum int, line string) error {
		var entry jsonLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		if entry.Text == nil {
			return fmt.Errorf("line %d: %w", lineNum, ErrMissingText)
		}

		text := strings.TrimSpace(*entry.Text)
		if text == "" {
			return nil
		}
		docs = append(docs, RawDocument{Text: text, Metadata: metadataObject(entry.Metadata)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// metadataObject returns raw when it is a JSON object and "" otherwise.
func metadataObject(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return ""
	}
	return compact.String()
}

var _ Parser = JSONLinesParser{}
