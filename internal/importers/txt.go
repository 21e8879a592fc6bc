package importers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single line of a txt or json upload.
const maxLineBytes = 16 << 20

// TextParser stores every non-blank line as a document.
type TextParser struct{}

func (TextParser) Format() string { return "txt" }

func (TextParser) Parse(r io.Reader) ([]RawDocument, error) {
	var docs []RawDocument
	err := scanLines(r, func(_ int, line string) error {
		docs = append(docs, RawDocument{Text: line})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// scanLines calls fn with every trimmed, non-blank line and its 1-based number.
func scanLines(r io.Reader, fn func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(skipBOM(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read lines: %w", err)
	}
	return nil
}

var _ Parser = TextParser{}
