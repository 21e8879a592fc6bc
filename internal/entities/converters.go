package entities

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// BIO tag values used by ToBIO.
const (
	TagOutside = "O"
	TagBegin   = "B-"
	TagInside  = "I-"
)

// DocumentJSON is the JSON lines representation of an annotated document.
// Exactly one of Labels, Entities or Sentences is set, depending on the project type.
type DocumentJSON struct {
	DocID     uint            `json:"doc_id"`
	Text      string          `json:"text"`
	Labels    []string        `json:"labels,omitempty"`
	Entities  [][]any         `json:"entities,omitempty"`
	Sentences []string        `json:"sentences,omitempty"`
	Username  string          `json:"username"`
	Metadata  json.RawMessage `json:"metadata"`
}

// ToCSV flattens the document into CSV rows, one per annotation.
// The document text is always the first column so that the file can be
// uploaded again with the csv importer.
func (d *Document) ToCSV() [][]string {
	var rows [][]string

	switch d.Project.ProjectType {
	case ProjectTypeSequenceLabeling:
		for _, a := range d.SeqAnnotations {
			rows = append(rows, []string{
				d.Text,
				strconv.Itoa(a.StartOffset),
				strconv.Itoa(a.EndOffset),
				a.Label.Text,
				a.User.Username,
			})
		}
	case ProjectTypeSeq2seq:
		for _, a := range d.Seq2seqAnnotations {
			rows = append(rows, []string{d.Text, a.Text, a.User.Username})
		}
	default:
		for _, a := range d.DocAnnotations {
			rows = append(rows, []string{d.Text, a.Label.Text, a.User.Username})
		}
	}

	return rows
}

// ToJSON builds the JSON lines record for the document.
func (d *Document) ToJSON() DocumentJSON {
	out := DocumentJSON{
		DocID:    d.ID,
		Text:     d.Text,
		Metadata: json.RawMessage(d.Metadata),
	}
	if d.Metadata == "" {
		out.Metadata = json.RawMessage(EmptyMetadata)
	}

	switch d.Project.ProjectType {
	case ProjectTypeSequenceLabeling:
		out.Entities = make([][]any, 0, len(d.SeqAnnotations))
		for _, a := range d.SeqAnnotations {
			out.Entities = append(out.Entities, []any{a.StartOffset, a.EndOffset, a.Label.Text})
		}
		if len(d.SeqAnnotations) > 0 {
			out.Username = d.SeqAnnotations[0].User.Username
		}
	case ProjectTypeSeq2seq:
		out.Sentences = make([]string, 0, len(d.Seq2seqAnnotations))
		for _, a := range d.Seq2seqAnnotations {
			out.Sentences = append(out.Sentences, a.Text)
		}
		if len(d.Seq2seqAnnotations) > 0 {
			out.Username = d.Seq2seqAnnotations[0].User.Username
		}
	default:
		out.Labels = make([]string, 0, len(d.DocAnnotations))
		for _, a := range d.DocAnnotations {
			out.Labels = append(out.Labels, a.Label.Text)
		}
		if len(d.DocAnnotations) > 0 {
			out.Username = d.DocAnnotations[0].User.Username
		}
	}

	return out
}

// ToBIO renders the document as one "<rune> <tag>" line per non-whitespace rune.
// Offsets are rune offsets; spans outside the text are clipped and later spans
// overwrite earlier ones where they overlap. Projects other than sequence
// labeling have no spans, so every rune is tagged O.
func (d *Document) ToBIO() string {
	runes := []rune(d.Text)
	tags := make([]string, len(runes))
	for i := range tags {
		tags[i] = TagOutside
	}

	if d.Project.ProjectType == ProjectTypeSequenceLabeling {
		for _, a := range d.SeqAnnotations {
			start := max(a.StartOffset, 0)
			end := min(a.EndOffset, len(runes))
			for i := start; i < end; i++ {
				if i == start {
					tags[i] = TagBegin + a.Label.Text
				} else {
					tags[i] = TagInside + a.Label.Text
				}
			}
		}
	}

	lines := make([]string, 0, len(runes))
	for i, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		lines = append(lines, string(r)+" "+tags[i])
	}

	return strings.Join(lines, "\n")
}
