package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classificationDoc() *Document {
	alice := User{Username: "alice"}
	bob := User{Username: "bob"}
	return &Document{
		ID:       7,
		Text:     "Great movie",
		Metadata: `{"source":"imdb"}`,
		Project:  Project{ProjectType: ProjectTypeDocumentClassification},
		DocAnnotations: []DocumentAnnotation{
			{Label: Label{Text: "positive"}, User: alice},
			{Label: Label{Text: "fun"}, User: bob},
		},
	}
}

func sequenceDoc() *Document {
	return &Document{
		ID:      3,
		Text:    "Go to 東京 now",
		Project: Project{ProjectType: ProjectTypeSequenceLabeling},
		SeqAnnotations: []SequenceAnnotation{
			{StartOffset: 6, EndOffset: 8, Label: Label{Text: "LOC"}, User: User{Username: "carol"}},
		},
	}
}

func TestDocument_ToCSV(t *testing.T) {
	t.Run("classification has one row per label with text first", func(t *testing.T) {
		rows := classificationDoc().ToCSV()
		assert.Equal(t, [][]string{
			{"Great movie", "positive", "alice"},
			{"Great movie", "fun", "bob"},
		}, rows)
	})

	t.Run("sequence labeling has one row per span", func(t *testing.T) {
		rows := sequenceDoc().ToCSV()
		assert.Equal(t, [][]string{{"Go to 東京 now", "6", "8", "LOC", "carol"}}, rows)
	})

	t.Run("seq2seq has one row per output", func(t *testing.T) {
		doc := &Document{
			Text:               "hello",
			Project:            Project{ProjectType: ProjectTypeSeq2seq},
			Seq2seqAnnotations: []Seq2seqAnnotation{{Text: "bonjour", User: User{Username: "dan"}}},
		}
		assert.Equal(t, [][]string{{"hello", "bonjour", "dan"}}, doc.ToCSV())
	})

	t.Run("no annotations yields no rows", func(t *testing.T) {
		doc := &Document{Text: "x", Project: Project{ProjectType: ProjectTypeDocumentClassification}}
		assert.Empty(t, doc.ToCSV())
	})
}

func TestDocument_ToJSON(t *testing.T) {
	t.Run("classification", func(t *testing.T) {
		data, err := json.Marshal(classificationDoc().ToJSON())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, float64(7), decoded["doc_id"])
		assert.Equal(t, "Great movie", decoded["text"])
		assert.Equal(t, []any{"positive", "fun"}, decoded["labels"])
		assert.Equal(t, "alice", decoded["username"])
		assert.Equal(t, map[string]any{"source": "imdb"}, decoded["metadata"])
		assert.NotContains(t, decoded, "entities")
	})

	t.Run("sequence labeling entities", func(t *testing.T) {
		out := sequenceDoc().ToJSON()
		assert.Equal(t, [][]any{{6, 8, "LOC"}}, out.Entities)
		assert.Equal(t, "carol", out.Username)
		assert.JSONEq(t, `{}`, string(out.Metadata))
	})

	t.Run("seq2seq sentences", func(t *testing.T) {
		doc := &Document{
			Text:    "hi",
			Project: Project{ProjectType: ProjectTypeSeq2seq},
			Seq2seqAnnotations: []Seq2seqAnnotation{
				{Text: "salut", User: User{Username: "eve"}},
				{Text: "coucou", User: User{Username: "eve"}},
			},
		}
		out := doc.ToJSON()
		assert.Equal(t, []string{"salut", "coucou"}, out.Sentences)
		assert.Nil(t, out.Labels)
	})
}

func TestDocument_ToBIO(t *testing.T) {
	t.Run("tags span runes and skips whitespace", func(t *testing.T) {
		expected := "G O\no O\nt O\no O\n東 B-LOC\n京 I-LOC\nn O\no O\nw O"
		assert.Equal(t, expected, sequenceDoc().ToBIO())
	})

	t.Run("clips spans past the end of the text", func(t *testing.T) {
		doc := &Document{
			Text:    "abc",
			Project: Project{ProjectType: ProjectTypeSequenceLabeling},
			SeqAnnotations: []SequenceAnnotation{
				{StartOffset: 1, EndOffset: 10, Label: Label{Text: "X"}},
			},
		}
		assert.Equal(t, "a O\nb B-X\nc I-X", doc.ToBIO())
	})

	t.Run("classification projects are all outside", func(t *testing.T) {
		doc := &Document{Text: "ab", Project: Project{ProjectType: ProjectTypeDocumentClassification}}
		assert.Equal(t, "a O\nb O", doc.ToBIO())
	})
}

func TestProject_TemplateName(t *testing.T) {
	tests := []struct {
		projectType ProjectType
		expected    string
	}{
		{ProjectTypeDocumentClassification, "annotation/document_classification.html"},
		{ProjectTypeSequenceLabeling, "annotation/sequence_labeling.html"},
		{ProjectTypeSeq2seq, "annotation/seq2seq.html"},
	}

	for _, tt := range tests {
		t.Run(string(tt.projectType), func(t *testing.T) {
			p := &Project{ProjectType: tt.projectType}
			assert.Equal(t, tt.expected, p.TemplateName())
			assert.True(t, tt.projectType.Valid())
		})
	}

	assert.False(t, ProjectType("Unknown").Valid())
}
