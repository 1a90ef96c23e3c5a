package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapQuestion_Kinds(t *testing.T) {
	tests := []struct {
		name string
		kind QuestionKind
		raw  string
		want QuestionDetail
	}{
		{
			name: "multiple choice",
			kind: KindMultipleChoice,
			raw:  `{"options":["a","b","c"],"answer":"b"}`,
			want: MultipleChoice{Options: []string{"a", "b", "c"}, Answer: "b"},
		},
		{
			name: "short answer",
			kind: KindShortAnswer,
			raw:  `{"answer":"mitochondria"}`,
			want: ShortAnswer{Answer: "mitochondria"},
		},
		{
			name: "cloze",
			kind: KindCloze,
			raw:  `{"answer":"osmosis"}`,
			want: Cloze{Answer: "osmosis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnwrapQuestion(tt.kind, json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, got.Kind())
		})
	}
}

func TestUnwrapQuestion_UnknownKindFails(t *testing.T) {
	_, err := UnwrapQuestion(QuestionKind("essay"), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown question kind")
}

func TestQuestion_Grade(t *testing.T) {
	tests := []struct {
		name     string
		detail   QuestionDetail
		response string
		want     bool
	}{
		{"mc exact", MultipleChoice{Answer: "Golgi"}, "Golgi", true},
		{"mc case-insensitive", MultipleChoice{Answer: "Golgi"}, "golgi", true},
		{"mc wrong", MultipleChoice{Answer: "Golgi"}, "Ribosome", false},
		{"mc option letter", MultipleChoice{Options: []string{"Mitochondria", "Nucleus"}, Answer: "Mitochondria"}, "a", true},
		{"mc option letter uppercase", MultipleChoice{Options: []string{"Mitochondria", "Nucleus"}, Answer: "Mitochondria"}, "A", true},
		{"mc option letter with paren", MultipleChoice{Options: []string{"Mitochondria", "Nucleus"}, Answer: "Nucleus"}, "b)", true},
		{"mc wrong option letter", MultipleChoice{Options: []string{"Mitochondria", "Nucleus"}, Answer: "Mitochondria"}, "b", false},
		{"mc letter beyond options", MultipleChoice{Options: []string{"Mitochondria", "Nucleus"}, Answer: "Mitochondria"}, "c", false},
		{"short trims whitespace", ShortAnswer{Answer: "ATP"}, "  atp ", true},
		{"cloze fill", Cloze{Answer: "diffusion"}, "Diffusion", true},
		{"cloze wrong", Cloze{Answer: "diffusion"}, "osmosis", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Prompt: "p", Page: 1, Quote: "q", Detail: tt.detail}
			assert.Equal(t, tt.want, q.Grade(tt.response))
		})
	}
}

func TestCitation_PageLevel(t *testing.T) {
	c := Citation{DocID: "d1", Page: 3}
	assert.True(t, c.PageLevel())

	c.BBox = &BoundingBox{X0: 1, Y0: 2, X1: 3, Y1: 4}
	assert.False(t, c.PageLevel())
}

func TestDocument_PreviewURL(t *testing.T) {
	d := Document{PreviewURLs: []string{"u1", "u2"}}

	assert.Equal(t, "u1", d.PreviewURL(1))
	assert.Equal(t, "u2", d.PreviewURL(2))
	assert.Empty(t, d.PreviewURL(0))
	assert.Empty(t, d.PreviewURL(3))
}

func TestMessage_CitationsForPage(t *testing.T) {
	m := NewMessage(RoleAssistant, "see [p.2]", []Citation{
		{DocID: "d", Page: 2, Quote: "first"},
		{DocID: "d", Page: 5, Quote: "other"},
		{DocID: "d", Page: 2, Quote: "second"},
	})

	require.NotEmpty(t, m.ID)
	got := m.CitationsForPage(2)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Quote)
	assert.Equal(t, "second", got[1].Quote, "citation-list order must be preserved")
	assert.Empty(t, m.CitationsForPage(9))
}
