package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionKind classifies a quiz question. The set is closed: decoding an
// unknown kind fails at the gateway boundary rather than leaking a partial
// question inward.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
	KindCloze          QuestionKind = "cloze"
)

// QuestionDetail is the kind-specific part of a question. Implementations
// are exactly MultipleChoice, ShortAnswer and Cloze.
type QuestionDetail interface {
	Kind() QuestionKind

	// Grade reports whether the given response is correct.
	Grade(response string) bool
}

// MultipleChoice carries an options list and the one correct option string.
type MultipleChoice struct {
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

func (MultipleChoice) Kind() QuestionKind { return KindMultipleChoice }

// Grade accepts the full option text or the letter the option is listed
// under, with or without the closing parenthesis ("b" and "b)" both name
// the second option).
func (q MultipleChoice) Grade(response string) bool {
	r := strings.TrimSpace(response)
	if letter := strings.TrimSuffix(r, ")"); len(letter) == 1 {
		if i := int(strings.ToLower(letter)[0]) - 'a'; i >= 0 && i < len(q.Options) &&
			strings.EqualFold(strings.TrimSpace(q.Options[i]), strings.TrimSpace(q.Answer)) {
			return true
		}
	}
	return strings.EqualFold(r, strings.TrimSpace(q.Answer))
}

// ShortAnswer expects a free-text answer.
type ShortAnswer struct {
	Answer string `json:"answer"`
}

func (ShortAnswer) Kind() QuestionKind { return KindShortAnswer }

func (q ShortAnswer) Grade(response string) bool {
	return strings.EqualFold(strings.TrimSpace(response), strings.TrimSpace(q.Answer))
}

// Cloze presents a prompt containing a blank marker; the answer is the
// fill text.
type Cloze struct {
	Answer string `json:"answer"`
}

func (Cloze) Kind() QuestionKind { return KindCloze }

func (q Cloze) Grade(response string) bool {
	return strings.EqualFold(strings.TrimSpace(response), strings.TrimSpace(q.Answer))
}

// Question is one generated quiz item. Every question carries its source
// page and quote so it stays citable like an answer.
type Question struct {
	Prompt string

	// Page is the 1-based source page.
	Page int

	// Quote is the verbatim source excerpt the question was built from.
	Quote string

	// Explanation and Difficulty are optional extras the server may emit.
	Explanation string
	Difficulty  string

	Detail QuestionDetail
}

// Kind returns the kind of the underlying detail.
func (q *Question) Kind() QuestionKind { return q.Detail.Kind() }

// Grade reports whether response answers the question correctly.
func (q *Question) Grade(response string) bool { return q.Detail.Grade(response) }

// UnwrapQuestion builds the kind-specific detail from a type tag and the
// raw question body. Unknown tags are an error, keeping the union closed.
func UnwrapQuestion(kind QuestionKind, raw json.RawMessage) (QuestionDetail, error) {
	switch kind {
	case KindMultipleChoice:
		var v MultipleChoice
		return v, json.Unmarshal(raw, &v)
	case KindShortAnswer:
		var v ShortAnswer
		return v, json.Unmarshal(raw, &v)
	case KindCloze:
		var v Cloze
		return v, json.Unmarshal(raw, &v)
	default:
		return nil, fmt.Errorf("unknown question kind %q", kind)
	}
}
