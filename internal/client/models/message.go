package models

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Assistant turns may embed [p.N] page
// markers in Text; those markers point into Citations by page number and
// are not a separate source of truth.
type Message struct {
	// ID is a stable identifier for list rendering and persistence.
	ID string

	Role Role

	Text string

	// Citations are the sources attached to an assistant turn, in the
	// order the server returned them.
	Citations []Citation

	CreatedAt time.Time
}

// NewMessage builds a message with a fresh id and the current time.
func NewMessage(role Role, text string, citations []Citation) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Citations: citations,
		CreatedAt: time.Now().UTC(),
	}
}

// CitationsForPage returns the message's citations whose page matches page,
// preserving citation-list order.
func (m *Message) CitationsForPage(page int) []Citation {
	var out []Citation
	for _, c := range m.Citations {
		if c.Page == page {
			out = append(out, c)
		}
	}
	return out
}
