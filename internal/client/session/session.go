// Package session maintains one ordered conversation: it issues
// ask-requests, attaches normalized citations to assistant turns, and
// keeps the transcript append-only for observers.
package session

import (
	"context"
	"sync"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/citation"
	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/logging"
)

// ErrorReply is the substitute assistant turn shown when an ask fails.
// Failures surface inline in the conversation, never as a blocking error.
const ErrorReply = "Sorry, I encountered an error answering that. Please try again."

// DefaultTopK is the retrieval depth requested per question.
const DefaultTopK = 6

// Asker is the slice of the gateway the session needs.
type Asker interface {
	Ask(ctx context.Context, req api.AskRequest) (*api.AskResult, error)
}

// Session is one conversation, optionally scoped to a document. The
// transcript is append-only; a monotonic sequence number per ask discards
// responses that arrive after a newer response was already applied.
type Session struct {
	asker Asker
	log   logging.Logger
	topK  int

	mu       sync.Mutex
	docID    string
	pages    int
	messages []models.Message
	seq      uint64
	applied  uint64
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithTopK(k int) Option {
	return func(s *Session) { s.topK = k }
}

func New(asker Asker, opts ...Option) *Session {
	s := &Session{asker: asker, topK: DefaultTopK}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrNop(s.log)
	return s
}

// SetDocument scopes subsequent questions to a document and records its
// page count for citation clamping. An empty docID widens the session
// back to all documents.
func (s *Session) SetDocument(docID string, pages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docID = docID
	s.pages = pages
}

// Restore seeds the transcript with previously saved turns, replacing
// whatever is present. Intended for loading cached history before the
// first Ask.
func (s *Session) Restore(msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]models.Message, len(msgs))
	copy(s.messages, msgs)
}

// DocID returns the document the session is scoped to, "" when unscoped.
func (s *Session) DocID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docID
}

// Messages returns a copy of the transcript in order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Ask appends the user turn, issues the request, and appends the
// assistant turn carrying the answer and its normalized citations. On
// failure the assistant turn is the substitute ErrorReply. If a newer
// ask was applied while this one was in flight, the stale response is
// discarded: the returned message is what would have been appended, but
// the transcript keeps only the newer turn's answer.
func (s *Session) Ask(ctx context.Context, query string) models.Message {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	docID, pages := s.docID, s.pages
	s.messages = append(s.messages, models.NewMessage(models.RoleUser, query, nil))
	s.mu.Unlock()

	res, err := s.asker.Ask(ctx, api.AskRequest{Query: query, DocID: docID, TopK: s.topK})

	var reply models.Message
	if err != nil {
		s.log.Error(ctx, "ask failed", "query", query, "err", err)
		reply = models.NewMessage(models.RoleAssistant, ErrorReply, nil)
	} else {
		reply = models.NewMessage(models.RoleAssistant, res.Answer,
			citation.Normalize(res.Citations, pages))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.log.Debug(ctx, "discarding stale ask response", "seq", seq, "applied", s.applied)
		return reply
	}
	s.applied = seq
	s.messages = append(s.messages, reply)
	return reply
}
