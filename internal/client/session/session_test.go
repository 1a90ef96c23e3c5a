package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/models"
)

type stubAsker struct {
	fn func(ctx context.Context, req api.AskRequest) (*api.AskResult, error)
}

func (s *stubAsker) Ask(ctx context.Context, req api.AskRequest) (*api.AskResult, error) {
	return s.fn(ctx, req)
}

func TestAsk_AppendsUserAndAssistantTurns(t *testing.T) {
	var got api.AskRequest
	asker := &stubAsker{fn: func(_ context.Context, req api.AskRequest) (*api.AskResult, error) {
		got = req
		return &api.AskResult{
			Answer:    "ATP is made in mitochondria [p.3].",
			Citations: []models.Citation{{DocID: "d1", Page: 3, Quote: "ATP"}},
		}, nil
	}}

	s := New(asker)
	s.SetDocument("d1", 10)

	reply := s.Ask(context.Background(), "where is ATP made?")

	assert.Equal(t, "d1", got.DocID)
	assert.Equal(t, DefaultTopK, got.TopK)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "where is ATP made?", msgs[0].Text)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, reply.ID, msgs[1].ID)
	require.Len(t, msgs[1].Citations, 1)
	assert.Equal(t, 3, msgs[1].Citations[0].Page)
}

func TestRestore_SeedsTranscriptBeforeFirstAsk(t *testing.T) {
	asker := &stubAsker{fn: func(_ context.Context, _ api.AskRequest) (*api.AskResult, error) {
		return &api.AskResult{Answer: "fresh answer"}, nil
	}}

	s := New(asker)
	saved := []models.Message{
		models.NewMessage(models.RoleUser, "old question", nil),
		models.NewMessage(models.RoleAssistant, "old answer", nil),
	}
	s.Restore(saved)

	s.Ask(context.Background(), "new question")

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "old question", msgs[0].Text)
	assert.Equal(t, "old answer", msgs[1].Text)
	assert.Equal(t, "fresh answer", msgs[3].Text)

	// the seed slice is copied, not aliased
	saved[0].Text = "mutated"
	assert.Equal(t, "old question", s.Messages()[0].Text)
}

func TestAsk_ClampsCitationPagesToDocument(t *testing.T) {
	asker := &stubAsker{fn: func(_ context.Context, _ api.AskRequest) (*api.AskResult, error) {
		return &api.AskResult{
			Answer:    "see [p.99]",
			Citations: []models.Citation{{Page: 99}, {Page: 0}},
		}, nil
	}}

	s := New(asker)
	s.SetDocument("d1", 10)

	reply := s.Ask(context.Background(), "q")

	require.Len(t, reply.Citations, 2)
	assert.Equal(t, 10, reply.Citations[0].Page)
	assert.Equal(t, 1, reply.Citations[1].Page)
}

func TestAsk_FailureBecomesSubstituteAssistantTurn(t *testing.T) {
	asker := &stubAsker{fn: func(_ context.Context, _ api.AskRequest) (*api.AskResult, error) {
		return nil, errors.New("boom")
	}}

	s := New(asker)
	reply := s.Ask(context.Background(), "q")

	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.Equal(t, ErrorReply, reply.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 2, "the conversation stays usable after a failure")
	assert.Equal(t, ErrorReply, msgs[1].Text)
}

func TestAsk_StaleResponseIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	release := make(chan struct{})

	asker := &stubAsker{fn: func(_ context.Context, req api.AskRequest) (*api.AskResult, error) {
		if req.Query == "slow" {
			close(slowStarted)
			<-release
			return &api.AskResult{Answer: "slow answer"}, nil
		}
		return &api.AskResult{Answer: "fast answer"}, nil
	}}

	s := New(asker)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Ask(context.Background(), "slow")
	}()

	select {
	case <-slowStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("slow ask never started")
	}

	s.Ask(context.Background(), "fast")
	close(release)
	wg.Wait()

	var answers []string
	for _, m := range s.Messages() {
		if m.Role == models.RoleAssistant {
			answers = append(answers, m.Text)
		}
	}
	assert.Equal(t, []string{"fast answer"}, answers, "a response older than the latest applied one must not land in the transcript")
}

func TestSetDocument_EmptyWidensScope(t *testing.T) {
	var got api.AskRequest
	asker := &stubAsker{fn: func(_ context.Context, req api.AskRequest) (*api.AskResult, error) {
		got = req
		return &api.AskResult{Answer: "a"}, nil
	}}

	s := New(asker, WithTopK(12))
	s.SetDocument("d1", 5)
	s.SetDocument("", 0)

	s.Ask(context.Background(), "q")

	assert.Empty(t, got.DocID)
	assert.Equal(t, 12, got.TopK)
	assert.Empty(t, s.DocID())
}
