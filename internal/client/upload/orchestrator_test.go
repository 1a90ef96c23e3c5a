package upload

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/transfer"
	"github.com/crambrain/cram/internal/common"
)

type stubGateway struct {
	presignErr error
	ingestErr  error

	presignCalls int
	ingestCalls  int
}

func (s *stubGateway) Presign(ctx context.Context, filename string) (*api.PresignGrant, error) {
	s.presignCalls++
	if s.presignErr != nil {
		return nil, s.presignErr
	}
	return &api.PresignGrant{
		UploadURL: "https://storage.example/put/" + filename,
		FileURL:   "https://storage.example/files/" + filename,
		FileID:    "fid-1",
	}, nil
}

func (s *stubGateway) Ingest(ctx context.Context, fileURL, originalName string) (*api.IngestResult, error) {
	s.ingestCalls++
	if s.ingestErr != nil {
		return nil, s.ingestErr
	}
	return &api.IngestResult{DocID: "doc-1", Pages: 4, Chunks: 20, Status: "ok"}, nil
}

type stubTransfer struct {
	outcome   transfer.Outcome
	fractions []float64
	blocking  bool
}

func (s *stubTransfer) Put(ctx context.Context, url string, payload []byte, contentType string, onProgress func(float64)) transfer.Outcome {
	for _, f := range s.fractions {
		if onProgress != nil {
			onProgress(f)
		}
	}
	if s.blocking {
		<-ctx.Done()
		return transfer.Outcome{Status: transfer.StatusCancelled}
	}
	return s.outcome
}

func pdf(name string, size int) File {
	return File{Name: name, MediaType: "application/pdf", Data: make([]byte, size)}
}

func TestStart_RejectsWrongMediaTypeBeforeAnyNetworkCall(t *testing.T) {
	gw := &stubGateway{}
	o := NewOrchestrator(gw, &stubTransfer{})

	_, err := o.Start(context.Background(), File{Name: "x.txt", MediaType: "text/plain", Data: []byte("hi")})

	require.ErrorIs(t, err, common.ErrUnsupportedMediaType)
	assert.Zero(t, gw.presignCalls, "validation failures must never reach the network")

	_, active := o.Current()
	assert.False(t, active, "no task may be created for a rejected file")
}

func TestStart_SizeBoundary(t *testing.T) {
	gw := &stubGateway{}
	o := NewOrchestrator(gw, &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusSuccess, HTTPStatus: 200}},
		WithMaxBytes(1024))

	t.Run("exactly at the ceiling passes", func(t *testing.T) {
		task, err := o.Start(context.Background(), pdf("ok.pdf", 1024))
		require.NoError(t, err)
		assert.Equal(t, PhaseComplete, task.Phase)
	})

	t.Run("one byte over fails", func(t *testing.T) {
		_, err := o.Start(context.Background(), pdf("big.pdf", 1025))
		require.ErrorIs(t, err, common.ErrFileTooLarge)
	})
}

func TestStart_SuccessScenario(t *testing.T) {
	var mu sync.Mutex
	var progress []int

	gw := &stubGateway{}
	tr := &stubTransfer{
		outcome:   transfer.Outcome{Status: transfer.StatusSuccess, HTTPStatus: 200},
		fractions: []float64{0.25, 0.5, 1.0},
	}
	o := NewOrchestrator(gw, tr, WithUpdateFunc(func(t Task) {
		mu.Lock()
		progress = append(progress, t.Progress)
		mu.Unlock()
	}))

	task, err := o.Start(context.Background(), pdf("notes.pdf", 2048))
	require.NoError(t, err)

	assert.Equal(t, PhaseComplete, task.Phase)
	assert.Equal(t, "doc-1", task.DocID)
	assert.Equal(t, 100, task.Progress)
	assert.Equal(t, 1, gw.presignCalls)
	assert.Equal(t, 1, gw.ingestCalls)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress must be monotone non-decreasing")
	}
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.Less(t, progress[len(progress)-2], 100, "100 is reached only at complete")
}

func TestStart_TransferForbiddenMentionsExpiredLink(t *testing.T) {
	gw := &stubGateway{}
	tr := &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusRemoteRejected, HTTPStatus: http.StatusForbidden}}
	o := NewOrchestrator(gw, tr)

	task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
	require.NoError(t, err)

	assert.Equal(t, PhaseErrored, task.Phase)
	assert.Zero(t, task.Progress, "progress resets on error")
	assert.Contains(t, task.Notice, "expired")
	assert.Zero(t, gw.ingestCalls, "ingest must not run after a failed transfer")
}

func TestStart_TransferNetworkError(t *testing.T) {
	tr := &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusNetworkError, Err: errors.New("dial refused")}}
	o := NewOrchestrator(&stubGateway{}, tr)

	task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
	require.NoError(t, err)

	assert.Equal(t, PhaseErrored, task.Phase)
	assert.Contains(t, task.Notice, "connection")
}

func TestStart_TransferOtherStatusIsStatusCoded(t *testing.T) {
	tr := &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusRemoteRejected, HTTPStatus: 500}}
	o := NewOrchestrator(&stubGateway{}, tr)

	task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
	require.NoError(t, err)
	assert.Contains(t, task.Notice, "500")
}

func TestStart_PresignFailure(t *testing.T) {
	gw := &stubGateway{presignErr: &api.Error{Op: "presign", Status: 502, Body: "bad gateway"}}
	o := NewOrchestrator(gw, &stubTransfer{})

	task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
	require.NoError(t, err)

	assert.Equal(t, PhaseErrored, task.Phase)
	assert.Zero(t, task.Progress)
	assert.Equal(t, "Processing failed. Please try again.", task.Notice, "transport detail must not leak into user copy")
}

func TestStart_IngestFailurePreservesGenericNotice(t *testing.T) {
	gw := &stubGateway{ingestErr: &api.Error{Op: "ingest", Status: 500, Body: "boom"}}
	tr := &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusSuccess, HTTPStatus: 200}}
	o := NewOrchestrator(gw, tr)

	task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
	require.NoError(t, err)

	assert.Equal(t, PhaseErrored, task.Phase)
	assert.Equal(t, "Processing failed. Please try again.", task.Notice)
}

func TestCancel_DuringTransferYieldsCancelledNotErrored(t *testing.T) {
	transferring := make(chan struct{})
	var once sync.Once

	gw := &stubGateway{}
	tr := &stubTransfer{blocking: true}
	o := NewOrchestrator(gw, tr, WithUpdateFunc(func(t Task) {
		if t.Phase == PhaseTransferring {
			once.Do(func() { close(transferring) })
		}
	}))

	done := make(chan Task, 1)
	go func() {
		task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
		if err != nil {
			t.Error(err)
		}
		done <- task
	}()

	select {
	case <-transferring:
	case <-time.After(2 * time.Second):
		t.Fatal("transfer never started")
	}
	o.Cancel()

	select {
	case task := <-done:
		assert.Equal(t, PhaseCancelled, task.Phase)
		assert.Zero(t, task.Progress, "cancel resets progress")
		assert.Equal(t, "Upload canceled.", task.Notice)
		assert.Zero(t, gw.ingestCalls)
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not finish after cancel")
	}
}

func TestCancel_OutsideTransferringIsNoOp(t *testing.T) {
	o := NewOrchestrator(&stubGateway{}, &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusSuccess, HTTPStatus: 200}})

	o.Cancel() // no task at all

	task, err := o.Start(context.Background(), pdf("notes.pdf", 10))
	require.NoError(t, err)
	require.Equal(t, PhaseComplete, task.Phase)

	o.Cancel() // terminal task
	snap, ok := o.Current()
	require.True(t, ok)
	assert.Equal(t, PhaseComplete, snap.Phase, "cancel after completion must not change state")
}

func TestStart_SecondUploadWhileActiveIsRejected(t *testing.T) {
	transferring := make(chan struct{})
	var once sync.Once

	o := NewOrchestrator(&stubGateway{}, &stubTransfer{blocking: true}, WithUpdateFunc(func(t Task) {
		if t.Phase == PhaseTransferring {
			once.Do(func() { close(transferring) })
		}
	}))

	go func() {
		_, _ = o.Start(context.Background(), pdf("first.pdf", 10))
	}()
	<-transferring

	_, err := o.Start(context.Background(), pdf("second.pdf", 10))
	require.ErrorIs(t, err, common.ErrUploadInProgress)

	o.Cancel()
}

func TestStart_NewTaskAfterTerminalReplacesOld(t *testing.T) {
	o := NewOrchestrator(&stubGateway{}, &stubTransfer{outcome: transfer.Outcome{Status: transfer.StatusSuccess, HTTPStatus: 200}})

	first, err := o.Start(context.Background(), pdf("a.pdf", 10))
	require.NoError(t, err)

	second, err := o.Start(context.Background(), pdf("b.pdf", 10))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "each file selection creates a fresh task")
	assert.Equal(t, "b.pdf", second.Filename)
}
