package upload

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/transfer"
	"github.com/crambrain/cram/internal/common"
	"github.com/crambrain/cram/internal/logging"
)

// Gateway is the slice of the backend boundary the pipeline needs.
type Gateway interface {
	Presign(ctx context.Context, filename string) (*api.PresignGrant, error)
	Ingest(ctx context.Context, fileURL, originalName string) (*api.IngestResult, error)
}

// Transferer performs the single PUT of stage two.
type Transferer interface {
	Put(ctx context.Context, url string, payload []byte, contentType string, onProgress func(float64)) transfer.Outcome
}

// Orchestrator runs one upload task at a time through
// presigning → transferring → ingesting. It exclusively owns the abort
// capability for the in-flight transfer and releases it on every terminal
// transition, error paths included.
type Orchestrator struct {
	gateway  Gateway
	transfer Transferer
	maxBytes int64
	log      logging.Logger

	mu       sync.Mutex
	task     *Task
	cancel   context.CancelFunc
	onUpdate func(Task)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxBytes overrides the upload size ceiling.
func WithMaxBytes(n int64) Option {
	return func(o *Orchestrator) { o.maxBytes = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithUpdateFunc registers an observer called after every task mutation
// with a snapshot. The observer must not call back into the orchestrator.
func WithUpdateFunc(fn func(Task)) Option {
	return func(o *Orchestrator) { o.onUpdate = fn }
}

// DefaultMaxBytes is the upload ceiling applied when none is configured.
const DefaultMaxBytes = 50 << 20 // 50 MiB

func NewOrchestrator(gateway Gateway, tr Transferer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway:  gateway,
		transfer: tr,
		maxBytes: DefaultMaxBytes,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Current returns a snapshot of the active or last finished task.
func (o *Orchestrator) Current() (Task, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.task == nil {
		return Task{}, false
	}
	return *o.task, true
}

// Cancel aborts the in-flight byte transfer. It is honored only while the
// task is transferring; in every other state it is a no-op. Once ingestion
// has started the pipeline runs to completion or failure.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.task == nil || o.task.Phase != PhaseTransferring || o.cancel == nil {
		return
	}
	o.cancel()
}

// Start validates f locally and, if it passes, runs the pipeline to its
// terminal phase, returning the final snapshot. Validation failures are
// returned synchronously without creating a task. Starting while a task is
// active returns common.ErrUploadInProgress; a finished task is replaced.
func (o *Orchestrator) Start(ctx context.Context, f File) (Task, error) {
	if err := validateFile(f, o.maxBytes); err != nil {
		return Task{}, err
	}

	o.mu.Lock()
	if o.task != nil && !o.task.Phase.Terminal() {
		o.mu.Unlock()
		return Task{}, common.ErrUploadInProgress
	}
	o.task = &Task{
		ID:       uuid.NewString(),
		Filename: f.Name,
		Size:     int64(len(f.Data)),
		Phase:    PhaseIdle,
	}
	o.mu.Unlock()

	return o.run(ctx, f), nil
}

func (o *Orchestrator) run(ctx context.Context, f File) Task {
	o.update(func(t *Task) {
		t.Phase = PhasePresigning
	})

	grant, err := o.gateway.Presign(ctx, f.Name)
	if err != nil {
		o.log.Error(ctx, "presign failed", "file", f.Name, "err", err)
		return o.fail("Processing failed. Please try again.")
	}

	o.update(func(t *Task) {
		t.Phase = PhaseTransferring
		t.Progress = presignedPercent
	})

	outcome := o.runTransfer(ctx, grant, f)
	switch outcome.Status {
	case transfer.StatusSuccess:
		// fall through to ingest
	case transfer.StatusCancelled:
		o.update(func(t *Task) {
			t.Phase = PhaseCancelled
			t.Progress = 0
			t.Notice = "Upload canceled."
		})
		return o.snapshot()
	default:
		o.log.Error(ctx, "transfer failed", "file", f.Name, "status", outcome.HTTPStatus, "err", outcome.Err)
		return o.fail(classifyTransfer(outcome))
	}

	o.update(func(t *Task) {
		t.Phase = PhaseIngesting
		t.Progress = transferPercent
	})

	res, err := o.gateway.Ingest(ctx, grant.FileURL, f.Name)
	if err != nil {
		o.log.Error(ctx, "ingest failed", "file", f.Name, "err", err)
		return o.fail("Processing failed. Please try again.")
	}

	o.update(func(t *Task) {
		t.Phase = PhaseComplete
		t.Progress = completePercent
		t.DocID = res.DocID
	})
	return o.snapshot()
}

// runTransfer acquires the abort capability for the duration of the PUT
// and guarantees its release on every exit path, so a stale handle can
// never be invoked after the transfer finished.
func (o *Orchestrator) runTransfer(ctx context.Context, grant *api.PresignGrant, f File) transfer.Outcome {
	tctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.cancel = nil
		o.mu.Unlock()
		cancel()
	}()

	return o.transfer.Put(tctx, grant.UploadURL, f.Data, AcceptedMediaType, func(fraction float64) {
		o.update(func(t *Task) {
			p := presignedPercent + int(fraction*float64(transferPercent-presignedPercent))
			if p > t.Progress {
				t.Progress = p
			}
		})
	})
}

// classifyTransfer maps a failed transfer outcome to user copy. The grant
// is short-lived and single-use, so an expired link and a missing response
// are the dominant real-world failures and get distinct, actionable text.
func classifyTransfer(out transfer.Outcome) string {
	switch {
	case out.Status == transfer.StatusNetworkError:
		return "Upload failed: could not reach storage. Check your connection and the server's CORS settings."
	case out.HTTPStatus == http.StatusForbidden:
		return "Upload failed: access denied. The upload link may have expired - please try again."
	default:
		return fmt.Sprintf("Upload failed with status %d.", out.HTTPStatus)
	}
}

func (o *Orchestrator) fail(notice string) Task {
	o.update(func(t *Task) {
		t.Phase = PhaseErrored
		t.Progress = 0
		t.Notice = notice
	})
	return o.snapshot()
}

// OnUpdate registers the observer notified after every task mutation,
// replacing any observer set at construction. Must not be called while a
// task is active.
func (o *Orchestrator) OnUpdate(fn func(Task)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onUpdate = fn
}

// update mutates the task under the lock and notifies the observer with a
// copy taken after the mutation.
func (o *Orchestrator) update(fn func(*Task)) {
	o.mu.Lock()
	fn(o.task)
	snap := *o.task
	fn2 := o.onUpdate
	o.mu.Unlock()

	if fn2 != nil {
		fn2(snap)
	}
}

func (o *Orchestrator) snapshot() Task {
	o.mu.Lock()
	defer o.mu.Unlock()
	return *o.task
}
