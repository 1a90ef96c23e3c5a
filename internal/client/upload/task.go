// Package upload drives the three-stage upload pipeline: presign, direct
// PUT to storage, then server-side ingest. It owns all progress mapping and
// the cancellation capability for the in-flight transfer.
package upload

// Phase is the lifecycle state of one upload task.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhasePresigning   Phase = "presigning"
	PhaseTransferring Phase = "transferring"
	PhaseIngesting    Phase = "ingesting"
	PhaseComplete     Phase = "complete"
	PhaseErrored      Phase = "errored"
	PhaseCancelled    Phase = "cancelled"
)

// Terminal reports whether the phase ends the task.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseErrored || p == PhaseCancelled
}

// Overall progress is split into bands so the UI shows one continuous,
// monotonically increasing percentage across all three stages instead of
// resetting between them.
const (
	presignedPercent = 10  // presign completed
	transferPercent  = 80  // byte transfer completed
	completePercent  = 100 // ingest completed
)

// Task is a read-only snapshot of one in-flight or finished upload. The
// orchestrator is the only writer; UI surfaces observe and never mutate.
type Task struct {
	ID       string
	Filename string
	Size     int64

	Phase Phase

	// Progress is the overall percentage in [0,100]. Monotone
	// non-decreasing while the task is active; reset to 0 on error and on
	// cancel.
	Progress int

	// Notice is user-facing copy for terminal states: a classified failure
	// message for PhaseErrored, an informational line for PhaseCancelled.
	Notice string

	// DocID is set once ingestion completes.
	DocID string
}
