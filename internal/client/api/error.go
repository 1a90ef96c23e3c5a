package api

import "fmt"

// Error is the uniform failure type thrown by the gateway. It carries the
// HTTP status and body text so the nearest UI caller can convert it to user
// copy; nothing deeper in the stack inspects the transport detail.
type Error struct {
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int

	// Body is the raw response body text, possibly truncated, or a short
	// description of the transport/schema failure.
	Body string

	// Op names the failed operation, e.g. "presign".
	Op string

	// Err is an optional sentinel (common.ErrSchemaInvalid) for errors.Is.
	Err error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("gateway %s: no response: %s", e.Op, e.Body)
	}
	return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *Error) Unwrap() error { return e.Err }
