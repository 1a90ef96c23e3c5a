// Package common defines shared constants and sentinel errors used across
// the cram client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Local upload validation errors (never reach the network).
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")

	// Orchestrator flow-control errors.
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrUploadCancelled  = errors.New("upload cancelled")

	// Gateway-level errors (generic/internal flow control).
	ErrInternal      = errors.New("internal error")
	ErrSchemaInvalid = errors.New("response failed schema validation")
)
