package upload

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/crambrain/cram/internal/common"
)

// AcceptedMediaType is the only media type the pipeline accepts.
const AcceptedMediaType = "application/pdf"

// File is the candidate payload handed to the orchestrator: the original
// bytes plus what the picker declared about them.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// validateFile is the entry guard run before any network call. The media
// type must match exactly and the size must not exceed maxBytes; a payload
// of exactly maxBytes passes.
func validateFile(f File, maxBytes int64) error {
	if f.MediaType != AcceptedMediaType {
		return fmt.Errorf("%w: got %q, only PDF files are supported", common.ErrUnsupportedMediaType, f.MediaType)
	}
	if int64(len(f.Data)) > maxBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit",
			common.ErrFileTooLarge, humanize.IBytes(uint64(len(f.Data))), humanize.IBytes(uint64(maxBytes)))
	}
	return nil
}
