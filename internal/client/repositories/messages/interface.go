// Package messages persists conversation transcripts so a chat can be
// reviewed after the session ends.
package messages

import (
	"context"

	"github.com/crambrain/cram/internal/client/models"
)

type Repository interface {
	Append(ctx context.Context, docID string, m *models.Message) error
	History(ctx context.Context, docID string, limit int) ([]models.Message, error)
	Clear(ctx context.Context, docID string) error
}
