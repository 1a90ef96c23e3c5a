// Package documents caches server-side document metadata locally so the
// doc list stays browsable offline.
package documents

import (
	"context"

	"github.com/crambrain/cram/internal/client/models"
)

type Repository interface {
	CreateOrUpdate(ctx context.Context, d *models.Document) error
	Get(ctx context.Context, docID string) (*models.Document, error)
	GetAll(ctx context.Context) ([]models.Document, error)
	Delete(ctx context.Context, docID string) error
}
