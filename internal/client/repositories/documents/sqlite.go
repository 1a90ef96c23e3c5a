package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/common"
	"github.com/crambrain/cram/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts a document by doc_id, refreshing the cache stamp.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, d *models.Document) error {
	previews, err := json.Marshal(d.PreviewURLs)
	if err != nil {
		return fmt.Errorf("failed to encode preview urls: %w", err)
	}

	query := `INSERT INTO documents
			(doc_id, original_name, file_url, preview_urls, pages, chunks, created_at, updated_at, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(doc_id) DO UPDATE SET
				original_name = excluded.original_name,
				file_url = excluded.file_url,
				preview_urls = excluded.preview_urls,
				pages = excluded.pages,
				chunks = excluded.chunks,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				cached_at = excluded.cached_at
	`
	_, err = r.db.ExecContext(ctx, query,
		d.DocID, d.OriginalName, d.FileURL, string(previews), d.Pages, d.Chunks,
		d.CreatedAt, d.UpdatedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Get returns one cached document or common.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, docID string) (*models.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT doc_id, original_name, file_url, preview_urls, pages, chunks, created_at, updated_at
		FROM documents WHERE doc_id = ?`, docID)

	d, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s: %w", docID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// GetAll lists all cached documents, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT doc_id, original_name, file_url, preview_urls, pages, chunks, created_at, updated_at
		FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []models.Document
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a document from the cache.
func (r *SQLiteRepository) Delete(ctx context.Context, docID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func scanDocument(scan func(...any) error) (*models.Document, error) {
	var d models.Document
	var previews string
	if err := scan(&d.DocID, &d.OriginalName, &d.FileURL, &previews,
		&d.Pages, &d.Chunks, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(previews), &d.PreviewURLs); err != nil {
		return nil, fmt.Errorf("failed to decode preview urls: %w", err)
	}
	return &d, nil
}
