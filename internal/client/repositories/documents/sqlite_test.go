package documents

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE documents (
  doc_id TEXT PRIMARY KEY,
  original_name TEXT NOT NULL,
  file_url TEXT NOT NULL,
  preview_urls TEXT NOT NULL DEFAULT '[]',
  pages INTEGER NOT NULL DEFAULT 0,
  chunks INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP,
  updated_at TIMESTAMP,
  cached_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func sampleDoc(id string) *models.Document {
	return &models.Document{
		DocID:        id,
		OriginalName: "notes.pdf",
		FileURL:      "https://files.example/" + id,
		PreviewURLs:  []string{"p1.png", "p2.png"},
		Pages:        2,
		Chunks:       9,
		CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateOrUpdate_InsertAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, sampleDoc("d1")))

	got, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", got.OriginalName)
	assert.Equal(t, []string{"p1.png", "p2.png"}, got.PreviewURLs)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, 9, got.Chunks)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))
}

func TestCreateOrUpdate_Updates(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, sampleDoc("d1")))

	d := sampleDoc("d1")
	d.Pages = 7
	d.PreviewURLs = nil
	require.NoError(t, r.CreateOrUpdate(ctx, d))

	got, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Pages)
	assert.Empty(t, got.PreviewURLs)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetAll_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	old := sampleDoc("old")
	old.CreatedAt = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleDoc("new")
	newer.CreatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.CreateOrUpdate(ctx, old))
	require.NoError(t, r.CreateOrUpdate(ctx, newer))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].DocID)
	assert.Equal(t, "old", all[1].DocID)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, sampleDoc("d1")))
	require.NoError(t, r.Delete(ctx, "d1"))

	_, err := r.Get(ctx, "d1")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, r.Delete(ctx, "d1"), "deleting a missing row is not an error")
}
