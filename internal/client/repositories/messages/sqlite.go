package messages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crambrain/cram/internal/client/models"
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

// Append stores one conversation turn. Citations are kept as a JSON blob;
// they are read back whole, never queried.
func (r *SQLiteRepository) Append(ctx context.Context, docID string, m *models.Message) error {
	citations, err := json.Marshal(m.Citations)
	if err != nil {
		return fmt.Errorf("failed to encode citations: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO messages (id, doc_id, role, text, citations, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, docID, string(m.Role), m.Text, string(citations), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// History returns the transcript for a document in chronological order.
// A limit above 0 keeps only the most recent limit turns.
func (r *SQLiteRepository) History(ctx context.Context, docID string, limit int) ([]models.Message, error) {
	query := `SELECT id, role, text, citations, created_at FROM messages
			WHERE doc_id = ? ORDER BY created_at DESC, id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var m models.Message
		var role, citations string
		if err := rows.Scan(&m.ID, &role, &m.Text, &citations, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		m.Role = models.Role(role)
		if err := json.Unmarshal([]byte(citations), &m.Citations); err != nil {
			return nil, fmt.Errorf("failed to decode citations: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// rows come newest-first so the limit trims the oldest turns
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

// Clear drops the transcript for a document.
func (r *SQLiteRepository) Clear(ctx context.Context, docID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
