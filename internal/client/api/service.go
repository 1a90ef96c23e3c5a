// Package api is the typed boundary to the CramBrain backend. Every call
// decodes the response body and validates it against an explicit schema
// before returning, so schema drift fails loudly here instead of
// propagating malformed data inward.
package api

import (
	"context"

	"github.com/crambrain/cram/internal/client/models"
)

// PresignGrant is a server-issued, one-time upload authorization. It is
// consumed exactly once by the transfer and never persisted.
type PresignGrant struct {
	// UploadURL is the time-limited target for a single PUT.
	UploadURL string

	// FileURL is the public file URL used as the ingestion reference.
	FileURL string

	// FileID is an opaque identifier of the stored file.
	FileID string
}

// IngestResult reports the outcome of server-side ingestion.
type IngestResult struct {
	DocID  string
	Pages  int
	Chunks int
	Status string
}

// AskRequest carries one question. TopK is clamped into [1,20] by the
// schema; DocID narrows retrieval to a single document when non-empty.
type AskRequest struct {
	Query string
	DocID string
	TopK  int
}

// AskResult is a grounded answer with its citations and the raw retrieval
// ranking behind it.
type AskResult struct {
	Answer    string
	Citations []models.Citation
	Retrieval []models.RetrievalResult
}

// QuizRequest asks the server to generate N quiz questions, optionally
// narrowed to a document and topic. N is clamped into [1,20].
type QuizRequest struct {
	DocID string
	Topic string
	N     int
}

// QuizResult is a generated quiz.
type QuizResult struct {
	Questions []models.Question
	DocID     string
}

// SearchRequest is a ranked retrieval query. Limit is clamped into [1,20].
type SearchRequest struct {
	Query string
	DocID string
	Limit int
}

// SearchResult is a ranked retrieval response.
type SearchResult struct {
	Query   string
	Results []models.RetrievalResult
	Total   int
}

// HealthStatus is the backend liveness report.
type HealthStatus struct {
	Status string
	Time   string
}

// Service is the sole typed boundary to the backend.
type Service interface {
	Presign(ctx context.Context, filename string) (*PresignGrant, error)
	Ingest(ctx context.Context, fileURL, originalName string) (*IngestResult, error)
	Ask(ctx context.Context, req AskRequest) (*AskResult, error)
	GenerateQuiz(ctx context.Context, req QuizRequest) (*QuizResult, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	GetDocument(ctx context.Context, docID string) (*models.Document, error)
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	Health(ctx context.Context) (*HealthStatus, error)
}
