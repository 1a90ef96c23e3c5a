package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crambrain/cram/internal/client/models"
)

// Wire DTOs mirror the backend's JSON schema. They exist only inside this
// package; callers see the models types.

type presignRequest struct {
	Filename string `json:"filename"`
}

type presignResponse struct {
	UploadURL string `json:"upload_url" validate:"required,url"`
	FileURL   string `json:"file_url" validate:"required,url"`
	FileID    string `json:"file_id" validate:"required"`
}

type ingestRequest struct {
	FileURL      string `json:"file_url"`
	OriginalName string `json:"original_name"`
}

type ingestResponse struct {
	DocID  string `json:"doc_id" validate:"required"`
	Pages  int    `json:"pages" validate:"gte=0"`
	Chunks int    `json:"chunks" validate:"gte=0"`
	Status string `json:"status" validate:"required"`
}

type askRequest struct {
	Query string `json:"query"`
	DocID string `json:"doc_id,omitempty"`
	TopK  int    `json:"top_k"`
}

type citationWire struct {
	DocID      string    `json:"doc_id" validate:"required"`
	Page       int       `json:"page" validate:"gte=0"`
	Text       string    `json:"text"`
	Score      float64   `json:"score" validate:"gte=0,lte=1"`
	ChunkID    string    `json:"chunk_id"`
	BBoxID     string    `json:"bbox_id"`
	BBox       []float64 `json:"bbox" validate:"omitempty,len=4"`
	ChunkType  string    `json:"chunk_type"`
	PreviewURL string    `json:"preview_url"`
	SourceURL  string    `json:"source_url"`
	Quote      string    `json:"quote"`
}

func (c citationWire) toModel() models.Citation {
	out := models.Citation{
		DocID:      c.DocID,
		Page:       c.Page,
		Quote:      c.Quote,
		Text:       c.Text,
		Score:      c.Score,
		BBoxID:     c.BBoxID,
		PreviewURL: c.PreviewURL,
		SourceURL:  c.SourceURL,
	}
	if len(c.BBox) == 4 {
		out.BBox = &models.BoundingBox{X0: c.BBox[0], Y0: c.BBox[1], X1: c.BBox[2], Y1: c.BBox[3]}
	}
	return out
}

type retrievalWire struct {
	DocID      string  `json:"doc_id" validate:"required"`
	Page       int     `json:"page" validate:"gte=0"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	ChunkID    string  `json:"chunk_id"`
	ChunkType  string  `json:"chunk_type"`
	BBoxID     string  `json:"bbox_id"`
	PreviewURL string  `json:"preview_url"`
	SourceURL  string  `json:"source_url"`
}

func (r retrievalWire) toModel() models.RetrievalResult {
	return models.RetrievalResult{
		DocID:      r.DocID,
		Page:       r.Page,
		Text:       r.Text,
		Score:      r.Score,
		ChunkID:    r.ChunkID,
		ChunkType:  r.ChunkType,
		BBoxID:     r.BBoxID,
		PreviewURL: r.PreviewURL,
		SourceURL:  r.SourceURL,
	}
}

type askResponse struct {
	Answer    string          `json:"answer" validate:"required"`
	Citations []citationWire  `json:"citations" validate:"dive"`
	Retrieval []retrievalWire `json:"retrieval" validate:"dive"`
}

type quizRequest struct {
	DocID string `json:"doc_id,omitempty"`
	Topic string `json:"topic,omitempty"`
	N     int    `json:"n"`
}

type questionWire struct {
	Type   string `json:"type" validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
	Page   int    `json:"page" validate:"gte=0"`
	Quote  string `json:"quote"`

	Explanation string `json:"explanation"`
	Difficulty  string `json:"difficulty"`
}

type quizResponse struct {
	Questions []json.RawMessage `json:"questions" validate:"required"`
	DocID     string            `json:"doc_id"`
}

// decodeQuestion parses one flat wire question into the closed Question
// union. An unknown type tag is an error, not a silently skipped item.
func decodeQuestion(raw json.RawMessage) (models.Question, error) {
	var w questionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Question{}, err
	}

	detail, err := models.UnwrapQuestion(models.QuestionKind(w.Type), raw)
	if err != nil {
		return models.Question{}, err
	}

	return models.Question{
		Prompt:      w.Prompt,
		Page:        w.Page,
		Quote:       w.Quote,
		Explanation: w.Explanation,
		Difficulty:  w.Difficulty,
		Detail:      detail,
	}, nil
}

type documentWire struct {
	DocID        string   `json:"doc_id" validate:"required"`
	OriginalName string   `json:"original_name" validate:"required"`
	FileURL      string   `json:"file_url"`
	PreviewURLs  []string `json:"preview_urls"`
	Pages        int      `json:"pages" validate:"gte=0"`
	Chunks       int      `json:"chunks" validate:"gte=0"`
	CreatedAt    wireTime `json:"created_at"`
	UpdatedAt    wireTime `json:"updated_at"`
}

func (d documentWire) toModel() models.Document {
	return models.Document{
		DocID:        d.DocID,
		OriginalName: d.OriginalName,
		FileURL:      d.FileURL,
		PreviewURLs:  d.PreviewURLs,
		Pages:        d.Pages,
		Chunks:       d.Chunks,
		CreatedAt:    d.CreatedAt.Time,
		UpdatedAt:    d.UpdatedAt.Time,
	}
}

type documentListResponse struct {
	Documents []documentWire `json:"documents" validate:"dive"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []retrievalWire `json:"results" validate:"dive"`
	Total   int             `json:"total" validate:"gte=0"`
}

type healthResponse struct {
	Status string `json:"status" validate:"required"`
	Time   string `json:"time"`
}

// wireTime accepts both RFC 3339 timestamps and the zone-less ISO form the
// backend emits for naive datetimes.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
