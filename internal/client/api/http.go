package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/common"
	"github.com/crambrain/cram/internal/logging"
)

// maxErrorBody bounds how much of a failed response body is kept for
// diagnostics.
const maxErrorBody = 4 << 10

const (
	defaultTopK          = 6
	defaultQuizQuestions = 5
	defaultSearchLimit   = 10
	maxTopK              = 20
)

// HTTPService implements Service over the backend's JSON-over-HTTP
// contract. All mutating routes are POSTs with no idempotency guarantee;
// deduplication, if any, is the server's concern.
type HTTPService struct {
	baseURL  string
	hc       *http.Client
	validate *validator.Validate
	log      logging.Logger
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService builds the gateway client. timeout applies to every call
// issued through this client; zero means no timeout, matching the
// historical upload pipeline behavior.
func NewHTTPService(baseURL string, timeout time.Duration, log logging.Logger) *HTTPService {
	return &HTTPService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hc:       &http.Client{Timeout: timeout},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logging.OrNop(log),
	}
}

func (s *HTTPService) Presign(ctx context.Context, filename string) (*PresignGrant, error) {
	var resp presignResponse
	if err := s.do(ctx, http.MethodPost, "/v1/presign", presignRequest{Filename: filename}, &resp, "presign"); err != nil {
		return nil, err
	}
	return &PresignGrant{UploadURL: resp.UploadURL, FileURL: resp.FileURL, FileID: resp.FileID}, nil
}

func (s *HTTPService) Ingest(ctx context.Context, fileURL, originalName string) (*IngestResult, error) {
	var resp ingestResponse
	req := ingestRequest{FileURL: fileURL, OriginalName: originalName}
	if err := s.do(ctx, http.MethodPost, "/v1/ingest", req, &resp, "ingest"); err != nil {
		return nil, err
	}
	return &IngestResult{DocID: resp.DocID, Pages: resp.Pages, Chunks: resp.Chunks, Status: resp.Status}, nil
}

func (s *HTTPService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	wire := askRequest{Query: req.Query, DocID: req.DocID, TopK: clamp(topK, 1, maxTopK)}

	var resp askResponse
	if err := s.do(ctx, http.MethodPost, "/v1/ask", wire, &resp, "ask"); err != nil {
		return nil, err
	}

	out := &AskResult{Answer: resp.Answer}
	for _, c := range resp.Citations {
		out.Citations = append(out.Citations, c.toModel())
	}
	for _, r := range resp.Retrieval {
		out.Retrieval = append(out.Retrieval, r.toModel())
	}
	return out, nil
}

func (s *HTTPService) GenerateQuiz(ctx context.Context, req QuizRequest) (*QuizResult, error) {
	n := req.N
	if n == 0 {
		n = defaultQuizQuestions
	}
	wire := quizRequest{DocID: req.DocID, Topic: req.Topic, N: clamp(n, 1, maxTopK)}

	var resp quizResponse
	if err := s.do(ctx, http.MethodPost, "/v1/quiz", wire, &resp, "quiz"); err != nil {
		return nil, err
	}

	out := &QuizResult{DocID: resp.DocID}
	for i, raw := range resp.Questions {
		q, err := decodeQuestion(raw)
		if err != nil {
			return nil, &Error{Op: "quiz", Body: fmt.Sprintf("question %d: %v", i, err), Err: common.ErrSchemaInvalid}
		}
		out.Questions = append(out.Questions, q)
	}
	return out, nil
}

func (s *HTTPService) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var resp documentListResponse
	if err := s.do(ctx, http.MethodGet, "/v1/docs", nil, &resp, "docs"); err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, d.toModel())
	}
	return docs, nil
}

func (s *HTTPService) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	var resp documentWire
	if err := s.do(ctx, http.MethodGet, "/v1/docs/"+url.PathEscape(docID), nil, &resp, "doc"); err != nil {
		return nil, err
	}
	doc := resp.toModel()
	return &doc, nil
}

func (s *HTTPService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("top_k", strconv.Itoa(clamp(limit, 1, maxTopK)))
	if req.DocID != "" {
		q.Set("doc_id", req.DocID)
	}

	var resp searchResponse
	if err := s.do(ctx, http.MethodGet, "/v1/search?"+q.Encode(), nil, &resp, "search"); err != nil {
		return nil, err
	}

	out := &SearchResult{Query: resp.Query, Total: resp.Total}
	for _, r := range resp.Results {
		out.Results = append(out.Results, r.toModel())
	}
	return out, nil
}

func (s *HTTPService) Health(ctx context.Context) (*HealthStatus, error) {
	var resp healthResponse
	if err := s.do(ctx, http.MethodGet, "/health", nil, &resp, "health"); err != nil {
		return nil, err
	}
	return &HealthStatus{Status: resp.Status, Time: resp.Time}, nil
}

// do performs one round trip: marshal body (when non-nil), send, classify
// the status, decode into out and validate the schema. All failures come
// back as *Error.
func (s *HTTPService) do(ctx context.Context, method, path string, body, out any, op string) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		s.log.Warn(ctx, "gateway request failed", "op", op, "err", err)
		return &Error{Op: op, Body: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Body: "read body: " + err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		s.log.Warn(ctx, "gateway rejected request", "op", op, "status", resp.StatusCode)
		return &Error{Op: op, Status: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Body: "decode: " + err.Error(), Err: common.ErrSchemaInvalid}
	}
	if err := s.validate.Struct(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Body: "validate: " + err.Error(), Err: common.ErrSchemaInvalid}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
