package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

const maxErrorBodyBytes = 1024

// Document is the stored payload of one indexed movie (title, genre, year,
// actors, rating, plot).
type Document map[string]any

type SearchResult struct {
	Score   float64
	Payload Document
	Vector  []float32
}

type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// VectorStore is the nearest-neighbor search interface over the movie plot
// collection.
type VectorStore interface {
	// Search runs a top-limit nearest-neighbor query, returning payloads in
	// ranked order. filter follows Qdrant filter syntax; use MustFilter and
	// the condition helpers to build it.
	Search(ctx context.Context, vector []float32, filter map[string]any, limit int) ([]SearchResult, error)

	// FetchVector retrieves the stored vector of the point whose payload
	// field exactly matches value, probing with an all-zero vector.
	FetchVector(ctx context.Context, field, value string) ([]float32, error)

	// Upsert writes points into the collection, waiting for completion.
	Upsert(ctx context.Context, points []Point) error

	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context) error
}

type vectorStore struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
}

func NewVectorStore(log *logger.Logger, cfg Config) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	s := &vectorStore{
		log:     log.With("service", "QdrantVectorStore"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	log.Info(
		"Qdrant vector store configured",
		"url", s.baseURL,
		"collection", cfg.Collection,
		"vector_dim", cfg.VectorDim,
	)
	return s, nil
}

type qdrantEnvelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
	Time   float64         `json:"time"`
}

type searchResultItem struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
	Vector  []float32       `json:"vector"`
}

func (s *vectorStore) Search(ctx context.Context, vector []float32, filter map[string]any, limit int) ([]SearchResult, error) {
	const op = "search"
	if len(vector) == 0 {
		return nil, opErr(op, OperationErrorValidation, "query vector required", nil)
	}
	if s.cfg.VectorDim > 0 && len(vector) != s.cfg.VectorDim {
		return nil, opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf("query vector dimension mismatch: expected=%d got=%d", s.cfg.VectorDim, len(vector)),
			nil,
		)
	}
	if limit <= 0 {
		limit = 10
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	if len(filter) > 0 {
		req["filter"] = filter
	}

	var rawResults []searchResultItem
	if err := s.doJSON(
		ctx,
		op,
		http.MethodPost,
		s.collectionPath("/points/search"),
		req,
		&rawResults,
	); err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(rawResults))
	for _, item := range rawResults {
		out = append(out, SearchResult{
			Score:   item.Score,
			Payload: Document(item.Payload),
		})
	}
	return out, nil
}

func (s *vectorStore) FetchVector(ctx context.Context, field, value string) ([]float32, error) {
	const op = "fetch_vector"
	if strings.TrimSpace(field) == "" {
		return nil, opErr(op, OperationErrorValidation, "match field required", nil)
	}

	probe := make([]float32, s.cfg.VectorDim)
	req := map[string]any{
		"vector":       probe,
		"limit":        1,
		"with_payload": true,
		"with_vector":  true,
		"filter":       MustFilter(MatchCondition(field, value)),
	}

	var rawResults []searchResultItem
	if err := s.doJSON(
		ctx,
		op,
		http.MethodPost,
		s.collectionPath("/points/search"),
		req,
		&rawResults,
	); err != nil {
		return nil, err
	}
	if len(rawResults) == 0 || len(rawResults[0].Vector) == 0 {
		return nil, nil
	}
	return rawResults[0].Vector, nil
}

func (s *vectorStore) Upsert(ctx context.Context, points []Point) error {
	const op = "upsert"
	if len(points) == 0 {
		return nil
	}

	encoded := make([]map[string]any, 0, len(points))
	for _, p := range points {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return opErr(op, OperationErrorValidation, "point id is required", nil)
		}
		if len(p.Vector) == 0 {
			return opErr(op, OperationErrorValidation, fmt.Sprintf("point %q has empty vector", id), nil)
		}
		if s.cfg.VectorDim > 0 && len(p.Vector) != s.cfg.VectorDim {
			return opErr(
				op,
				OperationErrorValidation,
				fmt.Sprintf("point %q dimension mismatch: expected=%d got=%d", id, s.cfg.VectorDim, len(p.Vector)),
				nil,
			)
		}
		encoded = append(encoded, map[string]any{
			"id":      id,
			"vector":  p.Vector,
			"payload": p.Payload,
		})
	}

	req := map[string]any{"points": encoded}
	return s.doJSON(ctx, op, http.MethodPut, s.collectionPath("/points?wait=true"), req, nil)
}

func (s *vectorStore) EnsureCollection(ctx context.Context) error {
	const op = "ensure_collection"

	var info struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	}
	err := s.doJSON(ctx, op, http.MethodGet, s.collectionPath(""), nil, &info)
	if err == nil {
		size := info.Config.Params.Vectors.Size
		if size != 0 && size != s.cfg.VectorDim {
			return opErr(
				op,
				OperationErrorValidation,
				fmt.Sprintf("collection %q vector size mismatch: expected=%d actual=%d", s.cfg.Collection, s.cfg.VectorDim, size),
				nil,
			)
		}
		return nil
	}
	var opErrTyped *OperationError
	if !errors.As(err, &opErrTyped) || opErrTyped.StatusCode != http.StatusNotFound {
		return err
	}

	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.cfg.VectorDim,
			"distance": "Cosine",
		},
	}
	if err := s.doJSON(ctx, op, http.MethodPut, s.collectionPath(""), req, nil); err != nil {
		return err
	}
	s.log.Info("Qdrant collection created", "collection", s.cfg.Collection, "vector_dim", s.cfg.VectorDim)
	return nil
}

func (s *vectorStore) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "qdrant request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*maxErrorBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("qdrant http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}

	var envelope qdrantEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant envelope failed", err)
	}
	if statusErr := parseEnvelopeStatus(envelope.Status); statusErr != "" {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    statusErr,
		}
	}

	if out == nil {
		return nil
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant result failed", err)
	}
	return nil
}

func classifyHTTPCallError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	return opErr(op, OperationErrorTransportFailed, message, err)
}

func parseEnvelopeStatus(raw json.RawMessage) string {
	status := strings.TrimSpace(string(raw))
	if status == "" || status == "null" {
		return ""
	}

	var statusString string
	if err := json.Unmarshal(raw, &statusString); err == nil {
		if strings.EqualFold(statusString, "ok") || strings.EqualFold(statusString, "acknowledged") {
			return ""
		}
		return fmt.Sprintf("qdrant status=%q", statusString)
	}

	var statusObject struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &statusObject); err == nil {
		if strings.TrimSpace(statusObject.Error) != "" {
			return strings.TrimSpace(statusObject.Error)
		}
	}

	return fmt.Sprintf("qdrant status=%s", status)
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}

func (s *vectorStore) collectionPath(suffix string) string {
	path := "/collections/" + s.cfg.Collection
	if strings.TrimSpace(suffix) == "" {
		return path
	}
	return path + suffix
}
