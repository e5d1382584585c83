package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/moviemania/movie-mania-backend/internal/platform/envutil"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

// Embedder produces raw embedding vectors for text. Callers are responsible
// for L2-normalizing query vectors before similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type embedder struct {
	log        *logger.Logger
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewEmbedder(log *logger.Logger) Embedder {
	return &embedder{
		log:     log.With("service", "OllamaEmbedder"),
		baseURL: strings.TrimRight(envutil.Str("OLLAMA_URL", "http://localhost:11434"), "/"),
		model:   envutil.Str("OLLAMA_EMBED_MODEL", "mxbai-embed-large:latest"),
		httpClient: &http.Client{
			Timeout: time.Duration(envutil.Int("OLLAMA_TIMEOUT_SECONDS", 60)) * time.Second,
		},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{Model: e.model, Prompt: text}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", &buf)
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding service status=%d body=%q", resp.StatusCode, string(raw))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned empty vector for model %q", e.model)
	}

	e.log.Debug("Embedding generated", "model", e.model, "dim", len(out.Embedding))
	return out.Embedding, nil
}

// Normalize returns the L2-normalized copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
