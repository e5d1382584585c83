package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestEmbedder(roundTrip func(*http.Request) (*http.Response, error)) *embedder {
	return &embedder{
		log:     logger.NewNop(),
		baseURL: "http://ollama.local",
		model:   "test-embed",
		httpClient: &http.Client{
			Transport: roundTripFunc(roundTrip),
		},
	}
}

func TestEmbedRequestShape(t *testing.T) {
	var captured embedRequest
	e := newTestEmbedder(func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("method: want=POST got=%s", r.Method)
		}
		if r.URL.Path != "/api/embeddings" {
			t.Fatalf("path: want=%q got=%q", "/api/embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		raw, _ := json.Marshal(embedResponse{Embedding: []float32{1, 2, 3}})
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader(raw)),
		}, nil
	})

	vector, err := e.Embed(context.Background(), "a movie about dreams")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if captured.Model != "test-embed" {
		t.Fatalf("model: want=%q got=%q", "test-embed", captured.Model)
	}
	if captured.Prompt != "a movie about dreams" {
		t.Fatalf("prompt: got=%q", captured.Prompt)
	}
	if len(vector) != 3 {
		t.Fatalf("vector length: want=3 got=%d", len(vector))
	}
}

func TestEmbedErrorStatus(t *testing.T) {
	e := newTestEmbedder(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader([]byte("model not loaded"))),
		}, nil
	})

	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatalf("server error should fail")
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	got := Normalize([]float32{3, 4, 0})
	if got[0] != 0.6 || got[1] != 0.8 || got[2] != 0 {
		t.Fatalf("normalized: got=%v", got)
	}

	var norm float64
	for _, v := range got {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Fatalf("norm: want=1 got=%v", norm)
	}
}

func TestNormalizeZeroVectorUnchanged(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Fatalf("zero vector changed at %d: %v", i, v)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Fatalf("empty input: got=%v", got)
	}
}
