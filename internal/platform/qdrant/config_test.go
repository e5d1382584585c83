package qdrant

import (
	"errors"
	"testing"
)

func TestResolveConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("QDRANT_URL", "")
	t.Setenv("QDRANT_COLLECTION", "")
	t.Setenv("QDRANT_VECTOR_DIM", "")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.URL != "http://localhost:6333" {
		t.Fatalf("url: want=%q got=%q", "http://localhost:6333", cfg.URL)
	}
	if cfg.Collection != "rag_movies" {
		t.Fatalf("collection: want=%q got=%q", "rag_movies", cfg.Collection)
	}
	if cfg.VectorDim != 1024 {
		t.Fatalf("vector dim: want=1024 got=%d", cfg.VectorDim)
	}
}

func TestResolveConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333/")
	t.Setenv("QDRANT_COLLECTION", "movies_v2")
	t.Setenv("QDRANT_VECTOR_DIM", "768")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Collection != "movies_v2" {
		t.Fatalf("collection: want=%q got=%q", "movies_v2", cfg.Collection)
	}
	if cfg.VectorDim != 768 {
		t.Fatalf("vector dim: want=768 got=%d", cfg.VectorDim)
	}
}

func TestResolveConfigFromEnvRejectsBadDim(t *testing.T) {
	t.Setenv("QDRANT_VECTOR_DIM", "not-a-number")

	_, err := ResolveConfigFromEnv()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type: got=%T", err)
	}
	if cfgErr.Code != ConfigErrorInvalidVectorDim {
		t.Fatalf("code: want=%s got=%s", ConfigErrorInvalidVectorDim, cfgErr.Code)
	}
}

func TestValidateConfigRejectsInvalidURL(t *testing.T) {
	err := ValidateConfig(Config{URL: "://broken", Collection: "movies", VectorDim: 3})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type: got=%T", err)
	}
	if cfgErr.Code != ConfigErrorInvalidURL {
		t.Fatalf("code: want=%s got=%s", ConfigErrorInvalidURL, cfgErr.Code)
	}
}
