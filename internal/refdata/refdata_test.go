package refdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

func writeList(t *testing.T, dir, name string, values []string) string {
	t.Helper()
	raw, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal list: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	return path
}

func TestLoadReadsBothLists(t *testing.T) {
	dir := t.TempDir()
	moviesPath := writeList(t, dir, "movies.json", []string{"inception", "interstellar"})
	actorsPath := writeList(t, dir, "actors.json", []string{"tom hardy"})

	lists := Load(logger.NewNop(), moviesPath, actorsPath)

	if len(lists.Movies) != 2 {
		t.Fatalf("movies: want=2 got=%d", len(lists.Movies))
	}
	if len(lists.Actors) != 1 {
		t.Fatalf("actors: want=1 got=%d", len(lists.Actors))
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	actorsPath := writeList(t, dir, "actors.json", []string{"tom hardy"})

	lists := Load(logger.NewNop(), filepath.Join(dir, "does-not-exist.json"), actorsPath)

	if len(lists.Movies) != 0 {
		t.Fatalf("movies should be empty, got=%v", lists.Movies)
	}
	if len(lists.Actors) != 1 {
		t.Fatalf("actors: want=1 got=%d", len(lists.Actors))
	}
}

func TestLoadMalformedFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	lists := Load(logger.NewNop(), path, filepath.Join(dir, "missing.json"))
	if len(lists.Movies) != 0 {
		t.Fatalf("movies should be empty, got=%v", lists.Movies)
	}
}

func TestHasTitleExactLowercaseMatch(t *testing.T) {
	lists := NewLists([]string{"Inception", "the dark knight"}, nil)

	if !lists.HasTitle("inception") {
		t.Fatalf("lowercased match expected")
	}
	if !lists.HasTitle("  The Dark Knight  ") {
		t.Fatalf("trimmed case-insensitive match expected")
	}
	if lists.HasTitle("incepti") {
		t.Fatalf("prefix should not match")
	}

	var nilLists *Lists
	if nilLists.HasTitle("inception") {
		t.Fatalf("nil lists should never match")
	}
}
