package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

// Lists holds the canonical movie title and actor name reference lists used
// for fuzzy correction and exact-title retrieval lookups. Loaded once at
// startup and treated as immutable for the run's lifetime.
type Lists struct {
	Movies []string
	Actors []string

	titleSet map[string]struct{}
}

// Load reads both reference files. A missing file degrades to an empty list
// with a warning rather than failing startup.
func Load(log *logger.Logger, moviesPath, actorsPath string) *Lists {
	l := &Lists{}
	l.Movies = loadList(log, moviesPath, "movies")
	l.Actors = loadList(log, actorsPath, "actors")

	l.titleSet = make(map[string]struct{}, len(l.Movies))
	for _, title := range l.Movies {
		l.titleSet[strings.ToLower(strings.TrimSpace(title))] = struct{}{}
	}
	return l
}

func loadList(log *logger.Logger, path, kind string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Reference list not found, using empty list", "kind", kind, "path", path, "error", err)
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Warn("Reference list unreadable, using empty list", "kind", kind, "path", path, "error", err)
		return []string{}
	}
	log.Info("Reference list loaded", "kind", kind, "path", path, "count", len(list))
	return list
}

// NewLists builds reference lists from in-memory slices. Used in tests and by
// callers that already hold the canonical data.
func NewLists(movies, actors []string) *Lists {
	l := &Lists{Movies: movies, Actors: actors}
	l.titleSet = make(map[string]struct{}, len(movies))
	for _, title := range movies {
		l.titleSet[strings.ToLower(strings.TrimSpace(title))] = struct{}{}
	}
	return l
}

// HasTitle reports whether the lowercased query exactly matches a canonical
// movie title.
func (l *Lists) HasTitle(query string) bool {
	if l == nil {
		return false
	}
	_, ok := l.titleSet[strings.ToLower(strings.TrimSpace(query))]
	return ok
}

func (l *Lists) String() string {
	return fmt.Sprintf("refdata.Lists{movies=%d actors=%d}", len(l.Movies), len(l.Actors))
}
