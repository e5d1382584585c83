package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
	"github.com/moviemania/movie-mania-backend/internal/platform/ollama"
	"github.com/moviemania/movie-mania-backend/internal/platform/qdrant"
	"github.com/moviemania/movie-mania-backend/internal/refdata"
)

// RetrievalLimit is the neighbor count for one similarity search.
const RetrievalLimit = 10

// PayloadTitleField is the payload key holding the canonical movie title.
const PayloadTitleField = "Title"

// Retriever performs nearest-neighbor search over the plot corpus. When the
// query text is itself a canonical title, the movie's stored embedding is
// reused verbatim instead of re-embedding user text, which avoids the
// query/document distribution skew of the embedding model.
type Retriever struct {
	vec   qdrant.VectorStore
	emb   ollama.Embedder
	lists *refdata.Lists
	log   *logger.Logger
}

func NewRetriever(vec qdrant.VectorStore, emb ollama.Embedder, lists *refdata.Lists, log *logger.Logger) *Retriever {
	return &Retriever{
		vec:   vec,
		emb:   emb,
		lists: lists,
		log:   log.With("service", "Retriever"),
	}
}

// SearchMovies runs one retrieval query. If the lowercased query exactly
// matches a known title, that movie's own plot payload is prepended to the
// ranked results. Embedding-service failures propagate to the caller.
func (r *Retriever) SearchMovies(ctx context.Context, query string, filter *RetrievalFilter) ([]qdrant.Document, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	var queryVector []float32
	var ownPlot []qdrant.Document

	if r.lists.HasTitle(query) {
		vector, err := r.vec.FetchVector(ctx, PayloadTitleField, query)
		if err != nil {
			return nil, fmt.Errorf("stored vector lookup for %q: %w", query, err)
		}
		if len(vector) > 0 {
			r.log.Info("Query matches canonical title, reusing stored embedding", "title", query)
			queryVector = vector

			plotResults, err := r.vec.Search(ctx, vector, nil, 1)
			if err != nil {
				return nil, fmt.Errorf("plot lookup for %q: %w", query, err)
			}
			for _, res := range plotResults {
				ownPlot = append(ownPlot, res.Payload)
			}
		}
	}

	if queryVector == nil {
		r.log.Debug("Embedding query text", "query", query)
		raw, err := r.emb.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embed retrieval query: %w", err)
		}
		queryVector = ollama.Normalize(raw)
	}

	results, err := r.vec.Search(ctx, queryVector, buildFilter(filter), RetrievalLimit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	documents := make([]qdrant.Document, 0, len(ownPlot)+len(results))
	documents = append(documents, ownPlot...)
	for _, res := range results {
		documents = append(documents, res.Payload)
	}

	r.log.Info("Retrieval search complete", "query", query, "documents", len(documents))
	return documents, nil
}

// buildFilter turns the populated fields of the structured filter into a
// conjunctive "any of" qdrant filter with lowercased values.
func buildFilter(filter *RetrievalFilter) map[string]any {
	if filter == nil {
		return nil
	}

	var conditions []map[string]any
	appendField := func(key string, values []string) {
		values = lowerNonEmpty(values)
		if len(values) > 0 {
			conditions = append(conditions, qdrant.MatchAnyCondition(key, values))
		}
	}
	appendField("Title", filter.Titles)
	appendField("Genre", filter.Genres)
	appendField("Year", filter.Years)
	appendField("Actors", filter.Actors)
	appendField("ImdbRating", filter.Ratings)

	return qdrant.MustFilter(conditions...)
}

func lowerNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
