package pipeline

import (
	"context"
	"fmt"

	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

const extractorSystemInstruction = `Extract structured movie-related information from the user query. Follow the guidelines strictly and use your knowledge and reasoning to infer details accurately.

Extraction Guidelines:

- Title: Identify and extract only the actual movie titles mentioned in the query.
- Genre: Extract any movie genres explicitly stated (e.g., action, drama, thriller, comedy).
- Year: Capture any specific years or time periods mentioned (e.g., 2022, 1990s). Only numeric or decade-based references.
- Actors: Extract names of actors referenced in the query. Use full names wherever possible, correct spelling errors, and interpret popular aliases (e.g., "King Khan" means "Shah Rukh Khan", "Akki" means "Akshay Kumar") using general knowledge.
- ImdbRating: Extract any rating values or filters mentioned (e.g., "above 7.5", "at least 8").
- Task: Summarize the user's overall intent, such as filtering movies, finding recommendations, or counting results.

If any field is missing or not clearly stated in the query, return an empty list or value for that field.`

// Extractor turns raw query text into structured fields via one
// schema-constrained completion.
type Extractor struct {
	ai  llm.Client
	log *logger.Logger
}

func NewExtractor(ai llm.Client, log *logger.Logger) *Extractor {
	return &Extractor{ai: ai, log: log.With("service", "EntityExtractor")}
}

// Extract never fails its caller: on any model or decode error it returns
// zero-value entities alongside the error so the driver can log and proceed
// with "no entities found".
func (e *Extractor) Extract(ctx context.Context, userQuery string) (ExtractedEntities, error) {
	turns := []llm.Turn{{Role: RoleUser, Content: fmt.Sprintf("User Query: %q", userQuery)}}

	obj, err := e.ai.GenerateJSON(ctx, extractorSystemInstruction, turns, "movie_info", extractedEntitiesSchema())
	if err != nil {
		return ExtractedEntities{}, fmt.Errorf("entity extraction: %w", err)
	}

	var out ExtractedEntities
	if err := decodeResponse("movie_info", obj, &out); err != nil {
		return ExtractedEntities{}, err
	}

	e.log.Info("Entities extracted",
		"titles", len(out.Titles),
		"actors", len(out.Actors),
		"task", out.Task,
	)
	return out, nil
}
