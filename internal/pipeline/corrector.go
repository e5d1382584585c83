package pipeline

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
	"github.com/moviemania/movie-mania-backend/internal/refdata"
)

// DefaultMatchThreshold is the minimum weighted-ratio score (0-100) for a
// fuzzy match to replace the original string.
const DefaultMatchThreshold = 70

// NameCorrector replaces near-miss actor and title strings with their
// canonical forms. Reference lists are immutable for the corrector's
// lifetime, so correction is deterministic.
type NameCorrector struct {
	lists     *refdata.Lists
	threshold int
	log       *logger.Logger
}

func NewNameCorrector(lists *refdata.Lists, threshold int, log *logger.Logger) *NameCorrector {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &NameCorrector{
		lists:     lists,
		threshold: threshold,
		log:       log.With("service", "NameCorrector"),
	}
}

// Correct fuzzy-matches both input sequences against their reference lists.
// Output sequences have exactly the same length and order as the inputs:
// empty strings pass through as empty strings, and anything scoring below
// the threshold passes through unchanged.
func (c *NameCorrector) Correct(actors, titles []string) (correctedActors, correctedTitles []string) {
	correctedActors = c.correctAll(actors, c.lists.Actors, "actor")
	correctedTitles = c.correctAll(titles, c.lists.Movies, "title")
	return correctedActors, correctedTitles
}

func (c *NameCorrector) correctAll(inputs, reference []string, kind string) []string {
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			out = append(out, "")
			continue
		}

		match, score := bestMatch(input, reference)
		if match != "" && score >= c.threshold {
			c.log.Debug("Fuzzy match accepted", "kind", kind, "input", input, "match", match, "score", score)
			out = append(out, match)
			continue
		}

		c.log.Debug("No acceptable match", "kind", kind, "input", input, "best_score", score)
		out = append(out, input)
	}
	return out
}

// bestMatch scans the full reference list with the weighted token/character
// ratio scorer and returns the highest-scoring candidate.
func bestMatch(input string, reference []string) (string, int) {
	best := ""
	bestScore := -1
	for _, candidate := range reference {
		score := fuzzy.WRatio(input, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}
