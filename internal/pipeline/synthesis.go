package pipeline

import (
	"context"
	"fmt"

	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

// UnknownAnswer is the sentinel phrase the synthesizer falls back to when
// the retrieved documents cannot answer the question.
const UnknownAnswer = "I'm sorry, I don't know the answer to that question."

const synthesisSystemInstruction = `Based on the provided retrieval documents, answer the user's recent question. Be flexible, brainstorm what the user is asking, and give a satisfactory answer. If the answer cannot be found in the retrieval documents, answer "` + UnknownAnswer + `"`

// Synthesizer composes the final answer from the transcript once retrieval
// documents have been appended. Plain text, no schema.
type Synthesizer struct {
	ai  llm.Client
	log *logger.Logger
}

func NewSynthesizer(ai llm.Client, log *logger.Logger) *Synthesizer {
	return &Synthesizer{ai: ai, log: log.With("service", "Synthesizer")}
}

func (s *Synthesizer) Compose(ctx context.Context, transcript *Transcript) (string, error) {
	text, err := s.ai.GenerateText(ctx, synthesisSystemInstruction, transcript.Turns())
	if err != nil {
		return "", fmt.Errorf("answer synthesis: %w", err)
	}
	s.log.Info("Final answer synthesized", "length", len(text))
	return text, nil
}
