package pipeline

import (
	"context"
	"fmt"

	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

const arbiterSystemInstruction = `Based on the user and model interaction, determine if the question can be answered directly from SQL results or if retrieval-based (RAG) search is required.

INPUT FORMAT:
The conversation contains a result object with these components:
- sql_tool_response: {sql_queries, reason, is_completed}
- sql_data: array of result entries, each corresponding by position to a query in sql_queries
- note: additional context about the SQL data

RETRIEVAL USAGE TYPES:
1. Similarity Search: when the user asks for movies similar to a specific title, put movie titles in rag_prompt (e.g., ["Inception"]).
2. General Plot Search: when the user asks for movies with specific plot elements, put optimized search phrases in rag_prompt (e.g., ["student returns from USA to India"]). DO NOT include words like "movie", "film", or "show" in these phrases.

DECISION PROCESS:
1. If sql_data can answer the question (fully or partially): analyze the data, format a clear direct_answer, set sql_query to the primary query used, set further_search = false, leave rag_prompt empty and rag_filter null, and explain in reason what data was found.
2. If the user requests recommendations or similarity-based results: set direct_answer to null (or a partial answer if available), set further_search = true, populate rag_prompt with movie titles, set rag_filter if needed, and explain why similarity search is needed.
3. If the user asks about plot elements without naming a movie and SQL results are insufficient: include any partial answer in direct_answer, set further_search = true, create optimized search phrases in rag_prompt focused on narrative elements, set rag_filter if the user constrained genre/year/actors/rating, and explain why plot search is needed.
4. If sql_data is empty and it is not a retrieval case: set direct_answer to a polite denial (e.g., "I couldn't find any information about that in our database."), set further_search = false, set sql_query to the primary query used, and explain that no data was found.

EXAMPLES:
- "What are the highest-rated action movies from 2020?" with rows returned -> {direct_answer: formatted list, further_search: false}
- "Recommend movies like Inception" with Inception's plot returned -> {direct_answer: null, further_search: true, rag_prompt: ["Inception"]}
- "What happens in Avatar 5?" with no rows -> {direct_answer: "I couldn't find any information about Avatar 5 in our database.", further_search: false}
- "Which comedy movie has twins separated at birth?" with limited rows -> {direct_answer: null, further_search: true, rag_prompt: ["twins separated at birth reunite"], rag_filter: {"Genre": ["comedy"]}}

Always provide a clear denial in direct_answer when no data is found and retrieval is not applicable. Use rag_filter only when the user constrains genres, years, actors, or ratings.`

// Arbiter decides, per turn, whether the SQL results suffice or semantic
// search must be layered on. The transition rule itself is applied by the
// session driver.
type Arbiter struct {
	ai  llm.Client
	log *logger.Logger
}

func NewArbiter(ai llm.Client, log *logger.Logger) *Arbiter {
	return &Arbiter{ai: ai, log: log.With("service", "AnswerArbiter")}
}

// Decide issues the validation completion over the full transcript,
// including the just-appended SQL result dump. Failures surface to the
// caller; there is no automatic retry of the arbitration itself.
func (a *Arbiter) Decide(ctx context.Context, transcript *Transcript) (ValidationDecision, error) {
	obj, err := a.ai.GenerateJSON(ctx, arbiterSystemInstruction, transcript.Turns(), "validation_decision", validationDecisionSchema())
	if err != nil {
		return ValidationDecision{}, fmt.Errorf("answer arbitration: %w", err)
	}

	var decision ValidationDecision
	if err := decodeResponse("validation_decision", obj, &decision); err != nil {
		return ValidationDecision{}, err
	}

	if decision.FurtherSearch {
		a.log.Info("Escalating to retrieval search", "queries", len(decision.RetrievalQueries), "reason", decision.Rationale)
	} else {
		a.log.Info("SQL results sufficient", "reason", decision.Rationale)
	}
	return decision, nil
}
