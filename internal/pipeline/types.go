package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/moviemania/movie-mania-backend/internal/moviedb"
)

// ExtractedEntities is the structured view of one user query. Fields are
// always populated with at least empty defaults; extraction never fails the
// caller.
type ExtractedEntities struct {
	Titles  []string `json:"Title"`
	Genres  []string `json:"Genre"`
	Years   []string `json:"Year"`
	Actors  []string `json:"Actors"`
	Ratings []string `json:"ImdbRating"`
	Task    string   `json:"Task"`
}

// SQLPlan is the planner's schema-constrained output. Statements are
// read-only SELECTs by instruction to the model; the executor separately
// refuses anything that is not a SELECT.
type SQLPlan struct {
	Statements []string `json:"sql_queries"`
	Rationale  string   `json:"reason"`
	Completed  bool     `json:"is_completed"`
}

// RetrievalFilter constrains the vector search per payload field with
// "any of" semantics. Nil slices mean no constraint on that field.
type RetrievalFilter struct {
	Titles  []string `json:"Title,omitempty"`
	Genres  []string `json:"Genre,omitempty"`
	Years   []string `json:"Year,omitempty"`
	Actors  []string `json:"Actors,omitempty"`
	Ratings []string `json:"ImdbRating,omitempty"`
}

// ValidationDecision is the arbiter's verdict on whether the SQL results
// suffice or semantic search must be layered on.
type ValidationDecision struct {
	DirectAnswer     string           `json:"direct_answer"`
	SQLQuery         string           `json:"sql_query"`
	RetrievalQueries []string         `json:"rag_prompt"`
	Filter           *RetrievalFilter `json:"rag_filter,omitempty"`
	Rationale        string           `json:"reason"`
	FurtherSearch    bool             `json:"further_search"`
}

// SQLOutcome bundles one turn's plan and execution results for the
// transcript. Note carries the fixed diagnostic when the database itself was
// unreachable.
type SQLOutcome struct {
	Plan    SQLPlan                   `json:"sql_tool_response"`
	Results []moviedb.StatementResult `json:"sql_data"`
	Note    string                    `json:"note"`
}

// MalformedResponseError is returned when a schema-constrained completion
// does not decode into its declared shape.
type MalformedResponseError struct {
	Schema string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Schema, e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// decodeResponse converts the model's generic JSON object into the typed
// contract, failing loudly instead of defaulting silently.
func decodeResponse(schema string, obj map[string]any, out any) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return &MalformedResponseError{Schema: schema, Cause: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Schema: schema, Cause: err}
	}
	return nil
}

// serialize renders a transcript artifact deterministically. Struct field
// order is fixed, so the rendered text is stable for identical inputs.
func serialize(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(raw)
}
