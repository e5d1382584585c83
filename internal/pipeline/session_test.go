package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/moviemania/movie-mania-backend/internal/moviedb"
	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
	"github.com/moviemania/movie-mania-backend/internal/platform/qdrant"
	"github.com/moviemania/movie-mania-backend/internal/refdata"
)

type fakeAI struct {
	jsonFn func(schemaName string, turns []llm.Turn) (map[string]any, error)
	textFn func(turns []llm.Turn) (string, error)
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system string, turns []llm.Turn, schemaName string, schema map[string]any) (map[string]any, error) {
	return f.jsonFn(schemaName, turns)
}

func (f *fakeAI) GenerateText(ctx context.Context, system string, turns []llm.Turn) (string, error) {
	if f.textFn == nil {
		return "", errors.New("unexpected GenerateText call")
	}
	return f.textFn(turns)
}

type fakeSQLRunner struct {
	plans   []SQLPlan
	results []moviedb.StatementResult
	note    string
}

func (r *fakeSQLRunner) Run(ctx context.Context, plan SQLPlan) ([]moviedb.StatementResult, string) {
	r.plans = append(r.plans, plan)
	return r.results, r.note
}

type fakeSearcher struct {
	queries   []string
	filters   []*RetrievalFilter
	documents []qdrant.Document
	err       error
}

func (s *fakeSearcher) SearchMovies(ctx context.Context, query string, filter *RetrievalFilter) ([]qdrant.Document, error) {
	s.queries = append(s.queries, query)
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	return s.documents, nil
}

func newTestSession(ai llm.Client, runner SQLRunner, searcher DocumentSearcher, lists *refdata.Lists) *Session {
	log := logger.NewNop()
	if lists == nil {
		lists = refdata.NewLists(nil, nil)
	}
	return &Session{
		log:        log,
		extractor:  NewExtractor(ai, log),
		corrector:  NewNameCorrector(lists, DefaultMatchThreshold, log),
		planner:    NewPlanner(ai, log),
		arbiter:    NewArbiter(ai, log),
		synth:      NewSynthesizer(ai, log),
		sqlRunner:  runner,
		searcher:   searcher,
		transcript: NewTranscript(),
	}
}

func entitiesJSON(titles, actors []string, task string) map[string]any {
	return map[string]any{
		"Title":      toAny(titles),
		"Genre":      []any{},
		"Year":       []any{},
		"Actors":     toAny(actors),
		"ImdbRating": []any{},
		"Task":       task,
	}
}

func toAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func TestProcessQueryDirectAnswer(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return entitiesJSON([]string{"inception"}, nil, "rating lookup"), nil
			case "sql_plan":
				return map[string]any{
					"sql_queries":  []any{"SELECT imdb_rating FROM movies WHERE title = 'inception'"},
					"reason":       "rating is a direct lookup",
					"is_completed": true,
				}, nil
			case "validation_decision":
				return map[string]any{
					"direct_answer":  "Inception is rated 8.8.",
					"sql_query":      "",
					"rag_prompt":     []any{},
					"reason":         "answer present in sql data",
					"further_search": false,
				}, nil
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
	}
	runner := &fakeSQLRunner{
		results: []moviedb.StatementResult{{Rows: []map[string]any{{"imdb_rating": "8.8"}}}},
		note:    "each sql data entry corresponds by position to a query in sql_queries",
	}
	searcher := &fakeSearcher{}
	session := newTestSession(ai, runner, searcher, refdata.NewLists([]string{"inception"}, nil))

	answer, err := session.ProcessQuery(context.Background(), "What is the rating of Inception?")
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if answer != "Inception is rated 8.8." {
		t.Fatalf("answer: got=%q", answer)
	}
	if len(searcher.queries) != 0 {
		t.Fatalf("retrieval should not run on a direct answer, got %d searches", len(searcher.queries))
	}
	if len(runner.plans) != 1 {
		t.Fatalf("sql runs: want=1 got=%d", len(runner.plans))
	}

	entries := session.Transcript().Entries()
	wantKinds := []EntryKind{EntryUserQuery, EntryPlannerPrompt, EntrySQLResult, EntryFinalAnswer}
	if len(entries) != len(wantKinds) {
		t.Fatalf("transcript length: want=%d got=%d", len(wantKinds), len(entries))
	}
	for i, want := range wantKinds {
		if entries[i].Kind != want {
			t.Fatalf("entry[%d] kind: want=%s got=%s", i, want, entries[i].Kind)
		}
	}
	if entries[len(entries)-1].Text != answer {
		t.Fatalf("final entry text: want=%q got=%q", answer, entries[len(entries)-1].Text)
	}
}

func TestProcessQueryEscalatesToRetrieval(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return entitiesJSON([]string{"inception"}, nil, "similar movie recommendation"), nil
			case "sql_plan":
				return map[string]any{
					"sql_queries":  []any{"SELECT plot FROM movies WHERE title = 'inception'"},
					"reason":       "plot fetched, similarity needs retrieval",
					"is_completed": false,
				}, nil
			case "validation_decision":
				return map[string]any{
					"direct_answer":  "",
					"sql_query":      "",
					"rag_prompt":     []any{"inception"},
					"rag_filter":     map[string]any{"Genre": []any{"sci-fi"}},
					"reason":         "similarity search required",
					"further_search": true,
				}, nil
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
		textFn: func(turns []llm.Turn) (string, error) {
			return "You might enjoy Interstellar.", nil
		},
	}
	runner := &fakeSQLRunner{results: []moviedb.StatementResult{{Rows: []map[string]any{{"plot": "a thief steals secrets in dreams"}}}}}
	searcher := &fakeSearcher{documents: []qdrant.Document{{"Title": "interstellar"}}}
	session := newTestSession(ai, runner, searcher, refdata.NewLists([]string{"inception"}, nil))

	answer, err := session.ProcessQuery(context.Background(), "Recommend a movie like Inception")
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if answer != "You might enjoy Interstellar." {
		t.Fatalf("answer: got=%q", answer)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "inception" {
		t.Fatalf("retrieval queries: got=%v", searcher.queries)
	}
	if searcher.filters[0] == nil || len(searcher.filters[0].Genres) != 1 {
		t.Fatalf("retrieval filter: got=%+v", searcher.filters[0])
	}

	entries := session.Transcript().Entries()
	wantKinds := []EntryKind{EntryUserQuery, EntryPlannerPrompt, EntrySQLResult, EntryDecision, EntryFinalAnswer}
	if len(entries) != len(wantKinds) {
		t.Fatalf("transcript length: want=%d got=%d", len(wantKinds), len(entries))
	}
	for i, want := range wantKinds {
		if entries[i].Kind != want {
			t.Fatalf("entry[%d] kind: want=%s got=%s", i, want, entries[i].Kind)
		}
	}

	var record retrievalRecord
	if err := json.Unmarshal([]byte(entries[3].Text), &record); err != nil {
		t.Fatalf("decode retrieval record: %v", err)
	}
	if len(record.RagDocuments["inception"]) != 1 {
		t.Fatalf("documents recorded: got=%v", record.RagDocuments)
	}
}

func TestProcessQueryFurtherSearchWithoutQueriesFallsBack(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return entitiesJSON(nil, nil, ""), nil
			case "sql_plan":
				return map[string]any{"sql_queries": []any{}, "reason": "nothing to query", "is_completed": true}, nil
			case "validation_decision":
				return map[string]any{
					"direct_answer":  "I could not find that movie.",
					"sql_query":      "",
					"rag_prompt":     []any{""},
					"reason":         "no usable retrieval queries",
					"further_search": true,
				}, nil
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
	}
	searcher := &fakeSearcher{}
	session := newTestSession(ai, &fakeSQLRunner{}, searcher, nil)

	answer, err := session.ProcessQuery(context.Background(), "Tell me about an unknown movie")
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if answer != "I could not find that movie." {
		t.Fatalf("answer: got=%q", answer)
	}
	if len(searcher.queries) != 0 {
		t.Fatalf("retrieval should not run without usable queries")
	}
}

func TestProcessQueryExtractionFailureDegrades(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return nil, errors.New("model unavailable")
			case "sql_plan":
				return map[string]any{"sql_queries": []any{}, "reason": "greeting", "is_completed": true}, nil
			case "validation_decision":
				return map[string]any{
					"direct_answer":  "Hello! Ask me about movies.",
					"sql_query":      "",
					"rag_prompt":     []any{},
					"reason":         "greeting",
					"further_search": false,
				}, nil
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
	}
	session := newTestSession(ai, &fakeSQLRunner{}, &fakeSearcher{}, nil)

	answer, err := session.ProcessQuery(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("ProcessQuery should absorb extraction failure: %v", err)
	}
	if answer != "Hello! Ask me about movies." {
		t.Fatalf("answer: got=%q", answer)
	}

	entries := session.Transcript().Entries()
	if entries[1].Kind != EntryPlannerPrompt || !strings.Contains(entries[1].Text, "hello there") {
		t.Fatalf("planner prompt should still carry the raw question: %q", entries[1].Text)
	}
}

func TestProcessQueryArbiterFailureSurfaces(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return entitiesJSON(nil, nil, ""), nil
			case "sql_plan":
				return map[string]any{"sql_queries": []any{}, "reason": "n/a", "is_completed": false}, nil
			case "validation_decision":
				return nil, errors.New("rate limited")
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
	}
	session := newTestSession(ai, &fakeSQLRunner{}, &fakeSearcher{}, nil)

	if _, err := session.ProcessQuery(context.Background(), "any question"); err == nil {
		t.Fatalf("arbiter failure should surface")
	}
}

func TestProcessQueryRecordsConnectionFailureNote(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return entitiesJSON(nil, nil, ""), nil
			case "sql_plan":
				return map[string]any{
					"sql_queries":  []any{"SELECT title FROM movies LIMIT 1"},
					"reason":       "simple lookup",
					"is_completed": true,
				}, nil
			case "validation_decision":
				return map[string]any{
					"direct_answer":  "The database is unavailable right now.",
					"sql_query":      "",
					"rag_prompt":     []any{},
					"reason":         "no sql data",
					"further_search": false,
				}, nil
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
	}
	runner := &fakeSQLRunner{note: noteConnectFailed}
	session := newTestSession(ai, runner, &fakeSearcher{}, nil)

	if _, err := session.ProcessQuery(context.Background(), "list a movie"); err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}

	entries := session.Transcript().Entries()
	var outcome SQLOutcome
	if err := json.Unmarshal([]byte(entries[2].Text), &outcome); err != nil {
		t.Fatalf("decode sql outcome: %v", err)
	}
	if outcome.Note != noteConnectFailed {
		t.Fatalf("note: want=%q got=%q", noteConnectFailed, outcome.Note)
	}
}

func TestProcessQueryRetrievalFailureSurfaces(t *testing.T) {
	ai := &fakeAI{
		jsonFn: func(schemaName string, turns []llm.Turn) (map[string]any, error) {
			switch schemaName {
			case "movie_info":
				return entitiesJSON(nil, nil, ""), nil
			case "sql_plan":
				return map[string]any{"sql_queries": []any{}, "reason": "retrieval needed", "is_completed": false}, nil
			case "validation_decision":
				return map[string]any{
					"direct_answer":  "",
					"sql_query":      "",
					"rag_prompt":     []any{"space movies"},
					"reason":         "similarity search",
					"further_search": true,
				}, nil
			}
			return nil, errors.New("unexpected schema " + schemaName)
		},
	}
	searcher := &fakeSearcher{err: errors.New("qdrant down")}
	session := newTestSession(ai, &fakeSQLRunner{}, searcher, nil)

	if _, err := session.ProcessQuery(context.Background(), "movies about space"); err == nil {
		t.Fatalf("retrieval failure should surface")
	}
}
