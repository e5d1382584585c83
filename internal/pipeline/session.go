package pipeline

import (
	"context"

	"github.com/moviemania/movie-mania-backend/internal/moviedb"
	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
	"github.com/moviemania/movie-mania-backend/internal/platform/ollama"
	"github.com/moviemania/movie-mania-backend/internal/platform/qdrant"
	"github.com/moviemania/movie-mania-backend/internal/refdata"
)

// SQLRunner executes one turn's plan against the relational store. The
// returned note carries the fixed diagnostic when the database itself was
// unreachable.
type SQLRunner interface {
	Run(ctx context.Context, plan SQLPlan) (results []moviedb.StatementResult, note string)
}

// DocumentSearcher is the retrieval stage as seen by the session driver.
type DocumentSearcher interface {
	SearchMovies(ctx context.Context, query string, filter *RetrievalFilter) ([]qdrant.Document, error)
}

const (
	noteResultsAligned  = "each sql data entry corresponds by position to a query in sql_queries"
	noteConnectFailed   = "Database connection failed"
	noteNoRetrievalHint = "No retrieval queries available, using direct answer"
)

// poolRunner opens a fresh connection pool per query turn and tears it down
// when the turn's SQL work is done.
type poolRunner struct {
	log *logger.Logger
}

func (r *poolRunner) Run(ctx context.Context, plan SQLPlan) ([]moviedb.StatementResult, string) {
	pool, err := moviedb.Connect(ctx, r.log)
	if err != nil {
		r.log.Error("Database connection failed", "error", err)
		return nil, noteConnectFailed
	}
	defer pool.Close()

	executor := moviedb.NewExecutor(pool, r.log)
	results := executor.ExecutePlan(ctx, plan.Statements)
	return results, noteResultsAligned
}

// Session drives the five-stage pipeline for one conversation. It owns the
// transcript exclusively; stages receive it by reference and only append.
type Session struct {
	log        *logger.Logger
	extractor  *Extractor
	corrector  *NameCorrector
	planner    *Planner
	arbiter    *Arbiter
	synth      *Synthesizer
	sqlRunner  SQLRunner
	searcher   DocumentSearcher
	transcript *Transcript
}

func NewSession(ai llm.Client, vec qdrant.VectorStore, emb ollama.Embedder, lists *refdata.Lists, log *logger.Logger) *Session {
	return &Session{
		log:        log.With("service", "Session"),
		extractor:  NewExtractor(ai, log),
		corrector:  NewNameCorrector(lists, DefaultMatchThreshold, log),
		planner:    NewPlanner(ai, log),
		arbiter:    NewArbiter(ai, log),
		synth:      NewSynthesizer(ai, log),
		sqlRunner:  &poolRunner{log: log},
		searcher:   NewRetriever(vec, emb, lists, log),
		transcript: NewTranscript(),
	}
}

func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// retrievalRecord is the serialized form of an escalation: the decision plus
// the documents fetched for each retrieval query.
type retrievalRecord struct {
	Decision     ValidationDecision           `json:"validation"`
	RagDocuments map[string][]qdrant.Document `json:"rag_documents"`
}

// ProcessQuery runs one user turn through the full pipeline and returns the
// final answer. Control flows strictly forward: extract, correct, plan,
// execute, arbitrate, then optionally retrieve and synthesize.
func (s *Session) ProcessQuery(ctx context.Context, userQuery string) (string, error) {
	s.transcript.Append(EntryUserQuery, RoleUser, userQuery)

	entities, err := s.extractor.Extract(ctx, userQuery)
	if err != nil {
		// Absence of entities is not fatal; the planner still sees the raw
		// question through the transcript.
		s.log.Warn("Entity extraction degraded to empty entities", "error", err)
		entities = ExtractedEntities{}
	}

	correctedActors, correctedTitles := s.corrector.Correct(entities.Actors, entities.Titles)

	plan := s.planner.Plan(ctx, userQuery, correctedTitles, correctedActors, entities.Task, s.transcript)

	results, note := s.sqlRunner.Run(ctx, plan)
	outcome := SQLOutcome{Plan: plan, Results: results, Note: note}
	s.transcript.Append(EntrySQLResult, RoleAssistant, serialize(outcome))

	decision, err := s.arbiter.Decide(ctx, s.transcript)
	if err != nil {
		return "", err
	}

	queries := nonEmpty(decision.RetrievalQueries)
	if decision.FurtherSearch && len(queries) > 0 {
		return s.escalate(ctx, decision, queries)
	}

	if decision.FurtherSearch {
		s.log.Warn(noteNoRetrievalHint)
	}
	s.transcript.Append(EntryFinalAnswer, RoleAssistant, decision.DirectAnswer)
	return decision.DirectAnswer, nil
}

func (s *Session) escalate(ctx context.Context, decision ValidationDecision, queries []string) (string, error) {
	s.log.Info("Performing retrieval search", "queries", queries)

	record := retrievalRecord{
		Decision:     decision,
		RagDocuments: make(map[string][]qdrant.Document, len(queries)),
	}
	for _, query := range queries {
		documents, err := s.searcher.SearchMovies(ctx, query, decision.Filter)
		if err != nil {
			return "", err
		}
		record.RagDocuments[query] = documents
	}
	s.transcript.Append(EntryDecision, RoleAssistant, serialize(record))

	final, err := s.synth.Compose(ctx, s.transcript)
	if err != nil {
		return "", err
	}
	s.transcript.Append(EntryFinalAnswer, RoleAssistant, final)
	return final, nil
}
