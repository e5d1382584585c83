package moviedb

import (
	"context"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

// MaxRows bounds how many rows of any single statement reach the transcript.
const MaxRows = 100

// SentinelMarker is recorded for a statement that failed or was not a SELECT.
const SentinelMarker = "Nothing to show"

// StatementResult is the outcome of one planned statement. Exactly one of
// Rows or Marker is populated. Results are indexed by statement position,
// never by statement text.
type StatementResult struct {
	Rows   []map[string]any `json:"rows,omitempty"`
	Marker []string         `json:"marker,omitempty"`
}

func markerResult() StatementResult {
	return StatementResult{Marker: []string{SentinelMarker}}
}

var fencedSQL = regexp.MustCompile("(?s)```(?:sql)?\n(.*?)\n```")

// CleanStatement strips a markdown code fence if one is present, falling back
// to the trimmed original text.
func CleanStatement(sql string) string {
	if strings.Contains(sql, "```") {
		if m := fencedSQL.FindStringSubmatch(sql); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return strings.TrimSpace(sql)
}

// IsSelect reports whether the statement is retrievable: a case-insensitive
// SELECT prefix check, nothing deeper.
func IsSelect(sql string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(sql)), "select")
}

// Executor runs planned statements sequentially against one pool.
type Executor struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	query func(ctx context.Context, stmt string) ([]map[string]any, error)
}

func NewExecutor(pool *pgxpool.Pool, log *logger.Logger) *Executor {
	e := &Executor{pool: pool, log: log.With("service", "QueryExecutor")}
	e.query = e.queryRows
	return e
}

// ExecutePlan executes each statement in order and returns results aligned by
// position with the input. A failed or non-SELECT statement records the
// sentinel marker; execution always continues to the next statement.
func (e *Executor) ExecutePlan(ctx context.Context, statements []string) []StatementResult {
	results := make([]StatementResult, 0, len(statements))

	for i, raw := range statements {
		stmt := CleanStatement(raw)

		if !IsSelect(stmt) {
			e.log.Warn("Statement is not a SELECT, skipping", "index", i)
			results = append(results, markerResult())
			continue
		}

		rows, err := e.query(ctx, stmt)
		if err != nil {
			e.log.Error("Statement execution failed", "index", i, "error", err)
			results = append(results, markerResult())
			continue
		}

		e.log.Info("Statement executed", "index", i, "rows", len(rows))
		if len(rows) > MaxRows {
			rows = rows[:MaxRows]
		}
		results = append(results, StatementResult{Rows: rows})
	}

	return results
}

func (e *Executor) queryRows(ctx context.Context, stmt string) ([]map[string]any, error) {
	rows, err := e.pool.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = string(fd.Name)
	}

	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(names))
		for i, name := range names {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
