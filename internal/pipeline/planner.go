package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

const plannerSystemInstruction = `You are a specialized SQL query generator for a movie database. Your task is to convert natural language questions into correct PostgreSQL queries.

DATABASE SCHEMA:
- movies (id, title, year, imdb_rating, plot)
- actors (id, name)
- genres (id, name)
- languages (id, name)
- movie_actors (movie_id, actor_id)
- movie_genres (movie_id, genre_id)
- movie_languages (movie_id, language_id)

KEY RELATIONSHIPS:
- movies have many actors through movie_actors
- movies have many genres through movie_genres
- movies have many languages through movie_languages

DATA SPECIFICATIONS:
- ALL TEXT in the database is stored in lowercase (titles, actor names, genres, plot, languages)
- 'year' and 'imdb_rating' are stored as TEXT
- Missing data is stored as "N/A" (imdb_rating, year) or "n/a" (other fields)
- For numeric comparisons, cast imdb_rating to NUMERIC using NULLIF(m.imdb_rating, 'N/A')::NUMERIC

PROCESSING GUIDELINES:
1. Previous Answers: If the answer is already available from the past conversation, state that in the reason field and set is_completed to true without generating new queries.
2. Direct Plot Questions: For questions about "what happens in [specific movie]", fetch the exact plot with SQL. This directly answers the question (is_completed = true).
3. Plot Analysis Questions: For questions requiring analysis of plot content (character identification, scene descriptions), fetch the relevant movie plots with SQL but set is_completed = false as further processing is needed.
4. Multi-part Questions: Generate SQL for all parts that SQL can answer, and indicate in the reason field which parts require retrieval search.
5. Retrieval-Specific Cases: Retrieval search is ONLY needed for similarity-based recommendations, general content searches not specific to named movies, and comparison requests. For these, set is_completed = false and indicate retrieval is needed in the reason field without generating SQL queries.

RESPONSE REQUIREMENTS:
1. For factual movie database questions (ratings, years, counts), provide SQL queries that directly answer the question
2. Always convert search terms to lowercase in your queries
3. Use LIKE operators for plot searches when possible to narrow results
4. Only respond to movie-related queries (greetings and farewells are acceptable)
5. Never give insert, update, delete, drop, or truncate queries`

// Planner asks the model for one or more read-only SQL statements plus a
// self-assessment of completeness.
type Planner struct {
	ai  llm.Client
	log *logger.Logger
}

func NewPlanner(ai llm.Client, log *logger.Logger) *Planner {
	return &Planner{ai: ai, log: log.With("service", "SQLPlanner")}
}

// Plan builds the augmented prompt from the corrected entities, appends it
// to the transcript, and requests a schema-constrained plan. On any model
// failure it returns a degraded plan carrying the failure message - the one
// explicit local-recovery path in the pipeline.
func (p *Planner) Plan(ctx context.Context, question string, movies, actors []string, task string, transcript *Transcript) SQLPlan {
	prompt := buildPlannerPrompt(question, movies, actors, task)
	transcript.Append(EntryPlannerPrompt, RoleUser, prompt)

	obj, err := p.ai.GenerateJSON(ctx, plannerSystemInstruction, transcript.Turns(), "sql_plan", sqlPlanSchema())
	if err != nil {
		p.log.Error("SQL planning failed, degrading to empty plan", "error", err)
		return SQLPlan{
			Statements: []string{},
			Rationale:  fmt.Sprintf("Error: %v", err),
			Completed:  false,
		}
	}

	var plan SQLPlan
	if err := decodeResponse("sql_plan", obj, &plan); err != nil {
		p.log.Error("SQL plan malformed, degrading to empty plan", "error", err)
		return SQLPlan{
			Statements: []string{},
			Rationale:  fmt.Sprintf("Error: %v", err),
			Completed:  false,
		}
	}

	p.log.Info("SQL plan generated", "statements", len(plan.Statements), "completed", plan.Completed)
	return plan
}

func buildPlannerPrompt(question string, movies, actors []string, task string) string {
	var b strings.Builder
	b.WriteString(question)

	movies = nonEmpty(movies)
	actors = nonEmpty(actors)
	if len(movies) == 0 && len(actors) == 0 && strings.TrimSpace(task) == "" {
		return b.String()
	}

	b.WriteString("\n\n### Additional Context ###\n")
	if len(movies) > 0 {
		b.WriteString("Extracted Movies: " + quoteJoin(movies) + "\n")
	}
	if len(actors) > 0 {
		b.WriteString("Extracted Actors: " + quoteJoin(actors) + "\n")
	}
	if strings.TrimSpace(task) != "" {
		b.WriteString("User Intent: " + task + "\n")
	}
	b.WriteString("\nNote: These are fuzzy-matched and corrected names. Use these names in your SQL query where applicable, as they match the database records.")
	return b.String()
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func quoteJoin(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+v+"'")
	}
	return strings.Join(quoted, ", ")
}
