package pipeline

import (
	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
)

// EntryKind tags what produced a transcript entry. Every intermediate
// artifact is serialized to text and appended so later stages and future
// turns can condition on it.
type EntryKind string

const (
	EntryUserQuery     EntryKind = "user_query"
	EntryPlannerPrompt EntryKind = "planner_prompt"
	EntrySQLResult     EntryKind = "sql_result"
	EntryDecision      EntryKind = "validation_decision"
	EntryFinalAnswer   EntryKind = "final_answer"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Entry struct {
	Kind EntryKind
	Role string
	Text string
}

// Transcript is the append-only conversation record shared by all stages of
// a session. Stages only append; prior entries are never rewound or mutated.
type Transcript struct {
	entries []Entry
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(kind EntryKind, role, text string) {
	t.entries = append(t.entries, Entry{Kind: kind, Role: role, Text: text})
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy so callers cannot mutate history.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Turns renders the transcript into the conversation shape the model
// consumes, in append order.
func (t *Transcript) Turns() []llm.Turn {
	out := make([]llm.Turn, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, llm.Turn{Role: e.Role, Content: e.Text})
	}
	return out
}
