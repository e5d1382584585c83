package pipeline

import (
	"testing"

	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
	"github.com/moviemania/movie-mania-backend/internal/refdata"
)

func newTestCorrector(movies, actors []string) *NameCorrector {
	return NewNameCorrector(refdata.NewLists(movies, actors), DefaultMatchThreshold, logger.NewNop())
}

func TestCorrectFixesNearMisses(t *testing.T) {
	c := newTestCorrector(
		[]string{"inception", "the dark knight"},
		[]string{"leonardo dicaprio", "christian bale"},
	)

	actors, titles := c.Correct(
		[]string{"leonardo di caprio"},
		[]string{"the dark kngiht"},
	)

	if actors[0] != "leonardo dicaprio" {
		t.Fatalf("actor: want=%q got=%q", "leonardo dicaprio", actors[0])
	}
	if titles[0] != "the dark knight" {
		t.Fatalf("title: want=%q got=%q", "the dark knight", titles[0])
	}
}

func TestCorrectPreservesLengthAndOrder(t *testing.T) {
	c := newTestCorrector(
		[]string{"inception", "interstellar"},
		[]string{"matthew mcconaughey"},
	)

	inputTitles := []string{"interstellar", "inception", "interstellar"}
	_, titles := c.Correct(nil, inputTitles)

	if len(titles) != len(inputTitles) {
		t.Fatalf("length: want=%d got=%d", len(inputTitles), len(titles))
	}
	want := []string{"interstellar", "inception", "interstellar"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles[%d]: want=%q got=%q", i, want[i], titles[i])
		}
	}
}

func TestCorrectBelowThresholdPassesThrough(t *testing.T) {
	c := newTestCorrector([]string{"inception"}, nil)

	_, titles := c.Correct(nil, []string{"zzzzqqqqxxxx"})
	if titles[0] != "zzzzqqqqxxxx" {
		t.Fatalf("unmatched input should pass through unchanged, got=%q", titles[0])
	}
}

func TestCorrectEmptyStringsPassThrough(t *testing.T) {
	c := newTestCorrector([]string{"inception"}, []string{"tom hardy"})

	actors, titles := c.Correct([]string{"", "tom hardy"}, []string{"  "})
	if actors[0] != "" {
		t.Fatalf("empty actor: want=%q got=%q", "", actors[0])
	}
	if actors[1] != "tom hardy" {
		t.Fatalf("actor: want=%q got=%q", "tom hardy", actors[1])
	}
	if titles[0] != "" {
		t.Fatalf("blank title: want=%q got=%q", "", titles[0])
	}
}

func TestCorrectEmptyReferenceListLeavesInputs(t *testing.T) {
	c := newTestCorrector(nil, nil)

	actors, titles := c.Correct([]string{"tom hardy"}, []string{"inception"})
	if actors[0] != "tom hardy" || titles[0] != "inception" {
		t.Fatalf("inputs should survive empty reference lists: actors=%v titles=%v", actors, titles)
	}
}
