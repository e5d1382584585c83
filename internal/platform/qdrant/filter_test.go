package qdrant

import (
	"reflect"
	"testing"
)

func TestMatchConditionShape(t *testing.T) {
	got := MatchCondition("Title", "inception")
	want := map[string]any{
		"key": "Title",
		"match": map[string]any{
			"value": "inception",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("condition: want=%v got=%v", want, got)
	}
}

func TestMatchAnyConditionShape(t *testing.T) {
	got := MatchAnyCondition("Genre", []string{"sci-fi", "thriller"})
	match, ok := got["match"].(map[string]any)
	if !ok {
		t.Fatalf("match type: got=%T", got["match"])
	}
	anyValues, ok := match["any"].([]any)
	if !ok {
		t.Fatalf("any type: got=%T", match["any"])
	}
	if len(anyValues) != 2 || anyValues[0] != "sci-fi" || anyValues[1] != "thriller" {
		t.Fatalf("any values: got=%v", anyValues)
	}
}

func TestMustFilterEmptyIsNil(t *testing.T) {
	if got := MustFilter(); got != nil {
		t.Fatalf("empty filter: want=nil got=%v", got)
	}
	if got := MustFilter(nil, nil); got != nil {
		t.Fatalf("all-nil filter: want=nil got=%v", got)
	}
}

func TestMustFilterCombinesConditions(t *testing.T) {
	got := MustFilter(
		MatchCondition("Year", "2010"),
		nil,
		MatchAnyCondition("Genre", []string{"sci-fi"}),
	)
	must, ok := got["must"].([]any)
	if !ok {
		t.Fatalf("must type: got=%T", got["must"])
	}
	if len(must) != 2 {
		t.Fatalf("must length: want=2 got=%d", len(must))
	}
}
