package qdrant

// Filter condition helpers. The retrieval stage builds conjunctive filters
// from per-field "any of" constraints, so only must/match shapes are needed.

// MatchCondition matches a payload field against one exact value.
func MatchCondition(key string, value any) map[string]any {
	return map[string]any{
		"key": key,
		"match": map[string]any{
			"value": value,
		},
	}
}

// MatchAnyCondition matches a payload field against any of the given values.
func MatchAnyCondition(key string, values []string) map[string]any {
	anyValues := make([]any, 0, len(values))
	for _, v := range values {
		anyValues = append(anyValues, v)
	}
	return map[string]any{
		"key": key,
		"match": map[string]any{
			"any": anyValues,
		},
	}
}

// MustFilter combines conditions conjunctively. Returns nil when no
// conditions are given so callers can pass the result straight to Search.
func MustFilter(conditions ...map[string]any) map[string]any {
	if len(conditions) == 0 {
		return nil
	}
	must := make([]any, 0, len(conditions))
	for _, c := range conditions {
		if c == nil {
			continue
		}
		must = append(must, c)
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}
