package pipeline

// JSON schemas for the three structured completion contracts. Kept as plain
// maps because they are sent verbatim in the request's text.format block.

func stringArraySchema(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func extractedEntitiesSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Title":      stringArraySchema("Movie titles explicitly mentioned in the user query. Only actual movie names, not descriptions."),
			"Genre":      stringArraySchema("Movie genres mentioned in the user query (e.g., action, comedy, thriller, drama, horror)."),
			"Year":       stringArraySchema("Release years mentioned in the user query. Only specific years or decades (e.g., 2022, 1990s)."),
			"Actors":     stringArraySchema("Actor names mentioned in the user query, full names where possible."),
			"ImdbRating": stringArraySchema("IMDb ratings or rating filters mentioned in the query (e.g., 7.5, 'above 8')."),
			"Task": map[string]any{
				"type":        "string",
				"description": "Brief summary of what the user is trying to accomplish (finding movies, counting results, comparing ratings).",
			},
		},
		"required":             []string{"Title", "Genre", "Year", "Actors", "ImdbRating", "Task"},
		"additionalProperties": false,
	}
}

func sqlPlanSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sql_queries": stringArraySchema("SQL queries needed to retrieve relevant movie data. Multiple queries only if necessary."),
			"reason": map[string]any{
				"type":        "string",
				"description": "Explanation of what the queries retrieve and whether further processing or retrieval search is needed.",
			},
			"is_completed": map[string]any{
				"type":        "boolean",
				"description": "True only if the SQL queries directly and completely answer the question.",
			},
		},
		"required":             []string{"sql_queries", "reason", "is_completed"},
		"additionalProperties": false,
	}
}

func validationDecisionSchema() map[string]any {
	filterField := func(name string) map[string]any {
		return map[string]any{
			"type":        []string{"array", "null"},
			"items":       map[string]any{"type": "string"},
			"description": "Allowed " + name + " values for the retrieval filter.",
		}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"direct_answer": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Direct answer to the user's query based on the SQL results, or null when retrieval is required.",
			},
			"sql_query": map[string]any{
				"type":        []string{"string", "null"},
				"description": "The primary SQL query used to retrieve data for the user's query.",
			},
			"rag_prompt": stringArraySchema("Movie titles (similarity search) or optimized plot search phrases. Empty unless further search is needed."),
			"rag_filter": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"Title":      filterField("Title"),
					"Genre":      filterField("Genre"),
					"Year":       filterField("Year"),
					"Actors":     filterField("Actors"),
					"ImdbRating": filterField("ImdbRating"),
				},
				"required":             []string{"Title", "Genre", "Year", "Actors", "ImdbRating"},
				"additionalProperties": false,
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Concise explanation of how the response addressed the query or why retrieval search is needed.",
			},
			"further_search": map[string]any{
				"type":        "boolean",
				"description": "Whether retrieval-based search is required.",
			},
		},
		"required":             []string{"direct_answer", "sql_query", "rag_prompt", "rag_filter", "reason", "further_search"},
		"additionalProperties": false,
	}
}
