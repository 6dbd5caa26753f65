package exercise

import "github.com/abhisek/dpt/internal/llm"

// ReviewSchema defines the JSON schema for structured review responses.
var ReviewSchema = &llm.Schema{
	Name:        "pattern-review",
	Description: "A scored critique of a design pattern implementation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     5,
				"description": "1 is completely incorrect, 5 is excellent",
			},
			"suggestions": map[string]any{
				"type":        "string",
				"description": "Brief suggestions for improvement",
			},
		},
		"required":             []any{"score", "suggestions"},
		"additionalProperties": false,
	},
}
