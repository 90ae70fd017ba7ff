package analysis

import "github.com/sranjan/examforge/internal/llm"

// AnalysisSchema defines the JSON schema for the structural analysis
// response. The parts array is pinned to exactly four entries so the
// model's output is structurally constrained rather than free text.
var AnalysisSchema = &llm.Schema{
	Name:        "textbook-analysis",
	Description: "Structural decomposition of a textbook into chapters, topics, and four curriculum parts",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chapters": map[string]any{
				"type":        "array",
				"description": "All chapters found in the textbook, in book order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Chapter title, unique within the book",
						},
						"topics": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Topics covered by this chapter, in order of appearance",
						},
					},
					"required":             []any{"title", "topics"},
					"additionalProperties": false,
				},
			},
			"parts": map[string]any{
				"type":        "array",
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly four logical curriculum parts covering all chapters",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Descriptive name for this part",
						},
						"chapter_titles": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Titles of the chapters in this part, matching the chapters array exactly",
						},
					},
					"required":             []any{"name", "chapter_titles"},
					"additionalProperties": false,
				},
			},
			"total_topics": map[string]any{
				"type":        "integer",
				"description": "Total number of topics across all chapters",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentences describing the book's subject and scope",
			},
		},
		"required":             []any{"chapters", "parts", "total_topics", "summary"},
		"additionalProperties": false,
	},
}
