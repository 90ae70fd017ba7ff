package mcq

import "github.com/sranjan/examforge/internal/llm"

// BatchSchema defines the JSON schema for a generated batch of questions.
// Each record's shape is fully constrained; ids and part names are stamped
// after parsing, so the model is not asked to produce them.
var BatchSchema = &llm.Schema{
	Name:        "mcq-batch",
	Description: "A batch of multiple-choice questions for one curriculum part",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"chapter_title": map[string]any{
							"type":        "string",
							"description": "Title of the chapter this question is drawn from, matching the provided chapter list exactly",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"option_a": map[string]any{"type": "string"},
						"option_b": map[string]any{"type": "string"},
						"option_c": map[string]any{"type": "string"},
						"option_d": map[string]any{"type": "string"},
						"correct_answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "The letter of the single correct option",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "The specific topic within the chapter",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"Easy", "Moderate", "Challenging"},
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences justifying the correct answer",
						},
					},
					"required": []any{
						"chapter_title", "question",
						"option_a", "option_b", "option_c", "option_d",
						"correct_answer", "topic", "difficulty", "explanation",
					},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
