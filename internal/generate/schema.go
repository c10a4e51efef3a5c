package generate

import "github.com/abhisek/vocabz/internal/llm"

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func nonEmpty(desc string) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "description": desc}
}

func arrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "minItems": 1, "items": item}
}

// DefinitionsSchema validates the normalized definitions list.
var DefinitionsSchema = &llm.Schema{
	Name:        "vocab-definitions",
	Description: "Learner-friendly definitions for a list of English words",
	Definition: arrayOf(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":       nonEmpty("The word exactly as given"),
			"definition": nonEmpty("A short learner-friendly definition"),
			"example":    str("One natural example sentence using the word"),
			"ipa":        str("IPA transcription, without slashes"),
		},
		"required": []any{"word", "definition", "example"},
	}),
}

// QuestionsSchema validates the normalized quiz question list.
var QuestionsSchema = &llm.Schema{
	Name:        "vocab-questions",
	Description: "Multiple-choice vocabulary questions",
	Definition: arrayOf(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":          str("The word being tested"),
			"question":      nonEmpty("The question text"),
			"correctAnswer": nonEmpty("The correct option, copied exactly"),
			"options": map[string]any{
				"type":     "array",
				"minItems": 4,
				"maxItems": 4,
				"items":    map[string]any{"type": "string"},
			},
		},
		"required": []any{"question", "correctAnswer", "options"},
	}),
}

// WritingSchema validates the normalized writing exercise list.
var WritingSchema = &llm.Schema{
	Name:        "vocab-writing",
	Description: "Sentence translation exercises",
	Definition: arrayOf(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":                  nonEmpty("The target word"),
			"sentence":              nonEmpty("An English sentence using the word"),
			"vietnameseTranslation": nonEmpty("The Vietnamese translation of the sentence"),
		},
		"required": []any{"word", "sentence", "vietnameseTranslation"},
	}),
}

// WordListSchema validates a list of suggested words.
var WordListSchema = &llm.Schema{
	Name:        "vocab-word-list",
	Description: "Suggested English words for a topic",
	Definition:  arrayOf(map[string]any{"type": "string"}),
}

// GrammarSchema validates grammar issues. An empty list means no issues.
var GrammarSchema = &llm.Schema{
	Name:        "vocab-grammar",
	Description: "Grammar corrections",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"original":    nonEmpty("The exact text span with the problem"),
				"replacement": str("The corrected text"),
				"category":    str("grammar, spelling, punctuation, word choice or style"),
				"explanation": str("One sentence explaining the fix"),
			},
			"required": []any{"original", "replacement"},
		},
	},
}

// ScoreSchema validates an essay score report.
var ScoreSchema = &llm.Schema{
	Name:        "vocab-essay-score",
	Description: "IELTS writing band score report",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overallBand": map[string]any{"type": "number", "minimum": 0, "maximum": 9},
			"criteria": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":    nonEmpty("Criterion name"),
						"band":    map[string]any{"type": "number", "minimum": 0, "maximum": 9},
						"comment": str("Short justification"),
					},
					"required": []any{"name", "band"},
				},
			},
			"strengths":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"improvements": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"overallBand", "criteria"},
	},
}

// ModelEssaySchema validates a model essay.
var ModelEssaySchema = &llm.Schema{
	Name:        "vocab-model-essay",
	Description: "A model essay and its analysis",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"essay":    nonEmpty("The essay text"),
			"analysis": str("Why the essay reaches the target band"),
		},
		"required": []any{"essay"},
	},
}

// TextSchema validates single-text replies (stories, rewrites).
var TextSchema = &llm.Schema{
	Name:        "vocab-text",
	Description: "A single block of text",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"text": nonEmpty("The text")},
		"required":   []any{"text"},
	},
}
