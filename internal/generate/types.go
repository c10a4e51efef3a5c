package generate

import (
	"fmt"
	"strings"

	"github.com/abhisek/vocabz/internal/vocab"
)

// Definition is generated content for one word.
type Definition struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	IPA        string `json:"ipa"`
}

// Record converts d into a record with no id and zero progress.
func (d Definition) Record() vocab.Record {
	return vocab.Record{Word: d.Word, Definition: d.Definition, Example: d.Example, IPA: d.IPA}
}

// Records converts a batch of definitions.
func Records(defs []Definition) []vocab.Record {
	out := make([]vocab.Record, len(defs))
	for i, d := range defs {
		out[i] = d.Record()
	}
	return out
}

// QuestionType selects what a quiz question asks about the word.
type QuestionType string

const (
	QuestionMeaning   QuestionType = "meaning"
	QuestionFillBlank QuestionType = "fill-blank"
	QuestionSynonym   QuestionType = "synonym"
)

// ParseQuestionType parses a question type name.
func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(s))) {
	case "", QuestionMeaning:
		return QuestionMeaning, nil
	case QuestionFillBlank, "blank":
		return QuestionFillBlank, nil
	case QuestionSynonym:
		return QuestionSynonym, nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// TaskType is the IELTS writing task an essay answers.
type TaskType string

const (
	Task1 TaskType = "task1"
	Task2 TaskType = "task2"
)

// ParseTaskType parses "task1"/"task2" (also "1"/"2").
func ParseTaskType(s string) (TaskType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "task1", "task-1":
		return Task1, nil
	case "", "2", "task2", "task-2":
		return Task2, nil
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

// CriterionScore is the band for one marking criterion.
type CriterionScore struct {
	Name    string  `json:"name"`
	Band    float64 `json:"band"`
	Comment string  `json:"comment"`
}

// ScoreReport is the result of scoring an essay.
type ScoreReport struct {
	OverallBand  float64          `json:"overallBand"`
	Criteria     []CriterionScore `json:"criteria"`
	Strengths    []string         `json:"strengths"`
	Improvements []string         `json:"improvements"`
}

// ModelEssay is a sample answer with a short commentary.
type ModelEssay struct {
	Essay    string `json:"essay"`
	Analysis string `json:"analysis"`
}

// GrammarIssue is one suggested correction.
type GrammarIssue struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}
