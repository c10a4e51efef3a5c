package generate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vocabz/internal/llm"
	"github.com/abhisek/vocabz/internal/vocab"
)

func reply(s string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(s), Usage: llm.Usage{InputTokens: 100, OutputTokens: 50}}
}

func newService(responses ...llm.MockResponse) (*Service, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return NewService(mock, DefaultConfig()), mock
}

func TestDefinitions_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare array", `[{"word":"apple","definition":"a fruit","example":"I ate an apple.","ipa":"ˈæpəl"}]`},
		{"items key", `{"items":[{"word":"apple","definition":"a fruit","example":"I ate an apple.","ipa":"ˈæpəl"}]}`},
		{"other single array", `{"definitions":[{"word":"apple","definition":"a fruit","example":"I ate an apple.","ipa":"ˈæpəl"}]}`},
		{"single object", `{"word":"apple","definition":"a fruit","example":"I ate an apple.","ipa":"ˈæpəl"}`},
		{"fenced", "```json\n{\"items\":[{\"word\":\"apple\",\"definition\":\"a fruit\",\"example\":\"I ate an apple.\",\"ipa\":\"ˈæpəl\"}]}\n```"},
		{"leading prose", "Here you go:\n[{\"word\":\"apple\",\"definition\":\"a fruit\",\"example\":\"I ate an apple.\",\"ipa\":\"ˈæpəl\"}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(reply(tt.content))
			defs, usage, err := svc.Definitions(t.Context(), []string{"apple"})
			require.NoError(t, err)
			require.Len(t, defs, 1)
			assert.Equal(t, Definition{Word: "apple", Definition: "a fruit", Example: "I ate an apple.", IPA: "ˈæpəl"}, defs[0])
			assert.Equal(t, 100, usage.InputTokens)
		})
	}
}

func TestDefinitions_RequestIsJSONMode(t *testing.T) {
	svc, mock := newService(reply(`[{"word":"apple","definition":"a fruit","example":"x"}]`))
	_, _, err := svc.Definitions(t.Context(), []string{"apple", "pear"})
	require.NoError(t, err)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.True(t, req.JSONMode)
	assert.Nil(t, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "1. apple\n2. pear")
}

func TestDefinitions_UnusableReplies(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `sorry, I cannot help`},
		{"two arrays", `{"a":[{"word":"x","definition":"d","example":"e"}],"b":[]}`},
		{"missing definition", `[{"word":"apple","example":"e"}]`},
		{"empty list", `{"items":[]}`},
		{"number", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(reply(tt.content))
			_, _, err := svc.Definitions(t.Context(), []string{"apple"})
			var genErr *llm.GenerationError
			assert.True(t, errors.As(err, &genErr), "got %v", err)
		})
	}
}

func TestDefinitions_TransportErrorPassesThrough(t *testing.T) {
	svc, _ := newService(llm.MockResponse{Err: &llm.TransportError{StatusCode: 503, Err: errors.New("unavailable")}})
	_, _, err := svc.Definitions(t.Context(), []string{"apple"})

	var tErr *llm.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, 503, tErr.StatusCode)
}

func TestDefinitions_NoWords(t *testing.T) {
	svc, mock := newService()
	_, _, err := svc.Definitions(t.Context(), nil)
	assert.Error(t, err)
	assert.Zero(t, mock.CallCount())
}

func TestQuestions(t *testing.T) {
	svc, _ := newService(reply(`{"items":[{"word":"apple","question":"What is an apple?","correctAnswer":"A fruit","options":["A car","A fruit","A city","A song"]}]}`))
	qs, _, err := svc.Questions(t.Context(), []string{"apple"}, QuestionMeaning)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "A fruit", qs[0].CorrectAnswer)
	assert.Len(t, qs[0].Options, 4)
}

func TestQuestions_RejectsBadOptions(t *testing.T) {
	tests := map[string]string{
		"three options":  `[{"question":"q","correctAnswer":"a","options":["a","b","c"]}]`,
		"answer missing": `[{"question":"q","correctAnswer":"z","options":["a","b","c","d"]}]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _ := newService(reply(content))
			_, _, err := svc.Questions(t.Context(), []string{"apple"}, QuestionSynonym)
			var genErr *llm.GenerationError
			assert.True(t, errors.As(err, &genErr), "got %v", err)
		})
	}
}

func TestWritingExercises(t *testing.T) {
	svc, _ := newService(reply(`{"items":[{"word":"apple","sentence":"I eat an apple every day.","vietnameseTranslation":"Tôi ăn một quả táo mỗi ngày."}]}`))
	ex, _, err := svc.WritingExercises(t.Context(), []string{"apple"})
	require.NoError(t, err)
	require.Len(t, ex, 1)
	assert.Equal(t, "Tôi ăn một quả táo mỗi ngày.", ex[0].VietnameseTranslation)
}

func TestWritingExercises_MissingTranslation(t *testing.T) {
	svc, _ := newService(reply(`[{"word":"apple","sentence":"s"}]`))
	_, _, err := svc.WritingExercises(t.Context(), []string{"apple"})
	var genErr *llm.GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestStoryAndRewrite_TextShapes(t *testing.T) {
	svc, _ := newService(
		reply(`{"story":"Once upon a time"}`),
		reply(`"Plain string reply"`),
		reply(`{"text":""}`),
	)
	story, _, err := svc.Story(t.Context(), []string{"apple"})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", story)

	text, _, err := svc.Rewrite(t.Context(), "hi", "formal")
	require.NoError(t, err)
	assert.Equal(t, "Plain string reply", text)

	_, _, err = svc.Rewrite(t.Context(), "hi", "formal")
	var genErr *llm.GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestWordList_DropsExcludedAndDuplicates(t *testing.T) {
	svc, _ := newService(reply(`{"words":["Apple","banana","BANANA"," cherry ","date","elderberry"]}`))
	words, _, err := svc.WordList(t.Context(), "fruit", 3, []string{"apple"})
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "cherry", "date"}, words)
}

func TestScoreEssay(t *testing.T) {
	svc, _ := newService(reply(`{"report":{"overallBand":6.5,"criteria":[{"name":"Task Response","band":6,"comment":"ok"}],"strengths":["clear"],"improvements":["range"]}}`))
	report, _, err := svc.ScoreEssay(t.Context(), "Some essay", Task2, "Discuss.")
	require.NoError(t, err)
	assert.Equal(t, 6.5, report.OverallBand)
	require.Len(t, report.Criteria, 1)
	assert.Equal(t, "Task Response", report.Criteria[0].Name)
}

func TestScoreEssay_OutOfRangeBand(t *testing.T) {
	svc, _ := newService(reply(`{"overallBand":12,"criteria":[]}`))
	_, _, err := svc.ScoreEssay(t.Context(), "Some essay", Task2, "Discuss.")
	var genErr *llm.GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestModelEssay(t *testing.T) {
	svc, mock := newService(reply(`{"essay":"Essay body","analysis":"Why"}`))
	essay, _, err := svc.ModelEssay(t.Context(), "Cities", Task1, 7)
	require.NoError(t, err)
	assert.Equal(t, ModelEssay{Essay: "Essay body", Analysis: "Why"}, essay)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Target band: 7.0")
}

func TestCheckGrammar(t *testing.T) {
	svc, _ := newService(
		reply(`{"issues":[{"original":"he go","replacement":"he goes","category":"grammar","explanation":"agreement"}]}`),
		reply(`{"issues":[]}`),
	)
	issues, _, err := svc.CheckGrammar(t.Context(), "he go home")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "he goes", issues[0].Replacement)

	issues, _, err = svc.CheckGrammar(t.Context(), "He goes home.")
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestInBatches(t *testing.T) {
	var chunks [][]string
	err := InBatches(context.Background(), []string{"a", "b", "c", "d", "e"}, 2, time.Millisecond, func(_ context.Context, chunk []string) error {
		chunks = append(chunks, append([]string(nil), chunk...))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, chunks)
}

func TestInBatches_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := InBatches(context.Background(), []string{"a", "b", "c"}, 1, 0, func(context.Context, []string) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestInBatches_WaitsBetweenChunks(t *testing.T) {
	start := time.Now()
	err := InBatches(context.Background(), []string{"a", "b", "c"}, 1, 20*time.Millisecond, func(context.Context, []string) error { return nil })
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestInBatches_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := InBatches(ctx, []string{"a", "b"}, 1, time.Hour, func(context.Context, []string) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCheckAnswers(t *testing.T) {
	q := vocab.QuizQuestion{CorrectAnswer: "A fruit", Options: []string{"A car", "A fruit", "A city", "A song"}}
	assert.True(t, CheckQuiz(q, " a FRUIT "))
	assert.True(t, CheckQuiz(q, "b"))
	assert.False(t, CheckQuiz(q, "a"))

	ex := vocab.WritingExercise{Word: "Apple", Sentence: "I eat an apple."}
	assert.True(t, CheckWriting(ex, "An APPLE a day."))
	assert.False(t, CheckWriting(ex, "A pear a day."))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, stripFences("```\n[1]```"))
	assert.Equal(t, `"x"`, stripFences(`"x"`))
}

func TestParseTypes(t *testing.T) {
	qt, err := ParseQuestionType("blank")
	require.NoError(t, err)
	assert.Equal(t, QuestionFillBlank, qt)
	_, err = ParseQuestionType("essay")
	assert.Error(t, err)

	tt, err := ParseTaskType("1")
	require.NoError(t, err)
	assert.Equal(t, Task1, tt)
}

func TestRecords(t *testing.T) {
	recs := Records([]Definition{{Word: "apple", Definition: "fruit", IPA: "x"}})
	assert.Equal(t, []vocab.Record{{Word: "apple", Definition: "fruit", IPA: "x"}}, recs)
}
