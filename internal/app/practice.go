package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/vocabz/internal/generate"
	"github.com/abhisek/vocabz/internal/importer"
	"github.com/abhisek/vocabz/internal/progress"
	"github.com/abhisek/vocabz/internal/vocab"
)

var (
	// ErrNoWords is returned when a flow needs words and none are selected.
	ErrNoWords = errors.New("no words selected; run `vocabz select` first")

	// ErrNoSession is returned when answering without a generated session.
	ErrNoSession = errors.New("no questions; generate a new set first")
)

// AddWords appends words to the ledger, skipping ones already saved, and
// returns the words that were new.
func (a *App) AddWords(words []string) []string {
	ledger := a.Store.Snapshot().Ledger
	updated := vocab.AppendUnique(ledger, words...)
	if len(updated) == len(ledger) {
		return nil
	}
	a.Store.ReplaceLedger(updated)
	return updated[len(ledger):]
}

// Pending returns ledger words that have no record yet.
func (a *App) Pending() []string {
	st := a.Store.Snapshot()
	var out []string
	for _, w := range st.Ledger {
		if _, ok := st.Records[vocab.Key(w)]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// Enrich generates definitions for pending words in chunks and merges each
// chunk as it arrives. Chunks merged before a failure stay merged.
func (a *App) Enrich(ctx context.Context) (int, error) {
	pending := a.Pending()
	if len(pending) == 0 {
		return 0, nil
	}
	gen, err := a.Generator(ctx)
	if err != nil {
		return 0, err
	}

	merged := 0
	cfg := gen.Config()
	err = generate.InBatches(ctx, pending, cfg.ChunkSize, cfg.ChunkDelay, func(ctx context.Context, chunk []string) error {
		defs, _, err := gen.Definitions(ctx, chunk)
		if err != nil {
			return err
		}
		merged += len(a.Store.MergeRecords(generate.Records(defs)))
		a.Log.Debug("merged %d definitions", len(defs))
		return nil
	})
	return merged, err
}

// Import reads words from a spreadsheet and adds them to the ledger.
func (a *App) Import(path string, cfg importer.Config) (*importer.Result, []string, error) {
	res, err := importer.ReadFile(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	return res, a.AddWords(res.Words), nil
}

// Select parses free-text input into the active working set.
func (a *App) Select(input string) []string {
	words := vocab.ParseWords(input)
	a.Store.ReplaceActive(words)
	return words
}

func (a *App) activeWords() ([]string, error) {
	active := a.Store.Snapshot().Active
	if len(active) == 0 {
		return nil, ErrNoWords
	}
	return active, nil
}

// NewQuiz generates a quiz for the active words and replaces the current
// quiz session.
func (a *App) NewQuiz(ctx context.Context, qt generate.QuestionType) ([]vocab.QuizQuestion, error) {
	words, err := a.activeWords()
	if err != nil {
		return nil, err
	}
	gen, err := a.Generator(ctx)
	if err != nil {
		return nil, err
	}
	qs, _, err := gen.Questions(ctx, words, qt)
	if err != nil {
		return nil, err
	}
	a.Store.SetQuizQuestions(qs)
	return qs, nil
}

// NewWriting generates writing exercises for the active words and replaces
// the current writing session.
func (a *App) NewWriting(ctx context.Context) ([]vocab.WritingExercise, error) {
	words, err := a.activeWords()
	if err != nil {
		return nil, err
	}
	gen, err := a.Generator(ctx)
	if err != nil {
		return nil, err
	}
	exs, _, err := gen.WritingExercises(ctx, words)
	if err != nil {
		return nil, err
	}
	a.Store.SetWritingExercises(exs)
	return exs, nil
}

// Outcome is the result of answering the item under the cursor.
type Outcome struct {
	Position int
	Correct  bool
	Expected string
	Record   *vocab.Record // nil when the word has no record
	Finished bool          // the answered item was the last one
}

// AnswerQuiz checks answer against the current quiz question, records it
// and the practice outcome, and advances the cursor.
func (a *App) AnswerQuiz(answer string) (Outcome, error) {
	q := a.Store.Snapshot().Quiz
	item, ok := q.Current()
	if !ok {
		return Outcome{}, ErrNoSession
	}
	correct := generate.CheckQuiz(item, answer)
	out := a.answer(progress.KindQuiz, q.Cursor, q.Len(), item.Word, answer, correct)
	out.Expected = item.CorrectAnswer
	return out, nil
}

// AnswerWriting checks that answer uses the exercise word, records it and
// the practice outcome, and advances the cursor.
func (a *App) AnswerWriting(answer string) (Outcome, error) {
	w := a.Store.Snapshot().Writing
	item, ok := w.Current()
	if !ok {
		return Outcome{}, ErrNoSession
	}
	correct := generate.CheckWriting(item, answer)
	out := a.answer(progress.KindWriting, w.Cursor, w.Len(), item.Word, answer, correct)
	out.Expected = item.Sentence
	return out, nil
}

func (a *App) answer(kind progress.Kind, pos, n int, word, answer string, correct bool) Outcome {
	out := Outcome{Position: pos, Correct: correct, Finished: pos == n-1}
	a.Store.RecordAnswer(kind, pos, answer, correct)
	if word != "" {
		if r, ok := a.Store.RecordPractice(word, correct); ok {
			out.Record = &r
		}
	}
	if !out.Finished {
		a.Store.SetCursor(kind, pos+1)
	}
	return out
}

// Move shifts the session cursor by delta and returns the new position.
func (a *App) Move(kind progress.Kind, delta int) int {
	st := a.Store.Snapshot()
	cur := st.Quiz.Cursor
	if kind == progress.KindWriting {
		cur = st.Writing.Cursor
	}
	return a.Store.SetCursor(kind, cur+delta)
}

// Story generates a short story using the active words and stores it.
func (a *App) Story(ctx context.Context) (string, error) {
	words, err := a.activeWords()
	if err != nil {
		return "", err
	}
	gen, err := a.Generator(ctx)
	if err != nil {
		return "", err
	}
	text, _, err := gen.Story(ctx, words)
	if err != nil {
		return "", err
	}
	a.Store.SetStory(text)
	return text, nil
}

// Suggest asks for count new words on topic, excluding saved ones.
func (a *App) Suggest(ctx context.Context, topic string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	gen, err := a.Generator(ctx)
	if err != nil {
		return nil, err
	}
	words, _, err := gen.WordList(ctx, topic, count, a.Store.Snapshot().Ledger)
	return words, err
}
