package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vocabz/internal/kv"
	"github.com/abhisek/vocabz/internal/llm"
	"github.com/abhisek/vocabz/internal/logger"
	"github.com/abhisek/vocabz/internal/remote"
	"github.com/abhisek/vocabz/internal/vocab"
)

type failure struct {
	op, word string
	err      error
}

type recordingSink struct {
	mu       sync.Mutex
	failures []failure
}

func (r *recordingSink) MirrorFailed(op, word string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure{op, word, err})
}

func (r *recordingSink) all() []failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]failure(nil), r.failures...)
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *Store
	kv     *kv.Memory
	remote *remote.Memory
	sink   *recordingSink
}

func newFixture(t *testing.T, seed ...vocab.Record) *fixture {
	t.Helper()
	f := &fixture{
		kv:     kv.NewMemory(),
		remote: remote.NewMemory(seed...),
		sink:   &recordingSink{},
	}
	n := 0
	s, err := Open(context.Background(), Options{
		KV:     f.kv,
		Remote: f.remote,
		Sink:   f.sink,
		Logger: logger.Discard(),
		Model:  "test-model",
		Prices: llm.NewPriceTable(map[string]llm.ModelCost{"test-model": {InputPerMTok: 0.05, OutputPerMTok: 0.08}}),
		Now:    func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	require.NoError(t, err)
	f.store = s
	t.Cleanup(func() { s.Close(context.Background()) })
	return f
}

func (f *fixture) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.store.Flush(ctx))
}

func TestMergeRecords_NewRecordStartsAtZero(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"apple"})

	f.store.MergeRecords([]vocab.Record{{
		Word: "apple", Definition: "a fruit", Example: "I ate an apple.", IPA: "ˈæpəl",
		Mastery: 90, Attempts: 7, Correct: 6,
	}})

	r, ok := f.store.Snapshot().Record("apple")
	require.True(t, ok)
	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, "a fruit", r.Definition)
	assert.Equal(t, "ˈæpəl", r.IPA)
	assert.Zero(t, r.Mastery)
	assert.Zero(t, r.Attempts)
	assert.Zero(t, r.Correct)
	assert.Zero(t, r.LastPracticed)

	f.flush(t)
	mirrored, ok := f.remote.Get("apple")
	require.True(t, ok)
	assert.Equal(t, "a fruit", mirrored.Definition)
}

func TestMergeRecords_PreservesProgress(t *testing.T) {
	f := newFixture(t)
	f.store.MergeRecords([]vocab.Record{{Word: "apple", Definition: "old"}})
	f.store.RecordPractice("apple", true)
	f.store.RecordPractice("apple", false)

	before, _ := f.store.Snapshot().Record("apple")
	f.store.MergeRecords([]vocab.Record{{
		ID: "incoming", Word: "Apple", Definition: "new", Example: "ex",
		Mastery: 3, Attempts: 99, Correct: 1, LastPracticed: 1,
	}})
	after, _ := f.store.Snapshot().Record("apple")

	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Mastery, after.Mastery)
	assert.Equal(t, before.Attempts, after.Attempts)
	assert.Equal(t, before.Correct, after.Correct)
	assert.Equal(t, before.LastPracticed, after.LastPracticed)
	assert.Equal(t, "Apple", after.Word)
	assert.Equal(t, "new", after.Definition)
	assert.Equal(t, "ex", after.Example)
}

func TestMergeRecords_RemoteFailureKeepsLocalMerge(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	f.remote.Fail(boom)

	merged := f.store.MergeRecords([]vocab.Record{{Word: "apple"}, {Word: "banana"}})
	require.Len(t, merged, 2)
	f.flush(t)

	st := f.store.Snapshot()
	assert.Len(t, st.Records, 2)

	fails := f.sink.all()
	require.Len(t, fails, 2)
	assert.Equal(t, "upsert", fails[0].op)
	assert.Equal(t, "apple", fails[0].word)
	assert.Equal(t, "banana", fails[1].word)
	assert.ErrorIs(t, fails[0].err, boom)

	ups, _, _ := f.remote.Calls()
	assert.Equal(t, 2, ups, "records are upserted one at a time")
}

func TestRecordPractice_Counts(t *testing.T) {
	f := newFixture(t)
	f.store.MergeRecords([]vocab.Record{{Word: "apple"}})

	outcomes := []bool{true, false, true, true, false, false, true, false}
	k := 0
	for i, c := range outcomes {
		if c {
			k++
		}
		r, ok := f.store.RecordPractice("APPLE", c)
		require.True(t, ok)
		n := i + 1
		assert.Equal(t, n, r.Attempts)
		assert.Equal(t, k, r.Correct)
		assert.Equal(t, vocab.MasteryFor(k, n), r.Mastery)
		assert.Equal(t, testNow.UnixMilli(), r.LastPracticed)
	}

	f.flush(t)
	_, _, updates := f.remote.Calls()
	assert.Equal(t, len(outcomes), updates)
}

func TestRecordPractice_Scenario(t *testing.T) {
	f := newFixture(t)
	f.store.MergeRecords([]vocab.Record{{Word: "apple"}})
	f.store.RecordPractice("apple", true)
	r, _ := f.store.RecordPractice("apple", false)

	assert.Equal(t, 2, r.Attempts)
	assert.Equal(t, 1, r.Correct)
	assert.Equal(t, 50, r.Mastery)
}

func TestRecordPractice_MissingIsNoop(t *testing.T) {
	f := newFixture(t)
	_, ok := f.store.RecordPractice("ghost", true)
	assert.False(t, ok)
	assert.Empty(t, f.store.Snapshot().Records)

	f.flush(t)
	_, _, updates := f.remote.Calls()
	assert.Zero(t, updates)
}

func TestRemoveWord(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"apple", "banana"})
	f.store.MergeRecords([]vocab.Record{{Word: "apple"}, {Word: "banana"}})
	f.flush(t)

	f.store.RemoveWord("apple")
	st := f.store.Snapshot()
	assert.Equal(t, []string{"banana"}, st.Ledger)
	_, ok := st.Records["apple"]
	assert.False(t, ok)

	f.flush(t)
	_, ok = f.remote.Get("apple")
	assert.False(t, ok)
}

func TestRemoveWord_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"banana"})
	f.store.MergeRecords([]vocab.Record{{Word: "banana"}})

	before := f.store.Snapshot()
	f.store.RemoveWord("apple")
	f.store.RemoveWord("apple")
	after := f.store.Snapshot()

	assert.Equal(t, before.Ledger, after.Ledger)
	assert.Equal(t, before.Records, after.Records)
}

func TestRemoveWord_LedgerExactRecordCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"Apple", "banana"})
	f.store.MergeRecords([]vocab.Record{{Word: "Apple"}})

	f.store.RemoveWord("apple")
	st := f.store.Snapshot()
	assert.Equal(t, []string{"Apple", "banana"}, st.Ledger)
	assert.Empty(t, st.Records)
}

func TestSyncFromRemote_SchemaMissingLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"apple"})
	f.store.ReplaceActive([]string{"apple"})
	f.store.MergeRecords([]vocab.Record{{Word: "apple", Definition: "fruit"}})
	f.flush(t)

	before, err := encodeState(f.store.Snapshot())
	require.NoError(t, err)

	f.remote.SetStatus(remote.Status{Reason: remote.ReasonSchemaMissing})
	_, err = f.store.SyncFromRemote(context.Background())
	assert.ErrorIs(t, err, ErrSchemaMissing)
	assert.NotErrorIs(t, err, ErrSyncFailure)

	after, err := encodeState(f.store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSyncFromRemote_OtherFailure(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"apple"})

	f.remote.SetStatus(remote.Status{Reason: remote.ReasonUnreachable, Err: errors.New("timeout")})
	_, err := f.store.SyncFromRemote(context.Background())
	assert.ErrorIs(t, err, ErrSyncFailure)
	assert.NotErrorIs(t, err, ErrSchemaMissing)
	assert.Equal(t, []string{"apple"}, f.store.Snapshot().Ledger)
}

func TestSyncFromRemote_ListFailure(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"apple"})
	f.remote.Fail(errors.New("reset by peer"))

	_, err := f.store.SyncFromRemote(context.Background())
	assert.ErrorIs(t, err, ErrSyncFailure)
	assert.Equal(t, []string{"apple"}, f.store.Snapshot().Ledger)
}

func TestSyncFromRemote_Overwrites(t *testing.T) {
	f := newFixture(t,
		vocab.Record{ID: "r1", Word: "banana", Definition: "yellow", Attempts: 2, Correct: 2, Mastery: 100},
		vocab.Record{ID: "r2", Word: "Cherry", Definition: "red"},
	)
	f.store.ReplaceLedger([]string{"apple"})
	f.store.ReplaceActive([]string{"apple", "cherry", "banana"})
	f.store.MergeRecords([]vocab.Record{{Word: "apple"}})
	f.flush(t)
	f.store.RemoveWord("apple")
	f.flush(t)

	n, err := f.store.SyncFromRemote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	st := f.store.Snapshot()
	assert.Equal(t, []string{"banana", "Cherry"}, st.Ledger)
	assert.Equal(t, []string{"cherry", "banana"}, st.Active)
	assert.Len(t, st.Records, 2)
	assert.Equal(t, 100, st.Records["banana"].Mastery)
	assert.Equal(t, "r2", st.Records["cherry"].ID)
}

func TestSyncFromRemote_NoRemote(t *testing.T) {
	f := newFixture(t)
	f.store.SetRemote(nil)
	_, err := f.store.SyncFromRemote(context.Background())
	assert.ErrorIs(t, err, ErrNoRemote)
	assert.ErrorIs(t, err, ErrSyncFailure)
}

func TestSessions_ReplaceClearsAnswers(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuizQuestions(quiz(3))
	require.True(t, f.store.RecordAnswer(KindQuiz, 2, "b", true))
	f.store.SetCursor(KindQuiz, 2)

	f.store.SetQuizQuestions(quiz(1))
	st := f.store.Snapshot()
	assert.Len(t, st.Quiz.Items, 1)
	assert.Empty(t, st.Quiz.Answers)
	assert.Zero(t, st.Quiz.Cursor)
}

func TestSessions_AnswerBounds(t *testing.T) {
	f := newFixture(t)
	f.store.SetWritingExercises(writing(2))

	assert.True(t, f.store.RecordAnswer(KindWriting, 1, "text", false))
	assert.True(t, f.store.RecordAnswer(KindWriting, 1, "text2", true))
	assert.False(t, f.store.RecordAnswer(KindWriting, 2, "x", true))
	assert.False(t, f.store.RecordAnswer(KindWriting, -1, "x", true))
	assert.False(t, f.store.RecordAnswer(KindQuiz, 0, "x", true))

	st := f.store.Snapshot()
	assert.Equal(t, map[int]vocab.Answer{1: {Submitted: "text2", Correct: true}}, st.Writing.Answers)
	assert.Empty(t, st.Quiz.Answers)
}

func TestSessions_CursorClamped(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 0, f.store.SetCursor(KindQuiz, 3))

	f.store.SetQuizQuestions(quiz(4))
	assert.Equal(t, 3, f.store.SetCursor(KindQuiz, 10))
	assert.Equal(t, 0, f.store.SetCursor(KindQuiz, -1))
	assert.Equal(t, 2, f.store.SetCursor(KindQuiz, 2))
	assert.Equal(t, 2, f.store.Snapshot().Quiz.Cursor)
}

func TestSessions_ResetProgressVsResetSession(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuizQuestions(quiz(3))
	f.store.SetWritingExercises(writing(2))
	f.store.RecordAnswer(KindQuiz, 0, "a", true)
	f.store.SetCursor(KindQuiz, 1)
	f.store.RecordAnswer(KindWriting, 0, "w", true)

	f.store.ResetProgress(KindQuiz)
	st := f.store.Snapshot()
	assert.Len(t, st.Quiz.Items, 3)
	assert.Empty(t, st.Quiz.Answers)
	assert.Zero(t, st.Quiz.Cursor)
	assert.Len(t, st.Writing.Answers, 1, "writing session is independent")

	f.store.ResetSession(KindWriting)
	st = f.store.Snapshot()
	assert.Empty(t, st.Writing.Items)
	assert.Empty(t, st.Writing.Answers)
	assert.Len(t, st.Quiz.Items, 3)
}

func TestTrackUsage_Scenario(t *testing.T) {
	f := newFixture(t)
	f.store.TrackUsage("", llm.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000})
	assert.InDelta(t, 0.13, f.store.Snapshot().TotalSpend, 1e-12)
}

func TestTrackUsage_Cumulative(t *testing.T) {
	a := llm.Usage{InputTokens: 1234, OutputTokens: 567}
	b := llm.Usage{InputTokens: 89_000, OutputTokens: 4_321}

	f1 := newFixture(t)
	f1.store.TrackUsage("", a)
	f1.store.TrackUsage("", b)

	f2 := newFixture(t)
	f2.store.TrackUsage("", a.Add(b))

	assert.InDelta(t, f2.store.Snapshot().TotalSpend, f1.store.Snapshot().TotalSpend, 1e-12)
}

func TestTrackUsage_UnknownModelUsesDefaultRow(t *testing.T) {
	f := newFixture(t)
	f.store.TrackUsage("some-unlisted-model", llm.Usage{InputTokens: 1_000_000})
	assert.InDelta(t, llm.DefaultCost.InputPerMTok, f.store.Snapshot().TotalSpend, 1e-12)
}

func TestTrackUsage_NamedModelBeatsActiveModel(t *testing.T) {
	f := newFixture(t)
	f.store.TrackUsage("claude-haiku-4-5-20251001", llm.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000})
	assert.InDelta(t, 6.0, f.store.Snapshot().TotalSpend, 1e-9)
	assert.Equal(t, "test-model", f.store.ActiveModel())
}

func TestSetModel_ChangesFallback(t *testing.T) {
	f := newFixture(t)
	f.store.SetModel("gpt-4o")
	assert.Equal(t, "gpt-4o", f.store.ActiveModel())

	f.store.TrackUsage("", llm.Usage{InputTokens: 1_000_000})
	assert.InDelta(t, 2.5, f.store.Snapshot().TotalSpend, 1e-9)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	f := newFixture(t)
	f.store.ReplaceLedger([]string{"apple"})
	f.store.MergeRecords([]vocab.Record{{Word: "apple"}})
	f.store.SetQuizQuestions(quiz(1))

	st := f.store.Snapshot()
	st.Ledger[0] = "mutated"
	st.Records["apple"] = vocab.Record{Word: "mutated"}
	st.Quiz.Items[0].Options[0] = "mutated"

	again := f.store.Snapshot()
	assert.Equal(t, "apple", again.Ledger[0])
	assert.Equal(t, "apple", again.Records["apple"].Word)
	assert.Equal(t, "A", again.Quiz.Items[0].Options[0])
}

func TestReplaceLedgerAndActive_Verbatim(t *testing.T) {
	f := newFixture(t)
	words := []string{"b", "a", "b"}
	f.store.ReplaceLedger(words)
	f.store.ReplaceActive([]string{"not-in-ledger"})
	words[0] = "changed"

	st := f.store.Snapshot()
	assert.Equal(t, []string{"b", "a", "b"}, st.Ledger)
	assert.Equal(t, []string{"not-in-ledger"}, st.Active)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	f := newFixture(t)
	f.store.MergeRecords([]vocab.Record{{Word: "apple"}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.store.RecordPractice("apple", i%2 == 0)
		}(i)
	}
	wg.Wait()
	f.flush(t)

	r, _ := f.store.Snapshot().Record("apple")
	assert.Equal(t, 50, r.Attempts)
	assert.Equal(t, 25, r.Correct)
	assert.Equal(t, 50, r.Mastery)
}

func quiz(n int) []vocab.QuizQuestion {
	out := make([]vocab.QuizQuestion, n)
	for i := range out {
		out[i] = vocab.QuizQuestion{
			Question:      fmt.Sprintf("q%d", i),
			CorrectAnswer: "A",
			Options:       []string{"A", "B", "C", "D"},
		}
	}
	return out
}

func writing(n int) []vocab.WritingExercise {
	out := make([]vocab.WritingExercise, n)
	for i := range out {
		out[i] = vocab.WritingExercise{
			Word:                  fmt.Sprintf("w%d", i),
			Sentence:              "s",
			VietnameseTranslation: "câu",
		}
	}
	return out
}
