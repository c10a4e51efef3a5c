// Package progress is the single owner of learner state: the word ledger,
// the active working set, vocabulary records, quiz and writing sessions
// and the usage total. Every mutation is applied locally and persisted
// first; remote mirror writes run afterwards in the background.
package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/vocabz/internal/kv"
	"github.com/abhisek/vocabz/internal/llm"
	"github.com/abhisek/vocabz/internal/logger"
	"github.com/abhisek/vocabz/internal/remote"
	"github.com/abhisek/vocabz/internal/vocab"
)

// Options configures a Store. Zero values get working defaults.
type Options struct {
	// KV persists the snapshot. Defaults to an in-memory store.
	KV kv.KV

	// Remote is the mirror. Nil disables mirroring and sync.
	Remote remote.Gateway

	// Sink receives background mirror failures. Defaults to LogSink.
	Sink DiagnosticsSink

	// Prices resolves per-model costs for TrackUsage.
	Prices *llm.PriceTable

	// Model is charged by TrackUsage when the caller names no model.
	Model string

	Logger *logger.Logger
	Now    func() time.Time
	NewID  func() string
}

// Store is safe for concurrent use. Mutations are serialized and each one
// is visible to readers before its remote side effect starts.
type Store struct {
	mu     sync.Mutex
	state  State
	rev    uint64
	remote remote.Gateway

	persistMu sync.Mutex
	written   uint64

	kv     kv.KV
	sink   DiagnosticsSink
	prices *llm.PriceTable
	model  string
	log    *logger.Logger
	now    func() time.Time
	newID  func() string

	inflight sync.WaitGroup
}

// Open loads the persisted snapshot, or starts empty when none exists.
func Open(ctx context.Context, opts Options) (*Store, error) {
	s := newStore(opts)
	st, err := loadState(ctx, s.kv)
	if err != nil {
		return nil, err
	}
	s.state = st
	return s, nil
}

func newStore(opts Options) *Store {
	s := &Store{
		state:  emptyState(),
		remote: opts.Remote,
		kv:     opts.KV,
		sink:   opts.Sink,
		prices: opts.Prices,
		model:  opts.Model,
		log:    opts.Logger,
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	s.log = s.log.WithPrefix("progress")
	if s.kv == nil {
		s.kv = kv.NewMemory()
	}
	if s.sink == nil {
		s.sink = LogSink{Log: s.log}
	}
	if s.prices == nil {
		s.prices = llm.NewPriceTable(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// SetRemote replaces the mirror gateway. Nil disables mirroring.
func (s *Store) SetRemote(g remote.Gateway) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = g
}

// update applies fn under the state lock and persists the result. It
// returns the gateway that was current during fn.
func (s *Store) update(fn func(st *State)) remote.Gateway {
	s.mu.Lock()
	fn(&s.state)
	s.rev++
	rev := s.rev
	g := s.remote
	data, err := encodeState(s.state)
	s.mu.Unlock()

	if err != nil {
		s.log.Error("encode snapshot: %v", err)
		return g
	}
	s.persist(rev, data)
	return g
}

// persist writes data unless a newer revision has already been written.
func (s *Store) persist(rev uint64, data []byte) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if rev <= s.written {
		return
	}
	if err := s.kv.Set(context.Background(), StateKey, data); err != nil {
		s.log.Error("persist snapshot: %v", err)
		return
	}
	s.written = rev
}

// mirror runs fn in the background. Failures go to the sink.
func (s *Store) mirror(g remote.Gateway, op, word string, fn func(ctx context.Context, g remote.Gateway) error) {
	if g == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx := logger.NewContext(context.Background(), s.log)
		if err := fn(ctx, g); err != nil {
			s.sink.MirrorFailed(op, word, err)
		}
	}()
}

// Flush waits for in-flight mirror writes or ctx expiry.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush mirror writes: %w", ctx.Err())
	}
}

// Close flushes pending mirror writes. The KV is owned by the caller.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ReplaceLedger sets the word ledger verbatim.
func (s *Store) ReplaceLedger(words []string) {
	s.update(func(st *State) { st.Ledger = cloneStrings(words) })
}

// ReplaceActive sets the active working set verbatim.
func (s *Store) ReplaceActive(words []string) {
	s.update(func(st *State) { st.Active = cloneStrings(words) })
}

// MergeRecords accepts generated content. Existing records keep their id
// and progress; new records get a fresh id and zero progress. The merged
// records are then upserted to the mirror one at a time.
func (s *Store) MergeRecords(records []vocab.Record) []vocab.Record {
	merged := make([]vocab.Record, 0, len(records))
	g := s.update(func(st *State) {
		for _, in := range records {
			k := in.Key()
			if k == "" {
				continue
			}
			var r vocab.Record
			if old, ok := st.Records[k]; ok {
				r = old.WithContentFrom(in)
			} else {
				r = vocab.Record{ID: s.newID()}.WithContentFrom(in)
			}
			st.Records[k] = r
			merged = append(merged, r)
		}
	})

	if len(merged) > 0 {
		s.mirror(g, "upsert", merged[0].Word, func(ctx context.Context, g remote.Gateway) error {
			for _, r := range merged {
				if err := g.UpsertMany(ctx, []vocab.Record{r}); err != nil {
					s.sink.MirrorFailed("upsert", r.Word, err)
				}
			}
			return nil
		})
	}
	return merged
}

// RemoveWord drops word from the ledger (exact match) and its record
// (case-insensitive), then deletes it remotely.
func (s *Store) RemoveWord(word string) {
	g := s.update(func(st *State) {
		ledger := st.Ledger[:0:0]
		for _, w := range st.Ledger {
			if w != word {
				ledger = append(ledger, w)
			}
		}
		if len(ledger) != len(st.Ledger) {
			st.Ledger = ledger
		}
		delete(st.Records, vocab.Key(word))
	})
	s.mirror(g, "delete", word, func(ctx context.Context, g remote.Gateway) error {
		return g.Delete(ctx, word)
	})
}

// RecordPractice applies one answer outcome to word's record. It reports
// false, and changes nothing, when no record exists.
func (s *Store) RecordPractice(word string, correct bool) (vocab.Record, bool) {
	var (
		rec vocab.Record
		ok  bool
	)
	s.mu.Lock()
	_, ok = s.state.Records[vocab.Key(word)]
	s.mu.Unlock()
	if !ok {
		return vocab.Record{}, false
	}

	g := s.update(func(st *State) {
		r, found := st.Records[vocab.Key(word)]
		if !found {
			ok = false
			return
		}
		r.Practice(correct, s.now().UnixMilli())
		st.Records[r.Key()] = r
		rec = r
	})
	if !ok {
		return vocab.Record{}, false
	}
	s.mirror(g, "update_progress", rec.Word, func(ctx context.Context, g remote.Gateway) error {
		return g.UpdateProgress(ctx, rec)
	})
	return rec, true
}

// SyncFromRemote replaces records and ledger with the remote collection
// and drops active words that no longer have a record. Local state is
// untouched on failure. It returns the number of records received.
func (s *Store) SyncFromRemote(ctx context.Context) (int, error) {
	s.mu.Lock()
	g := s.remote
	s.mu.Unlock()
	if g == nil {
		return 0, fmt.Errorf("%w: %w", ErrSyncFailure, ErrNoRemote)
	}

	st := g.CheckConnectivity(ctx)
	if !st.Connected {
		if st.Reason == remote.ReasonSchemaMissing {
			return 0, ErrSchemaMissing
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrSyncFailure, st.Reason, st.Err)
	}

	list, err := g.List(ctx)
	if err != nil {
		if remote.StatusFromError(err).Reason == remote.ReasonSchemaMissing {
			return 0, ErrSchemaMissing
		}
		return 0, fmt.Errorf("%w: %w", ErrSyncFailure, err)
	}

	s.update(func(st *State) {
		records := make(map[string]vocab.Record, len(list))
		ledger := make([]string, 0, len(list))
		for _, r := range list {
			k := r.Key()
			if k == "" {
				continue
			}
			if _, dup := records[k]; !dup {
				ledger = append(ledger, r.Word)
			}
			records[k] = r
		}
		st.Records = records
		st.Ledger = ledger

		active := make([]string, 0, len(st.Active))
		for _, w := range st.Active {
			if _, ok := records[vocab.Key(w)]; ok {
				active = append(active, w)
			}
		}
		st.Active = active
	})
	s.log.Info("synced %d records from remote", len(list))
	return len(list), nil
}

// SetQuizQuestions replaces the quiz and clears its answers and cursor.
func (s *Store) SetQuizQuestions(items []vocab.QuizQuestion) {
	s.update(func(st *State) {
		st.Quiz = session(cloneQuiz(append([]vocab.QuizQuestion(nil), items...)))
	})
}

// SetWritingExercises replaces the writing session and clears its answers
// and cursor.
func (s *Store) SetWritingExercises(items []vocab.WritingExercise) {
	s.update(func(st *State) {
		st.Writing = session(append([]vocab.WritingExercise(nil), items...))
	})
}

// ResetSession clears questions, answers and cursor.
func (s *Store) ResetSession(kind Kind) {
	s.update(func(st *State) {
		if kind == KindWriting {
			st.Writing = session[vocab.WritingExercise](nil)
			return
		}
		st.Quiz = session[vocab.QuizQuestion](nil)
	})
}

// ResetProgress clears answers and cursor but keeps the questions.
func (s *Store) ResetProgress(kind Kind) {
	s.update(func(st *State) {
		if kind == KindWriting {
			clearProgress(&st.Writing)
			return
		}
		clearProgress(&st.Quiz)
	})
}

// RecordAnswer stores the answer at pos. Positions outside the current
// question list are dropped and reported as false.
func (s *Store) RecordAnswer(kind Kind, pos int, answer string, correct bool) bool {
	var ok bool
	s.update(func(st *State) {
		a := vocab.Answer{Submitted: answer, Correct: correct}
		if kind == KindWriting {
			ok = setAnswer(&st.Writing, pos, a)
			return
		}
		ok = setAnswer(&st.Quiz, pos, a)
	})
	return ok
}

// SetCursor moves the session cursor, clamped to a valid position, and
// returns the position it was set to.
func (s *Store) SetCursor(kind Kind, idx int) int {
	var pos int
	s.update(func(st *State) {
		if kind == KindWriting {
			st.Writing.Cursor = vocab.ClampCursor(idx, len(st.Writing.Items))
			pos = st.Writing.Cursor
			return
		}
		st.Quiz.Cursor = vocab.ClampCursor(idx, len(st.Quiz.Items))
		pos = st.Quiz.Cursor
	})
	return pos
}

// ActiveModel is the model TrackUsage charges when the caller names none.
func (s *Store) ActiveModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel changes the model charged by TrackUsage when the caller names
// none. It is not persisted.
func (s *Store) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// TrackUsage adds the cost of u, priced for model, to the running total.
// An empty model falls back to ActiveModel.
func (s *Store) TrackUsage(model string, u llm.Usage) {
	s.update(func(st *State) {
		if model == "" {
			model = s.model
		}
		st.TotalSpend += s.prices.Cost(model, u)
	})
}

// SetStory stores the latest generated story.
func (s *Store) SetStory(text string) {
	s.update(func(st *State) { st.Story = text })
}

// SetSettings replaces the persisted settings.
func (s *Store) SetSettings(settings Settings) {
	s.update(func(st *State) { st.Settings = settings })
}
