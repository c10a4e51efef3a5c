package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/vocabz/internal/kv"
	"github.com/abhisek/vocabz/internal/vocab"
)

// StateKey is the key the snapshot is stored under.
const StateKey = "vocabz/state"

const snapshotVersion = 1

type snapshot struct {
	Version int `json:"version"`
	State
}

func encodeState(s State) ([]byte, error) {
	return json.Marshal(snapshot{Version: snapshotVersion, State: s})
}

// decodeState parses a stored snapshot and repairs what it can: records
// are re-keyed by lowercase word, sessions written by older versions are
// dropped and cursors and answers are brought back into bounds.
func decodeState(data []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > snapshotVersion {
		return State{}, fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, snapshotVersion)
	}
	s := snap.State

	records := make(map[string]vocab.Record, len(s.Records))
	for _, r := range s.Records {
		if vocab.Key(r.Word) == "" {
			continue
		}
		records[r.Key()] = r
	}
	s.Records = records

	if legacyQuiz(s.Quiz.Items) {
		s.Quiz = session[vocab.QuizQuestion](nil)
	}
	if legacyWriting(s.Writing.Items) {
		s.Writing = session[vocab.WritingExercise](nil)
	}
	normalizeSession(&s.Quiz)
	normalizeSession(&s.Writing)
	return s, nil
}

func loadState(ctx context.Context, store kv.KV) (State, error) {
	data, err := store.Get(ctx, StateKey)
	if errors.Is(err, kv.ErrNotFound) {
		return emptyState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeState(data)
}

func emptyState() State {
	return State{
		Records: map[string]vocab.Record{},
		Quiz:    session[vocab.QuizQuestion](nil),
		Writing: session[vocab.WritingExercise](nil),
	}
}
