package progress

import (
	"fmt"
	"strings"

	"github.com/abhisek/vocabz/internal/vocab"
)

// Kind selects one of the two practice sessions.
type Kind int

const (
	KindQuiz Kind = iota
	KindWriting
)

func (k Kind) String() string {
	if k == KindWriting {
		return "writing"
	}
	return "quiz"
}

// ParseKind parses "quiz" or "writing".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiz":
		return KindQuiz, nil
	case "writing":
		return KindWriting, nil
	}
	return 0, fmt.Errorf("unknown session kind %q", s)
}

// Settings are the user's persisted credentials and model choice. Empty
// fields fall back to environment configuration.
type Settings struct {
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	RemoteDSN   string `json:"remoteDsn,omitempty"`
	RemoteTable string `json:"remoteTable,omitempty"`
}

// State is everything the store owns. Values handed out by Store.Snapshot
// are deep copies.
type State struct {
	Ledger     []string                             `json:"ledger"`
	Active     []string                             `json:"active"`
	Records    map[string]vocab.Record              `json:"records"`
	Settings   Settings                             `json:"settings"`
	Quiz       vocab.Session[vocab.QuizQuestion]    `json:"quiz"`
	Writing    vocab.Session[vocab.WritingExercise] `json:"writing"`
	Story      string                               `json:"story"`
	TotalSpend float64                              `json:"totalSpend"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Ledger = cloneStrings(s.Ledger)
	out.Active = cloneStrings(s.Active)
	out.Records = make(map[string]vocab.Record, len(s.Records))
	for k, v := range s.Records {
		out.Records[k] = v
	}
	out.Quiz = s.Quiz.Clone()
	out.Quiz.Items = cloneQuiz(s.Quiz.Items)
	out.Writing = s.Writing.Clone()
	return out
}

// Record looks a word up case-insensitively.
func (s State) Record(word string) (vocab.Record, bool) {
	r, ok := s.Records[vocab.Key(word)]
	return r, ok
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// cloneQuiz copies the option slices that Session.Clone shares.
func cloneQuiz(in []vocab.QuizQuestion) []vocab.QuizQuestion {
	for i := range in {
		in[i].Options = cloneStrings(in[i].Options)
	}
	return in
}

func session[T any](items []T) vocab.Session[T] {
	return vocab.Session[T]{Items: items, Answers: map[int]vocab.Answer{}}
}

func setAnswer[T any](s *vocab.Session[T], pos int, a vocab.Answer) bool {
	if pos < 0 || pos >= len(s.Items) {
		return false
	}
	if s.Answers == nil {
		s.Answers = map[int]vocab.Answer{}
	}
	s.Answers[pos] = a
	return true
}

func clearProgress[T any](s *vocab.Session[T]) {
	s.Answers = map[int]vocab.Answer{}
	s.Cursor = 0
}

// normalizeSession enforces the cursor and answer-map bounds on data read
// from disk.
func normalizeSession[T any](s *vocab.Session[T]) {
	s.Cursor = vocab.ClampCursor(s.Cursor, len(s.Items))
	if s.Answers == nil {
		s.Answers = map[int]vocab.Answer{}
	}
	for pos := range s.Answers {
		if pos < 0 || pos >= len(s.Items) {
			delete(s.Answers, pos)
		}
	}
}

// legacyQuiz reports whether a stored quiz predates four-option questions.
func legacyQuiz(items []vocab.QuizQuestion) bool {
	for _, q := range items {
		if len(q.Options) != 4 {
			return true
		}
	}
	return false
}

// legacyWriting reports whether stored exercises lack a translation.
func legacyWriting(items []vocab.WritingExercise) bool {
	for _, w := range items {
		if strings.TrimSpace(w.VietnameseTranslation) == "" {
			return true
		}
	}
	return false
}
