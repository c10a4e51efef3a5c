package vocab

// QuizQuestion is a generated multiple-choice question.
type QuizQuestion struct {
	Word          string   `json:"word,omitempty"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// WritingExercise asks the learner to produce Sentence from its
// Vietnamese translation using Word.
type WritingExercise struct {
	Word                  string `json:"word"`
	Sentence              string `json:"sentence"`
	VietnameseTranslation string `json:"vietnameseTranslation"`
}

// Answer is the learner's submission for one session position.
type Answer struct {
	Submitted string `json:"submittedAnswer"`
	Correct   bool   `json:"wasCorrect"`
}

// Session is one run of practice: an ordered item list, answers keyed by
// zero-based position and a cursor.
type Session[T any] struct {
	Items   []T            `json:"items"`
	Answers map[int]Answer `json:"answers"`
	Cursor  int            `json:"cursor"`
}

// Len returns the number of items.
func (s Session[T]) Len() int {
	return len(s.Items)
}

// Clone returns a copy that shares nothing mutable with s.
func (s Session[T]) Clone() Session[T] {
	out := Session[T]{Cursor: s.Cursor}
	if s.Items != nil {
		out.Items = append([]T(nil), s.Items...)
	}
	if s.Answers != nil {
		out.Answers = make(map[int]Answer, len(s.Answers))
		for k, v := range s.Answers {
			out.Answers[k] = v
		}
	}
	return out
}

// Current returns the item under the cursor.
func (s Session[T]) Current() (T, bool) {
	var zero T
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return zero, false
	}
	return s.Items[s.Cursor], true
}

// Score returns the number of answered and correct positions.
func (s Session[T]) Score() (answered, correct int) {
	for _, a := range s.Answers {
		answered++
		if a.Correct {
			correct++
		}
	}
	return answered, correct
}

// ClampCursor maps idx into [0, n-1], or 0 when n is 0.
func ClampCursor(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
