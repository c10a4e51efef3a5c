package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMasteryFor(t *testing.T) {
	tests := []struct {
		correct, attempts, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MasteryFor(tt.correct, tt.attempts), "%d/%d", tt.correct, tt.attempts)
	}
}

func TestRecord_Practice(t *testing.T) {
	r := Record{Word: "apple"}
	r.Practice(true, 10)
	r.Practice(false, 20)

	assert.Equal(t, 2, r.Attempts)
	assert.Equal(t, 1, r.Correct)
	assert.Equal(t, 50, r.Mastery)
	assert.Equal(t, int64(20), r.LastPracticed)
}

func TestRecord_WithContentFromKeepsProgress(t *testing.T) {
	old := Record{ID: "id-1", Word: "Apple", Mastery: 75, Attempts: 4, Correct: 3, LastPracticed: 99}
	merged := old.WithContentFrom(Record{ID: "other", Word: "apple", Definition: "a fruit", Mastery: 1, Attempts: 9})

	assert.Equal(t, "id-1", merged.ID)
	assert.Equal(t, "apple", merged.Word)
	assert.Equal(t, "a fruit", merged.Definition)
	assert.Equal(t, 75, merged.Mastery)
	assert.Equal(t, 4, merged.Attempts)
	assert.Equal(t, 3, merged.Correct)
	assert.Equal(t, int64(99), merged.LastPracticed)
}

func TestAppendUnique(t *testing.T) {
	got := AppendUnique([]string{"Apple"}, "apple", " banana ", "", "Banana", "cherry")
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, got)
}

func TestParseWords(t *testing.T) {
	got := ParseWords("apple, banana;\ncherry,,APPLE")
	assert.Equal(t, []string{"apple", "banana", "cherry"}, got)
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, ClampCursor(3, 0))
	assert.Equal(t, 0, ClampCursor(-2, 4))
	assert.Equal(t, 3, ClampCursor(9, 4))
	assert.Equal(t, 2, ClampCursor(2, 4))
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := Session[QuizQuestion]{
		Items:   []QuizQuestion{{Question: "q"}},
		Answers: map[int]Answer{0: {Submitted: "a", Correct: true}},
	}
	c := s.Clone()
	c.Answers[0] = Answer{Submitted: "b"}
	c.Items[0].Question = "changed"

	assert.Equal(t, "a", s.Answers[0].Submitted)
	assert.Equal(t, "q", s.Items[0].Question)

	answered, correct := s.Score()
	assert.Equal(t, 1, answered)
	assert.Equal(t, 1, correct)
}
