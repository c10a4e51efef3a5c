// Package vocab holds the data model shared by the store, the gateways
// and the view layer.
package vocab

import (
	"math"
	"strings"
)

// Record is a single vocabulary entry: generated content plus the
// learner's practice progress.
type Record struct {
	ID            string `json:"id"`
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Example       string `json:"example"`
	IPA           string `json:"ipa,omitempty"`
	Mastery       int    `json:"mastery"`
	Attempts      int    `json:"attempts"`
	Correct       int    `json:"correct"`
	LastPracticed int64  `json:"lastPracticed"` // epoch millis, 0 if never practiced
}

// Key returns the case-insensitive identity used to index records.
func Key(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Key returns the record-map key for r.
func (r Record) Key() string {
	return Key(r.Word)
}

// MasteryFor returns round(100*correct/attempts), or 0 with no attempts.
func MasteryFor(correct, attempts int) int {
	if attempts <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(attempts)))
}

// Practice applies one answer outcome to the progress fields.
func (r *Record) Practice(correct bool, nowMillis int64) {
	r.Attempts++
	if correct {
		r.Correct++
	}
	r.Mastery = MasteryFor(r.Correct, r.Attempts)
	r.LastPracticed = nowMillis
}

// WithContentFrom copies the content fields of src onto r, leaving the id
// and progress fields untouched.
func (r Record) WithContentFrom(src Record) Record {
	r.Word = src.Word
	r.Definition = src.Definition
	r.Example = src.Example
	r.IPA = src.IPA
	return r
}

// ContainsWord reports whether words holds word, ignoring case.
func ContainsWord(words []string, word string) bool {
	k := Key(word)
	for _, w := range words {
		if Key(w) == k {
			return true
		}
	}
	return false
}

// AppendUnique appends each of add to words unless an equal word (ignoring
// case) is already present. The relative order of add is kept.
func AppendUnique(words []string, add ...string) []string {
	seen := make(map[string]bool, len(words)+len(add))
	for _, w := range words {
		seen[Key(w)] = true
	}
	out := append([]string(nil), words...)
	for _, w := range add {
		w = strings.TrimSpace(w)
		k := Key(w)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, w)
	}
	return out
}

// ParseWords splits free-text input on commas, semicolons and newlines.
func ParseWords(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	return AppendUnique(nil, fields...)
}
