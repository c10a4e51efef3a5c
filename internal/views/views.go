// Package views computes read-only projections of progress state. Nothing
// here is cached and nothing mutates its input.
package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/vocabz/internal/progress"
	"github.com/abhisek/vocabz/internal/vocab"
)

// PendingDefinition is shown for ledger words that have no record yet.
const PendingDefinition = "(definition pending)"

// NeedsPracticeLimit caps Aggregates.NeedsPractice.
const NeedsPracticeLimit = 5

// Mastery breakpoints for Aggregates.
const (
	MasteredAt      = 80
	NeedsPracticeAt = 60
)

// SortMode orders the merged display list.
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortAlphaAsc  SortMode = "alpha-asc"
	SortAlphaDesc SortMode = "alpha-desc"
)

// ParseSortMode accepts the mode names plus a few aliases.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest", "new":
		return SortNewest, nil
	case "oldest", "old":
		return SortOldest, nil
	case "alpha-asc", "alpha", "az", "a-z":
		return SortAlphaAsc, nil
	case "alpha-desc", "za", "z-a":
		return SortAlphaDesc, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// PlaceholderID is the id given to a pending ledger word.
func PlaceholderID(word string) string {
	return "pending-" + vocab.Key(word)
}

// DetailedList returns the records of ledger words in ledger order.
// Words without a record are skipped.
func DetailedList(st progress.State) []vocab.Record {
	out := make([]vocab.Record, 0, len(st.Ledger))
	for _, w := range st.Ledger {
		if r, ok := st.Records[vocab.Key(w)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Entry is one row of the merged display list.
type Entry struct {
	vocab.Record

	// Pending is set for placeholders of words with no record yet.
	Pending bool

	// LedgerIndex is the word's ledger position, or -1 for orphaned
	// records whose word is not in the ledger.
	LedgerIndex int
}

// MergedList yields one entry per ledger word, real or placeholder, plus
// orphaned records, filtered by query and ordered by mode.
func MergedList(st progress.State, query string, mode SortMode) []Entry {
	entries := make([]Entry, 0, len(st.Ledger))
	seen := make(map[string]bool, len(st.Ledger))
	inLedger := make(map[string]bool, len(st.Ledger))

	for i, w := range st.Ledger {
		k := vocab.Key(w)
		inLedger[k] = true
		e := Entry{LedgerIndex: i}
		if r, ok := st.Records[k]; ok {
			e.Record = r
		} else {
			e.Record = vocab.Record{ID: PlaceholderID(w), Word: w, Definition: PendingDefinition}
			e.Pending = true
		}
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}

	for k, r := range st.Records {
		if inLedger[k] || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		entries = append(entries, Entry{Record: r, LedgerIndex: -1})
	}

	entries = filter(entries, query)
	sortEntries(entries, mode)
	return entries
}

func filter(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	out := entries[:0]
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Word), q) ||
			strings.Contains(strings.ToLower(e.Definition), q) {
			out = append(out, e)
		}
	}
	return out
}

func alphaLess(a, b Entry) bool {
	ka, kb := vocab.Key(a.Word), vocab.Key(b.Word)
	if ka != kb {
		return ka < kb
	}
	return a.Word < b.Word
}

func sortEntries(entries []Entry, mode SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch mode {
		case SortAlphaAsc:
			return alphaLess(a, b)
		case SortAlphaDesc:
			return alphaLess(b, a)
		}

		// Orphans sort first, alphabetically among themselves.
		if (a.LedgerIndex < 0) != (b.LedgerIndex < 0) {
			return a.LedgerIndex < 0
		}
		if a.LedgerIndex < 0 {
			return alphaLess(a, b)
		}
		if mode == SortOldest {
			return a.LedgerIndex < b.LedgerIndex
		}
		return a.LedgerIndex > b.LedgerIndex
	})
}

// Aggregates partitions the detailed list by mastery.
type Aggregates struct {
	Mastered      []vocab.Record // mastery >= 80
	Learning      []vocab.Record // 0 < mastery < 80
	New           []vocab.Record // no attempts
	NeedsPractice []vocab.Record // attempted, mastery < 60, weakest first
}

// MasteryAggregates computes Aggregates over DetailedList(st).
func MasteryAggregates(st progress.State) Aggregates {
	var agg Aggregates
	for _, r := range DetailedList(st) {
		switch {
		case r.Mastery >= MasteredAt:
			agg.Mastered = append(agg.Mastered, r)
		case r.Mastery > 0:
			agg.Learning = append(agg.Learning, r)
		case r.Attempts == 0:
			agg.New = append(agg.New, r)
		}
		if r.Attempts > 0 && r.Mastery < NeedsPracticeAt {
			agg.NeedsPractice = append(agg.NeedsPractice, r)
		}
	}
	sort.SliceStable(agg.NeedsPractice, func(i, j int) bool {
		return agg.NeedsPractice[i].Mastery < agg.NeedsPractice[j].Mastery
	})
	if len(agg.NeedsPractice) > NeedsPracticeLimit {
		agg.NeedsPractice = agg.NeedsPractice[:NeedsPracticeLimit]
	}
	return agg
}

// UsageTotal returns the running spend in USD.
func UsageTotal(st progress.State) float64 {
	return st.TotalSpend
}
