package spacedrep

import (
	"sort"
	"time"

	"github.com/abhisek/vocabz/internal/progress"
)

// Plan is the review outlook over the saved words.
type Plan struct {
	Due      []ReviewState // most overdue first
	Upcoming []ReviewState // soonest first
	New      []string      // saved words never practiced, pending ones included
}

// Words returns the words of the due reviews, at most limit (all when
// limit <= 0).
func (p Plan) Words(limit int) []string {
	due := p.Due
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	out := make([]string, len(due))
	for i, rs := range due {
		out[i] = rs.Word
	}
	return out
}

// Schedule builds the review plan for the saved words in st.
func Schedule(st progress.State, now time.Time) Plan {
	var p Plan
	for _, w := range st.Ledger {
		r, ok := st.Record(w)
		if !ok {
			p.New = append(p.New, w)
			continue
		}
		rs, ok := StateFor(r)
		if !ok {
			p.New = append(p.New, r.Word)
			continue
		}
		if rs.IsDue(now) {
			p.Due = append(p.Due, rs)
		} else {
			p.Upcoming = append(p.Upcoming, rs)
		}
	}

	sort.Slice(p.Due, func(i, j int) bool {
		oi, oj := p.Due[i].OverdueDays(now), p.Due[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return p.Due[i].Word < p.Due[j].Word
	})
	sort.Slice(p.Upcoming, func(i, j int) bool {
		if !p.Upcoming[i].NextReviewDate.Equal(p.Upcoming[j].NextReviewDate) {
			return p.Upcoming[i].NextReviewDate.Before(p.Upcoming[j].NextReviewDate)
		}
		return p.Upcoming[i].Word < p.Upcoming[j].Word
	})
	return p
}
