package spacedrep

import (
	"time"

	"github.com/abhisek/vocabz/internal/views"
	"github.com/abhisek/vocabz/internal/vocab"
)

// ReviewState is the review schedule of one practiced word.
type ReviewState struct {
	Word           string    `json:"word"`
	Mastery        int       `json:"mastery"`
	Stage          int       `json:"stage"`
	Graduated      bool      `json:"graduated"`
	LastReviewDate time.Time `json:"last_review_date"`
	NextReviewDate time.Time `json:"next_review_date"`
}

// StateFor derives the schedule of r. Words with weak mastery restart at
// stage 0; stronger words advance one stage per correct answer. It
// reports false for words never practiced.
func StateFor(r vocab.Record) (ReviewState, bool) {
	if r.Attempts == 0 || r.LastPracticed == 0 {
		return ReviewState{}, false
	}
	rs := ReviewState{
		Word:           r.Word,
		Mastery:        r.Mastery,
		LastReviewDate: time.UnixMilli(r.LastPracticed).UTC(),
	}
	if r.Mastery >= views.NeedsPracticeAt && r.Correct > 0 {
		rs.Stage = min(r.Correct-1, MaxStage)
		rs.Graduated = r.Correct >= GraduationStage && r.Mastery >= views.MasteredAt
	}
	rs.NextReviewDate = rs.LastReviewDate.AddDate(0, 0, rs.CurrentIntervalDays())
	return rs, true
}

// IsDue returns true if the word is due for review (at or past the review date).
func (rs ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReviewDate)
}

// OverdueDays returns how many days past due the word is. Returns 0 if not yet due.
func (rs ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReviewDate) {
		return 0
	}
	return now.Sub(rs.NextReviewDate).Hours() / 24.0
}

// IsRusty reports whether the word is past due by more than half of its
// interval.
func (rs ReviewState) IsRusty(now time.Time) bool {
	if !rs.IsDue(now) {
		return false
	}
	grace := time.Duration(float64(rs.CurrentIntervalDays()) * 0.5 * 24 * float64(time.Hour))
	return now.After(rs.NextReviewDate.Add(grace))
}

// CurrentIntervalDays returns the current interval in days.
func (rs ReviewState) CurrentIntervalDays() int {
	if rs.Graduated {
		return GraduatedIntervalDays
	}
	if rs.Stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[rs.Stage]
}

// ReviewStatus describes a word's review status for display.
type ReviewStatus string

const (
	ReviewNotDue    ReviewStatus = "not_due"
	ReviewDue       ReviewStatus = "due"
	ReviewOverdue   ReviewStatus = "overdue"
	ReviewGraduated ReviewStatus = "graduated"
)

// Status returns the review status for display.
func (rs ReviewState) Status(now time.Time) ReviewStatus {
	switch {
	case rs.IsRusty(now):
		return ReviewOverdue
	case rs.IsDue(now):
		return ReviewDue
	case rs.Graduated:
		return ReviewGraduated
	}
	return ReviewNotDue
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (rs ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReviewDate.Sub(now).Hours()/24.0) + 1
}
