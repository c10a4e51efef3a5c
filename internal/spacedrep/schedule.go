// Package spacedrep schedules word reviews on an expanding interval,
// derived from each record's practice history.
package spacedrep

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 is the first review after a word is answered correctly.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in BaseIntervals.
const MaxStage = 5

// GraduationStage is the number of correct answers after which a well
// mastered word graduates.
const GraduationStage = 6

// GraduatedIntervalDays is the review interval for graduated words.
const GraduatedIntervalDays = 90
