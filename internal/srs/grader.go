package srs

import (
	"time"

	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/models"
)

// Grader applies a pass/fail outcome to a learning state.
type Grader struct {
	policy Policy
	now    func() time.Time
}

// NewGrader returns a Grader for p. A nil now uses time.Now.
func NewGrader(p Policy, now func() time.Time) *Grader {
	if now == nil {
		now = time.Now
	}
	return &Grader{policy: p, now: now}
}

// Policy returns the grader's policy.
func (g *Grader) Policy() Policy { return g.policy }

// ProcessAnswer returns the state that follows answering a card on today.
// The input is never modified.
//
// A pass grows the streak; reaching StreakToLevelUp promotes the card and
// schedules it with the new level's interval, and passing out of MaxLevel
// masters it. A failure resets the streak, keeps the level, and brings the
// card back tomorrow. A mastered card keeps Level at MaxLevel+1 and is never
// scheduled again.
//
// Out-of-range input is clamped: a negative streak counts as zero and the
// level is pulled into [0, MaxLevel]. An already mastered card only has its
// review counters bumped.
func (g *Grader) ProcessAnswer(state models.LearningState, correct bool, today calendar.Date) models.LearningState {
	next := state
	now := g.now()
	next.LastReviewedAt = &now
	next.TotalReviews = max(state.TotalReviews, 0) + 1

	if state.Mastered {
		next.NextReviewDate = ""
		return next
	}

	next.Level = g.policy.clampLevel(state.Level)
	streak := max(state.CorrectStreak, 0)

	if !correct {
		next.CorrectStreak = 0
		next.NextReviewDate = calendar.AddDays(today, 1)
		return next
	}

	streak++
	if streak < g.policy.StreakToLevelUp {
		next.CorrectStreak = streak
		next.NextReviewDate = calendar.AddDays(today, g.policy.interval(next.Level))
		return next
	}

	next.CorrectStreak = 0
	next.Level++
	if next.Level > g.policy.MaxLevel {
		next.Mastered = true
		next.NextReviewDate = ""
		return next
	}
	next.NextReviewDate = calendar.AddDays(today, g.policy.interval(next.Level))
	return next
}

// ProcessAnswer grades with the package-level policy and the system clock.
func ProcessAnswer(state models.LearningState, correct bool, today calendar.Date) models.LearningState {
	return NewGrader(DefaultPolicy(), nil).ProcessAnswer(state, correct, today)
}
