package models

import (
	"time"

	"github.com/vytor/wordflash/internal/calendar"
)

// LearningState is the scheduling state carried by every card.
// Only the grader produces new values of it.
type LearningState struct {
	Level          int           `json:"level"`
	CorrectStreak  int           `json:"correct_streak"`
	NextReviewDate calendar.Date `json:"next_review_date"`
	TotalReviews   int           `json:"total_reviews"`
	LastReviewedAt *time.Time    `json:"last_reviewed_at"`
	Mastered       bool          `json:"mastered"`
}

// IsNew reports whether the card has never been graded.
func (s LearningState) IsNew() bool {
	return !s.Mastered && s.NextReviewDate.IsZero()
}

// IsDue reports whether the card is eligible for review on today.
func (s LearningState) IsDue(today calendar.Date) bool {
	return !s.Mastered && !s.NextReviewDate.IsZero() && !s.NextReviewDate.After(today)
}

// CardDraft is card content without any scheduling state.
type CardDraft struct {
	Word       string `json:"word" yaml:"word"`
	Phonetic   string `json:"phonetic" yaml:"phonetic"`
	POS        string `json:"pos" yaml:"pos"`
	Definition string `json:"definition" yaml:"definition"`
	Example    string `json:"example" yaml:"example"`
	ExampleCN  string `json:"example_cn" yaml:"example_cn"`
}

// Card is a vocabulary item owned by a profile. Word is its identifier.
type Card struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
	CardDraft
	LearningState
}

// Card status filters.
const (
	CardStatusAll      = "all"
	CardStatusNew      = "new"
	CardStatusLearning = "learning"
	CardStatusDue      = "due"
	CardStatusMastered = "mastered"
)

type CardFilter struct {
	ProfileID int64
	Status    string
	Query     string
	Today     calendar.Date
	OrderBy   string
	OrderDir  string
	Limit     int
	Offset    int
}

type ReviewLog struct {
	ID           int64     `json:"id"`
	CardID       int64     `json:"card_id"`
	Correct      bool      `json:"correct"`
	FirstAttempt bool      `json:"first_attempt"`
	LevelAfter   int       `json:"level_after"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}
