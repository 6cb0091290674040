package models

import (
	"time"

	"github.com/vytor/wordflash/internal/calendar"
)

// DailySession is one profile's review queue for a single calendar day.
type DailySession struct {
	ProfileID     int64           `json:"profile_id"`
	Date          calendar.Date   `json:"date"`
	Quota         int             `json:"quota"`
	Words         []string        `json:"words"`
	Queue         []string        `json:"queue"`
	FirstAnswered map[string]bool `json:"first_answered"`
	CorrectCount  int             `json:"correct_count"`
	WrongCount    int             `json:"wrong_count"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type SessionProgress struct {
	Date      calendar.Date `json:"date"`
	Total     int           `json:"total"`
	Remaining int           `json:"remaining"`
	Answered  int           `json:"answered"`
	Correct   int           `json:"correct"`
	Wrong     int           `json:"wrong"`
	Done      bool          `json:"done"`
}

// ReviewState is what a client needs to continue today's review.
type ReviewState struct {
	Progress SessionProgress `json:"progress"`
	Next     *Card           `json:"next"`
}

// AnswerResult reports the effect of one answer. Card holds the state after
// grading; retries leave it unchanged.
type AnswerResult struct {
	Word         string `json:"word"`
	Correct      bool   `json:"correct"`
	FirstAttempt bool   `json:"first_attempt"`
	Card         *Card  `json:"card,omitempty"`
	ReviewState
}
