// Package session holds the day-keyed review queue bookkeeping: building a
// session from the selector's output and advancing its queue as answers
// come in. Nothing here touches storage.
package session

import (
	"errors"
	"slices"
	"time"

	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/models"
)

var (
	ErrWordNotQueued = errors.New("session: word is not in today's queue")
	ErrExpired       = errors.New("session: session belongs to another day")
)

// New materializes a session for date from the selected words.
func New(profileID int64, date calendar.Date, quota int, words []string) models.DailySession {
	return models.DailySession{
		ProfileID:     profileID,
		Date:          date,
		Quota:         quota,
		Words:         append([]string{}, words...),
		Queue:         append([]string{}, words...),
		FirstAnswered: map[string]bool{},
	}
}

// NeedsRebuild reports whether s cannot serve today at the given quota.
func NeedsRebuild(s *models.DailySession, today calendar.Date, quota int) bool {
	return s == nil || s.Date != today || s.Quota != quota
}

// Outcome describes what one answer did to the session.
type Outcome struct {
	FirstAttempt bool
	Done         bool
}

// Answer records an answer for word on today and returns the updated
// session. A pass takes the word out of the queue; a failure sends it to
// the back. Only the first answer of the day counts toward the tallies.
func Answer(s models.DailySession, word string, correct bool, today calendar.Date, now time.Time) (models.DailySession, Outcome, error) {
	if s.Date != today {
		return s, Outcome{}, ErrExpired
	}
	idx := slices.Index(s.Queue, word)
	if idx < 0 {
		return s, Outcome{}, ErrWordNotQueued
	}

	next := s
	next.Queue = slices.Delete(slices.Clone(s.Queue), idx, idx+1)
	if !correct {
		next.Queue = append(next.Queue, word)
	}

	next.FirstAnswered = make(map[string]bool, len(s.FirstAnswered)+1)
	for w := range s.FirstAnswered {
		next.FirstAnswered[w] = true
	}

	first := !s.FirstAnswered[word]
	if first {
		next.FirstAnswered[word] = true
		if correct {
			next.CorrectCount++
		} else {
			next.WrongCount++
		}
	}
	next.UpdatedAt = now

	return next, Outcome{FirstAttempt: first, Done: len(next.Queue) == 0}, nil
}

// Remove drops word from the queue and the day's word list, e.g. after the
// card was deleted.
func Remove(s models.DailySession, word string) (models.DailySession, bool) {
	if !slices.Contains(s.Words, word) && !slices.Contains(s.Queue, word) {
		return s, false
	}
	next := s
	next.Words = slices.DeleteFunc(slices.Clone(s.Words), func(w string) bool { return w == word })
	next.Queue = slices.DeleteFunc(slices.Clone(s.Queue), func(w string) bool { return w == word })
	return next, true
}

// Next returns the word at the front of the queue.
func Next(s *models.DailySession) (string, bool) {
	if s == nil || len(s.Queue) == 0 {
		return "", false
	}
	return s.Queue[0], true
}

// Progress summarizes s.
func Progress(s *models.DailySession) models.SessionProgress {
	if s == nil {
		return models.SessionProgress{Done: true}
	}
	return models.SessionProgress{
		Date:      s.Date,
		Total:     len(s.Words),
		Remaining: len(s.Queue),
		Answered:  len(s.FirstAnswered),
		Correct:   s.CorrectCount,
		Wrong:     s.WrongCount,
		Done:      len(s.Queue) == 0,
	}
}
