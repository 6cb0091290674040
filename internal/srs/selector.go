package srs

import (
	"math/rand"
	"sort"

	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/models"
)

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Selector picks the words to review on a given day.
type Selector struct {
	shuffle Shuffler
}

// NewSelector returns a Selector. A nil shuffle uses math/rand.
func NewSelector(shuffle Shuffler) *Selector {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &Selector{shuffle: shuffle}
}

// SelectTodayWords returns at most quota words to review on today.
//
// Mastered cards are skipped. Due cards come first, lowest level and then
// stalest review first; never-reviewed cards fill whatever quota is left in
// random order. The final list is shuffled again so the reviewer cannot tell
// due words from new ones.
func (s *Selector) SelectTodayWords(cards []models.Card, quota int, today calendar.Date) []string {
	if quota <= 0 {
		return []string{}
	}

	var due, fresh []models.Card
	for _, c := range cards {
		switch {
		case c.Mastered:
		case c.NextReviewDate.IsZero():
			fresh = append(fresh, c)
		case !c.NextReviewDate.After(today):
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Level != due[j].Level {
			return due[i].Level < due[j].Level
		}
		return reviewedBefore(due[i], due[j])
	})
	s.shuffle(len(fresh), func(i, j int) { fresh[i], fresh[j] = fresh[j], fresh[i] })

	picked := make([]string, 0, min(quota, len(due)+len(fresh)))
	for _, c := range due {
		if len(picked) == quota {
			break
		}
		picked = append(picked, c.Word)
	}
	for _, c := range fresh {
		if len(picked) == quota {
			break
		}
		picked = append(picked, c.Word)
	}

	s.shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked
}

// reviewedBefore orders by last review time; never reviewed sorts first.
func reviewedBefore(a, b models.Card) bool {
	switch {
	case a.LastReviewedAt == nil:
		return b.LastReviewedAt != nil
	case b.LastReviewedAt == nil:
		return false
	default:
		return a.LastReviewedAt.Before(*b.LastReviewedAt)
	}
}

// SelectTodayWords selects with a random shuffle.
func SelectTodayWords(cards []models.Card, quota int, today calendar.Date) []string {
	return NewSelector(nil).SelectTodayWords(cards, quota, today)
}
