// Package srs is the spaced-repetition scheduler: a selector that picks the
// day's review words and a grader that moves a card through its levels.
// Both are pure; persistence belongs to the caller.
package srs

import (
	"errors"
	"fmt"
)

// Default policy knobs.
var (
	Intervals       = []int{1, 3, 7, 30}
	StreakToLevelUp = 2
	MaxLevel        = 3
)

// Policy holds the scheduling knobs. Intervals[level] is the number of days
// until the next review at that level, so it needs MaxLevel+1 entries.
type Policy struct {
	Intervals       []int
	StreakToLevelUp int
	MaxLevel        int
}

// DefaultPolicy returns a copy of the package defaults.
func DefaultPolicy() Policy {
	return Policy{
		Intervals:       append([]int(nil), Intervals...),
		StreakToLevelUp: StreakToLevelUp,
		MaxLevel:        MaxLevel,
	}
}

// Validate reports every inconsistency in p.
func (p Policy) Validate() error {
	var errs []error
	if p.MaxLevel < 0 {
		errs = append(errs, fmt.Errorf("max level must be >= 0, got %d", p.MaxLevel))
	}
	if p.StreakToLevelUp < 1 {
		errs = append(errs, fmt.Errorf("streak to level up must be >= 1, got %d", p.StreakToLevelUp))
	}
	if len(p.Intervals) != p.MaxLevel+1 {
		errs = append(errs, fmt.Errorf("need %d intervals (one per level), got %d", p.MaxLevel+1, len(p.Intervals)))
	}
	for i, days := range p.Intervals {
		if days < 1 {
			errs = append(errs, fmt.Errorf("interval for level %d must be >= 1 day, got %d", i, days))
		}
	}
	return errors.Join(errs...)
}

// AnswersToMaster is the number of consecutive correct answers that take a
// new card to mastery.
func (p Policy) AnswersToMaster() int {
	return p.StreakToLevelUp * (p.MaxLevel + 1)
}

func (p Policy) interval(level int) int {
	return p.Intervals[p.clampLevel(level)]
}

func (p Policy) clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > p.MaxLevel {
		return p.MaxLevel
	}
	return level
}
