// Package vocab validates words and reads word lists from CSV, Excel and
// YAML files.
package vocab

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vytor/wordflash/internal/models"
)

// Field limits, in runes.
const (
	MaxWordLen       = 50
	MaxPhoneticLen   = 100
	MaxPOSLen        = 50
	MaxDefinitionLen = 500
	MaxExampleLen    = 500
)

var (
	ErrEmptyWord   = errors.New("word is empty")
	ErrWordTooLong = fmt.Errorf("word is longer than %d characters", MaxWordLen)
	ErrInvalidWord = errors.New("word must start with a letter and contain only letters, spaces, hyphens or apostrophes")
)

var wordRe = regexp.MustCompile(`^[a-z][a-z\s\-']*$`)

// NormalizeWord trims and lower-cases s and checks that the result is a
// usable card identifier.
func NormalizeWord(s string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(s))
	switch {
	case w == "":
		return "", ErrEmptyWord
	case utf8.RuneCountInString(w) > MaxWordLen:
		return "", ErrWordTooLong
	case !wordRe.MatchString(w):
		return "", ErrInvalidWord
	}
	return w, nil
}

// Sanitize trims every field of d and cuts it to its limit.
func Sanitize(d models.CardDraft) models.CardDraft {
	return models.CardDraft{
		Word:       Truncate(d.Word, MaxWordLen),
		Phonetic:   Truncate(d.Phonetic, MaxPhoneticLen),
		POS:        Truncate(d.POS, MaxPOSLen),
		Definition: Truncate(d.Definition, MaxDefinitionLen),
		Example:    Truncate(d.Example, MaxExampleLen),
		ExampleCN:  Truncate(d.ExampleCN, MaxExampleLen),
	}
}

// Truncate trims s and keeps at most max runes.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

// Prepare normalizes the word of d and sanitizes the rest.
func Prepare(d models.CardDraft) (models.CardDraft, error) {
	w, err := NormalizeWord(d.Word)
	if err != nil {
		return models.CardDraft{}, err
	}
	d.Word = w
	return Sanitize(d), nil
}
