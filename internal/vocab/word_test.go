package vocab_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/vocab"
)

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "apple", want: "apple"},
		{name: "trim and lower", input: "  Serendipity \n", want: "serendipity"},
		{name: "phrase", input: "Give Up", want: "give up"},
		{name: "hyphen", input: "well-known", want: "well-known"},
		{name: "apostrophe", input: "o'clock", want: "o'clock"},
		{name: "empty", input: "   ", wantErr: vocab.ErrEmptyWord},
		{name: "leading digit", input: "3d", wantErr: vocab.ErrInvalidWord},
		{name: "leading hyphen", input: "-ish", wantErr: vocab.ErrInvalidWord},
		{name: "punctuation", input: "hello!", wantErr: vocab.ErrInvalidWord},
		{name: "non ascii", input: "café", wantErr: vocab.ErrInvalidWord},
		{name: "fifty letters", input: strings.Repeat("a", 50), want: strings.Repeat("a", 50)},
		{name: "too long", input: strings.Repeat("a", 51), wantErr: vocab.ErrWordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vocab.NormalizeWord(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", vocab.Truncate("  abc  ", 5))
	assert.Equal(t, "ab", vocab.Truncate("abcdef", 2))
	assert.Equal(t, "你好", vocab.Truncate("你好世界", 2))
	assert.Equal(t, "a", vocab.Truncate("a  bcd", 3))
}

func TestSanitize(t *testing.T) {
	d := vocab.Sanitize(models.CardDraft{
		Word:       " apple ",
		Phonetic:   strings.Repeat("p", 150),
		POS:        " n. ",
		Definition: strings.Repeat("d", 600),
		Example:    strings.Repeat("e", 501),
		ExampleCN:  strings.Repeat("中", 501),
	})

	assert.Equal(t, "apple", d.Word)
	assert.Len(t, d.Phonetic, vocab.MaxPhoneticLen)
	assert.Equal(t, "n.", d.POS)
	assert.Len(t, d.Definition, vocab.MaxDefinitionLen)
	assert.Len(t, d.Example, vocab.MaxExampleLen)
	assert.Equal(t, vocab.MaxExampleLen, len([]rune(d.ExampleCN)))
}

func TestPrepare(t *testing.T) {
	d, err := vocab.Prepare(models.CardDraft{Word: " Apple ", Definition: " fruit "})
	require.NoError(t, err)
	assert.Equal(t, "apple", d.Word)
	assert.Equal(t, "fruit", d.Definition)

	_, err = vocab.Prepare(models.CardDraft{Word: "42"})
	assert.ErrorIs(t, err, vocab.ErrInvalidWord)
}
