package vocab_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/vocab"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want vocab.Format
	}{
		{path: "words.csv", want: vocab.FormatCSV},
		{path: "/tmp/Words.XLSX", want: vocab.FormatXLSX},
		{path: "list.yaml", want: vocab.FormatYAML},
		{path: "list.yml", want: vocab.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := vocab.FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := vocab.FormatFromPath("words.txt")
	assert.ErrorIs(t, err, vocab.ErrUnsupportedFormat)
}

func TestParseCSVWithHeader(t *testing.T) {
	input := `Word,Definition,POS,Example_CN
apple,a fruit,n.,我吃苹果。
Banana,another fruit,n.,
,missing word,,
42,bad word,,
apple,duplicate,,
`
	res, err := vocab.Parse(strings.NewReader(input), vocab.FormatCSV)
	require.NoError(t, err)

	require.Len(t, res.Drafts, 2)
	assert.Equal(t, models.CardDraft{Word: "apple", Definition: "a fruit", POS: "n.", ExampleCN: "我吃苹果。"}, res.Drafts[0])
	assert.Equal(t, "banana", res.Drafts[1].Word)

	require.Len(t, res.Problems, 3)
	assert.Equal(t, 4, res.Problems[0].Row)
	assert.Equal(t, vocab.ErrEmptyWord.Error(), res.Problems[0].Reason)
	assert.Equal(t, 5, res.Problems[1].Row)
	assert.Equal(t, 6, res.Problems[2].Row)
	assert.Contains(t, res.Problems[2].Reason, "duplicate of row 2")
}

func TestParseCSVPositional(t *testing.T) {
	input := "apple,/ˈæpəl/,n.,a fruit,An apple a day.,一天一苹果。\npear\n\n"

	res, err := vocab.Parse(strings.NewReader(input), vocab.FormatCSV)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)
	assert.Equal(t, models.CardDraft{
		Word: "apple", Phonetic: "/ˈæpəl/", POS: "n.", Definition: "a fruit",
		Example: "An apple a day.", ExampleCN: "一天一苹果。",
	}, res.Drafts[0])
	assert.Equal(t, models.CardDraft{Word: "pear"}, res.Drafts[1])
	assert.Empty(t, res.Problems)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"word", "definition"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Ephemeral", "lasting a short time"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"ubiquitous", "found everywhere"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"bad!", "nope"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := vocab.Parse(bytes.NewReader(buf.Bytes()), vocab.FormatXLSX)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)
	assert.Equal(t, "ephemeral", res.Drafts[0].Word)
	assert.Equal(t, "found everywhere", res.Drafts[1].Definition)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, 4, res.Problems[0].Row)
}

func TestParseYAML(t *testing.T) {
	input := `
- word: Resilient
  pos: adj.
  definition: able to recover quickly
  example_cn: 她很坚强。
- word: ""
- word: tenacious
`
	res, err := vocab.Parse(strings.NewReader(input), vocab.FormatYAML)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)
	assert.Equal(t, models.CardDraft{Word: "resilient", POS: "adj.", Definition: "able to recover quickly", ExampleCN: "她很坚强。"}, res.Drafts[0])
	assert.Equal(t, "tenacious", res.Drafts[1].Word)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, 2, res.Problems[0].Row)
}

func TestParseEmptyInput(t *testing.T) {
	for _, format := range []vocab.Format{vocab.FormatCSV, vocab.FormatYAML} {
		res, err := vocab.Parse(strings.NewReader(""), format)
		require.NoError(t, err, format)
		assert.Empty(t, res.Drafts)
		assert.Empty(t, res.Problems)
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := vocab.Parse(strings.NewReader("word: [unclosed"), vocab.FormatYAML)
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte("word\nzeal\n"), 0o600))

	res, err := vocab.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "zeal", res.Drafts[0].Word)

	_, err = vocab.ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = vocab.ParseFile("words.docx")
	assert.ErrorIs(t, err, vocab.ErrUnsupportedFormat)
}
