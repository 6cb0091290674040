package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/wordflash/internal/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
)

var ErrUnsupportedFormat = errors.New("unsupported word list format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// RowProblem describes an input row that was skipped.
type RowProblem struct {
	Row    int    `json:"row"`
	Word   string `json:"word"`
	Reason string `json:"reason"`
}

func (p RowProblem) String() string {
	return fmt.Sprintf("row %d (%q): %s", p.Row, p.Word, p.Reason)
}

// Result is the outcome of reading a word list. Drafts are normalized and
// unique by word.
type Result struct {
	Drafts   []models.CardDraft
	Problems []RowProblem
}

// ParseFile reads the word list at path.
func ParseFile(path string) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return Parse(f, format)
}

// Parse reads a word list in the given format. Bad rows end up in
// Result.Problems; only unreadable input is an error.
func Parse(r io.Reader, format Format) (*Result, error) {
	var (
		rows []rawRow
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatYAML:
		rows, err = readYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return collect(rows), nil
}

type rawRow struct {
	num   int
	draft models.CardDraft
}

func collect(rows []rawRow) *Result {
	res := &Result{Drafts: []models.CardDraft{}}
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		d, err := Prepare(row.draft)
		if err != nil {
			res.Problems = append(res.Problems, RowProblem{Row: row.num, Word: row.draft.Word, Reason: err.Error()})
			continue
		}
		if first, dup := seen[d.Word]; dup {
			res.Problems = append(res.Problems, RowProblem{Row: row.num, Word: d.Word, Reason: fmt.Sprintf("duplicate of row %d", first)})
			continue
		}
		seen[d.Word] = row.num
		res.Drafts = append(res.Drafts, d)
	}
	return res
}

var columnOrder = []string{"word", "phonetic", "pos", "definition", "example", "example_cn"}

// tableRows maps spreadsheet records to drafts. A first record whose cells
// are all known column names is a header; otherwise columns are positional.
func tableRows(records [][]string) []rawRow {
	if len(records) == 0 {
		return nil
	}

	index := map[string]int{}
	start := 0
	if header, ok := headerIndex(records[0]); ok {
		index = header
		start = 1
	} else {
		for i, name := range columnOrder {
			index[name] = i
		}
	}

	cell := func(rec []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]rawRow, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if blank(rec) {
			continue
		}
		rows = append(rows, rawRow{
			num: i + 1,
			draft: models.CardDraft{
				Word:       cell(rec, "word"),
				Phonetic:   cell(rec, "phonetic"),
				POS:        cell(rec, "pos"),
				Definition: cell(rec, "definition"),
				Example:    cell(rec, "example"),
				ExampleCN:  cell(rec, "example_cn"),
			},
		})
	}
	return rows
}

func headerIndex(rec []string) (map[string]int, bool) {
	known := make(map[string]bool, len(columnOrder))
	for _, name := range columnOrder {
		known[name] = true
	}
	index := map[string]int{}
	for i, cell := range rec {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, false
		}
		index[name] = i
	}
	if _, ok := index["word"]; !ok {
		return nil, false
	}
	return index, true
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader) ([]rawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return tableRows(records), nil
}

func readXLSX(r io.Reader) ([]rawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	return tableRows(records), nil
}

func readYAML(r io.Reader) ([]rawRow, error) {
	var drafts []models.CardDraft
	if err := yaml.NewDecoder(r).Decode(&drafts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	rows := make([]rawRow, 0, len(drafts))
	for i, d := range drafts {
		rows = append(rows, rawRow{num: i + 1, draft: d})
	}
	return rows, nil
}
