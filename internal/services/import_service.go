package services

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/vocab"
)

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Total    int                `json:"total"`
	Inserted int                `json:"inserted"`
	Existing int                `json:"existing"`
	Problems []vocab.RowProblem `json:"problems"`
}

// ImportService handles bulk card imports
type ImportService interface {
	ImportDrafts(ctx context.Context, profileID int64, drafts []models.CardDraft) (*ImportReport, error)
	ImportFile(ctx context.Context, profileID int64, path string) (*ImportReport, error)
}

type importService struct {
	cardRepo repository.CardRepository
}

// NewImportService creates a new ImportService
func NewImportService(cardRepo repository.CardRepository) ImportService {
	return &importService{cardRepo: cardRepo}
}

// ImportDrafts validates drafts and inserts the new ones in one batch.
// Words already in the library are left untouched.
func (s *importService) ImportDrafts(ctx context.Context, profileID int64, drafts []models.CardDraft) (*ImportReport, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"profile_id": profileID})
	log.Debug("importing %d drafts", len(drafts))

	report := &ImportReport{Total: len(drafts), Problems: []vocab.RowProblem{}}
	valid := make([]models.CardDraft, 0, len(drafts))
	seen := make(map[string]bool, len(drafts))
	for i, d := range drafts {
		prepared, err := vocab.Prepare(d)
		if err != nil {
			report.Problems = append(report.Problems, vocab.RowProblem{Row: i + 1, Word: d.Word, Reason: err.Error()})
			continue
		}
		if seen[prepared.Word] {
			report.Problems = append(report.Problems, vocab.RowProblem{Row: i + 1, Word: prepared.Word, Reason: "duplicate in import"})
			continue
		}
		seen[prepared.Word] = true
		valid = append(valid, prepared)
	}

	if err := s.insert(ctx, profileID, valid, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ImportFile reads a CSV, XLSX or YAML word list and imports it.
func (s *importService) ImportFile(ctx context.Context, profileID int64, path string) (*ImportReport, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"profile_id": profileID, "path": path})
	log.Info("importing word list")

	parsed, err := vocab.ParseFile(path)
	if err != nil {
		if stderrors.Is(err, vocab.ErrUnsupportedFormat) {
			return nil, errors.NewValidationError("file", err.Error())
		}
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError("file", path)
		}
		log.Error("failed to parse word list: %v", err)
		return nil, errors.NewBadRequestError("could not read word list: " + err.Error())
	}

	report := &ImportReport{
		Total:    len(parsed.Drafts) + len(parsed.Problems),
		Problems: append([]vocab.RowProblem{}, parsed.Problems...),
	}
	if err := s.insert(ctx, profileID, parsed.Drafts, report); err != nil {
		return nil, err
	}

	log.Info("word list imported: total=%d, inserted=%d, existing=%d, problems=%d",
		report.Total, report.Inserted, report.Existing, len(report.Problems))
	return report, nil
}

func (s *importService) insert(ctx context.Context, profileID int64, drafts []models.CardDraft, report *ImportReport) error {
	inserted, err := s.cardRepo.InsertBatch(ctx, profileID, drafts)
	if err != nil {
		logger.FromContext(ctx).Error("failed to insert imported cards: %v", err)
		return errors.NewInternalError(err)
	}
	report.Inserted = inserted
	report.Existing = len(drafts) - inserted
	return nil
}
