package worker

import (
	"context"
	"os"

	"github.com/vytor/wordflash/internal/logger"
)

// Importer is the part of the import service the job needs. Declared here
// so the worker package does not import services.
type Importer interface {
	ImportFile(ctx context.Context, profileID int64, path string) (ImportSummary, error)
}

// ImportSummary is what the job logs about a finished import.
type ImportSummary struct {
	Inserted int
	Existing int
	Problems int
}

// ImportVocabJob imports a staged word list file and removes it afterwards.
type ImportVocabJob struct {
	Importer  Importer
	ProfileID int64
	Path      string
}

func (j *ImportVocabJob) Name() string { return "import_vocab" }

func (j *ImportVocabJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"profile_id": j.ProfileID,
		"path":       j.Path,
	})
	log.Info("starting background import")

	defer func() {
		if err := os.Remove(j.Path); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove staged upload: %v", err)
		}
	}()

	summary, err := j.Importer.ImportFile(ctx, j.ProfileID, j.Path)
	if err != nil {
		log.Error("import failed: %v", err)
		return err
	}

	log.Info("import finished: inserted=%d, existing=%d, problems=%d", summary.Inserted, summary.Existing, summary.Problems)
	return nil
}
