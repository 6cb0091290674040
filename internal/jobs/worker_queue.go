package jobs

import (
	"context"

	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	importPool *worker.Pool
	importer   worker.Importer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool *worker.Pool, importService services.ImportService) JobQueue {
	return &WorkerQueue{
		importPool: importPool,
		importer:   serviceImporter{svc: importService},
	}
}

func (q *WorkerQueue) EnqueueImport(profileID int64, path string) error {
	return q.importPool.Submit(&worker.ImportVocabJob{
		Importer:  q.importer,
		ProfileID: profileID,
		Path:      path,
	})
}

type serviceImporter struct {
	svc services.ImportService
}

func (i serviceImporter) ImportFile(ctx context.Context, profileID int64, path string) (worker.ImportSummary, error) {
	report, err := i.svc.ImportFile(ctx, profileID, path)
	if err != nil {
		return worker.ImportSummary{}, err
	}
	return worker.ImportSummary{
		Inserted: report.Inserted,
		Existing: report.Existing,
		Problems: len(report.Problems),
	}, nil
}
