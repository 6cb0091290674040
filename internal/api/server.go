package api

import (
	"context"

	"github.com/vytor/wordflash/internal/jobs"
	"github.com/vytor/wordflash/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB             Pinger
	ProfileService services.ProfileService
	CardService    services.CardService
	ReviewService  services.ReviewService
	JobQueue       jobs.JobQueue
	UploadDir      string
	MaxUploadBytes int64
}
