package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
)

// ProfileLister lists every profile.
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

// SessionWarmer materializes a profile's session for the current day.
type SessionWarmer interface {
	Today(ctx context.Context, profileID int64) (*models.ReviewState, error)
}

// Rollover builds every profile's review session shortly after midnight so
// the first request of the day does not pay for it.
type Rollover struct {
	scheduler *gocron.Scheduler
	profiles  ProfileLister
	sessions  SessionWarmer
	at        string
	log       *logger.Logger
}

// NewRollover schedules the warm-up daily at the HH:MM time at, in loc.
func NewRollover(loc *time.Location, at string, profiles ProfileLister, sessions SessionWarmer) *Rollover {
	return &Rollover{
		scheduler: gocron.NewScheduler(loc),
		profiles:  profiles,
		sessions:  sessions,
		at:        at,
		log:       logger.Default().WithPrefix("rollover"),
	}
}

// Start registers the daily job and starts the scheduler in the background.
func (r *Rollover) Start(ctx context.Context) error {
	_, err := r.scheduler.Every(1).Day().At(r.at).Do(func() {
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.Error("daily rollover failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule rollover at %s: %w", r.at, err)
	}
	r.scheduler.StartAsync()
	r.log.Info("daily rollover scheduled at %s %s", r.at, r.scheduler.Location())
	return nil
}

// Stop terminates the scheduler.
func (r *Rollover) Stop() {
	r.scheduler.Stop()
	r.log.Info("rollover scheduler stopped")
}

// NextRun reports when the rollover fires next.
func (r *Rollover) NextRun() time.Time {
	_, next := r.scheduler.NextRun()
	return next
}

// RunOnce warms today's session for every profile and returns how many
// succeeded. A failing profile does not stop the others.
func (r *Rollover) RunOnce(ctx context.Context) (int, error) {
	log := r.log
	ctx = logger.NewContext(ctx, log)
	start := time.Now()

	profiles, err := r.profiles.ListProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list profiles: %w", err)
	}

	var (
		warmed int
		errs   []error
	)
	for _, p := range profiles {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		state, err := r.sessions.Today(ctx, p.ID)
		if err != nil {
			log.Warn("failed to build session: profile_id=%d, err=%v", p.ID, err)
			errs = append(errs, fmt.Errorf("profile %d: %w", p.ID, err))
			continue
		}
		warmed++
		log.Debug("session ready: profile_id=%d, date=%s, words=%d", p.ID, state.Progress.Date, state.Progress.Total)
	}

	log.Info("rollover finished in %v: %d of %d profiles ready", time.Since(start), warmed, len(profiles))
	return warmed, errors.Join(errs...)
}
