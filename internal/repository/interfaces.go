package repository

import (
	"context"
	"errors"

	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, username string, dailyQuota int) (*models.Profile, error)
	UpdateQuota(ctx context.Context, id int64, dailyQuota int) error
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access. Cards are addressed by
// (profile, word).
type CardRepository interface {
	Get(ctx context.Context, profileID int64, word string) (*models.Card, error)
	ListAll(ctx context.Context, profileID int64) ([]models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Count(ctx context.Context, filter models.CardFilter) (int, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	InsertBatch(ctx context.Context, profileID int64, drafts []models.CardDraft) (int, error)
	UpdateState(ctx context.Context, id int64, state models.LearningState) error
	SetMastered(ctx context.Context, id int64, state models.LearningState) error
	Delete(ctx context.Context, profileID int64, word string) error
	Stats(ctx context.Context, profileID int64, today calendar.Date) (*models.LibraryStats, error)
	InsertReviewLog(ctx context.Context, entry models.ReviewLog) error
}

// SessionRepository persists one daily session per profile
type SessionRepository interface {
	Get(ctx context.Context, profileID int64) (*models.DailySession, error)
	Save(ctx context.Context, s models.DailySession) error
	Delete(ctx context.Context, profileID int64) error
}

// ErrDuplicate is returned when an insert collides with an existing row.
var ErrDuplicate = errors.New("repository: duplicate entry")
