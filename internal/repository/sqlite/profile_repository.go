package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, username string, dailyQuota int) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("creating profile: username=%s, daily_quota=%d", username, dailyQuota)

	var p models.Profile
	err := r.db.QueryRowContext(ctx, `
INSERT INTO profiles (username, daily_quota)
VALUES (?, ?)
RETURNING id, username, daily_quota, created_at
`, username, dailyQuota).Scan(&p.ID, &p.Username, &p.DailyQuota, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("profile already exists: username=%s", username)
			return nil, fmt.Errorf("profile %q: %w", username, repository.ErrDuplicate)
		}
		log.Error("failed to create profile: %v", err)
		return nil, err
	}
	log.Debug("profile created: id=%d", p.ID)
	return &p, nil
}

func (r *profileRepository) UpdateQuota(ctx context.Context, id int64, dailyQuota int) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile quota: profile_id=%d, daily_quota=%d", id, dailyQuota)

	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET daily_quota = ? WHERE id = ?`, dailyQuota, id)
	if err != nil {
		log.Error("failed to update profile quota: %v", err)
	}
	return err
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, daily_quota, created_at
FROM profiles
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.DailyQuota, &p.CreatedAt); err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		profiles = append(profiles, p)
	}

	log.Debug("found %d profiles", len(profiles))
	return profiles, rows.Err()
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%d", id)

	var p models.Profile
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, daily_quota, created_at
FROM profiles
WHERE id = ?
`, id).Scan(&p.ID, &p.Username, &p.DailyQuota, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile and related data: id=%d", id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		// review_log -> cards -> session -> profile, so it also works without foreign_keys=on.
		if _, err := tx.ExecContext(ctx, `
DELETE FROM review_log
WHERE card_id IN (SELECT id FROM cards WHERE profile_id = ?)
`, id); err != nil {
			log.Error("failed to delete review log for profile %d: %v", id, err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE profile_id = ?`, id); err != nil {
			log.Error("failed to delete cards for profile %d: %v", id, err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM daily_sessions WHERE profile_id = ?`, id); err != nil {
			log.Error("failed to delete session for profile %d: %v", id, err)
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
			log.Error("failed to delete profile %d: %v", id, err)
			return err
		}

		log.Debug("profile %d deleted with cascading data", id)
		return nil
	})
}
