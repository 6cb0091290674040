package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vytor/wordflash/internal/config"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

const maxUsernameLen = 50

// ProfileService handles profile-related business logic
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, username string, dailyQuota int) (*models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	UpdateQuota(ctx context.Context, id int64, dailyQuota int) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	defaultQuota int
}

// NewProfileService creates a new ProfileService. Profiles created without
// a quota get defaultQuota.
func NewProfileService(profileRepo repository.ProfileRepository, defaultQuota int) ProfileService {
	return &profileService{profileRepo: profileRepo, defaultQuota: defaultQuota}
}

func (s *profileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing profiles")

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	return profiles, nil
}

func (s *profileService) CreateProfile(ctx context.Context, username string, dailyQuota int) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating profile: username=%s, daily_quota=%d", username, dailyQuota)

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, errors.NewValidationError("username", fmt.Sprintf("cannot be longer than %d characters", maxUsernameLen))
	}
	if dailyQuota == 0 {
		dailyQuota = s.defaultQuota
	}
	if err := validateQuota(dailyQuota); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.Create(ctx, username, dailyQuota)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError(fmt.Sprintf("profile %q already exists", username))
		}
		log.Error("failed to create profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("profile created: id=%d, username=%s", profile.ID, profile.Username)
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile: id=%d", id)

	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if profile == nil {
		return nil, errors.NewNotFoundError("profile", id)
	}

	return profile, nil
}

// UpdateQuota changes the daily quota. Today's stored session no longer
// matches the quota afterwards, so the next review request rebuilds it.
func (s *profileService) UpdateQuota(ctx context.Context, id int64, dailyQuota int) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating quota: profile_id=%d, daily_quota=%d", id, dailyQuota)

	if err := validateQuota(dailyQuota); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateQuota(ctx, id, dailyQuota); err != nil {
		log.Error("failed to update quota: %v", err)
		return nil, errors.NewInternalError(err)
	}

	profile.DailyQuota = dailyQuota
	return profile, nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting profile: id=%d", id)

	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete profile: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("profile deleted: id=%d", id)
	return nil
}

func validateQuota(q int) error {
	if q < config.MinDailyQuota || q > config.MaxDailyQuota {
		return errors.NewValidationError("daily_quota", fmt.Sprintf("must be between %d and %d", config.MinDailyQuota, config.MaxDailyQuota))
	}
	return nil
}
