package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

func TestProfileService_CreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("default quota", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Create", ctx, "alice", 20).Return(&models.Profile{ID: 1, Username: "alice", DailyQuota: 20}, nil)

		p, err := services.NewProfileService(repo, 20).CreateProfile(ctx, "  alice ", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		repo.AssertExpectations(t)
	})

	t.Run("explicit quota", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Create", ctx, "bob", 5).Return(&models.Profile{ID: 2, Username: "bob", DailyQuota: 5}, nil)

		p, err := services.NewProfileService(repo, 20).CreateProfile(ctx, "bob", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, p.DailyQuota)
	})

	invalid := []struct {
		name     string
		username string
		quota    int
		field    string
	}{
		{name: "empty username", username: "  ", quota: 10, field: "username"},
		{name: "long username", username: strings.Repeat("x", 51), quota: 10, field: "username"},
		{name: "negative quota", username: "carol", quota: -1, field: "daily_quota"},
		{name: "quota too high", username: "carol", quota: 501, field: "daily_quota"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockProfileRepository)

			_, err := services.NewProfileService(repo, 20).CreateProfile(ctx, tt.username, tt.quota)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
			assert.Contains(t, err.Error(), tt.field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Create", ctx, "alice", 20).Return(nil, fmt.Errorf("profile: %w", repository.ErrDuplicate))

		_, err := services.NewProfileService(repo, 20).CreateProfile(ctx, "alice", 0)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConflict))
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Create", ctx, "alice", 20).Return(nil, errors.New("disk full"))

		_, err := services.NewProfileService(repo, 20).CreateProfile(ctx, "alice", 0)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal))
	})
}

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", ctx, int64(1)).Return(&models.Profile{ID: 1, Username: "alice"}, nil)
	repo.On("Get", ctx, int64(2)).Return(nil, nil)
	svc := services.NewProfileService(repo, 20)

	p, err := svc.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	_, err = svc.GetProfile(ctx, 2)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestProfileService_ListProfilesNeverNil(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("List", ctx).Return(nil, nil)

	profiles, err := services.NewProfileService(repo, 20).ListProfiles(ctx)
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestProfileService_UpdateQuota(t *testing.T) {
	ctx := context.Background()

	t.Run("updates", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", ctx, int64(1)).Return(&models.Profile{ID: 1, Username: "alice", DailyQuota: 20}, nil)
		repo.On("UpdateQuota", ctx, int64(1), 40).Return(nil)

		p, err := services.NewProfileService(repo, 20).UpdateQuota(ctx, 1, 40)
		require.NoError(t, err)
		assert.Equal(t, 40, p.DailyQuota)
		repo.AssertExpectations(t)
	})

	t.Run("rejects zero", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)

		_, err := services.NewProfileService(repo, 20).UpdateQuota(ctx, 1, 0)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
		repo.AssertNotCalled(t, "UpdateQuota", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing profile", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", ctx, int64(9)).Return(nil, nil)

		_, err := services.NewProfileService(repo, 20).UpdateQuota(ctx, 9, 10)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	})
}

func TestProfileService_DeleteProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockProfileRepository)
	repo.On("Get", ctx, int64(1)).Return(&models.Profile{ID: 1}, nil)
	repo.On("Delete", ctx, int64(1)).Return(nil)
	repo.On("Get", ctx, int64(2)).Return(nil, nil)
	svc := services.NewProfileService(repo, 20)

	require.NoError(t, svc.DeleteProfile(ctx, 1))
	assert.True(t, apperrors.HasCode(svc.DeleteProfile(ctx, 2), apperrors.ErrCodeNotFound))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}
