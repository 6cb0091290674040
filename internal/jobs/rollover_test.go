package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/jobs"
	"github.com/vytor/wordflash/internal/models"
)

type stubProfiles struct {
	profiles []models.Profile
	err      error
}

func (s stubProfiles) ListProfiles(context.Context) ([]models.Profile, error) {
	return s.profiles, s.err
}

type stubSessions struct {
	failFor map[int64]bool
	called  []int64
}

func (s *stubSessions) Today(_ context.Context, profileID int64) (*models.ReviewState, error) {
	s.called = append(s.called, profileID)
	if s.failFor[profileID] {
		return nil, errors.New("boom")
	}
	return &models.ReviewState{Progress: models.SessionProgress{Date: "2026-03-01", Total: 3}}, nil
}

func TestRollover_RunOnceWarmsEveryProfile(t *testing.T) {
	sessions := &stubSessions{failFor: map[int64]bool{2: true}}
	r := jobs.NewRollover(time.UTC, "00:05", stubProfiles{profiles: []models.Profile{{ID: 1}, {ID: 2}, {ID: 3}}}, sessions)

	warmed, err := r.RunOnce(context.Background())
	assert.Equal(t, 2, warmed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile 2")
	assert.Equal(t, []int64{1, 2, 3}, sessions.called)
}

func TestRollover_RunOnceListFailure(t *testing.T) {
	sessions := &stubSessions{}
	r := jobs.NewRollover(time.UTC, "00:05", stubProfiles{err: errors.New("db down")}, sessions)

	warmed, err := r.RunOnce(context.Background())
	assert.Zero(t, warmed)
	assert.Error(t, err)
	assert.Empty(t, sessions.called)
}

func TestRollover_StartSchedulesDailyRun(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	r := jobs.NewRollover(loc, "00:05", stubProfiles{}, &stubSessions{})

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	next := r.NextRun().In(loc)
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 5, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestRollover_StartRejectsBadTime(t *testing.T) {
	r := jobs.NewRollover(time.UTC, "25:99", stubProfiles{}, &stubSessions{})

	assert.Error(t, r.Start(context.Background()))
}
