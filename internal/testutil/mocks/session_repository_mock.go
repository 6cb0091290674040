package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, profileID int64) (*models.DailySession, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailySession), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, s models.DailySession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, profileID int64) error {
	args := m.Called(ctx, profileID)
	return args.Error(0)
}
