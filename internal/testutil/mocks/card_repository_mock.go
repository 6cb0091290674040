package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Get(ctx context.Context, profileID int64, word string) (*models.Card, error) {
	args := m.Called(ctx, profileID, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) ListAll(ctx context.Context, profileID int64) ([]models.Card, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Count(ctx context.Context, filter models.CardFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) InsertBatch(ctx context.Context, profileID int64, drafts []models.CardDraft) (int, error) {
	args := m.Called(ctx, profileID, drafts)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) UpdateState(ctx context.Context, id int64, state models.LearningState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockCardRepository) SetMastered(ctx context.Context, id int64, state models.LearningState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, profileID int64, word string) error {
	args := m.Called(ctx, profileID, word)
	return args.Error(0)
}

func (m *MockCardRepository) Stats(ctx context.Context, profileID int64, today calendar.Date) (*models.LibraryStats, error) {
	args := m.Called(ctx, profileID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LibraryStats), args.Error(1)
}

func (m *MockCardRepository) InsertReviewLog(ctx context.Context, entry models.ReviewLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
