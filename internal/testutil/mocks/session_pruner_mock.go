package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSessionPruner stands in for the review service when a card is deleted
type MockSessionPruner struct {
	mock.Mock
}

func (m *MockSessionPruner) RemoveWord(ctx context.Context, profileID int64, word string) error {
	args := m.Called(ctx, profileID, word)
	return args.Error(0)
}
