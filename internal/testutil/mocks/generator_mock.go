package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/models"
)

// MockGenerator is a mock implementation of cardgen.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, word string) (*models.CardDraft, error) {
	args := m.Called(ctx, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardDraft), args.Error(1)
}
