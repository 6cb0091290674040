package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueImport(profileID int64, path string) error {
	args := m.Called(profileID, path)
	return args.Error(0)
}
