package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.Queue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueReplication(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}
