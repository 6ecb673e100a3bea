package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUploader is a mock implementation of imagehost.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	args := m.Called(ctx, data, name)
	return args.String(0), args.Error(1)
}
