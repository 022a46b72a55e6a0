package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockImageSaver is a mock implementation of services.ImageSaver
type MockImageSaver struct {
	mock.Mock
}

func (m *MockImageSaver) Save(ctx context.Context, r io.Reader) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *MockImageSaver) MaxBytes() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}
