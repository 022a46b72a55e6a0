package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoplay/internal/models"
)

// MockRecorder is a mock implementation of progress.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, report models.ActivityReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
