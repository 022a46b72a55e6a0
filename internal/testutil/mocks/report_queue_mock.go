package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoplay/internal/models"
)

// MockReportQueue is a mock implementation of jobs.ReportQueue
type MockReportQueue struct {
	mock.Mock
}

func (m *MockReportQueue) EnqueueReport(report models.ActivityReport) error {
	args := m.Called(report)
	return args.Error(0)
}
