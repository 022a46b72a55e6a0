package jobs

import "github.com/vytor/lingoplay/internal/models"

// ReportQueue provides an abstraction for enqueueing progress reports
type ReportQueue interface {
	EnqueueReport(report models.ActivityReport) error
}
