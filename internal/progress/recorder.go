// Package progress delivers completed-activity reports to the progress store.
package progress

import (
	"context"

	"github.com/vytor/lingoplay/internal/models"
)

// Recorder persists one activity report.
type Recorder interface {
	Record(ctx context.Context, report models.ActivityReport) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, report models.ActivityReport) error

func (f RecorderFunc) Record(ctx context.Context, report models.ActivityReport) error {
	return f(ctx, report)
}

// Ensure Client implements the interface
var _ Recorder = (*Client)(nil)
