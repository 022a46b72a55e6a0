package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/progress"
)

// ReportJob delivers one activity report.
type ReportJob struct {
	Recorder progress.Recorder
	Report   models.ActivityReport
	Timeout  time.Duration
}

func (j *ReportJob) Name() string { return "record_activity" }

func (j *ReportJob) Run(ctx context.Context) error {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	if err := j.Recorder.Record(ctx, j.Report); err != nil {
		return fmt.Errorf("record activity %d for user %d: %w", j.Report.ActivityID, j.Report.UserID, err)
	}
	return nil
}
