package jobs

import (
	"time"

	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/progress"
	"github.com/vytor/lingoplay/internal/worker"
)

// WorkerQueue implements ReportQueue using a worker pool
type WorkerQueue struct {
	reportPool *worker.Pool
	recorder   progress.Recorder
	timeout    time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation. timeout bounds
// each delivery attempt.
func NewWorkerQueue(reportPool *worker.Pool, recorder progress.Recorder, timeout time.Duration) ReportQueue {
	return &WorkerQueue{
		reportPool: reportPool,
		recorder:   recorder,
		timeout:    timeout,
	}
}

// EnqueueReport never blocks. A full queue returns worker.ErrQueueFull.
func (q *WorkerQueue) EnqueueReport(report models.ActivityReport) error {
	return q.reportPool.TrySubmit(&worker.ReportJob{
		Recorder: q.recorder,
		Report:   report,
		Timeout:  q.timeout,
	})
}
