package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/progress"
)

type funcJob struct {
	name string
	run  func(context.Context) error
}

func (j funcJob) Name() string { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.run(ctx) }

func TestPoolRunsQueuedJobsBeforeStopping(t *testing.T) {
	p := NewPool("test", 2, 8)
	p.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.TrySubmit(funcJob{name: "count", run: func(context.Context) error {
			ran.Add(1)
			return nil
		}}))
	}
	p.Stop()
	assert.Equal(t, int32(5), ran.Load())

	assert.ErrorIs(t, p.TrySubmit(funcJob{name: "late", run: func(context.Context) error { return nil }}), ErrPoolStopped)
	assert.ErrorIs(t, p.Submit(context.Background(), funcJob{name: "late"}), ErrPoolStopped)
	p.Stop() // idempotent
}

func TestPoolTrySubmitReportsFullQueue(t *testing.T) {
	// Not started: nothing drains the queue.
	p := NewPool("test", 1, 1)
	noop := funcJob{name: "noop", run: func(context.Context) error { return nil }}

	require.NoError(t, p.TrySubmit(noop))
	assert.Equal(t, 1, p.QueueSize())
	assert.ErrorIs(t, p.TrySubmit(noop), ErrQueueFull)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Submit(ctx, noop), context.DeadlineExceeded)
}

func TestPoolSurvivesFailingAndPanickingJobs(t *testing.T) {
	p := NewPool("test", 1, 4)
	p.Start(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.TrySubmit(funcJob{name: "fail", run: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.TrySubmit(funcJob{name: "panic", run: func(context.Context) error { panic("bad job") }}))
	require.NoError(t, p.TrySubmit(funcJob{name: "after", run: func(context.Context) error {
		wg.Done()
		return nil
	}}))
	wg.Wait()
	p.Stop()
}

func TestReportJobAppliesTimeout(t *testing.T) {
	var deadline bool
	job := &ReportJob{
		Recorder: progress.RecorderFunc(func(ctx context.Context, r models.ActivityReport) error {
			_, deadline = ctx.Deadline()
			return nil
		}),
		Report:  models.ActivityReport{UserID: 1, ActivityID: 2},
		Timeout: time.Second,
	}
	require.NoError(t, job.Run(context.Background()))
	assert.True(t, deadline)
	assert.Equal(t, "record_activity", job.Name())

	job.Recorder = progress.RecorderFunc(func(context.Context, models.ActivityReport) error { return errors.New("down") })
	err := job.Run(context.Background())
	assert.ErrorContains(t, err, "record activity 2 for user 1")
}
