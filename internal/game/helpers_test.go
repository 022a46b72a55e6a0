package game_test

import (
	"sync"
	"time"

	"github.com/vytor/lingoplay/internal/game"
	"github.com/vytor/lingoplay/internal/testutil"
)

type completion struct {
	Score int
	Total int
}

// recorder collects completion callbacks.
type recorder struct {
	mu    sync.Mutex
	calls []completion
}

func (r *recorder) onComplete(score, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, completion{Score: score, Total: total})
}

func (r *recorder) results() []completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]completion(nil), r.calls...)
}

// keepOrder leaves shuffled input in its original order.
func keepOrder(n int) int { return n - 1 }

// leakyScheduler ignores stop requests, simulating a timer that fires after
// its cancellation was requested.
type leakyScheduler struct {
	*testutil.ManualScheduler
}

func (s leakyScheduler) Every(d time.Duration, fn func()) func() {
	s.ManualScheduler.Every(d, fn)
	return func() {}
}

func (s leakyScheduler) After(d time.Duration, fn func()) func() {
	s.ManualScheduler.After(d, fn)
	return func() {}
}

var _ game.Scheduler = leakyScheduler{}
