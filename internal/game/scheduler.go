package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs session timers. Stop functions must be safe to call more
// than once and must not block.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
	After(d time.Duration, fn func()) (stop func())
}

// ClockScheduler runs timers on a clockwork clock.
type ClockScheduler struct {
	clock clockwork.Clock
}

// NewScheduler returns a Scheduler on clock. A nil clock uses the real clock.
func NewScheduler(clock clockwork.Clock) *ClockScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockScheduler{clock: clock}
}

func (s *ClockScheduler) Every(d time.Duration, fn func()) func() {
	ticker := s.clock.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.Chan():
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (s *ClockScheduler) After(d time.Duration, fn func()) func() {
	timer := s.clock.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
