package game

import (
	"sync"
	"time"

	"github.com/vytor/lingoplay/internal/shuffle"
)

// Status is the lifecycle phase of a session.
type Status string

const (
	StatusReady     Status = "ready"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
)

// CompleteFunc receives the final score and the maximum possible score.
type CompleteFunc func(score, total int)

type options struct {
	onComplete CompleteFunc
	onChange   func()
	intn       shuffle.IntN
	duration   time.Duration
}

// Option configures a session.
type Option func(*options)

// WithOnComplete sets the completion callback. It runs once per lifecycle,
// outside the session lock.
func WithOnComplete(fn CompleteFunc) Option {
	return func(o *options) { o.onComplete = fn }
}

// WithOnChange sets a hook that runs after every state change.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// WithRandom replaces the shuffle source.
func WithRandom(intn shuffle.IntN) Option {
	return func(o *options) { o.intn = intn }
}

// WithDuration overrides the game's time budget.
func WithDuration(d time.Duration) Option {
	return func(o *options) { o.duration = d }
}

func buildOptions(def time.Duration, opts []Option) options {
	o := options{duration: def}
	for _, opt := range opts {
		opt(&o)
	}
	if o.duration <= 0 {
		o.duration = def
	}
	return o
}

// core holds the timer and completion machinery shared by every game.
//
// Every scheduled callback captures the generation it was scheduled in and
// re-checks it under the lock. Cancelling tasks bumps the generation, so a
// callback that was already in flight when its task was stopped is dropped.
type core struct {
	mu    sync.Mutex
	sched Scheduler
	opts  options

	gen       uint64
	stops     []func()
	started   bool
	completed bool
	stopped   bool

	dirty   bool
	results []func()
}

func (c *core) setup(sched Scheduler, opts options) {
	if sched == nil {
		sched = NewScheduler(nil)
	}
	c.sched = sched
	c.opts = opts
}

func (c *core) lock() {
	c.mu.Lock()
}

// unlock releases the session and then runs the callbacks queued while it
// was held.
func (c *core) unlock() {
	results := c.results
	dirty := c.dirty
	c.results = nil
	c.dirty = false
	c.mu.Unlock()

	for _, fn := range results {
		fn()
	}
	if dirty && c.opts.onChange != nil {
		c.opts.onChange()
	}
}

func (c *core) active() bool {
	return c.started && !c.completed && !c.stopped
}

func (c *core) status() Status {
	switch {
	case c.stopped:
		return StatusStopped
	case c.completed:
		return StatusCompleted
	case c.started:
		return StatusActive
	default:
		return StatusReady
	}
}

func (c *core) changed() {
	c.dirty = true
}

func shuffled[T any](c *core, items []T) []T {
	if c.opts.intn == nil {
		return shuffle.Slice(items)
	}
	return shuffle.SliceWith(items, c.opts.intn)
}

func (c *core) every(d time.Duration, fn func()) {
	c.stops = append(c.stops, c.sched.Every(d, c.guard(fn)))
}

func (c *core) after(d time.Duration, fn func()) {
	c.stops = append(c.stops, c.sched.After(d, c.guard(fn)))
}

func (c *core) guard(fn func()) func() {
	gen := c.gen
	return func() {
		c.lock()
		defer c.unlock()
		if c.gen != gen || !c.active() {
			return
		}
		fn()
	}
}

func (c *core) cancelTasks() {
	for _, stop := range c.stops {
		stop()
	}
	c.stops = nil
	c.gen++
}

// complete finalizes the lifecycle. Later calls are ignored.
func (c *core) complete(score, total int) {
	if c.completed {
		return
	}
	c.completed = true
	c.cancelTasks()
	c.changed()
	if fn := c.opts.onComplete; fn != nil {
		c.results = append(c.results, func() { fn(score, total) })
	}
}

// begin moves a ready session to active.
func (c *core) begin() error {
	switch {
	case c.stopped:
		return ErrStopped
	case c.completed:
		return ErrCompleted
	case c.started:
		return nil
	}
	c.started = true
	c.changed()
	return nil
}

// reset prepares a fresh lifecycle for Restart.
func (c *core) reset() error {
	if c.stopped {
		return ErrStopped
	}
	c.cancelTasks()
	c.started = false
	c.completed = false
	c.changed()
	return nil
}

// stop tears the session down without reporting a result.
func (c *core) stop() {
	if c.stopped {
		return
	}
	c.cancelTasks()
	c.stopped = true
	c.changed()
}

// requireActive maps an inactive lifecycle to the matching error.
func (c *core) requireActive() error {
	switch {
	case c.stopped:
		return ErrStopped
	case c.completed:
		return ErrCompleted
	case !c.started:
		return ErrNotStarted
	}
	return nil
}
