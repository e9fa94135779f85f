package telemetry

import (
	"sync"
	"time"
)

// Clock measures elapsed poll time: wall clock since start minus the total
// time spent paused. Timestamps are monotonic non-decreasing while running and
// frozen while paused.
//
// The poll loop owns the clock; pause and resume arrive from the UI goroutine,
// so access is mutex-guarded.
type Clock struct {
	mu         sync.Mutex
	now        func() time.Time
	start      time.Time
	started    bool
	paused     bool
	pauseStart time.Time
	pauseAccum time.Duration
}

// NewClock creates a stopped clock. The now function defaults to time.Now and
// is injectable for tests.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Start begins measuring elapsed time. Starting an already-started clock is a
// no-op, so resuming a running session never rewinds timestamps.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return
	}
	c.start = c.now()
	c.started = true
	c.paused = false
	c.pauseAccum = 0
}

// Pause freezes the clock. Pausing twice has the same effect as pausing once:
// the second call must not restart the pause window.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.paused {
		return
	}
	c.paused = true
	c.pauseStart = c.now()
}

// Resume accumulates the elapsed pause duration and unfreezes the clock.
// Resuming a clock that is not paused is a no-op.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || !c.paused {
		return
	}
	c.pauseAccum += c.now().Sub(c.pauseStart)
	c.paused = false
}

// Reset returns the clock to "just started": elapsed 0, no accumulated pause.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.start = c.now()
	c.started = true
	c.paused = false
	c.pauseAccum = 0
}

// ElapsedMS returns the current elapsed timestamp in milliseconds: wall time
// since start minus accumulated pause time. Returns 0 before Start.
func (c *Clock) ElapsedMS() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return 0
	}

	end := c.now()
	accum := c.pauseAccum
	if c.paused {
		// Frozen: time since the pause began does not count
		accum += end.Sub(c.pauseStart)
	}
	return (end.Sub(c.start) - accum).Milliseconds()
}

// Started reports whether the clock has been started.
func (c *Clock) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Paused reports whether the clock is currently frozen.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
