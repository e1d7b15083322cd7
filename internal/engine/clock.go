package engine

import (
	"sync"
	"time"
)

// Clock accumulates unpaused session time. Every timed behavior in the
// engine (driver phases, flow step deadlines, beat accumulation, media
// slide timing) reads from this single clock, so pausing the session
// freezes all of them together.
type Clock struct {
	mu      sync.Mutex
	elapsed time.Duration
	paused  bool
}

// NewClock returns a clock at zero, running.
func NewClock() *Clock {
	return &Clock{}
}

// Advance adds d to the elapsed time and returns the amount actually
// added. While paused the clock swallows the delta and returns zero.
func (c *Clock) Advance(d time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || d <= 0 {
		return 0
	}
	c.elapsed += d
	return d
}

// Elapsed returns the accumulated unpaused time.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Seconds returns the accumulated unpaused time in seconds.
func (c *Clock) Seconds() float64 {
	return c.Elapsed().Seconds()
}

// Pause freezes the clock.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume unfreezes the clock.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Paused reports whether the clock is frozen.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Reset returns the clock to zero, running.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = 0
	c.paused = false
}
