package engine

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	t.Run("advances while running", func(t *testing.T) {
		c := NewClock()
		if got := c.Advance(time.Second); got != time.Second {
			t.Errorf("Advance returned %v, want %v", got, time.Second)
		}
		if got := c.Elapsed(); got != time.Second {
			t.Errorf("Elapsed = %v, want %v", got, time.Second)
		}
	})

	t.Run("swallows time while paused", func(t *testing.T) {
		c := NewClock()
		c.Advance(time.Second)
		c.Pause()

		if got := c.Advance(5 * time.Second); got != 0 {
			t.Errorf("Advance while paused returned %v, want 0", got)
		}
		if got := c.Elapsed(); got != time.Second {
			t.Errorf("Elapsed = %v, want %v", got, time.Second)
		}
		if !c.Paused() {
			t.Error("Paused = false, want true")
		}

		c.Resume()
		c.Advance(time.Second)
		if got := c.Elapsed(); got != 2*time.Second {
			t.Errorf("Elapsed after resume = %v, want %v", got, 2*time.Second)
		}
	})

	t.Run("ignores non-positive deltas", func(t *testing.T) {
		c := NewClock()
		if got := c.Advance(-time.Second); got != 0 {
			t.Errorf("Advance(-1s) returned %v, want 0", got)
		}
		if got := c.Elapsed(); got != 0 {
			t.Errorf("Elapsed = %v, want 0", got)
		}
	})

	t.Run("reset returns to zero running", func(t *testing.T) {
		c := NewClock()
		c.Advance(time.Minute)
		c.Pause()
		c.Reset()

		if got := c.Elapsed(); got != 0 {
			t.Errorf("Elapsed after reset = %v, want 0", got)
		}
		if c.Paused() {
			t.Error("Paused after reset = true, want false")
		}
	})

	t.Run("seconds converts", func(t *testing.T) {
		c := NewClock()
		c.Advance(1500 * time.Millisecond)
		if got := c.Seconds(); got != 1.5 {
			t.Errorf("Seconds = %v, want 1.5", got)
		}
	})
}
