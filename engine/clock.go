package engine

import (
	"sync"
	"time"
)

// Clock is a time source
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// WallClock reads the system clock
func WallClock() Clock { return wallClock{} }

// AnimationClock drives animated styles
// Pausing freezes every gradient in place; resuming continues from the same phase.
type AnimationClock struct {
	mu       sync.RWMutex
	source   Clock
	paused   bool
	pausedAt time.Time
	lost     time.Duration // total time spent paused
}

func NewAnimationClock(source Clock) *AnimationClock {
	if source == nil {
		source = wallClock{}
	}
	return &AnimationClock{source: source}
}

// Now returns the animation time: source time minus every paused interval
func (c *AnimationClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.paused {
		return c.pausedAt.Add(-c.lost)
	}
	return c.source.Now().Add(-c.lost)
}

func (c *AnimationClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.source.Now()
}

func (c *AnimationClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.lost += c.source.Now().Sub(c.pausedAt)
	c.paused = false
	c.pausedAt = time.Time{}
}

// Toggle flips the pause state and reports whether the clock is now paused
func (c *AnimationClock) Toggle() bool {
	if c.Paused() {
		c.Resume()
		return false
	}
	c.Pause()
	return true
}

func (c *AnimationClock) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

// ManualClock only moves when told to
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
