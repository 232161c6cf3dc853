package playback

import (
	"sync"
	"time"
)

// VirtualClock advances with wall time while playing and stops at its
// duration. It stands in for an audio player.
type VirtualClock struct {
	mu       sync.Mutex
	now      func() time.Time
	duration float64
	offset   float64
	started  time.Time
	playing  bool
	ended    bool // reached duration by playing, so Play restarts from 0
}

// NewVirtualClock creates a paused clock at position 0. A nil now uses
// time.Now.
func NewVirtualClock(duration float64, now func() time.Time) *VirtualClock {
	if now == nil {
		now = time.Now
	}
	if duration < 0 {
		duration = 0
	}
	return &VirtualClock{now: now, duration: duration}
}

func (c *VirtualClock) positionLocked() float64 {
	pos := c.offset
	if c.playing {
		pos += c.now().Sub(c.started).Seconds()
	}
	if pos > c.duration {
		pos = c.duration
	}
	return pos
}

func (c *VirtualClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := c.positionLocked()
	c.stopAtEndLocked()
	return pos
}

func (c *VirtualClock) stopAtEndLocked() {
	if c.playing && c.positionLocked() >= c.duration {
		c.offset = c.duration
		c.playing = false
		c.ended = true
	}
}

func (c *VirtualClock) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

func (c *VirtualClock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAtEndLocked()
	return !c.playing
}

func (c *VirtualClock) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	if seconds > c.duration {
		seconds = c.duration
	}
	c.offset = seconds
	c.started = c.now()
	c.ended = false
}

func (c *VirtualClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAtEndLocked()
	if c.playing {
		return
	}
	if c.ended {
		c.offset = 0
		c.ended = false
	}
	c.started = c.now()
	c.playing = true
}

func (c *VirtualClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAtEndLocked()
	if !c.playing {
		return
	}
	c.offset = c.positionLocked()
	c.playing = false
}
