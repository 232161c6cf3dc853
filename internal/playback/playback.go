// Package playback maps a playback clock onto the active transcript segment.
package playback

import (
	"github.com/mgpai22/lekh/internal/transcript"
)

// NoSegment is returned when no timed segment contains the position.
const NoSegment = -1

// Clock is the audio transport the synchronizer observes and drives.
type Clock interface {
	Position() float64
	Duration() float64
	Paused() bool
	Seek(seconds float64)
	Play()
	Pause()
}

// ActiveIndex returns the first timed segment with start <= t <= end.
func ActiveIndex(segments []transcript.Segment, t float64) int {
	for i, seg := range segments {
		if seg.Contains(t) {
			return i
		}
	}
	return NoSegment
}

// Change describes the outcome of one clock update.
type Change struct {
	Previous int
	Current  int
	Changed  bool
}

// Synchronizer tracks the last active index for change detection.
type Synchronizer struct {
	last int
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{last: NoSegment}
}

// Update recomputes the active segment for position t.
func (s *Synchronizer) Update(segments []transcript.Segment, t float64) Change {
	current := ActiveIndex(segments, t)
	change := Change{
		Previous: s.last,
		Current:  current,
		Changed:  current != s.last,
	}
	s.last = current
	return change
}

func (s *Synchronizer) Active() int {
	return s.last
}

// Reset forgets the last active segment.
func (s *Synchronizer) Reset() {
	s.last = NoSegment
}

// Seek moves the clock to the start of seg and resumes playback when paused.
// Untimed segments are ignored and false is returned.
func Seek(clock Clock, seg transcript.Segment) bool {
	if !seg.Timed() {
		return false
	}
	clock.Seek(seg.StartSeconds)
	if clock.Paused() {
		clock.Play()
	}
	return true
}
