package transcript

import (
	"errors"
	"fmt"
	"sync"
)

var ErrIndexOutOfRange = errors.New("segment index out of range")

// per-segment fields captured by a history snapshot
type SegmentState struct {
	Text         string
	StartLabel   string
	EndLabel     string
	StartSeconds float64
	EndSeconds   float64
}

// Document owns the ordered segments of one open transcript.
// Safe for concurrent use.
type Document struct {
	mu       sync.RWMutex
	fileID   string
	segments []Segment
}

func NewDocument(fileID string, segments []Segment) *Document {
	owned := make([]Segment, len(segments))
	copy(owned, segments)
	Reindex(owned)
	return &Document{fileID: fileID, segments: owned}
}

// parses raw text into a new document
func ParseDocument(fileID, raw string) *Document {
	return NewDocument(fileID, Parse(raw))
}

func (d *Document) FileID() string {
	return d.fileID
}

func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.segments)
}

func (d *Document) Segment(index int) (Segment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index < 0 || index >= len(d.segments) {
		return Segment{}, fmt.Errorf(
			"%w: %d (0-%d)",
			ErrIndexOutOfRange,
			index,
			len(d.segments)-1,
		)
	}
	return d.segments[index], nil
}

// copy of all segments in order
func (d *Document) Segments() []Segment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Segment, len(d.segments))
	copy(out, d.segments)
	return out
}

func (d *Document) SetText(index int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.segments) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	d.segments[index].Text = text
	return nil
}

// ApplyEdits writes the given texts and returns how many segments changed.
// Indices outside the document are ignored.
func (d *Document) ApplyEdits(edits map[int]string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := 0
	for index, text := range edits {
		if index < 0 || index >= len(d.segments) {
			continue
		}
		if d.segments[index].Text != text {
			d.segments[index].Text = text
			changed++
		}
	}
	return changed
}

func (d *Document) Snapshot() []SegmentState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	states := make([]SegmentState, len(d.segments))
	for i, seg := range d.segments {
		states[i] = SegmentState{
			Text:         seg.Text,
			StartLabel:   seg.StartLabel,
			EndLabel:     seg.EndLabel,
			StartSeconds: seg.StartSeconds,
			EndSeconds:   seg.EndSeconds,
		}
	}
	return states
}

// Restore overwrites per-index fields from states. Segment count and order
// never change: extra live segments are left alone and extra states ignored.
func (d *Document) Restore(states []SegmentState) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < len(states) && i < len(d.segments); i++ {
		st := states[i]
		d.segments[i].Text = st.Text
		d.segments[i].StartLabel = st.StartLabel
		d.segments[i].EndLabel = st.EndLabel
		d.segments[i].StartSeconds = st.StartSeconds
		d.segments[i].EndSeconds = st.EndSeconds
	}
}

func (d *Document) Serialize() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Serialize(d.segments)
}
