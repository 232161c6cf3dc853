// Package history keeps a bounded undo/redo stack of full document snapshots.
package history

import (
	"sync"
	"time"

	"github.com/mgpai22/lekh/internal/transcript"
)

const DefaultCapacity = 50

// immutable snapshot of every segment
type State struct {
	Segments  []transcript.SegmentState
	CreatedAt time.Time
}

// document operations the manager needs
type Document interface {
	Snapshot() []transcript.SegmentState
	Restore(states []transcript.SegmentState)
}

// Manager is the undo/redo stack over one document.
//
// The cursor always points at the applied state and 0 <= cursor < len(states).
// State 0 is taken when the manager is created; Undo never moves past it.
type Manager struct {
	mu       sync.Mutex
	doc      Document
	states   []State
	cursor   int
	capacity int
	now      func() time.Time
}

func New(doc Document, capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Manager{
		doc:      doc,
		capacity: capacity,
		now:      time.Now,
	}
	m.states = []State{m.capture()}
	return m
}

func (m *Manager) capture() State {
	return State{Segments: m.doc.Snapshot(), CreatedAt: m.now()}
}

// Commit snapshots the document as the new tip, discarding any redo branch.
func (m *Manager) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states = append(m.states[:m.cursor+1:m.cursor+1], m.capture())
	m.cursor = len(m.states) - 1

	for len(m.states) > m.capacity {
		m.states[0] = State{}
		m.states = m.states[1:]
		m.cursor--
	}
}

// Undo restores the previous state. Returns false at the initial state.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor <= 0 {
		return false
	}
	m.cursor--
	m.doc.Restore(m.states[m.cursor].Segments)
	return true
}

// Redo re-applies the next state. Returns false at the tip.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor >= len(m.states)-1 {
		return false
	}
	m.cursor++
	m.doc.Restore(m.states[m.cursor].Segments)
	return true
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.states)-1
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

func (m *Manager) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// State returns the snapshot at position i.
func (m *Manager) State(i int) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.states) {
		return State{}, false
	}
	return m.states[i], true
}
