// Package tui renders an editing session in the terminal with bubbletea.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgpai22/lekh/internal/session"
	"github.com/mgpai22/lekh/internal/transcript"
)

// full list replacement
type segmentsMsg []transcript.Segment

// incremental change
type updateMsg session.Update

// Adapter is the session.Renderer of the terminal UI. Session output is
// queued without blocking and forwarded in order to the running program.
type Adapter struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []tea.Msg
	started bool
	closed  bool
}

var _ session.Renderer = (*Adapter)(nil)

func NewAdapter() *Adapter {
	a := &Adapter{}
	a.cond = sync.NewCond(&a.mu)
	return a
}

func (a *Adapter) Render(segments []transcript.Segment) {
	a.push(segmentsMsg(append([]transcript.Segment(nil), segments...)))
}

func (a *Adapter) Update(u session.Update) {
	a.push(updateMsg(u))
}

func (a *Adapter) push(msg tea.Msg) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.queue = append(a.queue, msg)
	a.cond.Signal()
}

// Start forwards queued and future messages to send, usually
// (*tea.Program).Send. Messages queued before Start are kept.
func (a *Adapter) Start(send func(tea.Msg)) {
	a.mu.Lock()
	if a.started || a.closed {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()

	go a.forward(send)
}

func (a *Adapter) forward(send func(tea.Msg)) {
	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if a.closed {
			a.mu.Unlock()
			return
		}
		msg := a.queue[0]
		a.queue[0] = nil
		a.queue = a.queue[1:]
		a.mu.Unlock()

		send(msg)
	}
}

// Close stops forwarding and drops undelivered messages.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.queue = nil
	a.cond.Broadcast()
}
