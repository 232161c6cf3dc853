// Package autosave debounces transcript edits and persists the document with
// at most one save in flight.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mgpai22/lekh/internal/logging"
	"github.com/mgpai22/lekh/internal/metrics"
)

const DefaultDelay = 2000 * time.Millisecond

var (
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrClosed         = errors.New("autosave scheduler is closed")
)

// PersistenceError wraps a failed backend save.
type PersistenceError struct {
	FileID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save transcript %s: %v", e.FileID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// persistence collaborator
type Saver interface {
	SaveTranscript(ctx context.Context, fileID, text string) error
}

// document operations used by the scheduler
type Document interface {
	FileID() string
	ApplyEdits(edits map[int]string) int
	Serialize() string
}

// receives a snapshot after edits were applied
type Committer interface {
	Commit()
}

type Timer interface {
	Stop() bool
}

// starts f after d; time.AfterFunc in production
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// edit waiting to be flushed
type PendingEdit struct {
	Text      string
	Timestamp time.Time
}

type Options struct {
	Delay     time.Duration
	AfterFunc AfterFunc
	// called with the number of segments persisted by a successful save
	OnSaved func(count int)
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

const (
	triggerAutosave = "autosave"
	triggerManual   = "manual"
	triggerRestore  = "restore"
)

// Scheduler coalesces edits for one document.
//
// A debounce timer is restarted on every edit. When it fires the pending set
// is taken as one batch, applied onto the document, committed to history,
// serialized and persisted. Failed batches are merged back into the pending
// set so the next cycle retries them.
type Scheduler struct {
	mu      sync.Mutex
	ctx     context.Context
	doc     Document
	history Committer
	saver   Saver
	opts    Options
	logger  *logging.Logger

	pending     map[int]PendingEdit
	timer       Timer
	timerSeq    uint64
	inFlight    bool
	rerun       bool // debounce fired while a save was in flight
	flushQueued bool // restore requested while a save was in flight
	dirty       bool // document state not persisted by the last attempt
	closed      bool
}

func New(
	ctx context.Context,
	doc Document,
	history Committer,
	saver Saver,
	opts Options,
) *Scheduler {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Scheduler{
		ctx:     ctx,
		doc:     doc,
		history: history,
		saver:   saver,
		opts:    opts,
		logger:  logger.Component("autosave"),
		pending: make(map[int]PendingEdit),
	}
}

// NotifyEdit records an edit and restarts the debounce timer.
func (s *Scheduler) NotifyEdit(index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.pending[index] = PendingEdit{Text: text, Timestamp: s.opts.Now()}
	s.opts.Metrics.SetPending(len(s.pending))
	s.scheduleLocked()
}

func (s *Scheduler) scheduleLocked() {
	s.stopTimerLocked()
	seq := s.timerSeq
	s.timer = s.opts.AfterFunc(s.opts.Delay, func() {
		s.fire(seq)
	})
}

func (s *Scheduler) stopTimerLocked() {
	s.timerSeq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.timerSeq {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	if s.inFlight {
		s.rerun = true
		s.mu.Unlock()
		return
	}
	if len(s.pending) == 0 && !s.dirty {
		s.mu.Unlock()
		return
	}

	batch := s.pending
	s.pending = make(map[int]PendingEdit)
	text := s.prepareLocked(batch)
	s.mu.Unlock()

	_ = s.persist(triggerAutosave, batch, text)
}

// applies the batch, commits history and marks a save in flight.
// Must hold s.mu so undo/redo never interleaves with apply+commit.
func (s *Scheduler) prepareLocked(batch map[int]PendingEdit) string {
	if len(batch) > 0 {
		edits := make(map[int]string, len(batch))
		for index, edit := range batch {
			edits[index] = edit.Text
		}
		if changed := s.doc.ApplyEdits(edits); changed > 0 && s.history != nil {
			s.history.Commit()
		}
	}
	s.opts.Metrics.SetPending(len(s.pending))
	s.dirty = false
	s.inFlight = true
	return s.doc.Serialize()
}

// persist runs the save and any restore queued behind it. The returned error
// belongs to the first save.
func (s *Scheduler) persist(
	trigger string,
	batch map[int]PendingEdit,
	text string,
) error {
	fileID := s.doc.FileID()
	var firstErr error
	first := true
	rearm := false

	for {
		start := time.Now()
		err := s.saver.SaveTranscript(s.ctx, fileID, text)
		s.opts.Metrics.RecordSave(trigger, err, time.Since(start))

		s.mu.Lock()
		s.inFlight = false
		if err != nil {
			s.dirty = true
			for index, edit := range batch {
				if _, newer := s.pending[index]; !newer {
					s.pending[index] = edit
				}
			}
			s.opts.Metrics.SetPending(len(s.pending))
		}

		if s.rerun || trigger == triggerManual {
			s.rerun = false
			rearm = true
		}

		next := false
		var nextText string
		if s.flushQueued && !s.closed {
			s.flushQueued = false
			next = true
			nextText = s.prepareLocked(nil)
		} else if rearm && !s.closed && len(s.pending) > 0 && s.timer == nil {
			s.scheduleLocked()
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Warnw("Transcript save failed",
				"file_id", fileID,
				"trigger", trigger,
				"segments", len(batch),
				"error", err,
			)
		} else {
			s.logger.Debugw("Transcript saved",
				"file_id", fileID,
				"trigger", trigger,
				"segments", len(batch),
			)
			if s.opts.OnSaved != nil && len(batch) > 0 {
				s.opts.OnSaved(len(batch))
			}
		}

		if first {
			firstErr = err
			first = false
		}
		if !next {
			return firstErr
		}
		trigger = triggerRestore
		batch = nil
		text = nextText
	}
}

// SaveNow persists one segment's edit immediately, bypassing the debounce.
// On success only that segment's pending entry is cleared; on failure the
// edit stays pending and a *PersistenceError is returned.
func (s *Scheduler) SaveNow(index int, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSaveInProgress
	}

	s.stopTimerLocked()
	delete(s.pending, index)
	batch := map[int]PendingEdit{
		index: {Text: text, Timestamp: s.opts.Now()},
	}
	serialized := s.prepareLocked(batch)
	s.mu.Unlock()

	if err := s.persist(triggerManual, batch, serialized); err != nil {
		return &PersistenceError{FileID: s.doc.FileID(), Err: err}
	}
	return nil
}

// Flush persists the current document through the single-flight path. When
// a save is already in flight the flush runs right after it completes.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.inFlight {
		s.flushQueued = true
		s.mu.Unlock()
		return nil
	}
	text := s.prepareLocked(nil)
	s.mu.Unlock()

	if err := s.persist(triggerRestore, nil, text); err != nil {
		return &PersistenceError{FileID: s.doc.FileID(), Err: err}
	}
	return nil
}

// Drain persists pending edits now instead of waiting for the debounce.
// It is a no-op when nothing is pending.
func (s *Scheduler) Drain() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.stopTimerLocked()
	if len(s.pending) == 0 && !s.dirty {
		s.mu.Unlock()
		return nil
	}

	batch := s.pending
	s.pending = make(map[int]PendingEdit)
	text := s.prepareLocked(batch)
	s.mu.Unlock()

	if err := s.persist(triggerAutosave, batch, text); err != nil {
		return &PersistenceError{FileID: s.doc.FileID(), Err: err}
	}
	return nil
}

// Cancel stops the debounce timer and drops pending edits.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Rewind runs move with the scheduler locked. Pending edits and the debounce
// timer are dropped only when move reports that the document changed, so a
// move with nothing to do leaves unsaved edits scheduled.
func (s *Scheduler) Rewind(move func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !move() {
		return false
	}
	s.cancelLocked()
	return true
}

func (s *Scheduler) cancelLocked() {
	s.stopTimerLocked()
	s.pending = make(map[int]PendingEdit)
	s.rerun = false
	s.opts.Metrics.SetPending(0)
}

// Close stops the timer; later calls are no-ops. An in-flight save is not
// interrupted.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTimerLocked()
}

// copy of the pending edits
func (s *Scheduler) Pending() map[int]PendingEdit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]PendingEdit, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out
}

func (s *Scheduler) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// reports whether a debounce timer is armed
func (s *Scheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
