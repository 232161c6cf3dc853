// Package session ties the transcript engine together for one open file.
//
// A Session owns at most one editor: the parsed document with its history,
// autosave scheduler, playback synchronizer and translation cache. Opening
// another file tears the previous editor down. Results of background work
// (saves, translations) that land after the editor they belong to was closed
// are dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mgpai22/lekh/internal/autosave"
	"github.com/mgpai22/lekh/internal/bookmark"
	"github.com/mgpai22/lekh/internal/history"
	"github.com/mgpai22/lekh/internal/logging"
	"github.com/mgpai22/lekh/internal/metrics"
	"github.com/mgpai22/lekh/internal/playback"
	"github.com/mgpai22/lekh/internal/transcript"
	"github.com/mgpai22/lekh/internal/translate"
)

var (
	ErrNoDocument   = errors.New("no transcript is open")
	ErrNoTranslator = errors.New("translation is not configured")
)

type Options struct {
	Saver     autosave.Saver
	Bookmarks *bookmark.Store
	// nil disables translation
	Translator translate.Translator
	Renderer   Renderer
	// built per opened document; defaults to a VirtualClock spanning the
	// transcript
	NewClock func(segments []transcript.Segment) playback.Clock

	AutosaveDelay   time.Duration
	AfterFunc       autosave.AfterFunc
	HistoryCapacity int
	Language        string
	MinLength       int
	Batch           translate.BatchOptions

	Logger  *logging.Logger
	Metrics *metrics.Metrics
}

type Session struct {
	opts    Options
	logger  *logging.Logger
	metrics *metrics.Metrics

	gen atomic.Uint64
	mu  sync.Mutex
	ed  *editor
	wg  sync.WaitGroup
}

type editor struct {
	gen    uint64
	fileID string
	ctx    context.Context
	cancel context.CancelFunc

	doc      *transcript.Document
	history  *history.Manager
	autosave *autosave.Scheduler
	sync     *playback.Synchronizer
	clock    playback.Clock
	cache    *translate.Cache
	batcher  *translate.Batcher

	mu          sync.Mutex
	translating bool
	language    string
	batchCancel context.CancelFunc
	bookmark    int
	hasBookmark bool
}

func New(opts Options) (*Session, error) {
	if opts.Saver == nil {
		return nil, fmt.Errorf("session requires a transcript saver")
	}
	if opts.Bookmarks == nil {
		opts.Bookmarks = bookmark.New(bookmark.NewMemoryKV(), opts.Logger)
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.NewClock == nil {
		opts.NewClock = func(segments []transcript.Segment) playback.Clock {
			return playback.NewVirtualClock(transcriptLength(segments), nil)
		}
	}

	return &Session{
		opts:    opts,
		logger:  opts.Logger.Component("session"),
		metrics: opts.Metrics,
	}, nil
}

// end of the last timed segment
func transcriptLength(segments []transcript.Segment) float64 {
	end := 0.0
	for _, seg := range segments {
		if seg.Timed() && seg.EndSeconds > end {
			end = seg.EndSeconds
		}
	}
	return end
}

// Open parses raw as the transcript of fileID and makes it the open document.
func (s *Session) Open(ctx context.Context, fileID, raw string) error {
	if fileID == "" {
		return fmt.Errorf("file id is required")
	}
	gen := s.gen.Add(1)
	ed := &editor{
		gen:      gen,
		fileID:   fileID,
		doc:      transcript.ParseDocument(fileID, raw),
		sync:     playback.NewSynchronizer(),
		language: s.opts.Language,
	}
	ed.ctx, ed.cancel = context.WithCancel(ctx)
	ed.history = history.New(ed.doc, s.opts.HistoryCapacity)
	ed.autosave = autosave.New(ed.ctx, ed.doc, &committer{s: s, ed: ed}, s.opts.Saver, autosave.Options{
		Delay:     s.opts.AutosaveDelay,
		AfterFunc: s.opts.AfterFunc,
		OnSaved: func(count int) {
			s.emit(ed, Update{Kind: UpdateSaved, Count: count})
		},
		Logger:  s.opts.Logger,
		Metrics: s.metrics,
	})
	segments := ed.doc.Segments()
	ed.clock = s.opts.NewClock(segments)

	if s.opts.Translator != nil {
		ed.cache = translate.NewCache(s.opts.Translator, translate.CacheOptions{
			MinLength: s.opts.MinLength,
			OnResult: func(index int, lang string, entry translate.Entry) {
				s.deliverTranslation(ed, index, lang, entry)
			},
			Logger:  s.opts.Logger,
			Metrics: s.metrics,
		})
		batch := s.opts.Batch
		batch.Logger = s.opts.Logger
		ed.batcher = translate.NewBatcher(ed.cache, batch)
	}

	if index, ok := s.opts.Bookmarks.Get(fileID); ok && index < len(segments) {
		ed.bookmark, ed.hasBookmark = index, true
	}

	s.mu.Lock()
	prev := s.ed
	s.ed = ed
	s.mu.Unlock()

	if prev != nil {
		s.teardown(prev)
	}

	s.metrics.RecordOpen()
	s.metrics.SetHistoryDepth(ed.history.Len())
	s.logger.Infow("Transcript opened",
		"file_id", fileID,
		"segments", len(segments),
		"bookmark", bookmarkField(ed),
	)

	s.opts.Renderer.Render(segments)
	s.opts.Renderer.Update(historyUpdate(ed))
	if ed.hasBookmark {
		s.opts.Renderer.Update(Update{Kind: UpdateBookmark, Index: ed.bookmark, Bookmarked: true})
	}
	return nil
}

func bookmarkField(ed *editor) any {
	if !ed.hasBookmark {
		return nil
	}
	return ed.bookmark
}

// Close tears down the open document. Pending debounced edits are dropped
// and running translations are abandoned.
func (s *Session) Close() {
	s.mu.Lock()
	ed := s.ed
	s.ed = nil
	s.mu.Unlock()

	if ed == nil {
		return
	}
	s.gen.Add(1)
	s.teardown(ed)
}

func (s *Session) teardown(ed *editor) {
	ed.autosave.Close()
	ed.cancel()
	s.logger.Debugw("Transcript closed", "file_id", ed.fileID)
}

// Wait blocks until background saves and translations have finished.
func (s *Session) Wait() {
	s.wg.Wait()

	s.mu.Lock()
	ed := s.ed
	s.mu.Unlock()
	if ed != nil && ed.cache != nil {
		ed.cache.Wait()
	}
}

func (s *Session) current() (*editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ed == nil {
		return nil, ErrNoDocument
	}
	return s.ed, nil
}

func (s *Session) live(ed *editor) bool {
	return s.gen.Load() == ed.gen
}

// emit forwards u unless ed has been replaced or closed.
func (s *Session) emit(ed *editor, u Update) {
	if !s.live(ed) {
		return
	}
	s.opts.Renderer.Update(u)
}

func historyUpdate(ed *editor) Update {
	return Update{
		Kind:    UpdateHistory,
		CanUndo: ed.history.CanUndo(),
		CanRedo: ed.history.CanRedo(),
	}
}

// committer records history for autosave cycles and reports the new
// undo/redo availability.
type committer struct {
	s  *Session
	ed *editor
}

func (c *committer) Commit() {
	c.ed.history.Commit()
	c.s.metrics.SetHistoryDepth(c.ed.history.Len())
	c.s.emit(c.ed, historyUpdate(c.ed))
}

func (s *Session) FileID() string {
	ed, err := s.current()
	if err != nil {
		return ""
	}
	return ed.fileID
}

// Segments returns the open document with unsaved edits applied.
func (s *Session) Segments() []transcript.Segment {
	ed, err := s.current()
	if err != nil {
		return nil
	}
	return ed.segments()
}

func (ed *editor) segments() []transcript.Segment {
	segments := ed.doc.Segments()
	for index, edit := range ed.autosave.Pending() {
		if index >= 0 && index < len(segments) {
			segments[index].Text = edit.Text
		}
	}
	return segments
}

func (ed *editor) segment(index int) (transcript.Segment, error) {
	segments := ed.segments()
	if index < 0 || index >= len(segments) {
		return transcript.Segment{}, fmt.Errorf("%w: %d", transcript.ErrIndexOutOfRange, index)
	}
	return segments[index], nil
}

// Edit records new text for a segment; it is persisted by the next autosave.
func (s *Session) Edit(index int, text string) error {
	ed, err := s.current()
	if err != nil {
		return err
	}
	if index < 0 || index >= ed.doc.Len() {
		return fmt.Errorf("%w: %d", transcript.ErrIndexOutOfRange, index)
	}
	ed.autosave.NotifyEdit(index, text)
	return nil
}

// Save persists one segment immediately. Failures are returned and also
// reported to the renderer so the segment can stay in edit mode.
func (s *Session) Save(index int, text string) error {
	ed, err := s.current()
	if err != nil {
		return err
	}
	if index < 0 || index >= ed.doc.Len() {
		return fmt.Errorf("%w: %d", transcript.ErrIndexOutOfRange, index)
	}

	if err := ed.autosave.SaveNow(index, text); err != nil {
		s.logger.Warnw("Manual save failed", "file_id", ed.fileID, "segment", index, "error", err)
		s.emit(ed, Update{Kind: UpdateSaveFailed, Index: index, Err: err})
		return err
	}
	return nil
}

// Flush persists any pending edits right away, typically before quitting.
func (s *Session) Flush() error {
	ed, err := s.current()
	if err != nil {
		return err
	}
	if err := ed.autosave.Drain(); err != nil {
		s.emit(ed, Update{Kind: UpdateSaveFailed, Index: -1, Err: err})
		return err
	}
	return nil
}

func (s *Session) Undo() (bool, error) {
	return s.move("undo", func(h *history.Manager) bool { return h.Undo() })
}

func (s *Session) Redo() (bool, error) {
	return s.move("redo", func(h *history.Manager) bool { return h.Redo() })
}

func (s *Session) move(direction string, step func(*history.Manager) bool) (bool, error) {
	ed, err := s.current()
	if err != nil {
		return false, err
	}

	// a pending autosave would overwrite the restored state
	moved := ed.autosave.Rewind(func() bool {
		return step(ed.history)
	})
	if !moved {
		return false, nil
	}
	s.metrics.RecordHistoryMove(direction)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := ed.autosave.Flush(); err != nil && !errors.Is(err, autosave.ErrClosed) {
			s.logger.Warnw("Saving restored state failed",
				"file_id", ed.fileID,
				"direction", direction,
				"error", err,
			)
		}
	}()

	s.opts.Renderer.Render(ed.doc.Segments())
	s.opts.Renderer.Update(historyUpdate(ed))
	s.refreshActive(ed)
	return true, nil
}

// Tick feeds a playback position to the synchronizer.
func (s *Session) Tick(position float64) (playback.Change, error) {
	ed, err := s.current()
	if err != nil {
		return playback.Change{}, err
	}
	return s.tick(ed, position), nil
}

func (s *Session) tick(ed *editor, position float64) playback.Change {
	change := ed.sync.Update(ed.doc.Segments(), position)
	if !change.Changed {
		return change
	}

	s.metrics.RecordActiveChange()
	if change.Previous != playback.NoSegment {
		s.opts.Renderer.Update(Update{Kind: UpdateInactive, Index: change.Previous})
	}
	if change.Current != playback.NoSegment {
		s.opts.Renderer.Update(Update{Kind: UpdateActive, Index: change.Current, Scroll: true})
	}
	s.updateAffordance(ed, change.Current)
	return change
}

// re-announces the active segment after the list was re-rendered
func (s *Session) refreshActive(ed *editor) {
	active := ed.sync.Active()
	if active != playback.NoSegment {
		s.opts.Renderer.Update(Update{Kind: UpdateActive, Index: active})
	}
	s.updateAffordance(ed, active)
}

func (s *Session) updateAffordance(ed *editor, active int) {
	ed.mu.Lock()
	marked := ed.hasBookmark && active != playback.NoSegment && ed.bookmark == active
	ed.mu.Unlock()
	s.opts.Renderer.Update(Update{Kind: UpdateBookmarkAffordance, Index: active, Bookmarked: marked})
}

// Clock returns the playback clock of the open document.
func (s *Session) Clock() playback.Clock {
	ed, err := s.current()
	if err != nil {
		return nil
	}
	return ed.clock
}

// SeekTo moves playback to a segment. Untimed segments are ignored and
// false is returned.
func (s *Session) SeekTo(index int) (bool, error) {
	ed, err := s.current()
	if err != nil {
		return false, err
	}
	seg, err := ed.segment(index)
	if err != nil {
		return false, err
	}

	if !playback.Seek(ed.clock, seg) {
		s.logger.Debugw("Ignoring seek to untimed segment", "segment", index)
		return false, nil
	}
	s.tick(ed, ed.clock.Position())
	return true, nil
}

// TogglePlayback pauses or resumes the clock and reports whether it is
// playing afterwards.
func (s *Session) TogglePlayback() (bool, error) {
	ed, err := s.current()
	if err != nil {
		return false, err
	}
	if ed.clock.Paused() {
		ed.clock.Play()
		return true, nil
	}
	ed.clock.Pause()
	return false, nil
}

// Bookmark returns the bookmarked segment of the open document.
func (s *Session) Bookmark() (int, bool) {
	ed, err := s.current()
	if err != nil {
		return 0, false
	}
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.bookmark, ed.hasBookmark
}

// ToggleBookmark bookmarks index, or clears the bookmark when index is
// already bookmarked.
func (s *Session) ToggleBookmark(index int) (bool, error) {
	ed, err := s.current()
	if err != nil {
		return false, err
	}
	if index < 0 || index >= ed.doc.Len() {
		return false, fmt.Errorf("%w: %d", transcript.ErrIndexOutOfRange, index)
	}

	on, err := s.opts.Bookmarks.Toggle(ed.fileID, index)
	if err != nil {
		return false, err
	}

	ed.mu.Lock()
	prev, hadPrev := ed.bookmark, ed.hasBookmark
	ed.bookmark, ed.hasBookmark = index, on
	ed.mu.Unlock()

	if hadPrev && prev != index {
		s.opts.Renderer.Update(Update{Kind: UpdateBookmark, Index: prev})
	}
	s.opts.Renderer.Update(Update{Kind: UpdateBookmark, Index: index, Bookmarked: on})
	s.updateAffordance(ed, ed.sync.Active())
	s.logger.Debugw("Bookmark toggled", "file_id", ed.fileID, "segment", index, "bookmarked", on)
	return on, nil
}

// ResumeBookmark seeks to the bookmarked segment, if any.
func (s *Session) ResumeBookmark() (int, bool, error) {
	ed, err := s.current()
	if err != nil {
		return 0, false, err
	}
	ed.mu.Lock()
	index, ok := ed.bookmark, ed.hasBookmark
	ed.mu.Unlock()
	if !ok {
		return 0, false, nil
	}

	if _, err := s.SeekTo(index); err != nil {
		return 0, false, err
	}
	return index, true, nil
}

// Translating reports whether translation display is on and its language.
func (s *Session) Translating() (bool, string) {
	ed, err := s.current()
	if err != nil {
		return false, ""
	}
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.translating, ed.language
}

// SetTranslation turns translation on or off. Turning it off stops new
// requests but keeps every cached translation.
func (s *Session) SetTranslation(enabled bool) error {
	ed, err := s.current()
	if err != nil {
		return err
	}
	if enabled && ed.cache == nil {
		return ErrNoTranslator
	}

	ed.mu.Lock()
	if ed.translating == enabled {
		ed.mu.Unlock()
		return nil
	}
	ed.translating = enabled
	lang := ed.language
	ed.mu.Unlock()

	if !enabled {
		s.stopBatch(ed)
		return nil
	}
	s.startBatch(ed, lang)
	return nil
}

// SetLanguage switches the target language. While translation is on the
// document is translated into the new language; earlier languages stay
// cached.
func (s *Session) SetLanguage(lang string) error {
	ed, err := s.current()
	if err != nil {
		return err
	}
	if lang == "" {
		return fmt.Errorf("target language is required")
	}

	ed.mu.Lock()
	changed := ed.language != lang
	ed.language = lang
	active := ed.translating
	ed.mu.Unlock()

	if changed && active {
		s.stopBatch(ed)
		s.startBatch(ed, lang)
	}
	return nil
}

func (s *Session) stopBatch(ed *editor) {
	ed.mu.Lock()
	cancel := ed.batchCancel
	ed.batchCancel = nil
	ed.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Session) startBatch(ed *editor, lang string) {
	segments := ed.segments()

	// show what is already known for this language
	for _, seg := range segments {
		if entry, ok := ed.cache.Lookup(seg.Index, lang); ok {
			s.opts.Renderer.Update(translationUpdate(seg.Index, lang, entry))
		}
	}

	ctx, cancel := context.WithCancel(ed.ctx)
	ed.mu.Lock()
	ed.batchCancel = cancel
	ed.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		summary, err := ed.batcher.TranslateAll(ctx, lang, segments)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warnw("Document translation stopped", "file_id", ed.fileID, "language", lang, "error", err)
			return
		}
		s.logger.Debugw("Document translation finished",
			"file_id", ed.fileID,
			"language", lang,
			"requested", summary.Requested,
			"translated", summary.Translated,
			"failed", summary.Failed,
			"cancelled", err != nil,
		)
	}()
}

// TranslateSegment requests the translation of one segment. A cached result
// is returned at once; otherwise the result is delivered to the renderer.
func (s *Session) TranslateSegment(index int) (translate.Entry, bool, error) {
	ed, err := s.current()
	if err != nil {
		return translate.Entry{}, false, err
	}
	if ed.cache == nil {
		return translate.Entry{}, false, ErrNoTranslator
	}
	seg, err := ed.segment(index)
	if err != nil {
		return translate.Entry{}, false, err
	}
	if !ed.cache.Translatable(seg.Text) {
		return translate.Entry{}, false, translate.ErrTooShort
	}

	ed.mu.Lock()
	lang := ed.language
	ed.mu.Unlock()

	if entry, hit := ed.cache.Lookup(index, lang); hit {
		s.opts.Renderer.Update(translationUpdate(index, lang, entry))
		return entry, true, nil
	}

	// the result reaches the renderer through the cache callback
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = ed.cache.Translate(ed.ctx, index, seg.Text, lang)
	}()
	return translate.Entry{}, false, nil
}

func (s *Session) deliverTranslation(ed *editor, index int, lang string, entry translate.Entry) {
	if !s.live(ed) {
		return
	}
	ed.mu.Lock()
	wanted := ed.language == lang
	ed.mu.Unlock()
	if !wanted {
		return
	}
	s.opts.Renderer.Update(translationUpdate(index, lang, entry))
}

func translationUpdate(index int, lang string, entry translate.Entry) Update {
	if entry.Failed() {
		return Update{Kind: UpdateTranslationError, Index: index, Language: lang, Text: entry.Display(), Err: entry.Err}
	}
	return Update{Kind: UpdateTranslation, Index: index, Language: lang, Text: entry.Text}
}
