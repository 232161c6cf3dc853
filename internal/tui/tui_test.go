package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgpai22/lekh/internal/playback"
	"github.com/mgpai22/lekh/internal/session"
	"github.com/mgpai22/lekh/internal/transcript"
	"github.com/mgpai22/lekh/internal/translate"
)

type fakeController struct {
	segments    []transcript.Segment
	edits       []string
	bookmarks   []int
	seeks       []int
	flushed     int
	undos       int
	translating bool
	language    string
	requested   []int
}

func newFakeController() *fakeController {
	return &fakeController{
		segments: transcript.Parse("[00:00:00 --> 00:00:05]  hello there\n" +
			"[00:00:05 --> 00:00:10]  second line\n" +
			"an untimed note"),
		language: "Spanish",
	}
}

func (f *fakeController) Segments() []transcript.Segment { return f.segments }
func (f *fakeController) Edit(index int, text string) error {
	f.edits = append(f.edits, text)
	return nil
}
func (f *fakeController) Save(int, string) error { return nil }
func (f *fakeController) Flush() error            { f.flushed++; return nil }
func (f *fakeController) Undo() (bool, error)     { f.undos++; return false, nil }
func (f *fakeController) Redo() (bool, error)     { return false, nil }
func (f *fakeController) Tick(float64) (playback.Change, error) {
	return playback.Change{}, nil
}
func (f *fakeController) Clock() playback.Clock { return nil }
func (f *fakeController) SeekTo(index int) (bool, error) {
	f.seeks = append(f.seeks, index)
	return f.segments[index].Timed(), nil
}
func (f *fakeController) TogglePlayback() (bool, error) { return true, nil }
func (f *fakeController) ToggleBookmark(index int) (bool, error) {
	f.bookmarks = append(f.bookmarks, index)
	return true, nil
}
func (f *fakeController) ResumeBookmark() (int, bool, error) { return 0, false, nil }
func (f *fakeController) Translating() (bool, string)        { return f.translating, f.language }
func (f *fakeController) SetTranslation(enabled bool) error {
	f.translating = enabled
	return nil
}
func (f *fakeController) SetLanguage(lang string) error {
	f.language = lang
	return nil
}
func (f *fakeController) TranslateSegment(index int) (translate.Entry, bool, error) {
	f.requested = append(f.requested, index)
	return translate.Entry{}, false, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestAdapterForwardsInOrder(t *testing.T) {
	a := NewAdapter()
	a.Render(transcript.Parse("one"))
	for i := 0; i < 50; i++ {
		a.Update(session.Update{Kind: session.UpdateActive, Index: i})
	}

	var mu sync.Mutex
	var got []tea.Msg
	done := make(chan struct{})
	a.Start(func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
		if len(got) == 51 {
			close(done)
		}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
	}
	a.Close()
	a.Update(session.Update{Kind: session.UpdateActive, Index: 99})

	mu.Lock()
	defer mu.Unlock()
	if _, ok := got[0].(segmentsMsg); !ok {
		t.Fatalf("first message = %T, want segmentsMsg", got[0])
	}
	for i, msg := range got[1:] {
		u, ok := msg.(updateMsg)
		if !ok || u.Index != i {
			t.Fatalf("message %d = %#v, want update for index %d", i+1, msg, i)
		}
	}
}

func TestCursorMovementAndSeek(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, Options{FileID: "demo"})

	m, _ = send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
	)
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped)", m.cursor)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(ctrl.seeks) != 1 || ctrl.seeks[0] != 2 {
		t.Errorf("seeks = %v, want [2]", ctrl.seeks)
	}
	if !strings.Contains(m.status, "no timecodes") {
		t.Errorf("status = %q", m.status)
	}

	m, _ = send(t, m, runes("k"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestEditingForwardsEveryChange(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, Options{FileID: "demo"})

	m, _ = send(t, m, runes("e"))
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m, _ = send(t, m, runes("!"), runes("?"))
	if len(ctrl.edits) != 2 || ctrl.edits[1] != "hello there!?" {
		t.Fatalf("edits = %q", ctrl.edits)
	}
	if m.segments[0].Text != "hello there!?" {
		t.Errorf("segment text = %q", m.segments[0].Text)
	}

	// keys are text while editing
	m, _ = send(t, m, runes("b"))
	if len(ctrl.bookmarks) != 0 {
		t.Errorf("bookmark toggled during edit")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Error("expected edit mode to end")
	}
}

func TestBookmarkAndUpdates(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, Options{FileID: "demo"})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("b"))
	if len(ctrl.bookmarks) != 1 || ctrl.bookmarks[0] != 1 {
		t.Fatalf("bookmarks = %v, want [1]", ctrl.bookmarks)
	}

	m, _ = send(t, m,
		updateMsg{Kind: session.UpdateBookmark, Index: 1, Bookmarked: true},
		updateMsg{Kind: session.UpdateActive, Index: 0, Scroll: true},
		updateMsg{Kind: session.UpdateHistory, CanUndo: true},
	)
	if m.bookmark != 1 {
		t.Errorf("bookmark = %d, want 1", m.bookmark)
	}
	if m.active != 0 || m.cursor != 0 {
		t.Errorf("active/cursor = %d/%d, want 0/0", m.active, m.cursor)
	}
	if !m.canUndo || m.canRedo {
		t.Errorf("history = %v/%v", m.canUndo, m.canRedo)
	}

	view := m.View()
	if !strings.Contains(view, "★") || !strings.Contains(view, "second line") {
		t.Errorf("view missing bookmark or text:\n%s", view)
	}

	m, _ = send(t, m, updateMsg{Kind: session.UpdateInactive, Index: 0})
	if m.active != playback.NoSegment {
		t.Errorf("active = %d after inactive", m.active)
	}
}

func TestTranslationToggleAndLanguage(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, Options{FileID: "demo", Languages: []string{"Spanish", "French"}})

	m, _ = send(t, m, runes("t"))
	if !m.translating || !ctrl.translating {
		t.Fatal("expected translation on")
	}

	m, _ = send(t, m,
		updateMsg{Kind: session.UpdateTranslation, Index: 0, Language: "Spanish", Text: "hola"},
		updateMsg{Kind: session.UpdateTranslation, Index: 1, Language: "German", Text: "zweite"},
		updateMsg{Kind: session.UpdateTranslationError, Index: 2, Language: "Spanish", Text: "Translation failed"},
	)
	if m.translations[0] != "hola" {
		t.Errorf("translations = %v", m.translations)
	}
	if _, ok := m.translations[1]; ok {
		t.Error("translation for another language was kept")
	}
	if !strings.Contains(m.View(), "hola") {
		t.Error("view does not show translation")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if len(ctrl.requested) != 1 || ctrl.requested[0] != 1 {
		t.Errorf("requested = %v, want [1]", ctrl.requested)
	}

	m, _ = send(t, m, runes("l"))
	if ctrl.language != "French" || m.language != "French" {
		t.Errorf("language = %q/%q, want French", ctrl.language, m.language)
	}
	if len(m.translations) != 0 {
		t.Error("translations not cleared on language switch")
	}
}

func TestUndoWithoutHistory(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, Options{FileID: "demo"})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if ctrl.undos != 1 || m.status != "Nothing to undo" {
		t.Errorf("undos = %d, status = %q", ctrl.undos, m.status)
	}
}

func TestQuitFlushes(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, Options{FileID: "demo"})

	m, cmd := send(t, m, runes("q"))
	if ctrl.flushed != 1 {
		t.Errorf("flushed = %d, want 1", ctrl.flushed)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}
}
