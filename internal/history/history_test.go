package history

import (
	"fmt"
	"testing"

	"github.com/mgpai22/lekh/internal/transcript"
)

func newDoc(t *testing.T) *transcript.Document {
	t.Helper()
	return transcript.ParseDocument(
		"file-1",
		"[00:00:00 --> 00:00:05]  Hello\n[00:00:05 --> 00:00:10]  World",
	)
}

func edit(t *testing.T, doc *transcript.Document, m *Manager, index int, text string) {
	t.Helper()
	if err := doc.SetText(index, text); err != nil {
		t.Fatalf("SetText(%d) error: %v", index, err)
	}
	m.Commit()
}

func TestInitialStateCannotUndoOrRedo(t *testing.T) {
	m := New(newDoc(t), 0)

	if m.Len() != 1 || m.Index() != 0 {
		t.Fatalf("expected one state at cursor 0, got len=%d index=%d", m.Len(), m.Index())
	}
	if m.Undo() {
		t.Error("Undo at initial state should be a no-op")
	}
	if m.Redo() {
		t.Error("Redo at tip should be a no-op")
	}
}

func TestUndoRedoRestoresText(t *testing.T) {
	doc := newDoc(t)
	m := New(doc, DefaultCapacity)

	edit(t, doc, m, 0, "Hi")
	edit(t, doc, m, 1, "Earth")

	if !m.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if got := doc.Serialize(); got != "[00:00:00 --> 00:00:05]  Hi\n[00:00:05 --> 00:00:10]  World" {
		t.Errorf("after one undo: %q", got)
	}

	if !m.Undo() {
		t.Fatal("expected second undo to succeed")
	}
	if got := doc.Serialize(); got != "[00:00:00 --> 00:00:05]  Hello\n[00:00:05 --> 00:00:10]  World" {
		t.Errorf("after two undos: %q", got)
	}
	if m.Undo() {
		t.Error("undo past the initial state should be a no-op")
	}

	if !m.Redo() || !m.Redo() {
		t.Fatal("expected two redos to succeed")
	}
	if got := doc.Serialize(); got != "[00:00:00 --> 00:00:05]  Hi\n[00:00:05 --> 00:00:10]  Earth" {
		t.Errorf("after redos: %q", got)
	}
	if m.Redo() {
		t.Error("redo at the tip should be a no-op")
	}
}

func TestCommitAfterUndoDiscardsRedoBranch(t *testing.T) {
	doc := newDoc(t)
	m := New(doc, DefaultCapacity)

	edit(t, doc, m, 0, "one")
	edit(t, doc, m, 0, "two")
	m.Undo()

	edit(t, doc, m, 1, "branch")

	if m.CanRedo() {
		t.Error("redo branch should be unreachable after a new commit")
	}
	if m.Redo() {
		t.Error("Redo should be a no-op")
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 states, got %d", m.Len())
	}
	seg, _ := doc.Segment(0)
	if seg.Text != "one" {
		t.Errorf("segment 0 = %q, want %q", seg.Text, "one")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	doc := newDoc(t)
	m := New(doc, DefaultCapacity)

	for i := 1; i <= 51; i++ {
		edit(t, doc, m, 0, fmt.Sprintf("edit %d", i))
	}

	if m.Len() != DefaultCapacity {
		t.Fatalf("expected %d states, got %d", DefaultCapacity, m.Len())
	}
	if m.Index() != DefaultCapacity-1 {
		t.Errorf("cursor = %d, want %d", m.Index(), DefaultCapacity-1)
	}

	for m.Undo() {
	}
	seg, _ := doc.Segment(0)
	if seg.Text == "Hello" {
		t.Error("initial snapshot should be unrecoverable after 51 commits")
	}
	if seg.Text != "edit 2" {
		t.Errorf("oldest reachable state = %q, want %q", seg.Text, "edit 2")
	}
}

func TestEvictionKeepsCursorOnSameState(t *testing.T) {
	doc := newDoc(t)
	m := New(doc, 3)

	edit(t, doc, m, 0, "a")
	edit(t, doc, m, 0, "b")
	edit(t, doc, m, 0, "c")

	state, ok := m.State(m.Index())
	if !ok {
		t.Fatal("cursor state missing")
	}
	if state.Segments[0].Text != "c" {
		t.Errorf("cursor state text = %q, want %q", state.Segments[0].Text, "c")
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 states, got %d", m.Len())
	}
}
