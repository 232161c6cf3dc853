package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Seek      key.Binding
	Play      key.Binding
	Edit      key.Binding
	Save      key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Bookmark  key.Binding
	Resume    key.Binding
	Translate key.Binding
	Language  key.Binding
	Help      key.Binding
	Quit      key.Binding

	// edit mode
	Done   key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Seek:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "seek")),
		Play:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Undo:      key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
		Bookmark:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		Resume:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Translate: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "translate")),
		Language:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Done:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Seek, k.Play, k.Edit, k.Bookmark, k.Translate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Seek, k.Play},
		{k.Edit, k.Save, k.Undo, k.Redo},
		{k.Bookmark, k.Resume, k.Translate, k.Language},
		{k.Help, k.Quit},
	}
}

// bindings shown while a segment is being edited
type editKeyMap struct {
	keys keyMap
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.Done, k.keys.Save, k.keys.Cancel}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
