package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgpai22/lekh/internal/logging"
	"github.com/mgpai22/lekh/internal/playback"
	"github.com/mgpai22/lekh/internal/session"
	"github.com/mgpai22/lekh/internal/transcript"
	"github.com/mgpai22/lekh/internal/translate"
)

const DefaultTickInterval = 250 * time.Millisecond

// session operations driven by the UI
type Controller interface {
	Segments() []transcript.Segment
	Edit(index int, text string) error
	Save(index int, text string) error
	Flush() error
	Undo() (bool, error)
	Redo() (bool, error)
	Tick(position float64) (playback.Change, error)
	Clock() playback.Clock
	SeekTo(index int) (bool, error)
	TogglePlayback() (bool, error)
	ToggleBookmark(index int) (bool, error)
	ResumeBookmark() (int, bool, error)
	Translating() (bool, string)
	SetTranslation(enabled bool) error
	SetLanguage(lang string) error
	TranslateSegment(index int) (translate.Entry, bool, error)
}

var _ Controller = (*session.Session)(nil)

type Options struct {
	FileID string
	// target languages cycled with "l"
	Languages    []string
	TickInterval time.Duration
	Logger       *logging.Logger
}

type tickMsg time.Time

// result of a manual save started from the UI
type savedMsg struct {
	index int
	err   error
}

type Model struct {
	ctrl      Controller
	fileID    string
	languages []string
	interval  time.Duration
	logger    *logging.Logger

	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	segments []transcript.Segment
	cursor   int
	offset   int
	width    int
	height   int
	editing  bool

	active       int
	bookmark     int
	onBookmark   bool
	playing      bool
	canUndo      bool
	canRedo      bool
	translating  bool
	language     string
	translations map[int]string
	failures     map[int]string

	status    string
	statusErr bool
	quitting  bool
}

func New(ctrl Controller, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Prompt = "✎ "
	input.CharLimit = 0

	translating, language := ctrl.Translating()
	if language == "" && len(opts.Languages) > 0 {
		language = opts.Languages[0]
	}

	return Model{
		ctrl:         ctrl,
		fileID:       opts.FileID,
		languages:    opts.Languages,
		interval:     opts.TickInterval,
		logger:       logger.Component("tui"),
		keys:         defaultKeyMap(),
		help:         help.New(),
		input:        input,
		spinner:      s,
		segments:     ctrl.Segments(),
		active:       playback.NoSegment,
		bookmark:     playback.NoSegment,
		translating:  translating,
		language:     language,
		translations: make(map[int]string),
		failures:     make(map[int]string),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		m.ensureVisible(m.cursor)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)

	case tickMsg:
		if clock := m.ctrl.Clock(); clock != nil {
			if _, err := m.ctrl.Tick(clock.Position()); err != nil {
				m.logger.Debugw("Tick failed", "error", err)
			}
			m.playing = !clock.Paused()
		}
		return m, m.tick()

	case segmentsMsg:
		m.segments = msg
		if m.cursor >= len(m.segments) {
			m.cursor = max(len(m.segments)-1, 0)
		}
		m.ensureVisible(m.cursor)
		return m, nil

	case updateMsg:
		m.apply(session.Update(msg))
		return m, nil

	case savedMsg:
		if msg.err == nil && m.editing && msg.index == m.cursor {
			m.stopEditing()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.ctrl.Flush(); err != nil {
			m.logger.Warnw("Flush before quit failed", "error", err)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Seek):
		ok, err := m.ctrl.SeekTo(m.cursor)
		switch {
		case err != nil:
			m.setError(err)
		case !ok:
			m.setStatus("Segment has no timecodes")
		}

	case key.Matches(msg, m.keys.Play):
		playing, err := m.ctrl.TogglePlayback()
		if err != nil {
			m.setError(err)
			break
		}
		m.playing = playing

	case key.Matches(msg, m.keys.Edit):
		if len(m.segments) == 0 {
			break
		}
		m.editing = true
		m.input.SetValue(m.segments[m.cursor].Text)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Save):
		if len(m.segments) == 0 {
			break
		}
		return m, m.save(m.cursor, m.segments[m.cursor].Text)

	case key.Matches(msg, m.keys.Undo):
		m.step(m.ctrl.Undo, "Nothing to undo")

	case key.Matches(msg, m.keys.Redo):
		m.step(m.ctrl.Redo, "Nothing to redo")

	case key.Matches(msg, m.keys.Bookmark):
		if len(m.segments) == 0 {
			break
		}
		if _, err := m.ctrl.ToggleBookmark(m.cursor); err != nil {
			m.setError(err)
		}

	case key.Matches(msg, m.keys.Resume):
		index, ok, err := m.ctrl.ResumeBookmark()
		switch {
		case err != nil:
			m.setError(err)
		case !ok:
			m.setStatus("No bookmark")
		default:
			m.cursor = index
			m.ensureVisible(index)
		}

	case key.Matches(msg, m.keys.Translate):
		enabled := !m.translating
		if err := m.ctrl.SetTranslation(enabled); err != nil {
			m.setError(err)
			break
		}
		m.translating = enabled
		_, m.language = m.ctrl.Translating()

	case key.Matches(msg, m.keys.Language):
		m.nextLanguage()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Done), key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.save(m.cursor, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	value := m.input.Value()
	if m.cursor < len(m.segments) && value != m.segments[m.cursor].Text {
		m.segments[m.cursor].Text = value
		if err := m.ctrl.Edit(m.cursor, value); err != nil {
			m.setError(err)
		}
	}
	return m, cmd
}

// runs the save off the UI goroutine; failures arrive as SaveFailed updates
func (m Model) save(index int, text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return savedMsg{index: index, err: ctrl.Save(index, text)}
	}
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
}

func (m *Model) step(move func() (bool, error), none string) {
	ok, err := move()
	switch {
	case err != nil:
		m.setError(err)
	case !ok:
		m.setStatus(none)
	}
}

func (m *Model) moveCursor(delta int) {
	if len(m.segments) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.segments)-1)
	m.ensureVisible(m.cursor)
	m.requestTranslation(m.cursor)
}

// translates the selected segment ahead of the batch
func (m *Model) requestTranslation(index int) {
	if !m.translating {
		return
	}
	if _, ok := m.translations[index]; ok {
		return
	}
	if _, ok := m.failures[index]; ok {
		return
	}
	if _, _, err := m.ctrl.TranslateSegment(index); err != nil &&
		!errors.Is(err, translate.ErrTooShort) {
		m.logger.Debugw("Segment translation not started", "segment", index, "error", err)
	}
}

func (m *Model) nextLanguage() {
	if len(m.languages) < 2 {
		m.setStatus("No other language configured")
		return
	}
	next := m.languages[0]
	for i, lang := range m.languages {
		if lang == m.language {
			next = m.languages[(i+1)%len(m.languages)]
			break
		}
	}
	if err := m.ctrl.SetLanguage(next); err != nil {
		m.setError(err)
		return
	}
	m.language = next
	m.translations = make(map[int]string)
	m.failures = make(map[int]string)
	m.setStatus("Language: " + next)
}

func (m *Model) apply(u session.Update) {
	switch u.Kind {
	case session.UpdateActive:
		m.active = u.Index
		if u.Scroll && !m.editing {
			m.cursor = u.Index
			m.ensureVisible(u.Index)
		}
	case session.UpdateInactive:
		if m.active == u.Index {
			m.active = playback.NoSegment
		}
	case session.UpdateTranslation:
		if u.Language != m.language {
			return
		}
		m.translations[u.Index] = u.Text
		delete(m.failures, u.Index)
	case session.UpdateTranslationError:
		if u.Language != m.language {
			return
		}
		m.failures[u.Index] = u.Text
		delete(m.translations, u.Index)
	case session.UpdateBookmark:
		if u.Bookmarked {
			m.bookmark = u.Index
		} else if m.bookmark == u.Index {
			m.bookmark = playback.NoSegment
		}
	case session.UpdateBookmarkAffordance:
		m.onBookmark = u.Bookmarked
	case session.UpdateSaved:
		m.setStatus(fmt.Sprintf("Saved %d segment(s)", u.Count))
	case session.UpdateSaveFailed:
		m.setError(u.Err)
	case session.UpdateHistory:
		m.canUndo, m.canRedo = u.CanUndo, u.CanRedo
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

// rows available for segments
func (m Model) listHeight() int {
	if m.height == 0 {
		return 12
	}
	return max(m.height-5, 1)
}

func (m *Model) ensureVisible(index int) {
	rows := m.listHeight()
	if index < m.offset {
		m.offset = index
	}
	if index >= m.offset+rows {
		m.offset = index - rows + 1
	}
	m.offset = max(m.offset, 0)
}

// segments still waiting for a translation in the current language
func (m Model) pendingTranslations() int {
	if !m.translating {
		return 0
	}
	pending := 0
	for _, seg := range m.segments {
		_, done := m.translations[seg.Index]
		_, failed := m.failures[seg.Index]
		if !done && !failed && len([]rune(strings.TrimSpace(seg.Text))) >= translate.DefaultMinLength {
			pending++
		}
	}
	return pending
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString("\n\n")

	if len(m.segments) == 0 {
		sb.WriteString(MutedStyle.Render("  Transcript is empty"))
		sb.WriteString("\n")
	}

	end := min(m.offset+m.listHeight(), len(m.segments))
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.row(i))
	}

	sb.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			sb.WriteString(ErrorStyle.Render(m.status))
		} else {
			sb.WriteString(SuccessStyle.Render(m.status))
		}
		sb.WriteString("\n")
	}
	if m.editing {
		sb.WriteString(m.help.View(editKeyMap{keys: m.keys}))
	} else {
		sb.WriteString(m.help.View(m.keys))
	}
	return sb.String()
}

func (m Model) header() string {
	state := "⏸"
	if m.playing {
		state = "▶"
	}
	parts := []string{TitleStyle.Render("lekh"), TextStyle.Render(m.fileID), state}
	if m.translating {
		lang := "→ " + m.language
		if n := m.pendingTranslations(); n > 0 {
			lang = fmt.Sprintf("%s %s (%d left)", m.spinner.View(), lang, n)
		}
		parts = append(parts, lang)
	}
	if m.onBookmark {
		parts = append(parts, BookmarkStyle.Render("★ bookmarked"))
	}
	var undo []string
	if m.canUndo {
		undo = append(undo, "undo")
	}
	if m.canRedo {
		undo = append(undo, "redo")
	}
	if len(undo) > 0 {
		parts = append(parts, MutedStyle.Render("["+strings.Join(undo, "/")+"]"))
	}
	return strings.Join(parts, " ")
}

func (m Model) row(i int) string {
	seg := m.segments[i]

	pointer := "  "
	if i == m.cursor {
		pointer = CursorStyle.Render("> ")
	}
	mark := " "
	if i == m.bookmark {
		mark = BookmarkStyle.Render("★")
	}

	timing := ""
	if seg.Timed() {
		timing = TimestampStyle.Render(seg.StartLabel)
	}

	var text string
	switch {
	case m.editing && i == m.cursor:
		text = m.input.View()
	case i == m.active:
		text = ActiveStyle.Render(seg.Text)
	default:
		text = TextStyle.Render(seg.Text)
	}

	line := pointer + mark + " " + timing + text + "\n"
	if !m.translating {
		return line
	}
	if t, ok := m.translations[seg.Index]; ok {
		line += TranslationStyle.Render(t) + "\n"
	} else if f, ok := m.failures[seg.Index]; ok {
		line += TranslationErrorStyle.Render(f) + "\n"
	}
	return line
}
