package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle            = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	MutedStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	TextStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	SpinnerStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	TimestampStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	CursorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ActiveStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	TranslationStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("7")).PaddingLeft(4)
	TranslationErrorStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("196")).PaddingLeft(4)
	BookmarkStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	ErrorStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
