package logbar

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors used for level tags and progress decoration.
type Theme struct {
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Crit  lipgloss.Style

	// TitleBase and TitleHighlight drive the animated progress title:
	// the whole title renders in TitleBase with a single highlighted
	// rune sweeping across it.
	TitleBase      lipgloss.Style
	TitleHighlight lipgloss.Style
}

func DefaultTheme() *Theme {
	return &Theme{
		Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Crit:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		TitleBase:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		TitleHighlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
	}
}

// ForLevel returns the style for a level tag.
func (t *Theme) ForLevel(level Level) lipgloss.Style {
	switch level {
	case LevelDebug:
		return t.Debug
	case LevelWarn:
		return t.Warn
	case LevelError:
		return t.Error
	case LevelCrit:
		return t.Crit
	default:
		return t.Info
	}
}
