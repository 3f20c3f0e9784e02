package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorError  = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F87"}

	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleTab       = lipgloss.NewStyle().Foreground(colorMuted)
	styleTabActive = lipgloss.NewStyle().Bold(true).Underline(true)
	styleFaint     = lipgloss.NewStyle().Foreground(colorMuted)
	styleCursor    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleRow       = lipgloss.NewStyle()
	styleDone      = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	styleStatus    = lipgloss.NewStyle().Foreground(colorAccent)
	styleError     = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)
