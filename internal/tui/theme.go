package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// applyColorProfilePreference sets lipgloss's colour profile for the TUI. Only NO_COLOR
// disables colour; termenv.EnvColorProfile would also honour CLICOLOR, which is meant for
// piped output.
func applyColorProfilePreference() {
	lipgloss.SetColorProfile(colorProfile(os.Getenv, termenv.ColorProfile()))
}

// colorProfile upgrades the detected profile when TERM or COLORTERM advertise more than
// the detector saw.
func colorProfile(getenv func(string) string, detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	term := strings.ToLower(strings.TrimSpace(getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if detected != termenv.Ascii {
			return termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if detected == termenv.Ascii || detected == termenv.ANSI {
			return termenv.ANSI256
		}
	}
	return detected
}

// applyThemePreference feeds an explicit background choice to lipgloss so AdaptiveColor
// styles and the markdown renderer agree. Without one, lipgloss keeps its own detection.
func applyThemePreference() {
	if dark, ok := backgroundPreference(os.Getenv); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

// backgroundPreference checks LISTA_TUI_THEME (light|dark|auto), then LISTA_TUI_DARKBG,
// then the last segment of COLORFGBG ("15;0" is a dark background).
func backgroundPreference(getenv func(string) string) (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(getenv("LISTA_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(getenv("LISTA_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	if v := strings.TrimSpace(getenv("COLORFGBG")); v != "" {
		bg, err := strconv.Atoi(strings.TrimSpace(v[strings.LastIndex(v, ";")+1:]))
		if err == nil {
			return bg < 7, true
		}
	}
	return false, false
}
