package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// markdown renders descriptions in expanded rows. Renderers are built once per wrap
// width; the style follows lipgloss's background decision instead of glamour's auto
// style, which queries the terminal and can block.
type markdown struct {
	cfg     ansi.StyleConfig
	byWidth map[int]*glamour.TermRenderer
}

func newMarkdown(dark bool) *markdown {
	cfg := styles.DarkStyleConfig
	if !dark {
		cfg = styles.LightStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.Paragraph.Margin = &zero
	return &markdown{cfg: cfg, byWidth: map[int]*glamour.TermRenderer{}}
}

// render returns md unchanged when glamour fails.
func (r *markdown) render(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(width, 10)

	tr, ok := r.byWidth[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(glamour.WithStyles(r.cfg), glamour.WithWordWrap(width))
		if err != nil {
			return md
		}
		r.byWidth[width] = tr
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
