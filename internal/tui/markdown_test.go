package tui

import (
	"strings"
	"testing"
)

func TestMarkdownRenderCachesPerWidth(t *testing.T) {
	r := newMarkdown(true)

	if got := r.render("  \n ", 40); got != "" {
		t.Fatalf("expected empty output for blank input, got %q", got)
	}
	out := r.render("Buy **oat** milk", 40)
	if !strings.Contains(out, "oat") || strings.Contains(out, "**") {
		t.Fatalf("expected rendered markdown, got %q", out)
	}
	r.render("again", 40)
	r.render("narrow", 3)
	if len(r.byWidth) != 2 {
		t.Fatalf("expected renderers for widths 40 and 10, got %d", len(r.byWidth))
	}
	if _, ok := r.byWidth[10]; !ok {
		t.Fatalf("expected narrow widths to clamp to 10")
	}
}
