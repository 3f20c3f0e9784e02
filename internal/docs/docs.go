// Package docs embeds the markdown help topics shown by `lista docs`.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one help page. Title is the text of its first heading.
type Topic struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Markdown string `json:"markdown,omitempty"`
}

// Topics lists every topic without its body, sorted by name.
func Topics() []Topic {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return nil
	}
	out := make([]Topic, 0, len(entries))
	for _, p := range entries {
		name := strings.TrimSuffix(path.Base(p), ".md")
		if name == "" {
			continue
		}
		t, ok := Get(name)
		if !ok {
			continue
		}
		t.Markdown = ""
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks a topic up case-insensitively.
func Get(name string) (Topic, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return Topic{}, false
	}
	b, err := contentFS.ReadFile(path.Join("content", name+".md"))
	if err != nil {
		return Topic{}, false
	}
	body := string(b)
	return Topic{Name: name, Title: title(body, name), Markdown: body}, true
}

func title(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return fallback
}
