// Package format renders command results as json, yaml or a text table.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

var Formats = []string{"json", "yaml", "table"}

// Envelope wraps every successful command result.
type Envelope struct {
	Data  any      `json:"data" yaml:"data"`
	Meta  any      `json:"meta,omitempty" yaml:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty" yaml:"_hints,omitempty"`
}

// Tabular values can be rendered with --format table.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

func Parse(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "table":
		return "table", nil
	default:
		return "", fmt.Errorf("unknown format: %q (expected %s)", s, strings.Join(Formats, "|"))
	}
}

// Write writes v in the requested format. Table output renders the data of an envelope
// (an Envelope or a map with a "data" key) when it implements Tabular and falls back to
// yaml otherwise.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Parse(format)
	if err != nil {
		return err
	}
	switch f {
	case "yaml":
		return WriteYAML(w, v)
	case "table":
		if t, ok := tabular(v); ok {
			return WriteTable(w, t, pretty)
		}
		return WriteYAML(w, v)
	default:
		return WriteJSON(w, v, pretty)
	}
}

// WriteJSON writes strict JSON, one document per line unless pretty.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML goes through JSON first so field names follow the json tags.
func WriteYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

func WriteTable(w io.Writer, t Tabular, pretty bool) error {
	border := lipgloss.NormalBorder()
	if pretty {
		border = lipgloss.RoundedBorder()
	}
	tbl := table.New().
		Border(border).
		Headers(t.TableHeaders()...).
		Rows(t.TableRows()...)
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

func tabular(v any) (Tabular, bool) {
	switch x := v.(type) {
	case Envelope:
		t, ok := x.Data.(Tabular)
		return t, ok
	case *Envelope:
		t, ok := x.Data.(Tabular)
		return t, ok
	case map[string]any:
		t, ok := x["data"].(Tabular)
		return t, ok
	case Tabular:
		return x, true
	}
	return nil, false
}
