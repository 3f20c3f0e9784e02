package cli

import (
	"fmt"
	"strconv"
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/store"

	"github.com/charmbracelet/x/ansi"
)

const tableTitleWidth = 48

// taskRows renders tasks for --format table. JSON output is unchanged.
type taskRows []model.Task

func (r taskRows) TableHeaders() []string {
	return []string{"ID", "P", "DONE", "TITLE", "SIZE", "DUE", "LABELS", "SUBTASKS"}
}

func (r taskRows) TableRows() [][]string {
	out := make([][]string, 0, len(r))
	for _, t := range r {
		subtasks := ""
		if n := len(t.Subtasks); n > 0 {
			subtasks = fmt.Sprintf("%d/%d", n-t.OpenSubtasks(), n)
		}
		out = append(out, []string{
			t.ID,
			strconv.Itoa(t.Priority),
			check(t.Completed),
			ansi.Truncate(t.Title, tableTitleWidth, "…"),
			string(t.Size),
			dueString(t.DueDate),
			strings.Join(t.Labels, ","),
			subtasks,
		})
	}
	return out
}

func (r taskRows) MarshalJSON() ([]byte, error) {
	return marshalSlice([]model.Task(r))
}

type listRows []model.List

func (r listRows) TableHeaders() []string {
	return []string{"ID", "P", "DONE", "TITLE", "TYPE", "ITEMS", "LABELS"}
}

func (r listRows) TableRows() [][]string {
	out := make([][]string, 0, len(r))
	for _, l := range r {
		done := 0
		for _, it := range l.Items {
			if it.Completed {
				done++
			}
		}
		out = append(out, []string{
			l.ID,
			strconv.Itoa(l.Priority),
			check(l.AllCompleted()),
			ansi.Truncate(l.Title, tableTitleWidth, "…"),
			string(l.Type),
			fmt.Sprintf("%d/%d", done, len(l.Items)),
			strings.Join(l.Labels, ","),
		})
	}
	return out
}

func (r listRows) MarshalJSON() ([]byte, error) {
	return marshalSlice([]model.List(r))
}

type issueRows []store.DoctorIssue

func (r issueRows) TableHeaders() []string {
	return []string{"LEVEL", "CODE", "ENTITY", "MESSAGE"}
}

func (r issueRows) TableRows() [][]string {
	out := make([][]string, 0, len(r))
	for _, it := range r {
		entity := it.EntityKind
		if it.EntityID != "" {
			entity += " " + it.EntityID
		} else if it.Tab != "" {
			entity += " (" + it.Tab + ")"
		}
		out = append(out, []string{string(it.Level), it.Code, entity, it.Message})
	}
	return out
}

func check(b bool) string {
	if b {
		return "x"
	}
	return ""
}
