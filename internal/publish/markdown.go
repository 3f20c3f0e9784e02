// Package publish renders a workspace snapshot as a small tree of markdown files.
package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"lista-cli/internal/model"
	"lista-cli/internal/store"
)

type RenderOptions struct {
	IncludeArchived bool
}

func RenderTaskMarkdown(t model.Task) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + checkbox(t.Completed) + " " + strings.TrimSpace(t.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + t.ID)
	writeLn(fmt.Sprintf("- Priority: %d (%s)", t.Priority, t.Tab()))
	if t.Size != "" {
		writeLn("- Size: " + string(t.Size))
	}
	if t.DueDate != nil {
		writeLn("- Due: " + t.DueDate.UTC().Format(time.DateOnly))
	}
	if len(t.Labels) > 0 {
		writeLn("- Labels: " + strings.Join(t.Labels, ", "))
	}
	if a := strings.TrimSpace(t.Author); a != "" {
		writeLn("- Author: " + a)
	}
	writeLn("- Created: " + t.CreatedAt.UTC().Format(time.RFC3339))
	writeLn("- Updated: " + t.UpdatedAt.UTC().Format(time.RFC3339))

	if desc := strings.TrimSpace(t.Description); desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}

	if len(t.Subtasks) > 0 {
		writeLn("")
		writeLn(fmt.Sprintf("## Subtasks (%d/%d)", len(t.Subtasks)-t.OpenSubtasks(), len(t.Subtasks)))
		writeLn("")
		for _, s := range t.Subtasks {
			writeLn("- " + checkbox(s.Completed) + " " + strings.TrimSpace(s.Title))
		}
	}

	if len(t.Updates) > 0 {
		writeLn("")
		writeLn("## Activity")
		writeLn("")
		for _, u := range t.Updates {
			who := strings.TrimSpace(u.Who)
			if who == "" {
				who = "(unknown)"
			}
			writeLn("- " + u.When.UTC().Format(time.RFC3339) + " " + who)
		}
	}
	return buf.String()
}

func RenderListMarkdown(l model.List) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + checkbox(l.AllCompleted()) + " " + strings.TrimSpace(l.Title))
	writeLn("")
	writeLn("- ID: " + l.ID)
	writeLn(fmt.Sprintf("- Priority: %d", l.Priority))
	if len(l.Labels) > 0 {
		writeLn("- Labels: " + strings.Join(l.Labels, ", "))
	}
	writeLn("- Updated: " + l.UpdatedAt.UTC().Format(time.RFC3339))

	if desc := strings.TrimSpace(l.Description); desc != "" {
		writeLn("")
		writeLn(desc)
	}

	writeLn("")
	writeLn("## Items")
	writeLn("")
	if len(l.Items) == 0 {
		writeLn("(empty)")
	}
	for i, it := range l.Items {
		bullet := "-"
		if l.Type == model.ListOrdered {
			bullet = fmt.Sprintf("%d.", i+1)
		}
		writeLn(bullet + " " + checkbox(it.Completed) + " " + strings.TrimSpace(it.Content))
	}
	return buf.String()
}

// RenderIndexMarkdown lists tasks per tab and lists in rank order, linking to their pages.
func RenderIndexMarkdown(st *store.State, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	tabs := []model.Tab{model.TabTodos}
	if opt.IncludeArchived {
		tabs = append(tabs, model.TabArchive)
	}

	writeLn("# lista")
	for _, tab := range tabs {
		writeLn("")
		writeLn("## Tasks: " + string(tab))
		writeLn("")
		tasks := st.TabTasks(tab)
		if len(tasks) == 0 {
			writeLn("(none)")
		}
		for _, t := range tasks {
			fmt.Fprintf(&buf, "%d. %s [%s](tasks/%s.md)%s\n", t.Priority, checkbox(t.Completed), strings.TrimSpace(t.Title), t.ID, taskSuffix(*t))
		}
	}

	writeLn("")
	writeLn("## Lists")
	writeLn("")
	lists := st.RankedLists()
	if len(lists) == 0 {
		writeLn("(none)")
	}
	for _, l := range lists {
		fmt.Fprintf(&buf, "%d. %s [%s](lists/%s.md)\n", l.Priority, checkbox(l.AllCompleted()), strings.TrimSpace(l.Title), l.ID)
	}
	return buf.String()
}

func taskSuffix(t model.Task) string {
	var parts []string
	if t.DueDate != nil {
		parts = append(parts, "due "+t.DueDate.UTC().Format(time.DateOnly))
	}
	for _, l := range t.Labels {
		parts = append(parts, "#"+l)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
