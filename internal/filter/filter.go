// Package filter narrows task and list collections by tab, search text and label filters.
// Every function here is pure; results keep the input order.
package filter

import (
	"sort"
	"strings"

	"lista-cli/internal/model"
)

type Query struct {
	Search        string
	Filters       model.LabelFilters
	SelectedLabel string
	// Tab applies to tasks only. Empty means todos.
	Tab model.Tab
}

func Tasks(tasks []model.Task, q Query) []model.Task {
	tab := q.Tab
	if tab == "" {
		tab = model.TabTodos
	}
	needle := normalizeSearch(q.Search)
	selected := strings.TrimSpace(q.SelectedLabel)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Tab() != tab {
			continue
		}
		if !matchesSearch(needle, t.Title, t.Description, t.Author) {
			continue
		}
		if !acceptAll(q.Filters, func(k model.FilterKey) bool { return taskPredicate(t, k) }) {
			continue
		}
		if selected != "" && !t.HasLabel(selected) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func Lists(lists []model.List, q Query) []model.List {
	needle := normalizeSearch(q.Search)
	selected := strings.TrimSpace(q.SelectedLabel)

	out := make([]model.List, 0, len(lists))
	for _, l := range lists {
		if !matchesSearch(needle, l.Title, l.Description, l.Author) {
			continue
		}
		if !acceptAll(q.Filters, func(k model.FilterKey) bool { return listPredicate(l, k) }) {
			continue
		}
		if selected != "" && !l.HasLabel(selected) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Accepts reports whether a single filter lets an item through given the value of its
// predicate.
func Accepts(state model.FilterState, predicate bool) bool {
	switch state {
	case model.ShowOnly:
		return predicate
	case model.ShowOthers:
		return !predicate
	default:
		return true
	}
}

func acceptAll(fs model.LabelFilters, pred func(model.FilterKey) bool) bool {
	for _, f := range fs {
		if f.State != model.ShowOnly && f.State != model.ShowOthers {
			continue
		}
		if !Accepts(f.State, pred(f.Key)) {
			return false
		}
	}
	return true
}

func taskPredicate(t model.Task, k model.FilterKey) bool {
	switch k.Kind {
	case model.FilterCompleted:
		return t.Completed
	case model.FilterDueDate:
		return t.DueDate != nil
	case model.FilterSize:
		return t.Size != "" && string(t.Size) == k.Value
	default:
		return t.HasLabel(k.Value)
	}
}

func listPredicate(l model.List, k model.FilterKey) bool {
	switch k.Kind {
	case model.FilterCompleted:
		return l.AllCompleted()
	case model.FilterDueDate, model.FilterSize:
		// Lists carry neither due dates nor sizes.
		return false
	default:
		return l.HasLabel(k.Value)
	}
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesSearch(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Labels returns the distinct user labels used by tasks, sorted.
func Labels(tasks []model.Task) []string {
	seen := map[string]bool{}
	for _, t := range tasks {
		for _, l := range t.Labels {
			seen[l] = true
		}
	}
	return sortedKeys(seen)
}

func ListLabels(lists []model.List) []string {
	seen := map[string]bool{}
	for _, l := range lists {
		for _, lb := range l.Labels {
			seen[lb] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
