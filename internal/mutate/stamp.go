package mutate

import (
	"strings"
	"time"

	"lista-cli/internal/model"
	"lista-cli/internal/rank"
	"lista-cli/internal/store"
)

// Stamp says who makes a change and when. A zero At means now.
type Stamp struct {
	Who string
	At  time.Time
}

func (s Stamp) now() time.Time {
	if s.At.IsZero() {
		return time.Now().UTC()
	}
	return s.At
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ValidationError{Field: field, Reason: "must not be empty"}
	}
	return v, nil
}

func rankSnapshot[T rank.Entry](xs []T) map[string]int {
	out := make(map[string]int, len(xs))
	for _, x := range xs {
		out[x.EntryID()] = x.Rank()
	}
	return out
}

func ranksChanged[T rank.Entry](before map[string]int, xs []T) bool {
	if len(before) != len(xs) {
		return true
	}
	for _, x := range xs {
		if r, ok := before[x.EntryID()]; !ok || r != x.Rank() {
			return true
		}
	}
	return false
}

// normalizeTab re-ranks one tab and reports whether any rank moved.
func normalizeTab(st *store.State, tab model.Tab) bool {
	xs := st.TabTasks(tab)
	before := rankSnapshot(xs)
	return ranksChanged(before, rank.Normalize(xs))
}

// NormalizeTasks re-ranks both tabs.
func NormalizeTasks(st *store.State) bool {
	if st == nil {
		return false
	}
	a := normalizeTab(st, model.TabTodos)
	b := normalizeTab(st, model.TabArchive)
	return a || b
}

func NormalizeLists(st *store.State) bool {
	if st == nil {
		return false
	}
	xs := st.RankedLists()
	before := rankSnapshot(xs)
	return ranksChanged(before, rank.Normalize(xs))
}
