package store

import (
	"slices"

	"lista-cli/internal/model"
	"lista-cli/internal/rank"
)

// State is the in-memory working set of a workspace.
type State struct {
	Tasks []model.Task
	Lists []model.List
}

// Clone returns a deep copy, safe to hand to readers while the original keeps mutating.
func (st *State) Clone() State {
	out := State{
		Tasks: make([]model.Task, len(st.Tasks)),
		Lists: make([]model.List, len(st.Lists)),
	}
	for i, t := range st.Tasks {
		t.Labels = slices.Clone(t.Labels)
		t.Updates = slices.Clone(t.Updates)
		t.Subtasks = slices.Clone(t.Subtasks)
		if t.DueDate != nil {
			d := *t.DueDate
			t.DueDate = &d
		}
		if t.ParentTaskID != nil {
			p := *t.ParentTaskID
			t.ParentTaskID = &p
		}
		out.Tasks[i] = t
	}
	for i, l := range st.Lists {
		l.Labels = slices.Clone(l.Labels)
		l.Items = slices.Clone(l.Items)
		out.Lists[i] = l
	}
	return out
}

func (st *State) FindTask(id string) (*model.Task, bool) {
	for i := range st.Tasks {
		if st.Tasks[i].ID == id {
			return &st.Tasks[i], true
		}
	}
	return nil, false
}

func (st *State) FindList(id string) (*model.List, bool) {
	for i := range st.Lists {
		if st.Lists[i].ID == id {
			return &st.Lists[i], true
		}
	}
	return nil, false
}

// TabTasks returns pointers to the tasks of one tab ordered by rank. The pointers stay
// valid until Tasks is appended to or reordered.
func (st *State) TabTasks(tab model.Tab) []*model.Task {
	var out []*model.Task
	for i := range st.Tasks {
		if st.Tasks[i].Tab() == tab {
			out = append(out, &st.Tasks[i])
		}
	}
	return rank.ByRank(out)
}

// RankedLists returns pointers to all lists ordered by rank.
func (st *State) RankedLists() []*model.List {
	out := make([]*model.List, 0, len(st.Lists))
	for i := range st.Lists {
		out = append(out, &st.Lists[i])
	}
	return rank.ByRank(out)
}

func (st *State) RemoveTask(id string) bool {
	i := slices.IndexFunc(st.Tasks, func(t model.Task) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	st.Tasks = slices.Delete(st.Tasks, i, i+1)
	return true
}

func (st *State) RemoveList(id string) bool {
	i := slices.IndexFunc(st.Lists, func(l model.List) bool { return l.ID == id })
	if i < 0 {
		return false
	}
	st.Lists = slices.Delete(st.Lists, i, i+1)
	return true
}

func (st *State) IDExists(id string) bool {
	if _, ok := st.FindTask(id); ok {
		return true
	}
	if _, ok := st.FindList(id); ok {
		return true
	}
	for _, t := range st.Tasks {
		for _, s := range t.Subtasks {
			if s.ID == id {
				return true
			}
		}
	}
	for _, l := range st.Lists {
		for _, it := range l.Items {
			if it.ID == id {
				return true
			}
		}
	}
	return false
}
