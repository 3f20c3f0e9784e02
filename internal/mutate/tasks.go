package mutate

import (
	"slices"
	"strings"
	"time"

	"lista-cli/internal/model"
	"lista-cli/internal/rank"
	"lista-cli/internal/store"
)

type TaskResult struct {
	Task    model.Task
	Changed bool
}

type NewTask struct {
	Title        string
	Description  string
	Labels       []string
	Size         model.Size
	DueDate      *time.Time
	ParentTaskID *string
}

// AddTask appends a task to the todos tab with priority N+1. The tab is re-normalized
// afterwards, so the new task lands above completed ones.
func AddTask(st *store.State, s Stamp, in NewTask) (TaskResult, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return TaskResult{}, err
	}
	now := s.now()
	t := model.Task{
		ID:           store.NextID(st, store.PrefixTask),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Author:       strings.TrimSpace(s.Who),
		Labels:       model.NormalizeLabels(in.Labels),
		Size:         in.Size,
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
		ParentTaskID: in.ParentTaskID,
	}
	rank.Append(st.TabTasks(model.TabTodos), &t)
	st.Tasks = append(st.Tasks, t)
	normalizeTab(st, model.TabTodos)

	got, _ := st.FindTask(t.ID)
	return TaskResult{Task: *got, Changed: true}, nil
}

// TaskEdit holds optional field changes. Nil fields are left alone.
type TaskEdit struct {
	Title        *string
	Description  *string
	Labels       *[]string
	Size         *model.Size
	DueDate      *time.Time
	ClearDueDate bool
}

// EditTask applies field changes and appends an update-log entry when anything changed.
func EditTask(st *store.State, s Stamp, id string, e TaskEdit) (TaskResult, error) {
	id = strings.TrimSpace(id)
	var title string
	if e.Title != nil {
		var err error
		if title, err = requireText("title", *e.Title); err != nil {
			return TaskResult{}, err
		}
	}
	t, ok := st.FindTask(id)
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: id}
	}

	changed := false
	if e.Title != nil && t.Title != title {
		t.Title = title
		changed = true
	}
	if e.Description != nil {
		if d := strings.TrimSpace(*e.Description); d != t.Description {
			t.Description = d
			changed = true
		}
	}
	if e.Labels != nil {
		if labels := model.NormalizeLabels(*e.Labels); !slices.Equal(labels, t.Labels) {
			t.Labels = labels
			changed = true
		}
	}
	if e.Size != nil && *e.Size != t.Size {
		t.Size = *e.Size
		changed = true
	}
	switch {
	case e.ClearDueDate && t.DueDate != nil:
		t.DueDate = nil
		changed = true
	case e.DueDate != nil && (t.DueDate == nil || !t.DueDate.Equal(*e.DueDate)):
		d := *e.DueDate
		t.DueDate = &d
		changed = true
	}
	if changed {
		t.Touch(s.Who, s.now())
	}
	return TaskResult{Task: *t, Changed: changed}, nil
}

// DeleteTask removes a task and re-ranks its tab. Unknown ids are a no-op.
func DeleteTask(st *store.State, id string) (TaskResult, error) {
	id = strings.TrimSpace(id)
	t, ok := st.FindTask(id)
	if !ok {
		return TaskResult{}, nil
	}
	removed := *t
	if _, ok := rank.Remove(st.TabTasks(removed.Tab()), id); !ok {
		return TaskResult{}, nil
	}
	st.RemoveTask(id)
	return TaskResult{Task: removed, Changed: true}, nil
}

// MoveTask places a task at a 1-based position within its tab. Out-of-range positions are
// clamped; unknown ids are a no-op.
func MoveTask(st *store.State, id string, position int) (TaskResult, error) {
	id = strings.TrimSpace(id)
	t, ok := st.FindTask(id)
	if !ok {
		return TaskResult{}, nil
	}
	xs := st.TabTasks(t.Tab())
	before := rankSnapshot(xs)
	out, _ := rank.Move(xs, id, position)
	return TaskResult{Task: *t, Changed: ranksChanged(before, out)}, nil
}

func MoveTaskDirection(st *store.State, id string, dir rank.Direction) (TaskResult, error) {
	id = strings.TrimSpace(id)
	t, ok := st.FindTask(id)
	if !ok {
		return TaskResult{}, nil
	}
	xs := st.TabTasks(t.Tab())
	before := rankSnapshot(xs)
	out, _ := rank.MoveDirection(xs, id, dir)
	return TaskResult{Task: *t, Changed: ranksChanged(before, out)}, nil
}

// SetTaskCompleted flips the completion flag. Ranks are left for the caller to
// re-normalize. Completing a task with open subtasks is refused.
func SetTaskCompleted(st *store.State, s Stamp, id string, completed bool) (TaskResult, error) {
	id = strings.TrimSpace(id)
	t, ok := st.FindTask(id)
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: id}
	}
	if t.Completed == completed {
		return TaskResult{Task: *t, Changed: false}, nil
	}
	if completed {
		if open := t.OpenSubtasks(); open > 0 {
			return TaskResult{}, IncompleteSubtasksError{TaskID: id, Open: open}
		}
	}
	t.Completed = completed
	t.Touch(s.Who, s.now())
	return TaskResult{Task: *t, Changed: true}, nil
}

// SetTaskArchived moves a task between tabs, giving it the last rank of the destination.
// The source tab keeps its gap until the caller re-normalizes.
func SetTaskArchived(st *store.State, s Stamp, id string, archived bool) (TaskResult, error) {
	id = strings.TrimSpace(id)
	t, ok := st.FindTask(id)
	if !ok {
		return TaskResult{}, NotFoundError{Kind: "task", ID: id}
	}
	if t.Archived == archived {
		return TaskResult{Task: *t, Changed: false}, nil
	}
	dest := model.TabTodos
	if archived {
		dest = model.TabArchive
	}
	rank.Append(st.TabTasks(dest), t)
	t.Archived = archived
	t.Touch(s.Who, s.now())
	return TaskResult{Task: *t, Changed: true}, nil
}
