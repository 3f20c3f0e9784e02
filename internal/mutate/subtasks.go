package mutate

import (
	"errors"
	"slices"
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/store"
)

type SubtaskResult struct {
	Task    model.Task
	Subtask model.Subtask
	Changed bool
}

func AddSubtask(st *store.State, s Stamp, taskID, title string) (SubtaskResult, error) {
	title, err := requireText("title", title)
	if err != nil {
		return SubtaskResult{}, err
	}
	taskID = strings.TrimSpace(taskID)
	t, ok := st.FindTask(taskID)
	if !ok {
		return SubtaskResult{}, NotFoundError{Kind: "task", ID: taskID}
	}
	now := s.now()
	sub := model.Subtask{
		ID:        store.NextID(st, store.PrefixSubtask),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Subtasks = append(t.Subtasks, sub)
	t.Touch(s.Who, now)
	return SubtaskResult{Task: *t, Subtask: sub, Changed: true}, nil
}

func SetSubtaskCompleted(st *store.State, s Stamp, taskID, subtaskID string, completed bool) (SubtaskResult, error) {
	t, i, err := findSubtask(st, taskID, subtaskID)
	if err != nil {
		return SubtaskResult{}, err
	}
	sub := &t.Subtasks[i]
	if sub.Completed == completed {
		return SubtaskResult{Task: *t, Subtask: *sub, Changed: false}, nil
	}
	now := s.now()
	sub.Completed = completed
	sub.UpdatedAt = now
	t.Touch(s.Who, now)
	return SubtaskResult{Task: *t, Subtask: *sub, Changed: true}, nil
}

// DeleteSubtask removes a subtask. Unknown subtask ids are a no-op.
func DeleteSubtask(st *store.State, s Stamp, taskID, subtaskID string) (SubtaskResult, error) {
	t, i, err := findSubtask(st, taskID, subtaskID)
	if err != nil {
		var nf NotFoundError
		if errors.As(err, &nf) && nf.Kind == "subtask" {
			return SubtaskResult{}, nil
		}
		return SubtaskResult{}, err
	}
	removed := t.Subtasks[i]
	t.Subtasks = slices.Delete(t.Subtasks, i, i+1)
	t.Touch(s.Who, s.now())
	return SubtaskResult{Task: *t, Subtask: removed, Changed: true}, nil
}

func findSubtask(st *store.State, taskID, subtaskID string) (*model.Task, int, error) {
	taskID = strings.TrimSpace(taskID)
	subtaskID = strings.TrimSpace(subtaskID)
	t, ok := st.FindTask(taskID)
	if !ok {
		return nil, -1, NotFoundError{Kind: "task", ID: taskID}
	}
	i := slices.IndexFunc(t.Subtasks, func(x model.Subtask) bool { return x.ID == subtaskID })
	if i < 0 {
		return nil, -1, NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	return t, i, nil
}
