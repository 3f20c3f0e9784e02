package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError rejects input before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IncompleteSubtasksError refuses completing a task that still has open subtasks.
type IncompleteSubtasksError struct {
	TaskID string
	Open   int
}

func (e IncompleteSubtasksError) Error() string {
	noun := "subtasks"
	if e.Open == 1 {
		noun = "subtask"
	}
	return fmt.Sprintf("task %s has %d incomplete %s; complete them first", e.TaskID, e.Open, noun)
}
