package store

import (
	"fmt"
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/rank"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`

	EntityKind string `json:"entityKind,omitempty"`
	EntityID   string `json:"entityId,omitempty"`
	Tab        string `json:"tab,omitempty"`
	// Fixable issues are repaired by re-normalizing ranks.
	Fixable bool `json:"fixable,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

func (r DoctorReport) Fixable() bool {
	for _, it := range r.Issues {
		if it.Fixable {
			return true
		}
	}
	return false
}

// Doctor checks a working set for broken ranks, duplicate ids and data that the
// mutation layer would have rejected.
func Doctor(st *State) DoctorReport {
	var issues []DoctorIssue
	if st == nil {
		return DoctorReport{Issues: []DoctorIssue{}}
	}

	seen := map[string]string{}
	dup := func(kind, id string) {
		if id == "" {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelError,
				Code:       "missing_id",
				Message:    fmt.Sprintf("%s without id", kind),
				EntityKind: kind,
			})
			return
		}
		if prev, ok := seen[id]; ok {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelError,
				Code:       "duplicate_id",
				Message:    fmt.Sprintf("id %s is used by a %s and a %s", id, prev, kind),
				EntityKind: kind,
				EntityID:   id,
			})
			return
		}
		seen[id] = kind
	}

	for _, t := range st.Tasks {
		dup("task", t.ID)
		for _, sub := range t.Subtasks {
			dup("subtask", sub.ID)
		}
		if strings.TrimSpace(t.Title) == "" {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelWarn,
				Code:       "empty_title",
				Message:    "task has an empty title",
				EntityKind: "task",
				EntityID:   t.ID,
			})
		}
		if _, err := model.ParseSize(string(t.Size)); err != nil {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelWarn,
				Code:       "invalid_size",
				Message:    err.Error(),
				EntityKind: "task",
				EntityID:   t.ID,
			})
		}
		if t.Completed && t.OpenSubtasks() > 0 {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelWarn,
				Code:       "completed_with_open_subtasks",
				Message:    fmt.Sprintf("completed task has %d open subtasks", t.OpenSubtasks()),
				EntityKind: "task",
				EntityID:   t.ID,
			})
		}
	}
	for _, l := range st.Lists {
		dup("list", l.ID)
		for _, it := range l.Items {
			dup("item", it.ID)
		}
		if strings.TrimSpace(l.Title) == "" {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelWarn,
				Code:       "empty_title",
				Message:    "list has an empty title",
				EntityKind: "list",
				EntityID:   l.ID,
			})
		}
	}

	for _, tab := range []model.Tab{model.TabTodos, model.TabArchive} {
		if !rank.Valid(st.TabTasks(tab)) {
			issues = append(issues, DoctorIssue{
				Level:      DoctorIssueLevelError,
				Code:       "ranks_not_normalized",
				Message:    fmt.Sprintf("task priorities in %s are not dense with completed tasks last", tab),
				EntityKind: "task",
				Tab:        string(tab),
				Fixable:    true,
			})
		}
	}
	if !rank.Valid(st.RankedLists()) {
		issues = append(issues, DoctorIssue{
			Level:      DoctorIssueLevelError,
			Code:       "ranks_not_normalized",
			Message:    "list priorities are not dense with completed lists last",
			EntityKind: "list",
			Fixable:    true,
		})
	}

	if issues == nil {
		issues = []DoctorIssue{}
	}
	return DoctorReport{Issues: issues}
}
