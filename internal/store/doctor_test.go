package store

import (
	"testing"

	"lista-cli/internal/model"
)

func issueCodes(r DoctorReport) map[string]int {
	out := map[string]int{}
	for _, it := range r.Issues {
		out[it.Code]++
	}
	return out
}

func TestDoctor_CleanStateHasNoIssues(t *testing.T) {
	st := &State{
		Tasks: []model.Task{
			{ID: "task-a", Title: "A", Priority: 1},
			{ID: "task-b", Title: "B", Priority: 2, Completed: true},
			{ID: "task-c", Title: "C", Priority: 1, Archived: true},
		},
		Lists: []model.List{{ID: "list-a", Title: "L", Priority: 1}},
	}
	r := Doctor(st)
	if len(r.Issues) != 0 || r.HasErrors() || r.Fixable() {
		t.Fatalf("expected clean report; got %#v", r)
	}
}

func TestDoctor_DetectsBrokenRanks(t *testing.T) {
	st := &State{
		Tasks: []model.Task{
			{ID: "task-a", Title: "A", Priority: 1, Completed: true},
			{ID: "task-b", Title: "B", Priority: 2},
		},
		Lists: []model.List{
			{ID: "list-a", Title: "L", Priority: 2},
		},
	}
	r := Doctor(st)
	if !r.HasErrors() || !r.Fixable() {
		t.Fatalf("expected fixable errors; got %#v", r)
	}
	if got := issueCodes(r)["ranks_not_normalized"]; got != 2 {
		t.Fatalf("expected 2 rank issues (todos, lists); got %d in %#v", got, r.Issues)
	}
}

func TestDoctor_DetectsDuplicateIDsAcrossKinds(t *testing.T) {
	st := &State{
		Tasks: []model.Task{{
			ID: "task-a", Title: "A", Priority: 1,
			Subtasks: []model.Subtask{{ID: "dup-1", Title: "s"}},
		}},
		Lists: []model.List{{
			ID: "list-a", Title: "L", Priority: 1,
			Items: []model.ListItem{{ID: "dup-1", Content: "x"}},
		}},
	}
	r := Doctor(st)
	if issueCodes(r)["duplicate_id"] != 1 {
		t.Fatalf("expected duplicate_id; got %#v", r.Issues)
	}
	if r.Fixable() {
		t.Fatalf("duplicate ids are not fixable by re-ranking")
	}
}

func TestDoctor_Warnings(t *testing.T) {
	st := &State{
		Tasks: []model.Task{{
			ID: "task-a", Title: " ", Priority: 1, Size: "XXL", Completed: true,
			Subtasks: []model.Subtask{{ID: "sub-1", Title: "open"}},
		}},
	}
	codes := issueCodes(Doctor(st))
	for _, c := range []string{"empty_title", "invalid_size", "completed_with_open_subtasks"} {
		if codes[c] != 1 {
			t.Fatalf("expected %s; got %v", c, codes)
		}
	}
}
