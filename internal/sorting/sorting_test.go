package sorting

import (
	"testing"
	"time"

	"lista-cli/internal/model"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

var t0 = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func at(d int) time.Time { return t0.Add(time.Duration(d) * time.Hour) }

func atPtr(d int) *time.Time {
	v := at(d)
	return &v
}

func taskIDs(ts []model.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestTasks_PriorityIgnoresDirection(t *testing.T) {
	tasks := []model.Task{
		{ID: "c", Priority: 3},
		{ID: "a", Priority: 1},
		{ID: "b", Priority: 2},
	}
	for _, dir := range []model.SortDirection{model.Asc, model.Desc} {
		got := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortPriority, Direction: dir}, Options{}))
		if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
			t.Fatalf("direction %s (-want +got):\n%s", dir, diff)
		}
	}
}

func TestTasks_DueDateMissingLastInBothDirections(t *testing.T) {
	tasks := []model.Task{
		{ID: "none-1"},
		{ID: "late", DueDate: atPtr(48)},
		{ID: "none-2"},
		{ID: "early", DueDate: atPtr(1)},
	}
	asc := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortDueDate, Direction: model.Asc}, Options{}))
	if diff := cmp.Diff([]string{"early", "late", "none-1", "none-2"}, asc); diff != "" {
		t.Fatalf("asc (-want +got):\n%s", diff)
	}
	desc := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortDueDate, Direction: model.Desc}, Options{}))
	if diff := cmp.Diff([]string{"late", "early", "none-1", "none-2"}, desc); diff != "" {
		t.Fatalf("desc (-want +got):\n%s", diff)
	}
}

func TestTasks_ActivityUsesLatestUpdate(t *testing.T) {
	tasks := []model.Task{
		// Created first but touched last.
		{ID: "old-busy", CreatedAt: at(0), Updates: []model.Update{{Who: "x", When: at(1)}, {Who: "x", When: at(10)}}},
		{ID: "new-quiet", CreatedAt: at(5)},
	}
	upd := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortUpdatedAt, Direction: model.Asc}, Options{}))
	if diff := cmp.Diff([]string{"new-quiet", "old-busy"}, upd); diff != "" {
		t.Fatalf("updatedAt (-want +got):\n%s", diff)
	}

	// Compatible behavior: createdAt sorts by the same latest-activity instant.
	created := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortCreatedAt, Direction: model.Asc}, Options{}))
	if diff := cmp.Diff(upd, created); diff != "" {
		t.Fatalf("createdAt should match updatedAt by default (-want +got):\n%s", diff)
	}

	strict := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortCreatedAt, Direction: model.Asc}, Options{StrictCreatedAt: true}))
	if diff := cmp.Diff([]string{"old-busy", "new-quiet"}, strict); diff != "" {
		t.Fatalf("strict createdAt (-want +got):\n%s", diff)
	}

	desc := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortUpdatedAt, Direction: model.Desc}, Options{}))
	if diff := cmp.Diff([]string{"old-busy", "new-quiet"}, desc); diff != "" {
		t.Fatalf("updatedAt desc (-want +got):\n%s", diff)
	}
}

func TestTasks_TitleCollation(t *testing.T) {
	tasks := []model.Task{
		{ID: "ö", Title: "Östermalm"},
		{ID: "a", Title: "apelsin"},
		{ID: "å", Title: "Åre"},
		{ID: "B", Title: "Banan"},
		{ID: "ä", Title: "Älg"},
	}
	got := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortTitle, Direction: model.Asc}, Options{}))
	// Swedish collation places å, ä, ö after z, in that order, and ignores case at the
	// primary level.
	if diff := cmp.Diff([]string{"a", "B", "å", "ä", "ö"}, got); diff != "" {
		t.Fatalf("swedish (-want +got):\n%s", diff)
	}

	desc := taskIDs(Tasks(tasks, model.SortSpec{Field: model.SortTitle, Direction: model.Desc}, Options{Language: language.Swedish}))
	if diff := cmp.Diff([]string{"ö", "ä", "å", "B", "a"}, desc); diff != "" {
		t.Fatalf("swedish desc (-want +got):\n%s", diff)
	}
}

func TestTasks_TitleSortIsIdempotentAndStable(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "same"},
		{ID: "2", Title: "alpha"},
		{ID: "3", Title: "same"},
		{ID: "4", Title: "beta"},
	}
	spec := model.SortSpec{Field: model.SortTitle, Direction: model.Asc}
	once := Tasks(tasks, spec, Options{})
	twice := Tasks(once, spec, Options{})
	if diff := cmp.Diff(taskIDs(once), taskIDs(twice)); diff != "" {
		t.Fatalf("not idempotent (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2", "4", "1", "3"}, taskIDs(once)); diff != "" {
		t.Fatalf("equal titles must keep input order (-want +got):\n%s", diff)
	}
}

func TestTasks_ReturnsCopy(t *testing.T) {
	tasks := []model.Task{{ID: "b", Priority: 2}, {ID: "a", Priority: 1}}
	_ = Tasks(tasks, model.DefaultSort(), Options{})
	if tasks[0].ID != "b" {
		t.Fatalf("input reordered: %v", taskIDs(tasks))
	}
}

func TestLists_SortByActivityAndPriority(t *testing.T) {
	lists := []model.List{
		{ID: "x", Priority: 2, CreatedAt: at(0), UpdatedAt: at(9)},
		{ID: "y", Priority: 1, CreatedAt: at(3)},
	}
	var got []string
	for _, l := range Lists(lists, model.SortSpec{Field: model.SortUpdatedAt, Direction: model.Desc}, Options{}) {
		got = append(got, l.ID)
	}
	if diff := cmp.Diff([]string{"x", "y"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	got = nil
	for _, l := range Lists(lists, model.SortSpec{Field: model.SortPriority, Direction: model.Desc}, Options{}) {
		got = append(got, l.ID)
	}
	if diff := cmp.Diff([]string{"y", "x"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
