package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilterKey(t *testing.T) {
	tests := []struct {
		in   string
		want FilterKey
	}{
		{"completed", CompletedKey()},
		{"due-date", DueDateKey()},
		{"dueDate", DueDateKey()},
		{"due_date", DueDateKey()},
		{"DUEDATE", DueDateKey()},
		{"Completed", CompletedKey()},
		{"M", SizeKey(SizeM)},
		{"XL", LabelKey("XL")},
		{"XS", LabelKey("XS")},
		{"size:xs", SizeKey(SizeXS)},
		{"label:completed", LabelKey("completed")},
		{"  work ", LabelKey("work")},
		{"m", LabelKey("m")},
	}
	for _, tt := range tests {
		got, err := ParseFilterKey(tt.in)
		if err != nil {
			t.Fatalf("ParseFilterKey(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFilterKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "label:", "size:huge", "size:"} {
		if _, err := ParseFilterKey(bad); err == nil {
			t.Fatalf("ParseFilterKey(%q): expected error", bad)
		}
	}
}

func TestFilterKey_StringRoundTrips(t *testing.T) {
	for _, k := range []FilterKey{CompletedKey(), DueDateKey(), SizeKey(SizeL), LabelKey("home")} {
		got, err := ParseFilterKey(k.String())
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if got != k {
			t.Fatalf("round trip %s -> %+v", k, got)
		}
	}
}

func TestLabelFilters_SetKeepsOneEntryPerKey(t *testing.T) {
	fs := LabelFilters{}.
		Set(LabelKey("a"), ShowOnly).
		Set(CompletedKey(), ShowOthers).
		Set(LabelKey("a"), ShowOthers)
	want := LabelFilters{
		{Key: LabelKey("a"), State: ShowOthers},
		{Key: CompletedKey(), State: ShowOthers},
	}
	if diff := cmp.Diff(want, fs); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	fs = fs.Set(LabelKey("a"), ShowAll)
	if got := fs.State(LabelKey("a")); got != ShowAll {
		t.Fatalf("expected removed key to read show-all; got %s", got)
	}
	if len(fs) != 1 {
		t.Fatalf("expected one remaining filter; got %+v", fs)
	}
}

func TestParseLabelFilter(t *testing.T) {
	got, err := ParseLabelFilter("urgent")
	if err != nil {
		t.Fatalf("ParseLabelFilter: %v", err)
	}
	if got != (LabelFilter{Key: LabelKey("urgent"), State: ShowOnly}) {
		t.Fatalf("unexpected default: %+v", got)
	}
	got, err = ParseLabelFilter("completed=others")
	if err != nil {
		t.Fatalf("ParseLabelFilter: %v", err)
	}
	if got != (LabelFilter{Key: CompletedKey(), State: ShowOthers}) {
		t.Fatalf("unexpected filter: %+v", got)
	}
	got, err = ParseLabelFilter("dueDate=only")
	if err != nil {
		t.Fatalf("ParseLabelFilter: %v", err)
	}
	if got != (LabelFilter{Key: DueDateKey(), State: ShowOnly}) {
		t.Fatalf("dueDate=only parsed as %+v", got)
	}
	if _, err := ParseLabelFilter("completed=maybe"); err == nil {
		t.Fatalf("expected invalid state error")
	}
}

func TestFilterState_NextCycles(t *testing.T) {
	s := ShowAll
	var seen []FilterState
	for i := 0; i < 3; i++ {
		s = s.Next()
		seen = append(seen, s)
	}
	if diff := cmp.Diff([]FilterState{ShowOnly, ShowOthers, ShowAll}, seen); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		in   string
		want SortSpec
	}{
		{"", DefaultSort()},
		{"title", SortSpec{Field: SortTitle, Direction: Asc}},
		{"due-date:desc", SortSpec{Field: SortDueDate, Direction: Desc}},
		{"created_at:ASC", SortSpec{Field: SortCreatedAt, Direction: Asc}},
		{"updatedAt:desc", SortSpec{Field: SortUpdatedAt, Direction: Desc}},
	}
	for _, tt := range tests {
		got, err := ParseSortSpec(tt.in)
		if err != nil {
			t.Fatalf("ParseSortSpec(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSortSpec(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseSortSpec("color"); err == nil {
		t.Fatalf("expected invalid field error")
	}
	if _, err := ParseSortSpec("title:sideways"); err == nil {
		t.Fatalf("expected invalid direction error")
	}
}

func TestSortSpec_NextFieldWraps(t *testing.T) {
	s := SortSpec{Field: SortTitle, Direction: Desc}.NextField()
	if s.Field != SortPriority || s.Direction != Desc {
		t.Fatalf("unexpected next: %+v", s)
	}
}

func TestParseSize(t *testing.T) {
	if got, err := ParseSize(" xl "); err != nil || got != SizeXL {
		t.Fatalf("ParseSize xl = %q, %v", got, err)
	}
	if got, err := ParseSize("none"); err != nil || got != "" {
		t.Fatalf("ParseSize none = %q, %v", got, err)
	}
	if _, err := ParseSize("XXL"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestList_AllCompleted(t *testing.T) {
	if (List{}).AllCompleted() {
		t.Fatalf("empty list must not count as completed")
	}
	l := List{Items: []ListItem{{Completed: true}, {Completed: true}}}
	if !l.AllCompleted() {
		t.Fatalf("expected completed")
	}
	l.Items = append(l.Items, ListItem{})
	if l.AllCompleted() {
		t.Fatalf("expected not completed")
	}
}

func TestTask_TouchAppendsUpdate(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	task := Task{CreatedAt: now.Add(-time.Hour)}
	if !task.LatestActivity().Equal(task.CreatedAt) {
		t.Fatalf("latest activity should fall back to creation")
	}
	task.Touch("anna", now)
	if !task.LatestActivity().Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Fatalf("touch did not stamp: %+v", task)
	}
	if diff := cmp.Diff([]Update{{Who: "anna", When: now}}, task.Updates); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestNormalizeLabels(t *testing.T) {
	got := NormalizeLabels([]string{" b", "a", "", "b", "a "})
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if NormalizeLabels([]string{" ", ""}) != nil {
		t.Fatalf("expected nil for all-empty input")
	}
}
