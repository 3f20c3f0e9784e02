package rank

import (
	"fmt"
	"math/rand"
	"testing"

	"lista-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

type ranked struct {
	id   string
	rank int
	done bool
}

func (r *ranked) EntryID() string { return r.id }
func (r *ranked) Rank() int       { return r.rank }
func (r *ranked) SetRank(n int)   { r.rank = n }
func (r *ranked) Done() bool      { return r.done }

func view(xs []*ranked) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, fmt.Sprintf("%s(%d)", x.id, x.rank))
	}
	return out
}

func abc() []*ranked {
	return []*ranked{{id: "A", rank: 1}, {id: "B", rank: 2}, {id: "C", rank: 3}}
}

func TestNormalize_CompletedSinkBelowIncomplete(t *testing.T) {
	tasks := []*model.Task{
		{ID: "1", Priority: 1},
		{ID: "2", Priority: 2, Completed: true},
		{ID: "3", Priority: 3},
	}
	got := Normalize(tasks)
	var gotView []string
	for _, t := range got {
		gotView = append(gotView, fmt.Sprintf("%s(%d)", t.ID, t.Priority))
	}
	if diff := cmp.Diff([]string{"1(1)", "3(2)", "2(3)"}, gotView); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !Valid(got) {
		t.Fatalf("expected valid ranks after normalize")
	}
}

func TestNormalize_StableWithinPartitions(t *testing.T) {
	xs := []*ranked{
		{id: "d1", done: true}, {id: "o1"}, {id: "d2", done: true}, {id: "o2"}, {id: "o3"},
	}
	got := view(Normalize(xs))
	want := []string{"o1(1)", "o2(2)", "o3(3)", "d1(4)", "d2(5)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMove_ToFirstPosition(t *testing.T) {
	got, ok := Move(abc(), "C", 1)
	if !ok {
		t.Fatalf("expected ok")
	}
	if diff := cmp.Diff([]string{"C(1)", "A(2)", "B(3)"}, view(got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMove_ToCurrentPositionIsNoop(t *testing.T) {
	for pos := 1; pos <= 3; pos++ {
		xs := abc()
		id := xs[pos-1].id
		got, ok := Move(xs, id, pos)
		if !ok {
			t.Fatalf("expected ok")
		}
		if diff := cmp.Diff(view(abc()), view(got)); diff != "" {
			t.Fatalf("move %s to %d changed order (-want +got):\n%s", id, pos, diff)
		}
	}
}

func TestMove_ClampsOutOfRange(t *testing.T) {
	got, _ := Move(abc(), "A", 99)
	if diff := cmp.Diff([]string{"B(1)", "C(2)", "A(3)"}, view(got)); diff != "" {
		t.Fatalf("past end (-want +got):\n%s", diff)
	}
	got, _ = Move(abc(), "C", -4)
	if diff := cmp.Diff([]string{"C(1)", "A(2)", "B(3)"}, view(got)); diff != "" {
		t.Fatalf("before start (-want +got):\n%s", diff)
	}
}

func TestMove_UnknownIDIsNoop(t *testing.T) {
	xs := abc()
	got, ok := Move(xs, "nope", 1)
	if ok {
		t.Fatalf("expected ok=false")
	}
	if diff := cmp.Diff(view(abc()), view(got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMove_DoneEntryCannotRiseAboveOpenOnes(t *testing.T) {
	xs := []*ranked{{id: "A", rank: 1}, {id: "B", rank: 2}, {id: "D", rank: 3, done: true}}
	got, _ := Move(xs, "D", 1)
	if diff := cmp.Diff([]string{"A(1)", "B(2)", "D(3)"}, view(got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMoveDirection(t *testing.T) {
	tests := []struct {
		id   string
		dir  Direction
		want []string
	}{
		{"B", Up, []string{"B(1)", "A(2)", "C(3)"}},
		{"B", Down, []string{"A(1)", "C(2)", "B(3)"}},
		{"A", Up, []string{"A(1)", "B(2)", "C(3)"}},
		{"C", Down, []string{"A(1)", "B(2)", "C(3)"}},
		{"C", Top, []string{"C(1)", "A(2)", "B(3)"}},
		{"A", Bottom, []string{"B(1)", "C(2)", "A(3)"}},
	}
	for _, tt := range tests {
		t.Run(tt.id+"-"+string(tt.dir), func(t *testing.T) {
			got, ok := MoveDirection(abc(), tt.id, tt.dir)
			if !ok {
				t.Fatalf("expected ok")
			}
			if diff := cmp.Diff(tt.want, view(got)); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestAppendAndRemove(t *testing.T) {
	xs := Append(abc(), &ranked{id: "D"})
	if diff := cmp.Diff([]string{"A(1)", "B(2)", "C(3)", "D(4)"}, view(xs)); diff != "" {
		t.Fatalf("append (-want +got):\n%s", diff)
	}
	xs, ok := Remove(xs, "B")
	if !ok {
		t.Fatalf("expected ok")
	}
	if diff := cmp.Diff([]string{"A(1)", "C(2)", "D(3)"}, view(xs)); diff != "" {
		t.Fatalf("remove (-want +got):\n%s", diff)
	}
	if _, ok := Remove(xs, "B"); ok {
		t.Fatalf("expected second remove to report not found")
	}
}

func TestByRank(t *testing.T) {
	xs := []*ranked{{id: "c", rank: 3}, {id: "a", rank: 1}, {id: "b", rank: 2}}
	if diff := cmp.Diff([]string{"a(1)", "b(2)", "c(3)"}, view(ByRank(xs))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValid(t *testing.T) {
	if !Valid([]*ranked{}) {
		t.Fatalf("empty set is valid")
	}
	if Valid([]*ranked{{id: "a", rank: 1}, {id: "b", rank: 3}}) {
		t.Fatalf("gap should be invalid")
	}
	if Valid([]*ranked{{id: "a", rank: 1, done: true}, {id: "b", rank: 2}}) {
		t.Fatalf("done before open should be invalid")
	}
}

// Random add/delete/move/complete sequences must always leave dense ranks.
func TestRandomOperationsKeepRanksDense(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var xs []*ranked
	next := 0
	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(5); {
		case op == 0 || len(xs) == 0:
			next++
			xs = Normalize(Append(xs, &ranked{id: fmt.Sprintf("e%d", next)}))
		case op == 1:
			xs, _ = Remove(xs, xs[rng.Intn(len(xs))].id)
		case op == 2:
			xs, _ = Move(xs, xs[rng.Intn(len(xs))].id, rng.Intn(len(xs)+4)-2)
		case op == 3:
			dirs := []Direction{Up, Down, Top, Bottom}
			xs, _ = MoveDirection(xs, xs[rng.Intn(len(xs))].id, dirs[rng.Intn(len(dirs))])
		default:
			x := xs[rng.Intn(len(xs))]
			x.done = !x.done
			xs = Normalize(xs)
		}
		if !Valid(xs) {
			t.Fatalf("step %d: ranks invalid: %v", step, view(xs))
		}
	}
}
