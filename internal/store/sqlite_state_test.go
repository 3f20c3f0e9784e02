package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lista-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func openTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := Store{Dir: t.TempDir()}.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLocal_MissingCollectionsLoadAsDefaults(t *testing.T) {
	ctx := context.Background()
	l := openTestLocal(t)

	var tasks []model.Task
	if err := LoadInto(ctx, l, KindTasks, &tasks); err != nil {
		t.Fatalf("LoadInto tasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil tasks; got %#v", tasks)
	}

	var tab model.Tab
	if err := LoadInto(ctx, l, KindTab, &tab); err != nil {
		t.Fatalf("LoadInto tab: %v", err)
	}
	if tab != model.TabTodos {
		t.Fatalf("expected todos; got %q", tab)
	}

	var spec model.SortSpec
	if err := LoadInto(ctx, l, KindSort, &spec); err != nil {
		t.Fatalf("LoadInto sort: %v", err)
	}
	if spec != model.DefaultSort() {
		t.Fatalf("expected default sort; got %+v", spec)
	}

	var mode model.StorageMode
	if err := LoadInto(ctx, l, KindStorageMode, &mode); err != nil {
		t.Fatalf("LoadInto storage mode: %v", err)
	}
	if mode != model.StorageLocal {
		t.Fatalf("expected local; got %q", mode)
	}

	var exp model.Expansion
	if err := LoadInto(ctx, l, KindExpansion, &exp); err != nil {
		t.Fatalf("LoadInto expansion: %v", err)
	}
	if exp.Mode != model.ExpandNone {
		t.Fatalf("expected none; got %+v", exp)
	}
}

func TestLocal_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := openTestLocal(t)

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	want := []model.Task{
		{ID: "task-1", Title: "Buy milk", Priority: 1, Labels: []string{"home"}, DueDate: &due, CreatedAt: due},
		{ID: "task-2", Title: "Clean", Priority: 2, Completed: true, CreatedAt: due},
	}
	if err := Save(ctx, l, KindTasks, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Saving again is idempotent.
	if err := Save(ctx, l, KindTasks, want); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	var got []model.Task
	if err := LoadInto(ctx, l, KindTasks, &got); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}

	kinds, err := l.SavedKinds(ctx)
	if err != nil {
		t.Fatalf("SavedKinds: %v", err)
	}
	if diff := cmp.Diff([]Kind{KindTasks}, kinds); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLocal_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l, err := Store{Dir: dir}.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Save(ctx, l, KindTab, model.TabArchive); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !(Store{Dir: dir}).Exists() {
		t.Fatalf("expected database file to exist")
	}

	l2, err := Store{Dir: dir}.Open(ctx)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l2.Close()
	var tab model.Tab
	if err := LoadInto(ctx, l2, KindTab, &tab); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if tab != model.TabArchive {
		t.Fatalf("expected archive; got %q", tab)
	}
}

func TestMemory_CopiesData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	c := Collection{Data: json.RawMessage(`"archive"`)}
	if err := m.SaveCollection(ctx, KindTab, c); err != nil {
		t.Fatalf("SaveCollection: %v", err)
	}
	c.Data[1] = 'X'

	got, err := m.LoadCollection(ctx, KindTab)
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if string(got.Data) != `"archive"` {
		t.Fatalf("stored data aliased caller buffer: %s", got.Data)
	}
	if m.Saves(KindTab) != 1 {
		t.Fatalf("expected one save; got %d", m.Saves(KindTab))
	}
}

type failingRepo struct{ err error }

func (f failingRepo) LoadCollection(context.Context, Kind) (Collection, error) {
	return Collection{}, f.err
}

func (f failingRepo) SaveCollection(context.Context, Kind, Collection) error { return f.err }

func TestLoadInto_WrapsBackendErrors(t *testing.T) {
	boom := errors.New("boom")
	var tasks []model.Task
	err := LoadInto(context.Background(), failingRepo{err: boom}, KindTasks, &tasks)
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistError; got %T %v", err, err)
	}
	if pe.Kind != KindTasks || pe.Op != "load" || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %+v", pe)
	}
}

func TestDecode_NullUsesDefault(t *testing.T) {
	var lists []model.List
	if err := Decode(Collection{Kind: KindLists, Data: json.RawMessage("null")}, &lists); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if lists == nil {
		t.Fatalf("expected empty non-nil slice")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("users"); err == nil {
		t.Fatalf("expected error")
	}
}
