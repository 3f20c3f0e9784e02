package store

import (
	"strings"
	"testing"

	"lista-cli/internal/model"
)

func TestNewID_PrefixAndLength(t *testing.T) {
	id := NewID(PrefixTask)
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("expected task prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "task-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected suffix len %d, got %d (%q)", want, got, suffix)
	}
}

func TestNextID_Unique(t *testing.T) {
	st := &State{}
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := NextID(st, PrefixList)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		st.Lists = append(st.Lists, model.List{ID: id})
	}
}
