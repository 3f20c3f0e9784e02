package docs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopicsSortedWithTitles(t *testing.T) {
	var names []string
	for _, tp := range Topics() {
		if tp.Title == "" || tp.Markdown != "" {
			t.Fatalf("unexpected listing entry: %+v", tp)
		}
		names = append(names, tp.Name)
	}
	want := []string{"filters", "priorities", "sorting", "storage"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("topics (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	tp, ok := Get(" Sorting ")
	if !ok {
		t.Fatalf("expected sorting topic")
	}
	if tp.Name != "sorting" || tp.Title != "Sorting" || tp.Markdown == "" {
		t.Fatalf("unexpected topic: %+v", tp)
	}
	for _, name := range []string{"", "nope", "../docs", "sorting.md"} {
		if _, ok := Get(name); ok {
			t.Fatalf("expected %q to be unknown", name)
		}
	}
}
