package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"lista-cli/internal/model"
	"lista-cli/internal/store"

	"github.com/google/go-cmp/cmp"
	firestore "google.golang.org/api/firestore/v1"
)

// fakeDocs serves Get and Patch for documents, keyed by the path after /documents/.
type fakeDocs struct {
	mu     sync.Mutex
	docs   map[string]firestore.Document
	status int
	delay  time.Duration
	paths  []string
}

func (f *fakeDocs) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	status, delay := f.status, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		writeError(w, status)
		return
	}
	_, key, ok := strings.Cut(r.URL.Path, "/documents/")
	if !ok {
		writeError(w, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		doc, ok := f.docs[key]
		if !ok {
			writeError(w, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	case http.MethodPatch:
		var doc firestore.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		f.docs[key] = doc
		_ = json.NewEncoder(w).Encode(doc)
	default:
		writeError(w, http.StatusMethodNotAllowed)
	}
}

func writeError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": http.StatusText(code)},
	})
}

func newTestBackend(t *testing.T, fake *fakeDocs, timeout time.Duration) *Backend {
	t.Helper()
	if fake.docs == nil {
		fake.docs = map[string]firestore.Document{}
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	b, err := NewWithHTTPClient(context.Background(), srv.Client(), Options{
		Project:   "lista-test",
		Principal: "uid-1",
		Endpoint:  srv.URL,
		Timeout:   timeout,
	})
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return b
}

func TestBackend_MissingDocumentLoadsDefault(t *testing.T) {
	b := newTestBackend(t, &fakeDocs{}, time.Second)

	var spec model.SortSpec
	if err := store.LoadInto(context.Background(), b, store.KindSort, &spec); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if spec != model.DefaultSort() {
		t.Fatalf("expected default sort; got %+v", spec)
	}
}

func TestBackend_SaveThenLoad(t *testing.T) {
	fake := &fakeDocs{}
	b := newTestBackend(t, fake, time.Second)
	ctx := context.Background()

	want := []model.List{{ID: "list-1", Title: "Packing", Type: model.ListOrdered, Priority: 1, Items: []model.ListItem{{ID: "item-1", Content: "socks"}}}}
	if err := store.Save(ctx, b, store.KindLists, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var got []model.List
	if err := store.LoadInto(ctx, b, store.KindLists, &got); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.paths) == 0 || !strings.Contains(fake.paths[0], "/users/uid-1/collections/lists") {
		t.Fatalf("unexpected document paths: %v", fake.paths)
	}
}

func TestBackend_AuthErrorsAreFriendly(t *testing.T) {
	b := newTestBackend(t, &fakeDocs{status: http.StatusUnauthorized}, time.Second)
	_, err := b.LoadCollection(context.Background(), store.KindTasks)
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth; got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected the HTTP status to survive wrapping; got %v", err)
	}
}

func TestBackend_SaveNotFoundKeepsCause(t *testing.T) {
	b := newTestBackend(t, &fakeDocs{status: http.StatusNotFound}, time.Second)
	err := b.SaveCollection(context.Background(), store.KindTab, store.Collection{Data: []byte(`"todos"`)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound; got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected the HTTP status to survive wrapping; got %v", err)
	}
}

func TestBackend_TimesOut(t *testing.T) {
	b := newTestBackend(t, &fakeDocs{delay: time.Second}, 30*time.Millisecond)
	err := b.SaveCollection(context.Background(), store.KindTab, store.Collection{Data: []byte(`"todos"`)})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout; got %v", err)
	}
}

func TestNew_RequiresPrincipal(t *testing.T) {
	_, err := NewWithHTTPClient(context.Background(), http.DefaultClient, Options{Project: "p"})
	if !errors.Is(err, ErrNoPrincipal) {
		t.Fatalf("expected ErrNoPrincipal; got %v", err)
	}
	_, err = New(context.Background(), Options{Principal: "u"})
	if !errors.Is(err, ErrNoProject) {
		t.Fatalf("expected ErrNoProject; got %v", err)
	}
}
