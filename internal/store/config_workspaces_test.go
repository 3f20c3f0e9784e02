package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListWorkspaces_SortedDirsOnly(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("LISTA_CONFIG_DIR", cfgDir)

	got, err := ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces (empty): %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}

	for _, name := range []string{"work", "home"} {
		dir, err := WorkspaceDir(name)
		if err != nil {
			t.Fatalf("WorkspaceDir(%q): %v", name, err)
		}
		if err := (Store{Dir: dir}).Ensure(); err != nil {
			t.Fatalf("ensure %s: %v", dir, err)
		}
	}
	// Stray files are not workspaces.
	if err := os.WriteFile(filepath.Join(cfgDir, "workspaces", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	got, err = ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if diff := cmp.Diff([]string{"home", "work"}, got); diff != "" {
		t.Fatalf("workspaces (-want +got):\n%s", diff)
	}
}

func TestNormalizeWorkspaceName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: " home ", want: "home"},
		{in: "", wantErr: true},
		{in: "a/b", wantErr: true},
		{in: `a\b`, wantErr: true},
		{in: "..", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeWorkspaceName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NormalizeWorkspaceName(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("NormalizeWorkspaceName(%q) = %q, %v", tt.in, got, err)
		}
	}
}
