package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("LISTA_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	d, err := cfg.RenormalizeDelay(false)
	if err != nil || d != 0 {
		t.Fatalf("one-shot delay = %v, %v", d, err)
	}
	d, err = cfg.RenormalizeDelay(true)
	if err != nil || d != DefaultInteractiveRenormalizeDelay {
		t.Fatalf("interactive delay = %v, %v", d, err)
	}
	to, err := cfg.RemoteTimeout()
	if err != nil || to != 10*time.Second {
		t.Fatalf("remote timeout = %v, %v", to, err)
	}
}

func TestSaveConfig_RoundTripsTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTA_CONFIG_DIR", dir)

	cfg := &GlobalConfig{
		CurrentWorkspace: "home",
		Author:           "anna",
		Behavior:         BehaviorConfig{InteractiveRenormalizeDelay: "250ms"},
		Sort:             SortConfig{StrictCreatedAt: true, Language: "sv"},
		Remote:           RemoteConfig{Project: "lista-dev", Principal: "uid-1"},
	}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(b), "strict_created_at = true") {
		t.Fatalf("expected TOML keys in file; got:\n%s", b)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.CurrentWorkspace != "home" || got.Author != "anna" || !got.Sort.StrictCreatedAt || got.Remote.Principal != "uid-1" {
		t.Fatalf("unexpected config: %+v", got)
	}
	d, err := got.RenormalizeDelay(true)
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("interactive delay = %v, %v", d, err)
	}
}

func TestLoadConfig_RejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTA_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[behavior]\nrenormalize_delay = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := cfg.RenormalizeDelay(false); err == nil {
		t.Fatalf("expected invalid duration error")
	}
}

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	t.Setenv("LISTA_CONFIG_DIR", t.TempDir())

	const n = 32
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := SaveConfig(&GlobalConfig{CurrentWorkspace: fmt.Sprintf("ws-%d", i)}); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig after concurrent writes: %v", err)
	}
	if !strings.HasPrefix(cfg.CurrentWorkspace, "ws-") {
		t.Fatalf("unexpected workspace after concurrent writes: %q", cfg.CurrentWorkspace)
	}
}

func TestWorkspaceDir_UnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LISTA_CONFIG_DIR", dir)
	got, err := WorkspaceDir("home")
	if err != nil {
		t.Fatalf("WorkspaceDir: %v", err)
	}
	if want := filepath.Join(dir, "workspaces", "home"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if _, err := WorkspaceDir("../escape"); err == nil {
		t.Fatalf("expected invalid name error")
	}
}
