package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lista-cli/internal/model"
)

const backupVersion = 1

// Backup is a portable snapshot of every collection of a workspace.
type Backup struct {
	Version     int          `json:"version"`
	ExportedAt  time.Time    `json:"exportedAt"`
	Collections []Collection `json:"collections"`
}

// Export reads every kind. The storage-mode preference comes from local, the rest from repo.
func Export(ctx context.Context, repo, local Repository, now time.Time) (*Backup, error) {
	b := &Backup{Version: backupVersion, ExportedAt: now.UTC()}
	for _, kind := range Kinds {
		src := repo
		if kind == KindStorageMode {
			src = local
		}
		c, err := src.LoadCollection(ctx, kind)
		if err != nil {
			return nil, &PersistError{Kind: kind, Op: "load", Err: err}
		}
		c.Kind = kind
		b.Collections = append(b.Collections, c)
	}
	return b, nil
}

// Validate checks that every collection decodes and that tasks and lists carry no
// unrepairable problems. Rank gaps are accepted; `lista doctor --fix` repairs them.
func (b *Backup) Validate() error {
	if b.Version != backupVersion {
		return fmt.Errorf("backup: unsupported version %d", b.Version)
	}
	var st State
	seen := map[Kind]bool{}
	for _, c := range b.Collections {
		kind, err := ParseKind(string(c.Kind))
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		if seen[kind] {
			return fmt.Errorf("backup: duplicate collection %q", kind)
		}
		seen[kind] = true

		var v any
		switch kind {
		case KindTasks:
			v = &st.Tasks
		case KindLists:
			v = &st.Lists
		case KindTab:
			v = new(model.Tab)
		case KindSort:
			v = new(model.SortSpec)
		case KindExpansion:
			v = new(model.Expansion)
		case KindStorageMode:
			v = new(model.StorageMode)
		}
		if err := Decode(c, v); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}

	var problems []error
	for _, it := range Doctor(&st).Issues {
		if it.Level == DoctorIssueLevelError && !it.Fixable {
			problems = append(problems, errors.New(it.Message))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("backup: %w", errors.Join(problems...))
	}
	return nil
}

// Import validates b and then saves each of its collections, replacing what is stored.
// Kinds missing from the backup are left alone.
func Import(ctx context.Context, repo, local Repository, b *Backup) error {
	if err := b.Validate(); err != nil {
		return err
	}
	for _, c := range b.Collections {
		dst := repo
		if c.Kind == KindStorageMode {
			dst = local
		}
		if err := dst.SaveCollection(ctx, c.Kind, c); err != nil {
			return &PersistError{Kind: c.Kind, Op: "import", Err: err}
		}
	}
	return nil
}

func WriteBackup(path string, b *Backup) error {
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "" || path == "." {
		return errors.New("backup: missing path")
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, append(data, '\n'), 0o600)
}

func ReadBackup(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("backup: parse %s: %w", path, err)
	}
	return &b, nil
}
