package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lista-cli/internal/model"
)

const (
	dirName        = ".lista"
	sqliteFileName = "lista.sqlite"
)

// Kind names one persisted collection. Each kind is saved and loaded as a whole snapshot.
type Kind string

const (
	KindTasks       Kind = "tasks"
	KindLists       Kind = "lists"
	KindTab         Kind = "tab-selection"
	KindSort        Kind = "sort-preference"
	KindExpansion   Kind = "expansion-state"
	KindStorageMode Kind = "storage-mode-preference"
)

// Kinds lists every collection kind in load order.
var Kinds = []Kind{KindTasks, KindLists, KindTab, KindSort, KindExpansion, KindStorageMode}

func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown collection kind: %q", s)
}

// Collection is one persisted snapshot. Data is the JSON encoding of the kind's value.
type Collection struct {
	Kind      Kind            `json:"kind"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Repository is the persistence boundary. A collection that was never saved loads as the
// kind's default. Saves replace the whole collection and may be repeated.
type Repository interface {
	LoadCollection(ctx context.Context, kind Kind) (Collection, error)
	SaveCollection(ctx context.Context, kind Kind, c Collection) error
}

// DefaultCollection returns what a repository yields for a kind that was never saved.
func DefaultCollection(kind Kind) Collection {
	var v any
	switch kind {
	case KindTasks:
		v = []model.Task{}
	case KindLists:
		v = []model.List{}
	case KindTab:
		v = model.TabTodos
	case KindSort:
		v = model.DefaultSort()
	case KindExpansion:
		v = model.Expansion{Mode: model.ExpandNone}
	case KindStorageMode:
		v = model.StorageLocal
	default:
		v = nil
	}
	b, _ := json.Marshal(v)
	return Collection{Kind: kind, Data: b}
}

// Encode snapshots v as a collection of the given kind.
func Encode(kind Kind, v any) (Collection, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Collection{}, fmt.Errorf("encode %s: %w", kind, err)
	}
	return Collection{Kind: kind, Data: b, UpdatedAt: time.Now().UTC()}, nil
}

// Decode unmarshals c into v. Empty data decodes as the kind's default.
func Decode(c Collection, v any) error {
	data := c.Data
	if len(strings.TrimSpace(string(data))) == 0 || string(data) == "null" {
		data = DefaultCollection(c.Kind).Data
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", c.Kind, err)
	}
	return nil
}

// LoadInto loads kind from repo and decodes it into v.
func LoadInto(ctx context.Context, repo Repository, kind Kind, v any) error {
	c, err := repo.LoadCollection(ctx, kind)
	if err != nil {
		return &PersistError{Kind: kind, Op: "load", Err: err}
	}
	if c.Kind == "" {
		c.Kind = kind
	}
	return Decode(c, v)
}

// Save encodes v and saves it under kind.
func Save(ctx context.Context, repo Repository, kind Kind, v any) error {
	c, err := Encode(kind, v)
	if err != nil {
		return err
	}
	if err := repo.SaveCollection(ctx, kind, c); err != nil {
		return &PersistError{Kind: kind, Op: "save", Err: err}
	}
	return nil
}

// Store locates a workspace directory. The local SQLite backend lives inside it.
type Store struct {
	Dir string
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("workspace name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid workspace name: %q", name)
	}
	return name, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// SQLitePath is where a local workspace keeps its collections.
func (s Store) SQLitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Exists reports whether the workspace has been initialized.
func (s Store) Exists() bool {
	_, err := os.Stat(s.SQLitePath())
	return err == nil
}
