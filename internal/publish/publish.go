package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/store"
)

type WriteOptions struct {
	IncludeArchived bool
	Overwrite       bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// Write renders st into toDir as index.md plus tasks/<id>.md and lists/<id>.md pages.
// It stops at the first error; files written before it are kept.
func Write(st *store.State, toDir string, opt WriteOptions) (WriteResult, error) {
	if st == nil {
		return WriteResult{}, errors.New("missing state")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	tasksDir := filepath.Join(toDir, "tasks")
	listsDir := filepath.Join(toDir, "lists")
	for _, d := range []string{tasksDir, listsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return WriteResult{}, err
		}
	}

	indexPath := filepath.Join(toDir, "index.md")
	index := RenderIndexMarkdown(st, RenderOptions{IncludeArchived: opt.IncludeArchived})
	if err := writeFile(indexPath, []byte(index), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written := []string{indexPath}

	for _, t := range st.Tasks {
		if t.Tab() == model.TabArchive && !opt.IncludeArchived {
			continue
		}
		p := filepath.Join(tasksDir, t.ID+".md")
		if err := writeFile(p, []byte(RenderTaskMarkdown(t)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	for _, l := range st.Lists {
		p := filepath.Join(listsDir, l.ID+".md")
		if err := writeFile(p, []byte(RenderListMarkdown(l)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
