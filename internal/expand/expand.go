// Package expand tracks which row of a view shows its details.
package expand

import (
	"strings"
	"sync"

	"lista-cli/internal/model"
)

// State is either nothing expanded, exactly one id expanded, or everything expanded.
// The zero value has nothing expanded. It is safe for concurrent use.
type State struct {
	mu   sync.Mutex
	mode model.ExpansionMode
	id   string
}

func (s *State) Expand(id string) {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.mode, s.id = model.ExpandNone, ""
		return
	}
	s.mode, s.id = model.ExpandOne, id
}

// Toggle collapses id when it is the single expanded row and expands it otherwise.
// It returns whether id is expanded afterwards.
func (s *State) Toggle(id string) bool {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == model.ExpandOne && s.id == id {
		s.mode, s.id = model.ExpandNone, ""
		return false
	}
	if id == "" {
		return s.mode == model.ExpandAll
	}
	s.mode, s.id = model.ExpandOne, id
	return true
}

func (s *State) ExpandAll() {
	s.mu.Lock()
	s.mode, s.id = model.ExpandAll, ""
	s.mu.Unlock()
}

func (s *State) CollapseAll() {
	s.mu.Lock()
	s.mode, s.id = model.ExpandNone, ""
	s.mu.Unlock()
}

func (s *State) IsExpanded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.mode {
	case model.ExpandAll:
		return true
	case model.ExpandOne:
		return s.id == id
	default:
		return false
	}
}

func (s *State) Snapshot() model.Expansion {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.mode
	if mode == "" {
		mode = model.ExpandNone
	}
	return model.Expansion{Mode: mode, ID: s.id}
}

// Restore replaces the state with a snapshot. Unknown modes, and mode "one" without an
// id, restore as nothing expanded.
func (s *State) Restore(e model.Expansion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case e.Mode == model.ExpandAll:
		s.mode, s.id = model.ExpandAll, ""
	case e.Mode == model.ExpandOne && strings.TrimSpace(e.ID) != "":
		s.mode, s.id = model.ExpandOne, strings.TrimSpace(e.ID)
	default:
		s.mode, s.id = model.ExpandNone, ""
	}
}
