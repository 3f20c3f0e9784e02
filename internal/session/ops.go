package session

import (
	"time"

	"lista-cli/internal/expand"
	"lista-cli/internal/model"
	"lista-cli/internal/mutate"
	"lista-cli/internal/rank"
	"lista-cli/internal/store"
)

// Structural task and list changes re-rank and save immediately. Completion and archive
// toggles flip in place and defer the re-rank through deferCommit.

func (s *Session) AddTask(in mutate.NewTask) (model.Task, error) {
	res, err := s.taskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.AddTask(st, s.stamp(), in)
	})
	return res.Task, err
}

func (s *Session) EditTask(id string, e mutate.TaskEdit) (mutate.TaskResult, error) {
	return s.taskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.EditTask(st, s.stamp(), id, e)
	})
}

func (s *Session) DeleteTask(id string) (mutate.TaskResult, error) {
	return s.taskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.DeleteTask(st, id)
	})
}

func (s *Session) MoveTask(id string, position int) (mutate.TaskResult, error) {
	return s.taskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.MoveTask(st, id, position)
	})
}

func (s *Session) MoveTaskDirection(id string, dir rank.Direction) (mutate.TaskResult, error) {
	return s.taskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.MoveTaskDirection(st, id, dir)
	})
}

// SetTaskCompleted flips completion now; the task keeps its place until the deferred
// re-rank runs.
func (s *Session) SetTaskCompleted(id string, completed bool) (mutate.TaskResult, error) {
	return s.deferredTaskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.SetTaskCompleted(st, s.stamp(), id, completed)
	})
}

func (s *Session) SetTaskArchived(id string, archived bool) (mutate.TaskResult, error) {
	return s.deferredTaskOp(func(st *store.State) (mutate.TaskResult, error) {
		return mutate.SetTaskArchived(st, s.stamp(), id, archived)
	})
}

func (s *Session) AddSubtask(taskID, title string) (mutate.SubtaskResult, error) {
	return s.subtaskOp(func(st *store.State) (mutate.SubtaskResult, error) {
		return mutate.AddSubtask(st, s.stamp(), taskID, title)
	})
}

func (s *Session) SetSubtaskCompleted(taskID, subtaskID string, completed bool) (mutate.SubtaskResult, error) {
	return s.subtaskOp(func(st *store.State) (mutate.SubtaskResult, error) {
		return mutate.SetSubtaskCompleted(st, s.stamp(), taskID, subtaskID, completed)
	})
}

func (s *Session) DeleteSubtask(taskID, subtaskID string) (mutate.SubtaskResult, error) {
	return s.subtaskOp(func(st *store.State) (mutate.SubtaskResult, error) {
		return mutate.DeleteSubtask(st, s.stamp(), taskID, subtaskID)
	})
}

func (s *Session) AddList(in mutate.NewList) (model.List, error) {
	res, err := s.listOp(func(st *store.State) (mutate.ListResult, error) {
		return mutate.AddList(st, s.stamp(), in)
	})
	return res.List, err
}

func (s *Session) EditList(id string, e mutate.ListEdit) (mutate.ListResult, error) {
	return s.listOp(func(st *store.State) (mutate.ListResult, error) {
		return mutate.EditList(st, s.stamp(), id, e)
	})
}

func (s *Session) DeleteList(id string) (mutate.ListResult, error) {
	return s.listOp(func(st *store.State) (mutate.ListResult, error) {
		return mutate.DeleteList(st, id)
	})
}

func (s *Session) MoveList(id string, position int) (mutate.ListResult, error) {
	return s.listOp(func(st *store.State) (mutate.ListResult, error) {
		return mutate.MoveList(st, id, position)
	})
}

func (s *Session) MoveListDirection(id string, dir rank.Direction) (mutate.ListResult, error) {
	return s.listOp(func(st *store.State) (mutate.ListResult, error) {
		return mutate.MoveListDirection(st, id, dir)
	})
}

func (s *Session) AddListItem(listID, content string) (mutate.ItemResult, error) {
	return s.itemOp(func(st *store.State) (mutate.ItemResult, error) {
		return mutate.AddListItem(st, s.stamp(), listID, content)
	})
}

func (s *Session) SetListItemCompleted(listID, itemID string, completed bool) (mutate.ItemResult, error) {
	return s.itemOp(func(st *store.State) (mutate.ItemResult, error) {
		return mutate.SetListItemCompleted(st, s.stamp(), listID, itemID, completed)
	})
}

func (s *Session) EditListItem(listID, itemID, content string) (mutate.ItemResult, error) {
	return s.itemOp(func(st *store.State) (mutate.ItemResult, error) {
		return mutate.EditListItem(st, s.stamp(), listID, itemID, content)
	})
}

func (s *Session) DeleteListItem(listID, itemID string) (mutate.ItemResult, error) {
	return s.itemOp(func(st *store.State) (mutate.ItemResult, error) {
		return mutate.DeleteListItem(st, s.stamp(), listID, itemID)
	})
}

// taskLocked returns the current copy of a task after normalization, or fallback when it
// no longer exists.
func (s *Session) taskLocked(id string, fallback model.Task) model.Task {
	if t, ok := s.state.FindTask(id); ok {
		return *t
	}
	return fallback
}

func (s *Session) listLocked(id string, fallback model.List) model.List {
	if l, ok := s.state.FindList(id); ok {
		return *l
	}
	return fallback
}

func (s *Session) taskOp(fn func(*store.State) (mutate.TaskResult, error)) (mutate.TaskResult, error) {
	s.mu.Lock()
	res, err := fn(&s.state)
	if err == nil && res.Changed {
		s.saveTasksLocked()
		res.Task = s.taskLocked(res.Task.ID, res.Task)
	}
	s.mu.Unlock()
	if err == nil && res.Changed {
		s.notify(store.KindTasks)
	}
	return res, err
}

func (s *Session) deferredTaskOp(fn func(*store.State) (mutate.TaskResult, error)) (mutate.TaskResult, error) {
	s.mu.Lock()
	res, err := fn(&s.state)
	s.mu.Unlock()
	if err != nil || !res.Changed {
		return res, err
	}
	s.notify(store.KindTasks)
	s.deferCommit(store.KindTasks)
	return res, nil
}

// subtaskOp saves without re-ranking: subtasks have no priority of their own.
func (s *Session) subtaskOp(fn func(*store.State) (mutate.SubtaskResult, error)) (mutate.SubtaskResult, error) {
	s.mu.Lock()
	res, err := fn(&s.state)
	if err == nil && res.Changed {
		s.enqueueLocked(s.opts.Repo, store.KindTasks, s.state.Tasks)
	}
	s.mu.Unlock()
	if err == nil && res.Changed {
		s.notify(store.KindTasks)
	}
	return res, err
}

func (s *Session) listOp(fn func(*store.State) (mutate.ListResult, error)) (mutate.ListResult, error) {
	s.mu.Lock()
	res, err := fn(&s.state)
	if err == nil && res.Changed {
		s.saveListsLocked()
		res.List = s.listLocked(res.List.ID, res.List)
	}
	s.mu.Unlock()
	if err == nil && res.Changed {
		s.notify(store.KindLists)
	}
	return res, err
}

// itemOp saves item edits at once. When the edit flips whether the list counts as
// completed, the re-rank is deferred like a task completion.
func (s *Session) itemOp(fn func(*store.State) (mutate.ItemResult, error)) (mutate.ItemResult, error) {
	s.mu.Lock()
	res, err := fn(&s.state)
	deferred := err == nil && res.Changed && res.DoneChanged
	if err == nil && res.Changed && !deferred {
		s.enqueueLocked(s.opts.Repo, store.KindLists, s.state.Lists)
	}
	s.mu.Unlock()
	if err != nil || !res.Changed {
		return res, err
	}
	s.notify(store.KindLists)
	if deferred {
		s.deferCommit(store.KindLists)
	}
	return res, nil
}

// Prefs returns the current view preferences.
func (s *Session) Prefs() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Prefs{Tab: s.tab, Sort: s.sort, StorageMode: s.mode, Expansion: s.expansion.Snapshot()}
}

func (s *Session) SetTab(tab model.Tab) {
	s.mu.Lock()
	if s.tab == tab {
		s.mu.Unlock()
		return
	}
	s.tab = tab
	s.enqueueLocked(s.opts.Repo, store.KindTab, tab)
	s.mu.Unlock()
	s.notify(store.KindTab)
}

func (s *Session) SetSort(spec model.SortSpec) {
	if spec.Direction == "" {
		spec.Direction = model.Asc
	}
	s.mu.Lock()
	if s.sort == spec {
		s.mu.Unlock()
		return
	}
	s.sort = spec
	s.enqueueLocked(s.opts.Repo, store.KindSort, spec)
	s.mu.Unlock()
	s.notify(store.KindSort)
}

// SetStorageMode records the preferred backend in the local repository. It takes effect
// the next time a session is opened.
func (s *Session) SetStorageMode(mode model.StorageMode) {
	s.mu.Lock()
	if s.mode == mode {
		s.mu.Unlock()
		return
	}
	s.mode = mode
	s.enqueueLocked(s.opts.Local, store.KindStorageMode, mode)
	s.mu.Unlock()
	s.notify(store.KindStorageMode)
}

func (s *Session) IsExpanded(id string) bool {
	return s.expansion.IsExpanded(id)
}

func (s *Session) Expand(id string) {
	s.expansionOp(func(e *expand.State) { e.Expand(id) })
}

// Toggle flips the expansion of id and reports whether it is now expanded.
func (s *Session) Toggle(id string) bool {
	var expanded bool
	s.expansionOp(func(e *expand.State) { expanded = e.Toggle(id) })
	return expanded
}

func (s *Session) ExpandAll() {
	s.expansionOp(func(e *expand.State) { e.ExpandAll() })
}

func (s *Session) CollapseAll() {
	s.expansionOp(func(e *expand.State) { e.CollapseAll() })
}

func (s *Session) expansionOp(fn func(*expand.State)) {
	s.mu.Lock()
	before := s.expansion.Snapshot()
	fn(&s.expansion)
	after := s.expansion.Snapshot()
	changed := before != after
	if changed && s.opts.PersistExpansion {
		s.enqueueLocked(s.opts.Repo, store.KindExpansion, after)
	}
	s.mu.Unlock()
	if changed {
		s.notify(store.KindExpansion)
	}
}

// RenormalizeDelay is the configured defer window.
func (s *Session) RenormalizeDelay() time.Duration {
	return s.opts.RenormalizeDelay
}
