// Package session owns the in-memory working set of a workspace.
//
// Mutations apply immediately under a lock and are persisted by a single background
// worker in the order they happened. Completing or archiving something leaves it in place
// for a configurable delay before the collection is re-ranked; any other structural change
// to the same collection re-ranks at once and supersedes the pending commit.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"lista-cli/internal/expand"
	"lista-cli/internal/filter"
	"lista-cli/internal/logging"
	"lista-cli/internal/model"
	"lista-cli/internal/mutate"
	"lista-cli/internal/schedule"
	"lista-cli/internal/sorting"
	"lista-cli/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Repo holds tasks, lists and view preferences.
	Repo store.Repository
	// Local holds the storage-mode preference. It defaults to Repo.
	Local store.Repository

	// Author is recorded on new entities and in task update logs.
	Author string

	// RenormalizeDelay postpones re-ranking after completion and archive toggles.
	RenormalizeDelay time.Duration

	// PersistExpansion saves expansion changes under store.KindExpansion.
	PersistExpansion bool

	Sort sorting.Options

	Logger *zap.Logger

	// OnChange is called after any in-memory change, including deferred re-ranking.
	OnChange func(Change)
	// OnError is called for every failed save.
	OnError func(error)

	// Now overrides the clock.
	Now func() time.Time
}

// Change names the collection that changed.
type Change struct {
	Kind store.Kind
}

type Prefs struct {
	Tab         model.Tab         `json:"tab"`
	Sort        model.SortSpec    `json:"sort"`
	StorageMode model.StorageMode `json:"storageMode"`
	Expansion   model.Expansion   `json:"expansion"`
}

type Session struct {
	opts Options
	log  *zap.Logger

	mu    sync.Mutex
	state store.State
	tab   model.Tab
	sort  model.SortSpec
	mode  model.StorageMode

	expansion expand.State

	sched   *schedule.Scheduler
	persist *persister

	errMu sync.Mutex
	errs  []error
}

// Open loads every collection kind concurrently and starts the persistence worker.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Repo == nil {
		return nil, errors.New("session: nil repository")
	}
	if opts.Local == nil {
		opts.Local = opts.Repo
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	log := logging.OrNop(opts.Logger).Named("session")

	var (
		st   store.State
		tab  model.Tab
		spec model.SortSpec
		exp  model.Expansion
		mode model.StorageMode
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return store.LoadInto(gctx, opts.Repo, store.KindTasks, &st.Tasks) })
	g.Go(func() error { return store.LoadInto(gctx, opts.Repo, store.KindLists, &st.Lists) })
	g.Go(func() error { return store.LoadInto(gctx, opts.Repo, store.KindTab, &tab) })
	g.Go(func() error { return store.LoadInto(gctx, opts.Repo, store.KindSort, &spec) })
	g.Go(func() error { return store.LoadInto(gctx, opts.Repo, store.KindExpansion, &exp) })
	g.Go(func() error { return store.LoadInto(gctx, opts.Local, store.KindStorageMode, &mode) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if tab == "" {
		tab = model.TabTodos
	}
	if spec.Field == "" {
		spec = model.DefaultSort()
	}
	if spec.Direction == "" {
		spec.Direction = model.Asc
	}
	if mode == "" {
		mode = model.StorageLocal
	}

	s := &Session{
		opts:  opts,
		log:   log,
		state: st,
		tab:   tab,
		sort:  spec,
		mode:  mode,
		sched: schedule.New(),
	}
	s.expansion.Restore(exp)
	s.persist = newPersister(log, s.report)
	log.Debug("session opened",
		zap.Int("tasks", len(st.Tasks)),
		zap.Int("lists", len(st.Lists)),
		zap.String("tab", string(tab)),
		zap.String("sort", spec.String()),
	)
	return s, nil
}

// Close runs pending deferred work, drains the save queue and returns every save error
// reported during the session.
func (s *Session) Close(ctx context.Context) error {
	s.sched.Flush()
	s.sched.Stop()
	if err := s.persist.close(ctx); err != nil {
		return errors.Join(append(s.Errors(), err)...)
	}
	return errors.Join(s.Errors()...)
}

// Sync waits until every save enqueued so far has been attempted.
func (s *Session) Sync(ctx context.Context) error {
	return s.persist.wait(ctx)
}

// Flush runs pending deferred re-ranking now.
func (s *Session) Flush() {
	s.sched.Flush()
}

// Errors returns the save errors reported so far.
func (s *Session) Errors() []error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return append([]error(nil), s.errs...)
}

func (s *Session) report(err error) {
	s.log.Warn("persistence failed", zap.Error(err))
	s.errMu.Lock()
	s.errs = append(s.errs, err)
	s.errMu.Unlock()
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}

func (s *Session) notify(kind store.Kind) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(Change{Kind: kind})
	}
}

func (s *Session) stamp() mutate.Stamp {
	return mutate.Stamp{Who: s.opts.Author, At: s.opts.Now()}
}

// enqueueLocked snapshots v now and queues its save. Callers hold s.mu, which keeps
// snapshots in mutation order.
func (s *Session) enqueueLocked(repo store.Repository, kind store.Kind, v any) {
	c, err := store.Encode(kind, v)
	if err != nil {
		s.report(&store.PersistError{Kind: kind, Op: "encode", Err: err})
		return
	}
	c.UpdatedAt = s.opts.Now()
	if !s.persist.enqueue(job{repo: repo, kind: kind, c: c}) {
		s.log.Debug("save dropped after close", zap.String("kind", string(kind)))
	}
}

// saveTasksLocked re-ranks both tabs, supersedes any pending deferred commit and queues
// the snapshot.
func (s *Session) saveTasksLocked() {
	s.sched.CancelKey(string(store.KindTasks))
	mutate.NormalizeTasks(&s.state)
	s.enqueueLocked(s.opts.Repo, store.KindTasks, s.state.Tasks)
}

func (s *Session) saveListsLocked() {
	s.sched.CancelKey(string(store.KindLists))
	mutate.NormalizeLists(&s.state)
	s.enqueueLocked(s.opts.Repo, store.KindLists, s.state.Lists)
}

// deferCommit schedules the re-rank and save of kind. It must be called without s.mu
// held: a zero delay commits inline.
func (s *Session) deferCommit(kind store.Kind) {
	delay := s.opts.RenormalizeDelay
	s.sched.Schedule(string(kind), delay, func() {
		s.mu.Lock()
		switch kind {
		case store.KindTasks:
			mutate.NormalizeTasks(&s.state)
			s.enqueueLocked(s.opts.Repo, kind, s.state.Tasks)
		case store.KindLists:
			mutate.NormalizeLists(&s.state)
			s.enqueueLocked(s.opts.Repo, kind, s.state.Lists)
		}
		s.mu.Unlock()
		s.log.Debug("deferred commit", zap.String("kind", string(kind)), zap.Duration("delay", delay))
		s.notify(kind)
	})
}

// CommitPending reports whether a deferred re-rank of kind is waiting.
func (s *Session) CommitPending(kind store.Kind) bool {
	return s.sched.Pending(string(kind))
}

// Snapshot returns a deep copy of the working set.
func (s *Session) Snapshot() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Tasks returns the filtered and sorted view. An empty q.Tab means the selected tab.
func (s *Session) Tasks(q filter.Query) []model.Task {
	s.mu.Lock()
	if q.Tab == "" {
		q.Tab = s.tab
	}
	tasks := filter.Tasks(s.state.Clone().Tasks, q)
	spec := s.sort
	s.mu.Unlock()
	return sorting.Tasks(tasks, spec, s.opts.Sort)
}

func (s *Session) Lists(q filter.Query) []model.List {
	s.mu.Lock()
	lists := filter.Lists(s.state.Clone().Lists, q)
	spec := s.sort
	s.mu.Unlock()
	return sorting.Lists(lists, spec, s.opts.Sort)
}

func (s *Session) Task(id string) (model.Task, error) {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.FindTask(id)
	if !ok {
		return model.Task{}, mutate.NotFoundError{Kind: "task", ID: id}
	}
	c := store.State{Tasks: []model.Task{*t}}
	return c.Clone().Tasks[0], nil
}

func (s *Session) List(id string) (model.List, error) {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.state.FindList(id)
	if !ok {
		return model.List{}, mutate.NotFoundError{Kind: "list", ID: id}
	}
	c := store.State{Lists: []model.List{*l}}
	return c.Clone().Lists[0], nil
}

// TaskLabels returns the distinct labels across all tasks.
func (s *Session) TaskLabels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Labels(s.state.Tasks)
}

func (s *Session) ListLabels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.ListLabels(s.state.Lists)
}
