// Package schedule runs keyed deferred work: at most one pending callback per key, each
// cancellable through the token returned when it was scheduled.
package schedule

import (
	"slices"
	"sync"
	"time"
)

type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*entry
	seq     uint64
	stopped bool

	running sync.WaitGroup
}

type entry struct {
	seq   uint64
	timer *time.Timer
	fn    func()
}

// Token identifies one scheduled callback. The zero Token refers to nothing.
type Token struct {
	s   *Scheduler
	key string
	seq uint64
}

func New() *Scheduler {
	return &Scheduler{pending: map[string]*entry{}}
}

// Schedule arranges for fn to run after delay on its own goroutine, replacing any callback
// still pending under key. A delay <= 0 runs fn before Schedule returns (after dropping the
// pending callback) and yields the zero Token. After Stop, Schedule does nothing.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) Token {
	if s == nil || fn == nil {
		return Token{}
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return Token{}
	}
	if e, ok := s.pending[key]; ok {
		e.timer.Stop()
		delete(s.pending, key)
	}
	if delay <= 0 {
		s.mu.Unlock()
		fn()
		return Token{}
	}
	s.seq++
	seq := s.seq
	e := &entry{seq: seq, fn: fn}
	e.timer = time.AfterFunc(delay, func() { s.fire(key, seq) })
	s.pending[key] = e
	s.mu.Unlock()
	return Token{s: s, key: key, seq: seq}
}

func (s *Scheduler) fire(key string, seq uint64) {
	s.mu.Lock()
	e, ok := s.pending[key]
	if !ok || e.seq != seq || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	e.fn()
}

// Cancel drops the callback if it has not started yet. It reports whether anything was
// dropped; a token superseded by a later Schedule on the same key cancels nothing.
func (t Token) Cancel() bool {
	if t.s == nil {
		return false
	}
	return t.s.cancel(t.key, t.seq)
}

// CancelKey drops whatever callback is pending under key.
func (s *Scheduler) CancelKey(key string) bool {
	if s == nil {
		return false
	}
	return s.cancel(key, 0)
}

func (s *Scheduler) cancel(key string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pending[key]
	if !ok || (seq != 0 && e.seq != seq) {
		return false
	}
	e.timer.Stop()
	delete(s.pending, key)
	return true
}

func (s *Scheduler) Pending(key string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Flush runs every pending callback now, on the calling goroutine, in key order.
func (s *Scheduler) Flush() {
	if s == nil {
		return
	}
	s.mu.Lock()
	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		e := s.pending[k]
		e.timer.Stop()
		fns = append(fns, e.fn)
		delete(s.pending, k)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stop drops pending callbacks without running them and waits for callbacks already
// running. Call Flush first to keep pending work.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.stopped = true
	for k, e := range s.pending {
		e.timer.Stop()
		delete(s.pending, k)
	}
	s.mu.Unlock()
	s.running.Wait()
}
