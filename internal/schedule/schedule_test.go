package schedule

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callback")
		return ""
	}
}

func TestSchedule_RunsAfterDelay(t *testing.T) {
	s := New()
	defer s.Stop()

	ch := make(chan string, 1)
	s.Schedule("tasks", 10*time.Millisecond, func() { ch <- "ran" })
	if got := waitFor(t, ch); got != "ran" {
		t.Fatalf("unexpected: %q", got)
	}
	if s.Pending("tasks") {
		t.Fatalf("expected nothing pending after firing")
	}
}

func TestSchedule_SameKeyReplacesPending(t *testing.T) {
	s := New()
	defer s.Stop()

	ch := make(chan string, 2)
	s.Schedule("tasks", 20*time.Millisecond, func() { ch <- "first" })
	s.Schedule("tasks", 20*time.Millisecond, func() { ch <- "second" })
	if got := waitFor(t, ch); got != "second" {
		t.Fatalf("expected replacement to run; got %q", got)
	}
	select {
	case v := <-ch:
		t.Fatalf("replaced callback ran: %q", v)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestToken_CancelPreventsRun(t *testing.T) {
	s := New()
	defer s.Stop()

	var ran atomic.Bool
	tok := s.Schedule("lists", 20*time.Millisecond, func() { ran.Store(true) })
	if !tok.Cancel() {
		t.Fatalf("expected cancel to drop pending callback")
	}
	if tok.Cancel() {
		t.Fatalf("second cancel should report nothing dropped")
	}
	time.Sleep(60 * time.Millisecond)
	if ran.Load() {
		t.Fatalf("cancelled callback ran")
	}
}

func TestToken_StaleTokenDoesNotCancelNewerCallback(t *testing.T) {
	s := New()
	defer s.Stop()

	old := s.Schedule("tasks", time.Hour, func() {})
	s.Schedule("tasks", time.Hour, func() {})
	if old.Cancel() {
		t.Fatalf("stale token cancelled the newer callback")
	}
	if !s.Pending("tasks") {
		t.Fatalf("newer callback should still be pending")
	}
	if !s.CancelKey("tasks") {
		t.Fatalf("CancelKey should drop the pending callback")
	}
}

func TestSchedule_ZeroDelayRunsInline(t *testing.T) {
	s := New()
	defer s.Stop()

	ran := false
	tok := s.Schedule("tasks", 0, func() { ran = true })
	if !ran {
		t.Fatalf("expected inline run")
	}
	if tok.Cancel() {
		t.Fatalf("zero token should cancel nothing")
	}
}

func TestFlush_RunsPendingInKeyOrder(t *testing.T) {
	s := New()
	defer s.Stop()

	var mu sync.Mutex
	var order []string
	record := func(k string) func() {
		return func() {
			mu.Lock()
			order = append(order, k)
			mu.Unlock()
		}
	}
	s.Schedule("tasks", time.Hour, record("tasks"))
	s.Schedule("lists", time.Hour, record("lists"))
	s.Flush()

	if diff := cmp.Diff([]string{"lists", "tasks"}, order); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if s.Pending("tasks") || s.Pending("lists") {
		t.Fatalf("flush left callbacks pending")
	}
}

func TestStop_DropsPendingAndWaitsForRunning(t *testing.T) {
	s := New()

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	s.Schedule("slow", time.Millisecond, func() {
		close(started)
		<-release
		finished.Store(true)
	})
	var dropped atomic.Bool
	s.Schedule("later", time.Hour, func() { dropped.Store(true) })

	<-started
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	s.Stop()
	if !finished.Load() {
		t.Fatalf("Stop returned before running callback finished")
	}
	if dropped.Load() {
		t.Fatalf("Stop ran a pending callback")
	}

	var after atomic.Bool
	s.Schedule("tasks", 0, func() { after.Store(true) })
	if after.Load() {
		t.Fatalf("Schedule after Stop should do nothing")
	}
}
