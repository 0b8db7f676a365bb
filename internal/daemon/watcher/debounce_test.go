package watcher

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	wasActive := !f.stopped
	f.stopped = true
	return wasActive
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) afterFunc(d time.Duration, fn func()) stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func newFakeDebouncer(fn func()) (*Debouncer, *fakeScheduler) {
	sched := &fakeScheduler{}
	d := NewDebouncer(DefaultQuietPeriod, fn)
	d.afterFunc = sched.afterFunc
	return d, sched
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	calls := 0
	d, sched := newFakeDebouncer(func() { calls++ })

	for i := 0; i < 10; i++ {
		d.Trigger()
	}

	if len(sched.timers) != 10 {
		t.Fatalf("scheduled %d timers, want 10", len(sched.timers))
	}
	for i, timer := range sched.timers[:9] {
		if !timer.stopped {
			t.Errorf("timer %d not canceled by a later trigger", i)
		}
	}
	last := sched.timers[9]
	if last.stopped {
		t.Fatalf("last timer canceled")
	}
	if last.d != DefaultQuietPeriod {
		t.Errorf("quiet period = %v, want %v", last.d, DefaultQuietPeriod)
	}

	last.fn()
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestDebouncerIgnoresSupersededFire(t *testing.T) {
	calls := 0
	d, sched := newFakeDebouncer(func() { calls++ })

	d.Trigger()
	d.Trigger()

	// The first timer fired concurrently with the second Trigger.
	sched.timers[0].fn()
	if calls != 0 {
		t.Errorf("superseded timer invoked fn")
	}

	sched.timers[1].fn()
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestDebouncerStop(t *testing.T) {
	calls := 0
	d, sched := newFakeDebouncer(func() { calls++ })

	d.Trigger()
	d.Stop()
	d.Trigger()

	if len(sched.timers) != 1 {
		t.Fatalf("scheduled %d timers, want 1", len(sched.timers))
	}
	if !sched.timers[0].stopped {
		t.Errorf("Stop() did not cancel the pending timer")
	}
	sched.timers[0].fn()
	if calls != 0 {
		t.Errorf("fn called after Stop()")
	}
}

func TestDebouncerRealClock(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the real quiet period")
	}

	var calls atomic.Int32
	fired := make(chan time.Time, 10)
	d := NewDebouncer(DefaultQuietPeriod, func() {
		calls.Add(1)
		fired <- time.Now()
	})

	var lastTrigger time.Time
	for i := 0; i < 10; i++ {
		lastTrigger = time.Now()
		d.Trigger()
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case at := <-fired:
		if elapsed := at.Sub(lastTrigger); elapsed < DefaultQuietPeriod {
			t.Errorf("fired %v after the last trigger, want >= %v", elapsed, DefaultQuietPeriod)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("debouncer never fired")
	}

	time.Sleep(2 * DefaultQuietPeriod)
	if n := calls.Load(); n != 1 {
		t.Errorf("fn called %d times, want 1", n)
	}
}
