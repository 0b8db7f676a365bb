package watcher

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long the settings file must stay quiet before a
// reload is triggered.
const DefaultQuietPeriod = 500 * time.Millisecond

// timerFunc schedules fn after d. It matches time.AfterFunc.
type timerFunc func(d time.Duration, fn func()) stopper

type stopper interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, fn func()) stopper {
	return time.AfterFunc(d, fn)
}

// Debouncer is a single-slot cancelable timer. Each Trigger cancels any
// pending fire and schedules a new one; fn runs only once the quiet period
// passes without another Trigger.
type Debouncer struct {
	quiet     time.Duration
	fn        func()
	afterFunc timerFunc

	mu      sync.Mutex
	pending stopper
	gen     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer that calls fn after quiet.
func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	return &Debouncer{quiet: quiet, fn: fn, afterFunc: realAfterFunc}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}

	// A timer that already fired but lost the race for mu sees a stale
	// generation and does nothing.
	d.gen++
	gen := d.gen
	d.pending = d.afterFunc(d.quiet, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Stop cancels any pending fire. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
