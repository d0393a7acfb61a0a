// Package clock provides the timer abstraction used by every timed behavior in
// the order flow. Callers own the returned handles and must stop them on the
// state exit they belong to.
package clock

import (
	"sync"
	"time"
)

// Timer is a cancellable handle for a scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped a pending
	// callback. Stop never waits for a running callback to finish.
	Stop() bool
}

// Scheduler schedules callbacks against a clock.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f every d until the returned timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Real is a Scheduler backed by the runtime timers.
type Real struct{}

// Now returns the wall-clock time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every re-arms a runtime timer after each run. No goroutine outlives Stop.
func (Real) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	r := &repeater{interval: d, fn: f}
	r.mu.Lock()
	r.timer = time.AfterFunc(d, r.fire)
	r.mu.Unlock()
	return r
}

type repeater struct {
	timer    *time.Timer
	fn       func()
	interval time.Duration
	mu       sync.Mutex
	stopped  bool
}

func (r *repeater) fire() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.fn()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stopped {
		r.timer = time.AfterFunc(r.interval, r.fire)
	}
}

func (r *repeater) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.stopped = true
	r.timer.Stop()
	return true
}

// StopAll stops every non-nil timer in timers.
func StopAll(timers ...Timer) {
	for _, t := range timers {
		if t != nil {
			t.Stop()
		}
	}
}
