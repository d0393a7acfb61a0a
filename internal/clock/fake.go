package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Scheduler for tests. Callbacks run synchronously
// inside Advance, in due-time order.
type Fake struct {
	now    time.Time
	timers []*fakeTimer
	nextID int
	mu     sync.Mutex
}

// NewFake returns a fake clock set to now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

type fakeTimer struct {
	due    time.Time
	clock  *Fake
	fn     func()
	period time.Duration
	id     int
}

// Now returns the fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc schedules f at now+d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return f.schedule(d, 0, fn)
}

// Every schedules f at now+d, now+2d, ...
func (f *Fake) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	return f.schedule(d, d, fn)
}

func (f *Fake) schedule(d, period time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := &fakeTimer{clock: f, due: f.now.Add(d), period: period, fn: fn, id: f.nextID}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due.
// Callbacks may schedule or stop timers.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.earliest(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.due
		if next.period > 0 {
			next.due = next.due.Add(next.period)
		} else {
			f.remove(next)
		}
		fn := next.fn
		f.mu.Unlock()

		fn()
	}
}

// Active reports how many timers are still scheduled.
func (f *Fake) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *Fake) earliest(limit time.Time) *fakeTimer {
	var best *fakeTimer
	for _, t := range f.timers {
		if t.due.After(limit) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (f *Fake) remove(target *fakeTimer) bool {
	for i, t := range f.timers {
		if t == target {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.clock.remove(t)
}
