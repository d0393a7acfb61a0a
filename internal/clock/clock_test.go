package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestFake_AfterFunc(t *testing.T) {
	f := NewFake(epoch)
	fired := 0
	f.AfterFunc(time.Second, func() { fired++ })

	f.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, f.Active())

	f.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, f.Active())
	assert.Equal(t, epoch.Add(time.Second), f.Now())
}

func TestFake_EveryAndStop(t *testing.T) {
	f := NewFake(epoch)
	var seen []time.Time
	timer := f.Every(time.Second, func() { seen = append(seen, f.Now()) })

	f.Advance(3 * time.Second)
	assert.Equal(t, []time.Time{epoch.Add(time.Second), epoch.Add(2 * time.Second), epoch.Add(3 * time.Second)}, seen)

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	f.Advance(5 * time.Second)
	assert.Len(t, seen, 3)
	assert.Equal(t, 0, f.Active())
}

func TestFake_OrderAndReentrancy(t *testing.T) {
	f := NewFake(epoch)
	var order []string

	f.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	f.AfterFunc(time.Second, func() {
		order = append(order, "a")
		// Scheduled from inside a callback, still due within this Advance.
		f.AfterFunc(500*time.Millisecond, func() { order = append(order, "a2") })
	})

	f.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "a2", "b"}, order)
}

func TestFake_StopFromCallback(t *testing.T) {
	f := NewFake(epoch)
	fired := 0
	var tick Timer
	tick = f.Every(time.Second, func() {
		fired++
		if fired == 2 {
			tick.Stop()
		}
	})

	f.Advance(10 * time.Second)
	assert.Equal(t, 2, fired)
}

func TestReal_EveryStopsWithoutLeaks(t *testing.T) {
	defer goleak.VerifyNone(t)

	var count atomic.Int32
	timer := Real{}.Every(5*time.Millisecond, func() { count.Add(1) })

	assert.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)
	assert.True(t, timer.Stop())

	stoppedAt := count.Load()
	time.Sleep(30 * time.Millisecond)
	// At most one callback that was already running may land after Stop.
	assert.LessOrEqual(t, count.Load(), stoppedAt+1)
}

func TestReal_AfterFuncStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	var fired atomic.Bool
	timer := Real{}.AfterFunc(50*time.Millisecond, func() { fired.Store(true) })
	assert.True(t, timer.Stop())

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestStopAll(t *testing.T) {
	f := NewFake(epoch)
	a := f.AfterFunc(time.Second, func() {})
	b := f.Every(time.Second, func() {})

	StopAll(a, nil, b)
	assert.Equal(t, 0, f.Active())
}
