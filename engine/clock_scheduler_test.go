package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/clicky/status"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestClockScheduler_Ticks(t *testing.T) {
	reg := status.NewRegistry()
	var calls atomic.Int64
	cs := NewClockScheduler(NewMonotonicTimeProvider(), 5*time.Millisecond, func(time.Time) {
		calls.Add(1)
	}, reg)

	cs.Start()
	waitFor(t, time.Second, func() bool { return cs.TickCount() >= 3 })
	cs.Stop()

	if got := uint64(calls.Load()); got != cs.TickCount() {
		t.Errorf("onTick calls %d != tick count %d", got, cs.TickCount())
	}
	if reg.Ints.Get("engine.ticks").Load() != calls.Load() {
		t.Error("engine.ticks metric out of sync")
	}
}

func TestClockScheduler_StopHaltsTicks(t *testing.T) {
	var calls atomic.Int64
	cs := NewClockScheduler(NewMonotonicTimeProvider(), 2*time.Millisecond, func(time.Time) {
		calls.Add(1)
	}, nil)

	cs.Start()
	waitFor(t, time.Second, func() bool { return calls.Load() >= 1 })
	cs.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("ticks continued after Stop: %d -> %d", after, calls.Load())
	}

	// Second Stop is a no-op
	cs.Stop()
}

func TestClockScheduler_TicksAreSerial(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	cs := NewClockScheduler(NewMonotonicTimeProvider(), time.Millisecond, func(time.Time) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
	}, nil)

	cs.Start()
	waitFor(t, time.Second, func() bool { return cs.TickCount() >= 5 })
	cs.Stop()

	if maxInFlight != 1 {
		t.Errorf("expected serial ticks, saw %d concurrent", maxInFlight)
	}
}
