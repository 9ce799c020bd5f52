package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/clicky/core"
	"github.com/lixenwraith/clicky/status"
)

// TickFunc receives the time sampled for one tick
type TickFunc func(now time.Time)

// ClockScheduler drives game logic on a fixed tick from a single goroutine
// Deadlines advance by whole intervals for drift correction; when the loop
// falls more than two intervals behind it resynchronizes instead of bursting
type ClockScheduler struct {
	clock  TimeProvider
	onTick TickFunc

	tickInterval     time.Duration
	nextTickDeadline time.Time

	tickCount atomic.Uint64
	mu        sync.RWMutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statTicks  *atomic.Int64
	statResync *atomic.Int64
}

// NewClockScheduler creates a scheduler calling onTick every tickInterval
func NewClockScheduler(clock TimeProvider, tickInterval time.Duration, onTick TickFunc, reg *status.Registry) *ClockScheduler {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &ClockScheduler{
		clock:        clock,
		onTick:       onTick,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		statTicks:    reg.Ints.Get("engine.ticks"),
		statResync:   reg.Ints.Get("engine.resyncs"),
	}
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		// core.Go restores the terminal if a tick panics
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the loop and waits for an in-flight tick to finish
// After Stop returns no further onTick calls happen
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// TickCount returns the number of completed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(cs.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-timer.C:
		}

		now := cs.clock.Now()

		cs.mu.RLock()
		deadline := cs.nextTickDeadline
		cs.mu.RUnlock()

		if !now.Before(deadline) {
			cs.onTick(now)
			cs.tickCount.Add(1)
			cs.statTicks.Add(1)

			cs.mu.Lock()
			cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)
			if now.Sub(cs.nextTickDeadline) > cs.tickInterval*2 {
				cs.nextTickDeadline = now.Add(cs.tickInterval)
				cs.statResync.Add(1)
			}
			deadline = cs.nextTickDeadline
			cs.mu.Unlock()
		}

		sleep := deadline.Sub(cs.clock.Now())
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}
