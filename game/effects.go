package game

import "time"

// TimedEffect is a temporary rate bonus
type TimedEffect struct {
	Source    string
	RateDelta int64
	Duration  time.Duration
	ExpiresAt time.Time
}

// Remaining is the time left before expiry, never negative
func (e TimedEffect) Remaining(now time.Time) time.Duration {
	if d := e.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// EffectLedger tracks active timed effects
// Slice order is insertion order and only matters for display
type EffectLedger struct {
	active []TimedEffect
}

// Apply grants delta to the economy; duration 0 makes it permanent and unledgered
// Returns the ledger entry and whether one was created
func (l *EffectLedger) Apply(econ *EconomyState, source string, delta int64, duration time.Duration, now time.Time) (TimedEffect, bool) {
	econ.Rate += delta
	if duration <= 0 {
		econ.BaseRate += delta
		return TimedEffect{Source: source, RateDelta: delta}, false
	}
	e := TimedEffect{
		Source:    source,
		RateDelta: delta,
		Duration:  duration,
		ExpiresAt: now.Add(duration),
	}
	l.active = append(l.active, e)
	return e, true
}

// Expire removes effects with ExpiresAt <= now and subtracts exactly their deltas
func (l *EffectLedger) Expire(econ *EconomyState, now time.Time) []TimedEffect {
	var expired []TimedEffect
	kept := l.active[:0]
	for _, e := range l.active {
		if !now.Before(e.ExpiresAt) {
			econ.Rate -= e.RateDelta
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	l.active = kept
	return expired
}

// Prune drops expired effects without touching the economy
// Used at load time before the rate is recomputed
func (l *EffectLedger) Prune(now time.Time) int {
	n := len(l.active)
	kept := l.active[:0]
	for _, e := range l.active {
		if now.Before(e.ExpiresAt) {
			kept = append(kept, e)
		}
	}
	l.active = kept
	return n - len(kept)
}

// Insert restores a persisted entry as-is
func (l *EffectLedger) Insert(e TimedEffect) {
	l.active = append(l.active, e)
}

// Sum of all active deltas
func (l *EffectLedger) Sum() int64 {
	var total int64
	for _, e := range l.active {
		total += e.RateDelta
	}
	return total
}

// Len is the number of active effects
func (l *EffectLedger) Len() int {
	return len(l.active)
}

// List returns a copy of active effects
func (l *EffectLedger) List() []TimedEffect {
	out := make([]TimedEffect, len(l.active))
	copy(out, l.active)
	return out
}

// Clone deep-copies the ledger
func (l EffectLedger) Clone() EffectLedger {
	if l.active == nil {
		return EffectLedger{}
	}
	return EffectLedger{active: l.List()}
}
