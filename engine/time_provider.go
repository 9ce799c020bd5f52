package engine

import "time"

// TimeProvider is the clock collaborator; the controller samples it once per tick
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock
// time.Now carries a monotonic reading, so elapsed math is immune to wall clock jumps
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates the real clock
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
