// Package testutil provides deterministic helpers for simulation tests:
// a resettable time source and a predetermined pid generator.
package testutil

import (
	"sync"
	"time"
)

// FixedTime is the wall-clock instant used for reproducible audit
// timestamps in tests and golden traces.
var FixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FixedNow returns FixedTime. Pass to sim.WithTimeSource so audit entries
// carry a constant timestamp regardless of when the test runs.
func FixedNow() time.Time {
	return FixedTime
}

// SteppingNow returns a time source that starts at FixedTime and advances
// by step on every call. Useful when a test needs distinct but
// reproducible timestamps.
func SteppingNow(step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := FixedTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}
