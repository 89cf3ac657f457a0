package sim

import "sync/atomic"

// Clock is the monotonic logical clock that orders simulated events.
//
// All execution events are stamped with a strictly increasing seq from this
// clock. The clock is advanced only by external drivers (scheduler ticks and
// scoped-execution steps), never implicitly by transitions, so the same
// operation sequence always produces the same timeline.
//
// Thread-safety: safe for concurrent use via atomics, although the engine's
// single-driver model means one goroutine typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific tick.
// Used to resume a timeline from a known position.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new tick.
// Each call returns a unique, strictly increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current tick without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Reset rewinds the clock to 0. Called by Engine.Reset so that a re-seeded
// simulation replays with an identical timeline.
func (c *Clock) Reset() {
	c.seq.Store(0)
}
