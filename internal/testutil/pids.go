package testutil

import "fmt"

// FixedPidGenerator returns predetermined pids for testing.
//
// This enables deterministic test execution and golden trace comparison:
// tests provide a known pid sequence and verify exact tree shapes.
//
// Seed rewinds to the start of the sequence, matching the engine's
// reset-and-reseed contract. The seed value itself is ignored; the
// sequence is fixed by construction.
type FixedPidGenerator struct {
	pids []int
	idx  int
}

// NewFixedPidGenerator creates a generator that returns pids in order.
//
// Example:
//
//	gen := NewFixedPidGenerator(1001, 1002, 1003)
//	gen.NextPid() // 1001
//	gen.NextPid() // 1002
//	gen.NextPid() // 1003
//	gen.NextPid() // panic: all pids exhausted
func NewFixedPidGenerator(pids ...int) *FixedPidGenerator {
	return &FixedPidGenerator{pids: pids}
}

// NextPid returns the next predetermined pid.
//
// Panics if all pids have been consumed. This is a fail-fast approach to
// catch test misconfiguration (the test created more processes than it
// declared pids for).
func (g *FixedPidGenerator) NextPid() int {
	if g.idx >= len(g.pids) {
		panic(fmt.Sprintf("FixedPidGenerator: all %d pids exhausted", len(g.pids)))
	}
	pid := g.pids[g.idx]
	g.idx++
	return pid
}

// Seed rewinds the generator to the start of its sequence.
func (g *FixedPidGenerator) Seed(int) {
	g.idx = 0
}
