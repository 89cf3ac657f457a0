package sim

import "github.com/google/uuid"

// PidGenerator allocates process ids for an engine instance.
//
// Implemented by CounterPidGenerator (production) and
// testutil.FixedPidGenerator (tests). Each engine owns its generator;
// generators are never shared across simulations, so parallel tests cannot
// leak pids into each other.
type PidGenerator interface {
	// NextPid returns a pid never returned before by this generator.
	NextPid() int

	// Seed rewinds the generator so the next pid is first. Called on
	// CreateRoot/Reset.
	Seed(first int)
}

// CounterPidGenerator hands out consecutive pids starting at a seed.
// Not safe for concurrent use; the engine serializes access.
type CounterPidGenerator struct {
	next int
}

// NewCounterPidGenerator creates a generator whose first pid is first.
func NewCounterPidGenerator(first int) *CounterPidGenerator {
	return &CounterPidGenerator{next: first}
}

func (g *CounterPidGenerator) NextPid() int {
	pid := g.next
	g.next++
	return pid
}

func (g *CounterPidGenerator) Seed(first int) {
	g.next = first
}

// newNodeID returns an opaque node handle. UUIDv7 embeds a timestamp in the
// most significant bits, so handles sort by creation time in trace exports.
func newNodeID() string {
	return uuid.Must(uuid.NewV7()).String()
}
