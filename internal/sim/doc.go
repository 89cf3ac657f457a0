// Package sim implements the process-lifecycle simulation engine.
//
// # Model
//
// The engine maintains a single in-memory process tree under a permanent
// adopter root ("init", pid 1) and applies UNIX lifecycle transitions to it:
// fork, wait, exit, zombie creation, orphan adoption, and reaping. All
// operations are synchronous, atomic state transitions; there is no real
// concurrency, no signals, and no memory model. "Waiting" is a state flag,
// not a suspension: control returns to the caller immediately.
//
// # Determinism
//
// Time is a logical clock advanced only by external drivers (auto-scheduler
// ticks and scoped-execution steps). Pids come from an injectable generator
// seeded at a fixed constant, so the same operation sequence always produces
// the same tree, the same audit log, and the same execution history. Nothing
// is derived from wall clocks except audit timestamps, which are
// display-only and never consulted for correctness.
//
// # Ownership
//
// Each Engine owns its pid generator, log-id counter, clock, and history.
// Engines are independent: two simulations never share counters. An Engine
// is not safe for concurrent use; callers drive it from one goroutine.
//
// # Key types
//
//   - Engine: tree store + transition rules + audit log
//   - Scheduler: bottom-up auto-scheduling policy (one action per tick)
//   - ScopedExecution: root-to-target replay with a frozen path
//   - History: open/close execution intervals per pid
//   - Clock: monotonic logical clock
package sim
