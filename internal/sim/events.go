package sim

// EventKind names a semantic lifecycle event.
//
// Semantic events are one-way notifications for narration and telemetry
// collaborators. The engine emits them after the corresponding transition
// has fully committed and never consumes them back: a nil or misbehaving
// notifier cannot affect correctness.
type EventKind string

const (
	EventProcessCreated EventKind = "process_created"
	EventCPUScheduled   EventKind = "cpu_scheduled"
	EventParentWaiting  EventKind = "parent_waiting"
	EventProcessExit    EventKind = "process_exit"
	EventZombieCreated  EventKind = "zombie_created"
	EventProcessReaped  EventKind = "process_reaped"
	EventOrphanAdopted  EventKind = "orphan_adopted"
)

// SemanticEvent describes one lifecycle transition for external observers.
type SemanticEvent struct {
	Kind EventKind

	// Pid is the process the event concerns.
	Pid int

	// ParentPid is the structural parent at the time of the event
	// (post-adoption for orphan_adopted).
	ParentPid int

	// Seq is the logical clock tick at emission.
	Seq int64
}

// Notifier receives semantic events. Must not call back into the engine.
type Notifier func(SemanticEvent)

// emit sends a semantic event to the notifier, if one is registered.
func (e *Engine) emit(kind EventKind, pid, ppid int) {
	if e.notify == nil {
		return
	}
	e.notify(SemanticEvent{
		Kind:      kind,
		Pid:       pid,
		ParentPid: ppid,
		Seq:       e.clock.Current(),
	})
}
