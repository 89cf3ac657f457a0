package sim

import "time"

// Level classifies audit log entries.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Entry is one record in the append-only audit log.
//
// Entries are read-only once written. The log is collaborator output: the
// transition engine writes it but never reads it back, so nothing about
// correctness depends on its contents.
type Entry struct {
	// ID is unique and increasing within one engine instance.
	ID int

	// Seq is the logical clock tick at which the entry was written.
	// Entries written between ticks share the tick of the last advance.
	Seq int64

	// Timestamp is wall time from the engine's time source. Display only.
	Timestamp time.Time

	Level   Level
	Message string

	// Pid is the process the entry concerns, or 0 for engine-level
	// entries (reset, bootstrap).
	Pid int
}

// auditLog is the engine-owned append-only log. The id counter is engine
// state, not a global, so independent simulations number entries
// independently.
type auditLog struct {
	entries []Entry
	nextID  int
}

func newAuditLog() *auditLog {
	return &auditLog{nextID: 1}
}

func (l *auditLog) append(level Level, seq int64, now time.Time, pid int, msg string) Entry {
	e := Entry{
		ID:        l.nextID,
		Seq:       seq,
		Timestamp: now,
		Level:     level,
		Message:   msg,
		Pid:       pid,
	}
	l.nextID++
	l.entries = append(l.entries, e)
	return e
}

// snapshot returns a copy of all entries in append order.
func (l *auditLog) snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *auditLog) reset() {
	l.entries = nil
	l.nextID = 1
}
