package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/procsim/internal/sim"
)

// Run identifies one exported simulation run.
type Run struct {
	// ID is a UUIDv7, so run listings sort by creation time.
	ID string

	// Label is a human-readable description ("autorun --forks 3").
	Label string

	CreatedAt time.Time

	// Ticks is the logical clock value at export.
	Ticks int64

	// Processes is the tree size at export, including init.
	Processes int
}

// NewRunID returns a fresh time-sortable run id.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SaveRun writes a run header plus its audit log and execution events in a
// single transaction: either the whole run is exported or none of it.
//
// Uses ON CONFLICT DO NOTHING throughout, so re-exporting the same run id
// is idempotent.
func (s *Store) SaveRun(ctx context.Context, run Run, entries []sim.Entry, events []sim.ExecutionEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, label, created_at, ticks, processes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Label,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.Ticks,
		run.Processes,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO log_entries (run_id, entry_id, seq, level, message, pid)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			run.ID, e.ID, e.Seq, string(e.Level), e.Message, e.Pid,
		)
		if err != nil {
			return fmt.Errorf("save run %s: log entry %d: %w", run.ID, e.ID, err)
		}
	}

	for _, ev := range events {
		var endSeq any
		if ev.EndSeq != nil {
			endSeq = *ev.EndSeq
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO execution_events
			(run_id, event_id, pid, action, start_seq, end_seq, state, parent_pid)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			run.ID, ev.ID, ev.Pid, string(ev.Action), ev.StartSeq, endSeq,
			ev.State.String(), ev.ParentPid,
		)
		if err != nil {
			return fmt.Errorf("save run %s: event %d: %w", run.ID, ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit: %w", run.ID, err)
	}
	return nil
}
