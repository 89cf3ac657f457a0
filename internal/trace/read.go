package trace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/procsim/internal/sim"
)

// ListRuns returns all exported runs, oldest first. UUIDv7 ids embed the
// creation timestamp, so ordering by id is ordering by time.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, created_at, ticks, processes
		FROM runs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ReadRun returns one run's header. Returns sql.ErrNoRows if the id is
// unknown.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, created_at, ticks, processes
		FROM runs
		WHERE id = ?
	`, runID)

	r, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return r, nil
}

// ReadLog returns a run's audit entries in engine append order.
func (s *Store) ReadLog(ctx context.Context, runID string) ([]sim.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, seq, level, message, pid
		FROM log_entries
		WHERE run_id = ?
		ORDER BY entry_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read log for run %s: %w", runID, err)
	}
	defer rows.Close()

	var entries []sim.Entry
	for rows.Next() {
		var e sim.Entry
		var level string
		if err := rows.Scan(&e.ID, &e.Seq, &level, &e.Message, &e.Pid); err != nil {
			return nil, fmt.Errorf("read log for run %s: %w", runID, err)
		}
		e.Level = sim.Level(level)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReadEvents returns a run's execution events in engine record order.
func (s *Store) ReadEvents(ctx context.Context, runID string) ([]sim.ExecutionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, pid, action, start_seq, end_seq, state, parent_pid
		FROM execution_events
		WHERE run_id = ?
		ORDER BY event_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read events for run %s: %w", runID, err)
	}
	defer rows.Close()

	var events []sim.ExecutionEvent
	for rows.Next() {
		var ev sim.ExecutionEvent
		var action, state string
		var endSeq sql.NullInt64
		if err := rows.Scan(&ev.ID, &ev.Pid, &action, &ev.StartSeq, &endSeq, &state, &ev.ParentPid); err != nil {
			return nil, fmt.Errorf("read events for run %s: %w", runID, err)
		}
		ev.Action = sim.Action(action)
		if endSeq.Valid {
			end := endSeq.Int64
			ev.EndSeq = &end
		}
		st, err := sim.ParseState(state)
		if err != nil {
			return nil, fmt.Errorf("read events for run %s: %w", runID, err)
		}
		ev.State = st
		events = append(events, ev)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var createdAt string
	if err := row.Scan(&r.ID, &r.Label, &createdAt, &r.Ticks, &r.Processes); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	r.CreatedAt = t
	return r, nil
}
