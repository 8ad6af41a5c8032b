package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/tickr/internal/timer"
)

// SaveTimers replaces the stored collection with ts in a single
// transaction, keeping their order.
func (s *Store) SaveTimers(ts []timer.Timer) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save timers: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM timers`); err != nil {
		return fmt.Errorf("clear timers: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO timers (id, position, kind, label, color, duration_ms, is_running, started_at_ms, elapsed_ms,
		                    phase, interval_count, intervals_per_cycle, work_ms, short_break_ms, long_break_ms, auto_continue)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare timer insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range ts {
		var (
			startedAt sql.NullInt64
			phase     sql.NullString
			c         timer.Cycle
		)
		if t.StartedAtMs != nil {
			startedAt = sql.NullInt64{Int64: *t.StartedAtMs, Valid: true}
		}
		if t.Cycle != nil {
			c = *t.Cycle
			phase = sql.NullString{String: c.Phase.String(), Valid: true}
		}
		_, err := stmt.Exec(
			t.ID, i, t.Kind.String(), t.Label, t.Color, t.DurationMs, t.IsRunning, startedAt, t.ElapsedMs,
			phase, c.IntervalCount, c.IntervalsPerCycle, c.WorkMs, c.ShortBreakMs, c.LongBreakMs, c.AutoContinue,
		)
		if err != nil {
			return wrapTimerErr("save", t.ID, err)
		}
	}
	return tx.Commit()
}

// LoadTimers returns the stored collection in order. Rows that do not
// describe a valid timer are skipped; each is reported as an *OpError in the
// joined error so the caller can decide how to recover.
func (s *Store) LoadTimers() ([]timer.Timer, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, label, color, duration_ms, is_running, started_at_ms, elapsed_ms,
		       phase, interval_count, intervals_per_cycle, work_ms, short_break_ms, long_break_ms, auto_continue
		FROM timers ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load timers: %w", err)
	}
	defer rows.Close()

	var (
		ts   []timer.Timer
		errs []error
	)
	for rows.Next() {
		var (
			t         timer.Timer
			kind      string
			startedAt sql.NullInt64
			phase     sql.NullString
			c         timer.Cycle
		)
		if err := rows.Scan(&t.ID, &kind, &t.Label, &t.Color, &t.DurationMs, &t.IsRunning, &startedAt, &t.ElapsedMs,
			&phase, &c.IntervalCount, &c.IntervalsPerCycle, &c.WorkMs, &c.ShortBreakMs, &c.LongBreakMs, &c.AutoContinue); err != nil {
			return nil, fmt.Errorf("scan timer: %w", err)
		}

		k, err := timer.ParseKind(kind)
		if err != nil {
			errs = append(errs, wrapTimerErr("load", t.ID, errors.Join(ErrMalformedRow, err)))
			continue
		}
		t.Kind = k
		if startedAt.Valid {
			t.StartedAtMs = &startedAt.Int64
		}
		if phase.Valid {
			p, err := timer.ParsePhase(phase.String)
			if err != nil {
				errs = append(errs, wrapTimerErr("load", t.ID, errors.Join(ErrMalformedRow, err)))
				continue
			}
			c.Phase = p
			t.Cycle = &c
		}
		if err := t.Validate(); err != nil {
			errs = append(errs, wrapTimerErr("load", t.ID, errors.Join(ErrMalformedRow, err)))
			continue
		}
		ts = append(ts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ts, errors.Join(errs...)
}
