package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) RecordCompletion(c Completion) (int64, error) {
	var phase sql.NullString
	if c.Phase != "" {
		phase = sql.NullString{String: c.Phase, Valid: true}
	}
	res, err := s.db.Exec(
		`INSERT INTO completions (timer_id, label, kind, phase, duration_ms, completed_at_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		c.TimerID, c.Label, c.Kind, phase, c.DurationMs, c.CompletedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("record completion: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListCompletions(f CompletionFilter) ([]Completion, error) {
	query := `SELECT id, timer_id, label, kind, phase, duration_ms, completed_at_ms FROM completions WHERE 1=1`
	var args []any

	if f.TimerID != nil {
		query += ` AND timer_id = ?`
		args = append(args, *f.TimerID)
	}
	if f.From != nil {
		query += ` AND completed_at_ms >= ?`
		args = append(args, f.From.UnixMilli())
	}
	if f.To != nil {
		query += ` AND completed_at_ms < ?`
		args = append(args, f.To.UnixMilli())
	}
	query += ` ORDER BY completed_at_ms DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		var phase sql.NullString
		var at int64
		if err := rows.Scan(&c.ID, &c.TimerID, &c.Label, &c.Kind, &phase, &c.DurationMs, &at); err != nil {
			return nil, err
		}
		c.Phase = phase.String
		c.CompletedAt = time.UnixMilli(at).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetDailyCompletions(from, to time.Time) ([]DailyCompletions, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at_ms / 1000, 'unixepoch') AS day,
		       COALESCE(phase, kind) AS category,
		       COUNT(*), COALESCE(SUM(duration_ms), 0)
		FROM completions
		WHERE completed_at_ms >= ? AND completed_at_ms < ?
		GROUP BY day, category
		ORDER BY day, category`,
		from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("daily completions: %w", err)
	}
	defer rows.Close()

	var out []DailyCompletions
	for rows.Next() {
		var d DailyCompletions
		if err := rows.Scan(&d.Date, &d.Category, &d.Count, &d.TotalMs); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetTodayFocus returns the number of completed countdowns and work phases
// on the UTC day containing now and their total length.
func (s *Store) GetTodayFocus(now time.Time) (count int, totalMs int64, err error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration_ms), 0)
		FROM completions
		WHERE completed_at_ms >= ? AND completed_at_ms < ?
		  AND (phase IS NULL OR phase = 'Work')`,
		dayStart.UnixMilli(), dayStart.Add(24*time.Hour).UnixMilli(),
	).Scan(&count, &totalMs)
	return
}
