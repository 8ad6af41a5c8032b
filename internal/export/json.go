package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/sadopc/tickr/internal/timer"
)

// Record is the flat interchange form of a timer. Interval fields are zero
// (and phase null) for other kinds.
type Record struct {
	ID                string  `json:"id"`
	Kind              string  `json:"kind"`
	Label             string  `json:"label"`
	Color             string  `json:"color"`
	DurationMs        int64   `json:"durationMs"`
	IsRunning         bool    `json:"isRunning"`
	StartedAtEpochMs  *int64  `json:"startedAtEpochMs"`
	ElapsedMs         int64   `json:"elapsedMs"`
	Phase             *string `json:"phase"`
	IntervalCount     int     `json:"intervalCount"`
	IntervalsPerCycle int     `json:"intervalsPerCycle"`
	WorkMs            int64   `json:"workMs"`
	ShortBreakMs      int64   `json:"shortBreakMs"`
	LongBreakMs       int64   `json:"longBreakMs"`
	AutoContinue      bool    `json:"autoContinue"`
}

type snapshot struct {
	ExportedAt string          `json:"exported_at"`
	Count      int             `json:"count"`
	Timers     json.RawMessage `json:"timers"`
}

// ToRecord flattens t.
func ToRecord(t timer.Timer) Record {
	r := Record{
		ID:         t.ID,
		Kind:       t.Kind.String(),
		Label:      t.Label,
		Color:      t.Color,
		DurationMs: t.DurationMs,
		IsRunning:  t.IsRunning,
		ElapsedMs:  t.ElapsedMs,
	}
	if t.StartedAtMs != nil {
		v := *t.StartedAtMs
		r.StartedAtEpochMs = &v
	}
	if c := t.Cycle; c != nil {
		phase := c.Phase.String()
		r.Phase = &phase
		r.IntervalCount = c.IntervalCount
		r.IntervalsPerCycle = c.IntervalsPerCycle
		r.WorkMs = c.WorkMs
		r.ShortBreakMs = c.ShortBreakMs
		r.LongBreakMs = c.LongBreakMs
		r.AutoContinue = c.AutoContinue
	}
	return r
}

// FromRecord rebuilds and validates a timer.
func FromRecord(r Record) (timer.Timer, error) {
	k, err := timer.ParseKind(r.Kind)
	if err != nil {
		return timer.Timer{}, &timer.TimerError{Op: "decode", ID: r.ID, Err: err}
	}
	t := timer.Timer{
		ID:         r.ID,
		Kind:       k,
		Label:      r.Label,
		Color:      r.Color,
		DurationMs: r.DurationMs,
		IsRunning:  r.IsRunning,
		ElapsedMs:  r.ElapsedMs,
	}
	if r.StartedAtEpochMs != nil {
		v := *r.StartedAtEpochMs
		t.StartedAtMs = &v
	}
	if r.Phase != nil {
		p, err := timer.ParsePhase(*r.Phase)
		if err != nil {
			return timer.Timer{}, &timer.TimerError{Op: "decode", ID: r.ID, Err: err}
		}
		t.Cycle = &timer.Cycle{
			Phase:             p,
			IntervalCount:     r.IntervalCount,
			IntervalsPerCycle: r.IntervalsPerCycle,
			WorkMs:            r.WorkMs,
			ShortBreakMs:      r.ShortBreakMs,
			LongBreakMs:       r.LongBreakMs,
			AutoContinue:      r.AutoContinue,
		}
	}
	if err := t.Validate(); err != nil {
		return timer.Timer{}, err
	}
	return t, nil
}

// EncodeTimers writes ts as an ordered JSON array of flat records.
func EncodeTimers(ts []timer.Timer) ([]byte, error) {
	records := make([]Record, 0, len(ts))
	for _, t := range ts {
		records = append(records, ToRecord(t))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal timers: %w", err)
	}
	return data, nil
}

// DecodeTimers parses the output of EncodeTimers. Records that do not
// describe a valid timer are dropped and reported in the joined error; a
// document that is not a JSON array of records fails outright.
func DecodeTimers(data []byte) ([]timer.Timer, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal timers: %w", err)
	}
	return fromRecords(records)
}

func fromRecords(records []Record) ([]timer.Timer, error) {
	ts := make([]timer.Timer, 0, len(records))
	var errs []error
	for _, r := range records {
		t, err := FromRecord(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ts = append(ts, t)
	}
	return ts, errors.Join(errs...)
}

// ToJSON writes a pretty-printed snapshot of ts to path.
func ToJSON(ts []timer.Timer, path string) error {
	records, err := EncodeTimers(ts)
	if err != nil {
		return err
	}
	s := snapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(ts),
		Timers:     records,
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a snapshot written by ToJSON, or a bare record array as
// written by EncodeTimers. Invalid records are skipped as in DecodeTimers;
// when the file cannot be read or parsed the returned slice is nil.
func FromJSON(path string) ([]timer.Timer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return DecodeTimers(data)
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Timers == nil {
		return nil, errors.New("unmarshal snapshot: no timers field")
	}
	return DecodeTimers(s.Timers)
}
