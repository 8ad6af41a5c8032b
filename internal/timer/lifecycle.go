package timer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sadopc/tickr/internal/config"
)

// New creates a stopped timer for preset p with the built-in cycle settings.
func New(p config.Preset, label string) (Timer, error) {
	return NewWithCycle(p, label, config.DefaultCycle())
}

// NewWithCycle creates a stopped timer for preset p. Interval timers take
// their phase durations from c; other presets ignore it.
func NewWithCycle(p config.Preset, label string, c config.Cycle) (Timer, error) {
	if !p.Valid() {
		return Timer{}, &TimerError{Op: "create", Err: fmt.Errorf("%w: preset %q", ErrUnknownKind, p)}
	}
	if label == "" {
		label = config.Label(p)
	}
	t := Timer{
		ID:         uuid.NewString(),
		Label:      label,
		Color:      config.Color(p),
		DurationMs: DurationMs(config.DefaultDuration(p)),
	}
	switch p {
	case config.PresetStopwatch:
		t.Kind = Stopwatch
	case config.PresetInterval:
		t.Kind = Interval
		t.Cycle = &Cycle{
			Phase:             Work,
			IntervalsPerCycle: c.IntervalsPerCycle,
			WorkMs:            DurationMs(c.Work),
			ShortBreakMs:      DurationMs(c.ShortBreak),
			LongBreakMs:       DurationMs(c.LongBreak),
			AutoContinue:      c.AutoContinue,
		}
		t.DurationMs = t.Cycle.WorkMs
	default:
		t.Kind = Countdown
	}
	if err := t.Validate(); err != nil {
		return Timer{}, err
	}
	return t, nil
}

// Start anchors t at nowMs. Starting a running timer is a contract
// violation and returns t unchanged with ErrAlreadyRunning. A spent
// countdown starts over from its full duration.
func Start(t Timer, nowMs int64) (Timer, error) {
	if t.IsRunning {
		return t, opErr("start", t, ErrAlreadyRunning)
	}
	out := t.clone()
	if Spent(t, nowMs) {
		out = Reset(t)
	}
	out.IsRunning = true
	out.StartedAtMs = &nowMs
	return out, nil
}

// Pause folds the live delta into ElapsedMs. Pausing a stopped timer
// returns t unchanged with ErrNotRunning.
func Pause(t Timer, nowMs int64) (Timer, error) {
	if !t.IsRunning {
		return t, opErr("pause", t, ErrNotRunning)
	}
	out := t.clone()
	out.ElapsedMs = CurrentElapsedMs(t, nowMs)
	out.IsRunning = false
	out.StartedAtMs = nil
	return out, nil
}

// Reset clears all accumulated time. Interval timers also return to the
// first work phase of a fresh cycle.
func Reset(t Timer) Timer {
	out := t.clone()
	out.ElapsedMs = 0
	out.IsRunning = false
	out.StartedAtMs = nil
	if out.Cycle != nil {
		out.Cycle.Phase = Work
		out.Cycle.IntervalCount = 0
		out.DurationMs = out.Cycle.WorkMs
	}
	return out
}

// Toggle pauses a running timer and starts a stopped one. A running
// interval timer on a break skips straight to the next work phase and keeps
// running. A spent countdown is reset and left stopped.
func Toggle(t Timer, nowMs int64) (Timer, error) {
	if Spent(t, nowMs) {
		return Reset(t), nil
	}
	if t.IsRunning && t.Cycle != nil && t.Cycle.Phase.IsBreak() {
		return SkipBreak(t, nowMs)
	}
	if t.IsRunning {
		return Pause(t, nowMs)
	}
	return Start(t, nowMs)
}

// SkipBreak ends the current break of a running interval timer and starts
// the next work phase at nowMs.
func SkipBreak(t Timer, nowMs int64) (Timer, error) {
	if t.Cycle == nil || !t.Cycle.Phase.IsBreak() {
		return t, opErr("skip break", t, fmt.Errorf("%w: not on a break", ErrInvalidTimer))
	}
	out, _, err := Advance(t, nowMs)
	if err != nil {
		return t, err
	}
	if !out.IsRunning {
		out.IsRunning = true
		out.StartedAtMs = &nowMs
	}
	return out, nil
}

// Finish handles the completion of a running countdown: the timer stops
// at zero and a notification is produced.
func Finish(t Timer, nowMs int64) (Timer, Notification, error) {
	if t.Kind != Countdown {
		return t, Notification{}, opErr("finish", t, fmt.Errorf("%w: only countdowns finish", ErrInvalidTimer))
	}
	out, err := Pause(t, nowMs)
	if err != nil {
		return t, Notification{}, err
	}
	return out, Notification{
		TimerID: t.ID,
		Title:   title(t),
		Body:    "Time is up",
	}, nil
}

// CycleSettings replaces the phase configuration of an interval timer.
type CycleSettings struct {
	WorkMs            int64
	ShortBreakMs      int64
	LongBreakMs       int64
	IntervalsPerCycle int
	AutoContinue      bool
}

// Changes lists the edits to apply to a timer; nil fields are left alone.
type Changes struct {
	Label      *string
	Color      *string
	DurationMs *int64
	Cycle      *CycleSettings
}

// Edit applies c to t. For interval timers a new duration replaces the
// length of the current phase. The result is validated and t is returned
// unchanged on error.
func Edit(t Timer, c Changes) (Timer, error) {
	out := t.clone()
	if c.Label != nil {
		out.Label = *c.Label
	}
	if c.Color != nil {
		out.Color = *c.Color
	}
	if c.Cycle != nil {
		if out.Cycle == nil {
			return t, opErr("edit", t, ErrNotInterval)
		}
		out.Cycle.WorkMs = c.Cycle.WorkMs
		out.Cycle.ShortBreakMs = c.Cycle.ShortBreakMs
		out.Cycle.LongBreakMs = c.Cycle.LongBreakMs
		out.Cycle.IntervalsPerCycle = c.Cycle.IntervalsPerCycle
		out.Cycle.AutoContinue = c.Cycle.AutoContinue
		out.DurationMs = out.Cycle.PhaseMs(out.Cycle.Phase)
	}
	if c.DurationMs != nil {
		if out.Kind == Stopwatch {
			return t, opErr("edit", t, fmt.Errorf("%w: stopwatches have no duration", ErrInvalidTimer))
		}
		out.DurationMs = *c.DurationMs
		if out.Cycle != nil {
			switch out.Cycle.Phase {
			case ShortBreak:
				out.Cycle.ShortBreakMs = *c.DurationMs
			case LongBreak:
				out.Cycle.LongBreakMs = *c.DurationMs
			default:
				out.Cycle.WorkMs = *c.DurationMs
			}
		}
	}
	if err := out.Validate(); err != nil {
		return t, err
	}
	return out, nil
}
