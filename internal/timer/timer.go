// Package timer is the time-computation core of tickr. A Timer is a small
// snapshot anchored to wall-clock milliseconds; every value shown to the user
// is derived from that snapshot and the current instant, never from a counter
// that accumulates ticks. All functions take and return Timers by value.
package timer

import (
	"fmt"
	"time"
)

// Kind is the timer variant.
type Kind int

const (
	Countdown Kind = iota
	Stopwatch
	Interval
)

var kindNames = map[Kind]string{
	Countdown: "countdown",
	Stopwatch: "stopwatch",
	Interval:  "interval",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Phase is the current segment of an Interval timer's cycle.
type Phase int

const (
	Work Phase = iota
	ShortBreak
	LongBreak
)

var phaseNames = map[Phase]string{
	Work:       "Work",
	ShortBreak: "ShortBreak",
	LongBreak:  "LongBreak",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Valid reports whether p is one of the defined phases.
func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// IsBreak reports whether p is a short or long break.
func (p Phase) IsBreak() bool {
	return p == ShortBreak || p == LongBreak
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

// Cycle is the phase sub-state carried by Interval timers.
type Cycle struct {
	Phase             Phase
	IntervalCount     int // completed work segments since the cycle began
	IntervalsPerCycle int
	WorkMs            int64
	ShortBreakMs      int64
	LongBreakMs       int64
	AutoContinue      bool
}

// PhaseMs returns the configured length of phase p.
func (c Cycle) PhaseMs(p Phase) int64 {
	switch p {
	case ShortBreak:
		return c.ShortBreakMs
	case LongBreak:
		return c.LongBreakMs
	default:
		return c.WorkMs
	}
}

// Timer is the persisted record.
//
// When IsRunning is false the true elapsed time is ElapsedMs. When it is
// true the true elapsed time is ElapsedMs + (now - *StartedAtMs).
type Timer struct {
	ID    string
	Kind  Kind
	Label string
	Color string

	DurationMs  int64
	IsRunning   bool
	StartedAtMs *int64
	ElapsedMs   int64

	Cycle *Cycle // non-nil iff Kind == Interval
}

// Validate checks the structural invariants of t.
func (t Timer) Validate() error {
	if t.ID == "" {
		return invalid(t, "missing id")
	}
	if !t.Kind.Valid() {
		return &TimerError{Op: "validate", ID: t.ID, Err: fmt.Errorf("%w: %d", ErrUnknownKind, int(t.Kind))}
	}
	if t.IsRunning != (t.StartedAtMs != nil) {
		return invalid(t, "running flag and start anchor disagree")
	}
	if t.ElapsedMs < 0 {
		return invalid(t, "negative elapsed time")
	}
	if t.DurationMs < 0 {
		return invalid(t, "negative duration")
	}
	if (t.Kind == Interval) != (t.Cycle != nil) {
		return invalid(t, "cycle state must be present exactly for interval timers")
	}
	if t.Cycle != nil {
		return t.Cycle.validate(t.ID)
	}
	return nil
}

func (c Cycle) validate(id string) error {
	if !c.Phase.Valid() {
		return &TimerError{Op: "validate", ID: id, Err: fmt.Errorf("%w: %d", ErrUnknownPhase, int(c.Phase))}
	}
	if c.IntervalsPerCycle < 1 {
		return &TimerError{Op: "validate", ID: id, Err: fmt.Errorf("%w: intervals per cycle must be at least 1", ErrInvalidTimer)}
	}
	if c.IntervalCount < 0 {
		return &TimerError{Op: "validate", ID: id, Err: fmt.Errorf("%w: negative interval count", ErrInvalidTimer)}
	}
	if c.WorkMs <= 0 || c.ShortBreakMs <= 0 || c.LongBreakMs <= 0 {
		return &TimerError{Op: "validate", ID: id, Err: fmt.Errorf("%w: phase durations must be positive", ErrInvalidTimer)}
	}
	return nil
}

func invalid(t Timer, reason string) error {
	return &TimerError{Op: "validate", ID: t.ID, Err: fmt.Errorf("%w: %s", ErrInvalidTimer, reason)}
}

// clone returns a copy of t that shares no pointers with it.
func (t Timer) clone() Timer {
	if t.StartedAtMs != nil {
		v := *t.StartedAtMs
		t.StartedAtMs = &v
	}
	if t.Cycle != nil {
		c := *t.Cycle
		t.Cycle = &c
	}
	return t
}

// Millis converts a wall-clock instant to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// DurationMs converts a duration to whole milliseconds.
func DurationMs(d time.Duration) int64 {
	return d.Milliseconds()
}
