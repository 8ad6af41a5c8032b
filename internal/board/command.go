package board

import (
	"errors"
	"fmt"

	"github.com/sadopc/tickr/internal/config"
	"github.com/sadopc/tickr/internal/timer"
)

var (
	ErrNotFound       = errors.New("timer not found")
	ErrUnknownCommand = errors.New("unknown command")
)

// Op identifies a command.
type Op int

const (
	OpAdd Op = iota
	OpStart
	OpPause
	OpToggle
	OpReset
	OpDelete
	OpEdit
	OpPauseAll
	OpTick
)

var opNames = map[Op]string{
	OpAdd:      "add",
	OpStart:    "start",
	OpPause:    "pause",
	OpToggle:   "toggle",
	OpReset:    "reset",
	OpDelete:   "delete",
	OpEdit:     "edit",
	OpPauseAll: "pause all",
	OpTick:     "tick",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Command is a user or clock action against the board.
type Command struct {
	Op Op
	ID string // target timer for single-timer ops

	// OpAdd
	Preset config.Preset
	Label  string
	Cycle  config.Cycle // zero value means config.DefaultCycle

	// OpEdit
	Changes timer.Changes
}

// Completion records a countdown finishing or an interval phase ending.
type Completion struct {
	TimerID    string
	Label      string
	Kind       timer.Kind
	Phase      *timer.Phase // phase that ended, interval timers only
	DurationMs int64
	AtMs       int64
}

// Result is everything a command produced besides the new board.
type Result struct {
	Added         string               // id of the timer created by OpAdd
	Notifications []timer.Notification // deliver immediately
	Completions   []Completion
	Arm           []timer.Notification // schedule, replacing any earlier one for the timer
	Disarm        []string             // timer ids whose scheduled notification is void
}

func (r *Result) rearm(t timer.Timer, nowMs int64) {
	if n, ok := timer.ArmCompletion(t, nowMs); ok {
		r.Arm = append(r.Arm, n)
		return
	}
	r.Disarm = append(r.Disarm, t.ID)
}

// Apply runs cmd against b at nowMs. On error b is returned unchanged.
func Apply(b Board, cmd Command, nowMs int64) (Board, Result, error) {
	var r Result
	switch cmd.Op {
	case OpAdd:
		cycle := cmd.Cycle
		if cycle == (config.Cycle{}) {
			cycle = config.DefaultCycle()
		}
		t, err := timer.NewWithCycle(cmd.Preset, cmd.Label, cycle)
		if err != nil {
			return b, r, err
		}
		r.Added = t.ID
		return b.with(t), r, nil

	case OpStart, OpPause, OpToggle, OpReset, OpEdit:
		t, ok := b.Get(cmd.ID)
		if !ok {
			return b, r, fmt.Errorf("%s %s: %w", cmd.Op, cmd.ID, ErrNotFound)
		}
		next, err := applyOne(t, cmd, nowMs)
		if err != nil {
			return b, r, err
		}
		r.rearm(next, nowMs)
		return b.with(next), r, nil

	case OpDelete:
		if _, ok := b.Get(cmd.ID); !ok {
			return b, r, fmt.Errorf("%s %s: %w", cmd.Op, cmd.ID, ErrNotFound)
		}
		r.Disarm = append(r.Disarm, cmd.ID)
		return b.without(cmd.ID), r, nil

	case OpPauseAll:
		out := b
		for _, t := range b.Running() {
			paused, err := timer.Pause(t, nowMs)
			if err != nil {
				return b, Result{}, err
			}
			out = out.with(paused)
			r.Disarm = append(r.Disarm, t.ID)
		}
		return out, r, nil

	case OpTick:
		return tick(b, nowMs)
	}
	return b, r, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Op)
}

func applyOne(t timer.Timer, cmd Command, nowMs int64) (timer.Timer, error) {
	switch cmd.Op {
	case OpStart:
		return timer.Start(t, nowMs)
	case OpPause:
		return timer.Pause(t, nowMs)
	case OpToggle:
		return timer.Toggle(t, nowMs)
	case OpReset:
		return timer.Reset(t), nil
	default:
		return timer.Edit(t, cmd.Changes)
	}
}

// tick handles every running timer that has reached zero. Handling a
// completion always leaves the timer not-completed (paused, or re-anchored
// on a fresh phase), so each zero crossing is processed exactly once. A
// failure on one timer is reported without holding back the others.
func tick(b Board, nowMs int64) (Board, Result, error) {
	var (
		r    Result
		errs []error
	)
	out := b
	for _, t := range b.Running() {
		if !timer.HasCompleted(t, nowMs) {
			continue
		}
		c := Completion{
			TimerID:    t.ID,
			Label:      t.Label,
			Kind:       t.Kind,
			DurationMs: t.DurationMs,
			AtMs:       nowMs,
		}

		var (
			next timer.Timer
			n    timer.Notification
			err  error
		)
		if t.Kind == timer.Interval {
			ended := t.Cycle.Phase
			c.Phase = &ended
			next, n, err = timer.Advance(t, nowMs)
		} else {
			next, n, err = timer.Finish(t, nowMs)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = out.with(next)
		r.Notifications = append(r.Notifications, n)
		r.Completions = append(r.Completions, c)
		r.rearm(next, nowMs)
	}
	return out, r, errors.Join(errs...)
}
