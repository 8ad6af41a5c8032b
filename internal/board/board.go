// Package board holds the collection of timers the host displays. A Board
// is immutable: every transition returns a new Board and leaves the receiver
// untouched, so the host can swap the whole collection in one assignment.
package board

import (
	"errors"
	"fmt"

	"github.com/sadopc/tickr/internal/timer"
)

// Board is an ordered map from timer id to timer.
type Board struct {
	order  []string
	timers map[string]timer.Timer
}

// New returns an empty board.
func New() Board {
	return Board{timers: map[string]timer.Timer{}}
}

// FromTimers builds a board from a persisted sequence, keeping its order.
// Timers that fail validation or repeat an id are skipped and reported in
// the returned error; the rest of the collection is still usable.
func FromTimers(ts []timer.Timer) (Board, error) {
	b := New()
	var errs []error
	for _, t := range ts {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := b.timers[t.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate timer id %s", t.ID))
			continue
		}
		b.order = append(b.order, t.ID)
		b.timers[t.ID] = t
	}
	return b, errors.Join(errs...)
}

// Len returns the number of timers.
func (b Board) Len() int { return len(b.order) }

// Get returns the timer with the given id.
func (b Board) Get(id string) (timer.Timer, bool) {
	t, ok := b.timers[id]
	return t, ok
}

// Timers returns the timers in display order.
func (b Board) Timers() []timer.Timer {
	out := make([]timer.Timer, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.timers[id])
	}
	return out
}

// Running returns the running timers in display order.
func (b Board) Running() []timer.Timer {
	var out []timer.Timer
	for _, id := range b.order {
		if t := b.timers[id]; t.IsRunning {
			out = append(out, t)
		}
	}
	return out
}

// AnyRunning reports whether at least one timer is running.
func (b Board) AnyRunning() bool {
	for _, t := range b.timers {
		if t.IsRunning {
			return true
		}
	}
	return false
}

// IndexOf returns the display position of id, or -1.
func (b Board) IndexOf(id string) int {
	for i, v := range b.order {
		if v == id {
			return i
		}
	}
	return -1
}

func (b Board) copy() Board {
	out := Board{
		order:  make([]string, len(b.order)),
		timers: make(map[string]timer.Timer, len(b.timers)),
	}
	copy(out.order, b.order)
	for id, t := range b.timers {
		out.timers[id] = t
	}
	return out
}

func (b Board) with(t timer.Timer) Board {
	out := b.copy()
	if _, ok := out.timers[t.ID]; !ok {
		out.order = append(out.order, t.ID)
	}
	out.timers[t.ID] = t
	return out
}

func (b Board) without(id string) Board {
	out := b.copy()
	delete(out.timers, id)
	for i, v := range out.order {
		if v == id {
			out.order = append(out.order[:i], out.order[i+1:]...)
			break
		}
	}
	return out
}
