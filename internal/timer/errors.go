package timer

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRunning = errors.New("timer is already running")
	ErrNotRunning     = errors.New("timer is not running")
	ErrUnknownKind    = errors.New("unknown timer kind")
	ErrUnknownPhase   = errors.New("unknown phase")
	ErrInvalidTimer   = errors.New("invalid timer")
	ErrNotInterval    = errors.New("not an interval timer")
)

// TimerError records the operation and timer that produced an error.
type TimerError struct {
	Op  string
	ID  string
	Err error
}

func (e *TimerError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return fmt.Sprintf("%s timer %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s timer: %v", e.Op, e.Err)
}

func (e *TimerError) Unwrap() error { return e.Err }

func opErr(op string, t Timer, err error) error {
	return &TimerError{Op: op, ID: t.ID, Err: err}
}
