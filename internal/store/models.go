package store

import "time"

// Completion is one finished countdown or ended interval phase.
type Completion struct {
	ID          int64
	TimerID     string
	Label       string
	Kind        string // countdown, interval
	Phase       string // Work, ShortBreak, LongBreak; empty for countdowns
	DurationMs  int64
	CompletedAt time.Time
}

// Category groups a completion for reports: the phase for interval timers,
// the kind otherwise.
func (c Completion) Category() string {
	if c.Phase != "" {
		return c.Phase
	}
	return c.Kind
}

// CompletionFilter is used to filter completions in queries.
type CompletionFilter struct {
	TimerID *string
	From    *time.Time
	To      *time.Time
	Limit   int
}

// DailyCompletions aggregates completions per category per UTC day.
type DailyCompletions struct {
	Date     string
	Category string
	Count    int
	TotalMs  int64
}
