package timer

// Notification is a notification intent handed to the host. The core never
// delivers notifications itself.
type Notification struct {
	TimerID  string
	Title    string
	Body     string
	FireAtMs *int64 // nil means fire immediately
}

// Immediate reports whether n should be delivered right away.
func (n Notification) Immediate() bool {
	return n.FireAtMs == nil
}

// ArmCompletion returns the notification to schedule for when a running
// countdown or interval timer reaches zero. ok is false for stopwatches and
// paused timers.
func ArmCompletion(t Timer, nowMs int64) (n Notification, ok bool) {
	if t.Kind == Stopwatch || !t.IsRunning {
		return Notification{}, false
	}
	fireAt := nowMs + CurrentRemainingMs(t, nowMs)
	body := "Time is up"
	if t.Cycle != nil {
		body = phaseCompletedBody(t.Cycle.Phase)
	}
	return Notification{
		TimerID:  t.ID,
		Title:    title(t),
		Body:     body,
		FireAtMs: &fireAt,
	}, true
}

func title(t Timer) string {
	if t.Label != "" {
		return t.Label
	}
	switch t.Kind {
	case Interval:
		return "Interval timer"
	case Stopwatch:
		return "Stopwatch"
	default:
		return "Timer"
	}
}

func phaseCompletedBody(p Phase) string {
	return p.String() + " phase completed"
}
