package timer

// NextPhase looks up the transition for the phase that just ended and
// returns the next phase, its duration, and the updated interval count.
//
// A work phase is followed by a short break when IntervalCount is a
// multiple of IntervalsPerCycle and by a long break otherwise. Returning to
// work from either break counts one completed interval.
//
// Validate rejects IntervalsPerCycle below 1; an unvalidated cycle with such
// a value is treated as 1.
func NextPhase(c Cycle) (next Phase, durationMs int64, intervalCount int) {
	switch c.Phase {
	case Work:
		if c.IntervalCount%max(c.IntervalsPerCycle, 1) == 0 {
			return ShortBreak, c.ShortBreakMs, c.IntervalCount
		}
		return LongBreak, c.LongBreakMs, c.IntervalCount
	default:
		return Work, c.WorkMs, c.IntervalCount + 1
	}
}

// Advance moves an interval timer to its next phase at nowMs. Elapsed time
// restarts at zero; a running timer re-anchors at nowMs when AutoContinue is
// set and is left paused otherwise. The returned notification names the
// phase that ended.
func Advance(t Timer, nowMs int64) (Timer, Notification, error) {
	if t.Kind != Interval || t.Cycle == nil {
		return t, Notification{}, opErr("advance", t, ErrNotInterval)
	}
	ended := t.Cycle.Phase
	out := t.clone()

	next, dur, count := NextPhase(*out.Cycle)
	out.Cycle.Phase = next
	out.Cycle.IntervalCount = count
	out.DurationMs = dur
	out.ElapsedMs = 0

	if out.IsRunning && out.Cycle.AutoContinue {
		at := nowMs
		out.StartedAtMs = &at
	} else {
		out.IsRunning = false
		out.StartedAtMs = nil
	}

	return out, Notification{
		TimerID: t.ID,
		Title:   title(t),
		Body:    phaseCompletedBody(ended),
	}, nil
}
