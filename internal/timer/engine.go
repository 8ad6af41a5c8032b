package timer

// CurrentElapsedMs returns the elapsed time of t at nowMs. A start anchor
// later than nowMs (device clock moved backwards) counts as zero time since
// resume rather than negative time.
func CurrentElapsedMs(t Timer, nowMs int64) int64 {
	if !t.IsRunning || t.StartedAtMs == nil {
		return t.ElapsedMs
	}
	return t.ElapsedMs + max(nowMs-*t.StartedAtMs, 0)
}

// CurrentRemainingMs returns the time left in the current run or phase,
// saturating at zero. Stopwatches have no remaining time.
func CurrentRemainingMs(t Timer, nowMs int64) int64 {
	if t.Kind == Stopwatch {
		return 0
	}
	return max(t.DurationMs-CurrentElapsedMs(t, nowMs), 0)
}

// HasCompleted reports whether a running countdown or interval timer has
// reached zero. A paused timer sitting at zero is not completed; completion
// is only observed while running.
func HasCompleted(t Timer, nowMs int64) bool {
	return t.Kind != Stopwatch && t.IsRunning && CurrentRemainingMs(t, nowMs) == 0
}

// Spent reports whether t is a countdown stopped at zero, the state Finish
// leaves it in.
func Spent(t Timer, nowMs int64) bool {
	return t.Kind == Countdown && !t.IsRunning && CurrentRemainingMs(t, nowMs) == 0
}

// DisplayValueMs is the number shown to the user: elapsed time for a
// stopwatch, remaining time for everything else.
func DisplayValueMs(t Timer, nowMs int64) int64 {
	if t.Kind == Stopwatch {
		return CurrentElapsedMs(t, nowMs)
	}
	return CurrentRemainingMs(t, nowMs)
}

const minuteMs = 60_000

// ProgressFraction returns how much of the current run or phase has been
// consumed, in [0,1]. A zero-length countdown is fully consumed. Stopwatches
// sweep once per minute.
func ProgressFraction(t Timer, nowMs int64) float64 {
	elapsed := CurrentElapsedMs(t, nowMs)
	if t.Kind == Stopwatch {
		return float64(elapsed%minuteMs) / minuteMs
	}
	if t.DurationMs <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(t.DurationMs)
	return min(max(f, 0), 1)
}
