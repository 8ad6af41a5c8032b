package timer

import "fmt"

// Parts is a millisecond count broken into calendar-free units.
type Parts struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
	Millis  int64
}

// Breakdown splits ms into days, hours, minutes, seconds and milliseconds.
// Negative input is treated as zero.
func Breakdown(ms int64) Parts {
	ms = max(ms, 0)
	secs := ms / 1000
	return Parts{
		Days:    secs / 86400,
		Hours:   (secs % 86400) / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
		Millis:  ms % 1000,
	}
}

// Format renders ms with escalating precision: coarser units drop finer
// ones. With days it shows "DD / HH / MM", with hours "HH / MM / SS", with
// minutes "MM:SS", and otherwise "SS.mmm".
func Format(ms int64) string {
	p := Breakdown(ms)
	switch {
	case p.Days > 0:
		return fmt.Sprintf("%02d / %02d / %02d", p.Days, p.Hours, p.Minutes)
	case p.Hours > 0:
		return fmt.Sprintf("%02d / %02d / %02d", p.Hours, p.Minutes, p.Seconds)
	case p.Minutes > 0:
		return fmt.Sprintf("%02d:%02d", p.Minutes, p.Seconds)
	default:
		return fmt.Sprintf("%02d.%03d", p.Seconds, p.Millis)
	}
}

// Units names the units shown by Format for ms, e.g. "D / H / M".
func Units(ms int64) string {
	p := Breakdown(ms)
	switch {
	case p.Days > 0:
		return "D / H / M"
	case p.Hours > 0:
		return "H / M / S"
	case p.Minutes > 0:
		return "M:S"
	default:
		return "S.ms"
	}
}

// Display formats the current value of t at nowMs.
func Display(t Timer, nowMs int64) string {
	return Format(DisplayValueMs(t, nowMs))
}
