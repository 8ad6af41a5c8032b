// Package config holds the static lookup tables the rest of tickr reads:
// timer presets, default durations, colors, and application paths.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Application settings.
const (
	AppName     = "tickr"
	DBFileName  = "tickr.db"
	LogFileName = "tickr.log"
)

// TickInterval is the display refresh cadence while any timer is running.
const TickInterval = 100 * time.Millisecond

// Preset is what the user picks when adding a timer. Standard and Pomodoro
// are both countdowns and differ only in their defaults.
type Preset string

const (
	PresetStandard  Preset = "standard"
	PresetPomodoro  Preset = "pomodoro"
	PresetStopwatch Preset = "stopwatch"
	PresetInterval  Preset = "interval"
)

// Presets lists presets in menu order.
var Presets = []Preset{PresetStandard, PresetPomodoro, PresetStopwatch, PresetInterval}

// Default durations.
const (
	StandardDuration = 5 * time.Minute
	PomodoroDuration = 25 * time.Minute

	WorkDuration       = 25 * time.Minute
	ShortBreakDuration = 5 * time.Minute
	LongBreakDuration  = 15 * time.Minute
	IntervalsPerCycle  = 2
)

// Cycle holds the interval-timer settings applied to new Interval timers.
type Cycle struct {
	Work              time.Duration
	ShortBreak        time.Duration
	LongBreak         time.Duration
	IntervalsPerCycle int
	AutoContinue      bool
}

// DefaultCycle returns the built-in interval settings.
func DefaultCycle() Cycle {
	return Cycle{
		Work:              WorkDuration,
		ShortBreak:        ShortBreakDuration,
		LongBreak:         LongBreakDuration,
		IntervalsPerCycle: IntervalsPerCycle,
		AutoContinue:      true,
	}
}

// DefaultDuration returns the initial duration for a preset. Stopwatches
// have none; interval timers start in the work phase.
func DefaultDuration(p Preset) time.Duration {
	switch p {
	case PresetPomodoro:
		return PomodoroDuration
	case PresetStopwatch:
		return 0
	case PresetInterval:
		return WorkDuration
	default:
		return StandardDuration
	}
}

// Color returns the display color for a preset.
func Color(p Preset) string {
	switch p {
	case PresetPomodoro:
		return "#FF6347" // tomato
	case PresetStopwatch:
		return "#4682B4" // steel blue
	case PresetInterval:
		return "#32CD32" // lime green
	default:
		return "#FFD700" // gold
	}
}

// Label returns the human name of a preset.
func Label(p Preset) string {
	switch p {
	case PresetPomodoro:
		return "Pomodoro"
	case PresetStopwatch:
		return "Stopwatch"
	case PresetInterval:
		return "Interval"
	default:
		return "Timer"
	}
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// DefaultDBPath returns ~/.config/tickr/tickr.db
func DefaultDBPath() (string, error) {
	return appFile(DBFileName)
}

// DefaultLogPath returns ~/.config/tickr/tickr.log
func DefaultLogPath() (string, error) {
	return appFile(LogFileName)
}

func appFile(name string) (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, AppName, name), nil
}
