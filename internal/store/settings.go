package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/tickr/internal/config"
)

// Setting keys for the interval defaults. Durations are stored in seconds.
const (
	KeyCycleWork         = "cycle_work"
	KeyCycleShortBreak   = "cycle_short_break"
	KeyCycleLongBreak    = "cycle_long_break"
	KeyCycleIntervals    = "cycle_intervals"
	KeyCycleAutoContinue = "cycle_auto_continue"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// CycleDefaults returns the interval settings for new timers. Missing or
// unparsable values fall back to the built-in defaults.
func (s *Store) CycleDefaults() config.Cycle {
	c := config.DefaultCycle()
	c.Work = s.secondsSetting(KeyCycleWork, c.Work)
	c.ShortBreak = s.secondsSetting(KeyCycleShortBreak, c.ShortBreak)
	c.LongBreak = s.secondsSetting(KeyCycleLongBreak, c.LongBreak)
	if v, err := s.GetSetting(KeyCycleIntervals); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			c.IntervalsPerCycle = n
		}
	}
	if v, err := s.GetSetting(KeyCycleAutoContinue); err == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoContinue = b
		}
	}
	return c
}

// SaveCycleDefaults stores c as the interval settings for new timers.
func (s *Store) SaveCycleDefaults(c config.Cycle) error {
	values := map[string]string{
		KeyCycleWork:         strconv.Itoa(int(c.Work / time.Second)),
		KeyCycleShortBreak:   strconv.Itoa(int(c.ShortBreak / time.Second)),
		KeyCycleLongBreak:    strconv.Itoa(int(c.LongBreak / time.Second)),
		KeyCycleIntervals:    strconv.Itoa(c.IntervalsPerCycle),
		KeyCycleAutoContinue: strconv.FormatBool(c.AutoContinue),
	}
	for k, v := range values {
		if err := s.SetSetting(k, v); err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return nil
}

func (s *Store) secondsSetting(key string, fallback time.Duration) time.Duration {
	if v, err := s.GetSetting(key); err == nil {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
