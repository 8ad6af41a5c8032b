package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/tickr/internal/board"
	"github.com/sadopc/tickr/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimers viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Timers", "Reports", "Settings"}

// Clock supplies the current time. Tests swap in a fixed clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// --- Messages ---

// commandMsg asks the app to run a board command.
type commandMsg struct {
	cmd board.Command
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	path    string
	timers  []timer.Timer
	skipped error
}

// --- Helpers ---

func formatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

func formatHours(ms int64) string {
	return fmt.Sprintf("%.1fh", float64(ms)/3_600_000)
}

var (
	errMinutes = errors.New("enter a positive number of minutes")
	errCount   = errors.New("enter a whole number of at least 1")
)

// minutesString renders ms as a minute count for form inputs.
func minutesString(ms int64) string {
	return strconv.FormatFloat(float64(ms)/60_000, 'f', -1, 64)
}

// parseMinutes reads a possibly fractional minute count, rounded to the
// second, as milliseconds.
func parseMinutes(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0, errMinutes
	}
	d := time.Duration(f * float64(time.Minute)).Round(time.Second)
	if d <= 0 {
		return 0, errMinutes
	}
	return d.Milliseconds(), nil
}

func validMinutes(s string) error {
	_, err := parseMinutes(s)
	return err
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, errCount
	}
	return n, nil
}

func validCount(s string) error {
	_, err := parseCount(s)
	return err
}
