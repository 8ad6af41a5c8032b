package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sadopc/tickr/internal/board"
	"github.com/sadopc/tickr/internal/config"
	"github.com/sadopc/tickr/internal/store"
	"github.com/sadopc/tickr/internal/tui"
)

func main() {
	logger, closeLog, err := openLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	dbPath, err := config.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	saved, err := s.LoadTimers()
	if err != nil {
		logger.Warn("skipped unreadable timers", "err", err)
	}
	b, err := board.FromTimers(saved)
	if err != nil {
		logger.Warn("skipped invalid timers", "err", err)
	}
	logger.Info("starting", "db", dbPath, "timers", b.Len(), "running", len(b.Running()))

	app := tui.NewApp(s, b, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes logs to a file; the terminal belongs to the UI.
// TICKR_LOG_LEVEL overrides the default info level.
func openLogger() (*log.Logger, func(), error) {
	path, err := config.DefaultLogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := log.InfoLevel
	if v := os.Getenv("TICKR_LOG_LEVEL"); v != "" {
		if l, err := log.ParseLevel(v); err == nil {
			level = l
		}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          config.AppName,
		Level:           level,
	})
	log.SetDefault(logger)
	return logger, func() { f.Close() }, nil
}
