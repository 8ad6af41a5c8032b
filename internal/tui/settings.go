package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tickr/internal/config"
	"github.com/sadopc/tickr/internal/store"
	"github.com/sadopc/tickr/internal/timer"
)

// settingsModel edits the cycle settings new interval timers start with.
type settingsModel struct {
	store  *store.Store
	width  int
	height int

	cycle      config.Cycle
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	work         *string
	shortBreak   *string
	longBreak    *string
	intervals    *string
	autoContinue *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	w, sb, lb, n := "", "", "", ""
	ac := true
	return settingsModel{
		store:        s,
		cycle:        config.DefaultCycle(),
		work:         &w,
		shortBreak:   &sb,
		longBreak:    &lb,
		intervals:    &n,
		autoContinue: &ac,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	cycle config.Cycle
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{cycle: s.store.CycleDefaults()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.cycle = msg.cycle
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.work = minutesString(timer.DurationMs(s.cycle.Work))
	*s.shortBreak = minutesString(timer.DurationMs(s.cycle.ShortBreak))
	*s.longBreak = minutesString(timer.DurationMs(s.cycle.LongBreak))
	*s.intervals = strconv.Itoa(s.cycle.IntervalsPerCycle)
	*s.autoContinue = s.cycle.AutoContinue

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(s.work).Validate(validMinutes),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreak).Validate(validMinutes),
			huh.NewInput().Title("Long break (min)").Value(s.longBreak).Validate(validMinutes),
			huh.NewInput().Title("Intervals per cycle").Value(s.intervals).Validate(validCount),
		).Title("Interval timers"),
		huh.NewGroup(
			huh.NewConfirm().Title("Continue into the next phase automatically").Value(s.autoContinue),
		).Title("Phase changes"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

// formCycle reads the submitted form values.
func (s settingsModel) formCycle() (config.Cycle, error) {
	c := config.Cycle{AutoContinue: *s.autoContinue}
	for _, f := range []struct {
		in  string
		out *time.Duration
	}{
		{*s.work, &c.Work},
		{*s.shortBreak, &c.ShortBreak},
		{*s.longBreak, &c.LongBreak},
	} {
		ms, err := parseMinutes(f.in)
		if err != nil {
			return c, err
		}
		*f.out = time.Duration(ms) * time.Millisecond
	}
	n, err := parseCount(*s.intervals)
	if err != nil {
		return c, err
	}
	c.IntervalsPerCycle = n
	return c, nil
}

func (s settingsModel) save() tea.Cmd {
	c, err := s.formCycle()
	if err == nil {
		err = s.store.SaveCycleDefaults(c)
	}
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Settings: %v", err), isError: true}
		}
	}
	return tea.Batch(
		s.refresh(),
		func() tea.Msg { return statusMsg{text: "Settings saved"} },
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, mutedStyle.Render("New interval timers start with:"), ""}
	for _, kv := range []struct{ k, v string }{
		{"Work", timer.Format(timer.DurationMs(s.cycle.Work))},
		{"Short break", timer.Format(timer.DurationMs(s.cycle.ShortBreak))},
		{"Long break", timer.Format(timer.DurationMs(s.cycle.LongBreak))},
		{"Intervals per cycle", strconv.Itoa(s.cycle.IntervalsPerCycle)},
		{"Auto-continue", strconv.FormatBool(s.cycle.AutoContinue)},
	} {
		label := lipgloss.NewStyle().Width(24).Render(kv.k)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv.v)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
