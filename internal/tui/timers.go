package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tickr/internal/board"
	"github.com/sadopc/tickr/internal/config"
	"github.com/sadopc/tickr/internal/timer"
)

// cardHeight is the rendered height of one timer card, borders included.
const cardHeight = 5

type timersModel struct {
	width  int
	height int
	cursor int

	// Preset picker state
	picking      bool
	pickerCursor int

	formActive bool
	form       *huh.Form
	editID     string
	editKind   timer.Kind

	// Form values as pointers (survive value copies)
	label        *string
	color        *string
	minutes      *string
	work         *string
	shortBreak   *string
	longBreak    *string
	intervals    *string
	autoContinue *bool
}

func newTimersModel() timersModel {
	l, c, m, w, sb, lb, n := "", "", "", "", "", "", ""
	ac := true
	return timersModel{
		label:        &l,
		color:        &c,
		minutes:      &m,
		work:         &w,
		shortBreak:   &sb,
		longBreak:    &lb,
		intervals:    &n,
		autoContinue: &ac,
	}
}

func (m *timersModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m timersModel) capturing() bool {
	return m.picking || m.formActive
}

func send(c board.Command) tea.Cmd {
	return func() tea.Msg { return commandMsg{cmd: c} }
}

func (m timersModel) selected(b board.Board) (timer.Timer, bool) {
	ts := b.Timers()
	if m.cursor < 0 || m.cursor >= len(ts) {
		return timer.Timer{}, false
	}
	return ts[m.cursor], true
}

func (m *timersModel) clamp(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m timersModel) update(msg tea.Msg, b board.Board) (timersModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.picking {
		return m.updatePicker(km)
	}

	m.clamp(b.Len())
	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(km, keys.Down):
		if m.cursor < b.Len()-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(km, keys.Add):
		m.picking = true
		m.pickerCursor = 0
		return m, nil
	case key.Matches(km, keys.PauseAll):
		return m, send(board.Command{Op: board.OpPauseAll})
	}

	t, ok := m.selected(b)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, keys.Toggle):
		return m, send(board.Command{Op: board.OpToggle, ID: t.ID})
	case key.Matches(km, keys.Start):
		return m, send(board.Command{Op: board.OpStart, ID: t.ID})
	case key.Matches(km, keys.Pause):
		return m, send(board.Command{Op: board.OpPause, ID: t.ID})
	case key.Matches(km, keys.Reset):
		return m, send(board.Command{Op: board.OpReset, ID: t.ID})
	case key.Matches(km, keys.Delete):
		return m, send(board.Command{Op: board.OpDelete, ID: t.ID})
	case key.Matches(km, keys.Edit):
		return m.showForm(t)
	}
	return m, nil
}

func (m timersModel) updatePicker(msg tea.KeyMsg) (timersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pickerCursor < len(config.Presets)-1 {
			m.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.picking = false
		return m, send(board.Command{Op: board.OpAdd, Preset: config.Presets[m.pickerCursor]})
	case key.Matches(msg, keys.Back):
		m.picking = false
	}
	return m, nil
}

func (m timersModel) showForm(t timer.Timer) (timersModel, tea.Cmd) {
	m.editID = t.ID
	m.editKind = t.Kind
	*m.label = t.Label
	*m.color = t.Color
	*m.minutes = minutesString(t.DurationMs)

	fields := []huh.Field{
		huh.NewInput().Title("Label").Value(m.label),
		huh.NewSelect[string]().Title("Color").Value(m.color).Options(colorOptions(t.Color)...),
	}
	switch t.Kind {
	case timer.Countdown:
		fields = append(fields,
			huh.NewInput().Title("Duration (min)").Value(m.minutes).Validate(validMinutes),
		)
	case timer.Interval:
		c := t.Cycle
		*m.work = minutesString(c.WorkMs)
		*m.shortBreak = minutesString(c.ShortBreakMs)
		*m.longBreak = minutesString(c.LongBreakMs)
		*m.intervals = fmt.Sprintf("%d", c.IntervalsPerCycle)
		*m.autoContinue = c.AutoContinue
		fields = append(fields,
			huh.NewInput().Title("Work (min)").Value(m.work).Validate(validMinutes),
			huh.NewInput().Title("Short break (min)").Value(m.shortBreak).Validate(validMinutes),
			huh.NewInput().Title("Long break (min)").Value(m.longBreak).Validate(validMinutes),
			huh.NewInput().Title("Intervals per cycle").Value(m.intervals).Validate(validCount),
			huh.NewConfirm().Title("Continue into the next phase").Value(m.autoContinue),
		)
	}

	m.form = huh.NewForm(
		huh.NewGroup(fields...).Title("Edit " + t.Label),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timersModel) updateForm(msg tea.Msg) (timersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		changes, err := m.changes()
		if err != nil {
			return m, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
		}
		return m, send(board.Command{Op: board.OpEdit, ID: m.editID, Changes: changes})
	}

	return m, cmd
}

// changes turns the submitted form values into an edit.
func (m timersModel) changes() (timer.Changes, error) {
	label := strings.TrimSpace(*m.label)
	color := *m.color
	c := timer.Changes{Label: &label, Color: &color}
	switch m.editKind {
	case timer.Countdown:
		ms, err := parseMinutes(*m.minutes)
		if err != nil {
			return c, err
		}
		c.DurationMs = &ms
	case timer.Interval:
		var (
			s   timer.CycleSettings
			err error
		)
		if s.WorkMs, err = parseMinutes(*m.work); err != nil {
			return c, err
		}
		if s.ShortBreakMs, err = parseMinutes(*m.shortBreak); err != nil {
			return c, err
		}
		if s.LongBreakMs, err = parseMinutes(*m.longBreak); err != nil {
			return c, err
		}
		if s.IntervalsPerCycle, err = parseCount(*m.intervals); err != nil {
			return c, err
		}
		s.AutoContinue = *m.autoContinue
		c.Cycle = &s
	}
	return c, nil
}

func (m timersModel) view(b board.Board, nowMs int64) string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Edit timer"), "", m.form.View()),
		)
	}

	var sections []string
	if m.picking {
		sections = append(sections, m.renderPicker(w))
	}

	ts := b.Timers()
	if len(ts) == 0 {
		sections = append(sections, panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("No timers yet"),
				mutedStyle.Render("Press a to add one"),
			),
		))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	cursor := min(m.cursor, len(ts)-1)
	visible := max((m.height-lipgloss.Height(strings.Join(sections, "\n")))/cardHeight, 1)
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(ts))

	for i := start; i < end; i++ {
		sections = append(sections, m.renderCard(ts[i], i == cursor, w, nowMs))
	}
	if end < len(ts) || start > 0 {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(ts))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m timersModel) renderCard(t timer.Timer, selected bool, w int, nowMs int64) string {
	marker := "  "
	labelStyle := normalItemStyle
	style := cardStyle
	if selected {
		marker = "> "
		labelStyle = selectedItemStyle
		style = activePanelStyle
	}

	tag := mutedStyle.Render(t.Kind.String())
	if c := t.Cycle; c != nil {
		tag = phaseStyle(c.Phase).Render(c.Phase.String()) +
			mutedStyle.Render(fmt.Sprintf("  #%d  every %d", c.IntervalCount+1, c.IntervalsPerCycle))
	}
	title := marker + dot(t.Color) + " " + labelStyle.Render(t.Label) + "  " + tag

	clock := clockPausedStyle.Render(timer.Display(t, nowMs))
	state := clockPausedStyle.Render("⏸ PAUSED")
	switch {
	case t.IsRunning:
		clock = clockRunningStyle.Render(timer.Display(t, nowMs))
		state = clockRunningStyle.Render("● RUNNING")
	case timer.Spent(t, nowMs):
		state = alertStyle.Render("✓ DONE") + mutedStyle.Render("  space: reset")
	}
	face := "  " + clock + " " + mutedStyle.Render(timer.Units(timer.DisplayValueMs(t, nowMs)))

	barWidth := max(w-lipgloss.Width(state)-10, 10)
	bar := progress.New(
		progress.WithSolidFill(t.Color),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth),
	)
	line := "  " + bar.ViewAs(timer.ProgressFraction(t, nowMs)) + "  " + state

	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, face, line))
}

func (m timersModel) renderPicker(w int) string {
	rows := []string{titleStyle.Render("New timer"), ""}
	for i, p := range config.Presets {
		cursor := "  "
		style := normalItemStyle
		if i == m.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		desc := mutedStyle.Render(describePreset(p))
		rows = append(rows, style.Render(cursor+dot(config.Color(p))+" "+config.Label(p))+"  "+desc)
	}
	rows = append(rows, "", mutedStyle.Render("  enter: add  esc: cancel"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// timerColors are the colors offered when editing a timer.
var timerColors = []struct{ name, hex string }{
	{"Gold", "#FFD700"},
	{"Tomato", "#FF6347"},
	{"Steel blue", "#4682B4"},
	{"Lime green", "#32CD32"},
	{"Orchid", "#DA70D6"},
	{"Turquoise", "#40E0D0"},
	{"Slate", "#708090"},
}

// colorOptions lists timerColors, with current first when it is not one of
// them so an edit never loses it.
func colorOptions(current string) []huh.Option[string] {
	var opts []huh.Option[string]
	known := false
	for _, c := range timerColors {
		if strings.EqualFold(c.hex, current) {
			known = true
		}
		opts = append(opts, huh.NewOption(dot(c.hex)+" "+c.name, c.hex))
	}
	if !known && current != "" {
		opts = append([]huh.Option[string]{huh.NewOption(dot(current)+" "+current, current)}, opts...)
	}
	return opts
}

func describePreset(p config.Preset) string {
	switch p {
	case config.PresetStopwatch:
		return "counts up"
	case config.PresetInterval:
		return "alternates work and break phases"
	default:
		return "counts down from " + timer.Format(timer.DurationMs(config.DefaultDuration(p)))
	}
}
