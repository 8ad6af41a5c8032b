package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/sadopc/tickr/internal/board"
	"github.com/sadopc/tickr/internal/config"
	"github.com/sadopc/tickr/internal/export"
	"github.com/sadopc/tickr/internal/notify"
	"github.com/sadopc/tickr/internal/store"
	"github.com/sadopc/tickr/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	center *notify.Center
	alerts chan timer.Notification
	clock  Clock
	logger *log.Logger
	dir    string // where snapshots are exported and imported

	board   board.Board
	ticking bool

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	importPicking bool
	importCursor  int
	importFiles   []string

	timers   timersModel
	reports  reportsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
	alerting  bool
}

// NewApp builds the UI around a restored board. Running timers get their
// completion notifications re-armed.
func NewApp(s *store.Store, b board.Board, logger *log.Logger) App {
	if logger == nil {
		logger = log.Default()
	}
	h := help.New()
	h.ShowAll = false

	alerts := make(chan timer.Notification, 32)
	center := notify.NewCenter(func(n timer.Notification) {
		select {
		case alerts <- n:
		default:
		}
	}, logger)

	home, _ := os.UserHomeDir()
	clock := realClock{}
	a := App{
		store:      s,
		center:     center,
		alerts:     alerts,
		clock:      clock,
		logger:     logger,
		dir:        home,
		board:      b,
		activeView: viewTimers,
		timers:     newTimersModel(),
		reports:    newReportsModel(s, clock),
		settings:   newSettingsModel(s),
		help:       h,
	}

	now := timer.Millis(a.clock.Now())
	for _, t := range b.Running() {
		if n, ok := timer.ArmCompletion(t, now); ok {
			center.Notify(n)
		}
	}
	a.ticking = b.AnyRunning()
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.reports.refresh(), a.settings.refresh()}
	if a.ticking {
		cmds = append(cmds, tickCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timers.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.importPicking {
			return a.updateImportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Import):
			return a.openImportPicker()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimers
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		a.ticking = false
		return a.apply(board.Command{Op: board.OpTick})

	case commandMsg:
		return a.apply(msg.cmd)

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil

	case importDoneMsg:
		return a.importBoard(msg)

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

// apply runs one board command and carries out its side effects: the
// notification center is updated, completions are recorded, the board is
// saved and the tick loop is kept alive exactly while a timer runs.
func (a App) apply(cmd board.Command) (App, tea.Cmd) {
	now := a.clock.Now()
	nowMs := timer.Millis(now)

	if cmd.Op == board.OpAdd && cmd.Cycle == (config.Cycle{}) {
		cmd.Cycle = a.store.CycleDefaults()
	}
	before, _ := a.board.Get(cmd.ID)

	next, r, err := board.Apply(a.board, cmd, nowMs)
	if err != nil {
		a.logger.Warn("command failed", "op", cmd.Op, "timer", cmd.ID, "err", err)
		a.setStatus(err.Error(), true)
		// A tick still carries every completion that did succeed.
		if cmd.Op != board.OpTick {
			return a, nil
		}
	}
	a.board = next

	deliver(a.center, r)
	if cmd.Op == board.OpTick {
		a.center.Flush(nowMs)
	}

	var cmds []tea.Cmd
	if len(r.Completions) > 0 {
		a.recordCompletions(r.Completions)
		cmds = append(cmds, a.reports.refresh())
	}
	if cmd.Op != board.OpTick || len(r.Completions) > 0 {
		if err := a.store.SaveTimers(a.board.Timers()); err != nil {
			a.logger.Error("save timers", "err", err)
			a.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		}
	}

	if err == nil && cmd.Op != board.OpTick {
		a.describe(cmd, r, before)
	}
	a.drainAlerts()

	cmds = append(cmds, a.startTicking())
	return a, tea.Batch(cmds...)
}

// deliver hands the notification intents of r to n. Stale schedules are
// dropped before anything new is armed or shown.
func deliver(n notify.Notifier, r board.Result) {
	for _, id := range r.Disarm {
		n.Cancel(id)
	}
	for _, x := range r.Arm {
		n.Notify(x)
	}
	for _, x := range r.Notifications {
		n.Notify(x)
	}
}

func (a *App) recordCompletions(cs []board.Completion) {
	for _, c := range cs {
		rec := store.Completion{
			TimerID:     c.TimerID,
			Label:       c.Label,
			Kind:        c.Kind.String(),
			DurationMs:  c.DurationMs,
			CompletedAt: time.UnixMilli(c.AtMs).UTC(),
		}
		if c.Phase != nil {
			rec.Phase = c.Phase.String()
		}
		if _, err := a.store.RecordCompletion(rec); err != nil {
			a.logger.Error("record completion", "timer", c.TimerID, "err", err)
			a.setStatus(fmt.Sprintf("History not saved: %v", err), true)
		}
	}
}

// describe sets the status line for a command that went through.
func (a *App) describe(cmd board.Command, r board.Result, before timer.Timer) {
	switch cmd.Op {
	case board.OpAdd:
		t, _ := a.board.Get(r.Added)
		a.timers.cursor = a.board.IndexOf(r.Added)
		a.setStatus("Added "+t.Label, false)
	case board.OpDelete:
		a.timers.clamp(a.board.Len())
		a.setStatus("Deleted "+before.Label, false)
	case board.OpPauseAll:
		a.setStatus(fmt.Sprintf("Paused %d timers", len(r.Disarm)), false)
	default:
		t, _ := a.board.Get(cmd.ID)
		state := "paused"
		if t.IsRunning {
			state = "running"
		}
		a.setStatus(fmt.Sprintf("%s %s: %s", cmd.Op, t.Label, state), false)
	}
}

// drainAlerts shows delivered notifications in the status line.
func (a *App) drainAlerts() {
	for {
		select {
		case n := <-a.alerts:
			a.status = fmt.Sprintf("🔔 %s: %s", n.Title, n.Body)
			a.statusErr = false
			a.alerting = true
		default:
			return
		}
	}
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
	a.alerting = false
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimers:
		a.timers, cmd = a.timers.update(msg, a.board)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimers:
		return a.timers.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	// Calculate available height for content
	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var content string
	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.importPicking:
		content = a.renderImportPicker()
	case a.activeView == viewTimers:
		content = a.timers.view(a.board, timer.Millis(a.clock.Now()))
	case a.activeView == viewReports:
		content = a.reports.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(config.AppName)
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	running := ""
	if n := len(a.board.Running()); n > 0 {
		running = clockRunningStyle.Render(fmt.Sprintf(" ● %d running", n))
	}
	if p := a.center.Pending(); len(p) > 0 {
		left := max(*p[0].FireAtMs-timer.Millis(a.clock.Now()), 0)
		running += mutedStyle.Render(" 🔔 " + formatDuration(left))
	}

	status := ""
	switch {
	case a.status == "":
	case a.alerting:
		status = alertStyle.Render(" " + a.status)
	case a.statusErr:
		status = errorStyle.Render(" " + a.status)
	default:
		status = mutedStyle.Render(" " + a.status)
	}
	right := running + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"JSON snapshot of timers", "CSV completion history"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor, a.dir)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int, dir string) tea.Cmd {
	timers := a.board.Timers()
	return func() tea.Msg {
		dateStr := a.clock.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("%s-timers-%s.json", config.AppName, dateStr))
			if err := export.ToJSON(timers, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		} else {
			completions, err := a.store.ListCompletions(store.CompletionFilter{})
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			path = filepath.Join(dir, fmt.Sprintf("%s-history-%s.csv", config.AppName, dateStr))
			if err := export.ToCSV(completions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

// snapshotFiles lists the timer snapshots in dir, newest first.
func snapshotFiles(dir string) []string {
	files, _ := filepath.Glob(filepath.Join(dir, config.AppName+"-timers-*.json"))
	slices.Sort(files)
	slices.Reverse(files)
	return files
}

func (a App) openImportPicker() (App, tea.Cmd) {
	files := snapshotFiles(a.dir)
	if len(files) == 0 {
		a.setStatus("No timer snapshots in "+a.dir, true)
		return a, nil
	}
	a.importPicking = true
	a.importCursor = 0
	a.importFiles = files
	return a, nil
}

func (a App) renderImportPicker() string {
	rows := []string{titleStyle.Render("Import"), mutedStyle.Render("  Replaces every timer on the board"), ""}
	for i, f := range a.importFiles {
		cursor := "  "
		style := normalItemStyle
		if i == a.importCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+filepath.Base(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: import  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateImportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.importCursor > 0 {
			a.importCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.importCursor < len(a.importFiles)-1 {
			a.importCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.importPicking = false
		return a, doImport(a.importFiles[a.importCursor])
	case key.Matches(msg, keys.Back):
		a.importPicking = false
	}
	return a, nil
}

func doImport(path string) tea.Cmd {
	return func() tea.Msg {
		ts, err := export.FromJSON(path)
		if ts == nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{path: path, timers: ts, skipped: err}
	}
}

// importBoard replaces the board with an imported snapshot. Schedules for
// the old timers are dropped and running imports are armed again.
func (a App) importBoard(msg importDoneMsg) (App, tea.Cmd) {
	b, err := board.FromTimers(msg.timers)
	err = errors.Join(msg.skipped, err)
	skipped := countErrors(err)
	if err != nil {
		a.logger.Warn("import skipped timers", "path", msg.path, "skipped", skipped, "err", err)
	}

	var r board.Result
	for _, t := range a.board.Timers() {
		r.Disarm = append(r.Disarm, t.ID)
	}
	nowMs := timer.Millis(a.clock.Now())
	for _, t := range b.Running() {
		if n, ok := timer.ArmCompletion(t, nowMs); ok {
			r.Arm = append(r.Arm, n)
		}
	}
	deliver(a.center, r)

	a.board = b
	a.timers.clamp(b.Len())
	if err := a.store.SaveTimers(b.Timers()); err != nil {
		a.logger.Error("save timers", "err", err)
		a.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		cmd := a.startTicking()
		return a, cmd
	}

	status := fmt.Sprintf("Imported %d timers from %s", b.Len(), filepath.Base(msg.path))
	if skipped > 0 {
		status += fmt.Sprintf(", skipped %d", skipped)
	}
	a.setStatus(status, skipped > 0)
	a.logger.Info("imported timers", "path", msg.path, "timers", b.Len())
	cmd := a.startTicking()
	return a, cmd
}

// startTicking starts the tick loop when a timer runs and none is going.
func (a *App) startTicking() tea.Cmd {
	if a.ticking || !a.board.AnyRunning() {
		return nil
	}
	a.ticking = true
	return tickCmd()
}

// countErrors counts the errors joined into err.
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range j.Unwrap() {
			n += countErrors(e)
		}
		return n
	}
	return 1
}
