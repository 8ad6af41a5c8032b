package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tickr/internal/config"
	"github.com/sadopc/tickr/internal/store"
	"github.com/sadopc/tickr/internal/timer"
)

type reportsModel struct {
	store  *store.Store
	clock  Clock
	width  int
	height int

	days       []store.DailyCompletions
	todayCount int
	todayMs    int64
	offset     int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(s *store.Store, clock Clock) reportsModel {
	return reportsModel{
		store: s,
		clock: clock,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	days       []store.DailyCompletions
	todayCount int
	todayMs    int64
	err        error
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		days, err := r.store.GetDailyCompletions(from, to)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		count, total, err := r.store.GetTodayFocus(r.clock.Now())
		return reportsDataMsg{days: days, todayCount: count, todayMs: total, err: err}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*r.offset)
	return end.AddDate(0, 0, -7), end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.err != nil {
			return r, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Reports: %v", msg.err), isError: true}
			}
		}
		r.days = msg.days
		r.todayCount = msg.todayCount
		r.todayMs = msg.todayMs
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

// categoryColor maps a report category (a phase name or a timer kind) to
// its bar color.
func categoryColor(category string) lipgloss.Color {
	switch category {
	case timer.Work.String():
		return colorWork
	case timer.ShortBreak.String():
		return colorBreak
	case timer.LongBreak.String():
		return colorLongBreak
	default:
		return lipgloss.Color(config.Color(config.PresetStandard))
	}
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	// One stacked bar per day, minutes per category
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")

		var values []barchart.BarValue
		for _, s := range r.days {
			if s.Date != dateStr {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  s.Category,
				Value: float64(s.TotalMs) / 60_000,
				Style: lipgloss.NewStyle().Foreground(categoryColor(s.Category)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Reports"), "  ", dateLabel)

	today := fmt.Sprintf("Today: %s focus sessions, %s",
		highlightStyle.Render(fmt.Sprintf("%d", r.todayCount)),
		highlightStyle.Render(formatHours(r.todayMs)),
	)

	nav := mutedStyle.Render("  ←/→: navigate")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, today, "", r.chart.View(), "", r.renderLegend(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.days) == 0 {
		return mutedStyle.Render("  No completions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-14s %10s %6s", "Date", "Category", "Duration", "Count")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 45))))

	for _, s := range r.days {
		c := lipgloss.NewStyle().Foreground(categoryColor(s.Category)).Render("●")
		rows = append(rows, fmt.Sprintf("  %-12s %s %-12s %10s %6d",
			s.Date, c, s.Category, formatDuration(s.TotalMs), s.Count,
		))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, s := range r.days {
		if seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		c := lipgloss.NewStyle().Foreground(categoryColor(s.Category)).Render("●")
		items = append(items, c+" "+s.Category)
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
