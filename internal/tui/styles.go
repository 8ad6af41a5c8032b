package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tickr/internal/timer"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorWork      = lipgloss.Color("#FF6347")
	colorBreak     = lipgloss.Color("#2ECC71")
	colorLongBreak = lipgloss.Color("#7AA2F7")
	colorMuted     = lipgloss.Color("#666666")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	// Clock faces
	clockRunningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBreak)
	clockPausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWork)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorLongBreak)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

func phaseStyle(p timer.Phase) lipgloss.Style {
	switch p {
	case timer.ShortBreak:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBreak)
	case timer.LongBreak:
		return lipgloss.NewStyle().Bold(true).Foreground(colorLongBreak)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(colorWork)
	}
}

func dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
