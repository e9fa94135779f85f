package tui

import "github.com/charmbracelet/lipgloss"

// Display color palette.
const (
	colorAccent        = lipgloss.Color("#FF2E97") // header title
	colorTextPrimary   = lipgloss.Color("#FFFFFF")
	colorTextSecondary = lipgloss.Color("#B4B4D0")
	colorTextMuted     = lipgloss.Color("#6B6B8D")

	colorRunning = lipgloss.Color("#39FF14")
	colorPaused  = lipgloss.Color("#FFAA00")
	colorStopped = lipgloss.Color("#FF0055")

	colorPlotBorder    = lipgloss.Color("#2A2A4A")
	colorTooltipBorder = lipgloss.Color("#B4B4D0")
)

var (
	headerTitleStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	headerStatsStyle = lipgloss.NewStyle().
				Foreground(colorTextSecondary)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(0, 1)

	// Run-state indicator styles keyed off the poll loop state.
	stateRunningStyle = lipgloss.NewStyle().Foreground(colorRunning)
	statePausedStyle  = lipgloss.NewStyle().Foreground(colorPaused)
	stateStoppedStyle = lipgloss.NewStyle().Foreground(colorStopped)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorStopped).
			Bold(true)
)

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorTextSecondary)
)
