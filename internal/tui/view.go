package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/serscope/serscope/internal/poll"
)

// View renders the display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.tooSmall() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			errorStyle.Render("Terminal too small"))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title line with connection and run state.
func (m Model) renderHeader() string {
	title := headerTitleStyle.Render("serscope")

	state := m.poller.State()
	var indicator string
	switch state {
	case poll.Running:
		indicator = stateRunningStyle.Render("● " + state.String())
	case poll.Paused:
		indicator = statePausedStyle.Render("◐ " + state.String())
	default:
		indicator = stateStoppedStyle.Render("◌ " + state.String())
	}

	stats := headerStatsStyle.Render(fmt.Sprintf(" | %s @ %d | ", m.port, m.baud)) +
		indicator +
		headerStatsStyle.Render(fmt.Sprintf(" | %.1f s | %d channels",
			float64(m.clock.ElapsedMS())/1000, m.registry.Len()))

	return title + stats
}

// renderCanvas rasterizes the current frame and tooltip.
func (m Model) renderCanvas() string {
	cols, rows := m.canvasSize()
	canvas := NewCanvas(cols, rows, m.style)
	if m.frame != nil {
		canvas.DrawFrame(m.frame)
		canvas.DrawTooltip(m.tooltip)
	}
	return canvas.Render()
}

// renderFooter renders the keybinding hints.
func (m Model) renderFooter() string {
	return footerStyle.Render(m.help.View(m.keys))
}

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			lines = append(lines, helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
		}
	}
	lines = append(lines, helpKeyStyle.Render("mouse")+helpDescStyle.Render("hover the plot for values"))

	lines = append(lines, "")
	lines = append(lines, footerStyle.Render("Press ? to close"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBoxStyle.Render(strings.Join(lines, "\n")),
	)
}
