package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/serscope/serscope/internal/plot"
	"github.com/serscope/serscope/internal/poll"
	"github.com/serscope/serscope/internal/telemetry"
)

// frameInterval is the display refresh rate. Polling runs on its own cadence;
// the display just snapshots whatever has arrived.
const frameInterval = 250 * time.Millisecond

// Canvas margins in character cells. The left margin holds grid value labels,
// the bottom margin holds the legend and the time axis labels.
const (
	marginLeft   = 8
	marginRight  = 1
	marginTop    = 1
	marginBottom = 2
)

// headerRows and footerRows are the lines reserved above and below the canvas.
const (
	headerRows = 2
	footerRows = 1
)

// keyMap defines the display keybindings.
type keyMap struct {
	Start   key.Binding
	Pause   key.Binding
	Restart key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/resume"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Restart, k.Help, k.Quit}
}

// FullHelp feeds the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Restart},
		{k.Help, k.Close, k.Quit},
	}
}

// Model is the Bubble Tea model for the live plot display.
type Model struct {
	poller   *poll.Poller
	registry *telemetry.Registry
	clock    *telemetry.Clock
	style    plot.Style

	port string
	baud int

	width  int
	height int

	// Cursor position in dot space, valid while hasCursor is set.
	cursorX   int
	cursorY   int
	hasCursor bool

	frame   *plot.Frame
	tooltip *plot.Tooltip

	keys     keyMap
	help     help.Model
	showHelp bool
	quitting bool
}

// tickMsg signals a periodic display refresh.
type tickMsg time.Time

// NewModel creates the display model. The poller is started by Init.
func NewModel(poller *poll.Poller, registry *telemetry.Registry, clock *telemetry.Clock, port string, baud int) Model {
	return Model{
		poller:   poller,
		registry: registry,
		clock:    clock,
		style:    plot.DefaultStyle(),
		port:     port,
		baud:     baud,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Init starts polling and the display tick.
func (m Model) Init() tea.Cmd {
	m.poller.Start()
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion {
			m.cursorX = msg.X * m.style.CharWidth
			m.cursorY = (msg.Y - headerRows) * m.style.CharHeight
			m.hasCursor = msg.Y >= headerRows && msg.Y < m.height-footerRows
			m.resolveTooltip()
		}

	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}

	return m, nil
}

// handleKey processes keyboard input. Returns true if the key was handled.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return true, nil

	case m.showHelp && key.Matches(msg, m.keys.Close):
		m.showHelp = false
		return true, nil

	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.poller.Stop()
		return true, tea.Quit

	case key.Matches(msg, m.keys.Start):
		m.poller.Resume()
		return true, nil

	case key.Matches(msg, m.keys.Pause):
		m.poller.Pause()
		return true, nil

	case key.Matches(msg, m.keys.Restart):
		m.poller.Restart()
		m.tooltip = nil
		m.refresh()
		return true, nil
	}

	return false, nil
}

// canvasSize returns the plot canvas dimensions in character cells.
func (m Model) canvasSize() (cols, rows int) {
	return m.width, m.height - headerRows - footerRows
}

// viewport returns the plot rectangle in dot space, inset by the label
// margins.
func (m Model) viewport() plot.Rect {
	cols, rows := m.canvasSize()
	cw, ch := m.style.CharWidth, m.style.CharHeight
	return plot.Rect{
		Left:   marginLeft * cw,
		Top:    marginTop * ch,
		Right:  (cols-marginRight)*cw - 1,
		Bottom: (rows-marginBottom)*ch - 1,
	}
}

// tooSmall reports whether the terminal cannot fit the plot.
func (m Model) tooSmall() bool {
	cols, rows := m.canvasSize()
	return cols < (marginLeft+marginRight+10) || rows < (marginTop+marginBottom+4)
}

// refresh recomputes the frame from a registry snapshot.
func (m *Model) refresh() {
	if m.tooSmall() {
		m.frame = nil
		m.tooltip = nil
		return
	}
	m.frame = plot.ComputeFrame(m.registry.Snapshot(), m.viewport(), m.style)
	m.resolveTooltip()
}

// resolveTooltip recomputes the cursor overlay against the current frame.
func (m *Model) resolveTooltip() {
	if m.frame == nil || !m.hasCursor {
		m.tooltip = nil
		return
	}
	cols, rows := m.canvasSize()
	m.tooltip = plot.ResolveTooltip(
		m.registry.Snapshot(),
		m.frame.Plot,
		m.cursorX, m.cursorY,
		cols*m.style.CharWidth, rows*m.style.CharHeight,
		m.tooltip,
		m.style,
	)
}

// tickCmd returns a command that sends a tick after the frame interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the display program. Mouse motion reporting drives the tooltip.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
