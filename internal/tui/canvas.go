package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/serscope/serscope/internal/plot"
)

// Braille character rasterization for high-resolution terminal plots.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// cell is one terminal character position. A cell holds either accumulated
// braille dot bits or a text rune; text wins over dots drawn afterwards.
type cell struct {
	bits  uint8
	r     rune
	color string
}

// Canvas rasterizes dot-space plot primitives onto a character grid. Dot
// coordinates divide by the style's cell size: each character is CharWidth
// dots wide and CharHeight dots tall.
type Canvas struct {
	cols, rows int
	style      plot.Style
	cells      [][]cell
}

// NewCanvas creates a cleared canvas of the given character dimensions.
func NewCanvas(cols, rows int, st plot.Style) *Canvas {
	cells := make([][]cell, rows)
	for i := range cells {
		cells[i] = make([]cell, cols)
	}
	return &Canvas{cols: cols, rows: rows, style: st, cells: cells}
}

// DotWidth returns the canvas width in dots.
func (c *Canvas) DotWidth() int {
	return c.cols * c.style.CharWidth
}

// DotHeight returns the canvas height in dots.
func (c *Canvas) DotHeight() int {
	return c.rows * c.style.CharHeight
}

// SetDot turns on the braille dot at a dot-space position. Out-of-range
// positions and positions covered by text are ignored.
func (c *Canvas) SetDot(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}
	col := x / c.style.CharWidth
	row := y / c.style.CharHeight
	if col >= c.cols || row >= c.rows {
		return
	}
	cl := &c.cells[row][col]
	if cl.r != 0 {
		return
	}
	subRow := y % c.style.CharHeight
	subCol := x % c.style.CharWidth
	if subRow > 3 {
		subRow = 3
	}
	if subCol > 1 {
		subCol = 1
	}
	cl.bits |= 1 << brailleDots[subRow][subCol]
	cl.color = color
}

// DrawLine rasterizes a straight segment. Dashed lines draw two dots then
// skip two along the traversal.
func (c *Canvas) DrawLine(l plot.Line) {
	x0, y0, x1, y1 := l.X0, l.Y0, l.X1, l.Y1

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for i := 0; ; i++ {
		if !l.Dashed || i%4 < 2 {
			c.SetDot(x0, y0, l.Color)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPolyline connects consecutive points with solid segments. A single
// point draws one dot.
func (c *Canvas) DrawPolyline(p plot.Polyline) {
	if len(p.Points) == 1 {
		c.SetDot(p.Points[0].X, p.Points[0].Y, p.Color)
		return
	}
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		c.DrawLine(plot.Line{X0: a.X, Y0: a.Y, X1: b.X, Y1: b.Y, Color: p.Color})
	}
}

// DrawRect outlines a dot-space rectangle with solid lines.
func (c *Canvas) DrawRect(r plot.Rect, color string) {
	c.DrawLine(plot.Line{X0: r.Left, Y0: r.Top, X1: r.Right, Y1: r.Top, Color: color})
	c.DrawLine(plot.Line{X0: r.Left, Y0: r.Bottom, X1: r.Right, Y1: r.Bottom, Color: color})
	c.DrawLine(plot.Line{X0: r.Left, Y0: r.Top, X1: r.Left, Y1: r.Bottom, Color: color})
	c.DrawLine(plot.Line{X0: r.Right, Y0: r.Top, X1: r.Right, Y1: r.Bottom, Color: color})
}

// DrawText places a string at a dot-space top-left position. The text snaps
// to the character grid and clips at the canvas edges.
func (c *Canvas) DrawText(x, y int, text, color string) {
	row := y / c.style.CharHeight
	if row < 0 || row >= c.rows {
		return
	}
	col := x / c.style.CharWidth
	for _, r := range text {
		if col >= c.cols {
			break
		}
		if col >= 0 {
			c.cells[row][col] = cell{r: r, color: color}
		}
		col++
	}
}

// DrawLabel places anchored text. AnchorNE and AnchorE hang the text left of
// the anchor point; AnchorE additionally centers it vertically.
func (c *Canvas) DrawLabel(l plot.Label) {
	x, y := l.X, l.Y
	switch l.Anchor {
	case plot.AnchorNE:
		x -= c.style.MeasureText(l.Text)
	case plot.AnchorE:
		x -= c.style.MeasureText(l.Text)
		y -= c.style.CharHeight / 2
	}
	c.DrawText(x, y, l.Text, l.Color)
}

// DrawFrame rasterizes a laid-out frame: grids beneath data, then the plot
// border, then all text.
func (c *Canvas) DrawFrame(f *plot.Frame) {
	for _, g := range f.Grid {
		c.DrawLine(g)
	}
	for _, p := range f.Polylines {
		c.DrawPolyline(p)
	}
	c.DrawRect(f.Plot, string(colorPlotBorder))
	for _, l := range f.Labels {
		c.DrawLabel(l)
	}
	for _, l := range f.Legend {
		c.DrawLabel(l)
	}
}

// DrawTooltip overlays the tooltip box on top of everything drawn so far.
// The covered cells are cleared so plot content does not bleed through.
func (c *Canvas) DrawTooltip(t *plot.Tooltip) {
	if t == nil {
		return
	}
	c0 := clampInt(t.Box.Left/c.style.CharWidth, 0, c.cols-1)
	c1 := clampInt(t.Box.Right/c.style.CharWidth, 0, c.cols-1)
	r0 := clampInt(t.Box.Top/c.style.CharHeight, 0, c.rows-1)
	r1 := clampInt(t.Box.Bottom/c.style.CharHeight, 0, c.rows-1)

	border := string(colorTooltipBorder)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			r := ' '
			switch {
			case row == r0 && col == c0:
				r = '┌'
			case row == r0 && col == c1:
				r = '┐'
			case row == r1 && col == c0:
				r = '└'
			case row == r1 && col == c1:
				r = '┘'
			case row == r0 || row == r1:
				r = '─'
			case col == c0 || col == c1:
				r = '│'
			}
			c.cells[row][col] = cell{r: r, color: border}
		}
	}

	for i, line := range t.Lines {
		row := r0 + 1 + i
		if row >= r1 {
			break
		}
		col := c0 + 1
		for _, r := range line.Text {
			if col >= c1 {
				break
			}
			c.cells[row][col] = cell{r: r, color: line.Color}
			col++
		}
	}
}

// Render converts the grid to styled terminal lines. Runs of cells sharing a
// color are styled together to keep the output compact.
func (c *Canvas) Render() string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		var run strings.Builder
		runColor := ""

		flush := func() {
			if run.Len() == 0 {
				return
			}
			s := run.String()
			if runColor != "" {
				s = lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(s)
			}
			b.WriteString(s)
			run.Reset()
		}

		for col := 0; col < c.cols; col++ {
			cl := c.cells[row][col]
			r := cl.r
			color := cl.color
			if r == 0 {
				if cl.bits == 0 {
					r = ' '
					color = ""
				} else {
					r = brailleBase + rune(cl.bits)
				}
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(r)
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
