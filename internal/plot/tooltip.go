package plot

import (
	"fmt"

	"github.com/serscope/serscope/internal/telemetry"
)

// TooltipLine is one text line inside the tooltip. An empty color means the
// renderer's default foreground (used for the time line).
type TooltipLine struct {
	Text  string
	Color string
}

// Tooltip is the resolved cursor overlay: a box in dot space guaranteed to
// contain the cursor, plus its text lines in composition order (time first,
// then one line per channel with data).
type Tooltip struct {
	Box   Rect
	Lines []TooltipLine
}

// Contains reports whether a cursor position lies within the tooltip box.
func (t *Tooltip) Contains(x, y int) bool {
	return t != nil && t.Box.Contains(x, y)
}

// ResolveTooltip computes the tooltip for a cursor position.
//
// Outside the plot rectangle there is no tooltip. While the cursor stays
// inside an already-shown box the previous tooltip is returned unchanged, so
// it does not jitter under a resting cursor. Otherwise the cursor X is mapped
// through the shared time domain for the time line, and each channel finds its
// nearest sample over its own timestamp domain, which may differ under dynamic
// discovery.
func ResolveTooltip(snaps []telemetry.ChannelSnapshot, plot Rect, cursorX, cursorY int, canvasW, canvasH int, prev *Tooltip, st Style) *Tooltip {
	if !plot.Contains(cursorX, cursorY) {
		return nil
	}
	if prev.Contains(cursorX, cursorY) {
		return prev
	}

	xd, ok := XDomain(snaps)
	if !ok {
		return nil
	}

	timeAtCursor := xd.FromPixel(cursorX, plot.Left, plot.Right)
	lines := []TooltipLine{{Text: fmt.Sprintf("Time: %.1f s", timeAtCursor/1000)}}

	for _, ch := range snaps {
		if len(ch.Samples) == 0 {
			continue
		}
		s := nearestSample(ch.Samples, cursorX, plot)
		lines = append(lines, TooltipLine{
			Text:  fmt.Sprintf("%s: %.3g", ch.Name, s.Value),
			Color: ch.Color,
		})
	}
	if len(lines) == 1 {
		return nil
	}

	return &Tooltip{
		Box:   placeTooltipBox(lines, cursorX, cursorY, canvasW, canvasH, st),
		Lines: lines,
	}
}

// nearestSample maps the cursor X through the channel's own time domain and
// returns the sample closest in timestamp distance.
func nearestSample(samples []telemetry.Sample, cursorX int, plot Rect) telemetry.Sample {
	d := Domain{
		Min: float64(samples[0].TimestampMS),
		Max: float64(samples[len(samples)-1].TimestampMS),
	}
	if d.Span() == 0 {
		return samples[0]
	}

	target := d.FromPixel(cursorX, plot.Left, plot.Right)
	best := samples[0]
	bestDist := dist(float64(best.TimestampMS), target)
	for _, s := range samples[1:] {
		if dd := dist(float64(s.TimestampMS), target); dd < bestDist {
			best = s
			bestDist = dd
		}
	}
	return best
}

func dist(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// placeTooltipBox sizes the box from its text lines and anchors it so the
// cursor sits at (offset, offset) inside. If the box would exceed the canvas
// it is shifted (not resized) to fit, then clamped as a last resort, so the
// cursor must always end up inside the visible box.
func placeTooltipBox(lines []TooltipLine, cursorX, cursorY, canvasW, canvasH int, st Style) Rect {
	textW := 0
	for _, ln := range lines {
		if w := st.MeasureText(ln.Text); w > textW {
			textW = w
		}
	}
	boxW := textW + st.TooltipPad*2
	boxH := len(lines)*st.CharHeight + st.TooltipPad*2

	x0 := cursorX - st.TooltipOffset
	y0 := cursorY - st.TooltipOffset
	x1 := x0 + boxW
	y1 := y0 + boxH

	// Shift back inside the canvas
	if dx := x1 - canvasW; dx > 0 {
		x0 -= dx
		x1 -= dx
	}
	if dy := y1 - canvasH; dy > 0 {
		y0 -= dy
		y1 -= dy
	}
	if x0 < 0 {
		x1 -= x0
		x0 = 0
	}
	if y0 < 0 {
		y1 -= y0
		y0 = 0
	}

	// Shifting may have pushed the cursor out; re-anchor so it stays inside
	if cursorX < x0 || cursorX > x1 {
		x0 = clamp(cursorX-st.TooltipOffset, 0, canvasW-boxW)
		x1 = x0 + boxW
	}
	if cursorY < y0 || cursorY > y1 {
		y0 = clamp(cursorY-st.TooltipOffset, 0, canvasH-boxH)
		y1 = y0 + boxH
	}

	return Rect{Left: x0, Top: y0, Right: x1, Bottom: y1}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
