// Package plot lays out multi-channel time-series frames in an abstract dot
// space. It is pure geometry: the TUI decides the viewport and rasterizes the
// resulting primitives, and the registry supplies consistent snapshots.
package plot

import (
	"fmt"
	"strconv"

	"github.com/serscope/serscope/internal/telemetry"
)

// Style holds the presentation constants of the layout engine. They are
// deliberate choices carried over from long use, not correctness requirements.
type Style struct {
	// GridLines is the number of bands each channel's Y domain is split into.
	GridLines int

	// TopGridNudge shifts the topmost gridline down by this fraction of one
	// band step so its label clears the plot's top border.
	TopGridNudge float64

	// CharWidth and CharHeight are the dot-space dimensions of one text cell.
	CharWidth  int
	CharHeight int

	// LabelGap is the vertical clearance required between grid labels.
	LabelGap int

	// LabelAttempts bounds the collision-avoidance probe.
	LabelAttempts int

	// LegendGap is the dot gap between flowing legend entries.
	LegendGap int

	// TooltipOffset is where the cursor sits inside the tooltip box.
	TooltipOffset int

	// TooltipPad is the inner padding of the tooltip box.
	TooltipPad int
}

// DefaultStyle returns the standard plot presentation.
func DefaultStyle() Style {
	return Style{
		GridLines:     5,
		TopGridNudge:  0.5,
		CharWidth:     2,
		CharHeight:    4,
		LabelGap:      1,
		LabelAttempts: 50,
		LegendGap:     6,
		TooltipOffset: 4,
		TooltipPad:    2,
	}
}

// MeasureText returns the dot width of a string at this style's cell size.
func (st Style) MeasureText(s string) int {
	return len([]rune(s)) * st.CharWidth
}

// XDomain computes the shared time domain over all channels, widened if
// degenerate. Samples within a channel are chronological, so only each
// channel's first and last timestamps matter. ok is false when no channel has
// any samples.
func XDomain(snaps []telemetry.ChannelSnapshot) (Domain, bool) {
	var d Domain
	seen := false
	for _, ch := range snaps {
		if len(ch.Samples) == 0 {
			continue
		}
		first := float64(ch.Samples[0].TimestampMS)
		last := float64(ch.Samples[len(ch.Samples)-1].TimestampMS)
		if !seen {
			d = Domain{Min: first, Max: last}
			seen = true
			continue
		}
		if first < d.Min {
			d.Min = first
		}
		if last > d.Max {
			d.Max = last
		}
	}
	if !seen {
		return Domain{}, false
	}
	return d.Widened(), true
}

// YDomain computes one channel's magnitude domain [0, max |v|], widened to
// [0, 1] when every sample is zero.
func YDomain(ch telemetry.ChannelSnapshot) Domain {
	var max float64
	for _, s := range ch.Samples {
		if m := s.Magnitude(); m > max {
			max = m
		}
	}
	if max == 0 {
		max = 1
	}
	return Domain{Min: 0, Max: max}
}

// ComputeFrame lays out one render tick: polylines, per-channel grids with
// collision-free labels, X axis labels, and the legend flow. Channels without
// samples are skipped entirely. Returns a frame containing only the plot
// border when there is no data yet.
func ComputeFrame(snaps []telemetry.ChannelSnapshot, viewport Rect, st Style) *Frame {
	f := &Frame{Plot: viewport}

	xd, ok := XDomain(snaps)
	if !ok {
		return f
	}

	labels := newLabelPlacer(viewport, st)

	for _, ch := range snaps {
		if len(ch.Samples) == 0 {
			continue
		}
		yd := YDomain(ch)

		f.Polylines = append(f.Polylines, Polyline{
			Points: mapSamples(ch.Samples, xd, yd, viewport),
			Color:  ch.Color,
		})
		layoutChannelGrid(f, ch.Color, yd, viewport, st, labels)
	}

	layoutXLabels(f, xd, viewport, st)
	layoutLegend(f, snaps, viewport, st)

	return f
}

// mapSamples converts samples to dot points: shared X interpolation, this
// channel's own Y interpolation, magnitudes only.
func mapSamples(samples []telemetry.Sample, xd, yd Domain, plot Rect) []Point {
	pts := make([]Point, len(samples))
	for i, s := range samples {
		pts[i] = Point{
			X: xd.ToPixel(float64(s.TimestampMS), plot.Left, plot.Right),
			Y: plot.Bottom - int(s.Magnitude()/yd.Max*float64(plot.Height())),
		}
	}
	return pts
}

// layoutChannelGrid adds one channel's horizontal gridlines and value labels.
// The topmost gridline is nudged down by a fraction of one band step; labels
// show the band value, not the pixel position.
func layoutChannelGrid(f *Frame, color string, yd Domain, plot Rect, st Style, labels *labelPlacer) {
	step := yd.Span() / float64(st.GridLines)
	for i := 0; i <= st.GridLines; i++ {
		yVal := yd.Min + float64(i)*step
		if i == st.GridLines {
			yVal -= step * st.TopGridNudge
			if yVal < yd.Min {
				yVal = yd.Min
			}
		}
		y := plot.Bottom - int((yVal-yd.Min)/yd.Span()*float64(plot.Height()))

		f.Grid = append(f.Grid, Line{
			X0: plot.Left, Y0: y, X1: plot.Right, Y1: y,
			Color:  gridColor,
			Dashed: true,
		})

		labelY := labels.place(y)
		f.Labels = append(f.Labels, Label{
			X:      plot.Left - st.CharWidth,
			Y:      labelY,
			Text:   fmt.Sprintf("%.2f", yVal),
			Color:  color,
			Anchor: AnchorE,
		})
	}
}

// gridColor is the muted dash color shared by all channel grids.
const gridColor = "#444444"

// layoutXLabels adds the domain min/max labels in seconds, one decimal.
func layoutXLabels(f *Frame, xd Domain, plot Rect, st Style) {
	y := plot.Bottom + st.CharHeight + 2
	f.Labels = append(f.Labels,
		Label{
			X: plot.Left, Y: y,
			Text:   fmt.Sprintf("%.1f s", xd.Min/1000),
			Anchor: AnchorNW,
		},
		Label{
			X: plot.Right, Y: y,
			Text:   fmt.Sprintf("%.1f s", xd.Max/1000),
			Anchor: AnchorNE,
		},
	)
}

// layoutLegend flows "<name>: <latest raw value>" entries left to right,
// advancing by measured text width plus a fixed gap. No wrapping; entries
// past the right edge simply clip.
func layoutLegend(f *Frame, snaps []telemetry.ChannelSnapshot, plot Rect, st Style) {
	x := plot.Left
	y := plot.Bottom + 2
	for _, ch := range snaps {
		if len(ch.Samples) == 0 {
			continue
		}
		text := ch.Name + ": " + FormatValue(ch.Latest())
		f.Legend = append(f.Legend, Label{
			X: x, Y: y,
			Text:   text,
			Color:  ch.Color,
			Anchor: AnchorNW,
		})
		x += st.MeasureText(text) + st.LegendGap
	}
}

// FormatValue renders a raw sample value compactly for the legend.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// labelPlacer tracks placed grid-label extents within one frame and finds
// collision-free vertical positions for new ones.
type labelPlacer struct {
	plot   Rect
	st     Style
	placed [][2]int // (top, bottom) of every placed label rect
}

func newLabelPlacer(plot Rect, st Style) *labelPlacer {
	return &labelPlacer{plot: plot, st: st}
}

// place returns the vertical center for a label whose gridline sits at y.
// The desired position is probed outward in growing alternating up/down steps
// until a candidate both fits the plot's vertical bounds and overlaps no
// previously placed label. Clamping to the bounds is the last resort once the
// probe budget runs out.
func (p *labelPlacer) place(y int) int {
	textH := p.st.CharHeight + p.st.LabelGap
	desiredTop := y - textH/2
	top := desiredTop
	bottom := top + textH

	found := false
	for attempt := 0; attempt <= p.st.LabelAttempts; attempt++ {
		if attempt > 0 {
			k := (attempt-1)/2 + 1
			if (attempt-1)%2 == 0 {
				top = desiredTop - k*(textH+p.st.LabelGap)
			} else {
				top = desiredTop + k*(textH+p.st.LabelGap)
			}
			bottom = top + textH
		}
		if top >= p.plot.Top && bottom <= p.plot.Bottom && !p.overlaps(top, bottom) {
			found = true
			break
		}
	}

	if !found {
		top = desiredTop
		bottom = top + textH
		if top < p.plot.Top {
			top = p.plot.Top
			bottom = top + textH
		}
		if bottom > p.plot.Bottom {
			bottom = p.plot.Bottom
			top = bottom - textH
		}
	}

	p.placed = append(p.placed, [2]int{top, bottom})
	return top + textH/2
}

// overlaps reports whether the candidate interval touches any placed label,
// with one dot of required clearance.
func (p *labelPlacer) overlaps(top, bottom int) bool {
	for _, r := range p.placed {
		if !(bottom < r[0]-1 || top > r[1]+1) {
			return true
		}
	}
	return false
}
