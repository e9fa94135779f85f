package plot

// The plot works in an integer "dot" space: the high-resolution grid the
// renderer rasterizes onto (braille cells give 2 dots per column and 4 per
// row, so text occupies CharWidth x CharHeight dots).

// Point is one dot-space coordinate.
type Point struct {
	X, Y int
}

// Rect is a dot-space rectangle. Right and Bottom are inclusive bounds.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Contains reports whether the point lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Anchor positions a label's text relative to its coordinate.
type Anchor int

const (
	// AnchorNW places the coordinate at the label's top-left corner.
	AnchorNW Anchor = iota
	// AnchorNE places the coordinate at the label's top-right corner.
	AnchorNE
	// AnchorE places the coordinate at the label's right edge, vertically centered.
	AnchorE
)

// Polyline is a connected line through mapped sample points, drawn in the
// channel's color.
type Polyline struct {
	Points []Point
	Color  string
}

// Line is a straight drawing segment. Gridlines are dashed.
type Line struct {
	X0, Y0, X1, Y1 int
	Color          string
	Dashed         bool
}

// Label is positioned text. An empty color means the renderer's default
// foreground.
type Label struct {
	X, Y   int
	Text   string
	Color  string
	Anchor Anchor
}

// Frame is everything one render tick draws, already laid out in dot space.
type Frame struct {
	Plot      Rect
	Polylines []Polyline
	Grid      []Line
	Labels    []Label // grid value labels and axis labels
	Legend    []Label // flowing per-channel legend entries
}

// Domain is the [Min, Max] value range mapped linearly onto one axis.
type Domain struct {
	Min, Max float64
}

// Widened returns the domain with a degenerate (zero-width) range widened by
// one unit so linear mapping never divides by zero.
func (d Domain) Widened() Domain {
	if d.Max == d.Min {
		return Domain{Min: d.Min, Max: d.Min + 1}
	}
	return d
}

// Span returns Max - Min.
func (d Domain) Span() float64 {
	return d.Max - d.Min
}

// ToPixel maps a value to [lo, hi] by linear interpolation.
func (d Domain) ToPixel(v float64, lo, hi int) int {
	return lo + int((v-d.Min)/d.Span()*float64(hi-lo))
}

// FromPixel maps a dot coordinate in [lo, hi] back to a value.
func (d Domain) FromPixel(px, lo, hi int) float64 {
	if hi == lo {
		return d.Min
	}
	return d.Min + float64(px-lo)/float64(hi-lo)*d.Span()
}
