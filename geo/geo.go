package geo

import "math"

// FitEpsilon absorbs floating-point drift when deciding whether a child
// fits into remaining space.
const FitEpsilon = 0.01

// Point is an absolute position in points.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in points.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains returns true if the point (x, y) is within the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Inset shrinks the rectangle by the given edge amounts. Width and height
// are clamped at zero.
func (r Rect) Inset(top, right, bottom, left float64) Rect {
	out := Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: r.W - left - right,
		H: r.H - top - bottom,
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Constraints bounds a node's size during measure and layout. A max of
// math.Inf(1) means unbounded on that axis.
type Constraints struct {
	MinW, MaxW float64
	MinH, MaxH float64
}

// Unbounded returns constraints with no limits on either axis.
func Unbounded() Constraints {
	inf := math.Inf(1)
	return Constraints{MaxW: inf, MaxH: inf}
}

// Tight returns constraints that force exactly the given size.
func Tight(s Size) Constraints {
	return Constraints{MinW: s.W, MaxW: s.W, MinH: s.H, MaxH: s.H}
}

// TightWidth forces the width and leaves the height unbounded.
func TightWidth(w float64) Constraints {
	return Constraints{MinW: w, MaxW: w, MaxH: math.Inf(1)}
}

// Loose returns constraints bounded above by the given size with free minimums.
func Loose(s Size) Constraints {
	return Constraints{MaxW: s.W, MaxH: s.H}
}

// HasBoundedWidth reports whether the width is finitely bounded.
func (c Constraints) HasBoundedWidth() bool { return !math.IsInf(c.MaxW, 1) }

// HasBoundedHeight reports whether the height is finitely bounded.
func (c Constraints) HasBoundedHeight() bool { return !math.IsInf(c.MaxH, 1) }

// ConstrainWidth clamps w into [MinW, MaxW].
func (c Constraints) ConstrainWidth(w float64) float64 {
	return clamp(w, c.MinW, c.MaxW)
}

// ConstrainHeight clamps h into [MinH, MaxH].
func (c Constraints) ConstrainHeight(h float64) float64 {
	return clamp(h, c.MinH, c.MaxH)
}

// Constrain clamps both axes of s.
func (c Constraints) Constrain(s Size) Size {
	return Size{W: c.ConstrainWidth(s.W), H: c.ConstrainHeight(s.H)}
}

// Deflate subtracts horizontal and vertical space from the maximums,
// clamping at zero, and drops the minimums. Used to derive content-box
// constraints from border-box constraints.
func (c Constraints) Deflate(horizontal, vertical float64) Constraints {
	out := Constraints{MaxW: c.MaxW, MaxH: c.MaxH}
	if c.HasBoundedWidth() {
		out.MaxW = math.Max(0, c.MaxW-horizontal)
	}
	if c.HasBoundedHeight() {
		out.MaxH = math.Max(0, c.MaxH-vertical)
	}
	return out
}

// FuzzyEq compares two floats with FitEpsilon tolerance.
func FuzzyEq(a, b float64) bool {
	return math.Abs(a-b) < FitEpsilon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
