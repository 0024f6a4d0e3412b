package geo

import (
	"math"
	"testing"
)

func TestConstraintsConstructors(t *testing.T) {
	tight := Tight(Size{W: 100, H: 50})
	if tight.MinW != 100 || tight.MaxW != 100 || tight.MinH != 50 || tight.MaxH != 50 {
		t.Errorf("Tight produced %+v", tight)
	}

	tw := TightWidth(80)
	if tw.MinW != 80 || tw.MaxW != 80 {
		t.Errorf("TightWidth did not pin width: %+v", tw)
	}
	if tw.HasBoundedHeight() {
		t.Error("TightWidth height should be unbounded")
	}

	loose := Loose(Size{W: 200, H: 300})
	if loose.MinW != 0 || loose.MaxW != 200 || loose.MaxH != 300 {
		t.Errorf("Loose produced %+v", loose)
	}

	if Unbounded().HasBoundedWidth() || Unbounded().HasBoundedHeight() {
		t.Error("Unbounded should have no finite bounds")
	}
}

func TestConstrain(t *testing.T) {
	c := Constraints{MinW: 10, MaxW: 100, MinH: 5, MaxH: 50}

	tests := []struct {
		in   Size
		want Size
	}{
		{Size{W: 0, H: 0}, Size{W: 10, H: 5}},
		{Size{W: 55, H: 25}, Size{W: 55, H: 25}},
		{Size{W: 500, H: 500}, Size{W: 100, H: 50}},
	}
	for _, tt := range tests {
		got := c.Constrain(tt.in)
		if got != tt.want {
			t.Errorf("Constrain(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDeflate(t *testing.T) {
	c := Loose(Size{W: 100, H: 60})
	d := c.Deflate(30, 20)
	if d.MaxW != 70 || d.MaxH != 40 {
		t.Errorf("Deflate produced %+v", d)
	}

	// Deflating past zero clamps.
	d = c.Deflate(150, 80)
	if d.MaxW != 0 || d.MaxH != 0 {
		t.Errorf("Deflate should clamp at zero, got %+v", d)
	}

	// Unbounded axes stay unbounded.
	d = TightWidth(100).Deflate(10, 10)
	if !math.IsInf(d.MaxH, 1) {
		t.Error("Deflate must not bound an unbounded axis")
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 80}
	in := r.Inset(5, 10, 15, 20)
	want := Rect{X: 30, Y: 25, W: 70, H: 60}
	if in != want {
		t.Errorf("Inset = %+v, want %+v", in, want)
	}

	// Over-inset clamps dimensions at zero.
	in = r.Inset(50, 60, 50, 60)
	if in.W != 0 || in.H != 0 {
		t.Errorf("over-inset should clamp, got %+v", in)
	}
}

func TestFuzzyEq(t *testing.T) {
	if !FuzzyEq(1.0, 1.0+FitEpsilon/2) {
		t.Error("values within epsilon should compare equal")
	}
	if FuzzyEq(1.0, 1.02) {
		t.Error("values outside epsilon should differ")
	}
}
