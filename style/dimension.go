package style

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DimensionKind discriminates the Dimension variants.
type DimensionKind uint8

const (
	// DimensionAuto sizes from content.
	DimensionAuto DimensionKind = iota
	// DimensionPt is an absolute length in points.
	DimensionPt
	// DimensionPercent is relative to the containing block.
	DimensionPercent
)

// Dimension is a length that is either automatic, absolute (points) or a
// percentage of the containing block.
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Pt returns an absolute dimension in points.
func Pt(v float64) Dimension { return Dimension{Kind: DimensionPt, Value: v} }

// Percent returns a percentage dimension (0-100 scale).
func Percent(v float64) Dimension { return Dimension{Kind: DimensionPercent, Value: v} }

// Auto returns the content-sized dimension.
func Auto() Dimension { return Dimension{Kind: DimensionAuto} }

// IsAuto reports whether the dimension sizes from content.
func (d Dimension) IsAuto() bool { return d.Kind == DimensionAuto }

// Resolve converts the dimension to points against the given base length.
// It returns false for Auto.
func (d Dimension) Resolve(base float64) (float64, bool) {
	switch d.Kind {
	case DimensionPt:
		return d.Value, true
	case DimensionPercent:
		return base * d.Value / 100.0, true
	default:
		return 0, false
	}
}

func (d Dimension) String() string {
	switch d.Kind {
	case DimensionPt:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "pt"
	case DimensionPercent:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "%"
	default:
		return "auto"
	}
}

// MarshalJSON encodes points as a bare number, percentages as "NN%" and
// auto as "auto".
func (d Dimension) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DimensionPt:
		return json.Marshal(d.Value)
	case DimensionPercent:
		return json.Marshal(fmt.Sprintf("%g%%", d.Value))
	default:
		return json.Marshal("auto")
	}
}

// UnmarshalJSON accepts a number (points), "auto", "NNpt" or "NN%".
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*d = Pt(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dimension: expected number or string, got %s", data)
	}
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "auto":
		*d = Auto()
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return fmt.Errorf("dimension: invalid percentage %q", s)
		}
		*d = Percent(v)
	case strings.HasSuffix(s, "pt"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
		if err != nil {
			return fmt.Errorf("dimension: invalid length %q", s)
		}
		*d = Pt(v)
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("dimension: invalid value %q", s)
		}
		*d = Pt(v)
	}
	return nil
}

// Margins holds per-edge spacing in points.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformMargins returns margins with the same value on every edge.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns left + right.
func (m Margins) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns top + bottom.
func (m Margins) Vertical() float64 { return m.Top + m.Bottom }
