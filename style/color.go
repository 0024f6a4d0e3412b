package style

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Color is an sRGB color with an alpha channel on a 0-1 scale.
type Color struct {
	R, G, B uint8
	A       float64
}

// Black is the default text color.
var Black = Color{A: 1.0}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1.0} }

func (c Color) String() string {
	if c.A >= 1.0 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, uint8(c.A*255.0+0.5))
}

// MarshalJSON encodes the color as a "#RRGGBB" or "#RRGGBBAA" string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts "#RGB", "#RRGGBB" or "#RRGGBBAA" hex strings.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color: expected hex string, got %s", data)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses "#RGB", "#RRGGBB" and "#RRGGBBAA" notations.
func ParseColor(s string) (Color, error) {
	hexStr := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(hexStr) {
	case 3:
		if _, err := fmt.Sscanf(hexStr, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("color: invalid hex %q", s)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(hexStr, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("color: invalid hex %q", s)
		}
	case 8:
		if _, err := fmt.Sscanf(hexStr, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("color: invalid hex %q", s)
		}
	default:
		return Color{}, fmt.Errorf("color: invalid hex %q", s)
	}
	return Color{R: r, G: g, B: b, A: float64(a) / 255.0}, nil
}
