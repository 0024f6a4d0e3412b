// Package style defines the user-facing styling surface consumed by the
// layout engine: sparse per-element styles, page masters and the stylesheet
// that groups them. Values here are raw author input; inheritance and
// defaulting happen during layout.
package style

import (
	"encoding/json"
	"fmt"
)

// FontWeight is a numeric font weight on the usual 100-900 scale.
type FontWeight int

const (
	WeightThin       FontWeight = 100
	WeightExtraLight FontWeight = 200
	WeightLight      FontWeight = 300
	WeightRegular    FontWeight = 400
	WeightMedium     FontWeight = 500
	WeightSemibold   FontWeight = 600
	WeightBold       FontWeight = 700
	WeightExtraBold  FontWeight = 800
	WeightBlack      FontWeight = 900
)

var weightNames = map[string]FontWeight{
	"thin": WeightThin, "extralight": WeightExtraLight, "light": WeightLight,
	"normal": WeightRegular, "regular": WeightRegular, "medium": WeightMedium,
	"semibold": WeightSemibold, "bold": WeightBold, "extrabold": WeightExtraBold,
	"black": WeightBlack,
}

// UnmarshalJSON accepts a number or a weight name such as "bold".
func (w *FontWeight) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*w = FontWeight(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("font-weight: expected number or name, got %s", data)
	}
	v, ok := weightNames[s]
	if !ok {
		return fmt.Errorf("font-weight: unknown name %q", s)
	}
	*w = v
	return nil
}

// FontStyle selects the face slant.
type FontStyle uint8

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

func (s *FontStyle) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "font-style", s, map[string]FontStyle{
		"normal": FontStyleNormal, "italic": FontStyleItalic, "oblique": FontStyleOblique,
	})
}

// TextAlign controls horizontal line placement inside a paragraph.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignRight
	AlignCenter
	AlignJustify
)

func (a *TextAlign) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "text-align", a, map[string]TextAlign{
		"left": AlignLeft, "right": AlignRight, "center": AlignCenter, "justify": AlignJustify,
	})
}

// TextDecoration is a bit set of line decorations.
type TextDecoration uint8

const (
	DecorationNone          TextDecoration = 0
	DecorationUnderline     TextDecoration = 1 << 0
	DecorationStrikethrough TextDecoration = 1 << 1
)

// Has reports whether every decoration in d is present.
func (td TextDecoration) Has(d TextDecoration) bool { return td&d == d }

func (td *TextDecoration) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "text-decoration", td, map[string]TextDecoration{
		"none":                   DecorationNone,
		"underline":              DecorationUnderline,
		"line-through":           DecorationStrikethrough,
		"underline line-through": DecorationUnderline | DecorationStrikethrough,
	})
}

// ListStyleType selects list-item marker generation.
type ListStyleType uint8

const (
	ListDisc ListStyleType = iota
	ListCircle
	ListSquare
	ListDecimal
	ListLowerAlpha
	ListUpperAlpha
	ListLowerRoman
	ListUpperRoman
	ListNone
)

func (l *ListStyleType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "list-style-type", l, map[string]ListStyleType{
		"disc": ListDisc, "circle": ListCircle, "square": ListSquare,
		"decimal": ListDecimal, "lower-alpha": ListLowerAlpha, "upper-alpha": ListUpperAlpha,
		"lower-roman": ListLowerRoman, "upper-roman": ListUpperRoman, "none": ListNone,
	})
}

// ListPosition places the marker outside (own column) or inside the item text.
type ListPosition uint8

const (
	ListOutside ListPosition = iota
	ListInside
)

func (l *ListPosition) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "list-style-position", l, map[string]ListPosition{
		"outside": ListOutside, "inside": ListInside,
	})
}

// FlexDirection sets the main axis of a flex container.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

// Horizontal reports whether the main axis is horizontal.
func (d FlexDirection) Horizontal() bool { return d == FlexRow || d == FlexRowReverse }

func (d *FlexDirection) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "flex-direction", d, map[string]FlexDirection{
		"row": FlexRow, "row-reverse": FlexRowReverse,
		"column": FlexColumn, "column-reverse": FlexColumnReverse,
	})
}

// FlexWrap controls whether flex items can form multiple lines.
type FlexWrap uint8

const (
	WrapNone FlexWrap = iota
	Wrap
	WrapReverse
)

func (w *FlexWrap) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "flex-wrap", w, map[string]FlexWrap{
		"nowrap": WrapNone, "wrap": Wrap, "wrap-reverse": WrapReverse,
	})
}

// JustifyContent distributes free space along the main axis.
type JustifyContent uint8

const (
	JustifyStart JustifyContent = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

func (j *JustifyContent) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "justify-content", j, map[string]JustifyContent{
		"flex-start": JustifyStart, "flex-end": JustifyEnd, "center": JustifyCenter,
		"space-between": JustifySpaceBetween, "space-around": JustifySpaceAround,
		"space-evenly": JustifySpaceEvenly,
	})
}

// AlignItems aligns items on the cross axis.
type AlignItems uint8

const (
	AlignStretch AlignItems = iota
	AlignItemsStart
	AlignItemsEnd
	AlignItemsCenter
	AlignBaseline
)

func (a *AlignItems) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "align-items", a, map[string]AlignItems{
		"stretch": AlignStretch, "flex-start": AlignItemsStart, "flex-end": AlignItemsEnd,
		"center": AlignItemsCenter, "baseline": AlignBaseline,
	})
}

// AlignSelf overrides AlignItems for a single item.
type AlignSelf uint8

const (
	AlignSelfAuto AlignSelf = iota
	AlignSelfStretch
	AlignSelfStart
	AlignSelfEnd
	AlignSelfCenter
	AlignSelfBaseline
)

func (a *AlignSelf) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "align-self", a, map[string]AlignSelf{
		"auto": AlignSelfAuto, "stretch": AlignSelfStretch, "flex-start": AlignSelfStart,
		"flex-end": AlignSelfEnd, "center": AlignSelfCenter, "baseline": AlignSelfBaseline,
	})
}

// BorderStyle selects the border stroke pattern.
type BorderStyle uint8

const (
	BorderSolid BorderStyle = iota
	BorderDashed
	BorderDotted
)

func (b *BorderStyle) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "border-style", b, map[string]BorderStyle{
		"solid": BorderSolid, "dashed": BorderDashed, "dotted": BorderDotted,
	})
}

// Border describes one box edge.
type Border struct {
	Width float64     `json:"width"`
	Style BorderStyle `json:"style,omitempty"`
	Color Color       `json:"color,omitempty"`
}

// ElementStyle is the sparse style an author attaches to a node or defines
// as a named style set. Nil fields mean "not set here"; the layout engine
// resolves them against ancestors and defaults.
type ElementStyle struct {
	FontFamily     *string         `json:"font-family,omitempty"`
	FontSize       *float64        `json:"font-size,omitempty"`
	FontWeight     *FontWeight     `json:"font-weight,omitempty"`
	FontStyle      *FontStyle      `json:"font-style,omitempty"`
	LineHeight     *float64        `json:"line-height,omitempty"`
	TextAlign      *TextAlign      `json:"text-align,omitempty"`
	TextDecoration *TextDecoration `json:"text-decoration,omitempty"`
	Color          *Color          `json:"color,omitempty"`

	Margin          *Margins   `json:"margin,omitempty"`
	Padding         *Margins   `json:"padding,omitempty"`
	Width           *Dimension `json:"width,omitempty"`
	Height          *Dimension `json:"height,omitempty"`
	BackgroundColor *Color     `json:"background-color,omitempty"`

	Border       *Border `json:"border,omitempty"`
	BorderTop    *Border `json:"border-top,omitempty"`
	BorderRight  *Border `json:"border-right,omitempty"`
	BorderBottom *Border `json:"border-bottom,omitempty"`
	BorderLeft   *Border `json:"border-left,omitempty"`

	FlexDirection  *FlexDirection  `json:"flex-direction,omitempty"`
	FlexWrap       *FlexWrap       `json:"flex-wrap,omitempty"`
	JustifyContent *JustifyContent `json:"justify-content,omitempty"`
	AlignItems     *AlignItems     `json:"align-items,omitempty"`
	AlignSelf      *AlignSelf      `json:"align-self,omitempty"`
	FlexGrow       *float64        `json:"flex-grow,omitempty"`
	FlexShrink     *float64        `json:"flex-shrink,omitempty"`
	FlexBasis      *Dimension      `json:"flex-basis,omitempty"`

	ListStyleType     *ListStyleType `json:"list-style-type,omitempty"`
	ListStylePosition *ListPosition  `json:"list-style-position,omitempty"`

	BorderSpacing *float64 `json:"border-spacing,omitempty"`
	Widows        *int     `json:"widows,omitempty"`
	Orphans       *int     `json:"orphans,omitempty"`
}

func unmarshalEnum[T any](data []byte, name string, dst *T, values map[string]T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: expected string, got %s", name, data)
	}
	v, ok := values[s]
	if !ok {
		return fmt.Errorf("%s: unknown value %q", name, s)
	}
	*dst = v
	return nil
}
