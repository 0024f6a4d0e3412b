package layout

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// BoxModel holds the resolved box properties. Width and Height stay nil
// when the author did not size the node explicitly.
type BoxModel struct {
	Margin  style.Margins
	Padding style.Margins
	Width   *style.Dimension
	Height  *style.Dimension
}

// BorderModel holds the resolved per-edge borders; nil means no border.
type BorderModel struct {
	Top    *style.Border
	Right  *style.Border
	Bottom *style.Border
	Left   *style.Border
}

// TextModel holds the inherited text properties.
type TextModel struct {
	FontFamily string
	FontSize   float64
	FontWeight style.FontWeight
	FontStyle  style.FontStyle
	LineHeight float64
	Align      style.TextAlign
	Decoration style.TextDecoration
	Color      style.Color
}

// FlexModel holds the container and item flex properties.
type FlexModel struct {
	Direction  style.FlexDirection
	Wrap       style.FlexWrap
	Justify    style.JustifyContent
	AlignItems style.AlignItems
	Grow       float64
	Shrink     float64
	Basis      style.Dimension
	AlignSelf  style.AlignSelf
}

// ListModel holds the inherited list-marker properties.
type ListModel struct {
	Type     style.ListStyleType
	Position style.ListPosition
}

// TableModel holds the inherited table properties.
type TableModel struct {
	BorderSpacing float64
}

// MiscModel holds widow/orphan limits (inherited) and the background
// color (not inherited).
type MiscModel struct {
	Widows     int
	Orphans    int
	Background *style.Color
}

// ComputedStyle is a fully resolved, immutable style. Its hash is fixed at
// construction so caches can key on it without rehashing; construct values
// only through newComputedStyle.
type ComputedStyle struct {
	Box    BoxModel
	Border BorderModel
	Text   TextModel
	Flex   FlexModel
	List   ListModel
	Table  TableModel
	Misc   MiscModel

	hash uint64
}

// Hash returns the structural fingerprint computed at construction.
func (s *ComputedStyle) Hash() uint64 { return s.hash }

func newComputedStyle(data ComputedStyle) *ComputedStyle {
	data.hash = hashStyle(&data)
	return &data
}

// defaultComputedStyle returns the document root style: Helvetica 12pt on
// a 14.4pt line, left-aligned black text, widows and orphans of 2.
func defaultComputedStyle() *ComputedStyle {
	return newComputedStyle(ComputedStyle{
		Text: TextModel{
			FontFamily: "Helvetica",
			FontSize:   12,
			FontWeight: style.WeightRegular,
			FontStyle:  style.FontStyleNormal,
			LineHeight: 14.4,
			Align:      style.AlignLeft,
			Decoration: style.DecorationNone,
			Color:      style.Black,
		},
		Flex: FlexModel{Shrink: 1},
		Misc: MiscModel{Widows: 2, Orphans: 2},
	})
}

// PaddingX returns left + right padding.
func (s *ComputedStyle) PaddingX() float64 { return s.Box.Padding.Horizontal() }

// PaddingY returns top + bottom padding.
func (s *ComputedStyle) PaddingY() float64 { return s.Box.Padding.Vertical() }

func borderWidth(b *style.Border) float64 {
	if b == nil {
		return 0
	}
	return b.Width
}

// BorderX returns the total horizontal border width.
func (s *ComputedStyle) BorderX() float64 {
	return borderWidth(s.Border.Left) + borderWidth(s.Border.Right)
}

// BorderY returns the total vertical border width.
func (s *ComputedStyle) BorderY() float64 {
	return borderWidth(s.Border.Top) + borderWidth(s.Border.Bottom)
}

func (s *ComputedStyle) BorderTopWidth() float64    { return borderWidth(s.Border.Top) }
func (s *ComputedStyle) BorderBottomWidth() float64 { return borderWidth(s.Border.Bottom) }
func (s *ComputedStyle) BorderLeftWidth() float64   { return borderWidth(s.Border.Left) }
func (s *ComputedStyle) BorderRightWidth() float64  { return borderWidth(s.Border.Right) }

// ContentConstraints derives the constraints for a node's content box by
// removing horizontal padding and borders. Heights are left unbounded; the
// pagination cursor, not the constraint system, limits vertical growth.
func (s *ComputedStyle) ContentConstraints(c geo.Constraints) geo.Constraints {
	if !c.HasBoundedWidth() {
		return geo.Unbounded()
	}
	deduction := s.PaddingX() + s.BorderX()
	return geo.Constraints{
		MaxW: math.Max(0, c.MaxW-deduction),
		MaxH: math.Inf(1),
	}
}

// resolveStyle flattens the node's style-set references and inline override
// against the parent style. Inherited properties (text, list, table, widows,
// orphans) flow from the parent; box, border, background and flex
// properties reset on every node. Unknown style-set names fail loudly.
func resolveStyle(sheet *style.Stylesheet, meta ir.Meta, parent *ComputedStyle) (*ComputedStyle, error) {
	if len(meta.StyleSets) == 0 && meta.StyleOverride == nil {
		out := *parent
		out.Box = BoxModel{}
		out.Border = BorderModel{}
		out.Misc.Background = nil
		out.Flex = FlexModel{Shrink: 1}
		return newComputedStyle(out), nil
	}

	var merged style.ElementStyle
	for _, name := range meta.StyleSets {
		def, ok := sheet.Styles[name]
		if !ok {
			return nil, fmt.Errorf("style set %q is not defined in the stylesheet", name)
		}
		mergeElementStyles(&merged, def)
	}
	if meta.StyleOverride != nil {
		mergeElementStyles(&merged, meta.StyleOverride)
	}

	out := ComputedStyle{
		Text: TextModel{
			FontFamily: orString(merged.FontFamily, parent.Text.FontFamily),
			FontSize:   orFloat(merged.FontSize, parent.Text.FontSize),
			FontWeight: orWeight(merged.FontWeight, parent.Text.FontWeight),
			FontStyle:  orFontStyle(merged.FontStyle, parent.Text.FontStyle),
			Align:      orAlign(merged.TextAlign, parent.Text.Align),
			Decoration: orDecoration(merged.TextDecoration, parent.Text.Decoration),
			Color:      orColor(merged.Color, parent.Text.Color),
		},
		Misc: MiscModel{
			Widows:     orInt(merged.Widows, parent.Misc.Widows),
			Orphans:    orInt(merged.Orphans, parent.Misc.Orphans),
			Background: merged.BackgroundColor,
		},
		List: ListModel{
			Type:     orListType(merged.ListStyleType, parent.List.Type),
			Position: orListPosition(merged.ListStylePosition, parent.List.Position),
		},
		Table: TableModel{
			BorderSpacing: orFloat(merged.BorderSpacing, parent.Table.BorderSpacing),
		},
		Box: BoxModel{
			Margin:  orMargins(merged.Margin),
			Padding: orMargins(merged.Padding),
			Width:   merged.Width,
			Height:  merged.Height,
		},
		Border: BorderModel{
			Top:    orBorder(merged.BorderTop, merged.Border),
			Right:  orBorder(merged.BorderRight, merged.Border),
			Bottom: orBorder(merged.BorderBottom, merged.Border),
			Left:   orBorder(merged.BorderLeft, merged.Border),
		},
		Flex: FlexModel{
			Direction:  orFlexDirection(merged.FlexDirection),
			Wrap:       orFlexWrap(merged.FlexWrap),
			Justify:    orJustify(merged.JustifyContent),
			AlignItems: orAlignItems(merged.AlignItems),
			Grow:       orFloat(merged.FlexGrow, 0),
			Shrink:     orFloat(merged.FlexShrink, 1),
			Basis:      orDimension(merged.FlexBasis),
			AlignSelf:  orAlignSelf(merged.AlignSelf),
		},
	}

	// A font-size change without an explicit line-height rescales the line
	// to 1.2x the new size instead of inheriting a stale value.
	switch {
	case merged.LineHeight != nil:
		out.Text.LineHeight = *merged.LineHeight
	case merged.FontSize != nil:
		out.Text.LineHeight = *merged.FontSize * 1.2
	default:
		out.Text.LineHeight = parent.Text.LineHeight
	}

	return newComputedStyle(out), nil
}

// mergeElementStyles copies every set property of apply over base.
func mergeElementStyles(base *style.ElementStyle, apply *style.ElementStyle) {
	if apply.FontFamily != nil {
		base.FontFamily = apply.FontFamily
	}
	if apply.FontSize != nil {
		base.FontSize = apply.FontSize
	}
	if apply.FontWeight != nil {
		base.FontWeight = apply.FontWeight
	}
	if apply.FontStyle != nil {
		base.FontStyle = apply.FontStyle
	}
	if apply.LineHeight != nil {
		base.LineHeight = apply.LineHeight
	}
	if apply.TextAlign != nil {
		base.TextAlign = apply.TextAlign
	}
	if apply.TextDecoration != nil {
		base.TextDecoration = apply.TextDecoration
	}
	if apply.Color != nil {
		base.Color = apply.Color
	}
	if apply.Margin != nil {
		base.Margin = apply.Margin
	}
	if apply.Padding != nil {
		base.Padding = apply.Padding
	}
	if apply.Width != nil {
		base.Width = apply.Width
	}
	if apply.Height != nil {
		base.Height = apply.Height
	}
	if apply.BackgroundColor != nil {
		base.BackgroundColor = apply.BackgroundColor
	}
	if apply.Border != nil {
		base.Border = apply.Border
	}
	if apply.BorderTop != nil {
		base.BorderTop = apply.BorderTop
	}
	if apply.BorderRight != nil {
		base.BorderRight = apply.BorderRight
	}
	if apply.BorderBottom != nil {
		base.BorderBottom = apply.BorderBottom
	}
	if apply.BorderLeft != nil {
		base.BorderLeft = apply.BorderLeft
	}
	if apply.FlexDirection != nil {
		base.FlexDirection = apply.FlexDirection
	}
	if apply.FlexWrap != nil {
		base.FlexWrap = apply.FlexWrap
	}
	if apply.JustifyContent != nil {
		base.JustifyContent = apply.JustifyContent
	}
	if apply.AlignItems != nil {
		base.AlignItems = apply.AlignItems
	}
	if apply.AlignSelf != nil {
		base.AlignSelf = apply.AlignSelf
	}
	if apply.FlexGrow != nil {
		base.FlexGrow = apply.FlexGrow
	}
	if apply.FlexShrink != nil {
		base.FlexShrink = apply.FlexShrink
	}
	if apply.FlexBasis != nil {
		base.FlexBasis = apply.FlexBasis
	}
	if apply.ListStyleType != nil {
		base.ListStyleType = apply.ListStyleType
	}
	if apply.ListStylePosition != nil {
		base.ListStylePosition = apply.ListStylePosition
	}
	if apply.BorderSpacing != nil {
		base.BorderSpacing = apply.BorderSpacing
	}
	if apply.Widows != nil {
		base.Widows = apply.Widows
	}
	if apply.Orphans != nil {
		base.Orphans = apply.Orphans
	}
}

func orString(v *string, def string) string {
	if v != nil {
		return *v
	}
	return def
}

func orFloat(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func orInt(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func orWeight(v *style.FontWeight, def style.FontWeight) style.FontWeight {
	if v != nil {
		return *v
	}
	return def
}

func orFontStyle(v *style.FontStyle, def style.FontStyle) style.FontStyle {
	if v != nil {
		return *v
	}
	return def
}

func orAlign(v *style.TextAlign, def style.TextAlign) style.TextAlign {
	if v != nil {
		return *v
	}
	return def
}

func orDecoration(v *style.TextDecoration, def style.TextDecoration) style.TextDecoration {
	if v != nil {
		return *v
	}
	return def
}

func orColor(v *style.Color, def style.Color) style.Color {
	if v != nil {
		return *v
	}
	return def
}

func orListType(v *style.ListStyleType, def style.ListStyleType) style.ListStyleType {
	if v != nil {
		return *v
	}
	return def
}

func orListPosition(v *style.ListPosition, def style.ListPosition) style.ListPosition {
	if v != nil {
		return *v
	}
	return def
}

func orMargins(v *style.Margins) style.Margins {
	if v != nil {
		return *v
	}
	return style.Margins{}
}

func orBorder(side, shorthand *style.Border) *style.Border {
	if side != nil {
		return side
	}
	return shorthand
}

func orFlexDirection(v *style.FlexDirection) style.FlexDirection {
	if v != nil {
		return *v
	}
	return style.FlexRow
}

func orFlexWrap(v *style.FlexWrap) style.FlexWrap {
	if v != nil {
		return *v
	}
	return style.WrapNone
}

func orJustify(v *style.JustifyContent) style.JustifyContent {
	if v != nil {
		return *v
	}
	return style.JustifyStart
}

func orAlignItems(v *style.AlignItems) style.AlignItems {
	if v != nil {
		return *v
	}
	return style.AlignStretch
}

func orAlignSelf(v *style.AlignSelf) style.AlignSelf {
	if v != nil {
		return *v
	}
	return style.AlignSelfAuto
}

func orDimension(v *style.Dimension) style.Dimension {
	if v != nil {
		return *v
	}
	return style.Auto()
}

// hashStyle fingerprints every resolved property with FNV-1a. Floats hash
// by bit pattern, so -0 and 0 differ; resolved styles never produce -0.
func hashStyle(s *ComputedStyle) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	writeU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeS := func(v string) {
		writeU(uint64(len(v)))
		h.Write([]byte(v))
	}
	writeMargins := func(m style.Margins) {
		writeF(m.Top)
		writeF(m.Right)
		writeF(m.Bottom)
		writeF(m.Left)
	}
	writeDim := func(d *style.Dimension) {
		if d == nil {
			writeU(0)
			return
		}
		writeU(1 + uint64(d.Kind))
		writeF(d.Value)
	}
	writeColor := func(c style.Color) {
		writeU(uint64(c.R)<<16 | uint64(c.G)<<8 | uint64(c.B))
		writeF(c.A)
	}
	writeBorder := func(b *style.Border) {
		if b == nil {
			writeU(0)
			return
		}
		writeU(1 + uint64(b.Style))
		writeF(b.Width)
		writeColor(b.Color)
	}

	writeMargins(s.Box.Margin)
	writeMargins(s.Box.Padding)
	writeDim(s.Box.Width)
	writeDim(s.Box.Height)

	writeBorder(s.Border.Top)
	writeBorder(s.Border.Right)
	writeBorder(s.Border.Bottom)
	writeBorder(s.Border.Left)

	writeS(s.Text.FontFamily)
	writeF(s.Text.FontSize)
	writeU(uint64(s.Text.FontWeight))
	writeU(uint64(s.Text.FontStyle))
	writeF(s.Text.LineHeight)
	writeU(uint64(s.Text.Align))
	writeU(uint64(s.Text.Decoration))
	writeColor(s.Text.Color)

	writeU(uint64(s.Flex.Direction))
	writeU(uint64(s.Flex.Wrap))
	writeU(uint64(s.Flex.Justify))
	writeU(uint64(s.Flex.AlignItems))
	writeF(s.Flex.Grow)
	writeF(s.Flex.Shrink)
	writeU(uint64(s.Flex.Basis.Kind))
	writeF(s.Flex.Basis.Value)
	writeU(uint64(s.Flex.AlignSelf))

	writeU(uint64(s.List.Type))
	writeU(uint64(s.List.Position))

	writeF(s.Table.BorderSpacing)

	writeU(uint64(s.Misc.Widows))
	writeU(uint64(s.Misc.Orphans))
	if s.Misc.Background != nil {
		writeU(1)
		writeColor(*s.Misc.Background)
	} else {
		writeU(0)
	}

	return h.Sum64()
}

// styleEqual compares resolved styles structurally. It backs canonical
// deduplication behind the hash bucket, so collisions stay correct.
func styleEqual(a, b *ComputedStyle) bool {
	if a.hash != b.hash {
		return false
	}
	if a.Box.Margin != b.Box.Margin || a.Box.Padding != b.Box.Padding {
		return false
	}
	if !dimEqual(a.Box.Width, b.Box.Width) || !dimEqual(a.Box.Height, b.Box.Height) {
		return false
	}
	if !borderEqual(a.Border.Top, b.Border.Top) || !borderEqual(a.Border.Right, b.Border.Right) ||
		!borderEqual(a.Border.Bottom, b.Border.Bottom) || !borderEqual(a.Border.Left, b.Border.Left) {
		return false
	}
	if a.Text != b.Text || a.Flex != b.Flex || a.List != b.List || a.Table != b.Table {
		return false
	}
	if a.Misc.Widows != b.Misc.Widows || a.Misc.Orphans != b.Misc.Orphans {
		return false
	}
	return colorPtrEqual(a.Misc.Background, b.Misc.Background)
}

func dimEqual(a, b *style.Dimension) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func borderEqual(a, b *style.Border) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func colorPtrEqual(a, b *style.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
