package layout

import (
	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// createBackgroundAndBorders builds the background and border rectangles
// for one fragment of a box, positioned relative to the node's bounds.
// startY is the fragment's top edge, contentHeight the content it holds.
// drawTop and drawBottom select the edges this fragment carries: a box
// split across pages keeps its side borders on every fragment but paints
// the top edge only on the first and the bottom edge only on the last.
// Used by block, flex, table and list item nodes.
func createBackgroundAndBorders(bounds geo.Rect, cs *ComputedStyle, startY, contentHeight float64, drawTop, drawBottom bool) []PositionedElement {
	var elements []PositionedElement

	borderTop := 0.0
	paddingTop := 0.0
	if drawTop {
		borderTop = cs.BorderTopWidth()
		paddingTop = cs.Box.Padding.Top
	}
	borderBottom := 0.0
	paddingBottom := 0.0
	if drawBottom {
		borderBottom = cs.BorderBottomWidth()
		paddingBottom = cs.Box.Padding.Bottom
	}
	borderLeft := cs.BorderLeftWidth()
	borderRight := cs.BorderRightWidth()

	totalHeight := borderTop + paddingTop + contentHeight + paddingBottom + borderBottom
	if totalHeight <= 0 {
		return elements
	}

	push := func(el PositionedElement) {
		el.Y += startY
		elements = append(elements, el)
	}

	if cs.Misc.Background != nil {
		bg := *cs.Misc.Background
		// The background sits inside the borders.
		push(PositionedElement{
			X:       borderLeft,
			Y:       borderTop,
			W:       bounds.W - borderLeft - borderRight,
			H:       totalHeight - borderTop - borderBottom,
			Element: &RectElement{},
			Style:   newComputedStyle(ComputedStyle{Misc: MiscModel{Background: &bg}}),
		})
	}

	drawBorder := func(b *style.Border, r geo.Rect) {
		if b == nil || b.Width <= 0 {
			return
		}
		color := b.Color
		push(PositionedElement{
			X:       r.X,
			Y:       r.Y,
			W:       r.W,
			H:       r.H,
			Element: &RectElement{},
			Style:   newComputedStyle(ComputedStyle{Misc: MiscModel{Background: &color}}),
		})
	}

	if drawTop {
		drawBorder(cs.Border.Top, geo.Rect{W: bounds.W, H: borderTop})
	}
	if drawBottom {
		drawBorder(cs.Border.Bottom, geo.Rect{Y: totalHeight - borderBottom, W: bounds.W, H: borderBottom})
	}
	drawBorder(cs.Border.Left, geo.Rect{W: borderLeft, H: totalHeight})
	drawBorder(cs.Border.Right, geo.Rect{X: bounds.W - borderRight, W: borderRight, H: totalHeight})

	return elements
}
