package layout

import (
	"math"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// BlockNode stacks its children vertically, collapsing margins between
// adjacent siblings. The document root is a block over the page content
// box.
type BlockNode struct {
	id       string
	children []Node
	style    *ComputedStyle
}

func (n *BlockNode) Style() *ComputedStyle { return n.style }

func (n *BlockNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	hDeduction := n.style.PaddingX() + n.style.BorderX()
	marginY := n.style.Box.Margin.Vertical()

	if w, okW := explicitPt(n.style.Box.Width); okW {
		if h, okH := explicitPt(n.style.Box.Height); okH {
			return geo.Size{W: w + hDeduction, H: h + marginY}, nil
		}
	}

	childConstraints := n.style.ContentConstraints(c)
	maxChildWidth := 0.0
	totalContentHeight := 0.0
	for _, child := range n.children {
		size, err := child.Measure(env, childConstraints)
		if err != nil {
			return geo.Size{}, err
		}
		maxChildWidth = math.Max(maxChildWidth, size.W)
		totalContentHeight += size.H
	}

	height := marginY + n.style.BorderY() + n.style.PaddingY() + totalContentHeight
	if h, ok := explicitPt(n.style.Box.Height); ok {
		height = marginY + h
	}

	var width float64
	if c.HasBoundedWidth() {
		width = c.MaxW
	} else if w, ok := explicitPt(n.style.Box.Width); ok {
		width = w + hDeduction
	} else {
		width = maxChildWidth + hDeduction
	}
	return geo.Size{W: width, H: height}, nil
}

func (n *BlockNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	startIndex := 0
	var childResume *NodeState
	if resume != nil {
		if err := resume.expect(SectionBlock); err != nil {
			return nil, err
		}
		startIndex = resume.ChildIndex
		childResume = resume.Child
	}
	isContinuation := startIndex > 0 || childResume != nil

	if !isContinuation {
		if n.id != "" {
			ctx.RegisterAnchor(n.id)
		}
		if ctx.PrepareForBlock(n.style.Box.Margin.Top) {
			return blockState(0, nil), nil
		}
	} else {
		// Continuations already paid the top margin on the previous page.
		ctx.ClearVMargin()
	}

	topSpacing := 0.0
	if !isContinuation {
		topSpacing = n.style.BorderTopWidth() + n.style.Box.Padding.Top
	}

	blockStartY := ctx.CursorY()
	ctx.Advance(topSpacing)
	contentStartY := ctx.CursorY()

	childConstraints := n.style.ContentConstraints(c)
	bounds := ctx.Bounds()
	childBounds := geo.Rect{
		X: bounds.X + n.style.BorderLeftWidth() + n.style.Box.Padding.Left,
		Y: bounds.Y + contentStartY,
		W: bounds.W - n.style.PaddingX() - n.style.BorderX(),
		H: ctx.AvailableHeight(),
	}

	childCtx := ctx.Child(childBounds)
	var split *NodeState
	for i := startIndex; i < len(n.children); i++ {
		var childState *NodeState
		if i == startIndex {
			childState = childResume
		}
		state, err := n.children[i].Layout(childCtx, childConstraints, childState)
		if err != nil {
			return nil, err
		}
		if state != nil {
			split = blockState(i, state)
			break
		}
	}
	usedHeight := childCtx.CursorY()

	// Painted relative to the block bounds, so bypass the cursor offset.
	for _, el := range createBackgroundAndBorders(bounds, n.style, blockStartY, usedHeight, !isContinuation, split == nil) {
		ctx.PushElementAt(el, 0, 0)
	}

	if split != nil {
		ctx.Advance(usedHeight)
		return split, nil
	}
	ctx.Advance(usedHeight + n.style.Box.Padding.Bottom + n.style.BorderBottomWidth())
	ctx.FinishBlock(n.style.Box.Margin.Bottom)
	return nil, nil
}

// explicitPt returns the dimension's absolute value when it is a length in
// points.
func explicitPt(d *style.Dimension) (float64, bool) {
	if d != nil && d.Kind == style.DimensionPt {
		return d.Value, true
	}
	return 0, false
}
