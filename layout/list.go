package layout

import (
	"fmt"
	"strings"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// markerSpacingFactor scales the font size into the gap between an
// outside marker and the item content.
const markerSpacingFactor = 0.4

// ListNode is a block whose children are list items carrying their
// ordinal markers. Stacking and page breaking delegate to the block.
type ListNode struct {
	block *BlockNode
}

func (n *ListNode) Style() *ComputedStyle { return n.block.style }

func (n *ListNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	return n.block.Measure(env, c)
}

func (n *ListNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	return n.block.Layout(ctx, c, resume)
}

// ListItemNode is one item of a list. Outside markers hang in their own
// column to the left of the indented content; inside markers were already
// merged into the first paragraph when the tree was built.
type ListItemNode struct {
	id       string
	children []Node
	style    *ComputedStyle
	marker   string
}

func (n *ListItemNode) Style() *ComputedStyle { return n.style }

// markerIndent returns the content indentation an outside marker needs.
func (n *ListItemNode) markerIndent(env *Env) (float64, error) {
	if n.marker == "" || n.style.List.Position != style.ListOutside {
		return 0, nil
	}
	w, err := env.text.measureText(n.marker, n.style)
	if err != nil {
		return 0, err
	}
	return w + n.style.Text.FontSize*markerSpacingFactor, nil
}

func (n *ListItemNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	indent, err := n.markerIndent(env)
	if err != nil {
		return geo.Size{}, err
	}

	childConstraints := geo.Unbounded()
	if c.HasBoundedWidth() {
		w := c.MaxW - n.style.PaddingX() - n.style.BorderX() - indent
		if w < 0 {
			w = 0
		}
		childConstraints = geo.Constraints{MaxW: w, MaxH: childConstraints.MaxH}
	}

	totalContentHeight := 0.0
	for _, child := range n.children {
		size, err := child.Measure(env, childConstraints)
		if err != nil {
			return geo.Size{}, err
		}
		totalContentHeight += size.H
	}

	height := n.style.BorderY() + n.style.PaddingY() + totalContentHeight
	if h, ok := explicitPt(n.style.Box.Height); ok {
		height = h
	}

	width := 0.0
	if c.HasBoundedWidth() {
		width = c.MaxW
	}
	return geo.Size{W: width, H: height}, nil
}

func (n *ListItemNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	startIndex := 0
	var childResume *NodeState
	if resume != nil {
		if err := resume.expect(SectionListItem); err != nil {
			return nil, err
		}
		startIndex = resume.ChildIndex
		childResume = resume.Child
	}
	isContinuation := startIndex > 0 || childResume != nil

	if !isContinuation && n.id != "" {
		ctx.RegisterAnchor(n.id)
	}

	outside := n.style.List.Position == style.ListOutside
	blockStartY := ctx.CursorY()

	markerWidth := 0.0
	if n.marker != "" {
		w, err := ctx.env.text.measureText(n.marker, n.style)
		if err != nil {
			return nil, err
		}
		markerWidth = w
	}

	// The marker renders with the first fragment only.
	if n.marker != "" && !isContinuation && outside {
		if n.style.Text.LineHeight > ctx.AvailableHeight() && !ctx.IsEmpty() {
			return listItemState(0, nil), nil
		}
		ctx.PushElementAt(PositionedElement{
			Y:       n.style.BorderTopWidth() + n.style.Box.Padding.Top,
			W:       markerWidth,
			H:       n.style.Text.LineHeight,
			Element: &TextElement{Content: n.marker},
			Style:   n.style,
		}, 0, blockStartY)
	}

	indent := 0.0
	if outside && n.marker != "" {
		indent = markerWidth + n.style.Text.FontSize*markerSpacingFactor
	}

	if !isContinuation {
		ctx.Advance(n.style.BorderTopWidth() + n.style.Box.Padding.Top)
	}
	contentStartY := ctx.CursorY()

	bounds := ctx.Bounds()
	childBounds := geo.Rect{
		X: bounds.X + n.style.BorderLeftWidth() + n.style.Box.Padding.Left + indent,
		Y: bounds.Y + contentStartY,
		W: bounds.W - n.style.PaddingX() - n.style.BorderX() - indent,
		H: ctx.AvailableHeight(),
	}

	childCtx := ctx.Child(childBounds)
	var split *NodeState
	for i := startIndex; i < len(n.children); i++ {
		var childState *NodeState
		if i == startIndex {
			childState = childResume
		}
		state, err := n.children[i].Layout(childCtx, geo.TightWidth(childBounds.W), childState)
		if err != nil {
			return nil, err
		}
		if state != nil {
			split = listItemState(i, state)
			break
		}
	}

	usedHeight := childCtx.CursorY()
	if split != nil {
		// A split item claims the rest of the page.
		usedHeight = ctx.AvailableHeight()
	}

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

// markerText renders the ordinal marker for a list item. Nested ordered
// lists cycle decimal, lower alpha, lower roman by depth.
func markerText(cs *ComputedStyle, index, depth int) string {
	listType := cs.List.Type
	if depth > 0 && listType == style.ListDecimal {
		switch depth % 3 {
		case 1:
			listType = style.ListLowerAlpha
		case 2:
			listType = style.ListLowerRoman
		default:
			listType = style.ListDecimal
		}
	}

	switch listType {
	case style.ListDisc:
		return "•"
	case style.ListCircle:
		return "◦"
	case style.ListSquare:
		return "▪"
	case style.ListDecimal:
		return fmt.Sprintf("%d.", index)
	case style.ListLowerAlpha:
		return lowerAlpha(index) + "."
	case style.ListUpperAlpha:
		return strings.ToUpper(lowerAlpha(index)) + "."
	case style.ListLowerRoman:
		return lowerRoman(index) + "."
	case style.ListUpperRoman:
		return strings.ToUpper(lowerRoman(index)) + "."
	default:
		return ""
	}
}

// lowerAlpha converts 1-based ordinals to bijective base 26: a..z, aa..
func lowerAlpha(n int) string {
	if n <= 0 {
		return "a"
	}
	var buf []byte
	num := n - 1
	for {
		buf = append(buf, byte('a'+num%26))
		num /= 26
		if num == 0 {
			break
		}
		num--
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

func lowerRoman(n int) string {
	if n <= 0 {
		return ""
	}
	values := []struct {
		value  int
		symbol string
	}{
		{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
		{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
		{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
	}
	var b strings.Builder
	for _, v := range values {
		for n >= v.value {
			b.WriteString(v.symbol)
			n -= v.value
		}
	}
	return b.String()
}
