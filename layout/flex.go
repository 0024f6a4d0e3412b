package layout

import (
	"math"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// FlexNode arranges its children along a main axis with optional wrapping.
// Lines are atomic: a line that does not fit moves to the next page whole,
// and the break state records how many lines earlier fragments emitted.
type FlexNode struct {
	id       string
	children []Node
	style    *ComputedStyle

	lines map[int64][]flexLine
}

type flexItem struct {
	node      Node
	style     *ComputedStyle
	basis     float64
	mainSize  float64
	crossSize float64
}

type flexLine struct {
	items     []flexItem
	mainSize  float64
	crossSize float64
}

func (n *FlexNode) Style() *ComputedStyle { return n.style }

// linesFor resolves items, wrapping and flexible lengths at the given
// container width, memoized per width.
func (n *FlexNode) linesFor(env *Env, availableWidth float64) ([]flexLine, error) {
	key := widthKey(availableWidth)
	if cached, ok := n.lines[key]; ok {
		return cached, nil
	}
	lines, err := n.resolveFlexLines(env, availableWidth)
	if err != nil {
		return nil, err
	}
	if n.lines == nil {
		n.lines = make(map[int64][]flexLine)
	}
	n.lines[key] = lines
	return lines, nil
}

func (n *FlexNode) resolveFlexLines(env *Env, availableWidth float64) ([]flexLine, error) {
	horizontal := n.style.Flex.Direction.Horizontal()
	availableMain := math.Inf(1)
	if horizontal {
		availableMain = availableWidth
	}

	items := make([]flexItem, 0, len(n.children))
	for _, child := range n.children {
		cs := child.Style()
		basis, err := resolveFlexBasis(env, child, cs, availableMain, availableWidth, horizontal)
		if err != nil {
			return nil, err
		}

		var cross float64
		if horizontal {
			size, err := child.Measure(env, geo.TightWidth(basis))
			if err != nil {
				return nil, err
			}
			cross = size.H
		} else {
			cc := geo.Unbounded()
			if !math.IsInf(availableWidth, 1) {
				cc = geo.TightWidth(availableWidth)
			}
			size, err := child.Measure(env, cc)
			if err != nil {
				return nil, err
			}
			cross = size.W
		}

		items = append(items, flexItem{
			node:      child,
			style:     cs,
			basis:     basis,
			mainSize:  basis,
			crossSize: cross,
		})
	}

	var lines []flexLine
	var current []flexItem
	currentMain := 0.0
	for _, item := range items {
		if n.style.Flex.Wrap != style.WrapNone &&
			len(current) > 0 &&
			currentMain+item.mainSize > availableMain {
			lines = append(lines, flexLine{items: current, mainSize: currentMain})
			current = nil
			currentMain = 0
		}
		currentMain += item.mainSize
		current = append(current, item)
	}
	if len(current) > 0 {
		lines = append(lines, flexLine{items: current, mainSize: currentMain})
	}

	if n.style.Flex.Wrap == style.WrapReverse {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}

	for i := range lines {
		resolveFlexibleLengths(&lines[i], availableMain)
		cross := 0.0
		for _, item := range lines[i].items {
			cross = math.Max(cross, item.crossSize)
		}
		lines[i].crossSize = cross
	}
	return lines, nil
}

// resolveFlexBasis picks the item's initial main size: the basis property,
// then the main-axis dimension, then the content size.
func resolveFlexBasis(env *Env, child Node, cs *ComputedStyle, containerMain, availableWidth float64, horizontal bool) (float64, error) {
	basis := cs.Flex.Basis
	resolved := &basis
	if basis.IsAuto() {
		if horizontal {
			resolved = cs.Box.Width
		} else {
			resolved = cs.Box.Height
		}
	}
	if resolved != nil {
		switch resolved.Kind {
		case style.DimensionPt:
			return resolved.Value, nil
		case style.DimensionPercent:
			if !math.IsInf(containerMain, 1) {
				return containerMain * resolved.Value / 100, nil
			}
		}
	}

	if horizontal {
		size, err := child.Measure(env, geo.Unbounded())
		if err != nil {
			return 0, err
		}
		return size.W, nil
	}
	cc := geo.Unbounded()
	if !math.IsInf(availableWidth, 1) {
		cc = geo.TightWidth(availableWidth)
	}
	size, err := child.Measure(env, cc)
	if err != nil {
		return 0, err
	}
	return size.H, nil
}

// resolveFlexibleLengths distributes the line's free space by grow factor,
// or its deficit by shrink factor scaled with the basis.
func resolveFlexibleLengths(line *flexLine, availableMain float64) {
	if math.IsInf(availableMain, 1) {
		return
	}
	initial := 0.0
	for _, item := range line.items {
		initial += item.mainSize
	}
	remaining := availableMain - initial

	if remaining > 0 {
		totalGrow := 0.0
		for _, item := range line.items {
			totalGrow += item.style.Flex.Grow
		}
		if totalGrow > 0 {
			for i := range line.items {
				line.items[i].mainSize += remaining * (line.items[i].style.Flex.Grow / totalGrow)
			}
		}
	} else if remaining < 0 {
		totalShrink := 0.0
		for _, item := range line.items {
			totalShrink += item.style.Flex.Shrink * item.basis
		}
		if totalShrink > 0 {
			for i := range line.items {
				ratio := (line.items[i].style.Flex.Shrink * line.items[i].basis) / totalShrink
				line.items[i].mainSize += remaining * ratio
			}
		}
	}

	total := 0.0
	for _, item := range line.items {
		total += item.mainSize
	}
	line.mainSize = total
}

func (n *FlexNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	availableWidth := math.Inf(1)
	if c.HasBoundedWidth() {
		availableWidth = c.MaxW
	}
	lines, err := n.linesFor(env, availableWidth)
	if err != nil {
		return geo.Size{}, err
	}

	height := n.style.Box.Margin.Vertical()
	for i := range lines {
		height += lines[i].crossSize
	}

	width := c.MaxW
	if !c.HasBoundedWidth() {
		width = 0
		horizontal := n.style.Flex.Direction.Horizontal()
		for i := range lines {
			if horizontal {
				width = math.Max(width, lines[i].mainSize)
			} else {
				width = math.Max(width, lines[i].crossSize)
			}
		}
	}
	return geo.Size{W: width, H: height}, nil
}

func (n *FlexNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	startLine := 0
	if resume != nil {
		if err := resume.expect(SectionFlex); err != nil {
			return nil, err
		}
		startLine = resume.ChildIndex
	}
	isContinuation := startLine > 0

	if !isContinuation {
		if n.id != "" {
			ctx.RegisterAnchor(n.id)
		}
		if ctx.PrepareForBlock(n.style.Box.Margin.Top) {
			return flexState(0), nil
		}
	} else {
		ctx.ClearVMargin()
	}

	horizontal := n.style.Flex.Direction.Horizontal()
	containerMain := math.Inf(1)
	if horizontal {
		containerMain = ctx.Bounds().W
	}

	lines, err := n.linesFor(ctx.env, ctx.Bounds().W)
	if err != nil {
		return nil, err
	}

	bounds := ctx.Bounds()
	for lineIdx := startLine; lineIdx < len(lines); lineIdx++ {
		line := &lines[lineIdx]
		if line.crossSize > ctx.AvailableHeight() && !ctx.IsEmpty() {
			return flexState(lineIdx), nil
		}

		freeSpace := containerMain - line.mainSize
		if math.IsInf(freeSpace, 1) {
			freeSpace = 0
		}
		mainCursor, spacing := mainAxisAlignment(freeSpace, len(line.items), n.style.Flex.Justify)

		for _, item := range line.items {
			crossOffset := crossAxisAlignment(&item, line.crossSize, n.style.Flex.AlignItems)

			var x, y, w, h float64
			if horizontal {
				x, y, w, h = mainCursor, crossOffset, item.mainSize, item.crossSize
			} else {
				x, y, w, h = crossOffset, mainCursor, item.crossSize, item.mainSize
			}

			childCtx := ctx.Child(geo.Rect{
				X: bounds.X + x,
				Y: bounds.Y + ctx.CursorY() + y,
				W: w,
				H: h,
			})
			if _, err := item.node.Layout(childCtx, geo.TightWidth(w), nil); err != nil {
				ctx.env.Logger().Warn("skipping flex item that failed to lay out",
					observability.Error("error", err))
			}
			mainCursor += item.mainSize + spacing
		}

		ctx.Advance(line.crossSize)
	}

	ctx.FinishBlock(n.style.Box.Margin.Bottom)
	return nil, nil
}

// mainAxisAlignment returns the starting offset and the extra spacing
// between items for the given free space.
func mainAxisAlignment(freeSpace float64, itemCount int, justify style.JustifyContent) (float64, float64) {
	if freeSpace <= 0 || itemCount == 0 {
		return 0, 0
	}
	switch justify {
	case style.JustifyEnd:
		return freeSpace, 0
	case style.JustifyCenter:
		return freeSpace / 2, 0
	case style.JustifySpaceBetween:
		if itemCount > 1 {
			return 0, freeSpace / float64(itemCount-1)
		}
		return freeSpace / 2, 0
	case style.JustifySpaceAround:
		spacing := freeSpace / float64(itemCount)
		return spacing / 2, spacing
	case style.JustifySpaceEvenly:
		spacing := freeSpace / float64(itemCount+1)
		return spacing, spacing
	default:
		return 0, 0
	}
}

// crossAxisAlignment returns the item's offset from the line's cross start.
func crossAxisAlignment(item *flexItem, lineCross float64, containerAlign style.AlignItems) float64 {
	align := containerAlign
	switch item.style.Flex.AlignSelf {
	case style.AlignSelfStretch:
		align = style.AlignStretch
	case style.AlignSelfStart:
		align = style.AlignItemsStart
	case style.AlignSelfEnd:
		align = style.AlignItemsEnd
	case style.AlignSelfCenter:
		align = style.AlignItemsCenter
	case style.AlignSelfBaseline:
		align = style.AlignBaseline
	}
	switch align {
	case style.AlignItemsEnd:
		return lineCross - item.crossSize
	case style.AlignItemsCenter:
		return (lineCross - item.crossSize) / 2
	default:
		return 0
	}
}
