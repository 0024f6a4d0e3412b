package layout

import (
	"math"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// autoWidthSampleLimit caps how many rows feed the auto column width
// measurement, so a huge table does not pay a full measure pass up front.
const autoWidthSampleLimit = 100

// tableCell wraps the cell content block. Spans are normalized to at
// least 1 when the tree is built.
type tableCell struct {
	content *BlockNode
	colSpan int
	rowSpan int
}

type tableRow struct {
	cells []*tableCell
}

// tableGrid is the resolved geometry of a table at one wrap width.
type tableGrid struct {
	colWidths  []float64
	rowHeights []float64

	// width is the border-box width: columns plus horizontal chrome.
	width float64
	// height is the content height: all rows plus the spacing between them.
	height float64
}

// TableNode lays out rows of block cells over resolved column widths.
// Rows never split across pages; header rows repeat at the top of every
// fragment.
type TableNode struct {
	id          string
	columns     []ir.ColumnDef
	rows        []tableRow
	headerCount int
	style       *ComputedStyle

	grids map[int64]*tableGrid
}

func (n *TableNode) Style() *ComputedStyle { return n.style }

// gridFor resolves column widths and row heights for the given
// constraints, memoized per content width so measure and layout share
// the work.
func (n *TableNode) gridFor(env *Env, c geo.Constraints) (*tableGrid, error) {
	hDeduction := n.style.PaddingX() + n.style.BorderX()
	available := math.Inf(1)
	if c.HasBoundedWidth() {
		available = math.Max(0, c.MaxW-hDeduction)
	}

	key := widthKey(available)
	if g, ok := n.grids[key]; ok {
		return g, nil
	}

	colWidths, err := n.resolveColumnWidths(env, available)
	if err != nil {
		return nil, err
	}
	rowHeights := make([]float64, len(n.rows))
	for r := range n.rows {
		h, err := n.rows[r].measureHeight(env, colWidths)
		if err != nil {
			return nil, err
		}
		rowHeights[r] = h
	}

	g := &tableGrid{colWidths: colWidths, rowHeights: rowHeights}
	for _, w := range colWidths {
		g.width += w
	}
	g.width += hDeduction
	for _, h := range rowHeights {
		g.height += h
	}
	if len(rowHeights) > 1 {
		g.height += n.style.Table.BorderSpacing * float64(len(rowHeights)-1)
	}

	if n.grids == nil {
		n.grids = make(map[int64]*tableGrid)
	}
	n.grids[key] = g
	return g, nil
}

// resolveColumnWidths distributes the table width over the columns.
// Point and percent columns resolve first; the rest goes to auto columns
// in proportion to their measured content, or evenly when no auto column
// has any content to prefer.
func (n *TableNode) resolveColumnWidths(env *Env, tableWidth float64) ([]float64, error) {
	bounded := !math.IsInf(tableWidth, 1)
	count := len(n.columns)
	widths := make([]float64, count)
	auto := make([]bool, count)
	autoCount := 0

	remaining := 0.0
	if bounded {
		remaining = tableWidth
	}
	for i := range n.columns {
		dim := n.columns[i].Width
		switch {
		case dim != nil && dim.Kind == style.DimensionPt:
			widths[i] = dim.Value
			remaining -= widths[i]
		case dim != nil && dim.Kind == style.DimensionPercent && bounded:
			widths[i] = dim.Value / 100 * tableWidth
			remaining -= widths[i]
		default:
			auto[i] = true
			autoCount++
		}
	}
	remaining = math.Max(0, remaining)
	if autoCount == 0 {
		return widths, nil
	}

	preferred := make([]float64, count)
	sampled := 0
	for r := range n.rows {
		if sampled >= autoWidthSampleLimit {
			break
		}
		sampled++
		cursor := 0
		for _, cell := range n.rows[r].cells {
			if cursor >= count {
				break
			}
			// Spanning cells are hard to attribute to one column, so only
			// single-column cells contribute a preferred width.
			if cell.colSpan == 1 && auto[cursor] {
				size, err := cell.content.Measure(env, geo.Unbounded())
				if err != nil {
					return nil, err
				}
				preferred[cursor] = math.Max(preferred[cursor], size.W)
			}
			cursor += cell.colSpan
		}
	}

	totalPreferred := 0.0
	for i := range preferred {
		if auto[i] {
			totalPreferred += preferred[i]
		}
	}

	if !bounded {
		for i := range widths {
			if auto[i] {
				widths[i] = preferred[i]
			}
		}
		return widths, nil
	}

	switch {
	case totalPreferred > 0 && remaining >= totalPreferred:
		extra := remaining - totalPreferred
		for i := range widths {
			if auto[i] {
				widths[i] = preferred[i] + extra*(preferred[i]/totalPreferred)
			}
		}
	case totalPreferred > 0:
		shrink := remaining / totalPreferred
		for i := range widths {
			if auto[i] {
				widths[i] = preferred[i] * shrink
			}
		}
	default:
		per := remaining / float64(autoCount)
		for i := range widths {
			if auto[i] {
				widths[i] = per
			}
		}
	}
	return widths, nil
}

// measureHeight returns the row height: the tallest single-row cell at
// the resolved column widths. Spanning cells stretch over later rows and
// do not set the height of their starting row.
func (row *tableRow) measureHeight(env *Env, colWidths []float64) (float64, error) {
	maxHeight := 0.0
	cursor := 0
	for _, cell := range row.cells {
		if cursor >= len(colWidths) {
			break
		}
		end := cursor + cell.colSpan
		if end > len(colWidths) {
			end = len(colWidths)
		}
		width := 0.0
		for k := cursor; k < end; k++ {
			width += colWidths[k]
		}
		size, err := cell.content.Measure(env, geo.TightWidth(width))
		if err != nil {
			return 0, err
		}
		if cell.rowSpan == 1 {
			maxHeight = math.Max(maxHeight, size.H)
		}
		cursor += cell.colSpan
	}
	return maxHeight, nil
}

func (n *TableNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	grid, err := n.gridFor(env, c)
	if err != nil {
		return geo.Size{}, err
	}
	width := grid.width
	if c.HasBoundedWidth() {
		width = c.MaxW
	}
	height := n.style.Box.Margin.Vertical() + n.style.PaddingY() + n.style.BorderY() + grid.height
	return geo.Size{W: width, H: height}, nil
}

func (n *TableNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	startRow := n.headerCount
	headerDone := false
	if resume != nil {
		if err := resume.expect(SectionTable); err != nil {
			return nil, err
		}
		headerDone = resume.HeaderDone
		if resume.Row > startRow {
			startRow = resume.Row
		}
	}
	isContinuation := headerDone

	grid, err := n.gridFor(ctx.env, c)
	if err != nil {
		return nil, err
	}

	if !isContinuation {
		if n.id != "" {
			ctx.RegisterAnchor(n.id)
		}
		if ctx.PrepareForBlock(n.style.Box.Margin.Top) {
			return tableState(startRow, false, nil), nil
		}
	} else {
		ctx.ClearVMargin()
	}

	pageWasEmpty := ctx.IsEmpty()
	spacing := n.style.Table.BorderSpacing

	topChrome := 0.0
	if !isContinuation {
		topChrome = n.style.BorderTopWidth() + n.style.Box.Padding.Top
	}

	// The header block and the first pending row move to the next page as
	// a unit; a header stranded alone at the bottom of a page helps nobody.
	needed := topChrome + n.headerBlockHeight(grid, spacing)
	if startRow < len(n.rows) {
		if n.headerCount > 0 {
			needed += spacing
		}
		needed += grid.rowHeights[startRow]
	}
	if !ctx.Fits(needed) && !pageWasEmpty {
		return tableState(startRow, headerDone, nil), nil
	}

	blockStartY := ctx.CursorY()
	ctx.Advance(topChrome)
	contentStartY := ctx.CursorY()

	rendered := false
	if n.headerCount > 0 {
		headerOccupied := make([]int, len(grid.colWidths))
		for h := 0; h < n.headerCount; h++ {
			if rendered {
				ctx.Advance(spacing)
			}
			if err := n.renderRow(ctx, h, grid, headerOccupied, grid.rowHeights[h:n.headerCount]); err != nil {
				return nil, err
			}
			ctx.Advance(grid.rowHeights[h])
			rendered = true
		}
	}

	occupied := n.replayOccupancy(grid, startRow)
	var split *NodeState
	for i := startRow; i < len(n.rows); i++ {
		rowHeight := grid.rowHeights[i]
		if rowHeight > ctx.Bounds().H+geo.FitEpsilon {
			return nil, &ElementTooLargeError{Required: rowHeight, Available: ctx.Bounds().H}
		}
		gap := 0.0
		if rendered {
			gap = spacing
		}
		// A fragment on a page that started empty must place at least one
		// row, or a row taller than the space under the header would loop
		// forever.
		if !ctx.Fits(gap+rowHeight) && !(pageWasEmpty && i == startRow) {
			split = tableState(i, true, nil)
			break
		}
		ctx.Advance(gap)
		if err := n.renderRow(ctx, i, grid, occupied, grid.rowHeights[i:]); err != nil {
			return nil, err
		}
		ctx.Advance(rowHeight)
		rendered = true
	}

	contentHeight := ctx.CursorY() - contentStartY
	for _, el := range createBackgroundAndBorders(ctx.Bounds(), n.style, blockStartY, contentHeight, !isContinuation, split == nil) {
		ctx.PushElementAt(el, 0, 0)
	}

	if split != nil {
		return split, nil
	}
	ctx.Advance(n.style.Box.Padding.Bottom + n.style.BorderBottomWidth())
	ctx.FinishBlock(n.style.Box.Margin.Bottom)
	return nil, nil
}

// headerBlockHeight is the height of all header rows plus the spacing
// between them.
func (n *TableNode) headerBlockHeight(grid *tableGrid, spacing float64) float64 {
	h := 0.0
	for i := 0; i < n.headerCount; i++ {
		if i > 0 {
			h += spacing
		}
		h += grid.rowHeights[i]
	}
	return h
}

// renderRow places one row's cells at the current cursor. Columns held by
// a spanning cell from an earlier row are skipped; futureHeights starts at
// this row and feeds the heights a spanning cell stretches over.
func (n *TableNode) renderRow(ctx *Context, rowIdx int, grid *tableGrid, occupied []int, futureHeights []float64) error {
	row := &n.rows[rowIdx]
	spacing := n.style.Table.BorderSpacing
	tableXStart := n.style.BorderLeftWidth() + n.style.Box.Padding.Left
	rowY := ctx.CursorY()
	bounds := ctx.Bounds()

	xOffset := 0.0
	colCursor := 0
	cellIdx := 0
	for colCursor < len(grid.colWidths) {
		if occupied[colCursor] > rowIdx {
			xOffset += grid.colWidths[colCursor]
			colCursor++
			continue
		}
		if cellIdx >= len(row.cells) {
			break
		}
		cell := row.cells[cellIdx]
		cellIdx++

		endCol := colCursor + cell.colSpan
		if endCol > len(grid.colWidths) {
			endCol = len(grid.colWidths)
		}
		cellWidth := 0.0
		for k := colCursor; k < endCol; k++ {
			cellWidth += grid.colWidths[k]
		}

		cellHeight := futureHeights[0]
		if cell.rowSpan > 1 {
			limit := cell.rowSpan
			if limit > len(futureHeights) {
				limit = len(futureHeights)
			}
			cellHeight = spacing * float64(limit-1)
			for k := 0; k < limit; k++ {
				cellHeight += futureHeights[k]
			}
			for k := 0; k < cell.colSpan; k++ {
				if colCursor+k < len(occupied) {
					occupied[colCursor+k] = rowIdx + cell.rowSpan
				}
			}
		}

		cellRect := geo.Rect{
			X: bounds.X + tableXStart + xOffset,
			Y: bounds.Y + rowY,
			W: cellWidth,
			H: cellHeight,
		}
		cellCtx := ctx.Child(cellRect)
		state, err := cell.content.Layout(cellCtx, geo.Tight(geo.Size{W: cellWidth, H: cellHeight}), nil)
		if err != nil {
			return err
		}
		if state != nil {
			// Rows are atomic; whatever did not fit the cell is dropped.
			ctx.env.Logger().Warn("table cell content exceeds its row height",
				observability.Int("row", rowIdx), observability.Int("column", colCursor))
		}

		xOffset += cellWidth
		colCursor += cell.colSpan
	}
	return nil
}

// replayOccupancy rebuilds the row-span bookkeeping the rows before
// startRow would have produced, so a fragment resuming under a live span
// keeps later cells in their columns.
func (n *TableNode) replayOccupancy(grid *tableGrid, startRow int) []int {
	occupied := make([]int, len(grid.colWidths))
	for r := n.headerCount; r < startRow; r++ {
		colCursor := 0
		cellIdx := 0
		for colCursor < len(occupied) {
			if occupied[colCursor] > r {
				colCursor++
				continue
			}
			if cellIdx >= len(n.rows[r].cells) {
				break
			}
			cell := n.rows[r].cells[cellIdx]
			cellIdx++
			if cell.rowSpan > 1 {
				for k := 0; k < cell.colSpan; k++ {
					if colCursor+k < len(occupied) {
						occupied[colCursor+k] = r + cell.rowSpan
					}
				}
			}
			colCursor += cell.colSpan
		}
	}
	return occupied
}
