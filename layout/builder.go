package layout

import (
	"fmt"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// buildNode converts one structural node into its layout node, recursing
// into children. Everything built here lives in the pass store.
func buildNode(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	switch node.Kind {
	case ir.Root, ir.Block:
		return buildBlock(env, node, parent)
	case ir.Paragraph:
		return buildParagraph(env, node, parent, "")
	case ir.Heading:
		return buildHeading(env, node, parent)
	case ir.Image:
		return buildImage(env, node, parent)
	case ir.FlexContainer:
		return buildFlex(env, node, parent)
	case ir.List:
		return buildList(env, node, parent, 0)
	case ir.ListItem:
		// An item outside a list still lays out; it numbers itself 1.
		return buildListItem(env, node, parent, 1, 0)
	case ir.Table:
		return buildTable(env, node, parent)
	case ir.PageBreak:
		return buildPageBreak(env, node, parent)
	case ir.IndexMarker:
		return buildIndexMarker(env, node, parent)
	default:
		return nil, fmt.Errorf("layout: no builder for node kind %q", node.Kind)
	}
}

// nodeStyle resolves and canonicalizes the style for one node.
func nodeStyle(env *Env, meta ir.Meta, parent *ComputedStyle) (*ComputedStyle, error) {
	cs, err := resolveStyle(env.sheet, meta, parent)
	if err != nil {
		return nil, err
	}
	return env.store.Canonicalize(cs), nil
}

func buildChildren(env *Env, children []*ir.Node, parent *ComputedStyle) ([]Node, error) {
	out := make([]Node, 0, len(children))
	for _, child := range children {
		built, err := buildNode(env, child, parent)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func buildBlock(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	var cs *ComputedStyle
	switch node.Kind {
	case ir.Block:
		var err error
		cs, err = nodeStyle(env, node.Meta, parent)
		if err != nil {
			return nil, err
		}
	case ir.Root:
		cs = env.store.Canonicalize(defaultComputedStyle())
	default:
		return nil, &BuilderMismatchError{Expected: ir.Block, Actual: node.Kind}
	}

	children, err := buildChildren(env, node.Children, cs)
	if err != nil {
		return nil, err
	}
	return &BlockNode{
		id:       env.store.Intern(node.Meta.ID),
		children: children,
		style:    cs,
	}, nil
}

// buildParagraph flattens the inline content into shapeable spans. A
// non-empty prefix becomes a leading span in the paragraph's own style,
// which is how inside list markers join their first paragraph.
func buildParagraph(env *Env, node *ir.Node, parent *ComputedStyle, prefix string) (*ParagraphNode, error) {
	if node.Kind != ir.Paragraph {
		return nil, &BuilderMismatchError{Expected: ir.Paragraph, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}
	spans, links, err := flattenInlines(env, node.Inlines, cs)
	if err != nil {
		return nil, err
	}
	if prefix != "" {
		spans = append([]flatSpan{{Text: prefix, Style: cs}}, spans...)
	}
	return &ParagraphNode{
		id:    env.store.Intern(node.Meta.ID),
		spans: spans,
		links: links,
		style: cs,
	}, nil
}

// buildHeading delegates to the paragraph builder and attaches the outline
// data: the heading's level, its plain text, and an anchor to point the
// table of contents at. Headings without an author id get a generated one.
func buildHeading(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	if node.Kind != ir.Heading {
		return nil, &BuilderMismatchError{Expected: ir.Heading, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}
	spans, links, err := flattenInlines(env, node.Inlines, cs)
	if err != nil {
		return nil, err
	}

	targetID := node.Meta.ID
	if targetID == "" {
		targetID = fmt.Sprintf("heading-%d", env.store.NextNodeID())
	}
	level := node.Level
	if level < 1 {
		level = 1
	}

	// The heading registers the anchor itself, so the inner paragraph
	// carries no id of its own.
	return &HeadingNode{
		para:     &ParagraphNode{spans: spans, links: links, style: cs},
		level:    level,
		text:     ir.PlainText(node.Inlines),
		targetID: env.store.Intern(targetID),
	}, nil
}

func buildImage(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	if node.Kind != ir.Image {
		return nil, &BuilderMismatchError{Expected: ir.Image, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}
	return &ImageNode{
		id:    env.store.Intern(node.Meta.ID),
		src:   env.store.Intern(node.Src),
		style: cs,
	}, nil
}

func buildFlex(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	if node.Kind != ir.FlexContainer {
		return nil, &BuilderMismatchError{Expected: ir.FlexContainer, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}
	children, err := buildChildren(env, node.Children, cs)
	if err != nil {
		return nil, err
	}
	return &FlexNode{
		id:       env.store.Intern(node.Meta.ID),
		children: children,
		style:    cs,
	}, nil
}

// buildList wraps its items in a block; the items carry their ordinal
// markers, computed here from the item position and nesting depth.
func buildList(env *Env, node *ir.Node, parent *ComputedStyle, depth int) (Node, error) {
	if node.Kind != ir.List {
		return nil, &BuilderMismatchError{Expected: ir.List, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}

	children := make([]Node, 0, len(node.Children))
	index := 0
	for _, child := range node.Children {
		var built Node
		if child.Kind == ir.ListItem {
			index++
			built, err = buildListItem(env, child, cs, index, depth)
		} else {
			env.Logger().Warn("list contains a child that is not a list item",
				observability.String("kind", child.Kind.String()))
			built, err = buildNode(env, child, cs)
		}
		if err != nil {
			return nil, err
		}
		children = append(children, built)
	}

	return &ListNode{block: &BlockNode{
		id:       env.store.Intern(node.Meta.ID),
		children: children,
		style:    cs,
	}}, nil
}

func buildListItem(env *Env, node *ir.Node, parent *ComputedStyle, index, depth int) (Node, error) {
	if node.Kind != ir.ListItem {
		return nil, &BuilderMismatchError{Expected: ir.ListItem, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}

	marker := markerText(cs, index, depth)
	inside := cs.List.Position == style.ListInside && marker != ""

	children := make([]Node, 0, len(node.Children))
	for i, child := range node.Children {
		var built Node
		switch {
		case child.Kind == ir.List:
			built, err = buildList(env, child, cs, depth+1)
		case i == 0 && inside && child.Kind == ir.Paragraph:
			built, err = buildParagraph(env, child, cs, marker+" ")
		default:
			built, err = buildNode(env, child, cs)
		}
		if err != nil {
			return nil, err
		}
		children = append(children, built)
	}

	return &ListItemNode{
		id:       env.store.Intern(node.Meta.ID),
		children: children,
		style:    cs,
		marker:   marker,
	}, nil
}

func buildTable(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	if node.Kind != ir.Table {
		return nil, &BuilderMismatchError{Expected: ir.Table, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}

	rows := make([]tableRow, 0, len(node.Header)+len(node.Body))
	for _, row := range node.Header {
		built, err := buildTableRow(env, row, cs)
		if err != nil {
			return nil, err
		}
		rows = append(rows, built)
	}
	for _, row := range node.Body {
		built, err := buildTableRow(env, row, cs)
		if err != nil {
			return nil, err
		}
		rows = append(rows, built)
	}

	columns := node.Columns
	if len(columns) == 0 {
		// Frontends like markdown and html emit tables without column
		// definitions; derive auto columns from the widest row.
		count := 0
		for i := range rows {
			spans := 0
			for _, cell := range rows[i].cells {
				spans += cell.colSpan
			}
			if spans > count {
				count = spans
			}
		}
		columns = make([]ir.ColumnDef, count)
	}

	return &TableNode{
		id:          env.store.Intern(node.Meta.ID),
		columns:     columns,
		rows:        rows,
		headerCount: len(node.Header),
		style:       cs,
	}, nil
}

func buildTableRow(env *Env, row *ir.Row, tableStyle *ComputedStyle) (tableRow, error) {
	rowStyle, err := nodeStyle(env, row.Meta, tableStyle)
	if err != nil {
		return tableRow{}, err
	}
	cells := make([]*tableCell, 0, len(row.Cells))
	for _, cell := range row.Cells {
		cellStyle, err := nodeStyle(env, cell.Meta, rowStyle)
		if err != nil {
			return tableRow{}, err
		}
		children, err := buildChildren(env, cell.Children, cellStyle)
		if err != nil {
			return tableRow{}, err
		}
		colSpan := cell.ColSpan
		if colSpan < 1 {
			colSpan = 1
		}
		rowSpan := cell.RowSpan
		if rowSpan < 1 {
			rowSpan = 1
		}
		cells = append(cells, &tableCell{
			content: &BlockNode{
				id:       env.store.Intern(cell.Meta.ID),
				children: children,
				style:    cellStyle,
			},
			colSpan: colSpan,
			rowSpan: rowSpan,
		})
	}
	return tableRow{cells: cells}, nil
}

func buildPageBreak(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	if node.Kind != ir.PageBreak {
		return nil, &BuilderMismatchError{Expected: ir.PageBreak, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}
	return &PageBreakNode{
		masterName: env.store.Intern(node.MasterName),
		style:      cs,
	}, nil
}

func buildIndexMarker(env *Env, node *ir.Node, parent *ComputedStyle) (Node, error) {
	if node.Kind != ir.IndexMarker {
		return nil, &BuilderMismatchError{Expected: ir.IndexMarker, Actual: node.Kind}
	}
	cs, err := nodeStyle(env, node.Meta, parent)
	if err != nil {
		return nil, err
	}
	return &IndexMarkerNode{
		term:  env.store.Intern(node.Term),
		style: cs,
	}, nil
}
