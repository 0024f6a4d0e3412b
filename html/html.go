// Package html converts HTML fragments into structural document trees
// using the x/net/html parser. It covers the common text-flow subset:
// headings, paragraphs, lists, tables, images, inline styling and
// hyperlinks. MathML content is flattened to its plain text.
package html

import (
	"bytes"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

const (
	baseFontSize = 12.0
	monoFamily   = "Courier"
)

// Convert parses the HTML source and returns the document tree.
func Convert(source []byte) (*ir.Node, error) {
	doc, err := xhtml.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	root := &ir.Node{Kind: ir.Root}
	if body := findBody(doc); body != nil {
		root.Children = blocks(body)
	}
	return root, nil
}

func findBody(n *xhtml.Node) *xhtml.Node {
	if n.Type == xhtml.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// blocks walks element children, folding loose inline content between
// block elements into implicit paragraphs.
func blocks(parent *xhtml.Node) []*ir.Node {
	var out []*ir.Node
	var pending []*ir.Inline

	flush := func() {
		if hasVisibleText(pending) {
			out = append(out, &ir.Node{Kind: ir.Paragraph, Inlines: pending})
		}
		pending = nil
	}

	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && isBlockElement(c.DataAtom) {
			flush()
			if n := block(c); n != nil {
				out = append(out, n)
			}
			continue
		}
		pending = append(pending, inline(c)...)
	}
	flush()
	return out
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.P, atom.Ul, atom.Ol, atom.Li, atom.Blockquote, atom.Pre,
		atom.Table, atom.Hr, atom.Div, atom.Section, atom.Article,
		atom.Main, atom.Aside, atom.Header, atom.Footer, atom.Figure:
		return true
	}
	return false
}

func block(n *xhtml.Node) *ir.Node {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := headingLevel(n.DataAtom)
		return &ir.Node{
			Kind:    ir.Heading,
			Level:   level,
			Meta:    ir.Meta{ID: attr(n, "id"), StyleOverride: headingStyle(level)},
			Inlines: inlineChildren(n),
		}
	case atom.P:
		if img, ok := soleImage(n); ok {
			return &ir.Node{Kind: ir.Image, Src: attr(img, "src"), Meta: ir.Meta{ID: attr(n, "id")}}
		}
		inlines := inlineChildren(n)
		if !hasVisibleText(inlines) {
			return nil
		}
		return &ir.Node{Kind: ir.Paragraph, Meta: ir.Meta{ID: attr(n, "id")}, Inlines: inlines}
	case atom.Ul:
		return listNode(n, false)
	case atom.Ol:
		return listNode(n, true)
	case atom.Li:
		return &ir.Node{Kind: ir.ListItem, Children: blocks(n)}
	case atom.Blockquote:
		return &ir.Node{
			Kind:     ir.Block,
			Meta:     ir.Meta{StyleOverride: blockquoteStyle()},
			Children: blocks(n),
		}
	case atom.Pre:
		return preBlock(n)
	case atom.Table:
		return tableNode(n)
	case atom.Hr:
		return ruleNode()
	case atom.Div, atom.Section, atom.Article, atom.Main, atom.Aside,
		atom.Header, atom.Footer, atom.Figure:
		children := blocks(n)
		if len(children) == 0 {
			return nil
		}
		return &ir.Node{Kind: ir.Block, Meta: ir.Meta{ID: attr(n, "id")}, Children: children}
	default:
		return nil
	}
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	default:
		return 6
	}
}

func listNode(n *xhtml.Node, ordered bool) *ir.Node {
	node := &ir.Node{Kind: ir.List}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && c.DataAtom == atom.Li {
			item := &ir.Node{Kind: ir.ListItem, Children: blocks(c)}
			node.Children = append(node.Children, item)
		}
	}
	if ordered {
		decimal := style.ListDecimal
		node.Meta.StyleOverride = &style.ElementStyle{ListStyleType: &decimal}
	}
	return node
}

// preBlock keeps the raw text of a pre element, one hard break per line.
func preBlock(n *xhtml.Node) *ir.Node {
	raw := strings.Trim(rawText(n), "\n")
	var inlines []*ir.Inline
	for i, line := range strings.Split(raw, "\n") {
		if i > 0 {
			inlines = append(inlines, ir.LineBreak())
		}
		inlines = append(inlines, ir.Text(line))
	}
	return &ir.Node{
		Kind: ir.Block,
		Meta: ir.Meta{StyleOverride: codeBlockStyle()},
		Children: []*ir.Node{
			{Kind: ir.Paragraph, Inlines: inlines},
		},
	}
}

func tableNode(n *xhtml.Node) *ir.Node {
	table := &ir.Node{Kind: ir.Table, Meta: ir.Meta{ID: attr(n, "id")}}
	var walk func(*xhtml.Node, bool)
	walk = func(parent *xhtml.Node, header bool) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xhtml.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead:
				walk(c, true)
			case atom.Tbody, atom.Tfoot:
				walk(c, false)
			case atom.Tr:
				row := tableRow(c)
				if header || rowIsHeader(c) {
					table.Header = append(table.Header, row)
				} else {
					table.Body = append(table.Body, row)
				}
			}
		}
	}
	walk(n, false)
	return table
}

// rowIsHeader treats a tr made entirely of th cells as a header row even
// outside an explicit thead.
func rowIsHeader(tr *xhtml.Node) bool {
	seen := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xhtml.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			seen = true
		case atom.Td:
			return false
		}
	}
	return seen
}

func tableRow(tr *xhtml.Node) *ir.Row {
	row := &ir.Row{}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xhtml.ElementNode {
			continue
		}
		if c.DataAtom != atom.Td && c.DataAtom != atom.Th {
			continue
		}
		cell := &ir.Cell{
			ColSpan:  intAttr(c, "colspan"),
			RowSpan:  intAttr(c, "rowspan"),
			Children: cellContent(c),
		}
		if c.DataAtom == atom.Th {
			boldenCell(cell)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

// cellContent lays out a cell: nested block elements walk as blocks,
// plain content becomes one paragraph.
func cellContent(td *xhtml.Node) []*ir.Node {
	for c := td.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && isBlockElement(c.DataAtom) {
			return blocks(td)
		}
	}
	inlines := inlineChildren(td)
	if len(inlines) == 0 {
		return nil
	}
	return []*ir.Node{{Kind: ir.Paragraph, Inlines: inlines}}
}

func boldenCell(cell *ir.Cell) {
	bold := style.WeightBold
	for _, child := range cell.Children {
		if child.Kind == ir.Paragraph {
			if child.Meta.StyleOverride == nil {
				child.Meta.StyleOverride = &style.ElementStyle{}
			}
			if child.Meta.StyleOverride.FontWeight == nil {
				child.Meta.StyleOverride.FontWeight = &bold
			}
		}
	}
}

func inlineChildren(parent *xhtml.Node) []*ir.Inline {
	var out []*ir.Inline
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inline(c)...)
	}
	return out
}

func inline(n *xhtml.Node) []*ir.Inline {
	if n.Type == xhtml.TextNode {
		text := collapseSpace(n.Data)
		if text == "" {
			return nil
		}
		return []*ir.Inline{ir.Text(text)}
	}
	if n.Type != xhtml.ElementNode {
		return nil
	}

	switch n.DataAtom {
	case atom.Br:
		return []*ir.Inline{ir.LineBreak()}
	case atom.A:
		return []*ir.Inline{ir.Link(attr(n, "href"), inlineChildren(n)...)}
	case atom.Strong, atom.B:
		bold := style.WeightBold
		return styledSpan(&style.ElementStyle{FontWeight: &bold}, n)
	case atom.Em, atom.I:
		italic := style.FontStyleItalic
		return styledSpan(&style.ElementStyle{FontStyle: &italic}, n)
	case atom.Code:
		mono := monoFamily
		return styledSpan(&style.ElementStyle{FontFamily: &mono}, n)
	case atom.U:
		underline := style.DecorationUnderline
		return styledSpan(&style.ElementStyle{TextDecoration: &underline}, n)
	case atom.Del, atom.S, atom.Strike:
		strike := style.DecorationStrikethrough
		return styledSpan(&style.ElementStyle{TextDecoration: &strike}, n)
	case atom.Img:
		return []*ir.Inline{ir.ImageInline(attr(n, "src"))}
	case atom.Span:
		return inlineChildren(n)
	case atom.Math:
		return mathInline(n)
	default:
		return inlineChildren(n)
	}
}

func styledSpan(es *style.ElementStyle, n *xhtml.Node) []*ir.Inline {
	return []*ir.Inline{ir.Span(ir.Meta{StyleOverride: es}, inlineChildren(n)...)}
}

// mathInline flattens a MathML subtree to its text content, rendered in
// italic the way formulas conventionally appear.
func mathInline(n *xhtml.Node) []*ir.Inline {
	text := collapseSpace(rawText(n))
	if text == "" {
		return nil
	}
	italic := style.FontStyleItalic
	return []*ir.Inline{ir.Span(
		ir.Meta{StyleOverride: &style.ElementStyle{FontStyle: &italic}},
		ir.Text(text),
	)}
}

func rawText(n *xhtml.Node) string {
	var sb strings.Builder
	var f func(*xhtml.Node)
	f = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

// collapseSpace folds whitespace runs into single spaces, preserving a
// single leading or trailing space so adjacent inlines keep their word
// boundaries.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if startsWithSpace(s) {
		out = " " + out
	}
	if endsWithSpace(s) {
		out += " "
	}
	return out
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r')
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func soleImage(p *xhtml.Node) (*xhtml.Node, bool) {
	var img *xhtml.Node
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == xhtml.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == xhtml.ElementNode && c.DataAtom == atom.Img && img == nil:
			img = c
		default:
			return nil, false
		}
	}
	return img, img != nil
}

func attr(n *xhtml.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func intAttr(n *xhtml.Node, name string) int {
	v, err := strconv.Atoi(attr(n, name))
	if err != nil {
		return 0
	}
	return v
}

func headingStyle(level int) *style.ElementStyle {
	size := baseFontSize * 1.25
	switch level {
	case 1:
		size = baseFontSize * 2.0
	case 2:
		size = baseFontSize * 1.5
	}
	bold := style.WeightBold
	return &style.ElementStyle{
		FontSize:   &size,
		FontWeight: &bold,
		Margin:     &style.Margins{Top: size * 0.75, Bottom: size * 0.35},
	}
}

func blockquoteStyle() *style.ElementStyle {
	return &style.ElementStyle{
		BorderLeft: &style.Border{Width: 2, Color: style.RGB(0xcc, 0xcc, 0xcc)},
		Padding:    &style.Margins{Left: 10},
		Margin:     &style.Margins{Top: 6, Bottom: 6, Left: 4},
	}
}

func codeBlockStyle() *style.ElementStyle {
	mono := monoFamily
	bg := style.RGB(0xf4, 0xf4, 0xf4)
	return &style.ElementStyle{
		FontFamily:      &mono,
		BackgroundColor: &bg,
		Padding:         &style.Margins{Top: 6, Right: 8, Bottom: 6, Left: 8},
		Margin:          &style.Margins{Top: 6, Bottom: 6},
	}
}

func ruleNode() *ir.Node {
	return &ir.Node{
		Kind: ir.Block,
		Meta: ir.Meta{StyleOverride: &style.ElementStyle{
			BorderBottom: &style.Border{Width: 0.5, Color: style.RGB(0xbb, 0xbb, 0xbb)},
			Margin:       &style.Margins{Top: 8, Bottom: 8},
		}},
	}
}

// hasVisibleText reports whether the inline run contains any non-blank
// text, an image or a break worth keeping.
func hasVisibleText(inlines []*ir.Inline) bool {
	for _, in := range inlines {
		switch in.Kind {
		case ir.InlineText:
			if strings.TrimSpace(in.Text) != "" {
				return true
			}
		case ir.InlineImage:
			return true
		default:
			if strings.TrimSpace(in.PlainText()) != "" {
				return true
			}
		}
	}
	return false
}
