// Package markdown converts Markdown sources into structural document
// trees using goldmark. Tables and strikethrough come from the GFM
// extensions; LaTeX math is routed through a MathML rendering step and
// the HTML frontend.
package markdown

import (
	"bytes"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/SigmundGranaas/petty-sub005/html"
	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

const (
	baseFontSize = 12.0
	monoFamily   = "Courier"
)

// Converter turns Markdown into document trees.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter returns a converter with the GFM table and strikethrough
// extensions enabled.
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
			),
		),
	}
}

// Convert parses the Markdown source and returns the document tree.
func (c *Converter) Convert(source []byte) (*ir.Node, error) {
	doc := c.md.Parser().Parse(text.NewReader(source))
	root := &ir.Node{Kind: ir.Root}
	root.Children = c.blocks(doc, source)
	return root, nil
}

// ConvertLaTeX renders a LaTeX math expression by converting it to MathML
// and handing the result to the HTML frontend.
func ConvertLaTeX(latex string) (*ir.Node, error) {
	source := "$$" + latex + "$$"

	md := goldmark.New(
		goldmark.WithExtensions(
			treeblood.MathML(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return nil, err
	}
	return html.Convert(buf.Bytes())
}

func (c *Converter) blocks(parent ast.Node, source []byte) []*ir.Node {
	var out []*ir.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if n := c.block(child, source); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (c *Converter) block(node ast.Node, source []byte) *ir.Node {
	switch n := node.(type) {
	case *ast.Heading:
		return &ir.Node{
			Kind:    ir.Heading,
			Level:   n.Level,
			Meta:    ir.Meta{StyleOverride: headingStyle(n.Level)},
			Inlines: c.inlines(n, source),
		}
	case *ast.Paragraph:
		// A paragraph holding nothing but an image becomes a block image.
		if img, ok := soleImage(n); ok {
			return &ir.Node{Kind: ir.Image, Src: string(img.Destination)}
		}
		return &ir.Node{Kind: ir.Paragraph, Inlines: c.inlines(n, source)}
	case *ast.TextBlock:
		return &ir.Node{Kind: ir.Paragraph, Inlines: c.inlines(n, source)}
	case *ast.List:
		return c.list(n, source)
	case *ast.ListItem:
		return &ir.Node{Kind: ir.ListItem, Children: c.blocks(n, source)}
	case *ast.Blockquote:
		return &ir.Node{
			Kind:     ir.Block,
			Meta:     ir.Meta{StyleOverride: blockquoteStyle()},
			Children: c.blocks(n, source),
		}
	case *ast.FencedCodeBlock:
		return codeBlock(n, source)
	case *ast.CodeBlock:
		return codeBlock(n, source)
	case *ast.ThematicBreak:
		return ruleNode()
	case *east.Table:
		return c.table(n, source)
	default:
		return nil
	}
}

func (c *Converter) list(n *ast.List, source []byte) *ir.Node {
	node := &ir.Node{Kind: ir.List, Children: c.blocks(n, source)}
	if n.IsOrdered() {
		decimal := style.ListDecimal
		node.Meta.StyleOverride = &style.ElementStyle{ListStyleType: &decimal}
	}
	return node
}

// codeBlock flattens the block's raw lines into one paragraph with hard
// line breaks, in a monospace box.
func codeBlock(n ast.Node, source []byte) *ir.Node {
	var inlines []*ir.Inline
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			inlines = append(inlines, ir.LineBreak())
		}
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\n")
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

func (c *Converter) table(t *east.Table, source []byte) *ir.Node {
	node := &ir.Node{Kind: ir.Table}
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			node.Header = append(node.Header, c.tableRow(row, source, true))
		case *east.TableRow:
			node.Body = append(node.Body, c.tableRow(row, source, false))
		}
	}
	return node
}

func (c *Converter) tableRow(row ast.Node, source []byte, header bool) *ir.Row {
	out := &ir.Row{}
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		tc, ok := cell.(*east.TableCell)
		if !ok {
			continue
		}
		para := &ir.Node{Kind: ir.Paragraph, Inlines: c.inlines(tc, source)}
		if es := cellStyle(tc.Alignment, header); es != nil {
			para.Meta.StyleOverride = es
		}
		out.Cells = append(out.Cells, &ir.Cell{Children: []*ir.Node{para}})
	}
	return out
}

func (c *Converter) inlines(parent ast.Node, source []byte) []*ir.Inline {
	var out []*ir.Inline
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.inline(child, source)...)
	}
	return out
}

func (c *Converter) inline(node ast.Node, source []byte) []*ir.Inline {
	switch n := node.(type) {
	case *ast.Text:
		out := []*ir.Inline{ir.Text(string(n.Segment.Value(source)))}
		switch {
		case n.HardLineBreak():
			out = append(out, ir.LineBreak())
		case n.SoftLineBreak():
			out = append(out, ir.Text(" "))
		}
		return out
	case *ast.String:
		return []*ir.Inline{ir.Text(string(n.Value))}
	case *ast.Emphasis:
		return []*ir.Inline{ir.Span(
			ir.Meta{StyleOverride: emphasisStyle(n.Level)},
			c.inlines(n, source)...,
		)}
	case *east.Strikethrough:
		strike := style.DecorationStrikethrough
		return []*ir.Inline{ir.Span(
			ir.Meta{StyleOverride: &style.ElementStyle{TextDecoration: &strike}},
			c.inlines(n, source)...,
		)}
	case *ast.CodeSpan:
		mono := monoFamily
		return []*ir.Inline{ir.Span(
			ir.Meta{StyleOverride: &style.ElementStyle{FontFamily: &mono}},
			c.inlines(n, source)...,
		)}
	case *ast.Link:
		return []*ir.Inline{ir.Link(string(n.Destination), c.inlines(n, source)...)}
	case *ast.AutoLink:
		url := string(n.URL(source))
		return []*ir.Inline{ir.Link(url, ir.Text(url))}
	case *ast.Image:
		return []*ir.Inline{ir.ImageInline(string(n.Destination))}
	default:
		return nil
	}
}

// soleImage reports whether the paragraph consists of a single image.
func soleImage(p *ast.Paragraph) (*ast.Image, bool) {
	child := p.FirstChild()
	if child == nil || child.NextSibling() != nil {
		return nil, false
	}
	img, ok := child.(*ast.Image)
	return img, ok
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

func emphasisStyle(level int) *style.ElementStyle {
	if level >= 2 {
		bold := style.WeightBold
		return &style.ElementStyle{FontWeight: &bold}
	}
	italic := style.FontStyleItalic
	return &style.ElementStyle{FontStyle: &italic}
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
	return &style.ElementStyle{
		FontFamily:      &mono,
		BackgroundColor: ptrColor(style.RGB(0xf4, 0xf4, 0xf4)),
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

func cellStyle(align east.Alignment, header bool) *style.ElementStyle {
	var es style.ElementStyle
	set := false
	switch align {
	case east.AlignCenter:
		center := style.AlignCenter
		es.TextAlign = &center
		set = true
	case east.AlignRight:
		right := style.AlignRight
		es.TextAlign = &right
		set = true
	}
	if header {
		bold := style.WeightBold
		es.FontWeight = &bold
		set = true
	}
	if !set {
		return nil
	}
	return &es
}

func ptrColor(c style.Color) *style.Color { return &c }
