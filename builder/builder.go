// Package builder offers a fluent API for assembling structural document
// trees programmatically, as an alternative to the template, markdown and
// html frontends.
package builder

import (
	"fmt"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// DocumentBuilder provides a fluent API for document construction. The
// container methods (Block, Flex, List, Item) open a nested scope closed
// by End; leaf methods append to the current scope. Errors are deferred:
// misuse is recorded and reported by Build.
type DocumentBuilder interface {
	Block(opts ...NodeOptions) DocumentBuilder
	Flex(opts ...NodeOptions) DocumentBuilder
	List(opts ...NodeOptions) DocumentBuilder
	Item(opts ...NodeOptions) DocumentBuilder
	End() DocumentBuilder

	Paragraph(text string, opts ...NodeOptions) DocumentBuilder
	RichParagraph(inlines []*ir.Inline, opts ...NodeOptions) DocumentBuilder
	Heading(level int, text string, opts ...NodeOptions) DocumentBuilder
	Image(src string, opts ...NodeOptions) DocumentBuilder
	PageBreak() DocumentBuilder
	PageBreakTo(master string) DocumentBuilder
	IndexMarker(term string) DocumentBuilder

	Table(opts ...NodeOptions) TableBuilder

	Build() (*ir.Node, error)
}

// TableBuilder provides a fluent API for one table. Finish closes the
// table and returns the document builder.
type TableBuilder interface {
	Columns(widths ...style.Dimension) TableBuilder
	HeaderRow(cells ...Cell) TableBuilder
	Row(cells ...Cell) TableBuilder
	Finish() DocumentBuilder
}

// NodeOptions configures the node being added: its anchor id, the style
// sets it references and an inline style override.
type NodeOptions struct {
	ID     string
	Styles []string
	Style  *style.ElementStyle
}

func (o NodeOptions) meta() ir.Meta {
	return ir.Meta{ID: o.ID, StyleSets: o.Styles, StyleOverride: o.Style}
}

func firstOption(opts []NodeOptions) NodeOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return NodeOptions{}
}

// Cell describes one table cell. Text is a shorthand for a single
// paragraph; Children wins when both are set.
type Cell struct {
	Text     string
	Children []*ir.Node
	ColSpan  int
	RowSpan  int
	Options  NodeOptions
}

// TextCell returns a cell holding one paragraph of plain text.
func TextCell(text string) Cell { return Cell{Text: text} }

type builderImpl struct {
	root  *ir.Node
	stack []*ir.Node
	err   error
}

// New constructs an empty document builder.
func New() DocumentBuilder {
	root := &ir.Node{Kind: ir.Root}
	return &builderImpl{root: root, stack: []*ir.Node{root}}
}

func (b *builderImpl) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

func (b *builderImpl) current() *ir.Node {
	return b.stack[len(b.stack)-1]
}

func (b *builderImpl) append(node *ir.Node) {
	cur := b.current()
	cur.Children = append(cur.Children, node)
}

func (b *builderImpl) push(node *ir.Node) DocumentBuilder {
	b.append(node)
	b.stack = append(b.stack, node)
	return b
}

func (b *builderImpl) Block(opts ...NodeOptions) DocumentBuilder {
	return b.push(&ir.Node{Kind: ir.Block, Meta: firstOption(opts).meta()})
}

func (b *builderImpl) Flex(opts ...NodeOptions) DocumentBuilder {
	return b.push(&ir.Node{Kind: ir.FlexContainer, Meta: firstOption(opts).meta()})
}

func (b *builderImpl) List(opts ...NodeOptions) DocumentBuilder {
	return b.push(&ir.Node{Kind: ir.List, Meta: firstOption(opts).meta()})
}

func (b *builderImpl) Item(opts ...NodeOptions) DocumentBuilder {
	if b.current().Kind != ir.List {
		b.fail("builder: Item called outside a List (current scope is %s)", b.current().Kind)
	}
	return b.push(&ir.Node{Kind: ir.ListItem, Meta: firstOption(opts).meta()})
}

func (b *builderImpl) End() DocumentBuilder {
	if len(b.stack) == 1 {
		b.fail("builder: End called with no open container")
		return b
	}
	b.stack = b.stack[:len(b.stack)-1]
	return b
}

func (b *builderImpl) Paragraph(text string, opts ...NodeOptions) DocumentBuilder {
	return b.RichParagraph([]*ir.Inline{ir.Text(text)}, opts...)
}

func (b *builderImpl) RichParagraph(inlines []*ir.Inline, opts ...NodeOptions) DocumentBuilder {
	b.append(&ir.Node{Kind: ir.Paragraph, Meta: firstOption(opts).meta(), Inlines: inlines})
	return b
}

func (b *builderImpl) Heading(level int, text string, opts ...NodeOptions) DocumentBuilder {
	if level < 1 {
		level = 1
	}
	b.append(&ir.Node{
		Kind:    ir.Heading,
		Meta:    firstOption(opts).meta(),
		Level:   level,
		Inlines: []*ir.Inline{ir.Text(text)},
	})
	return b
}

func (b *builderImpl) Image(src string, opts ...NodeOptions) DocumentBuilder {
	b.append(&ir.Node{Kind: ir.Image, Meta: firstOption(opts).meta(), Src: src})
	return b
}

func (b *builderImpl) PageBreak() DocumentBuilder {
	b.append(&ir.Node{Kind: ir.PageBreak})
	return b
}

func (b *builderImpl) PageBreakTo(master string) DocumentBuilder {
	b.append(&ir.Node{Kind: ir.PageBreak, MasterName: master})
	return b
}

func (b *builderImpl) IndexMarker(term string) DocumentBuilder {
	b.append(&ir.Node{Kind: ir.IndexMarker, Term: term})
	return b
}

func (b *builderImpl) Table(opts ...NodeOptions) TableBuilder {
	table := &ir.Node{Kind: ir.Table, Meta: firstOption(opts).meta()}
	b.append(table)
	return &tableBuilderImpl{parent: b, table: table}
}

func (b *builderImpl) Build() (*ir.Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 1 {
		return nil, fmt.Errorf("builder: %d container(s) left open (missing End)", len(b.stack)-1)
	}
	return b.root, nil
}

type tableBuilderImpl struct {
	parent *builderImpl
	table  *ir.Node
}

func (t *tableBuilderImpl) Columns(widths ...style.Dimension) TableBuilder {
	cols := make([]ir.ColumnDef, len(widths))
	for i := range widths {
		w := widths[i]
		cols[i] = ir.ColumnDef{Width: &w}
	}
	t.table.Columns = cols
	return t
}

func (t *tableBuilderImpl) HeaderRow(cells ...Cell) TableBuilder {
	t.table.Header = append(t.table.Header, buildRow(cells))
	return t
}

func (t *tableBuilderImpl) Row(cells ...Cell) TableBuilder {
	t.table.Body = append(t.table.Body, buildRow(cells))
	return t
}

func (t *tableBuilderImpl) Finish() DocumentBuilder {
	return t.parent
}

func buildRow(cells []Cell) *ir.Row {
	row := &ir.Row{Cells: make([]*ir.Cell, len(cells))}
	for i, c := range cells {
		children := c.Children
		if children == nil {
			children = []*ir.Node{{
				Kind:    ir.Paragraph,
				Inlines: []*ir.Inline{ir.Text(c.Text)},
			}}
		}
		row.Cells[i] = &ir.Cell{
			Meta:     c.Options.meta(),
			ColSpan:  c.ColSpan,
			RowSpan:  c.RowSpan,
			Children: children,
		}
	}
	return row
}
