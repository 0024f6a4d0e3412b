// Package ir defines the structural document tree consumed by the layout
// engine. Frontends (markdown, html, templates, the fluent builder) produce
// this tree; nothing in it carries layout results. Nodes are immutable once
// handed to the engine.
package ir

import "github.com/SigmundGranaas/petty-sub005/style"

// Kind tags the structural node variants.
type Kind uint8

const (
	Root Kind = iota
	Block
	Paragraph
	Heading
	Image
	FlexContainer
	List
	ListItem
	Table
	PageBreak
	IndexMarker
)

var kindNames = [...]string{
	"root", "block", "paragraph", "heading", "image", "flex-container",
	"list", "list-item", "table", "page-break", "index-marker",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Meta carries the cross-kind node attributes: an optional anchor id, the
// names of stylesheet style sets to apply, and an inline override applied
// after them.
type Meta struct {
	ID            string
	StyleSets     []string
	StyleOverride *style.ElementStyle
}

// Node is one structural element. Which payload fields are meaningful
// depends on Kind; the layout engine's builders validate the pairing.
type Node struct {
	Kind Kind
	Meta Meta

	// Children holds structural children for Root, Block, FlexContainer,
	// List and ListItem.
	Children []*Node

	// Inlines holds the inline content of a Paragraph or Heading.
	Inlines []*Inline

	// Level is the Heading level (1-based).
	Level int

	// Src is the Image resource identifier.
	Src string

	// Columns, Header and Body describe a Table.
	Columns []ColumnDef
	Header  []*Row
	Body    []*Row

	// MasterName optionally selects a page master on a PageBreak.
	MasterName string

	// Term is the IndexMarker index term.
	Term string
}

// ColumnDef declares one table column.
type ColumnDef struct {
	Width *style.Dimension
	Meta  Meta
}

// Row is one table row.
type Row struct {
	Meta  Meta
	Cells []*Cell
}

// Cell is one table cell. Span values of 0 are treated as 1.
type Cell struct {
	Meta    Meta
	ColSpan int
	RowSpan int
	// Children holds the cell's structural content.
	Children []*Node
}
