package layout

import (
	"github.com/SigmundGranaas/petty-sub005/style"
)

// Element is the drawable payload of a PositionedElement. The concrete
// types are TextElement, RectElement, ImageElement and PageNumberElement;
// renderers switch over them.
type Element interface {
	isElement()
}

// TextElement is a run of text on one line.
type TextElement struct {
	// Content is the final text for this run. Trailing whitespace has
	// already been trimmed by line building.
	Content string
	// Href, when non-empty, makes the run a hyperlink. Internal targets
	// use a "#" prefix followed by an anchor id.
	Href string
	// Decoration mirrors the resolved text-decoration of the run's style.
	Decoration style.TextDecoration
}

// RectElement is a filled rectangle, used for backgrounds and border edges.
// Its color is carried by the element's style.
type RectElement struct{}

// ImageElement draws the image resource named by Src.
type ImageElement struct {
	Src string
}

// PageNumberElement reserves space for a page number that is only known
// once pagination finishes. Renderers replace it with the page index of
// the anchor named by TargetID.
type PageNumberElement struct {
	TargetID string
	Href     string
}

func (TextElement) isElement()       {}
func (RectElement) isElement()       {}
func (ImageElement) isElement()      {}
func (PageNumberElement) isElement() {}

// PositionedElement is one absolutely placed drawable unit.
type PositionedElement struct {
	X, Y    float64
	W, H    float64
	Element Element
	Style   *ComputedStyle
}

// Page is one laid-out page: its master geometry plus the elements placed
// on it, in paint order.
type Page struct {
	// Index is the zero-based page position within the sequence.
	Index int
	// Master is the page master the page was laid out against.
	Master string
	// Size is the physical page size in points.
	Size style.PageSize
	// Margins is the resolved margin set of the master.
	Margins style.Margins
	// Elements are the positioned drawables in document paint order.
	Elements []PositionedElement
}

// Position locates a registered anchor or index entry.
type Position struct {
	// Page is the zero-based page index within the sequence.
	Page int
	// Y is the absolute vertical position on that page, in points.
	Y float64
}

// TOCEntry is one table-of-contents row collected from a heading.
type TOCEntry struct {
	Level    int
	Text     string
	TargetID string
}

// LaidOutSequence is the result of paginating one document: the pages, the
// image resources they reference, and the navigation side tables collected
// during layout. Ownership passes to the rendering collaborator.
type LaidOutSequence struct {
	Pages     []Page
	Resources map[string][]byte
	Anchors   map[string]Position
	TOC       []TOCEntry
	Index     map[string][]Position
}
