package layout

import (
	"math"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// Env bundles the per-pass collaborators available to nodes in both the
// measure and layout phases: the arena, the stylesheet, the text/shaping
// service and the engine's shared facilities. One Env serves exactly one
// pass.
type Env struct {
	eng    *Engine
	store  *Store
	sheet  *style.Stylesheet
	text   *textService
	images map[string]imageProbe
}

// Store returns the pass arena.
func (e *Env) Store() *Store { return e.store }

// Stylesheet returns the stylesheet the pass resolves styles against.
func (e *Env) Stylesheet() *style.Stylesheet { return e.sheet }

// Logger returns the engine logger.
func (e *Env) Logger() observability.Logger { return e.eng.logger }

// sink accumulates everything a pass produces besides the node tree:
// the current page's elements plus the pass-wide navigation tables.
type sink struct {
	elements  []PositionedElement
	pageIndex int

	anchors    map[string]Position
	index      map[string][]Position
	toc        []TOCEntry
	resources  map[string]struct{}
	nextMaster string
}

func newSink() *sink {
	return &sink{
		anchors:   make(map[string]Position),
		index:     make(map[string][]Position),
		resources: make(map[string]struct{}),
	}
}

// startPage resets the per-page element buffer for the given page index.
func (s *sink) startPage(index int) {
	s.elements = nil
	s.pageIndex = index
}

// Context is the mutable cursor a node lays out against: a bounding box on
// the current page, a write position inside it, and the margin-collapsing
// bookkeeping shared between vertically adjacent siblings. Child contexts
// share the page sink but carry their own cursor.
type Context struct {
	env         *Env
	out         *sink
	bounds      geo.Rect
	cursorX     float64
	cursorY     float64
	lastVMargin float64
	rootTopY    float64
}

func newContext(env *Env, out *sink, bounds geo.Rect) *Context {
	return &Context{env: env, out: out, bounds: bounds, rootTopY: bounds.Y}
}

// Env returns the pass environment.
func (c *Context) Env() *Env { return c.env }

// Bounds returns the box the node may draw into.
func (c *Context) Bounds() geo.Rect { return c.bounds }

// CursorY returns the consumed height within the bounds.
func (c *Context) CursorY() float64 { return c.cursorY }

// Advance moves the cursor down by dy.
func (c *Context) Advance(dy float64) { c.cursorY += dy }

// AvailableHeight returns the vertical space left below the cursor.
func (c *Context) AvailableHeight() float64 {
	return math.Max(0, c.bounds.H-c.cursorY)
}

// Fits reports whether a child of the given height fits into the remaining
// space, absorbing floating-point drift.
func (c *Context) Fits(height float64) bool {
	return height <= c.AvailableHeight()+geo.FitEpsilon
}

// PrepareForBlock collapses the pending bottom margin of the previous
// sibling with the new block's top margin and advances the cursor by the
// larger of the two. It returns true when the collapsed margin itself no
// longer fits, in which case the caller must break to the next page. At
// the very top of the box the margin always applies.
func (c *Context) PrepareForBlock(topMargin float64) bool {
	margin := math.Max(topMargin, c.lastVMargin)
	if c.cursorY > 0.001 && margin > c.AvailableHeight() {
		return true
	}
	c.cursorY += margin
	c.lastVMargin = 0
	return false
}

// FinishBlock records the block's bottom margin for collapsing against the
// next sibling.
func (c *Context) FinishBlock(bottomMargin float64) {
	c.lastVMargin = bottomMargin
}

// ClearVMargin drops any pending margin. Continuation fragments call this
// so a margin from the previous page never leaks onto the new one.
func (c *Context) ClearVMargin() {
	c.lastVMargin = 0
}

// IsEmpty reports whether the current page has no elements yet. Break
// decisions use it to force progress: an element that does not fit on an
// empty page will not fit on any page, so it must be placed regardless.
func (c *Context) IsEmpty() bool {
	return len(c.out.elements) == 0
}

// PushElement places el relative to the current cursor position.
func (c *Context) PushElement(el PositionedElement) {
	el.X += c.bounds.X + c.cursorX
	el.Y += c.bounds.Y + c.cursorY
	c.out.elements = append(c.out.elements, el)
}

// PushElementAt places el relative to the bounds origin, at the given
// local offsets, ignoring the cursor.
func (c *Context) PushElementAt(el PositionedElement, x, y float64) {
	el.X += c.bounds.X + x
	el.Y += c.bounds.Y + y
	c.out.elements = append(c.out.elements, el)
}

// RegisterAnchor records the cursor's absolute position on the current
// page under the given id. A repeated id overwrites the earlier position.
func (c *Context) RegisterAnchor(id string) {
	c.out.anchors[id] = Position{Page: c.out.pageIndex, Y: c.bounds.Y + c.cursorY}
}

// RegisterIndexEntry appends the cursor's position to the term's entry
// list, preserving document order.
func (c *Context) RegisterIndexEntry(term string) {
	c.out.index[term] = append(c.out.index[term], Position{Page: c.out.pageIndex, Y: c.bounds.Y + c.cursorY})
}

// RegisterTOCEntry appends one table-of-contents row.
func (c *Context) RegisterTOCEntry(level int, text, targetID string) {
	c.out.toc = append(c.out.toc, TOCEntry{Level: level, Text: text, TargetID: targetID})
}

// RequestMaster asks the pagination driver to switch to the named page
// master starting with the next page. An empty name keeps the current one.
func (c *Context) RequestMaster(name string) {
	if name != "" {
		c.out.nextMaster = name
	}
}

// UseResource marks an image resource as referenced by the sequence.
func (c *Context) UseResource(src string) {
	c.out.resources[src] = struct{}{}
}

// Child returns a context over the given absolute bounds with a fresh
// cursor, sharing the page sink and page-top reference with its parent.
func (c *Context) Child(bounds geo.Rect) *Context {
	return &Context{
		env:      c.env,
		out:      c.out,
		bounds:   bounds,
		rootTopY: c.rootTopY,
	}
}
