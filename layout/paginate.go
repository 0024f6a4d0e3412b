package layout

import (
	"context"
	"fmt"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// Paginator drives one pagination pass, yielding pages lazily in document
// order. Use it like a scanner:
//
//	p, err := eng.Paginate(ctx, sheet, root, store)
//	for p.Next() {
//	    page := p.Page()
//	    ...
//	}
//	if err := p.Err(); err != nil { ... }
//
// The navigation tables (Anchors, TOC, Index) accumulate while pages are
// drawn and are complete once Next returns false. A Paginator is not safe
// for concurrent use.
type Paginator struct {
	ctx   context.Context
	env   *Env
	sheet *style.Stylesheet
	root  Node

	out    *sink
	resume *NodeState
	master string

	page     *Page
	nextIdx  int
	finished bool
	done     bool
	err      error
}

// Next lays out pages until one comes out non-empty and reports whether it
// did. Passes that place nothing happen around explicit master switches and
// are not emitted; a document with no visible content still yields a single
// empty page.
func (p *Paginator) Next() bool {
	if p.done || p.err != nil {
		return false
	}
	for {
		if p.finished {
			if p.nextIdx == 0 {
				pl, margins, err := p.masterLayout()
				if err != nil {
					p.fail(err)
					return false
				}
				p.page = &Page{Master: p.master, Size: pl.Size, Margins: margins}
				p.nextIdx++
				p.finish()
				return true
			}
			p.finish()
			return false
		}

		emitted, err := p.layoutPage()
		if err != nil {
			p.fail(err)
			return false
		}
		if emitted {
			return true
		}
	}
}

// Page returns the page produced by the last successful Next call.
func (p *Paginator) Page() *Page { return p.page }

// Err returns the first error encountered, nil on clean exhaustion.
func (p *Paginator) Err() error { return p.err }

// Anchors returns the id → position table collected so far.
func (p *Paginator) Anchors() map[string]Position { return p.out.anchors }

// TOC returns the table-of-contents entries collected so far.
func (p *Paginator) TOC() []TOCEntry { return p.out.toc }

// Index returns the term → positions table collected so far.
func (p *Paginator) Index() map[string][]Position { return p.out.index }

func (p *Paginator) resourceNames() map[string]struct{} { return p.out.resources }

// layoutPage runs one layout pass against the current master and reports
// whether it emitted a page. An empty pass is legal only when the tree
// finished or an explicit master switch forced a fresh page; anything else
// would repeat forever, so it fails loudly instead.
func (p *Paginator) layoutPage() (bool, error) {
	if err := p.ctx.Err(); err != nil {
		return false, err
	}
	name := p.master
	pl, margins, err := p.masterLayout()
	if err != nil {
		return false, err
	}
	bounds := geo.Rect{
		X: margins.Left,
		Y: margins.Top,
		W: pl.Size.W - margins.Horizontal(),
		H: pl.Size.H - margins.Vertical(),
	}

	_, span := p.env.eng.tracer.StartSpan(p.ctx, "layout.page")
	defer span.Finish()
	span.SetTag("page", p.nextIdx)

	p.out.startPage(p.nextIdx)
	ctx := newContext(p.env, p.out, bounds)
	state, err := p.root.Layout(ctx, geo.TightWidth(bounds.W), p.resume)
	if err != nil {
		span.SetError(err)
		return false, err
	}
	p.resume = state
	if state == nil {
		p.finished = true
	}

	switched := false
	if m := p.out.nextMaster; m != "" {
		p.master = m
		p.out.nextMaster = ""
		switched = true
	}

	if len(p.out.elements) == 0 {
		if !p.finished && !switched {
			return false, fmt.Errorf("pagination stalled on page %d: layout made no progress", p.nextIdx)
		}
		return false, nil
	}

	p.page = &Page{
		Index:    p.nextIdx,
		Master:   name,
		Size:     pl.Size,
		Margins:  margins,
		Elements: p.out.elements,
	}
	p.nextIdx++
	p.env.eng.logger.Debug("page laid out",
		observability.Int("page", p.page.Index),
		observability.Int("elements", len(p.page.Elements)),
		observability.String("master", name))
	return true, nil
}

// masterLayout resolves the current page master.
func (p *Paginator) masterLayout() (style.PageLayout, style.Margins, error) {
	pl, ok := p.sheet.PageMasters[p.master]
	if !ok {
		return style.PageLayout{}, style.Margins{}, fmt.Errorf("Page master %q not found in stylesheet", p.master)
	}
	var margins style.Margins
	if pl.Margins != nil {
		margins = *pl.Margins
	}
	return pl, margins, nil
}

func (p *Paginator) fail(err error) {
	p.err = err
	p.finish()
}

func (p *Paginator) finish() {
	p.done = true
	p.env.eng.releaseEnv(p.env)
}
