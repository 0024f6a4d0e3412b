package layout

import (
	"context"
	"testing"

	"github.com/SigmundGranaas/petty-sub005/fonts"
	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// fixedShaper shapes every rune to half an em, with an 0.8em ascent. It
// keeps layout tests deterministic without loading font binaries.
type fixedShaper struct{}

func (fixedShaper) ShapeSpan(text string, font *fonts.Font, size float64) (fonts.ShapedRun, error) {
	runes := []rune(text)
	run := fonts.ShapedRun{
		Ascent:  size * 0.8,
		Descent: size * 0.2,
	}
	adv := size / 2
	for i, r := range runes {
		run.Glyphs = append(run.Glyphs, fonts.ShapedGlyph{
			ID:        int(r),
			Cluster:   i,
			RuneCount: 1,
			XAdvance:  adv,
		})
		run.Width += adv
	}
	return run, nil
}

// staticFonts resolves every query to the same face, so tests never touch
// the library.
type staticFonts struct {
	font *fonts.Font
}

func (s staticFonts) Resolve(string, style.FontWeight, style.FontStyle) (*fonts.Font, error) {
	return s.font, nil
}

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithShaper(fixedShaper{}),
		WithFonts(staticFonts{&fonts.Font{Family: "Helvetica"}}),
	}
	return NewEngine(append(base, opts...)...)
}

// testSheet returns a stylesheet with a single 500x500 master with 10pt
// margins, so the content box is 480x480 starting at (10, 10).
func testSheet() *style.Stylesheet {
	return &style.Stylesheet{
		PageMasters: map[string]style.PageLayout{
			"default": {
				Size:    style.PageSize{W: 500, H: 500},
				Margins: &style.Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
			},
		},
		DefaultPageMaster: "default",
	}
}

// shortSheet returns a master whose content box holds exactly five default
// 14.4pt lines (72pt tall), 480pt wide.
func shortSheet() *style.Stylesheet {
	return &style.Stylesheet{
		PageMasters: map[string]style.PageLayout{
			"default": {
				Size:    style.PageSize{W: 500, H: 92},
				Margins: &style.Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
			},
		},
		DefaultPageMaster: "default",
	}
}

func root(children ...*ir.Node) *ir.Node {
	return &ir.Node{Kind: ir.Root, Children: children}
}

func para(text string) *ir.Node {
	return &ir.Node{Kind: ir.Paragraph, Inlines: []*ir.Inline{ir.Text(text)}}
}

// multiLinePara builds a paragraph whose lines are forced by hard breaks,
// one line per argument.
func multiLinePara(lines ...string) *ir.Node {
	var inlines []*ir.Inline
	for i, line := range lines {
		if i > 0 {
			inlines = append(inlines, ir.LineBreak())
		}
		inlines = append(inlines, ir.Text(line))
	}
	return &ir.Node{Kind: ir.Paragraph, Inlines: inlines}
}

func layoutSeq(t *testing.T, eng *Engine, sheet *style.Stylesheet, doc *ir.Node) *LaidOutSequence {
	t.Helper()
	seq, err := eng.Layout(context.Background(), sheet, doc)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return seq
}

// textElements filters a page down to its text runs, in paint order.
func textElements(p Page) []PositionedElement {
	var out []PositionedElement
	for _, el := range p.Elements {
		if _, ok := el.Element.(*TextElement); ok {
			out = append(out, el)
		}
	}
	return out
}

func textContents(p Page) []string {
	var out []string
	for _, el := range textElements(p) {
		out = append(out, el.Element.(*TextElement).Content)
	}
	return out
}

// findText returns the first text element with the given content.
func findText(p Page, content string) (PositionedElement, bool) {
	for _, el := range textElements(p) {
		if el.Element.(*TextElement).Content == content {
			return el, true
		}
	}
	return PositionedElement{}, false
}

func intPtr(v int) *int                           { return &v }
func floatPtr(v float64) *float64                 { return &v }
func dimPtr(d style.Dimension) *style.Dimension   { return &d }
func listTypePtr(t style.ListStyleType) *style.ListStyleType {
	return &t
}
