package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// relaxedBreaks disables widow and orphan minimums so a test can observe
// raw split behavior.
func relaxedBreaks() *style.ElementStyle {
	return &style.ElementStyle{Widows: intPtr(1), Orphans: intPtr(1)}
}

func TestSplitResumesOnNextPage(t *testing.T) {
	eng := newTestEngine()

	// The content box holds exactly five 14.4pt lines. Six lines of text
	// must split 5/1, with the sixth resuming at the top of page two.
	p1 := multiLinePara("l1", "l2", "l3")
	p1.Meta.StyleOverride = relaxedBreaks()
	p2 := multiLinePara("l4", "l5", "l6")
	p2.Meta.StyleOverride = relaxedBreaks()

	seq := layoutSeq(t, eng, shortSheet(), root(p1, p2))
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}

	got1 := textContents(seq.Pages[0])
	want1 := []string{"l1", "l2", "l3", "l4", "l5"}
	if strings.Join(got1, ",") != strings.Join(want1, ",") {
		t.Errorf("page 1 lines = %v, want %v", got1, want1)
	}

	got2 := textContents(seq.Pages[1])
	if len(got2) != 1 || got2[0] != "l6" {
		t.Fatalf("page 2 lines = %v, want [l6]", got2)
	}

	// The continuation starts at the content box origin, not below a
	// repeated top margin.
	el, _ := findText(seq.Pages[1], "l6")
	if el.X != 10 || el.Y != 10 {
		t.Errorf("continuation at (%g, %g), want (10, 10)", el.X, el.Y)
	}
}

func TestEmptyDocumentYieldsOnePage(t *testing.T) {
	eng := newTestEngine()
	seq := layoutSeq(t, eng, testSheet(), root())
	if len(seq.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(seq.Pages))
	}
	if len(seq.Pages[0].Elements) != 0 {
		t.Errorf("empty document page has %d elements", len(seq.Pages[0].Elements))
	}
	if seq.Pages[0].Master != "default" {
		t.Errorf("page master = %q, want default", seq.Pages[0].Master)
	}
}

func TestMissingDefaultMaster(t *testing.T) {
	eng := newTestEngine()
	sheet := &style.Stylesheet{
		PageMasters: map[string]style.PageLayout{"a4": {Size: style.A4}},
	}
	_, err := eng.Layout(context.Background(), sheet, root(para("x")))
	if err == nil {
		t.Fatal("expected error for stylesheet without a default master")
	}
	if !strings.Contains(err.Error(), "No default page master") {
		t.Errorf("error = %v", err)
	}
}

func TestUnknownMaster(t *testing.T) {
	eng := newTestEngine()
	sheet := &style.Stylesheet{
		PageMasters:       map[string]style.PageLayout{"a4": {Size: style.A4}},
		DefaultPageMaster: "letter",
	}
	_, err := eng.Layout(context.Background(), sheet, root(para("x")))
	if err == nil || !strings.Contains(err.Error(), `"letter"`) {
		t.Fatalf("error = %v, want unknown master error naming letter", err)
	}
}

func TestPageBreakForcesBoundary(t *testing.T) {
	eng := newTestEngine()
	doc := root(para("before"), &ir.Node{Kind: ir.PageBreak}, para("after"))
	seq := layoutSeq(t, eng, testSheet(), doc)
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}
	if got := textContents(seq.Pages[0]); len(got) != 1 || got[0] != "before" {
		t.Errorf("page 1 = %v", got)
	}
	if got := textContents(seq.Pages[1]); len(got) != 1 || got[0] != "after" {
		t.Errorf("page 2 = %v", got)
	}
}

func TestPageBreakAtPageTopIsNoOp(t *testing.T) {
	eng := newTestEngine()
	doc := root(&ir.Node{Kind: ir.PageBreak}, para("first"))
	seq := layoutSeq(t, eng, testSheet(), doc)
	if len(seq.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(seq.Pages))
	}
}

func TestConsecutivePageBreaksCollapse(t *testing.T) {
	eng := newTestEngine()
	doc := root(
		para("a"),
		&ir.Node{Kind: ir.PageBreak},
		&ir.Node{Kind: ir.PageBreak},
		para("b"),
	)
	seq := layoutSeq(t, eng, testSheet(), doc)
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2 (second break lands on an empty page)", len(seq.Pages))
	}
}

func TestPageBreakSwitchesMaster(t *testing.T) {
	eng := newTestEngine()
	sheet := testSheet()
	sheet.PageMasters["wide"] = style.PageLayout{
		Size:    style.PageSize{W: 800, H: 400},
		Margins: &style.Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
	}
	doc := root(
		para("portrait"),
		&ir.Node{Kind: ir.PageBreak, MasterName: "wide"},
		para("landscape"),
	)
	seq := layoutSeq(t, eng, sheet, doc)
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}
	if seq.Pages[0].Master != "default" {
		t.Errorf("page 1 master = %q", seq.Pages[0].Master)
	}
	if seq.Pages[1].Master != "wide" {
		t.Errorf("page 2 master = %q, want wide", seq.Pages[1].Master)
	}
	if seq.Pages[1].Size.W != 800 || seq.Pages[1].Size.H != 400 {
		t.Errorf("page 2 size = %+v", seq.Pages[1].Size)
	}
	// Content on the switched page honors the new margins.
	el, ok := findText(seq.Pages[1], "landscape")
	if !ok {
		t.Fatal("landscape text missing on page 2")
	}
	if el.X != 20 || el.Y != 20 {
		t.Errorf("switched-master content at (%g, %g), want (20, 20)", el.X, el.Y)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	eng := newTestEngine()
	doc := root(
		multiLinePara("a", "b", "c"),
		multiLinePara("d", "e", "f"),
		multiLinePara("g", "h", "i"),
	)
	first := layoutSeq(t, eng, shortSheet(), doc)
	second := layoutSeq(t, eng, shortSheet(), doc)
	if len(first.Pages) != len(second.Pages) {
		t.Fatalf("page counts differ: %d vs %d", len(first.Pages), len(second.Pages))
	}
	for i := range first.Pages {
		a, b := first.Pages[i].Elements, second.Pages[i].Elements
		if len(a) != len(b) {
			t.Fatalf("page %d element counts differ: %d vs %d", i, len(a), len(b))
		}
		for j := range a {
			if a[j].X != b[j].X || a[j].Y != b[j].Y {
				t.Errorf("page %d element %d moved: (%g,%g) vs (%g,%g)",
					i, j, a[j].X, a[j].Y, b[j].X, b[j].Y)
			}
		}
	}
}

func TestAnchorsAndTOC(t *testing.T) {
	eng := newTestEngine()
	doc := root(
		&ir.Node{Kind: ir.Heading, Level: 1, Meta: ir.Meta{ID: "intro"}, Inlines: []*ir.Inline{ir.Text("Intro")}},
		para("body"),
		&ir.Node{Kind: ir.PageBreak},
		&ir.Node{Kind: ir.Heading, Level: 2, Inlines: []*ir.Inline{ir.Text("Details")}},
	)
	seq := layoutSeq(t, eng, testSheet(), doc)

	if len(seq.TOC) != 2 {
		t.Fatalf("got %d TOC entries, want 2", len(seq.TOC))
	}
	if seq.TOC[0].Level != 1 || seq.TOC[0].Text != "Intro" || seq.TOC[0].TargetID != "intro" {
		t.Errorf("TOC[0] = %+v", seq.TOC[0])
	}
	if seq.TOC[1].Level != 2 || seq.TOC[1].Text != "Details" {
		t.Errorf("TOC[1] = %+v", seq.TOC[1])
	}
	// The second heading has no author id; the builder assigns one and the
	// TOC points at it.
	if seq.TOC[1].TargetID == "" {
		t.Error("generated heading id missing from TOC")
	}

	pos, ok := seq.Anchors["intro"]
	if !ok {
		t.Fatal("anchor intro not registered")
	}
	if pos.Page != 0 {
		t.Errorf("intro anchor on page %d, want 0", pos.Page)
	}
	pos2, ok := seq.Anchors[seq.TOC[1].TargetID]
	if !ok {
		t.Fatalf("anchor %q not registered", seq.TOC[1].TargetID)
	}
	if pos2.Page != 1 {
		t.Errorf("second heading anchor on page %d, want 1", pos2.Page)
	}
}

func TestIndexEntriesKeepDocumentOrder(t *testing.T) {
	eng := newTestEngine()
	doc := root(
		&ir.Node{Kind: ir.IndexMarker, Term: "engine"},
		para("first mention"),
		&ir.Node{Kind: ir.PageBreak},
		&ir.Node{Kind: ir.IndexMarker, Term: "engine"},
		&ir.Node{Kind: ir.IndexMarker, Term: "cache"},
		para("second mention"),
	)
	seq := layoutSeq(t, eng, testSheet(), doc)

	engineHits := seq.Index["engine"]
	if len(engineHits) != 2 {
		t.Fatalf("engine has %d positions, want 2", len(engineHits))
	}
	if engineHits[0].Page != 0 || engineHits[1].Page != 1 {
		t.Errorf("engine pages = %d, %d; want 0, 1", engineHits[0].Page, engineHits[1].Page)
	}
	cacheHits := seq.Index["cache"]
	if len(cacheHits) != 1 || cacheHits[0].Page != 1 {
		t.Fatalf("cache positions = %+v", cacheHits)
	}
	// Markers themselves paint nothing.
	for _, p := range seq.Pages {
		for _, el := range p.Elements {
			if _, ok := el.Element.(*TextElement); !ok {
				t.Errorf("unexpected non-text element %T on page %d", el.Element, p.Index)
			}
		}
	}
}

func TestPaginatorScansLazily(t *testing.T) {
	eng := newTestEngine()
	store := NewStore()
	sheet := testSheet()
	doc := root(para("one"), &ir.Node{Kind: ir.PageBreak}, para("two"))

	node, err := eng.BuildTree(context.Background(), doc, sheet, store)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	p, err := eng.Paginate(context.Background(), sheet, node, store)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	var pages []*Page
	for p.Next() {
		pages = append(pages, p.Page())
	}
	if err := p.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("scanned %d pages, want 2", len(pages))
	}
	if pages[0].Index != 0 || pages[1].Index != 1 {
		t.Errorf("page indexes = %d, %d", pages[0].Index, pages[1].Index)
	}
	if p.Next() {
		t.Error("Next returned true after the sequence finished")
	}
}

func TestLayoutCancelledContext(t *testing.T) {
	eng := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Layout(ctx, testSheet(), root(para("x")))
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
