package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

func cell(texts ...string) *ir.Cell {
	c := &ir.Cell{}
	for _, text := range texts {
		c.Children = append(c.Children, para(text))
	}
	return c
}

func bodyRow(cells ...*ir.Cell) *ir.Row {
	return &ir.Row{Cells: cells}
}

// buildTableNode runs the tree builder on one table and returns the
// layout node together with the pass environment.
func buildTableNode(t *testing.T, eng *Engine, table *ir.Node) (*TableNode, *Env) {
	t.Helper()
	store := NewStore()
	env := eng.newEnv(testSheet(), store)
	t.Cleanup(func() { eng.releaseEnv(env) })
	built, err := buildNode(env, table, store.Canonicalize(defaultComputedStyle()))
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	node, ok := built.(*TableNode)
	if !ok {
		t.Fatalf("built %T, want *TableNode", built)
	}
	return node, env
}

func TestResolveColumnWidthsMixed(t *testing.T) {
	eng := newTestEngine()
	table := &ir.Node{
		Kind: ir.Table,
		Columns: []ir.ColumnDef{
			{Width: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 200})},
			{Width: dimPtr(style.Dimension{Kind: style.DimensionPercent, Value: 30})},
			{},
			{},
		},
		Body: []*ir.Row{bodyRow(cell(""), cell(""), cell(""), cell(""))},
	}
	node, env := buildTableNode(t, eng, table)

	widths, err := node.resolveColumnWidths(env, 1000)
	if err != nil {
		t.Fatalf("resolveColumnWidths: %v", err)
	}
	want := []float64{200, 300, 250, 250}
	for i := range want {
		if widths[i] != want[i] {
			t.Errorf("column %d = %g, want %g", i, widths[i], want[i])
		}
	}
}

func TestResolveColumnWidthsProportionalContent(t *testing.T) {
	eng := newTestEngine()
	table := &ir.Node{
		Kind:    ir.Table,
		Columns: []ir.ColumnDef{{}, {}},
		Body:    []*ir.Row{bodyRow(cell("aaaa"), cell("aa"))},
	}
	node, env := buildTableNode(t, eng, table)

	// Preferred widths are 24 and 12; the 84pt surplus splits 2:1.
	widths, err := node.resolveColumnWidths(env, 120)
	if err != nil {
		t.Fatalf("resolveColumnWidths: %v", err)
	}
	if widths[0] != 80 || widths[1] != 40 {
		t.Errorf("widths = %v, want [80 40]", widths)
	}
}

func TestResolveColumnWidthsOverflowShrinks(t *testing.T) {
	eng := newTestEngine()
	table := &ir.Node{
		Kind:    ir.Table,
		Columns: []ir.ColumnDef{{}, {}},
		Body:    []*ir.Row{bodyRow(cell("aaaa"), cell("aa"))},
	}
	node, env := buildTableNode(t, eng, table)

	// 18pt for 36pt of preferred content scales both columns by half.
	widths, err := node.resolveColumnWidths(env, 18)
	if err != nil {
		t.Fatalf("resolveColumnWidths: %v", err)
	}
	if widths[0] != 12 || widths[1] != 6 {
		t.Errorf("widths = %v, want [12 6]", widths)
	}
}

func TestTableDerivesColumnsFromWidestRow(t *testing.T) {
	eng := newTestEngine()
	table := &ir.Node{
		Kind: ir.Table,
		Body: []*ir.Row{
			bodyRow(cell("a"), cell("b")),
			bodyRow(cell("c"), cell("d"), cell("e")),
		},
	}
	node, _ := buildTableNode(t, eng, table)
	if len(node.columns) != 3 {
		t.Fatalf("derived %d columns, want 3", len(node.columns))
	}
}

func TestTableHeaderRepeatsOnEveryFragment(t *testing.T) {
	eng := newTestEngine()
	table := &ir.Node{
		Kind:   ir.Table,
		Header: []*ir.Row{bodyRow(cell("H"))},
		Body: []*ir.Row{
			bodyRow(cell("r1")), bodyRow(cell("r2")), bodyRow(cell("r3")),
			bodyRow(cell("r4")), bodyRow(cell("r5")), bodyRow(cell("r6")),
		},
	}
	seq := layoutSeq(t, eng, shortSheet(), root(table))
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}

	got1 := textContents(seq.Pages[0])
	if len(got1) != 5 || got1[0] != "H" || got1[4] != "r4" {
		t.Errorf("page 1 = %v, want header plus r1..r4", got1)
	}
	got2 := textContents(seq.Pages[1])
	if len(got2) != 3 || got2[0] != "H" || got2[1] != "r5" || got2[2] != "r6" {
		t.Errorf("page 2 = %v, want repeated header plus r5, r6", got2)
	}
	h2, _ := findText(seq.Pages[1], "H")
	if h2.Y != 10 {
		t.Errorf("repeated header y = %g, want 10", h2.Y)
	}
}

func TestTableRowsNeverSplit(t *testing.T) {
	eng := newTestEngine()
	twoLine := func() *ir.Cell {
		c := &ir.Cell{}
		c.Children = append(c.Children, multiLinePara("x", "y"))
		return c
	}
	table := &ir.Node{
		Kind: ir.Table,
		Body: []*ir.Row{
			bodyRow(twoLine()), bodyRow(twoLine()), bodyRow(twoLine()),
		},
	}
	seq := layoutSeq(t, eng, shortSheet(), root(table))
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}
	// Two whole rows fit on page one; the third moves whole.
	if got := len(textContents(seq.Pages[0])); got != 4 {
		t.Errorf("page 1 has %d lines, want 4", got)
	}
	if got := len(textContents(seq.Pages[1])); got != 2 {
		t.Errorf("page 2 has %d lines, want 2", got)
	}
}

func TestTableRowTallerThanPage(t *testing.T) {
	eng := newTestEngine()
	huge := &ir.Cell{}
	huge.Children = append(huge.Children, multiLinePara("1", "2", "3", "4", "5", "6"))
	table := &ir.Node{Kind: ir.Table, Body: []*ir.Row{bodyRow(huge)}}

	_, err := eng.Layout(context.Background(), shortSheet(), root(table))
	var tooLarge *ElementTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("err = %v, want ElementTooLargeError", err)
	}
	if tooLarge.Required <= tooLarge.Available {
		t.Errorf("required %g should exceed available %g", tooLarge.Required, tooLarge.Available)
	}
}

func TestTableColSpan(t *testing.T) {
	eng := newTestEngine()
	spanning := cell("wide")
	spanning.ColSpan = 2
	table := &ir.Node{
		Kind:    ir.Table,
		Columns: []ir.ColumnDef{{}, {}},
		Body: []*ir.Row{
			bodyRow(spanning),
			bodyRow(cell("a"), cell("b")),
		},
	}
	seq := layoutSeq(t, eng, testSheet(), root(table))

	a, _ := findText(seq.Pages[0], "a")
	b, ok := findText(seq.Pages[0], "b")
	if !ok {
		t.Fatal("second column cell missing")
	}
	if a.X != 10 {
		t.Errorf("a x = %g, want 10", a.X)
	}
	// Empty auto columns split 480pt evenly.
	if b.X != 250 {
		t.Errorf("b x = %g, want 250", b.X)
	}
	wide, _ := findText(seq.Pages[0], "wide")
	if wide.X != 10 {
		t.Errorf("spanning cell x = %g, want 10", wide.X)
	}
}

func TestTableRowSpanShiftsLaterRows(t *testing.T) {
	eng := newTestEngine()
	tall := cell("tall")
	tall.RowSpan = 2
	table := &ir.Node{
		Kind:    ir.Table,
		Columns: []ir.ColumnDef{{}, {}},
		Body: []*ir.Row{
			bodyRow(tall, cell("b1")),
			bodyRow(cell("b2")),
		},
	}
	seq := layoutSeq(t, eng, testSheet(), root(table))

	b1, _ := findText(seq.Pages[0], "b1")
	b2, ok := findText(seq.Pages[0], "b2")
	if !ok {
		t.Fatal("second row cell missing")
	}
	// The spanning cell occupies column one of both rows, so b2 lands in
	// column two.
	if b2.X != b1.X {
		t.Errorf("b2 x = %g, want %g (same column as b1)", b2.X, b1.X)
	}
	if b2.Y <= b1.Y {
		t.Errorf("b2 y = %g, want below b1 at %g", b2.Y, b1.Y)
	}
}
