package layout

import (
	"testing"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/style"
)

func flexNode(override *style.ElementStyle, children ...*ir.Node) *ir.Node {
	return &ir.Node{
		Kind:     ir.FlexContainer,
		Meta:     ir.Meta{StyleOverride: override},
		Children: children,
	}
}

func flexChild(text string, override *style.ElementStyle) *ir.Node {
	return &ir.Node{
		Kind:     ir.Block,
		Meta:     ir.Meta{StyleOverride: override},
		Children: []*ir.Node{para(text)},
	}
}

func TestFlexRowPlacesItemsSideBySide(t *testing.T) {
	eng := newTestEngine()
	doc := root(flexNode(nil, para("left"), para("right")))
	seq := layoutSeq(t, eng, testSheet(), doc)

	left, ok := findText(seq.Pages[0], "left")
	if !ok {
		t.Fatal("left item missing")
	}
	right, ok := findText(seq.Pages[0], "right")
	if !ok {
		t.Fatal("right item missing")
	}
	if left.Y != right.Y {
		t.Errorf("items not on one row: y %g vs %g", left.Y, right.Y)
	}
	if left.X != 10 {
		t.Errorf("left x = %g, want 10", left.X)
	}
	// "left" shapes to 4 glyphs at 6pt each.
	if right.X != 34 {
		t.Errorf("right x = %g, want 34", right.X)
	}
}

func TestFlexGrowDistributesFreeSpace(t *testing.T) {
	eng := newTestEngine()
	itemStyle := &style.ElementStyle{
		FlexBasis: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 100}),
		FlexGrow:  floatPtr(1),
	}
	doc := root(flexNode(nil,
		flexChild("a", itemStyle),
		flexChild("b", itemStyle),
	))
	seq := layoutSeq(t, eng, testSheet(), doc)

	a, _ := findText(seq.Pages[0], "a")
	b, ok := findText(seq.Pages[0], "b")
	if !ok {
		t.Fatal("second item missing")
	}
	// The 280pt of free space splits evenly: each item grows to 240pt.
	if a.X != 10 {
		t.Errorf("a x = %g, want 10", a.X)
	}
	if b.X != 250 {
		t.Errorf("b x = %g, want 250", b.X)
	}
}

func TestFlexShrinkScalesWithBasis(t *testing.T) {
	eng := newTestEngine()
	// Bases 400 + 200 overflow the 480pt row by 120. Shrink share is
	// proportional to basis: 80 off the first item, 40 off the second.
	doc := root(flexNode(nil,
		flexChild("a", &style.ElementStyle{
			FlexBasis: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 400}),
		}),
		flexChild("b", &style.ElementStyle{
			FlexBasis: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 200}),
		}),
	))
	seq := layoutSeq(t, eng, testSheet(), doc)

	b, ok := findText(seq.Pages[0], "b")
	if !ok {
		t.Fatal("second item missing")
	}
	if b.X != 330 {
		t.Errorf("b x = %g, want 330 (first item shrunk to 320)", b.X)
	}
}

func TestFlexWrapFormsSecondLine(t *testing.T) {
	eng := newTestEngine()
	wide := &style.ElementStyle{
		FlexBasis: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 200}),
	}
	wrap := style.Wrap
	doc := root(flexNode(&style.ElementStyle{FlexWrap: &wrap},
		flexChild("one", wide),
		flexChild("two", wide),
		flexChild("three", wide),
	))
	seq := layoutSeq(t, eng, testSheet(), doc)

	one, _ := findText(seq.Pages[0], "one")
	three, ok := findText(seq.Pages[0], "three")
	if !ok {
		t.Fatal("third item missing")
	}
	if three.X != 10 {
		t.Errorf("wrapped item x = %g, want 10", three.X)
	}
	if three.Y != one.Y+14.4 {
		t.Errorf("wrapped item y = %g, want %g", three.Y, one.Y+14.4)
	}
}

func TestFlexSpaceBetween(t *testing.T) {
	eng := newTestEngine()
	basis := &style.ElementStyle{
		FlexBasis: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 100}),
	}
	justify := style.JustifySpaceBetween
	doc := root(flexNode(&style.ElementStyle{JustifyContent: &justify},
		flexChild("a", basis),
		flexChild("b", basis),
	))
	seq := layoutSeq(t, eng, testSheet(), doc)

	a, _ := findText(seq.Pages[0], "a")
	b, ok := findText(seq.Pages[0], "b")
	if !ok {
		t.Fatal("second item missing")
	}
	if a.X != 10 {
		t.Errorf("a x = %g, want 10", a.X)
	}
	if b.X != 390 {
		t.Errorf("b x = %g, want 390", b.X)
	}
}

func TestFlexLineMovesToNextPageWhole(t *testing.T) {
	eng := newTestEngine()

	// After a four-line paragraph, only one line of the two-line flex
	// items remains. The flex line is atomic, so it moves whole.
	doc := root(
		multiLinePara("p1", "p2", "p3", "p4"),
		flexNode(nil,
			multiLinePara("f1a", "f1b"),
			multiLinePara("f2a", "f2b"),
		),
	)
	seq := layoutSeq(t, eng, shortSheet(), doc)
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}
	if got := len(textContents(seq.Pages[0])); got != 4 {
		t.Errorf("page 1 has %d lines, want 4", got)
	}
	f1a, ok := findText(seq.Pages[1], "f1a")
	if !ok {
		t.Fatal("flex content missing on page 2")
	}
	if f1a.Y != 10 {
		t.Errorf("flex line y = %g, want 10", f1a.Y)
	}
	if _, ok := findText(seq.Pages[1], "f2b"); !ok {
		t.Error("second flex item missing on page 2")
	}
}

func TestFlexColumnStacksItems(t *testing.T) {
	eng := newTestEngine()
	col := style.FlexColumn
	doc := root(flexNode(&style.ElementStyle{FlexDirection: &col},
		para("top"),
		para("bottom"),
	))
	seq := layoutSeq(t, eng, testSheet(), doc)

	top, _ := findText(seq.Pages[0], "top")
	bottom, ok := findText(seq.Pages[0], "bottom")
	if !ok {
		t.Fatal("second item missing")
	}
	if top.X != bottom.X {
		t.Errorf("column items not aligned: x %g vs %g", top.X, bottom.X)
	}
	if bottom.Y <= top.Y {
		t.Errorf("column items not stacked: y %g vs %g", top.Y, bottom.Y)
	}
}
