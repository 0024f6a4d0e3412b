package layout

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/resources"
	"github.com/SigmundGranaas/petty-sub005/style"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func imageNode(src string, override *style.ElementStyle) *ir.Node {
	return &ir.Node{Kind: ir.Image, Src: src, Meta: ir.Meta{StyleOverride: override}}
}

func TestImageExplicitSize(t *testing.T) {
	eng := newTestEngine()
	seq := layoutSeq(t, eng, testSheet(), root(imageNode("pic", &style.ElementStyle{
		Width:  dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 120}),
		Height: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 60}),
	})))

	page := seq.Pages[0]
	if len(page.Elements) != 1 {
		t.Fatalf("got %d elements, want 1", len(page.Elements))
	}
	el := page.Elements[0]
	img, ok := el.Element.(*ImageElement)
	if !ok {
		t.Fatalf("element is %T, want *ImageElement", el.Element)
	}
	if img.Src != "pic" {
		t.Errorf("src = %q", img.Src)
	}
	if el.X != 10 || el.Y != 10 || el.W != 120 || el.H != 60 {
		t.Errorf("placed at (%g, %g) %gx%g, want (10, 10) 120x60", el.X, el.Y, el.W, el.H)
	}
}

func TestImageIntrinsicSizeKeepsAspect(t *testing.T) {
	eng := newTestEngine(WithResources(resources.Map{
		"photo.png": pngBytes(t, 40, 20),
	}))

	// Width fixed at 200pt; the 2:1 source sets the height to 100pt.
	seq := layoutSeq(t, eng, testSheet(), root(imageNode("photo.png", &style.ElementStyle{
		Width: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 200}),
	})))
	el := seq.Pages[0].Elements[0]
	if el.W != 200 || el.H != 100 {
		t.Errorf("size = %gx%g, want 200x100", el.W, el.H)
	}

	// With no explicit dimensions the pixel size is used directly.
	seq = layoutSeq(t, eng, testSheet(), root(imageNode("photo.png", nil)))
	el = seq.Pages[0].Elements[0]
	if el.W != 40 || el.H != 20 {
		t.Errorf("intrinsic size = %gx%g, want 40x20", el.W, el.H)
	}
}

func TestImageFallbackSize(t *testing.T) {
	eng := newTestEngine()
	// No provider entry and no style size: the fixed fallback applies.
	seq := layoutSeq(t, eng, testSheet(), root(imageNode("missing", nil)))
	el := seq.Pages[0].Elements[0]
	if el.W != 100 || el.H != 100 {
		t.Errorf("fallback size = %gx%g, want 100x100", el.W, el.H)
	}
}

func TestImageMovesToNextPageWhole(t *testing.T) {
	eng := newTestEngine()
	doc := root(
		multiLinePara("a1", "a2", "a3", "a4"),
		imageNode("pic", &style.ElementStyle{
			Width:  dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 50}),
			Height: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 50}),
		}),
	)
	seq := layoutSeq(t, eng, shortSheet(), doc)
	if len(seq.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(seq.Pages))
	}
	var img *PositionedElement
	for i := range seq.Pages[1].Elements {
		if _, ok := seq.Pages[1].Elements[i].Element.(*ImageElement); ok {
			img = &seq.Pages[1].Elements[i]
		}
	}
	if img == nil {
		t.Fatal("image missing from page 2")
	}
	if img.Y != 10 {
		t.Errorf("image y = %g, want 10", img.Y)
	}
}

func TestImageTallerThanPage(t *testing.T) {
	eng := newTestEngine()
	doc := root(imageNode("pic", &style.ElementStyle{
		Width:  dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 50}),
		Height: dimPtr(style.Dimension{Kind: style.DimensionPt, Value: 600}),
	}))
	_, err := eng.Layout(context.Background(), testSheet(), doc)
	var tooLarge *ElementTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("err = %v, want ElementTooLargeError", err)
	}
	if tooLarge.Required != 600 || tooLarge.Available != 480 {
		t.Errorf("required %g available %g, want 600 and 480", tooLarge.Required, tooLarge.Available)
	}
}

func TestImageResourceCollected(t *testing.T) {
	data := pngBytes(t, 8, 8)
	eng := newTestEngine(WithResources(resources.Map{"logo.png": data}))
	seq := layoutSeq(t, eng, testSheet(), root(imageNode("logo.png", nil)))
	got, ok := seq.Resources["logo.png"]
	if !ok {
		t.Fatal("resource bytes not collected")
	}
	if !bytes.Equal(got, data) {
		t.Error("resource bytes differ from provider data")
	}
}
