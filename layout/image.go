package layout

import (
	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/resources"
)

// ImageNode places an image as an atomic block. It never splits: when the
// remaining page space is too short the whole image moves to the next
// page, and an image taller than the page content box fails the pass.
type ImageNode struct {
	id    string
	src   string
	style *ComputedStyle
}

func (n *ImageNode) Style() *ComputedStyle { return n.style }

func (n *ImageNode) Measure(env *Env, c geo.Constraints) (geo.Size, error) {
	size := resolveImageSize(env, n.src, n.style)
	return geo.Size{
		W: c.ConstrainWidth(size.W + n.style.PaddingX() + n.style.BorderX()),
		H: c.ConstrainHeight(size.H + n.style.PaddingY() + n.style.BorderY()),
	}, nil
}

func (n *ImageNode) Layout(ctx *Context, c geo.Constraints, resume *NodeState) (*NodeState, error) {
	if resume != nil {
		if err := resume.expect(SectionAtomic); err != nil {
			return nil, err
		}
	}
	// Re-registered on every attempt so a retry on the next page wins.
	if n.id != "" {
		ctx.RegisterAnchor(n.id)
	}

	size, err := n.Measure(ctx.env, c)
	if err != nil {
		return nil, err
	}

	if size.H > ctx.Bounds().H {
		return nil, &ElementTooLargeError{Required: size.H, Available: ctx.Bounds().H}
	}

	if ctx.PrepareForBlock(n.style.Box.Margin.Top) {
		return atomicState(), nil
	}
	if size.H > ctx.AvailableHeight() && !ctx.IsEmpty() {
		return atomicState(), nil
	}

	startY := ctx.CursorY()
	contentHeight := size.H - n.style.PaddingY() - n.style.BorderY()

	for _, el := range createBackgroundAndBorders(ctx.Bounds(), n.style, startY, contentHeight, true, true) {
		ctx.PushElementAt(el, 0, 0)
	}

	ctx.UseResource(n.src)
	ctx.PushElementAt(PositionedElement{
		X:       n.style.BorderLeftWidth() + n.style.Box.Padding.Left,
		Y:       startY + n.style.BorderTopWidth() + n.style.Box.Padding.Top,
		W:       size.W - n.style.PaddingX() - n.style.BorderX(),
		H:       contentHeight,
		Element: &ImageElement{Src: n.src},
		Style:   n.style,
	}, 0, 0)

	ctx.Advance(size.H)
	ctx.FinishBlock(n.style.Box.Margin.Bottom)
	return nil, nil
}

// fallbackImageSide is used when neither the style nor the resource
// provides a dimension.
const fallbackImageSide = 100.0

// resolveImageSize determines an image's display size. Explicit point
// dimensions win; missing sides come from the decoded resource, keeping
// the aspect ratio when only one side is set. Without either, a fixed
// square keeps the document rendering.
func resolveImageSize(env *Env, src string, cs *ComputedStyle) geo.Size {
	w, hasW := explicitPt(cs.Box.Width)
	h, hasH := explicitPt(cs.Box.Height)
	if hasW && hasH {
		return geo.Size{W: w, H: h}
	}

	iw, ih, err := env.intrinsicImageSize(src)
	if err != nil {
		if !hasW {
			w = fallbackImageSide
		}
		if !hasH {
			h = fallbackImageSide
		}
		return geo.Size{W: w, H: h}
	}

	switch {
	case hasW:
		if iw > 0 {
			return geo.Size{W: w, H: w * ih / iw}
		}
		return geo.Size{W: w, H: w}
	case hasH:
		if ih > 0 {
			return geo.Size{W: h * iw / ih, H: h}
		}
		return geo.Size{W: h, H: h}
	default:
		return geo.Size{W: iw, H: ih}
	}
}

type imageProbe struct {
	w, h float64
	err  error
}

// intrinsicImageSize decodes the resource header for its pixel size,
// memoized per pass. A failed probe logs once and keeps failing fast.
func (e *Env) intrinsicImageSize(src string) (float64, float64, error) {
	if p, ok := e.images[src]; ok {
		return p.w, p.h, p.err
	}
	var p imageProbe
	data, err := e.eng.resources.Get(src)
	if err != nil {
		p.err = err
	} else {
		p.w, p.h, p.err = resources.ImageSize(data)
	}
	if p.err != nil {
		e.Logger().Warn("image size unavailable, using style or fallback size",
			observability.String("src", src),
			observability.Error("error", p.err))
	}
	if e.images == nil {
		e.images = make(map[string]imageProbe)
	}
	e.images[src] = p
	return p.w, p.h, p.err
}
