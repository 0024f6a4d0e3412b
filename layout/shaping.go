package layout

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/SigmundGranaas/petty-sub005/fonts"
	"github.com/SigmundGranaas/petty-sub005/geo"
)

// inlineObject is an image embedded in paragraph text. Its size is fixed
// at build time so wrapping can treat it as one wide glyph.
type inlineObject struct {
	Src  string
	Size geo.Size
}

// flatSpan is one stretch of paragraph content sharing a single style and
// link target, produced by inline flattening and consumed by shaping.
type flatSpan struct {
	Text      string
	Style     *ComputedStyle
	LinkIndex int
	Image     *inlineObject
	PageRef   string
}

// shapedRun is one shaped span decorated with everything line building
// needs. Glyph clusters are rune offsets into Text.
type shapedRun struct {
	Glyphs     []fonts.ShapedGlyph
	Text       string
	Style      *ComputedStyle
	LinkIndex  int
	Width      float64
	Ascent     float64
	LineHeight float64
	Image      *inlineObject
	PageRef    string
}

// IsObject reports whether the run stands in for an inline image rather
// than shaped glyphs.
func (r *shapedRun) IsObject() bool { return r.Image != nil }

// textService answers every font and shaping question during a pass,
// consulting the worker cache, then the shared cache, then computing. It
// is pass-private and not safe for concurrent use.
type textService struct {
	eng    *Engine
	worker *workerCache
}

func newTextService(eng *Engine, worker *workerCache) *textService {
	return &textService{eng: eng, worker: worker}
}

// font resolves the style's font query through both cache layers.
func (t *textService) font(cs *ComputedStyle) (*fonts.Font, error) {
	key := newFontKey(cs)
	if f, ok := t.worker.fonts[key]; ok {
		t.eng.cache.hits.Add(1)
		return f, nil
	}
	if f, ok := t.eng.cache.font(key); ok {
		t.eng.cache.hits.Add(1)
		t.worker.fonts[key] = f
		t.worker.checkCapacity()
		return f, nil
	}
	t.eng.cache.misses.Add(1)
	f, err := t.eng.fonts.Resolve(cs.Text.FontFamily, cs.Text.FontWeight, cs.Text.FontStyle)
	if err != nil {
		return nil, fmt.Errorf("resolve font for %q: %w", cs.Text.FontFamily, err)
	}
	t.worker.fonts[key] = f
	t.worker.checkCapacity()
	t.eng.cache.putFont(key, f)
	return f, nil
}

// shapeText shapes one run of text in the given style.
func (t *textService) shapeText(text string, cs *ComputedStyle) (fonts.ShapedRun, error) {
	key := newTextKey(text, cs)
	if r, ok := t.worker.runs[key]; ok {
		t.eng.cache.hits.Add(1)
		return r, nil
	}
	if r, ok := t.eng.cache.run(key); ok {
		t.eng.cache.hits.Add(1)
		t.worker.runs[key] = r
		t.worker.checkCapacity()
		return r, nil
	}
	t.eng.cache.misses.Add(1)
	font, err := t.font(cs)
	if err != nil {
		return fonts.ShapedRun{}, err
	}
	r, err := t.eng.shaper.ShapeSpan(text, font, cs.Text.FontSize)
	if err != nil {
		return fonts.ShapedRun{}, fmt.Errorf("shape span: %w", err)
	}
	t.worker.runs[key] = r
	t.worker.checkCapacity()
	t.eng.cache.putRun(key, r)
	return r, nil
}

// measureText returns the advance width of text in the given style.
func (t *textService) measureText(text string, cs *ComputedStyle) (float64, error) {
	key := newTextKey(text, cs)
	if w, ok := t.worker.widths[key]; ok {
		t.eng.cache.hits.Add(1)
		return w, nil
	}
	if w, ok := t.eng.cache.width(key); ok {
		t.eng.cache.hits.Add(1)
		t.worker.widths[key] = w
		t.worker.checkCapacity()
		return w, nil
	}
	t.eng.cache.misses.Add(1)
	r, err := t.shapeText(text, cs)
	if err != nil {
		return 0, err
	}
	t.worker.widths[key] = r.Width
	t.worker.checkCapacity()
	t.eng.cache.putWidth(key, r.Width)
	return r.Width, nil
}

// shapeSpans shapes a whole paragraph's span list, producing one decorated
// run per span in order. The raw glyph data is cached per span list;
// object spans contribute empty glyph runs and get their geometry from
// their fixed object size instead.
func (t *textService) shapeSpans(spans []flatSpan) ([]shapedRun, error) {
	raw, err := t.shapeGroup(spans)
	if err != nil {
		return nil, err
	}

	out := make([]shapedRun, len(spans))
	for i, sp := range spans {
		run := shapedRun{
			Text:      sp.Text,
			Style:     sp.Style,
			LinkIndex: sp.LinkIndex,
			PageRef:   sp.PageRef,
		}
		if sp.Image != nil {
			run.Image = sp.Image
			run.Width = sp.Image.Size.W
			run.Ascent = sp.Image.Size.H
			run.LineHeight = sp.Image.Size.H
		} else {
			run.Glyphs = raw[i].Glyphs
			run.Width = raw[i].Width
			run.Ascent = raw[i].Ascent
			run.LineHeight = sp.Style.Text.LineHeight
		}
		out[i] = run
	}
	return out, nil
}

// shapeGroup returns the raw shaped runs for a span list, from cache when
// the same (text, style) sequence was shaped before.
func (t *textService) shapeGroup(spans []flatSpan) ([]fonts.ShapedRun, error) {
	key := spanGroupKey(spans)
	if g, ok := t.worker.spans[key]; ok {
		t.eng.cache.hits.Add(1)
		return g, nil
	}
	if g, ok := t.eng.cache.spanGroup(key); ok {
		t.eng.cache.hits.Add(1)
		t.worker.spans[key] = g
		t.worker.checkCapacity()
		return g, nil
	}
	t.eng.cache.misses.Add(1)

	group := make([]fonts.ShapedRun, len(spans))
	for i, sp := range spans {
		if sp.Image != nil {
			continue
		}
		r, err := t.shapeText(sp.Text, sp.Style)
		if err != nil {
			return nil, err
		}
		group[i] = r
	}
	t.worker.spans[key] = group
	t.worker.checkCapacity()
	t.eng.cache.putSpanGroup(key, group)
	return group, nil
}

func spanGroupKey(spans []flatSpan) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for _, sp := range spans {
		put(hashString(sp.Text))
		put(sp.Style.Hash())
		if sp.Image != nil {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}
