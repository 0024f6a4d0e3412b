package layout

import (
	"testing"

	"github.com/SigmundGranaas/petty-sub005/fonts"
)

func TestCacheHitAndMiss(t *testing.T) {
	c := NewCache(100)
	k := newTextKey("hello", defaultComputedStyle())

	if _, ok := c.run(k); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.putRun(k, fonts.ShapedRun{Width: 42})
	r, ok := c.run(k)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if r.Width != 42 {
		t.Errorf("cached run width = %g", r.Width)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheKeySeparatesStyles(t *testing.T) {
	c := NewCache(100)
	small := defaultComputedStyle()
	big := defaultComputedStyle()
	big.Text.FontSize = 24
	big = newComputedStyle(*big)

	c.putWidth(newTextKey("x", small), 6)
	if _, ok := c.width(newTextKey("x", big)); ok {
		t.Error("same text under a different style must miss")
	}
	if _, ok := c.width(newTextKey("y", small)); ok {
		t.Error("different text under the same style must miss")
	}
}

func TestFontKeyNormalizesFamilyCase(t *testing.T) {
	a := defaultComputedStyle()
	a.Text.FontFamily = "Helvetica"
	b := defaultComputedStyle()
	b.Text.FontFamily = "HELVETICA"
	if newFontKey(a) != newFontKey(b) {
		t.Error("font keys should be case-insensitive on family")
	}
}

func TestCacheClearsWholesaleAtCapacity(t *testing.T) {
	c := NewCache(3)
	cs := defaultComputedStyle()
	texts := []string{"a", "b", "c", "d"}
	for _, s := range texts {
		c.putWidth(newTextKey(s, cs), 1)
	}
	// The fourth insert crossed capacity: everything goes at once.
	if c.Len() != 0 {
		t.Errorf("Len = %d after capacity clear, want 0", c.Len())
	}
	if got := c.Stats().Evictions; got != 4 {
		t.Errorf("evictions = %d, want 4", got)
	}
}

func TestWorkerCacheResetsAtCapacity(t *testing.T) {
	w := newWorkerCache(2)
	cs := defaultComputedStyle()
	w.widths[newTextKey("a", cs)] = 1
	w.widths[newTextKey("b", cs)] = 2
	w.widths[newTextKey("c", cs)] = 3
	w.checkCapacity()
	if w.size() != 0 {
		t.Errorf("size = %d after capacity reset, want 0", w.size())
	}
}

func TestSecondPassHitsSharedCache(t *testing.T) {
	eng := newTestEngine()
	doc := root(para("repeated content"))

	layoutSeq(t, eng, testSheet(), doc)
	after := eng.CacheStats()
	if after.Misses == 0 {
		t.Fatal("first pass should record misses")
	}

	layoutSeq(t, eng, testSheet(), doc)
	second := eng.CacheStats()
	if second.Hits <= after.Hits {
		t.Errorf("second pass hits = %d, want more than %d", second.Hits, after.Hits)
	}
	if second.Misses != after.Misses {
		t.Errorf("second pass added misses: %d -> %d", after.Misses, second.Misses)
	}
}
