package layout

import (
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/SigmundGranaas/petty-sub005/fonts"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// fontKey identifies a resolved font by its lookup query.
type fontKey struct {
	family string
	weight style.FontWeight
	fstyle style.FontStyle
}

func newFontKey(cs *ComputedStyle) fontKey {
	return fontKey{
		family: strings.ToLower(cs.Text.FontFamily),
		weight: cs.Text.FontWeight,
		fstyle: cs.Text.FontStyle,
	}
}

// textKey identifies a shaped or measured piece of text by content hash
// plus style fingerprint.
type textKey struct {
	text  uint64
	style uint64
}

func newTextKey(text string, cs *ComputedStyle) textKey {
	return textKey{text: hashString(text), style: cs.Hash()}
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// CacheStats is a point-in-time snapshot of cache effectiveness counters.
// Hits and misses cover both layers; evictions count entries dropped by
// capacity clears.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is the shared, cross-pass cache for font lookups, shaped runs,
// shaped span groups and text measurements. All methods are safe for
// concurrent use; readers do not block each other. When the total entry
// count passes the configured capacity the cache is cleared wholesale
// rather than evicting per entry.
type Cache struct {
	mu       sync.RWMutex
	capacity int

	fonts  map[fontKey]*fonts.Font
	runs   map[textKey]fonts.ShapedRun
	spans  map[uint64][]fonts.ShapedRun
	widths map[textKey]float64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache returns a cache holding at most capacity entries across all
// four key spaces. A non-positive capacity falls back to the default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cache{capacity: capacity}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.fonts = make(map[fontKey]*fonts.Font)
	c.runs = make(map[textKey]fonts.ShapedRun)
	c.spans = make(map[uint64][]fonts.ShapedRun)
	c.widths = make(map[textKey]float64)
}

func (c *Cache) size() int {
	return len(c.fonts) + len(c.runs) + len(c.spans) + len(c.widths)
}

// checkCapacity clears everything once the entry count exceeds capacity.
// Callers must hold the write lock.
func (c *Cache) checkCapacity() {
	if n := c.size(); n > c.capacity {
		c.evictions.Add(uint64(n))
		c.reset()
	}
}

// Stats returns a snapshot of the hit/miss/eviction counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Len reports the current entry count across all key spaces.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size()
}

func (c *Cache) font(k fontKey) (*fonts.Font, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.fonts[k]
	return f, ok
}

func (c *Cache) putFont(k fontKey, f *fonts.Font) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fonts[k] = f
	c.checkCapacity()
}

func (c *Cache) run(k textKey) (fonts.ShapedRun, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.runs[k]
	return r, ok
}

func (c *Cache) putRun(k textKey, r fonts.ShapedRun) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs[k] = r
	c.checkCapacity()
}

func (c *Cache) spanGroup(k uint64) ([]fonts.ShapedRun, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.spans[k]
	return g, ok
}

func (c *Cache) putSpanGroup(k uint64, g []fonts.ShapedRun) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans[k] = g
	c.checkCapacity()
}

func (c *Cache) width(k textKey) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.widths[k]
	return w, ok
}

func (c *Cache) putWidth(k textKey, w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.widths[k] = w
	c.checkCapacity()
}

// workerCache is the lock-free per-pass overlay consulted before the
// shared cache. Workers borrow one from the engine pool for the duration
// of a pass, so no two passes touch the same instance concurrently.
type workerCache struct {
	capacity int

	fonts  map[fontKey]*fonts.Font
	runs   map[textKey]fonts.ShapedRun
	spans  map[uint64][]fonts.ShapedRun
	widths map[textKey]float64
}

func newWorkerCache(capacity int) *workerCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	w := &workerCache{capacity: capacity}
	w.reset()
	return w
}

func (w *workerCache) reset() {
	w.fonts = make(map[fontKey]*fonts.Font)
	w.runs = make(map[textKey]fonts.ShapedRun)
	w.spans = make(map[uint64][]fonts.ShapedRun)
	w.widths = make(map[textKey]float64)
}

func (w *workerCache) size() int {
	return len(w.fonts) + len(w.runs) + len(w.spans) + len(w.widths)
}

func (w *workerCache) checkCapacity() {
	if w.size() > w.capacity {
		w.reset()
	}
}
