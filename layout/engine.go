// Package layout turns structural document trees into pages of positioned
// elements. An Engine builds an immutable layout-node tree from an ir
// document, then paginates it: each page hands the root node a content box,
// the node places what fits and reports how far it got, and the driver
// resumes it on the next page until the tree is exhausted. Fonts, shaping,
// image resources, logging and tracing are pluggable collaborators; shaping
// results are cached across passes.
package layout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SigmundGranaas/petty-sub005/fonts"
	"github.com/SigmundGranaas/petty-sub005/ir"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/resources"
	"github.com/SigmundGranaas/petty-sub005/style"
)

// Engine owns the collaborators and caches shared by all layout passes. It
// is safe for concurrent use; each pass keeps its own store, environment
// and worker cache.
type Engine struct {
	cfg Config

	logger    observability.Logger
	tracer    observability.Tracer
	fonts     fonts.Resolver
	shaper    fonts.Shaper
	resources resources.Provider

	cache   *Cache
	workers sync.Pool
}

// NewEngine creates a layout engine with optional configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:    observability.NopLogger{},
		tracer:    observability.NopTracer(),
		fonts:     fonts.NewLibrary(),
		shaper:    fonts.NewShaper(),
		resources: resources.Map(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg = e.cfg.withDefaults()
	e.cache = NewCache(e.cfg.CacheCapacity)
	e.workers = sync.Pool{New: func() any { return newWorkerCache(e.cfg.CacheCapacity) }}
	return e
}

// RegisterFont parses raw TrueType/OpenType data and registers it with the
// engine's font library. It fails when WithFonts installed a resolver that
// is not a *fonts.Library.
func (e *Engine) RegisterFont(data []byte) (*fonts.Font, error) {
	lib, ok := e.fonts.(*fonts.Library)
	if !ok {
		return nil, fmt.Errorf("font resolver %T does not accept registrations", e.fonts)
	}
	return lib.Register(data)
}

// CacheStats returns a snapshot of the shared cache counters.
func (e *Engine) CacheStats() CacheStats {
	return e.cache.Stats()
}

// newEnv assembles the environment for one pass, borrowing a worker cache
// from the pool. releaseEnv must be called when the pass is over.
func (e *Engine) newEnv(sheet *style.Stylesheet, store *Store) *Env {
	worker := e.workers.Get().(*workerCache)
	return &Env{
		eng:    e,
		store:  store,
		sheet:  sheet,
		text:   newTextService(e, worker),
		images: make(map[string]imageProbe),
	}
}

// releaseEnv returns the pass's worker cache to the pool. Safe to call
// more than once.
func (e *Engine) releaseEnv(env *Env) {
	if env == nil || env.text == nil {
		return
	}
	e.workers.Put(env.text.worker)
	env.text = nil
}

// BuildTree converts a structural document into its layout-node tree.
// Styles resolve against sheet and canonicalize into store; the same store
// must be handed to Paginate. A nil sheet uses style.DefaultStylesheet, a
// nil store gets a fresh arena.
func (e *Engine) BuildTree(ctx context.Context, doc *ir.Node, sheet *style.Stylesheet, store *Store) (Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("build layout tree: document is nil")
	}
	if sheet == nil {
		sheet = style.DefaultStylesheet()
	}
	if store == nil {
		store = NewStore()
	}

	_, span := e.tracer.StartSpan(ctx, "layout.build")
	defer span.Finish()
	start := time.Now()

	env := e.newEnv(sheet, store)
	defer e.releaseEnv(env)

	root, err := buildNode(env, doc, store.Canonicalize(defaultComputedStyle()))
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("build layout tree: %w", err)
	}

	span.SetTag(observability.MetricBuildTime, time.Since(start))
	e.logger.Debug("layout tree built",
		observability.Duration(observability.MetricBuildTime, time.Since(start)),
		observability.Int("styles", store.StyleCount()))
	return root, nil
}

// Paginate starts a pagination pass over the built root node, returning a
// scanner-style Paginator that yields pages lazily. The stylesheet must
// name a default page master.
func (e *Engine) Paginate(ctx context.Context, sheet *style.Stylesheet, root Node, store *Store) (*Paginator, error) {
	if root == nil {
		return nil, fmt.Errorf("paginate: root node is nil")
	}
	if sheet == nil {
		sheet = style.DefaultStylesheet()
	}
	if store == nil {
		store = NewStore()
	}
	if sheet.DefaultPageMaster == "" {
		return nil, fmt.Errorf("No default page master defined")
	}
	if _, ok := sheet.PageMasters[sheet.DefaultPageMaster]; !ok {
		return nil, fmt.Errorf("Page master %q not found in stylesheet", sheet.DefaultPageMaster)
	}

	return &Paginator{
		ctx:    ctx,
		env:    e.newEnv(sheet, store),
		sheet:  sheet,
		root:   root,
		out:    newSink(),
		master: sheet.DefaultPageMaster,
	}, nil
}

// Layout lays out a whole document: it builds the tree, drains a paginator
// and assembles the final sequence with its referenced resources.
func (e *Engine) Layout(ctx context.Context, sheet *style.Stylesheet, doc *ir.Node) (*LaidOutSequence, error) {
	store := NewStore()
	root, err := e.BuildTree(ctx, doc, sheet, store)
	if err != nil {
		return nil, err
	}

	p, err := e.Paginate(ctx, sheet, root, store)
	if err != nil {
		return nil, err
	}

	var pages []Page
	for p.Next() {
		pages = append(pages, *p.Page())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	stats := e.cache.Stats()
	e.logger.Debug("document laid out",
		observability.Int(observability.MetricPageCount, len(pages)),
		observability.Int64(observability.MetricCacheHits, int64(stats.Hits)),
		observability.Int64(observability.MetricCacheMisses, int64(stats.Misses)))

	return &LaidOutSequence{
		Pages:     pages,
		Resources: e.collectResources(p.resourceNames()),
		Anchors:   p.Anchors(),
		TOC:       p.TOC(),
		Index:     p.Index(),
	}, nil
}

// collectResources fetches the bytes of every referenced image. A resource
// the provider cannot serve is logged and omitted rather than failing the
// finished layout.
func (e *Engine) collectResources(names map[string]struct{}) map[string][]byte {
	out := make(map[string][]byte, len(names))
	for name := range names {
		data, err := e.resources.Get(name)
		if err != nil {
			e.logger.Warn("resource unavailable, omitted from output",
				observability.String("src", name),
				observability.Error("error", err))
			continue
		}
		out[name] = data
	}
	return out
}
