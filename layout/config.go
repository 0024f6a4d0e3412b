package layout

import (
	"github.com/SigmundGranaas/petty-sub005/fonts"
	"github.com/SigmundGranaas/petty-sub005/observability"
	"github.com/SigmundGranaas/petty-sub005/resources"
)

// DefaultCacheCapacity is the entry limit of the shared and per-worker
// caches when no capacity is configured.
const DefaultCacheCapacity = 10000

// Config holds the engine's tunable settings.
type Config struct {
	// CacheCapacity is the maximum entry count of the shared shaping
	// cache and of each worker cache. Zero or negative selects
	// DefaultCacheCapacity.
	CacheCapacity int
}

func (c Config) withDefaults() Config {
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = DefaultCacheCapacity
	}
	return c
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer. The default discards everything.
func WithTracer(tr observability.Tracer) Option {
	return func(e *Engine) {
		if tr != nil {
			e.tracer = tr
		}
	}
}

// WithCacheCapacity sets the entry limit of the shaping caches.
func WithCacheCapacity(n int) Option {
	return func(e *Engine) {
		e.cfg.CacheCapacity = n
	}
}

// WithShaper sets the text shaper. The default shapes with HarfBuzz.
func WithShaper(s fonts.Shaper) Option {
	return func(e *Engine) {
		if s != nil {
			e.shaper = s
		}
	}
}

// WithFonts sets the font resolver. The default is a fresh empty
// library; fonts registered through RegisterFont land there.
func WithFonts(r fonts.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.fonts = r
		}
	}
}

// WithResources sets the image resource provider. The default provider
// holds nothing, so images fall back to their styled or default size.
func WithResources(p resources.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.resources = p
		}
	}
}
