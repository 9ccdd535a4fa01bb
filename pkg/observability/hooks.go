// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks without depending on
// any observability backend. The defaults do nothing; a binary registers
// its own implementations once at startup:
//
//	func main() {
//	    observability.SetChartHooks(&myChartHooks{})
//	    observability.SetEphemerisHooks(&myEphemerisHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Chart().OnStageStart(ctx, "dasha")
//	// ... build the tree ...
//	observability.Chart().OnStageComplete(ctx, "dasha", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Chart Hooks
// =============================================================================

// ChartHooks receives events from chart and transit computation.
type ChartHooks interface {
	OnChartStart(ctx context.Context, instant time.Time)
	OnChartComplete(ctx context.Context, duration time.Duration, err error)

	// Stage events, one pair per computation stage ("positions", "dasha", ...)
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnWarning records a non-fatal chart condition by error code.
	OnWarning(ctx context.Context, code string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Ephemeris Hooks
// =============================================================================

// EphemerisHooks receives events from ephemeris providers.
type EphemerisHooks interface {
	// OnRequest records a provider call that was not served from memory.
	OnRequest(ctx context.Context, provider, body string, duration time.Duration, err error)

	// OnFallback records a degradation to the analytic model.
	OnFallback(ctx context.Context, body string, cause error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopChartHooks is a no-op implementation of ChartHooks.
type NoopChartHooks struct{}

func (NoopChartHooks) OnChartStart(context.Context, time.Time)                       {}
func (NoopChartHooks) OnChartComplete(context.Context, time.Duration, error)         {}
func (NoopChartHooks) OnStageStart(context.Context, string)                          {}
func (NoopChartHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopChartHooks) OnWarning(context.Context, string)                             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopEphemerisHooks is a no-op implementation of EphemerisHooks.
type NoopEphemerisHooks struct{}

func (NoopEphemerisHooks) OnRequest(context.Context, string, string, time.Duration, error) {}
func (NoopEphemerisHooks) OnFallback(context.Context, string, error)                       {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	chartHooks     ChartHooks     = NoopChartHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	ephemerisHooks EphemerisHooks = NoopEphemerisHooks{}
	hooksMu        sync.RWMutex
)

// SetChartHooks registers custom chart hooks.
func SetChartHooks(h ChartHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		chartHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetEphemerisHooks registers custom ephemeris hooks.
func SetEphemerisHooks(h EphemerisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ephemerisHooks = h
	}
}

// Chart returns the registered chart hooks.
func Chart() ChartHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return chartHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Ephemeris returns the registered ephemeris hooks.
func Ephemeris() EphemerisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ephemerisHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	chartHooks = NoopChartHooks{}
	cacheHooks = NoopCacheHooks{}
	ephemerisHooks = NoopEphemerisHooks{}
}
