package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/jyotish/pkg/buildinfo"
	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/observability"
	"github.com/matzehuels/jyotish/pkg/varga"
)

// Runner computes charts with caching. It holds no chart state: multiple
// goroutines can safely use the same Runner with different options, and
// concurrent requests for the same chart share one computation.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Provider ephemeris.Provider
	ChartTTL time.Duration // Bundle cache lifetime (default cache.ChartTTL)

	flight singleflight.Group
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If provider is nil, the analytic model is used. A non-analytic provider
// is wrapped so that missing data falls back to the analytic model, and
// every provider is wrapped with the blob cache.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, provider ephemeris.Provider) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if provider == nil {
		provider = ephemeris.NewAnalytic()
	}
	if _, ok := provider.(*ephemeris.Analytic); !ok {
		provider = ephemeris.NewFallback(provider, ephemeris.NewAnalytic())
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Provider: ephemeris.NewCached(provider, c, keyer, cache.EphemerisTTL),
	}
}

// ComputeChart computes the natal bundle for b. Finished bundles are served
// from the cache unless opts.Refresh is set or opts carries custom rules
// that the cache key cannot describe.
func (r *Runner) ComputeChart(ctx context.Context, b BirthParams, opts Options) (*Bundle, error) {
	bundle, _, err := r.ComputeChartWithStats(ctx, b, opts)
	return bundle, err
}

// ComputeChartWithStats is ComputeChart reporting how the call was served.
func (r *Runner) ComputeChartWithStats(ctx context.Context, b BirthParams, opts Options) (*Bundle, Stats, error) {
	start := time.Now()
	if err := b.Validate(); err != nil {
		return nil, Stats{}, err
	}
	b.Instant = b.Instant.UTC()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, err
	}

	key := r.Keyer.ChartKey(opts.ChartKeyOpts(b, r.Provider.Name(), buildinfo.CacheVersion()))
	cacheable := opts.WarRule == nil && opts.Participants == nil && opts.Registry == varga.Default()

	if cacheable && !opts.Refresh {
		if bundle, ok := r.loadBundle(ctx, key); ok {
			r.Logger.Debug("bundle cache hit", "key", key)
			return bundle, Stats{CacheHit: true, Duration: time.Since(start), Precision: bundle.Precision}, nil
		}
	}

	if !cacheable {
		// Custom rules are not part of the key, so the call cannot be shared.
		bundle, stats, err := r.compute(ctx, b, opts)
		if err != nil {
			return nil, Stats{}, err
		}
		stats.Duration = time.Since(start)
		return bundle, stats, nil
	}

	type result struct {
		bundle *Bundle
		stats  Stats
	}
	// The shared computation outlives any single caller's cancellation;
	// ephemeris calls stay bounded by the per-call deadline.
	detached := context.WithoutCancel(ctx)
	ch := r.flight.DoChan(key, func() (any, error) {
		bundle, stats, err := r.compute(detached, b, opts)
		if err != nil {
			return nil, err
		}
		r.storeBundle(detached, key, bundle)
		return result{bundle, stats}, nil
	})
	select {
	case <-ctx.Done():
		return nil, Stats{}, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "chart computation abandoned")
	case res := <-ch:
		if res.Err != nil {
			return nil, Stats{}, res.Err
		}
		if res.Shared {
			r.Logger.Debug("shared in-flight chart computation", "key", key)
		}
		out := res.Val.(result)
		out.stats.Duration = time.Since(start)
		return out.bundle, out.stats, nil
	}
}

func (r *Runner) loadBundle(ctx context.Context, key string) (*Bundle, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "chart")
		return nil, false
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		r.Logger.Warn("discarding unreadable cached bundle", "key", key, "err", err)
		return nil, false
	}
	if bundle.Vimshottari != nil {
		if err := bundle.Vimshottari.Validate(); err != nil {
			r.Logger.Warn("discarding inconsistent cached bundle", "key", key, "err", err)
			return nil, false
		}
	}
	observability.Cache().OnCacheHit(ctx, "chart")
	return &bundle, true
}

func (r *Runner) storeBundle(ctx context.Context, key string, bundle *Bundle) {
	data, err := json.Marshal(bundle)
	if err != nil {
		r.Logger.Warn("bundle not cached", "err", err)
		return
	}
	ttl := r.ChartTTL
	if ttl <= 0 {
		ttl = cache.ChartTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("bundle not cached", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "chart", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Provider deadline
// =============================================================================

// deadline bounds every call of the wrapped provider.
type deadline struct {
	ephemeris.Provider
	timeout time.Duration
}

func (p deadline) Position(ctx context.Context, jd float64, body ephemeris.Body) (ephemeris.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	pos, err := p.Provider.Position(ctx, jd, body)
	return pos, p.classify(ctx, err, string(body))
}

func (p deadline) SiderealTime(ctx context.Context, jd, longitude float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	st, err := p.Provider.SiderealTime(ctx, jd, longitude)
	return st, p.classify(ctx, err, "sidereal time")
}

func (p deadline) classify(ctx context.Context, err error, what string) error {
	if err == nil || errors.Is(err, errors.ErrCodeTimeout) {
		return err
	}
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Wrap(errors.ErrCodeTimeout, err, "ephemeris did not answer %s within %s", what, p.timeout)
	}
	return err
}
