package ephemeris

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/observability"
)

// Cached stores provider answers in a blob cache so that repeated charts for
// the same instant skip the provider entirely. Cache failures never fail a
// lookup; the provider is consulted instead.
type Cached struct {
	inner Provider
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCached wraps p with c. A nil keyer selects [cache.DefaultKeyer] and a
// zero ttl selects [cache.EphemerisTTL].
func NewCached(p Provider, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.EphemerisTTL
	}
	return &Cached{inner: p, cache: c, keyer: keyer, ttl: ttl}
}

// Name implements [Provider].
func (c *Cached) Name() string { return c.inner.Name() }

// Position implements [Provider].
func (c *Cached) Position(ctx context.Context, jd float64, body Body) (Position, error) {
	key := c.keyer.EphemerisKey(c.inner.Name(), jd, string(body))
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var p Position
		if json.Unmarshal(data, &p) == nil {
			observability.Cache().OnCacheHit(ctx, "ephemeris")
			return p, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "ephemeris")

	start := time.Now()
	p, err := c.inner.Position(ctx, jd, body)
	observability.Ephemeris().OnRequest(ctx, c.inner.Name(), string(body), time.Since(start), err)
	if err != nil {
		return Position{}, err
	}
	if data, err := json.Marshal(p); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "ephemeris", len(data))
		}
	}
	return p, nil
}

// SiderealTime implements [Provider].
func (c *Cached) SiderealTime(ctx context.Context, jd, longitude float64) (float64, error) {
	key := c.keyer.SiderealTimeKey(c.inner.Name(), jd, longitude)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		if st, err := strconv.ParseFloat(string(data), 64); err == nil {
			observability.Cache().OnCacheHit(ctx, "sidereal_time")
			return st, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "sidereal_time")

	st, err := c.inner.SiderealTime(ctx, jd, longitude)
	if err != nil {
		return 0, err
	}
	data := []byte(strconv.FormatFloat(st, 'g', -1, 64))
	if c.cache.Set(ctx, key, data, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, "sidereal_time", len(data))
	}
	return st, nil
}
