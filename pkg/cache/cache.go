// Package cache provides byte-level caching with pluggable backends.
//
// jyotish caches two kinds of data: raw ephemeris answers, which are the
// only I/O-bound input of a chart, and finished chart bundles keyed by their
// birth parameters and options. Both are stored as opaque bytes behind the
// [Cache] interface.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, sharded by key hash.
//     The CLI default.
//   - [RedisCache]: a shared Redis instance, for several processes computing
//     against the same ephemeris.
//   - [NullCache]: stores nothing. Used with --no-cache and in tests.
//
// # Keys
//
// A [Keyer] derives keys so that every input affecting a result is part of
// its key. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default TTLs. Ephemeris answers never change for a given provider and
// instant, so they are kept for a long time; bundles embed code versions
// and are refreshed more often.
const (
	EphemerisTTL = 30 * 24 * time.Hour
	ChartTTL     = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by string key.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
