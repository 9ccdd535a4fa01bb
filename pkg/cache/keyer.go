package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys for each cached artifact.
type Keyer interface {
	// EphemerisKey identifies one raw provider answer.
	EphemerisKey(provider string, jd float64, body string) string
	// SiderealTimeKey identifies one local sidereal time answer.
	SiderealTimeKey(provider string, jd, longitude float64) string
	// ChartKey identifies a computed bundle by a digest of its inputs.
	ChartKey(inputs ChartKeyOpts) string
}

// ChartKeyOpts lists every input that changes a computed bundle.
type ChartKeyOpts struct {
	Instant   string  `json:"instant"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Ayanamsha string  `json:"ayanamsha"`
	NodeMode  string  `json:"node_mode"`
	Divisions []int   `json:"divisions"`
	Horizon   int     `json:"horizon"`
	Provider  string  `json:"provider"`
	Version   string  `json:"version"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// EphemerisKey has the form "ephemeris:<provider>:<body>:<jd>". The Julian
// day is printed at 1e-9 day (~0.1 ms) resolution.
func (DefaultKeyer) EphemerisKey(provider string, jd float64, body string) string {
	return fmt.Sprintf("ephemeris:%s:%s:%.9f", provider, body, jd)
}

// SiderealTimeKey has the form "lst:<provider>:<jd>:<lon>".
func (DefaultKeyer) SiderealTimeKey(provider string, jd, longitude float64) string {
	return fmt.Sprintf("lst:%s:%.9f:%.6f", provider, jd, longitude)
}

// ChartKey has the form "chart:<sha256>" over the JSON encoding of inputs.
// Struct fields encode in declaration order, so equal inputs give equal keys.
func (DefaultKeyer) ChartKey(inputs ChartKeyOpts) string {
	data, _ := json.Marshal(inputs) // plain fields only; cannot fail
	return "chart:" + Hash(data)
}

// ScopedKeyer wraps a Keyer with a prefix so that several configurations
// can share one backend without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer selects [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) EphemerisKey(provider string, jd float64, body string) string {
	return k.prefix + k.inner.EphemerisKey(provider, jd, body)
}

func (k *ScopedKeyer) SiderealTimeKey(provider string, jd, longitude float64) string {
	return k.prefix + k.inner.SiderealTimeKey(provider, jd, longitude)
}

func (k *ScopedKeyer) ChartKey(inputs ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(inputs)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
