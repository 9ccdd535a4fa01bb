package ephemeris

import (
	"context"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/observability"
)

// Fallback answers from a primary provider and degrades to a secondary one
// when the primary reports missing data. Transport failures and timeouts
// are returned as-is: they are not a lack of data and must surface.
type Fallback struct {
	primary   Provider
	secondary Provider
}

// NewFallback wraps primary with secondary as the degraded source.
func NewFallback(primary, secondary Provider) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Name implements [Provider].
func (f *Fallback) Name() string { return f.primary.Name() + "+" + f.secondary.Name() }

// Position implements [Provider].
func (f *Fallback) Position(ctx context.Context, jd float64, body Body) (Position, error) {
	p, err := f.primary.Position(ctx, jd, body)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, errors.ErrCodeMissingEphemerisData) {
		return Position{}, err
	}
	observability.Ephemeris().OnFallback(ctx, string(body), err)
	return f.secondary.Position(ctx, jd, body)
}

// SiderealTime implements [Provider].
func (f *Fallback) SiderealTime(ctx context.Context, jd, longitude float64) (float64, error) {
	st, err := f.primary.SiderealTime(ctx, jd, longitude)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, errors.ErrCodeMissingEphemerisData) {
		return 0, err
	}
	observability.Ephemeris().OnFallback(ctx, "sidereal_time", err)
	return f.secondary.SiderealTime(ctx, jd, longitude)
}
