// Package sidereal converts raw tropical ephemeris answers into sidereal
// chart positions: longitude, sign, nakshatra and pada, retrograde and
// combustion flags, and the ascendant.
//
// Resolution happens in two steps. [Fetch] performs the only I/O in the
// chart pipeline: it asks the provider for every body and the local
// sidereal time concurrently. [Resolve] is a pure function of the fetched
// [Raw] data and the chart inputs, so it can be tested without a provider.
package sidereal

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
)

// NodeMode selects how Rahu is computed.
type NodeMode string

const (
	MeanNode NodeMode = "mean"
	TrueNode NodeMode = "true"
)

// DefaultPolarThreshold is the absolute latitude from which the ascendant
// is flagged as degraded. Beyond roughly 66.5° parts of the ecliptic never
// rise, and the ascendant jumps discontinuously.
const DefaultPolarThreshold = 66.0

// Combustion orbs in degrees from the Sun. Mercury and Venus use tighter
// orbs while retrograde.
var (
	combustOrbs = map[astro.Graha]float64{
		astro.Moon: 12, astro.Mars: 17, astro.Mercury: 14,
		astro.Jupiter: 11, astro.Venus: 10, astro.Saturn: 15,
	}
	combustRetroOrbs = map[astro.Graha]float64{
		astro.Mercury: 12, astro.Venus: 8,
	}
)

// bodyFor maps a graha onto the provider body that answers for it. Ketu is
// derived from Rahu and has no body of its own.
func bodyFor(g astro.Graha, mode NodeMode) ephemeris.Body {
	switch g {
	case astro.Sun:
		return ephemeris.Sun
	case astro.Moon:
		return ephemeris.Moon
	case astro.Mars:
		return ephemeris.Mars
	case astro.Mercury:
		return ephemeris.Mercury
	case astro.Jupiter:
		return ephemeris.Jupiter
	case astro.Venus:
		return ephemeris.Venus
	case astro.Saturn:
		return ephemeris.Saturn
	case astro.Rahu:
		if mode == TrueNode {
			return ephemeris.TrueNode
		}
		return ephemeris.MeanNode
	}
	return ""
}

// Raw is the provider output for one instant and place.
type Raw struct {
	JulianDay    float64
	Tropical     [astro.NumGrahas]ephemeris.Position // Ketu is filled by Resolve
	SiderealTime float64                             // Local sidereal time in hours
}

// Fetch queries p for the eight resolvable bodies and local sidereal time
// in parallel. The first error cancels the remaining requests.
func Fetch(ctx context.Context, p ephemeris.Provider, instant time.Time, longitude float64, mode NodeMode) (*Raw, error) {
	raw := &Raw{JulianDay: astro.JulianDay(instant)}
	g, gctx := errgroup.WithContext(ctx)

	for _, graha := range astro.Grahas() {
		if graha == astro.Ketu {
			continue
		}
		g.Go(func() error {
			pos, err := p.Position(gctx, raw.JulianDay, bodyFor(graha, mode))
			if err != nil {
				return err
			}
			raw.Tropical[graha] = pos
			return nil
		})
	}
	g.Go(func() error {
		st, err := p.SiderealTime(gctx, raw.JulianDay, longitude)
		if err != nil {
			return err
		}
		raw.SiderealTime = st
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "ephemeris fetch failed")
		}
		return nil, err
	}
	return raw, nil
}

// Input carries the chart-wide values Resolve needs beside the raw data.
type Input struct {
	Ayanamsha      float64
	Latitude       float64
	PolarThreshold float64 // Zero selects DefaultPolarThreshold
}

// Result is the sidereal natal frame. Positions carry everything except
// house and dignity, which belong to their own packages.
type Result struct {
	JulianDay    float64                          `json:"julian_day"`
	SiderealTime float64                          `json:"sidereal_time"`
	Obliquity    float64                          `json:"obliquity"`
	Ayanamsha    float64                          `json:"ayanamsha"`
	Ascendant    astro.Ascendant                  `json:"ascendant"`
	Positions    [astro.NumGrahas]astro.Position `json:"positions"`
	Precision    ephemeris.Precision              `json:"precision"`
	Degraded     bool                             `json:"degraded_ascendant"`
}

// Resolve converts raw tropical data into sidereal positions.
// When the latitude is past the polar threshold the result is still
// complete, and the returned warning carries
// [errors.ErrCodeDegradedAscendant].
func Resolve(raw *Raw, in Input) (*Result, *errors.Error) {
	threshold := in.PolarThreshold
	if threshold == 0 {
		threshold = DefaultPolarThreshold
	}

	res := &Result{
		JulianDay:    raw.JulianDay,
		SiderealTime: raw.SiderealTime,
		Obliquity:    MeanObliquity(raw.JulianDay),
		Ayanamsha:    in.Ayanamsha,
	}

	for _, g := range astro.Grahas() {
		if g == astro.Ketu {
			continue
		}
		t := raw.Tropical[g]
		res.Positions[g] = astro.NewPosition(g, t.Longitude-in.Ayanamsha, t.Speed)
		res.Precision = ephemeris.Lower(res.Precision, t.Precision)
	}
	rahu := res.Positions[astro.Rahu]
	res.Positions[astro.Ketu] = astro.NewPosition(astro.Ketu, rahu.Longitude+180, rahu.Speed)

	sun := res.Positions[astro.Sun].Longitude
	for g := range res.Positions {
		res.Positions[g].Combust = IsCombust(res.Positions[g], sun)
	}

	tropicalAsc := AscendantLongitude(raw.SiderealTime*15, res.Obliquity, in.Latitude)
	res.Ascendant = astro.NewAscendant(tropicalAsc - in.Ayanamsha)

	var warning *errors.Error
	if math.Abs(in.Latitude) >= threshold {
		res.Degraded = true
		warning = errors.New(errors.ErrCodeDegradedAscendant,
			"latitude %.2f° is beyond ±%.1f°; ascendant accuracy is reduced", in.Latitude, threshold)
	}
	return res, warning
}

// IsCombust reports whether p lies within its combustion orb of the Sun.
// The Sun and the nodes are never combust.
func IsCombust(p astro.Position, sunLongitude float64) bool {
	orb, ok := combustOrbs[p.Graha]
	if !ok {
		return false
	}
	if r, ok := combustRetroOrbs[p.Graha]; ok && p.Retrograde {
		orb = r
	}
	return astro.Separation(p.Longitude, sunLongitude) <= orb
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees.
func MeanObliquity(jd float64) float64 {
	t := astro.CenturiesSinceJ2000(jd)
	return 23.439291 - 0.0130042*t - 1.64e-7*t*t + 5.04e-7*t*t*t
}

// AscendantLongitude returns the tropical ecliptic longitude rising on the
// eastern horizon for a right ascension of the meridian ramc (degrees),
// obliquity eps and geographic latitude lat.
func AscendantLongitude(ramc, eps, lat float64) float64 {
	r := ramc * math.Pi / 180
	e := eps * math.Pi / 180
	phi := lat * math.Pi / 180
	y := math.Cos(r)
	x := -(math.Sin(r)*math.Cos(e) + math.Tan(phi)*math.Sin(e))
	return astro.Normalize(math.Atan2(y, x) * 180 / math.Pi)
}
