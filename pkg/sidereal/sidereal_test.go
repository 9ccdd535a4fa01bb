package sidereal

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
)

func rawFixture(lons map[astro.Graha]float64) *Raw {
	raw := &Raw{JulianDay: 2451545, SiderealTime: 0}
	for g, lon := range lons {
		raw.Tropical[g] = ephemeris.Position{Longitude: lon, Speed: 1, Precision: ephemeris.PrecisionDetailed}
	}
	return raw
}

func TestResolveSiderealLongitude(t *testing.T) {
	raw := rawFixture(map[astro.Graha]float64{astro.Sun: 10, astro.Moon: 100, astro.Rahu: 5})
	res, _ := Resolve(raw, Input{Ayanamsha: 23.85})

	tests := []struct {
		g    astro.Graha
		want float64
		sign astro.Sign
	}{
		{astro.Sun, 346.15, astro.Pisces},
		{astro.Moon, 76.15, astro.Gemini},
		{astro.Rahu, 341.15, astro.Pisces},
		{astro.Ketu, 161.15, astro.Virgo},
	}
	for _, tt := range tests {
		p := res.Positions[tt.g]
		if math.Abs(p.Longitude-tt.want) > 1e-9 || p.Sign != tt.sign {
			t.Errorf("%v = %.4f %v, want %.4f %v", tt.g, p.Longitude, p.Sign, tt.want, tt.sign)
		}
	}
}

func TestRahuKetuOpposite(t *testing.T) {
	a := ephemeris.NewAnalytic()
	for _, mode := range []NodeMode{MeanNode, TrueNode} {
		for y := 1850; y < 2350; y += 37 {
			instant := time.Date(y, time.Month(1+y%12), 1+y%28, y%24, 0, 0, 0, time.UTC)
			raw, err := Fetch(context.Background(), a, instant, 77.2, mode)
			if err != nil {
				t.Fatalf("Fetch(%v) error: %v", instant, err)
			}
			res, _ := Resolve(raw, Input{Ayanamsha: 23.5, Latitude: 28.6})
			rahu, ketu := res.Positions[astro.Rahu], res.Positions[astro.Ketu]
			if d := astro.Separation(rahu.Longitude, ketu.Longitude); math.Abs(d-180) > 1e-9 {
				t.Errorf("%s node at %v: Rahu %.6f, Ketu %.6f differ by %.9f", mode, instant, rahu.Longitude, ketu.Longitude, d)
			}
			if ketu.Speed != rahu.Speed {
				t.Errorf("Ketu speed %v != Rahu speed %v", ketu.Speed, rahu.Speed)
			}
		}
	}
}

func TestNodeModeSelectsBody(t *testing.T) {
	if got := bodyFor(astro.Rahu, MeanNode); got != ephemeris.MeanNode {
		t.Errorf("bodyFor(Rahu, mean) = %s", got)
	}
	if got := bodyFor(astro.Rahu, TrueNode); got != ephemeris.TrueNode {
		t.Errorf("bodyFor(Rahu, true) = %s", got)
	}
	if got := bodyFor(astro.Ketu, MeanNode); got != "" {
		t.Errorf("bodyFor(Ketu) = %s, want empty", got)
	}
}

func TestIsCombust(t *testing.T) {
	tests := []struct {
		name  string
		graha astro.Graha
		lon   float64
		speed float64
		want  bool
	}{
		{"moon inside orb", astro.Moon, 111, 13, true},
		{"moon outside orb", astro.Moon, 113, 13, false},
		{"mercury direct at 13", astro.Mercury, 113, 1.2, true},
		{"mercury retrograde at 13", astro.Mercury, 113, -0.5, false},
		{"venus retrograde at 7.5", astro.Venus, 92.5, -0.3, true},
		{"saturn across 0 aries", astro.Saturn, 355, 0.03, true},
		{"sun never", astro.Sun, 100, 1, false},
		{"rahu never", astro.Rahu, 100, -0.05, false},
		{"ketu never", astro.Ketu, 100, -0.05, false},
	}
	sun := 100.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sun
			if tt.graha == astro.Saturn {
				s = 8 // straddles 0° Aries
			}
			p := astro.NewPosition(tt.graha, tt.lon, tt.speed)
			if got := IsCombust(p, s); got != tt.want {
				t.Errorf("IsCombust(%v at %.1f, sun %.1f) = %v, want %v", tt.graha, tt.lon, s, got, tt.want)
			}
		})
	}
}

func TestRetrogradeFlag(t *testing.T) {
	raw := rawFixture(map[astro.Graha]float64{astro.Sun: 0, astro.Mars: 200, astro.Rahu: 50})
	raw.Tropical[astro.Mars].Speed = -0.2
	raw.Tropical[astro.Rahu].Speed = -0.053
	res, _ := Resolve(raw, Input{})

	if !res.Positions[astro.Mars].Retrograde {
		t.Error("Mars with negative speed should be retrograde")
	}
	if !res.Positions[astro.Rahu].Retrograde || !res.Positions[astro.Ketu].Retrograde {
		t.Error("mean nodes should be retrograde")
	}
	if res.Positions[astro.Sun].Retrograde {
		t.Error("Sun should not be retrograde")
	}
}

func TestAscendantLongitude(t *testing.T) {
	tests := []struct {
		name           string
		ramc, eps, lat float64
		want           float64
	}{
		{"equator ramc 0", 0, 23.44, 0, 90},
		{"equator ramc 90", 90, 23.44, 0, 180},
		{"equator ramc 270", 270, 23.44, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AscendantLongitude(tt.ramc, tt.eps, tt.lat)
			if astro.Separation(got, tt.want) > 1e-6 {
				t.Errorf("AscendantLongitude(%v, %v, %v) = %.6f, want %.6f", tt.ramc, tt.eps, tt.lat, got, tt.want)
			}
		})
	}

	// The ascendant always lies in the eastern half: 90° ahead of the MC on the ecliptic, within
	// the swing latitude allows.
	for lat := -60.0; lat <= 60; lat += 15 {
		for ramc := 0.0; ramc < 360; ramc += 30 {
			asc := AscendantLongitude(ramc, 23.44, lat)
			mc := midheaven(ramc, 23.44)
			if d := astro.Normalize(asc - mc); d <= 0 || d >= 180 {
				t.Errorf("lat %.0f ramc %.0f: ascendant %.2f not ahead of MC %.2f", lat, ramc, asc, mc)
			}
		}
	}
}

func midheaven(ramc, eps float64) float64 {
	r := ramc * math.Pi / 180
	e := eps * math.Pi / 180
	return astro.Normalize(math.Atan2(math.Sin(r), math.Cos(r)*math.Cos(e)) * 180 / math.Pi)
}

func TestPolarLatitudeDegraded(t *testing.T) {
	raw := rawFixture(map[astro.Graha]float64{})

	tests := []struct {
		lat       float64
		threshold float64
		want      bool
	}{
		{28.6, 0, false},
		{65.9, 0, false},
		{66.0, 0, true},
		{-78.2, 0, true},
		{60, 55, true},
	}
	for _, tt := range tests {
		res, warn := Resolve(raw, Input{Latitude: tt.lat, PolarThreshold: tt.threshold})
		if res.Degraded != tt.want || (warn != nil) != tt.want {
			t.Errorf("Resolve(lat %.1f, threshold %.1f) degraded = %v, warning = %v; want %v", tt.lat, tt.threshold, res.Degraded, warn, tt.want)
		}
		if warn != nil && warn.Code != errors.ErrCodeDegradedAscendant {
			t.Errorf("warning code = %s", warn.Code)
		}
	}
}

func TestResolvePrecision(t *testing.T) {
	raw := rawFixture(map[astro.Graha]float64{astro.Sun: 1})
	raw.Tropical[astro.Moon].Precision = ephemeris.PrecisionAnalytic
	res, _ := Resolve(raw, Input{})
	if res.Precision != ephemeris.PrecisionAnalytic {
		t.Errorf("Precision = %s, want analytic when any body fell back", res.Precision)
	}
}

type failingProvider struct{ *ephemeris.Analytic }

func (f failingProvider) Position(ctx context.Context, jd float64, body ephemeris.Body) (ephemeris.Position, error) {
	if body == ephemeris.Saturn {
		return ephemeris.Position{}, errors.New(errors.ErrCodeTimeout, "saturn timed out")
	}
	return f.Analytic.Position(ctx, jd, body)
}

func TestFetchPropagatesErrors(t *testing.T) {
	_, err := Fetch(context.Background(), failingProvider{ephemeris.NewAnalytic()}, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 0, MeanNode)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Fetch error = %v, want %s", err, errors.ErrCodeTimeout)
	}
}
