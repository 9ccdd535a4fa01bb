package astro

import (
	"math"
	"testing"
)

func TestSignOf(t *testing.T) {
	tests := []struct {
		lon  float64
		want Sign
	}{
		{0, Aries},
		{29.9999, Aries},
		{30, Taurus},
		{125.5, Leo},
		{359.99, Pisces},
		{360, Aries},
		{-0.5, Pisces},
		{725, Aries},
	}

	for _, tt := range tests {
		if got := SignOf(tt.lon); got != tt.want {
			t.Errorf("SignOf(%v) = %v, want %v", tt.lon, got, tt.want)
		}
	}
}

func TestSignAddAndHouseFrom(t *testing.T) {
	tests := []struct {
		s    Sign
		n    int
		want Sign
	}{
		{Aries, 0, Aries},
		{Aries, 6, Libra},
		{Pisces, 1, Aries},
		{Aries, -1, Pisces},
		{Cancer, 24, Cancer},
	}
	for _, tt := range tests {
		if got := tt.s.Add(tt.n); got != tt.want {
			t.Errorf("%v.Add(%d) = %v, want %v", tt.s, tt.n, got, tt.want)
		}
	}

	if got := Leo.HouseFrom(Aries); got != 5 {
		t.Errorf("Leo.HouseFrom(Aries) = %d, want 5", got)
	}
	if got := Aries.HouseFrom(Pisces); got != 2 {
		t.Errorf("Aries.HouseFrom(Pisces) = %d, want 2", got)
	}
	for s := Aries; s <= Pisces; s++ {
		if got := s.HouseFrom(s); got != 1 {
			t.Errorf("%v.HouseFrom(itself) = %d, want 1", s, got)
		}
	}
}

func TestSignAttributes(t *testing.T) {
	tests := []struct {
		s       Sign
		element Element
		quality Quality
		lord    Graha
		odd     bool
	}{
		{Aries, Fire, Movable, Mars, true},
		{Taurus, Earth, Fixed, Venus, false},
		{Gemini, Air, Dual, Mercury, true},
		{Cancer, Water, Movable, Moon, false},
		{Leo, Fire, Fixed, Sun, true},
		{Capricorn, Earth, Movable, Saturn, false},
		{Pisces, Water, Dual, Jupiter, false},
	}
	for _, tt := range tests {
		if tt.s.Element() != tt.element || tt.s.Quality() != tt.quality || tt.s.Lord() != tt.lord || tt.s.IsOdd() != tt.odd {
			t.Errorf("%v attributes = (%v,%v,%v,%v), want (%v,%v,%v,%v)", tt.s,
				tt.s.Element(), tt.s.Quality(), tt.s.Lord(), tt.s.IsOdd(),
				tt.element, tt.quality, tt.lord, tt.odd)
		}
	}
}

func TestNakshatraOf(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		nak  Nakshatra
		pada int
		lord Graha
	}{
		{"start of zodiac", 0, 1, 1, Ketu},
		{"ashwini pada 2", 3.5, 1, 2, Ketu},
		{"rohini", 46.0, 4, 2, Moon},
		{"shatabhisha", 312.0, 24, 2, Rahu},
		{"end of revati", 359.999, 27, 4, Mercury},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, pada, into := NakshatraOf(tt.lon)
			if n != tt.nak || pada != tt.pada {
				t.Errorf("NakshatraOf(%v) = (%v, %d), want (%v, %d)", tt.lon, n, pada, tt.nak, tt.pada)
			}
			if n.Lord() != tt.lord {
				t.Errorf("%v.Lord() = %v, want %v", n, n.Lord(), tt.lord)
			}
			if into < 0 || into >= NakshatraSpan {
				t.Errorf("offset %v outside [0, %v)", into, NakshatraSpan)
			}
		})
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 20, 10},
		{359.5, 0.3, 0.8},
		{0, 180, 180},
		{350, 10, 20},
	}
	for _, tt := range tests {
		if got := Separation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Separation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFormatDMS(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "0°00'"},
		{12.5, "12°30'"},
		{29.999, "29°59'"},
		{-3.25, "-3°15'"},
	}
	for _, tt := range tests {
		if got := FormatDMS(tt.deg); got != tt.want {
			t.Errorf("FormatDMS(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestRelationships(t *testing.T) {
	tests := []struct {
		a, b Graha
		want Relationship
	}{
		{Sun, Moon, Friend},
		{Sun, Saturn, Enemy},
		{Sun, Mercury, Neutral},
		{Moon, Saturn, Neutral},
		{Saturn, Sun, Enemy},
		{Venus, Saturn, Friend},
	}
	for _, tt := range tests {
		if got := tt.a.RelationTo(tt.b); got != tt.want {
			t.Errorf("%v.RelationTo(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDebilitationOppositeExaltation(t *testing.T) {
	for _, g := range Grahas() {
		ex, exDeg := g.Exaltation()
		deb, debDeg := g.Debilitation()
		if deb.HouseFrom(ex) != 7 || exDeg != debDeg {
			t.Errorf("%v: exaltation %v %.0f, debilitation %v %.0f not opposite", g, ex, exDeg, deb, debDeg)
		}
	}
}

func TestNewPosition(t *testing.T) {
	p := NewPosition(Mars, -10, -0.2)
	if p.Sign != Pisces || math.Abs(p.Degree-20) > 1e-9 || !p.Retrograde {
		t.Errorf("NewPosition(Mars, -10, -0.2) = %+v", p)
	}
}
