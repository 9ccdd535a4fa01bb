package dignity

import (
	"math"
	"testing"

	"github.com/matzehuels/jyotish/pkg/astro"
)

func warChart(lons map[astro.Graha]float64) *astro.Variant {
	v := &astro.Variant{}
	spread := 0.0
	for _, g := range astro.Grahas() {
		l, ok := lons[g]
		if !ok {
			l = 100 + spread
			spread += 25
		}
		v.Positions[g] = astro.NewPosition(g, l, 1)
	}
	return v
}

func TestWarAcrossAries(t *testing.T) {
	v := warChart(map[astro.Graha]float64{astro.Mars: 359.5, astro.Venus: 0.3})
	wars := Wars(v, nil)
	if len(wars) != 1 {
		t.Fatalf("Wars() = %+v, want one war", wars)
	}
	w := wars[0]
	if w.Winner != astro.Mars || w.Loser != astro.Venus {
		t.Errorf("winner %v loser %v, want Mars over Venus", w.Winner, w.Loser)
	}
	if math.Abs(w.Separation-0.8) > 1e-9 || w.Close {
		t.Errorf("separation %.3f close %v, want 0.8 not close", w.Separation, w.Close)
	}
	if l := Losers(wars); !l[astro.Venus] || l[astro.Mars] {
		t.Errorf("Losers() = %v", l)
	}
}

func TestWarsIgnoreLuminariesAndNodes(t *testing.T) {
	v := warChart(map[astro.Graha]float64{
		astro.Sun: 10, astro.Moon: 10.2, astro.Rahu: 10.4, astro.Mercury: 10.6,
	})
	if wars := Wars(v, nil); len(wars) != 0 {
		t.Errorf("Wars() = %+v, want none", wars)
	}
}

func TestWarsCustomRule(t *testing.T) {
	v := warChart(map[astro.Graha]float64{astro.Jupiter: 50.2, astro.Saturn: 50.1})
	lower := func(a, b astro.Position) (astro.Graha, astro.Graha) {
		if a.Longitude < b.Longitude {
			return a.Graha, b.Graha
		}
		return b.Graha, a.Graha
	}
	wars := Wars(v, lower)
	if len(wars) != 1 || wars[0].Winner != astro.Saturn || !wars[0].Close {
		t.Errorf("Wars(lower) = %+v, want close war won by Saturn", wars)
	}
}
