package transit

import (
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/jyotish/pkg/ashtakavarga"
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

func natalChart() *astro.Variant {
	lons := [astro.NumGrahas]float64{130, 105, 15, 155, 255, 195, 285, 45, 225}
	v := &astro.Variant{Division: 1, Ascendant: astro.NewAscendant(15)}
	for g, lon := range lons {
		v.Positions[g] = astro.NewPosition(astro.Graha(g), lon, 1)
	}
	house.Assign(v)
	return v
}

func snapshot(lons [astro.NumGrahas]float64) *Snapshot {
	s := &Snapshot{Instant: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	for g, lon := range lons {
		s.Positions[g] = astro.NewPosition(astro.Graha(g), lon, 1)
	}
	return s
}

var sky = [astro.NumGrahas]float64{135, 300, 200, 160, 225, 60, 75, 345, 165}

func TestOverlayHouses(t *testing.T) {
	o := Compute(natalChart(), snapshot(sky), nil)

	sat := o.Placements[astro.Saturn]
	if sat.House != 3 || sat.FromMoon != 12 {
		t.Errorf("Saturn house = %d from moon = %d, want 3 and 12", sat.House, sat.FromMoon)
	}
	jup := o.Jupiter
	if jup.FromMoon != 5 || !jup.FavourableFromMoon || jup.FromAscendant != 8 || jup.FavourableFromLagna {
		t.Errorf("Jupiter = %+v", jup)
	}
	if o.Nodes.Houses != [2]int{6, 12} || o.Nodes.RahuHouse != 12 || o.Nodes.KetuHouse != 6 {
		t.Errorf("nodes = %+v", o.Nodes)
	}
}

func TestSadeSati(t *testing.T) {
	tests := []struct {
		saturn float64
		active bool
		phase  Phase
	}{
		{75, true, Rising},   // Gemini, 12th from a Cancer Moon
		{105, true, Peak},    // Cancer
		{135, true, Setting}, // Leo
		{165, false, ""},     // Virgo
	}
	for _, tt := range tests {
		lons := sky
		lons[astro.Saturn] = tt.saturn
		got := Compute(natalChart(), snapshot(lons), nil).SadeSati
		if got.Active != tt.active || got.Phase != tt.phase {
			t.Errorf("Saturn at %v: %+v, want active=%v phase=%q", tt.saturn, got, tt.active, tt.phase)
		}
	}
}

func TestConjunctionsAndAspects(t *testing.T) {
	o := Compute(natalChart(), snapshot(sky), nil)

	sun := o.Placements[astro.Sun]
	if len(sun.Conjunctions) != 1 || sun.Conjunctions[0].Natal != astro.Sun || sun.Conjunctions[0].Orb != 5 {
		t.Errorf("Sun conjunctions = %+v", sun.Conjunctions)
	}

	want := []Contact{{Natal: astro.Sun, Offset: 3}, {Natal: astro.Jupiter, Offset: 7}}
	if got := o.Placements[astro.Saturn].Aspects; !reflect.DeepEqual(got, want) {
		t.Errorf("Saturn aspects = %+v, want %+v", got, want)
	}
}

func TestBindus(t *testing.T) {
	natal := natalChart()
	av, err := ashtakavarga.Compute(natal, ashtakavarga.Options{})
	if err != nil {
		t.Fatal(err)
	}
	o := Compute(natal, snapshot(sky), av)
	for _, g := range astro.Grahas() {
		p := o.Placements[g]
		if g.IsNode() {
			if p.Bindus != nil {
				t.Errorf("%v has bindus", g)
			}
			continue
		}
		want := Bindus{Bhinna: av.BhinnaOf(g, p.Sign), Sarva: av.SarvaOf(p.Sign)}
		if p.Bindus == nil || *p.Bindus != want {
			t.Errorf("%v bindus = %v, want %v", g, p.Bindus, want)
		}
	}
}

func TestObstructions(t *testing.T) {
	tests := []struct {
		name     string
		fromMoon [astro.NumGrahas]int
		want     []Vedha
	}{
		{
			name: "full sky",
			fromMoon: [astro.NumGrahas]int{
				astro.Sun: 3, astro.Moon: 1, astro.Mars: 10, astro.Mercury: 5, astro.Jupiter: 2,
				astro.Venus: 12, astro.Saturn: 9, astro.Rahu: 2, astro.Ketu: 8,
			},
			want: []Vedha{
				{Obstructed: astro.Sun, Obstructor: astro.Saturn, Favourable: 3, Obstructing: 9},
				{Obstructed: astro.Moon, Obstructor: astro.Mercury, Favourable: 1, Obstructing: 5},
				{Obstructed: astro.Jupiter, Obstructor: astro.Venus, Favourable: 2, Obstructing: 12},
				{Obstructed: astro.Venus, Obstructor: astro.Sun, Favourable: 12, Obstructing: 3},
			},
		},
		{
			name:     "moon never obstructs the sun",
			fromMoon: [astro.NumGrahas]int{astro.Sun: 7, astro.Moon: 1},
		},
		{
			name:     "mars obstructs the sun",
			fromMoon: [astro.NumGrahas]int{astro.Sun: 7, astro.Mars: 1},
			want:     []Vedha{{Obstructed: astro.Sun, Obstructor: astro.Mars, Favourable: 7, Obstructing: 1}},
		},
		{
			name:     "node obstructs",
			fromMoon: [astro.NumGrahas]int{astro.Jupiter: 5, astro.Rahu: 4},
			want:     []Vedha{{Obstructed: astro.Jupiter, Obstructor: astro.Rahu, Favourable: 5, Obstructing: 4}},
		},
		{
			name:     "several obstructors",
			fromMoon: [astro.NumGrahas]int{astro.Saturn: 11, astro.Mercury: 5, astro.Ketu: 5},
			want: []Vedha{
				{Obstructed: astro.Saturn, Obstructor: astro.Mercury, Favourable: 11, Obstructing: 5},
				{Obstructed: astro.Saturn, Obstructor: astro.Ketu, Favourable: 11, Obstructing: 5},
			},
		},
	}
	for _, tt := range tests {
		if got := Obstructions(tt.fromMoon); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Obstructions = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestExempt(t *testing.T) {
	tests := []struct {
		a, b astro.Graha
		want bool
	}{
		{astro.Sun, astro.Moon, true},
		{astro.Moon, astro.Sun, true},
		{astro.Sun, astro.Saturn, false},
		{astro.Moon, astro.Mercury, false},
		{astro.Jupiter, astro.Venus, false},
	}
	for _, tt := range tests {
		if got := Exempt(tt.a, tt.b); got != tt.want {
			t.Errorf("Exempt(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVedhaPoint(t *testing.T) {
	tests := []struct {
		g      astro.Graha
		h      int
		want   int
		wantOK bool
	}{
		{astro.Sun, 1, 4, true},
		{astro.Sun, 11, 12, true},
		{astro.Mars, 10, 7, true},
		{astro.Mercury, 4, 12, true},
		{astro.Venus, 11, 6, true},
		{astro.Venus, 12, 3, true},
		{astro.Saturn, 1, 0, false},
		{astro.Rahu, 3, 0, false},
		{astro.Ketu, 11, 0, false},
	}
	for _, tt := range tests {
		got, ok := VedhaPoint(tt.g, tt.h)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("VedhaPoint(%v, %d) = %d, %v, want %d, %v", tt.g, tt.h, got, ok, tt.want, tt.wantOK)
		}
		if Favourable(tt.g, tt.h) != tt.wantOK {
			t.Errorf("Favourable(%v, %d) = %v, want %v", tt.g, tt.h, !tt.wantOK, tt.wantOK)
		}
	}
}

func TestComputeLeavesNatalUntouched(t *testing.T) {
	natal := natalChart()
	before := *natal
	Compute(natal, snapshot(sky), nil)
	if !reflect.DeepEqual(before, *natal) {
		t.Error("natal chart was modified")
	}
}

func TestNewSnapshot(t *testing.T) {
	res := &sidereal.Result{JulianDay: 2460000.5}
	res.Positions[astro.Sun] = astro.NewPosition(astro.Sun, 10, 1)
	res.Positions[astro.Sun].House = 4
	s := NewSnapshot(time.Date(2023, 2, 24, 12, 0, 0, 0, time.FixedZone("X", 3600)), res)
	if s.Positions[astro.Sun].House != 0 {
		t.Error("snapshot kept a house")
	}
	if s.Instant.Location() != time.UTC {
		t.Errorf("instant location = %v", s.Instant.Location())
	}
	if res.Positions[astro.Sun].House != 4 {
		t.Error("source result modified")
	}
}
