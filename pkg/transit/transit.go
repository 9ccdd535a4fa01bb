// Package transit overlays the sky at a query instant onto a natal chart.
//
// Overlays are derived from natal data without modifying it: the natal
// [astro.Variant] and [ashtakavarga.Result] are only read.
package transit

import (
	"time"

	"github.com/matzehuels/jyotish/pkg/ashtakavarga"
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

// Snapshot is the sidereal sky at one instant.
type Snapshot struct {
	Instant   time.Time                        `json:"instant"`
	JulianDay float64                          `json:"julian_day"`
	Positions [astro.NumGrahas]astro.Position `json:"positions"`
	Precision ephemeris.Precision              `json:"precision"`
}

// NewSnapshot takes the positions of a resolved frame. The frame's
// ascendant is discarded; transits are read against the natal one.
func NewSnapshot(instant time.Time, res *sidereal.Result) *Snapshot {
	s := &Snapshot{
		Instant:   instant.UTC(),
		JulianDay: res.JulianDay,
		Positions: res.Positions,
		Precision: res.Precision,
	}
	for i := range s.Positions {
		s.Positions[i].House = 0
	}
	return s
}

// Conjunction is a natal graha sharing the transiting graha's sign.
type Conjunction struct {
	Natal astro.Graha `json:"natal"`
	Orb   float64     `json:"orb"`
}

// Contact is a full aspect cast by a transiting graha onto a natal graha.
type Contact struct {
	Natal  astro.Graha `json:"natal"`
	Offset int         `json:"offset"`
}

// Bindus are the ashtakavarga points of the sign a graha transits.
type Bindus struct {
	Bhinna int `json:"bhinna"`
	Sarva  int `json:"sarva"`
}

// Placement is one transiting graha read against the natal frame.
type Placement struct {
	Graha        astro.Graha   `json:"graha"`
	Longitude    float64       `json:"longitude"`
	Sign         astro.Sign    `json:"sign"`
	Retrograde   bool          `json:"retrograde"`
	House        int           `json:"house"`
	FromMoon     int           `json:"house_from_moon"`
	Favourable   bool          `json:"favourable"`
	Obstructed   bool          `json:"obstructed"`
	Conjunctions []Conjunction `json:"conjunctions,omitempty"`
	Aspects      []Contact     `json:"aspects,omitempty"`
	Bindus       *Bindus       `json:"bindus,omitempty"`
}

// Phase is the stage of Sade Sati.
type Phase string

const (
	Rising  Phase = "rising"
	Peak    Phase = "peak"
	Setting Phase = "setting"
)

// SadeSati reports Saturn's passage over the natal Moon.
type SadeSati struct {
	Active   bool  `json:"active"`
	Phase    Phase `json:"phase,omitempty"`
	FromMoon int   `json:"saturn_house_from_moon"`
}

// Jupiter classifies transiting Jupiter.
type Jupiter struct {
	FromMoon            int  `json:"house_from_moon"`
	FromAscendant       int  `json:"house_from_ascendant"`
	FavourableFromMoon  bool `json:"favourable_from_moon"`
	FavourableFromLagna bool `json:"favourable_from_ascendant"`
}

// NodalAxis is the natal house pair crossed by the transiting nodes.
type NodalAxis struct {
	RahuHouse    int    `json:"rahu_house"`
	KetuHouse    int    `json:"ketu_house"`
	RahuFromMoon int    `json:"rahu_house_from_moon"`
	KetuFromMoon int    `json:"ketu_house_from_moon"`
	Houses       [2]int `json:"axis"`
}

// Overlay is the full transit reading for one instant.
type Overlay struct {
	Snapshot   *Snapshot                  `json:"snapshot"`
	Placements [astro.NumGrahas]Placement `json:"placements"`
	Vedha      []Vedha                    `json:"vedha"`
	SadeSati   SadeSati                   `json:"sade_sati"`
	Jupiter    Jupiter                    `json:"jupiter"`
	Nodes      NodalAxis                  `json:"nodes"`
}

var jupiterFavourable = map[int]bool{2: true, 5: true, 7: true, 9: true, 11: true}

var sadeSatiPhases = map[int]Phase{12: Rising, 1: Peak, 2: Setting}

// Compute reads snap against natal. av may be nil, in which case no
// bindus are reported.
func Compute(natal *astro.Variant, snap *Snapshot, av *ashtakavarga.Result) *Overlay {
	asc := natal.Ascendant.Sign
	moon := natal.SignOf(astro.Moon)
	o := &Overlay{Snapshot: snap}

	var fromMoon [astro.NumGrahas]int
	for _, g := range astro.Grahas() {
		t := snap.Positions[g]
		p := Placement{
			Graha:      g,
			Longitude:  t.Longitude,
			Sign:       t.Sign,
			Retrograde: t.Retrograde,
			House:      house.Of(t.Sign, asc),
			FromMoon:   t.Sign.HouseFrom(moon),
		}
		p.Favourable = Favourable(g, p.FromMoon)
		p.Conjunctions = conjunctions(natal, t)
		p.Aspects = contacts(natal, t)
		if av != nil && !g.IsNode() && participates(av, g) {
			p.Bindus = &Bindus{Bhinna: av.BhinnaOf(g, t.Sign), Sarva: av.SarvaOf(t.Sign)}
		}
		fromMoon[g] = p.FromMoon
		o.Placements[g] = p
	}

	o.Vedha = Obstructions(fromMoon)
	for _, v := range o.Vedha {
		o.Placements[v.Obstructed].Obstructed = true
	}

	sat := fromMoon[astro.Saturn]
	phase, active := sadeSatiPhases[sat]
	o.SadeSati = SadeSati{Active: active, Phase: phase, FromMoon: sat}

	jup := o.Placements[astro.Jupiter]
	o.Jupiter = Jupiter{
		FromMoon:            jup.FromMoon,
		FromAscendant:       jup.House,
		FavourableFromMoon:  jupiterFavourable[jup.FromMoon],
		FavourableFromLagna: jupiterFavourable[jup.House],
	}

	rahu, ketu := o.Placements[astro.Rahu], o.Placements[astro.Ketu]
	o.Nodes = NodalAxis{
		RahuHouse:    rahu.House,
		KetuHouse:    ketu.House,
		RahuFromMoon: rahu.FromMoon,
		KetuFromMoon: ketu.FromMoon,
		Houses:       [2]int{min(rahu.House, ketu.House), max(rahu.House, ketu.House)},
	}
	return o
}

func conjunctions(natal *astro.Variant, t astro.Position) []Conjunction {
	var out []Conjunction
	for _, n := range natal.Positions {
		if n.Sign == t.Sign {
			out = append(out, Conjunction{Natal: n.Graha, Orb: astro.Separation(t.Longitude, n.Longitude)})
		}
	}
	return out
}

// contacts lists the natal grahas receiving a full aspect from t.
// Offset 1 (conjunction) is covered by conjunctions.
func contacts(natal *astro.Variant, t astro.Position) []Contact {
	var out []Contact
	for _, n := range natal.Positions {
		off := n.Sign.HouseFrom(t.Sign)
		if off != 1 && house.IsFull(t.Graha, off) {
			out = append(out, Contact{Natal: n.Graha, Offset: off})
		}
	}
	return out
}

func participates(av *ashtakavarga.Result, g astro.Graha) bool {
	for _, p := range av.Participants {
		if p == g {
			return true
		}
	}
	return false
}
