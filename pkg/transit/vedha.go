package transit

import (
	"github.com/matzehuels/jyotish/pkg/astro"
)

// vedhaPoints maps each graha's favourable house from the Moon to the
// house that obstructs it. The nodes have no favourable transits of their
// own but still obstruct others.
var vedhaPoints = [astro.NumGrahas]map[int]int{
	astro.Sun:     {1: 4, 3: 9, 4: 10, 6: 5, 7: 1, 10: 8, 11: 12},
	astro.Moon:    {1: 5, 3: 9, 6: 12, 7: 2, 10: 4, 11: 8},
	astro.Mars:    {1: 5, 3: 12, 6: 9, 10: 7, 11: 8},
	astro.Mercury: {1: 5, 2: 3, 4: 12, 6: 8, 8: 1, 10: 9, 11: 12},
	astro.Jupiter: {2: 12, 5: 4, 7: 3, 9: 10, 11: 8},
	astro.Venus:   {1: 8, 2: 7, 3: 1, 4: 10, 5: 9, 8: 5, 9: 11, 11: 6, 12: 3},
	astro.Saturn:  {3: 12, 6: 9, 11: 5},
}

// Vedha is one obstructed favourable transit.
type Vedha struct {
	Obstructed  astro.Graha `json:"obstructed"`
	Obstructor  astro.Graha `json:"obstructor"`
	Favourable  int         `json:"favourable_house"`
	Obstructing int         `json:"obstructing_house"`
}

// VedhaPoint returns the obstructing house for g transiting house h from
// the Moon. ok is false when h is not favourable for g.
func VedhaPoint(g astro.Graha, h int) (obstructing int, ok bool) {
	obstructing, ok = vedhaPoints[g][h]
	return obstructing, ok
}

// Favourable reports whether house h from the Moon is a favourable
// transit for g.
func Favourable(g astro.Graha, h int) bool {
	_, ok := VedhaPoint(g, h)
	return ok
}

// Exempt reports whether a and b never obstruct each other. Only the
// luminaries are exempt.
func Exempt(a, b astro.Graha) bool {
	return (a == astro.Sun && b == astro.Moon) || (a == astro.Moon && b == astro.Sun)
}

// Obstructions evaluates vedha for every transiting graha at one
// instant. fromMoon holds each graha's house counted from the natal
// Moon. A favourable transit may be obstructed by several grahas; each
// is reported.
func Obstructions(fromMoon [astro.NumGrahas]int) []Vedha {
	var out []Vedha
	for _, g := range astro.Grahas() {
		point, ok := VedhaPoint(g, fromMoon[g])
		if !ok {
			continue
		}
		for _, o := range astro.Grahas() {
			if o == g || fromMoon[o] != point || Exempt(g, o) {
				continue
			}
			out = append(out, Vedha{
				Obstructed:  g,
				Obstructor:  o,
				Favourable:  fromMoon[g],
				Obstructing: point,
			})
		}
	}
	return out
}
