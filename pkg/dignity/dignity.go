// Package dignity classifies the placement quality of grahas and detects
// planetary war (Graha Yuddha).
package dignity

import (
	"github.com/matzehuels/jyotish/pkg/astro"
)

// span is a half-open degree range [From, To) within one sign.
type span struct {
	sign     astro.Sign
	from, to float64
}

func (s span) contains(sign astro.Sign, deg float64) bool {
	return sign == s.sign && deg >= s.from && deg < s.to
}

var moolatrikona = map[astro.Graha]span{
	astro.Sun:     {astro.Leo, 0, 20},
	astro.Moon:    {astro.Taurus, 3, 30},
	astro.Mars:    {astro.Aries, 0, 12},
	astro.Mercury: {astro.Virgo, 15, 20},
	astro.Jupiter: {astro.Sagittarius, 0, 10},
	astro.Venus:   {astro.Libra, 0, 15},
	astro.Saturn:  {astro.Aquarius, 0, 20},
}

// exaltationLimit caps the exaltation range for grahas whose exaltation
// sign continues into moolatrikona. Others are exalted across the whole sign.
var exaltationLimit = map[astro.Graha]float64{
	astro.Moon:    3,
	astro.Mercury: 15,
}

// Evaluate returns the dignity of g at sidereal longitude lon.
//
// The checks run in order: moolatrikona range, exaltation range, own
// sign, debilitation sign, then the natural relationship of g to the
// sign lord. Debilitation is checked before the relationship because the
// relationship matrix classifies every sign.
func Evaluate(g astro.Graha, lon float64) astro.Dignity {
	s := astro.SignOf(lon)
	deg := astro.DegreeInSign(lon)

	if mt, ok := moolatrikona[g]; ok && mt.contains(s, deg) {
		return astro.Moolatrikona
	}
	if ex, _ := g.Exaltation(); s == ex {
		limit, ok := exaltationLimit[g]
		if !ok || deg < limit {
			return astro.Exalted
		}
	}
	if g.Owns(s) {
		return astro.OwnSign
	}
	if deb, _ := g.Debilitation(); s == deb {
		return astro.Debilitated
	}
	switch g.RelationTo(s.Lord()) {
	case astro.Friend:
		return astro.Friendly
	case astro.Enemy:
		return astro.EnemySign
	}
	return astro.NeutralSign
}

// Annotate sets the Dignity field of every position in v.
func Annotate(v *astro.Variant) {
	for i := range v.Positions {
		p := &v.Positions[i]
		p.Dignity = Evaluate(p.Graha, p.Longitude)
	}
}

// Points returns the saptavargaja score of a dignity in virupas.
func Points(d astro.Dignity) float64 {
	switch d {
	case astro.Moolatrikona:
		return 45
	case astro.OwnSign, astro.Exalted:
		return 30
	case astro.Friendly:
		return 15
	case astro.NeutralSign:
		return 10
	case astro.EnemySign:
		return 4
	case astro.Debilitated:
		return 2
	}
	return 0
}
