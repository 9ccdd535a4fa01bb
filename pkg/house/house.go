// Package house maps grahas into whole-sign houses and holds the shared
// aspect-strength table.
//
// Houses are counted inclusively from the ascendant sign: the ascendant
// sign is the 1st house, the next sign the 2nd, and so on. The same rule
// applies to the natal chart and to every divisional chart, each with
// its own ascendant.
package house

import (
	"github.com/matzehuels/jyotish/pkg/astro"
)

// =============================================================================
// House assignment
// =============================================================================

// Of returns the house of sign s in a chart whose ascendant is in asc.
func Of(s, asc astro.Sign) int {
	return s.HouseFrom(asc)
}

// Sign returns the sign occupying house h for an ascendant in asc.
func Sign(asc astro.Sign, h int) astro.Sign {
	return asc.Add(h - 1)
}

// Assign sets the House field of every position in v from v's ascendant.
func Assign(v *astro.Variant) {
	for i := range v.Positions {
		v.Positions[i].House = Of(v.Positions[i].Sign, v.Ascendant.Sign)
	}
}

// LordOf returns the lord of house h in v.
func LordOf(v *astro.Variant, h int) astro.Graha {
	return Sign(v.Ascendant.Sign, h).Lord()
}

// LordedBy returns the houses ruled by g in v, in ascending order.
// Rahu and Ketu rule no houses under whole-sign lordship.
func LordedBy(v *astro.Variant, g astro.Graha) []int {
	if g.IsNode() {
		return nil
	}
	var out []int
	for h := 1; h <= 12; h++ {
		if LordOf(v, h) == g {
			out = append(out, h)
		}
	}
	return out
}

// =============================================================================
// House classes
// =============================================================================

// IsKendra reports whether h is an angular house (1, 4, 7, 10).
func IsKendra(h int) bool { return h == 1 || h == 4 || h == 7 || h == 10 }

// IsTrikona reports whether h is a trinal house (1, 5, 9).
func IsTrikona(h int) bool { return h == 1 || h == 5 || h == 9 }

// IsDusthana reports whether h is a house of difficulty (6, 8, 12).
func IsDusthana(h int) bool { return h == 6 || h == 8 || h == 12 }

// IsPanaphara reports whether h is a succedent house (2, 5, 8, 11).
func IsPanaphara(h int) bool { return h == 2 || h == 5 || h == 8 || h == 11 }

// IsApoklima reports whether h is a cadent house (3, 6, 9, 12).
func IsApoklima(h int) bool { return h%3 == 0 }
