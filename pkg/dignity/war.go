package dignity

import (
	"github.com/matzehuels/jyotish/pkg/astro"
)

const (
	// WarOrb is the separation in degrees below which two tara grahas are at war.
	WarOrb = 1.0

	// CloseWarOrb marks a war as close.
	CloseWarOrb = 0.5

	// WarPenalty is subtracted, in virupas, from the loser's chesta bala.
	WarPenalty = 30.0
)

// War is one Graha Yuddha between two tara grahas.
type War struct {
	Winner     astro.Graha `json:"winner"`
	Loser      astro.Graha `json:"loser"`
	Separation float64     `json:"separation"`
	Close      bool        `json:"close"`
}

// WarRule decides the winner of a war between a and b.
type WarRule func(a, b astro.Position) (winner, loser astro.Graha)

// HigherLongitude awards the war to the graha with the greater raw
// sidereal longitude. Equal longitudes go to a.
func HigherLongitude(a, b astro.Position) (winner, loser astro.Graha) {
	if b.Longitude > a.Longitude {
		return b.Graha, a.Graha
	}
	return a.Graha, b.Graha
}

// Wars finds every pair of tara grahas in v separated by less than
// [WarOrb]. A nil rule selects [HigherLongitude]. Wars are returned in
// canonical pair order.
func Wars(v *astro.Variant, rule WarRule) []War {
	if rule == nil {
		rule = HigherLongitude
	}
	taras := astro.TaraGrahas()
	var out []War
	for i, ga := range taras {
		for _, gb := range taras[i+1:] {
			a, b := v.Positions[ga], v.Positions[gb]
			sep := astro.Separation(a.Longitude, b.Longitude)
			if sep >= WarOrb {
				continue
			}
			w, l := rule(a, b)
			out = append(out, War{Winner: w, Loser: l, Separation: sep, Close: sep < CloseWarOrb})
		}
	}
	return out
}

// Losers reports which grahas lost at least one war. A graha losing
// several wars carries the penalty once.
func Losers(wars []War) [astro.NumGrahas]bool {
	var out [astro.NumGrahas]bool
	for _, w := range wars {
		out[w.Loser] = true
	}
	return out
}
