// Package dasha builds planetary period trees.
//
// A [System] is pure data: a cyclic sequence of lords with their period
// lengths in years and a rule choosing the starting lord from the Moon's
// birth nakshatra. [Build] turns a system and a birth moment into an
// eagerly generated three-level [Tree] of maha, antar and pratyantar
// periods covering a horizon.
//
// All durations are integer nanoseconds with a year of 365.25 days.
// Children split their parent by exact integer arithmetic, so the last
// child of every parent ends exactly where the parent ends.
package dasha

import "github.com/matzehuels/jyotish/pkg/astro"

// Lord is one entry of a period sequence.
type Lord struct {
	Name  string      `json:"name"`
	Graha astro.Graha `json:"graha"`
	Years uint64      `json:"years"`
}

// System describes one dasha scheme.
type System struct {
	Name  string
	Lords []Lord
	// Start returns the index into Lords of the period running at birth.
	Start func(n astro.Nakshatra) int
}

// CycleYears returns the length of one full cycle.
func (s *System) CycleYears() uint64 {
	var total uint64
	for _, l := range s.Lords {
		total += l.Years
	}
	return total
}

// Vimshottari is the 120-year nakshatra-lord scheme.
var Vimshottari = &System{
	Name: "vimshottari",
	Lords: []Lord{
		{"Ketu", astro.Ketu, 7},
		{"Venus", astro.Venus, 20},
		{"Sun", astro.Sun, 6},
		{"Moon", astro.Moon, 10},
		{"Mars", astro.Mars, 7},
		{"Rahu", astro.Rahu, 18},
		{"Jupiter", astro.Jupiter, 16},
		{"Saturn", astro.Saturn, 19},
		{"Mercury", astro.Mercury, 17},
	},
	Start: func(n astro.Nakshatra) int { return (int(n) - 1) % 9 },
}

// Yogini is the 36-year scheme of eight yoginis.
var Yogini = &System{
	Name: "yogini",
	Lords: []Lord{
		{"Mangala", astro.Moon, 1},
		{"Pingala", astro.Sun, 2},
		{"Dhanya", astro.Jupiter, 3},
		{"Bhramari", astro.Mars, 4},
		{"Bhadrika", astro.Mercury, 5},
		{"Ulka", astro.Saturn, 6},
		{"Siddha", astro.Venus, 7},
		{"Sankata", astro.Rahu, 8},
	},
	Start: func(n astro.Nakshatra) int { return (int(n) + 3) % 8 },
}

// Systems lists the built-in schemes by name.
var Systems = map[string]*System{
	Vimshottari.Name: Vimshottari,
	Yogini.Name:      Yogini,
}
