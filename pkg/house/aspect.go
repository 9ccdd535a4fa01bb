package house

import (
	"sort"

	"github.com/matzehuels/jyotish/pkg/astro"
)

// Full is the strength of a full aspect, in percent.
const Full = 100.0

// graded is the aspect strength every graha casts by inclusive house
// offset. Index 0 is unused; offset 1 is the graha's own sign.
var graded = [13]float64{
	3: 25, 10: 25,
	5: 50, 9: 50,
	4: 75, 8: 75,
	7: Full,
}

// special lists the offsets at which a graha casts a full aspect beyond
// the 7th.
var special = map[astro.Graha][]int{
	astro.Mars:    {4, 8},
	astro.Jupiter: {5, 9},
	astro.Saturn:  {3, 10},
	astro.Rahu:    {5, 9},
	astro.Ketu:    {5, 9},
}

// Strength returns the percentage strength of the aspect g casts on the
// sign offset houses away, counted inclusively. Offset 1 conjunction and
// offsets outside 1..12 return 0.
func Strength(g astro.Graha, offset int) float64 {
	if offset < 2 || offset > 12 {
		return 0
	}
	for _, o := range special[g] {
		if o == offset {
			return Full
		}
	}
	return graded[offset]
}

// IsFull reports whether g casts a full aspect at offset.
func IsFull(g astro.Graha, offset int) bool {
	return Strength(g, offset) == Full
}

// Casts returns the strength of the aspect a graha in sign from casts onto sign to.
func Casts(g astro.Graha, from, to astro.Sign) float64 {
	return Strength(g, to.HouseFrom(from))
}

// FullOffsets returns the offsets at which g casts full aspects, ascending.
func FullOffsets(g astro.Graha) []int {
	var out []int
	for o := 2; o <= 12; o++ {
		if IsFull(g, o) {
			out = append(out, o)
		}
	}
	return out
}

// =============================================================================
// Aspect graph
// =============================================================================

// Aspect is one directed edge of the aspect graph.
type Aspect struct {
	From     astro.Graha `json:"from"`
	To       astro.Graha `json:"to"`
	Offset   int         `json:"offset"`
	Strength float64     `json:"strength"`
}

// IsFull reports whether the edge is a full aspect.
func (a Aspect) IsFull() bool { return a.Strength == Full }

// Graph holds every non-zero graha-to-graha aspect of one chart frame.
// Edges are sorted by (From, To).
type Graph struct {
	Edges []Aspect `json:"edges"`
}

// Aspects builds the aspect graph of v.
func Aspects(v *astro.Variant) *Graph {
	g := &Graph{}
	for _, from := range v.Positions {
		for _, to := range v.Positions {
			if from.Graha == to.Graha {
				continue
			}
			off := to.Sign.HouseFrom(from.Sign)
			if s := Strength(from.Graha, off); s > 0 {
				g.Edges = append(g.Edges, Aspect{From: from.Graha, To: to.Graha, Offset: off, Strength: s})
			}
		}
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
	return g
}

// Strength returns the strength of from's aspect on to, or 0.
func (g *Graph) Strength(from, to astro.Graha) float64 {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return e.Strength
		}
	}
	return 0
}

// Aspects reports whether from casts a full aspect on to.
func (g *Graph) Aspects(from, to astro.Graha) bool {
	return g.Strength(from, to) == Full
}

// Mutual reports whether a and b cast full aspects on each other.
func (g *Graph) Mutual(a, b astro.Graha) bool {
	return g.Aspects(a, b) && g.Aspects(b, a)
}

// Received returns the edges pointing at to.
func (g *Graph) Received(to astro.Graha) []Aspect {
	var out []Aspect
	for _, e := range g.Edges {
		if e.To == to {
			out = append(out, e)
		}
	}
	return out
}

// Full returns only the full-strength edges.
func (g *Graph) Full() []Aspect {
	var out []Aspect
	for _, e := range g.Edges {
		if e.IsFull() {
			out = append(out, e)
		}
	}
	return out
}
