// Package yoga detects named planetary combinations in a natal chart.
//
// The catalog is a slice of independent [Rule] values. Each rule inspects
// a read-only [Chart] and returns zero or more [Instance] values; rules
// never see each other's output. [Detect] sorts the combined result so it
// does not depend on the order rules run in.
package yoga

import (
	"sort"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/dignity"
	"github.com/matzehuels/jyotish/pkg/house"
)

// Category separates auspicious combinations from afflictions.
type Category string

const (
	Auspicious Category = "auspicious"
	Dosha      Category = "dosha"
)

// Strength grades a match.
type Strength string

const (
	Strong   Strength = "strong"
	Moderate Strength = "moderate"
	Weak     Strength = "weak"
)

// downgrade lowers s by one level.
func (s Strength) downgrade() Strength {
	if s == Strong {
		return Moderate
	}
	return Weak
}

// Instance is one matched yoga.
type Instance struct {
	Name      string        `json:"name"`
	Category  Category      `json:"category"`
	Grahas    []astro.Graha `json:"grahas"`
	Houses    []int         `json:"houses"`
	Strength  Strength      `json:"strength"`
	Rationale string        `json:"rationale"`
}

// Chart is the read-only input to every rule. Natal must carry houses,
// dignities and combustion flags.
type Chart struct {
	Natal    *astro.Variant
	Navamsha *astro.Variant
	Aspects  *house.Graph
	Wars     []dignity.War
}

// NewChart assembles a Chart, building the aspect graph when nil.
func NewChart(natal, navamsha *astro.Variant, aspects *house.Graph, wars []dignity.War) *Chart {
	if aspects == nil {
		aspects = house.Aspects(natal)
	}
	return &Chart{Natal: natal, Navamsha: navamsha, Aspects: aspects, Wars: wars}
}

// Rule is one catalog entry.
type Rule struct {
	Name     string
	Category Category
	Detect   func(c *Chart) []Instance
}

// Detect evaluates rules against c, or the full Catalog when rules is nil.
// Results are sorted by category, name and grahas.
func Detect(c *Chart, rules []Rule) []Instance {
	if rules == nil {
		rules = Catalog
	}
	var out []Instance
	for _, r := range rules {
		for _, in := range r.Detect(c) {
			if in.Category == "" {
				in.Category = r.Category
			}
			if in.Name == "" {
				in.Name = r.Name
			}
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return lessGrahas(a.Grahas, b.Grahas)
	})
	return out
}

func lessGrahas(a, b []astro.Graha) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// =============================================================================
// Helpers shared by the catalog
// =============================================================================

// grade classifies members by dignity: weak if any is debilitated or
// combust, strong if any is exalted, moolatrikona or own sign, otherwise
// moderate.
func grade(ps ...astro.Position) Strength {
	strong := false
	for _, p := range ps {
		if p.Dignity == astro.Debilitated || p.Combust {
			return Weak
		}
		strong = strong || p.Dignity.Strong()
	}
	if strong {
		return Strong
	}
	return Moderate
}

// fromMoon returns the house of g counted from the Moon's sign.
func (c *Chart) fromMoon(g astro.Graha) int {
	return c.Natal.SignOf(g).HouseFrom(c.Natal.SignOf(astro.Moon))
}

// conjunct reports whether a and b share a sign.
func (c *Chart) conjunct(a, b astro.Graha) bool {
	return c.Natal.SignOf(a) == c.Natal.SignOf(b)
}

// exchange reports whether a and b occupy each other's signs.
func (c *Chart) exchange(a, b astro.Graha) bool {
	return b.Owns(c.Natal.SignOf(a)) && a.Owns(c.Natal.SignOf(b))
}

// associated reports conjunction, mutual full aspect or sign exchange.
func (c *Chart) associated(a, b astro.Graha) (string, bool) {
	switch {
	case c.conjunct(a, b):
		return "conjunct", true
	case c.Aspects.Mutual(a, b):
		return "in mutual aspect", true
	case c.exchange(a, b):
		return "in sign exchange", true
	}
	return "", false
}

func (c *Chart) positions(gs ...astro.Graha) []astro.Position {
	out := make([]astro.Position, len(gs))
	for i, g := range gs {
		out[i] = c.Natal.Of(g)
	}
	return out
}

// houses returns the sorted distinct natal houses of gs.
func (c *Chart) houses(gs ...astro.Graha) []int {
	seen := map[int]bool{}
	var out []int
	for _, g := range gs {
		h := c.Natal.HouseOf(g)
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	sort.Ints(out)
	return out
}

func sortedPair(a, b astro.Graha) []astro.Graha {
	if b < a {
		a, b = b, a
	}
	return []astro.Graha{a, b}
}
