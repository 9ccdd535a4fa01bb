package yoga

import (
	"fmt"
	"sort"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/house"
)

// Catalog is the built-in rule set.
var Catalog = []Rule{
	{Name: "Gaja Kesari", Category: Auspicious, Detect: gajaKesari},
	{Name: "Raja", Category: Auspicious, Detect: raja},
	{Name: "Dhana", Category: Auspicious, Detect: dhana},
	{Name: "Pancha Mahapurusha", Category: Auspicious, Detect: panchaMahapurusha},
	{Name: "Budhaditya", Category: Auspicious, Detect: budhaditya},
	{Name: "Viparita Raja", Category: Auspicious, Detect: viparitaRaja},
	{Name: "Neecha Bhanga", Category: Auspicious, Detect: neechaBhanga},
	{Name: "Chandra-Mangala", Category: Auspicious, Detect: chandraMangala},
	{Name: "Amala", Category: Auspicious, Detect: amala},
	{Name: "Sunapha", Category: Auspicious, Detect: lunarFlank},
	{Name: "Vargottama", Category: Auspicious, Detect: vargottama},
	{Name: "Kemadruma", Category: Dosha, Detect: kemadruma},
	{Name: "Kaal Sarpa", Category: Dosha, Detect: kaalSarpa},
	{Name: "Mangal", Category: Dosha, Detect: mangal},
	{Name: "Graha Yuddha", Category: Dosha, Detect: grahaYuddha},
}

func gajaKesari(c *Chart) []Instance {
	h := c.fromMoon(astro.Jupiter)
	if !house.IsKendra(h) {
		return nil
	}
	return []Instance{{
		Grahas:    []astro.Graha{astro.Moon, astro.Jupiter},
		Houses:    c.houses(astro.Moon, astro.Jupiter),
		Strength:  grade(c.Natal.Of(astro.Jupiter)),
		Rationale: fmt.Sprintf("Jupiter is in house %d from the Moon", h),
	}}
}

func raja(c *Chart) []Instance {
	var out []Instance
	// A single graha ruling a kendra and a trikona besides the 1st house.
	for _, g := range astro.Classical() {
		var k, t bool
		for _, h := range house.LordedBy(c.Natal, g) {
			k = k || (h != 1 && house.IsKendra(h))
			t = t || (h != 1 && house.IsTrikona(h))
		}
		if k && t {
			out = append(out, Instance{
				Grahas:    []astro.Graha{g},
				Houses:    house.LordedBy(c.Natal, g),
				Strength:  grade(c.Natal.Of(g)),
				Rationale: fmt.Sprintf("%v rules both a kendra and a trikona", g),
			})
		}
	}

	seen := map[[2]astro.Graha]bool{}
	for _, kh := range []int{1, 4, 7, 10} {
		for _, th := range []int{1, 5, 9} {
			kl, tl := house.LordOf(c.Natal, kh), house.LordOf(c.Natal, th)
			if kl == tl {
				continue
			}
			pair := sortedPair(kl, tl)
			key := [2]astro.Graha{pair[0], pair[1]}
			if seen[key] {
				continue
			}
			how, ok := c.associated(kl, tl)
			if !ok {
				continue
			}
			seen[key] = true
			out = append(out, Instance{
				Grahas:    pair,
				Houses:    uniqueSorted(kh, th),
				Strength:  grade(c.positions(kl, tl)...),
				Rationale: fmt.Sprintf("lord of %d (%v) and lord of %d (%v) are %s", kh, kl, th, tl, how),
			})
		}
	}
	return out
}

func dhana(c *Chart) []Instance {
	type link struct{ a, b int }
	links := []link{{2, 11}, {5, 2}, {5, 11}, {9, 2}, {9, 11}}
	seen := map[[2]astro.Graha]bool{}
	var out []Instance
	for _, l := range links {
		la, lb := house.LordOf(c.Natal, l.a), house.LordOf(c.Natal, l.b)
		if la == lb {
			continue
		}
		pair := sortedPair(la, lb)
		key := [2]astro.Graha{pair[0], pair[1]}
		if seen[key] {
			continue
		}
		how, ok := c.associated(la, lb)
		if !ok {
			continue
		}
		seen[key] = true
		out = append(out, Instance{
			Grahas:    pair,
			Houses:    uniqueSorted(l.a, l.b),
			Strength:  grade(c.positions(la, lb)...),
			Rationale: fmt.Sprintf("lord of %d (%v) and lord of %d (%v) are %s", l.a, la, l.b, lb, how),
		})
	}
	return out
}

var mahapurusha = []struct {
	graha astro.Graha
	name  string
}{
	{astro.Mars, "Ruchaka"},
	{astro.Mercury, "Bhadra"},
	{astro.Jupiter, "Hamsa"},
	{astro.Venus, "Malavya"},
	{astro.Saturn, "Shasha"},
}

func panchaMahapurusha(c *Chart) []Instance {
	var out []Instance
	for _, m := range mahapurusha {
		p := c.Natal.Of(m.graha)
		ex, _ := m.graha.Exaltation()
		if !m.graha.Owns(p.Sign) && p.Sign != ex {
			continue
		}
		s := Moderate
		if house.IsKendra(p.House) {
			s = Strong
		}
		if p.Combust {
			s = s.downgrade()
		}
		out = append(out, Instance{
			Name:      m.name,
			Grahas:    []astro.Graha{m.graha},
			Houses:    []int{p.House},
			Strength:  s,
			Rationale: fmt.Sprintf("%v in own or exaltation sign %v, house %d", m.graha, p.Sign, p.House),
		})
	}
	return out
}

func budhaditya(c *Chart) []Instance {
	if !c.conjunct(astro.Sun, astro.Mercury) {
		return nil
	}
	h := c.Natal.HouseOf(astro.Sun)
	if !house.IsKendra(h) && !house.IsTrikona(h) {
		return nil
	}
	return []Instance{{
		Grahas:    []astro.Graha{astro.Sun, astro.Mercury},
		Houses:    []int{h},
		Strength:  grade(c.positions(astro.Sun, astro.Mercury)...),
		Rationale: fmt.Sprintf("Sun and Mercury together in house %d", h),
	}}
}

var viparitaNames = map[int]string{6: "Harsha", 8: "Sarala", 12: "Vimala"}

func viparitaRaja(c *Chart) []Instance {
	var out []Instance
	for _, src := range []int{6, 8, 12} {
		l := house.LordOf(c.Natal, src)
		placed := c.Natal.HouseOf(l)
		if !house.IsDusthana(placed) || placed == src {
			continue
		}
		out = append(out, Instance{
			Name:      viparitaNames[src],
			Grahas:    []astro.Graha{l},
			Houses:    uniqueSorted(src, placed),
			Strength:  grade(c.Natal.Of(l)),
			Rationale: fmt.Sprintf("lord of %d (%v) sits in house %d", src, l, placed),
		})
	}
	return out
}

// exaltedIn returns the classical graha exalted in s, if any.
func exaltedIn(s astro.Sign) (astro.Graha, bool) {
	for _, g := range astro.Classical() {
		if ex, _ := g.Exaltation(); ex == s {
			return g, true
		}
	}
	return 0, false
}

func neechaBhanga(c *Chart) []Instance {
	inKendra := func(g astro.Graha) bool {
		return house.IsKendra(c.Natal.HouseOf(g)) || house.IsKendra(c.fromMoon(g))
	}
	var out []Instance
	for _, g := range astro.Classical() {
		p := c.Natal.Of(g)
		if p.Dignity != astro.Debilitated {
			continue
		}
		var cancellers []astro.Graha
		if l := p.Sign.Lord(); l != g && inKendra(l) {
			cancellers = append(cancellers, l)
		}
		if e, ok := exaltedIn(p.Sign); ok && e != g && inKendra(e) && !containsGraha(cancellers, e) {
			cancellers = append(cancellers, e)
		}
		if len(cancellers) == 0 {
			continue
		}
		s := Moderate
		if len(cancellers) > 1 {
			s = Strong
		}
		if grade(c.positions(cancellers...)...) == Weak {
			s = s.downgrade()
		}
		out = append(out, Instance{
			Grahas:    append([]astro.Graha{g}, cancellers...),
			Houses:    []int{p.House},
			Strength:  s,
			Rationale: fmt.Sprintf("debilitated %v is cancelled by %v in a kendra", g, cancellers),
		})
	}
	return out
}

func chandraMangala(c *Chart) []Instance {
	if !c.conjunct(astro.Moon, astro.Mars) {
		return nil
	}
	return []Instance{{
		Grahas:    []astro.Graha{astro.Moon, astro.Mars},
		Houses:    c.houses(astro.Moon),
		Strength:  grade(c.positions(astro.Moon, astro.Mars)...),
		Rationale: fmt.Sprintf("Moon and Mars together in %v", c.Natal.SignOf(astro.Moon)),
	}}
}

func amala(c *Chart) []Instance {
	var out []Instance
	for _, g := range astro.Classical() {
		if !g.IsBenefic() {
			continue
		}
		lagna := c.Natal.HouseOf(g) == 10
		moon := g != astro.Moon && c.fromMoon(g) == 10
		if !lagna && !moon {
			continue
		}
		from := "the lagna"
		if !lagna {
			from = "the Moon"
		}
		out = append(out, Instance{
			Grahas:    []astro.Graha{g},
			Houses:    []int{c.Natal.HouseOf(g)},
			Strength:  grade(c.Natal.Of(g)),
			Rationale: fmt.Sprintf("benefic %v in the 10th from %s", g, from),
		})
	}
	return out
}

// flanking returns the tara grahas in the 2nd and 12th from the Moon.
func (c *Chart) flanking() (second, twelfth []astro.Graha) {
	for _, g := range astro.TaraGrahas() {
		switch c.fromMoon(g) {
		case 2:
			second = append(second, g)
		case 12:
			twelfth = append(twelfth, g)
		}
	}
	return second, twelfth
}

// lunarFlank reports Sunapha, Anapha and, when both hold, Durudhara.
func lunarFlank(c *Chart) []Instance {
	second, twelfth := c.flanking()
	var out []Instance
	add := func(name string, gs []astro.Graha, where string) {
		out = append(out, Instance{
			Name:      name,
			Grahas:    gs,
			Houses:    c.houses(gs...),
			Strength:  grade(c.positions(gs...)...),
			Rationale: fmt.Sprintf("%v in the %s from the Moon", gs, where),
		})
	}
	if len(second) > 0 {
		add("Sunapha", second, "2nd")
	}
	if len(twelfth) > 0 {
		add("Anapha", twelfth, "12th")
	}
	if len(second) > 0 && len(twelfth) > 0 {
		both := append(append([]astro.Graha(nil), second...), twelfth...)
		sort.Slice(both, func(i, j int) bool { return both[i] < both[j] })
		add("Durudhara", both, "2nd and 12th")
	}
	return out
}

func vargottama(c *Chart) []Instance {
	if c.Navamsha == nil {
		return nil
	}
	var out []Instance
	for _, g := range astro.Grahas() {
		if c.Natal.SignOf(g) != c.Navamsha.SignOf(g) {
			continue
		}
		out = append(out, Instance{
			Grahas:    []astro.Graha{g},
			Houses:    []int{c.Natal.HouseOf(g)},
			Strength:  grade(c.Natal.Of(g)),
			Rationale: fmt.Sprintf("%v occupies %v in both D1 and D9", g, c.Natal.SignOf(g)),
		})
	}
	return out
}

// kemadruma holds when no graha other than the Moon and the nodes sits in
// the 2nd or 12th from the Moon. The Sun counts.
func kemadruma(c *Chart) []Instance {
	for _, g := range astro.Classical() {
		if h := c.fromMoon(g); g != astro.Moon && (h == 2 || h == 12) {
			return nil
		}
	}
	s := Moderate
	why := "no graha in the 2nd or 12th from the Moon"
	switch {
	case house.IsKendra(c.fromMoon(astro.Jupiter)):
		s = Weak
		why += "; Jupiter in a kendra from the Moon mitigates it"
	case house.IsKendra(c.Natal.HouseOf(astro.Moon)):
		s = Weak
		why += "; the Moon in a kendra mitigates it"
	}
	return []Instance{{
		Grahas:    []astro.Graha{astro.Moon},
		Houses:    c.houses(astro.Moon),
		Strength:  s,
		Rationale: why,
	}}
}

func kaalSarpa(c *Chart) []Instance {
	rahu := c.Natal.Of(astro.Rahu).Longitude
	var ahead, behind int
	partial := false
	for _, g := range astro.Classical() {
		lon := c.Natal.Of(g).Longitude
		if astro.Normalize(lon-rahu) < 180 {
			ahead++
		} else {
			behind++
		}
		if astro.Separation(lon, rahu) < 1 || astro.Separation(lon, rahu+180) < 1 {
			partial = true
		}
	}
	if ahead != 0 && behind != 0 {
		return nil
	}
	s := Moderate
	if partial {
		s = Weak
	}
	return []Instance{{
		Grahas:    []astro.Graha{astro.Rahu, astro.Ketu},
		Houses:    c.houses(astro.Rahu, astro.Ketu),
		Strength:  s,
		Rationale: "all seven grahas lie on one side of the nodal axis",
	}}
}

func mangal(c *Chart) []Instance {
	p := c.Natal.Of(astro.Mars)
	switch p.House {
	case 1, 2, 4, 7, 8, 12:
	default:
		return nil
	}
	s := Moderate
	why := fmt.Sprintf("Mars in house %d", p.House)
	if p.House == 7 || p.House == 8 {
		s = Strong
	}
	if ex, _ := astro.Mars.Exaltation(); astro.Mars.Owns(p.Sign) || p.Sign == ex {
		s = Weak
		why += fmt.Sprintf("; cancelled by Mars in %v", p.Sign)
	}
	jup := c.Natal.Of(astro.Jupiter)
	if jup.House == 1 || house.IsKendra(p.Sign.HouseFrom(jup.Sign)) {
		if s != Weak {
			s = Moderate
		}
		why += fmt.Sprintf("; mitigated by Jupiter in house %d", jup.House)
	}
	return []Instance{{
		Grahas:    []astro.Graha{astro.Mars},
		Houses:    []int{p.House},
		Strength:  s,
		Rationale: why,
	}}
}

func grahaYuddha(c *Chart) []Instance {
	var out []Instance
	for _, w := range c.Wars {
		s := Moderate
		if w.Close {
			s = Strong
		}
		out = append(out, Instance{
			Grahas:    sortedPair(w.Winner, w.Loser),
			Houses:    c.houses(w.Winner, w.Loser),
			Strength:  s,
			Rationale: fmt.Sprintf("%v defeats %v at %.2f° separation", w.Winner, w.Loser, w.Separation),
		})
	}
	return out
}

func uniqueSorted(hs ...int) []int {
	sort.Ints(hs)
	out := hs[:0]
	for i, h := range hs {
		if i == 0 || h != hs[i-1] {
			out = append(out, h)
		}
	}
	return out
}

func containsGraha(gs []astro.Graha, g astro.Graha) bool {
	for _, x := range gs {
		if x == g {
			return true
		}
	}
	return false
}
