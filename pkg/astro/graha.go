package astro

import "strings"

// Graha is one of the nine classical bodies.
type Graha int

const (
	Sun Graha = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

// NumGrahas is the number of grahas, usable as an array bound.
const NumGrahas = 9

var grahaNames = [NumGrahas]string{
	"Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu",
}

func (g Graha) String() string {
	if g < 0 || int(g) >= NumGrahas {
		return "Graha(?)"
	}
	return grahaNames[g]
}

// Valid reports whether g is one of the nine grahas.
func (g Graha) Valid() bool { return g >= Sun && g <= Ketu }

// ParseGraha resolves a graha by case-insensitive English name.
func ParseGraha(name string) (Graha, bool) {
	for i, n := range grahaNames {
		if strings.EqualFold(n, name) {
			return Graha(i), true
		}
	}
	return 0, false
}

// Grahas returns all nine grahas in canonical order.
func Grahas() []Graha {
	return []Graha{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}
}

// Classical returns the seven visible grahas, excluding the lunar nodes.
func Classical() []Graha {
	return []Graha{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}
}

// TaraGrahas returns the five non-luminary, non-node grahas.
func TaraGrahas() []Graha {
	return []Graha{Mars, Mercury, Jupiter, Venus, Saturn}
}

// IsNode reports whether g is Rahu or Ketu.
func (g Graha) IsNode() bool { return g == Rahu || g == Ketu }

// IsLuminary reports whether g is the Sun or Moon.
func (g Graha) IsLuminary() bool { return g == Sun || g == Moon }

// Gender classifies grahas for drekkana and related rules.
type Gender int

const (
	Male Gender = iota
	Female
	Neuter
)

// Relationship is a natural (naisargika) relationship between two grahas.
type Relationship int

const (
	Neutral Relationship = iota
	Friend
	Enemy
)

func (r Relationship) String() string {
	switch r {
	case Friend:
		return "friend"
	case Enemy:
		return "enemy"
	}
	return "neutral"
}

// attributes are the fixed classical properties of a graha.
type attributes struct {
	own         []Sign
	exaltSign   Sign
	exaltDegree float64
	benefic     bool
	gender      Gender
	friends     []Graha
	enemies     []Graha
}

var grahaTable = [NumGrahas]attributes{
	Sun:     {own: []Sign{Leo}, exaltSign: Aries, exaltDegree: 10, gender: Male, friends: []Graha{Moon, Mars, Jupiter}, enemies: []Graha{Venus, Saturn}},
	Moon:    {own: []Sign{Cancer}, exaltSign: Taurus, exaltDegree: 3, benefic: true, gender: Female, friends: []Graha{Sun, Mercury}},
	Mars:    {own: []Sign{Aries, Scorpio}, exaltSign: Capricorn, exaltDegree: 28, gender: Male, friends: []Graha{Sun, Moon, Jupiter}, enemies: []Graha{Mercury}},
	Mercury: {own: []Sign{Gemini, Virgo}, exaltSign: Virgo, exaltDegree: 15, benefic: true, gender: Neuter, friends: []Graha{Sun, Venus}, enemies: []Graha{Moon}},
	Jupiter: {own: []Sign{Sagittarius, Pisces}, exaltSign: Cancer, exaltDegree: 5, benefic: true, gender: Male, friends: []Graha{Sun, Moon, Mars}, enemies: []Graha{Mercury, Venus}},
	Venus:   {own: []Sign{Taurus, Libra}, exaltSign: Pisces, exaltDegree: 27, benefic: true, gender: Female, friends: []Graha{Mercury, Saturn}, enemies: []Graha{Sun, Moon}},
	Saturn:  {own: []Sign{Capricorn, Aquarius}, exaltSign: Libra, exaltDegree: 20, gender: Neuter, friends: []Graha{Mercury, Venus}, enemies: []Graha{Sun, Moon, Mars}},
	Rahu:    {own: []Sign{Aquarius}, exaltSign: Gemini, exaltDegree: 15, gender: Neuter, friends: []Graha{Mercury, Venus, Saturn}, enemies: []Graha{Sun, Moon, Mars}},
	Ketu:    {own: []Sign{Scorpio}, exaltSign: Sagittarius, exaltDegree: 15, gender: Neuter, friends: []Graha{Mars, Jupiter}, enemies: []Graha{Mercury, Venus}},
}

// OwnSigns returns the signs g rules.
func (g Graha) OwnSigns() []Sign {
	return append([]Sign(nil), grahaTable[g].own...)
}

// Owns reports whether g rules sign s.
func (g Graha) Owns(s Sign) bool {
	for _, o := range grahaTable[g].own {
		if o == s {
			return true
		}
	}
	return false
}

// Exaltation returns the exaltation sign and the degree of deepest exaltation within it.
func (g Graha) Exaltation() (Sign, float64) {
	a := grahaTable[g]
	return a.exaltSign, a.exaltDegree
}

// Debilitation returns the sign opposite the exaltation sign and the same degree.
func (g Graha) Debilitation() (Sign, float64) {
	a := grahaTable[g]
	return a.exaltSign.Add(6), a.exaltDegree
}

// DeepExaltation is the sidereal longitude of deepest exaltation.
func (g Graha) DeepExaltation() float64 {
	a := grahaTable[g]
	return float64(a.exaltSign-1)*30 + a.exaltDegree
}

// IsBenefic reports the natural benefic classification.
func (g Graha) IsBenefic() bool { return grahaTable[g].benefic }

// Gender returns the classical gender of g.
func (g Graha) Gender() Gender { return grahaTable[g].gender }

// RelationTo returns how g naturally regards other.
func (g Graha) RelationTo(other Graha) Relationship {
	a := grahaTable[g]
	for _, f := range a.friends {
		if f == other {
			return Friend
		}
	}
	for _, e := range a.enemies {
		if e == other {
			return Enemy
		}
	}
	return Neutral
}
