// Package kuta scores marriage compatibility with the eight-fold guna milan
// (ashtakoota) match of two natal Moons, out of 36 points.
package kuta

import (
	"fmt"
	"math"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
)

// MaxTotal is the highest attainable total.
const MaxTotal = 36

// Moon is the natal Moon placement a match is read from.
type Moon struct {
	Nakshatra astro.Nakshatra `json:"nakshatra"`
	Sign      astro.Sign      `json:"sign"`
}

// MoonOf reads the Moon of a rasi chart.
func MoonOf(v *astro.Variant) Moon {
	p := v.Of(astro.Moon)
	return Moon{Nakshatra: p.Nakshatra, Sign: p.Sign}
}

func (m Moon) valid() bool {
	return m.Nakshatra >= 1 && m.Nakshatra <= 27 && m.Sign >= astro.Aries && m.Sign <= astro.Pisces
}

// Kuta is one of the eight factors.
type Kuta struct {
	Name   string  `json:"name"`
	Max    float64 `json:"max"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail"`
}

// Match is the full guna milan.
type Match struct {
	Kutas      []Kuta  `json:"kutas"`
	Total      float64 `json:"total"`
	Max        float64 `json:"max"`
	Percent    float64 `json:"percent"`
	Assessment string  `json:"assessment"`
}

// Score matches the boy's Moon against the girl's. Varna and tara are
// read in that direction; the other kutas are symmetric.
func Score(boy, girl Moon) (*Match, error) {
	if !boy.valid() || !girl.valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "kuta needs moons with nakshatra 1-27 and a sign")
	}
	m := &Match{
		Kutas: []Kuta{
			varna(boy, girl),
			vashya(boy, girl),
			tara(boy, girl),
			yoni(boy, girl),
			maitri(boy, girl),
			gana(boy, girl),
			bhakoot(boy, girl),
			nadi(boy, girl),
		},
		Max: MaxTotal,
	}
	for _, k := range m.Kutas {
		m.Total += k.Score
	}
	m.Percent = math.Round(m.Total/MaxTotal*1000) / 10
	m.Assessment = Assess(m.Total)
	return m, nil
}

// Assess grades a total.
func Assess(total float64) string {
	switch {
	case total >= 28:
		return "Excellent"
	case total >= 24:
		return "Very Good"
	case total >= 18:
		return "Good"
	case total >= 12:
		return "Average"
	}
	return "Challenging"
}

// =============================================================================
// Kutas
// =============================================================================

var varnaNames = [5]string{1: "Shudra", 2: "Vaishya", 3: "Kshatriya", 4: "Brahmin"}

// varnaOf is indexed by nakshatra.
var varnaOf = [28]int{
	1: 4, 2: 2, 3: 3, 4: 1, 5: 4, 6: 3, 7: 2, 8: 4, 9: 2,
	10: 3, 11: 1, 12: 1, 13: 3, 14: 4, 15: 2, 16: 4, 17: 3, 18: 2,
	19: 4, 20: 1, 21: 3, 22: 2, 23: 4, 24: 3, 25: 2, 26: 4, 27: 3,
}

func varna(boy, girl Moon) Kuta {
	b, g := varnaOf[boy.Nakshatra], varnaOf[girl.Nakshatra]
	k := Kuta{Name: "Varna", Max: 1, Detail: fmt.Sprintf("%s and %s", varnaNames[b], varnaNames[g])}
	if b >= g {
		k.Score = 1
	}
	return k
}

const (
	quadruped = "Chatushpada"
	human     = "Manava"
	water     = "Jalachara"
	wild      = "Vanachara"
	insect    = "Keeta"
)

var vashyaGroup = [13]string{
	astro.Aries:       quadruped,
	astro.Taurus:      quadruped,
	astro.Gemini:      human,
	astro.Cancer:      water,
	astro.Leo:         wild,
	astro.Virgo:       human,
	astro.Libra:       human,
	astro.Scorpio:     insect,
	astro.Sagittarius: human,
	astro.Capricorn:   quadruped,
	astro.Aquarius:    human,
	astro.Pisces:      water,
}

// vashyaPartial scores unlike groups; pairs not listed score nothing.
var vashyaPartial = map[[2]string]float64{
	{human, quadruped}: 1,
	{water, human}:     1,
	{wild, quadruped}:  0.5,
	{wild, human}:      0.5,
}

func vashya(boy, girl Moon) Kuta {
	a, b := vashyaGroup[boy.Sign], vashyaGroup[girl.Sign]
	k := Kuta{Name: "Vashya", Max: 2, Detail: fmt.Sprintf("%s and %s", a, b)}
	switch {
	case a == b:
		k.Score = 2
	default:
		k.Score = vashyaPartial[[2]string{a, b}] + vashyaPartial[[2]string{b, a}]
	}
	return k
}

func tara(boy, girl Moon) Kuta {
	count := (int(girl.Nakshatra) - int(boy.Nakshatra) + 27) % 27
	if count == 0 {
		count = 27
	}
	k := Kuta{Name: "Tara", Max: 3}
	switch rem := count % 9; rem {
	case 1, 2, 4, 6, 8:
		k.Score, k.Detail = 3, fmt.Sprintf("tara %d, favourable", rem)
	case 0:
		k.Score, k.Detail = 1.5, "tara 9, neutral"
	default:
		k.Detail = fmt.Sprintf("tara %d, unfavourable", rem)
	}
	return k
}

// yoniOf is indexed by nakshatra.
var yoniOf = [28]string{
	1: "Horse", 2: "Elephant", 3: "Sheep", 4: "Serpent", 5: "Dog",
	6: "Dog", 7: "Cat", 8: "Sheep", 9: "Cat", 10: "Rat",
	11: "Rat", 12: "Cow", 13: "Buffalo", 14: "Tiger", 15: "Buffalo",
	16: "Tiger", 17: "Deer", 18: "Deer", 19: "Dog", 20: "Monkey",
	21: "Mongoose", 22: "Monkey", 23: "Lion", 24: "Horse", 25: "Lion",
	26: "Cow", 27: "Elephant",
}

// yoniEnemy pairs each animal with its sworn enemy.
var yoniEnemy = map[string]string{
	"Horse": "Buffalo", "Buffalo": "Horse",
	"Elephant": "Lion", "Lion": "Elephant",
	"Sheep": "Monkey", "Monkey": "Sheep",
	"Serpent": "Mongoose", "Mongoose": "Serpent",
	"Dog": "Deer", "Deer": "Dog",
	"Cat": "Rat", "Rat": "Cat",
	"Cow": "Tiger", "Tiger": "Cow",
}

func yoni(boy, girl Moon) Kuta {
	a, b := yoniOf[boy.Nakshatra], yoniOf[girl.Nakshatra]
	k := Kuta{Name: "Yoni", Max: 4}
	switch {
	case a == b:
		k.Score, k.Detail = 4, fmt.Sprintf("both %s", a)
	case yoniEnemy[a] == b:
		k.Detail = fmt.Sprintf("%s and %s are enemies", a, b)
	default:
		k.Score, k.Detail = 1, fmt.Sprintf("%s and %s", a, b)
	}
	return k
}

func maitri(boy, girl Moon) Kuta {
	a, b := boy.Sign.Lord(), girl.Sign.Lord()
	k := Kuta{Name: "Graha Maitri", Max: 5}
	ab, ba := a.RelationTo(b), b.RelationTo(a)
	switch {
	case a == b:
		k.Score, k.Detail = 5, fmt.Sprintf("both ruled by %v", a)
	case ab == astro.Friend && ba == astro.Friend:
		k.Score, k.Detail = 5, fmt.Sprintf("%v and %v are friends", a, b)
	case ab == astro.Friend && ba != astro.Enemy, ba == astro.Friend && ab != astro.Enemy:
		k.Score, k.Detail = 4, fmt.Sprintf("%v and %v are friendly and neutral", a, b)
	case ab == astro.Neutral && ba == astro.Neutral:
		k.Score, k.Detail = 3, fmt.Sprintf("%v and %v are neutral", a, b)
	case ab == astro.Enemy && ba == astro.Enemy:
		k.Detail = fmt.Sprintf("%v and %v are enemies", a, b)
	default:
		k.Score, k.Detail = 1, fmt.Sprintf("one of %v and %v is hostile", a, b)
	}
	return k
}

const (
	deva     = "Deva"
	manushya = "Manushya"
	rakshasa = "Rakshasa"
)

// ganaOf is indexed by nakshatra.
var ganaOf = [28]string{
	1: deva, 2: manushya, 3: rakshasa, 4: manushya, 5: deva, 6: manushya,
	7: deva, 8: deva, 9: rakshasa, 10: rakshasa, 11: manushya, 12: manushya,
	13: deva, 14: rakshasa, 15: deva, 16: rakshasa, 17: deva, 18: rakshasa,
	19: rakshasa, 20: manushya, 21: manushya, 22: deva, 23: rakshasa, 24: rakshasa,
	25: manushya, 26: manushya, 27: deva,
}

func gana(boy, girl Moon) Kuta {
	a, b := ganaOf[boy.Nakshatra], ganaOf[girl.Nakshatra]
	k := Kuta{Name: "Gana", Max: 6, Detail: fmt.Sprintf("%s and %s", a, b)}
	switch {
	case a == b:
		k.Score = 6
	case a != rakshasa && b != rakshasa:
		k.Score = 5
	case a != deva && b != deva:
		k.Score = 1
	}
	return k
}

func bhakoot(boy, girl Moon) Kuta {
	d := girl.Sign.HouseFrom(boy.Sign)
	k := Kuta{Name: "Bhakoot", Max: 7, Detail: fmt.Sprintf("%d/%d", d, boy.Sign.HouseFrom(girl.Sign))}
	switch d {
	case 2, 12, 6, 8:
		k.Detail += ", unfavourable"
	default:
		k.Score = 7
	}
	return k
}

var nadiNames = [3]string{"Vata", "Pitta", "Kapha"}

func nadi(boy, girl Moon) Kuta {
	a, b := nadiNames[(boy.Nakshatra-1)%3], nadiNames[(girl.Nakshatra-1)%3]
	k := Kuta{Name: "Nadi", Max: 8}
	if a == b {
		k.Detail = fmt.Sprintf("both %s", a)
		return k
	}
	k.Score, k.Detail = 8, fmt.Sprintf("%s and %s", a, b)
	return k
}
