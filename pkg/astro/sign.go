package astro

import "math"

// Sign is a zodiac sign numbered 1 (Aries) through 12 (Pisces).
type Sign int

const (
	Aries Sign = iota + 1
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Element of a sign.
type Element int

const (
	Fire Element = iota
	Earth
	Air
	Water
)

// Quality (modality) of a sign.
type Quality int

const (
	Movable Quality = iota
	Fixed
	Dual
)

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signLords = [12]Graha{Mars, Venus, Mercury, Moon, Sun, Mercury, Venus, Mars, Jupiter, Saturn, Saturn, Jupiter}

func (s Sign) String() string {
	if !s.Valid() {
		return "Sign(?)"
	}
	return signNames[s-1]
}

// Valid reports whether s is in 1..12.
func (s Sign) Valid() bool { return s >= Aries && s <= Pisces }

// Lord returns the graha ruling s.
func (s Sign) Lord() Graha { return signLords[s-1] }

// Element cycles fire, earth, air, water from Aries.
func (s Sign) Element() Element { return Element((s - 1) % 4) }

// Quality cycles movable, fixed, dual from Aries.
func (s Sign) Quality() Quality { return Quality((s - 1) % 3) }

// IsOdd reports whether s is an odd (masculine) sign.
func (s Sign) IsOdd() bool { return s%2 == 1 }

// Add returns the sign n places after s, wrapping around the zodiac.
// Add(0) is s itself; negative n counts backwards.
func (s Sign) Add(n int) Sign {
	return Sign(((int(s)-1+n)%12+12)%12 + 1)
}

// HouseFrom counts s inclusively from ref: the same sign is 1, the next 2.
func (s Sign) HouseFrom(ref Sign) int {
	return ((int(s)-int(ref))%12+12)%12 + 1
}

// SignOf returns the sign containing a sidereal longitude.
func SignOf(lon float64) Sign {
	i := int(math.Floor(Normalize(lon) / 30))
	if i > 11 {
		i = 11
	}
	return Sign(i + 1)
}

// DegreeInSign returns the offset of lon within its sign, in [0,30).
func DegreeInSign(lon float64) float64 {
	d := Normalize(lon) - float64(SignOf(lon)-1)*30
	if d < 0 {
		return 0
	}
	return d
}
