package astro

import "math"

// Nakshatra is a lunar mansion numbered 1 (Ashwini) through 27 (Revati).
type Nakshatra int

// NakshatraSpan is the arc of one nakshatra: 13°20′.
const NakshatraSpan = 360.0 / 27

// PadaSpan is the arc of one quarter-nakshatra: 3°20′.
const PadaSpan = NakshatraSpan / 4

var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// VimshottariOrder is the cyclic order of dasha lords, which is also the
// order of nakshatra lords starting from Ashwini.
var VimshottariOrder = [9]Graha{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

func (n Nakshatra) String() string {
	if n < 1 || n > 27 {
		return "Nakshatra(?)"
	}
	return nakshatraNames[n-1]
}

// Lord returns the Vimshottari lord of the nakshatra.
func (n Nakshatra) Lord() Graha { return VimshottariOrder[(int(n)-1)%9] }

// Start returns the sidereal longitude at which n begins.
func (n Nakshatra) Start() float64 { return float64(n-1) * NakshatraSpan }

// NakshatraOf returns the nakshatra, pada (1–4) and the arc already
// traversed within the nakshatra for a sidereal longitude.
func NakshatraOf(lon float64) (n Nakshatra, pada int, into float64) {
	lon = Normalize(lon)
	i := int(math.Floor(lon / NakshatraSpan))
	if i > 26 {
		i = 26
	}
	into = lon - float64(i)*NakshatraSpan
	if into < 0 {
		into = 0
	}
	pada = int(math.Floor(into/PadaSpan)) + 1
	if pada > 4 {
		pada = 4
	}
	return Nakshatra(i + 1), pada, into
}
