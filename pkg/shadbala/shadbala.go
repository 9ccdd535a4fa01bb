// Package shadbala computes the six-fold strength of the nine grahas, in
// virupas.
//
// The six components are positional (sthana), directional (dig),
// temporal (kala), motional (chesta), natural (naisargika) and aspectual
// (drik). Their sum is compared with a fixed per-graha minimum; a ratio
// below one marks the graha as functionally weak.
//
// Rahu and Ketu are scored with the same formulas where those apply.
// Their motion is always mean retrograde, so chesta bala is a flat 30.
//
// Temporal strength needs a sunrise. Sunrise is taken as 06:00 local
// mean time, so day, night, weekday and planetary hour all follow from
// the instant and the geographic longitude.
package shadbala

import (
	"math"
	"time"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/dignity"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
)

// Saptavarga are the divisions scored by saptavargaja bala.
var Saptavarga = []int{1, 2, 3, 7, 9, 12, 30}

var (
	naisargika = [astro.NumGrahas]float64{60, 51.43, 17.14, 25.71, 34.29, 42.86, 8.57, 30, 30}
	required   = [astro.NumGrahas]float64{390, 360, 300, 420, 390, 330, 300, 300, 300}
	meanSpeed  = [7]float64{0.9856, 13.1764, 0.5240, 0.9856, 0.0831, 0.9856, 0.0335}
)

// strongHouse is the house in which each graha gains full directional strength.
var strongHouse = [astro.NumGrahas]int{
	astro.Sun: 10, astro.Moon: 4, astro.Mars: 10, astro.Mercury: 1,
	astro.Jupiter: 1, astro.Venus: 4, astro.Saturn: 7,
	astro.Rahu: 10, astro.Ketu: 4,
}

// Input is everything the strength formulas read from a chart.
type Input struct {
	Natal *astro.Variant
	// Vargas holds annotated divisional charts keyed by division. It must
	// include every division in Saptavarga; D1 may be omitted in favour of Natal.
	Vargas map[int]*astro.Variant

	Instant      time.Time // birth moment; converted to local mean time internally
	Longitude    float64   // geographic longitude, east positive
	SiderealTime float64   // local sidereal time in hours
	Obliquity    float64
	Ayanamsha    float64
	WarLosers    [astro.NumGrahas]bool
}

// Strength is the full breakdown for one graha.
type Strength struct {
	Graha astro.Graha `json:"graha"`

	Uchcha       float64 `json:"uchcha"`
	Saptavargaja float64 `json:"saptavargaja"`
	Ojayugma     float64 `json:"ojayugma"`
	Kendradi     float64 `json:"kendradi"`
	Drekkana     float64 `json:"drekkana"`
	Sthana       float64 `json:"sthana"`

	Dig float64 `json:"dig"`

	Nathonnatha float64 `json:"nathonnatha"`
	Paksha      float64 `json:"paksha"`
	Tribhaga    float64 `json:"tribhaga"`
	Vara        float64 `json:"vara"`
	Hora        float64 `json:"hora"`
	Kala        float64 `json:"kala"`

	Chesta     float64 `json:"chesta"`
	Naisargika float64 `json:"naisargika"`
	Drik       float64 `json:"drik"`

	Total    float64 `json:"total"`
	Required float64 `json:"required"`
	Ratio    float64 `json:"ratio"`
	Weak     bool    `json:"weak"`
}

// Compute returns one Strength per graha in canonical order.
func Compute(in Input) ([]Strength, error) {
	if in.Natal == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "shadbala needs a natal chart")
	}
	vargas := make(map[int]*astro.Variant, len(Saptavarga))
	for _, d := range Saptavarga {
		v := in.Vargas[d]
		if v == nil && d == 1 {
			v = in.Natal
		}
		if v == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "shadbala needs the D%d chart", d)
		}
		vargas[d] = v
	}

	sun := in.Natal.Of(astro.Sun)
	moon := in.Natal.Of(astro.Moon)
	hourAngle := astro.Normalize(in.SiderealTime*15-rightAscension(sun.Longitude+in.Ayanamsha, in.Obliquity)+180) - 180
	elongation := astro.Separation(moon.Longitude, sun.Longitude)
	clock := localClock(in.Instant, in.Longitude)

	out := make([]Strength, 0, astro.NumGrahas)
	for _, g := range astro.Grahas() {
		p := in.Natal.Of(g)
		s := Strength{Graha: g}

		s.Uchcha = Uchcha(g, p.Longitude)
		for _, d := range Saptavarga {
			s.Saptavargaja += dignity.Points(dignityIn(vargas[d], g))
		}
		s.Ojayugma = ojayugma(g, p.Sign) + ojayugma(g, vargas[9].SignOf(g))
		s.Kendradi = kendradi(p.House)
		s.Drekkana = drekkana(g, p.Degree)
		s.Sthana = s.Uchcha + s.Saptavargaja + s.Ojayugma + s.Kendradi + s.Drekkana

		s.Dig = Dig(g, p.Longitude, in.Natal.Ascendant.Longitude)

		s.Nathonnatha = Nathonnatha(g, hourAngle)
		s.Paksha = Paksha(g, elongation)
		if g == astro.Jupiter || clock.tribhagaLord == g {
			s.Tribhaga = 60
		}
		if clock.varaLord == g {
			s.Vara = 45
		}
		if clock.horaLord == g {
			s.Hora = 60
		}
		s.Kala = s.Nathonnatha + s.Paksha + s.Tribhaga + s.Vara + s.Hora

		s.Chesta = Chesta(g, p.Speed, in.WarLosers[g])
		s.Naisargika = naisargika[g]
		s.Drik = drik(in.Natal, g)

		s.Total = s.Sthana + s.Dig + s.Kala + s.Chesta + s.Naisargika + s.Drik
		s.Required = required[g]
		s.Ratio = s.Total / s.Required
		s.Weak = s.Ratio < 1
		out = append(out, s)
	}
	return out, nil
}

// =============================================================================
// Sthana bala
// =============================================================================

// Uchcha is the distance from the deep debilitation point divided by 3.
func Uchcha(g astro.Graha, lon float64) float64 {
	deb := astro.Normalize(g.DeepExaltation() + 180)
	return astro.Separation(lon, deb) / 3
}

func dignityIn(v *astro.Variant, g astro.Graha) astro.Dignity {
	p := v.Of(g)
	if p.Dignity != "" {
		return p.Dignity
	}
	return dignity.Evaluate(g, p.Longitude)
}

func ojayugma(g astro.Graha, s astro.Sign) float64 {
	wantOdd := g != astro.Moon && g != astro.Venus
	if s.IsOdd() == wantOdd {
		return 15
	}
	return 0
}

func kendradi(h int) float64 {
	switch {
	case house.IsKendra(h):
		return 60
	case house.IsPanaphara(h):
		return 30
	}
	return 15
}

func drekkana(g astro.Graha, deg float64) float64 {
	decan := int(deg/10) + 1
	want := map[astro.Gender]int{astro.Male: 1, astro.Neuter: 2, astro.Female: 3}[g.Gender()]
	if decan == want {
		return 15
	}
	return 0
}

// =============================================================================
// Dig bala
// =============================================================================

// Dig is the distance from the powerless point divided by 3. The
// powerless point is opposite the cusp of g's strong house, with cusps
// taken at 30° intervals from the ascendant degree.
func Dig(g astro.Graha, lon, asc float64) float64 {
	strong := asc + float64(strongHouse[g]-1)*30
	return astro.Separation(lon, strong+180) / 3
}

// =============================================================================
// Kala bala
// =============================================================================

// Nathonnatha scores day and night strength from the Sun's hour angle
// in degrees, zero at local noon.
func Nathonnatha(g astro.Graha, hourAngle float64) float64 {
	day := (180 - math.Abs(hourAngle)) / 3
	switch g {
	case astro.Mercury:
		return 60
	case astro.Sun, astro.Jupiter, astro.Venus:
		return day
	}
	return 60 - day
}

// Paksha scores the lunar phase from the Sun–Moon elongation in [0,180].
func Paksha(g astro.Graha, elongation float64) float64 {
	v := elongation / 3
	if g.IsBenefic() {
		return v
	}
	return 60 - v
}

var (
	weekdayLords = [7]astro.Graha{astro.Sun, astro.Moon, astro.Mars, astro.Mercury, astro.Jupiter, astro.Venus, astro.Saturn}
	chaldean     = [7]astro.Graha{astro.Saturn, astro.Jupiter, astro.Mars, astro.Sun, astro.Venus, astro.Mercury, astro.Moon}
	dayThirds    = [3]astro.Graha{astro.Mercury, astro.Sun, astro.Saturn}
	nightThirds  = [3]astro.Graha{astro.Moon, astro.Venus, astro.Mars}
)

type clock struct {
	varaLord     astro.Graha
	horaLord     astro.Graha
	tribhagaLord astro.Graha
}

// localClock derives weekday, planetary hour and third-of-day lords from
// the local mean time at longitude, with sunrise at 06:00 and sunset at
// 18:00.
func localClock(instant time.Time, longitude float64) clock {
	lmt := instant.UTC().Add(time.Duration(longitude / 15 * float64(time.Hour)))
	hours := float64(lmt.Hour()) + float64(lmt.Minute())/60 + float64(lmt.Second())/3600
	weekday := lmt.Weekday()
	sinceSunrise := hours - 6
	if sinceSunrise < 0 {
		sinceSunrise += 24
		weekday = (weekday + 6) % 7
	}

	var c clock
	c.varaLord = weekdayLords[weekday]
	start := 0
	for i, g := range chaldean {
		if g == c.varaLord {
			start = i
		}
	}
	c.horaLord = chaldean[(start+int(sinceSunrise))%7]

	third := int(sinceSunrise/4) % 6
	if third < 3 {
		c.tribhagaLord = dayThirds[third]
	} else {
		c.tribhagaLord = nightThirds[third-3]
	}
	return c
}

// rightAscension converts a tropical ecliptic longitude on the ecliptic to
// right ascension in degrees.
func rightAscension(lon, eps float64) float64 {
	l := lon * math.Pi / 180
	e := eps * math.Pi / 180
	return astro.Normalize(math.Atan2(math.Sin(l)*math.Cos(e), math.Cos(l)) * 180 / math.Pi)
}

// =============================================================================
// Chesta, drik
// =============================================================================

// Chesta scores motion against mean daily speed. The luminaries gain by
// moving fast; the tara grahas gain by moving slowly, and score 60 while
// retrograde. The nodes always score 30. A war loser loses
// dignity.WarPenalty.
func Chesta(g astro.Graha, speed float64, lostWar bool) float64 {
	if g.IsNode() {
		return 30
	}
	mean := meanSpeed[g]
	var v float64
	switch {
	case g.IsLuminary():
		v = 30 + 30*(speed-mean)/mean
	case speed < 0:
		v = 60
	default:
		v = 30 + 30*(mean-speed)/mean
	}
	v = math.Max(0, math.Min(60, v))
	if lostWar {
		v = math.Max(0, v-dignity.WarPenalty)
	}
	return v
}

// drik sums a quarter of every aspect the other grahas cast on g's sign,
// positive from benefics and negative from malefics. The nodes count as
// malefics.
func drik(v *astro.Variant, g astro.Graha) float64 {
	target := v.SignOf(g)
	var sum float64
	for _, o := range astro.Grahas() {
		if o == g {
			continue
		}
		s := house.Casts(o, v.SignOf(o), target) * 60 / 100 / 4
		if o.IsBenefic() {
			sum += s
		} else {
			sum -= s
		}
	}
	return sum
}
