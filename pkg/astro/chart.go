package astro

// Dignity is the placement quality of a graha in a sign.
type Dignity string

const (
	Exalted      Dignity = "exalted"
	Moolatrikona Dignity = "moolatrikona"
	OwnSign      Dignity = "own"
	Friendly     Dignity = "friendly"
	NeutralSign  Dignity = "neutral"
	EnemySign    Dignity = "enemy"
	Debilitated  Dignity = "debilitated"
)

// Strong reports whether d is exalted, moolatrikona or own sign.
func (d Dignity) Strong() bool {
	return d == Exalted || d == Moolatrikona || d == OwnSign
}

// Ascendant is the rising point of a chart frame.
type Ascendant struct {
	Longitude float64   `json:"longitude"`
	Sign      Sign      `json:"sign"`
	Degree    float64   `json:"degree"`
	Nakshatra Nakshatra `json:"nakshatra"`
	Pada      int       `json:"pada"`
}

// NewAscendant derives the sign and mansion fields from a sidereal longitude.
func NewAscendant(lon float64) Ascendant {
	lon = Normalize(lon)
	n, pada, _ := NakshatraOf(lon)
	return Ascendant{
		Longitude: lon,
		Sign:      SignOf(lon),
		Degree:    DegreeInSign(lon),
		Nakshatra: n,
		Pada:      pada,
	}
}

// Position is one graha's placement within a chart frame.
type Position struct {
	Graha      Graha     `json:"graha"`
	Longitude  float64   `json:"longitude"`
	Sign       Sign      `json:"sign"`
	Degree     float64   `json:"degree"`
	Nakshatra  Nakshatra `json:"nakshatra"`
	Pada       int       `json:"pada"`
	House      int       `json:"house"`
	Retrograde bool      `json:"retrograde"`
	Speed      float64   `json:"speed"`
	Dignity    Dignity   `json:"dignity,omitempty"`
	Combust    bool      `json:"combust"`
}

// NewPosition fills the derived fields of a position from its sidereal
// longitude and daily speed. House, dignity and combustion are left to the
// packages that own those rules.
func NewPosition(g Graha, lon, speed float64) Position {
	lon = Normalize(lon)
	n, pada, _ := NakshatraOf(lon)
	return Position{
		Graha:      g,
		Longitude:  lon,
		Sign:       SignOf(lon),
		Degree:     DegreeInSign(lon),
		Nakshatra:  n,
		Pada:       pada,
		Retrograde: speed < 0,
		Speed:      speed,
	}
}

// Variant is one chart frame: the natal chart (division 1) or a divisional chart.
type Variant struct {
	Division  int                 `json:"division"`
	Ascendant Ascendant           `json:"ascendant"`
	Positions [NumGrahas]Position `json:"positions"`
}

// Of returns the position of g.
func (v *Variant) Of(g Graha) Position { return v.Positions[g] }

// SignOf returns the sign occupied by g.
func (v *Variant) SignOf(g Graha) Sign { return v.Positions[g].Sign }

// HouseOf returns the whole-sign house occupied by g.
func (v *Variant) HouseOf(g Graha) int { return v.Positions[g].House }

// In returns the grahas occupying sign s, in canonical order.
func (v *Variant) In(s Sign) []Graha {
	var out []Graha
	for _, p := range v.Positions {
		if p.Sign == s {
			out = append(out, p.Graha)
		}
	}
	return out
}

// InHouse returns the grahas occupying house h, in canonical order.
func (v *Variant) InHouse(h int) []Graha {
	var out []Graha
	for _, p := range v.Positions {
		if p.House == h {
			out = append(out, p.Graha)
		}
	}
	return out
}
