// Package muhurta scores how well an instant suits an undertaking for one
// native.
//
// Five factors are scored from 0 to 10 and combined with fixed weights
// into a total from 0 to 100:
//
//   - gochara: the transiting Moon's house from the natal Moon;
//   - vara: the weekday lord against the event, and against the running
//     maha dasha lord;
//   - nakshatra: the transiting Moon's mansion against the event;
//   - transit: full aspects and tight conjunctions from transiting grahas
//     onto natal ones;
//   - ashtakavarga: the sarva points of the transiting Moon's sign.
package muhurta

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/jyotish/pkg/ashtakavarga"
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/transit"
)

// Event is the kind of undertaking being timed.
type Event string

const (
	Court    Event = "court"
	Business Event = "business"
	Travel   Event = "travel"
	Ceremony Event = "ceremony"
	Medical  Event = "medical"
	General  Event = "general"
)

// Events lists the supported event kinds.
func Events() []Event {
	return []Event{Court, Business, Travel, Ceremony, Medical, General}
}

// ParseEvent resolves an event kind by name. The empty string selects General.
func ParseEvent(s string) (Event, error) {
	if s == "" {
		return General, nil
	}
	e := Event(strings.ToLower(s))
	if !slices.Contains(Events(), e) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown event kind %q", s)
	}
	return e, nil
}

// Label is the verbal grade of a total score.
type Label string

const (
	HighlyAuspicious Label = "highly auspicious"
	Auspicious       Label = "auspicious"
	Moderate         Label = "moderate"
	Challenging      Label = "challenging"
	Inauspicious     Label = "inauspicious"
)

// LabelOf grades a total score.
func LabelOf(total float64) Label {
	switch {
	case total >= 80:
		return HighlyAuspicious
	case total >= 60:
		return Auspicious
	case total >= 40:
		return Moderate
	case total >= 25:
		return Challenging
	}
	return Inauspicious
}

// Factor weights; they sum to one.
const (
	weightGochara      = 0.25
	weightVara         = 0.15
	weightNakshatra    = 0.20
	weightTransit      = 0.25
	weightAshtakavarga = 0.15
)

// maxTransitFactors bounds the transit notes kept in Evaluation.Factors.
const maxTransitFactors = 6

// Options are the optional natal inputs.
type Options struct {
	Event Event
	// DashaLord is the maha dasha lord running at the instant, if known.
	DashaLord *astro.Graha
	// Ashtakavarga supplies sarva points. Without it the factor is neutral.
	Ashtakavarga *ashtakavarga.Result
}

// MoonTransit describes the transiting Moon.
type MoonTransit struct {
	Sign       astro.Sign      `json:"sign"`
	Nakshatra  astro.Nakshatra `json:"nakshatra"`
	FromMoon   int             `json:"house_from_moon"`
	Favourable bool            `json:"favourable"`
}

// Scores are the five factors, each in [0, 10].
type Scores struct {
	Gochara      float64 `json:"gochara"`
	Vara         float64 `json:"vara"`
	Nakshatra    float64 `json:"nakshatra"`
	Transit      float64 `json:"transit"`
	Ashtakavarga float64 `json:"ashtakavarga"`
}

// Evaluation is the verdict for one instant.
type Evaluation struct {
	Instant         time.Time    `json:"instant"`
	Event           Event        `json:"event"`
	Weekday         time.Weekday `json:"weekday"`
	VaraLord        astro.Graha  `json:"vara_lord"`
	Moon            MoonTransit  `json:"moon"`
	Scores          Scores       `json:"scores"`
	Total           float64      `json:"total"`
	Label           Label        `json:"label"`
	Factors         []string     `json:"factors"`
	Recommendations []string     `json:"recommendations"`
}

// Evaluate scores the sky snapshot for the native of natal. The weekday
// is read from at in its own location; a zero at falls back to the
// snapshot instant in UTC.
func Evaluate(natal *astro.Variant, sky *transit.Snapshot, at time.Time, opts Options) (*Evaluation, error) {
	if natal == nil || sky == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "muhurta needs a natal chart and a sky snapshot")
	}
	if at.IsZero() {
		at = sky.Instant
	}
	event := opts.Event
	if event == "" {
		event = General
	}
	if !slices.Contains(Events(), event) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown event kind %q", event)
	}

	moon := sky.Positions[astro.Moon]
	e := &Evaluation{
		Instant:  at,
		Event:    event,
		Weekday:  at.Weekday(),
		VaraLord: varaLords[at.Weekday()],
		Moon: MoonTransit{
			Sign:      moon.Sign,
			Nakshatra: moon.Nakshatra,
			FromMoon:  moon.Sign.HouseFrom(natal.SignOf(astro.Moon)),
		},
	}

	var notes []string
	e.Scores.Gochara, e.Moon.Favourable, notes = gochara(e.Moon.FromMoon)
	e.Factors = append(e.Factors, notes...)
	s, notes := vara(e.VaraLord, event, opts.DashaLord)
	e.Scores.Vara = s
	e.Factors = append(e.Factors, notes...)
	s, notes = nakshatra(moon.Nakshatra, event)
	e.Scores.Nakshatra = s
	e.Factors = append(e.Factors, notes...)
	s, notes = transits(natal, sky)
	e.Scores.Transit = s
	e.Factors = append(e.Factors, notes...)
	s, notes = sarva(moon.Sign, opts.Ashtakavarga)
	e.Scores.Ashtakavarga = s
	e.Factors = append(e.Factors, notes...)

	total := (e.Scores.Gochara*weightGochara +
		e.Scores.Vara*weightVara +
		e.Scores.Nakshatra*weightNakshatra +
		e.Scores.Transit*weightTransit +
		e.Scores.Ashtakavarga*weightAshtakavarga) * 10
	e.Total = math.Round(clamp(total, 0, 100)*10) / 10
	e.Label = LabelOf(e.Total)
	e.Recommendations = recommend(e)
	return e, nil
}

// Candidate is one instant to compare, with its sky and any per-instant
// options such as the running dasha lord.
type Candidate struct {
	At      time.Time
	Sky     *transit.Snapshot
	Options Options
}

// Compare evaluates each candidate and returns the results best first.
// Ties keep the candidates' order.
func Compare(natal *astro.Variant, candidates []Candidate) ([]*Evaluation, error) {
	out := make([]*Evaluation, 0, len(candidates))
	for _, c := range candidates {
		e, err := Evaluate(natal, c.Sky, c.At, c.Options)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b *Evaluation) int {
		switch {
		case a.Total > b.Total:
			return -1
		case a.Total < b.Total:
			return 1
		}
		return 0
	})
	return out, nil
}

// =============================================================================
// Factors
// =============================================================================

var varaLords = [7]astro.Graha{
	time.Sunday:    astro.Sun,
	time.Monday:    astro.Moon,
	time.Tuesday:   astro.Mars,
	time.Wednesday: astro.Mercury,
	time.Thursday:  astro.Jupiter,
	time.Friday:    astro.Venus,
	time.Saturday:  astro.Saturn,
}

func gochara(h int) (float64, bool, []string) {
	switch h {
	case 1, 3, 6, 11:
		return 9, true, []string{fmt.Sprintf("Moon transits house %d from the natal Moon, strongly favourable", h)}
	case 7, 10:
		return 7.5, true, []string{fmt.Sprintf("Moon transits house %d from the natal Moon, favourable", h)}
	case 8, 12:
		return 2, false, []string{fmt.Sprintf("Moon transits house %d from the natal Moon, a difficult house", h)}
	}
	return 3.5, false, []string{fmt.Sprintf("Moon transits house %d from the natal Moon, unfavourable", h)}
}

// favoured lists the grahas that suit each event, best first.
var favoured = map[Event][]astro.Graha{
	Court:    {astro.Jupiter, astro.Sun, astro.Mars},
	Business: {astro.Mercury, astro.Jupiter, astro.Venus},
	Travel:   {astro.Moon, astro.Mercury, astro.Jupiter},
	Ceremony: {astro.Jupiter, astro.Venus, astro.Moon},
	Medical:  {astro.Sun, astro.Mars, astro.Jupiter},
	General:  {astro.Jupiter, astro.Venus, astro.Mercury},
}

func vara(lord astro.Graha, event Event, dasha *astro.Graha) (float64, []string) {
	var notes []string
	score := 5.0
	switch i := slices.Index(favoured[event], lord); {
	case i == 0:
		score = 9
		notes = append(notes, fmt.Sprintf("%v's day is the ideal day for %s", lord, event))
	case i > 0:
		score = 7.5
		notes = append(notes, fmt.Sprintf("%v's day is favourable for %s", lord, event))
	case lord == astro.Saturn && (event == Court || event == Travel),
		(lord == astro.Saturn || lord == astro.Mars) && event == Ceremony:
		score = 3
		notes = append(notes, fmt.Sprintf("%v's day is unsuited to %s", lord, event))
	default:
		notes = append(notes, fmt.Sprintf("%v's day is neutral for %s", lord, event))
	}
	if dasha != nil && *dasha == lord {
		score = math.Min(10, score+1.5)
		notes = append(notes, fmt.Sprintf("the day lord runs the current maha dasha (%v)", lord))
	}
	return score, notes
}

// Nakshatra groups by nature.
var (
	fixedNakshatras   = []astro.Nakshatra{4, 12, 21, 26}
	movableNakshatras = []astro.Nakshatra{1, 5, 7, 8, 13, 15, 17, 22, 27}
	sharpNakshatras   = []astro.Nakshatra{6, 9, 18, 19}
	softNakshatras    = []astro.Nakshatra{5, 14, 17, 27}
)

// affinity lists the nakshatra groups that suit each event, best first.
var affinity = map[Event][][]astro.Nakshatra{
	Court:    {sharpNakshatras, movableNakshatras},
	Business: {movableNakshatras, fixedNakshatras},
	Travel:   {movableNakshatras},
	Ceremony: {fixedNakshatras, softNakshatras},
	Medical:  {sharpNakshatras, movableNakshatras},
	General:  {movableNakshatras, fixedNakshatras, softNakshatras},
}

func nakshatra(n astro.Nakshatra, event Event) (float64, []string) {
	for rank, group := range affinity[event] {
		if !slices.Contains(group, n) {
			continue
		}
		if rank == 0 {
			return 9, []string{fmt.Sprintf("%v is highly suitable for %s", n, event)}
		}
		return 7, []string{fmt.Sprintf("%v is suitable for %s", n, event)}
	}
	switch {
	case event == Ceremony && slices.Contains(sharpNakshatras, n):
		return 2.5, []string{fmt.Sprintf("%v is a sharp nakshatra, inauspicious for ceremonies", n)}
	case event == Court && slices.Contains(softNakshatras, n):
		return 4, []string{fmt.Sprintf("%v is a soft nakshatra, weak for court matters", n)}
	}
	return 5, []string{fmt.Sprintf("%v is neutral for %s", n, event)}
}

// conjunctionOrb is the widest separation counted as a tight conjunction.
const conjunctionOrb = 5.0

// transits nets the helpful and harmful contacts of the sky on the natal
// grahas. Jupiter and Venus help by full aspect; Saturn and Rahu harm.
// Tight conjunctions help from Jupiter, Venus and Mercury and harm from
// Saturn and Rahu. Ketu's contacts are not counted.
func transits(natal *astro.Variant, sky *transit.Snapshot) (float64, []string) {
	var notes []string
	net := 0
	for _, g := range astro.Grahas() {
		if g == astro.Ketu {
			continue
		}
		t := sky.Positions[g]
		for _, n := range astro.Grahas() {
			np := natal.Of(n)
			if house.IsFull(g, np.Sign.HouseFrom(t.Sign)) {
				switch g {
				case astro.Jupiter, astro.Venus:
					net++
					if g == astro.Jupiter {
						notes = append(notes, fmt.Sprintf("transiting Jupiter aspects natal %v", n))
					}
				case astro.Saturn, astro.Rahu:
					net--
					notes = append(notes, fmt.Sprintf("transiting %v aspects natal %v", g, n))
				}
			}
			if t.Sign != np.Sign {
				continue
			}
			orb := astro.Separation(t.Longitude, np.Longitude)
			if orb > conjunctionOrb {
				continue
			}
			switch g {
			case astro.Jupiter, astro.Venus, astro.Mercury:
				net++
				notes = append(notes, fmt.Sprintf("transiting %v conjoins natal %v within %.1f°", g, n, orb))
			case astro.Saturn, astro.Rahu:
				net--
				notes = append(notes, fmt.Sprintf("transiting %v conjoins natal %v within %.1f°", g, n, orb))
			}
		}
	}
	if len(notes) > maxTransitFactors {
		notes = append(notes[:maxTransitFactors], "further transit contacts omitted")
	}
	return clamp(5+0.7*float64(net), 0, 10), notes
}

func sarva(s astro.Sign, av *ashtakavarga.Result) (float64, []string) {
	if av == nil {
		return 5, nil
	}
	points := av.SarvaOf(s)
	var score float64
	var grade string
	switch {
	case points >= 34:
		score, grade = 9, "strongly supportive"
	case points >= 30:
		score, grade = 7.5, "above average"
	case points >= 25:
		score, grade = 5, "average"
	case points >= 20:
		score, grade = 3.5, "below average"
	default:
		score, grade = 2, "weak"
	}
	return score, []string{fmt.Sprintf("%d sarva points in the Moon's transit sign, %s", points, grade)}
}

// =============================================================================
// Recommendations
// =============================================================================

// nakshatraHints names mansions to wait for when the Moon's is unsuitable.
var nakshatraHints = map[Event]string{
	Ceremony: "Rohini, Uttara Phalguni or Uttara Ashadha",
	Court:    "Ardra, Jyeshtha or Mula",
	Travel:   "Ashwini, Pushya or Hasta",
}

func recommend(e *Evaluation) []string {
	var out []string
	switch e.Label {
	case HighlyAuspicious:
		out = append(out, fmt.Sprintf("an excellent time for %s", e.Event))
	case Auspicious:
		out = append(out, fmt.Sprintf("a good time for %s", e.Event))
	case Moderate:
		out = append(out, fmt.Sprintf("acceptable for %s; consider alternatives", e.Event))
	case Challenging:
		out = append(out, fmt.Sprintf("significant obstacles for %s; consider postponing", e.Event))
	default:
		out = append(out, fmt.Sprintf("choose a different time for %s", e.Event))
	}
	if !e.Moon.Favourable {
		out = append(out, "wait for the Moon to reach a better house from the natal Moon")
	}
	if best := favoured[e.Event]; !slices.Contains(best, e.VaraLord) {
		day := time.Weekday(slices.Index(varaLords[:], best[0]))
		out = append(out, fmt.Sprintf("%s (%v's day) suits %s best", day, best[0], e.Event))
	}
	suited := false
	for _, group := range affinity[e.Event] {
		suited = suited || slices.Contains(group, e.Moon.Nakshatra)
	}
	if hint, ok := nakshatraHints[e.Event]; ok && !suited {
		out = append(out, fmt.Sprintf("look for the Moon in %s", hint))
	}
	return out
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
