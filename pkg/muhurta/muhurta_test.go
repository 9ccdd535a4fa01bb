package muhurta

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/jyotish/pkg/ashtakavarga"
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/transit"
)

var (
	thursday = time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
)

// natalAt places every natal graha at lon.
func natalAt(lon float64) *astro.Variant {
	v := &astro.Variant{Division: 1}
	for _, g := range astro.Grahas() {
		v.Positions[g] = astro.NewPosition(g, lon, 1)
	}
	return v
}

// skyAt places every transiting graha at base, then applies overrides.
func skyAt(base float64, overrides map[astro.Graha]float64) *transit.Snapshot {
	s := &transit.Snapshot{Instant: thursday}
	for _, g := range astro.Grahas() {
		lon := base
		if o, ok := overrides[g]; ok {
			lon = o
		}
		s.Positions[g] = astro.NewPosition(g, lon, 1)
	}
	return s
}

func TestLabelOf(t *testing.T) {
	tests := []struct {
		total float64
		want  Label
	}{
		{100, HighlyAuspicious},
		{80, HighlyAuspicious},
		{79.9, Auspicious},
		{60, Auspicious},
		{40, Moderate},
		{25, Challenging},
		{24.9, Inauspicious},
		{0, Inauspicious},
	}
	for _, tt := range tests {
		if got := LabelOf(tt.total); got != tt.want {
			t.Errorf("LabelOf(%v) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in      string
		want    Event
		wantErr bool
	}{
		{"", General, false},
		{"court", Court, false},
		{"Travel", Travel, false},
		{"MEDICAL", Medical, false},
		{"wedding", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEvent(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ParseEvent(%q) error = %v, want invalid input", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseEvent(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestGochara(t *testing.T) {
	tests := []struct {
		house      int
		score      float64
		favourable bool
	}{
		{1, 9, true},
		{3, 9, true},
		{6, 9, true},
		{11, 9, true},
		{7, 7.5, true},
		{10, 7.5, true},
		{8, 2, false},
		{12, 2, false},
		{2, 3.5, false},
		{4, 3.5, false},
		{5, 3.5, false},
		{9, 3.5, false},
	}
	for _, tt := range tests {
		score, fav, notes := gochara(tt.house)
		if score != tt.score || fav != tt.favourable {
			t.Errorf("gochara(%d) = %v, %v, want %v, %v", tt.house, score, fav, tt.score, tt.favourable)
		}
		if len(notes) != 1 {
			t.Errorf("gochara(%d) notes = %v, want one", tt.house, notes)
		}
	}
}

func TestVara(t *testing.T) {
	jupiter, moon, sun := astro.Jupiter, astro.Moon, astro.Sun
	tests := []struct {
		name  string
		lord  astro.Graha
		event Event
		dasha *astro.Graha
		want  float64
	}{
		{"ideal day", astro.Jupiter, Court, nil, 9},
		{"favourable day", astro.Sun, Court, nil, 7.5},
		{"saturday for court", astro.Saturn, Court, nil, 3},
		{"saturday for travel", astro.Saturn, Travel, nil, 3},
		{"tuesday for a ceremony", astro.Mars, Ceremony, nil, 3},
		{"saturday for business", astro.Saturn, Business, nil, 5},
		{"dasha lord caps at ten", astro.Jupiter, General, &jupiter, 10},
		{"dasha lord lifts a favourable day", astro.Moon, Travel, &moon, 10},
		{"dasha lord lifts a neutral day", astro.Moon, Business, &moon, 6.5},
		{"other dasha lord", astro.Moon, Business, &sun, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes := vara(tt.lord, tt.event, tt.dasha)
			if got != tt.want {
				t.Errorf("vara(%v, %s) = %v, want %v", tt.lord, tt.event, got, tt.want)
			}
			wantNotes := 1
			if tt.dasha != nil && *tt.dasha == tt.lord {
				wantNotes = 2
			}
			if len(notes) != wantNotes {
				t.Errorf("vara(%v, %s) notes = %v, want %d", tt.lord, tt.event, notes, wantNotes)
			}
		})
	}
}

func TestNakshatraFactor(t *testing.T) {
	tests := []struct {
		n     astro.Nakshatra
		event Event
		want  float64
	}{
		{6, Court, 9},    // Ardra, sharp
		{1, Court, 7},    // Ashwini, movable
		{14, Court, 4},   // Chitra, soft
		{2, Court, 5},    // Bharani
		{4, Ceremony, 9}, // Rohini, fixed
		{5, Ceremony, 7}, // Mrigashira, soft
		{6, Ceremony, 2.5},
		{19, Ceremony, 2.5},
		{8, Travel, 9},
		{4, Travel, 5},
		{2, General, 5},
		{26, General, 7},
	}
	for _, tt := range tests {
		if got, _ := nakshatra(tt.n, tt.event); got != tt.want {
			t.Errorf("nakshatra(%v, %s) = %v, want %v", tt.n, tt.event, got, tt.want)
		}
	}
}

func TestSarva(t *testing.T) {
	tests := []struct {
		points int
		want   float64
	}{
		{40, 9},
		{34, 9},
		{33, 7.5},
		{30, 7.5},
		{28, 5},
		{25, 5},
		{24, 3.5},
		{20, 3.5},
		{19, 2},
		{0, 2},
	}
	for _, tt := range tests {
		av := &ashtakavarga.Result{}
		av.Sarva[astro.Leo-1] = tt.points
		if got, _ := sarva(astro.Leo, av); got != tt.want {
			t.Errorf("sarva(%d points) = %v, want %v", tt.points, got, tt.want)
		}
	}
	if got, notes := sarva(astro.Leo, nil); got != 5 || notes != nil {
		t.Errorf("sarva(nil) = %v, %v, want 5, nil", got, notes)
	}
}

func TestTransits(t *testing.T) {
	// Every natal graha sits at 5° Aries. From Pisces, Aries is the 2nd
	// sign, which no scored graha aspects.
	natal := natalAt(5)
	tests := []struct {
		name      string
		overrides map[astro.Graha]float64
		want      float64
		notes     int
	}{
		{"quiet sky", nil, 5, 0},
		{"jupiter trine", map[astro.Graha]float64{astro.Jupiter: 245}, 10, maxTransitFactors + 1},
		{"venus opposite", map[astro.Graha]float64{astro.Venus: 185}, 10, 0},
		{"saturn tenth aspect", map[astro.Graha]float64{astro.Saturn: 95}, 0, maxTransitFactors + 1},
		{"rahu fifth aspect", map[astro.Graha]float64{astro.Rahu: 245}, 0, maxTransitFactors + 1},
		{"mercury conjunct", map[astro.Graha]float64{astro.Mercury: 7}, 10, maxTransitFactors + 1},
		{"mercury too wide", map[astro.Graha]float64{astro.Mercury: 15}, 5, 0},
		{"mars is not scored", map[astro.Graha]float64{astro.Mars: 7}, 5, 0},
		{"ketu is not scored", map[astro.Graha]float64{astro.Ketu: 185}, 5, 0},
		{"help and harm cancel", map[astro.Graha]float64{astro.Jupiter: 245, astro.Saturn: 95}, 5, maxTransitFactors + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes := transits(natal, skyAt(335, tt.overrides))
			if got != tt.want {
				t.Errorf("transits() = %v, want %v", got, tt.want)
			}
			if len(notes) != tt.notes {
				t.Errorf("transits() notes = %d, want %d: %v", len(notes), tt.notes, notes)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	jupiter := astro.Jupiter
	// Natal Moon in Aries; transiting Moon at 65° in Mrigashira, Gemini,
	// the 3rd from the natal Moon.
	natal := natalAt(5)
	sky := skyAt(335, map[astro.Graha]float64{astro.Moon: 65})

	tests := []struct {
		name  string
		at    time.Time
		opts  Options
		want  float64
		label Label
		lord  astro.Graha
	}{
		{"thursday", thursday, Options{}, 74, Auspicious, astro.Jupiter},
		{"thursday in jupiter dasha", thursday, Options{DashaLord: &jupiter}, 75.5, Auspicious, astro.Jupiter},
		{"saturday", saturday, Options{}, 68, Auspicious, astro.Saturn},
		{"zero instant uses the sky", time.Time{}, Options{Event: General}, 74, Auspicious, astro.Jupiter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Evaluate(natal, sky, tt.at, tt.opts)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if e.Total != tt.want || e.Label != tt.label {
				t.Errorf("Evaluate() = %v %q, want %v %q", e.Total, e.Label, tt.want, tt.label)
			}
			if e.VaraLord != tt.lord {
				t.Errorf("VaraLord = %v, want %v", e.VaraLord, tt.lord)
			}
			if e.Moon.FromMoon != 3 || !e.Moon.Favourable || e.Moon.Nakshatra != 5 {
				t.Errorf("Moon = %+v, want house 3 favourable in Mrigashira", e.Moon)
			}
			if e.Event != General {
				t.Errorf("Event = %q, want %q", e.Event, General)
			}
		})
	}
}

func TestEvaluateRecommendations(t *testing.T) {
	// Saturday ceremony with the Moon in Ardra.
	e, err := Evaluate(natalAt(5), skyAt(335, map[astro.Graha]float64{astro.Moon: 70}), saturday, Options{Event: Ceremony})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if e.Total != 52 || e.Label != Moderate {
		t.Fatalf("Evaluate() = %v %q, want 52 %q", e.Total, e.Label, Moderate)
	}
	want := []string{
		"acceptable for ceremony",
		"Thursday (Jupiter's day) suits ceremony best",
		"look for the Moon in Rohini",
	}
	if len(e.Recommendations) != len(want) {
		t.Fatalf("Recommendations = %v, want %d", e.Recommendations, len(want))
	}
	for i, w := range want {
		if !strings.Contains(e.Recommendations[i], w) {
			t.Errorf("Recommendations[%d] = %q, want it to contain %q", i, e.Recommendations[i], w)
		}
	}
}

func TestEvaluateInvalid(t *testing.T) {
	tests := []struct {
		name  string
		natal *astro.Variant
		sky   *transit.Snapshot
		opts  Options
	}{
		{"no natal", nil, skyAt(0, nil), Options{}},
		{"no sky", natalAt(0), nil, Options{}},
		{"unknown event", natalAt(0), skyAt(0, nil), Options{Event: "wedding"}},
	}
	for _, tt := range tests {
		if _, err := Evaluate(tt.natal, tt.sky, thursday, tt.opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Evaluate(%s) error = %v, want invalid input", tt.name, err)
		}
	}
}

func TestCompare(t *testing.T) {
	natal := natalAt(5)
	sky := skyAt(335, map[astro.Graha]float64{astro.Moon: 65})
	friday := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)

	got, err := Compare(natal, []Candidate{
		{At: saturday, Sky: sky},
		{At: thursday, Sky: sky},
		{At: friday, Sky: sky},
		{At: saturday.AddDate(0, 0, 7), Sky: sky},
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	// Thursday (ideal) beats Friday (favourable); the two Saturdays tie
	// and keep their order.
	want := []time.Time{thursday, friday, saturday, saturday.AddDate(0, 0, 7)}
	for i, w := range want {
		if !got[i].Instant.Equal(w) {
			t.Errorf("Compare()[%d] = %v, want %v", i, got[i].Instant, w)
		}
	}
	if _, err := Compare(natal, []Candidate{{At: thursday}}); err == nil {
		t.Error("Compare() with a missing sky succeeded, want error")
	}
}
