package shadbala

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/dignity"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/varga"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUchcha(t *testing.T) {
	tests := []struct {
		g    astro.Graha
		lon  float64
		want float64
	}{
		{astro.Sun, 10, 60},
		{astro.Sun, 190, 0},
		{astro.Sun, 100, 30},
		{astro.Venus, 357, 60},
		{astro.Venus, 3, 58},
		{astro.Saturn, 20, 0},
	}
	for _, tt := range tests {
		if got := Uchcha(tt.g, tt.lon); !near(got, tt.want) {
			t.Errorf("Uchcha(%v, %v) = %v, want %v", tt.g, tt.lon, got, tt.want)
		}
	}
}

func TestDig(t *testing.T) {
	asc := 15.0
	tests := []struct {
		g    astro.Graha
		lon  float64
		want float64
	}{
		{astro.Sun, asc + 270, 60},
		{astro.Sun, asc + 90, 0},
		{astro.Jupiter, asc, 60},
		{astro.Saturn, asc + 180, 60},
		{astro.Moon, asc + 90, 60},
		{astro.Moon, asc, 30},
		{astro.Rahu, asc + 270, 60},
		{astro.Ketu, asc + 90, 60},
		{astro.Ketu, asc + 270, 0},
	}
	for _, tt := range tests {
		if got := Dig(tt.g, tt.lon, asc); !near(got, tt.want) {
			t.Errorf("Dig(%v, %v) = %v, want %v", tt.g, tt.lon, got, tt.want)
		}
	}
}

func TestNathonnathaAndPaksha(t *testing.T) {
	if got := Nathonnatha(astro.Sun, 0); got != 60 {
		t.Errorf("Sun at noon = %v, want 60", got)
	}
	if got := Nathonnatha(astro.Moon, 0); got != 0 {
		t.Errorf("Moon at noon = %v, want 0", got)
	}
	if got := Nathonnatha(astro.Saturn, 180); got != 60 {
		t.Errorf("Saturn at midnight = %v, want 60", got)
	}
	if got := Nathonnatha(astro.Mercury, 97); got != 60 {
		t.Errorf("Mercury = %v, want 60 always", got)
	}
	if got := Paksha(astro.Moon, 180); got != 60 {
		t.Errorf("full Moon paksha = %v, want 60", got)
	}
	if got := Paksha(astro.Mars, 180); got != 0 {
		t.Errorf("malefic paksha at full Moon = %v, want 0", got)
	}
}

func TestLocalClock(t *testing.T) {
	sunday := func(h, m int) time.Time { return time.Date(2024, 1, 7, h, m, 0, 0, time.UTC) }
	tests := []struct {
		name       string
		at         time.Time
		lon        float64
		vara, hora astro.Graha
		tribhaga   astro.Graha
	}{
		{"first hour", sunday(6, 30), 0, astro.Sun, astro.Sun, astro.Mercury},
		{"second hour", sunday(7, 30), 0, astro.Sun, astro.Venus, astro.Mercury},
		{"before sunrise belongs to saturday", sunday(5, 0), 0, astro.Saturn, astro.Mars, astro.Mars},
		{"east longitude shifts local time", sunday(6, 30), 90, astro.Sun, astro.Mars, astro.Sun},
		{"evening", sunday(19, 0), 0, astro.Sun, astro.Mars, astro.Moon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := localClock(tt.at, tt.lon)
			if c.varaLord != tt.vara || c.horaLord != tt.hora || c.tribhagaLord != tt.tribhaga {
				t.Errorf("localClock(%v, %v) = vara %v hora %v tribhaga %v, want %v %v %v",
					tt.at, tt.lon, c.varaLord, c.horaLord, c.tribhagaLord, tt.vara, tt.hora, tt.tribhaga)
			}
		})
	}
}

func TestChesta(t *testing.T) {
	tests := []struct {
		name  string
		g     astro.Graha
		speed float64
		lost  bool
		want  float64
	}{
		{"sun at mean", astro.Sun, 0.9856, false, 30},
		{"moon fast", astro.Moon, 13.1764 * 1.5, false, 45},
		{"mars at mean", astro.Mars, 0.5240, false, 30},
		{"mars stationary", astro.Mars, 0, false, 60},
		{"mars retrograde", astro.Mars, -0.3, false, 60},
		{"mars retrograde lost war", astro.Mars, -0.3, true, 30},
		{"saturn very fast clamps", astro.Saturn, 0.0335 * 5, false, 0},
		{"penalty floors at zero", astro.Saturn, 0.0335 * 5, true, 0},
		{"rahu is flat", astro.Rahu, -0.053, false, 30},
		{"ketu is flat", astro.Ketu, 0, false, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Chesta(tt.g, tt.speed, tt.lost); !near(got, tt.want) {
				t.Errorf("Chesta(%v, %v, %v) = %v, want %v", tt.g, tt.speed, tt.lost, got, tt.want)
			}
		})
	}
}

func buildInput(t *testing.T) Input {
	t.Helper()
	natal := &astro.Variant{Division: 1, Ascendant: astro.NewAscendant(100)}
	lons := [astro.NumGrahas]float64{10, 200, 298, 150, 95, 330, 20, 60, 240}
	speeds := [astro.NumGrahas]float64{1.01, 12.5, -0.2, 1.3, 0.1, 1.2, 0.03, -0.05, -0.05}
	for g := range natal.Positions {
		natal.Positions[g] = astro.NewPosition(astro.Graha(g), lons[g], speeds[g])
	}
	house.Assign(natal)
	dignity.Annotate(natal)

	vargas := map[int]*astro.Variant{}
	for _, d := range Saptavarga {
		v, err := varga.Generate(natal, d)
		if err != nil {
			t.Fatal(err)
		}
		dignity.Annotate(v)
		vargas[d] = v
	}
	return Input{
		Natal:        natal,
		Vargas:       vargas,
		Instant:      time.Date(1990, 6, 15, 4, 30, 0, 0, time.UTC),
		Longitude:    77.2,
		SiderealTime: 5.3,
		Obliquity:    23.44,
		Ayanamsha:    23.7,
	}
}

func TestCompute(t *testing.T) {
	in := buildInput(t)
	res, err := Compute(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != astro.NumGrahas {
		t.Fatalf("len = %d, want %d", len(res), astro.NumGrahas)
	}
	for i, s := range res {
		if s.Graha != astro.Graha(i) {
			t.Errorf("result %d is %v", i, s.Graha)
		}
		sthana := s.Uchcha + s.Saptavargaja + s.Ojayugma + s.Kendradi + s.Drekkana
		kala := s.Nathonnatha + s.Paksha + s.Tribhaga + s.Vara + s.Hora
		if !near(s.Sthana, sthana) || !near(s.Kala, kala) {
			t.Errorf("%v: component sums do not add up", s.Graha)
		}
		if total := s.Sthana + s.Dig + s.Kala + s.Chesta + s.Naisargika + s.Drik; !near(s.Total, total) {
			t.Errorf("%v: total %v, want %v", s.Graha, s.Total, total)
		}
		if s.Weak != (s.Ratio < 1) || !near(s.Ratio, s.Total/s.Required) {
			t.Errorf("%v: ratio %v weak %v", s.Graha, s.Ratio, s.Weak)
		}
		if s.Tribhaga == 0 && s.Graha == astro.Jupiter {
			t.Error("Jupiter always earns tribhaga bala")
		}
	}
	if got := res[astro.Sun].Uchcha; !near(got, 60) {
		t.Errorf("Sun at deep exaltation uchcha = %v", got)
	}
	if got := res[astro.Mars].Chesta; got != 60 {
		t.Errorf("retrograde Mars chesta = %v", got)
	}
	if got := res[astro.Saturn].Naisargika; got != 8.57 {
		t.Errorf("Saturn naisargika = %v", got)
	}
	for _, g := range []astro.Graha{astro.Rahu, astro.Ketu} {
		s := res[g]
		if s.Naisargika != 30 || s.Required != 300 || s.Chesta != 30 {
			t.Errorf("%v: naisargika %v required %v chesta %v, want 30 300 30", g, s.Naisargika, s.Required, s.Chesta)
		}
		if s.Tribhaga != 0 || s.Vara != 0 || s.Hora != 0 {
			t.Errorf("%v earned a time lordship: %+v", g, s)
		}
	}

	in.WarLosers[astro.Mars] = true
	res2, _ := Compute(in)
	if got := res2[astro.Mars].Chesta; got != 60-dignity.WarPenalty {
		t.Errorf("war loser chesta = %v, want %v", got, 60-dignity.WarPenalty)
	}
}

func TestComputeNeedsVargas(t *testing.T) {
	in := buildInput(t)
	delete(in.Vargas, 30)
	if _, err := Compute(in); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Compute without D30 error = %v", err)
	}
	delete(in.Vargas, 1)
	in.Vargas[30] = in.Natal
	if _, err := Compute(in); err != nil {
		t.Errorf("D1 should default to the natal chart: %v", err)
	}
}

func TestDrik(t *testing.T) {
	v := &astro.Variant{Ascendant: astro.NewAscendant(0)}
	// Everyone but Jupiter in Aries; Jupiter in Libra aspects Aries fully.
	for g := range v.Positions {
		v.Positions[g] = astro.NewPosition(astro.Graha(g), 5, 1)
	}
	v.Positions[astro.Jupiter] = astro.NewPosition(astro.Jupiter, 185, 1)
	if got := drik(v, astro.Sun); !near(got, 15) {
		t.Errorf("drik(Sun) = %v, want 15", got)
	}
	// Saturn in Cancer casts its 10th-house full aspect on Aries.
	v.Positions[astro.Saturn] = astro.NewPosition(astro.Saturn, 95, 1)
	if got := drik(v, astro.Sun); !near(got, 0) {
		t.Errorf("drik(Sun) with Saturn = %v, want 0", got)
	}
	// Rahu in Sagittarius casts its 5th-house full aspect on Aries.
	v.Positions[astro.Rahu] = astro.NewPosition(astro.Rahu, 245, -0.05)
	if got := drik(v, astro.Sun); !near(got, -15) {
		t.Errorf("drik(Sun) with Rahu = %v, want -15", got)
	}
	// Ketu's full 9th outweighs the benefics' half aspects on Sagittarius.
	if got := drik(v, astro.Rahu); !near(got, -3.75) {
		t.Errorf("drik(Rahu) = %v, want -3.75", got)
	}
}
