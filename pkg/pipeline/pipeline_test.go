package pipeline

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

func TestBirthParamsValidate(t *testing.T) {
	valid := time.Date(1990, 5, 17, 4, 30, 0, 0, time.UTC)
	tests := []struct {
		name   string
		params BirthParams
		code   errors.Code
	}{
		{"valid", BirthParams{Instant: valid, Latitude: 28.61, Longitude: 77.21}, ""},
		{"missing instant", BirthParams{Latitude: 10}, errors.ErrCodeInvalidInstant},
		{"latitude", BirthParams{Instant: valid, Latitude: 95}, errors.ErrCodeInvalidInput},
		{"longitude", BirthParams{Instant: valid, Longitude: -200}, errors.ErrCodeInvalidInput},
		{"before range", BirthParams{Instant: time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)}, errors.ErrCodeInvalidInstant},
		{"after range", BirthParams{Instant: time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)}, errors.ErrCodeInvalidInstant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Divisions: []int{10}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() = %v", err)
	}
	if opts.Ayanamsha != "lahiri" {
		t.Errorf("Ayanamsha = %q, want lahiri", opts.Ayanamsha)
	}
	if opts.NodeMode != sidereal.MeanNode {
		t.Errorf("NodeMode = %q, want mean", opts.NodeMode)
	}
	if want := []int{1, 2, 3, 7, 9, 10, 12, 30}; !reflect.DeepEqual(opts.Divisions, want) {
		t.Errorf("Divisions = %v, want %v", opts.Divisions, want)
	}
	if opts.DashaHorizon != DefaultDashaHorizon || opts.EphemerisTimeout != DefaultEphemerisTimeout {
		t.Errorf("horizon %d timeout %s", opts.DashaHorizon, opts.EphemerisTimeout)
	}
	if opts.PolarThreshold != sidereal.DefaultPolarThreshold {
		t.Errorf("PolarThreshold = %v", opts.PolarThreshold)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call = %v", err)
	}
}

func TestOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"ayanamsha", Options{Ayanamsha: "sayana"}, errors.ErrCodeUnknownAyanamsha},
		{"node mode", Options{NodeMode: "osculating"}, errors.ErrCodeInvalidInput},
		{"horizon", Options{DashaHorizon: 300}, errors.ErrCodeInvalidInput},
		{"polar threshold", Options{PolarThreshold: 91}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestChartKeyOptsNormalizesInstant(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	utc := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("IST", 19800))
	a := opts.ChartKeyOpts(BirthParams{Instant: utc}, "analytic", "v1")
	b := opts.ChartKeyOpts(BirthParams{Instant: local}, "analytic", "v1")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("key inputs differ for the same instant: %+v vs %+v", a, b)
	}
}

func TestBundleDivisional(t *testing.T) {
	natal := &astro.Variant{Division: 1}
	d9 := &astro.Variant{Division: 9}
	b := &Bundle{Natal: natal, Divisionals: map[int]*astro.Variant{9: d9}}
	if b.Divisional(1) != natal || b.Divisional(9) != d9 || b.Divisional(60) != nil {
		t.Error("Divisional lookup mismatch")
	}
}

func TestWarnRecords(t *testing.T) {
	b := &Bundle{}
	b.warn(context.Background(), errors.New(errors.ErrCodeDegradedAscendant, "polar"))
	if len(b.Warnings) != 1 || b.Warnings[0].Code != errors.ErrCodeDegradedAscendant {
		t.Errorf("Warnings = %+v", b.Warnings)
	}
}
