// Package pipeline is the operation surface of jyotish.
//
// It turns birth parameters into a complete natal [Bundle] and overlays
// transits onto a finished bundle. All I/O happens in the first stage; the
// rest is pure computation over the resolved positions.
//
// # Architecture
//
// [Runner.ComputeChart] runs these stages:
//
//  1. Positions: fetch tropical positions and sidereal time, one goroutine
//     per body, and resolve them into the sidereal natal frame.
//  2. Frame: assign houses, dignities, wars and the aspect graph.
//  3. Divisionals: generate every requested varga concurrently.
//  4. Derived: two fan-out groups, {dasha, ashtakavarga} and
//     {shadbala, yoga}, on one errgroup.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger, nil)
//	bundle, err := runner.ComputeChart(ctx, pipeline.BirthParams{
//	    Instant:   time.Date(1990, 5, 17, 4, 30, 0, 0, time.UTC),
//	    Latitude:  28.61,
//	    Longitude: 77.21,
//	}, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//	overlay, err := runner.OverlayTransit(ctx, bundle, time.Now())
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/jyotish/pkg/ashtakavarga"
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/ayanamsha"
	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/dignity"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/shadbala"
	"github.com/matzehuels/jyotish/pkg/sidereal"
	"github.com/matzehuels/jyotish/pkg/varga"
	"github.com/matzehuels/jyotish/pkg/yoga"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDashaHorizon is the dasha tree horizon in years: one full cycle.
	DefaultDashaHorizon = 120

	// DefaultEphemerisTimeout bounds each provider call.
	DefaultEphemerisTimeout = 10 * time.Second
)

// DefaultDivisions is the divisional set computed when none is configured.
// It covers the saptavarga used by shadbala plus the D10 career chart.
var DefaultDivisions = []int{1, 2, 3, 7, 9, 10, 12, 30}

// =============================================================================
// Birth Parameters
// =============================================================================

// BirthParams identifies a natal moment and place. Callers resolve
// geocoding and time zones; the instant is normalized to UTC.
type BirthParams struct {
	Name      string    `json:"name,omitempty" validate:"max=200"`
	Instant   time.Time `json:"instant" validate:"required"`
	Latitude  float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" validate:"gte=-180,lte=180"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and the supported instant range.
func (b BirthParams) Validate() error {
	if err := validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Field() == "Instant" {
				return errors.New(errors.ErrCodeInvalidInstant, "birth instant is not set")
			}
			return errors.New(errors.ErrCodeInvalidInput, "%s fails %q (got %v)", fe.Field(), fe.Tag()+"="+fe.Param(), fe.Value())
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid birth parameters")
	}
	if err := errors.ValidateCoordinates(b.Latitude, b.Longitude); err != nil {
		return err
	}
	return errors.ValidateInstant(b.Instant)
}

// =============================================================================
// Options - Chart Configuration
// =============================================================================

// Options selects the school and scope of a chart. The zero value is the
// default Parashari configuration.
type Options struct {
	Ayanamsha        string            `json:"ayanamsha,omitempty"`
	NodeMode         sidereal.NodeMode `json:"node_mode,omitempty"`
	Divisions        []int             `json:"divisions,omitempty"`
	DashaHorizon     int               `json:"dasha_horizon,omitempty"` // years
	PolarThreshold   float64           `json:"polar_threshold,omitempty"`
	EphemerisTimeout time.Duration     `json:"ephemeris_timeout,omitempty"`
	Refresh          bool              `json:"refresh,omitempty"` // bypass the bundle cache

	// Runtime options (not serialized)
	Participants []astro.Graha   `json:"-"` // ashtakavarga contributors
	WarRule      dignity.WarRule `json:"-"`
	Registry     *varga.Registry `json:"-"`
	Logger       *log.Logger     `json:"-"`

	model     ayanamsha.Model
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// It is idempotent. The divisions needed by shadbala and yoga detection
// are always added.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	m, err := ayanamsha.Lookup(o.Ayanamsha)
	if err != nil {
		return err
	}
	o.model = m
	o.Ayanamsha = m.Name

	switch o.NodeMode {
	case "":
		o.NodeMode = sidereal.MeanNode
	case sidereal.MeanNode, sidereal.TrueNode:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "node mode %q must be %q or %q", o.NodeMode, sidereal.MeanNode, sidereal.TrueNode)
	}

	if o.Registry == nil {
		o.Registry = varga.Default()
	}
	if len(o.Divisions) == 0 {
		o.Divisions = slices.Clone(DefaultDivisions)
	}
	o.Divisions = requiredDivisions(o.Divisions)

	if o.DashaHorizon == 0 {
		o.DashaHorizon = DefaultDashaHorizon
	}
	if o.DashaHorizon < 0 || o.DashaHorizon > dasha.MaxHorizonYears {
		return errors.New(errors.ErrCodeInvalidInput, "dasha horizon %d must be within 1..%d years", o.DashaHorizon, dasha.MaxHorizonYears)
	}
	if o.PolarThreshold == 0 {
		o.PolarThreshold = sidereal.DefaultPolarThreshold
	}
	if o.PolarThreshold < 0 || o.PolarThreshold > 90 {
		return errors.New(errors.ErrCodeInvalidInput, "polar threshold %.2f must be within 0..90", o.PolarThreshold)
	}
	if o.EphemerisTimeout == 0 {
		o.EphemerisTimeout = DefaultEphemerisTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// requiredDivisions merges ds with the saptavarga and D9, sorted and unique.
func requiredDivisions(ds []int) []int {
	out := slices.Concat(ds, shadbala.Saptavarga, []int{9})
	slices.Sort(out)
	return slices.Compact(out)
}

// ChartKeyOpts returns the cache key inputs for a bundle.
func (o *Options) ChartKeyOpts(b BirthParams, provider, version string) cache.ChartKeyOpts {
	return cache.ChartKeyOpts{
		Instant:   b.Instant.UTC().Format(time.RFC3339Nano),
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Ayanamsha: o.Ayanamsha,
		NodeMode:  string(o.NodeMode),
		Divisions: o.Divisions,
		Horizon:   o.DashaHorizon,
		Provider:  provider,
		Version:   version,
	}
}

// =============================================================================
// Bundle - Natal Result
// =============================================================================

// Warning is a non-fatal condition recorded on a bundle.
type Warning struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Bundle is a complete natal chart with every derived structure. It is
// immutable once returned; transit overlays only read it.
type Bundle struct {
	Birth BirthParams `json:"birth"`

	Ayanamsha      string            `json:"ayanamsha"`
	AyanamshaValue float64           `json:"ayanamsha_value"`
	NodeMode       sidereal.NodeMode `json:"node_mode"`
	JulianDay      float64           `json:"julian_day"`
	SiderealTime   float64           `json:"sidereal_time"`
	Obliquity      float64           `json:"obliquity"`

	Natal       *astro.Variant         `json:"natal"`
	Divisionals map[int]*astro.Variant `json:"divisionals"`
	Vargottama  []astro.Graha          `json:"vargottama"`
	Wars        []dignity.War          `json:"wars"`
	Aspects     *house.Graph           `json:"aspects"`

	Vimshottari  *dasha.Tree          `json:"vimshottari"`
	Yogini       *dasha.Tree          `json:"yogini"`
	Ashtakavarga *ashtakavarga.Result `json:"ashtakavarga"`
	Shadbala     []shadbala.Strength  `json:"shadbala"`
	Yogas        []yoga.Instance      `json:"yogas"`

	Precision ephemeris.Precision `json:"precision"`
	Degraded  bool                `json:"degraded_ascendant"`
	Warnings  []Warning           `json:"warnings,omitempty"`
	Version   string              `json:"version"`
}

// Divisional returns the variant for division n, or nil.
func (b *Bundle) Divisional(n int) *astro.Variant {
	if n == 1 {
		return b.Natal
	}
	return b.Divisionals[n]
}

// Stats reports how a ComputeChart call was served.
type Stats struct {
	CacheHit  bool
	Requests  int // provider requests not answered from memory
	Duration  time.Duration
	Precision ephemeris.Precision
}
