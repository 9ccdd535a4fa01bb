package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jyotish/pkg/ashtakavarga"
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/buildinfo"
	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/dignity"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/observability"
	"github.com/matzehuels/jyotish/pkg/shadbala"
	"github.com/matzehuels/jyotish/pkg/sidereal"
	"github.com/matzehuels/jyotish/pkg/transit"
	"github.com/matzehuels/jyotish/pkg/varga"
	"github.com/matzehuels/jyotish/pkg/yoga"
)

// stage runs fn between the observability stage hooks.
func stage(ctx context.Context, name string, fn func() error) error {
	hooks := observability.Chart()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, time.Since(start), err)
	return err
}

// compute runs every stage for validated inputs.
func (r *Runner) compute(ctx context.Context, b BirthParams, opts Options) (bundle *Bundle, stats Stats, err error) {
	start := time.Now()
	observability.Chart().OnChartStart(ctx, b.Instant)
	defer func() { observability.Chart().OnChartComplete(ctx, time.Since(start), err) }()

	logger := opts.Logger
	memo := ephemeris.NewMemo(deadline{r.Provider, opts.EphemerisTimeout})

	bundle = &Bundle{
		Birth:     b,
		Ayanamsha: opts.Ayanamsha,
		NodeMode:  opts.NodeMode,
		Version:   buildinfo.Version,
	}

	// Stage 1: Positions
	var res *sidereal.Result
	err = stage(ctx, "positions", func() error {
		var warn *errors.Error
		res, warn, err = resolve(ctx, memo, b.Instant, b.Latitude, b.Longitude, opts)
		if warn != nil {
			bundle.warn(ctx, warn)
		}
		return err
	})
	if err != nil {
		return nil, Stats{}, err
	}
	bundle.AyanamshaValue = res.Ayanamsha
	bundle.JulianDay = res.JulianDay
	bundle.SiderealTime = res.SiderealTime
	bundle.Obliquity = res.Obliquity
	bundle.Precision = res.Precision
	bundle.Degraded = res.Degraded
	if res.Precision == ephemeris.PrecisionAnalytic && r.Provider.Name() != ephemeris.NewAnalytic().Name() {
		bundle.warn(ctx, errors.New(errors.ErrCodeMissingEphemerisData,
			"detailed ephemeris unavailable for some bodies; analytic positions were used"))
	}
	logger.Debug("fetched positions",
		"bodies", astro.NumGrahas,
		"requests", memo.Len(),
		"precision", res.Precision,
		"ayanamsha", res.Ayanamsha)

	// Stage 2: Natal frame
	natal := &astro.Variant{Division: 1, Ascendant: res.Ascendant, Positions: res.Positions}
	_ = stage(ctx, "frame", func() error {
		house.Assign(natal)
		dignity.Annotate(natal)
		bundle.Wars = dignity.Wars(natal, opts.WarRule)
		bundle.Aspects = house.Aspects(natal)
		return nil
	})
	bundle.Natal = natal

	// Stage 3: Divisionals
	err = stage(ctx, "divisionals", func() error {
		var err error
		bundle.Divisionals, err = r.divisionals(ctx, natal, opts, bundle)
		return err
	})
	if err != nil {
		return nil, Stats{}, err
	}
	d9 := bundle.Divisionals[9]
	bundle.Vargottama = varga.Vargottama(natal, d9)
	logger.Debug("generated divisionals", "count", len(bundle.Divisionals))

	// Stage 4: Derived structures in two fan-out groups
	losers := dignity.Losers(bundle.Wars)
	moon := natal.Of(astro.Moon).Longitude
	g, gctx := errgroup.WithContext(ctx)

	// Group A: positions only
	g.Go(func() error {
		return stage(gctx, "dasha", func() error {
			vim, err := dasha.Build(dasha.Vimshottari, b.Instant, moon, float64(opts.DashaHorizon))
			if err != nil {
				return err
			}
			if err := vim.Validate(); err != nil {
				return err
			}
			yog, err := dasha.Build(dasha.Yogini, b.Instant, moon, float64(opts.DashaHorizon))
			if err != nil {
				return err
			}
			if err := yog.Validate(); err != nil {
				return err
			}
			bundle.Vimshottari, bundle.Yogini = vim, yog
			return nil
		})
	})
	g.Go(func() error {
		return stage(gctx, "ashtakavarga", func() error {
			av, err := ashtakavarga.Compute(natal, ashtakavarga.Options{Participants: opts.Participants})
			bundle.Ashtakavarga = av
			return err
		})
	})

	// Group B: dignity, house and aspect data
	g.Go(func() error {
		return stage(gctx, "shadbala", func() error {
			sb, err := shadbala.Compute(shadbala.Input{
				Natal:        natal,
				Vargas:       bundle.Divisionals,
				Instant:      b.Instant,
				Longitude:    b.Longitude,
				SiderealTime: res.SiderealTime,
				Obliquity:    res.Obliquity,
				Ayanamsha:    res.Ayanamsha,
				WarLosers:    losers,
			})
			bundle.Shadbala = sb
			return err
		})
	})
	g.Go(func() error {
		return stage(gctx, "yoga", func() error {
			bundle.Yogas = yoga.Detect(yoga.NewChart(natal, d9, bundle.Aspects, bundle.Wars), nil)
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInternal, err, "chart computation failed")
		}
		return nil, Stats{}, err
	}

	logger.Debug("computed derived structures",
		"dasha_periods", len(bundle.Vimshottari.Nodes),
		"yogas", len(bundle.Yogas),
		"sarva_total", bundle.Ashtakavarga.Grand())

	return bundle, Stats{Requests: memo.Len(), Precision: bundle.Precision}, nil
}

// resolve fetches and resolves the sidereal frame for one instant.
func resolve(ctx context.Context, p ephemeris.Provider, instant time.Time, lat, lon float64, opts Options) (*sidereal.Result, *errors.Error, error) {
	aya, err := opts.model.Value(instant)
	if err != nil {
		return nil, nil, err
	}
	raw, err := sidereal.Fetch(ctx, p, instant, lon, opts.NodeMode)
	if err != nil {
		return nil, nil, err
	}
	res, warn := sidereal.Resolve(raw, sidereal.Input{
		Ayanamsha:      aya,
		Latitude:       lat,
		PolarThreshold: opts.PolarThreshold,
	})
	return res, warn, nil
}

// divisionals generates every requested division concurrently and
// annotates their dignities. Unregistered divisions are skipped with a
// warning.
func (r *Runner) divisionals(ctx context.Context, natal *astro.Variant, opts Options, bundle *Bundle) (map[int]*astro.Variant, error) {
	vs := make([]*astro.Variant, len(opts.Divisions))
	errs := make([]error, len(opts.Divisions))
	var g errgroup.Group
	for i, n := range opts.Divisions {
		if n == 1 {
			continue
		}
		g.Go(func() error {
			v, err := opts.Registry.Generate(natal, n)
			if err != nil {
				if errors.Is(err, errors.ErrCodeUnsupportedDivision) {
					errs[i] = err
					return nil
				}
				return err
			}
			dignity.Annotate(v)
			vs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]*astro.Variant, len(vs))
	for i, n := range opts.Divisions {
		switch {
		case errs[i] != nil:
			var e *errors.Error
			errors.As(errs[i], &e)
			bundle.warn(ctx, e)
		case vs[i] != nil:
			out[n] = vs[i]
		}
	}
	for _, n := range shadbala.Saptavarga {
		if _, ok := out[n]; !ok && n != 1 {
			return nil, errors.New(errors.ErrCodeUnsupportedDivision, "division D%d is required for shadbala", n)
		}
	}
	if _, ok := out[9]; !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedDivision, "division D9 is required for yoga detection")
	}
	return out, nil
}

// warn records a non-fatal condition.
func (b *Bundle) warn(ctx context.Context, e *errors.Error) {
	b.Warnings = append(b.Warnings, Warning{Code: e.Code, Message: e.Message})
	observability.Chart().OnWarning(ctx, string(e.Code))
}

// =============================================================================
// Transit overlay
// =============================================================================

// OverlayTransit reads the sky at instant against a natal bundle. The
// snapshot uses the bundle's ayanamsha model and node mode. The bundle is
// not modified.
func (r *Runner) OverlayTransit(ctx context.Context, natal *Bundle, instant time.Time) (*transit.Overlay, error) {
	if natal == nil || natal.Natal == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "overlay requires a computed natal bundle")
	}
	if err := errors.ValidateInstant(instant); err != nil {
		return nil, err
	}
	instant = instant.UTC()

	var overlay *transit.Overlay
	err := stage(ctx, "transit", func() error {
		sky, err := r.sky(ctx, natal, instant)
		if err != nil {
			return err
		}
		overlay = transit.Compute(natal.Natal, sky, natal.Ashtakavarga)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("computed transit overlay",
		"instant", instant,
		"vedha", len(overlay.Vedha),
		"sade_sati", overlay.SadeSati.Active)
	return overlay, nil
}

// sky resolves the snapshot at instant with the bundle's ayanamsha model
// and node mode, seen from the birthplace.
func (r *Runner) sky(ctx context.Context, natal *Bundle, instant time.Time) (*transit.Snapshot, error) {
	opts := Options{
		Ayanamsha: natal.Ayanamsha,
		NodeMode:  natal.NodeMode,
		Logger:    r.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	memo := ephemeris.NewMemo(deadline{r.Provider, opts.EphemerisTimeout})
	res, _, err := resolve(ctx, memo, instant, natal.Birth.Latitude, natal.Birth.Longitude, opts)
	if err != nil {
		return nil, err
	}
	return transit.NewSnapshot(instant, res), nil
}
