// Package pkg provides the core libraries for jyotish, a sidereal chart
// computation engine.
//
// # Overview
//
// A chart starts from a birth instant and a place. The pkg directory is
// organized into four areas:
//
//  1. Calculation - pure functions over longitudes ([astro], [ayanamsha],
//     [sidereal], [house], [varga], [dignity], [dasha], [ashtakavarga],
//     [shadbala], [yoga], [transit], [muhurta], [kuta])
//  2. Data sources - planetary positions from an analytic model or a
//     remote service ([ephemeris])
//  3. Infrastructure - caching, persistence and configuration ([cache],
//     [records], [config], [observability], [errors])
//  4. Orchestration and output - the [pipeline] runner and the aspect
//     graph renderer ([render/aspectgraph])
//
// # Architecture
//
// The data flow through a chart computation:
//
//	BirthParams (instant, latitude, longitude)
//	         ↓
//	    [ephemeris] package (tropical positions, sidereal time)
//	         ↓
//	    [sidereal] package (ayanamsha, lagna, nodes, nakshatras)
//	         ↓
//	    [varga] / [dignity] / [house] (divisional charts, dignities, aspects)
//	         ↓
//	    [dasha] / [ashtakavarga] / [shadbala] / [yoga]
//	         ↓
//	    pipeline.Bundle (JSON, database rows, DOT/SVG/PNG)
//
// # Quick Start
//
//	r := pipeline.NewRunner(nil, nil, nil, nil) // analytic ephemeris, no cache
//	bundle, err := r.ComputeChart(ctx, pipeline.BirthParams{
//	    Instant:   time.Date(1990, 5, 17, 4, 30, 0, 0, time.UTC),
//	    Latitude:  28.61,
//	    Longitude: 77.21,
//	}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(bundle.Natal.Ascendant.Sign)
//
// Overlay today's sky on the natal chart:
//
//	overlay, _ := r.OverlayTransit(ctx, bundle, time.Now())
//
// Rank the coming days for a journey:
//
//	evals, _ := r.EvaluateMuhurta(ctx, bundle, days, muhurta.Travel)
//
// Persist the bundle:
//
//	store, _ := records.Open("sqlite", "charts.db")
//	id, _ := store.SaveBundle(ctx, bundle)
//
// [astro]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/astro
// [ayanamsha]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/ayanamsha
// [sidereal]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/sidereal
// [house]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/house
// [varga]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/varga
// [dignity]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/dignity
// [dasha]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/dasha
// [ashtakavarga]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/ashtakavarga
// [shadbala]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/shadbala
// [yoga]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/yoga
// [transit]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/transit
// [muhurta]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/muhurta
// [kuta]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/kuta
// [ephemeris]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/ephemeris
// [cache]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/cache
// [records]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/records
// [config]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/pipeline
// [render/aspectgraph]: https://pkg.go.dev/github.com/matzehuels/jyotish/pkg/render/aspectgraph
package pkg
