// Package ephemeris defines the contract for supplying raw tropical
// positions and sidereal time, plus the providers that satisfy it.
//
// The computation core never derives planetary motion itself: it asks a
// [Provider] for the tropical longitude and daily speed of each [Body] at a
// Julian day, and for local sidereal time at a longitude.
//
// # Providers
//
//   - [HTTPClient]: a detailed remote ephemeris service ([PrecisionDetailed]).
//   - [Analytic]: closed-form mean orbital elements with the principal
//     periodic terms ([PrecisionAnalytic]). Good to a few arcminutes for the
//     Sun and planets and about a quarter degree for the Moon; it needs no
//     data files or network.
//
// # Composition
//
// Providers compose by wrapping:
//
//	p := ephemeris.NewHTTPClient(url, httpOpts)
//	p = ephemeris.NewFallback(p, ephemeris.NewAnalytic())   // degrade on missing data
//	p = ephemeris.NewCached(p, blobCache, keyer, ttl)        // reuse across runs
//	p = ephemeris.NewMemo(p)                                 // reuse within one chart
//
// Every [Position] records the [Precision] that produced it, so a chart can
// report whether any body came from the analytic fallback.
package ephemeris
