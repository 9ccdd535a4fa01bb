package ephemeris

import (
	"context"
	"math"

	"github.com/matzehuels/jyotish/pkg/errors"
)

// Analytic computes positions from mean orbital elements of date with the
// principal lunar and Jupiter–Saturn perturbation terms. It is the fallback
// used when no detailed data is available.
type Analytic struct{}

// NewAnalytic returns the analytic provider.
func NewAnalytic() *Analytic { return &Analytic{} }

// Name implements [Provider].
func (*Analytic) Name() string { return "analytic" }

// Position implements [Provider]. Speed is a central difference over one day,
// except for the mean node whose motion is linear.
func (a *Analytic) Position(ctx context.Context, jd float64, body Body) (Position, error) {
	lonAt, ok := analyticBodies[body]
	if !ok {
		return Position{}, errors.New(errors.ErrCodeMissingEphemerisData, "analytic model cannot resolve %q", body)
	}
	d := jd - 2451543.5
	lon := lonAt(d)
	var speed float64
	if body == MeanNode {
		speed = -moonElements.N1
	} else {
		speed = wrap180(lonAt(d+0.5) - lonAt(d-0.5))
	}
	return Position{Longitude: norm360(lon), Speed: speed, Precision: PrecisionAnalytic}, nil
}

// SiderealTime implements [Provider] with the IAU 1982 mean sidereal time.
func (*Analytic) SiderealTime(ctx context.Context, jd, longitude float64) (float64, error) {
	gmst := 18.697374558 + 24.06570982441908*(jd-2451545.0)
	return norm24(gmst + longitude/15), nil
}

// elements are mean orbital elements at day number d:
// value = X0 + X1*d, angles in degrees.
type elements struct {
	N0, N1 float64 // longitude of ascending node
	I0, I1 float64 // inclination
	W0, W1 float64 // argument of perihelion
	A      float64 // semi-major axis (AU; Earth radii for the Moon)
	E0, E1 float64 // eccentricity
	M0, M1 float64 // mean anomaly
}

var (
	sunElements     = elements{W0: 282.9404, W1: 4.70935e-5, A: 1, E0: 0.016709, E1: -1.151e-9, M0: 356.0470, M1: 0.9856002585}
	moonElements    = elements{N0: 125.1228, N1: -0.0529538083, I0: 5.1454, W0: 318.0634, W1: 0.1643573223, A: 60.2666, E0: 0.054900, M0: 115.3654, M1: 13.0649929509}
	mercuryElements = elements{N0: 48.3313, N1: 3.24587e-5, I0: 7.0047, I1: 5.00e-8, W0: 29.1241, W1: 1.01444e-5, A: 0.387098, E0: 0.205635, E1: 5.59e-10, M0: 168.6562, M1: 4.0923344368}
	venusElements   = elements{N0: 76.6799, N1: 2.46590e-5, I0: 3.3946, I1: 2.75e-8, W0: 54.8910, W1: 1.38374e-5, A: 0.723330, E0: 0.006773, E1: -1.302e-9, M0: 48.0052, M1: 1.6021302244}
	marsElements    = elements{N0: 49.5574, N1: 2.11081e-5, I0: 1.8497, I1: -1.78e-8, W0: 286.5016, W1: 2.92961e-5, A: 1.523688, E0: 0.093405, E1: 2.516e-9, M0: 18.6021, M1: 0.5240207766}
	jupiterElements = elements{N0: 100.4542, N1: 2.76854e-5, I0: 1.3030, I1: -1.557e-7, W0: 273.8777, W1: 1.64505e-5, A: 5.20256, E0: 0.048498, E1: 4.469e-9, M0: 19.8950, M1: 0.0830853001}
	saturnElements  = elements{N0: 113.6634, N1: 2.38980e-5, I0: 2.4886, I1: -1.081e-7, W0: 339.3939, W1: 2.97661e-5, A: 9.55475, E0: 0.055546, E1: -9.499e-9, M0: 316.9670, M1: 0.0334442282}
)

var analyticBodies = map[Body]func(d float64) float64{
	Sun:      sunLongitude,
	Moon:     moonLongitude,
	Mercury:  func(d float64) float64 { return planetLongitude(mercuryElements, d, nil) },
	Venus:    func(d float64) float64 { return planetLongitude(venusElements, d, nil) },
	Mars:     func(d float64) float64 { return planetLongitude(marsElements, d, nil) },
	Jupiter:  func(d float64) float64 { return planetLongitude(jupiterElements, d, jupiterPerturbation) },
	Saturn:   func(d float64) float64 { return planetLongitude(saturnElements, d, saturnPerturbation) },
	MeanNode: func(d float64) float64 { return moonElements.N0 + moonElements.N1*d },
	TrueNode: trueNodeLongitude,
}

// orbit solves Kepler's equation and returns true anomaly (degrees) and radius.
func orbit(el elements, d float64) (v, r float64) {
	e := el.E0 + el.E1*d
	m := norm360(el.M0 + el.M1*d)

	ecc := m + rad2deg*e*sind(m)*(1+e*cosd(m))
	for i := 0; i < 20; i++ {
		next := ecc - (ecc-rad2deg*e*sind(ecc)-m)/(1-e*cosd(ecc))
		if math.Abs(next-ecc) < 1e-9 {
			ecc = next
			break
		}
		ecc = next
	}
	xv := el.A * (cosd(ecc) - e)
	yv := el.A * math.Sqrt(1-e*e) * sind(ecc)
	return atan2d(yv, xv), math.Hypot(xv, yv)
}

// sunPosition returns the Sun's geocentric longitude and distance.
func sunPosition(d float64) (lon, r float64) {
	v, r := orbit(sunElements, d)
	return norm360(v + sunElements.W0 + sunElements.W1*d), r
}

func sunLongitude(d float64) float64 {
	lon, _ := sunPosition(d)
	return lon
}

// heliocentric returns ecliptic rectangular coordinates for el.
func heliocentric(el elements, d float64) (x, y, z float64) {
	v, r := orbit(el, d)
	n := el.N0 + el.N1*d
	i := el.I0 + el.I1*d
	w := el.W0 + el.W1*d
	vw := v + w
	x = r * (cosd(n)*cosd(vw) - sind(n)*sind(vw)*cosd(i))
	y = r * (sind(n)*cosd(vw) + cosd(n)*sind(vw)*cosd(i))
	z = r * sind(vw) * sind(i)
	return x, y, z
}

func planetLongitude(el elements, d float64, perturb func(d float64) float64) float64 {
	x, y, z := heliocentric(el, d)
	if perturb != nil {
		r := math.Sqrt(x*x + y*y + z*z)
		lon := atan2d(y, x) + perturb(d)
		lat := atan2d(z, math.Hypot(x, y))
		x = r * cosd(lon) * cosd(lat)
		y = r * sind(lon) * cosd(lat)
	}
	sLon, sR := sunPosition(d)
	return norm360(atan2d(y+sR*sind(sLon), x+sR*cosd(sLon)))
}

func meanAnomaly(el elements, d float64) float64 { return norm360(el.M0 + el.M1*d) }

func jupiterPerturbation(d float64) float64 {
	mj, ms := meanAnomaly(jupiterElements, d), meanAnomaly(saturnElements, d)
	return -0.332*sind(2*mj-5*ms-67.6) -
		0.056*sind(2*mj-2*ms+21) +
		0.042*sind(3*mj-5*ms+21) -
		0.036*sind(mj-2*ms) +
		0.022*cosd(mj-ms) +
		0.023*sind(2*mj-3*ms+52) -
		0.016*sind(mj-5*ms-69)
}

func saturnPerturbation(d float64) float64 {
	mj, ms := meanAnomaly(jupiterElements, d), meanAnomaly(saturnElements, d)
	return 0.812*sind(2*mj-5*ms-67.6) -
		0.229*cosd(2*mj-4*ms-2) +
		0.119*sind(mj-2*ms-3) +
		0.046*sind(2*mj-6*ms-69) +
		0.014*sind(mj-3*ms+32)
}

// lunarArguments returns the Sun's and Moon's mean anomalies, the mean
// elongation D and the argument of latitude F.
func lunarArguments(d float64) (ms, mm, dd, f float64) {
	ms = meanAnomaly(sunElements, d)
	mm = meanAnomaly(moonElements, d)
	ls := ms + sunElements.W0 + sunElements.W1*d
	nm := moonElements.N0 + moonElements.N1*d
	lm := mm + moonElements.W0 + moonElements.W1*d + nm
	return ms, mm, norm360(lm - ls), norm360(lm - nm)
}

func moonLongitude(d float64) float64 {
	x, y, _ := heliocentric(moonElements, d)
	ms, mm, dd, f := lunarArguments(d)
	lon := atan2d(y, x) -
		1.274*sind(mm-2*dd) +
		0.658*sind(2*dd) -
		0.186*sind(ms) -
		0.059*sind(2*mm-2*dd) -
		0.057*sind(mm-2*dd+ms) +
		0.053*sind(mm+2*dd) +
		0.046*sind(2*dd-ms) +
		0.041*sind(mm-ms) -
		0.035*sind(dd) -
		0.031*sind(mm+ms) -
		0.015*sind(2*f-2*dd) +
		0.011*sind(mm-4*dd)
	return norm360(lon)
}

// trueNodeLongitude applies the principal periodic terms to the mean node.
func trueNodeLongitude(d float64) float64 {
	ms, mm, dd, f := lunarArguments(d)
	mean := moonElements.N0 + moonElements.N1*d
	return norm360(mean -
		1.4979*sind(2*(dd-f)) -
		0.1500*sind(ms) +
		0.1226*sind(2*dd) +
		0.1176*sind(2*f) -
		0.0801*sind(2*(mm-f)))
}

const rad2deg = 180 / math.Pi

func sind(x float64) float64      { return math.Sin(x / rad2deg) }
func cosd(x float64) float64      { return math.Cos(x / rad2deg) }
func atan2d(y, x float64) float64 { return math.Atan2(y, x) * rad2deg }

func norm360(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	if x >= 360 {
		x = 0
	}
	return x
}

func norm24(x float64) float64 {
	x = math.Mod(x, 24)
	if x < 0 {
		x += 24
	}
	return x
}

func wrap180(x float64) float64 {
	x = math.Mod(x+180, 360)
	if x < 0 {
		x += 360
	}
	return x - 180
}
