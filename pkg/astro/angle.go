package astro

import (
	"fmt"
	"math"
)

// Normalize maps an angle in degrees into [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// Separation returns the shortest arc between two longitudes, in [0,180].
func Separation(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// FormatDMS formats an angle as whole degrees and arc minutes, e.g. 12°34'.
// Minutes are truncated, never rounded up to 60.
func FormatDMS(deg float64) string {
	sign := ""
	if deg < 0 {
		sign, deg = "-", -deg
	}
	d := math.Floor(deg)
	m := math.Floor((deg - d) * 60)
	return fmt.Sprintf("%s%d°%02d'", sign, int(d), int(m))
}
