package astro

import "time"

// J2000 is the Julian day of 2000-01-01 12:00 TT, the reference epoch of
// the precession and mean-element series used here.
const J2000 = 2451545.0

// unixEpochJD is the Julian day of 1970-01-01 00:00 UTC.
const unixEpochJD = 2440587.5

// JulianDay converts an instant to a Julian day number. UTC is used in
// place of TT; the difference is well below the resolution of whole-sign work.
func JulianDay(t time.Time) float64 {
	return unixEpochJD + float64(t.UnixNano())/float64(24*time.Hour)
}

// FromJulianDay converts a Julian day back to a UTC instant.
func FromJulianDay(jd float64) time.Time {
	ns := (jd - unixEpochJD) * float64(24*time.Hour)
	return time.Unix(0, int64(ns)).UTC()
}

// CenturiesSinceJ2000 returns Julian centuries elapsed since J2000.
func CenturiesSinceJ2000(jd float64) float64 {
	return (jd - J2000) / 36525
}
