package errors

import (
	"math"
	"time"
)

// Supported instant range for chart computation. Outside it, the precession
// models and analytic fallback drift beyond useful accuracy.
var (
	MinInstant = time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxInstant = time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)
)

// ValidateInstant checks that t is set and inside the supported range.
func ValidateInstant(t time.Time) error {
	if t.IsZero() {
		return New(ErrCodeInvalidInstant, "birth instant is not set")
	}
	if t.Before(MinInstant) || !t.Before(MaxInstant) {
		return New(ErrCodeInvalidInstant, "instant %s outside supported range [%s, %s)",
			t.UTC().Format(time.RFC3339), MinInstant.Format("2006-01-02"), MaxInstant.Format("2006-01-02"))
	}
	return nil
}

// ParseInstant parses an RFC 3339 timestamp and validates its range.
// The result is always normalized to UTC.
func ParseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, New(ErrCodeInvalidInstant, "instant cannot be empty")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, Wrap(ErrCodeInvalidInstant, err, "cannot parse instant %q", s)
	}
	t = t.UTC()
	if err := ValidateInstant(t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ValidateCoordinates validates a geographic latitude/longitude pair.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return New(ErrCodeInvalidInput, "coordinates cannot be NaN")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidInput, "latitude %.4f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidInput, "longitude %.4f out of range [-180, 180]", lon)
	}
	return nil
}
