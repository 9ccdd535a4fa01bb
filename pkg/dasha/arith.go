package dasha

import (
	"math"
	"math/bits"
	"time"
)

// Year is the period year, 365.25 days.
const Year = time.Duration(36525) * 24 * time.Hour / 100

// MaxHorizonYears bounds the horizon so every offset fits a time.Duration.
const MaxHorizonYears = 240

// mulDiv returns a*b/c without intermediate overflow. The quotient must
// fit in 64 bits, which holds whenever b <= c.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// yearsToDuration converts fractional years to nanoseconds, rounded.
func yearsToDuration(years float64) time.Duration {
	return time.Duration(math.Round(years * float64(Year)))
}
