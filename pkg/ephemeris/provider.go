package ephemeris

import (
	"context"
	"fmt"
)

// Body is a point the provider can resolve.
type Body string

const (
	Sun      Body = "sun"
	Moon     Body = "moon"
	Mercury  Body = "mercury"
	Venus    Body = "venus"
	Mars     Body = "mars"
	Jupiter  Body = "jupiter"
	Saturn   Body = "saturn"
	MeanNode Body = "mean_node"
	TrueNode Body = "true_node"
)

// Bodies lists every body a complete provider resolves.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, MeanNode, TrueNode}

// Precision labels the quality of a provider answer.
type Precision string

const (
	PrecisionDetailed Precision = "detailed"
	PrecisionAnalytic Precision = "analytic"
)

// rank orders precisions so the lowest one used can be reported.
func (p Precision) rank() int {
	if p == PrecisionDetailed {
		return 1
	}
	return 0
}

// Lower returns the less precise of a and b.
func Lower(a, b Precision) Precision {
	if a == "" {
		return b
	}
	if b == "" || a.rank() <= b.rank() {
		return a
	}
	return b
}

// Position is the tropical, geocentric answer for one body.
type Position struct {
	Longitude float64   `json:"longitude"` // Tropical ecliptic longitude, degrees of date
	Speed     float64   `json:"speed"`     // Degrees per day; negative when retrograde
	Precision Precision `json:"precision"`
}

// Provider resolves raw positions. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Position returns the tropical position of body at Julian day jd.
	Position(ctx context.Context, jd float64, body Body) (Position, error)
	// SiderealTime returns local sidereal time in hours [0,24)
	// for an east-positive geographic longitude.
	SiderealTime(ctx context.Context, jd, longitude float64) (float64, error)
	// Name identifies the provider in cache keys and logs.
	Name() string
}

// ParseBody resolves a body name as used on the wire.
func ParseBody(s string) (Body, error) {
	for _, b := range Bodies {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown body %q", s)
}
