// Package ayanamsha computes the precession correction between the tropical
// and sidereal zodiacs.
//
// Each [Model] anchors a published ayanamsha value at a reference epoch and
// accumulates IAU general precession in longitude from there. Models are
// registered by name; [Default] is Lahiri (Chitrapaksha). Values are
// monotonically non-decreasing across the supported instant range.
package ayanamsha

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
)

// Default is the model used when none is configured.
const Default = "lahiri"

// Model is a named precession model.
type Model struct {
	Name       string  // Registry key, lower-case
	Title      string  // Display name
	EpochJD    float64 // Reference epoch (Julian day)
	EpochValue float64 // Ayanamsha at the reference epoch, in degrees
}

var registry = map[string]Model{
	"lahiri":        {Name: "lahiri", Title: "Lahiri (Chitrapaksha)", EpochJD: 2435553.5, EpochValue: 23.245524743},
	"raman":         {Name: "raman", Title: "B. V. Raman", EpochJD: 2415020.0, EpochValue: 21.01444},
	"krishnamurti":  {Name: "krishnamurti", Title: "Krishnamurti (KP)", EpochJD: 2415020.0, EpochValue: 22.363889},
	"fagan-bradley": {Name: "fagan-bradley", Title: "Fagan/Bradley", EpochJD: 2433282.42346, EpochValue: 24.042044444},
}

// Lookup resolves a model by case-insensitive name. An empty name selects [Default].
func Lookup(name string) (Model, error) {
	if name == "" {
		name = Default
	}
	m, ok := registry[strings.ToLower(name)]
	if !ok {
		return Model{}, errors.New(errors.ErrCodeUnknownAyanamsha, "unknown ayanamsha %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names returns the registered model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Value returns the ayanamsha in degrees for t.
// Instants outside the supported range fail with [errors.ErrCodeInvalidInstant].
func (m Model) Value(t time.Time) (float64, error) {
	if err := errors.ValidateInstant(t); err != nil {
		return 0, err
	}
	return m.AtJD(astro.JulianDay(t)), nil
}

// AtJD returns the ayanamsha for a Julian day without range validation.
func (m Model) AtJD(jd float64) float64 {
	t := astro.CenturiesSinceJ2000(jd)
	t0 := astro.CenturiesSinceJ2000(m.EpochJD)
	return m.EpochValue + (precession(t)-precession(t0))/3600
}

// precession is the IAU 2006 general precession in longitude, in arcseconds,
// for t Julian centuries from J2000.
func precession(t float64) float64 {
	return 5028.796195*t + 1.1054348*t*t
}
