// Package varga projects a natal chart into divisional charts.
//
// Every division is described by data: a [Descriptor] names the first
// divisional sign for each natal sign and how many signs each further
// subdivision advances, or, for unequal divisions such as the Trimshamsha,
// an explicit slot table. Descriptors are materialized once into a lookup
// table, and a single routine ([Table.Map]) serves every division.
//
// The sixteen Parashari divisions are registered by default. Further
// divisions can be added with [Register] or on a private [Registry].
package varga

import (
	"math"
	"sort"
	"sync"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
)

// =============================================================================
// Descriptors
// =============================================================================

// Slot is one unequal subdivision: degrees in the natal sign below Until
// (and at or above the previous slot's Until) map to Sign.
type Slot struct {
	Until float64
	Sign  astro.Sign
}

// Descriptor defines one division.
//
// For equal divisions, subdivision k of natal sign s maps to
// Start[s-1].Add(k*Step[s-1]). A zero Step means 1; Step -1 counts
// backwards through the zodiac. When Odd and Even are set the division is
// unequal and Start and Step are ignored.
type Descriptor struct {
	N     int
	Name  string
	Start [12]astro.Sign
	Step  [12]int
	Odd   []Slot
	Even  []Slot
}

func (d Descriptor) unequal() bool { return len(d.Odd) > 0 || len(d.Even) > 0 }

func (d Descriptor) validate() error {
	if d.N < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "division must be at least 1, got %d", d.N)
	}
	if d.unequal() {
		for _, slots := range [][]Slot{d.Odd, d.Even} {
			if len(slots) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "D%d: unequal division needs odd and even slots", d.N)
			}
			prev := 0.0
			for _, s := range slots {
				if s.Until <= prev || !s.Sign.Valid() {
					return errors.New(errors.ErrCodeInvalidInput, "D%d: slots must ascend and name valid signs", d.N)
				}
				prev = s.Until
			}
			if prev != 30 {
				return errors.New(errors.ErrCodeInvalidInput, "D%d: last slot ends at %.2f, want 30", d.N, prev)
			}
		}
		return nil
	}
	for i, s := range d.Start {
		if !s.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "D%d: no start sign for %v", d.N, astro.Sign(i+1))
		}
	}
	return nil
}

// =============================================================================
// Tables
// =============================================================================

// Table is a materialized, immutable division.
type Table struct {
	desc  Descriptor
	signs [12][]astro.Sign
}

func materialize(d Descriptor) *Table {
	t := &Table{desc: d}
	if d.unequal() {
		return t
	}
	for i := range t.signs {
		step := d.Step[i]
		if step == 0 {
			step = 1
		}
		row := make([]astro.Sign, d.N)
		for k := range row {
			row[k] = d.Start[i].Add(k * step)
		}
		t.signs[i] = row
	}
	return t
}

// N returns the division number.
func (t *Table) N() int { return t.desc.N }

// Name returns the traditional name of the division.
func (t *Table) Name() string { return t.desc.Name }

// Map projects a sidereal longitude into the division. It returns the
// divisional sign and the fractional position within the subdivision, in
// [0,1).
func (t *Table) Map(lon float64) (astro.Sign, float64) {
	s := astro.SignOf(lon)
	deg := astro.DegreeInSign(lon)

	if t.desc.unequal() {
		slots := t.desc.Even
		if s.IsOdd() {
			slots = t.desc.Odd
		}
		lo := 0.0
		for _, sl := range slots {
			if deg < sl.Until {
				return sl.Sign, (deg - lo) / (sl.Until - lo)
			}
			lo = sl.Until
		}
		last := slots[len(slots)-1]
		return last.Sign, 0
	}

	x := deg * float64(t.desc.N) / 30
	idx := int(math.Floor(x))
	if idx >= t.desc.N {
		idx = t.desc.N - 1
	}
	frac := x - float64(idx)
	if frac < 0 || frac >= 1 {
		frac = 0
	}
	return t.signs[s-1][idx], frac
}

// Longitude returns the divisional longitude of lon: the divisional sign
// plus the fractional subdivision position stretched over 30°.
func (t *Table) Longitude(lon float64) float64 {
	s, frac := t.Map(lon)
	return float64(s-1)*30 + frac*30
}

// =============================================================================
// Registry
// =============================================================================

// Registry holds the divisions available for generation. It is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[int]*Table
}

// NewRegistry returns a registry holding the sixteen Parashari divisions.
func NewRegistry() *Registry {
	r := &Registry{tables: make(map[int]*Table, len(parashari))}
	for _, d := range parashari {
		r.tables[d.N] = materialize(d)
	}
	return r
}

// Register adds or replaces a division.
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	t := materialize(d)
	r.mu.Lock()
	r.tables[d.N] = t
	r.mu.Unlock()
	return nil
}

// Lookup returns the table for division n, or an
// [errors.ErrCodeUnsupportedDivision] error.
func (r *Registry) Lookup(n int) (*Table, error) {
	r.mu.RLock()
	t, ok := r.tables[n]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedDivision, "division D%d is not supported", n)
	}
	return t, nil
}

// Divisions returns the registered division numbers in ascending order.
func (r *Registry) Divisions() []int {
	r.mu.RLock()
	out := make([]int, 0, len(r.tables))
	for n := range r.tables {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Ints(out)
	return out
}

// Generate projects natal into division n. Positions keep their speed,
// retrograde and combustion flags; sign, nakshatra, pada and house are
// recomputed for the divisional frame. Dignity is left empty for the
// dignity package to fill. D1 returns a copy of natal.
func (r *Registry) Generate(natal *astro.Variant, n int) (*astro.Variant, error) {
	t, err := r.Lookup(n)
	if err != nil {
		return nil, err
	}
	if n == 1 {
		cp := *natal
		return &cp, nil
	}

	v := &astro.Variant{
		Division:  n,
		Ascendant: astro.NewAscendant(t.Longitude(natal.Ascendant.Longitude)),
	}
	for i, p := range natal.Positions {
		dp := astro.NewPosition(p.Graha, t.Longitude(p.Longitude), p.Speed)
		dp.Combust = p.Combust
		v.Positions[i] = dp
	}
	house.Assign(v)
	return v, nil
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register adds d to the default registry.
func Register(d Descriptor) error { return defaultRegistry.Register(d) }

// Lookup returns division n from the default registry.
func Lookup(n int) (*Table, error) { return defaultRegistry.Lookup(n) }

// Divisions lists the divisions of the default registry.
func Divisions() []int { return defaultRegistry.Divisions() }

// Generate projects natal into division n using the default registry.
func Generate(natal *astro.Variant, n int) (*astro.Variant, error) {
	return defaultRegistry.Generate(natal, n)
}

// Vargottama returns the grahas occupying the same sign in d1 and d9, in
// canonical order.
func Vargottama(d1, d9 *astro.Variant) []astro.Graha {
	var out []astro.Graha
	for g := range d1.Positions {
		if d1.Positions[g].Sign == d9.Positions[g].Sign {
			out = append(out, astro.Graha(g))
		}
	}
	return out
}
