package dasha

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
)

// Level is the depth of a period in the tree.
type Level int

const (
	Maha Level = iota + 1
	Antar
	Pratyantar
)

func (l Level) String() string {
	switch l {
	case Maha:
		return "maha"
	case Antar:
		return "antar"
	case Pratyantar:
		return "pratyantar"
	}
	return "unknown"
}

// Period is one node of the tree. Parent is -1 for maha periods. The
// children of a node are Nodes[First : First+Count].
type Period struct {
	ID     int         `json:"id"`
	Level  Level       `json:"level"`
	Name   string      `json:"name"`
	Lord   astro.Graha `json:"lord"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Parent int         `json:"parent"`
	First  int         `json:"first_child"`
	Count  int         `json:"child_count"`

	lord  int // index into the system's Lords
	start time.Duration
	end   time.Duration
}

// Duration returns End - Start.
func (p *Period) Duration() time.Duration { return p.end - p.start }

// Contains reports whether t falls in [Start, End).
func (p *Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Tree is an eagerly built period hierarchy. Nodes are stored level by
// level: all maha periods first, then every antar grouped by parent, then
// every pratyantar.
type Tree struct {
	System  string    `json:"system"`
	Birth   time.Time `json:"birth"`
	Horizon time.Time `json:"horizon"`
	Nodes   []Period  `json:"nodes"`

	mahas   int
	horizon time.Duration
	sys     *System
}

// minBalance is the shortest first maha period kept. A shorter balance
// would collapse its antar and pratyantar periods onto the birth instant.
const minBalance = time.Second

// Build generates the three-level tree of sys for a Moon at sidereal
// longitude moon at birth, covering horizonYears (zero selects the
// system's 120 years). The first maha period runs from birth for the
// unelapsed fraction of the birth nakshatra; a balance under minBalance is
// dropped and the following lord starts at birth.
func Build(sys *System, birth time.Time, moon float64, horizonYears float64) (*Tree, error) {
	if horizonYears == 0 {
		horizonYears = 120
	}
	if horizonYears < 0 || horizonYears > MaxHorizonYears {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"dasha horizon must be in (0, %d] years, got %g", MaxHorizonYears, horizonYears)
	}
	if len(sys.Lords) == 0 || sys.Start == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dasha system %q has no lords", sys.Name)
	}

	n, _, into := astro.NakshatraOf(moon)
	remaining := 1 - into/astro.NakshatraSpan
	if remaining < 0 {
		remaining = 0
	}

	t := &Tree{
		System:  sys.Name,
		Birth:   birth,
		horizon: yearsToDuration(horizonYears),
		sys:     sys,
	}
	t.Horizon = birth.Add(t.horizon)

	idx := sys.Start(n) % len(sys.Lords)
	first := yearsToDuration(float64(sys.Lords[idx].Years) * remaining)
	if first < minBalance {
		// The Moon is on the nakshatra boundary: the next lord runs in full.
		idx = (idx + 1) % len(sys.Lords)
		first = yearsToDuration(float64(sys.Lords[idx].Years))
	}
	t.add(Maha, idx, -1, 0, first)
	for end := first; end < t.horizon; {
		idx = (idx + 1) % len(sys.Lords)
		d := yearsToDuration(float64(sys.Lords[idx].Years))
		t.add(Maha, idx, -1, end, end+d)
		end += d
	}
	t.mahas = len(t.Nodes)

	lo, hi := 0, t.mahas
	for _, level := range []Level{Antar, Pratyantar} {
		for parent := lo; parent < hi; parent++ {
			t.subdivide(parent, level)
		}
		lo, hi = hi, len(t.Nodes)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) add(level Level, lord, parent int, start, end time.Duration) {
	l := t.sys.Lords[lord]
	t.Nodes = append(t.Nodes, Period{
		ID:     len(t.Nodes),
		Level:  level,
		Name:   l.Name,
		Lord:   l.Graha,
		Start:  t.Birth.Add(start),
		End:    t.Birth.Add(end),
		Parent: parent,
		lord:   lord,
		start:  start,
		end:    end,
	})
}

// subdivide appends the children of Nodes[parent] in cyclic order from the
// parent's lord. Child k ends at start + dur*cum(k)/cycle.
func (t *Tree) subdivide(parent int, level Level) {
	p := t.Nodes[parent]
	dur := uint64(p.end - p.start)
	cycle := t.sys.CycleYears()
	n := len(t.sys.Lords)

	t.Nodes[parent].First = len(t.Nodes)
	t.Nodes[parent].Count = n

	var cum uint64
	start := p.start
	for k := 0; k < n; k++ {
		idx := (p.lord + k) % n
		cum += t.sys.Lords[idx].Years
		end := p.start + time.Duration(mulDiv(dur, cum, cycle))
		if k == n-1 {
			end = p.end
		}
		t.add(level, idx, parent, start, end)
		start = end
	}
}

// Validate checks that every child sequence is contiguous and spans its
// parent exactly, and that the maha periods start at birth and reach the
// horizon. A violation is reported as
// [errors.ErrCodeDashaTreeInconsistency].
func (t *Tree) Validate() error {
	if t.mahas == 0 {
		return errors.New(errors.ErrCodeDashaTreeInconsistency, "%s tree has no periods", t.System)
	}
	if err := t.checkRun(0, t.mahas, 0, -1); err != nil {
		return err
	}
	if got := t.Nodes[t.mahas-1].end; got < t.horizon {
		return errors.New(errors.ErrCodeDashaTreeInconsistency,
			"%s periods end %v before the horizon", t.System, t.horizon-got)
	}
	for i := range t.Nodes {
		p := &t.Nodes[i]
		if p.Level == Pratyantar {
			if p.Count != 0 {
				return errors.New(errors.ErrCodeDashaTreeInconsistency, "pratyantar %d has children", i)
			}
			continue
		}
		if p.Count == 0 || p.First <= i || p.First+p.Count > len(t.Nodes) {
			return errors.New(errors.ErrCodeDashaTreeInconsistency, "period %d has an invalid child range", i)
		}
		if err := t.checkRun(p.First, p.First+p.Count, p.start, i); err != nil {
			return err
		}
		if last := t.Nodes[p.First+p.Count-1]; last.end != p.end {
			return errors.New(errors.ErrCodeDashaTreeInconsistency,
				"children of period %d end at %v, parent ends at %v", i, last.End, p.End)
		}
	}
	return nil
}

// checkRun verifies that Nodes[lo:hi] start at start, are contiguous and
// all name parent.
func (t *Tree) checkRun(lo, hi int, start time.Duration, parent int) error {
	at := start
	for j := lo; j < hi; j++ {
		c := &t.Nodes[j]
		if c.Parent != parent {
			return errors.New(errors.ErrCodeDashaTreeInconsistency,
				"period %d has parent %d, want %d", j, c.Parent, parent)
		}
		if c.start != at || c.end < c.start {
			return errors.New(errors.ErrCodeDashaTreeInconsistency,
				"period %d is not contiguous with its predecessor", j)
		}
		at = c.end
	}
	return nil
}

// Mahas returns the maha periods in order.
func (t *Tree) Mahas() []Period { return t.Nodes[:t.mahas] }

// Children returns the children of node id, or nil.
func (t *Tree) Children(id int) []Period {
	if id < 0 || id >= len(t.Nodes) {
		return nil
	}
	p := t.Nodes[id]
	return t.Nodes[p.First : p.First+p.Count]
}

// Active holds the periods running at one instant. Fields are nil when
// the instant is outside the tree.
type Active struct {
	Maha       *Period `json:"maha"`
	Antar      *Period `json:"antar"`
	Pratyantar *Period `json:"pratyantar"`
}

// Active returns the maha, antar and pratyantar periods containing at.
func (t *Tree) Active(at time.Time) Active {
	var out Active
	maha := t.find(0, t.mahas, at)
	if maha < 0 {
		return out
	}
	out.Maha = &t.Nodes[maha]
	antar := t.find(out.Maha.First, out.Maha.First+out.Maha.Count, at)
	if antar < 0 {
		return out
	}
	out.Antar = &t.Nodes[antar]
	prat := t.find(out.Antar.First, out.Antar.First+out.Antar.Count, at)
	if prat >= 0 {
		out.Pratyantar = &t.Nodes[prat]
	}
	return out
}

// find returns the index in [lo,hi) of the period containing at, or -1.
func (t *Tree) find(lo, hi int, at time.Time) int {
	i := lo + sort.Search(hi-lo, func(k int) bool { return at.Before(t.Nodes[lo+k].End) })
	if i < hi && t.Nodes[i].Contains(at) {
		return i
	}
	return -1
}

// UnmarshalJSON decodes a tree and restores the offsets the queries use.
func (t *Tree) UnmarshalJSON(data []byte) error {
	type plain Tree
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tree(p)
	t.sys = Systems[t.System]
	t.horizon = t.Horizon.Sub(t.Birth)
	t.mahas = 0
	for i := range t.Nodes {
		n := &t.Nodes[i]
		n.start = n.Start.Sub(t.Birth)
		n.end = n.End.Sub(t.Birth)
		if n.Level == Maha {
			t.mahas++
		}
		if t.sys != nil {
			for k, l := range t.sys.Lords {
				if l.Name == n.Name {
					n.lord = k
				}
			}
		}
	}
	return nil
}
