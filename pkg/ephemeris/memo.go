package ephemeris

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo keeps every answer of the wrapped provider in memory. One Memo is
// created per chart computation so that every derived structure reuses the
// same raw ephemeris answer; concurrent requests for the same key share a
// single upstream call.
type Memo struct {
	inner Provider

	mu        sync.Mutex
	positions map[posKey]Position
	sidereal  map[[2]float64]float64
	group     singleflight.Group
}

type posKey struct {
	jd   float64
	body Body
}

// NewMemo wraps p with a per-computation memo.
func NewMemo(p Provider) *Memo {
	return &Memo{
		inner:     p,
		positions: make(map[posKey]Position),
		sidereal:  make(map[[2]float64]float64),
	}
}

// Name implements [Provider].
func (m *Memo) Name() string { return m.inner.Name() }

// Position implements [Provider].
func (m *Memo) Position(ctx context.Context, jd float64, body Body) (Position, error) {
	k := posKey{jd, body}
	m.mu.Lock()
	if p, ok := m.positions[k]; ok {
		m.mu.Unlock()
		return p, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(fmt.Sprintf("pos:%v:%s", jd, body), func() (any, error) {
		m.mu.Lock()
		if p, ok := m.positions[k]; ok {
			m.mu.Unlock()
			return p, nil
		}
		m.mu.Unlock()
		p, err := m.inner.Position(ctx, jd, body)
		if err != nil {
			return Position{}, err
		}
		m.mu.Lock()
		m.positions[k] = p
		m.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return Position{}, err
	}
	return v.(Position), nil
}

// SiderealTime implements [Provider].
func (m *Memo) SiderealTime(ctx context.Context, jd, longitude float64) (float64, error) {
	k := [2]float64{jd, longitude}
	m.mu.Lock()
	if st, ok := m.sidereal[k]; ok {
		m.mu.Unlock()
		return st, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(fmt.Sprintf("lst:%v:%v", jd, longitude), func() (any, error) {
		m.mu.Lock()
		if st, ok := m.sidereal[k]; ok {
			m.mu.Unlock()
			return st, nil
		}
		m.mu.Unlock()
		st, err := m.inner.SiderealTime(ctx, jd, longitude)
		if err != nil {
			return 0.0, err
		}
		m.mu.Lock()
		m.sidereal[k] = st
		m.mu.Unlock()
		return st, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Len returns the number of memoized answers.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.positions) + len(m.sidereal)
}
