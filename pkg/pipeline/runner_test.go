package pipeline

import (
	"context"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/dignity"
	"github.com/matzehuels/jyotish/pkg/ephemeris"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
)

var delhi = BirthParams{
	Name:      "test",
	Instant:   time.Date(1990, 5, 17, 4, 30, 0, 0, time.UTC),
	Latitude:  28.61,
	Longitude: 77.21,
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestComputeChart(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(), nil)
	b, err := r.ComputeChart(context.Background(), delhi, Options{})
	if err != nil {
		t.Fatalf("ComputeChart() = %v", err)
	}

	rahu, ketu := b.Natal.Of(astro.Rahu), b.Natal.Of(astro.Ketu)
	if sep := astro.Separation(rahu.Longitude, ketu.Longitude); sep < 180-1e-9 {
		t.Errorf("Rahu-Ketu separation = %v", sep)
	}
	for _, p := range b.Natal.Positions {
		if p.House < 1 || p.House > 12 || p.Dignity == "" {
			t.Errorf("%v not annotated: house %d dignity %q", p.Graha, p.House, p.Dignity)
		}
	}
	for _, n := range []int{2, 3, 7, 9, 12, 30} {
		if b.Divisional(n) == nil {
			t.Errorf("missing D%d", n)
		}
	}
	if len(b.Shadbala) != astro.NumGrahas {
		t.Errorf("shadbala has %d entries, want %d", len(b.Shadbala), astro.NumGrahas)
	}
	if got := b.Ashtakavarga.Grand(); got != 337 {
		t.Errorf("sarva total = %d, want 337", got)
	}
	if err := b.Vimshottari.Validate(); err != nil {
		t.Errorf("vimshottari: %v", err)
	}
	if b.Yogini == nil || len(b.Yogini.Mahas()) == 0 {
		t.Error("yogini tree missing")
	}
	if b.Precision != ephemeris.PrecisionAnalytic {
		t.Errorf("Precision = %q", b.Precision)
	}
	if len(b.Warnings) != 0 {
		t.Errorf("unexpected warnings %+v", b.Warnings)
	}
	if b.AyanamshaValue < 23 || b.AyanamshaValue > 24.5 {
		t.Errorf("ayanamsha = %v", b.AyanamshaValue)
	}
}

func TestComputeChartPolarWarning(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(), nil)
	p := delhi
	p.Latitude = 70
	b, err := r.ComputeChart(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("ComputeChart() = %v", err)
	}
	if !b.Degraded || len(b.Warnings) != 1 || b.Warnings[0].Code != errors.ErrCodeDegradedAscendant {
		t.Errorf("degraded=%v warnings=%+v", b.Degraded, b.Warnings)
	}
}

func TestComputeChartCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger(), nil)
	ctx := context.Background()

	first, stats, err := r.ComputeChartWithStats(ctx, delhi, Options{})
	if err != nil || stats.CacheHit {
		t.Fatalf("first call: hit=%v err=%v", stats.CacheHit, err)
	}
	second, stats, err := r.ComputeChartWithStats(ctx, delhi, Options{})
	if err != nil || !stats.CacheHit {
		t.Fatalf("second call: hit=%v err=%v", stats.CacheHit, err)
	}
	if !reflect.DeepEqual(first.Natal, second.Natal) {
		t.Error("cached natal chart differs")
	}
	at := delhi.Instant.AddDate(30, 0, 0)
	if a, b := first.Vimshottari.Active(at), second.Vimshottari.Active(at); a.Pratyantar.ID != b.Pratyantar.ID {
		t.Errorf("active period %d vs %d", a.Pratyantar.ID, b.Pratyantar.ID)
	}

	_, stats, err = r.ComputeChartWithStats(ctx, delhi, Options{Refresh: true})
	if err != nil || stats.CacheHit {
		t.Errorf("refresh: hit=%v err=%v", stats.CacheHit, err)
	}
	_, stats, err = r.ComputeChartWithStats(ctx, delhi, Options{WarRule: dignity.HigherLongitude})
	if err != nil || stats.CacheHit {
		t.Errorf("custom war rule: hit=%v err=%v", stats.CacheHit, err)
	}
}

// patchyProvider reports detailed answers except for Saturn, which it
// cannot resolve.
type patchyProvider struct{ *ephemeris.Analytic }

func (patchyProvider) Name() string { return "remote" }

func (p patchyProvider) Position(ctx context.Context, jd float64, body ephemeris.Body) (ephemeris.Position, error) {
	if body == ephemeris.Saturn {
		return ephemeris.Position{}, errors.New(errors.ErrCodeMissingEphemerisData, "no data for %s", body)
	}
	pos, err := p.Analytic.Position(ctx, jd, body)
	pos.Precision = ephemeris.PrecisionDetailed
	return pos, err
}

func TestComputeChartFallback(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(), patchyProvider{ephemeris.NewAnalytic()})
	b, err := r.ComputeChart(context.Background(), delhi, Options{})
	if err != nil {
		t.Fatalf("ComputeChart() = %v", err)
	}
	if b.Precision != ephemeris.PrecisionAnalytic {
		t.Errorf("Precision = %q, want analytic", b.Precision)
	}
	if len(b.Warnings) != 1 || b.Warnings[0].Code != errors.ErrCodeMissingEphemerisData {
		t.Errorf("Warnings = %+v", b.Warnings)
	}
}

// stalledProvider never answers before the context ends.
type stalledProvider struct{ *ephemeris.Analytic }

func (stalledProvider) Position(ctx context.Context, jd float64, body ephemeris.Body) (ephemeris.Position, error) {
	<-ctx.Done()
	return ephemeris.Position{}, ctx.Err()
}

func TestComputeChartTimeout(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(), stalledProvider{ephemeris.NewAnalytic()})
	_, err := r.ComputeChart(context.Background(), delhi, Options{EphemerisTimeout: 20 * time.Millisecond})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeTimeout)
	}
}

// gatedProvider holds every position request until gate is closed.
type gatedProvider struct {
	*ephemeris.Analytic
	gate chan struct{}
}

func (p gatedProvider) Position(ctx context.Context, jd float64, body ephemeris.Body) (ephemeris.Position, error) {
	select {
	case <-p.gate:
	case <-ctx.Done():
		return ephemeris.Position{}, ctx.Err()
	}
	return p.Analytic.Position(ctx, jd, body)
}

func TestComputeChartConcurrentOptions(t *testing.T) {
	gate := make(chan struct{})
	r := NewRunner(nil, nil, quietLogger(), gatedProvider{ephemeris.NewAnalytic(), gate})
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		want []astro.Graha
	}{
		{"default", Options{}, astro.Classical()},
		{"sun only", Options{Participants: []astro.Graha{astro.Sun}}, []astro.Graha{astro.Sun}},
		{"moon only", Options{Participants: []astro.Graha{astro.Moon}}, []astro.Graha{astro.Moon}},
	}
	bundles := make([]*Bundle, len(tests))
	errs := make([]error, len(tests))
	var wg sync.WaitGroup
	for i, tt := range tests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundles[i], errs[i] = r.ComputeChart(ctx, delhi, tt.opts)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i, tt := range tests {
		if errs[i] != nil {
			t.Errorf("%s: ComputeChart() = %v", tt.name, errs[i])
			continue
		}
		if got := bundles[i].Ashtakavarga.Participants; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Participants = %v, want %v", tt.name, got, tt.want)
		}
		for j := 0; j < i; j++ {
			if bundles[i] == bundles[j] {
				t.Errorf("%s and %s share one bundle", tt.name, tests[j].name)
			}
		}
	}
}

func TestComputeChartCancelledWaiter(t *testing.T) {
	gate := make(chan struct{})
	r := NewRunner(nil, nil, quietLogger(), gatedProvider{ephemeris.NewAnalytic(), gate})

	leaderCtx, cancel := context.WithCancel(context.Background())
	var leaderErr, followerErr error
	var follower *Bundle
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, leaderErr = r.ComputeChart(leaderCtx, delhi, Options{})
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		defer wg.Done()
		follower, followerErr = r.ComputeChart(context.Background(), delhi, Options{})
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)
	close(gate)
	wg.Wait()

	if !errors.Is(leaderErr, errors.ErrCodeTimeout) {
		t.Errorf("cancelled caller err = %v, want %s", leaderErr, errors.ErrCodeTimeout)
	}
	if followerErr != nil || follower == nil {
		t.Fatalf("waiting caller = %v, %v", follower, followerErr)
	}
	if follower.Natal == nil || follower.Natal.Division != 1 {
		t.Errorf("waiting caller got natal %+v", follower.Natal)
	}
}

func TestOverlayTransit(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger(), nil)
	ctx := context.Background()
	natal, err := r.ComputeChart(ctx, delhi, Options{})
	if err != nil {
		t.Fatal(err)
	}
	before := *natal.Natal

	o, err := r.OverlayTransit(ctx, natal, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OverlayTransit() = %v", err)
	}
	asc := natal.Natal.Ascendant.Sign
	moon := natal.Natal.SignOf(astro.Moon)
	for _, p := range o.Placements {
		if p.House != house.Of(p.Sign, asc) || p.FromMoon != p.Sign.HouseFrom(moon) {
			t.Errorf("%v: house %d from moon %d for sign %v", p.Graha, p.House, p.FromMoon, p.Sign)
		}
		if !p.Graha.IsNode() && p.Bindus == nil {
			t.Errorf("%v has no bindus", p.Graha)
		}
	}
	if !reflect.DeepEqual(before, *natal.Natal) {
		t.Error("overlay modified the natal chart")
	}

	if _, err := r.OverlayTransit(ctx, nil, time.Now()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil bundle err = %v", err)
	}
}
