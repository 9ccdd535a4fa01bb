package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/kuta"
	"github.com/matzehuels/jyotish/pkg/muhurta"
)

// skyWorkers bounds the snapshots resolved at once by EvaluateMuhurta.
const skyWorkers = 4

// EvaluateMuhurta scores each instant for event against a natal bundle and
// returns the evaluations best first. Each instant's weekday is read in its
// own location, and the maha dasha running at it lifts the matching day.
func (r *Runner) EvaluateMuhurta(ctx context.Context, natal *Bundle, instants []time.Time, event muhurta.Event) ([]*muhurta.Evaluation, error) {
	if natal == nil || natal.Natal == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "muhurta requires a computed natal bundle")
	}
	if len(instants) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "muhurta requires at least one instant")
	}
	event, err := muhurta.ParseEvent(string(event))
	if err != nil {
		return nil, err
	}
	for _, at := range instants {
		if err := errors.ValidateInstant(at); err != nil {
			return nil, err
		}
	}

	candidates := make([]muhurta.Candidate, len(instants))
	err = stage(ctx, "muhurta", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(skyWorkers)
		for i, at := range instants {
			g.Go(func() error {
				sky, err := r.sky(gctx, natal, at.UTC())
				if err != nil {
					return err
				}
				c := muhurta.Candidate{
					At:  at,
					Sky: sky,
					Options: muhurta.Options{
						Event:        event,
						Ashtakavarga: natal.Ashtakavarga,
					},
				}
				if natal.Vimshottari != nil {
					if maha := natal.Vimshottari.Active(at).Maha; maha != nil {
						lord := maha.Lord
						c.Options.DashaLord = &lord
					}
				}
				candidates[i] = c
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}

	evals, err := muhurta.Compare(natal.Natal, candidates)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("evaluated muhurta",
		"event", event,
		"instants", len(evals),
		"best", evals[0].Total)
	return evals, nil
}

// Compatibility matches two natal bundles by guna milan. The first bundle
// is read as the boy's chart.
func Compatibility(boy, girl *Bundle) (*kuta.Match, error) {
	if boy == nil || boy.Natal == nil || girl == nil || girl.Natal == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "compatibility requires two computed natal bundles")
	}
	return kuta.Score(kuta.MoonOf(boy.Natal), kuta.MoonOf(girl.Natal))
}
