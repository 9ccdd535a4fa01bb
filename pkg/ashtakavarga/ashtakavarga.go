// Package ashtakavarga computes the bhinna (per-contributor) and sarva
// (aggregate) bindu tables of a chart.
//
// Each of the seven classical grahas contributes bindus to the twelve
// signs. A sign earns one bindu from a contributor for each of the eight
// reference points (the seven grahas and the ascendant) from which the
// sign's house appears in that contributor's table. Rahu and Ketu take
// no part.
package ashtakavarga

import (
	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
)

// Options selects the contributors that make up the sarva table.
type Options struct {
	// Participants defaults to the seven classical grahas. Only those
	// grahas have contributor tables.
	Participants []astro.Graha
}

// Result holds the bindu tables of one chart. Signs are indexed from 0
// (Aries); contributors by graha.
type Result struct {
	Bhinna       [7][12]int    `json:"bhinna"`
	Sarva        [12]int       `json:"sarva"`
	Participants []astro.Graha `json:"participants"`
}

// Compute fills the bhinna table of every classical contributor and sums
// the participants into sarva.
func Compute(v *astro.Variant, opts Options) (*Result, error) {
	parts := opts.Participants
	if len(parts) == 0 {
		parts = astro.Classical()
	}
	for _, g := range parts {
		if g < astro.Sun || g > astro.Saturn {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%v has no ashtakavarga table", g)
		}
	}

	var refs [NumRefs]astro.Sign
	for _, g := range astro.Classical() {
		refs[g] = v.SignOf(g)
	}
	refs[AscendantRef] = v.Ascendant.Sign

	res := &Result{Participants: append([]astro.Graha(nil), parts...)}
	for c := range res.Bhinna {
		for s := astro.Aries; s <= astro.Pisces; s++ {
			n := 0
			for r, ref := range refs {
				if masks[c][r]&(1<<(s.HouseFrom(ref)-1)) != 0 {
					n++
				}
			}
			res.Bhinna[c][s-1] = n
		}
	}
	for _, g := range parts {
		for s := range res.Sarva {
			res.Sarva[s] += res.Bhinna[g][s]
		}
	}
	return res, nil
}

// BhinnaOf returns the bindus contributor c gives sign s.
func (r *Result) BhinnaOf(c astro.Graha, s astro.Sign) int { return r.Bhinna[c][s-1] }

// SarvaOf returns the aggregate bindus of sign s.
func (r *Result) SarvaOf(s astro.Sign) int { return r.Sarva[s-1] }

// Total returns the bindus contributor c gives across all signs. It is
// fixed per contributor regardless of the chart.
func (r *Result) Total(c astro.Graha) int {
	n := 0
	for _, b := range r.Bhinna[c] {
		n += b
	}
	return n
}

// Grand returns the sum of the sarva table.
func (r *Result) Grand() int {
	n := 0
	for _, b := range r.Sarva {
		n += b
	}
	return n
}
