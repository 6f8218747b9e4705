package metapop

import (
	"context"
	"math"

	"github.com/opencog-go/metapop-search/pkg/errors"
)

// skipSentinel marks a visited entry's slot in the weighted-score vector.
// It is a fixed large constant, not derived from the live entries' own
// weighted scores, so it can never coincide with an achievable value —
// mirroring the MOSES original's fixed 1.0e38 SKIP_OVER_ME constant.
const skipSentinel = math.MaxFloat64 / 4

// skipThreshold is the cutoff used to recognize a SKIP slot in the softmax
// pass; anything at or above it is excluded from selection.
const skipThreshold = 0.1 * skipSentinel

// Selector draws exemplars from a Metapopulation by softmax over weighted
// score, excluding already-visited trees and optionally applying a
// diversity penalty against the previous exemplar's behavioral score.
type Selector struct {
	store  *Metapopulation
	rng    *RNG
	tau    float64 // complexity temperature
	k      float64 // complexity weight
	useDiv bool
}

// NewSelector builds a Selector over the given store.
func NewSelector(store *Metapopulation, rng *RNG, complexityTemperature, complexityWeight float64, useDiversityPenalty bool) *Selector {
	return &Selector{store: store, rng: rng, tau: complexityTemperature, k: complexityWeight, useDiv: useDiversityPenalty}
}

// Select runs the softmax exemplar-selection algorithm and returns the
// chosen entry, or EmptyMetapop/NoExemplar errors for the two "nothing to
// pick" cases.
func (s *Selector) Select(ctx context.Context, visited *VisitedSet, prev *Entry) (*Entry, error) {
	if s.store.Empty() {
		return nil, errors.New(errors.EmptyMetapop, "selector: metapopulation is empty")
	}

	entries := s.store.Entries()

	// Step 1: single-entry shortcut.
	if len(entries) == 1 {
		only := entries[0]
		if !visited.Contains(s.store.ops, only.Tree) {
			return only, nil
		}
	}

	// Step 2: diversity penalty against the previous exemplar.
	if s.useDiv && prev != nil && len(prev.B) > 0 {
		s.applyDiversityPenalty(prev)
	}

	// Step 3: build the parallel weighted-score vector, SKIP for visited.
	p := make([]float64, len(entries))
	anyLive := false
	for i, e := range entries {
		if visited.Contains(s.store.ops, e.Tree) {
			p[i] = skipSentinel
			continue
		}
		p[i] = e.Weighted(s.k)
		anyLive = true
	}
	if !anyLive {
		return nil, errors.New(errors.NoExemplar, "selector: every tree has been visited")
	}

	// Step 5: softmax over the live entries.
	sMax := math.Inf(-1)
	for _, v := range p {
		if v < skipThreshold && v > sMax {
			sMax = v
		}
	}
	beta := 100 / s.tau
	weights := make([]float64, len(p))
	var z float64
	for i, v := range p {
		if v >= skipThreshold {
			weights[i] = 0
			continue
		}
		weights[i] = math.Exp(beta * (v - sMax))
		z += weights[i]
	}
	if z <= 0 {
		return nil, errors.New(errors.NoExemplar, "selector: softmax mass is zero")
	}

	// Step 6: sample proportional to weights.
	draw := s.rng.Float64() * z
	var cum float64
	for i, w := range weights {
		cum += w
		if draw <= cum {
			return entries[i], nil
		}
	}
	return entries[len(entries)-1], nil
}

// applyDiversityPenalty sets E.C.D := 1/(1+||B_prev - B||_1) for every
// entry with a nonempty behavioral score, leaving empty-B entries at
// d=0, then re-sorts the store under the new weighted scores.
func (s *Selector) applyDiversityPenalty(prev *Entry) {
	for _, e := range s.store.entries {
		if len(e.B) == 0 {
			e.C.D = 0
			continue
		}
		e.C.D = 1 / (1 + l1Distance(prev.B, e.B))
	}
	s.store.resort()
}

func l1Distance(a, b BScore) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
