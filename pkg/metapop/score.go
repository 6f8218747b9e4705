package metapop

import (
	"math"

	"github.com/opencog-go/metapop-search/pkg/errors"
)

// Domination is the tri-valued result of comparing two behavioral scores.
type Domination int

const (
	Incomparable Domination = iota
	StrictlyBetter
	StrictlyWorse
)

// Dominates compares two behavioral score vectors under "lower is better".
// An empty vector is dominated by any non-empty one (vacuous improvement);
// two empty vectors are incomparable. Mismatched nonzero lengths are a
// programmer error and return MismatchedBscoreLength.
func Dominates(b1, b2 BScore) (Domination, error) {
	if len(b1) == 0 && len(b2) == 0 {
		return Incomparable, nil
	}
	if len(b1) == 0 {
		return StrictlyWorse, nil
	}
	if len(b2) == 0 {
		return StrictlyBetter, nil
	}
	if len(b1) != len(b2) {
		return Incomparable, errors.New(errors.MismatchedBscoreLength, "dominates: behavioral score vectors have differing lengths")
	}

	anyGT, anyLT := false, false
	for i := range b1 {
		if b1[i] < b2[i] {
			anyGT = true
		} else if b1[i] > b2[i] {
			anyLT = true
		}
	}

	switch {
	case anyGT && !anyLT:
		return StrictlyBetter, nil
	case anyLT && !anyGT:
		return StrictlyWorse, nil
	default:
		return Incomparable, nil
	}
}

// UsefulScoreRange returns the softmax-tail threshold 0.3*tau, used both
// by deme trimming and by the store's weighted-score cap eviction. Carried
// verbatim from the MOSES original's single useful_score_range() helper
// shared between both call sites.
func UsefulScoreRange(complexityTemperature float64) float64 {
	return complexityTemperature * 0.3
}

// IsScoreValid reports whether a raw score is usable: finite and strictly
// better than ScoreWorst. Anything else is dropped silently as an invalid
// score; it never enters the store.
func IsScoreValid(s float64) bool {
	return s > ScoreWorst && !math.IsNaN(s) && !math.IsInf(s, 0)
}
