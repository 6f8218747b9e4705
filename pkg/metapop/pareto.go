package metapop

import (
	"github.com/sourcegraph/conc/pool"
)

// Nondominated returns the subset of entries not strictly dominated by any
// other member, via a divide-and-conquer filter. Only entries with a
// nonempty behavioral score participate; callers must pre-filter.
//
// jobs bounds available parallelism: when jobs > 1 the first half of a
// split runs on a pooled worker while the calling goroutine handles the
// second half, halving the remaining job budget at each split.
func Nondominated(entries []*Entry, jobs int) []*Entry {
	if len(entries) < 2 {
		out := make([]*Entry, len(entries))
		copy(out, entries)
		return out
	}

	mid := len(entries) / 2
	left, right := entries[:mid], entries[mid:]

	var leftResult, rightResult []*Entry
	if jobs > 1 {
		p := pool.New().WithMaxGoroutines(1)
		p.Go(func() { leftResult = Nondominated(left, jobs/2) })
		rightResult = Nondominated(right, jobs/2)
		p.Wait()
	} else {
		leftResult = Nondominated(left, 1)
		rightResult = Nondominated(right, 1)
	}

	a, b := mergeDisjoint(leftResult, rightResult)
	return append(a, b...)
}

// mergeDisjoint combines two already-nondominated sets, dropping members
// of either that become dominated by a member of the other.
func mergeDisjoint(a, b []*Entry) ([]*Entry, []*Entry) {
	if len(a) == 0 || len(b) == 0 {
		return a, b
	}
	if len(a) == 1 {
		return mergeOneAgainstMany(a[0], b)
	}
	// Split a in half, recursing each half against the full b and
	// intersecting the two resulting b-sides.
	mid := len(a) / 2
	aLeft, aRight := a[:mid], a[mid:]

	aLeftSurv, bAfterLeft := mergeDisjoint(aLeft, b)
	aRightSurv, bAfterRight := mergeDisjoint(aRight, b)

	bSurv := intersectEntries(bAfterLeft, bAfterRight)
	aSurv := append(append([]*Entry{}, aLeftSurv...), aRightSurv...)
	return aSurv, bSurv
}

// mergeOneAgainstMany implements the |A|=1 base case: compare the sole
// element of A against every element of B, dropping a if any b strictly
// dominates it, dropping each b that a strictly dominates, and keeping
// incomparable pairs on both sides.
func mergeOneAgainstMany(a *Entry, b []*Entry) ([]*Entry, []*Entry) {
	resultB := make([]*Entry, 0, len(b))

	for i, bi := range b {
		d, err := Dominates(a.B, bi.B)
		if err != nil {
			// Mismatched behavioral-score lengths: keep both sides rather
			// than silently dropping a candidate.
			resultB = append(resultB, bi)
			continue
		}
		switch d {
		case StrictlyWorse:
			// a is dominated by bi: a drops out, every remaining b is kept
			// untouched (no further comparisons needed).
			resultB = append(resultB, b[i:]...)
			return nil, resultB
		case Incomparable:
			resultB = append(resultB, bi)
		case StrictlyBetter:
			// bi is dominated by a: drop bi, keep a.
		}
	}
	return []*Entry{a}, resultB
}

func intersectEntries(a, b []*Entry) []*Entry {
	set := make(map[*Entry]struct{}, len(a))
	for _, e := range a {
		set[e] = struct{}{}
	}
	out := make([]*Entry, 0, len(b))
	for _, e := range b {
		if _, ok := set[e]; ok {
			out = append(out, e)
		}
	}
	return out
}
