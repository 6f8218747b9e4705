// Package metapop implements the metapopulation search engine at the core
// of a genetic-programming program-synthesis system: Pareto domination
// filtering, softmax exemplar selection with diversity penalties,
// bounded-size eviction, and the expand/merge cycle that drives search.
package metapop

import (
	"math"

	"github.com/google/uuid"
)

// Tree is a rooted ordered tree of typed vertices. It is opaque to this
// package; all structural operations (reduction, complexity, equality,
// hashing) are delegated to a TreeOps implementation supplied by the
// caller.
type Tree = interface{}

// Instance is an opaque representation instance — one point in the
// bit-field knob space a Representation maps onto trees.
type Instance = interface{}

// ScoreWorst is the sentinel "invalid/uninitialised" raw score. It must
// compare strictly less than any finite score that will ever be produced,
// and arithmetic on it must never yield NaN or Inf, so it is the negated
// near-max float64 rather than -Inf (matching the MOSES original this
// engine is modeled on).
const ScoreWorst = -(math.MaxFloat64 / 2)

// BScore is a finite ordered sequence of reals, one per training example
// (plus optionally a trailing complexity-penalty entry). Lower entries are
// better; used only for Pareto-domination checks and diversity distance.
type BScore []float64

// Penalized pairs a behavioral score with a scalar penalty applied
// uniformly across it.
type Penalized struct {
	B       BScore
	Penalty float64
}

// Composite is the ranking triple (raw score, complexity, diversity
// penalty). The weighted score used for ordering and softmax selection is
// WeightedScore(C, k) = s - d - k*c.
type Composite struct {
	S float64 // raw score, higher is better
	C int     // complexity, lower is better
	D float64 // diversity penalty, default 0
}

// WeightedScore computes w(C) = s - d - k*c for the given complexity
// weight k.
func WeightedScore(c Composite, k float64) float64 {
	return c.S - c.D - k*float64(c.C)
}

// Entry is a single metapopulation entry: a scored tree. ID is a stable
// handle for the entry, written out by DumpSnapshot's id column and
// DumpText's error messages. The Pareto filter and merger refer to
// entries by *Entry pointer, not by ID.
type Entry struct {
	ID   uuid.UUID
	Tree Tree
	B    BScore // may be empty (lazy) for entries inserted without domination filtering
	C    Composite
}

// Weighted returns this entry's weighted score under the given complexity
// weight.
func (e *Entry) Weighted(k float64) float64 {
	return WeightedScore(e.C, k)
}

// BestRecord tracks the highest composite score ever observed by raw
// score (tie-break lower complexity), and every tree that has achieved it.
type BestRecord struct {
	Score Composite
	Trees []Tree
}

// newBestRecord returns a BestRecord seeded at ScoreWorst, the only value
// this engine ever manufactures for "no best yet".
func newBestRecord() BestRecord {
	return BestRecord{Score: Composite{S: ScoreWorst, C: 0}}
}

// update applies the update_best rule: replace-and-clear on a
// strict improvement, accumulate on an exact tie (same s, no worse c).
func (b *BestRecord) update(candidates []*Entry) {
	for _, e := range candidates {
		switch {
		case e.C.S > b.Score.S:
			b.Score = e.C
			b.Trees = []Tree{e.Tree}
		case e.C.S == b.Score.S && e.C.C <= b.Score.C:
			if e.C.C < b.Score.C {
				b.Score = e.C
				b.Trees = []Tree{e.Tree}
			} else {
				b.Trees = append(b.Trees, e.Tree)
			}
		}
	}
}
