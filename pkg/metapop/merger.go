package metapop

// Merger folds a batch of candidate entries produced by one deme cycle
// back into the metapopulation, then applies size-cap eviction. It is
// invoked once per cycle from the driver thread only, after all parallel
// phases of that cycle have joined.
type Merger struct {
	store   *Metapopulation
	cfg     Config
	rng     *RNG
	jobs    int
	onMerge MergeCallback
}

// NewMerger builds a Merger over the given store and configuration.
func NewMerger(store *Metapopulation, cfg Config, rng *RNG, onMerge MergeCallback) *Merger {
	return &Merger{store: store, cfg: cfg, rng: rng, jobs: cfg.Jobs, onMerge: onMerge}
}

// Merge inserts candidates into the store. When IncludeDominated is false
// the candidates have already been restricted to the non-dominated subset
// of the new batch; Merge here additionally runs MergeNonDominated against
// the *live store* so that existing entries dominated by a new arrival are
// erased too. When IncludeDominated is true, Merge simply
// inserts every candidate by weighted score, skipping all domination
// bookkeeping.
//
// Merge always finishes by applying size-cap eviction and, if a
// MergeCallback was configured, reports whether the driver should
// stop after this cycle.
func (mg *Merger) Merge(candidates []*Entry, nExpansions int) (terminate bool) {
	if len(candidates) > 0 {
		if mg.cfg.IncludeDominated {
			for _, e := range candidates {
				mg.store.Insert(e)
			}
		} else {
			mg.MergeNonDominated(candidates)
		}
	}

	// Eviction runs every cycle, candidates or not, matching the MOSES
	// original's merge_candidates: a cap lowered by configuration between
	// cycles must still be enforced even on an empty-batch cycle.
	Evict(mg.store, mg.cfg, mg.rng, nExpansions)

	return mg.runCallback(candidates)
}

func (mg *Merger) runCallback(candidates []*Entry) bool {
	if mg.onMerge == nil {
		return false
	}
	return mg.onMerge(candidates)
}

// MergeNonDominated computes nondominated(candidates ∪ M) and applies the
// resulting set-difference to the live store: existing entries absent
// from the result are erased (they became dominated by a new arrival),
// and new candidates present in the result are inserted.
func (mg *Merger) MergeNonDominated(candidates []*Entry) {
	existing := append([]*Entry{}, mg.store.Entries()...)

	universe := make([]*Entry, 0, len(candidates)+len(existing))
	universe = append(universe, candidates...)
	universe = append(universe, existing...)

	survivors := Nondominated(universe, mg.jobs)
	survivorSet := make(map[*Entry]struct{}, len(survivors))
	for _, e := range survivors {
		survivorSet[e] = struct{}{}
	}

	for _, e := range existing {
		if _, ok := survivorSet[e]; !ok {
			mg.store.Erase(e)
		}
	}
	for _, e := range candidates {
		if _, ok := survivorSet[e]; ok {
			mg.store.Insert(e)
		}
	}
}
