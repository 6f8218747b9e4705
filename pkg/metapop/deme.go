package metapop

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/opencog-go/metapop-search/pkg/errors"
	"github.com/opencog-go/metapop-search/pkg/logging"
)

// DemeMember is one (instance, composite score) pair produced by the
// optimiser for the current representation.
type DemeMember struct {
	Instance Instance
	C        Composite
}

// Deme is the transient sequence of scored instances generated for the
// current exemplar. It is owned by the cycle that created it and released
// when that cycle closes.
type Deme struct {
	mu      sync.Mutex
	members []DemeMember
}

// Add appends a scored instance. Safe for concurrent use by an Optimizer
// implementation.
func (d *Deme) Add(instance Instance, c Composite) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members = append(d.members, DemeMember{Instance: instance, C: c})
}

// Len returns the number of members currently in the deme.
func (d *Deme) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.members)
}

// Pipeline runs one create_deme -> optimize_deme -> close_deme cycle. It
// owns the collaborators the metapopulation core consumes through
// interfaces, plus the run-scoped state (visited set, total evaluation
// counter, revisit budget).
type Pipeline struct {
	store   *Metapopulation
	cfg     Config
	rng     *RNG
	ops     TreeOps
	cscore  CompositeScorer
	bscore  BehavioralScorer
	repr    RepresentationBuilder
	opt     Optimizer
	fsel    FeatureSelector
	merger  *Merger
	log     *logging.Logger
	ignored map[string]struct{}

	Visited     *VisitedSet
	TotalEvals  int
	NExpansions int

	revisitAvailable bool
	prevExemplar     *Entry
}

// PipelineConfig groups the external collaborators a Pipeline needs.
type PipelineConfig struct {
	Store              *Metapopulation
	Config             Config
	RNG                *RNG
	TreeOps            TreeOps
	CompositeScorer    CompositeScorer
	BehavioralScorer   BehavioralScorer
	RepresentationBldr RepresentationBuilder
	Optimizer          Optimizer
	FeatureSelector    FeatureSelector
	MergeCallback      MergeCallback
	Logger             *logging.Logger
}

// NewPipeline builds a deme Pipeline.
func NewPipeline(pc PipelineConfig) *Pipeline {
	ignored := make(map[string]struct{}, len(pc.Config.IgnoreOps))
	for _, op := range pc.Config.IgnoreOps {
		ignored[op] = struct{}{}
	}
	log := pc.Logger
	if log == nil {
		log = logging.GetLogger()
	}
	return &Pipeline{
		store:            pc.Store,
		cfg:              pc.Config,
		rng:              pc.RNG,
		ops:              pc.TreeOps,
		cscore:           pc.CompositeScorer,
		bscore:           pc.BehavioralScorer,
		repr:             pc.RepresentationBldr,
		opt:              pc.Optimizer,
		fsel:             pc.FeatureSelector,
		merger:           NewMerger(pc.Store, pc.Config, pc.RNG, pc.MergeCallback),
		log:              log,
		ignored:          ignored,
		Visited:          NewVisitedSet(),
		revisitAvailable: pc.Config.Revisit,
	}
}

// cycleState is the transient R/D pair owned by one in-flight cycle.
type cycleState struct {
	exemplar *Entry
	repr     Representation
	deme     *Deme
}

// selectExemplar runs the selector, applying the once-per-run Revisit
// recovery when every tree in the store has already been visited.
func (p *Pipeline) selectExemplar(ctx context.Context) (*Entry, error) {
	selector := NewSelector(p.store, p.rng, p.cfg.ComplexityTemperature, p.cfg.ComplexityWeight, p.cfg.UseDiversityPenalty)
	for {
		e, err := selector.Select(ctx, p.Visited, p.prevExemplar)
		if err == nil {
			return e, nil
		}
		var merr *errors.Error
		if asErr, ok := err.(*errors.Error); ok {
			merr = asErr
		}
		if merr != nil && merr.Code() == errors.NoExemplar && p.revisitAvailable {
			p.revisitAvailable = false
			p.Visited.Clear()
			continue
		}
		return nil, err
	}
}

// CreateDeme builds a Representation around a freshly selected exemplar,
// skipping exemplars whose representation comes back empty until one
// succeeds or the selector is permanently exhausted.
func (p *Pipeline) CreateDeme(ctx context.Context) (*cycleState, error) {
	for {
		exemplar, err := p.selectExemplar(ctx)
		if err != nil {
			return nil, err
		}

		ignoredOps := p.ignored
		if p.fsel != nil {
			if keep, ferr := p.fsel.Select(ctx, exemplar.Tree); ferr == nil {
				ignoredOps = complementIgnored(p.ignored, keep)
			}
		}

		r, err := p.repr.Build(ctx, exemplar.Tree, ignoredOps)
		if err != nil {
			return nil, err
		}
		if r == nil || len(r.Fields()) == 0 {
			p.Visited.Add(p.ops, exemplar.Tree)
			p.prevExemplar = exemplar
			continue
		}

		return &cycleState{exemplar: exemplar, repr: r, deme: &Deme{}}, nil
	}
}

// complementIgnored merges the base ignore-set with the complement of a
// feature selector's keep-set, converted to argument-index operator
// names.
func complementIgnored(base map[string]struct{}, keep map[int]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(base))
	for k := range base {
		out[k] = struct{}{}
	}
	maxIdx := 0
	for idx := range keep {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	for i := 0; i <= maxIdx; i++ {
		if _, ok := keep[i]; !ok {
			out[argIndexOp(i)] = struct{}{}
		}
	}
	return out
}

func argIndexOp(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "arg_" + string(digits[i])
	}
	// Fallback for larger indices; keeps the same "arg_N" shape.
	var buf []byte
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return "arg_" + string(buf)
}

// OptimizeDeme invokes the external Optimizer against the cycle's
// Representation, using an InstanceScorer that materializes each
// instance's tree (reducing it first when ReduceAll is set) and applies
// the configured CompositeScorer.
func (p *Pipeline) OptimizeDeme(ctx context.Context, cs *cycleState, budget int) (err error) {
	scorer := func(ctx context.Context, instance Instance) (Composite, error) {
		t, err := cs.repr.Candidate(ctx, instance, p.cfg.ReduceAll)
		if err != nil {
			return Composite{}, err
		}
		return p.cscore.Score(ctx, t)
	}

	// A panicking optimiser is reported as OptimiserFailure too, with zero
	// evals counted.
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.OptimiserFailure, fmt.Sprintf("optimize_deme: optimiser panicked: %v", r))
		}
	}()

	evalsUsed, err := p.opt.Optimize(ctx, cs.deme, cs.repr, scorer, budget)
	if err != nil {
		// A failing optimiser contributes zero evals to the budget,
		// regardless of what it reports: count on success only.
		return errors.Wrap(err, errors.OptimiserFailure, "optimize_deme: optimiser failed")
	}
	p.TotalEvals += evalsUsed
	return nil
}

// pendingSet deduplicates newly extracted candidates by tree identity
// under a reader/writer mutex: lookups take shared locks, insertions take
// exclusive locks.
type pendingSet struct {
	mu    sync.RWMutex
	ops   TreeOps
	index map[uint64][]*Entry
	order []*Entry
	limit int
}

func newPendingSet(ops TreeOps, limit int) *pendingSet {
	return &pendingSet{ops: ops, index: make(map[uint64][]*Entry), limit: limit}
}

func (ps *pendingSet) contains(t Tree) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	h := ps.ops.Hash(t)
	for _, e := range ps.index[h] {
		if ps.ops.Equals(e.Tree, t) {
			return true
		}
	}
	return false
}

// tryAdd adds e if there's room under the configured limit (limit < 0
// means unlimited) and e's tree isn't already pending. Returns whether it
// was added.
func (ps *pendingSet) tryAdd(e *Entry) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.limit >= 0 && len(ps.order) >= ps.limit {
		return false
	}
	h := ps.ops.Hash(e.Tree)
	for _, cand := range ps.index[h] {
		if ps.ops.Equals(cand.Tree, e.Tree) {
			return false
		}
	}
	ps.index[h] = append(ps.index[h], e)
	ps.order = append(ps.order, e)
	return true
}

func (ps *pendingSet) entries() []*Entry {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]*Entry, len(ps.order))
	copy(out, ps.order)
	return out
}

// CloseDeme marks the exemplar visited, sorts and trims the deme,
// extracts candidates (in parallel when
// Jobs > 1), optionally computes behavioral scores and applies the
// within-batch dominated filter, updates the best record, and invokes the
// Merger. Returns whether the driver should terminate after this cycle.
func (p *Pipeline) CloseDeme(ctx context.Context, cs *cycleState, best *BestRecord) (terminate bool, err error) {
	p.Visited.Add(p.ops, cs.exemplar.Tree)
	p.prevExemplar = cs.exemplar

	members := append([]DemeMember{}, cs.deme.members...)
	sort.Slice(members, func(i, j int) bool {
		return WeightedScore(members[i].C, p.cfg.ComplexityWeight) > WeightedScore(members[j].C, p.cfg.ComplexityWeight)
	})

	if len(members) > p.cfg.MinPool {
		top := WeightedScore(members[0].C, p.cfg.ComplexityWeight)
		floor := top - UsefulScoreRange(p.cfg.ComplexityTemperature)
		cut := len(members)
		for cut > p.cfg.MinPool && WeightedScore(members[cut-1].C, p.cfg.ComplexityWeight) < floor {
			cut--
		}
		members = members[:cut]
	}

	pending := newPendingSet(p.ops, p.cfg.MaxCandidates)
	p.extractCandidates(ctx, cs, members, pending)

	candidates := pending.entries()

	needsBScore := !p.cfg.IncludeDominated || p.cfg.UseDiversityPenalty
	if needsBScore && p.bscore != nil {
		p.scoreBehavioral(ctx, candidates)
	}

	if !p.cfg.IncludeDominated {
		candidates = filterNonEmptyB(candidates)
		candidates = Nondominated(candidates, p.cfg.Jobs)
	}

	prevBest := best.Score
	best.update(candidates)

	p.NExpansions++
	terminate = p.merger.Merge(candidates, p.NExpansions)

	p.log.Cycle(ctx, p.NExpansions, p.TotalEvals, best.Score != prevBest)

	cs.repr = nil
	cs.deme = nil
	return terminate, nil
}

func filterNonEmptyB(entries []*Entry) []*Entry {
	out := entries[:0]
	for _, e := range entries {
		if len(e.B) > 0 {
			out = append(out, e)
		}
	}
	return out
}

func (p *Pipeline) extractCandidates(ctx context.Context, cs *cycleState, members []DemeMember, pending *pendingSet) {
	work := func(mem DemeMember) {
		if !IsScoreValid(mem.C.S) {
			return
		}
		t, err := cs.repr.Candidate(ctx, mem.Instance, p.cfg.ReduceAll)
		if err != nil {
			return
		}
		if p.Visited.Contains(p.ops, t) {
			return
		}
		if pending.contains(t) {
			return
		}
		pending.tryAdd(&Entry{ID: uuid.New(), Tree: t, C: mem.C})
	}

	if p.cfg.Jobs <= 1 {
		for _, mem := range members {
			work(mem)
		}
		return
	}

	wp := pool.New().WithMaxGoroutines(p.cfg.Jobs)
	for _, mem := range members {
		mem := mem
		wp.Go(func() { work(mem) })
	}
	wp.Wait()
}

func (p *Pipeline) scoreBehavioral(ctx context.Context, candidates []*Entry) {
	work := func(e *Entry) {
		pen, err := p.bscore.BScore(ctx, e.Tree)
		if err != nil {
			return
		}
		e.B = pen.B
		e.C.D = 0
	}

	if p.cfg.Jobs <= 1 {
		for _, e := range candidates {
			work(e)
		}
		return
	}

	wp := pool.New().WithMaxGoroutines(p.cfg.Jobs)
	for _, e := range candidates {
		e := e
		wp.Go(func() { work(e) })
	}
	wp.Wait()
}
