package metapop

import "context"

// TreeOps is the external contract over program trees. The core never
// inspects a Tree's internal structure; it only ever reduces, measures, or
// compares it through this interface.
type TreeOps interface {
	// Reduce normalizes a tree under the representation's reduction rules.
	Reduce(ctx context.Context, t Tree) (Tree, error)
	// Complexity returns the non-negative complexity of a tree.
	Complexity(t Tree) int
	// Equals reports structural equality of two trees.
	Equals(a, b Tree) bool
	// Hash returns a stable hash of a tree, used for the store's auxiliary
	// hash index.
	Hash(t Tree) uint64
}

// CompositeScorer computes the composite score of a tree. Implementations
// must be pure and re-entrant: the same tree always yields the same score,
// and concurrent calls from multiple goroutines are safe.
type CompositeScorer interface {
	Score(ctx context.Context, t Tree) (Composite, error)
}

// BehavioralScorer computes the penalised behavioral score of a tree.
// Implementations must tolerate concurrent calls; behavioral scoring is
// run from a bounded worker pool during deme closing.
type BehavioralScorer interface {
	BScore(ctx context.Context, t Tree) (Penalized, error)
}

// Representation maps a bit-field of knobs onto trees derived from a single
// exemplar. It is transient: owned by the cycle that created it and
// released when that cycle closes.
type Representation interface {
	// Fields describes the knob-set layout backing this representation.
	Fields() []Field
	// Candidate materializes a tree for the given instance, optionally
	// reducing it first.
	Candidate(ctx context.Context, instance Instance, reduce bool) (Tree, error)
}

// Field describes one knob dimension of a Representation's bit-field.
type Field struct {
	Name string
	Type string
	Size int
}

// RepresentationBuilder constructs a Representation rooted at an exemplar
// tree, honouring the set of ignored operators (and, indirectly, any
// FeatureSelector-derived exclusions). It returns a nil Representation
// (not an error) when the resulting knob set would be empty — that is a
// normal outcome the deme pipeline handles by trying the next exemplar.
type RepresentationBuilder interface {
	Build(ctx context.Context, exemplar Tree, ignoredOps map[string]struct{}) (Representation, error)
}

// InstanceScorer scores a single representation instance. The deme
// pipeline builds one of these per cycle that materializes the instance's
// tree (optionally reducing it first) and applies the configured
// CompositeScorer — the wrapper scoring function the optimiser is given.
type InstanceScorer func(ctx context.Context, instance Instance) (Composite, error)

// Optimizer explores a Representation's neighborhood, writing scored
// instances into the Deme and returning the number of evaluations it
// actually consumed.
type Optimizer interface {
	Optimize(ctx context.Context, d *Deme, r Representation, score InstanceScorer, budget int) (evalsUsed int, err error)
}

// FeatureSelector optionally narrows the set of perceptions/actions a
// representation is built over. It returns the column indices to keep;
// the core complements this into argument-index operators added to the
// ignored-ops set.
type FeatureSelector interface {
	Select(ctx context.Context, t Tree) (keep map[int]struct{}, err error)
}

// MergeCallback is invoked once per merge with the set of newly merged
// candidates. If it returns true, the driver terminates after the current
// merge completes.
type MergeCallback func(candidates []*Entry) bool
