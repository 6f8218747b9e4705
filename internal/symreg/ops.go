package symreg

import (
	"context"
	"hash/fnv"

	"github.com/opencog-go/metapop-search/pkg/metapop"
)

// Ops adapts Expr to metapop.TreeOps. It performs no algebraic
// simplification: Reduce is the identity, matching the engine's
// ReduceAll = true default harmlessly for this toy grammar.
type Ops struct{}

func (Ops) Reduce(ctx context.Context, t metapop.Tree) (metapop.Tree, error) {
	return t, nil
}

func (Ops) Complexity(t metapop.Tree) int {
	return Complexity(t.(Expr))
}

func (Ops) Equals(a, b metapop.Tree) bool {
	return Equal(a.(Expr), b.(Expr))
}

func (Ops) Hash(t metapop.Tree) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.(Expr).String()))
	return h.Sum64()
}
