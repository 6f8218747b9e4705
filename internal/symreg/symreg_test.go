package symreg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencog-go/metapop-search/pkg/metapop"
)

func TestExprEvalAndComplexity(t *testing.T) {
	e := Add{L: Var{}, R: Const{V: 1}}
	assert.Equal(t, 3.0, e.Eval(2))
	assert.Equal(t, 3, Complexity(e))
}

func TestEqualIsStructural(t *testing.T) {
	a := Add{L: Var{}, R: Const{V: 1}}
	b := Add{L: Var{}, R: Const{V: 1}}
	c := Add{L: Var{}, R: Const{V: 2}}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestOpsHashStable(t *testing.T) {
	ops := Ops{}
	e := Add{L: Var{}, R: Const{V: 1}}
	assert.Equal(t, ops.Hash(e), ops.Hash(e))
}

func TestScorerPerfectFit(t *testing.T) {
	data := Target(func(x float64) float64 { return x }, -1, 1, 5)
	s := Scorer{Data: data}
	c, err := s.Score(context.Background(), Var{})
	require.NoError(t, err)
	assert.InDelta(t, 0, c.S, 1e-9)
	assert.Equal(t, 1, c.C)
}

func TestBuilderSkipsIgnoredOps(t *testing.T) {
	b := NewBuilder()
	repr, err := b.Build(context.Background(), Var{}, map[string]struct{}{"sin": {}})
	require.NoError(t, err)
	require.NotNil(t, repr)
	for _, f := range repr.Fields() {
		assert.NotEqual(t, "sin", f.Name)
	}
}

func TestBuilderProducesCandidates(t *testing.T) {
	b := NewBuilder()
	repr, err := b.Build(context.Background(), Var{}, nil)
	require.NoError(t, err)
	require.NotZero(t, len(repr.Fields()))

	tree, err := repr.Candidate(context.Background(), 0, false)
	require.NoError(t, err)
	assert.NotNil(t, tree)
}

func TestOptimizerRespectsBudget(t *testing.T) {
	b := NewBuilder()
	repr, err := b.Build(context.Background(), Var{}, nil)
	require.NoError(t, err)

	opt := Optimizer{}
	scorer := func(ctx context.Context, instance metapop.Instance) (metapop.Composite, error) {
		return metapop.Composite{S: 1, C: 1}, nil
	}
	d := &metapop.Deme{}
	evals, err := opt.Optimize(context.Background(), d, repr, scorer, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, evals)
	assert.Equal(t, 2, d.Len())
}
