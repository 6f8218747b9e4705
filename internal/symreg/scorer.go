package symreg

import (
	"context"
	"math"

	"github.com/opencog-go/metapop-search/pkg/metapop"
)

// Dataset is a fixed-size training sample (x, target f(x)) pair set.
type Dataset struct {
	X []float64
	Y []float64
}

// Target generates a Dataset by sampling fn over [lo, hi] at n evenly
// spaced points.
func Target(fn func(float64) float64, lo, hi float64, n int) Dataset {
	d := Dataset{X: make([]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		d.X[i] = x
		d.Y[i] = fn(x)
	}
	return d
}

// Scorer computes a composite score from the negative RMSE against a fixed
// Dataset (higher is better, per Composite.S's convention) and the tree's
// node count as complexity.
type Scorer struct {
	Data Dataset
}

func (s Scorer) Score(ctx context.Context, t metapop.Tree) (metapop.Composite, error) {
	e := t.(Expr)
	var sumSq float64
	for i, x := range s.Data.X {
		diff := e.Eval(x) - s.Data.Y[i]
		if math.IsNaN(diff) || math.IsInf(diff, 0) {
			return metapop.Composite{S: metapop.ScoreWorst, C: Complexity(e)}, nil
		}
		sumSq += diff * diff
	}
	rmse := math.Sqrt(sumSq / float64(len(s.Data.X)))
	return metapop.Composite{S: -rmse, C: Complexity(e)}, nil
}

// BScorer turns the per-point absolute errors into a behavioral score vector
// (one entry per training example, lower is better), for runs that enable
// the Pareto-domination path.
type BScorer struct {
	Data Dataset
}

func (b BScorer) BScore(ctx context.Context, t metapop.Tree) (metapop.Penalized, error) {
	e := t.(Expr)
	bs := make(metapop.BScore, len(b.Data.X))
	for i, x := range b.Data.X {
		bs[i] = math.Abs(e.Eval(x) - b.Data.Y[i])
	}
	return metapop.Penalized{B: bs}, nil
}
