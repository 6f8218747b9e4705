package symreg

import (
	"context"

	"github.com/opencog-go/metapop-search/pkg/metapop"
)

// Optimizer exhaustively scores every variant the Representation
// generated, in field order, until either the variant list or the
// evaluation budget is exhausted. A toy stand-in for the population-based
// or hillclimbing optimisers the metapopulation core treats as an
// external collaborator.
type Optimizer struct{}

func (Optimizer) Optimize(ctx context.Context, d *metapop.Deme, r metapop.Representation, score metapop.InstanceScorer, budget int) (int, error) {
	n := len(r.Fields())
	if budget >= 0 && budget < n {
		n = budget
	}
	evals := 0
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return evals, ctx.Err()
		default:
		}
		c, err := score(ctx, i)
		if err != nil {
			continue
		}
		d.Add(i, c)
		evals++
	}
	return evals, nil
}
