package metapop

import (
	"context"

	"github.com/opencog-go/metapop-search/pkg/errors"
	"github.com/opencog-go/metapop-search/pkg/logging"
)

// Driver runs the outer expand/merge loop: it bounds total evaluations and
// tracks the best-ever composite score across cycles.
type Driver struct {
	pipeline *Pipeline
	best     BestRecord
	log      *logging.Logger
	history  CycleObserver
}

// CycleObserver receives one notification per completed cycle. Used by
// pkg/metapop/history.go's SQLite recorder; nil is a valid no-op observer.
type CycleObserver interface {
	ObserveCycle(ctx context.Context, cycle, totalEvals int, best Composite, popSize int)
}

// NewDriver builds a Driver around an already-configured Pipeline.
func NewDriver(pipeline *Pipeline, log *logging.Logger, history CycleObserver) *Driver {
	if log == nil {
		log = logging.GetLogger()
	}
	return &Driver{pipeline: pipeline, best: newBestRecord(), log: log, history: history}
}

// Best returns the current best record.
func (d *Driver) Best() BestRecord { return d.best }

// TotalEvals returns the cumulative evaluation count across all cycles.
func (d *Driver) TotalEvals() int { return d.pipeline.TotalEvals }

// Expand performs one full create_deme -> optimize_deme -> close_deme
// cycle, returning whether the driver should terminate (because a
// MergeCallback asked to stop, because the selector has nothing left to
// pick, or because a fatal error ended the run).
func (d *Driver) Expand(ctx context.Context, budget int) (terminate bool, err error) {
	cs, err := d.pipeline.CreateDeme(ctx)
	if err != nil {
		if isExhausted(err) {
			// The selector found nothing left to pick: an empty store or
			// every tree visited with no Revisit left to spend. This ends
			// the run, not a failure in it.
			return true, nil
		}
		return true, err
	}

	if err := d.pipeline.OptimizeDeme(ctx, cs, budget); err != nil {
		// OptimiserFailure: release R/D, count zero additional evals,
		// treat this cycle as complete rather than aborting the run.
		d.log.Warn(ctx, "optimize_deme failed, treating cycle as complete: %v", err)
		return false, nil
	}

	terminate, err = d.pipeline.CloseDeme(ctx, cs, &d.best)
	if err != nil {
		return true, err
	}

	if d.history != nil {
		d.history.ObserveCycle(ctx, d.pipeline.NExpansions, d.pipeline.TotalEvals, d.best.Score, d.pipeline.store.Len())
	}

	return terminate, nil
}

// isExhausted reports whether err is the selector's "nothing left to pick"
// signal: an empty store, or every tree visited with no Revisit left.
func isExhausted(err error) bool {
	merr, ok := err.(*errors.Error)
	if !ok {
		return false
	}
	return merr.Code() == errors.EmptyMetapop || merr.Code() == errors.NoExemplar
}

// Run repeats Expand until the termination flag is set, the store becomes
// empty, or maxEvals total evaluations have been consumed. It returns the
// fatal error, if any, that ended the run; the best record remains valid
// output regardless.
func (d *Driver) Run(ctx context.Context, maxEvals, perCycleBudget int) error {
	for {
		if err := errors.CheckContext(ctx, "metapop.Driver.Run"); err != nil {
			return err
		}
		if d.pipeline.store.Empty() {
			return nil
		}
		if maxEvals >= 0 && d.pipeline.TotalEvals >= maxEvals {
			return nil
		}

		terminate, err := d.Expand(ctx, perCycleBudget)
		if err != nil {
			return err
		}
		if terminate {
			return nil
		}
	}
}
