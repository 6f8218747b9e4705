package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/opencog-go/metapop-search/internal/symreg"
	"github.com/opencog-go/metapop-search/pkg/logging"
	"github.com/opencog-go/metapop-search/pkg/metapop"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file overriding the defaults")
	maxEvals := flag.Int("max-evals", 20000, "total evaluation budget across all cycles (-1 = unbounded)")
	cycleBudget := flag.Int("cycle-budget", 64, "evaluation budget per deme")
	historyPath := flag.String("history", "", "optional SQLite path recording per-cycle history")
	snapshotPath := flag.String("snapshot", "", "optional Arrow IPC path for a final metapopulation snapshot")
	dumpPath := flag.String("dump", "", "optional plain-text path for a final metapopulation dump")
	verbose := flag.Bool("verbose", false, "enable debug-level logging")
	flag.Parse()

	log := logging.NewLogger(logging.Config{
		Severity: severityFromFlag(*verbose),
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	})
	logging.SetLogger(log)

	cfg := metapop.Defaults()
	if *configPath != "" {
		loaded, err := metapop.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "metapop-search:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *maxEvals, *cycleBudget, *historyPath, *snapshotPath, *dumpPath, log); err != nil {
		fmt.Fprintln(os.Stderr, "metapop-search:", err)
		os.Exit(1)
	}
}

func severityFromFlag(verbose bool) logging.Severity {
	if verbose {
		return logging.DEBUG
	}
	return logging.INFO
}

// run wires the toy symbolic-regression domain into the metapopulation
// engine and drives it to completion, so the engine runs end-to-end
// without any external collaborators.
func run(ctx context.Context, cfg metapop.Config, maxEvals, cycleBudget int, historyPath, snapshotPath, dumpPath string, log *logging.Logger) error {
	ops := symreg.Ops{}
	store := metapop.NewMetapopulation(ops, cfg.ComplexityWeight)

	target := symreg.Target(func(x float64) float64 {
		return x*x + math.Sin(x)
	}, -2, 2, 20)
	cscore := symreg.Scorer{Data: target}
	bscore := symreg.BScorer{Data: target}

	seed := symreg.Seed()
	seedComposite, err := cscore.Score(ctx, seed)
	if err != nil {
		return fmt.Errorf("score seed: %w", err)
	}
	store.Insert(&metapop.Entry{ID: uuid.New(), Tree: seed, C: seedComposite})

	var observer metapop.CycleObserver
	if historyPath != "" {
		rec, err := metapop.NewHistoryRecorder(historyPath)
		if err != nil {
			return fmt.Errorf("open history recorder: %w", err)
		}
		defer rec.Close()
		observer = rec
	}

	pipeline := metapop.NewPipeline(metapop.PipelineConfig{
		Store:              store,
		Config:             cfg,
		RNG:                metapop.NewRNG(cfg.RandomSeed),
		TreeOps:            ops,
		CompositeScorer:    cscore,
		BehavioralScorer:   bscore,
		RepresentationBldr: symreg.NewBuilder(),
		Optimizer:          symreg.Optimizer{},
		Logger:             log,
	})
	driver := metapop.NewDriver(pipeline, log, observer)

	if err := driver.Run(ctx, maxEvals, cycleBudget); err != nil {
		return fmt.Errorf("driver run: %w", err)
	}

	best := driver.Best()
	log.Info(ctx, "search complete: best_score=%.6f best_complexity=%d candidates=%d total_evals=%d",
		best.Score.S, best.Score.C, len(best.Trees), driver.TotalEvals())
	for _, tree := range best.Trees {
		fmt.Println(tree)
	}

	if dumpPath != "" {
		if err := metapop.DumpText(dumpPath, store, func(t metapop.Tree) string {
			return fmt.Sprint(t)
		}); err != nil {
			return fmt.Errorf("dump text: %w", err)
		}
	}
	if snapshotPath != "" {
		if err := metapop.DumpSnapshot(snapshotPath, store, cfg.ComplexityWeight); err != nil {
			return fmt.Errorf("dump snapshot: %w", err)
		}
	}

	return nil
}
