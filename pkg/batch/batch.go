// Package batch drives engines to completion: a single run up to
// MaxGenerations, or several independent replicates in parallel. Each engine
// is owned by exactly one goroutine.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"runtime"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/wildfunctions/ultimatum/pkg/engine"
)

// Options are the hooks a driver can attach to a run.
type Options struct {
	Logger *slog.Logger

	// Observe is called after every generation. With replicates it is
	// called from several goroutines at once.
	Observe func(runID string, stat engine.GenerationStat)

	// Progress, if set, receives a text line every Every generations.
	Progress io.Writer
	Every    int
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Run initializes one engine from cfg and steps it MaxGenerations times.
// Cancelling ctx stops the run between generations; the partial report is
// returned with Interrupted set.
func Run(ctx context.Context, cfg engine.Config, opts Options) (engine.FinalReport, error) {
	logger := opts.logger()
	runID := uuid.NewString()

	e, err := engine.New(cfg, logger.With("run", runID))
	if err != nil {
		return engine.FinalReport{}, err
	}
	if err := e.Initialize(); err != nil {
		return engine.FinalReport{}, err
	}

	e.OnGenerationComplete = func(stat engine.GenerationStat) {
		if opts.Observe != nil {
			opts.Observe(runID, stat)
		}
		if opts.Progress != nil && opts.Every > 0 && stat.Generation%opts.Every == 0 {
			engine.WriteTextReport(opts.Progress, stat)
		}
	}

	interrupted := false
	for e.Generation() < cfg.MaxGenerations {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if _, err := e.Step(); err != nil {
			return engine.FinalReport{}, err
		}
	}

	snap, err := e.Snapshot()
	if err != nil {
		return engine.FinalReport{}, err
	}
	report := engine.NewFinalReport(runID, e.Seed(), cfg, snap, cfg.Verbose)
	report.Interrupted = interrupted

	logger.Info("run complete",
		"run", runID,
		"seed", report.Seed,
		"generations", report.Generations,
		"average_gain", report.Final.AverageGain,
		"interrupted", interrupted)
	return report, nil
}

// RunReplicates runs cfg.Replicates independent copies of cfg, replicate i
// seeded with base+i, at most cfg.Workers at a time. base is cfg.Seed, or a
// random value when that is 0. Reports come back in replicate order.
func RunReplicates(ctx context.Context, cfg engine.Config, opts Options) ([]engine.FinalReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := cfg.Replicates
	if n < 1 {
		n = 1
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	base := cfg.Seed
	if base == 0 {
		base = rand.Int63()
	}

	opts.logger().Debug("starting replicates", "replicates", n, "workers", workers, "base_seed", base)

	reports := make([]engine.FinalReport, n)
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i := 0; i < n; i++ {
		i := i
		p.Go(func(ctx context.Context) error {
			c := cfg
			c.Seed = base + int64(i)
			r, err := Run(ctx, c, opts)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
