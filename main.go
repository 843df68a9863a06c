package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/wildfunctions/ultimatum/pkg/batch"
	"github.com/wildfunctions/ultimatum/pkg/engine"
	"github.com/wildfunctions/ultimatum/pkg/metrics"
	"github.com/wildfunctions/ultimatum/pkg/pool"
	"github.com/wildfunctions/ultimatum/pkg/selection"
)

func main() {
	cfg := engine.DefaultConfig()
	configPath := ""
	every := 50

	flag.StringVar(&configPath, "config", configPath, "TOML config file (flags given explicitly override it)")
	flag.IntVar(&cfg.PopulationSize, "population", cfg.PopulationSize, "population size")
	flag.IntVar(&cfg.MaxGenerations, "generations", cfg.MaxGenerations, "number of generations")
	flag.Float64Var(&cfg.MutationRate, "mutation", cfg.MutationRate, "per-bit mutation probability")
	flag.IntVar(&cfg.EncountersPerStep, "encounters", cfg.EncountersPerStep, "encounters started by each agent per generation")
	flag.IntVar(&cfg.DeathsPerStep, "deaths", cfg.DeathsPerStep, "agents replaced per generation")
	flag.Float64Var(&cfg.DeathRate, "death-rate", cfg.DeathRate, "fraction of the population replaced per generation (overrides -deaths when > 0)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	flag.StringVar(&cfg.Pool, "pool", cfg.Pool, "initial gene pool ("+strings.Join(pool.Names(), ", ")+")")
	flag.StringVar(&cfg.Selection, "selection", cfg.Selection, "parent selection ("+strings.Join(selection.Names(), ", ")+")")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json)")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbose output per generation")
	flag.IntVar(&cfg.Replicates, "replicates", cfg.Replicates, "number of independent runs, seeded seed, seed+1, ...")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of replicates run in parallel")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (empty = off)")
	flag.IntVar(&every, "every", every, "generations between progress lines on a terminal")
	flag.Parse()

	if configPath != "" {
		fileCfg, err := engine.LoadConfig(configPath, engine.DefaultConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = overrideWithFlags(fileCfg, cfg)
	}

	if cfg.Format != "text" && cfg.Format != "json" {
		fmt.Fprintf(os.Stderr, "error: unknown format %q (text, json)\n", cfg.Format)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := batch.Options{Logger: logger}
	if cfg.MetricsAddr != "" {
		rec := metrics.NewRecorder()
		opts.Observe = rec.Observe
		serveMetrics(cfg.MetricsAddr, rec, logger)
	}
	if cfg.Replicates <= 1 {
		switch {
		case cfg.Verbose:
			opts.Progress, opts.Every = os.Stderr, 1
		case term.IsTerminal(int(os.Stderr.Fd())):
			opts.Progress, opts.Every = os.Stderr, every
		}
	}

	fmt.Fprintf(os.Stderr, "Starting population %d, %d generations, mutation %.3f, encounters %d, deaths %d, pool %s, selection %s, replicates %d, seed %d\n",
		cfg.PopulationSize, cfg.MaxGenerations, cfg.MutationRate, cfg.EncountersPerStep, cfg.Deaths(),
		cfg.Pool, cfg.Selection, max(cfg.Replicates, 1), cfg.Seed)

	if cfg.Replicates > 1 {
		reports, err := batch.RunReplicates(ctx, cfg, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		switch cfg.Format {
		case "json":
			if err := engine.WriteJSONFinal(os.Stdout, reports); err != nil {
				fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
				os.Exit(1)
			}
		default:
			engine.WriteReplicateSummary(os.Stdout, reports)
		}
		return
	}

	report, err := batch.Run(ctx, cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch cfg.Format {
	case "json":
		if err := engine.WriteJSONFinal(os.Stdout, report); err != nil {
			fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
			os.Exit(1)
		}
	default:
		engine.WriteTextFinal(os.Stdout, report)
	}
}

// overrideWithFlags returns base with every flag set on the command line
// copied over from flags.
func overrideWithFlags(base, flags engine.Config) engine.Config {
	cfg := base
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "population":
			cfg.PopulationSize = flags.PopulationSize
		case "generations":
			cfg.MaxGenerations = flags.MaxGenerations
		case "mutation":
			cfg.MutationRate = flags.MutationRate
		case "encounters":
			cfg.EncountersPerStep = flags.EncountersPerStep
		case "deaths":
			cfg.DeathsPerStep = flags.DeathsPerStep
		case "death-rate":
			cfg.DeathRate = flags.DeathRate
		case "seed":
			cfg.Seed = flags.Seed
		case "pool":
			cfg.Pool = flags.Pool
		case "selection":
			cfg.Selection = flags.Selection
		case "format":
			cfg.Format = flags.Format
		case "verbose":
			cfg.Verbose = flags.Verbose
		case "replicates":
			cfg.Replicates = flags.Replicates
		case "workers":
			cfg.Workers = flags.Workers
		case "metrics-addr":
			cfg.MetricsAddr = flags.MetricsAddr
		}
	})
	return cfg
}

func serveMetrics(addr string, rec *metrics.Recorder, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
}
