package engine

import (
	"log/slog"
	"math/rand"

	"github.com/wildfunctions/ultimatum/pkg/agent"
	"github.com/wildfunctions/ultimatum/pkg/pool"
	"github.com/wildfunctions/ultimatum/pkg/selection"
	"github.com/wildfunctions/ultimatum/pkg/ultimatum"
)

// Engine owns a population of agents and advances it one generation at a
// time. It is not safe for concurrent use.
type Engine struct {
	cfg      Config
	pool     pool.Pool
	selector selection.Selector
	rng      *rand.Rand
	seed     int64
	logger   *slog.Logger

	population []agent.Agent
	generation int
	history    []GenerationStat
	totalGain  float64 // sum of AverageGain over the alive prefix

	// OnGenerationComplete, if set, is called at the end of every Step.
	OnGenerationComplete func(stat GenerationStat)
}

// New creates an engine configured with cfg. Call Initialize before Step.
// A nil logger means slog.Default().
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	e := &Engine{logger: logger}
	if err := e.Configure(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

// Configure validates and stores cfg, dropping any existing population. On
// error the engine is left unchanged.
func (e *Engine) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := pool.Get(cfg.poolName())
	if err != nil {
		return invalid("%v", err)
	}
	s, err := selection.Get(cfg.selectionName())
	if err != nil {
		return invalid("%v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	e.cfg = cfg
	e.pool = p
	e.selector = s
	e.seed = seed
	e.rng = rand.New(rand.NewSource(seed))
	e.population = nil
	e.generation = 0
	e.history = nil
	e.totalGain = 0

	e.log().Debug("engine configured",
		"population", cfg.PopulationSize,
		"mutation_rate", cfg.MutationRate,
		"encounters", cfg.EncountersPerStep,
		"deaths", cfg.Deaths(),
		"pool", p.Name(),
		"selection", s.Name(),
		"seed", seed)
	return nil
}

// Initialize builds a fresh random population and clears the generation
// counter and history.
func (e *Engine) Initialize() error {
	if e.rng == nil {
		return ErrUninitialized
	}

	e.population = make([]agent.Agent, e.cfg.PopulationSize)
	for i := range e.population {
		e.population[i] = agent.New(e.pool.RandomGene(e.rng))
	}
	e.generation = 0
	e.history = make([]GenerationStat, 0, e.cfg.MaxGenerations)
	e.totalGain = 0

	e.log().Info("population initialized", "size", len(e.population), "seed", e.seed)
	return nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Seed returns the seed the random source was built from. It differs from
// Config().Seed when that was 0.
func (e *Engine) Seed() int64 { return e.seed }

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Step runs one generation: play, score, cull, reproduce.
func (e *Engine) Step() (Snapshot, error) {
	if e.population == nil {
		return Snapshot{}, ErrUninitialized
	}

	stat := GenerationStat{Generation: e.generation}

	e.resetAgents()
	e.playGames(&stat)
	e.calculateFitness(&stat)
	alive := e.killAgents()
	e.createOffspring(alive, &stat)

	e.history = append(e.history, stat)
	e.generation++

	if stat.DegenerateSelections > 0 {
		e.log().Debug("degenerate fitness, parents drawn uniformly",
			"generation", stat.Generation,
			"total_gain", e.totalGain,
			"alive", alive,
			"fallbacks", stat.DegenerateSelections)
	}
	if e.OnGenerationComplete != nil {
		e.OnGenerationComplete(stat)
	}
	return e.snapshot(), nil
}

// Snapshot returns a copy of the current state without advancing it.
func (e *Engine) Snapshot() (Snapshot, error) {
	if e.population == nil {
		return Snapshot{}, ErrUninitialized
	}
	return e.snapshot(), nil
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{
		Generation: e.generation,
		Population: make([]Strategy, len(e.population)),
		History:    make([]GenerationStat, len(e.history)),
	}
	for i := range e.population {
		a := &e.population[i]
		snap.Population[i] = Strategy{
			Gene:      a.Gene,
			Offer:     a.OfferFraction(),
			MinAccept: a.MinAcceptFraction(),
		}
	}
	copy(snap.History, e.history)
	return snap
}

func (e *Engine) resetAgents() {
	for i := range e.population {
		e.population[i].Reset()
	}
}

// playGames gives every agent EncountersPerStep games against partners drawn
// from the whole population, itself included. Roles are decided by a coin
// flip per encounter.
func (e *Engine) playGames(stat *GenerationStat) {
	pop := e.population
	n := len(pop)
	for i := 0; i < n; i++ {
		for j := 0; j < e.cfg.EncountersPerStep; j++ {
			k := e.rng.Intn(n)

			var out ultimatum.Outcome
			if e.rng.Float64() < 0.5 {
				out = ultimatum.Play(ultimatum.Stake, &pop[i], &pop[k])
			} else {
				out = ultimatum.Play(ultimatum.Stake, &pop[k], &pop[i])
			}

			stat.Encounters++
			if out.Accepted {
				stat.Accepted++
			}
		}
	}
}

// calculateFitness sets every AverageGain and records the population mean.
func (e *Engine) calculateFitness(stat *GenerationStat) {
	var total, offers, mins float64
	for i := range e.population {
		a := &e.population[i]
		total += a.ComputeAverageGain()
		offers += a.OfferFraction()
		mins += a.MinAcceptFraction()
	}

	n := float64(len(e.population))
	e.totalGain = total
	stat.AverageGain = total / n
	stat.MeanOffer = offers / n
	stat.MeanMinAccept = mins / n
}

// killAgents swaps Deaths() randomly chosen agents into the tail of the
// population and returns the size of the surviving prefix. totalGain is
// reduced by each dead agent's AverageGain.
func (e *Engine) killAgents() int {
	pop := e.population
	n := len(pop)
	deaths := e.cfg.Deaths()
	for d := 0; d < deaths; d++ {
		idx := e.rng.Intn(n - d)
		tail := n - d - 1
		pop[idx], pop[tail] = pop[tail], pop[idx]
		e.totalGain -= pop[tail].AverageGain
	}
	return n - deaths
}

// createOffspring overwrites the dead tail, last slot first, with children of
// parents selected from the surviving prefix.
func (e *Engine) createOffspring(alive int, stat *GenerationStat) {
	pop := e.population
	n := len(pop)
	for b := 0; b < n-alive; b++ {
		slot := n - b - 1

		if alive == 0 {
			pop[slot] = agent.New(e.pool.RandomGene(e.rng))
			stat.DegenerateSelections++
			continue
		}

		i1, d1 := e.selector.Pick(pop, alive, e.totalGain, e.rng)
		i2, d2 := e.selector.Pick(pop, alive, e.totalGain, e.rng)
		if d1 {
			stat.DegenerateSelections++
		}
		if d2 {
			stat.DegenerateSelections++
		}

		pop[slot] = agent.Mate(&pop[i1], &pop[i2], e.cfg.MutationRate, e.rng)
	}
}
