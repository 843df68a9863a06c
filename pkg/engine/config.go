package engine

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wildfunctions/ultimatum/pkg/pool"
	"github.com/wildfunctions/ultimatum/pkg/selection"
)

// Config holds all parameters for an evolutionary run. The simulation fields
// are fixed for the life of a population; changing them means Configure and
// Initialize again.
type Config struct {
	PopulationSize    int     `toml:"population_size" json:"population_size"`
	MaxGenerations    int     `toml:"max_generations" json:"max_generations"`
	MutationRate      float64 `toml:"mutation_rate" json:"mutation_rate"`
	EncountersPerStep int     `toml:"encounters_per_step" json:"encounters_per_step"`
	DeathsPerStep     int     `toml:"deaths_per_step" json:"deaths_per_step"`
	DeathRate         float64 `toml:"death_rate" json:"death_rate,omitempty"` // overrides DeathsPerStep when > 0
	Seed              int64   `toml:"seed" json:"seed"`                       // 0 = random
	Pool              string  `toml:"pool" json:"pool"`
	Selection         string  `toml:"selection" json:"selection"`

	Format      string `toml:"format" json:"-"` // "text" or "json"
	Verbose     bool   `toml:"verbose" json:"-"`
	Replicates  int    `toml:"replicates" json:"replicates"`
	Workers     int    `toml:"workers" json:"-"`
	MetricsAddr string `toml:"metrics_addr" json:"-"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize:    100,
		MaxGenerations:    1000,
		MutationRate:      0.1,
		EncountersPerStep: 10,
		DeathsPerStep:     10,
		Seed:              0, // 0 = random
		Pool:              "classic",
		Selection:         "roulette",
		Format:            "text",
		Replicates:        1,
		Workers:           runtime.NumCPU(),
	}
}

// Deaths returns how many agents die and are replaced each generation.
func (c Config) Deaths() int {
	if c.DeathRate > 0 {
		return int(math.Round(c.DeathRate * float64(c.PopulationSize)))
	}
	return c.DeathsPerStep
}

func (c Config) poolName() string {
	if c.Pool == "" {
		return "classic"
	}
	return c.Pool
}

func (c Config) selectionName() string {
	if c.Selection == "" {
		return "roulette"
	}
	return c.Selection
}

// Validate checks the simulation parameters. Errors wrap
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return invalid("population size must be positive, got %d", c.PopulationSize)
	case c.MaxGenerations < 0:
		return invalid("max generations must not be negative, got %d", c.MaxGenerations)
	case math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1:
		return invalid("mutation rate must be in [0,1], got %v", c.MutationRate)
	case c.EncountersPerStep < 0:
		return invalid("encounters per step must not be negative, got %d", c.EncountersPerStep)
	case math.IsNaN(c.DeathRate) || c.DeathRate < 0 || c.DeathRate > 1:
		return invalid("death rate must be in [0,1], got %v", c.DeathRate)
	case c.Deaths() < 0:
		return invalid("deaths per step must not be negative, got %d", c.Deaths())
	case c.Deaths() > c.PopulationSize:
		return invalid("deaths per step (%d) exceeds population size (%d)", c.Deaths(), c.PopulationSize)
	}
	if _, err := pool.Get(c.poolName()); err != nil {
		return invalid("%v (available: %s)", err, strings.Join(pool.Names(), ", "))
	}
	if _, err := selection.Get(c.selectionName()); err != nil {
		return invalid("%v (available: %s)", err, strings.Join(selection.Names(), ", "))
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// LoadConfig reads a TOML file on top of base. Keys the file does not set
// keep their value from base; unknown keys are an error.
func LoadConfig(path string, base Config) (Config, error) {
	cfg := base
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return base, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return base, fmt.Errorf("loading config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
