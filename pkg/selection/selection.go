package selection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/wildfunctions/ultimatum/pkg/agent"
)

// DegenerateGain is the total gain at or below which fitness-proportionate
// selection is not attempted.
const DegenerateGain = 1e-9

// Selector picks parents from the alive prefix of a population.
type Selector interface {
	Name() string
	// Pick returns an index in [0, alive). degenerate reports that the pick
	// fell back to a uniform draw. alive must be positive.
	Pick(pop []agent.Agent, alive int, totalGain float64, rng *rand.Rand) (idx int, degenerate bool)
}

var registry = map[string]func() Selector{}

// Register adds a selector constructor to the registry.
func Register(name string, constructor func() Selector) {
	registry[name] = constructor
}

// Get returns a selector by name.
func Get(name string) (Selector, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown selection: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered selector names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsDegenerate reports whether totalGain cannot drive a roulette wheel.
func IsDegenerate(totalGain float64) bool {
	return math.IsNaN(totalGain) || totalGain <= DegenerateGain
}
