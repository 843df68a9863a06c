package selection

import (
	"math/rand"

	"github.com/wildfunctions/ultimatum/pkg/agent"
)

func init() {
	Register("roulette", func() Selector { return &RouletteSelector{} })
}

// RouletteSelector implements fitness-proportionate selection: each alive
// agent owns a slice of the wheel as wide as its AverageGain.
type RouletteSelector struct{}

func (s *RouletteSelector) Name() string { return "roulette" }

func (s *RouletteSelector) Pick(pop []agent.Agent, alive int, totalGain float64, rng *rand.Rand) (int, bool) {
	if IsDegenerate(totalGain) {
		return rng.Intn(alive), true
	}

	spin := rng.Float64() * totalGain
	var cumulative float64
	for i := 0; i < alive; i++ {
		cumulative += pop[i].AverageGain
		if cumulative > spin {
			return i, false
		}
	}

	// Rounding left the wheel slightly short of totalGain.
	return alive - 1, false
}
