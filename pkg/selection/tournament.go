package selection

import (
	"math/rand"

	"github.com/wildfunctions/ultimatum/pkg/agent"
)

const tournamentSize = 3

func init() {
	Register("tournament", func() Selector { return &TournamentSelector{Size: tournamentSize} })
}

// TournamentSelector samples Size alive agents with replacement and keeps the
// one with the highest AverageGain. Ties go to the first sampled.
type TournamentSelector struct {
	Size int
}

func (s *TournamentSelector) Name() string { return "tournament" }

func (s *TournamentSelector) Pick(pop []agent.Agent, alive int, _ float64, rng *rand.Rand) (int, bool) {
	size := s.Size
	if size < 1 {
		size = 1
	}

	bestIdx := rng.Intn(alive)
	bestGain := pop[bestIdx].AverageGain
	for i := 1; i < size; i++ {
		idx := rng.Intn(alive)
		if pop[idx].AverageGain > bestGain {
			bestIdx = idx
			bestGain = pop[idx].AverageGain
		}
	}
	return bestIdx, false
}
