package pool

import "math/rand"

func init() {
	Register("classic", func() Pool { return &ClassicPool{} })
}

// ClassicPool draws floor(U*0xFFFF), so genes fall in [0, 0xFFFE] and
// 0xFFFF (always offer everything, accept only everything) never appears
// in the initial population.
type ClassicPool struct{}

func (p *ClassicPool) Name() string { return "classic" }

func (p *ClassicPool) RandomGene(rng *rand.Rand) uint16 {
	return uint16(rng.Float64() * 0xFFFF)
}
