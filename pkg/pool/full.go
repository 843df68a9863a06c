package pool

import "math/rand"

func init() {
	Register("full", func() Pool { return &FullPool{} })
}

// FullPool draws uniformly over every 16-bit gene.
type FullPool struct{}

func (p *FullPool) Name() string { return "full" }

func (p *FullPool) RandomGene(rng *rand.Rand) uint16 {
	return uint16(rng.Intn(1 << 16))
}
