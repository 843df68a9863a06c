package agent

import "math/rand"

// CrossoverPoint draws a single-point crossover position in [1, GeneBits-1].
func CrossoverPoint(rng *rand.Rand) int {
	return 1 + rng.Intn(GeneBits-1)
}

// Crossover keeps the bits of g1 above point and the low point bits of g2.
func Crossover(g1, g2 uint16, point int) uint16 {
	mask := uint16(1)<<uint(point) - 1
	return g1&^mask | g2&mask
}

// Mutate flips each bit of gene independently with probability rate.
func Mutate(gene uint16, rate float64, rng *rand.Rand) uint16 {
	for i := 0; i < GeneBits; i++ {
		if rng.Float64() < rate {
			gene ^= 1 << uint(i)
		}
	}
	return gene
}

// Mate produces one offspring from two parents: high bits from p1, low bits
// from p2, then per-bit mutation.
func Mate(p1, p2 *Agent, mutationRate float64, rng *rand.Rand) Agent {
	child := Crossover(p1.Gene, p2.Gene, CrossoverPoint(rng))
	return New(Mutate(child, mutationRate, rng))
}
