package agent

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgent_Fractions(t *testing.T) {
	a := New(0xFF00)
	assert.Equal(t, 1.0, a.OfferFraction())
	assert.Equal(t, 0.0, a.MinAcceptFraction())

	a = New(0x00FF)
	assert.Equal(t, 0.0, a.OfferFraction())
	assert.Equal(t, 1.0, a.MinAcceptFraction())

	a = New(0x8040)
	assert.InDelta(t, 128.0/255, a.OfferFraction(), 1e-12)
	assert.InDelta(t, 64.0/255, a.MinAcceptFraction(), 1e-12)
}

func TestAgent_ComputeAverageGain(t *testing.T) {
	a := New(0x1234)
	a.Worth = 150
	a.PlayCount = 3
	assert.Equal(t, 50.0, a.ComputeAverageGain())
	assert.Equal(t, 50.0, a.AverageGain)

	// An agent that never played must not produce NaN.
	a.Reset()
	g := a.ComputeAverageGain()
	assert.False(t, math.IsNaN(g))
	assert.Zero(t, g)
}

func TestCrossover_Fixed(t *testing.T) {
	// high byte from p1, low byte from p2
	assert.Equal(t, uint16(0xFFFF), Crossover(0xFF00, 0x00FF, 8))
	assert.Equal(t, uint16(0x0000), Crossover(0x00FF, 0xFF00, 8))
	assert.Equal(t, uint16(0xABC4), Crossover(0xABCD, 0x1234, 4))
	assert.Equal(t, uint16(0x7FFF), Crossover(0x0000, 0xFFFF, 15))
	assert.Equal(t, uint16(0xFFFE), Crossover(0xFFFF, 0x0000, 1))
}

func TestCrossoverPoint_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		c := CrossoverPoint(rng)
		require.GreaterOrEqual(t, c, 1)
		require.LessOrEqual(t, c, 15)
		seen[c] = true
	}
	assert.Len(t, seen, 15, "every crossover point should occur in 1000 draws")
}

func TestMutate_ZeroRateIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, g := range []uint16{0x0000, 0xFFFF, 0xA5A5, 0x1234} {
		assert.Equal(t, g, Mutate(g, 0, rng))
	}
}

func TestMutate_FullRateFlipsEveryBit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, uint16(0xFFFF), Mutate(0x0000, 1, rng))
	assert.Equal(t, uint16(0x5A5A), Mutate(0xA5A5, 1, rng))
}

func isCrossoverOf(child, g1, g2 uint16) bool {
	for c := 1; c < GeneBits; c++ {
		if child == Crossover(g1, g2, c) {
			return true
		}
	}
	return false
}

func TestMate_NoMutationOnlyParentBits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	pairs := [][2]uint16{{0xFF00, 0x00FF}, {0xAAAA, 0x5555}, {0x0F0F, 0xF0F0}}
	for _, pair := range pairs {
		p1, p2 := New(pair[0]), New(pair[1])
		for i := 0; i < 200; i++ {
			child := Mate(&p1, &p2, 0, rng)
			assert.True(t, isCrossoverOf(child.Gene, p1.Gene, p2.Gene),
				"child %#04x is not a single-point crossover of %#04x and %#04x", child.Gene, p1.Gene, p2.Gene)
			assert.Zero(t, child.Worth)
			assert.Zero(t, child.PlayCount)
		}
	}
}

func TestMate_IdenticalParentsWithoutMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := New(0xBEEF)
	for i := 0; i < 50; i++ {
		child := Mate(&p, &p, 0, rng)
		assert.Equal(t, uint16(0xBEEF), child.Gene)
	}
}
