package agent

import "fmt"

// GeneBits is the number of bits in a gene.
const GeneBits = 16

// Agent is a single player. The high byte of Gene is the offer it makes as
// proposer, the low byte the smallest offer it accepts as responder.
type Agent struct {
	Gene        uint16
	Worth       float64 // payoff accumulated this generation
	PlayCount   int     // games played this generation, either role
	AverageGain float64
}

// New returns an agent carrying gene with zeroed per-generation state.
func New(gene uint16) Agent {
	return Agent{Gene: gene}
}

// OfferFraction returns the share of the stake the agent offers, in [0,1].
func (a *Agent) OfferFraction() float64 {
	return float64(a.Gene>>8) / 255
}

// MinAcceptFraction returns the smallest share the agent accepts, in [0,1].
func (a *Agent) MinAcceptFraction() float64 {
	return float64(a.Gene&0xFF) / 255
}

// Reset clears the per-generation bookkeeping.
func (a *Agent) Reset() {
	a.Worth = 0
	a.PlayCount = 0
	a.AverageGain = 0
}

// ComputeAverageGain sets AverageGain to Worth/PlayCount. An agent that did
// not play gets 0 rather than NaN.
func (a *Agent) ComputeAverageGain() float64 {
	if a.PlayCount == 0 {
		a.AverageGain = 0
	} else {
		a.AverageGain = a.Worth / float64(a.PlayCount)
	}
	return a.AverageGain
}

// String returns a human-readable representation.
func (a *Agent) String() string {
	return fmt.Sprintf("gene=%#04x offer=%.3f min=%.3f", a.Gene, a.OfferFraction(), a.MinAcceptFraction())
}
