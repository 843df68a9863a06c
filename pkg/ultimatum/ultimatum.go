// Package ultimatum implements a single round of the ultimatum game between
// two agents.
package ultimatum

import "github.com/wildfunctions/ultimatum/pkg/agent"

// Stake is the divisible amount at play in every encounter.
const Stake = 100.0

// Outcome reports what one encounter paid out.
type Outcome struct {
	Accepted      bool
	ProposerGain  float64
	ResponderGain float64
}

// Play runs one encounter. The responder accepts when the proposer's offer
// reaches its minimum; on acceptance the proposer keeps stake*(1-offer) and
// the responder receives stake*offer, otherwise nobody gains. Both play
// counts advance either way. proposer and responder may be the same agent.
func Play(stake float64, proposer, responder *agent.Agent) Outcome {
	var out Outcome
	offer := proposer.OfferFraction()
	if offer >= responder.MinAcceptFraction() {
		give := stake * offer
		out = Outcome{
			Accepted:      true,
			ProposerGain:  stake - give,
			ResponderGain: give,
		}
		proposer.Worth += out.ProposerGain
		responder.Worth += out.ResponderGain
	}

	proposer.PlayCount++
	responder.PlayCount++
	return out
}
