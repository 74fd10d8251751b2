package agent

import (
	"math/rand"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/value"
)

// PresentValue greedily takes the pick with the highest estimated value
// at its estimator's scope, splitting exact ties at random.
type PresentValue struct {
	rng  *rand.Rand
	est  *value.Estimator
	name string
}

// NewHandOnly values cards from the hand alone; the plate only tells it
// whether chopsticks and a spare wasabi are available.
func NewHandOnly(rng *rand.Rand) *PresentValue {
	return &PresentValue{
		rng:  rng,
		est:  value.New(value.ScopeHandOnly, value.DefaultConfig()),
		name: "HandOnly",
	}
}

// NewTunnelVision values cards against the full plate but ignores every
// other seat.
func NewTunnelVision(rng *rand.Rand) *PresentValue {
	return &PresentValue{
		rng:  rng,
		est:  value.New(value.ScopeTunnelVision, value.DefaultConfig()),
		name: "TunnelVision",
	}
}

// NewPresentValue uses the full view: plate, seen hands, and the
// distribution of unseen cards.
func NewPresentValue(rng *rand.Rand) *PresentValue {
	return &PresentValue{
		rng:  rng,
		est:  value.New(value.ScopeFullState, value.DefaultConfig()),
		name: "PresentValue",
	}
}

func (a *PresentValue) Name() string { return a.name }

func (a *PresentValue) Pick(v *game.View) (game.Pick, error) {
	rated, err := a.est.RatePicks(v)
	if err != nil {
		return game.Pick{}, err
	}
	best := value.BestPicks(rated)
	if len(best) == 1 || a.rng == nil {
		return best[0], nil
	}
	return best[a.rng.Intn(len(best))], nil
}
