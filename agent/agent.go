// Package agent collects the pick strategies: pure-random baselines, the
// present-value family, and the exhaustive end-of-round solver. An agent
// sees only its View and returns one Pick; all randomness comes from the
// injected *rand.Rand so games are reproducible from a seed.
package agent

import (
	"fmt"
	"math/rand"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/solver"
)

// Agent decides one pick per turn.
type Agent interface {
	Pick(v *game.View) (game.Pick, error)
	Name() string
}

// Names lists every agent the factory knows, in rough strength order.
func Names() []string {
	return []string{
		"random",
		"random-unique",
		"random-plus",
		"random-plus-plus",
		"hand-only",
		"tunnel-vision",
		"present-value",
		"recursive",
		"later-recursive",
	}
}

// New builds an agent by name. rng may be shared between agents; nil is
// only acceptable for the deterministic ones.
func New(name string, rng *rand.Rand) (Agent, error) {
	switch name {
	case "random":
		return NewRandom(rng, false), nil
	case "random-unique":
		return NewRandom(rng, true), nil
	case "random-plus":
		return NewRandomPlus(rng), nil
	case "random-plus-plus":
		return NewRandomPlusPlus(rng), nil
	case "hand-only":
		return NewHandOnly(rng), nil
	case "tunnel-vision":
		return NewTunnelVision(rng), nil
	case "present-value":
		return NewPresentValue(rng), nil
	case "recursive":
		return NewRecursive(solver.ConsolidateAverage), nil
	case "later-recursive":
		return NewLaterRecursive(NewPresentValue(rng), solver.ConsolidateAverage), nil
	}
	return nil, fmt.Errorf("unknown agent %q", name)
}

// orderedPair puts a wasabi ahead of a nigiri so applying the pair in
// order lands the nigiri on the wasabi.
func orderedPair(a, b game.Card) game.Pick {
	if b == game.Wasabi && a.IsNigiri() {
		a, b = b, a
	}
	return game.PickTwo(a, b)
}

// withoutCard copies hand minus one copy of c.
func withoutCard(hand []game.Card, c game.Card) []game.Card {
	rest, _ := game.RemoveCard(append([]game.Card(nil), hand...), c)
	return rest
}
