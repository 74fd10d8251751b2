package agent

import (
	"math/rand"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/rules"
)

// Random picks uniformly from its hand and flips a coin on whether to
// spend chopsticks. WeightUnique selects among distinct card types
// instead of individual cards, so a hand of three tempura and one squid
// is a coin flip rather than 3:1.
type Random struct {
	rng          *rand.Rand
	weightUnique bool
}

func NewRandom(rng *rand.Rand, weightUnique bool) *Random {
	return &Random{rng: rng, weightUnique: weightUnique}
}

func (a *Random) Name() string {
	if a.weightUnique {
		return "Random(unique)"
	}
	return "Random(repeated)"
}

func (a *Random) Pick(v *game.View) (game.Pick, error) {
	hand := v.Hand
	if len(hand) == 0 {
		return game.Pick{}, rules.ErrInvalidState
	}

	usePair := v.Plate.Chopsticks > 0 && len(hand) >= 2 && a.rng.Intn(2) == 0
	first := a.choose(hand)
	if !usePair || first == game.Chopsticks {
		return game.PickOne(first), nil
	}

	second := a.choose(withoutCard(hand, first))
	if second == game.Chopsticks {
		return game.PickOne(first), nil
	}
	return orderedPair(first, second), nil
}

func (a *Random) choose(hand []game.Card) game.Card {
	if a.weightUnique {
		hand = uniqueCards(hand)
	}
	return hand[a.rng.Intn(len(hand))]
}

// uniqueCards returns the distinct cards in first-appearance order.
func uniqueCards(hand []game.Card) []game.Card {
	seen := make(map[game.Card]bool, len(hand))
	out := make([]game.Card, 0, len(hand))
	for _, c := range hand {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// pickQuality grades a randomly chosen card so the pair logic knows
// whether burning chopsticks on it is worthwhile.
type pickQuality int

const (
	pickUselessToMe pickQuality = iota - 1
	pickFine
	pickGreat
)

// RandomPlus is random with the obviously bad choices removed: no cards
// strictly dominated by another in hand, no sets that can no longer
// complete, no sixth dumpling, no chopsticks too late to use.
type RandomPlus struct {
	rng     *rand.Rand
	obvious bool
}

func NewRandomPlus(rng *rand.Rand) *RandomPlus {
	return &RandomPlus{rng: rng}
}

// NewRandomPlusPlus additionally grabs a few hard-coded windfalls when
// they come up: completing a sashimi or tempura set, squid on wasabi,
// the fifth dumpling, and the matching chopstick pairs.
func NewRandomPlusPlus(rng *rand.Rand) *RandomPlus {
	return &RandomPlus{rng: rng, obvious: true}
}

func (a *RandomPlus) Name() string {
	if a.obvious {
		return "RandomPlusPlus"
	}
	return "RandomPlus"
}

func (a *RandomPlus) Pick(v *game.View) (game.Pick, error) {
	hand := v.Hand
	if len(hand) == 0 {
		return game.Pick{}, rules.ErrInvalidState
	}
	if len(hand) == 1 {
		return game.PickOne(hand[0]), nil
	}

	plate := v.Plate
	canUsePair := plate.Chopsticks > 0
	// Last chance to spend them before the hands run out.
	mustUsePair := canUsePair && len(hand) <= 1+plate.Chopsticks

	if a.obvious && canUsePair {
		if p, ok := obviousPair(&plate, hand); ok {
			return p, nil
		}
	}

	first, _ := a.chooseCard(&plate, hand)
	if first == game.Chopsticks {
		return game.PickOne(first), nil
	}
	if !canUsePair {
		return game.PickOne(first), nil
	}

	after := plate
	after.Add(first)
	second, quality := a.chooseCard(&after, withoutCard(hand, first))
	if second == game.Chopsticks {
		return game.PickOne(first), nil
	}

	switch quality {
	case pickGreat:
		return orderedPair(first, second), nil
	case pickFine:
		if mustUsePair || a.rng.Intn(2) == 0 {
			return orderedPair(first, second), nil
		}
	case pickUselessToMe:
		if mustUsePair {
			return orderedPair(first, second), nil
		}
	}
	return game.PickOne(first), nil
}

func obviousPair(plate *game.Plate, hand []game.Card) (game.Pick, bool) {
	switch {
	case plate.NumSashimiNeeded() == 2 && game.CountCard(hand, game.Sashimi) >= 2:
		return game.PickTwo(game.Sashimi, game.Sashimi), true
	case plate.UnusedWasabi == 0 &&
		game.CountCard(hand, game.Wasabi) > 0 &&
		game.CountCard(hand, game.SquidNigiri) > 0:
		return game.PickTwo(game.Wasabi, game.SquidNigiri), true
	case plate.Dumplings == 3 && game.CountCard(hand, game.Dumpling) >= 2:
		return game.PickTwo(game.Dumpling, game.Dumpling), true
	}
	return game.Pick{}, false
}

func (a *RandomPlus) chooseCard(plate *game.Plate, hand []game.Card) (game.Card, pickQuality) {
	if a.obvious {
		switch {
		case plate.NumSashimiNeeded() == 1 && game.CountCard(hand, game.Sashimi) > 0:
			return game.Sashimi, pickGreat
		case plate.UnusedWasabi > 0 && game.CountCard(hand, game.SquidNigiri) > 0:
			return game.SquidNigiri, pickGreat
		case plate.Dumplings == 4 && game.CountCard(hand, game.Dumpling) > 0:
			return game.Dumpling, pickGreat
		}
	}

	maybes := uniqueCards(hand)
	drop := func(c game.Card) {
		maybes, _ = game.RemoveCard(maybes, c)
	}

	if len(hand) <= 2+plate.Chopsticks {
		drop(game.Chopsticks)
	}

	if game.CountCard(hand, game.Maki3) > 0 {
		drop(game.Maki2)
		drop(game.Maki1)
	} else if game.CountCard(hand, game.Maki2) > 0 {
		drop(game.Maki1)
	}

	if game.CountCard(hand, game.SquidNigiri) > 0 {
		drop(game.SalmonNigiri)
		drop(game.EggNigiri)
	} else if game.CountCard(hand, game.SalmonNigiri) > 0 {
		drop(game.EggNigiri)
	}

	// Useless to us but still worth denying someone else.
	if plate.NumSashimiNeeded() > len(hand) {
		drop(game.Sashimi)
	}
	if plate.NumTempuraNeeded() > len(hand) {
		drop(game.Tempura)
	}
	if plate.Dumplings >= 5 {
		drop(game.Dumpling)
	}

	if len(maybes) > 0 {
		return maybes[a.rng.Intn(len(maybes))], pickFine
	}
	// Nothing useful left; block with whatever.
	fallbacks := uniqueCards(hand)
	return fallbacks[a.rng.Intn(len(fallbacks))], pickUselessToMe
}
