package value

import (
	"math"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/prob"
)

// position is the effective input set for one evaluation. Which fields are
// populated depends on the scope: generic (the blocking baseline) has
// nothing, hand-only has the wasabi/chopsticks counters, tunnel vision has
// the plate, full state adds the view and pudding scorer.
type position struct {
	generic bool

	view   *game.View
	scorer *prob.Scorer
	plate  *game.Plate

	numCards     int
	numPlayers   int
	unusedWasabi int
	chopsticks   int
}

// cardsYetToSee is how many hand cards will still pass through this
// player's hands before the round ends: n-1 next turn, n-2 after, and so
// on.
func (pos *position) cardsYetToSee() int {
	return pos.numCards * (pos.numCards - 1) / 2
}

// cardRate estimates what fraction of the cards still to be seen are the
// given card. With a full view it counts the known hands and fills unknown
// slots from the unseen distribution; otherwise callers use fixed deck
// rates. afterThisOne excludes the card currently being evaluated.
func cardRate(v *game.View, card game.Card, afterThisOne bool) float64 {
	remaining, known, unknown := 0, 0, 0
	for _, hand := range v.Hands() {
		remaining += len(hand)
		for _, c := range hand {
			switch c {
			case card:
				known++
			case game.CardUnknown:
				unknown++
			}
		}
	}

	sub := 0
	if afterThisOne {
		sub = 1
	}
	if remaining-sub <= 0 {
		return 0
	}

	expected := float64(known)
	if unknown > 0 {
		unseenTotal := 0
		for _, n := range v.Unseen {
			unseenTotal += n
		}
		if unseenTotal > 0 {
			expected += float64(unknown) * float64(v.Unseen[card]) / float64(unseenTotal)
		}
	}

	return clamp01((expected - float64(sub)) / float64(remaining-sub))
}

func sashimiValue(pos *position) Breakdown {
	if pos.generic {
		// Average value to a player we know nothing about.
		return Breakdown{FuturePoints: 3}
	}

	needed := pos.plate.NumSashimiNeeded()
	if needed > pos.numCards {
		return Breakdown{}
	}
	if needed == 1 {
		// Completes the triple outright.
		return Breakdown{PointsNow: 10}
	}

	var rate float64
	if pos.view != nil {
		rate = cardRate(pos.view, game.Sashimi, true)
	} else {
		unscored := pos.plate.Sashimi % 3
		rate = float64(14-1-unscored) / float64(108-1-unscored)
	}
	avgYetToSee := float64(pos.cardsYetToSee()) * rate

	switch needed {
	case 2:
		// This card is only worth half the triple until the last one lands.
		return Breakdown{FuturePoints: 5 * math.Min(1, avgYetToSee)}
	default:
		// Starting from zero we need two more, on separate passes unless
		// chopsticks let us double up. The 0.9 discounts the chance we
		// would pass on the second one.
		oddsSeeingTwo := 0.4 * avgYetToSee
		if pos.chopsticks > 0 {
			oddsSeeingTwo = 0.5 * avgYetToSee
		}
		return Breakdown{FuturePoints: (10.0 / 3.0) * math.Min(1, oddsSeeingTwo) * 0.9}
	}
}

func tempuraValue(pos *position) Breakdown {
	if pos.generic {
		return Breakdown{FuturePoints: 2}
	}

	needed := pos.plate.NumTempuraNeeded()
	if needed > pos.numCards {
		return Breakdown{}
	}
	if needed == 1 {
		return Breakdown{PointsNow: 5}
	}

	rate := 13.0 / 107.0
	if pos.view != nil {
		rate = cardRate(pos.view, game.Tempura, true)
	}
	avgYetToSee := float64(pos.cardsYetToSee()) * rate
	return Breakdown{FuturePoints: 2.5 * math.Min(1, avgYetToSee)}
}

func dumplingValue(pos *position) Breakdown {
	if pos.generic {
		return Breakdown{FuturePoints: 2}
	}

	if pos.plate.Dumplings >= 5 {
		return Breakdown{}
	}
	pointsNow := float64(pos.plate.Dumplings + 1)

	rate := 13.0 / 107.0
	if pos.view != nil {
		rate = cardRate(pos.view, game.Dumpling, true)
	}

	// Each later dumpling we actually take gets 1 point more valuable;
	// guess we take half of what we see, capped at the fifth.
	avgYetToTake := 0.5 * float64(pos.cardsYetToSee()) * rate
	maxMoreScored := math.Max(0, float64(4-pos.plate.Dumplings))
	return Breakdown{
		PointsNow:    pointsNow,
		FuturePoints: math.Min(avgYetToTake, maxMoreScored),
	}
}

func wasabiValue(pos *position) Breakdown {
	if pos.generic {
		// Slightly steeper than /2 to allow for an opponent sitting on
		// an open wasabi already.
		return Breakdown{FuturePoints: math.Min(float64(pos.numCards-1)/2.1, 6)}
	}

	// Each wasabi already waiting halves the value of another.
	future := float64(pos.numCards-1) / math.Pow(2, float64(1+pos.unusedWasabi))
	return Breakdown{FuturePoints: math.Min(future, 6)}
}

func nigiriValue(pos *position, card game.Card) Breakdown {
	wasabiScale := 1.0
	switch {
	case pos.generic:
		// Roughly 10% chance an arbitrary player has wasabi out.
		wasabiScale = 1.2
	case pos.unusedWasabi > 0:
		wasabiScale = 3
	}

	return Breakdown{
		PointsNow:       float64(card.NigiriScore()) * wasabiScale,
		OpportunityCost: nigiriOpportunityCost(pos, card),
	}
}

// nigiriOpportunityCost prices spending an open wasabi on a lesser nigiri
// when a better one may still come around.
func nigiriOpportunityCost(pos *position, card game.Card) float64 {
	if card == game.SquidNigiri || pos.generic || pos.unusedWasabi == 0 {
		return 0
	}

	cardsYet := float64(pos.cardsYetToSee())
	avgSquidYetToSee := cardsYet * 5.0 / 108.0

	switch card {
	case game.SalmonNigiri:
		// A squid is 3 wasabi-tripled points better; assume 95% take rate.
		return math.Min(1, avgSquidYetToSee) * 3.0 * 0.95
	case game.EggNigiri:
		oddsTakingSquid := math.Min(1, avgSquidYetToSee) * 0.95
		avgSalmonYetToSee := cardsYet * 10.0 / 108.0
		oddsTakingSalmon := math.Max(math.Min(1, avgSalmonYetToSee)*0.75-oddsTakingSquid, 0)
		return 6*oddsTakingSquid + 3*oddsTakingSalmon
	}
	return 0
}

func makiValue(pos *position, card game.Card) Breakdown {
	// The 6+3 bonus pool spread over the deck's maki, per competing player.
	var future float64
	switch card {
	case game.Maki3:
		future = 4.5
	case game.Maki2:
		future = 3.0
	case game.Maki1:
		future = 1.5
	}
	return Breakdown{FuturePoints: future / float64(pos.numPlayers)}
}

func puddingValue(pos *position) Breakdown {
	if pos.scorer != nil && pos.view != nil {
		counts := make([]int, 0, pos.numPlayers)
		counts = append(counts, pos.view.Puddings)
		for i := range pos.view.Others {
			counts = append(counts, pos.view.Others[i].Puddings)
		}

		deltas := pos.scorer.PuddingPickValue(counts)
		blocking := 0.0
		for _, d := range deltas[1:] {
			blocking -= d
		}
		return Breakdown{
			FuturePoints:      deltas[0],
			BlockingPerPlayer: blocking,
			HasBlocking:       true,
		}
	}

	// 12 bonus points across the game with 3+ players, 6 with 2.
	if pos.numPlayers > 2 {
		return Breakdown{FuturePoints: 4 / float64(pos.numPlayers)}
	}
	return Breakdown{FuturePoints: 2 / float64(pos.numPlayers)}
}

func chopsticksValue(pos *position) Breakdown {
	if pos.generic {
		turns := math.Max(float64(pos.numCards-3), 0)
		return Breakdown{FuturePoints: 0.5 * turns}
	}

	// The last turn they could fire is when two cards are left, and each
	// chopsticks already held halves the value of another.
	turns := pos.numCards - 2 - pos.chopsticks
	if turns <= 0 {
		return Breakdown{}
	}
	return Breakdown{FuturePoints: math.Pow(0.5, float64(pos.chopsticks+1)) * float64(turns)}
}

// chopstickUseCost is the opportunity cost of firing chopsticks now rather
// than on a later, possibly better, pair.
func chopstickUseCost(chopsticks, numCards int) float64 {
	turns := numCards - 2 - chopsticks
	if turns <= 0 {
		return 0
	}
	return math.Pow(0.5, float64(chopsticks)) * float64(turns)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
