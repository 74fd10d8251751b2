package prob

import (
	"errors"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/rules"
)

// ErrUnknownCards is returned when a Scorer is built from a view that still
// has hidden cards in the current round's hands.
var ErrUnknownCards = errors.New("view has unknown cards")

// Scorer estimates end-of-game pudding bonuses for positions where future
// rounds have not been dealt yet. With nothing left to deal it falls back
// to the exact bonus.
type Scorer struct {
	numPlayers        int
	cardsToBeDealt    int
	remainingPuddings int

	// avgPuddingsToSee is the expected number of puddings dealt over the
	// remaining rounds.
	avgPuddingsToSee float64
}

// NewScorer builds a Scorer from a view with no unknown cards, so the
// unseen distribution is exactly the undealt deck.
func NewScorer(v *game.View) (*Scorer, error) {
	if v.HasUnknownCards() {
		return nil, ErrUnknownCards
	}

	remaining := v.Unseen[game.Pudding]
	return &Scorer{
		numPlayers:        v.NumPlayers(),
		cardsToBeDealt:    v.CardsToBeDealt,
		remainingPuddings: remaining,
		avgPuddingsToSee:  AverageDealt(v.DeckRemaining, remaining, v.CardsToBeDealt),
	}, nil
}

// ScorePuddings returns each player's expected pudding bonus given their
// current game-total pudding counts.
//
// With cards still to be dealt, the estimate works pairwise: on a linear
// scale from "I take every remaining pudding" to "they do", the zero
// crossing of the count difference approximates the odds of finishing
// ahead of that player. The product over opponents gives first-place odds;
// the complement product gives last-place odds; the bonus is
// 6*(first - last). Crude, but cheap enough to run at every search leaf.
func (s *Scorer) ScorePuddings(puddings []int) []float64 {
	if len(puddings) != s.numPlayers {
		panic("pudding count does not match player count")
	}

	if s.cardsToBeDealt == 0 || s.remainingPuddings == 0 {
		exact := rules.PuddingBonus(puddings)
		scores := make([]float64, len(exact))
		for i, p := range exact {
			scores[i] = float64(p)
		}
		return scores
	}

	scores := make([]float64, len(puddings))

	min, max := puddings[0], puddings[0]
	for _, n := range puddings[1:] {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	if min == max {
		return scores
	}

	for i := range puddings {
		scores[i] = s.playerScore(puddings, i)
	}
	return scores
}

// PuddingPickValue returns how much each player's expected pudding bonus
// moves if the viewing player (index 0) takes one more pudding. Element 0
// is the viewer's own gain; the rest are the relative losses inflicted on
// the other players.
func (s *Scorer) PuddingPickValue(puddings []int) []float64 {
	before := s.ScorePuddings(puddings)

	after := make([]int, len(puddings))
	copy(after, puddings)
	after[0]++

	deltas := s.ScorePuddings(after)
	for i := range deltas {
		deltas[i] -= before[i]
	}
	return deltas
}

func (s *Scorer) playerScore(puddings []int, player int) float64 {
	firstOdds := 1.0
	lastOdds := 1.0

	for other, count := range puddings {
		if other == player {
			continue
		}
		// Final count difference lands in [delta-avg, delta+avg]; the
		// fraction of that range above zero is the chance of finishing
		// ahead of this opponent.
		delta := float64(puddings[player] - count)
		beatOdds := clamp01((s.avgPuddingsToSee + delta) / (2 * s.avgPuddingsToSee))
		firstOdds *= beatOdds
		lastOdds *= 1 - beatOdds
	}

	score := mostPuddingBonus * firstOdds
	if s.numPlayers > 2 {
		score -= fewestPuddingMalus * lastOdds
	}
	return score
}

const (
	mostPuddingBonus   = 6.0
	fewestPuddingMalus = 6.0
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
