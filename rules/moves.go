package rules

import (
	"errors"

	"github.com/okonomi/sushigo/game"
)

// ErrInvalidState is returned when move enumeration or a state transition
// is asked to operate on input that violates the game rules.
var ErrInvalidState = errors.New("invalid game state")

// LegalPicks enumerates every legal pick for a hand and plate.
//
// Single-card picks are deduplicated by card value: playing one of two
// identical tempura is the same move. When the plate holds an unused
// chopsticks and the hand has at least two cards, every unordered pair of
// hand values is also legal (picking up the chopsticks card itself with
// chopsticks is a null move and is not enumerated). A wasabi paired with a
// nigiri is ordered wasabi first so the nigiri is tripled.
func LegalPicks(hand []game.Card, plate *game.Plate) ([]game.Pick, error) {
	if len(hand) == 0 {
		return nil, ErrInvalidState
	}

	counts := make(map[game.Card]int, len(hand))
	values := make([]game.Card, 0, len(hand))
	for _, c := range hand {
		if counts[c] == 0 {
			values = append(values, c)
		}
		counts[c]++
	}

	picks := make([]game.Pick, 0, len(values))
	for _, c := range values {
		picks = append(picks, game.PickOne(c))
	}

	if plate.Chopsticks > 0 && len(hand) >= 2 {
		for i, a := range values {
			if a == game.Chopsticks {
				continue
			}
			for _, b := range values[i:] {
				if b == game.Chopsticks {
					continue
				}
				if a == b && counts[a] < 2 {
					continue
				}
				picks = append(picks, pairPick(a, b))
			}
		}
	}

	return picks, nil
}

// pairPick orders a chopsticks pair so wasabi is played before a nigiri.
func pairPick(a, b game.Card) game.Pick {
	if b == game.Wasabi && a.IsNigiri() {
		return game.PickTwo(b, a)
	}
	return game.PickTwo(a, b)
}

// FilterLikelyBadPicks removes picks that are almost never worth making:
// a maki or nigiri strictly dominated by a higher one in the same hand, a
// set card whose set can no longer complete before the round ends, a sixth
// dumpling, a wasabi with no turn left to cover it, and a chopsticks played
// too late to ever be used. turnsLeft counts the current turn.
//
// Domination is not strictly sound with three or more players (denying a
// card can beat playing the best one), so callers searching exhaustively
// may skip this filter; see the solver. If every pick is filtered the
// original set is returned so the player always has a move.
func FilterLikelyBadPicks(picks []game.Pick, hand []game.Card, plate *game.Plate, turnsLeft int) []game.Pick {
	bestMaki, bestNigiri := 0, 0
	for _, c := range hand {
		if rolls := c.MakiRolls(); rolls > bestMaki {
			bestMaki = rolls
		}
		if score := c.NigiriScore(); score > bestNigiri {
			bestNigiri = score
		}
	}

	kept := make([]game.Pick, 0, len(picks))
	for _, pick := range picks {
		if !likelyBadPick(pick, plate, turnsLeft, bestMaki, bestNigiri) {
			kept = append(kept, pick)
		}
	}
	if len(kept) == 0 {
		return picks
	}
	return kept
}

func likelyBadPick(pick game.Pick, plate *game.Plate, turnsLeft int, bestMaki, bestNigiri int) bool {
	// Set cards are judged against the plate with earlier cards of the
	// same pick already applied, so a sashimi pair counts as progress
	// toward one triple, not two impossible ones.
	work := *plate

	for i, c := range pick.Cards() {
		switch {
		case c.IsMaki():
			if c.MakiRolls() < bestMaki {
				return true
			}

		case c.IsNigiri():
			if c.NigiriScore() < bestNigiri {
				return true
			}

		case c == game.Tempura:
			if work.NumTempuraNeeded() > turnsLeft {
				return true
			}

		case c == game.Sashimi:
			if work.NumSashimiNeeded() > turnsLeft {
				return true
			}

		case c == game.Dumpling:
			if work.Dumplings >= maxScoredDumplings {
				return true
			}

		case c == game.Wasabi:
			// Fine when the same pick covers it with a nigiri.
			coveredInPick := i == 0 && pick.IsPair() && pick.Second.IsNigiri()
			if !coveredInPick && turnsLeft < 2 {
				return true
			}

		case c == game.Chopsticks:
			// Needs a later turn that still has two cards in hand.
			if turnsLeft < 3 {
				return true
			}
		}

		work.Add(c)
	}

	return false
}
