// Package rules implements Sushi Go scoring, legal move enumeration, and
// the simultaneous turn transition.
//
// Everything here is a pure function over game types. Nothing logs, nothing
// retries; malformed input fails fast with ErrInvalidState.
package rules

import (
	"sort"

	"github.com/okonomi/sushigo/game"
)

// dumplingPoints[n] is the score for n dumplings, capped at 5.
var dumplingPoints = [6]int{0, 1, 3, 6, 10, 15}

const (
	mostMakiPool   = 6
	secondMakiPool = 3

	mostPuddingBonus   = 6
	fewestPuddingMalus = 6
	maxScoredDumplings = 5
	tempuraSetPoints   = 5
	sashimiSetPoints   = 10
)

// ScorePlate returns the points a plate is worth on its own: tempura pairs,
// sashimi triples, dumplings, and nigiri (wasabi multipliers are already
// folded into the plate's nigiri score). Maki and pudding are scored against
// the other players, not here.
func ScorePlate(p *game.Plate) int {
	score := tempuraSetPoints * (p.Tempura / 2)
	score += sashimiSetPoints * (p.Sashimi / 3)

	dumplings := p.Dumplings
	if dumplings > maxScoredDumplings {
		dumplings = maxScoredDumplings
	}
	score += dumplingPoints[dumplings]

	score += p.NigiriScore
	return score
}

// MakiBonus returns the end-of-round maki bonus for each player given their
// roll counts. The 6-point pool goes to the most rolls, the 3-point pool to
// the second most, each split between ties rounding down with the remainder
// unallocated. No second-place pool is paid when first place is tied, or
// when the second-best count is zero.
func MakiBonus(rolls []int) []int {
	bonus := make([]int, len(rolls))

	most := 0
	for _, n := range rolls {
		if n > most {
			most = n
		}
	}
	if most == 0 {
		return bonus
	}

	numMost := 0
	second := 0
	for _, n := range rolls {
		if n == most {
			numMost++
		} else if n > second {
			second = n
		}
	}

	mostPoints := mostMakiPool / numMost

	secondPoints := 0
	if numMost == 1 && second > 0 {
		numSecond := 0
		for _, n := range rolls {
			if n == second {
				numSecond++
			}
		}
		secondPoints = secondMakiPool / numSecond
	}

	for i, n := range rolls {
		if n == most {
			bonus[i] = mostPoints
		} else if n == second {
			bonus[i] = secondPoints
		}
	}
	return bonus
}

// PuddingBonus returns the end-of-game pudding bonus for each player:
// +6 split between the most puddings, -6 split between the fewest, both
// rounding down. A two-player game has no fewest-pudding penalty, and if
// everyone is tied nothing is paid at all.
func PuddingBonus(puddings []int) []int {
	bonus := make([]int, len(puddings))
	if len(puddings) < 2 {
		return bonus
	}

	most, fewest := puddings[0], puddings[0]
	for _, n := range puddings[1:] {
		if n > most {
			most = n
		}
		if n < fewest {
			fewest = n
		}
	}
	if most == fewest {
		return bonus
	}

	numMost, numFewest := 0, 0
	for _, n := range puddings {
		if n == most {
			numMost++
		}
		if n == fewest {
			numFewest++
		}
	}

	mostPoints := mostPuddingBonus / numMost
	fewestPoints := 0
	if len(puddings) > 2 {
		fewestPoints = fewestPuddingMalus / numFewest
	}

	for i, n := range puddings {
		if n == most {
			bonus[i] = mostPoints
		}
		if n == fewest {
			bonus[i] = -fewestPoints
		}
	}
	return bonus
}

// RankPlayers returns each player's final standing, 1 being the winner.
// Players are ordered by score, with pudding count breaking ties; players
// still tied after that share a rank, and the following rank is skipped.
func RankPlayers(scores, puddings []int) []int {
	type standing struct {
		idx      int
		score    int
		puddings int
	}

	standings := make([]standing, len(scores))
	for i := range scores {
		standings[i] = standing{idx: i, score: scores[i], puddings: puddings[i]}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].score != standings[j].score {
			return standings[i].score > standings[j].score
		}
		return standings[i].puddings > standings[j].puddings
	})

	ranks := make([]int, len(scores))
	for pos, s := range standings {
		rank := pos + 1
		if pos > 0 {
			prev := standings[pos-1]
			if s.score == prev.score && s.puddings == prev.puddings {
				rank = ranks[prev.idx]
			}
		}
		ranks[s.idx] = rank
	}
	return ranks
}

// MakiCounts extracts each player's maki roll count from the table state.
func MakiCounts(s *game.State) []int {
	rolls := make([]int, s.NumPlayers())
	for i := range s.Players {
		rolls[i] = s.Players[i].Plate.MakiRolls
	}
	return rolls
}

// PuddingCounts extracts each player's game-total pudding count.
func PuddingCounts(s *game.State) []int {
	puddings := make([]int, s.NumPlayers())
	for i := range s.Players {
		puddings[i] = s.Players[i].Puddings
	}
	return puddings
}

// RoundScores returns every player's score for the round as it stands:
// plate points plus the maki bonus. Plates are not cleared.
func RoundScores(s *game.State) []int {
	makiBonus := MakiBonus(MakiCounts(s))
	scores := make([]int, s.NumPlayers())
	for i := range s.Players {
		scores[i] = ScorePlate(&s.Players[i].Plate) + makiBonus[i]
	}
	return scores
}
