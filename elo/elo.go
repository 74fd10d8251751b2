// Package elo rates agents from game results: the standard two-player
// update, and a multiplayer variant that treats an n-player game as n-1
// pairwise games for every seat.
package elo

import (
	"fmt"
	"math"
)

const (
	// DefaultRating seeds unrated players.
	DefaultRating = 1500

	// MinRating is the floor a rating can never drop below.
	MinRating = 100

	minK = 2
	maxK = 32
)

// KFactor scales the update rate down as a player accumulates games,
// clamped to [2, 32].
func KFactor(numGames int) float64 {
	if numGames < 1 {
		numGames = 1
	}
	k := 800 / float64(numGames)
	return math.Min(math.Max(k, minK), maxK)
}

// Expected returns the probability of a beating b implied by the ratings.
func Expected(a, b float64) float64 {
	qa := math.Pow(10, a/400)
	qb := math.Pow(10, b/400)
	return qa / (qa + qb)
}

// Delta returns the rating change for a player who scored s (1 win, 0.5
// draw, 0 loss) against an opponent.
func Delta(rating, opponent, s, k float64) float64 {
	return k * (s - Expected(rating, opponent))
}

// Update applies one two-player result and returns both new ratings.
func Update(a, b, scoreA, k float64) (float64, float64) {
	da := Delta(a, b, scoreA, k)
	return clamp(a + da), clamp(b - da)
}

// UpdateMultiplayer rates one n-player game as a pairwise round-robin:
// every seat plays an Elo "game" against each other seat, winning where
// its rank is lower. numPrevGames scales K down over a long tournament.
func UpdateMultiplayer(ranks []int, ratings []float64, numPrevGames int) ([]float64, error) {
	if len(ranks) != len(ratings) {
		return nil, fmt.Errorf("%d ranks for %d ratings", len(ranks), len(ratings))
	}
	n := len(ranks)

	// Each game counts as n-1 pairwise games.
	k := KFactor((n - 1) * (1 + numPrevGames))

	out := make([]float64, n)
	for i := range ranks {
		delta := 0.0
		for j := range ranks {
			if j == i {
				continue
			}
			score := 0.5
			switch {
			case ranks[i] < ranks[j]:
				score = 1
			case ranks[i] > ranks[j]:
				score = 0
			}
			delta += Delta(ratings[i], ratings[j], score, k)
		}
		out[i] = clamp(ratings[i] + delta)
	}
	return out, nil
}

func clamp(rating float64) float64 {
	return math.Max(rating, MinRating)
}
