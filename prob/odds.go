// Package prob provides hypergeometric card-draw odds and a probabilistic
// end-of-game pudding scorer for positions where future rounds are still
// undealt.
package prob

// Odds answers: dealing `dealing` cards from a deck of `deckSize` holding
// `copies` of some card, what is the probability exactly `dealt` of them
// come out? Computed as a running product so large decks stay in float64
// range.
func Odds(deckSize, copies, dealing, dealt int) float64 {
	if dealt < 0 || dealt > dealing || dealt > copies {
		return 0
	}
	if dealing > deckSize || dealing-dealt > deckSize-copies {
		return 0
	}

	// C(copies, dealt) * C(deckSize-copies, dealing-dealt) / C(deckSize, dealing)
	return binomRatio(copies, dealt) * binomRatio(deckSize-copies, dealing-dealt) / binomRatio(deckSize, dealing)
}

// OddsList returns the full distribution: element n is the probability of
// dealing exactly n copies. Length is min(copies, dealing)+1.
func OddsList(deckSize, copies, dealing int) []float64 {
	max := copies
	if dealing < max {
		max = dealing
	}
	odds := make([]float64, max+1)
	for n := range odds {
		odds[n] = Odds(deckSize, copies, dealing, n)
	}
	return odds
}

// AverageDealt returns the expected number of copies dealt, which for the
// hypergeometric distribution is exactly dealing*copies/deckSize.
func AverageDealt(deckSize, copies, dealing int) float64 {
	if deckSize == 0 {
		return 0
	}
	return float64(dealing) * float64(copies) / float64(deckSize)
}

// binomRatio computes C(n, k) in float64. Fine for deck-sized inputs; a
// 108-card deck tops out around 1e31, well inside float64 range.
func binomRatio(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}
