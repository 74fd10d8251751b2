package solver

import (
	"math"
	"testing"
)

func TestConsolidatedObserve(t *testing.T) {
	var c consolidated
	c.observe(Result{NegRank: -2, ScoreDifferential: -1, ScoreTotal: 10})
	c.observe(Result{NegRank: -1, ScoreDifferential: 3, ScoreTotal: 20})
	c.observe(Result{NegRank: -3, ScoreDifferential: -2, ScoreTotal: 6})
	c.finish()

	if c.best.NegRank != -1 {
		t.Fatalf("best=%v", c.best)
	}
	if c.worst.NegRank != -3 {
		t.Fatalf("worst=%v", c.worst)
	}
	if c.average.NegRank != -2 || c.average.ScoreTotal != 12 {
		t.Fatalf("average=%v", c.average)
	}
}

func TestBetterThanAverage(t *testing.T) {
	winning := &consolidated{average: Result{NegRank: -1, ScoreDifferential: -0.5}, count: 1}
	richer := &consolidated{average: Result{NegRank: -2, ScoreDifferential: 4}, count: 1}

	// Rank decides on the last round; before it, the point spread does.
	if !winning.betterThan(richer, true, ConsolidateAverage) {
		t.Fatal("rank 1 should win the last round")
	}
	if !richer.betterThan(winning, false, ConsolidateAverage) {
		t.Fatal("bigger differential should win mid-game")
	}
}

func TestBetterThanWorstTiebreak(t *testing.T) {
	// Identical worst cases; the average outcome breaks the tie.
	floor := Result{NegRank: -2, ScoreDifferential: -1, ScoreTotal: 5}
	a := &consolidated{worst: floor, average: Result{NegRank: -2, ScoreDifferential: 2}, count: 1}
	b := &consolidated{worst: floor, average: Result{NegRank: -2, ScoreDifferential: 1}, count: 1}

	if !a.betterThan(b, false, ConsolidateWorst) {
		t.Fatal("better average should break a worst-case tie")
	}
	if b.betterThan(a, false, ConsolidateWorst) {
		t.Fatal("comparison should be asymmetric")
	}
}

func TestSignedSqrt(t *testing.T) {
	if got := signedSqrt(4); got != 2 {
		t.Fatalf("signedSqrt(4)=%v", got)
	}
	if got := signedSqrt(-9); got != -3 {
		t.Fatalf("signedSqrt(-9)=%v", got)
	}
	if got := signedSqrt(0); got != 0 || math.Signbit(got) {
		t.Fatalf("signedSqrt(0)=%v", got)
	}
}
