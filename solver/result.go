// Package solver picks moves by exhaustively expanding every player's
// simultaneous legal picks to the end of the round. It only works once the
// whole round is visible: with hidden cards it refuses rather than guess.
package solver

import (
	"fmt"
	"math"
)

// puddingTiebreakerScale folds pudding counts into a score so a single
// number can rank players. Small enough that no realistic pudding count
// outweighs a whole point.
const puddingTiebreakerScale = 1.0 / 1024.0

// Result is the terminal evaluation of one line of play, from the root
// player's perspective. Fields are ordered by comparison priority on the
// final round; NegRank is negated so bigger is always better.
type Result struct {
	// NegRank is minus the root player's projected final rank.
	NegRank float64

	// ScoreDifferential sums sign(d)*sqrt(|d|) over the point difference
	// to each other player. The square root weights close rivals over
	// runaways.
	ScoreDifferential float64

	// ScoreTotal is the root player's projected score, pudding-adjusted.
	ScoreTotal float64
}

func (r Result) String() string {
	return fmt.Sprintf("Result(rank=%.2g, diff=%+.3f, total=%.3f)", -r.NegRank, r.ScoreDifferential, r.ScoreTotal)
}

func (r Result) add(other Result) Result {
	return Result{
		NegRank:           r.NegRank + other.NegRank,
		ScoreDifferential: r.ScoreDifferential + other.ScoreDifferential,
		ScoreTotal:        r.ScoreTotal + other.ScoreTotal,
	}
}

func (r Result) div(n float64) Result {
	return Result{
		NegRank:           r.NegRank / n,
		ScoreDifferential: r.ScoreDifferential / n,
		ScoreTotal:        r.ScoreTotal / n,
	}
}

// less orders results lexicographically: rank, then differential, then
// total.
func (r Result) less(other Result) bool {
	if r.NegRank != other.NegRank {
		return r.NegRank < other.NegRank
	}
	if r.ScoreDifferential != other.ScoreDifferential {
		return r.ScoreDifferential < other.ScoreDifferential
	}
	return r.ScoreTotal < other.ScoreTotal
}

// Consolidation selects how the spread of outcomes across opponents'
// possible responses collapses into one comparable number per pick.
type Consolidation int

const (
	// ConsolidateAverage targets the best average outcome, treating
	// opponents as picking uniformly among their plausible moves.
	ConsolidateAverage Consolidation = iota

	// ConsolidateWorst assumes every response goes against us.
	ConsolidateWorst

	// ConsolidateBest assumes every response goes our way.
	ConsolidateBest
)

func (c Consolidation) String() string {
	switch c {
	case ConsolidateAverage:
		return "average"
	case ConsolidateWorst:
		return "worst"
	case ConsolidateBest:
		return "best"
	}
	return fmt.Sprintf("Consolidation(%d)", int(c))
}

// consolidated aggregates the results of one candidate pick across every
// opponent response combination.
type consolidated struct {
	best    Result
	worst   Result
	average Result
	count   int
}

func (c *consolidated) observe(r Result) {
	if c.count == 0 {
		c.best, c.worst, c.average = r, r, r
		c.count = 1
		return
	}
	if c.best.less(r) {
		c.best = r
	}
	if r.less(c.worst) {
		c.worst = r
	}
	c.average = c.average.add(r)
	c.count++
}

func (c *consolidated) finish() {
	if c.count > 1 {
		c.average = c.average.div(float64(c.count))
	}
}

// betterThan compares two finished consolidations. Rank dominates on the
// final round; before that, score differential carries more signal than a
// not-yet-meaningful rank.
func (c *consolidated) betterThan(other *consolidated, lastRound bool, how Consolidation) bool {
	primarySelf, primaryOther := c.average, other.average
	switch how {
	case ConsolidateWorst:
		primarySelf, primaryOther = c.worst, other.worst
	case ConsolidateBest:
		primarySelf, primaryOther = c.best, other.best
	}

	if how == ConsolidateAverage {
		if lastRound {
			return keyLess(
				[]float64{primaryOther.NegRank, primaryOther.ScoreDifferential, primaryOther.ScoreTotal},
				[]float64{primarySelf.NegRank, primarySelf.ScoreDifferential, primarySelf.ScoreTotal},
			)
		}
		return keyLess(
			[]float64{primaryOther.ScoreDifferential, primaryOther.NegRank, primaryOther.ScoreTotal},
			[]float64{primarySelf.ScoreDifferential, primarySelf.NegRank, primarySelf.ScoreTotal},
		)
	}

	// Worst/best consolidations break ties on the average outcome.
	tieSelf, tieOther := c.average.ScoreDifferential, other.average.ScoreDifferential
	if lastRound {
		tieSelf, tieOther = c.average.NegRank, other.average.NegRank
	}
	return keyLess(
		[]float64{primaryOther.NegRank, primaryOther.ScoreDifferential, primaryOther.ScoreTotal, tieOther},
		[]float64{primarySelf.NegRank, primarySelf.ScoreDifferential, primarySelf.ScoreTotal, tieSelf},
	)
}

func keyLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// signedSqrt is sign(d) * sqrt(|d|).
func signedSqrt(d float64) float64 {
	return math.Copysign(math.Sqrt(math.Abs(d)), d)
}
