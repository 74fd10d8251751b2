package solver

import (
	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/prob"
	"github.com/okonomi/sushigo/rules"
)

// tableState is the minimal per-node position: a full View is far too
// heavy to clone at every branch of the tree. Index 0 is the root player;
// the rest follow in hand-pass order, so rotating hands down one slot
// models the pass.
type tableState struct {
	scores    []int
	puddings  []int
	plates    []game.Plate
	hands     [][]game.Card
	turnsLeft int
}

func newTableState(v *game.View) *tableState {
	n := v.NumPlayers()
	ts := &tableState{
		scores:    make([]int, n),
		puddings:  make([]int, n),
		plates:    make([]game.Plate, n),
		hands:     make([][]game.Card, n),
		turnsLeft: v.TurnsLeft,
	}

	ts.scores[0] = v.Score
	ts.puddings[0] = v.Puddings
	ts.plates[0] = v.Plate
	ts.hands[0] = append([]game.Card(nil), v.Hand...)

	for i := range v.Others {
		o := &v.Others[i]
		ts.scores[i+1] = o.Score
		ts.puddings[i+1] = o.Puddings
		ts.plates[i+1] = o.Plate
		ts.hands[i+1] = append([]game.Card(nil), o.Hand...)
	}

	return ts
}

func (ts *tableState) numPlayers() int {
	return len(ts.scores)
}

// withPicks returns a copy of the table with one pick applied per player
// and hands passed along one seat.
func (ts *tableState) withPicks(picks []game.Pick) (*tableState, error) {
	n := ts.numPlayers()
	next := &tableState{
		scores:    append([]int(nil), ts.scores...),
		puddings:  append([]int(nil), ts.puddings...),
		plates:    append([]game.Plate(nil), ts.plates...),
		hands:     make([][]game.Card, n),
		turnsLeft: ts.turnsLeft - 1,
	}

	for i, pick := range picks {
		hand := append([]game.Card(nil), ts.hands[i]...)
		if pick.IsPair() && !next.plates[i].SpendChopsticks() {
			return nil, rules.ErrInvalidState
		}
		for _, c := range pick.Cards() {
			var ok bool
			if hand, ok = game.RemoveCard(hand, c); !ok {
				return nil, rules.ErrInvalidState
			}
			next.plates[i].Add(c)
			if c == game.Pudding {
				next.puddings[i]++
			}
		}
		if pick.IsPair() {
			hand = append(hand, game.Chopsticks)
		}
		next.hands[i] = hand
	}

	// Pass: each hand moves one seat along, so the root player's next
	// hand is the one the last seat just played from.
	rotated := make([][]game.Card, n)
	for i := 0; i < n; i++ {
		rotated[(i+1)%n] = next.hands[i]
	}
	next.hands = rotated

	return next, nil
}

// scoreRound evaluates the finished round from the root player's
// perspective: plate scores plus maki bonus, then pudding bonus (exact on
// the last round, probabilistic before it), then rank and the
// pudding-adjusted differentials.
func (ts *tableState) scoreRound(scorer *prob.Scorer, lastRound bool) Result {
	n := ts.numPlayers()

	rolls := make([]int, n)
	for i := range ts.plates {
		rolls[i] = ts.plates[i].MakiRolls
	}
	makiBonus := rules.MakiBonus(rolls)

	totals := make([]float64, n)
	for i := range totals {
		totals[i] = float64(ts.scores[i] + rules.ScorePlate(&ts.plates[i]) + makiBonus[i])
	}

	if lastRound {
		for i, bonus := range rules.PuddingBonus(ts.puddings) {
			totals[i] += float64(bonus)
		}
	} else {
		for i, bonus := range scorer.ScorePuddings(ts.puddings) {
			totals[i] += bonus
		}
	}

	negRank := float64(-rankOf(totals, ts.puddings, 0))

	for i := range totals {
		totals[i] += puddingTiebreakerScale * float64(ts.puddings[i])
	}

	diff := 0.0
	for i := 1; i < n; i++ {
		diff += signedSqrt(totals[0] - totals[i])
	}

	return Result{
		NegRank:           negRank,
		ScoreDifferential: diff,
		ScoreTotal:        totals[0],
	}
}

// rankOf is the competition rank of one player: 1 plus the number of
// players strictly ahead, with puddings breaking score ties.
func rankOf(totals []float64, puddings []int, player int) int {
	rank := 1
	for i := range totals {
		if i == player {
			continue
		}
		if totals[i] > totals[player] ||
			(totals[i] == totals[player] && puddings[i] > puddings[player]) {
			rank++
		}
	}
	return rank
}
