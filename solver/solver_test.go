package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/rules"
)

// knownView builds a fully-revealed last-round position with no deck left.
func knownView(myHand []game.Card, otherHands ...[]game.Card) *game.View {
	others := make([]game.OpponentView, len(otherHands))
	for i, hand := range otherHands {
		others[i] = game.OpponentView{
			Name: "opp",
			Hand: append([]game.Card(nil), hand...),
		}
	}
	return &game.View{
		Name:      "me",
		Hand:      append([]game.Card(nil), myHand...),
		Others:    others,
		Unseen:    map[game.Card]int{},
		TurnsLeft: len(myHand),
		LastRound: true,
	}
}

func TestBestPickEmptyHand(t *testing.T) {
	v := knownView(nil, []game.Card{game.Tempura})
	_, err := BestPick(context.Background(), v, Config{})
	if !errors.Is(err, rules.ErrInvalidState) {
		t.Fatalf("err=%v want rules.ErrInvalidState", err)
	}
}

func TestBestPickUnknownCards(t *testing.T) {
	v := knownView(
		[]game.Card{game.Tempura, game.Sashimi},
		[]game.Card{game.CardUnknown, game.CardUnknown},
	)
	v.Unseen = map[game.Card]int{game.Pudding: 2}
	v.UnseenDealt = 2

	_, err := BestPick(context.Background(), v, Config{})
	if !errors.Is(err, ErrInsufficientInformation) {
		t.Fatalf("err=%v want ErrInsufficientInformation", err)
	}
}

func TestBestPickForcedMoves(t *testing.T) {
	t.Run("single card", func(t *testing.T) {
		v := knownView([]game.Card{game.Pudding}, []game.Card{game.Tempura})
		pick, err := BestPick(context.Background(), v, Config{})
		if err != nil {
			t.Fatal(err)
		}
		if pick != game.PickOne(game.Pudding) {
			t.Fatalf("pick=%v want the only card", pick)
		}
	})

	t.Run("uniform hand", func(t *testing.T) {
		v := knownView(
			[]game.Card{game.Dumpling, game.Dumpling, game.Dumpling},
			[]game.Card{game.Tempura, game.Sashimi, game.EggNigiri},
		)
		pick, err := BestPick(context.Background(), v, Config{})
		if err != nil {
			t.Fatal(err)
		}
		if pick != game.PickOne(game.Dumpling) {
			t.Fatalf("pick=%v want dumpling", pick)
		}
	})
}

func TestBestPickNodeBudget(t *testing.T) {
	v := knownView(
		[]game.Card{game.SquidNigiri, game.Pudding, game.Tempura},
		[]game.Card{game.EggNigiri, game.Maki1, game.Dumpling},
	)

	_, err := BestPick(context.Background(), v, Config{MaxNodes: 1})
	if !errors.Is(err, ErrSearchTooLarge) {
		t.Fatalf("err=%v want ErrSearchTooLarge", err)
	}
}

func TestBestPickTempuraOverDeadSashimi(t *testing.T) {
	// Two turns remain: a tempura pair is 5 points, a first sashimi can
	// never become a triple.
	v := knownView(
		[]game.Card{game.Tempura, game.Tempura, game.Sashimi},
		[]game.Card{game.EggNigiri, game.Maki1, game.Pudding},
	)
	v.TurnsLeft = 2

	pick, err := BestPick(context.Background(), v, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if pick != game.PickOne(game.Tempura) {
		t.Fatalf("pick=%v want tempura", pick)
	}
}

func TestBestPickKeepsSquidFromOpponent(t *testing.T) {
	// Whatever I don't play passes across the table. Playing the squid
	// banks 3 points and hands over only a 1-roll maki.
	v := knownView(
		[]game.Card{game.SquidNigiri, game.Maki1},
		[]game.Card{game.EggNigiri, game.Maki2},
	)

	pick, err := BestPick(context.Background(), v, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if pick != game.PickOne(game.SquidNigiri) {
		t.Fatalf("pick=%v want squid", pick)
	}
}

func TestBestPickUsesChopsticks(t *testing.T) {
	// With chopsticks down, pairing both tempura banks the 5 points now;
	// playing them one at a time loses the second tempura to the pass.
	v := knownView(
		[]game.Card{game.Tempura, game.Tempura},
		[]game.Card{game.EggNigiri, game.Maki1},
	)
	v.Plate.Add(game.Chopsticks)

	pick, err := BestPick(context.Background(), v, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if pick != game.PickTwo(game.Tempura, game.Tempura) {
		t.Fatalf("pick=%v want the tempura pair", pick)
	}
}

func TestBestPickThreePlayers(t *testing.T) {
	v := knownView(
		[]game.Card{game.SquidNigiri, game.Pudding},
		[]game.Card{game.EggNigiri, game.Maki1},
		[]game.Card{game.Dumpling, game.Tempura},
	)

	pick, err := BestPick(context.Background(), v, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if game.CountCard(v.Hand, pick.First) == 0 {
		t.Fatalf("pick=%v not from hand %v", pick, v.Hand)
	}
}

func TestBestPickConsolidations(t *testing.T) {
	for _, how := range []Consolidation{ConsolidateAverage, ConsolidateWorst, ConsolidateBest} {
		t.Run(how.String(), func(t *testing.T) {
			v := knownView(
				[]game.Card{game.SquidNigiri, game.Maki1, game.Dumpling},
				[]game.Card{game.EggNigiri, game.Maki2, game.Pudding},
			)
			pick, err := BestPick(context.Background(), v, Config{Consolidation: how})
			if err != nil {
				t.Fatal(err)
			}
			if game.CountCard(v.Hand, pick.First) == 0 {
				t.Fatalf("pick=%v not from hand %v", pick, v.Hand)
			}
		})
	}
}

func TestTableStateRotation(t *testing.T) {
	v := knownView(
		[]game.Card{game.Tempura, game.Maki1},
		[]game.Card{game.Sashimi, game.Maki2},
		[]game.Card{game.Dumpling, game.Maki3},
	)

	ts := newTableState(v)
	next, err := ts.withPicks([]game.Pick{
		game.PickOne(game.Tempura),
		game.PickOne(game.Sashimi),
		game.PickOne(game.Dumpling),
	})
	if err != nil {
		t.Fatal(err)
	}

	// My leftover maki1 goes to seat 1; seat 2's maki3 arrives here.
	if next.hands[0][0] != game.Maki3 {
		t.Fatalf("hands[0]=%v want [3 Maki]", next.hands[0])
	}
	if next.hands[1][0] != game.Maki1 {
		t.Fatalf("hands[1]=%v want [1 Maki]", next.hands[1])
	}
	if next.hands[2][0] != game.Maki2 {
		t.Fatalf("hands[2]=%v want [2 Maki]", next.hands[2])
	}
	if next.turnsLeft != 1 {
		t.Fatalf("turnsLeft=%d want 1", next.turnsLeft)
	}
}

func TestScoreRoundRanks(t *testing.T) {
	v := knownView(
		[]game.Card{game.SquidNigiri},
		[]game.Card{game.EggNigiri},
	)
	ts := newTableState(v)
	ts.plates[0].Add(game.SquidNigiri)
	ts.plates[1].Add(game.EggNigiri)
	ts.hands[0] = nil
	ts.hands[1] = nil
	ts.turnsLeft = 0

	res := ts.scoreRound(nil, true)
	if res.NegRank != -1 {
		t.Fatalf("neg rank=%v want -1", res.NegRank)
	}
	if res.ScoreDifferential <= 0 {
		t.Fatalf("score differential=%v want positive", res.ScoreDifferential)
	}
}

func TestBestPickGuardsLeadFourPlayers(t *testing.T) {
	// The squid is worth more points outright, but playing it passes the
	// pudding away and leaves the leading seat with the solo +6 pudding
	// bonus and first place. Taking the pudding ties the bonus instead
	// and keeps the win.
	v := knownView(
		[]game.Card{game.Pudding, game.SquidNigiri},
		[]game.Card{game.EggNigiri, game.EggNigiri},
		[]game.Card{game.EggNigiri, game.EggNigiri},
		[]game.Card{game.EggNigiri, game.EggNigiri},
	)
	v.Score = 11
	v.Puddings = 1
	v.Others[1].Score = 8
	v.Others[1].Puddings = 2

	pick, err := BestPick(context.Background(), v, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if pick != game.PickOne(game.Pudding) {
		t.Fatalf("pick=%v want the pudding", pick)
	}
}
