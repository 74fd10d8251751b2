package main

import (
	"reflect"
	"testing"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/runner"
)

func TestAsTurnPlayers(t *testing.T) {
	raw := []any{
		map[string]any{
			"name":          "Alice",
			"pick_first":    int32(game.SquidNigiri),
			"pick_second":   int32(-1),
			"hand":          []any{int32(game.Tempura), int32(game.Pudding)},
			"tempura":       int32(1),
			"sashimi":       int32(0),
			"dumplings":     int32(2),
			"maki_rolls":    int32(3),
			"nigiri_score":  int32(9),
			"unused_wasabi": int32(1),
			"chopsticks":    int32(0),
			"score":         int32(12),
			"puddings":      int32(1),
		},
		map[string]any{
			"name":        "Bob",
			"pick_first":  int32(game.Tempura),
			"pick_second": int32(game.Tempura),
			"hand":        []any{},
		},
	}

	players := asTurnPlayers(raw)
	if len(players) != 2 {
		t.Fatalf("decoded %d players, want 2", len(players))
	}

	alice := players[0]
	if alice.Name != "Alice" || alice.Dumplings != 2 || alice.Score != 12 {
		t.Errorf("alice decoded wrong: %+v", alice)
	}
	if !reflect.DeepEqual(alice.Pick, []string{game.SquidNigiri.String()}) {
		t.Errorf("alice pick = %v", alice.Pick)
	}
	if !reflect.DeepEqual(alice.Hand, []string{game.Tempura.String(), game.Pudding.String()}) {
		t.Errorf("alice hand = %v", alice.Hand)
	}

	if len(players[1].Pick) != 2 {
		t.Errorf("bob's pair decoded as %v", players[1].Pick)
	}
}

func TestAsTurnPlayersMalformed(t *testing.T) {
	if got := asTurnPlayers(nil); got != nil {
		t.Errorf("nil column decoded to %v", got)
	}
	if got := asTurnPlayers("nonsense"); got != nil {
		t.Errorf("string column decoded to %v", got)
	}
	if got := asTurnPlayers([]any{"not a struct"}); len(got) != 0 {
		t.Errorf("bad row decoded to %v", got)
	}
}

func TestFillOutcomeFinishesScoring(t *testing.T) {
	// Archive rows snapshot before end-of-round scoring, so the final
	// round's plates and bonuses must be added here. Alice's tempura
	// pair and maki lead put her ahead despite the lower stored score.
	final := []TurnPlayer{
		{Name: "Alice", Score: 10, Tempura: 2, MakiRolls: 5, Puddings: 2},
		{Name: "Bob", Score: 12, MakiRolls: 1, Puddings: 0},
	}

	var g GameSummary
	fillOutcome(&g, final)

	// Alice: 10 + 5 (tempura) + 6 (maki) + 6 (pudding) = 27.
	// Bob: 12 + 3 (maki second) = 15; no pudding penalty at two players.
	if !reflect.DeepEqual(g.Scores, []int{27, 15}) {
		t.Errorf("scores = %v", g.Scores)
	}
	if g.Winner != "Alice" {
		t.Errorf("winner = %q", g.Winner)
	}
	if !reflect.DeepEqual(g.Players, []string{"Alice", "Bob"}) {
		t.Errorf("players = %v", g.Players)
	}
}

func TestRelativeToRoots(t *testing.T) {
	roots := []string{"/data/archives", "other"}
	if got := relativeToRoots("/data/archives/batch_1.parquet", roots); got != "batch_1.parquet" {
		t.Errorf("got %q", got)
	}
	if got := relativeToRoots("/elsewhere/x.parquet", roots); got != "/elsewhere/x.parquet" {
		t.Errorf("got %q", got)
	}
}

func TestLiveTurnMirrorsState(t *testing.T) {
	state := &game.State{
		Players: []game.PlayerState{
			{
				Name:  "Alice",
				Hand:  []game.Card{game.SquidNigiri},
				Plate: game.Plate{Dumplings: 1},
				Score: 7,
			},
			{Name: "Bob", Hand: []game.Card{game.EggNigiri}},
		},
		PassForward: true,
		Round:       1,
	}
	snap := runner.Turn{
		Round: 1,
		Turn:  3,
		Picks: []game.Pick{game.PickOne(game.Dumpling), game.PickTwo(game.Tempura, game.Tempura)},
		State: state,
	}

	got := liveTurn(snap)
	if got.Round != 1 || got.Turn != 3 || !got.PassForward {
		t.Errorf("header wrong: %+v", got)
	}
	if got.Players[0].Score != 7 || got.Players[0].Dumplings != 1 {
		t.Errorf("alice wrong: %+v", got.Players[0])
	}
	if len(got.Players[1].Pick) != 2 {
		t.Errorf("bob pick = %v", got.Players[1].Pick)
	}
}
