package store

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okonomi/sushigo/agent"
	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/runner"
)

func archivedGame(t *testing.T) []runner.Turn {
	t.Helper()

	rng := rand.New(rand.NewSource(21))
	var turns []runner.Turn
	g, err := runner.New(runner.Config{
		Agents: []agent.Agent{
			agent.NewRandomPlus(rng),
			agent.NewTunnelVision(rng),
			agent.NewRandom(rng, false),
		},
		Rand:   rand.New(rand.NewSource(22)),
		OnTurn: func(tn runner.Turn) { turns = append(turns, tn) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Play(); err != nil {
		t.Fatal(err)
	}
	return turns
}

func TestParquetRoundTrip(t *testing.T) {
	turns := archivedGame(t)
	rows := GameRows("game-1", turns)
	if len(rows) != len(turns) {
		t.Fatalf("%d rows for %d turns", len(rows), len(turns))
	}

	path := filepath.Join(t.TempDir(), "games", "game-1.parquet")
	if err := WriteGameParquet(path, rows); err != nil {
		t.Fatal(err)
	}

	got, err := ReadGameParquet(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows, wrote %d", len(got), len(rows))
	}

	first := got[0]
	if first.GameID != "game-1" || first.Round != 0 || first.Turn != 0 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if len(first.Players) != 3 {
		t.Fatalf("%d players in row", len(first.Players))
	}
	for i, pick := range first.Picks() {
		if pick != turns[0].Picks[i] {
			t.Fatalf("player %d pick %v, want %v", i, pick, turns[0].Picks[i])
		}
	}
	if first.Players[0].Name != turns[0].State.Players[0].Name {
		t.Fatalf("name %q", first.Players[0].Name)
	}
}

func TestWriteBatchParquetAtomic(t *testing.T) {
	rows := GameRows("game-2", archivedGame(t))

	dir := t.TempDir()
	path, err := WriteBatchParquetAtomic(dir, rows)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("batch landed in %s, want %s", filepath.Dir(path), dir)
	}
	if !strings.HasSuffix(path, ".parquet") {
		t.Fatalf("unexpected name %s", path)
	}
	if _, err := ReadGameParquet(path); err != nil {
		t.Fatal(err)
	}
}

func TestRowCardValuesSurviveConversion(t *testing.T) {
	rows := GameRows("game-3", archivedGame(t))
	last := rows[len(rows)-1]
	for _, p := range last.Players {
		if len(p.Hand) != 0 {
			t.Fatalf("cards left in hand after final turn: %v", p.Hand)
		}
		if game.Card(p.PickFirst) == game.CardUnknown {
			t.Fatal("pick recorded as unknown")
		}
	}
}

func TestRatingsDB(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "ratings.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ratings, err := db.Ratings([]string{"a", "b"}, 1500)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range ratings {
		if r.Rating != 1500 || r.Games != 0 {
			t.Fatalf("fresh agent %+v", r)
		}
	}

	ratings[0].Rating = 1550
	ratings[0].Games = 10
	ratings[0].Wins = 7
	ratings[1].Rating = 1450
	ratings[1].Games = 10
	if err := db.UpsertRatings(ratings); err != nil {
		t.Fatal(err)
	}

	// Upsert again to exercise the conflict path.
	ratings[1].Rating = 1460
	if err := db.UpsertRatings(ratings[1:]); err != nil {
		t.Fatal(err)
	}

	standings, err := db.Standings()
	if err != nil {
		t.Fatal(err)
	}
	if len(standings) != 2 || standings[0].Agent != "a" || standings[1].Rating != 1460 {
		t.Fatalf("standings %+v", standings)
	}

	if err := db.RecordGame(GameRecord{ID: "g1", Players: 3, Rounds: 3, Winner: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordGame(GameRecord{ID: "g1", Players: 3, Rounds: 3, Winner: "a"}); err != nil {
		t.Fatal(err)
	}
	games, agents, err := db.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if games != 1 || agents != 2 {
		t.Fatalf("stats games=%d agents=%d", games, agents)
	}
}
