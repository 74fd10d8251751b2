package game

import "testing"

func TestStandardDeckSize(t *testing.T) {
	if got := DeckSize(StandardDeck()); got != 108 {
		t.Fatalf("deck size=%d want=108", got)
	}
}

func TestCardsPerPlayer(t *testing.T) {
	cases := map[int]int{2: 10, 3: 9, 4: 8, 5: 7}
	for players, want := range cases {
		got, err := CardsPerPlayer(players)
		if err != nil {
			t.Fatalf("CardsPerPlayer(%d): %v", players, err)
		}
		if got != want {
			t.Fatalf("CardsPerPlayer(%d)=%d want=%d", players, got, want)
		}
	}

	if _, err := CardsPerPlayer(6); err == nil {
		t.Fatal("expected error for 6 players")
	}
	if _, err := CardsPerPlayer(1); err == nil {
		t.Fatal("expected error for 1 player")
	}
}

func TestPlateWasabiConsumption(t *testing.T) {
	var p Plate
	p.Add(Wasabi)
	p.Add(SquidNigiri) // tripled: 9
	p.Add(EggNigiri)   // plain: 1

	if p.UnusedWasabi != 0 {
		t.Fatalf("unused wasabi=%d want=0", p.UnusedWasabi)
	}
	if p.NigiriScore != 10 {
		t.Fatalf("nigiri score=%d want=10", p.NigiriScore)
	}
}

func TestPlateSetCounters(t *testing.T) {
	var p Plate
	for _, c := range []Card{Tempura, Sashimi, Sashimi, Maki3, Maki1, Dumpling, Pudding, Chopsticks} {
		p.Add(c)
	}

	if p.NumTempuraNeeded() != 1 {
		t.Fatalf("tempura needed=%d want=1", p.NumTempuraNeeded())
	}
	if p.NumSashimiNeeded() != 1 {
		t.Fatalf("sashimi needed=%d want=1", p.NumSashimiNeeded())
	}
	if p.MakiRolls != 4 {
		t.Fatalf("maki rolls=%d want=4", p.MakiRolls)
	}
	if p.Size != 8 {
		t.Fatalf("size=%d want=8", p.Size)
	}
}

func TestStateCloneIsDeep(t *testing.T) {
	s := &State{
		Players: []PlayerState{
			{Name: "a", Hand: []Card{Tempura, Sashimi}, History: []Pick{PickOne(Pudding)}},
			{Name: "b", Hand: []Card{Wasabi}},
		},
		TurnsLeft: 2,
		Rounds:    3,
	}

	c := s.Clone()
	c.Players[0].Hand[0] = Dumpling
	c.Players[0].History[0] = PickOne(Chopsticks)

	if s.Players[0].Hand[0] != Tempura {
		t.Fatal("clone shares hand slice with original")
	}
	if s.Players[0].History[0].First != Pudding {
		t.Fatal("clone shares history slice with original")
	}
}

func TestPickCards(t *testing.T) {
	single := PickOne(Sashimi)
	if single.IsPair() || single.Size() != 1 {
		t.Fatalf("single pick misreported: %v", single)
	}

	pair := PickTwo(Wasabi, SquidNigiri)
	if !pair.IsPair() || pair.Size() != 2 {
		t.Fatalf("pair pick misreported: %v", pair)
	}
	cards := pair.Cards()
	if cards[0] != Wasabi || cards[1] != SquidNigiri {
		t.Fatalf("pair order not preserved: %v", cards)
	}
}
