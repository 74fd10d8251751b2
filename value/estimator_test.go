package value

import (
	"errors"
	"testing"

	"github.com/okonomi/sushigo/game"
)

func viewWith(hand []game.Card, plate game.Plate, numPlayers int) *game.View {
	others := make([]game.OpponentView, numPlayers-1)
	for i := range others {
		others[i].Hand = make([]game.Card, len(hand))
		for j := range others[i].Hand {
			others[i].Hand[j] = game.CardUnknown
		}
	}
	return &game.View{
		Name:        "me",
		Hand:        hand,
		Plate:       plate,
		Others:      others,
		Unseen:      game.StandardDeck(),
		UnseenDealt: (numPlayers - 1) * len(hand),
		TurnsLeft:   len(hand),
	}
}

func ratePick(t *testing.T, e *Estimator, v *game.View, pick game.Pick) Breakdown {
	t.Helper()
	rated, err := e.RatePicks(v)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rated {
		if r.Pick == pick {
			return r.Points
		}
	}
	t.Fatalf("pick %v not rated: %v", pick, rated)
	return Breakdown{}
}

func TestCompletingSetScoresNow(t *testing.T) {
	e := New(ScopeTunnelVision, DefaultConfig())

	var plate game.Plate
	plate.Add(game.Tempura)
	v := viewWith([]game.Card{game.Tempura, game.Pudding, game.Maki1}, plate, 4)

	points := ratePick(t, e, v, game.PickOne(game.Tempura))
	if points.PointsNow != 5 {
		t.Fatalf("completing tempura: points now=%v want 5", points.PointsNow)
	}

	plate = game.Plate{}
	plate.Add(game.Sashimi)
	plate.Add(game.Sashimi)
	v = viewWith([]game.Card{game.Sashimi, game.Pudding}, plate, 4)

	points = ratePick(t, e, v, game.PickOne(game.Sashimi))
	if points.PointsNow != 10 {
		t.Fatalf("completing sashimi: points now=%v want 10", points.PointsNow)
	}
}

func TestSixthDumplingWorthless(t *testing.T) {
	e := New(ScopeTunnelVision, DefaultConfig())

	var plate game.Plate
	for i := 0; i < 5; i++ {
		plate.Add(game.Dumpling)
	}
	v := viewWith([]game.Card{game.Dumpling, game.EggNigiri}, plate, 4)

	points := ratePick(t, e, v, game.PickOne(game.Dumpling))
	if points.OwnPoints() != 0 {
		t.Fatalf("sixth dumpling own points=%v want 0", points.OwnPoints())
	}
}

func TestWasabiMakesSquidShine(t *testing.T) {
	e := New(ScopeTunnelVision, DefaultConfig())

	var plate game.Plate
	plate.Add(game.Wasabi)
	v := viewWith([]game.Card{game.SquidNigiri, game.EggNigiri, game.Pudding, game.Tempura}, plate, 4)

	squid := ratePick(t, e, v, game.PickOne(game.SquidNigiri))
	egg := ratePick(t, e, v, game.PickOne(game.EggNigiri))

	if squid.PointsNow != 9 {
		t.Fatalf("wasabi squid points now=%v want 9", squid.PointsNow)
	}
	if egg.PointsNow != 3 {
		t.Fatalf("wasabi egg points now=%v want 3", egg.PointsNow)
	}
	// Burning the wasabi on the egg has a real cost; the squid has none.
	if egg.OpportunityCost <= 0 {
		t.Fatalf("wasabi egg opportunity cost=%v want positive", egg.OpportunityCost)
	}
	if squid.OpportunityCost != 0 {
		t.Fatalf("squid opportunity cost=%v want 0", squid.OpportunityCost)
	}
	if squid.Total() <= egg.Total() {
		t.Fatalf("squid total=%v should beat egg total=%v", squid.Total(), egg.Total())
	}
}

func TestUncompletableSetWorthless(t *testing.T) {
	e := New(ScopeTunnelVision, DefaultConfig())

	// Two cards left, empty plate: a first sashimi can never complete.
	v := viewWith([]game.Card{game.Sashimi, game.EggNigiri}, game.Plate{}, 4)

	points := ratePick(t, e, v, game.PickOne(game.Sashimi))
	if points.OwnPoints() != 0 {
		t.Fatalf("dead sashimi own points=%v want 0", points.OwnPoints())
	}
}

func TestChopsticksPairIncludesWasabiCombo(t *testing.T) {
	e := New(ScopeTunnelVision, DefaultConfig())

	var plate game.Plate
	plate.Add(game.Chopsticks)
	v := viewWith([]game.Card{game.Wasabi, game.SquidNigiri, game.Pudding, game.Tempura}, plate, 4)

	pair := ratePick(t, e, v, game.PickTwo(game.Wasabi, game.SquidNigiri))

	// The squid lands on the wasabi played alongside it: 9 now.
	if pair.PointsNow != 9 {
		t.Fatalf("wasabi+squid pair points now=%v want 9", pair.PointsNow)
	}
	if pair.OpportunityCost <= 0 {
		t.Fatalf("pair should carry the chopsticks spend cost, got %v", pair.OpportunityCost)
	}
}

func TestHandOnlySeesNoPlateSets(t *testing.T) {
	e := New(ScopeHandOnly, DefaultConfig())

	// Tunnel vision would see the pair completing; hand-only cannot.
	var plate game.Plate
	plate.Add(game.Tempura)
	v := viewWith([]game.Card{game.Tempura, game.Pudding, game.Maki2, game.EggNigiri}, plate, 4)

	points := ratePick(t, e, v, game.PickOne(game.Tempura))
	if points.PointsNow != 0 {
		t.Fatalf("hand-only tempura points now=%v want 0", points.PointsNow)
	}
}

func TestFullStateUsesSeenHands(t *testing.T) {
	e := New(ScopeFullState, DefaultConfig())

	// Round is fully known and no other sashimi is coming: starting a
	// sashimi run is worthless.
	v := &game.View{
		Name:  "me",
		Hand:  []game.Card{game.Sashimi, game.EggNigiri, game.Pudding},
		Plate: game.Plate{},
		Others: []game.OpponentView{
			{Hand: []game.Card{game.Pudding, game.Maki1, game.Tempura}},
			{Hand: []game.Card{game.Dumpling, game.Dumpling, game.EggNigiri}},
		},
		Unseen:    map[game.Card]int{},
		TurnsLeft: 3,
	}

	points := ratePick(t, e, v, game.PickOne(game.Sashimi))
	if points.FuturePoints != 0 {
		t.Fatalf("sashimi future points=%v want 0 with none left in play", points.FuturePoints)
	}
}

func TestStrictFullStateRejectsUnsupportedCards(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strict = true
	e := New(ScopeFullState, cfg)

	v := viewWith([]game.Card{game.Maki3, game.Tempura}, game.Plate{}, 3)

	_, err := e.RatePicks(v)
	if !errors.Is(err, ErrUnsupportedCardType) {
		t.Fatalf("err=%v want ErrUnsupportedCardType", err)
	}
}

func TestFullStateSupportTable(t *testing.T) {
	supported := []game.Card{game.Tempura, game.Sashimi, game.Dumpling, game.Pudding}
	for _, c := range supported {
		if !FullStateSupported(c) {
			t.Errorf("FullStateSupported(%v)=false want true", c)
		}
	}

	fallback := []game.Card{game.Maki1, game.Maki2, game.Maki3, game.Wasabi, game.Chopsticks, game.EggNigiri}
	for _, c := range fallback {
		if FullStateSupported(c) {
			t.Errorf("FullStateSupported(%v)=true want false", c)
		}
	}
}

func TestBestPicksTies(t *testing.T) {
	rated := []RatedPick{
		{Pick: game.PickOne(game.Tempura), Points: Breakdown{PointsNow: 5}},
		{Pick: game.PickOne(game.Sashimi), Points: Breakdown{PointsNow: 5}},
		{Pick: game.PickOne(game.EggNigiri), Points: Breakdown{PointsNow: 1}},
	}

	best := BestPicks(rated)
	if len(best) != 2 {
		t.Fatalf("best picks=%v want the two tied at 5", best)
	}
}

func TestBlockingRaisesContestedCards(t *testing.T) {
	e := New(ScopeTunnelVision, DefaultConfig())
	v := viewWith([]game.Card{game.SquidNigiri, game.Pudding}, game.Plate{}, 4)

	points := ratePick(t, e, v, game.PickOne(game.SquidNigiri))
	if !points.HasBlocking {
		t.Fatal("no blocking estimate attached")
	}
	if points.BlockingPerPlayer <= 0 {
		t.Fatalf("blocking per player=%v want positive", points.BlockingPerPlayer)
	}
	if points.Total() <= points.OwnPoints()-points.OpportunityCost {
		t.Fatalf("blocking should raise the total: %v", points)
	}
}
