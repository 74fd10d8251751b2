package game

// OpponentView is what the viewing player knows about one other seat.
// Hand entries are CardUnknown until the hand has cycled through the
// viewing player (or omniscient mode reveals everything).
type OpponentView struct {
	Name     string
	Hand     []Card
	Plate    Plate
	Score    int
	Puddings int
}

// View is the information scope handed to an agent for one decision: the
// agent's own hand and plate (always fully known), the other seats in hand
// pass order (Others[0] is the seat this player's hand passes to next;
// Others[len-1] is the seat whose hand arrives here next turn), and the
// distribution of cards the viewing player has not seen.
//
// Unseen covers both the undealt draw deck and the CardUnknown entries in
// opponents' hands; UnseenDealt is how many of the unseen cards are dealt
// into hands this round.
type View struct {
	Name     string
	Hand     []Card
	Plate    Plate
	Score    int
	Puddings int

	Others []OpponentView

	Unseen      map[Card]int
	UnseenDealt int

	TurnsLeft      int
	LastRound      bool
	CardsPerRound  int
	DeckRemaining  int
	CardsToBeDealt int
}

// NumPlayers returns the total seat count including the viewing player.
func (v *View) NumPlayers() int {
	return 1 + len(v.Others)
}

// HasUnknownCards reports whether any card in this round's hands is still
// hidden from the viewing player.
func (v *View) HasUnknownCards() bool {
	return v.UnseenDealt > 0
}

// Hands returns every hand in rotation order: the viewing player's own hand
// first, then the others'. The slices are shared with the view, not copied.
func (v *View) Hands() [][]Card {
	hands := make([][]Card, 0, 1+len(v.Others))
	hands = append(hands, v.Hand)
	for i := range v.Others {
		hands = append(hands, v.Others[i].Hand)
	}
	return hands
}

// Clone performs a deep copy of the view.
func (v *View) Clone() *View {
	if v == nil {
		return nil
	}

	out := &View{
		Name:           v.Name,
		Plate:          v.Plate,
		Score:          v.Score,
		Puddings:       v.Puddings,
		UnseenDealt:    v.UnseenDealt,
		TurnsLeft:      v.TurnsLeft,
		LastRound:      v.LastRound,
		CardsPerRound:  v.CardsPerRound,
		DeckRemaining:  v.DeckRemaining,
		CardsToBeDealt: v.CardsToBeDealt,
	}

	if len(v.Hand) > 0 {
		out.Hand = make([]Card, len(v.Hand))
		copy(out.Hand, v.Hand)
	}

	if len(v.Others) > 0 {
		out.Others = make([]OpponentView, len(v.Others))
		for i := range v.Others {
			o := &v.Others[i]
			out.Others[i] = OpponentView{
				Name:     o.Name,
				Plate:    o.Plate,
				Score:    o.Score,
				Puddings: o.Puddings,
			}
			if len(o.Hand) > 0 {
				out.Others[i].Hand = make([]Card, len(o.Hand))
				copy(out.Others[i].Hand, o.Hand)
			}
		}
	}

	if v.Unseen != nil {
		out.Unseen = make(map[Card]int, len(v.Unseen))
		for c, n := range v.Unseen {
			out.Unseen[c] = n
		}
	}

	return out
}
