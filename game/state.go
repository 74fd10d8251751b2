package game

// PlayerState is one seat at the table: the hand currently held, the plate
// played so far this round, and cumulative totals.
//
// Puddings counts every pudding played across the whole game (the plate's
// pudding counter only covers the current round).
type PlayerState struct {
	Name     string
	Hand     []Card
	Plate    Plate
	Score    int
	Puddings int

	// History records the picks played this round, in order. It is public
	// information: every player at the table sees what was played.
	History []Pick
}

// State is the complete table state: every seat, plus round bookkeeping.
// It is the full-information snapshot owned by the game-loop driver;
// agents receive a View scoped to what they are allowed to know.
type State struct {
	Players []PlayerState

	// TurnsLeft is the number of turns remaining in the current round.
	// It normally equals the hand size, but a round can be cut short.
	TurnsLeft int

	// Round is the zero-based round index; Rounds is the total.
	Round  int
	Rounds int

	// PassForward is the hand rotation direction for this round.
	PassForward bool
}

// NumPlayers returns the seat count.
func (s *State) NumPlayers() int {
	return len(s.Players)
}

// LastRound reports whether the current round is the final one.
func (s *State) LastRound() bool {
	return s.Round >= s.Rounds-1
}

// Clone performs a deep copy of the table state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := &State{
		TurnsLeft:   s.TurnsLeft,
		Round:       s.Round,
		Rounds:      s.Rounds,
		PassForward: s.PassForward,
	}

	if len(s.Players) > 0 {
		out.Players = make([]PlayerState, len(s.Players))
		for i := range s.Players {
			p := &s.Players[i]
			out.Players[i] = PlayerState{
				Name:     p.Name,
				Plate:    p.Plate,
				Score:    p.Score,
				Puddings: p.Puddings,
			}
			if len(p.Hand) > 0 {
				out.Players[i].Hand = make([]Card, len(p.Hand))
				copy(out.Players[i].Hand, p.Hand)
			}
			if len(p.History) > 0 {
				out.Players[i].History = make([]Pick, len(p.History))
				copy(out.Players[i].History, p.History)
			}
		}
	}

	return out
}

// CardsInPlay counts every card in hands and on plates. Together with the
// draw deck it must always equal the deck size for the player count.
func (s *State) CardsInPlay() int {
	total := 0
	for i := range s.Players {
		total += len(s.Players[i].Hand) + s.Players[i].Plate.Size
	}
	return total
}
