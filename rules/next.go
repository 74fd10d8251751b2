package rules

import (
	"fmt"

	"github.com/okonomi/sushigo/game"
)

// ApplyPick plays a pick from a player's hand onto their plate. A pair pick
// spends one chopsticks from the plate and returns the chopsticks card to
// the hand. The picked cards must be in the hand.
func ApplyPick(p *game.PlayerState, pick game.Pick) error {
	if pick.IsPair() {
		if len(p.Hand) < 2 {
			return fmt.Errorf("%w: chopsticks pick with %d cards in hand", ErrInvalidState, len(p.Hand))
		}
		if !p.Plate.SpendChopsticks() {
			return fmt.Errorf("%w: chopsticks pick with no chopsticks on plate", ErrInvalidState)
		}
	}

	for _, c := range pick.Cards() {
		hand, ok := game.RemoveCard(p.Hand, c)
		if !ok {
			return fmt.Errorf("%w: %v not in hand", ErrInvalidState, c)
		}
		p.Hand = hand
		p.Plate.Add(c)
		if c == game.Pudding {
			p.Puddings++
		}
	}

	if pick.IsPair() {
		p.Hand = append(p.Hand, game.Chopsticks)
	}

	p.History = append(p.History, pick)
	return nil
}

// NextStateSimultaneous advances the table by one turn: every player's pick
// is applied against the same starting state, hands rotate in the round's
// pass direction, and the turn counter drops. The input state is not
// modified.
func NextStateSimultaneous(s *game.State, picks []game.Pick) (*game.State, error) {
	if len(picks) != s.NumPlayers() {
		return nil, fmt.Errorf("%w: %d picks for %d players", ErrInvalidState, len(picks), s.NumPlayers())
	}
	if s.TurnsLeft <= 0 {
		return nil, fmt.Errorf("%w: no turns left in round", ErrInvalidState)
	}

	next := s.Clone()
	for i := range next.Players {
		if err := ApplyPick(&next.Players[i], picks[i]); err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
	}

	RotateHands(next)
	next.TurnsLeft--
	return next, nil
}

// RotateHands passes every hand one seat along the table. Passing forward,
// each player hands their cards to the next seat and receives from the
// previous one.
func RotateHands(s *game.State) {
	n := s.NumPlayers()
	if n < 2 {
		return
	}

	if s.PassForward {
		last := s.Players[n-1].Hand
		for i := n - 1; i > 0; i-- {
			s.Players[i].Hand = s.Players[i-1].Hand
		}
		s.Players[0].Hand = last
	} else {
		first := s.Players[0].Hand
		for i := 0; i < n-1; i++ {
			s.Players[i].Hand = s.Players[i+1].Hand
		}
		s.Players[n-1].Hand = first
	}
}
