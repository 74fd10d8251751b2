package runner

import (
	"fmt"

	"github.com/okonomi/sushigo/game"
)

// knowledge is what one seat has learned so far: the distribution of
// cards it has never seen, and its model of every other hand at the
// table. A hand's cards become known when the hand cycles through this
// seat, or sooner, one at a time, as they are played.
type knowledge struct {
	seat        int
	unseen      map[game.Card]int
	unseenDealt int

	// others holds the tracked hands in pass order: others[0] is the
	// seat this player's hand goes to next, others[len-1] the seat whose
	// hand arrives here. Unrevealed slots are CardUnknown.
	others [][]game.Card
}

func newKnowledge(seat int, deck map[game.Card]int) *knowledge {
	unseen := make(map[game.Card]int, len(deck))
	for c, n := range deck {
		unseen[c] = n
	}
	return &knowledge{seat: seat, unseen: unseen}
}

// otherSeat maps a pass-order index to a table seat for the current
// round's direction.
func (k *knowledge) otherSeat(s *game.State, idx int) int {
	n := s.NumPlayers()
	if s.PassForward {
		return (k.seat + idx + 1) % n
	}
	return (k.seat - idx - 1 + n) % n
}

// startRound records the viewer's own dealt hand and, in an omniscient
// game, everyone else's. Otherwise the other hands start fully hidden.
func (k *knowledge) startRound(s *game.State, omniscient bool) {
	n := s.NumPlayers()

	for _, c := range s.Players[k.seat].Hand {
		k.unseen[c]--
	}

	k.others = make([][]game.Card, n-1)
	for idx := range k.others {
		hand := s.Players[k.otherSeat(s, idx)].Hand
		if omniscient {
			k.others[idx] = append([]game.Card(nil), hand...)
			for _, c := range hand {
				k.unseen[c]--
			}
		} else {
			k.others[idx] = make([]game.Card, len(hand))
			k.unseenDealt += len(hand)
		}
	}
}

// observe updates the tracked hands with this turn's plays, before the
// pass. Every pick is public; a card played from a slot we had not seen
// yet is revealed by being played. picks is indexed by table seat.
func (k *knowledge) observe(s *game.State, picks []game.Pick) error {
	for idx := range k.others {
		seat := k.otherSeat(s, idx)
		for _, c := range picks[seat].Cards() {
			if hand, ok := game.RemoveCard(k.others[idx], c); ok {
				k.others[idx] = hand
				continue
			}
			hand, ok := game.RemoveCard(k.others[idx], game.CardUnknown)
			if !ok {
				return fmt.Errorf("seat %d played %v not in tracked hand", seat, c)
			}
			k.others[idx] = hand
			k.reveal(c, 1)
		}
		if picks[seat].IsPair() {
			k.others[idx] = append(k.others[idx], game.Chopsticks)
		}
	}
	return nil
}

// rotate shifts the hand models one seat along after the pass. outgoing
// is the viewer's own hand as it was passed; received is the hand that
// actually arrived, which settles any slots still tracked as unknown.
func (k *knowledge) rotate(outgoing, received []game.Card) error {
	last := len(k.others) - 1
	expected := k.others[last]
	for idx := last; idx > 0; idx-- {
		k.others[idx] = k.others[idx-1]
	}
	k.others[0] = append([]game.Card(nil), outgoing...)

	if len(expected) != len(received) {
		return fmt.Errorf("received hand of %d cards, expected %d", len(received), len(expected))
	}

	newlySeen := make(map[game.Card]int, len(received))
	for _, c := range received {
		newlySeen[c]++
	}
	for _, c := range expected {
		if c == game.CardUnknown {
			continue
		}
		if newlySeen[c] == 0 {
			return fmt.Errorf("received hand missing expected %v", c)
		}
		newlySeen[c]--
	}
	for c, n := range newlySeen {
		if n > 0 {
			k.reveal(c, n)
		}
	}
	return nil
}

func (k *knowledge) reveal(c game.Card, n int) {
	k.unseen[c] -= n
	k.unseenDealt -= n
}

// view assembles the agent-facing snapshot for the current turn.
func (k *knowledge) view(s *game.State, cardsPerRound int) *game.View {
	me := &s.Players[k.seat]

	v := &game.View{
		Name:          me.Name,
		Hand:          append([]game.Card(nil), me.Hand...),
		Plate:         me.Plate,
		Score:         me.Score,
		Puddings:      me.Puddings,
		UnseenDealt:   k.unseenDealt,
		TurnsLeft:     s.TurnsLeft,
		LastRound:     s.LastRound(),
		CardsPerRound: cardsPerRound,
	}

	v.Unseen = make(map[game.Card]int, len(k.unseen))
	total := 0
	for c, n := range k.unseen {
		if n > 0 {
			v.Unseen[c] = n
			total += n
		}
	}
	v.DeckRemaining = total - k.unseenDealt
	v.CardsToBeDealt = (s.Rounds - s.Round - 1) * s.NumPlayers() * cardsPerRound

	for idx := range k.others {
		o := &s.Players[k.otherSeat(s, idx)]
		v.Others = append(v.Others, game.OpponentView{
			Name:     o.Name,
			Hand:     append([]game.Card(nil), k.others[idx]...),
			Plate:    o.Plate,
			Score:    o.Score,
			Puddings: o.Puddings,
		})
	}
	return v
}
