package game

import "fmt"

// Pick is one turn's play for a single player: one card from the hand, or
// two cards by spending an unused Chopsticks card from the plate. When two
// cards are played, the chopsticks card returns to the hand and travels on
// with it when hands pass.
//
// Second is CardUnknown for a single-card pick. Order matters for pairs:
// First is placed on the plate first, which is significant for
// wasabi-then-nigiri pairs.
type Pick struct {
	First  Card
	Second Card
}

// PickOne returns a single-card pick.
func PickOne(c Card) Pick {
	return Pick{First: c}
}

// PickTwo returns a chopsticks pick playing a then b, in that order.
func PickTwo(a, b Card) Pick {
	return Pick{First: a, Second: b}
}

// IsPair reports whether this pick spends chopsticks to play two cards.
func (p Pick) IsPair() bool {
	return p.Second != CardUnknown
}

// Size returns the number of cards this pick removes from the hand.
func (p Pick) Size() int {
	if p.IsPair() {
		return 2
	}
	return 1
}

// Cards returns the picked cards in play order.
func (p Pick) Cards() []Card {
	if p.IsPair() {
		return []Card{p.First, p.Second}
	}
	return []Card{p.First}
}

func (p Pick) String() string {
	if p.IsPair() {
		return fmt.Sprintf("[%s + %s]", p.First, p.Second)
	}
	return p.First.String()
}
