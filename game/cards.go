// Package game defines the core card, plate, and table-state types for
// Sushi Go.
//
// These types represent the minimal state needed for rules evaluation and
// move selection. The state is designed to be efficiently clonable for
// recursive tree exploration.
package game

import "fmt"

// Card is one of the fixed Sushi Go card types.
// CardUnknown marks a card in an opponent's hand that has not been revealed
// to the viewing player yet.
type Card uint8

const (
	CardUnknown Card = iota
	Tempura
	Sashimi
	Dumpling
	Maki1
	Maki2
	Maki3
	EggNigiri
	SalmonNigiri
	SquidNigiri
	Pudding
	Wasabi
	Chopsticks

	numCardTypes
)

func (c Card) String() string {
	switch c {
	case Tempura:
		return "Tempura"
	case Sashimi:
		return "Sashimi"
	case Dumpling:
		return "Dumpling"
	case Maki1:
		return "1 Maki"
	case Maki2:
		return "2 Maki"
	case Maki3:
		return "3 Maki"
	case EggNigiri:
		return "Egg Nigiri"
	case SalmonNigiri:
		return "Salmon Nigiri"
	case SquidNigiri:
		return "Squid Nigiri"
	case Pudding:
		return "Pudding"
	case Wasabi:
		return "Wasabi"
	case Chopsticks:
		return "Chopsticks"
	case CardUnknown:
		return "Unknown"
	}
	return fmt.Sprintf("Card(%d)", uint8(c))
}

// IsNigiri reports whether c is one of the three nigiri cards.
func (c Card) IsNigiri() bool {
	return c == EggNigiri || c == SalmonNigiri || c == SquidNigiri
}

// IsMaki reports whether c is a maki roll card.
func (c Card) IsMaki() bool {
	return c == Maki1 || c == Maki2 || c == Maki3
}

// MakiRolls returns the number of rolls pictured on a maki card, 0 otherwise.
func (c Card) MakiRolls() int {
	switch c {
	case Maki1:
		return 1
	case Maki2:
		return 2
	case Maki3:
		return 3
	}
	return 0
}

// NigiriScore returns the base point value of a nigiri card, 0 otherwise.
func (c Card) NigiriScore() int {
	switch c {
	case EggNigiri:
		return 1
	case SalmonNigiri:
		return 2
	case SquidNigiri:
		return 3
	}
	return 0
}

// CardTypes lists every dealable card type (excludes CardUnknown).
func CardTypes() []Card {
	types := make([]Card, 0, numCardTypes-1)
	for c := Tempura; c < numCardTypes; c++ {
		types = append(types, c)
	}
	return types
}

// StandardDeck returns the standard 108-card deck distribution.
func StandardDeck() map[Card]int {
	return map[Card]int{
		Tempura:      14,
		Sashimi:      14,
		Dumpling:     14,
		Maki2:        12,
		Maki3:        8,
		Maki1:        6,
		SalmonNigiri: 10,
		SquidNigiri:  5,
		EggNigiri:    5,
		Pudding:      10,
		Wasabi:       6,
		Chopsticks:   4,
	}
}

// DeckSize returns the total number of cards in a deck distribution.
func DeckSize(dist map[Card]int) int {
	total := 0
	for _, n := range dist {
		total += n
	}
	return total
}

// CardsPerPlayer returns the hand size dealt each round for the given
// player count.
func CardsPerPlayer(numPlayers int) (int, error) {
	switch numPlayers {
	case 2:
		return 10, nil
	case 3:
		return 9, nil
	case 4:
		return 8, nil
	case 5:
		return 7, nil
	}
	return 0, fmt.Errorf("invalid number of players: %d", numPlayers)
}

// CountCard returns how many copies of card are in hand.
func CountCard(hand []Card, card Card) int {
	n := 0
	for _, c := range hand {
		if c == card {
			n++
		}
	}
	return n
}

// RemoveCard removes the first copy of card from hand, returning the
// shortened slice and whether the card was found. The input slice is
// modified in place.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			return append(hand[:i], hand[i+1:]...), true
		}
	}
	return hand, false
}
