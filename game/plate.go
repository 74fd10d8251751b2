package game

// Plate tracks the cards a player has played in the current round.
//
// Only counters are kept: every scoring rule except wasabi adjacency is
// order-independent over the multiset of played cards, and wasabi adjacency
// ("the next nigiri after an unconsumed wasabi is tripled") is folded into
// NigiriScore as cards are added. This makes plate scoring invariant to the
// order unrelated cards were played in, by construction.
type Plate struct {
	Tempura      int
	Sashimi      int
	Dumplings    int
	MakiRolls    int
	Puddings     int
	Chopsticks   int
	UnusedWasabi int

	// NigiriScore is the accumulated nigiri score with wasabi multipliers
	// already applied.
	NigiriScore int

	// Size is the total number of cards on the plate.
	Size int
}

// Add plays a card onto the plate, consuming an unused wasabi if the card
// is a nigiri.
func (p *Plate) Add(c Card) {
	p.Size++
	switch {
	case c == Tempura:
		p.Tempura++
	case c == Sashimi:
		p.Sashimi++
	case c == Dumpling:
		p.Dumplings++
	case c.IsMaki():
		p.MakiRolls += c.MakiRolls()
	case c == Pudding:
		p.Puddings++
	case c == Chopsticks:
		p.Chopsticks++
	case c == Wasabi:
		p.UnusedWasabi++
	case c.IsNigiri():
		score := c.NigiriScore()
		if p.UnusedWasabi > 0 {
			score *= 3
			p.UnusedWasabi--
		}
		p.NigiriScore += score
	}
}

// SpendChopsticks removes one unused chopsticks card from the plate,
// reporting whether one was available.
func (p *Plate) SpendChopsticks() bool {
	if p.Chopsticks == 0 {
		return false
	}
	p.Chopsticks--
	p.Size--
	return true
}

// NumSashimiNeeded returns how many more sashimi complete the next triple.
func (p Plate) NumSashimiNeeded() int {
	return 3 - p.Sashimi%3
}

// NumTempuraNeeded returns how many more tempura complete the next pair.
func (p Plate) NumTempuraNeeded() int {
	return 2 - p.Tempura%2
}
