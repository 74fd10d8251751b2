package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/solver"
)

// Recursive plays the exhaustive end-of-round search. It requires full
// knowledge of every hand: against hidden cards Pick returns
// solver.ErrInsufficientInformation, so it only works in omniscient
// games or behind a LaterRecursive gate.
type Recursive struct {
	cfg solver.Config
}

func NewRecursive(how solver.Consolidation) *Recursive {
	return &Recursive{cfg: solver.Config{Consolidation: how}}
}

func (a *Recursive) Name() string {
	return fmt.Sprintf("Recursive(%s)", a.cfg.Consolidation)
}

func (a *Recursive) Pick(v *game.View) (game.Pick, error) {
	return solver.BestPick(context.Background(), v, a.cfg)
}

// DefaultMaxRecursiveHandSize keeps the unpruned tree affordable: at
// three cards the search is cheap for any table size.
const DefaultMaxRecursiveHandSize = 3

// LaterRecursive delegates to a fallback agent until the position is
// small and fully known, then switches to the exhaustive search. The
// endgame is where exact play pays; early turns are too wide and still
// partly hidden.
type LaterRecursive struct {
	fallback    Agent
	maxHandSize int
	cfg         solver.Config
}

func NewLaterRecursive(fallback Agent, how solver.Consolidation) *LaterRecursive {
	return &LaterRecursive{
		fallback:    fallback,
		maxHandSize: DefaultMaxRecursiveHandSize,
		cfg:         solver.Config{Consolidation: how},
	}
}

// WithMaxHandSize adjusts the hand size below which the search kicks in.
func (a *LaterRecursive) WithMaxHandSize(n int) *LaterRecursive {
	a.maxHandSize = n
	return a
}

func (a *LaterRecursive) Name() string {
	return fmt.Sprintf("LaterRecursive(%s, %s)", a.cfg.Consolidation, a.fallback.Name())
}

func (a *LaterRecursive) Pick(v *game.View) (game.Pick, error) {
	if len(v.Hand) > a.maxHandSize || v.HasUnknownCards() {
		return a.fallback.Pick(v)
	}
	pick, err := solver.BestPick(context.Background(), v, a.cfg)
	if errors.Is(err, solver.ErrSearchTooLarge) {
		return a.fallback.Pick(v)
	}
	return pick, err
}
