// Package value estimates how many points a pick is worth right now: the
// points it scores immediately, the average future points it sets up, the
// relative damage denying it does to the other players, and the opportunity
// cost of the alternatives it consumes.
//
// The estimate runs at one of three information scopes. ScopeHandOnly sees
// the hand and nothing else, ScopeTunnelVision adds the player's own plate,
// and ScopeFullState adds the known hands and the unseen deck distribution.
// All three share the same per-card formulas; the scope only controls which
// inputs feed them.
package value

import (
	"fmt"
	"strings"
)

// DefaultBlockingScale discounts blocking points relative to own points.
// Blocking value is far more speculative than own value: the estimate is
// against the average opponent, not the one actually being denied, and we
// cannot know they wanted the card at all.
const DefaultBlockingScale = 0.25

// Breakdown decomposes a pick's estimated value. Total combines the parts
// using the scales stamped on by the estimator.
type Breakdown struct {
	// PointsNow are points banked immediately by this pick.
	PointsNow float64

	// FuturePoints is the average of the points this pick sets up.
	FuturePoints float64

	// BlockingPerPlayer is the value denied to whichever single opponent
	// wanted this card; HasBlocking distinguishes "zero" from "not
	// estimated".
	BlockingPerPlayer float64
	HasBlocking       bool

	// OpportunityCost is the average value given up elsewhere by this
	// pick (a wasabi consumed on a low nigiri, a chopsticks spent early).
	OpportunityCost float64

	NumOtherPlayers  int
	BlockingScale    float64
	OpportunityScale float64
}

// OwnPoints is the pick's value to the player alone, before blocking and
// opportunity cost.
func (b Breakdown) OwnPoints() float64 {
	return b.PointsNow + b.FuturePoints
}

// Total is the number picks get ranked by.
func (b Breakdown) Total() float64 {
	total := b.OwnPoints() - b.OpportunityScale*b.OpportunityCost
	if b.HasBlocking && b.NumOtherPlayers > 0 {
		total += b.BlockingScale * b.BlockingPerPlayer / float64(b.NumOtherPlayers)
	}
	return total
}

// Add combines the breakdowns of two cards picked together.
func (b Breakdown) Add(other Breakdown) Breakdown {
	sum := Breakdown{
		PointsNow:         b.PointsNow + other.PointsNow,
		FuturePoints:      b.FuturePoints + other.FuturePoints,
		BlockingPerPlayer: b.BlockingPerPlayer + other.BlockingPerPlayer,
		HasBlocking:       b.HasBlocking || other.HasBlocking,
		OpportunityCost:   b.OpportunityCost + other.OpportunityCost,
		NumOtherPlayers:   b.NumOtherPlayers,
		BlockingScale:     b.BlockingScale,
		OpportunityScale:  b.OpportunityScale,
	}
	if sum.NumOtherPlayers == 0 {
		sum.NumOtherPlayers = other.NumOtherPlayers
	}
	return sum
}

func (b Breakdown) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.2f =", b.Total())

	wrote := false
	if b.PointsNow != 0 {
		fmt.Fprintf(&sb, " (%g now)", b.PointsNow)
		wrote = true
	}
	if b.FuturePoints != 0 {
		if wrote {
			sb.WriteString(" +")
		}
		fmt.Fprintf(&sb, " (%.2f future)", b.FuturePoints)
		wrote = true
	}
	if b.HasBlocking && b.BlockingPerPlayer != 0 {
		if wrote {
			sb.WriteString(" +")
		}
		fmt.Fprintf(&sb, " %.2g*(%.2f blocking)/%d", b.BlockingScale, b.BlockingPerPlayer, b.NumOtherPlayers)
		wrote = true
	}
	if b.OpportunityCost != 0 {
		fmt.Fprintf(&sb, " - %.2g*(%.2f opportunity)", b.OpportunityScale, b.OpportunityCost)
		wrote = true
	}
	if !wrote {
		sb.WriteString(" (nothing)")
	}
	return sb.String()
}
