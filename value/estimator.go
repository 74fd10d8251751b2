package value

import (
	"errors"
	"fmt"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/prob"
	"github.com/okonomi/sushigo/rules"
)

// ErrUnsupportedCardType is returned in strict mode when a card has no
// full-state formula and would silently fall back to the tunnel-vision
// estimate.
var ErrUnsupportedCardType = errors.New("no full-state value formula for card type")

// Scope selects how much of the table an estimate is allowed to look at.
type Scope int

const (
	// ScopeHandOnly sees the hand, plus whether chopsticks or a wasabi
	// are available at all.
	ScopeHandOnly Scope = iota

	// ScopeTunnelVision adds the player's own plate.
	ScopeTunnelVision

	// ScopeFullState adds the known hands and the unseen deck
	// distribution.
	ScopeFullState
)

func (s Scope) String() string {
	switch s {
	case ScopeHandOnly:
		return "hand-only"
	case ScopeTunnelVision:
		return "tunnel-vision"
	case ScopeFullState:
		return "full-state"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// fullStateSupport is the capability table: which cards have a formula
// that actually uses the full-state inputs. The rest fall back to the
// tunnel-vision estimate.
var fullStateSupport = map[game.Card]bool{
	game.Tempura:  true,
	game.Sashimi:  true,
	game.Dumpling: true,
	game.Pudding:  true,
}

// FullStateSupported reports whether the card's value formula consumes
// full-state information, or falls back to the tunnel-vision estimate.
func FullStateSupported(card game.Card) bool {
	return fullStateSupport[card]
}

// Config tunes an Estimator. Zero value is not useful; start from
// DefaultConfig.
type Config struct {
	// BlockingScale discounts denied-to-opponents points; see
	// DefaultBlockingScale.
	BlockingScale float64

	// OpportunityScale scales opportunity costs; 1 charges them in full.
	OpportunityScale float64

	// ChopstickUseCost charges pair picks for spending the chopsticks.
	ChopstickUseCost bool

	// AlwaysTakeChopsticks restricts rating to picks involving the
	// chopsticks card whenever one is in hand. A debugging aid.
	AlwaysTakeChopsticks bool

	// Strict makes full-state estimates fail with ErrUnsupportedCardType
	// instead of silently falling back for cards outside the capability
	// table.
	Strict bool
}

// DefaultConfig returns the tuning used by the stock agents.
func DefaultConfig() Config {
	return Config{
		BlockingScale:    DefaultBlockingScale,
		OpportunityScale: 1,
		ChopstickUseCost: true,
	}
}

// Estimator rates picks by present value at a fixed information scope.
type Estimator struct {
	scope Scope
	cfg   Config
}

// New returns an estimator for the given scope.
func New(scope Scope, cfg Config) *Estimator {
	return &Estimator{scope: scope, cfg: cfg}
}

// Scope returns the estimator's information scope.
func (e *Estimator) Scope() Scope {
	return e.scope
}

// RatedPick is one legal pick with its value estimate.
type RatedPick struct {
	Pick   game.Pick
	Points Breakdown
}

// RatePicks evaluates every legal pick for the view at the estimator's
// scope. The ordering follows rules.LegalPicks, not the ratings.
func (e *Estimator) RatePicks(v *game.View) ([]RatedPick, error) {
	picks, err := rules.LegalPicks(v.Hand, &v.Plate)
	if err != nil {
		return nil, err
	}

	pos := e.buildPosition(v)

	if e.cfg.AlwaysTakeChopsticks && game.CountCard(v.Hand, game.Chopsticks) > 0 {
		picks = chopstickPicksOnly(picks)
	}

	rated := make([]RatedPick, 0, len(picks))
	for _, pick := range picks {
		var points Breakdown
		if pick.IsPair() {
			points, err = e.pairValue(pos, pick)
			if err != nil {
				return nil, err
			}
			if e.cfg.ChopstickUseCost {
				points.OpportunityCost += chopstickUseCost(pos.chopsticks, pos.numCards)
			}
		} else {
			points, err = e.cardValue(pos, pick.First)
			if err != nil {
				return nil, err
			}
		}

		points.NumOtherPlayers = pos.numPlayers - 1
		points.BlockingScale = e.cfg.BlockingScale
		points.OpportunityScale = e.cfg.OpportunityScale
		rated = append(rated, RatedPick{Pick: pick, Points: points})
	}

	return rated, nil
}

// BestPicks returns every pick whose total is within epsilon of the best.
func BestPicks(rated []RatedPick) []game.Pick {
	const epsilon = 1e-6

	best := rated[0].Points.Total()
	for _, r := range rated[1:] {
		if t := r.Points.Total(); t > best {
			best = t
		}
	}

	var picks []game.Pick
	for _, r := range rated {
		if r.Points.Total() >= best-epsilon {
			picks = append(picks, r.Pick)
		}
	}
	return picks
}

// buildPosition narrows the view down to what the scope may see.
func (e *Estimator) buildPosition(v *game.View) *position {
	pos := &position{
		numCards:   len(v.Hand),
		numPlayers: v.NumPlayers(),
	}

	switch e.scope {
	case ScopeHandOnly:
		// Chopsticks and wasabi availability leak through as booleans so
		// pair picks and nigiri multipliers stay meaningful.
		if v.Plate.Chopsticks > 0 {
			pos.chopsticks = 1
		}
		if v.Plate.UnusedWasabi > 0 {
			pos.unusedWasabi = 1
		}
		// An otherwise blank plate, so set cards track completion from
		// scratch and pair evaluation still carries the two booleans.
		pos.plate = &game.Plate{
			Chopsticks:   pos.chopsticks,
			UnusedWasabi: pos.unusedWasabi,
		}

	case ScopeTunnelVision:
		pos.plate = &v.Plate
		pos.chopsticks = v.Plate.Chopsticks
		pos.unusedWasabi = v.Plate.UnusedWasabi

	case ScopeFullState:
		pos.plate = &v.Plate
		pos.chopsticks = v.Plate.Chopsticks
		pos.unusedWasabi = v.Plate.UnusedWasabi
		pos.view = v
		if scorer, err := prob.NewScorer(v); err == nil {
			pos.scorer = scorer
		}
	}

	return pos
}

// cardValue rates a single card, attaching the blocking estimate: what the
// same card would be worth, on average, to an opponent we know nothing
// about.
func (e *Estimator) cardValue(pos *position, card game.Card) (Breakdown, error) {
	if e.cfg.Strict && e.scope == ScopeFullState && !FullStateSupported(card) {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrUnsupportedCardType, card)
	}

	points := rawCardValue(pos, card)

	if !points.HasBlocking {
		baseline := rawCardValue(&position{
			generic:    true,
			numCards:   pos.numCards,
			numPlayers: pos.numPlayers,
		}, card)
		points.BlockingPerPlayer = baseline.OwnPoints() - baseline.OpportunityCost
		points.HasBlocking = true
	}

	return points, nil
}

func rawCardValue(pos *position, card game.Card) Breakdown {
	switch {
	case card == game.Sashimi:
		return sashimiValue(pos)
	case card == game.Tempura:
		return tempuraValue(pos)
	case card == game.Dumpling:
		return dumplingValue(pos)
	case card == game.Wasabi:
		return wasabiValue(pos)
	case card.IsNigiri():
		return nigiriValue(pos, card)
	case card.IsMaki():
		return makiValue(pos, card)
	case card == game.Pudding:
		return puddingValue(pos)
	case card == game.Chopsticks:
		return chopsticksValue(pos)
	}
	return Breakdown{}
}

// pairValue rates a chopsticks pair: the first card against the current
// position, the second against the position after the first has been
// played.
func (e *Estimator) pairValue(pos *position, pick game.Pick) (Breakdown, error) {
	// The chopsticks being spent are no longer on the plate for either
	// card's evaluation.
	first := *pos
	first.chopsticks--

	firstPoints, err := e.cardValue(&first, pick.First)
	if err != nil {
		return Breakdown{}, err
	}

	second := first
	second.numCards--
	if pos.plate != nil {
		plateAfter := *pos.plate
		plateAfter.SpendChopsticks()
		plateAfter.Add(pick.First)
		second.plate = &plateAfter
		second.chopsticks = plateAfter.Chopsticks
		second.unusedWasabi = plateAfter.UnusedWasabi
	}
	if pos.view != nil {
		after := pos.view.Clone()
		after.Hand, _ = game.RemoveCard(after.Hand, pick.First)
		after.Hand = append(after.Hand, game.Chopsticks)
		after.Plate = *second.plate
		second.view = after
	}

	secondPoints, err := e.cardValue(&second, pick.Second)
	if err != nil {
		return Breakdown{}, err
	}

	return firstPoints.Add(secondPoints), nil
}

func chopstickPicksOnly(picks []game.Pick) []game.Pick {
	kept := picks[:0]
	for _, p := range picks {
		if p.First == game.Chopsticks || p.Second == game.Chopsticks {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return picks
	}
	return kept
}
