package solver

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/prob"
	"github.com/okonomi/sushigo/rules"
)

var (
	// ErrInsufficientInformation is returned when the view still has
	// hidden cards: exhaustive search over guessed hands would be noise.
	ErrInsufficientInformation = errors.New("hidden cards prevent exhaustive search")

	// ErrSearchTooLarge is returned when the expansion exceeds the node
	// budget or the context deadline.
	ErrSearchTooLarge = errors.New("search exceeds configured budget")
)

// pruneTreeSizeThreshold is the base tree size above which the root
// player's own obviously-bad picks get filtered too. Below it, with
// three or more players, every own pick is searched: denying a card can
// occasionally beat playing the best one, and small trees can afford to
// check. Two-player games always filter; the head-to-head tree is deep
// enough that unlikely picks are not worth the branches.
const pruneTreeSizeThreshold = 2000

// DefaultMaxNodes bounds the expansion when Config.MaxNodes is zero. Leaf
// evaluations are cheap; this is tuned for tens of milliseconds, not
// fairness.
const DefaultMaxNodes = 4_000_000

// Config tunes BestPick. The zero value searches with average
// consolidation and the default node budget.
type Config struct {
	// Consolidation selects the opponent-response model.
	Consolidation Consolidation

	// MaxNodes caps the number of expanded move combinations; 0 means
	// DefaultMaxNodes.
	MaxNodes int64
}

type search struct {
	cfg         Config
	scorer      *prob.Scorer
	lastRound   bool
	pruneOwn    bool
	pruneOthers bool
	nodes       *atomic.Int64
	maxNodes    int64
	ctx         context.Context
}

// BestPick exhaustively searches the rest of the round and returns the
// root player's strongest pick.
//
// The view must have no unknown cards (ErrInsufficientInformation
// otherwise) and a non-empty hand (rules.ErrInvalidState). An exceeded
// node budget or context deadline surfaces as ErrSearchTooLarge.
func BestPick(ctx context.Context, v *game.View, cfg Config) (game.Pick, error) {
	if len(v.Hand) == 0 {
		return game.Pick{}, rules.ErrInvalidState
	}
	if v.HasUnknownCards() {
		return game.Pick{}, ErrInsufficientInformation
	}

	// Forced picks skip the search entirely.
	if len(v.Hand) == 1 {
		return game.PickOne(v.Hand[0]), nil
	}
	if v.Plate.Chopsticks == 0 && allSameCard(v.Hand) {
		return game.PickOne(v.Hand[0]), nil
	}

	scorer, err := prob.NewScorer(v)
	if err != nil {
		return game.Pick{}, fmt.Errorf("%w: %v", ErrInsufficientInformation, err)
	}

	maxNodes := cfg.MaxNodes
	if maxNodes == 0 {
		maxNodes = DefaultMaxNodes
	}

	ts := newTableState(v)
	treeSize := baseTreeSize(len(v.Hand), ts.numPlayers())

	s := &search{
		cfg:         cfg,
		scorer:      scorer,
		lastRound:   v.LastRound,
		pruneOwn:    ts.numPlayers() < 3 || treeSize > pruneTreeSizeThreshold,
		pruneOthers: true,
		nodes:       new(atomic.Int64),
		maxNodes:    maxNodes,
		ctx:         ctx,
	}

	pick, _, err := s.solveRoot(ts)
	return pick, err
}

// baseTreeSize is factorial(cards)^players, the expansion size assuming
// unique cards and no chopsticks. Saturates instead of overflowing.
func baseTreeSize(cards, players int) float64 {
	f := 1.0
	for i := 2; i <= cards; i++ {
		f *= float64(i)
	}
	size := 1.0
	for i := 0; i < players; i++ {
		size *= f
		if size > 1e18 {
			return 1e18
		}
	}
	return size
}

func allSameCard(hand []game.Card) bool {
	for _, c := range hand[1:] {
		if c != hand[0] {
			return false
		}
	}
	return true
}

// solveRoot evaluates the root player's candidate picks in parallel; the
// whole subtree under each candidate is an independent pure computation
// over its own table copies.
func (s *search) solveRoot(ts *tableState) (game.Pick, *consolidated, error) {
	myPicks, othersPicks, err := s.enumerate(ts)
	if err != nil {
		return game.Pick{}, nil, err
	}

	if len(myPicks) == 1 {
		return myPicks[0], nil, nil
	}

	results := make([]*consolidated, len(myPicks))
	g, ctx := errgroup.WithContext(s.ctx)
	for i, pick := range myPicks {
		g.Go(func() error {
			branch := *s
			branch.ctx = ctx
			res, err := branch.evaluatePick(ts, pick, othersPicks)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return game.Pick{}, nil, err
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].betterThan(results[best], s.lastRound, s.cfg.Consolidation) {
			best = i
		}
	}
	return myPicks[best], results[best], nil
}

// solve recursively finds the best pick at an interior node and reports
// its consolidated result upward.
func (s *search) solve(ts *tableState) (*consolidated, error) {
	myPicks, othersPicks, err := s.enumerate(ts)
	if err != nil {
		return nil, err
	}

	var best *consolidated
	for _, pick := range myPicks {
		res, err := s.evaluatePick(ts, pick, othersPicks)
		if err != nil {
			return nil, err
		}
		if best == nil || res.betterThan(best, s.lastRound, s.cfg.Consolidation) {
			best = res
		}
	}
	return best, nil
}

// evaluatePick expands one root-player pick against every combination of
// opponent picks.
func (s *search) evaluatePick(ts *tableState, pick game.Pick, othersPicks [][]game.Pick) (*consolidated, error) {
	res := &consolidated{}
	picks := make([]game.Pick, ts.numPlayers())
	picks[0] = pick

	err := eachCombination(othersPicks, picks[1:], func() error {
		if n := s.nodes.Add(1); n > s.maxNodes {
			return fmt.Errorf("%w: over %d nodes", ErrSearchTooLarge, s.maxNodes)
		} else if n%1024 == 0 && s.ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrSearchTooLarge, s.ctx.Err())
		}

		next, err := ts.withPicks(picks)
		if err != nil {
			return err
		}

		if next.turnsLeft == 0 || len(next.hands[0]) == 0 {
			res.observe(next.scoreRound(s.scorer, s.lastRound))
			return nil
		}

		child, err := s.solve(next)
		if err != nil {
			return err
		}
		// The child's value under the configured consolidation is what
		// this line of play is worth.
		switch s.cfg.Consolidation {
		case ConsolidateWorst:
			res.observe(child.worst)
		case ConsolidateBest:
			res.observe(child.best)
		default:
			res.observe(child.average)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.finish()
	return res, nil
}

// enumerate lists the root player's candidate picks and each opponent's
// plausible picks at this node.
func (s *search) enumerate(ts *tableState) ([]game.Pick, [][]game.Pick, error) {
	myPicks, err := rules.LegalPicks(ts.hands[0], &ts.plates[0])
	if err != nil {
		return nil, nil, err
	}
	if s.pruneOwn {
		myPicks = rules.FilterLikelyBadPicks(myPicks, ts.hands[0], &ts.plates[0], ts.turnsLeft)
	}

	othersPicks := make([][]game.Pick, ts.numPlayers()-1)
	for i := 1; i < ts.numPlayers(); i++ {
		picks, err := rules.LegalPicks(ts.hands[i], &ts.plates[i])
		if err != nil {
			return nil, nil, err
		}
		if s.pruneOthers {
			picks = rules.FilterLikelyBadPicks(picks, ts.hands[i], &ts.plates[i], ts.turnsLeft)
		}
		othersPicks[i-1] = picks
	}

	return myPicks, othersPicks, nil
}

// eachCombination walks the cross product of the pick lists, writing each
// combination into out before invoking fn.
func eachCombination(lists [][]game.Pick, out []game.Pick, fn func() error) error {
	if len(lists) == 0 {
		return fn()
	}
	for _, pick := range lists[0] {
		out[0] = pick
		if err := eachCombination(lists[1:], out[1:], fn); err != nil {
			return err
		}
	}
	return nil
}
