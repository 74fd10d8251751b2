// Package runner drives complete games: it shuffles and deals, builds
// each agent's view with the right information scope, applies the
// simultaneous picks, passes hands, and scores rounds and puddings.
package runner

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okonomi/sushigo/agent"
	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/rules"
)

// DefaultRounds is the standard three-round game.
const DefaultRounds = 3

// Config describes one game.
type Config struct {
	Agents []agent.Agent

	// Names overrides the agents' own names. Duplicates get numbered
	// either way.
	Names []string

	// Rounds defaults to DefaultRounds; CardsPerPlayer defaults to the
	// standard hand size for the player count.
	Rounds         int
	CardsPerPlayer int

	// Deck overrides the standard 108-card distribution, for variants
	// that drop puddings or chopsticks.
	Deck map[game.Card]int

	// Omniscient reveals every hand to every agent from the deal.
	Omniscient bool

	// Rand drives the shuffle and is handed nowhere else; seed it to
	// replay a game. Defaults to a time-seeded source.
	Rand *rand.Rand

	// OnTurn, if set, receives a snapshot after every completed turn.
	OnTurn func(Turn)
}

// Turn is the post-turn snapshot passed to Config.OnTurn. State is a
// private deep copy.
type Turn struct {
	Round int
	Turn  int
	Picks []game.Pick
	State *game.State
}

// PlayerResult is one seat's final standing.
type PlayerResult struct {
	Name     string
	Rank     int
	Score    int
	Puddings int
}

// Game is a single playthrough. Not safe for concurrent use; run one
// goroutine per game.
type Game struct {
	cfg           Config
	names         []string
	cardsPerRound int
	deck          map[game.Card]int
}

func New(cfg Config) (*Game, error) {
	numPlayers := len(cfg.Agents)
	if numPlayers < 2 || numPlayers > 5 {
		return nil, fmt.Errorf("%w: %d agents", rules.ErrInvalidState, numPlayers)
	}

	if cfg.Rounds == 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.Rounds < 1 {
		return nil, fmt.Errorf("%w: %d rounds", rules.ErrInvalidState, cfg.Rounds)
	}

	cardsPerRound := cfg.CardsPerPlayer
	if cardsPerRound == 0 {
		var err error
		cardsPerRound, err = game.CardsPerPlayer(numPlayers)
		if err != nil {
			return nil, err
		}
	}

	deck := cfg.Deck
	if deck == nil {
		deck = game.StandardDeck()
	}
	if need := numPlayers * cardsPerRound * cfg.Rounds; game.DeckSize(deck) < need {
		return nil, fmt.Errorf("%w: deck of %d cards, need %d", rules.ErrInvalidState, game.DeckSize(deck), need)
	}

	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	names := cfg.Names
	if names == nil {
		names = make([]string, numPlayers)
		for i, a := range cfg.Agents {
			names[i] = a.Name()
		}
	} else if len(names) != numPlayers {
		return nil, fmt.Errorf("%w: %d names for %d agents", rules.ErrInvalidState, len(names), numPlayers)
	}

	return &Game{
		cfg:           cfg,
		names:         numberDuplicateNames(names),
		cardsPerRound: cardsPerRound,
		deck:          deck,
	}, nil
}

// Play runs the game to completion and returns the seats in table order
// with their final ranks.
func (g *Game) Play() ([]PlayerResult, error) {
	numPlayers := len(g.cfg.Agents)

	draw := shuffledDeck(g.deck, g.cfg.Rand)

	state := &game.State{
		Players: make([]game.PlayerState, numPlayers),
		Rounds:  g.cfg.Rounds,
	}
	for i := range state.Players {
		state.Players[i].Name = g.names[i]
	}

	know := make([]*knowledge, numPlayers)
	for i := range know {
		know[i] = newKnowledge(i, g.deck)
	}

	for round := 0; round < g.cfg.Rounds; round++ {
		state.Round = round
		state.PassForward = round%2 == 0
		state.TurnsLeft = g.cardsPerRound

		for i := range state.Players {
			state.Players[i].Hand = append([]game.Card(nil), draw[:g.cardsPerRound]...)
			draw = draw[g.cardsPerRound:]
		}
		for _, k := range know {
			k.startRound(state, g.cfg.Omniscient)
		}

		for turn := 0; state.TurnsLeft > 0; turn++ {
			next, err := g.playTurn(state, know)
			if err != nil {
				return nil, fmt.Errorf("round %d turn %d: %w", round+1, turn+1, err)
			}
			if g.cfg.OnTurn != nil {
				g.cfg.OnTurn(Turn{Round: round, Turn: turn, Picks: lastPicks(next), State: next.Clone()})
			}
			state = next
		}

		for i, points := range rules.RoundScores(state) {
			state.Players[i].Score += points
			state.Players[i].Plate = game.Plate{}
			state.Players[i].History = nil
		}
	}

	return finalStandings(state), nil
}

func (g *Game) playTurn(state *game.State, know []*knowledge) (*game.State, error) {
	numPlayers := state.NumPlayers()

	picks := make([]game.Pick, numPlayers)
	for i, a := range g.cfg.Agents {
		pick, err := a.Pick(know[i].view(state, g.cardsPerRound))
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", state.Players[i].Name, err)
		}
		picks[i] = pick
	}

	next, err := rules.NextStateSimultaneous(state, picks)
	if err != nil {
		return nil, err
	}

	for i, k := range know {
		if err := k.observe(state, picks); err != nil {
			return nil, err
		}
		// After rotation, the hand this seat passed sits one seat along.
		outgoing := next.Players[k.otherSeat(state, 0)].Hand
		if err := k.rotate(outgoing, next.Players[i].Hand); err != nil {
			return nil, fmt.Errorf("seat %d: %w", i, err)
		}
	}
	return next, nil
}

func finalStandings(state *game.State) []PlayerResult {
	puddings := rules.PuddingCounts(state)
	for i, bonus := range rules.PuddingBonus(puddings) {
		state.Players[i].Score += bonus
	}

	scores := make([]int, state.NumPlayers())
	for i := range state.Players {
		scores[i] = state.Players[i].Score
	}
	ranks := rules.RankPlayers(scores, puddings)

	results := make([]PlayerResult, state.NumPlayers())
	for i := range results {
		results[i] = PlayerResult{
			Name:     state.Players[i].Name,
			Rank:     ranks[i],
			Score:    scores[i],
			Puddings: puddings[i],
		}
	}
	return results
}

func shuffledDeck(dist map[game.Card]int, rng *rand.Rand) []game.Card {
	deck := make([]game.Card, 0, game.DeckSize(dist))
	for _, c := range game.CardTypes() {
		for i := 0; i < dist[c]; i++ {
			deck = append(deck, c)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

func lastPicks(s *game.State) []game.Pick {
	picks := make([]game.Pick, s.NumPlayers())
	for i := range s.Players {
		h := s.Players[i].History
		picks[i] = h[len(h)-1]
	}
	return picks
}

// numberDuplicateNames suffixes repeated names so every seat is unique.
func numberDuplicateNames(names []string) []string {
	total := make(map[string]int, len(names))
	for _, name := range names {
		total[name]++
	}

	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if total[name] > 1 {
			seen[name]++
			out[i] = fmt.Sprintf("%s %d", name, seen[name])
		} else {
			out[i] = name
		}
	}
	return out
}
