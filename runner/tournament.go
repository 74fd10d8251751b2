package runner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okonomi/sushigo/agent"
)

// TournamentConfig describes a batch of games played across workers.
type TournamentConfig struct {
	// NewAgents builds a fresh lineup for one game. Agents are not
	// required to be safe for concurrent use, so every game gets its own.
	NewAgents func(rng *rand.Rand) []agent.Agent

	Games   int
	Workers int

	// Seed makes the whole tournament reproducible; 0 seeds from the
	// clock.
	Seed int64

	Rounds     int
	Omniscient bool

	// CaptureTurns includes every turn snapshot in the outcome, for
	// archiving. Costs memory; leave off for pure rating runs.
	CaptureTurns bool

	// OnGame is invoked from the collector goroutine, one outcome at a
	// time, as games finish.
	OnGame func(GameOutcome)
}

// GameOutcome is one finished (or failed) game.
type GameOutcome struct {
	GameID   string
	Results  []PlayerResult
	Turns    []Turn
	Duration time.Duration
	Err      error
}

// AgentStats aggregates one lineup slot's results across a tournament.
type AgentStats struct {
	Name    string
	Games   int
	Wins    int
	RankSum int
	Score   int
}

func (s *AgentStats) AverageRank() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.RankSum) / float64(s.Games)
}

func (s *AgentStats) AverageScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Games)
}

// TournamentStats is the aggregate over every completed game.
type TournamentStats struct {
	Games  int
	Failed int
	Agents map[string]*AgentStats
}

// RunTournament plays cfg.Games games across cfg.Workers goroutines and
// aggregates per-agent standings. Seats rotate from game to game so no
// lineup slot keeps a positional edge.
func RunTournament(ctx context.Context, cfg TournamentConfig) (*TournamentStats, error) {
	if cfg.NewAgents == nil {
		return nil, fmt.Errorf("tournament needs a lineup")
	}
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("tournament of %d games", cfg.Games)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Fix every seat's name up front so stats keys are stable across
	// rotations.
	names := lineupNames(cfg.NewAgents(rand.New(rand.NewSource(seed))))

	jobs := make(chan int)
	outcomes := make(chan GameOutcome)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for idx := range jobs {
				outcomes <- playTournamentGame(cfg, names, seed, idx)
			}
		}(w)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	stats := &TournamentStats{Agents: make(map[string]*AgentStats, len(names))}
	for _, name := range names {
		stats.Agents[name] = &AgentStats{Name: name}
	}

	for out := range outcomes {
		if out.Err != nil {
			stats.Failed++
		} else {
			stats.Games++
			for _, r := range out.Results {
				a := stats.Agents[r.Name]
				a.Games++
				a.RankSum += r.Rank
				a.Score += r.Score
				if r.Rank == 1 {
					a.Wins++
				}
			}
		}
		if cfg.OnGame != nil {
			cfg.OnGame(out)
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func playTournamentGame(cfg TournamentConfig, names []string, seed int64, idx int) GameOutcome {
	start := time.Now()
	gameID := fmt.Sprintf("game_%d_%d", seed, idx)

	rng := rand.New(rand.NewSource(seed + int64(idx)*1000003))
	agents := cfg.NewAgents(rng)

	// Rotate seats so slot 0 doesn't always lead the pass order.
	offset := idx % len(agents)
	seatAgents := make([]agent.Agent, len(agents))
	seatNames := make([]string, len(agents))
	for i := range agents {
		j := (i + offset) % len(agents)
		seatAgents[i] = agents[j]
		seatNames[i] = names[j]
	}

	var turns []Turn
	gameCfg := Config{
		Agents:     seatAgents,
		Names:      seatNames,
		Rounds:     cfg.Rounds,
		Omniscient: cfg.Omniscient,
		Rand:       rng,
	}
	if cfg.CaptureTurns {
		gameCfg.OnTurn = func(t Turn) { turns = append(turns, t) }
	}

	g, err := New(gameCfg)
	if err != nil {
		return GameOutcome{GameID: gameID, Err: err, Duration: time.Since(start)}
	}
	results, err := g.Play()
	return GameOutcome{
		GameID:   gameID,
		Results:  results,
		Turns:    turns,
		Duration: time.Since(start),
		Err:      err,
	}
}

func lineupNames(agents []agent.Agent) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
	}
	return numberDuplicateNames(names)
}
