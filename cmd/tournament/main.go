// Command tournament plays agents against each other in bulk, archives
// every game to parquet, and keeps Elo standings in SQLite.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okonomi/sushigo/agent"
	"github.com/okonomi/sushigo/elo"
	"github.com/okonomi/sushigo/internal/logging"
	"github.com/okonomi/sushigo/runner"
	"github.com/okonomi/sushigo/store"
)

type gameUpdate struct {
	outcome   runner.GameOutcome
	standings []store.Rating
}

type doneMsg struct{}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	target    int
	played    int
	failed    int
	startTime time.Time
	recent    []string
	standings []store.Rating

	updates chan gameUpdate
	done    chan struct{}
}

func initialModel(target int, updates chan gameUpdate, done chan struct{}) model {
	return model{
		target:    target,
		startTime: time.Now(),
		updates:   updates,
		done:      done,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates, m.done), tickCmd())
}

func waitForUpdate(updates chan gameUpdate, done chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-updates:
			return u
		case <-done:
			return doneMsg{}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		return m, tickCmd()
	case gameUpdate:
		m.played++
		if msg.outcome.Err != nil {
			m.failed++
			m.recent = pushRecent(m.recent, fmt.Sprintf("%s: %v", msg.outcome.GameID, msg.outcome.Err))
		} else {
			m.recent = pushRecent(m.recent, outcomeLine(msg.outcome))
		}
		if msg.standings != nil {
			m.standings = msg.standings
		}
		return m, waitForUpdate(m.updates, m.done)
	case doneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func pushRecent(recent []string, line string) []string {
	recent = append([]string{line}, recent...)
	if len(recent) > 8 {
		recent = recent[:8]
	}
	return recent
}

func outcomeLine(out runner.GameOutcome) string {
	parts := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		parts = append(parts, fmt.Sprintf("%s %d", r.Name, r.Score))
	}
	return fmt.Sprintf("%s (%s): %s", out.GameID, out.Duration.Round(time.Millisecond), strings.Join(parts, ", "))
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := 0.0
	if duration.Seconds() >= 1 {
		gamesPerSec = float64(m.played) / duration.Seconds()
	}

	s := fmt.Sprintf("Games:     %d / %d\n", m.played, m.target)
	s += fmt.Sprintf("Failed:    %d\n", m.failed)
	s += fmt.Sprintf("Duration:  %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Games/Sec: %.2f\n\n", gamesPerSec)

	if len(m.standings) > 0 {
		s += "Standings:\n"
		for _, st := range m.standings {
			s += fmt.Sprintf("  %-28s %7.1f  (%d games, %d wins)\n", st.Agent, st.Rating, st.Games, st.Wins)
		}
		s += "\n"
	}

	s += "Recent games:\n"
	for _, line := range m.recent {
		s += "  " + line + "\n"
	}
	s += "\nPress q to quit.\n"
	return s
}

func main() {
	agentList := flag.String("agents", "random-plus-plus,present-value,tunnel-vision,random-plus",
		"comma-separated lineup (see agent names)")
	games := flag.Int("games", 100, "games to play")
	workers := flag.Int("workers", 4, "concurrent games")
	seed := flag.Int64("seed", 0, "tournament seed (0 = clock)")
	rounds := flag.Int("rounds", 0, "rounds per game (0 = standard 3)")
	omniscient := flag.Bool("omniscient", false, "reveal all hands to all agents")
	outDir := flag.String("out-dir", "archives", "parquet archive directory")
	gamesPerFlush := flag.Int("games-per-flush", 20, "games buffered per parquet batch")
	dbPath := flag.String("db", "ratings.db", "Elo ratings sqlite path")
	plain := flag.Bool("plain", false, "log lines instead of the TUI")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	// The TUI owns the terminal, so logs go to a file unless -plain.
	logW := os.Stderr
	if !*plain {
		f, err := os.OpenFile("tournament.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logW = f
	}
	log := logging.New(logW, level)

	names := splitList(*agentList)
	if len(names) < 2 || len(names) > 5 {
		fmt.Fprintf(os.Stderr, "need 2-5 agents, got %d (known: %s)\n", len(names), strings.Join(agent.Names(), ", "))
		os.Exit(1)
	}
	// Fail on typos before playing anything.
	for _, name := range names {
		if _, err := agent.New(name, rand.New(rand.NewSource(1))); err != nil {
			fmt.Fprintf(os.Stderr, "%v (known: %s)\n", err, strings.Join(agent.Names(), ", "))
			os.Exit(1)
		}
	}

	db, err := store.OpenDB(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open ratings db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	writeReqs := make(chan []store.TurnRow, *workers*4)
	writerDone := make(chan struct{})
	go func() {
		archiveLoop(*outDir, *gamesPerFlush, writeReqs, log)
		close(writerDone)
	}()

	updates := make(chan gameUpdate, *workers)
	done := make(chan struct{})

	var stats *runner.TournamentStats
	var runErr error
	go func() {
		stats, runErr = runner.RunTournament(ctx, runner.TournamentConfig{
			NewAgents:    lineup(names),
			Games:        *games,
			Workers:      *workers,
			Seed:         *seed,
			Rounds:       *rounds,
			Omniscient:   *omniscient,
			CaptureTurns: true,
			OnGame: func(out runner.GameOutcome) {
				standings := recordGame(db, *outDir, out, writeReqs, log)
				select {
				case updates <- gameUpdate{outcome: out, standings: standings}:
				default:
				}
			},
		})
		close(done)
	}()

	if *plain {
		plainLoop(ctx, updates, done, log)
	} else {
		p := tea.NewProgram(initialModel(*games, updates, done))
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui: %v\n", err)
			os.Exit(1)
		}
		select {
		case <-done:
		default:
			// Quit before the tournament finished; let it wind down.
			stop()
			<-done
		}
	}

	close(writeReqs)
	<-writerDone

	// An interrupt or q still gets a summary of what was played.
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(os.Stderr, "tournament: %v\n", runErr)
		os.Exit(1)
	}
	if stats != nil {
		printSummary(stats, db)
	}
}

// lineup builds the NewAgents factory; names were validated up front so
// construction cannot fail here.
func lineup(names []string) func(rng *rand.Rand) []agent.Agent {
	return func(rng *rand.Rand) []agent.Agent {
		agents := make([]agent.Agent, len(names))
		for i, name := range names {
			agents[i], _ = agent.New(name, rng)
		}
		return agents
	}
}

// recordGame archives the turns, updates Elo, and records the game row.
// Called serially from the tournament collector, so DB access needs no
// extra ordering.
func recordGame(db *store.DB, outDir string, out runner.GameOutcome, writeReqs chan<- []store.TurnRow, log *slog.Logger) []store.Rating {
	if out.Err != nil {
		log.Error("game failed", "game", out.GameID, "err", out.Err)
		return nil
	}

	if len(out.Turns) > 0 {
		writeReqs <- store.GameRows(out.GameID, out.Turns)
	}

	names := make([]string, len(out.Results))
	ranks := make([]int, len(out.Results))
	winner := ""
	for i, r := range out.Results {
		names[i] = r.Name
		ranks[i] = r.Rank
		if r.Rank == 1 {
			winner = r.Name
		}
	}

	current, err := db.Ratings(names, elo.DefaultRating)
	if err != nil {
		log.Error("load ratings", "game", out.GameID, "err", err)
		return nil
	}

	ratings := make([]float64, len(current))
	prevGames := current[0].Games
	for i, c := range current {
		ratings[i] = c.Rating
		if c.Games < prevGames {
			prevGames = c.Games
		}
	}

	updated, err := elo.UpdateMultiplayer(ranks, ratings, prevGames)
	if err != nil {
		log.Error("update elo", "game", out.GameID, "err", err)
		return nil
	}
	for i := range current {
		current[i].Rating = updated[i]
		current[i].Games++
		if ranks[i] == 1 {
			current[i].Wins++
		}
	}
	if err := db.UpsertRatings(current); err != nil {
		log.Error("save ratings", "game", out.GameID, "err", err)
	}

	err = db.RecordGame(store.GameRecord{
		ID:      out.GameID,
		Players: len(out.Results),
		Rounds:  maxRound(out.Turns) + 1,
		Winner:  winner,
		Archive: outDir,
	})
	if err != nil {
		log.Error("record game", "game", out.GameID, "err", err)
	}

	log.Debug("game recorded", "game", out.GameID, "winner", winner, "took", out.Duration)

	standings, err := db.Standings()
	if err != nil {
		return nil
	}
	return standings
}

func maxRound(turns []runner.Turn) int {
	most := 0
	for _, t := range turns {
		if t.Round > most {
			most = t.Round
		}
	}
	return most
}

// archiveLoop batches finished games into parquet flushes so the
// archive directory holds a few large files rather than thousands of
// tiny ones.
func archiveLoop(outDir string, gamesPerFlush int, in <-chan []store.TurnRow, log *slog.Logger) {
	if gamesPerFlush <= 0 {
		gamesPerFlush = 20
	}

	pending := make([]store.TurnRow, 0, 64*gamesPerFlush)
	pendingGames := 0

	flush := func() {
		if len(pending) == 0 {
			return
		}
		outPath, err := store.WriteBatchParquetAtomic(outDir, pending)
		if err != nil {
			log.Error("parquet flush failed", "games", pendingGames, "rows", len(pending), "err", err)
		} else {
			log.Info("parquet flushed", "path", outPath, "games", pendingGames, "rows", len(pending))
		}
		pending = pending[:0]
		pendingGames = 0
	}

	for rows := range in {
		if len(rows) == 0 {
			continue
		}
		pending = append(pending, rows...)
		pendingGames++
		if pendingGames >= gamesPerFlush {
			flush()
		}
	}
	flush()
}

func plainLoop(ctx context.Context, updates chan gameUpdate, done chan struct{}, log *slog.Logger) {
	for {
		select {
		case u := <-updates:
			if u.outcome.Err != nil {
				continue
			}
			log.Info("game finished", "line", outcomeLine(u.outcome))
		case <-done:
			return
		case <-ctx.Done():
			<-done
			return
		}
	}
}

func printSummary(stats *runner.TournamentStats, db *store.DB) {
	fmt.Printf("Played %d games (%d failed)\n\n", stats.Games, stats.Failed)

	agents := make([]*runner.AgentStats, 0, len(stats.Agents))
	for _, a := range stats.Agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].AverageRank() < agents[j].AverageRank() })

	fmt.Println("Tournament averages:")
	for _, a := range agents {
		fmt.Printf("  %-28s avg rank %.2f, avg score %.1f, %d wins in %d games\n",
			a.Name, a.AverageRank(), a.AverageScore(), a.Wins, a.Games)
	}

	standings, err := db.Standings()
	if err != nil || len(standings) == 0 {
		return
	}
	fmt.Println("\nElo standings:")
	for _, st := range standings {
		fmt.Printf("  %-28s %7.1f  (%d games, %d wins)\n", st.Agent, st.Rating, st.Games, st.Wins)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
