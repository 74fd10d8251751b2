// Command omakase plays a single game on the terminal, printing every
// turn. Useful for eyeballing agent behavior and rule edge cases.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/okonomi/sushigo/agent"
	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/runner"
)

func main() {
	players := flag.Int("players", 4, "number of players (2-5)")
	agentList := flag.String("agents", "", "comma-separated agent names; defaults to tunnel-vision for every seat")
	short := flag.Bool("short", false, "very short game (1 round of 3 cards)")
	pudding := flag.Bool("pudding", true, "include puddings in the deck")
	chopsticks := flag.Bool("chopsticks", false, "include chopsticks in the deck")
	omniscient := flag.Bool("omniscient", true, "all players see all cards")
	seed := flag.Int64("seed", 0, "deal seed (0 = clock)")
	quiet := flag.Bool("quiet", false, "only print final standings")
	flag.Parse()

	log.SetFlags(0)

	names := splitList(*agentList)
	if len(names) == 0 {
		for i := 0; i < *players; i++ {
			names = append(names, "tunnel-vision")
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	agents := make([]agent.Agent, 0, len(names))
	for _, name := range names {
		a, err := agent.New(name, rng)
		if err != nil {
			log.Printf("%v (known: %s)", err, strings.Join(agent.Names(), ", "))
			os.Exit(1)
		}
		agents = append(agents, a)
	}

	deck := game.StandardDeck()
	if !*pudding {
		deck[game.Pudding] = 0
	}
	if !*chopsticks {
		deck[game.Chopsticks] = 0
	}

	cfg := runner.Config{
		Agents:     agents,
		Deck:       deck,
		Omniscient: *omniscient,
		Rand:       rng,
	}
	if *short {
		cfg.Rounds = 1
		cfg.CardsPerPlayer = 3
	}
	if !*quiet {
		cfg.OnTurn = printTurn
	}

	g, err := runner.New(cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	log.Printf("Seed %d", *seed)
	results, err := g.Play()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	log.Printf("")
	log.Printf("Final standings:")
	for _, r := range results {
		log.Printf("  %d. %-28s %3d points, %d puddings", r.Rank, r.Name, r.Score, r.Puddings)
	}
}

func printTurn(t runner.Turn) {
	log.Printf("")
	log.Printf("== Round %d, turn %d ==", t.Round+1, t.Turn+1)
	for i := range t.State.Players {
		p := &t.State.Players[i]
		picked := make([]string, 0, 2)
		for _, c := range t.Picks[i].Cards() {
			picked = append(picked, c.String())
		}
		log.Printf("  %-28s picked %-24s plate %s, %d pts, %d pudding",
			p.Name, strings.Join(picked, " + "), plateString(&p.Plate), p.Score, p.Puddings)
	}
}

func plateString(p *game.Plate) string {
	parts := make([]string, 0, 8)
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%dx %s", n, label))
		}
	}
	add(p.Tempura, "tempura")
	add(p.Sashimi, "sashimi")
	add(p.Dumplings, "dumpling")
	add(p.MakiRolls, "maki")
	add(p.NigiriScore, "nigiri pt")
	add(p.UnusedWasabi, "wasabi")
	add(p.Chopsticks, "chopsticks")
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
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
