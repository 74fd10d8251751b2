package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okonomi/sushigo/agent"
	"github.com/okonomi/sushigo/runner"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is open anyway; the CORS headers on the REST routes set
	// the same policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveMessage is one frame on the live socket. Type is "turn",
// "result", or "error"; the matching field is set.
type liveMessage struct {
	Type    string                `json:"type"`
	Turn    *Turn                 `json:"turn,omitempty"`
	Results []runner.PlayerResult `json:"results,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// handleLive plays a game on demand and streams every turn over a
// websocket. Query params: agents (comma-separated agent.Names
// entries, default four random-plus-plus seats), seed, and delay_ms
// between turns so a frontend can animate the playthrough.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	names := splitAgents(r.URL.Query().Get("agents"))
	if len(names) == 0 {
		names = []string{"random-plus-plus", "random-plus-plus", "random-plus-plus", "random-plus-plus"}
	}

	seed := int64(parseIntQuery(r, "seed", int(time.Now().UnixNano()%1e9)))
	delay := time.Duration(parseIntQuery(r, "delay_ms", 0)) * time.Millisecond

	rng := rand.New(rand.NewSource(seed))
	agents := make([]agent.Agent, 0, len(names))
	for _, name := range names {
		a, err := agent.New(name, rng)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		agents = append(agents, a)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sendErr := func(err error) {
		_ = conn.WriteJSON(liveMessage{Type: "error", Error: err.Error()})
	}

	g, err := runner.New(runner.Config{
		Agents: agents,
		Rand:   rng,
		OnTurn: func(t runner.Turn) {
			msg := liveMessage{Type: "turn", Turn: liveTurn(t)}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
			if delay > 0 {
				time.Sleep(delay)
			}
		},
	})
	if err != nil {
		sendErr(err)
		return
	}

	s.log.Info("live game started", "agents", names, "seed", seed)
	results, err := g.Play()
	if err != nil {
		sendErr(err)
		return
	}

	_ = conn.WriteJSON(liveMessage{Type: "result", Results: results})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// liveTurn converts a runner snapshot into the same wire shape the
// archive endpoints use.
func liveTurn(t runner.Turn) *Turn {
	out := &Turn{
		GameID:      fmt.Sprintf("live_%d_%d", t.Round, t.Turn),
		Round:       int32(t.Round),
		Turn:        int32(t.Turn),
		PassForward: t.State.PassForward,
	}
	for i := range t.State.Players {
		p := &t.State.Players[i]

		tp := TurnPlayer{
			Name:         p.Name,
			Tempura:      p.Plate.Tempura,
			Sashimi:      p.Plate.Sashimi,
			Dumplings:    p.Plate.Dumplings,
			MakiRolls:    p.Plate.MakiRolls,
			NigiriScore:  p.Plate.NigiriScore,
			UnusedWasabi: p.Plate.UnusedWasabi,
			Chopsticks:   p.Plate.Chopsticks,
			Score:        p.Score,
			Puddings:     p.Puddings,
		}
		for _, c := range p.Hand {
			tp.Hand = append(tp.Hand, c.String())
		}
		for _, c := range t.Picks[i].Cards() {
			tp.Pick = append(tp.Pick, c.String())
		}

		out.Players = append(out.Players, tp)
	}
	return out
}

func splitAgents(raw string) []string {
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
