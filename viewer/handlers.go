package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okonomi/sushigo/store"
)

// Server holds shared state for the HTTP handlers.
type Server struct {
	cache   *DBCache
	ratings *store.DB // nil when no ratings database is configured
	log     *slog.Logger
}

func NewServer(roots []string, ratings *store.DB, log *slog.Logger) *Server {
	return &Server{
		cache:   NewDBCache(roots, 30*time.Second, log),
		ratings: ratings,
		log:     log,
	}
}

// RegisterRoutes sets up the API routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/games", s.handleGames)
	mux.HandleFunc("/api/games/", s.handleGameTurns)
	mux.HandleFunc("/api/standings", s.handleStandings)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/live", s.handleLive)
}

func (s *Server) Close() error {
	return s.cache.Close()
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	withCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	index, err := s.cache.GamesIndex(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	limit := parseIntQuery(r, "limit", 100)
	offset := parseIntQuery(r, "offset", 0)

	total := int64(len(index))
	if offset > len(index) {
		offset = len(index)
	}
	end := offset + limit
	if end > len(index) {
		end = len(index)
	}

	writeJSON(w, GamesResponse{
		Games:  index[offset:end],
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) handleGameTurns(w http.ResponseWriter, r *http.Request) {
	withCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/api/games/")
	if gameID == "" || strings.Contains(gameID, "/") {
		http.Error(w, "bad game id", http.StatusBadRequest)
		return
	}

	db, err := s.cache.Get()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	turns, err := queryGameTurns(r.Context(), db, gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(turns) == 0 {
		http.Error(w, fmt.Sprintf("game %q not found", gameID), http.StatusNotFound)
		return
	}

	writeJSON(w, GameResponse{GameID: gameID, Turns: turns})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	withCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}
	if s.ratings == nil {
		http.Error(w, "no ratings database configured", http.StatusNotFound)
		return
	}

	standings, err := s.ratings.Standings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]StandingRow, 0, len(standings))
	for _, st := range standings {
		row := StandingRow{
			Agent:  st.Agent,
			Rating: st.Rating,
			Games:  st.Games,
			Wins:   st.Wins,
		}
		if st.Games > 0 {
			row.WinRate = float64(st.Wins) / float64(st.Games)
		}
		rows = append(rows, row)
	}
	writeJSON(w, rows)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	withCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}

	db, err := s.cache.Get()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	stats, err := queryStats(r.Context(), db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func withCORS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
