package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/rules"
)

// DBCache holds a DuckDB connection over the archive parquet globs,
// reopened periodically so games archived after startup show up.
type DBCache struct {
	roots       []string
	refreshRate time.Duration
	log         *slog.Logger

	mu          sync.RWMutex
	db          *sql.DB
	lastRefresh time.Time

	gamesIndex []GameSummary
}

func NewDBCache(roots []string, refreshRate time.Duration, log *slog.Logger) *DBCache {
	return &DBCache{
		roots:       roots,
		refreshRate: refreshRate,
		log:         log,
	}
}

// Get returns the cached connection, refreshing if it is stale.
func (c *DBCache) Get() (*sql.DB, error) {
	c.mu.RLock()
	if c.db != nil && time.Since(c.lastRefresh) < c.refreshRate {
		db := c.db
		c.mu.RUnlock()
		return db, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil && time.Since(c.lastRefresh) < c.refreshRate {
		return c.db, nil
	}
	return c.refreshLocked()
}

func (c *DBCache) refreshLocked() (*sql.DB, error) {
	start := time.Now()

	db, err := openArchive(c.roots)
	if err != nil {
		return nil, err
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	c.db = db
	c.lastRefresh = time.Now()
	c.gamesIndex = nil

	c.log.Info("archive reopened", "took", time.Since(start))
	return c.db, nil
}

// GamesIndex returns the cached game summaries, rebuilding after each
// refresh.
func (c *DBCache) GamesIndex(ctx context.Context) ([]GameSummary, error) {
	if _, err := c.Get(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	if c.gamesIndex != nil {
		idx := c.gamesIndex
		c.mu.RUnlock()
		return idx, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gamesIndex != nil {
		return c.gamesIndex, nil
	}

	start := time.Now()
	games, err := queryAllGames(ctx, c.db, c.roots)
	if err != nil {
		return nil, err
	}
	c.gamesIndex = games
	c.log.Info("games index rebuilt", "games", len(games), "took", time.Since(start))
	return c.gamesIndex, nil
}

func (c *DBCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// openArchive opens an in-memory DuckDB with a turns view over every
// parquet file under the roots. Files still being staged under tmp/
// are excluded.
func openArchive(roots []string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	_, _ = db.Exec("PRAGMA threads=4")

	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		glob := filepath.Join(root, "**", "*.parquet")
		globs = append(globs, "'"+escapeSQLString(glob)+"'")
	}
	if len(globs) == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("no archive roots configured")
	}

	sqlText := `CREATE OR REPLACE VIEW turns AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT contains(filename, '/tmp/')`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// queryAllGames builds the games index: stats per game plus the final
// turn's seats, from which finished scores and the winner are derived.
func queryAllGames(ctx context.Context, db *sql.DB, roots []string) ([]GameSummary, error) {
	query := `WITH stats AS (
		SELECT
			game_id,
			(MAX(round) + 1)::INTEGER AS rounds,
			COUNT(*)::INTEGER AS turn_count,
			MIN(filename)::VARCHAR AS file
		FROM turns
		GROUP BY game_id
	),
	final_turns AS (
		SELECT game_id, players
		FROM (
			SELECT game_id, players,
				row_number() OVER (PARTITION BY game_id ORDER BY round DESC, turn DESC) AS rn
			FROM turns
		)
		WHERE rn = 1
	)
	SELECT s.game_id, s.rounds, s.turn_count, s.file, ft.players
	FROM stats s
	LEFT JOIN final_turns ft ON s.game_id = ft.game_id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GameSummary, 0, 1024)
	for rows.Next() {
		var g GameSummary
		var file string
		var playersAny any
		if err := rows.Scan(&g.GameID, &g.Rounds, &g.TurnCount, &file, &playersAny); err != nil {
			return nil, err
		}
		g.File = relativeToRoots(file, roots)
		fillOutcome(&g, asTurnPlayers(playersAny))
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].GameID > out[j].GameID })
	return out, nil
}

// fillOutcome finishes scoring the archived final turn. Archive rows
// are snapshotted before end-of-round scoring, so the last round's
// plate points, maki bonus, and pudding bonus still need adding.
func fillOutcome(g *GameSummary, final []TurnPlayer) {
	if len(final) == 0 {
		return
	}

	scores := make([]int, len(final))
	puddings := make([]int, len(final))
	maki := make([]int, len(final))
	g.Players = make([]string, len(final))
	for i, p := range final {
		g.Players[i] = p.Name
		plate := game.Plate{
			Tempura:     p.Tempura,
			Sashimi:     p.Sashimi,
			Dumplings:   p.Dumplings,
			MakiRolls:   p.MakiRolls,
			NigiriScore: p.NigiriScore,
		}
		scores[i] = p.Score + rules.ScorePlate(&plate)
		puddings[i] = p.Puddings
		maki[i] = p.MakiRolls
	}
	for i, b := range rules.MakiBonus(maki) {
		scores[i] += b
	}
	for i, b := range rules.PuddingBonus(puddings) {
		scores[i] += b
	}

	g.Scores = scores
	g.Puddings = puddings
	for i, rank := range rules.RankPlayers(scores, puddings) {
		if rank == 1 {
			g.Winner = final[i].Name
			break
		}
	}
}

// queryGameTurns loads one game's full turn history in play order.
func queryGameTurns(ctx context.Context, db *sql.DB, gameID string) ([]Turn, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT game_id, round, turn, pass_forward, players
		FROM turns WHERE game_id = ? ORDER BY round, turn`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Turn, 0, 32)
	for rows.Next() {
		var t Turn
		var playersAny any
		if err := rows.Scan(&t.GameID, &t.Round, &t.Turn, &t.PassForward, &playersAny); err != nil {
			return nil, err
		}
		t.Players = asTurnPlayers(playersAny)
		out = append(out, t)
	}
	return out, rows.Err()
}

func queryStats(ctx context.Context, db *sql.DB) (StatsResponse, error) {
	var s StatsResponse
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT game_id), COUNT(*) FROM turns`).Scan(&s.Games, &s.Turns)
	if err != nil {
		return s, err
	}
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT p.name) FROM turns, UNNEST(players) AS t(p)`).Scan(&s.Players)
	return s, err
}

// relativeToRoots trims the archive root prefix from a filename so the
// API never leaks absolute host paths.
func relativeToRoots(filename string, roots []string) string {
	fn := strings.TrimSpace(filename)
	if fn == "" {
		return ""
	}
	for _, r := range roots {
		root := strings.TrimSpace(r)
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(root, fn)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(fn)
}
