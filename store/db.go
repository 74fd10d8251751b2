package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite ratings database with thread-safe operations.
type DB struct {
	conn *sql.DB
	mu   sync.Mutex
}

// Rating is one agent's standing.
type Rating struct {
	Agent     string
	Rating    float64
	Games     int
	Wins      int
	UpdatedAt time.Time
}

// GameRecord summarizes one archived game.
type GameRecord struct {
	ID       string
	Players  int
	Rounds   int
	Winner   string
	Archive  string
	PlayedAt time.Time
}

// OpenDB opens (or creates) the ratings database at dbPath.
func OpenDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ratings (
		agent TEXT PRIMARY KEY,
		rating REAL NOT NULL,
		games INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		players INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		winner TEXT,
		archive TEXT,                  -- parquet batch file holding the turns
		played_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_ratings_rating ON ratings(rating);
	`

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ratings returns the named agents' standings, defaulting missing agents
// to defaultRating with zero games.
func (db *DB) Ratings(agents []string, defaultRating float64) ([]Rating, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]Rating, len(agents))
	for i, name := range agents {
		out[i] = Rating{Agent: name, Rating: defaultRating}
		err := db.conn.QueryRow(
			"SELECT rating, games, wins FROM ratings WHERE agent = ?", name,
		).Scan(&out[i].Rating, &out[i].Games, &out[i].Wins)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("load rating for %s: %w", name, err)
		}
	}
	return out, nil
}

// UpsertRatings stores the given standings in one transaction.
func (db *DB) UpsertRatings(ratings []Rating) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ratings (agent, rating, games, wins, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(agent) DO UPDATE SET
			rating = excluded.rating,
			games = excluded.games,
			wins = excluded.wins,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range ratings {
		if _, err := stmt.Exec(r.Agent, r.Rating, r.Games, r.Wins); err != nil {
			return fmt.Errorf("upsert %s: %w", r.Agent, err)
		}
	}
	return tx.Commit()
}

// RecordGame stores one game's summary row.
func (db *DB) RecordGame(g GameRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO games (id, players, rounds, winner, archive) VALUES (?, ?, ?, ?, ?)",
		g.ID, g.Players, g.Rounds, g.Winner, g.Archive,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Standings returns every rated agent, best first.
func (db *DB) Standings() ([]Rating, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(
		"SELECT agent, rating, games, wins, updated_at FROM ratings ORDER BY rating DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.Agent, &r.Rating, &r.Games, &r.Wins, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats returns totals for status output.
func (db *DB) Stats() (totalGames, ratedAgents int64, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err = db.conn.QueryRow("SELECT COUNT(*) FROM games").Scan(&totalGames); err != nil {
		return
	}
	err = db.conn.QueryRow("SELECT COUNT(*) FROM ratings").Scan(&ratedAgents)
	return
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
