// Package store persists finished games: turn-by-turn parquet archives
// for analysis tooling, and a SQLite database for Elo standings.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/okonomi/sushigo/game"
	"github.com/okonomi/sushigo/runner"
)

// TurnRow is a single (game, turn) snapshot intended for long-term
// storage. One row per turn, with per-seat data nested, so nothing is
// duplicated across players and the columns compress well.
type TurnRow struct {
	GameID string `parquet:"game_id,dict"`
	Round  int32  `parquet:"round"`
	Turn   int32  `parquet:"turn"`

	PassForward bool `parquet:"pass_forward"`

	Players []PlayerRow `parquet:"players"`
}

// PlayerRow is one seat's state after the turn's picks were applied.
// Hand holds the cards remaining; PickSecond is -1 for single picks.
// The plate is stored as its counters, which is all scoring needs.
type PlayerRow struct {
	Name string `parquet:"name,dict"`

	PickFirst  int32 `parquet:"pick_first"`
	PickSecond int32 `parquet:"pick_second"`

	Hand []int32 `parquet:"hand"`

	Tempura      int32 `parquet:"tempura"`
	Sashimi      int32 `parquet:"sashimi"`
	Dumplings    int32 `parquet:"dumplings"`
	MakiRolls    int32 `parquet:"maki_rolls"`
	NigiriScore  int32 `parquet:"nigiri_score"`
	UnusedWasabi int32 `parquet:"unused_wasabi"`
	Chopsticks   int32 `parquet:"chopsticks"`

	Score    int32 `parquet:"score"`
	Puddings int32 `parquet:"puddings"`
}

// GameRows flattens a finished game's turn snapshots into archive rows.
func GameRows(gameID string, turns []runner.Turn) []TurnRow {
	rows := make([]TurnRow, 0, len(turns))
	for _, t := range turns {
		row := TurnRow{
			GameID:      gameID,
			Round:       int32(t.Round),
			Turn:        int32(t.Turn),
			PassForward: t.State.PassForward,
		}
		for i := range t.State.Players {
			p := &t.State.Players[i]

			hand := make([]int32, len(p.Hand))
			for j, c := range p.Hand {
				hand[j] = int32(c)
			}

			pickSecond := int32(-1)
			if t.Picks[i].IsPair() {
				pickSecond = int32(t.Picks[i].Second)
			}

			row.Players = append(row.Players, PlayerRow{
				Name:         p.Name,
				PickFirst:    int32(t.Picks[i].First),
				PickSecond:   pickSecond,
				Hand:         hand,
				Tempura:      int32(p.Plate.Tempura),
				Sashimi:      int32(p.Plate.Sashimi),
				Dumplings:    int32(p.Plate.Dumplings),
				MakiRolls:    int32(p.Plate.MakiRolls),
				NigiriScore:  int32(p.Plate.NigiriScore),
				UnusedWasabi: int32(p.Plate.UnusedWasabi),
				Chopsticks:   int32(p.Plate.Chopsticks),
				Score:        int32(p.Score),
				Puddings:     int32(p.Puddings),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// Picks reconstructs the row's picks in seat order.
func (r *TurnRow) Picks() []game.Pick {
	picks := make([]game.Pick, len(r.Players))
	for i, p := range r.Players {
		if p.PickSecond >= 0 {
			picks[i] = game.PickTwo(game.Card(p.PickFirst), game.Card(p.PickSecond))
		} else {
			picks[i] = game.PickOne(game.Card(p.PickFirst))
		}
	}
	return picks
}

// WriteGameParquet writes one game's rows to outPath. The file appears
// atomically: it is written to a temp path and renamed into place.
func WriteGameParquet(outPath string, rows []TurnRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "turn_row_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// WriteBatchParquetAtomic writes a batch of games into outDir under a
// unique name, staging in outDir/tmp so readers globbing the directory
// never observe a partially-written file.
func WriteBatchParquetAtomic(outDir string, rows []TurnRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "turn_row_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadGameParquet loads an archive file back into rows.
func ReadGameParquet(path string) ([]TurnRow, error) {
	rows, err := parquet.ReadFile[TurnRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
