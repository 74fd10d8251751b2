package main

import (
	"github.com/okonomi/sushigo/game"
)

// The DuckDB driver surfaces LIST(STRUCT(...)) columns as []any of
// map[string]any. These helpers decode the players column defensively;
// a malformed row yields an empty seat list rather than a panic.

func asTurnPlayers(v any) []TurnPlayer {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	players := make([]TurnPlayer, 0, len(list))
	for _, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}

		p := TurnPlayer{
			Name:         asString(m["name"]),
			Hand:         cardNames(asInt64Slice(m["hand"])),
			Tempura:      int(asInt64(m["tempura"])),
			Sashimi:      int(asInt64(m["sashimi"])),
			Dumplings:    int(asInt64(m["dumplings"])),
			MakiRolls:    int(asInt64(m["maki_rolls"])),
			NigiriScore:  int(asInt64(m["nigiri_score"])),
			UnusedWasabi: int(asInt64(m["unused_wasabi"])),
			Chopsticks:   int(asInt64(m["chopsticks"])),
			Score:        int(asInt64(m["score"])),
			Puddings:     int(asInt64(m["puddings"])),
		}

		p.Pick = []string{game.Card(asInt64(m["pick_first"])).String()}
		if second := asInt64(m["pick_second"]); second >= 0 {
			p.Pick = append(p.Pick, game.Card(second).String())
		}

		players = append(players, p)
	}
	return players
}

func cardNames(ids []int64) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = game.Card(id).String()
	}
	return names
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asInt64Slice(v any) []int64 {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, len(list))
	for i, it := range list {
		out[i] = asInt64(it)
	}
	return out
}
