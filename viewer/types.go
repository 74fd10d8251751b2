package main

// GameSummary describes one archived game for the list endpoint.
type GameSummary struct {
	GameID    string   `json:"game_id"`
	Rounds    int32    `json:"rounds"`
	TurnCount int32    `json:"turn_count"`
	Players   []string `json:"players"`
	Scores    []int    `json:"scores"`
	Puddings  []int    `json:"puddings"`
	Winner    string   `json:"winner"`
	File      string   `json:"file,omitempty"`
}

// GamesResponse is the paginated games list.
type GamesResponse struct {
	Games  []GameSummary `json:"games"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Turn is one archived turn, decoded for the API. Cards are sent by
// name so the frontend never needs the numeric encoding.
type Turn struct {
	GameID      string       `json:"game_id"`
	Round       int32        `json:"round"`
	Turn        int32        `json:"turn"`
	PassForward bool         `json:"pass_forward"`
	Players     []TurnPlayer `json:"players"`
}

// TurnPlayer is one seat's state after the turn's picks were applied.
type TurnPlayer struct {
	Name string   `json:"name"`
	Pick []string `json:"pick"`
	Hand []string `json:"hand"`

	Tempura      int `json:"tempura"`
	Sashimi      int `json:"sashimi"`
	Dumplings    int `json:"dumplings"`
	MakiRolls    int `json:"maki_rolls"`
	NigiriScore  int `json:"nigiri_score"`
	UnusedWasabi int `json:"unused_wasabi"`
	Chopsticks   int `json:"chopsticks"`

	Score    int `json:"score"`
	Puddings int `json:"puddings"`
}

// GameResponse is one game's full turn history.
type GameResponse struct {
	GameID string `json:"game_id"`
	Turns  []Turn `json:"turns"`
}

// StandingRow is one agent's Elo standing.
type StandingRow struct {
	Agent   string  `json:"agent"`
	Rating  float64 `json:"rating"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// StatsResponse summarizes the archive.
type StatsResponse struct {
	Games   int64 `json:"games"`
	Turns   int64 `json:"turns"`
	Players int64 `json:"players"`
}
