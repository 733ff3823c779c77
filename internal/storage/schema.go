package storage

import "time"

const (
	ResultOngoing   = "ongoing"
	ResultWhiteWins = "white wins"
	ResultBlackWins = "black wins"
)

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID           string     `db:"game_id" json:"gameId"`
	InitialPlacement string     `db:"initial_placement" json:"initialPlacement"`
	StartingTurn     string     `db:"starting_turn" json:"startingTurn"` // "w" or "b"
	WhitePlayerID    string     `db:"white_player_id" json:"whitePlayerId"`
	BlackPlayerID    string     `db:"black_player_id" json:"blackPlayerId"`
	StartTimeUTC     time.Time  `db:"start_time_utc" json:"startTimeUtc"`
	Result           string     `db:"result" json:"result"`
	EndTimeUTC       *time.Time `db:"end_time_utc" json:"endTimeUtc,omitempty"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID             int64     `db:"move_id" json:"-"`
	GameID             string    `db:"game_id" json:"gameId"`
	MoveNumber         int       `db:"move_number" json:"moveNumber"`
	Move               string    `db:"move" json:"move"`
	PlacementAfterMove string    `db:"placement_after_move" json:"placementAfterMove"`
	PlayerColor        string    `db:"player_color" json:"playerColor"` // "w" or "b"
	Captured           string    `db:"captured" json:"captured,omitempty"`
	Promoted           bool      `db:"promoted" json:"promoted,omitempty"`
	MoveTimeUTC        time.Time `db:"move_time_utc" json:"moveTimeUtc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_placement TEXT NOT NULL,
	starting_turn TEXT NOT NULL CHECK(starting_turn IN ('w', 'b')),
	white_player_id TEXT NOT NULL,
	black_player_id TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	result TEXT NOT NULL DEFAULT 'ongoing',
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	placement_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	captured TEXT NOT NULL DEFAULT '',
	promoted INTEGER NOT NULL DEFAULT 0,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
`
