package core

// Request types

type CreateGameRequest struct {
	Placement string `json:"placement,omitempty" validate:"omitempty,max=100"`
	Turn      string `json:"turn,omitempty" validate:"omitempty,oneof=w b white black"`
}

type MoveRequest struct {
	Move     string `json:"move" validate:"required,len=4"` // coordinate notation, e.g. "e2e4"
	PlayerID string `json:"playerId,omitempty" validate:"omitempty,uuid"`
}

type CheckRequest struct {
	Move string `json:"move" validate:"required,len=4"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID    string          `json:"gameId"`
	Placement string          `json:"placement"`
	Turn      string          `json:"turn"`  // "w" or "b"
	State     string          `json:"state"` // "ongoing", "white wins", "black wins"
	InCheck   bool            `json:"inCheck"`
	Moves     []string        `json:"moves"`
	Players   PlayersResponse `json:"players"`
	LastMove  *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Captured    string `json:"captured,omitempty"`
	Promoted    bool   `json:"promoted,omitempty"`
}

type CheckResponse struct {
	Move   string `json:"move"`
	Legal  bool   `json:"legal"`
	Status string `json:"status"`
}

type LegalMovesResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type BoardResponse struct {
	Placement string `json:"placement"`
	Board     string `json:"board"` // ASCII representation
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"` // "ok", "degraded" or "disabled"
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
