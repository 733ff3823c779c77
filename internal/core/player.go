package core

import (
	"github.com/google/uuid"
)

// Player is a participant seated on one side of a game
type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// NewPlayer seats a new participant with a fresh ID
func NewPlayer(color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
	}
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}
