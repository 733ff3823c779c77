// Package transport holds the contracts shared by the interactive front ends.
package transport

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
)

// View abstracts display/output operations
type View interface {
	DisplayBoard(b board.Board)
	ShowMessage(msg string)
	ShowError(err error)
	ShowMove(ply game.Ply)
	ShowCheck(side core.Color)
	ShowStatus(move string, status game.Status)
	ShowLegalMoves(from board.Position, moves []board.Move)
	ShowGameHistory(history []game.Ply, placement string, state core.State)
	ShowGameOver(state core.State)
	ShowHelp()
	ShowWelcome()

	// Prompt renders the input prompt for g, which is nil without a game
	Prompt(g *game.Game) string
	SetTheme(name string) error
	ToggleVerbose() bool
}
