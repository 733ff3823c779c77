package game

import (
	"errors"
	"fmt"

	"chessrules/internal/board"
)

var (
	ErrInvalidCoordinate = errors.New("coordinate outside the board")
	ErrNoPieceAtSource   = errors.New("no piece to move")
	ErrPatternInvalid    = errors.New("piece cannot move that way")
	ErrMovedIntoCheck    = errors.New("move places own king in check")
	ErrLeftInCheck       = errors.New("move leaves own king in check")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNothingToUndo     = errors.New("no moves to undo")
	ErrGameOver          = errors.New("game is over")
)

// MoveError reports why a move was refused. It unwraps to the sentinel
// matching its Status.
type MoveError struct {
	Move   board.Move
	Status Status
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s: %v", e.Move, e.Status.Err())
}

func (e *MoveError) Unwrap() error {
	return e.Status.Err()
}
