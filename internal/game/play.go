package game

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/rules"
)

// Play commits m for the side to move. It refuses moves once the game is
// over, moves of the wrong color and anything the legality pipeline
// rejects. A pawn reaching the far rank becomes a queen.
func (g *Game) Play(m board.Move) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gameOver() {
		return Ply{}, ErrGameOver
	}

	if !m.Valid() {
		g.lastStatus = StatusInvalidCoordinate
		return Ply{}, &MoveError{Move: m, Status: StatusInvalidCoordinate}
	}

	piece := g.board.Cell(m.From.Row, m.From.Col)
	if piece.IsEmpty() {
		g.lastStatus = StatusNoPieceAtSource
		return Ply{}, &MoveError{Move: m, Status: StatusNoPieceAtSource}
	}
	if piece.Owner != g.current {
		return Ply{}, ErrNotYourTurn
	}

	g.lastStatus = g.check(m)
	if g.lastStatus != StatusOK {
		return Ply{}, &MoveError{Move: m, Status: g.lastStatus}
	}

	ply := g.apply(m)
	if ply.Moved.Kind == board.Pawn && m.To.Row == rules.PromotionRow(ply.Mover) {
		g.board.Set(m.To, board.NewPiece(board.Queen, ply.Mover))
		ply.Promoted = true
	}

	g.current = g.current.Opponent()
	g.history = append(g.history, ply)
	return ply, nil
}

// Undo takes back the last committed ply, restoring the moved piece, any
// captured piece and the side to move.
func (g *Game) Undo() (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.history)
	if n == 0 {
		return Ply{}, ErrNothingToUndo
	}

	ply := g.history[n-1]
	g.history = g.history[:n-1]

	g.board.Set(ply.Move.From, ply.Moved)
	g.board.Set(ply.Move.To, ply.Captured)
	g.current = ply.Mover
	g.lastStatus = StatusOK
	return ply, nil
}

// History returns a copy of the committed plies, oldest first
func (g *Game) History() []Ply {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Ply, len(g.history))
	copy(out, g.history)
	return out
}

func (g *Game) MoveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history)
}

// State reports whether the game is still running and, if not, who won
func (g *Game) State() core.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() core.State {
	if g.gameOver() {
		return core.WinnerState(g.current.Opponent())
	}
	return core.StateOngoing
}
