package game

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/rules"
)

// Check runs the layered legality pipeline and returns its diagnostic,
// stopping at the first failing layer. The board is left exactly as it was.
func (g *Game) Check(m board.Move) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastStatus = g.check(m)
	return g.lastStatus
}

// IsLegalMove reports whether m passes the whole pipeline. The reason for a
// refusal is available from LastStatus.
func (g *Game) IsLegalMove(m board.Move) bool {
	return g.Check(m) == StatusOK
}

// LastStatus returns the diagnostic of the latest Check or IsLegalMove call
func (g *Game) LastStatus() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastStatus
}

func (g *Game) check(m board.Move) Status {
	if !m.Valid() {
		return StatusInvalidCoordinate
	}

	piece := g.board.Cell(m.From.Row, m.From.Col)
	if piece.IsEmpty() {
		return StatusNoPieceAtSource
	}

	if !rules.Pattern(&g.board, m) {
		return StatusPatternInvalid
	}

	mover := piece.Owner
	wasInCheck := g.inCheck(mover)

	var inCheckAfter bool
	g.simulate(m, func() {
		inCheckAfter = g.inCheck(mover)
	})

	switch {
	case !inCheckAfter:
		return StatusOK
	case wasInCheck:
		return StatusLeftInCheck
	default:
		return StatusMovedIntoCheck
	}
}

// simulate applies m in place, runs eval and restores the two touched cells
// on every exit path, including a panic inside eval.
func (g *Game) simulate(m board.Move, eval func()) {
	from := g.board.Cell(m.From.Row, m.From.Col)
	to := g.board.Cell(m.To.Row, m.To.Col)

	defer func() {
		errFrom := g.board.Set(m.From, from)
		errTo := g.board.Set(m.To, to)
		if errFrom != nil || errTo != nil {
			panic(fmt.Sprintf("game: simulation of %s failed to restore board: %v %v", m, errFrom, errTo))
		}
	}()

	g.apply(m)
	eval()
}

// IsInCheck reports whether any opponent piece could move onto color's king
// by its movement pattern. A side without a king is never in check.
func (g *Game) IsInCheck(color core.Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inCheck(color)
}

func (g *Game) inCheck(color core.Color) bool {
	king, ok := g.board.FindKing(color)
	if !ok {
		return false
	}

	opponent := color.Opponent()
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			p := g.board.Cell(r, c)
			if p.IsEmpty() || p.Owner != opponent {
				continue
			}
			if rules.Attacks(&g.board, board.Position{Row: r, Col: c}, king) {
				return true
			}
		}
	}
	return false
}

// IsGameOver reports checkmate of the side to move. A side that is not in
// check is never reported as finished, so stalemate goes undetected.
func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gameOver()
}

func (g *Game) gameOver() bool {
	if !g.inCheck(g.current) {
		return false
	}

	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			p := g.board.Cell(r, c)
			if p.IsEmpty() || p.Owner != g.current {
				continue
			}
			from := board.Position{Row: r, Col: c}
			if len(g.legalFrom(from, 1)) > 0 {
				return false
			}
		}
	}
	return true
}

// LegalMoves lists every legal destination for the piece on from
func (g *Game) LegalMoves(from board.Position) []board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !from.Valid() {
		return nil
	}
	return g.legalFrom(from, 0)
}

// legalFrom collects legal moves from a cell, stopping after limit moves
// when limit is positive
func (g *Game) legalFrom(from board.Position, limit int) []board.Move {
	var moves []board.Move
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			m := board.Move{From: from, To: board.Position{Row: r, Col: c}}
			if g.check(m) != StatusOK {
				continue
			}
			moves = append(moves, m)
			if limit > 0 && len(moves) >= limit {
				return moves
			}
		}
	}
	return moves
}
