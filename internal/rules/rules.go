// Package rules implements the per-piece move patterns: the shared baseline
// precondition plus each kind's geometry and path obstruction test.
// Patterns never consider whether the mover's own king ends up attacked.
package rules

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Pattern reports whether the piece on m.From may move to m.To by its own
// movement rule against the current board.
func Pattern(b *board.Board, m board.Move) bool {
	if !baseline(b, m) {
		return false
	}

	piece := b.Cell(m.From.Row, m.From.Col)
	switch piece.Kind {
	case board.King:
		return kingRule(m)
	case board.Knight:
		return knightRule(m)
	case board.Bishop:
		return bishopRule(b, m)
	case board.Rook:
		return rookRule(b, m)
	case board.Queen:
		return bishopRule(b, m) || rookRule(b, m)
	case board.Pawn:
		return pawnRule(b, m, piece.Owner)
	default:
		return false
	}
}

// Attacks is the pattern-only attack test: the piece on from could move onto
// target by geometry alone.
func Attacks(b *board.Board, from, target board.Position) bool {
	return Pattern(b, board.Move{From: from, To: target})
}

// baseline rejects null moves, empty sources and self-capture
func baseline(b *board.Board, m board.Move) bool {
	if !m.Valid() || m.From == m.To {
		return false
	}

	src := b.Cell(m.From.Row, m.From.Col)
	if src.IsEmpty() {
		return false
	}

	dst := b.Cell(m.To.Row, m.To.Col)
	return dst.IsEmpty() || dst.Owner != src.Owner
}

func kingRule(m board.Move) bool {
	dr, dc := m.Delta()
	return abs(dr) <= 1 && abs(dc) <= 1
}

func knightRule(m board.Move) bool {
	dr, dc := m.Delta()
	dr, dc = abs(dr), abs(dc)
	return (dr == 2 && dc == 1) || (dr == 1 && dc == 2)
}

func bishopRule(b *board.Board, m board.Move) bool {
	dr, dc := m.Delta()
	if dr == 0 || abs(dr) != abs(dc) {
		return false
	}
	return pathClear(b, m)
}

func rookRule(b *board.Board, m board.Move) bool {
	dr, dc := m.Delta()
	if (dr != 0) == (dc != 0) {
		return false
	}
	return pathClear(b, m)
}

// forward returns the row step a pawn of owner advances by
func forward(owner core.Color) int {
	if owner == core.ColorWhite {
		return -1
	}
	return 1
}

// startRow returns the row an owner's pawns begin on
func startRow(owner core.Color) int {
	if owner == core.ColorWhite {
		return board.Size - 2
	}
	return 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
