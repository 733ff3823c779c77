package rules

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// pawnRule accepts forward advances onto empty cells (two steps only from the
// start row) and one-step diagonal captures.
func pawnRule(b *board.Board, m board.Move, owner core.Color) bool {
	dir := forward(owner)
	dr, dc := m.Delta()
	dst := b.Cell(m.To.Row, m.To.Col)

	// diagonal capture, never onto an empty cell
	if dr == dir && abs(dc) == 1 {
		return !dst.IsEmpty()
	}

	if dc != 0 {
		return false
	}

	switch dr {
	case dir:
		return dst.IsEmpty()
	case 2 * dir:
		if m.From.Row != startRow(owner) {
			return false
		}
		between := b.Cell(m.From.Row+dir, m.From.Col)
		return between.IsEmpty() && dst.IsEmpty()
	default:
		return false
	}
}

// PromotionRow returns the farthest row from owner's own starting side
func PromotionRow(owner core.Color) int {
	if owner == core.ColorWhite {
		return 0
	}
	return board.Size - 1
}
