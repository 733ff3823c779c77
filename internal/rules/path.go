package rules

import "chessrules/internal/board"

// pathClear walks the straight or diagonal line from m.From toward m.To and
// reports whether every cell strictly between the two ends is empty. The
// caller guarantees the displacement is a straight or diagonal line.
func pathClear(b *board.Board, m board.Move) bool {
	dr, dc := m.Delta()
	rowStep, colStep := sign(dr), sign(dc)

	row := m.From.Row + rowStep
	col := m.From.Col + colStep

	for row != m.To.Row || col != m.To.Col {
		if !b.Cell(row, col).IsEmpty() {
			return false
		}
		row += rowStep
		col += colStep
	}

	return true
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
