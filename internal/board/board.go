package board

import (
	"errors"
	"fmt"
	"strings"

	"chessrules/internal/core"
)

const (
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
)

// ErrOutOfBounds is returned for coordinates outside the 8x8 grid
var ErrOutOfBounds = errors.New("coordinate out of bounds")

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is an 8x8 grid of cells, each holding at most one piece.
// It is a value type: assigning a Board copies every cell.
type Board struct {
	squares [Size][Size]Piece
}

// NewStandard returns the standard starting layout. Black occupies rows 0-1,
// white rows 6-7.
func NewStandard() Board {
	var b Board
	for c := 0; c < Size; c++ {
		b.squares[0][c] = Piece{Kind: backRank[c], Owner: core.ColorBlack}
		b.squares[1][c] = Piece{Kind: Pawn, Owner: core.ColorBlack}
		b.squares[6][c] = Piece{Kind: Pawn, Owner: core.ColorWhite}
		b.squares[7][c] = Piece{Kind: backRank[c], Owner: core.ColorWhite}
	}
	return b
}

func (b *Board) Rows() int    { return Size }
func (b *Board) Columns() int { return Size }

// At reads the cell at pos
func (b *Board) At(pos Position) (Piece, error) {
	if !pos.Valid() {
		return Piece{}, fmt.Errorf("read %s: %w", pos, ErrOutOfBounds)
	}
	return b.squares[pos.Row][pos.Col], nil
}

// Set overwrites the cell at pos without any legality check
func (b *Board) Set(pos Position, p Piece) error {
	if !pos.Valid() {
		return fmt.Errorf("write %s: %w", pos, ErrOutOfBounds)
	}
	b.squares[pos.Row][pos.Col] = p
	return nil
}

// Cell reads a cell the caller already knows is in range
func (b *Board) Cell(row, col int) Piece {
	return b.squares[row][col]
}

// FindKing scans for color's king. The first one in row-major order wins.
func (b *Board) FindKing(color core.Color) (Position, bool) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := b.squares[r][c]
			if p.Kind == King && p.Owner == color {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// ParsePlacement builds a board from the piece-placement field of a FEN string
func ParsePlacement(placement string) (Board, error) {
	var b Board

	ranks := strings.Split(strings.TrimSpace(placement), "/")
	if len(ranks) != Size {
		return b, fmt.Errorf("invalid placement: expected 8 ranks, got %d", len(ranks))
	}

	for r := 0; r < Size; r++ {
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			ch := ranks[r][i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= Size {
				return b, fmt.Errorf("invalid placement: too many pieces in rank %d", Size-r)
			}
			p, ok := PieceFromLetter(ch)
			if !ok {
				return b, fmt.Errorf("invalid placement: unknown piece %q", ch)
			}
			b.squares[r][file] = p
			file++
		}
		if file != Size {
			return b, fmt.Errorf("invalid placement: rank %d has %d files", Size-r, file)
		}
	}

	return b, nil
}

// Placement renders the piece-placement field of a FEN string
func (b *Board) Placement() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		empty := 0
		for c := 0; c < Size; c++ {
			p := b.squares[r][c]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < Size-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", Size-r))
		for c := 0; c < Size; c++ {
			piece := b.squares[r][c]

			if piece.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece.Letter()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", Size-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
