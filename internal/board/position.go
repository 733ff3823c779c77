package board

import "fmt"

// Size is the edge length of the board
const Size = 8

// Position addresses a cell. Row 0 is the eighth rank, column 0 the a-file.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// String renders the position as a square name such as "e2"
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+p.Col, '8'-p.Row)
}

// ParseSquare converts a square name such as "e2" to a Position
func ParseSquare(square string) (Position, error) {
	if len(square) != 2 {
		return Position{}, fmt.Errorf("invalid square %q: %w", square, ErrOutOfBounds)
	}
	file, rank := square[0], square[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Position{}, fmt.Errorf("invalid square %q: %w", square, ErrOutOfBounds)
	}
	return Position{Row: int('8' - rank), Col: int(file - 'a')}, nil
}

// Move is a from/to transition. It carries no validity of its own.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func NewMove(fromRow, fromCol, toRow, toCol int) Move {
	return Move{
		From: Position{Row: fromRow, Col: fromCol},
		To:   Position{Row: toRow, Col: toCol},
	}
}

// ParseMove reads coordinate notation such as "e2e4"
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return Move{}, fmt.Errorf("invalid move %q: expected 4 characters like e2e4", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

func (m Move) Valid() bool {
	return m.From.Valid() && m.To.Valid()
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// Delta returns the row and column displacement of the move
func (m Move) Delta() (dr, dc int) {
	return m.To.Row - m.From.Row, m.To.Col - m.From.Col
}
