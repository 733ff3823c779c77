// Package game owns a board, the side to move and the committed move
// history. It answers legality, check and checkmate questions about the
// position it holds.
package game

import (
	"fmt"
	"sync"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Snapshot is a serializable view of a game
type Snapshot struct {
	Placement string     `json:"placement"`
	Turn      core.Color `json:"turn"`
	Moves     []string   `json:"moves"`
	State     core.State `json:"state"`
	InCheck   bool       `json:"inCheck"`
}

// Ply is one committed half-move with everything needed to take it back
type Ply struct {
	Move     board.Move  `json:"move"`
	Mover    core.Color  `json:"mover"`
	Moved    board.Piece `json:"moved"`
	Captured board.Piece `json:"captured"`
	Promoted bool        `json:"promoted"`
}

// Game is safe for concurrent use. Every exported method holds mu for its
// whole duration, including the apply/evaluate/restore legality simulation.
type Game struct {
	mu         sync.Mutex
	board      board.Board
	current    core.Color
	lastStatus Status
	history    []Ply
}

// New starts a game from the standard layout with white to move
func New() *Game {
	return FromBoard(board.NewStandard(), core.ColorWhite)
}

// FromBoard starts a game from an arbitrary position
func FromBoard(b board.Board, turn core.Color) *Game {
	if turn != core.ColorBlack {
		turn = core.ColorWhite
	}
	return &Game{
		board:   b,
		current: turn,
	}
}

// FromPlacement starts a game from a FEN piece-placement field
func FromPlacement(placement string, turn core.Color) (*Game, error) {
	b, err := board.ParsePlacement(placement)
	if err != nil {
		return nil, err
	}
	return FromBoard(b, turn), nil
}

func (g *Game) PieceAt(pos board.Position) (board.Piece, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.board.At(pos)
	if err != nil {
		return board.Piece{}, fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	return p, nil
}

// SetPiece overwrites a cell with no legality check
func (g *Game) SetPiece(pos board.Position, p board.Piece) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.board.Set(pos, p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	return nil
}

func (g *Game) CurrentPlayer() core.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// SetNextPlayer hands the turn to the other side
func (g *Game) SetNextPlayer() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = g.current.Opponent()
}

// Board returns a copy of the current position
func (g *Game) Board() board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// ApplyMove commits m unconditionally: the destination takes the source
// piece and the source is cleared. It neither checks legality nor changes
// the turn; callers wanting safety call IsLegalMove first.
func (g *Game) ApplyMove(m board.Move) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !m.Valid() {
		return Ply{}, &MoveError{Move: m, Status: StatusInvalidCoordinate}
	}
	return g.apply(m), nil
}

func (g *Game) apply(m board.Move) Ply {
	moved := g.board.Cell(m.From.Row, m.From.Col)
	ply := Ply{
		Move:     m,
		Mover:    moved.Owner,
		Moved:    moved,
		Captured: g.board.Cell(m.To.Row, m.To.Col),
	}
	g.board.Set(m.To, moved)
	g.board.Set(m.From, board.Piece{})
	return ply
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := make([]string, len(g.history))
	for i, p := range g.history {
		moves[i] = p.Move.String()
	}

	return Snapshot{
		Placement: g.board.Placement(),
		Turn:      g.current,
		Moves:     moves,
		State:     g.state(),
		InCheck:   g.inCheck(g.current),
	}
}
