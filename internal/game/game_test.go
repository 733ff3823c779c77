package game

import (
	"errors"
	"sync"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

func mustGame(t *testing.T, placement string, turn core.Color) *Game {
	t.Helper()
	g, err := FromPlacement(placement, turn)
	if err != nil {
		t.Fatalf("FromPlacement(%q) error: %v", placement, err)
	}
	return g
}

func mustMove(t *testing.T, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s)
	if err != nil {
		t.Fatalf("ParseMove(%q) error: %v", s, err)
	}
	return m
}

func TestNewGame(t *testing.T) {
	g := New()
	if g.CurrentPlayer() != core.ColorWhite {
		t.Errorf("CurrentPlayer() = %v, want white", g.CurrentPlayer())
	}
	b := g.Board()
	if got := b.Placement(); got != board.StartingPlacement {
		t.Errorf("Placement() = %q, want starting layout", got)
	}
	if g.IsInCheck(core.ColorWhite) || g.IsInCheck(core.ColorBlack) {
		t.Error("nobody should be in check at the start")
	}
	if g.IsGameOver() {
		t.Error("starting position reported as game over")
	}
	if g.State() != core.StateOngoing {
		t.Errorf("State() = %v, want ongoing", g.State())
	}

	g.SetNextPlayer()
	if g.CurrentPlayer() != core.ColorBlack {
		t.Errorf("after SetNextPlayer CurrentPlayer() = %v, want black", g.CurrentPlayer())
	}
}

func TestFromBoardDefaultsToWhite(t *testing.T) {
	g := FromBoard(board.NewStandard(), core.Color(0))
	if g.CurrentPlayer() != core.ColorWhite {
		t.Errorf("CurrentPlayer() = %v, want white", g.CurrentPlayer())
	}
}

func TestCheckStatuses(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		turn      core.Color
		move      board.Move
		want      Status
	}{
		{"opening pawn", board.StartingPlacement, core.ColorWhite, board.NewMove(6, 4, 4, 4), StatusOK},
		{"off board", board.StartingPlacement, core.ColorWhite, board.NewMove(6, 4, 8, 4), StatusInvalidCoordinate},
		{"negative source", board.StartingPlacement, core.ColorWhite, board.NewMove(-1, 4, 4, 4), StatusInvalidCoordinate},
		{"empty source", board.StartingPlacement, core.ColorWhite, board.NewMove(4, 4, 3, 4), StatusNoPieceAtSource},
		{"bad pattern", board.StartingPlacement, core.ColorWhite, board.NewMove(7, 0, 5, 1), StatusPatternInvalid},
		{"king steps into rook file", "3r4/8/8/8/8/8/8/4K3", core.ColorWhite, board.NewMove(7, 4, 7, 3), StatusMovedIntoCheck},
		{"king steps aside", "3r4/8/8/8/8/8/8/4K3", core.ColorWhite, board.NewMove(7, 4, 7, 5), StatusOK},
		{"pinned bishop", "4r3/8/8/8/8/8/4B3/4K3", core.ColorWhite, board.NewMove(6, 4, 5, 3), StatusMovedIntoCheck},
		{"ignores check", "4r3/8/8/8/8/8/8/4K2R", core.ColorWhite, board.NewMove(7, 7, 6, 7), StatusLeftInCheck},
		{"escapes check", "4r3/8/8/8/8/8/8/4K2R", core.ColorWhite, board.NewMove(7, 4, 7, 3), StatusOK},
		{"unrelated rook move", "4r3/8/8/8/8/8/8/R3K3", core.ColorWhite, board.NewMove(7, 0, 6, 0), StatusLeftInCheck},
		{"blocks check", "4r3/8/8/8/8/8/R7/4K3", core.ColorWhite, board.NewMove(6, 0, 6, 4), StatusOK},
		{"captures checker", "4r2R/8/8/8/8/8/8/4K3", core.ColorWhite, board.NewMove(0, 7, 0, 4), StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, tt.placement, tt.turn)
			if got := g.Check(tt.move); got != tt.want {
				t.Errorf("Check(%s) = %v, want %v", tt.move, got, tt.want)
			}
			if got := g.LastStatus(); got != tt.want {
				t.Errorf("LastStatus() = %v, want %v", got, tt.want)
			}
			if got := g.IsLegalMove(tt.move); got != (tt.want == StatusOK) {
				t.Errorf("IsLegalMove(%s) = %v, want %v", tt.move, got, tt.want == StatusOK)
			}
		})
	}
}

// Every evaluated move, legal or not, must leave the position untouched.
func TestCheckRestoresBoard(t *testing.T) {
	placements := []string{
		board.StartingPlacement,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R",
		"4r3/8/8/8/8/8/4B3/4K3",
		"R3k3/1R6/8/8/8/8/8/4K3",
	}
	for _, placement := range placements {
		g := mustGame(t, placement, core.ColorWhite)
		before := g.Board()

		for fr := 0; fr < board.Size; fr++ {
			for fc := 0; fc < board.Size; fc++ {
				for tr := 0; tr < board.Size; tr++ {
					for tc := 0; tc < board.Size; tc++ {
						g.Check(board.NewMove(fr, fc, tr, tc))
					}
				}
			}
		}

		after := g.Board()
		if before.Placement() != after.Placement() {
			t.Errorf("%s: board changed after evaluation:\nbefore %s\nafter  %s", placement, before.Placement(), after.Placement())
		}
		if g.CurrentPlayer() != core.ColorWhite {
			t.Errorf("%s: evaluation changed the side to move", placement)
		}
	}
}

func TestIsInCheck(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		color     core.Color
		want      bool
	}{
		{"rook on open file", "4k3/8/8/8/8/8/8/4R2K", core.ColorBlack, true},
		{"rook blocked", "4k3/8/4p3/8/8/8/8/4R2K", core.ColorBlack, false},
		{"knight", "4k3/8/3N4/8/8/8/8/7K", core.ColorBlack, true},
		{"white pawn diagonal", "8/8/8/8/8/3k4/4P3/7K", core.ColorBlack, true},
		{"white pawn straight ahead", "8/8/8/8/8/4k3/4P3/7K", core.ColorBlack, false},
		{"black pawn diagonal", "8/8/8/8/8/8/3p4/4K3", core.ColorWhite, true},
		{"no king", "8/8/8/8/8/8/8/4R3", core.ColorBlack, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGame(t, tt.placement, core.ColorWhite)
			if got := g.IsInCheck(tt.color); got != tt.want {
				t.Errorf("IsInCheck(%s) = %v, want %v", tt.color.Name(), got, tt.want)
			}
		})
	}
}

func TestCheckmateTwoRooks(t *testing.T) {
	g := mustGame(t, "R3k3/1R6/8/8/8/8/8/4K3", core.ColorBlack)

	if !g.IsInCheck(core.ColorBlack) {
		t.Fatal("black king on e8 should be in check from a8")
	}
	if !g.IsGameOver() {
		t.Fatal("IsGameOver() = false, want true")
	}
	if got := g.State(); got != core.StateWhiteWins {
		t.Errorf("State() = %v, want white wins", got)
	}

	king, _ := board.ParseSquare("e8")
	if moves := g.LegalMoves(king); len(moves) != 0 {
		t.Errorf("LegalMoves(e8) = %v, want none", moves)
	}

	if _, err := g.Play(mustMove(t, "e8f8")); !errors.Is(err, ErrGameOver) {
		t.Errorf("Play after mate error = %v, want ErrGameOver", err)
	}
}

func TestGameOverNeedsCheck(t *testing.T) {
	// black to move with no legal move and no check
	g := mustGame(t, "k7/8/1Q6/8/8/8/8/7K", core.ColorBlack)
	if g.IsInCheck(core.ColorBlack) {
		t.Fatal("black should not be in check")
	}
	if g.IsGameOver() {
		t.Error("IsGameOver() = true without check")
	}

	// in check but the king can walk away
	g = mustGame(t, "4k3/8/8/8/8/8/8/4R2K", core.ColorBlack)
	if g.IsGameOver() {
		t.Error("IsGameOver() = true with escape squares available")
	}
}

func TestPlayTurnEnforcement(t *testing.T) {
	g := New()

	if _, err := g.Play(mustMove(t, "e7e5")); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("black moving first error = %v, want ErrNotYourTurn", err)
	}

	if _, err := g.Play(mustMove(t, "e2e4")); err != nil {
		t.Fatalf("Play(e2e4) error: %v", err)
	}
	if g.CurrentPlayer() != core.ColorBlack {
		t.Errorf("CurrentPlayer() = %v, want black", g.CurrentPlayer())
	}

	if _, err := g.Play(mustMove(t, "d2d4")); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("white moving twice error = %v, want ErrNotYourTurn", err)
	}
}

func TestPlayRejections(t *testing.T) {
	g := New()

	_, err := g.Play(mustMove(t, "e4e5"))
	var me *MoveError
	if !errors.As(err, &me) {
		t.Fatalf("Play(e4e5) error = %v, want *MoveError", err)
	}
	if me.Status != StatusNoPieceAtSource || !errors.Is(err, ErrNoPieceAtSource) {
		t.Errorf("status = %v, want no_piece_at_source", me.Status)
	}

	_, err = g.Play(mustMove(t, "e2e5"))
	if !errors.Is(err, ErrPatternInvalid) {
		t.Errorf("Play(e2e5) error = %v, want ErrPatternInvalid", err)
	}

	_, err = g.Play(board.NewMove(6, 4, 9, 4))
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("off-board move error = %v, want ErrInvalidCoordinate", err)
	}

	if g.MoveCount() != 0 {
		t.Errorf("MoveCount() = %d after rejected moves, want 0", g.MoveCount())
	}
}

func TestPromotion(t *testing.T) {
	g := mustGame(t, "7k/P7/8/8/8/8/8/4K3", core.ColorWhite)

	ply, err := g.Play(mustMove(t, "a7a8"))
	if err != nil {
		t.Fatalf("Play(a7a8) error: %v", err)
	}
	if !ply.Promoted {
		t.Error("ply.Promoted = false, want true")
	}

	a8, _ := board.ParseSquare("a8")
	got, err := g.PieceAt(a8)
	if err != nil {
		t.Fatalf("PieceAt error: %v", err)
	}
	if diff := cmp.Diff(board.NewPiece(board.Queen, core.ColorWhite), got); diff != "" {
		t.Errorf("piece on a8 mismatch (-want +got):\n%s", diff)
	}

	// a queen on a8 sees h8 along the rank; a pawn would not
	if !g.IsInCheck(core.ColorBlack) {
		t.Error("promoted queen should give check along rank 8")
	}

	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	a7, _ := board.ParseSquare("a7")
	if p, _ := g.PieceAt(a7); p != board.NewPiece(board.Pawn, core.ColorWhite) {
		t.Errorf("after undo a7 = %v, want white pawn", p)
	}
	if p, _ := g.PieceAt(a8); !p.IsEmpty() {
		t.Errorf("after undo a8 = %v, want empty", p)
	}
}

func TestBlackPromotion(t *testing.T) {
	g := mustGame(t, "4k3/8/8/8/8/8/6p1/K7", core.ColorBlack)
	ply, err := g.Play(mustMove(t, "g2g1"))
	if err != nil {
		t.Fatalf("Play(g2g1) error: %v", err)
	}
	if !ply.Promoted {
		t.Error("black pawn on rank 1 was not promoted")
	}
	if !g.IsInCheck(core.ColorWhite) {
		t.Error("queen on g1 should check the king on a1")
	}
}

func TestUndoRoundTrip(t *testing.T) {
	g := New()
	for _, s := range []string{"e2e4", "d7d5", "e4d5", "d8d5"} {
		if _, err := g.Play(mustMove(t, s)); err != nil {
			t.Fatalf("Play(%s) error: %v", s, err)
		}
	}

	snap := g.Snapshot()
	if diff := cmp.Diff([]string{"e2e4", "d7d5", "e4d5", "d8d5"}, snap.Moves); diff != "" {
		t.Errorf("Snapshot().Moves mismatch (-want +got):\n%s", diff)
	}

	history := g.History()
	if len(history) != 4 {
		t.Fatalf("len(History()) = %d, want 4", len(history))
	}
	if history[2].Captured != board.NewPiece(board.Pawn, core.ColorBlack) {
		t.Errorf("third ply captured %v, want black pawn", history[2].Captured)
	}

	for i := 0; i < 4; i++ {
		if _, err := g.Undo(); err != nil {
			t.Fatalf("Undo %d error: %v", i+1, err)
		}
	}

	b := g.Board()
	if got := b.Placement(); got != board.StartingPlacement {
		t.Errorf("after full undo Placement() = %q", got)
	}
	if g.CurrentPlayer() != core.ColorWhite {
		t.Errorf("after full undo CurrentPlayer() = %v, want white", g.CurrentPlayer())
	}
	if _, err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty history error = %v, want ErrNothingToUndo", err)
	}
}

func TestUndoRestoresMoverForResumedGame(t *testing.T) {
	g := mustGame(t, "4k3/8/8/8/8/8/8/4K3", core.ColorBlack)
	if _, err := g.Play(mustMove(t, "e8d8")); err != nil {
		t.Fatalf("Play error: %v", err)
	}
	if _, err := g.Undo(); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if g.CurrentPlayer() != core.ColorBlack {
		t.Errorf("CurrentPlayer() = %v, want black", g.CurrentPlayer())
	}
}

func TestApplyMoveIsUnchecked(t *testing.T) {
	g := New()

	// a knight jumping like a rook is committed as-is
	ply, err := g.ApplyMove(mustMove(t, "b1b4"))
	if err != nil {
		t.Fatalf("ApplyMove error: %v", err)
	}
	if ply.Moved != board.NewPiece(board.Knight, core.ColorWhite) {
		t.Errorf("ply.Moved = %v, want white knight", ply.Moved)
	}
	if g.CurrentPlayer() != core.ColorWhite {
		t.Error("ApplyMove must not change the side to move")
	}
	if g.MoveCount() != 0 {
		t.Error("ApplyMove must not record history")
	}

	if _, err := g.ApplyMove(board.NewMove(0, 0, 0, 8)); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("ApplyMove off board error = %v, want ErrInvalidCoordinate", err)
	}
}

func TestSetPieceAndPieceAt(t *testing.T) {
	g := New()
	pos := board.Position{Row: 4, Col: 4}
	q := board.NewPiece(board.Queen, core.ColorBlack)
	if err := g.SetPiece(pos, q); err != nil {
		t.Fatalf("SetPiece error: %v", err)
	}
	if got, _ := g.PieceAt(pos); got != q {
		t.Errorf("PieceAt = %v, want %v", got, q)
	}

	if err := g.SetPiece(board.Position{Row: 8, Col: 0}, q); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("SetPiece off board error = %v, want ErrInvalidCoordinate", err)
	}
	if _, err := g.PieceAt(board.Position{Row: 0, Col: -1}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("PieceAt off board error = %v, want ErrInvalidCoordinate", err)
	}
}

func TestLegalMoves(t *testing.T) {
	g := New()
	tests := []struct {
		square string
		want   []string
	}{
		{"b1", []string{"b1a3", "b1c3"}},
		{"e2", []string{"e2e4", "e2e3"}},
		{"a1", nil},
		{"e4", nil},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			from, _ := board.ParseSquare(tt.square)
			var got []string
			for _, m := range g.LegalMoves(from) {
				got = append(got, m.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LegalMoves(%s) mismatch (-want +got):\n%s", tt.square, diff)
			}
		})
	}

	if got := g.LegalMoves(board.Position{Row: -1}); got != nil {
		t.Errorf("LegalMoves(off board) = %v, want nil", got)
	}
}

func TestConcurrentQueries(t *testing.T) {
	g := New()
	start := g.Board()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for fr := 0; fr < board.Size; fr++ {
				for tr := 0; tr < board.Size; tr++ {
					g.Check(board.NewMove(fr, i, tr, (i+tr)%board.Size))
					g.IsInCheck(core.ColorWhite)
					g.IsGameOver()
				}
			}
		}(i)
	}
	wg.Wait()

	end := g.Board()
	if start.Placement() != end.Placement() {
		t.Errorf("concurrent evaluation corrupted the board: %s", end.Placement())
	}
}
