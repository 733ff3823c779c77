package board

import (
	"errors"
	"strings"
	"testing"

	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

func TestNewStandard(t *testing.T) {
	b := NewStandard()

	if got := b.Placement(); got != StartingPlacement {
		t.Errorf("NewStandard().Placement() = %q, want %q", got, StartingPlacement)
	}

	tests := []struct {
		square string
		want   Piece
	}{
		{"e1", Piece{Kind: King, Owner: core.ColorWhite}},
		{"d1", Piece{Kind: Queen, Owner: core.ColorWhite}},
		{"e8", Piece{Kind: King, Owner: core.ColorBlack}},
		{"b8", Piece{Kind: Knight, Owner: core.ColorBlack}},
		{"a2", Piece{Kind: Pawn, Owner: core.ColorWhite}},
		{"h7", Piece{Kind: Pawn, Owner: core.ColorBlack}},
		{"e4", Piece{}},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			pos, err := ParseSquare(tt.square)
			if err != nil {
				t.Fatalf("ParseSquare(%q) error: %v", tt.square, err)
			}
			got, err := b.At(pos)
			if err != nil {
				t.Fatalf("At(%v) error: %v", pos, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("At(%s) mismatch (-want +got):\n%s", tt.square, diff)
			}
		})
	}

	if b.Rows() != 8 || b.Columns() != 8 {
		t.Errorf("dimensions = %dx%d, want 8x8", b.Rows(), b.Columns())
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"a8", Position{Row: 0, Col: 0}, false},
		{"h1", Position{Row: 7, Col: 7}, false},
		{"e2", Position{Row: 6, Col: 4}, false},
		{"E2", Position{Row: 6, Col: 4}, false},
		{"i1", Position{}, true},
		{"a9", Position{}, true},
		{"a", Position{}, true},
		{"a10", Position{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Fatalf("ParseSquare(%q) error = %v, want ErrOutOfBounds", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSquare(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSquare(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !tt.wantErr && strings.ToLower(tt.in) != got.String() {
				t.Errorf("String() = %q, want %q", got.String(), strings.ToLower(tt.in))
			}
		})
	}
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("e2e4")
	if err != nil {
		t.Fatalf("ParseMove(e2e4) error: %v", err)
	}
	if want := NewMove(6, 4, 4, 4); m != want {
		t.Errorf("ParseMove(e2e4) = %+v, want %+v", m, want)
	}
	if m.String() != "e2e4" {
		t.Errorf("String() = %q, want e2e4", m.String())
	}
	dr, dc := m.Delta()
	if dr != -2 || dc != 0 {
		t.Errorf("Delta() = (%d,%d), want (-2,0)", dr, dc)
	}

	for _, bad := range []string{"", "e2", "e2e", "e2e9", "z2e4"} {
		if _, err := ParseMove(bad); err == nil {
			t.Errorf("ParseMove(%q) error = nil, want error", bad)
		}
	}
}

func TestBoardOutOfBounds(t *testing.T) {
	b := NewStandard()
	for _, pos := range []Position{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if _, err := b.At(pos); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%+v) error = %v, want ErrOutOfBounds", pos, err)
		}
		if err := b.Set(pos, Piece{Kind: Queen, Owner: core.ColorWhite}); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%+v) error = %v, want ErrOutOfBounds", pos, err)
		}
	}
	if got := b.Placement(); got != StartingPlacement {
		t.Errorf("out-of-bounds writes changed the board: %q", got)
	}
}

func TestBoardIsValue(t *testing.T) {
	a := NewStandard()
	b := a
	if err := b.Set(Position{Row: 4, Col: 4}, Piece{Kind: Queen, Owner: core.ColorBlack}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got := a.Cell(4, 4); !got.IsEmpty() {
		t.Errorf("copy shares cells with original: a[4][4] = %v", got)
	}
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"start", StartingPlacement, false},
		{"kings only", "4k3/8/8/8/8/8/8/4K3", false},
		{"no kings", "8/8/8/8/8/8/8/8", false},
		{"seven ranks", "8/8/8/8/8/8/8", true},
		{"short rank", "7/8/8/8/8/8/8/8", true},
		{"long rank", "ppppppppp/8/8/8/8/8/8/8", true},
		{"bad letter", "x7/8/8/8/8/8/8/8", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParsePlacement(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePlacement(%q) error = nil, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlacement(%q) error: %v", tt.in, err)
			}
			if got := b.Placement(); got != tt.in {
				t.Errorf("round trip = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestFindKing(t *testing.T) {
	b, err := ParsePlacement("4k3/8/8/8/8/8/8/4K3")
	if err != nil {
		t.Fatalf("ParsePlacement error: %v", err)
	}
	pos, ok := b.FindKing(core.ColorBlack)
	if !ok || pos != (Position{Row: 0, Col: 4}) {
		t.Errorf("FindKing(black) = %+v, %v; want e8", pos, ok)
	}

	empty := Board{}
	if _, ok := empty.FindKing(core.ColorWhite); ok {
		t.Error("FindKing on empty board reported a king")
	}
}

func TestToASCII(t *testing.T) {
	b := NewStandard()
	ascii := b.ToASCII()
	lines := strings.Split(ascii, "\n")
	if len(lines) != 10 {
		t.Fatalf("ToASCII() has %d lines, want 10", len(lines))
	}
	if lines[1] != "8 r n b q k b n r  8" {
		t.Errorf("rank 8 line = %q", lines[1])
	}
	if lines[5] != "4 . . . . . . . .  4" {
		t.Errorf("rank 4 line = %q", lines[5])
	}
}
