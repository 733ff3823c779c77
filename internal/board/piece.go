package board

import (
	"unicode"

	"chessrules/internal/core"
)

// Kind is the piece variant. KindNone marks an empty cell.
type Kind uint8

const (
	KindNone Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Letter returns the uppercase FEN letter of the kind
func (k Kind) Letter() byte {
	letters := [...]byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if int(k) < len(letters) {
		return letters[k]
	}
	return '?'
}

// Piece is a plain value. The zero Piece is an empty cell.
type Piece struct {
	Kind  Kind       `json:"kind"`
	Owner core.Color `json:"owner"`
}

func NewPiece(kind Kind, owner core.Color) Piece {
	return Piece{Kind: kind, Owner: owner}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == KindNone
}

// Letter returns the FEN letter, uppercase for white and lowercase for black
func (p Piece) Letter() byte {
	if p.IsEmpty() {
		return 0
	}
	l := p.Kind.Letter()
	if p.Owner == core.ColorBlack {
		return byte(unicode.ToLower(rune(l)))
	}
	return l
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Owner.Name() + " " + p.Kind.String()
}

// PieceFromLetter parses a FEN piece letter
func PieceFromLetter(ch byte) (Piece, bool) {
	owner := core.ColorWhite
	if ch >= 'a' && ch <= 'z' {
		owner = core.ColorBlack
		ch -= 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if k.Letter() == ch {
			return Piece{Kind: k, Owner: owner}, true
		}
	}
	return Piece{}, false
}
