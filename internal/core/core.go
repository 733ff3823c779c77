package core

import "fmt"

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether the game reached a checkmate outcome
func (s State) IsOver() bool {
	return s == StateWhiteWins || s == StateBlackWins
}

// WinnerState returns the outcome in which c delivered checkmate
func WinnerState(c Color) State {
	if c == ColorWhite {
		return StateWhiteWins
	}
	return StateBlackWins
}

// Color identifies a side. White moves first.
type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

// Opponent maps white to black and black to white
func (c Color) Opponent() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

func (c Color) String() string {
	switch c {
	case ColorWhite, ColorBlack:
		return string(c)
	default:
		return "-"
	}
}

// Name returns the human readable side name
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return ColorWhite, nil
	case "b", "black":
		return ColorBlack, nil
	default:
		return 0, fmt.Errorf("invalid color %q: must be 'w' or 'b'", s)
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
