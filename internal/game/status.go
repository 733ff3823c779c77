package game

// Status is the diagnostic outcome of a legality evaluation
type Status int

const (
	StatusOK Status = iota
	StatusInvalidCoordinate
	StatusNoPieceAtSource
	StatusPatternInvalid
	StatusMovedIntoCheck
	StatusLeftInCheck
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidCoordinate:
		return "invalid_coordinate"
	case StatusNoPieceAtSource:
		return "no_piece_at_source"
	case StatusPatternInvalid:
		return "pattern_invalid"
	case StatusMovedIntoCheck:
		return "moved_into_check"
	case StatusLeftInCheck:
		return "left_in_check"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for s, nil for StatusOK
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusInvalidCoordinate:
		return ErrInvalidCoordinate
	case StatusNoPieceAtSource:
		return ErrNoPieceAtSource
	case StatusPatternInvalid:
		return ErrPatternInvalid
	case StatusMovedIntoCheck:
		return ErrMovedIntoCheck
	case StatusLeftInCheck:
		return ErrLeftInCheck
	default:
		return ErrPatternInvalid
	}
}
