package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrNotYourTurn       = "NOT_YOUR_TURN"
	ErrGameOver          = "GAME_OVER"
	ErrNothingToUndo     = "NOTHING_TO_UNDO"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidPlacement  = "INVALID_PLACEMENT"
	ErrInternalError     = "INTERNAL_ERROR"
)
