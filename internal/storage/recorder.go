package storage

// Recorder receives the log of games and committed moves. Writes are
// best effort: a recorder that fails marks itself unhealthy and drops
// further writes instead of blocking play.
type Recorder interface {
	RecordNewGame(record GameRecord) error
	RecordMove(record MoveRecord) error
	// DeleteUndoneMoves drops every move numbered above afterMoveNumber
	DeleteUndoneMoves(gameID string, afterMoveNumber int) error
	RecordResult(gameID, result string) error
	IsHealthy() bool
	Close() error
}

var (
	_ Recorder = (*Store)(nil)
	_ Recorder = (*RedisStore)(nil)
)
