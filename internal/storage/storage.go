package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	writeQueueSize = 1000
	drainTimeout   = 2 * time.Second
)

var (
	// ErrDegraded is returned by Flush once a write has failed
	ErrDegraded = errors.New("storage degraded")
	ErrClosed   = errors.New("storage closed")
)

// writeOp is one queued write. An op with a non-nil flushed channel is a
// Flush marker and touches no rows.
type writeOp struct {
	fn      func(*sql.Tx) error
	flushed chan struct{}
}

// Store handles SQLite database operations with async writes
type Store struct {
	db           *sql.DB
	path         string
	log          *zap.Logger
	writeChan    chan writeOp
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closeErr     error
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string, devMode bool, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dsn(dataSourceName, devMode))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		log:       log.Named("sqlite"),
		writeChan: make(chan writeOp, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// dsn applies connection settings as driver parameters so that every
// pooled connection gets them, not only the first one
func dsn(path string, devMode bool) string {
	params := "_foreign_keys=on&_busy_timeout=5000"
	// WAL lets the db subcommands read while a server writes
	if devMode {
		params += "&_journal_mode=WAL"
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return "file:" + path + "?" + params
}

// writerLoop processes async write operations
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			deadline := time.After(drainTimeout)
			for {
				select {
				case op := <-s.writeChan:
					s.process(op)
				case <-deadline:
					return
				default:
					return
				}
			}

		case op := <-s.writeChan:
			s.process(op)
		}
	}
}

// process releases Flush markers unconditionally and skips writes once the
// store is degraded
func (s *Store) process(op writeOp) {
	if op.flushed != nil {
		close(op.flushed)
		return
	}
	if s.healthStatus.Load() {
		s.executeWrite(op.fn)
	}
}

// executeWrite runs a transactional write operation
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		s.degrade("begin transaction", err)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		s.degrade("write operation", err)
		return
	}

	if err := tx.Commit(); err != nil {
		s.degrade("commit", err)
	}
}

func (s *Store) degrade(op string, err error) {
	s.log.Error("storage degraded", zap.String("op", op), zap.Error(err))
	s.healthStatus.Store(false)
}

// enqueue hands fn to the writer, dropping it when degraded or when the
// queue is full. Writes after Close are refused.
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) error {
	if s.ctx.Err() != nil {
		s.log.Warn("write after close dropped", zap.String("record", what))
		return ErrClosed
	}
	if !s.healthStatus.Load() {
		return nil
	}

	select {
	case s.writeChan <- writeOp{fn: fn}:
	default:
		s.log.Warn("storage write queue full, dropping write", zap.String("record", what))
	}
	return nil
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_placement, starting_turn,
			white_player_id, black_player_id, start_time_utc, result
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		result := record.Result
		if result == "" {
			result = ResultOngoing
		}
		_, err := tx.Exec(query,
			record.GameID, record.InitialPlacement, record.StartingTurn,
			record.WhitePlayerID, record.BlackPlayerID, record.StartTimeUTC, result,
		)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) error {
	return s.enqueue("move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move, placement_after_move,
			player_color, captured, promoted, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.Move, record.PlacementAfterMove,
			record.PlayerColor, record.Captured, record.Promoted, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) error {
	return s.enqueue("undo", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// RecordResult asynchronously stores the outcome of a game. Recording
// ResultOngoing clears a previous outcome, as after undoing a mate.
func (s *Store) RecordResult(gameID, result string) error {
	return s.enqueue("result", func(tx *sql.Tx) error {
		var end any
		if result != ResultOngoing {
			end = time.Now().UTC()
		}
		_, err := tx.Exec(`UPDATE games SET result = ?, end_time_utc = ? WHERE game_id = ?`, result, end, gameID)
		return err
	})
}

// Flush blocks until every write queued before it has been processed. It
// returns ErrDegraded when any of them failed.
func (s *Store) Flush(ctx context.Context) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	if !s.healthStatus.Load() {
		return ErrDegraded
	}

	done := make(chan struct{})
	select {
	case s.writeChan <- writeOp{flushed: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		// the writer drains the queue on close, so the marker may still fire
		select {
		case <-done:
		case <-time.After(drainTimeout):
			return ErrClosed
		}
	}
	if !s.healthStatus.Load() {
		return ErrDegraded
	}
	return nil
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close drains queued writes for a bounded time and closes the database
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(drainTimeout):
			s.log.Warn("storage writer shutdown timeout, some writes may be lost")
		}

		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// QueryGames retrieves games with optional filtering; "" or "*" match all
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_placement, starting_turn,
		white_player_id, black_player_id, start_time_utc,
		result, end_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if playerID != "" && playerID != "*" {
		query += " AND (white_player_id = ? OR black_player_id = ?)"
		args = append(args, playerID, playerID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.InitialPlacement, &g.StartingTurn,
			&g.WhitePlayerID, &g.BlackPlayerID, &g.StartTimeUTC,
			&g.Result, &g.EndTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move, placement_after_move,
		player_color, captured, promoted, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move, &m.PlacementAfterMove,
			&m.PlayerColor, &m.Captured, &m.Promoted, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
