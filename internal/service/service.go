// Package service keeps the set of live games, seats their players and
// forwards every committed change to the optional recorder and to
// long-polling clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already exists")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrUnknownPlayer    = errors.New("player not seated in this game")
	ErrInvalidCount     = errors.New("undo count must be positive")
)

// session is a game plus the bookkeeping the service keeps around it.
// mu orders commits so the recorder and waiters see moves in play order.
type session struct {
	mu    sync.Mutex
	game  *game.Game
	white *core.Player
	black *core.Player
	over  bool
}

func (sess *session) view(gameID string) GameView {
	return GameView{
		ID:       gameID,
		Snapshot: sess.game.Snapshot(),
		Players:  core.PlayersResponse{White: sess.white, Black: sess.black},
	}
}

// GameView is a game's state and seats read together
type GameView struct {
	ID       string
	Snapshot game.Snapshot
	Players  core.PlayersResponse
}

// Service is a state manager for chess games with optional persistence
type Service struct {
	games     map[string]*session
	mu        sync.RWMutex
	store     storage.Recorder // nil if persistence disabled
	waiter    *WaitRegistry
	log       *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// New creates a service. store may be nil to disable recording.
func New(store storage.Recorder, log *zap.Logger, waitTimeout time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		games:  make(map[string]*session),
		store:  store,
		waiter: NewWaitRegistry(waitTimeout),
		log:    log.Named("service"),
	}
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a game starting from placement, or from the
// standard layout when placement is empty, and seats two new players.
func (s *Service) CreateGame(id, placement string, turn core.Color) (*game.Game, error) {
	if placement == "" {
		placement = board.StartingPlacement
	}
	g, err := game.FromPlacement(placement, turn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlacement, err)
	}

	sess := &session{
		game:  g,
		white: core.NewPlayer(core.ColorWhite),
		black: core.NewPlayer(core.ColorBlack),
	}

	s.mu.Lock()
	if _, exists := s.games[id]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("game %s: %w", id, ErrGameExists)
	}
	s.games[id] = sess
	s.mu.Unlock()

	s.log.Info("game created",
		zap.String("game_id", id),
		zap.String("placement", placement),
		zap.Stringer("turn", g.CurrentPlayer()),
	)

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:           id,
			InitialPlacement: placement,
			StartingTurn:     g.CurrentPlayer().String(),
			WhitePlayerID:    sess.white.ID,
			BlackPlayerID:    sess.black.ID,
			StartTimeUTC:     time.Now().UTC(),
		})
	}

	return g, nil
}

func (s *Service) session(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return sess, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}
	return sess.game, nil
}

// View reads a game's snapshot and seats under its commit lock
func (s *Service) View(gameID string) (GameView, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return GameView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(gameID), nil
}

// MakeMove commits a move. When playerID is set it must belong to the
// side to move. The returned view is the state right after the move.
func (s *Service) MakeMove(gameID, playerID string, m board.Move) (game.Ply, GameView, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return game.Ply{}, GameView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if playerID != "" {
		var seat *core.Player
		switch playerID {
		case sess.white.ID:
			seat = sess.white
		case sess.black.ID:
			seat = sess.black
		default:
			return game.Ply{}, GameView{}, ErrUnknownPlayer
		}
		if seat.Color != g.CurrentPlayer() {
			return game.Ply{}, GameView{}, game.ErrNotYourTurn
		}
	}

	ply, err := g.Play(m)
	if err != nil {
		s.log.Debug("move rejected",
			zap.String("game_id", gameID),
			zap.Stringer("move", m),
			zap.Error(err),
		)
		return game.Ply{}, GameView{}, err
	}

	count := g.MoveCount()
	b := g.Board()
	state := g.State()

	s.log.Info("move applied",
		zap.String("game_id", gameID),
		zap.Stringer("move", m),
		zap.Stringer("mover", ply.Mover),
		zap.Int("move_number", count),
	)

	if s.store != nil {
		record := storage.MoveRecord{
			GameID:             gameID,
			MoveNumber:         count,
			Move:               m.String(),
			PlacementAfterMove: b.Placement(),
			PlayerColor:        ply.Mover.String(),
			Promoted:           ply.Promoted,
			MoveTimeUTC:        time.Now().UTC(),
		}
		if !ply.Captured.IsEmpty() {
			record.Captured = string(ply.Captured.Letter())
		}
		s.store.RecordMove(record)
	}

	if state.IsOver() {
		sess.over = true
		s.log.Info("checkmate", zap.String("game_id", gameID), zap.Stringer("state", state))
		if s.store != nil {
			s.store.RecordResult(gameID, state.String())
		}
	}

	s.waiter.NotifyGame(gameID, count)
	return ply, sess.view(gameID), nil
}

// CheckMove evaluates a move without committing it
func (s *Service) CheckMove(gameID string, m board.Move) (game.Status, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return game.StatusOK, err
	}
	return sess.game.Check(m), nil
}

// LegalMoves lists the legal moves of the piece on from
func (s *Service) LegalMoves(gameID string, from board.Position) ([]board.Move, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}
	return sess.game.LegalMoves(from), nil
}

// Undo takes back the last count plies. Nothing is undone unless all of
// them exist. The returned view is the state after the undo.
func (s *Service) Undo(gameID string, count int) ([]game.Ply, GameView, error) {
	if count < 1 {
		return nil, GameView{}, ErrInvalidCount
	}

	sess, err := s.session(gameID)
	if err != nil {
		return nil, GameView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if have := g.MoveCount(); count > have {
		return nil, GameView{}, fmt.Errorf("undo %d of %d moves: %w", count, have, game.ErrNothingToUndo)
	}

	plies := make([]game.Ply, 0, count)
	for i := 0; i < count; i++ {
		ply, err := g.Undo()
		if err != nil {
			return plies, sess.view(gameID), err
		}
		plies = append(plies, ply)
	}

	remaining := g.MoveCount()
	s.log.Info("moves undone",
		zap.String("game_id", gameID),
		zap.Int("count", count),
		zap.Int("remaining", remaining),
	)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, remaining)
		if sess.over {
			s.store.RecordResult(gameID, storage.ResultOngoing)
		}
	}
	sess.over = false

	s.waiter.NotifyGame(gameID, remaining)
	return plies, sess.view(gameID), nil
}

// DeleteGame removes a game from memory and releases its waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	s.log.Info("game deleted", zap.String("game_id", gameID))
	return nil
}

// WaitForChange returns a channel closed once the game's move count
// differs from knownMoves, or when the wait ends for another reason.
func (s *Service) WaitForChange(ctx context.Context, gameID string, knownMoves int) (<-chan struct{}, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}

	ch := s.waiter.RegisterWait(ctx, gameID, knownMoves)
	// a move may have landed before registration
	s.waiter.NotifyGame(gameID, sess.game.MoveCount())
	return ch, nil
}

// StorageHealth returns "ok", "degraded" or "disabled"
func (s *Service) StorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// ReleaseWaiters ends every long-poll and refuses new ones. Games stay
// playable so requests already in flight can finish.
func (s *Service) ReleaseWaiters(timeout time.Duration) error {
	return s.waiter.Shutdown(timeout)
}

// Close drops all games and closes the recorder. Call it once no request
// is in flight; later calls return the first result.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.games = make(map[string]*session)
		s.mu.Unlock()

		if s.store != nil {
			s.closeErr = s.store.Close()
		}
	})
	return s.closeErr
}

// Shutdown is ReleaseWaiters followed by Close
func (s *Service) Shutdown(timeout time.Duration) error {
	return errors.Join(s.ReleaseWaiters(timeout), s.Close())
}
