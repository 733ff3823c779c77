package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisOpTimeout = 2 * time.Second
	redisKeyPrefix = "chess:game:"
)

// ErrRecordNotFound is returned when a game has no stored record
var ErrRecordNotFound = errors.New("record not found")

// RedisStore keeps the game log in redis: a JSON record per game and a
// list of JSON moves beside it, both expiring ttl after the last write.
type RedisStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	log     *zap.Logger
	healthy atomic.Bool
}

// NewRedisStore connects to the redis URL and verifies the connection
func NewRedisStore(url string, ttl time.Duration, log *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	s := &RedisStore{rdb: rdb, ttl: ttl, log: log.Named("redis")}
	s.healthy.Store(true)
	return s, nil
}

func (s *RedisStore) keyGame(gameID string) string  { return redisKeyPrefix + gameID }
func (s *RedisStore) keyMoves(gameID string) string { return s.keyGame(gameID) + ":moves" }

// write runs fn with a bounded context and degrades the store on failure
func (s *RedisStore) write(op string, fn func(ctx context.Context) error) error {
	if !s.healthy.Load() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.log.Error("storage degraded", zap.String("op", op), zap.Error(err))
		s.healthy.Store(false)
		return err
	}
	return nil
}

// touch refreshes the expiry of both keys of a game
func (s *RedisStore) touch(ctx context.Context, pipe redis.Pipeliner, gameID string) {
	if s.ttl <= 0 {
		return
	}
	pipe.Expire(ctx, s.keyGame(gameID), s.ttl)
	pipe.Expire(ctx, s.keyMoves(gameID), s.ttl)
}

func (s *RedisStore) RecordNewGame(record GameRecord) error {
	if record.Result == "" {
		record.Result = ResultOngoing
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}

	return s.write("game", func(ctx context.Context) error {
		_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.keyGame(record.GameID), raw, s.ttl)
			pipe.Del(ctx, s.keyMoves(record.GameID))
			return nil
		})
		return err
	})
}

func (s *RedisStore) RecordMove(record MoveRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode move: %w", err)
	}

	return s.write("move", func(ctx context.Context) error {
		_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, s.keyMoves(record.GameID), raw)
			s.touch(ctx, pipe, record.GameID)
			return nil
		})
		return err
	})
}

func (s *RedisStore) DeleteUndoneMoves(gameID string, afterMoveNumber int) error {
	return s.write("undo", func(ctx context.Context) error {
		_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if afterMoveNumber <= 0 {
				pipe.Del(ctx, s.keyMoves(gameID))
			} else {
				pipe.LTrim(ctx, s.keyMoves(gameID), 0, int64(afterMoveNumber-1))
			}
			s.touch(ctx, pipe, gameID)
			return nil
		})
		return err
	})
}

func (s *RedisStore) RecordResult(gameID, result string) error {
	return s.write("result", func(ctx context.Context) error {
		record, err := s.LoadGame(ctx, gameID)
		if err != nil {
			return err
		}
		record.Result = result
		record.EndTimeUTC = nil
		if result != ResultOngoing {
			end := time.Now().UTC()
			record.EndTimeUTC = &end
		}

		raw, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return s.rdb.Set(ctx, s.keyGame(gameID), raw, s.ttl).Err()
	})
}

// LoadGame reads the stored record of a game
func (s *RedisStore) LoadGame(ctx context.Context, gameID string) (*GameRecord, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrRecordNotFound)
	}
	if err != nil {
		return nil, err
	}

	var g GameRecord
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &g, nil
}

// LoadMoves reads the stored moves of a game in play order
func (s *RedisStore) LoadMoves(ctx context.Context, gameID string) ([]MoveRecord, error) {
	raws, err := s.rdb.LRange(ctx, s.keyMoves(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	moves := make([]MoveRecord, 0, len(raws))
	for _, raw := range raws {
		var m MoveRecord
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func (s *RedisStore) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
