package warnings

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session's messages in a Redis list.  The list
// expires ttl after the last append.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string { return "warnings:" + sessionID }

func (s *RedisStore) Append(ctx context.Context, sessionID string, msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	vals := make([]any, len(msgs))
	for i, m := range msgs {
		vals[i] = m
	}
	k := key(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, k, vals...)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) List(ctx context.Context, sessionID string) ([]string, error) {
	msgs, err := s.rdb.LRange(ctx, key(sessionID), 0, -1).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, key(sessionID)).Err()
}

// New returns a RedisStore when rdb is non-nil and a MemoryStore
// otherwise.
func New(rdb *redis.Client, ttl time.Duration) Store {
	if rdb == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(rdb, ttl)
}
