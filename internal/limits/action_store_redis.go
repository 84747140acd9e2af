package limits

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisActionKeyPrefix = "giveawaybot:actions:"

// RedisActionStore persists ledger entries as one hash per action type and
// scope, with user ids as fields and unix milliseconds as values.
type RedisActionStore struct {
	client *redis.Client
}

// NewRedisActionStore creates a RedisActionStore.
func NewRedisActionStore(client *redis.Client) *RedisActionStore {
	return &RedisActionStore{client: client}
}

func redisActionHash(key ActionKey) string {
	return redisActionKeyPrefix + key.ActionType + ":" + key.ScopeID
}

// LastAction implements ActionStore.
func (s *RedisActionStore) LastAction(ctx context.Context, key ActionKey) (time.Time, bool, error) {
	ms, err := s.client.HGet(ctx, redisActionHash(key), key.UserID).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	return time.UnixMilli(ms), true, nil
}

// RecordAction implements ActionStore.
func (s *RedisActionStore) RecordAction(ctx context.Context, key ActionKey, at time.Time) error {
	return s.client.HSet(ctx, redisActionHash(key), key.UserID, at.UnixMilli()).Err()
}

var _ ActionStore = (*RedisActionStore)(nil)
