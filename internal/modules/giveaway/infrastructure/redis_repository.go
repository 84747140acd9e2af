package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

const (
	redisKeyPrefix  = "giveawaybot:giveaway:"
	redisGuildIndex = "giveawaybot:guild_giveaways:"
	redisAllIndex   = "giveawaybot:giveaways"
	redisAttempts   = "giveawaybot:trivia_attempts:"

	maxUpdateRetries = 10
)

// ErrUpdateConflict is returned when an optimistic update keeps losing races.
var ErrUpdateConflict = errors.New("giveaway update conflict")

// RedisRepository stores each giveaway as a JSON string with per-guild index sets.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a RedisRepository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func giveawayKey(id string) string {
	return redisKeyPrefix + id
}

func guildIndexKey(guildID snowflake.ID) string {
	return redisGuildIndex + guildID.String()
}

// Create stores a new giveaway.
func (r *RedisRepository) Create(ctx context.Context, g *domain.Giveaway) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	ok, err := r.client.SetNX(ctx, giveawayKey(g.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrDuplicateID
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, guildIndexKey(g.GuildID), g.ID)
		pipe.SAdd(ctx, redisAllIndex, g.ID)
		return nil
	})
	return err
}

// Get loads one giveaway.
func (r *RedisRepository) Get(ctx context.Context, id string) (*domain.Giveaway, error) {
	return getRedisGiveaway(ctx, r.client, id)
}

func getRedisGiveaway(ctx context.Context, c redis.Cmdable, id string) (*domain.Giveaway, error) {
	data, err := c.Get(ctx, giveawayKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var g domain.Giveaway
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal giveaway %s: %w", id, err)
	}
	return &g, nil
}

// Update applies fn under WATCH and retries when the key changed concurrently.
func (r *RedisRepository) Update(
	ctx context.Context,
	id string,
	fn func(g *domain.Giveaway) error,
) (*domain.Giveaway, error) {
	key := giveawayKey(id)

	var result *domain.Giveaway
	txf := func(tx *redis.Tx) error {
		g, err := getRedisGiveaway(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}

		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal giveaway: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			result = g
		}
		return err
	}

	for range maxUpdateRetries {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrUpdateConflict
}

// List returns the giveaways of a guild, or all of them when guildID is 0.
func (r *RedisRepository) List(ctx context.Context, guildID snowflake.ID) ([]*domain.Giveaway, error) {
	index := redisAllIndex
	if guildID != 0 {
		index = guildIndexKey(guildID)
	}

	ids, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Giveaway, 0, len(ids))
	for _, id := range ids {
		g, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, nil
}

// RedisTriviaAttempts stores failed trivia attempts in one hash per giveaway.
type RedisTriviaAttempts struct {
	client *redis.Client
}

// NewRedisTriviaAttempts creates a RedisTriviaAttempts.
func NewRedisTriviaAttempts(client *redis.Client) *RedisTriviaAttempts {
	return &RedisTriviaAttempts{client: client}
}

// Get returns the failed attempt count.
func (a *RedisTriviaAttempts) Get(ctx context.Context, giveawayID string, userID snowflake.ID) (int, error) {
	n, err := a.client.HGet(ctx, redisAttempts+giveawayID, userID.String()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Increment adds one failed attempt.
func (a *RedisTriviaAttempts) Increment(ctx context.Context, giveawayID string, userID snowflake.ID) (int, error) {
	n, err := a.client.HIncrBy(ctx, redisAttempts+giveawayID, userID.String(), 1).Result()
	return int(n), err
}

var (
	_ domain.Repository     = (*RedisRepository)(nil)
	_ domain.TriviaAttempts = (*RedisTriviaAttempts)(nil)
)
