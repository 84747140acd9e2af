// Package storage opens the durable backend shared by the bot's persisted state.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Kind identifies a storage backend.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// ErrUnknownKind is returned when the configured backend is not supported.
var ErrUnknownKind = errors.New("unknown storage backend")

// Config describes which backend to open and how to reach it.
type Config struct {
	Kind          Kind
	DatabasePath  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Backend holds the open connection for the configured Kind.
// Exactly one of SQL and Redis is set unless Kind is KindMemory.
type Backend struct {
	Kind  Kind
	SQL   *sql.DB
	Redis *redis.Client
}

// Memory returns a Backend that keeps all state in process memory.
func Memory() *Backend {
	return &Backend{Kind: KindMemory}
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	switch cfg.Kind {
	case KindSQLite, "":
		db, err := OpenSQLite(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		slog.Info("opened storage", "backend", KindSQLite, "path", cfg.DatabasePath)
		return &Backend{Kind: KindSQLite, SQL: db}, nil
	case KindRedis:
		client, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		slog.Info("opened storage", "backend", KindRedis, "addr", cfg.RedisAddr)
		return &Backend{Kind: KindRedis, Redis: client}, nil
	case KindMemory:
		slog.Warn("opened in-memory storage, state will not survive restarts")
		return Memory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	switch {
	case b.SQL != nil:
		return b.SQL.Close()
	case b.Redis != nil:
		return b.Redis.Close()
	default:
		return nil
	}
}
