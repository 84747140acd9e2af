package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA busy_timeout=5000;",
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS giveaways (
		id TEXT PRIMARY KEY,
		guild_id TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_giveaways_guild ON giveaways (guild_id)`,
	`CREATE TABLE IF NOT EXISTS trivia_attempts (
		giveaway_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (giveaway_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_actions (
		action_type TEXT NOT NULL,
		scope_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		last_action_at INTEGER NOT NULL,
		PRIMARY KEY (action_type, scope_id, user_id)
	)`,
}

// OpenSQLite opens the database at path, applies pragmas and creates the schema.
// The special path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	inMemory := path == ":memory:"
	if !inMemory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if inMemory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := migrate(initCtx, db, inMemory); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, inMemory bool) error {
	for _, p := range sqlitePragmas {
		if inMemory && strings.Contains(p, "journal_mode") {
			continue
		}
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range sqliteSchema {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return tx.Commit()
}
