package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// SQLRepository stores giveaways as JSON documents in the giveaways table.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a SQLRepository. The schema is created by storage.OpenSQLite.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts a new giveaway.
func (r *SQLRepository) Create(ctx context.Context, g *domain.Giveaway) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO giveaways (id, guild_id, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		g.ID, g.GuildID.String(), string(data),
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrDuplicateID
	}
	return err
}

// Get loads one giveaway.
func (r *SQLRepository) Get(ctx context.Context, id string) (*domain.Giveaway, error) {
	return getGiveaway(ctx, r.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getGiveaway(ctx context.Context, q queryRower, id string) (*domain.Giveaway, error) {
	var data string
	err := q.QueryRowContext(ctx, `SELECT data FROM giveaways WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var g domain.Giveaway
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal giveaway %s: %w", id, err)
	}
	return &g, nil
}

// Update runs fn inside a transaction.
func (r *SQLRepository) Update(
	ctx context.Context,
	id string,
	fn func(g *domain.Giveaway) error,
) (*domain.Giveaway, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	g, err := getGiveaway(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(g); err != nil {
		return nil, err
	}

	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE giveaways SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(data), id,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit giveaway update: %w", err)
	}
	return g, nil
}

// List returns the giveaways of a guild, or all of them when guildID is 0.
func (r *SQLRepository) List(ctx context.Context, guildID snowflake.ID) ([]*domain.Giveaway, error) {
	query := `SELECT id, data FROM giveaways`
	var args []any
	if guildID != 0 {
		query += ` WHERE guild_id = ?`
		args = append(args, guildID.String())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Giveaway
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var g domain.Giveaway
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal giveaway %s: %w", id, err)
		}
		result = append(result, &g)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// SQLTriviaAttempts stores failed trivia attempts in the trivia_attempts table.
type SQLTriviaAttempts struct {
	db *sql.DB
}

// NewSQLTriviaAttempts creates a SQLTriviaAttempts.
func NewSQLTriviaAttempts(db *sql.DB) *SQLTriviaAttempts {
	return &SQLTriviaAttempts{db: db}
}

// Get returns the failed attempt count.
func (a *SQLTriviaAttempts) Get(ctx context.Context, giveawayID string, userID snowflake.ID) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		`SELECT attempts FROM trivia_attempts WHERE giveaway_id = ? AND user_id = ?`,
		giveawayID, userID.String(),
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// Increment adds one failed attempt.
func (a *SQLTriviaAttempts) Increment(ctx context.Context, giveawayID string, userID snowflake.ID) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		`INSERT INTO trivia_attempts (giveaway_id, user_id, attempts) VALUES (?, ?, 1)
		 ON CONFLICT(giveaway_id, user_id) DO UPDATE SET attempts = attempts + 1
		 RETURNING attempts`,
		giveawayID, userID.String(),
	).Scan(&n)
	return n, err
}

var (
	_ domain.Repository     = (*SQLRepository)(nil)
	_ domain.TriviaAttempts = (*SQLTriviaAttempts)(nil)
)
