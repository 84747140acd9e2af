package limits

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLActionStore persists ledger entries in the user_actions table.
type SQLActionStore struct {
	db *sql.DB
}

// NewSQLActionStore creates a SQLActionStore. The schema is created by
// storage.OpenSQLite.
func NewSQLActionStore(db *sql.DB) *SQLActionStore {
	return &SQLActionStore{db: db}
}

// LastAction implements ActionStore.
func (s *SQLActionStore) LastAction(ctx context.Context, key ActionKey) (time.Time, bool, error) {
	var ms int64
	err := s.db.QueryRowContext(ctx,
		`SELECT last_action_at FROM user_actions
		 WHERE action_type = ? AND scope_id = ? AND user_id = ?`,
		key.ActionType, key.ScopeID, key.UserID,
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	return time.UnixMilli(ms), true, nil
}

// RecordAction implements ActionStore.
func (s *SQLActionStore) RecordAction(ctx context.Context, key ActionKey, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_actions (action_type, scope_id, user_id, last_action_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(action_type, scope_id, user_id)
		 DO UPDATE SET last_action_at = excluded.last_action_at`,
		key.ActionType, key.ScopeID, key.UserID, at.UnixMilli(),
	)
	return err
}

var _ ActionStore = (*SQLActionStore)(nil)
