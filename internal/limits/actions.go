package limits

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// ActionKey identifies one ledger entry.
type ActionKey struct {
	ActionType string
	ScopeID    string
	UserID     string
}

// ActionStore persists the last instant each user performed an action.
type ActionStore interface {
	// LastAction returns the recorded instant for key and whether one exists.
	LastAction(ctx context.Context, key ActionKey) (time.Time, bool, error)

	// RecordAction stores at as the last instant for key.
	RecordAction(ctx context.Context, key ActionKey, at time.Time) error
}

// ActionLedger limits how often a user may trigger an action within a scope.
type ActionLedger struct {
	mu    sync.Mutex
	store ActionStore
	clock scheduler.Clock
}

// NewActionLedger creates an ActionLedger over store.
func NewActionLedger(store ActionStore, clock scheduler.Clock) *ActionLedger {
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	return &ActionLedger{store: store, clock: clock}
}

// TryRecord reports whether userID may perform actionType in scopeID now, and
// records the attempt when it may. A maxPerUser of zero or less always allows
// without recording. A nil reset makes the action a lifetime one-shot.
func (l *ActionLedger) TryRecord(
	ctx context.Context,
	actionType, userID string,
	maxPerUser int,
	scopeID string,
	reset *time.Duration,
) (bool, error) {
	if maxPerUser <= 0 {
		return true, nil
	}

	key := ActionKey{ActionType: actionType, ScopeID: scopeID, UserID: userID}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	last, found, err := l.store.LastAction(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read action ledger: %w", err)
	}

	if found {
		if reset == nil {
			return false, nil
		}
		if now.Before(last.Add(*reset)) {
			return false, nil
		}
	}

	if err := l.store.RecordAction(ctx, key, now); err != nil {
		return false, fmt.Errorf("failed to write action ledger: %w", err)
	}

	return true, nil
}

// MemoryActionStore keeps ledger entries in memory.
type MemoryActionStore struct {
	mu      sync.RWMutex
	entries map[ActionKey]time.Time
}

// NewMemoryActionStore creates an empty MemoryActionStore.
func NewMemoryActionStore() *MemoryActionStore {
	return &MemoryActionStore{entries: make(map[ActionKey]time.Time)}
}

// LastAction implements ActionStore.
func (s *MemoryActionStore) LastAction(_ context.Context, key ActionKey) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.entries[key]
	return at, ok, nil
}

// RecordAction implements ActionStore.
func (s *MemoryActionStore) RecordAction(_ context.Context, key ActionKey, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = at
	return nil
}

var _ ActionStore = (*MemoryActionStore)(nil)
