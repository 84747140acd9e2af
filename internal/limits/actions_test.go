package limits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/giveawaybot/internal/scheduler"
	"github.com/sglre6355/giveawaybot/internal/storage"
)

func ptr(d time.Duration) *time.Duration { return &d }

func TestActionLedger_NonPositiveMaxAlwaysAllows(t *testing.T) {
	store := NewMemoryActionStore()
	l := NewActionLedger(store, scheduler.NewFakeClock(epoch))
	ctx := context.Background()

	for range 3 {
		ok, err := l.TryRecord(ctx, "greet", "u1", 0, "g1", nil)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, found, _ := store.LastAction(ctx, ActionKey{"greet", "g1", "u1"})
	assert.False(t, found)
}

func TestActionLedger_OneShotWithoutReset(t *testing.T) {
	clock := scheduler.NewFakeClock(epoch)
	l := NewActionLedger(NewMemoryActionStore(), clock)
	ctx := context.Background()

	ok, err := l.TryRecord(ctx, "greet", "u1", 1, "g1", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	for range 3 {
		clock.Add(24 * time.Hour * 365)
		ok, err = l.TryRecord(ctx, "greet", "u1", 1, "g1", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestActionLedger_KeysAreIndependent(t *testing.T) {
	l := NewActionLedger(NewMemoryActionStore(), scheduler.NewFakeClock(epoch))
	ctx := context.Background()

	for _, key := range []ActionKey{
		{"greet", "g1", "u1"},
		{"greet", "g1", "u2"},
		{"greet", "g2", "u1"},
		{"wave", "g1", "u1"},
	} {
		ok, err := l.TryRecord(ctx, key.ActionType, key.UserID, 1, key.ScopeID, nil)
		require.NoError(t, err)
		assert.True(t, ok, "%+v", key)
	}
}

func TestActionLedger_ResetInterval(t *testing.T) {
	clock := scheduler.NewFakeClock(epoch)
	l := NewActionLedger(NewMemoryActionStore(), clock)
	ctx := context.Background()
	reset := ptr(time.Hour)

	ok, _ := l.TryRecord(ctx, "greet", "u1", 1, "g1", reset)
	assert.True(t, ok)

	clock.Add(59 * time.Minute)
	ok, _ = l.TryRecord(ctx, "greet", "u1", 1, "g1", reset)
	assert.False(t, ok)

	clock.Add(time.Minute)
	ok, _ = l.TryRecord(ctx, "greet", "u1", 1, "g1", reset)
	assert.True(t, ok)

	// The successful call recorded a new instant.
	clock.Add(30 * time.Minute)
	ok, _ = l.TryRecord(ctx, "greet", "u1", 1, "g1", reset)
	assert.False(t, ok)
}

type failingStore struct{}

func (failingStore) LastAction(context.Context, ActionKey) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("disk gone")
}

func (failingStore) RecordAction(context.Context, ActionKey, time.Time) error {
	return errors.New("disk gone")
}

func TestActionLedger_StoreErrorDenies(t *testing.T) {
	l := NewActionLedger(failingStore{}, scheduler.NewFakeClock(epoch))

	ok, err := l.TryRecord(context.Background(), "greet", "u1", 1, "g1", nil)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSQLActionStore_PersistsAcrossLedgers(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	clock := scheduler.NewFakeClock(epoch)
	store := NewSQLActionStore(db)

	ok, err := NewActionLedger(store, clock).TryRecord(ctx, "greet", "u1", 1, "g1", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// A fresh ledger over the same table sees the earlier record.
	ok, err = NewActionLedger(store, clock).TryRecord(ctx, "greet", "u1", 1, "g1", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	at, found, err := store.LastAction(ctx, ActionKey{"greet", "g1", "u1"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, at.Equal(epoch))
}

func TestSQLActionStore_Upsert(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLActionStore(db)
	key := ActionKey{"greet", "g1", "u1"}

	require.NoError(t, store.RecordAction(ctx, key, epoch))
	require.NoError(t, store.RecordAction(ctx, key, epoch.Add(time.Hour)))

	at, found, err := store.LastAction(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, at.Equal(epoch.Add(time.Hour)))
}

func TestNewActionStore_SelectsByKind(t *testing.T) {
	store, err := NewActionStore(storage.Memory())
	require.NoError(t, err)
	assert.IsType(t, &MemoryActionStore{}, store)

	_, err = NewActionStore(&storage.Backend{Kind: "etcd"})
	assert.ErrorIs(t, err, storage.ErrUnknownKind)
}
