package infrastructure

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// MemoryRepository is an in-memory implementation of domain.Repository.
type MemoryRepository struct {
	mu        sync.RWMutex
	giveaways map[string]*domain.Giveaway
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		giveaways: make(map[string]*domain.Giveaway),
	}
}

// Create stores a new giveaway.
func (r *MemoryRepository) Create(_ context.Context, g *domain.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.giveaways[g.ID]; exists {
		return domain.ErrDuplicateID
	}
	r.giveaways[g.ID] = g.Clone()
	return nil
}

// Get returns the giveaway with the given id.
func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.giveaways[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g.Clone(), nil
}

// Update applies fn under the write lock.
func (r *MemoryRepository) Update(
	_ context.Context,
	id string,
	fn func(g *domain.Giveaway) error,
) (*domain.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.giveaways[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	g := stored.Clone()
	if err := fn(g); err != nil {
		return nil, err
	}
	r.giveaways[id] = g
	return g.Clone(), nil
}

// List returns the giveaways of a guild, or all of them when guildID is 0.
func (r *MemoryRepository) List(_ context.Context, guildID snowflake.ID) ([]*domain.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Giveaway, 0, len(r.giveaways))
	for _, g := range r.giveaways {
		if guildID == 0 || g.GuildID == guildID {
			result = append(result, g.Clone())
		}
	}
	return result, nil
}

// Count returns the number of stored giveaways.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.giveaways)
}

type attemptKey struct {
	giveawayID string
	userID     snowflake.ID
}

// MemoryTriviaAttempts is an in-memory implementation of domain.TriviaAttempts.
type MemoryTriviaAttempts struct {
	mu       sync.Mutex
	attempts map[attemptKey]int
}

// NewMemoryTriviaAttempts creates a new MemoryTriviaAttempts.
func NewMemoryTriviaAttempts() *MemoryTriviaAttempts {
	return &MemoryTriviaAttempts{
		attempts: make(map[attemptKey]int),
	}
}

// Get returns the failed attempt count.
func (a *MemoryTriviaAttempts) Get(_ context.Context, giveawayID string, userID snowflake.ID) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.attempts[attemptKey{giveawayID, userID}], nil
}

// Increment adds one failed attempt.
func (a *MemoryTriviaAttempts) Increment(_ context.Context, giveawayID string, userID snowflake.ID) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := attemptKey{giveawayID, userID}
	a.attempts[key]++
	return a.attempts[key], nil
}

// Ensure the memory stores implement the domain interfaces.
var (
	_ domain.Repository     = (*MemoryRepository)(nil)
	_ domain.TriviaAttempts = (*MemoryTriviaAttempts)(nil)
)
