package infrastructure

import (
	"errors"
	"fmt"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
	"github.com/sglre6355/giveawaybot/internal/storage"
)

// NewStores returns the giveaway repository and trivia attempt counter for backend.
func NewStores(backend *storage.Backend) (domain.Repository, domain.TriviaAttempts, error) {
	switch backend.Kind {
	case storage.KindMemory:
		return NewMemoryRepository(), NewMemoryTriviaAttempts(), nil
	case storage.KindSQLite:
		if backend.SQL == nil {
			return nil, nil, errors.New("sqlite backend has no database handle")
		}
		return NewSQLRepository(backend.SQL), NewSQLTriviaAttempts(backend.SQL), nil
	case storage.KindRedis:
		if backend.Redis == nil {
			return nil, nil, errors.New("redis backend has no client")
		}
		return NewRedisRepository(backend.Redis), NewRedisTriviaAttempts(backend.Redis), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", storage.ErrUnknownKind, backend.Kind)
	}
}
