package limits

import (
	"fmt"

	"github.com/sglre6355/giveawaybot/internal/storage"
)

// NewActionStore returns the ActionStore matching the backend kind.
func NewActionStore(backend *storage.Backend) (ActionStore, error) {
	switch backend.Kind {
	case storage.KindSQLite:
		return NewSQLActionStore(backend.SQL), nil
	case storage.KindRedis:
		return NewRedisActionStore(backend.Redis), nil
	case storage.KindMemory:
		return NewMemoryActionStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownKind, backend.Kind)
	}
}
