package usecases

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// Session is the state of one giveaway setup wizard.
type Session struct {
	Token string
	Draft domain.Draft

	// DurationInput is the duration text as the user typed it.
	DurationInput string
	UpdatedAt     time.Time
}

// SessionStore keeps setup sessions in memory. Sessions do not survive a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	clock    scheduler.Clock
	newToken func() string
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore(clock scheduler.Clock) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		clock:    clock,
		newToken: uuid.NewString,
	}
}

// Create starts a session for draft.
func (s *SessionStore) Create(draft domain.Draft) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := Session{
		Token:     s.newToken(),
		Draft:     draft,
		UpdatedAt: s.clock.Now(),
	}
	s.sessions[session.Token] = session
	return session
}

// Get returns the session owned by userID.
func (s *SessionStore) Get(token string, userID snowflake.ID) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok || session.Draft.CreatorID != userID {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Update applies fn to the session owned by userID. Nothing changes if fn fails.
func (s *SessionStore) Update(token string, userID snowflake.ID, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok || session.Draft.CreatorID != userID {
		return Session{}, ErrSessionNotFound
	}

	if err := fn(&session); err != nil {
		return Session{}, err
	}
	session.UpdatedAt = s.clock.Now()
	s.sessions[token] = session
	return session, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Prune removes sessions not updated within maxAge and returns how many were removed.
func (s *SessionStore) Prune(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-maxAge)
	removed := 0
	for token, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
