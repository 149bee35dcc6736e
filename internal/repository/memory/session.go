package memory

import (
	"sync"
	"time"

	"memebot/internal/domain"
)

// SessionStore implements repository.SessionRepository in process memory.
// Besides the session map it keeps one mutex per user so that events for
// the same user are applied in order.
type SessionStore struct {
	sessions map[int64]*domain.Session
	mu       sync.RWMutex

	locks   map[int64]*userLock
	locksMu sync.Mutex
}

// userLock is dropped from the store once nobody holds or waits for it
type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*domain.Session),
		locks:    make(map[int64]*userLock),
	}
}

// Lock blocks until no other event for userID is being processed and
// returns the matching unlock
func (s *SessionStore) Lock(userID int64) func() {
	s.locksMu.Lock()
	lock, exists := s.locks[userID]
	if !exists {
		lock = &userLock{}
		s.locks[userID] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMu.Unlock()
	}
}

// Get returns a copy of user's session
func (s *SessionStore) Get(userID int64) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[userID]
	if !exists {
		return nil, false
	}
	cp := *session
	return &cp, true
}

// Start creates a fresh session, discarding any previous one
func (s *SessionStore) Start(userID int64) *domain.Session {
	session := domain.NewSession(userID)
	s.Save(session)
	cp := *session
	return &cp
}

// Save stores the session, or clears it when its state is terminal
func (s *SessionStore) Save(session *domain.Session) {
	if session.State.Terminal() {
		s.Clear(session.UserID)
		return
	}

	cp := *session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = &cp
}

// Clear removes user's session
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Sweep removes sessions last updated before olderThan and returns how many
func (s *SessionStore) Sweep(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, session := range s.sessions {
		if session.UpdatedAt.Before(olderThan) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}
