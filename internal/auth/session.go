package auth

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// Session is one signed-in browser.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// SessionStore keeps sessions in process memory.
//
// Sessions live for a fixed TTL from creation; there is no sliding renewal.
// Restarting the process signs everybody out.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for the user. The id is an xid: globally unique
// and not derived from the user.
func (s *SessionStore) Create(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{
		ID:        xid.New().String(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a live session. An expired session is removed and reported
// as missing.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return Session{}, false
	}
	return sess, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// DeleteUser ends every session belonging to the user.
func (s *SessionStore) DeleteUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}
}

// Prune removes expired sessions and returns how many were dropped.
func (s *SessionStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
