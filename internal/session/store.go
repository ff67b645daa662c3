// Package session keeps the BFF's cookie sessions: an in-memory expiring
// map from session id to the upstream bearer token plus the few user fields
// exposed on /auth/me.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is everything the BFF remembers about a logged-in browser.
type Session struct {
	AccessToken string
	Role        string
	UserID      string
	ExpiresAt   time.Time
	// RawLogin is the upstream login response as received, kept so /auth/me
	// style endpoints can expose extra fields without re-parsing upstream.
	RawLogin json.RawMessage
}

// Store maps session ids to sessions. Expired entries are evicted lazily on
// lookup, never proactively; the map stays small because sids are only
// minted on login.
type Store struct {
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

// Create mints a fresh sid for the session and stamps its expiry.
func (s *Store) Create(sess Session) (string, Session) {
	sid := uuid.NewString()
	sess.ExpiresAt = time.Now().Add(s.ttl)
	s.mu.Lock()
	s.sessions[sid] = sess
	s.mu.Unlock()
	return sid, sess
}

// Get returns the live session for sid, evicting it when expired.
func (s *Store) Get(sid string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
		return Session{}, false
	}
	return sess, true
}

// Delete drops the session, if it exists.
func (s *Store) Delete(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

// TTL is the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
