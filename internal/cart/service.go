package cart

import (
	"log"
	"sync"
	"time"

	"mayorista-bff/internal/cartstore"
)

// idleTTL bounds how long an untouched cart keeps its facade (and its
// persistence goroutine) alive. The cart itself survives eviction in the
// store and is restored on the owner's next request.
const idleTTL = 30 * time.Minute

// Service hands out one Facade per cart owner. The BFF keys carts by the
// session's user id, so a customer gets the same cart back across logins as
// long as the store survives. Idle facades are evicted lazily on lookup.
type Service struct {
	store  cartstore.Store
	logger *log.Logger

	mu      sync.Mutex
	entries map[string]*serviceEntry
}

type serviceEntry struct {
	facade   *Facade
	lastUsed time.Time
}

func NewService(store cartstore.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = discardLogger()
	}
	return &Service{
		store:   store,
		logger:  logger,
		entries: make(map[string]*serviceEntry),
	}
}

// ForOwner returns the owner's cart facade, restoring it from the store on
// first use.
func (s *Service) ForOwner(owner string) *Facade {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.evictIdle(now)
	if e, ok := s.entries[owner]; ok {
		e.lastUsed = now
		return e.facade
	}
	f := NewFacade(s.store, StorageKey+":"+owner, s.logger)
	s.entries[owner] = &serviceEntry{facade: f, lastUsed: now}
	return f
}

// evictIdle flushes and drops facades nobody asked for within idleTTL.
// Caller holds s.mu.
func (s *Service) evictIdle(now time.Time) {
	for owner, e := range s.entries {
		if now.Sub(e.lastUsed) > idleTTL {
			e.facade.Close()
			delete(s.entries, owner)
		}
	}
}

// Close flushes every open cart.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.facade.Close()
	}
	s.entries = make(map[string]*serviceEntry)
}
