package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"mayorista-bff/internal/cartstore"
	"mayorista-bff/internal/domain"
)

// StorageKey is the fixed key the cart record lives under. The BFF scopes it
// per owner by appending ":<owner>".
const StorageKey = "mayorista_cart_v1"

// Adapter serializes cart state to and from a key-value store. It never
// surfaces an error: a missing, unreadable or wrong-shaped record loads as
// the empty cart, and a failed save is logged and dropped, leaving the
// in-memory state authoritative for the session.
type Adapter struct {
	store  cartstore.Store
	key    string
	logger *log.Logger
}

func NewAdapter(store cartstore.Store, key string, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = discardLogger()
	}
	return &Adapter{store: store, key: key, logger: logger}
}

// Load reads the persisted cart. Corruption degrades to the empty state; the
// stored record must at least carry an "items" array to count as valid.
func (a *Adapter) Load(ctx context.Context) domain.Cart {
	raw, ok, err := a.store.Get(ctx, a.key)
	if err != nil {
		a.logger.Printf("cart persist: load key=%s error=%v", a.key, err)
		return Initial()
	}
	if !ok {
		return Initial()
	}

	var decoded struct {
		Items *[]domain.CartLine `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil || decoded.Items == nil {
		return Initial()
	}
	return domain.Cart{Items: *decoded.Items}
}

// Save writes the full state under the fixed key. Failures are swallowed.
func (a *Adapter) Save(ctx context.Context, state domain.Cart) {
	if state.Items == nil {
		state.Items = []domain.CartLine{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		a.logger.Printf("cart persist: marshal key=%s error=%v", a.key, err)
		return
	}
	if err := a.store.Set(ctx, a.key, string(raw)); err != nil {
		a.logger.Printf("cart persist: save key=%s error=%v", a.key, err)
	}
}

// saver decouples dispatch from storage latency. Writes for the key are
// serialized through a single goroutine holding at most the newest pending
// state, so the persisted record always converges on the latest transition
// even when the backend is slow.
type saver struct {
	adapter *Adapter

	mu      sync.Mutex
	pending *domain.Cart
	closed  bool

	kick chan struct{}
	done chan struct{}
}

func newSaver(adapter *Adapter) *saver {
	s := &saver{
		adapter: adapter,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *saver) run() {
	for range s.kick {
		for {
			s.mu.Lock()
			state := s.pending
			s.pending = nil
			s.mu.Unlock()
			if state == nil {
				break
			}
			s.adapter.Save(context.Background(), *state)
		}
	}
	close(s.done)
}

// enqueue replaces any not-yet-written state with this one.
func (s *saver) enqueue(state domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = &state
	// The send stays under the lock so close cannot close the channel
	// between the flag check and the kick.
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// close flushes the pending state and stops the writer.
func (s *saver) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.kick)
	<-s.done
	s.mu.Lock()
	state := s.pending
	s.pending = nil
	s.mu.Unlock()
	if state != nil {
		s.adapter.Save(context.Background(), *state)
	}
}
