package session

import (
	"testing"
	"time"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	sid, created := store.Create(Session{AccessToken: "tok-1", Role: "1", UserID: "42"})
	if sid == "" {
		t.Fatal("expected non-empty sid")
	}
	if created.ExpiresAt.IsZero() {
		t.Fatal("expected expiry to be stamped")
	}

	sess, ok := store.Get(sid)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if sess.AccessToken != "tok-1" || sess.Role != "1" || sess.UserID != "42" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestStoreDistinctSIDs(t *testing.T) {
	store := NewStore(time.Hour)
	a, _ := store.Create(Session{AccessToken: "a"})
	b, _ := store.Create(Session{AccessToken: "b"})
	if a == b {
		t.Fatal("expected distinct sids")
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store := NewStore(time.Hour)
	if _, ok := store.Get("nope"); ok {
		t.Fatal("expected unknown sid to miss")
	}
}

func TestStoreExpiryEvicts(t *testing.T) {
	store := NewStore(-time.Minute)
	sid, _ := store.Create(Session{AccessToken: "stale"})

	if _, ok := store.Get(sid); ok {
		t.Fatal("expected expired session to miss")
	}
	// The expired entry must be gone even if the clock rolled back.
	store.mu.RLock()
	_, still := store.sessions[sid]
	store.mu.RUnlock()
	if still {
		t.Fatal("expected expired session to be evicted")
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Hour)
	sid, _ := store.Create(Session{AccessToken: "tok"})
	store.Delete(sid)
	if _, ok := store.Get(sid); ok {
		t.Fatal("expected deleted session to miss")
	}
}

func TestStoreTTL(t *testing.T) {
	store := NewStore(30 * time.Minute)
	if store.TTL() != 30*time.Minute {
		t.Fatalf("ttl = %v", store.TTL())
	}
}
