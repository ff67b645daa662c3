package cartstore

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestRedis_SetGet(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	store := NewRedis(client)
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	const key = "test:mayorista_cart_v1:alice"
	defer client.Del(ctx, key)

	if _, ok, err := store.Get(ctx, key+":absent"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, key, `{"items":[]}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Get(ctx, key)
	if err != nil || !ok || v != `{"items":[]}` {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}
}
