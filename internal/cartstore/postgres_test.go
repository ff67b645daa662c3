package cartstore

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"mayorista-bff/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func TestPostgres_SetGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_records`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	store := NewPostgres(pool)

	if _, ok, err := store.Get(ctx, "cart:absent"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "cart:alice", `{"items":[]}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "cart:alice", `{"items":[{"id":"A","name":"x","unitPrice":10,"stock":5,"qty":1}]}`); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	v, ok, err := store.Get(ctx, "cart:alice")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v == `{"items":[]}` {
		t.Fatalf("expected upserted value, got the first write")
	}

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
