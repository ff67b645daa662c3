// Package cartstore provides the durable key-value port the cart subsystem
// persists through, with in-memory, Redis and Postgres backends.
package cartstore

import "context"

// Store is a minimal key-value port: one serialized cart record per key.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes the value under key, overwriting any previous one.
	Set(ctx context.Context, key, value string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
