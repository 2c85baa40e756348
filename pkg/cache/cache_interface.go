package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations may be
// Redis or in-memory; callers must treat a miss (found == false) as
// "go to the database", never as an error.
type Cache interface {
	// Get loads the value stored under key and unmarshals it into dest.
	// Returns found == false on a miss; dest is untouched in that case.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
