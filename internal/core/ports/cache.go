package ports

import (
	"context"
	"time"
)

// Cache is the read-through cache collaborator used to accelerate list and
// detail reads. Entries are invalidated (not updated in place) after every
// write; a stale read between invalidation and the next populate is
// acceptable.
type Cache interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// ListKeys returns all keys with the given prefix.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// InvalidatePrefix removes every cached key under prefix. Used by services
// after writes so the next read repopulates from the store.
func InvalidatePrefix(ctx context.Context, c Cache, prefix string) error {
	keys, err := c.ListKeys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Delete(ctx, keys...)
}
