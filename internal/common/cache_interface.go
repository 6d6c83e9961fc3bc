package common

import (
	"context"
	"errors"
	"time"
)

var ErrCacheUnavailable = errors.New("cache unavailable")

// CacheInterface defines the contract for cache implementations.
// Values are stored as JSON so every backend round-trips the same types.
type CacheInterface interface {
	// Set stores a value under key for the given duration
	Set(ctx context.Context, key string, value any, duration time.Duration) error

	// Get decodes the value under key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)

	Delete(ctx context.Context, key string) error

	// Take is Get and Delete in one step: of several concurrent callers at
	// most one finds the value.
	Take(ctx context.Context, key string, dest any) (bool, error)

	Ping(ctx context.Context) error

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
