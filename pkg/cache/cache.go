// Package cache provides pluggable byte-level caching backends used by
// the serve API for response caching. [Hash] also keys the metrics memo.
//
// Three backends are provided:
//   - [FileCache]: directory-backed cache for single-host deployments
//   - [RedisCache]: Redis-backed cache for multi-instance deployments
//   - [NullCache]: no-op cache for tests and cache-disabled runs
//
// Backends store opaque byte slices; callers handle serialization. For
// typed JSON caching of upstream HTTP responses, see pkg/httputil.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all caching backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// NullCache misses every Get and discards every Set. It stands in for a
// real backend when no cache directory is available and in tests that
// must not reuse responses.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (NullCache) Delete(ctx context.Context, key string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
