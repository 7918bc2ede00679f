// Package cache stores extracted guesses so unchanged artifacts are not
// re-extracted on the next run.
//
// A cache maps opaque string keys to byte slices with an optional TTL.
// Three backends implement [Cache]:
//
//   - [FileCache] for the CLI: one JSON file per key under a directory,
//     writes serialized with an advisory file lock
//   - [RedisCache] for the API server: entries shared between replicas
//   - [NullCache] when caching is disabled
//
// Keys come from a [Keyer]. The default keyer hashes the artifact's
// decoded content together with the extractor set, so any change to
// either produces a fresh key and stale entries simply expire.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte store with expiring entries. Implementations are safe
// for concurrent use.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and
	// unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// TTLGuesses is how long extracted guesses stay cached. Keys change with
// the artifact's content, so the TTL only bounds disk and memory use.
const TTLGuesses = 30 * 24 * time.Hour

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNull  = "null"
)

// Backends lists the accepted backend names.
func Backends() []string { return []string{BackendFile, BackendRedis, BackendNull} }

// Options configures [Open].
type Options struct {
	Backend  string
	Dir      string
	RedisURL string
}

// Open creates the cache selected by opts.Backend. An empty backend
// means the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisURL)
	case BackendNull, "none", "off":
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
