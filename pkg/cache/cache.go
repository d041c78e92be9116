// Package cache provides a flexible caching interface and implementations
// for in-memory and Redis-backed caches.
package cache

import (
	"context"
	"errors"
	"time"

	"netdivert/pkg/config"
)

// Backend types for cache implementations.
const (
	// BackendMemory specifies an in-memory cache backend.
	BackendMemory = "memory"
	// BackendRedis specifies a Redis cache backend.
	BackendRedis = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the cache.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is the minimal key/value contract SolverCache needs to memoize a
// solver.SolveResult by graph/mode key: store/retrieve an opaque blob under a
// TTL, and drop every key for a graph (Invalidate) or for the whole cache
// (InvalidateAll) via a key pattern. It deliberately does not carry the
// general-purpose batch/introspection surface (MGet, Keys, Stats, ...) a
// standalone KV library would: nothing in this module needs it, and carrying
// it would just be unused surface shaping nothing.
type Cache interface {
	// Get retrieves the value associated with the given key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value for the given key with a specified time-to-live (TTL).
	// If the key already exists, its value and TTL are updated.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key-value pair from the cache.
	// Returns nil if the key was not found or successfully deleted.
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes all keys matching a given pattern.
	// Returns the number of keys that were deleted.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	// Close shuts down the cache and releases any underlying resources.
	Close() error
}

// Options contains configuration parameters for creating a Cache instance.
type Options struct {
	Backend    string        // The desired cache backend: BackendMemory or BackendRedis.
	DefaultTTL time.Duration // The default time-to-live for cache entries if not specified per operation.

	// Memory cache specific options
	MaxEntries      int           // Maximum number of entries for the memory cache.
	CleanupInterval time.Duration // Interval for background cleanup of expired entries in memory cache.

	// Redis cache specific options
	RedisAddr     string // Address of the Redis server (e.g., "localhost:6379").
	RedisPassword string // Password for Redis authentication.
	RedisDB       int    // Redis database number to use.
	RedisPoolSize int    // Maximum number of connections in the Redis client pool.
}

// DefaultOptions returns a new Options struct with sensible default values.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      5 * time.Minute,
		MaxEntries:      100000,
		CleanupInterval: 1 * time.Minute,
		RedisAddr:       "localhost:6379",
		RedisDB:         0,
		RedisPoolSize:   10,
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:       cfg.Driver,
		DefaultTTL:    cfg.DefaultTTL,
		MaxEntries:    cfg.MaxEntries,
		RedisAddr:     cfg.Address(),
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
		RedisPoolSize: 10,
	}
}

// New создаёт кэш на основе опций
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	case BackendMemory, "":
		return NewMemoryCache(opts), nil
	default:
		return NewMemoryCache(opts), nil
	}
}

// MustNew создаёт кэш или паникует
func MustNew(opts *Options) Cache {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}
