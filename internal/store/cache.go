// Package store holds the client-side entity caches: read-through lists that
// are loaded on first use and invalidated explicitly after a mutation.
package store

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the store package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Loader fetches a fresh value for a Cache.
type Loader[T any] func(ctx context.Context) (T, error)

// CacheConfig holds configuration for a Cache.
type CacheConfig struct {
	// TTL bounds how long a loaded value is served. Zero keeps it until
	// the next Invalidate.
	TTL time.Duration
	Now func() time.Time
}

// Cache is a read-through cache for a single value. Concurrent Gets share one
// load, and Invalidate guarantees that a load already in flight cannot put
// its (possibly stale) result back into the cache.
type Cache[T any] struct {
	name string
	load Loader[T]
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	value    T
	valid    bool
	loadedAt time.Time
	gen      uint64
	group    singleflight.Group
}

// NewCache creates a Cache named for logging. A nil config means no TTL.
func NewCache[T any](name string, load Loader[T], config *CacheConfig) *Cache[T] {
	c := &Cache[T]{name: name, load: load, now: time.Now}
	if config != nil {
		c.ttl = config.TTL
		if config.Now != nil {
			c.now = config.Now
		}
	}
	return c
}

// Name returns the cache name.
func (c *Cache[T]) Name() string {
	return c.name
}

// Get returns the cached value, loading it when the cache is empty, has
// been invalidated or has outlived its TTL.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	if c.freshLocked() {
		v := c.value
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gen
	c.mu.Unlock()

	// Loads for different generations never share a flight.
	v, err, shared := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		value, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.value = value
			c.valid = true
			c.loadedAt = c.now()
		} else {
			logger.Debug("dropping load superseded by invalidation", slog.String("cache", c.name))
		}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		logger.Debug("shared cache load", slog.String("cache", c.name))
	}
	return v.(T), nil
}

// Peek returns the cached value without loading. ok is false when nothing
// fresh is held.
func (c *Cache[T]) Peek() (value T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.freshLocked() {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Invalidate drops the cached value. The next Get loads again.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.valid = false
	c.gen++
}

// Refresh invalidates and reloads immediately.
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	c.Invalidate()
	return c.Get(ctx)
}

func (c *Cache[T]) freshLocked() bool {
	if !c.valid {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}
