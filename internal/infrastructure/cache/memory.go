// Package cache provides the interpretation cache backends.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shanto268/DishCord/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

type entry struct {
	value   interface{}
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// MemoryConfig tunes the in-process cache
type MemoryConfig struct {
	// MaxEntries bounds the cache; 0 means unbounded
	MaxEntries      int
	CleanupInterval time.Duration
}

// MemoryCache is a thread-safe in-process cache with TTL support. Values are
// stored as their JSON form so reads look the same as from Redis.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]entry
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemoryCache creates a cache and starts its janitor goroutine
func NewMemoryCache(cfg MemoryConfig) *MemoryCache {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	c := &MemoryCache{
		data:       make(map[string]entry),
		maxEntries: cfg.MaxEntries,
		stop:       make(chan struct{}),
	}
	go c.janitor(cfg.CleanupInterval)
	return c
}

// Get returns domain.ErrCacheMiss for absent or expired keys
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value under key. A ttl of zero keeps the entry until evicted.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}

	e := entry{value: stored}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; !exists && c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.evictLocked()
	}
	c.data[key] = e
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[key]
	return ok && !e.expired(time.Now()), nil
}

// Size returns the number of stored entries, expired ones included until swept
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear removes every entry
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.data = make(map[string]entry)
	c.mu.Unlock()
}

// Close stops the janitor goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// evictLocked drops expired entries, or failing that the entry closest to expiry
func (c *MemoryCache) evictLocked() {
	now := time.Now()
	if c.sweepLocked(now) > 0 {
		return
	}

	var victim string
	var soonest time.Time
	for key, e := range c.data {
		if victim == "" || (!e.expires.IsZero() && (soonest.IsZero() || e.expires.Before(soonest))) {
			victim, soonest = key, e.expires
		}
	}
	delete(c.data, victim)
}

func (c *MemoryCache) sweepLocked(now time.Time) int {
	removed := 0
	for key, e := range c.data {
		if e.expired(now) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			c.sweepLocked(now)
			c.mu.Unlock()
		}
	}
}
