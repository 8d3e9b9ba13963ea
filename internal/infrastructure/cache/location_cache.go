// Package cache provides the Redis client and the caches built on it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocationCache remembers resolved IP locations so repeat visitors do not
// spend the geolocation rate limit
type LocationCache interface {
	// Get returns the cached location for ip, if any
	Get(ctx context.Context, ip string) (string, bool, error)

	// Set stores a location for ip for ttl
	Set(ctx context.Context, ip, location string, ttl time.Duration) error
}

// RedisLocationCache implements LocationCache using Redis
type RedisLocationCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisLocationCache creates a location cache on an existing Redis client
func NewRedisLocationCache(client *redis.Client) *RedisLocationCache {
	return &RedisLocationCache{
		client:    client,
		keyPrefix: "batchtrack:geo:",
	}
}

// Get returns the cached location for ip
func (c *RedisLocationCache) Get(ctx context.Context, ip string) (string, bool, error) {
	location, err := c.client.Get(ctx, c.keyPrefix+ip).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read location cache: %w", err)
	}
	return location, true, nil
}

// Set stores a location for ip
func (c *RedisLocationCache) Set(ctx context.Context, ip, location string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+ip, location, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write location cache: %w", err)
	}
	return nil
}

var _ LocationCache = (*RedisLocationCache)(nil)

type entry struct {
	location  string
	expiresAt time.Time
}

// InMemoryLocationCache implements LocationCache with a map.
// It is used when Redis is disabled or unreachable.
type InMemoryLocationCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryLocationCache creates a new in-memory location cache.
// It starts a background goroutine that drops expired entries.
func NewInMemoryLocationCache() *InMemoryLocationCache {
	c := &InMemoryLocationCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached location for ip
func (c *InMemoryLocationCache) Get(_ context.Context, ip string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[ip]
	if !ok || c.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.location, true, nil
}

// Set stores a location for ip
func (c *InMemoryLocationCache) Set(_ context.Context, ip, location string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ip] = entry{location: location, expiresAt: c.now().Add(ttl)}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryLocationCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired or not
func (c *InMemoryLocationCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryLocationCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryLocationCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for ip, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, ip)
		}
	}
}

var _ LocationCache = (*InMemoryLocationCache)(nil)
