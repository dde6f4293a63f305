package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shop/backend/internal/application/recommendation"
	"github.com/shop/backend/internal/domain/shared"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryRecommendationCache implements recommendation.Cache with local
// storage. Suitable for single-instance deployments and as a fallback when
// Redis is not configured.
type InMemoryRecommendationCache struct {
	entries sync.Map // map[string]*cacheEntry
	stopCh  chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	items     []recommendation.RecommendationResponse
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryRecommendationCache creates an in-memory cache and starts its
// background cleanup goroutine
func NewInMemoryRecommendationCache() *InMemoryRecommendationCache {
	cache := &InMemoryRecommendationCache{
		stopCh: make(chan struct{}),
	}
	go cache.cleanupExpired()
	return cache
}

// Get retrieves a cached recommendation list, returning shared.ErrNotFound on a miss
func (c *InMemoryRecommendationCache) Get(ctx context.Context, key string) ([]recommendation.RecommendationResponse, error) {
	value, ok := c.entries.Load(key)
	if !ok {
		return nil, shared.ErrNotFound
	}
	entry := value.(*cacheEntry)
	if entry.isExpired() {
		c.entries.Delete(key)
		return nil, shared.ErrNotFound
	}
	return entry.items, nil
}

// Set stores a recommendation list with the given TTL
func (c *InMemoryRecommendationCache) Set(ctx context.Context, key string, items []recommendation.RecommendationResponse, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.entries.Store(key, &cacheEntry{
		items:     items,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryRecommendationCache) Close() error {
	c.once.Do(func() {
		close(c.stopCh)
	})
	return nil
}

func (c *InMemoryRecommendationCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ recommendation.Cache = (*InMemoryRecommendationCache)(nil)
