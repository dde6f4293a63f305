package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/application/recommendation"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/config"
)

// RedisRecommendationCache stores serialized recommendation lists in Redis
type RedisRecommendationCache struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// RedisRecommendationCacheOption is a functional option for configuring the cache
type RedisRecommendationCacheOption func(*RedisRecommendationCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisRecommendationCacheOption {
	return func(c *RedisRecommendationCache) {
		c.logger = logger
	}
}

// NewRedisRecommendationCache creates a cache backed by a new Redis client
// and verifies connectivity before returning
func NewRedisRecommendationCache(cfg config.RedisConfig, opts ...RedisRecommendationCacheOption) (*RedisRecommendationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisRecommendationCache{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// NewRedisRecommendationCacheWithClient creates a cache sharing an existing client.
// Useful for testing or when a client is shared across components.
func NewRedisRecommendationCacheWithClient(client *redis.Client) *RedisRecommendationCache {
	return &RedisRecommendationCache{
		client: client,
		logger: zap.NewNop(),
	}
}

// Get retrieves a cached recommendation list, returning shared.ErrNotFound on a miss
func (c *RedisRecommendationCache) Get(ctx context.Context, key string) ([]recommendation.RecommendationResponse, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read recommendation cache: %w", err)
	}

	var items []recommendation.RecommendationResponse
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes and overwrites it
		c.logger.Warn("discarding corrupt recommendation cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, shared.ErrNotFound
	}
	return items, nil
}

// Set stores a recommendation list with the given TTL
func (c *RedisRecommendationCache) Set(ctx context.Context, key string, items []recommendation.RecommendationResponse, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize recommendations: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write recommendation cache: %w", err)
	}
	return nil
}

// Close closes the Redis client if this cache created it
func (c *RedisRecommendationCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ recommendation.Cache = (*RedisRecommendationCache)(nil)
