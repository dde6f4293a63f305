package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/application/recommendation"
	"github.com/shop/backend/internal/domain/shared"
)

func sampleItems() []recommendation.RecommendationResponse {
	return []recommendation.RecommendationResponse{
		{ID: uuid.New(), Name: "Wireless Mouse", Score: 0.5},
		{ID: uuid.New(), Name: "USB Hub", Score: 0.25},
	}
}

func TestInMemoryRecommendationCache(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cache := NewInMemoryRecommendationCache()
		defer cache.Close()

		items := sampleItems()
		require.NoError(t, cache.Set(context.Background(), "rec:product:abc:5", items, time.Minute))

		got, err := cache.Get(context.Background(), "rec:product:abc:5")
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("miss returns not found", func(t *testing.T) {
		cache := NewInMemoryRecommendationCache()
		defer cache.Close()

		_, err := cache.Get(context.Background(), "rec:product:missing:5")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("expired entry behaves like a miss", func(t *testing.T) {
		cache := NewInMemoryRecommendationCache()
		defer cache.Close()

		require.NoError(t, cache.Set(context.Background(), "rec:user:u1:5", sampleItems(), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, err := cache.Get(context.Background(), "rec:user:u1:5")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("non-positive ttl is not stored", func(t *testing.T) {
		cache := NewInMemoryRecommendationCache()
		defer cache.Close()

		require.NoError(t, cache.Set(context.Background(), "rec:user:u2:5", sampleItems(), 0))

		_, err := cache.Get(context.Background(), "rec:user:u2:5")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
