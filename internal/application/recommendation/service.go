package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/recommendation"
	"github.com/shop/backend/internal/domain/shared"
)

// DefaultLimit is the number of recommendations the HTTP layer asks for
// when the caller does not specify a count
const DefaultLimit = 5

// candidateWindow bounds how much of the catalog is scored locally
const candidateWindow = 1000

// RemoteClient proxies recommendation requests to an external scoring
// service. Implementations must treat any failure as recoverable; the
// service always falls back to local scoring.
type RemoteClient interface {
	RecommendByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]RecommendationResponse, error)
	RecommendByUser(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendationResponse, error)
}

// Cache stores computed recommendation lists for a short time
// Get returns shared.ErrNotFound on a miss
type Cache interface {
	Get(ctx context.Context, key string) ([]RecommendationResponse, error)
	Set(ctx context.Context, key string, items []RecommendationResponse, ttl time.Duration) error
}

// Service computes product recommendations. Remote scoring and caching
// are both optional; with neither configured it degrades to pure local
// category scoring.
type Service struct {
	productRepo catalog.ProductRepository
	userRepo    identity.Repository
	remote      RemoteClient
	cache       Cache
	cacheTTL    time.Duration
}

// NewService creates a new recommendation Service
func NewService(productRepo catalog.ProductRepository, userRepo identity.Repository) *Service {
	return &Service{
		productRepo: productRepo,
		userRepo:    userRepo,
		cacheTTL:    5 * time.Minute,
	}
}

// SetRemoteClient enables proxying to an external recommender
func (s *Service) SetRemoteClient(client RemoteClient) {
	s.remote = client
}

// SetCache enables caching of computed recommendations
func (s *Service) SetCache(cache Cache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// RecommendByProduct returns products similar to the given one, ranked by
// category overlap. The reference product itself is never included.
func (s *Service) RecommendByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]RecommendationResponse, error) {
	if limit <= 0 {
		return []RecommendationResponse{}, nil
	}

	key := fmt.Sprintf("rec:product:%s:%d", productID, limit)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	if s.remote != nil {
		if items, err := s.remote.RecommendByProduct(ctx, productID, limit); err == nil {
			s.cacheSet(ctx, key, items)
			return items, nil
		}
	}

	reference, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		// An unknown reference product yields nothing to compare against,
		// not an error
		return []RecommendationResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	items := toResponses(recommendation.RankByProduct(reference, candidates, limit))
	s.cacheSet(ctx, key, items)
	return items, nil
}

// RecommendByUser returns products matching the user's category preferences.
// Users without preferences get the most stocked products instead.
func (s *Service) RecommendByUser(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendationResponse, error) {
	if limit <= 0 {
		return []RecommendationResponse{}, nil
	}

	key := fmt.Sprintf("rec:user:%s:%d", userID, limit)
	if cached, ok := s.cacheGet(ctx, key); ok {
		return cached, nil
	}

	if s.remote != nil {
		if items, err := s.remote.RecommendByUser(ctx, userID, limit); err == nil {
			s.cacheSet(ctx, key, items)
			return items, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return []RecommendationResponse{}, nil
	}
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	var scored []recommendation.Scored
	if len(user.Preferences) == 0 {
		scored = recommendation.RankByPopularity(candidates, limit)
	} else {
		scored = recommendation.RankByPreferences(user.PreferenceSet(), candidates, limit)
	}

	items := toResponses(scored)
	s.cacheSet(ctx, key, items)
	return items, nil
}

func (s *Service) candidates(ctx context.Context) ([]catalog.Product, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = candidateWindow
	return s.productRepo.FindAll(ctx, filter)
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]RecommendationResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	items, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	return items, true
}

func (s *Service) cacheSet(ctx context.Context, key string, items []RecommendationResponse) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, items, s.cacheTTL)
}
