package recommendation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/recommendation"
)

// RecommendationResponse represents one recommended product with its score
type RecommendationResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Categories []string        `json:"categories"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Score      float64         `json:"score"`
}

// ToRecommendationResponse converts a scored product to a response DTO
func ToRecommendationResponse(s recommendation.Scored) RecommendationResponse {
	return RecommendationResponse{
		ID:         s.Product.ID,
		Name:       s.Product.Name,
		Categories: append([]string{}, s.Product.Categories...),
		Price:      s.Product.Price,
		Stock:      s.Product.Stock,
		Score:      s.Score,
	}
}

func toResponses(scored []recommendation.Scored) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(scored))
	for _, s := range scored {
		out = append(out, ToRecommendationResponse(s))
	}
	return out
}
