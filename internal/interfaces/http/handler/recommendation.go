package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shop/backend/internal/application/recommendation"
)

// DefaultRecommendationLimit is applied when no limit query parameter is given
const DefaultRecommendationLimit = 5

// RecommendationHandler handles recommendation requests
type RecommendationHandler struct {
	BaseHandler
	service *recommendation.Service
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service *recommendation.Service) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// RegisterRoutes registers recommendation routes
func (h *RecommendationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recs := rg.Group("/recommendations")
	{
		recs.GET("/products/:id", h.ByProduct)
		recs.GET("/me", h.ForUser)
	}
}

// ByProduct returns products similar to the given one
func (h *RecommendationHandler) ByProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	result, err := h.service.RecommendByProduct(c.Request.Context(), productID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ForUser returns products matching the authenticated user's preferences
func (h *RecommendationHandler) ForUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit, ok := h.limitParam(c)
	if !ok {
		return
	}

	result, err := h.service.RecommendByUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// limitParam reads the limit query parameter, applying the default when absent
func (h *RecommendationHandler) limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return DefaultRecommendationLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		h.BadRequest(c, "Invalid limit parameter")
		return 0, false
	}
	return limit, true
}
