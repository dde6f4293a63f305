package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/order"
)

// UpdateOrderStatusRequest represents an administrative status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// OrderLineResponse represents one line of an order
type OrderLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Status    string              `json:"status"`
	Lines     []OrderLineResponse `json:"lines"`
	Total     decimal.Decimal     `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an order aggregate to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Amount:    line.Amount(),
		})
	}

	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    o.Status.String(),
		Lines:     lines,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
