package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/cart"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest represents a request to change the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// ItemResponse represents one cart line in API responses
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	AddedAt     time.Time       `json:"added_at"`
}

// CartResponse represents the full cart of a user
type CartResponse struct {
	Items []ItemResponse  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// ToItemResponse converts a cart item to a response DTO
func ToItemResponse(item *cart.CartItem, productName string) ItemResponse {
	return ItemResponse{
		ProductID:   item.ProductID,
		ProductName: productName,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Amount:      item.Amount(),
		AddedAt:     item.CreatedAt,
	}
}
