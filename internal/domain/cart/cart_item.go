package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// CartItem represents a pending intent to purchase a quantity of one product
// The price is snapshotted from the product at add time and stays the source
// of truth for the eventual order line
type CartItem struct {
	shared.BaseEntity
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a new cart item with a price snapshot
func NewCartItem(userID, productID uuid.UUID, quantity int, price valueobject.Money) (*CartItem, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		Price:      price.Amount(),
	}, nil
}

// IncreaseQuantity adds to the quantity of an existing item
// The original price snapshot is kept
func (i *CartItem) IncreaseQuantity(by int) error {
	if by <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity += by
	i.UpdatedAt = time.Now()
	return nil
}

// SetQuantity replaces the quantity of an existing item
func (i *CartItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Amount returns price * quantity for this line
func (i *CartItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// GetPriceMoney returns the snapshotted price as a Money value object
func (i *CartItem) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Price)
}

// Total sums price * quantity over a set of cart items
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for idx := range items {
		total = total.Add(items[idx].Amount())
	}
	return total
}
