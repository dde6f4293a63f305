package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Status represents the status of an order
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPlaced:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// Line represents one immutable line of an order: a product, the ordered
// quantity, and the unit price captured from the cart snapshot
type Line struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null;check:quantity > 0"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// NewLine creates a new order line
func NewLine(productID uuid.UUID, quantity int, price valueobject.Money) (Line, error) {
	if productID == uuid.Nil {
		return Line{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return Line{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return Line{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return Line{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		Price:     price.Amount(),
		CreatedAt: time.Now(),
	}, nil
}

// Amount returns price * quantity for this line
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order represents an order aggregate root
// Orders are created atomically from a cart and are immutable afterwards
// except for the status field
type Order struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Lines  []Line          `gorm:"foreignKey:OrderID"`
	Status Status          `gorm:"type:varchar(20);not null;default:'placed'"`
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the placed status
// The total is computed from the lines; an order must carry at least one line
func NewOrder(userID uuid.UUID, lines []Line) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "Order must contain at least one line")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            StatusPlaced,
	}

	total := decimal.Zero
	for _, line := range lines {
		line.OrderID = o.ID
		o.Lines = append(o.Lines, line)
		total = total.Add(line.Amount())
	}
	o.Total = total

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// UpdateStatus transitions the order to a new status
// Only performed by administrative callers; invalid transitions are rejected
func (o *Order) UpdateStatus(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	old := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))

	return nil
}

// GetTotalMoney returns the total as a Money value object
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}
