package order

import (
	"github.com/shop/backend/internal/domain/shared"
)

const (
	AggregateTypeOrder = "Order"

	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderPlacedEvent is raised when an order is created from a cart
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	UserID    string `json:"user_id"`
	Total     string `json:"total"`
	LineCount int    `json:"line_count"`
}

// NewOrderPlacedEvent creates a new order placed event
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		UserID:          o.UserID.String(),
		Total:           o.Total.String(),
		LineCount:       len(o.Lines),
	}
}

// OrderStatusChangedEvent is raised when an order transitions to a new status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new order status changed event
func NewOrderStatusChangedEvent(o *Order, old Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OldStatus:       old.String(),
		NewStatus:       o.Status.String(),
	}
}
