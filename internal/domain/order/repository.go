package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// Repository defines the persistence interface for orders
type Repository interface {
	// Insert persists a new order together with its lines
	Insert(ctx context.Context, o *Order) error

	// FindByID returns the order with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser returns the user's orders newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// Save updates an existing order (status transitions)
	Save(ctx context.Context, o *Order) error
}
