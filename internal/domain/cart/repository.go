package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for cart items
type Repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartItem, error)

	// FindByUserForUpdate loads the cart under row-level write locks.
	// Only meaningful inside a transaction; checkout uses it so a second
	// concurrent checkout for the same user blocks, then observes the
	// already-emptied cart instead of double-ordering
	FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]CartItem, error)

	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartItem, error)
	Save(ctx context.Context, item *CartItem) error
	DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error

	// DeleteByUser removes all cart items for a user; the checkout unit of
	// work calls this in the same transaction as the order insert
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
