package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// ProductRepository defines the persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByIDForUpdate loads a product under a row-level write lock
	// Only meaningful inside a transaction; used by the checkout unit of work
	// to serialize concurrent stock decrements per product
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// DecrementStock atomically reduces stock, guarded so the stored value
	// can never go negative; returns shared.ErrInsufficientStock when the
	// guard rejects the decrement
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}
