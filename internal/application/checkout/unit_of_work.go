package checkout

import (
	"context"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/order"
)

// Repositories bundles the repositories that participate in a checkout,
// all bound to the same database transaction
type Repositories struct {
	Products catalog.ProductRepository
	Carts    cart.Repository
	Orders   order.Repository
}

// UnitOfWork runs a function against transaction-scoped repositories.
// The function's error rolls everything back; nil commits.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
