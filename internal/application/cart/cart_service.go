package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// CartService handles cart business operations
type CartService struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.Repository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem adds a product to the user's cart, or increases the quantity when
// the product is already there. The price is snapshotted on first add.
// Availability is checked against the combined quantity so a cart can never
// ask for more than the catalog currently holds.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewProductNotFoundError(req.ProductID.String())
		}
		return nil, err
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, req.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	wanted := req.Quantity
	if existing != nil {
		wanted += existing.Quantity
	}
	if !product.HasStock(wanted) {
		return nil, shared.NewInsufficientStockError(product.Name, wanted, product.Stock)
	}

	if existing != nil {
		if err := existing.IncreaseQuantity(req.Quantity); err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		item, err := cart.NewCartItem(userID, req.ProductID, req.Quantity, product.GetPriceMoney())
		if err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, userID)
}

// UpdateItem replaces the quantity of a cart line
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(req.Quantity) {
		return nil, shared.NewInsufficientStockError(product.Name, req.Quantity, product.Stock)
	}

	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem removes a product from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	if err := s.cartRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// Clear removes every item from the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}

// GetCart returns the user's cart with product names and the running total
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		name := ""
		if product, err := s.productRepo.FindByID(ctx, items[i].ProductID); err == nil {
			name = product.Name
		}
		responses = append(responses, ToItemResponse(&items[i], name))
	}

	return &CartResponse{
		Items: responses,
		Total: cart.Total(items),
	}, nil
}
