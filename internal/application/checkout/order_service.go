package checkout

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared"
)

// OrderService handles order creation and lifecycle operations
type OrderService struct {
	uow            UnitOfWork
	orderRepo      order.Repository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(uow UnitOfWork, orderRepo order.Repository) *OrderService {
	return &OrderService{
		uow:       uow,
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the event publisher
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder converts the user's cart into an order in one transaction.
// Stock is decremented per line under row locks and the cart is cleared;
// any failure rolls the whole thing back, so a shopper never ends up with
// a partial order or a half-drained cart.
//
// Products are locked in ascending ID order so two concurrent checkouts
// touching the same products cannot deadlock.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID) (*OrderResponse, error) {
	var placed *order.Order

	err := s.uow.Execute(ctx, func(repos Repositories) error {
		items, err := repos.Carts.FindByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return shared.ErrEmptyCart
		}

		sort.Slice(items, func(i, j int) bool {
			return items[i].ProductID.String() < items[j].ProductID.String()
		})

		lines := make([]order.Line, 0, len(items))
		for i := range items {
			item := &items[i]

			product, err := repos.Products.FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewProductNotFoundError(item.ProductID.String())
				}
				return err
			}

			if !product.HasStock(item.Quantity) {
				return shared.NewInsufficientStockError(product.Name, item.Quantity, product.Stock)
			}
			if err := repos.Products.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewInsufficientStockError(product.Name, item.Quantity, product.Stock)
				}
				return err
			}

			line, err := order.NewLine(item.ProductID, item.Quantity, item.GetPriceMoney())
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		o, err := order.NewOrder(userID, lines)
		if err != nil {
			return err
		}
		if err := repos.Orders.Insert(ctx, o); err != nil {
			return err
		}
		if err := repos.Carts.DeleteByUser(ctx, userID); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, placed)

	response := ToOrderResponse(placed)
	return &response, nil
}

// GetOrder retrieves one of the user's orders
// Admins may read any order
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListOrders retrieves the user's orders newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}

	page, err := s.orderRepo.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToOrderResponse(&page.Items[i]))
	}

	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateStatus transitions an order to a new status (admin operation)
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.UpdateStatus(order.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}

	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
