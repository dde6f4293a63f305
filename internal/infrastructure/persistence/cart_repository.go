package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/shared"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns all cart items for a user, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.CartItem, error) {
	var items []cart.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByUserForUpdate returns all cart items for a user under FOR UPDATE locks
func (r *GormCartRepository) FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]cart.CartItem, error) {
	var items []cart.CartItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByUserAndProduct finds a single cart line
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Save creates or updates a cart line
func (r *GormCartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteByUserAndProduct removes one line from the cart
func (r *GormCartRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&cart.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByUser removes all cart lines for a user
// Deleting an already empty cart is not an error
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&cart.CartItem{}).Error
}
