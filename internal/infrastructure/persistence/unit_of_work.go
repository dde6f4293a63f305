package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/shop/backend/internal/application/checkout"
)

// GormUnitOfWork implements checkout.UnitOfWork on top of a GORM transaction.
// Every repository handed to the callback is bound to the same transaction,
// so the checkout either fully commits or fully rolls back.
type GormUnitOfWork struct {
	database *Database
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(database *Database) *GormUnitOfWork {
	return &GormUnitOfWork{database: database}
}

// Execute runs fn inside a transaction with transaction-scoped repositories
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos checkout.Repositories) error) error {
	return u.database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(checkout.Repositories{
			Products: NewGormProductRepository(tx),
			Carts:    NewGormCartRepository(tx),
			Orders:   NewGormOrderRepository(tx),
		})
	})
}
