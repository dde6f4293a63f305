package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/shared"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "description", "categories", "price", "stock", "images", "attributes", "version"}).
			AddRow(productID, "Laptop", "A laptop", "{Electronics,Laptops}", decimal.RequireFromString("999.00"), 5, "{}", "{}", 1)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Laptop", product.Name)
		assert.Equal(t, []string{"Electronics", "Laptops"}, []string(product.Categories))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), productID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByIDForUpdate(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(gormDB)

	productID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "version"}).
		AddRow(productID, "Laptop", decimal.RequireFromString("999.00"), 5, 1)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(productID, 1).
		WillReturnRows(rows)

	product, err := repo.FindByIDForUpdate(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	t.Run("decrements when enough stock", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1 WHERE id = \$2 AND stock >= \$3`).
			WithArgs(2, productID, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DecrementStock(context.Background(), productID, 2)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard rejects oversell", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(gormDB)

		productID := uuid.New()
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1 WHERE id = \$2 AND stock >= \$3`).
			WithArgs(10, productID, 10).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DecrementStock(context.Background(), productID, 10)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(gormDB)

	productID := uuid.New()
	mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), productID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
