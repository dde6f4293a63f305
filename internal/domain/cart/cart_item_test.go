package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/shared/valueobject"
)

func newTestItem(t *testing.T, quantity int, price float64) *CartItem {
	item, err := NewCartItem(uuid.New(), uuid.New(), quantity, valueobject.NewMoneyUSDFromFloat(price))
	require.NoError(t, err)
	return item
}

func TestNewCartItem(t *testing.T) {
	t.Run("creates item with snapshot price", func(t *testing.T) {
		item := newTestItem(t, 2, 10.00)

		assert.Equal(t, 2, item.Quantity)
		assert.True(t, item.Price.Equal(decimal.NewFromFloat(10.00)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewCartItem(uuid.New(), uuid.New(), 0, valueobject.NewMoneyUSDFromFloat(1))
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewCartItem(uuid.New(), uuid.New(), -1, valueobject.NewMoneyUSDFromFloat(1))
		assert.Error(t, err)
	})

	t.Run("rejects nil user or product", func(t *testing.T) {
		_, err := NewCartItem(uuid.Nil, uuid.New(), 1, valueobject.NewMoneyUSDFromFloat(1))
		assert.Error(t, err)

		_, err = NewCartItem(uuid.New(), uuid.Nil, 1, valueobject.NewMoneyUSDFromFloat(1))
		assert.Error(t, err)
	})
}

func TestCartItem_IncreaseQuantity(t *testing.T) {
	item := newTestItem(t, 2, 10.00)

	require.NoError(t, item.IncreaseQuantity(3))
	assert.Equal(t, 5, item.Quantity)

	assert.Error(t, item.IncreaseQuantity(0))
	assert.Equal(t, 5, item.Quantity)
}

func TestCartItem_SetQuantity(t *testing.T) {
	item := newTestItem(t, 2, 10.00)

	require.NoError(t, item.SetQuantity(7))
	assert.Equal(t, 7, item.Quantity)

	assert.Error(t, item.SetQuantity(-1))
}

func TestCartItem_Amount(t *testing.T) {
	item := newTestItem(t, 3, 5.50)
	assert.True(t, item.Amount().Equal(decimal.NewFromFloat(16.50)))
}

func TestTotal(t *testing.T) {
	t.Run("sums line amounts", func(t *testing.T) {
		a := newTestItem(t, 2, 10.00)
		b := newTestItem(t, 1, 5.00)

		total := Total([]CartItem{*a, *b})
		assert.True(t, total.Equal(decimal.NewFromFloat(25.00)))
	})

	t.Run("empty cart totals zero", func(t *testing.T) {
		assert.True(t, Total(nil).IsZero())
	})
}
