package order

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

func mustLine(t *testing.T, quantity int, price string) Line {
	t.Helper()
	p, err := valueobject.NewMoneyUSDFromString(price)
	require.NoError(t, err)
	line, err := NewLine(uuid.New(), quantity, p)
	require.NoError(t, err)
	return line
}

func TestNewOrder(t *testing.T) {
	t.Run("creates order with computed total", func(t *testing.T) {
		userID := uuid.New()
		lines := []Line{
			mustLine(t, 2, "10.00"),
			mustLine(t, 1, "5.00"),
		}

		o, err := NewOrder(userID, lines)

		require.NoError(t, err)
		assert.Equal(t, userID, o.UserID)
		assert.Equal(t, StatusPlaced, o.Status)
		assert.Equal(t, 2, o.LineCount())
		assert.True(t, o.Total.Equal(decimal.RequireFromString("25.00")))
		for _, line := range o.Lines {
			assert.Equal(t, o.ID, line.OrderID)
		}
	})

	t.Run("raises order placed event", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), []Line{mustLine(t, 1, "9.99")})

		require.NoError(t, err)
		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("fails with empty user", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, []Line{mustLine(t, 1, "1.00")})

		assert.Error(t, err)
	})

	t.Run("fails without lines", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), nil)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NO_LINES", domainErr.Code)
	})
}

func TestNewLine(t *testing.T) {
	price := valueobject.NewMoneyUSD(decimal.RequireFromString("12.50"))

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewLine(uuid.New(), 0, price)
		assert.Error(t, err)
	})

	t.Run("rejects empty product", func(t *testing.T) {
		_, err := NewLine(uuid.Nil, 1, price)
		assert.Error(t, err)
	})

	t.Run("amount multiplies price by quantity", func(t *testing.T) {
		line, err := NewLine(uuid.New(), 3, price)
		require.NoError(t, err)
		assert.True(t, line.Amount().Equal(decimal.RequireFromString("37.50")))
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"placed to processing", StatusPlaced, StatusProcessing, true},
		{"placed to cancelled", StatusPlaced, StatusCancelled, true},
		{"placed to shipped", StatusPlaced, StatusShipped, false},
		{"placed to delivered", StatusPlaced, StatusDelivered, false},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"processing to cancelled", StatusProcessing, StatusCancelled, true},
		{"processing to delivered", StatusProcessing, StatusDelivered, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, false},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPlaced, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	newPlacedOrder := func(t *testing.T) *Order {
		o, err := NewOrder(uuid.New(), []Line{mustLine(t, 1, "10.00")})
		require.NoError(t, err)
		o.ClearDomainEvents()
		return o
	}

	t.Run("valid transition updates status and version", func(t *testing.T) {
		o := newPlacedOrder(t)
		before := o.GetVersion()

		err := o.UpdateStatus(StatusProcessing)

		require.NoError(t, err)
		assert.Equal(t, StatusProcessing, o.Status)
		assert.Equal(t, before+1, o.GetVersion())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderStatusChanged, events[0].EventType())
	})

	t.Run("invalid transition is rejected", func(t *testing.T) {
		o := newPlacedOrder(t)

		err := o.UpdateStatus(StatusDelivered)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, StatusPlaced, o.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		o := newPlacedOrder(t)

		err := o.UpdateStatus(Status("lost"))

		assert.Error(t, err)
	})
}

func TestOrderIsTerminal(t *testing.T) {
	o, err := NewOrder(uuid.New(), []Line{mustLine(t, 1, "1.00")})
	require.NoError(t, err)

	assert.False(t, o.IsTerminal())
	require.NoError(t, o.UpdateStatus(StatusCancelled))
	assert.True(t, o.IsTerminal())
}
