package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

func TestBaseHandler_HandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"empty cart", shared.ErrEmptyCart, http.StatusUnprocessableEntity, "EMPTY_CART"},
		{"insufficient stock", shared.NewInsufficientStockError("Laptop", 3, 1), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"vanished product", shared.NewProductNotFoundError("abc"), http.StatusUnprocessableEntity, "PRODUCT_NOT_FOUND"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("from jwt context", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("jwt_user_id", "b3f1e0a0-05c8-4a6f-9d79-1f53c0a1a111")

		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, "b3f1e0a0-05c8-4a6f-9d79-1f53c0a1a111", id.String())
	})
}
