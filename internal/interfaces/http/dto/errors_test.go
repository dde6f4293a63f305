package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"EMPTY_CART", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"PRODUCT_NOT_FOUND", http.StatusUnprocessableEntity},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"BAD_REQUEST", http.StatusBadRequest},
		{"SOMETHING_NOVEL", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 21, 2, 10)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(21), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
