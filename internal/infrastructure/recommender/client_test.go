package recommender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/infrastructure/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.RecommenderConfig{
		BaseURL:        baseURL,
		ConnectTimeout: 500 * time.Millisecond,
		ReadTimeout:    2 * time.Second,
	})
}

func TestClient_RecommendByProduct(t *testing.T) {
	t.Run("decodes bare list", func(t *testing.T) {
		productID := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/recommendations/product/"+productID.String(), r.URL.Path)
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"` + uuid.NewString() + `","name":"Headphones","score":0.75}]`))
		}))
		defer server.Close()

		items, err := newTestClient(server.URL).RecommendByProduct(context.Background(), productID, 3)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Headphones", items[0].Name)
		assert.Equal(t, 0.75, items[0].Score)
	})

	t.Run("decodes items envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[{"id":"` + uuid.NewString() + `","name":"Keyboard","score":0.5}]}`))
		}))
		defer server.Close()

		items, err := newTestClient(server.URL).RecommendByProduct(context.Background(), uuid.New(), 5)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Keyboard", items[0].Name)
	})

	t.Run("object without items field is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"error":"model temporarily offline"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).RecommendByProduct(context.Background(), uuid.New(), 5)

		assert.Error(t, err)
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).RecommendByProduct(context.Background(), uuid.New(), 5)

		assert.Error(t, err)
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		_, err := newTestClient("http://127.0.0.1:1").RecommendByProduct(context.Background(), uuid.New(), 5)

		assert.Error(t, err)
	})
}

func TestClient_RecommendByUser(t *testing.T) {
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommendations/user/"+userID.String(), r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	items, err := newTestClient(server.URL).RecommendByUser(context.Background(), userID, 5)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeItems(t *testing.T) {
	t.Run("rejects garbage", func(t *testing.T) {
		_, err := decodeItems([]byte(`not json`))
		assert.Error(t, err)
	})

	t.Run("empty items envelope is a valid empty result", func(t *testing.T) {
		items, err := decodeItems([]byte(`{"items":[]}`))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("rejects object missing items", func(t *testing.T) {
		_, err := decodeItems([]byte(`{"status":"degraded"}`))
		assert.Error(t, err)
	})
}
