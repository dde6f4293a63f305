// End-to-end test of the HTTP surface: a shopper registers, an admin
// publishes products, the shopper fills a cart, checks out, and asks for
// recommendations, all through the wired gin engine.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartapp "github.com/shop/backend/internal/application/cart"
	"github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/application/checkout"
	"github.com/shop/backend/internal/application/identity"
	"github.com/shop/backend/internal/application/recommendation"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/cache"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/shop/backend/internal/interfaces/http/router"
)

type apiTestServer struct {
	DB     *TestDB
	Engine *gin.Engine
}

func newAPITestServer(t *testing.T) *apiTestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tdb := NewTestDB(t)

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	cartRepo := persistence.NewGormCartRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	userRepo := persistence.NewGormUserRepository(tdb.DB)
	uow := persistence.NewGormUnitOfWork(tdb.Database())

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret",
		RefreshSecret:          "integration-test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-test",
		MaxRefreshCount:        5,
	})

	recService := recommendation.NewService(productRepo, userRepo)
	recService.SetCache(cache.NewInMemoryRecommendationCache(), time.Minute)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))
	r.Register(handler.NewAuthHandler(identity.NewAuthService(userRepo, jwtService, zap.NewNop())))
	r.Register(handler.NewUserHandler(identity.NewUserService(userRepo)))
	r.Register(handler.NewProductHandler(catalog.NewProductService(productRepo)))
	r.Register(handler.NewCartHandler(cartapp.NewCartService(cartRepo, productRepo)))
	r.Register(handler.NewOrderHandler(checkout.NewOrderService(uow, orderRepo)))
	r.Register(handler.NewRecommendationHandler(recService))
	r.Setup()

	return &apiTestServer{DB: tdb, Engine: engine}
}

func (s *apiTestServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Invalid JSON response: %s", w.Body.String())
	return result
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decodeResponse(t, w)
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "Expected data object in response: %s", w.Body.String())
	return data
}

// registerUser signs up a user through the API and returns the access token
// and user ID.
func (s *apiTestServer) registerUser(t *testing.T, name, email string) (string, string) {
	t.Helper()

	w := s.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "s3cret-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	data := dataField(t, w)
	tokens := data["tokens"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	return tokens["access_token"].(string), user["id"].(string)
}

// promoteToAdmin grants the admin role directly in storage; role management
// is not exposed over HTTP.
func (s *apiTestServer) promoteToAdmin(t *testing.T, userID string) {
	t.Helper()
	err := s.DB.DB.Exec(`UPDATE users SET roles = '{customer,admin}' WHERE id = ?`, userID).Error
	require.NoError(t, err)
}

func TestAPI_ShoppingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newAPITestServer(t)

	// Admin publishes two products
	_, adminID := server.registerUser(t, "Admin", "admin@example.com")
	server.promoteToAdmin(t, adminID)
	// Re-login so the token carries the admin role
	w := server.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "s3cret-password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := dataField(t, w)["tokens"].(map[string]interface{})["access_token"].(string)

	w = server.request(t, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"name":       "Laptop",
		"price":      "1299.99",
		"stock":      10,
		"categories": []string{"Electronics", "Computers"},
	})
	require.Equal(t, http.StatusCreated, w.Code, "create product failed: %s", w.Body.String())
	laptopID := dataField(t, w)["id"].(string)

	w = server.request(t, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"name":       "Monitor",
		"price":      "349.00",
		"stock":      5,
		"categories": []string{"Electronics", "Displays"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// A shopper signs up and browses
	shopperToken, _ := server.registerUser(t, "Shopper", "shopper@example.com")

	w = server.request(t, http.MethodGet, "/api/v1/products", shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listResp := decodeResponse(t, w)
	assert.Len(t, listResp["data"], 2)

	// Fills the cart
	w = server.request(t, http.MethodPost, "/api/v1/cart/items", shopperToken, map[string]interface{}{
		"product_id": laptopID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code, "add to cart failed: %s", w.Body.String())

	w = server.request(t, http.MethodGet, "/api/v1/cart", shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cartData := dataField(t, w)
	assert.Len(t, cartData["items"], 1)

	// Checks out
	w = server.request(t, http.MethodPost, "/api/v1/orders", shopperToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, "checkout failed: %s", w.Body.String())
	orderData := dataField(t, w)
	assert.Equal(t, "placed", orderData["status"])

	// Cart is empty afterwards
	w = server.request(t, http.MethodGet, "/api/v1/cart", shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dataField(t, w)["items"])

	// Stock reflects the sale
	assert.Equal(t, 8, server.DB.ProductStock(laptopID))

	// Recommendations for the purchased product favor the overlapping category
	w = server.request(t, http.MethodGet, "/api/v1/recommendations/products/"+laptopID, shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "recommendations failed: %s", w.Body.String())
	recResp := decodeResponse(t, w)
	recs, ok := recResp["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, recs, 1)
	first := recs[0].(map[string]interface{})
	assert.Equal(t, "Monitor", first["name"])
}

func TestAPI_AuthorizationBoundaries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newAPITestServer(t)
	shopperToken, _ := server.registerUser(t, "Shopper", "shopper@example.com")

	// Customers cannot publish products
	w := server.request(t, http.MethodPost, "/api/v1/products", shopperToken, map[string]interface{}{
		"name": "Sneaky", "price": "1.00", "stock": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Anonymous requests to protected routes are rejected
	w = server.request(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Checkout with an empty cart is a business rule violation
	w = server.request(t, http.MethodPost, "/api/v1/orders", shopperToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "EMPTY_CART", errObj["code"])
}
