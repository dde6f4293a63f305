package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shop/backend/internal/application/checkout"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles checkout and order requests
type OrderHandler struct {
	BaseHandler
	orderService *checkout.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *checkout.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Checkout)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PATCH("/:id/status", middleware.RequireRole("admin"), h.UpdateStatus)
	}
}

// Checkout turns the authenticated user's cart into an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns the authenticated user's orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter checkout.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID returns one order. Users can only read their own orders;
// admins can read any.
func (h *OrderHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus transitions an order's status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req checkout.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
