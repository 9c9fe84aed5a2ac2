package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsales "github.com/pos/backend/internal/application/sales"
)

// OrderHandler serves the cart commit pipeline and order queries
type OrderHandler struct {
	BaseHandler
	carts  *appsales.CartService
	orders *appsales.OrderQueryService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(carts *appsales.CartService, orders *appsales.OrderQueryService) *OrderHandler {
	return &OrderHandler{carts: carts, orders: orders}
}

// CreateCart handles POST /api/v1/orders/cart
func (h *OrderHandler) CreateCart(c *gin.Context) {
	var cmd appsales.CreateCartOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.carts.CreateCartOrder(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// CreateManual handles POST /api/v1/orders/manual
func (h *OrderHandler) CreateManual(c *gin.Context) {
	var cmd appsales.CreateManualOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.carts.CreateManualOrder(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order line ID")
		return
	}

	line, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// GetByExternalID handles GET /api/v1/orders/external/:externalOrderID,
// returning every line of one committed transaction
func (h *OrderHandler) GetByExternalID(c *gin.Context) {
	externalOrderID, err := strconv.ParseInt(c.Param("externalOrderID"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid external order ID")
		return
	}

	lines, err := h.orders.GetByExternalOrderID(c.Request.Context(), externalOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}
