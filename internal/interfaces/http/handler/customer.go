package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppartner "github.com/pos/backend/internal/application/partner"
)

// CustomerHandler serves the customer mirror surface
type CustomerHandler struct {
	BaseHandler
	customers *apppartner.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *apppartner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var cmd apppartner.CreateCustomerCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindingError(c, err)
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// List handles GET /api/v1/customers, searching when a query is given
func (h *CustomerHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Search != "" {
		page, err := h.customers.Search(c.Request.Context(), filter.Search, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
		return
	}

	page, err := h.customers.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}
