package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/pos/backend/internal/application/catalog"
)

// ProductHandler serves read-only catalog lookups
type ProductHandler struct {
	BaseHandler
	products *appcatalog.ProductQueryService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *appcatalog.ProductQueryService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Search != "" {
		page, err := h.products.Search(c.Request.Context(), filter.Search, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
		return
	}

	page, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByBarcode handles GET /api/v1/products/barcode/:barcode
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	products, err := h.products.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
