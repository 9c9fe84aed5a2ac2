package handler

import (
	"github.com/gin-gonic/gin"

	appsync "github.com/pos/backend/internal/application/sync"
)

// SyncHandler triggers the operator-facing full pulls
type SyncHandler struct {
	BaseHandler
	sync *appsync.Service
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(sync *appsync.Service) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// SyncProducts handles POST /api/v1/sync/products
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	result, err := h.sync.SyncProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncCustomers handles POST /api/v1/sync/customers
func (h *SyncHandler) SyncCustomers(c *gin.Context) {
	result, err := h.sync.SyncCustomers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
