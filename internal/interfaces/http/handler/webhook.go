package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appwebhook "github.com/pos/backend/internal/application/webhook"
)

// Delivery headers set by the store platform
const (
	TopicHeader     = "X-Shopify-Topic"
	SignatureHeader = "X-Shopify-Hmac-Sha256"
)

// WebhookHandler receives store push notifications and serves the
// delivery log
type WebhookHandler struct {
	BaseHandler
	reconciler *appwebhook.ReconcileService
	log        *appwebhook.LogQueryService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(reconciler *appwebhook.ReconcileService, log *appwebhook.LogQueryService) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, log: log}
}

// Receive handles POST /api/v1/webhooks/shopify. The response is 200 for
// every dispatched delivery regardless of outcome: the sender retries on
// non-2xx, and a permanent local fault must not exhaust its redelivery
// budget. Only a rejected signature (401) or an unparseable body (400)
// refuse the delivery.
func (h *WebhookHandler) Receive(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	if err := h.reconciler.VerifySignature(rawBody, c.GetHeader(SignatureHeader)); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.reconciler.Handle(c.Request.Context(), c.GetHeader(TopicHeader), rawBody)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListEvents handles GET /api/v1/webhooks/events
func (h *WebhookHandler) ListEvents(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.log.Recent(c.Request.Context(), limit, c.Query("topic"), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// Stats handles GET /api/v1/webhooks/stats
func (h *WebhookHandler) Stats(c *gin.Context) {
	stats, err := h.log.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
