package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/webhook"
)

// ReconcileService applies push notifications from the store to the local
// mirror. Every accepted delivery terminates in exactly one log row with
// outcome processed, failed or skipped; handler errors are captured in
// the row, never propagated. Redelivery is treated as a fresh idempotent
// application.
type ReconcileService struct {
	productRepo     catalog.ProductRepository
	customerRepo    partner.CustomerRepository
	lineRepo        sales.OrderLineRepository
	eventRepo       webhook.EventRepository
	secret          string
	allowUnverified bool
	logger          *zap.Logger
}

// NewReconcileService creates a new ReconcileService. An empty secret is
// accepted only together with allowUnverified, which is a development
// posture rejected by production config validation.
func NewReconcileService(
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	lineRepo sales.OrderLineRepository,
	eventRepo webhook.EventRepository,
	secret string,
	allowUnverified bool,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		lineRepo:        lineRepo,
		eventRepo:       eventRepo,
		secret:          secret,
		allowUnverified: allowUnverified,
		logger:          logger,
	}
}

// VerifySignature checks the delivery signature over the raw body. The
// signature is a base64-encoded HMAC-SHA256 of the body keyed with the
// shared secret, compared in constant time. Rejection happens before any
// dispatch or logging.
func (s *ReconcileService) VerifySignature(rawBody []byte, signature string) error {
	if s.secret == "" {
		if s.allowUnverified {
			return nil
		}
		return shared.NewDomainError("SIGNATURE_INVALID",
			"No webhook secret configured and unverified deliveries are not allowed")
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return shared.NewDomainError("SIGNATURE_INVALID", "Webhook signature mismatch")
	}
	return nil
}

// Handle dispatches one verified delivery by topic. The returned error is
// non-nil only for an unparseable body; handler failures come back as an
// outcome of failed.
func (s *ReconcileService) Handle(ctx context.Context, topic string, rawBody []byte) (*HandleResult, error) {
	if !json.Valid(rawBody) {
		return nil, shared.NewDomainError("VALIDATION", "Webhook payload is not valid JSON")
	}

	resourceID, outcome, handleErr := s.safeDispatch(ctx, webhook.Topic(topic), rawBody)

	errorMessage := ""
	if handleErr != nil {
		outcome = webhook.OutcomeFailed
		errorMessage = handleErr.Error()
		s.logger.Error("Webhook processing failed",
			zap.String("topic", topic),
			zap.Int64("external_resource_id", resourceID),
			zap.Error(handleErr))
	}

	event := webhook.NewEvent(topic, resourceID, string(rawBody), outcome, errorMessage)
	if err := s.eventRepo.Append(ctx, event); err != nil {
		// The mirror mutation already happened; losing the log row is
		// logged but not surfaced to the sender.
		s.logger.Error("Failed to append webhook event log row",
			zap.String("topic", topic),
			zap.Error(err))
	}

	s.logger.Info("Webhook handled",
		zap.String("topic", topic),
		zap.Int64("external_resource_id", resourceID),
		zap.String("outcome", string(outcome)))
	return &HandleResult{
		Topic:              topic,
		ExternalResourceID: resourceID,
		Outcome:            outcome,
		Detail:             errorMessage,
	}, nil
}

// safeDispatch runs dispatch and converts a handler panic into a
// returned error, so a processing fault still terminates in a failed log
// row instead of escaping to the HTTP recovery layer without a record.
func (s *ReconcileService) safeDispatch(ctx context.Context, topic webhook.Topic, rawBody []byte) (resourceID int64, outcome webhook.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing webhook: %v", r)
		}
	}()
	return s.dispatch(ctx, topic, rawBody)
}

// dispatch routes by topic. Unknown topics are skipped, never failed: the
// store's topic set may grow.
func (s *ReconcileService) dispatch(ctx context.Context, topic webhook.Topic, rawBody []byte) (int64, webhook.Outcome, error) {
	switch topic {
	case webhook.TopicProductsCreate, webhook.TopicProductsUpdate:
		return s.applyProduct(ctx, rawBody)
	case webhook.TopicProductsDelete:
		return s.applyProductDelete(ctx, rawBody)
	case webhook.TopicInventoryUpdate:
		return s.applyInventory(ctx, rawBody)
	case webhook.TopicCustomersCreate, webhook.TopicCustomersUpdate:
		return s.applyCustomer(ctx, rawBody)
	case webhook.TopicOrdersCreate:
		return s.applyOrderCreate(ctx, rawBody)
	case webhook.TopicOrdersPaid:
		return s.applyOrderStatus(ctx, rawBody, sales.LineStatusPaid)
	case webhook.TopicOrdersCancelled:
		return s.applyOrderStatus(ctx, rawBody, sales.LineStatusCancelled)
	default:
		return 0, webhook.OutcomeSkipped, nil
	}
}

func (s *ReconcileService) applyProduct(ctx context.Context, rawBody []byte) (int64, webhook.Outcome, error) {
	var payload productPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return 0, webhook.OutcomeFailed, err
	}

	for _, v := range payload.Variants {
		if v.Barcode == "" {
			continue
		}
		product, err := catalog.NewProduct(v.ID, payload.ID, payload.Title, v.Barcode)
		if err != nil {
			return payload.ID, webhook.OutcomeFailed, err
		}
		price, _ := decimal.NewFromString(v.Price)
		product.ApplyRemote(payload.Title, v.SKU, v.Barcode,
			variantLabel(v.Title), payload.variantImage(v), price, v.InventoryQuantity)
		if err := s.productRepo.Upsert(ctx, product); err != nil {
			return payload.ID, webhook.OutcomeFailed, err
		}
	}
	return payload.ID, webhook.OutcomeProcessed, nil
}

func (s *ReconcileService) applyProductDelete(ctx context.Context, rawBody []byte) (int64, webhook.Outcome, error) {
	var payload deletePayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return 0, webhook.OutcomeFailed, err
	}

	deleted, err := s.productRepo.DeleteByExternalProductID(ctx, payload.ID)
	if err != nil {
		return payload.ID, webhook.OutcomeFailed, err
	}
	if deleted == 0 {
		// The product was never mirrored; nothing to remove.
		return payload.ID, webhook.OutcomeSkipped, nil
	}
	return payload.ID, webhook.OutcomeProcessed, nil
}

func (s *ReconcileService) applyInventory(ctx context.Context, rawBody []byte) (int64, webhook.Outcome, error) {
	var payload inventoryPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return 0, webhook.OutcomeFailed, err
	}

	matched, err := s.productRepo.UpdateInventory(ctx, payload.InventoryItemID, payload.Available)
	if err != nil {
		return payload.InventoryItemID, webhook.OutcomeFailed, err
	}
	if !matched {
		return payload.InventoryItemID, webhook.OutcomeSkipped, nil
	}
	return payload.InventoryItemID, webhook.OutcomeProcessed, nil
}

func (s *ReconcileService) applyCustomer(ctx context.Context, rawBody []byte) (int64, webhook.Outcome, error) {
	var payload customerPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return 0, webhook.OutcomeFailed, err
	}

	customer, err := partner.NewCustomer(payload.ID, payload.FirstName, payload.LastName, payload.Email)
	if err != nil {
		return payload.ID, webhook.OutcomeFailed, err
	}
	address, city, country := payload.defaultAddress()
	customer.ApplyRemote(payload.FirstName, payload.LastName, payload.Email,
		payload.Phone, address, city, country)
	if err := s.customerRepo.Upsert(ctx, customer); err != nil {
		return payload.ID, webhook.OutcomeFailed, err
	}
	return payload.ID, webhook.OutcomeProcessed, nil
}

// applyOrderCreate mirrors a storefront order's line items when the order
// is not yet known locally. A known order is treated as a status update
// instead, so replays of the same delivery are idempotent.
func (s *ReconcileService) applyOrderCreate(ctx context.Context, rawBody []byte) (int64, webhook.Outcome, error) {
	var payload orderPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return 0, webhook.OutcomeFailed, err
	}

	existing, err := s.lineRepo.FindByExternalOrderID(ctx, payload.ID)
	if err != nil {
		return payload.ID, webhook.OutcomeFailed, err
	}
	if len(existing) > 0 {
		status, err := sales.ParseLineStatus(payload.FinancialStatus)
		if err != nil {
			return payload.ID, webhook.OutcomeSkipped, nil
		}
		if _, err := s.lineRepo.UpdateStatusByExternalOrderID(ctx, payload.ID, status); err != nil {
			return payload.ID, webhook.OutcomeFailed, err
		}
		return payload.ID, webhook.OutcomeProcessed, nil
	}

	if len(payload.LineItems) == 0 {
		return payload.ID, webhook.OutcomeSkipped, nil
	}

	payment := payload.paymentMethod()
	status := payload.lineStatus()

	var localCustomer *partner.Customer
	if payload.Customer != nil {
		c, err := s.customerRepo.FindByExternalID(ctx, payload.Customer.ID)
		if err == nil {
			localCustomer = c
		}
	}

	lines := make([]*sales.OrderLine, 0, len(payload.LineItems))
	for _, item := range payload.LineItems {
		price, _ := decimal.NewFromString(item.Price)
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		line, err := sales.NewOrderLine(payload.ID, item.Title, quantity, price, payment)
		if err != nil {
			return payload.ID, webhook.OutcomeFailed, err
		}
		line.Status = status
		if item.VariantID != nil {
			if product, err := s.productRepo.FindByExternalVariantID(ctx, *item.VariantID); err == nil {
				line.AttachProduct(product.ID, product.Barcode)
			}
		}
		if localCustomer != nil {
			line.AttachCustomer(localCustomer.ID)
		}
		lines = append(lines, line)
	}

	if err := s.lineRepo.InsertBatch(ctx, lines); err != nil {
		return payload.ID, webhook.OutcomeFailed, err
	}
	return payload.ID, webhook.OutcomeProcessed, nil
}

// applyOrderStatus propagates a paid or cancelled transition to every
// line of the order. Zero matching rows is skipped, not failed: the order
// may have been placed outside this system and never mirrored.
func (s *ReconcileService) applyOrderStatus(ctx context.Context, rawBody []byte, status sales.LineStatus) (int64, webhook.Outcome, error) {
	var payload orderPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return 0, webhook.OutcomeFailed, err
	}

	updated, err := s.lineRepo.UpdateStatusByExternalOrderID(ctx, payload.ID, status)
	if err != nil {
		return payload.ID, webhook.OutcomeFailed, err
	}
	if updated == 0 {
		return payload.ID, webhook.OutcomeSkipped, nil
	}
	return payload.ID, webhook.OutcomeProcessed, nil
}

// ---------------------------------------------------------------------------
// Payload helpers
// ---------------------------------------------------------------------------

// variantImage resolves a variant's image URL, preferring the image the
// variant links to, then the product's primary image
func (p *productPayload) variantImage(v variantPayload) string {
	if v.ImageID != nil {
		for _, img := range p.Images {
			if img.ID == *v.ImageID {
				return img.Src
			}
		}
	}
	if p.Image != nil {
		return p.Image.Src
	}
	return ""
}

func (p *customerPayload) defaultAddress() (address, city, country string) {
	if len(p.Addresses) == 0 {
		return "", "", ""
	}
	addr := p.Addresses[0]
	address = strings.TrimSpace(strings.Join(nonEmpty(addr.Address1, addr.Address2), " "))
	return address, addr.City, addr.Country
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// paymentMethod infers the settlement method of a mirrored order from its
// tags, then its gateway, defaulting to pos
func (p *orderPayload) paymentMethod() sales.PaymentMethod {
	if strings.Contains(strings.ToLower(p.Tags), "cash") {
		return sales.PaymentMethodCash
	}
	if strings.Contains(strings.ToLower(p.Gateway), "cash") {
		return sales.PaymentMethodCash
	}
	return sales.PaymentMethodPOS
}

func (p *orderPayload) lineStatus() sales.LineStatus {
	if status, err := sales.ParseLineStatus(p.FinancialStatus); err == nil {
		return status
	}
	return sales.LineStatusCompleted
}

// variantLabel drops the store's placeholder label for single-variant
// products
func variantLabel(title string) string {
	if title == "Default Title" {
		return ""
	}
	return title
}
