package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
)

// ReceiptGenerator renders a receipt for a committed order and returns a
// URL or path the client can fetch it from. A failure here never fails
// the sale.
type ReceiptGenerator interface {
	Generate(ctx context.Context, result *CommitResult) (string, error)
}

const defaultCommitTimeout = 30 * time.Second

// CartService resolves a heterogeneous cart into a priced order, commits
// it on the store, and mirrors the resulting lines locally. The remote
// order is the system of record: local rows are written only after the
// remote commit succeeds.
type CartService struct {
	platform      integration.StorePlatform
	productRepo   catalog.ProductRepository
	customerRepo  partner.CustomerRepository
	lineRepo      sales.OrderLineRepository
	receipts      ReceiptGenerator
	commitTimeout time.Duration
	logger        *zap.Logger
}

// NewCartService creates a new CartService. receipts may be nil when
// receipt rendering is disabled.
func NewCartService(
	platform integration.StorePlatform,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	lineRepo sales.OrderLineRepository,
	receipts ReceiptGenerator,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		platform:      platform,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		lineRepo:      lineRepo,
		receipts:      receipts,
		commitTimeout: defaultCommitTimeout,
		logger:        logger,
	}
}

// resolvedLine is one cart entry after catalog resolution, priced and
// ready for commit
type resolvedLine struct {
	variantID *int64
	productID *uuid.UUID
	barcode   string
	title     string
	quantity  int
	unitPrice decimal.Decimal
}

func (l resolvedLine) total() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}

// CreateCartOrder validates, resolves, prices and commits a cart.
// Validation and resolution failures surface before any write; a remote
// commit failure leaves no local rows.
func (s *CartService) CreateCartOrder(ctx context.Context, cmd CreateCartOrderCommand) (*CommitResult, error) {
	payment, err := sales.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}
	items, err := parseCartItems(cmd.Items)
	if err != nil {
		return nil, err
	}
	if cmd.Discount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Discount cannot be negative")
	}

	customer, err := s.resolveCustomer(ctx, cmd.CustomerEmail, cmd.NewCustomer)
	if err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, items)
	if err != nil {
		return nil, err
	}

	return s.commit(ctx, lines, customer, payment, cmd.Discount, cmd.DiscountReason,
		[]string{"in-store", string(payment)})
}

// CreateManualOrder commits a single off-catalog line through the same
// pipeline as a full cart
func (s *CartService) CreateManualOrder(ctx context.Context, cmd CreateManualOrderCommand) (*CommitResult, error) {
	payment, err := sales.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}
	item := sales.CustomItem(cmd.Title, cmd.Size, cmd.Price, cmd.Quantity)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if cmd.Discount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION", "Discount cannot be negative")
	}

	customer, err := s.resolveCustomer(ctx, cmd.CustomerEmail, cmd.NewCustomer)
	if err != nil {
		return nil, err
	}

	lines := []resolvedLine{{
		title:     item.DisplayTitle(),
		quantity:  item.Quantity,
		unitPrice: item.Price,
	}}

	return s.commit(ctx, lines, customer, payment, cmd.Discount, cmd.DiscountReason,
		[]string{"in-store", "manual", string(payment)})
}

// ---------------------------------------------------------------------------
// Customer resolution
// ---------------------------------------------------------------------------

// resolveCustomer turns the customer reference into a mirrored local row.
// Exactly one of email or inline payload must be given. An email resolves
// locally first, then against the store, adopting a remote match into the
// mirror. An inline payload reuses a mirrored row with the same email when
// one exists, otherwise it is created on the store first; a customer is
// never invented locally without a remote counterpart.
func (s *CartService) resolveCustomer(ctx context.Context, email string, inline *NewCustomerInput) (*partner.Customer, error) {
	email = strings.TrimSpace(email)
	if (email == "") == (inline == nil) {
		return nil, shared.NewDomainError("AMBIGUOUS_CUSTOMER_REF",
			"Exactly one of customer_email or new_customer must be provided")
	}

	if inline != nil {
		// A retried request with the same inline payload reuses the
		// mirrored row instead of creating a duplicate on the store.
		if inlineEmail := strings.TrimSpace(inline.Email); inlineEmail != "" {
			local, err := s.customerRepo.FindByEmail(ctx, inlineEmail)
			if err == nil {
				return local, nil
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
		}

		remote, err := s.platform.CreateCustomer(ctx, integration.NewCustomer{
			FirstName: inline.FirstName,
			LastName:  inline.LastName,
			Email:     inline.Email,
			Phone:     inline.Phone,
		})
		if err != nil {
			return nil, mapPlatformError(err)
		}
		return s.adoptRemoteCustomer(ctx, remote)
	}

	local, err := s.customerRepo.FindByEmail(ctx, email)
	if err == nil {
		return local, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	remote, err := s.platform.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, mapPlatformError(err)
	}
	if remote == nil {
		return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "No customer found for email "+email)
	}
	return s.adoptRemoteCustomer(ctx, remote)
}

func (s *CartService) adoptRemoteCustomer(ctx context.Context, remote *integration.RemoteCustomer) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(remote.CustomerID, remote.FirstName, remote.LastName, remote.Email)
	if err != nil {
		return nil, err
	}
	customer.ApplyRemote(remote.FirstName, remote.LastName, remote.Email,
		remote.Phone, remote.Address, remote.City, remote.Country)
	if err := s.customerRepo.Upsert(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ---------------------------------------------------------------------------
// Line resolution
// ---------------------------------------------------------------------------

func parseCartItems(inputs []CartItemInput) ([]sales.CartItem, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("VALIDATION", "Cart must contain at least one item")
	}
	items := make([]sales.CartItem, 0, len(inputs))
	for _, in := range inputs {
		var item sales.CartItem
		if in.Barcode != "" {
			item = sales.BarcodedItem(in.Barcode, in.Quantity)
		} else {
			price := decimal.Zero
			if in.Price != nil {
				price = *in.Price
			}
			item = sales.CustomItem(in.Title, in.Size, price, in.Quantity)
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveLines prices every cart entry. Barcoded entries resolve against
// the mirror; among variants sharing a barcode, in-stock ones are
// preferred and remaining ties break on the repository's stable ascending
// order.
func (s *CartService) resolveLines(ctx context.Context, items []sales.CartItem) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		switch item.Kind() {
		case sales.CartItemBarcoded:
			products, err := s.productRepo.FindByBarcode(ctx, item.Barcode)
			if err != nil {
				return nil, err
			}
			if len(products) == 0 {
				return nil, shared.NewDomainError("PRODUCT_NOT_FOUND",
					"No product found for barcode "+item.Barcode)
			}
			product := pickVariant(products)
			productID := product.ID
			variantID := product.ExternalVariantID
			lines = append(lines, resolvedLine{
				variantID: &variantID,
				productID: &productID,
				barcode:   product.Barcode,
				title:     variantTitle(product),
				quantity:  item.Quantity,
				unitPrice: product.Price,
			})
		case sales.CartItemCustom:
			lines = append(lines, resolvedLine{
				title:     item.DisplayTitle(),
				quantity:  item.Quantity,
				unitPrice: item.Price,
			})
		}
	}
	return lines, nil
}

// pickVariant prefers the first in-stock variant, falling back to the
// first row overall. The input is already in stable ascending order.
func pickVariant(products []catalog.Product) *catalog.Product {
	for i := range products {
		if products[i].InStock() {
			return &products[i]
		}
	}
	return &products[0]
}

func variantTitle(p *catalog.Product) string {
	if p.VariantLabel != "" {
		return p.Title + " - " + p.VariantLabel
	}
	return p.Title
}

// ---------------------------------------------------------------------------
// Pricing and commit
// ---------------------------------------------------------------------------

// commit runs the pricing check, the remote order creation and the local
// line persistence, in that order. The local write runs on a context that
// survives caller cancellation: once the store accepted the order, the
// mirror must record it.
func (s *CartService) commit(
	ctx context.Context,
	lines []resolvedLine,
	customer *partner.Customer,
	payment sales.PaymentMethod,
	discount decimal.Decimal,
	discountReason string,
	tags []string,
) (*CommitResult, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.total())
	}
	if discount.IsPositive() && discount.GreaterThanOrEqual(subtotal) {
		return nil, shared.NewDomainError("DISCOUNT_EXCEEDS_TOTAL",
			"Discount "+discount.StringFixed(2)+" must be less than the subtotal "+subtotal.StringFixed(2))
	}
	finalAmount := subtotal.Sub(discount)

	req := integration.OrderRequest{
		Lines:          make([]integration.OrderLineRequest, 0, len(lines)),
		Email:          customer.Email,
		CustomerID:     customer.ExternalCustomerID,
		FinalAmount:    finalAmount,
		Discount:       discount,
		DiscountReason: discountReason,
		Gateway:        string(payment),
		Tags:           tags,
	}
	for _, line := range lines {
		req.Lines = append(req.Lines, integration.OrderLineRequest{
			VariantID: line.variantID,
			Title:     line.title,
			Price:     line.unitPrice,
			Quantity:  line.quantity,
		})
	}
	if discount.IsPositive() && discountReason != "" {
		req.Note = "Discount applied: " + discountReason
	}

	commitCtx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()
	result, err := s.platform.CreateOrder(commitCtx, req)
	if err != nil {
		s.logger.Error("Remote order commit failed",
			zap.String("payment_method", string(payment)),
			zap.Int("line_count", len(lines)),
			zap.Error(err))
		return nil, mapPlatformError(err)
	}

	// The store accepted the order; from here the local write must run
	// even if the request context is already cancelled.
	persistCtx := context.WithoutCancel(ctx)

	orderLines := make([]*sales.OrderLine, 0, len(lines))
	for _, line := range lines {
		ol, err := sales.NewOrderLine(result.OrderID, line.title, line.quantity, line.unitPrice, payment)
		if err != nil {
			return nil, err
		}
		if line.productID != nil {
			ol.AttachProduct(*line.productID, line.barcode)
		}
		ol.AttachCustomer(customer.ID)
		orderLines = append(orderLines, ol)
	}
	if err := s.lineRepo.InsertBatch(persistCtx, orderLines); err != nil {
		s.logger.Error("Order committed on the store but local lines were not written",
			zap.Int64("external_order_id", result.OrderID),
			zap.Error(err))
		return nil, err
	}

	response := &CommitResult{
		ExternalOrderID: result.OrderID,
		OrderNumber:     result.OrderNumber,
		Subtotal:        subtotal,
		Discount:        discount,
		FinalAmount:     finalAmount,
		PaymentMethod:   string(payment),
		CustomerName:    customer.FullName(),
		CustomerEmail:   customer.Email,
		CommittedAt:     time.Now(),
		Lines:           make([]CommittedLine, 0, len(orderLines)),
	}
	for _, ol := range orderLines {
		response.Lines = append(response.Lines, CommittedLine{
			ID:        ol.ID,
			ProductID: ol.ProductID,
			Barcode:   ol.Barcode,
			Title:     ol.Title,
			Quantity:  ol.Quantity,
			UnitPrice: ol.UnitPrice,
			LineTotal: ol.Total(),
		})
	}

	if s.receipts != nil {
		url, err := s.receipts.Generate(persistCtx, response)
		if err != nil {
			s.logger.Warn("Receipt rendering failed",
				zap.Int64("external_order_id", result.OrderID),
				zap.Error(err))
		} else {
			response.ReceiptURL = url
		}
	}

	s.logger.Info("Order committed",
		zap.Int64("external_order_id", result.OrderID),
		zap.String("order_number", result.OrderNumber),
		zap.String("final_amount", finalAmount.StringFixed(2)),
		zap.String("payment_method", string(payment)))
	return response, nil
}

// mapPlatformError folds platform sentinels into the caller-facing codes.
// Reachability problems are distinguished from rejections so the client
// knows whether a retry can help.
func mapPlatformError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, integration.ErrPlatformUnavailable) ||
		errors.Is(err, integration.ErrPlatformRateLimited) ||
		errors.Is(err, context.DeadlineExceeded) {
		return shared.NewDomainError("REMOTE_UNAVAILABLE", "Remote platform unavailable: "+err.Error())
	}
	return shared.NewDomainError("REMOTE_COMMIT_FAILED", "Remote platform rejected the request: "+err.Error())
}
