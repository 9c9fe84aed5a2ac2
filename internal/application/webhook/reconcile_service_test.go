package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/webhook"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByExternalVariantID(ctx context.Context, externalVariantID int64) (*catalog.Product, error) {
	args := m.Called(ctx, externalVariantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) ([]catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Upsert(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateInventory(ctx context.Context, externalVariantID int64, quantity int) (bool, error) {
	args := m.Called(ctx, externalVariantID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DeleteByExternalProductID(ctx context.Context, externalProductID int64) (int64, error) {
	args := m.Called(ctx, externalProductID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByExternalID(ctx context.Context, externalCustomerID int64) (*partner.Customer, error) {
	args := m.Called(ctx, externalCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockOrderLineRepository is a mock implementation of sales.OrderLineRepository
type MockOrderLineRepository struct {
	mock.Mock
}

func (m *MockOrderLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.OrderLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) FindByExternalOrderID(ctx context.Context, externalOrderID int64) ([]sales.OrderLine, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.OrderLine, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]sales.OrderLine), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderLineRepository) FindBetween(ctx context.Context, from, to time.Time) ([]sales.OrderLine, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) InsertBatch(ctx context.Context, lines []*sales.OrderLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockOrderLineRepository) UpdateStatusByExternalOrderID(ctx context.Context, externalOrderID int64, status sales.LineStatus) (int64, error) {
	args := m.Called(ctx, externalOrderID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRepository is a mock implementation of webhook.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Append(ctx context.Context, event *webhook.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindRecent(ctx context.Context, limit int, topic, status string) ([]webhook.Event, error) {
	args := m.Called(ctx, limit, topic, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]webhook.Event), args.Error(1)
}

func (m *MockEventRepository) Stats(ctx context.Context) (*webhook.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Stats), args.Error(1)
}

func newTestReconcileService(secret string, allowUnverified bool) (*ReconcileService, *MockProductRepository, *MockCustomerRepository, *MockOrderLineRepository, *MockEventRepository) {
	productRepo := new(MockProductRepository)
	customerRepo := new(MockCustomerRepository)
	lineRepo := new(MockOrderLineRepository)
	eventRepo := new(MockEventRepository)
	svc := NewReconcileService(productRepo, customerRepo, lineRepo, eventRepo, secret, allowUnverified, zap.NewNop())
	return svc, productRepo, customerRepo, lineRepo, eventRepo
}

func expectEvent(eventRepo *MockEventRepository) *[]*webhook.Event {
	var appended []*webhook.Event
	eventRepo.On("Append", mock.Anything, mock.AnythingOfType("*webhook.Event")).
		Run(func(args mock.Arguments) {
			appended = append(appended, args.Get(1).(*webhook.Event))
		}).Return(nil)
	return &appended
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"id":1}`)

	t.Run("valid signature accepted", func(t *testing.T) {
		svc, _, _, _, _ := newTestReconcileService("topsecret", false)
		assert.NoError(t, svc.VerifySignature(body, sign("topsecret", body)))
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		svc, _, _, _, _ := newTestReconcileService("topsecret", false)
		err := svc.VerifySignature(body, sign("othersecret", body))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SIGNATURE_INVALID", domainErr.Code)
	})

	t.Run("no secret with unverified allowed", func(t *testing.T) {
		svc, _, _, _, _ := newTestReconcileService("", true)
		assert.NoError(t, svc.VerifySignature(body, ""))
	})

	t.Run("no secret without unverified allowed", func(t *testing.T) {
		svc, _, _, _, _ := newTestReconcileService("", false)
		err := svc.VerifySignature(body, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SIGNATURE_INVALID", domainErr.Code)
	})
}

func TestHandle_ProductUpdateUpsertsVariants(t *testing.T) {
	svc, productRepo, _, _, eventRepo := newTestReconcileService("", true)
	appended := expectEvent(eventRepo)

	var upserted []*catalog.Product
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*catalog.Product")).
		Run(func(args mock.Arguments) {
			upserted = append(upserted, args.Get(1).(*catalog.Product))
		}).Return(nil)

	body := []byte(`{
		"id": 70,
		"title": "Jacket",
		"image": {"id": 1, "src": "https://cdn/main.png"},
		"variants": [
			{"id": 701, "title": "M", "sku": "JK-M", "barcode": "B701", "price": "129.90", "inventory_quantity": 4},
			{"id": 702, "title": "L", "sku": "JK-L", "barcode": "", "price": "129.90", "inventory_quantity": 2}
		]
	}`)

	result, err := svc.Handle(context.Background(), "products/update", body)

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	assert.Equal(t, int64(70), result.ExternalResourceID)
	// The variant without a barcode is not mirrored.
	require.Len(t, upserted, 1)
	assert.Equal(t, int64(701), upserted[0].ExternalVariantID)
	assert.Equal(t, "M", upserted[0].VariantLabel)
	assert.Equal(t, "https://cdn/main.png", upserted[0].ImageURL)
	assert.True(t, upserted[0].Price.Equal(decimal.RequireFromString("129.90")))

	require.Len(t, *appended, 1)
	assert.Equal(t, webhook.OutcomeProcessed, (*appended)[0].Status)
	assert.Equal(t, "products/update", (*appended)[0].Topic)
}

func TestHandle_ProductDelete(t *testing.T) {
	t.Run("removes mirrored variants", func(t *testing.T) {
		svc, productRepo, _, _, eventRepo := newTestReconcileService("", true)
		expectEvent(eventRepo)
		productRepo.On("DeleteByExternalProductID", mock.Anything, int64(70)).Return(int64(2), nil)

		result, err := svc.Handle(context.Background(), "products/delete", []byte(`{"id":70}`))

		require.NoError(t, err)
		assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	})

	t.Run("unknown product is skipped", func(t *testing.T) {
		svc, productRepo, _, _, eventRepo := newTestReconcileService("", true)
		expectEvent(eventRepo)
		productRepo.On("DeleteByExternalProductID", mock.Anything, int64(71)).Return(int64(0), nil)

		result, err := svc.Handle(context.Background(), "products/delete", []byte(`{"id":71}`))

		require.NoError(t, err)
		assert.Equal(t, webhook.OutcomeSkipped, result.Outcome)
	})
}

func TestHandle_InventoryUpdate(t *testing.T) {
	svc, productRepo, _, _, eventRepo := newTestReconcileService("", true)
	expectEvent(eventRepo)
	productRepo.On("UpdateInventory", mock.Anything, int64(701), 9).Return(true, nil)

	result, err := svc.Handle(context.Background(), "inventory_levels/update",
		[]byte(`{"inventory_item_id":701,"available":9}`))

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	assert.Equal(t, int64(701), result.ExternalResourceID)
}

func TestHandle_CustomerUpdateJoinsAddress(t *testing.T) {
	svc, _, customerRepo, _, eventRepo := newTestReconcileService("", true)
	expectEvent(eventRepo)

	var upserted *partner.Customer
	customerRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*partner.Customer")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(*partner.Customer)
		}).Return(nil)

	body := []byte(`{
		"id": 501,
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@example.com",
		"addresses": [{"address1": "12 Main St", "address2": "Apt 4", "city": "London", "country": "UK"}]
	}`)

	result, err := svc.Handle(context.Background(), "customers/update", body)

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	require.NotNil(t, upserted)
	assert.Equal(t, "12 Main St Apt 4", upserted.Address)
	assert.Equal(t, "London", upserted.City)
}

func TestHandle_OrdersPaid(t *testing.T) {
	t.Run("transitions existing lines", func(t *testing.T) {
		svc, _, _, lineRepo, eventRepo := newTestReconcileService("", true)
		expectEvent(eventRepo)
		lineRepo.On("UpdateStatusByExternalOrderID", mock.Anything, int64(9001), sales.LineStatusPaid).
			Return(int64(3), nil)

		result, err := svc.Handle(context.Background(), "orders/paid", []byte(`{"id":9001}`))

		require.NoError(t, err)
		assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	})

	t.Run("repeat delivery stays processed and logs again", func(t *testing.T) {
		svc, _, _, lineRepo, eventRepo := newTestReconcileService("", true)
		appended := expectEvent(eventRepo)
		lineRepo.On("UpdateStatusByExternalOrderID", mock.Anything, int64(9001), sales.LineStatusPaid).
			Return(int64(3), nil)

		_, err := svc.Handle(context.Background(), "orders/paid", []byte(`{"id":9001}`))
		require.NoError(t, err)
		result, err := svc.Handle(context.Background(), "orders/paid", []byte(`{"id":9001}`))
		require.NoError(t, err)

		assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
		assert.Len(t, *appended, 2)
	})

	t.Run("unknown order is skipped", func(t *testing.T) {
		svc, _, _, lineRepo, eventRepo := newTestReconcileService("", true)
		expectEvent(eventRepo)
		lineRepo.On("UpdateStatusByExternalOrderID", mock.Anything, int64(9999), sales.LineStatusPaid).
			Return(int64(0), nil)

		result, err := svc.Handle(context.Background(), "orders/paid", []byte(`{"id":9999}`))

		require.NoError(t, err)
		assert.Equal(t, webhook.OutcomeSkipped, result.Outcome)
	})
}

func TestHandle_OrdersCreateMirrorsStorefrontOrder(t *testing.T) {
	svc, productRepo, customerRepo, lineRepo, eventRepo := newTestReconcileService("", true)
	expectEvent(eventRepo)

	lineRepo.On("FindByExternalOrderID", mock.Anything, int64(8001)).Return([]sales.OrderLine{}, nil)
	customer, err := partner.NewCustomer(501, "Ada", "Lovelace", "ada@example.com")
	require.NoError(t, err)
	customerRepo.On("FindByExternalID", mock.Anything, int64(501)).Return(customer, nil)
	product, err := catalog.NewProduct(701, 70, "Jacket", "B701")
	require.NoError(t, err)
	productRepo.On("FindByExternalVariantID", mock.Anything, int64(701)).Return(product, nil)

	var inserted []*sales.OrderLine
	lineRepo.On("InsertBatch", mock.Anything, mock.AnythingOfType("[]*sales.OrderLine")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]*sales.OrderLine)
		}).Return(nil)

	body := []byte(`{
		"id": 8001,
		"financial_status": "paid",
		"tags": "online",
		"gateway": "shopify_payments",
		"customer": {"id": 501},
		"line_items": [
			{"variant_id": 701, "title": "Jacket - M", "quantity": 1, "price": "129.90"},
			{"title": "Gift Wrap", "quantity": 1, "price": "5.00"}
		]
	}`)

	result, err := svc.Handle(context.Background(), "orders/create", body)

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	require.Len(t, inserted, 2)
	assert.Equal(t, sales.PaymentMethodPOS, inserted[0].PaymentMethod)
	assert.Equal(t, sales.LineStatusPaid, inserted[0].Status)
	require.NotNil(t, inserted[0].ProductID)
	assert.Equal(t, "B701", inserted[0].Barcode)
	assert.Nil(t, inserted[1].ProductID)
	require.NotNil(t, inserted[0].CustomerID)
}

func TestHandle_OrdersCreateForKnownOrderUpdatesStatus(t *testing.T) {
	svc, _, _, lineRepo, eventRepo := newTestReconcileService("", true)
	expectEvent(eventRepo)

	existing, err := sales.NewOrderLine(8001, "Jacket", 1, decimal.NewFromInt(100), sales.PaymentMethodPOS)
	require.NoError(t, err)
	lineRepo.On("FindByExternalOrderID", mock.Anything, int64(8001)).
		Return([]sales.OrderLine{*existing}, nil)
	lineRepo.On("UpdateStatusByExternalOrderID", mock.Anything, int64(8001), sales.LineStatusPaid).
		Return(int64(1), nil)

	result, err := svc.Handle(context.Background(), "orders/create",
		[]byte(`{"id":8001,"financial_status":"paid"}`))

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeProcessed, result.Outcome)
	lineRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestHandle_UnknownTopicIsSkipped(t *testing.T) {
	svc, _, _, _, eventRepo := newTestReconcileService("", true)
	appended := expectEvent(eventRepo)

	result, err := svc.Handle(context.Background(), "themes/publish", []byte(`{"id":1}`))

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeSkipped, result.Outcome)
	require.Len(t, *appended, 1)
	assert.Equal(t, webhook.OutcomeSkipped, (*appended)[0].Status)
}

func TestHandle_HandlerFailureBecomesFailedRow(t *testing.T) {
	svc, productRepo, _, _, eventRepo := newTestReconcileService("", true)
	appended := expectEvent(eventRepo)
	productRepo.On("UpdateInventory", mock.Anything, int64(701), 9).Return(false, assert.AnError)

	result, err := svc.Handle(context.Background(), "inventory_levels/update",
		[]byte(`{"inventory_item_id":701,"available":9}`))

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeFailed, result.Outcome)
	require.Len(t, *appended, 1)
	assert.Equal(t, webhook.OutcomeFailed, (*appended)[0].Status)
	assert.NotEmpty(t, (*appended)[0].ErrorMessage)
}

func TestHandle_HandlerPanicBecomesFailedRow(t *testing.T) {
	svc, productRepo, _, _, eventRepo := newTestReconcileService("", true)
	appended := expectEvent(eventRepo)
	productRepo.On("UpdateInventory", mock.Anything, int64(701), 9).
		Run(func(mock.Arguments) {
			panic("storage gone")
		}).Return(false, nil)

	result, err := svc.Handle(context.Background(), "inventory_levels/update",
		[]byte(`{"inventory_item_id":701,"available":9}`))

	require.NoError(t, err)
	assert.Equal(t, webhook.OutcomeFailed, result.Outcome)
	require.Len(t, *appended, 1)
	assert.Equal(t, webhook.OutcomeFailed, (*appended)[0].Status)
	assert.Contains(t, (*appended)[0].ErrorMessage, "storage gone")
}

func TestHandle_InvalidJSONRejectedWithoutLogRow(t *testing.T) {
	svc, _, _, _, eventRepo := newTestReconcileService("", true)

	_, err := svc.Handle(context.Background(), "orders/paid", []byte(`{not json`))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION", domainErr.Code)
	eventRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
