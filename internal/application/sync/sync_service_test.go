package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
)

// MockStorePlatform is a mock implementation of integration.StorePlatform
type MockStorePlatform struct {
	mock.Mock
}

func (m *MockStorePlatform) ListProducts(ctx context.Context, pageURL string) ([]integration.RemoteVariant, string, error) {
	args := m.Called(ctx, pageURL)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]integration.RemoteVariant), args.String(1), args.Error(2)
}

func (m *MockStorePlatform) ListCustomers(ctx context.Context, pageURL string) ([]integration.RemoteCustomer, string, error) {
	args := m.Called(ctx, pageURL)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]integration.RemoteCustomer), args.String(1), args.Error(2)
}

func (m *MockStorePlatform) FindCustomerByEmail(ctx context.Context, email string) (*integration.RemoteCustomer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteCustomer), args.Error(1)
}

func (m *MockStorePlatform) CreateCustomer(ctx context.Context, c integration.NewCustomer) (*integration.RemoteCustomer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteCustomer), args.Error(1)
}

func (m *MockStorePlatform) CreateOrder(ctx context.Context, req integration.OrderRequest) (*integration.OrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrderResult), args.Error(1)
}

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

// MockLock is a mock implementation of Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Acquire(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockLock) Release(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func newTestService() (*Service, *MockStorePlatform, *MockProductRepository, *MockCustomerRepository, *MockLock) {
	platform := new(MockStorePlatform)
	productRepo := new(MockProductRepository)
	customerRepo := new(MockCustomerRepository)
	lock := new(MockLock)
	svc := NewService(platform, productRepo, customerRepo, lock, zap.NewNop())
	return svc, platform, productRepo, customerRepo, lock
}

func grantLock(lock *MockLock, name string) {
	lock.On("Acquire", mock.Anything, name).Return(true, nil)
	lock.On("Release", mock.Anything, name).Return(nil)
}

func TestSyncProducts_PagesAndCounters(t *testing.T) {
	svc, platform, productRepo, _, lock := newTestService()
	grantLock(lock, "products")

	page1 := []integration.RemoteVariant{
		{VariantID: 1, ProductID: 10, Title: "Shirt", Barcode: "B1", Price: decimal.NewFromInt(100), InventoryQuantity: 5},
		{VariantID: 2, ProductID: 10, Title: "Shirt", Barcode: "", Price: decimal.NewFromInt(100)},
	}
	page2 := []integration.RemoteVariant{
		{VariantID: 1, ProductID: 10, Title: "Shirt", Barcode: "B1", Price: decimal.NewFromInt(100)},
		{VariantID: 3, ProductID: 11, Title: "Hat", Barcode: "B3", Price: decimal.NewFromInt(40)},
	}
	platform.On("ListProducts", mock.Anything, "").Return(page1, "https://x/next", nil)
	platform.On("ListProducts", mock.Anything, "https://x/next").Return(page2, "", nil)
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := svc.SyncProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalSynced)
	assert.Equal(t, 1, result.SkippedNoBarcode)
	assert.Equal(t, 1, result.SkippedDuplicate)
	productRepo.AssertNumberOfCalls(t, "Upsert", 2)
	lock.AssertCalled(t, "Release", mock.Anything, "products")
}

func TestSyncProducts_UpsertCarriesRemoteFields(t *testing.T) {
	svc, platform, productRepo, _, lock := newTestService()
	grantLock(lock, "products")

	variants := []integration.RemoteVariant{
		{
			VariantID:         7,
			ProductID:         70,
			Title:             "Jacket",
			SKU:               "JK-01",
			Barcode:           "B7",
			Price:             decimal.RequireFromString("129.90"),
			InventoryQuantity: 3,
			VariantLabel:      "L",
			ImageURL:          "https://cdn/x.png",
		},
	}
	platform.On("ListProducts", mock.Anything, "").Return(variants, "", nil)

	var upserted *catalog.Product
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*catalog.Product")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(*catalog.Product)
		}).Return(nil)

	_, err := svc.SyncProducts(context.Background())

	require.NoError(t, err)
	require.NotNil(t, upserted)
	assert.Equal(t, int64(7), upserted.ExternalVariantID)
	assert.Equal(t, int64(70), upserted.ExternalProductID)
	assert.Equal(t, "JK-01", upserted.SKU)
	assert.Equal(t, "L", upserted.VariantLabel)
	assert.True(t, upserted.Price.Equal(decimal.RequireFromString("129.90")))
	assert.Equal(t, 3, upserted.InventoryQuantity)
}

func TestSyncProducts_LockHeld(t *testing.T) {
	svc, platform, _, _, lock := newTestService()
	lock.On("Acquire", mock.Anything, "products").Return(false, nil)

	result, err := svc.SyncProducts(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SYNC_IN_PROGRESS", domainErr.Code)
	platform.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
}

func TestSyncProducts_RemoteFailureMidway(t *testing.T) {
	svc, platform, productRepo, _, lock := newTestService()
	grantLock(lock, "products")

	page1 := []integration.RemoteVariant{
		{VariantID: 1, ProductID: 10, Title: "Shirt", Barcode: "B1", Price: decimal.NewFromInt(100)},
	}
	platform.On("ListProducts", mock.Anything, "").Return(page1, "https://x/next", nil)
	platform.On("ListProducts", mock.Anything, "https://x/next").
		Return(nil, "", integration.ErrPlatformUnavailable)
	productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := svc.SyncProducts(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REMOTE_UNAVAILABLE", domainErr.Code)
	// Page one was already durable before the failure.
	productRepo.AssertNumberOfCalls(t, "Upsert", 1)
	lock.AssertCalled(t, "Release", mock.Anything, "products")
}

func TestSyncCustomers_DedupWithinPass(t *testing.T) {
	svc, platform, _, customerRepo, lock := newTestService()
	grantLock(lock, "customers")

	customers := []integration.RemoteCustomer{
		{CustomerID: 100, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{CustomerID: 100, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{CustomerID: 101, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", City: "London"},
	}
	platform.On("ListCustomers", mock.Anything, "").Return(customers, "", nil)

	var upserted []*partner.Customer
	customerRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*partner.Customer")).
		Run(func(args mock.Arguments) {
			upserted = append(upserted, args.Get(1).(*partner.Customer))
		}).Return(nil)

	result, err := svc.SyncCustomers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalSynced)
	assert.Equal(t, 1, result.SkippedDuplicate)
	require.Len(t, upserted, 2)
	require.NotNil(t, upserted[1].ExternalCustomerID)
	assert.Equal(t, int64(101), *upserted[1].ExternalCustomerID)
	assert.Equal(t, "London", upserted[1].City)
}

func TestSyncCustomers_LockReleasedOnFailure(t *testing.T) {
	svc, platform, _, _, lock := newTestService()
	grantLock(lock, "customers")
	platform.On("ListCustomers", mock.Anything, "").
		Return(nil, "", integration.ErrPlatformAuthFailed)

	_, err := svc.SyncCustomers(context.Background())

	require.Error(t, err)
	lock.AssertCalled(t, "Release", mock.Anything, "customers")
}

func TestSyncProducts_RepeatedRunIsStable(t *testing.T) {
	variants := []integration.RemoteVariant{
		{VariantID: 1, ProductID: 10, Title: "Shirt", Barcode: "B1", Price: decimal.NewFromInt(100)},
		{VariantID: 2, ProductID: 10, Title: "Shirt", Barcode: "B2", Price: decimal.NewFromInt(100)},
	}

	run := func() *ProductSyncResult {
		svc, platform, productRepo, _, lock := newTestService()
		grantLock(lock, "products")
		platform.On("ListProducts", mock.Anything, "").Return(variants, "", nil)
		productRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		result, err := svc.SyncProducts(context.Background())
		require.NoError(t, err)
		return result
	}

	first := run()
	time.Sleep(time.Millisecond)
	second := run()
	assert.Equal(t, first.TotalSynced, second.TotalSynced)
	assert.Equal(t, 0, second.SkippedDuplicate)
}
