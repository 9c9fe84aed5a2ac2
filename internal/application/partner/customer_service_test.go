package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

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

func newTestCustomerService() (*CustomerService, *MockStorePlatform, *MockCustomerRepository) {
	platform := new(MockStorePlatform)
	customerRepo := new(MockCustomerRepository)
	svc := NewCustomerService(platform, customerRepo, zap.NewNop())
	return svc, platform, customerRepo
}

func TestCreate_RemoteFirstThenMirror(t *testing.T) {
	svc, platform, customerRepo := newTestCustomerService()

	platform.On("CreateCustomer", mock.Anything, integration.NewCustomer{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555",
	}).Return(&integration.RemoteCustomer{
		CustomerID: 501, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555",
	}, nil)

	var mirrored *partner.Customer
	customerRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*partner.Customer")).
		Run(func(args mock.Arguments) {
			mirrored = args.Get(1).(*partner.Customer)
		}).Return(nil)

	resp, err := svc.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555",
	})

	require.NoError(t, err)
	require.NotNil(t, mirrored)
	require.NotNil(t, mirrored.ExternalCustomerID)
	assert.Equal(t, int64(501), *mirrored.ExternalCustomerID)
	assert.Equal(t, "Ada Lovelace", resp.FullName)
}

func TestCreate_RemoteFailureWritesNothing(t *testing.T) {
	svc, platform, customerRepo := newTestCustomerService()

	platform.On("CreateCustomer", mock.Anything, mock.Anything).
		Return(nil, integration.ErrPlatformRequestFailed)

	_, err := svc.Create(context.Background(), CreateCustomerCommand{
		FirstName: "Ada", Email: "ada@example.com",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REMOTE_COMMIT_FAILED", domainErr.Code)
	customerRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSearch_LocalHitSkipsRemote(t *testing.T) {
	svc, platform, customerRepo := newTestCustomerService()

	local, err := partner.NewCustomer(501, "Ada", "Lovelace", "ada@example.com")
	require.NoError(t, err)
	customerRepo.On("Search", mock.Anything, "ada", mock.Anything).
		Return([]partner.Customer{*local}, int64(1), nil)

	page, err := svc.Search(context.Background(), "ada", shared.DefaultFilter())

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	platform.AssertNotCalled(t, "FindCustomerByEmail", mock.Anything, mock.Anything)
}

func TestSearch_EmailFallbackAdoptsRemoteMatch(t *testing.T) {
	svc, platform, customerRepo := newTestCustomerService()

	customerRepo.On("Search", mock.Anything, "new@example.com", mock.Anything).
		Return([]partner.Customer{}, int64(0), nil)
	platform.On("FindCustomerByEmail", mock.Anything, "new@example.com").
		Return(&integration.RemoteCustomer{CustomerID: 777, FirstName: "Grace", Email: "new@example.com"}, nil)
	customerRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	page, err := svc.Search(context.Background(), "new@example.com", shared.DefaultFilter())

	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	require.NotNil(t, page.Items[0].ExternalCustomerID)
	assert.Equal(t, int64(777), *page.Items[0].ExternalCustomerID)
}

func TestSearch_NonEmailMissDoesNotHitRemote(t *testing.T) {
	svc, platform, customerRepo := newTestCustomerService()

	customerRepo.On("Search", mock.Anything, "nobody", mock.Anything).
		Return([]partner.Customer{}, int64(0), nil)

	page, err := svc.Search(context.Background(), "nobody", shared.DefaultFilter())

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	platform.AssertNotCalled(t, "FindCustomerByEmail", mock.Anything, mock.Anything)
}
