package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
)

// CustomerService manages the customer mirror. Creation goes to the store
// first: a customer is never invented locally without a remote
// counterpart.
type CustomerService struct {
	platform     integration.StorePlatform
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	platform integration.StorePlatform,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		platform:     platform,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates the customer on the store and mirrors it locally under
// the externally assigned identifier
func (s *CustomerService) Create(ctx context.Context, cmd CreateCustomerCommand) (*CustomerResponse, error) {
	remote, err := s.platform.CreateCustomer(ctx, integration.NewCustomer{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
	})
	if err != nil {
		return nil, mapPlatformError(err)
	}

	customer, err := s.adopt(ctx, remote)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Customer created",
		zap.Int64("external_customer_id", remote.CustomerID),
		zap.String("email", customer.Email))
	resp := CustomerResponseFromDomain(customer)
	return &resp, nil
}

// Get returns a single customer by local ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := CustomerResponseFromDomain(customer)
	return &resp, nil
}

// List returns customers, paginated
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	customers, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toResponses(customers), total, filter.Page, filter.Limit())
	return &page, nil
}

// Search matches customers by name, email or phone substring. When nothing
// matches locally and the query is an email, the store is consulted and a
// remote match is adopted into the mirror.
func (s *CustomerService) Search(ctx context.Context, query string, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	customers, total, err := s.customerRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, err
	}

	if total == 0 && strings.Contains(query, "@") {
		remote, err := s.platform.FindCustomerByEmail(ctx, strings.TrimSpace(query))
		if err != nil {
			s.logger.Warn("Remote customer lookup failed during search",
				zap.String("query", query),
				zap.Error(err))
		} else if remote != nil {
			adopted, err := s.adopt(ctx, remote)
			if err != nil {
				return nil, err
			}
			customers = []partner.Customer{*adopted}
			total = 1
		}
	}

	page := shared.NewPaginated(toResponses(customers), total, filter.Page, filter.Limit())
	return &page, nil
}

func (s *CustomerService) adopt(ctx context.Context, remote *integration.RemoteCustomer) (*partner.Customer, error) {
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

func toResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, CustomerResponseFromDomain(&customers[i]))
	}
	return responses
}

func mapPlatformError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, integration.ErrPlatformUnavailable) ||
		errors.Is(err, integration.ErrPlatformRateLimited) {
		return shared.NewDomainError("REMOTE_UNAVAILABLE", "Remote platform unavailable: "+err.Error())
	}
	return shared.NewDomainError("REMOTE_COMMIT_FAILED", "Remote platform rejected the request: "+err.Error())
}
