package services

import (
	"context"
	"fmt"
	"strings"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// customerService implements the CustomerService interface
type customerService struct {
	customerRepo repositories.CustomerRepository
	taxConfig    models.TaxConfig
	validator    *validator.Validate
	logger       *logrus.Logger
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(customerRepo repositories.CustomerRepository, taxConfig models.TaxConfig, logger *logrus.Logger) CustomerService {
	if logger == nil {
		logger = logrus.New()
	}
	return &customerService{
		customerRepo: customerRepo,
		taxConfig:    taxConfig,
		validator:    NewValidator(),
		logger:       logger,
	}
}

// CreateCustomer creates a new customer
func (s *customerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	if req == nil {
		return nil, fmt.Errorf("create customer request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer := models.NewCustomer(models.SanitizeString(req.Name))
	customer.GSTIN = normalizeGSTIN(req.GSTIN)
	customer.StateCode = req.StateCode
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address

	if err := s.validateCustomerData(customer); err != nil {
		return nil, fmt.Errorf("customer validation failed: %w", err)
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"registered":  customer.IsRegistered(),
	}).Info("Customer created")

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *customerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("customer ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid customer ID format: %w", err)
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// UpdateCustomer updates an existing customer
func (s *customerService) UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error) {
	if req == nil {
		return nil, fmt.Errorf("update customer request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = models.SanitizeString(*req.Name)
	}
	if req.GSTIN != nil {
		customer.GSTIN = normalizeGSTIN(req.GSTIN)
	}
	if req.StateCode != nil {
		customer.StateCode = req.StateCode
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Address != nil {
		customer.Address = req.Address
	}

	customer.UpdateTimestamp()

	if err := s.validateCustomerData(customer); err != nil {
		return nil, fmt.Errorf("customer validation failed: %w", err)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// DeleteCustomer deletes a customer by ID. Invoices keep the customer name
// and GSTIN they were issued with.
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}

// ListCustomers retrieves customers with optional filters
func (s *customerService) ListCustomers(ctx context.Context, filters *PartyFilters) ([]*models.Customer, error) {
	customers, err := s.customerRepo.List(ctx, partyFilters(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// SearchCustomers matches name, GSTIN, email and phone
func (s *customerService) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	if limit <= 0 {
		limit = 50
	}

	customers, err := s.customerRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	return customers, nil
}

// GetCustomerByGSTIN retrieves a registered customer
func (s *customerService) GetCustomerByGSTIN(ctx context.Context, gstin string) (*models.Customer, error) {
	if err := s.taxConfig.ValidateBusinessNumber(gstin); err != nil || strings.TrimSpace(gstin) == "" {
		return nil, fmt.Errorf("validation failed: invalid GSTIN %q", gstin)
	}

	customer, err := s.customerRepo.GetByGSTIN(ctx, gstin)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by GSTIN: %w", err)
	}

	return customer, nil
}

// validateCustomerData applies the model rules and checks the GSTIN and
// state code against the tax configuration
func (s *customerService) validateCustomerData(customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	if customer.GSTIN != nil {
		if err := s.taxConfig.ValidateBusinessNumber(*customer.GSTIN); err != nil {
			return fmt.Errorf("invalid GSTIN: %w", err)
		}
	}

	if customer.StateCode != nil && *customer.StateCode != "" {
		if _, ok := models.StateName(*customer.StateCode); !ok {
			return fmt.Errorf("unknown state code %s", *customer.StateCode)
		}
		if customer.IsRegistered() && (*customer.GSTIN)[:2] != *customer.StateCode {
			return fmt.Errorf("state code %s does not match GSTIN %s", *customer.StateCode, *customer.GSTIN)
		}
	}

	return nil
}

func normalizeGSTIN(gstin *string) *string {
	if gstin == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*gstin))
	if v == "" {
		return nil
	}
	return &v
}

func partyFilters(filters *PartyFilters) map[string]interface{} {
	repoFilters := make(map[string]interface{})
	if filters == nil {
		return repoFilters
	}
	if filters.Name != nil {
		repoFilters["name"] = *filters.Name
	}
	if filters.GSTIN != nil {
		repoFilters["gstin"] = strings.ToUpper(*filters.GSTIN)
	}
	return repoFilters
}
