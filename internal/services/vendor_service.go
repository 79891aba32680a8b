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

// maxCodeAttempts bounds the redraws of a generated vendor code or document
// number that collided with an existing one
const maxCodeAttempts = 5

// vendorService implements the VendorService interface
type vendorService struct {
	vendorRepo repositories.VendorRepository
	taxConfig  models.TaxConfig
	validator  *validator.Validate
	logger     *logrus.Logger
}

// NewVendorService creates a new vendor service instance
func NewVendorService(vendorRepo repositories.VendorRepository, taxConfig models.TaxConfig, logger *logrus.Logger) VendorService {
	if logger == nil {
		logger = logrus.New()
	}
	return &vendorService{
		vendorRepo: vendorRepo,
		taxConfig:  taxConfig,
		validator:  NewValidator(),
		logger:     logger,
	}
}

// CreateVendor creates a vendor with a generated code
func (s *vendorService) CreateVendor(ctx context.Context, req *CreateVendorRequest) (*models.Vendor, error) {
	if req == nil {
		return nil, fmt.Errorf("create vendor request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	vendor := models.NewVendor(models.SanitizeString(req.Name))
	vendor.GSTIN = normalizeGSTIN(req.GSTIN)
	vendor.Email = req.Email
	vendor.Phone = req.Phone
	vendor.Address = req.Address

	if err := s.validateVendorData(vendor); err != nil {
		return nil, fmt.Errorf("vendor validation failed: %w", err)
	}

	var err error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		err = s.vendorRepo.Create(ctx, vendor)
		if err == nil || !repositories.IsDuplicate(err) {
			break
		}
		s.logger.WithFields(logrus.Fields{
			"code":    vendor.Code,
			"attempt": attempt,
		}).Warn("Vendor code collision, drawing a new code")
		vendor.RegenerateCode()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"vendor_id": vendor.ID,
		"code":      vendor.Code,
	}).Info("Vendor created")

	return vendor, nil
}

// GetVendor retrieves a vendor by ID
func (s *vendorService) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	if id == "" {
		return nil, fmt.Errorf("vendor ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid vendor ID format: %w", err)
	}

	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return vendor, nil
}

// GetVendorByCode retrieves a vendor by its generated code
func (s *vendorService) GetVendorByCode(ctx context.Context, code string) (*models.Vendor, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("vendor code cannot be empty")
	}

	vendor, err := s.vendorRepo.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor by code: %w", err)
	}

	return vendor, nil
}

// UpdateVendor updates an existing vendor. The code never changes.
func (s *vendorService) UpdateVendor(ctx context.Context, id string, req *UpdateVendorRequest) (*models.Vendor, error) {
	if req == nil {
		return nil, fmt.Errorf("update vendor request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	vendor, err := s.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vendor.Name = models.SanitizeString(*req.Name)
	}
	if req.GSTIN != nil {
		vendor.GSTIN = normalizeGSTIN(req.GSTIN)
	}
	if req.Email != nil {
		vendor.Email = req.Email
	}
	if req.Phone != nil {
		vendor.Phone = req.Phone
	}
	if req.Address != nil {
		vendor.Address = req.Address
	}
	if req.Active != nil {
		vendor.Active = *req.Active
	}

	vendor.UpdateTimestamp()

	if err := s.validateVendorData(vendor); err != nil {
		return nil, fmt.Errorf("vendor validation failed: %w", err)
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	return vendor, nil
}

// DeleteVendor deletes a vendor. Purchases keep the vendor name.
func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	if _, err := s.GetVendor(ctx, id); err != nil {
		return err
	}

	if err := s.vendorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}

	return nil
}

// ListVendors retrieves vendors with optional filters
func (s *vendorService) ListVendors(ctx context.Context, filters *PartyFilters) ([]*models.Vendor, error) {
	vendors, err := s.vendorRepo.List(ctx, partyFilters(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	return vendors, nil
}

// SearchVendors matches name, code and GSTIN
func (s *vendorService) SearchVendors(ctx context.Context, query string, limit int) ([]*models.Vendor, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	if limit <= 0 {
		limit = 50
	}

	vendors, err := s.vendorRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search vendors: %w", err)
	}

	return vendors, nil
}

func (s *vendorService) validateVendorData(vendor *models.Vendor) error {
	if err := vendor.Validate(); err != nil {
		return err
	}

	if vendor.GSTIN != nil {
		if err := s.taxConfig.ValidateBusinessNumber(*vendor.GSTIN); err != nil {
			return fmt.Errorf("invalid GSTIN: %w", err)
		}
	}

	return nil
}
