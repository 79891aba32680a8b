package services

import (
	"fmt"

	"gst-invoice-api/internal/adapters/storage"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	ProductService  ProductService
	CustomerService CustomerService
	VendorService   VendorService
	InvoiceService  InvoiceService
	PurchaseService PurchaseService
	StockService    StockService
	ReportService   ReportService
	TaxService      TaxServiceInterface
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	TaxConfig *TaxConfig
	Invoice   InvoiceSettings
}

// TaxConfig holds tax service configuration
type TaxConfig struct {
	CountryCode     string
	SellerStateCode string
}

// DefaultServiceConfig returns an IN configuration for a Karnataka seller
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		TaxConfig: &TaxConfig{
			CountryCode:     "IN",
			SellerStateCode: models.DefaultSellerStateCode,
		},
		Invoice: DefaultInvoiceSettings(),
	}
}

// NewServiceContainer creates a new service container with all services.
// files may be nil, in which case rendered documents are not archived.
func NewServiceContainer(repos repositories.RepositoryManager, files storage.FileStorage, config *ServiceConfig, logger *logrus.Logger) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository manager cannot be nil")
	}

	if config == nil {
		config = DefaultServiceConfig()
	}
	if config.TaxConfig == nil {
		config.TaxConfig = DefaultServiceConfig().TaxConfig
	}
	if config.Invoice.CompanyCode == "" {
		config.Invoice = DefaultInvoiceSettings()
	}

	if logger == nil {
		logger = logrus.New()
	}

	taxConfig, err := models.NewTaxConfig(config.TaxConfig.CountryCode, config.TaxConfig.SellerStateCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create tax service: %w", err)
	}

	return &ServiceContainer{
		ProductService:  NewProductService(repos.Products(), logger),
		CustomerService: NewCustomerService(repos.Customers(), taxConfig, logger),
		VendorService:   NewVendorService(repos.Vendors(), taxConfig, logger),
		InvoiceService:  NewInvoiceService(repos, taxConfig, files, config.Invoice, logger),
		PurchaseService: NewPurchaseService(repos, logger),
		StockService:    NewStockService(repos, logger),
		ReportService:   NewReportService(repos, files, logger),
		TaxService:      NewTaxService(taxConfig, config.Invoice.DiscountPercent),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.ProductService == nil {
		return fmt.Errorf("product service is nil")
	}
	if sc.CustomerService == nil {
		return fmt.Errorf("customer service is nil")
	}
	if sc.VendorService == nil {
		return fmt.Errorf("vendor service is nil")
	}
	if sc.InvoiceService == nil {
		return fmt.Errorf("invoice service is nil")
	}
	if sc.PurchaseService == nil {
		return fmt.Errorf("purchase service is nil")
	}
	if sc.StockService == nil {
		return fmt.Errorf("stock service is nil")
	}
	if sc.ReportService == nil {
		return fmt.Errorf("report service is nil")
	}
	if sc.TaxService == nil {
		return fmt.Errorf("tax service is nil")
	}

	return nil
}

// Close performs cleanup for all services
func (sc *ServiceContainer) Close() error {
	return nil
}
