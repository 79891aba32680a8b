package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/repositories"
	"gst-invoice-api/internal/services"
)

// Seed file names looked up in the seed directory
const (
	ProductsFile  = "products.json"
	CustomersFile = "customers.json"
	VendorsFile   = "vendors.json"
)

// SeedImporter loads master data from JSON files through the services, so
// every record passes the same validation as an API request
type SeedImporter struct {
	services *services.ServiceContainer
	logger   *logrus.Logger
	seedPath string
}

// NewSeedImporter creates a new seed importer
func NewSeedImporter(svc *services.ServiceContainer, seedPath string, logger *logrus.Logger) *SeedImporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &SeedImporter{
		services: svc,
		logger:   logger,
		seedPath: seedPath,
	}
}

// SeedResult contains the results of an import
type SeedResult struct {
	ProductsImported  int
	CustomersImported int
	VendorsImported   int
	Skipped           int
	Warnings          []string
}

// Import creates every product, customer and vendor in the seed files.
// Records that already exist or fail validation are skipped with a warning,
// so an import can be re-run.
func (m *SeedImporter) Import(ctx context.Context) (*SeedResult, error) {
	m.logger.WithField("seed_path", m.seedPath).Info("Starting seed import...")

	result := &SeedResult{Warnings: make([]string, 0)}

	var products []services.CreateProductRequest
	if err := m.readFile(ProductsFile, &products); err != nil {
		return result, err
	}
	for i := range products {
		_, err := m.services.ProductService.CreateProduct(ctx, &products[i])
		if m.record(result, "product", products[i].Name, err) {
			result.ProductsImported++
		}
	}

	var customers []services.CreateCustomerRequest
	if err := m.readFile(CustomersFile, &customers); err != nil {
		return result, err
	}
	for i := range customers {
		_, err := m.services.CustomerService.CreateCustomer(ctx, &customers[i])
		if m.record(result, "customer", customers[i].Name, err) {
			result.CustomersImported++
		}
	}

	var vendors []services.CreateVendorRequest
	if err := m.readFile(VendorsFile, &vendors); err != nil {
		return result, err
	}
	for i := range vendors {
		_, err := m.services.VendorService.CreateVendor(ctx, &vendors[i])
		if m.record(result, "vendor", vendors[i].Name, err) {
			result.VendorsImported++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"products":  result.ProductsImported,
		"customers": result.CustomersImported,
		"vendors":   result.VendorsImported,
		"skipped":   result.Skipped,
	}).Info("Seed import completed")

	return result, nil
}

// record notes a failed create and reports whether the record was imported
func (m *SeedImporter) record(result *SeedResult, entity, name string, err error) bool {
	if err == nil {
		return true
	}

	result.Skipped++
	reason := err.Error()
	if repositories.IsDuplicate(err) {
		reason = "already exists"
	}
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s %q skipped: %s", entity, name, reason))
	m.logger.WithError(err).WithField(entity, name).Warn("Seed record skipped")
	return false
}

// readFile decodes one seed file. A missing file is not an error.
func (m *SeedImporter) readFile(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(m.seedPath, name))
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.WithField("file", name).Warn("Seed file not found, skipping")
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// CheckSeedFilesExist reports which seed files are present
func (m *SeedImporter) CheckSeedFilesExist() (bool, []string) {
	existingFiles := make([]string, 0)

	for _, filename := range []string{ProductsFile, CustomersFile, VendorsFile} {
		if _, err := os.Stat(filepath.Join(m.seedPath, filename)); err == nil {
			existingFiles = append(existingFiles, filename)
		}
	}

	return len(existingFiles) > 0, existingFiles
}
