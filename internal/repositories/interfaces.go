package repositories

import (
	"context"
	"time"

	"gst-invoice-api/internal/models"

	"github.com/shopspring/decimal"
)

// BaseRepository defines common CRUD operations for all repositories
type BaseRepository[T any] interface {
	// Create creates a new entity
	Create(ctx context.Context, entity *T) error

	// GetByID retrieves an entity by its ID
	GetByID(ctx context.Context, id string) (*T, error)

	// Update updates an existing entity
	Update(ctx context.Context, entity *T) error

	// Delete deletes an entity by its ID
	Delete(ctx context.Context, id string) error

	// List retrieves entities with optional column filters
	List(ctx context.Context, filters map[string]interface{}) ([]*T, error)

	// Count returns the total number of entities matching the filters
	Count(ctx context.Context, filters map[string]interface{}) (int64, error)

	// Exists checks if an entity with the given ID exists
	Exists(ctx context.Context, id string) (bool, error)
}

// ProductRepository defines operations specific to product management
type ProductRepository interface {
	BaseRepository[models.Product]

	// Search matches name, category and HSN code
	Search(ctx context.Context, query string, limit int) ([]*models.Product, error)

	// GetByName retrieves a product by name, case-insensitively
	GetByName(ctx context.Context, name string) (*models.Product, error)

	// GetByCategory retrieves products by category
	GetByCategory(ctx context.Context, category string) ([]*models.Product, error)

	// GetByGSTRate retrieves products in one GST slab
	GetByGSTRate(ctx context.Context, rate float64) ([]*models.Product, error)

	// GetActiveProducts retrieves all active products
	GetActiveProducts(ctx context.Context) ([]*models.Product, error)
}

// CustomerRepository defines operations specific to customer management
type CustomerRepository interface {
	BaseRepository[models.Customer]

	// Search matches name, GSTIN, email and phone
	Search(ctx context.Context, query string, limit int) ([]*models.Customer, error)

	// GetByGSTIN retrieves a customer by GSTIN
	GetByGSTIN(ctx context.Context, gstin string) (*models.Customer, error)
}

// VendorRepository defines operations specific to vendor management
type VendorRepository interface {
	BaseRepository[models.Vendor]

	// Search matches name, code and GSTIN
	Search(ctx context.Context, query string, limit int) ([]*models.Vendor, error)

	// GetByCode retrieves a vendor by its generated code
	GetByCode(ctx context.Context, code string) (*models.Vendor, error)
}

// DocumentFilter narrows invoice and purchase listings
type DocumentFilter struct {
	InvoiceType models.InvoiceType
	PartyID     string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}

// InvoiceRepository stores sales invoices and returns with their items
type InvoiceRepository interface {
	// Create inserts the header and all items
	Create(ctx context.Context, invoice *models.Invoice) error

	// GetByID retrieves an invoice with its items
	GetByID(ctx context.Context, id string) (*models.Invoice, error)

	// GetByNumber retrieves an invoice with its items by invoice number
	GetByNumber(ctx context.Context, number string) (*models.Invoice, error)

	// List retrieves invoice headers without items
	List(ctx context.Context, filter DocumentFilter) ([]*models.Invoice, error)

	// Count returns the number of invoices matching the filter
	Count(ctx context.Context, filter DocumentFilter) (int64, error)

	// GetReturns retrieves the returns raised against an invoice, with items
	GetReturns(ctx context.Context, originalInvoiceID string) ([]*models.Invoice, error)

	// GetItemsByDateRange retrieves items of invoices of one type in a period
	GetItemsByDateRange(ctx context.Context, invoiceType models.InvoiceType, start, end time.Time) ([]models.InvoiceItem, error)

	// Delete removes an invoice and its items
	Delete(ctx context.Context, id string) error
}

// PurchaseRepository stores purchase invoices with their items
type PurchaseRepository interface {
	// Create inserts the header and all items
	Create(ctx context.Context, purchase *models.Purchase) error

	// GetByID retrieves a purchase with its items
	GetByID(ctx context.Context, id string) (*models.Purchase, error)

	// GetByNumber retrieves a purchase with its items by purchase number
	GetByNumber(ctx context.Context, number string) (*models.Purchase, error)

	// List retrieves purchase headers without items
	List(ctx context.Context, filter DocumentFilter) ([]*models.Purchase, error)

	// Count returns the number of purchases matching the filter
	Count(ctx context.Context, filter DocumentFilter) (int64, error)

	// GetItemsByDateRange retrieves purchase items in a period
	GetItemsByDateRange(ctx context.Context, start, end time.Time) ([]models.PurchaseItem, error)

	// Delete removes a purchase and its items
	Delete(ctx context.Context, id string) error
}

// StockRepository keeps the stock ledger and the current position per product
type StockRepository interface {
	// RecordMovement appends a movement to the ledger
	RecordMovement(ctx context.Context, movement *models.StockMovement) error

	// GetLevel returns the position of a product; a product never moved
	// yields a zero level, not an error
	GetLevel(ctx context.Context, productID string) (*models.StockLevel, error)

	// SaveLevel upserts the position of a product
	SaveLevel(ctx context.Context, level *models.StockLevel) error

	// ListLevels returns the position of every active product
	ListLevels(ctx context.Context) ([]*models.StockLevel, error)

	// ListMovements returns the newest movements of a product first
	ListMovements(ctx context.Context, productID string, limit int) ([]*models.StockMovement, error)

	// ListOpenReceipts returns unreversed inward movements, newest first per product
	ListOpenReceipts(ctx context.Context) ([]*models.StockMovement, error)

	// SumQuantity totals the movements of a product, signed by direction
	SumQuantity(ctx context.Context, productID string) (decimal.Decimal, error)
}

// SequenceRepository allocates per-day document sequence numbers
type SequenceRepository interface {
	// Next increments and returns the sequence for a prefix on a date
	Next(ctx context.Context, prefix string, date time.Time) (int, error)

	// Current returns the last allocated value without incrementing
	Current(ctx context.Context, prefix string, date time.Time) (int, error)
}
