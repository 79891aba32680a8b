package sqlite

import (
	"context"
	"database/sql"

	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// SQLiteRepositoryManager implements the RepositoryManager interface for SQLite
type SQLiteRepositoryManager struct {
	db                 *sql.DB
	logger             *logrus.Logger
	productRepo        repositories.ProductRepository
	customerRepo       repositories.CustomerRepository
	vendorRepo         repositories.VendorRepository
	invoiceRepo        repositories.InvoiceRepository
	purchaseRepo       repositories.PurchaseRepository
	stockRepo          repositories.StockRepository
	sequenceRepo       repositories.SequenceRepository
	transactionManager repositories.TransactionManager
}

// NewSQLiteRepositoryManager creates a repository manager over an open,
// migrated database
func NewSQLiteRepositoryManager(db *sql.DB, logger *logrus.Logger) repositories.RepositoryManager {
	if logger == nil {
		logger = logrus.New()
	}

	return &SQLiteRepositoryManager{
		db:                 db,
		logger:             logger,
		productRepo:        NewProductRepository(db, logger),
		customerRepo:       NewCustomerRepository(db, logger),
		vendorRepo:         NewVendorRepository(db, logger),
		invoiceRepo:        NewInvoiceRepository(db, logger),
		purchaseRepo:       NewPurchaseRepository(db, logger),
		stockRepo:          NewStockRepository(db, logger),
		sequenceRepo:       NewSequenceRepository(db, logger),
		transactionManager: NewSQLiteTransactionManager(db, logger),
	}
}

// BeginTransaction starts a new transaction
func (m *SQLiteRepositoryManager) BeginTransaction(ctx context.Context) (repositories.Transaction, error) {
	return m.transactionManager.BeginTransaction(ctx)
}

// WithTransaction executes a function within a transaction
func (m *SQLiteRepositoryManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.transactionManager.WithTransaction(ctx, fn)
}

// Products returns the product repository
func (m *SQLiteRepositoryManager) Products() repositories.ProductRepository {
	return m.productRepo
}

// Customers returns the customer repository
func (m *SQLiteRepositoryManager) Customers() repositories.CustomerRepository {
	return m.customerRepo
}

// Vendors returns the vendor repository
func (m *SQLiteRepositoryManager) Vendors() repositories.VendorRepository {
	return m.vendorRepo
}

// Invoices returns the invoice repository
func (m *SQLiteRepositoryManager) Invoices() repositories.InvoiceRepository {
	return m.invoiceRepo
}

// Purchases returns the purchase repository
func (m *SQLiteRepositoryManager) Purchases() repositories.PurchaseRepository {
	return m.purchaseRepo
}

// Stock returns the stock repository
func (m *SQLiteRepositoryManager) Stock() repositories.StockRepository {
	return m.stockRepo
}

// Sequences returns the document sequence repository
func (m *SQLiteRepositoryManager) Sequences() repositories.SequenceRepository {
	return m.sequenceRepo
}

// Close closes all repository connections
func (m *SQLiteRepositoryManager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// Health checks the health of the repository connections
func (m *SQLiteRepositoryManager) Health(ctx context.Context) error {
	if m.db == nil {
		return repositories.ConnectionError(repositories.ErrConnection)
	}

	if err := m.db.PingContext(ctx); err != nil {
		return repositories.ConnectionError(err)
	}

	var result int
	if err := m.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return repositories.ConnectionError(err)
	}

	if result != 1 {
		return repositories.ConnectionError(repositories.ErrConnection)
	}

	return nil
}
