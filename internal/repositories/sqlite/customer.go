package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const customerColumns = `id, name, gstin, state_code, email, phone, address, created_at, updated_at`

// CustomerRepository implements the CustomerRepository interface for SQLite
type CustomerRepository struct {
	*BaseRepository[models.Customer]
}

// NewCustomerRepository creates a new SQLite customer repository
func NewCustomerRepository(db *sql.DB, logger *logrus.Logger) repositories.CustomerRepository {
	return &CustomerRepository{
		BaseRepository: NewBaseRepository[models.Customer](db, "customers", logger,
			"name", "gstin", "state_code", "email", "phone"),
	}
}

func scanCustomer(s rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := s.Scan(
		&customer.ID,
		&customer.Name,
		&customer.GSTIN,
		&customer.StateCode,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	return customer, err
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", customer.ID, err)
	}

	query := `INSERT INTO customers (` + customerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		customer.ID,
		customer.Name,
		customer.GSTIN,
		customer.StateCode,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.CreatedAt.UTC(),
		customer.UpdatedAt.UTC(),
	)

	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return repositories.DuplicateError("customer", "id", customer.ID)
		}
		return err
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`

	customer, err := scanCustomer(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("customer", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "customer", id, err)
	}

	return customer, nil
}

// Update updates an existing customer
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", customer.ID, err)
	}

	customer.UpdateTimestamp()

	query := `
		UPDATE customers
		SET name = ?, gstin = ?, state_code = ?, email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		customer.Name,
		customer.GSTIN,
		customer.StateCode,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.UpdatedAt.UTC(),
		customer.ID,
	)

	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", customer.ID)
}

// Delete deletes a customer by ID. Invoices keep the customer's name.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves customers with optional filters
func (r *CustomerRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Customer, error) {
	whereClause, args, err := r.buildWhereClause(filters)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY name COLLATE NOCASE"

	return r.queryCustomers(ctx, "list", query, args...)
}

// Count returns the total number of customers matching the filters
func (r *CustomerRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	whereClause, args, err := r.buildWhereClause(filters)
	if err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM customers"
	if whereClause != "" {
		query += " " + whereClause
	}

	var count int64
	if err := r.executeQueryRow(ctx, "count", query, args...).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "customer", "", err)
	}

	return count, nil
}

// Search matches the query against name, GSTIN, email and phone
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.Customer{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := likePattern(query)
	searchQuery := `SELECT ` + customerColumns + ` FROM customers
		WHERE name LIKE ? ESCAPE '\' OR gstin LIKE ? ESCAPE '\'
		   OR email LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE
		LIMIT ?`

	return r.queryCustomers(ctx, "search", searchQuery, pattern, pattern, pattern, pattern, limit)
}

// GetByGSTIN retrieves a customer by GSTIN
func (r *CustomerRepository) GetByGSTIN(ctx context.Context, gstin string) (*models.Customer, error) {
	if strings.TrimSpace(gstin) == "" {
		return nil, repositories.NewRepositoryError("get_by_gstin", "customer", "", repositories.ErrInvalidID)
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE gstin = ? LIMIT 1`

	customer, err := scanCustomer(r.executeQueryRow(ctx, "get_by_gstin", query, strings.ToUpper(gstin)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundByError("customer", "GSTIN", gstin)
		}
		return nil, repositories.NewRepositoryError("get_by_gstin", "customer", gstin, err)
	}

	return customer, nil
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, operation, query string, args ...interface{}) ([]*models.Customer, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "customer", "", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "customer", "", err)
	}

	return customers, nil
}
