package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const productColumns = `id, name, description, category, hsn_code, unit, rate, gst_rate, reorder_level, active, created_at, updated_at`

// ProductRepository implements the ProductRepository interface for SQLite
type ProductRepository struct {
	*BaseRepository[models.Product]
}

// NewProductRepository creates a new SQLite product repository
func NewProductRepository(db *sql.DB, logger *logrus.Logger) repositories.ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository[models.Product](db, "products", logger,
			"name", "category", "hsn_code", "unit", "gst_rate", "active"),
	}
}

func scanProduct(s rowScanner) (*models.Product, error) {
	product := &models.Product{}
	err := s.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.HSNCode,
		&product.Unit,
		&product.Rate,
		&product.GSTRate,
		&product.ReorderLevel,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	return product, err
}

// Create creates a new product. Names are unique regardless of case.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.HSNCode,
		product.Unit,
		product.Rate,
		product.GSTRate,
		product.ReorderLevel,
		product.Active,
		product.CreatedAt.UTC(),
		product.UpdatedAt.UTC(),
	)

	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return repositories.DuplicateError("product", "name", product.Name)
		}
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	product, err := scanProduct(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "product", id, err)
	}

	return product, nil
}

// GetByName retrieves a product by name, ignoring case
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, repositories.NewRepositoryError("get_by_name", "product", "", repositories.ErrInvalidID)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE name = ? COLLATE NOCASE`

	product, err := scanProduct(r.executeQueryRow(ctx, "get_by_name", query, strings.TrimSpace(name)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundByError("product", "name", name)
		}
		return nil, repositories.NewRepositoryError("get_by_name", "product", name, err)
	}

	return product, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	product.UpdateTimestamp()

	query := `
		UPDATE products
		SET name = ?, description = ?, category = ?, hsn_code = ?, unit = ?,
			rate = ?, gst_rate = ?, reorder_level = ?, active = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		product.Name,
		product.Description,
		product.Category,
		product.HSNCode,
		product.Unit,
		product.Rate,
		product.GSTRate,
		product.ReorderLevel,
		product.Active,
		product.UpdatedAt.UTC(),
		product.ID,
	)

	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return repositories.DuplicateError("product", "name", product.Name)
		}
		return err
	}

	return r.checkRowsAffected(result, "update", product.ID)
}

// Delete deletes a product by ID. Document lines keep the product's name;
// its stock ledger is removed with it.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves products with optional filters
func (r *ProductRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Product, error) {
	whereClause, args, err := r.buildWhereClause(filters)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY name COLLATE NOCASE"

	return r.queryProducts(ctx, "list", query, args...)
}

// Count returns the total number of products matching the filters
func (r *ProductRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	whereClause, args, err := r.buildWhereClause(filters)
	if err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM products"
	if whereClause != "" {
		query += " " + whereClause
	}

	var count int64
	if err := r.executeQueryRow(ctx, "count", query, args...).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "product", "", err)
	}

	return count, nil
}

// Search matches the query against name, category, HSN code and description
func (r *ProductRepository) Search(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.Product{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := likePattern(query)
	searchQuery := `SELECT ` + productColumns + ` FROM products
		WHERE name LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'
		   OR hsn_code LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE
		LIMIT ?`

	return r.queryProducts(ctx, "search", searchQuery, pattern, pattern, pattern, pattern, limit)
}

// GetByCategory retrieves products by category
func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = ? ORDER BY name COLLATE NOCASE`
	return r.queryProducts(ctx, "get_by_category", query, category)
}

// GetByGSTRate retrieves products in one GST slab
func (r *ProductRepository) GetByGSTRate(ctx context.Context, rate float64) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE gst_rate = ? ORDER BY name COLLATE NOCASE`
	return r.queryProducts(ctx, "get_by_gst_rate", query, rate)
}

// GetActiveProducts retrieves all active products
func (r *ProductRepository) GetActiveProducts(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active = 1 ORDER BY name COLLATE NOCASE`
	return r.queryProducts(ctx, "get_active", query)
}

func (r *ProductRepository) queryProducts(ctx context.Context, operation, query string, args ...interface{}) ([]*models.Product, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "product", "", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "product", "", err)
	}

	return products, nil
}
