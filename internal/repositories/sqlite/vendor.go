package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const vendorColumns = `id, code, name, gstin, email, phone, address, active, created_at, updated_at`

// VendorRepository implements the VendorRepository interface for SQLite
type VendorRepository struct {
	*BaseRepository[models.Vendor]
}

// NewVendorRepository creates a new SQLite vendor repository
func NewVendorRepository(db *sql.DB, logger *logrus.Logger) repositories.VendorRepository {
	return &VendorRepository{
		BaseRepository: NewBaseRepository[models.Vendor](db, "vendors", logger,
			"code", "name", "gstin", "active"),
	}
}

func scanVendor(s rowScanner) (*models.Vendor, error) {
	vendor := &models.Vendor{}
	err := s.Scan(
		&vendor.ID,
		&vendor.Code,
		&vendor.Name,
		&vendor.GSTIN,
		&vendor.Email,
		&vendor.Phone,
		&vendor.Address,
		&vendor.Active,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
	return vendor, err
}

// Create creates a new vendor. A code already in use yields a duplicate
// error; the caller draws a new code and retries.
func (r *VendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if err := vendor.Validate(); err != nil {
		return repositories.ValidationError("vendor", vendor.ID, err)
	}

	query := `INSERT INTO vendors (` + vendorColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		vendor.ID,
		vendor.Code,
		vendor.Name,
		vendor.GSTIN,
		vendor.Email,
		vendor.Phone,
		vendor.Address,
		vendor.Active,
		vendor.CreatedAt.UTC(),
		vendor.UpdatedAt.UTC(),
	)

	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return repositories.DuplicateError("vendor", "code", vendor.Code)
		}
		return err
	}

	return nil
}

// GetByID retrieves a vendor by ID
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = ?`

	vendor, err := scanVendor(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("vendor", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "vendor", id, err)
	}

	return vendor, nil
}

// GetByCode retrieves a vendor by its code
func (r *VendorRepository) GetByCode(ctx context.Context, code string) (*models.Vendor, error) {
	if strings.TrimSpace(code) == "" {
		return nil, repositories.NewRepositoryError("get_by_code", "vendor", "", repositories.ErrInvalidID)
	}

	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE code = ?`

	vendor, err := scanVendor(r.executeQueryRow(ctx, "get_by_code", query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundByError("vendor", "code", code)
		}
		return nil, repositories.NewRepositoryError("get_by_code", "vendor", code, err)
	}

	return vendor, nil
}

// Update updates an existing vendor. The code is immutable.
func (r *VendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	if err := vendor.Validate(); err != nil {
		return repositories.ValidationError("vendor", vendor.ID, err)
	}

	vendor.UpdateTimestamp()

	query := `
		UPDATE vendors
		SET name = ?, gstin = ?, email = ?, phone = ?, address = ?, active = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		vendor.Name,
		vendor.GSTIN,
		vendor.Email,
		vendor.Phone,
		vendor.Address,
		vendor.Active,
		vendor.UpdatedAt.UTC(),
		vendor.ID,
	)

	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", vendor.ID)
}

// Delete deletes a vendor by ID
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM vendors WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// List retrieves vendors with optional filters
func (r *VendorRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Vendor, error) {
	whereClause, args, err := r.buildWhereClause(filters)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + vendorColumns + ` FROM vendors`
	if whereClause != "" {
		query += " " + whereClause
	}
	query += " ORDER BY name COLLATE NOCASE"

	return r.queryVendors(ctx, "list", query, args...)
}

// Count returns the total number of vendors matching the filters
func (r *VendorRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	whereClause, args, err := r.buildWhereClause(filters)
	if err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM vendors"
	if whereClause != "" {
		query += " " + whereClause
	}

	var count int64
	if err := r.executeQueryRow(ctx, "count", query, args...).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "vendor", "", err)
	}

	return count, nil
}

// Search matches the query against name, code and GSTIN
func (r *VendorRepository) Search(ctx context.Context, query string, limit int) ([]*models.Vendor, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.Vendor{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := likePattern(query)
	searchQuery := `SELECT ` + vendorColumns + ` FROM vendors
		WHERE name LIKE ? ESCAPE '\' OR code LIKE ? ESCAPE '\' OR gstin LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE
		LIMIT ?`

	return r.queryVendors(ctx, "search", searchQuery, pattern, pattern, pattern, limit)
}

func (r *VendorRepository) queryVendors(ctx context.Context, operation, query string, args ...interface{}) ([]*models.Vendor, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []*models.Vendor{}
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "vendor", "", err)
		}
		vendors = append(vendors, vendor)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "vendor", "", err)
	}

	return vendors, nil
}
