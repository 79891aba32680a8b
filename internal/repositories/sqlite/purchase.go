package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const purchaseColumns = `id, purchase_number, vendor_id, vendor_name, vendor_invoice_number, purchase_date,
	taxable_amount, gst_amount, total_invoice_value, discount, total, notes, created_at`

const purchaseItemColumns = `id, purchase_id, line_number, product_id, product_name, hsn_code, unit,
	qty, rate, gst_rate, taxable_value, gst, invoice_value, discount, total, expiry_date, batch_number`

// PurchaseRepository implements the PurchaseRepository interface for SQLite
type PurchaseRepository struct {
	*BaseRepository[models.Purchase]
}

// NewPurchaseRepository creates a new SQLite purchase repository
func NewPurchaseRepository(db *sql.DB, logger *logrus.Logger) repositories.PurchaseRepository {
	return &PurchaseRepository{
		BaseRepository: NewBaseRepository[models.Purchase](db, "purchases", logger),
	}
}

func scanPurchase(s rowScanner) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := s.Scan(
		&p.ID,
		&p.PurchaseNumber,
		&p.VendorID,
		&p.VendorName,
		&p.VendorInvoiceNumber,
		&p.PurchaseDate,
		&p.TaxableAmount,
		&p.GSTAmount,
		&p.TotalInvoiceValue,
		&p.Discount,
		&p.Total,
		&p.Notes,
		&p.CreatedAt,
	)
	return p, err
}

func scanPurchaseItem(s rowScanner) (models.PurchaseItem, error) {
	var item models.PurchaseItem
	err := s.Scan(
		&item.ID,
		&item.PurchaseID,
		&item.LineNumber,
		&item.ProductID,
		&item.ProductName,
		&item.HSNCode,
		&item.Unit,
		&item.Qty,
		&item.Rate,
		&item.GSTRate,
		&item.TaxableValue,
		&item.GST,
		&item.InvoiceValue,
		&item.Discount,
		&item.Total,
		&item.ExpiryDate,
		&item.BatchNumber,
	)
	return item, err
}

// Create inserts the purchase and its items in one transaction. A taken
// purchase number yields a duplicate error.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if err := purchase.Validate(); err != nil {
		return repositories.ValidationError("purchase", purchase.ID, err)
	}

	return r.inTx(ctx, "create", func(ctx context.Context) error {
		query := `INSERT INTO purchases (` + purchaseColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := r.executeExec(ctx, "create", query,
			purchase.ID,
			purchase.PurchaseNumber,
			purchase.VendorID,
			purchase.VendorName,
			purchase.VendorInvoiceNumber,
			purchase.PurchaseDate.UTC(),
			purchase.TaxableAmount,
			purchase.GSTAmount,
			purchase.TotalInvoiceValue,
			purchase.Discount,
			purchase.Total,
			purchase.Notes,
			purchase.CreatedAt.UTC(),
		)
		if err != nil {
			if repositories.IsUniqueViolation(err) {
				return repositories.DuplicateError("purchase", "number", purchase.PurchaseNumber)
			}
			if repositories.IsForeignKeyViolation(err) {
				return repositories.ConstraintError("purchase", "vendor", err)
			}
			return err
		}

		itemQuery := `INSERT INTO purchase_items (` + purchaseItemColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		for _, item := range purchase.Items {
			_, err := r.executeExec(ctx, "create_item", itemQuery,
				item.ID,
				purchase.ID,
				item.LineNumber,
				item.ProductID,
				item.ProductName,
				item.HSNCode,
				item.Unit,
				item.Qty,
				item.Rate,
				item.GSTRate,
				item.TaxableValue,
				item.GST,
				item.InvoiceValue,
				item.Discount,
				item.Total,
				item.ExpiryDate.UTC(),
				item.BatchNumber,
			)
			if err != nil {
				if repositories.IsForeignKeyViolation(err) {
					return repositories.ConstraintError("purchase_item", "product", err)
				}
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a purchase with its items and breakdown
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*models.Purchase, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = ?`
	p, err := scanPurchase(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("purchase", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "purchase", id, err)
	}

	return p, r.loadItems(ctx, p)
}

// GetByNumber retrieves a purchase with its items by purchase number
func (r *PurchaseRepository) GetByNumber(ctx context.Context, number string) (*models.Purchase, error) {
	if strings.TrimSpace(number) == "" {
		return nil, repositories.NewRepositoryError("get_by_number", "purchase", "", repositories.ErrInvalidID)
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_number = ?`
	p, err := scanPurchase(r.executeQueryRow(ctx, "get_by_number", query, number))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundByError("purchase", "number", number)
		}
		return nil, repositories.NewRepositoryError("get_by_number", "purchase", number, err)
	}

	return p, r.loadItems(ctx, p)
}

// List retrieves purchase headers, newest first
func (r *PurchaseRepository) List(ctx context.Context, filter repositories.DocumentFilter) ([]*models.Purchase, error) {
	filter.InvoiceType = ""
	where, args := documentWhere(filter, "purchase_date", "vendor_id")
	query := `SELECT ` + purchaseColumns + ` FROM purchases` + where +
		` ORDER BY purchase_date DESC, purchase_number DESC` + pageClause(filter.Limit, filter.Offset)

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := []*models.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", "purchase", "", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "purchase", "", err)
	}
	return purchases, nil
}

// Count returns the number of purchases matching the filter
func (r *PurchaseRepository) Count(ctx context.Context, filter repositories.DocumentFilter) (int64, error) {
	filter.InvoiceType = ""
	where, args := documentWhere(filter, "purchase_date", "vendor_id")

	var count int64
	if err := r.executeQueryRow(ctx, "count", "SELECT COUNT(*) FROM purchases"+where, args...).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "purchase", "", err)
	}
	return count, nil
}

// GetItemsByDateRange retrieves items of purchases dated within [start, end]
func (r *PurchaseRepository) GetItemsByDateRange(ctx context.Context, start, end time.Time) ([]models.PurchaseItem, error) {
	query := `SELECT ` + prefixColumns("pi", purchaseItemColumns) + `
		FROM purchase_items pi
		JOIN purchases p ON p.id = pi.purchase_id
		WHERE p.purchase_date >= ? AND p.purchase_date <= ?
		ORDER BY p.purchase_date, p.purchase_number, pi.line_number`

	rows, err := r.executeQuery(ctx, "items_by_date_range", query, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.PurchaseItem{}
	for rows.Next() {
		item, err := scanPurchaseItem(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("items_by_date_range", "purchase", "", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("items_by_date_range", "purchase", "", err)
	}
	return items, nil
}

// Delete removes a purchase; its items go with it
func (r *PurchaseRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM purchases WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

func (r *PurchaseRepository) loadItems(ctx context.Context, p *models.Purchase) error {
	query := `SELECT ` + purchaseItemColumns + ` FROM purchase_items WHERE purchase_id = ? ORDER BY line_number`

	rows, err := r.executeQuery(ctx, "get_items", query, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Items = []models.PurchaseItem{}
	for rows.Next() {
		item, err := scanPurchaseItem(rows)
		if err != nil {
			return repositories.NewRepositoryError("get_items", "purchase", p.ID, err)
		}
		p.Items = append(p.Items, item)
	}
	if err := rows.Err(); err != nil {
		return repositories.NewRepositoryError("get_items", "purchase", p.ID, err)
	}

	p.RebuildBreakdown()
	return nil
}
