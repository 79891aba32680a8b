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

const invoiceColumns = `id, invoice_number, invoice_type, original_invoice_id, customer_id, customer_name,
	customer_gstin, invoice_date, supply_type, place_of_supply, discount_percent, taxable_amount,
	gst_amount, cgst, sgst, igst, total_invoice_value, discount, total, notes, created_at`

const invoiceItemColumns = `id, invoice_id, line_number, product_id, product_name, hsn_code, unit,
	qty, rate, gst_rate, taxable_value, gst, invoice_value, expiry_date`

// InvoiceRepository implements the InvoiceRepository interface for SQLite
type InvoiceRepository struct {
	*BaseRepository[models.Invoice]
}

// NewInvoiceRepository creates a new SQLite invoice repository
func NewInvoiceRepository(db *sql.DB, logger *logrus.Logger) repositories.InvoiceRepository {
	return &InvoiceRepository{
		BaseRepository: NewBaseRepository[models.Invoice](db, "invoices", logger),
	}
}

func scanInvoice(s rowScanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := s.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.InvoiceType,
		&inv.OriginalInvoiceID,
		&inv.CustomerID,
		&inv.CustomerName,
		&inv.CustomerGSTIN,
		&inv.InvoiceDate,
		&inv.SupplyType,
		&inv.PlaceOfSupply,
		&inv.DiscountPercent,
		&inv.TaxableAmount,
		&inv.GSTAmount,
		&inv.CGST,
		&inv.SGST,
		&inv.IGST,
		&inv.TotalInvoiceValue,
		&inv.Discount,
		&inv.Total,
		&inv.Notes,
		&inv.CreatedAt,
	)
	return inv, err
}

func scanInvoiceItem(s rowScanner) (models.InvoiceItem, error) {
	var item models.InvoiceItem
	err := s.Scan(
		&item.ID,
		&item.InvoiceID,
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
		&item.ExpiryDate,
	)
	return item, err
}

// Create inserts the invoice and its items in one transaction. A taken
// invoice number yields a duplicate error.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return repositories.ValidationError("invoice", invoice.ID, err)
	}

	return r.inTx(ctx, "create", func(ctx context.Context) error {
		query := `INSERT INTO invoices (` + invoiceColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := r.executeExec(ctx, "create", query,
			invoice.ID,
			invoice.InvoiceNumber,
			invoice.InvoiceType,
			invoice.OriginalInvoiceID,
			invoice.CustomerID,
			invoice.CustomerName,
			invoice.CustomerGSTIN,
			invoice.InvoiceDate.UTC(),
			invoice.SupplyType,
			invoice.PlaceOfSupply,
			invoice.DiscountPercent,
			invoice.TaxableAmount,
			invoice.GSTAmount,
			invoice.CGST,
			invoice.SGST,
			invoice.IGST,
			invoice.TotalInvoiceValue,
			invoice.Discount,
			invoice.Total,
			invoice.Notes,
			invoice.CreatedAt.UTC(),
		)
		if err != nil {
			if repositories.IsUniqueViolation(err) {
				return repositories.DuplicateError("invoice", "number", invoice.InvoiceNumber)
			}
			if repositories.IsForeignKeyViolation(err) {
				return repositories.ConstraintError("invoice", "foreign key", err)
			}
			return err
		}

		itemQuery := `INSERT INTO invoice_items (` + invoiceItemColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		for _, item := range invoice.Items {
			_, err := r.executeExec(ctx, "create_item", itemQuery,
				item.ID,
				invoice.ID,
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
				item.ExpiryDate.UTC(),
			)
			if err != nil {
				if repositories.IsForeignKeyViolation(err) {
					return repositories.ConstraintError("invoice_item", "product", err)
				}
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves an invoice with its items and breakdown
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	inv, err := scanInvoice(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("invoice", id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", "invoice", id, err)
	}

	return inv, r.loadItems(ctx, inv)
}

// GetByNumber retrieves an invoice with its items by invoice number
func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, repositories.NewRepositoryError("get_by_number", "invoice", "", repositories.ErrInvalidID)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = ?`
	inv, err := scanInvoice(r.executeQueryRow(ctx, "get_by_number", query, number))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundByError("invoice", "number", number)
		}
		return nil, repositories.NewRepositoryError("get_by_number", "invoice", number, err)
	}

	return inv, r.loadItems(ctx, inv)
}

// List retrieves invoice headers, newest first
func (r *InvoiceRepository) List(ctx context.Context, filter repositories.DocumentFilter) ([]*models.Invoice, error) {
	where, args := documentWhere(filter, "invoice_date", "customer_id")
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		` ORDER BY invoice_date DESC, invoice_number DESC` + pageClause(filter.Limit, filter.Offset)

	return r.queryInvoices(ctx, "list", query, args...)
}

// Count returns the number of invoices matching the filter
func (r *InvoiceRepository) Count(ctx context.Context, filter repositories.DocumentFilter) (int64, error) {
	where, args := documentWhere(filter, "invoice_date", "customer_id")

	var count int64
	if err := r.executeQueryRow(ctx, "count", "SELECT COUNT(*) FROM invoices"+where, args...).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", "invoice", "", err)
	}
	return count, nil
}

// GetReturns retrieves the returns raised against an invoice
func (r *InvoiceRepository) GetReturns(ctx context.Context, originalInvoiceID string) ([]*models.Invoice, error) {
	if err := r.validateID(originalInvoiceID); err != nil {
		return nil, err
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE invoice_type = ? AND original_invoice_id = ?
		ORDER BY invoice_date, invoice_number`

	invoices, err := r.queryInvoices(ctx, "get_returns", query, models.InvoiceTypeReturn, originalInvoiceID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// GetItemsByDateRange retrieves items of invoices of one type dated within
// [start, end]
func (r *InvoiceRepository) GetItemsByDateRange(ctx context.Context, invoiceType models.InvoiceType, start, end time.Time) ([]models.InvoiceItem, error) {
	query := `SELECT ` + prefixColumns("ii", invoiceItemColumns) + `
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.invoice_type = ? AND i.invoice_date >= ? AND i.invoice_date <= ?
		ORDER BY i.invoice_date, i.invoice_number, ii.line_number`

	rows, err := r.executeQuery(ctx, "items_by_date_range", query, invoiceType, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.InvoiceItem{}
	for rows.Next() {
		item, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("items_by_date_range", "invoice", "", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("items_by_date_range", "invoice", "", err)
	}
	return items, nil
}

// Delete removes an invoice; its items go with it. An invoice with returns
// raised against it is refused.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return repositories.ConstraintError("invoice", "returns", err)
		}
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

func (r *InvoiceRepository) loadItems(ctx context.Context, inv *models.Invoice) error {
	query := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = ? ORDER BY line_number`

	rows, err := r.executeQuery(ctx, "get_items", query, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	inv.Items = []models.InvoiceItem{}
	for rows.Next() {
		item, err := scanInvoiceItem(rows)
		if err != nil {
			return repositories.NewRepositoryError("get_items", "invoice", inv.ID, err)
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return repositories.NewRepositoryError("get_items", "invoice", inv.ID, err)
	}

	inv.RebuildBreakdown()
	return nil
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, operation, query string, args ...interface{}) ([]*models.Invoice, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "invoice", "", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "invoice", "", err)
	}
	return invoices, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
