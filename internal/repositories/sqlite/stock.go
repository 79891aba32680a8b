package sqlite

import (
	"context"
	"database/sql"
	"time"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const movementColumns = `id, product_id, movement_type, reason, quantity, unit_cost,
	reference_id, reference_number, expiry_date, notes, created_at`

// Quantities and costs are stored as decimal text so that repeated weighted
// averaging does not accumulate float error.

// StockRepository implements the StockRepository interface for SQLite
type StockRepository struct {
	*BaseRepository[models.StockMovement]
}

// NewStockRepository creates a new SQLite stock repository
func NewStockRepository(db *sql.DB, logger *logrus.Logger) repositories.StockRepository {
	return &StockRepository{
		BaseRepository: NewBaseRepository[models.StockMovement](db, "stock_movements", logger),
	}
}

func scanMovement(s rowScanner) (*models.StockMovement, error) {
	m := &models.StockMovement{}
	err := s.Scan(
		&m.ID,
		&m.ProductID,
		&m.MovementType,
		&m.Reason,
		&m.Quantity,
		&m.UnitCost,
		&m.ReferenceID,
		&m.ReferenceNumber,
		&m.ExpiryDate,
		&m.Notes,
		&m.CreatedAt,
	)
	return m, err
}

// RecordMovement appends a movement to the ledger
func (r *StockRepository) RecordMovement(ctx context.Context, movement *models.StockMovement) error {
	if err := movement.Validate(); err != nil {
		return repositories.ValidationError("stock_movement", movement.ID, err)
	}

	var expiry interface{}
	if movement.ExpiryDate != nil {
		expiry = movement.ExpiryDate.UTC()
	}

	query := `INSERT INTO stock_movements (` + movementColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "record_movement", query,
		movement.ID,
		movement.ProductID,
		movement.MovementType,
		movement.Reason,
		movement.Quantity.String(),
		movement.UnitCost.String(),
		movement.ReferenceID,
		movement.ReferenceNumber,
		expiry,
		movement.Notes,
		movement.CreatedAt.UTC(),
	)
	if err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return repositories.ConstraintError("stock_movement", "product", err)
		}
		return err
	}
	return nil
}

// GetLevel returns the position of a product. A product that has never
// moved yields a zero level.
func (r *StockRepository) GetLevel(ctx context.Context, productID string) (*models.StockLevel, error) {
	if err := r.validateID(productID); err != nil {
		return nil, err
	}

	query := `
		SELECT p.id, p.name, p.unit, COALESCE(s.qty_on_hand, '0'), COALESCE(s.unit_cost, '0'),
			   p.reorder_level, s.updated_at, p.updated_at
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		WHERE p.id = ?`

	level, err := scanLevel(r.executeQueryRow(ctx, "get_level", query, productID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", productID)
		}
		return nil, repositories.NewRepositoryError("get_level", "stock_level", productID, err)
	}
	return level, nil
}

// SaveLevel upserts the position of a product
func (r *StockRepository) SaveLevel(ctx context.Context, level *models.StockLevel) error {
	if err := r.validateID(level.ProductID); err != nil {
		return err
	}

	level.UpdatedAt = time.Now()
	query := `
		INSERT INTO stock_levels (product_id, qty_on_hand, unit_cost, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET
			qty_on_hand = excluded.qty_on_hand,
			unit_cost = excluded.unit_cost,
			updated_at = excluded.updated_at`

	_, err := r.executeExec(ctx, "save_level", query,
		level.ProductID,
		level.OnHand.String(),
		level.AverageCost.String(),
		level.UpdatedAt.UTC(),
	)
	if err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return repositories.ConstraintError("stock_level", "product", err)
		}
		return err
	}
	return nil
}

// ListLevels returns the position of every active product, by name
func (r *StockRepository) ListLevels(ctx context.Context) ([]*models.StockLevel, error) {
	query := `
		SELECT p.id, p.name, p.unit, COALESCE(s.qty_on_hand, '0'), COALESCE(s.unit_cost, '0'),
			   p.reorder_level, s.updated_at, p.updated_at
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		WHERE p.active = 1
		ORDER BY p.name COLLATE NOCASE`

	rows, err := r.executeQuery(ctx, "list_levels", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := []*models.StockLevel{}
	for rows.Next() {
		level, err := scanLevel(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list_levels", "stock_level", "", err)
		}
		levels = append(levels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list_levels", "stock_level", "", err)
	}
	return levels, nil
}

// ListMovements returns the newest movements of a product first
func (r *StockRepository) ListMovements(ctx context.Context, productID string, limit int) ([]*models.StockMovement, error) {
	if err := r.validateID(productID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE product_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	return r.queryMovements(ctx, "list_movements", query, productID, limit)
}

// ListOpenReceipts returns the inward movements that were not reversed by a
// document deletion, newest first within each product
func (r *StockRepository) ListOpenReceipts(ctx context.Context) ([]*models.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE movement_type = ?
		AND NOT EXISTS (
			SELECT 1 FROM stock_movements rev
			WHERE rev.reference_id = stock_movements.reference_id
			AND rev.product_id = stock_movements.product_id
			AND rev.movement_type = ? AND rev.reason = ?
		)
		ORDER BY product_id, created_at DESC, rowid DESC`

	return r.queryMovements(ctx, "list_open_receipts", query,
		models.MovementIn, models.MovementOut, models.ReasonAdjustment)
}

// SumQuantity totals the ledger of a product, receipts positive
func (r *StockRepository) SumQuantity(ctx context.Context, productID string) (decimal.Decimal, error) {
	movements, err := r.queryMovements(ctx, "sum_quantity",
		`SELECT `+movementColumns+` FROM stock_movements WHERE product_id = ?`, productID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.SignedQuantity())
	}
	return total, nil
}

func (r *StockRepository) queryMovements(ctx context.Context, operation, query string, args ...interface{}) ([]*models.StockMovement, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []*models.StockMovement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, "stock_movement", "", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, "stock_movement", "", err)
	}
	return movements, nil
}

func scanLevel(s rowScanner) (*models.StockLevel, error) {
	level := &models.StockLevel{}
	var reorder float64
	var movedAt sql.NullTime
	var productUpdatedAt time.Time
	err := s.Scan(
		&level.ProductID,
		&level.ProductName,
		&level.Unit,
		&level.OnHand,
		&level.AverageCost,
		&reorder,
		&movedAt,
		&productUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	level.ReorderLevel = decimal.NewFromFloat(reorder)
	level.UpdatedAt = productUpdatedAt
	if movedAt.Valid {
		level.UpdatedAt = movedAt.Time
	}
	return level, nil
}
