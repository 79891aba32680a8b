package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// stockService implements the StockService interface
type stockService struct {
	repos     repositories.RepositoryManager
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewStockService creates a new stock service instance
func NewStockService(repos repositories.RepositoryManager, logger *logrus.Logger) StockService {
	if logger == nil {
		logger = logrus.New()
	}
	return &stockService{
		repos:     repos,
		validator: NewValidator(),
		logger:    logger,
	}
}

// GetStockLevel returns the position of one product
func (s *stockService) GetStockLevel(ctx context.Context, productID string) (*models.StockLevel, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", err)
	}

	level, err := s.repos.Stock().GetLevel(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock level: %w", err)
	}

	return level, nil
}

// ListStockLevels returns the position of every active product
func (s *stockService) ListStockLevels(ctx context.Context) ([]*models.StockLevel, error) {
	levels, err := s.repos.Stock().ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock levels: %w", err)
	}

	return levels, nil
}

// GetLowStock returns the products at or below their reorder level
func (s *stockService) GetLowStock(ctx context.Context) ([]*models.StockLevel, error) {
	levels, err := s.ListStockLevels(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]*models.StockLevel, 0)
	for _, level := range levels {
		if level.BelowReorderLevel() {
			low = append(low, level)
		}
	}

	return low, nil
}

// GetMovements returns the ledger of one product, newest first
func (s *stockService) GetMovements(ctx context.Context, productID string, limit int) ([]*models.StockMovement, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", err)
	}

	if limit <= 0 {
		limit = 100
	}

	movements, err := s.repos.Stock().ListMovements(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}

	return movements, nil
}

// GetExpiringStock returns received batches that expire within the window.
// The quantity on hand is assumed to come from the newest receipts, so
// older batches are sold first and a batch that no stock remains from is
// left out. Receipts of deleted documents are ignored. Expired batches are
// included.
func (s *stockService) GetExpiringStock(ctx context.Context, within time.Duration) ([]*models.ExpiringStock, error) {
	if within <= 0 {
		within = models.DefaultExpiryWarningWindow
	}
	cutoff := time.Now().Add(within)

	receipts, err := s.repos.Stock().ListOpenReceipts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock receipts: %w", err)
	}

	levels, err := s.ListStockLevels(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*models.StockLevel, len(levels))
	remaining := make(map[string]decimal.Decimal, len(levels))
	for _, level := range levels {
		byProduct[level.ProductID] = level
		remaining[level.ProductID] = level.OnHand
	}

	var expiring []*models.ExpiringStock
	for _, m := range receipts {
		left := remaining[m.ProductID]
		if !left.IsPositive() {
			continue
		}
		qty := decimal.Min(m.Quantity, left)
		remaining[m.ProductID] = left.Sub(qty)

		if m.ExpiryDate == nil || !m.ExpiryDate.Before(cutoff) {
			continue
		}
		entry := &models.ExpiringStock{
			ProductID:   m.ProductID,
			ProductName: byProduct[m.ProductID].ProductName,
			Quantity:    qty,
			ExpiryDate:  *m.ExpiryDate,
		}
		if m.ReferenceNumber != nil {
			entry.ReferenceNumber = *m.ReferenceNumber
		}
		expiring = append(expiring, entry)
	}

	sort.SliceStable(expiring, func(a, b int) bool {
		return expiring[a].ExpiryDate.Before(expiring[b].ExpiryDate)
	})
	if expiring == nil {
		expiring = []*models.ExpiringStock{}
	}
	return expiring, nil
}

// AdjustStock records a manual correction. A positive quantity receives
// stock, a negative one issues it.
func (s *stockService) AdjustStock(ctx context.Context, req *AdjustStockRequest) (*models.StockLevel, error) {
	if req == nil {
		return nil, fmt.Errorf("adjust stock request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Quantity.IsZero() {
		return nil, validationFailed("Quantity must not be zero")
	}
	if req.UnitCost.IsNegative() {
		return nil, validationFailed("Unit cost cannot be negative")
	}

	p := stockPosting{
		productID:    req.ProductID,
		movementType: models.MovementIn,
		reason:       models.ReasonAdjustment,
		qty:          req.Quantity.Abs(),
		notes:        req.Reason,
	}
	if req.Quantity.IsNegative() {
		p.movementType = models.MovementOut
	} else if req.UnitCost.IsPositive() {
		cost := req.UnitCost
		p.unitCost = &cost
	}

	var level *models.StockLevel
	err := s.repos.WithTransaction(ctx, func(ctx context.Context) error {
		if err := postStock(ctx, s.repos.Stock(), s.logger, p); err != nil {
			return err
		}
		var err error
		level, err = s.repos.Stock().GetLevel(ctx, req.ProductID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"quantity":   req.Quantity.String(),
		"on_hand":    level.OnHand.String(),
	}).Info("Stock adjusted")

	return level, nil
}

// Valuation returns the weighted-average value of all stock on hand
func (s *stockService) Valuation(ctx context.Context) (decimal.Decimal, error) {
	levels, err := s.ListStockLevels(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, level := range levels {
		if level.OnHand.IsPositive() {
			total = total.Add(level.Value())
		}
	}

	return total, nil
}
