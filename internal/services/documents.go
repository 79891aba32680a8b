package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// NumberingMode selects how sales document numbers are drawn
type NumberingMode string

const (
	// NumberingSequence gives CODE-YYYY-MM-DD-NNN from a per-day counter
	NumberingSequence NumberingMode = "sequence"
	// NumberingUnique gives CODE-YYYY-MM-DD-XXXXXXXX with a random suffix
	NumberingUnique NumberingMode = "unique"
)

// InvoiceSettings identifies the seller on issued documents
type InvoiceSettings struct {
	CompanyCode     string
	CompanyName     string
	CompanyGSTIN    string
	CompanyAddress  string
	ReturnCode      string
	Numbering       NumberingMode
	DiscountPercent float64
}

// DefaultInvoiceSettings returns the settings used when none are configured
func DefaultInvoiceSettings() InvoiceSettings {
	return InvoiceSettings{
		CompanyCode:     "INV",
		CompanyName:     "GST Invoice",
		ReturnCode:      "RET",
		Numbering:       NumberingSequence,
		DiscountPercent: gst.DefaultDiscountPercent,
	}
}

// documentEngine accepts stored products as well as catalog names on every
// document type
var documentEngine = gst.Validator{
	SalesProducts:    gst.PassthroughResolver{},
	PurchaseProducts: gst.PassthroughResolver{},
}

// resolvedItem is a request line with its product looked up
type resolvedItem struct {
	req       DocumentItemRequest
	product   any
	productID *string
	stored    *models.Product
}

func (r resolvedItem) input() gst.ItemInput {
	return gst.ItemInput{
		Product:    r.product,
		Qty:        r.req.Qty,
		Rate:       r.req.Rate,
		Unit:       r.req.Unit,
		ExpiryDate: r.req.ExpiryDate,
	}
}

// name returns the resolved product name, or the raw reference
func (r resolvedItem) name() string {
	if details, ok := gst.GetProductDetails(r.product); ok {
		return details.Name
	}
	if r.req.Product != "" {
		return r.req.Product
	}
	if r.req.ProductID != nil {
		return *r.req.ProductID
	}
	return ""
}

// resolveItem looks a line's product up by ID, then by stored name, then in
// the catalog. An unknown reference is returned as is so the engine reports
// it. allowAdHoc lets a purchase line describe a product with its own GST
// rate.
func resolveItem(ctx context.Context, products repositories.ProductRepository, req DocumentItemRequest, allowAdHoc bool) (resolvedItem, error) {
	item := resolvedItem{req: req}

	if req.ProductID != nil && *req.ProductID != "" {
		product, err := products.GetByID(ctx, *req.ProductID)
		if err != nil {
			if repositories.IsNotFound(err) || errors.Is(err, repositories.ErrInvalidID) {
				item.product = *req.ProductID
				return item, nil
			}
			return item, fmt.Errorf("failed to resolve product %s: %w", *req.ProductID, err)
		}
		item.product, item.productID, item.stored = product, &product.ID, product
		return item, nil
	}

	name := strings.TrimSpace(req.Product)
	if name == "" {
		return item, nil
	}

	product, err := products.GetByName(ctx, name)
	switch {
	case err == nil:
		item.product, item.productID, item.stored = product, &product.ID, product
		return item, nil
	case !repositories.IsNotFound(err):
		return item, fmt.Errorf("failed to resolve product %s: %w", name, err)
	}

	if _, ok := gst.GetProductDetails(name); !ok && allowAdHoc && req.GSTRate != nil {
		item.product = gst.ProductDetails{
			Name:    name,
			Rate:    req.Rate,
			GSTRate: *req.GSTRate,
			Unit:    req.Unit,
			HSNCode: req.HSNCode,
		}
		return item, nil
	}

	item.product = name
	return item, nil
}

func resolveItems(ctx context.Context, products repositories.ProductRepository, reqs []DocumentItemRequest, allowAdHoc bool) ([]resolvedItem, error) {
	items := make([]resolvedItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := resolveItem(ctx, products, req, allowAdHoc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// numberSource draws candidate numbers for one kind of document
type numberSource func(ctx context.Context, date time.Time) (string, error)

func (s NumberingMode) source(sequences repositories.SequenceRepository, prefix string) numberSource {
	if s == NumberingUnique {
		return func(_ context.Context, date time.Time) (string, error) {
			return gst.GenerateUniqueInvoiceNumber(prefix, date), nil
		}
	}
	return func(ctx context.Context, date time.Time) (string, error) {
		seq, err := sequences.Next(ctx, prefix, date)
		if err != nil {
			return "", fmt.Errorf("failed to allocate document number: %w", err)
		}
		return gst.GenerateInvoiceNumber(prefix, date, seq), nil
	}
}

// issueWithNumber assigns a number and saves the document, drawing a new
// number when the previous one is already taken
func issueWithNumber(ctx context.Context, logger *logrus.Logger, next numberSource, date time.Time, assign func(string), save func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		var number string
		number, err = next(ctx, date)
		if err != nil {
			return err
		}
		assign(number)

		err = save(ctx)
		if err == nil || !repositories.IsDuplicate(err) {
			return err
		}
		logger.WithFields(logrus.Fields{
			"number":  number,
			"attempt": attempt,
		}).Warn("Document number collision, drawing a new number")
	}
	return err
}

// stockPosting is one change to a product's stock caused by a document
type stockPosting struct {
	productID    string
	movementType models.MovementType
	reason       models.MovementReason
	qty          decimal.Decimal
	// unitCost is used for receipts; nil keeps the current average cost
	unitCost        *decimal.Decimal
	expiry          *time.Time
	referenceID     string
	referenceNumber string
	notes           string
}

// postStock records the movement and updates the level. It must run inside
// the document's transaction.
func postStock(ctx context.Context, stock repositories.StockRepository, logger *logrus.Logger, p stockPosting) error {
	level, err := stock.GetLevel(ctx, p.productID)
	if err != nil {
		return fmt.Errorf("failed to get stock level: %w", err)
	}

	cost := level.AverageCost
	if p.unitCost != nil {
		cost = *p.unitCost
	}

	movement := models.NewStockMovement(p.productID, p.movementType, p.reason, p.qty, cost)
	movement.ExpiryDate = p.expiry
	if p.referenceID != "" {
		movement.ReferenceID = &p.referenceID
	}
	if p.referenceNumber != "" {
		movement.ReferenceNumber = &p.referenceNumber
	}
	if p.notes != "" {
		movement.Notes = &p.notes
	}

	if err := stock.RecordMovement(ctx, movement); err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}

	if p.movementType == models.MovementIn {
		level.Receive(p.qty, cost)
	} else {
		level.Issue(p.qty)
		if level.OnHand.IsNegative() {
			logger.WithFields(logrus.Fields{
				"product_id": p.productID,
				"on_hand":    level.OnHand.String(),
				"reference":  p.referenceNumber,
			}).Warn("Stock on hand is negative")
		}
	}

	if err := stock.SaveLevel(ctx, level); err != nil {
		return fmt.Errorf("failed to save stock level: %w", err)
	}
	return nil
}

// documentDate returns the requested date or now
func documentDate(date *time.Time) time.Time {
	if date == nil || date.IsZero() {
		return time.Now()
	}
	return *date
}

func pageLimits(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
