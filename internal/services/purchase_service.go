package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// purchaseService implements the PurchaseService interface
type purchaseService struct {
	repos     repositories.RepositoryManager
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewPurchaseService creates a new purchase service instance
func NewPurchaseService(repos repositories.RepositoryManager, logger *logrus.Logger) PurchaseService {
	if logger == nil {
		logger = logrus.New()
	}
	return &purchaseService{
		repos:     repos,
		validator: NewValidator(),
		logger:    logger,
	}
}

// CreatePurchase validates, computes and saves a purchase invoice. The
// document discount is an absolute amount. Stock of stored products is
// received at the purchase rate.
func (s *purchaseService) CreatePurchase(ctx context.Context, req *CreatePurchaseRequest) (*models.Purchase, error) {
	if req == nil {
		return nil, fmt.Errorf("create purchase request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	vendorName := strings.TrimSpace(req.VendorName)
	if req.VendorID != nil {
		vendor, err := s.repos.Vendors().GetByID(ctx, *req.VendorID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, validationFailed("Vendor not found")
			}
			return nil, fmt.Errorf("failed to get vendor: %w", err)
		}
		if vendorName == "" {
			vendorName = vendor.Name
		}
	}

	var discount float64
	if req.Discount != nil {
		discount = *req.Discount
	}

	items, err := resolveItems(ctx, s.repos.Products(), req.Items, true)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].req.Unit != "" {
			continue
		}
		if details, ok := gst.GetProductDetails(items[i].product); ok {
			items[i].req.Unit = details.Unit
		}
	}

	input := gst.PurchaseInput{VendorName: vendorName, Discount: &discount}
	for _, item := range items {
		input.Items = append(input.Items, item.input())
	}

	result := documentEngine.ValidatePurchase(input)
	errs := result.Errors
	for i, item := range items {
		if item.req.Discount < 0 {
			errs = append(errs, fmt.Sprintf("Item %d: Discount cannot be negative", i+1))
		}
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	purchase := models.NewPurchase(vendorName)
	purchase.PurchaseDate = documentDate(req.PurchaseDate)
	purchase.VendorID = req.VendorID
	purchase.VendorInvoiceNumber = req.VendorInvoiceNumber
	purchase.Notes = req.Notes

	purchase.Items = make([]models.PurchaseItem, 0, len(items))
	for i, item := range items {
		line, err := gst.CalculatePurchaseTotals(item.product, item.req.Qty, item.req.Rate, item.req.Discount)
		if err != nil {
			return nil, validationFailed(fmt.Sprintf("Item %d: %v", i+1, err))
		}
		pi := models.NewPurchaseItem(purchase.ID, i+1, item.productID, line, *item.req.ExpiryDate)
		pi.BatchNumber = item.req.BatchNumber
		purchase.Items = append(purchase.Items, pi)
	}
	purchase.ApplyTotals(discount)

	next := func(_ context.Context, date time.Time) (string, error) {
		return gst.GeneratePurchaseNumber(date), nil
	}
	err = issueWithNumber(ctx, s.logger, next, purchase.PurchaseDate,
		func(number string) { purchase.PurchaseNumber = number },
		func(ctx context.Context) error {
			return s.repos.WithTransaction(ctx, func(ctx context.Context) error {
				if err := s.repos.Purchases().Create(ctx, purchase); err != nil {
					return err
				}
				return s.postPurchaseStock(ctx, purchase, false)
			})
		})
	if err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"purchase_id":     purchase.ID,
		"purchase_number": purchase.PurchaseNumber,
		"vendor":          purchase.VendorName,
		"total":           purchase.Total,
	}).Info("Purchase recorded")

	return purchase, nil
}

// postPurchaseStock receives the purchased stock. reverse issues it again.
func (s *purchaseService) postPurchaseStock(ctx context.Context, purchase *models.Purchase, reverse bool) error {
	for _, item := range purchase.Items {
		if item.ProductID == nil {
			continue
		}

		cost := decimal.NewFromFloat(item.Rate)
		expiry := item.ExpiryDate
		p := stockPosting{
			productID:       *item.ProductID,
			movementType:    models.MovementIn,
			reason:          models.ReasonPurchase,
			qty:             decimal.NewFromFloat(item.Qty),
			unitCost:        &cost,
			expiry:          &expiry,
			referenceID:     purchase.ID,
			referenceNumber: purchase.PurchaseNumber,
		}
		if item.BatchNumber != nil {
			p.notes = "batch " + *item.BatchNumber
		}
		if reverse {
			p.movementType = models.MovementOut
			p.reason = models.ReasonAdjustment
			p.unitCost = nil
			p.expiry = nil
			p.notes = "reversal of " + purchase.PurchaseNumber
		}

		if err := postStock(ctx, s.repos.Stock(), s.logger, p); err != nil {
			return err
		}
	}
	return nil
}

// GetPurchase retrieves a purchase with its items
func (s *purchaseService) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	if id == "" {
		return nil, fmt.Errorf("purchase ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid purchase ID format: %w", err)
	}

	purchase, err := s.repos.Purchases().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return purchase, nil
}

// GetPurchaseByNumber retrieves a purchase by its number
func (s *purchaseService) GetPurchaseByNumber(ctx context.Context, number string) (*models.Purchase, error) {
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("purchase number cannot be empty")
	}

	purchase, err := s.repos.Purchases().GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return purchase, nil
}

// ListPurchases retrieves purchase headers, newest first
func (s *purchaseService) ListPurchases(ctx context.Context, filters *DocumentFilters) (*PurchaseList, error) {
	filter := documentFilter(filters)

	purchases, err := s.repos.Purchases().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	total, err := s.repos.Purchases().Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count purchases: %w", err)
	}

	return &PurchaseList{
		Purchases:  purchases,
		Pagination: models.NewPaginationResult(int(total), filter.Limit, filter.Offset),
	}, nil
}

// DeletePurchase removes a purchase and issues its stock back out
func (s *purchaseService) DeletePurchase(ctx context.Context, id string) error {
	purchase, err := s.GetPurchase(ctx, id)
	if err != nil {
		return err
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Purchases().Delete(ctx, id); err != nil {
			return err
		}
		return s.postPurchaseStock(ctx, purchase, true)
	})
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	s.logger.WithField("purchase_number", purchase.PurchaseNumber).Info("Purchase deleted")
	return nil
}
