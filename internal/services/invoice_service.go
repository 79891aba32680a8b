package services

import (
	"context"
	"fmt"
	"strings"

	"gst-invoice-api/internal/adapters/storage"
	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// invoiceService implements the InvoiceService interface
type invoiceService struct {
	repos     repositories.RepositoryManager
	taxConfig models.TaxConfig
	files     storage.FileStorage
	settings  InvoiceSettings
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewInvoiceService creates a new invoice service instance
func NewInvoiceService(repos repositories.RepositoryManager, taxConfig models.TaxConfig, files storage.FileStorage, settings InvoiceSettings, logger *logrus.Logger) InvoiceService {
	if logger == nil {
		logger = logrus.New()
	}
	return &invoiceService{
		repos:     repos,
		taxConfig: taxConfig,
		files:     files,
		settings:  settings,
		validator: NewValidator(),
		logger:    logger,
	}
}

// CreateInvoice validates, computes and saves a sales invoice. Stock of
// stored products is issued in the same transaction.
func (s *invoiceService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	if req == nil {
		return nil, fmt.Errorf("create invoice request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customerName := strings.TrimSpace(req.CustomerName)
	customerGSTIN := normalizeGSTIN(req.CustomerGSTIN)
	placeOfSupply := req.PlaceOfSupply

	if req.CustomerID != nil {
		customer, err := s.repos.Customers().GetByID(ctx, *req.CustomerID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, validationFailed("Customer not found")
			}
			return nil, fmt.Errorf("failed to get customer: %w", err)
		}
		if customerName == "" {
			customerName = customer.Name
		}
		if customerGSTIN == nil {
			customerGSTIN = customer.GSTIN
		}
		if placeOfSupply == "" {
			placeOfSupply = customer.GetStateCode()
		}
	}
	if placeOfSupply == "" && customerGSTIN != nil {
		placeOfSupply = gst.StateCodeFromGSTIN(*customerGSTIN)
	}

	discount := s.settings.DiscountPercent
	if req.Discount != nil {
		discount = *req.Discount
	}

	items, err := resolveItems(ctx, s.repos.Products(), req.Items, false)
	if err != nil {
		return nil, err
	}

	input := gst.InvoiceInput{CustomerName: customerName, Discount: &discount}
	for _, item := range items {
		input.Items = append(input.Items, item.input())
	}

	result := documentEngine.ValidateInvoice(input)
	errs := result.Errors
	for i, item := range items {
		if item.stored != nil && !item.stored.IsActive() {
			errs = append(errs, fmt.Sprintf("Item %d: Product %s is inactive", i+1, item.stored.Name))
		}
	}
	if customerGSTIN != nil {
		if err := s.taxConfig.ValidateBusinessNumber(*customerGSTIN); err != nil {
			errs = append(errs, "Customer GSTIN is invalid")
		}
	}
	if len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	invoice := models.NewInvoice(models.InvoiceTypeSale, customerName)
	invoice.InvoiceDate = documentDate(req.InvoiceDate)
	invoice.CustomerID = req.CustomerID
	invoice.CustomerGSTIN = customerGSTIN
	invoice.PlaceOfSupply = placeOfSupply
	invoice.SupplyType = s.taxConfig.SupplyTypeFor(placeOfSupply)
	invoice.DiscountPercent = discount
	invoice.Notes = req.Notes

	if err := s.buildItems(invoice, items); err != nil {
		return nil, err
	}

	if err := s.issue(ctx, invoice, s.settings.CompanyCode); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"supply_type":    invoice.SupplyType,
		"total":          invoice.Total,
	}).Info("Sales invoice issued")

	return invoice, nil
}

// CreateReturn raises a sales return against an issued invoice. Lines must
// name products sold on that invoice, and the quantity returned across all
// returns may not exceed the quantity sold. Omitted rates and expiry dates
// are taken from the original line.
func (s *invoiceService) CreateReturn(ctx context.Context, req *CreateReturnRequest) (*models.Invoice, error) {
	if req == nil {
		return nil, fmt.Errorf("create return request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	original, err := s.repos.Invoices().GetByID(ctx, req.OriginalInvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get original invoice: %w", err)
	}
	if original.IsReturn() {
		return nil, validationFailed("A return cannot be raised against another return")
	}

	previous, err := s.repos.Invoices().GetReturns(ctx, original.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get previous returns: %w", err)
	}

	sold := make(map[string]models.InvoiceItem)
	remaining := make(map[string]float64)
	for _, line := range original.Items {
		key := strings.ToLower(line.ProductName)
		if _, seen := sold[key]; !seen {
			sold[key] = line
		}
		remaining[key] += line.Qty
	}
	for _, ret := range previous {
		for _, line := range ret.Items {
			remaining[strings.ToLower(line.ProductName)] -= line.Qty
		}
	}

	reqs := make([]DocumentItemRequest, len(req.Items))
	copy(reqs, req.Items)
	for i := range reqs {
		line, ok := sold[strings.ToLower(strings.TrimSpace(reqs[i].Product))]
		if !ok {
			continue
		}
		if reqs[i].ProductID == nil && line.ProductID != nil {
			reqs[i].ProductID = line.ProductID
		}
	}

	items, err := resolveItems(ctx, s.repos.Products(), reqs, false)
	if err != nil {
		return nil, err
	}

	var errs []string
	for i := range items {
		key := strings.ToLower(items[i].name())
		line, ok := sold[key]
		if !ok {
			if key != "" {
				errs = append(errs, fmt.Sprintf("Item %d: %s was not sold on invoice %s", i+1, items[i].name(), original.InvoiceNumber))
			}
			continue
		}
		if items[i].req.Rate == 0 {
			items[i].req.Rate = line.Rate
		}
		if items[i].req.ExpiryDate == nil {
			expiry := line.ExpiryDate
			items[i].req.ExpiryDate = &expiry
		}
		remaining[key] -= items[i].req.Qty
		if items[i].req.Qty > 0 && remaining[key] < -1e-9 {
			errs = append(errs, fmt.Sprintf("Item %d: return quantity exceeds the %g %s left to return", i+1,
				gst.Round2(remaining[key]+items[i].req.Qty), line.Unit))
		}
	}

	discount := original.DiscountPercent
	if req.Discount != nil {
		discount = *req.Discount
	}

	input := gst.InvoiceInput{CustomerName: original.CustomerName, Discount: &discount}
	for _, item := range items {
		input.Items = append(input.Items, item.input())
	}
	result := documentEngine.ValidateInvoice(input)
	errs = append(result.Errors, errs...)
	if len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	ret := models.NewInvoice(models.InvoiceTypeReturn, original.CustomerName)
	ret.InvoiceDate = documentDate(req.ReturnDate)
	ret.OriginalInvoiceID = &original.ID
	ret.CustomerID = original.CustomerID
	ret.CustomerGSTIN = original.CustomerGSTIN
	ret.PlaceOfSupply = original.PlaceOfSupply
	ret.SupplyType = original.SupplyType
	ret.DiscountPercent = discount
	ret.Notes = req.Notes

	if err := s.buildItems(ret, items); err != nil {
		return nil, err
	}

	if err := s.issue(ctx, ret, s.settings.ReturnCode); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id":      ret.ID,
		"invoice_number":  ret.InvoiceNumber,
		"original_number": original.InvoiceNumber,
		"total":           ret.Total,
	}).Info("Sales return issued")

	return ret, nil
}

// buildItems computes every line and the document totals. The header is
// validated by the repository once a number is assigned.
func (s *invoiceService) buildItems(invoice *models.Invoice, items []resolvedItem) error {
	invoice.Items = make([]models.InvoiceItem, 0, len(items))
	for i, item := range items {
		line, err := gst.CalculateItemTotals(item.product, item.req.Qty, item.req.Rate, item.req.ExpiryDate)
		if err != nil {
			return validationFailed(fmt.Sprintf("Item %d: %v", i+1, err))
		}
		invoice.Items = append(invoice.Items, models.NewInvoiceItem(invoice.ID, i+1, item.productID, line))
	}
	invoice.ApplyTotals()
	return nil
}

// issue numbers and saves the document together with its stock movements
func (s *invoiceService) issue(ctx context.Context, invoice *models.Invoice, prefix string) error {
	next := s.settings.Numbering.source(s.repos.Sequences(), prefix)

	err := issueWithNumber(ctx, s.logger, next, invoice.InvoiceDate,
		func(number string) { invoice.InvoiceNumber = number },
		func(ctx context.Context) error {
			return s.repos.WithTransaction(ctx, func(ctx context.Context) error {
				if err := s.repos.Invoices().Create(ctx, invoice); err != nil {
					return err
				}
				return s.postInvoiceStock(ctx, invoice, false)
			})
		})
	if err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// postInvoiceStock issues stock for a sale and receives it back for a
// return. reverse undoes a previous posting.
func (s *invoiceService) postInvoiceStock(ctx context.Context, invoice *models.Invoice, reverse bool) error {
	for _, item := range invoice.Items {
		if item.ProductID == nil {
			continue
		}

		inward := invoice.IsReturn() != reverse
		p := stockPosting{
			productID:       *item.ProductID,
			movementType:    models.MovementOut,
			reason:          models.ReasonSale,
			qty:             decimal.NewFromFloat(item.Qty),
			referenceID:     invoice.ID,
			referenceNumber: invoice.InvoiceNumber,
		}
		if inward {
			p.movementType = models.MovementIn
			expiry := item.ExpiryDate
			p.expiry = &expiry
		}
		switch {
		case reverse:
			p.reason = models.ReasonAdjustment
			p.notes = "reversal of " + invoice.InvoiceNumber
		case invoice.IsReturn():
			p.reason = models.ReasonReturn
		}

		if err := postStock(ctx, s.repos.Stock(), s.logger, p); err != nil {
			return err
		}
	}
	return nil
}

// GetInvoice retrieves an invoice with its items
func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	if id == "" {
		return nil, fmt.Errorf("invoice ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid invoice ID format: %w", err)
	}

	invoice, err := s.repos.Invoices().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its number
func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("invoice number cannot be empty")
	}

	invoice, err := s.repos.Invoices().GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// ListInvoices retrieves invoice headers, newest first
func (s *invoiceService) ListInvoices(ctx context.Context, filters *DocumentFilters) (*InvoiceList, error) {
	filter := documentFilter(filters)

	invoices, err := s.repos.Invoices().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	total, err := s.repos.Invoices().Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	return &InvoiceList{
		Invoices:   invoices,
		Pagination: models.NewPaginationResult(int(total), filter.Limit, filter.Offset),
	}, nil
}

// GetReturns retrieves the returns raised against an invoice
func (s *invoiceService) GetReturns(ctx context.Context, invoiceID string) ([]*models.Invoice, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}

	returns, err := s.repos.Invoices().GetReturns(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get returns: %w", err)
	}

	return returns, nil
}

// DeleteInvoice removes an invoice and reverses its stock movements. An
// invoice with returns against it cannot be deleted.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Invoices().Delete(ctx, id); err != nil {
			return err
		}
		return s.postInvoiceStock(ctx, invoice, true)
	})
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
	}).Info("Invoice deleted")

	return nil
}

// RenderPDF renders the invoice and stores it under its number. Rendering
// again replaces the archived copy.
func (s *invoiceService) RenderPDF(ctx context.Context, id string) (*RenderedDocument, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := renderInvoicePDF(invoice, s.settings)
	if err != nil {
		return nil, err
	}

	doc := &RenderedDocument{
		Key:         storage.InvoicePDFKey(invoice.InvoiceNumber),
		ContentType: storage.ContentTypePDF,
		Data:        data,
	}

	if s.files != nil {
		err = s.files.Store(ctx, doc.Key, data, &storage.StoreOptions{
			ContentType: doc.ContentType,
			Overwrite:   true,
			Metadata: map[string]string{
				"invoice_id":     invoice.ID,
				"invoice_number": invoice.InvoiceNumber,
				"invoice_type":   string(invoice.InvoiceType),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to store invoice PDF: %w", err)
		}
	}

	return doc, nil
}

func documentFilter(filters *DocumentFilters) repositories.DocumentFilter {
	var filter repositories.DocumentFilter
	if filters == nil {
		filters = &DocumentFilters{}
	}
	if filters.Type != nil {
		filter.InvoiceType = *filters.Type
	}
	if filters.PartyID != nil {
		filter.PartyID = *filters.PartyID
	}
	filter.StartDate = filters.StartDate
	if filters.EndDate != nil {
		end := inclusiveEnd(*filters.EndDate)
		filter.EndDate = &end
	}
	filter.Limit, filter.Offset = pageLimits(filters.Limit, filters.Offset)
	return filter
}
