package services

import (
	"fmt"
	"strings"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"

	"github.com/go-playground/validator/v10"
)

// TaxService handles GST calculations that do not touch storage
type TaxService struct {
	config    models.TaxConfig
	discount  float64
	validator *validator.Validate
}

// NewTaxService creates a new tax service with the specified configuration.
// defaultDiscount is the sales discount percent used when a request omits one.
func NewTaxService(config models.TaxConfig, defaultDiscount float64) *TaxService {
	return &TaxService{
		config:    config,
		discount:  defaultDiscount,
		validator: NewValidator(),
	}
}

// NewTaxServiceForCountry creates a new tax service for the specified country
func NewTaxServiceForCountry(countryCode, sellerStateCode string) (*TaxService, error) {
	config, err := models.NewTaxConfig(countryCode, sellerStateCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create tax config for country %s: %w", countryCode, err)
	}

	return NewTaxService(config, gst.DefaultDiscountPercent), nil
}

// GetTaxInfo returns general tax information for the current configuration
func (s *TaxService) GetTaxInfo() *TaxInfo {
	info := &TaxInfo{
		TaxName:               s.config.GetTaxName(),
		CountryCode:           s.config.GetCountryCode(),
		Currency:              s.config.GetCurrency(),
		Rates:                 s.config.GetRates(),
		RegistrationThreshold: s.config.GetRegistrationThreshold(),
		SellerStateCode:       s.config.GetSellerStateCode(),
		RequiredInvoiceFields: s.config.GetRequiredTaxInvoiceFields(),
	}
	if name, ok := models.StateName(info.SellerStateCode); ok {
		info.SellerState = name
	}
	return info
}

// ValidateGSTIN validates a GSTIN using the current tax configuration
func (s *TaxService) ValidateGSTIN(gstin string) error {
	if strings.TrimSpace(gstin) == "" {
		return fmt.Errorf("GSTIN cannot be empty")
	}
	return s.config.ValidateBusinessNumber(gstin)
}

// CalculateItem computes one sales line
func (s *TaxService) CalculateItem(req *CalculateItemRequest) (*gst.LineItem, error) {
	if req == nil {
		return nil, fmt.Errorf("calculate item request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	line, err := gst.CalculateItemTotals(req.Product, req.Qty, req.Rate, req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CalculatePurchaseItem computes one purchase line. Products outside the
// catalog need an explicit GST rate.
func (s *TaxService) CalculatePurchaseItem(req *CalculatePurchaseItemRequest) (*gst.PurchaseLineTotals, error) {
	if req == nil {
		return nil, fmt.Errorf("calculate purchase item request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	line, err := gst.CalculatePurchaseTotals(purchaseProduct(req), req.Qty, req.Rate, req.Discount)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CalculateInvoice previews a sales document without saving it
func (s *TaxService) CalculateInvoice(req *CalculateInvoiceRequest) (*InvoiceCalculation, error) {
	if req == nil {
		return nil, fmt.Errorf("calculate invoice request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	items := make([]gst.LineItem, 0, len(req.Items))
	for i, item := range req.Items {
		line, err := gst.CalculateItemTotals(item.Product, item.Qty, item.Rate, item.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, line)
	}

	discount := s.discount
	if req.Discount != nil {
		discount = *req.Discount
	}

	buyerState := req.BuyerStateCode
	if buyerState == "" {
		buyerState = gst.StateCodeFromGSTIN(strings.ToUpper(req.BuyerGSTIN))
	}

	calc := &InvoiceCalculation{
		Items:      items,
		SupplyType: s.config.SupplyTypeFor(buyerState),
		Totals:     gst.CalculateInvoiceTotals(items, discount),
		Breakdown:  gst.GetGSTBreakdown(items),
	}
	calc.TaxableAmount, calc.GSTAmount = sumLines(items)
	calc.Split = gst.SplitTax(calc.GSTAmount, calc.SupplyType)
	return calc, nil
}

// CalculatePurchase previews a purchase document without saving it
func (s *TaxService) CalculatePurchase(req *CalculatePurchaseRequest) (*PurchaseCalculation, error) {
	if req == nil {
		return nil, fmt.Errorf("calculate purchase request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	lines := make([]gst.PurchaseLineTotals, 0, len(req.Items))
	for i := range req.Items {
		item := &req.Items[i]
		line, err := gst.CalculatePurchaseTotals(purchaseProduct(item), item.Qty, item.Rate, item.Discount)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}

	items := gst.PurchaseLineItems(lines)
	calc := &PurchaseCalculation{
		Items:     lines,
		Totals:    gst.CalculatePurchaseInvoiceTotals(lines, gst.Absolute(req.Discount)),
		Breakdown: gst.GetGSTBreakdown(items),
	}
	calc.TaxableAmount, calc.GSTAmount = sumLines(items)
	return calc, nil
}

// Breakdown groups computed lines by GST rate
func (s *TaxService) Breakdown(items []gst.LineItem) *gst.Breakdown {
	return gst.GetGSTBreakdown(items)
}

// ValidateInvoice checks sales input against the built-in catalog
func (s *TaxService) ValidateInvoice(input gst.InvoiceInput) gst.ValidationResult {
	return gst.ValidateInvoiceData(input)
}

// ValidatePurchase checks purchase input
func (s *TaxService) ValidatePurchase(input gst.PurchaseInput) gst.ValidationResult {
	return gst.ValidatePurchaseData(input)
}

// purchaseProduct prefers the catalog entry and otherwise builds ad-hoc
// details from the request.
func purchaseProduct(req *CalculatePurchaseItemRequest) any {
	if details, ok := gst.GetProductDetails(req.Product); ok {
		return *details
	}
	if req.GSTRate == nil {
		return req.Product
	}
	return gst.ProductDetails{
		Name:    req.Product,
		Rate:    req.Rate,
		GSTRate: *req.GSTRate,
		Unit:    req.Unit,
		HSNCode: req.HSNCode,
	}
}

// sumLines returns the rounded taxable and GST totals of computed lines
func sumLines(items []gst.LineItem) (float64, float64) {
	var taxable, tax float64
	for _, item := range items {
		taxable += item.TaxableValue
		tax += item.GST
	}
	return gst.Round2(taxable), gst.Round2(tax)
}
