package services

import (
	"errors"
	"testing"
	"time"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
)

func newTestTaxService(t *testing.T) *TaxService {
	t.Helper()
	service, err := NewTaxServiceForCountry("IN", "29")
	if err != nil {
		t.Fatalf("NewTaxServiceForCountry() failed: %v", err)
	}
	return service
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestNewTaxService(t *testing.T) {
	config := models.NewIndianGSTConfig("29")
	service := NewTaxService(config, 7.5)

	if service == nil {
		t.Fatal("NewTaxService returned nil")
	}
	if service.config != config {
		t.Error("TaxService config not set correctly")
	}
	if service.discount != 7.5 {
		t.Errorf("discount = %v, want 7.5", service.discount)
	}
}

func TestNewTaxServiceForCountry(t *testing.T) {
	tests := []struct {
		name        string
		countryCode string
		wantErr     bool
	}{
		{"India", "IN", false},
		{"India long form", "india", false},
		{"Australia", "AU", true},
		{"Invalid country", "INVALID", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTaxServiceForCountry(tt.countryCode, "29")
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if service.GetTaxInfo().TaxName != "GST" {
				t.Errorf("TaxName = %s, want GST", service.GetTaxInfo().TaxName)
			}
		})
	}
}

func TestTaxService_GetTaxInfo(t *testing.T) {
	info := newTestTaxService(t).GetTaxInfo()

	if info.CountryCode != "IN" {
		t.Errorf("CountryCode = %s, want IN", info.CountryCode)
	}
	if info.Currency != "INR" {
		t.Errorf("Currency = %s, want INR", info.Currency)
	}
	if info.SellerStateCode != "29" || info.SellerState != "Karnataka" {
		t.Errorf("seller state = %s/%s, want 29/Karnataka", info.SellerStateCode, info.SellerState)
	}
	if len(info.Rates) != len(gst.GSTRates) {
		t.Errorf("Rates = %v, want %v", info.Rates, gst.GSTRates)
	}
	if len(info.RequiredInvoiceFields) == 0 {
		t.Error("RequiredInvoiceFields should not be empty")
	}
}

func TestTaxService_ValidateGSTIN(t *testing.T) {
	service := newTestTaxService(t)

	tests := []struct {
		name    string
		gstin   string
		wantErr bool
	}{
		{"valid", "29ABCDE1234F1Z5", false},
		{"lowercase", "29abcde1234f1z5", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too short", "29ABCDE1234", true},
		{"bad pattern", "ABCDE1234F1Z529", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateGSTIN(tt.gstin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGSTIN(%q) error = %v, wantErr %v", tt.gstin, err, tt.wantErr)
			}
		})
	}
}

func TestTaxService_CalculateItem(t *testing.T) {
	service := newTestTaxService(t)
	expiry := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		req         *CalculateItemRequest
		wantTaxable float64
		wantGST     float64
		wantValue   float64
		wantErr     bool
	}{
		{
			name:        "catalog rate",
			req:         &CalculateItemRequest{Product: "dosa", Qty: 10, ExpiryDate: &expiry},
			wantTaxable: 250,
			wantGST:     12.5,
			wantValue:   262.5,
		},
		{
			name:        "rate override",
			req:         &CalculateItemRequest{Product: "Paneer", Qty: 2, Rate: 280, ExpiryDate: &expiry},
			wantTaxable: 560,
			wantGST:     67.2,
			wantValue:   627.2,
		},
		{
			name:        "exempt product",
			req:         &CalculateItemRequest{Product: "milk", Qty: 3},
			wantTaxable: 168,
			wantGST:     0,
			wantValue:   168,
		},
		{
			name:    "unknown product",
			req:     &CalculateItemRequest{Product: "samosa", Qty: 1},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			req:     &CalculateItemRequest{Product: "dosa", Qty: 0},
			wantErr: true,
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := service.CalculateItem(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if line.TaxableValue != tt.wantTaxable || line.GST != tt.wantGST || line.InvoiceValue != tt.wantValue {
				t.Errorf("line = %v/%v/%v, want %v/%v/%v",
					line.TaxableValue, line.GST, line.InvoiceValue, tt.wantTaxable, tt.wantGST, tt.wantValue)
			}
		})
	}
}

func TestTaxService_CalculateItem_UnknownProduct(t *testing.T) {
	_, err := newTestTaxService(t).CalculateItem(&CalculateItemRequest{Product: "samosa", Qty: 1})
	if !errors.Is(err, gst.ErrInvalidProduct) {
		t.Errorf("error = %v, want ErrInvalidProduct", err)
	}
}

func TestTaxService_CalculatePurchaseItem(t *testing.T) {
	service := newTestTaxService(t)

	tests := []struct {
		name      string
		req       *CalculatePurchaseItemRequest
		wantGST   float64
		wantTotal float64
		wantErr   bool
	}{
		{
			name:      "catalog product with line discount",
			req:       &CalculatePurchaseItemRequest{Product: "ghee", Qty: 2, Rate: 500, Discount: 10},
			wantGST:   120,
			wantTotal: 1110,
		},
		{
			name:      "ad-hoc product",
			req:       &CalculatePurchaseItemRequest{Product: "Cardamom", Qty: 1, Rate: 200, GSTRate: floatPtr(5), Unit: "kg"},
			wantGST:   10,
			wantTotal: 210,
		},
		{
			name:    "unknown product without rate",
			req:     &CalculatePurchaseItemRequest{Product: "Cardamom", Qty: 1, Rate: 200},
			wantErr: true,
		},
		{
			name:    "invalid slab",
			req:     &CalculatePurchaseItemRequest{Product: "Cardamom", Qty: 1, Rate: 200, GSTRate: floatPtr(7)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := service.CalculatePurchaseItem(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if line.GST != tt.wantGST || line.Total != tt.wantTotal {
				t.Errorf("line gst/total = %v/%v, want %v/%v", line.GST, line.Total, tt.wantGST, tt.wantTotal)
			}
		})
	}
}

func TestTaxService_CalculateInvoice(t *testing.T) {
	service := newTestTaxService(t)
	items := []CalculateItemRequest{
		{Product: "dosa", Qty: 20},
		{Product: "paneer", Qty: 1},
	}

	tests := []struct {
		name       string
		req        *CalculateInvoiceRequest
		wantSupply gst.SupplyType
		wantSplit  gst.TaxSplit
	}{
		{
			name:       "unregistered buyer is intra-state",
			req:        &CalculateInvoiceRequest{Items: items},
			wantSupply: gst.SupplyIntraState,
			wantSplit:  gst.TaxSplit{CGST: 30.5, SGST: 30.5},
		},
		{
			name:       "buyer state from GSTIN",
			req:        &CalculateInvoiceRequest{Items: items, BuyerGSTIN: "27abcde1234f1z5"},
			wantSupply: gst.SupplyInterState,
			wantSplit:  gst.TaxSplit{IGST: 61},
		},
		{
			name:       "explicit buyer state wins",
			req:        &CalculateInvoiceRequest{Items: items, BuyerGSTIN: "27ABCDE1234F1Z5", BuyerStateCode: "29"},
			wantSupply: gst.SupplyIntraState,
			wantSplit:  gst.TaxSplit{CGST: 30.5, SGST: 30.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := service.CalculateInvoice(tt.req)
			if err != nil {
				t.Fatalf("CalculateInvoice() failed: %v", err)
			}
			if calc.SupplyType != tt.wantSupply {
				t.Errorf("SupplyType = %s, want %s", calc.SupplyType, tt.wantSupply)
			}
			if calc.Split != tt.wantSplit {
				t.Errorf("Split = %+v, want %+v", calc.Split, tt.wantSplit)
			}
			if calc.TaxableAmount != 800 || calc.GSTAmount != 61 {
				t.Errorf("taxable/gst = %v/%v, want 800/61", calc.TaxableAmount, calc.GSTAmount)
			}
			if calc.Totals.TotalInvoiceValue != 861 || calc.Totals.Discount != 43.05 || calc.Totals.Total != 817.95 {
				t.Errorf("Totals = %+v", calc.Totals)
			}
			if calc.Breakdown.Len() != 2 {
				t.Errorf("Breakdown has %d rates, want 2", calc.Breakdown.Len())
			}
		})
	}
}

func TestTaxService_CalculateInvoice_DiscountOverride(t *testing.T) {
	calc, err := newTestTaxService(t).CalculateInvoice(&CalculateInvoiceRequest{
		Items:    []CalculateItemRequest{{Product: "dosa", Qty: 20}},
		Discount: floatPtr(0),
	})
	if err != nil {
		t.Fatalf("CalculateInvoice() failed: %v", err)
	}
	if calc.Totals.Discount != 0 || calc.Totals.Total != 525 {
		t.Errorf("Totals = %+v, want no discount and total 525", calc.Totals)
	}
}

func TestTaxService_CalculateInvoice_Invalid(t *testing.T) {
	service := newTestTaxService(t)

	tests := []struct {
		name string
		req  *CalculateInvoiceRequest
	}{
		{"nil", nil},
		{"no items", &CalculateInvoiceRequest{}},
		{"discount above 100", &CalculateInvoiceRequest{Items: []CalculateItemRequest{{Product: "dosa", Qty: 1}}, Discount: floatPtr(120)}},
		{"unknown product", &CalculateInvoiceRequest{Items: []CalculateItemRequest{{Product: "samosa", Qty: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.CalculateInvoice(tt.req); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestTaxService_CalculatePurchase(t *testing.T) {
	calc, err := newTestTaxService(t).CalculatePurchase(&CalculatePurchaseRequest{
		Items: []CalculatePurchaseItemRequest{
			{Product: "ghee", Qty: 2, Rate: 500, Discount: 10},
			{Product: "Cardamom", Qty: 1, Rate: 200, GSTRate: floatPtr(5), Unit: "kg"},
		},
		Discount: 20,
	})
	if err != nil {
		t.Fatalf("CalculatePurchase() failed: %v", err)
	}

	if calc.TaxableAmount != 1200 || calc.GSTAmount != 130 {
		t.Errorf("taxable/gst = %v/%v, want 1200/130", calc.TaxableAmount, calc.GSTAmount)
	}
	if calc.Totals.TotalInvoiceValue != 1320 || calc.Totals.Discount != 20 || calc.Totals.Total != 1300 {
		t.Errorf("Totals = %+v", calc.Totals)
	}
	if calc.Breakdown.Len() != 2 {
		t.Errorf("Breakdown has %d rates, want 2", calc.Breakdown.Len())
	}
}

func TestTaxService_ValidateInvoice(t *testing.T) {
	service := newTestTaxService(t)
	expiry := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	valid := service.ValidateInvoice(gst.InvoiceInput{
		CustomerName: "Annapoorna Hotel",
		Items:        []gst.ItemInput{{Product: "dosa", Qty: 1, ExpiryDate: &expiry}},
	})
	if !valid.IsValid {
		t.Errorf("expected valid input, got %v", valid.Errors)
	}

	invalid := service.ValidateInvoice(gst.InvoiceInput{
		Items: []gst.ItemInput{{Product: "samosa", Qty: 0}},
	})
	if invalid.IsValid {
		t.Fatal("expected invalid input")
	}
	if len(invalid.Errors) != 4 {
		t.Errorf("Errors = %v, want 4 entries", invalid.Errors)
	}
}

func TestTaxService_ValidatePurchase(t *testing.T) {
	result := newTestTaxService(t).ValidatePurchase(gst.PurchaseInput{
		VendorName: "Nandini Dairy",
		Items:      []gst.ItemInput{{Product: "ghee", Qty: 1, Rate: 0}},
	})
	if result.IsValid {
		t.Fatal("expected invalid input")
	}

	want := map[string]bool{
		"Item 1: Rate must be greater than 0": true,
		"Item 1: Unit is required":            true,
		"Item 1: Expiry date is required":     true,
	}
	for _, msg := range result.Errors {
		delete(want, msg)
	}
	if len(want) != 0 {
		t.Errorf("missing errors %v in %v", want, result.Errors)
	}
}
