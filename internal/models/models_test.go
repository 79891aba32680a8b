package models

import (
	"testing"
	"time"

	"gst-invoice-api/internal/gst"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

// TestProductCreation tests product creation and validation
func TestProductCreation(t *testing.T) {
	product := NewProduct("Paneer", "kg", 300, 12)
	product.HSNCode = "0406"
	if err := product.Validate(); err != nil {
		t.Errorf("Product validation failed: %v", err)
	}

	details := product.GSTDetails()
	if details.Name != "Paneer" || details.GSTRate != 12 || details.HSNCode != "0406" {
		t.Errorf("unexpected GST details %+v", details)
	}

	line, err := gst.CalculateItemTotals(product, 2, 0, nil)
	if err != nil {
		t.Fatalf("product record should be accepted by the engine: %v", err)
	}
	if line.GST != 72 {
		t.Errorf("Expected GST 72, got %.2f", line.GST)
	}
}

func TestProductValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr bool
	}{
		{"valid", func(p *Product) {}, false},
		{"missing name", func(p *Product) { p.Name = " " }, true},
		{"missing unit", func(p *Product) { p.Unit = "" }, true},
		{"non-statutory rate", func(p *Product) { p.GSTRate = 10 }, true},
		{"short HSN", func(p *Product) { p.HSNCode = "040" }, true},
		{"negative rate", func(p *Product) { p.Rate = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProduct("Ghee", "kg", 550, 12)
			tt.mutate(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestCustomerCreation tests customer validation and state resolution
func TestCustomerCreation(t *testing.T) {
	customer := NewCustomer("Annapoorna Stores")
	if err := customer.Validate(); err != nil {
		t.Errorf("Customer validation failed: %v", err)
	}
	if customer.IsRegistered() {
		t.Error("customer without GSTIN should not be registered")
	}

	customer.GSTIN = strPtr("29AAACB1234C1ZX")
	if err := customer.Validate(); err != nil {
		t.Errorf("Customer validation failed: %v", err)
	}
	if got := customer.GetStateCode(); got != "29" {
		t.Errorf("Expected state code 29 from GSTIN, got %s", got)
	}

	customer.StateCode = strPtr("33")
	if got := customer.GetStateCode(); got != "33" {
		t.Errorf("explicit state code should win, got %s", got)
	}

	customer.GSTIN = strPtr("invalid")
	if err := customer.Validate(); err == nil {
		t.Error("Expected validation error for malformed GSTIN")
	}
}

func TestVendorCreation(t *testing.T) {
	vendor := NewVendor("Sri Lakshmi Dairy")
	if err := vendor.Validate(); err != nil {
		t.Errorf("Vendor validation failed: %v", err)
	}
	if len(vendor.Code) != 13 || vendor.Code[:4] != "VEND" {
		t.Errorf("unexpected vendor code %q", vendor.Code)
	}
}

// TestInvoiceTotals tests aggregate recomputation on an invoice
func TestInvoiceTotals(t *testing.T) {
	inv := NewInvoice(InvoiceTypeSale, "Annapoorna Stores")
	inv.InvoiceNumber = "PSM-2025-01-27-001"
	inv.DiscountPercent = 5

	line, err := gst.CalculateItemTotals("dosa", 10, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	inv.Items = []InvoiceItem{NewInvoiceItem(inv.ID, 1, nil, line)}
	inv.ApplyTotals()

	if err := inv.Validate(); err != nil {
		t.Errorf("Invoice validation failed: %v", err)
	}
	if inv.TaxableAmount != 250 || inv.GSTAmount != 12.5 {
		t.Errorf("unexpected taxable/gst %v/%v", inv.TaxableAmount, inv.GSTAmount)
	}
	if inv.CGST != 6.25 || inv.SGST != 6.25 || inv.IGST != 0 {
		t.Errorf("unexpected split %v/%v/%v", inv.CGST, inv.SGST, inv.IGST)
	}
	if inv.TotalInvoiceValue != 262.5 || inv.Discount != 13.13 || inv.Total != 249.37 {
		t.Errorf("unexpected totals %v/%v/%v", inv.TotalInvoiceValue, inv.Discount, inv.Total)
	}

	inv.SupplyType = gst.SupplyInterState
	inv.ApplyTotals()
	if inv.IGST != 12.5 || inv.CGST != 0 {
		t.Errorf("inter-state invoice should carry IGST only, got %v/%v", inv.IGST, inv.CGST)
	}
}

func TestReturnRequiresOriginal(t *testing.T) {
	ret := NewInvoice(InvoiceTypeReturn, "Annapoorna Stores")
	ret.InvoiceNumber = "RET-1"
	ret.Items = []InvoiceItem{{ProductName: "Dosa", Qty: 1}}

	if err := ret.Validate(); err == nil {
		t.Error("Expected error for return without original invoice")
	}

	ret.OriginalInvoiceID = strPtr("c1b8b0c2-8a0e-4a52-9d4b-5d2b0c0f0a11")
	if err := ret.Validate(); err != nil {
		t.Errorf("Return validation failed: %v", err)
	}
}

func TestPurchaseTotals(t *testing.T) {
	purchase := NewPurchase("Sri Lakshmi Dairy")
	purchase.PurchaseNumber = "PUR-2025-01-27-ABCDEF12"

	line, err := gst.CalculatePurchaseTotals("paneer", 2, 300, 50)
	if err != nil {
		t.Fatal(err)
	}
	purchase.Items = []PurchaseItem{NewPurchaseItem(purchase.ID, 1, nil, line, time.Now().AddDate(0, 0, 5))}
	purchase.ApplyTotals(22)

	if err := purchase.Validate(); err != nil {
		t.Errorf("Purchase validation failed: %v", err)
	}
	if purchase.TotalInvoiceValue != 622 || purchase.Discount != 22 || purchase.Total != 600 {
		t.Errorf("unexpected totals %v/%v/%v", purchase.TotalInvoiceValue, purchase.Discount, purchase.Total)
	}
	if purchase.Breakdown.Len() != 1 {
		t.Errorf("expected one breakdown rate, got %d", purchase.Breakdown.Len())
	}
}

func TestStockLevelWeightedAverage(t *testing.T) {
	level := &StockLevel{ReorderLevel: decimal.NewFromInt(5)}

	level.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100))
	level.Receive(decimal.NewFromInt(10), decimal.NewFromInt(120))

	if !level.OnHand.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected 20 on hand, got %s", level.OnHand)
	}
	if !level.AverageCost.Equal(decimal.NewFromInt(110)) {
		t.Errorf("Expected average cost 110, got %s", level.AverageCost)
	}

	level.Issue(decimal.RequireFromString("15.5"))
	if !level.OnHand.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("Expected 4.5 on hand, got %s", level.OnHand)
	}
	if !level.BelowReorderLevel() {
		t.Error("Expected stock to be below reorder level")
	}
	if !level.Value().Equal(decimal.NewFromInt(495)) {
		t.Errorf("Expected value 495, got %s", level.Value())
	}
}

func TestStockMovementValidation(t *testing.T) {
	m := NewStockMovement("p1", MovementOut, ReasonSale, decimal.NewFromInt(3), decimal.Zero)
	if err := m.Validate(); err != nil {
		t.Errorf("Movement validation failed: %v", err)
	}
	if !m.SignedQuantity().Equal(decimal.NewFromInt(-3)) {
		t.Errorf("Expected -3, got %s", m.SignedQuantity())
	}

	m.Quantity = decimal.Zero
	if err := m.Validate(); err == nil {
		t.Error("Expected error for zero quantity")
	}
}

func TestValidationFunctions(t *testing.T) {
	if !IsValidPhone("+91 98450 12345") {
		t.Error("Expected +91 mobile number to be valid")
	}
	if !IsValidPhone("") {
		t.Error("Empty phone should be allowed")
	}
	if IsValidPhone("12345") {
		t.Error("Expected short number to be invalid")
	}
	if got := SanitizeString("  Sri   Lakshmi  Dairy "); got != "Sri Lakshmi Dairy" {
		t.Errorf("SanitizeString() = %q", got)
	}
}
