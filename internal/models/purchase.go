package models

import (
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"

	"github.com/google/uuid"
)

// Purchase is a persisted purchase invoice received from a vendor
type Purchase struct {
	ID                  string    `json:"id" db:"id" validate:"required,uuid"`
	PurchaseNumber      string    `json:"purchase_number" db:"purchase_number"`
	VendorID            *string   `json:"vendor_id,omitempty" db:"vendor_id"`
	VendorName          string    `json:"vendor_name" db:"vendor_name"`
	VendorInvoiceNumber *string   `json:"vendor_invoice_number,omitempty" db:"vendor_invoice_number"`
	PurchaseDate        time.Time `json:"purchase_date" db:"purchase_date"`
	TaxableAmount       float64   `json:"taxable_amount" db:"taxable_amount"`
	GSTAmount           float64   `json:"gst_amount" db:"gst_amount"`
	TotalInvoiceValue   float64   `json:"total_invoice_value" db:"total_invoice_value"`
	Discount            float64   `json:"discount" db:"discount"`
	Total               float64   `json:"total" db:"total"`
	Notes               *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`

	Items     []PurchaseItem `json:"items,omitempty"`
	Breakdown *gst.Breakdown `json:"gst_breakdown,omitempty"`
}

// PurchaseItem is one persisted line of a purchase
type PurchaseItem struct {
	ID           string    `json:"id" db:"id"`
	PurchaseID   string    `json:"purchase_id" db:"purchase_id"`
	LineNumber   int       `json:"line_number" db:"line_number"`
	ProductID    *string   `json:"product_id,omitempty" db:"product_id"`
	ProductName  string    `json:"product_name" db:"product_name"`
	HSNCode      string    `json:"hsn_code,omitempty" db:"hsn_code"`
	Unit         string    `json:"unit" db:"unit"`
	Qty          float64   `json:"qty" db:"qty"`
	Rate         float64   `json:"rate" db:"rate"`
	GSTRate      float64   `json:"gst_rate" db:"gst_rate"`
	TaxableValue float64   `json:"taxable_value" db:"taxable_value"`
	GST          float64   `json:"gst" db:"gst"`
	InvoiceValue float64   `json:"invoice_value" db:"invoice_value"`
	Discount     float64   `json:"discount" db:"discount"`
	Total        float64   `json:"total" db:"total"`
	ExpiryDate   time.Time `json:"expiry_date" db:"expiry_date"`
	BatchNumber  *string   `json:"batch_number,omitempty" db:"batch_number"`
}

// NewPurchase creates an empty purchase for a vendor
func NewPurchase(vendorName string) *Purchase {
	now := time.Now()
	return &Purchase{
		ID:           uuid.New().String(),
		VendorName:   vendorName,
		PurchaseDate: now,
		CreatedAt:    now,
	}
}

// NewPurchaseItem converts a computed purchase line into a persisted item
func NewPurchaseItem(purchaseID string, lineNumber int, productID *string, line gst.PurchaseLineTotals, expiry time.Time) PurchaseItem {
	return PurchaseItem{
		ID:           uuid.New().String(),
		PurchaseID:   purchaseID,
		LineNumber:   lineNumber,
		ProductID:    productID,
		ProductName:  line.Product,
		HSNCode:      line.HSNCode,
		Unit:         line.Unit,
		Qty:          line.Qty,
		Rate:         line.Rate,
		GSTRate:      line.GSTRate,
		TaxableValue: line.TaxableValue,
		GST:          line.GST,
		InvoiceValue: line.InvoiceValue,
		Discount:     line.Discount,
		Total:        line.Total,
		ExpiryDate:   expiry,
	}
}

// LineTotals converts the item back to engine form
func (i PurchaseItem) LineTotals() gst.PurchaseLineTotals {
	return gst.PurchaseLineTotals{
		LineItem: gst.LineItem{
			Product:      i.ProductName,
			Qty:          i.Qty,
			Rate:         i.Rate,
			ExpiryDate:   i.ExpiryDate,
			TaxableValue: i.TaxableValue,
			GST:          i.GST,
			InvoiceValue: i.InvoiceValue,
			GSTRate:      i.GSTRate,
			Unit:         i.Unit,
			HSNCode:      i.HSNCode,
		},
		Discount: i.Discount,
		Total:    i.Total,
	}
}

// Validate validates the purchase header and items
func (p *Purchase) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("purchase ID is required")
	}

	if strings.TrimSpace(p.PurchaseNumber) == "" {
		return fmt.Errorf("purchase number is required")
	}

	if strings.TrimSpace(p.VendorName) == "" {
		return fmt.Errorf("vendor name is required")
	}

	if p.PurchaseDate.IsZero() {
		return fmt.Errorf("purchase date is required")
	}

	if p.Discount < 0 {
		return fmt.Errorf("discount cannot be negative")
	}

	if len(p.Items) == 0 {
		return fmt.Errorf("purchase must have at least one item")
	}

	return nil
}

// ApplyTotals recomputes the aggregate columns. The document discount on a
// purchase is an absolute amount.
func (p *Purchase) ApplyTotals(discount float64) {
	lines := make([]gst.PurchaseLineTotals, len(p.Items))
	var taxable, tax float64
	for i, item := range p.Items {
		lines[i] = item.LineTotals()
		taxable += item.TaxableValue
		tax += item.GST
	}

	totals := gst.CalculatePurchaseInvoiceTotals(lines, gst.Absolute(discount))
	p.TaxableAmount = gst.Round2(taxable)
	p.GSTAmount = gst.Round2(tax)
	p.TotalInvoiceValue = totals.TotalInvoiceValue
	p.Discount = totals.Discount
	p.Total = totals.Total
	p.Breakdown = gst.GetGSTBreakdown(gst.PurchaseLineItems(lines))
}

// RebuildBreakdown recomputes the per-rate breakdown from the stored items
func (p *Purchase) RebuildBreakdown() {
	items := make([]gst.LineItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.LineTotals().LineItem
	}
	p.Breakdown = gst.GetGSTBreakdown(items)
}
