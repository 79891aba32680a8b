package models

import (
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"

	"github.com/google/uuid"
)

// InvoiceType distinguishes sales invoices from sales returns
type InvoiceType string

const (
	InvoiceTypeSale   InvoiceType = "sale"
	InvoiceTypeReturn InvoiceType = "return"
)

// Invoice is a persisted sales invoice or sales return
type Invoice struct {
	ID                string         `json:"id" db:"id" validate:"required,uuid"`
	InvoiceNumber     string         `json:"invoice_number" db:"invoice_number"`
	InvoiceType       InvoiceType    `json:"invoice_type" db:"invoice_type" validate:"oneof=sale return"`
	OriginalInvoiceID *string        `json:"original_invoice_id,omitempty" db:"original_invoice_id"`
	CustomerID        *string        `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName      string         `json:"customer_name" db:"customer_name"`
	CustomerGSTIN     *string        `json:"customer_gstin,omitempty" db:"customer_gstin"`
	InvoiceDate       time.Time      `json:"invoice_date" db:"invoice_date"`
	SupplyType        gst.SupplyType `json:"supply_type" db:"supply_type"`
	PlaceOfSupply     string         `json:"place_of_supply,omitempty" db:"place_of_supply"`
	DiscountPercent   float64        `json:"discount_percent" db:"discount_percent"`
	TaxableAmount     float64        `json:"taxable_amount" db:"taxable_amount"`
	GSTAmount         float64        `json:"gst_amount" db:"gst_amount"`
	CGST              float64        `json:"cgst" db:"cgst"`
	SGST              float64        `json:"sgst" db:"sgst"`
	IGST              float64        `json:"igst" db:"igst"`
	TotalInvoiceValue float64        `json:"total_invoice_value" db:"total_invoice_value"`
	Discount          float64        `json:"discount" db:"discount"`
	Total             float64        `json:"total" db:"total"`
	Notes             *string        `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`

	Items     []InvoiceItem  `json:"items,omitempty"`
	Breakdown *gst.Breakdown `json:"gst_breakdown,omitempty"`
}

// InvoiceItem is one persisted line of an invoice
type InvoiceItem struct {
	ID           string    `json:"id" db:"id"`
	InvoiceID    string    `json:"invoice_id" db:"invoice_id"`
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
	ExpiryDate   time.Time `json:"expiry_date" db:"expiry_date"`
}

// NewInvoice creates an empty invoice of the given type
func NewInvoice(invoiceType InvoiceType, customerName string) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:           uuid.New().String(),
		InvoiceType:  invoiceType,
		CustomerName: customerName,
		InvoiceDate:  now,
		SupplyType:   gst.SupplyIntraState,
		CreatedAt:    now,
	}
}

// NewInvoiceItem converts a computed line into a persisted item
func NewInvoiceItem(invoiceID string, lineNumber int, productID *string, line gst.LineItem) InvoiceItem {
	return InvoiceItem{
		ID:           uuid.New().String(),
		InvoiceID:    invoiceID,
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
		ExpiryDate:   line.ExpiryDate,
	}
}

// LineItem converts the item back to engine form
func (i InvoiceItem) LineItem() gst.LineItem {
	return gst.LineItem{
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
	}
}

// Validate validates the invoice header and items
func (inv *Invoice) Validate() error {
	if inv.ID == "" {
		return fmt.Errorf("invoice ID is required")
	}

	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		return fmt.Errorf("invoice number is required")
	}

	if inv.InvoiceType != InvoiceTypeSale && inv.InvoiceType != InvoiceTypeReturn {
		return fmt.Errorf("invalid invoice type: %s", inv.InvoiceType)
	}

	if inv.InvoiceType == InvoiceTypeReturn && (inv.OriginalInvoiceID == nil || *inv.OriginalInvoiceID == "") {
		return fmt.Errorf("sales return must reference the original invoice")
	}

	if strings.TrimSpace(inv.CustomerName) == "" {
		return fmt.Errorf("customer name is required")
	}

	if inv.InvoiceDate.IsZero() {
		return fmt.Errorf("invoice date is required")
	}

	if inv.DiscountPercent < 0 || inv.DiscountPercent > 100 {
		return fmt.Errorf("discount must be between 0 and 100")
	}

	if len(inv.Items) == 0 {
		return fmt.Errorf("invoice must have at least one item")
	}

	return nil
}

// LineItems returns the items in engine form
func (inv *Invoice) LineItems() []gst.LineItem {
	items := make([]gst.LineItem, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = item.LineItem()
	}
	return items
}

// ApplyTotals recomputes the aggregate columns from the items
func (inv *Invoice) ApplyTotals() {
	items := inv.LineItems()
	totals := gst.CalculateInvoiceTotals(items, inv.DiscountPercent)

	var taxable, tax float64
	for _, item := range items {
		taxable += item.TaxableValue
		tax += item.GST
	}

	inv.TaxableAmount = gst.Round2(taxable)
	inv.GSTAmount = gst.Round2(tax)
	split := gst.SplitTax(inv.GSTAmount, inv.SupplyType)
	inv.CGST, inv.SGST, inv.IGST = split.CGST, split.SGST, split.IGST
	inv.TotalInvoiceValue = totals.TotalInvoiceValue
	inv.Discount = totals.Discount
	inv.Total = totals.Total
	inv.Breakdown = gst.GetGSTBreakdown(items)
}

// IsReturn returns true for sales returns
func (inv *Invoice) IsReturn() bool {
	return inv.InvoiceType == InvoiceTypeReturn
}

// RebuildBreakdown recomputes the per-rate breakdown from the stored items
func (inv *Invoice) RebuildBreakdown() {
	inv.Breakdown = gst.GetGSTBreakdown(inv.LineItems())
}
