package models

import (
	"time"
)

// Common constants
const (
	// Maximum number of lines accepted on a single document
	MaxLineItemsPerDocument = 200

	// Stock within this window of its expiry date is reported as expiring
	DefaultExpiryWarningWindow = 7 * 24 * time.Hour
)

// DocumentSummary aggregates one kind of document over a period
type DocumentSummary struct {
	Count             int     `json:"count"`
	TaxableAmount     float64 `json:"taxable_amount"`
	GSTAmount         float64 `json:"gst_amount"`
	CGST              float64 `json:"cgst"`
	SGST              float64 `json:"sgst"`
	IGST              float64 `json:"igst"`
	Discount          float64 `json:"discount"`
	TotalInvoiceValue float64 `json:"total_invoice_value"`
	Total             float64 `json:"total"`
}

// RateSummary is one GST slab in a period report
type RateSummary struct {
	GSTRate         float64 `json:"gst_rate"`
	SalesTaxable    float64 `json:"sales_taxable"`
	SalesGST        float64 `json:"sales_gst"`
	ReturnsTaxable  float64 `json:"returns_taxable"`
	ReturnsGST      float64 `json:"returns_gst"`
	PurchaseTaxable float64 `json:"purchase_taxable"`
	PurchaseGST     float64 `json:"purchase_gst"`
}

// GSTSummary is the GST position for a period
type GSTSummary struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Sales     DocumentSummary `json:"sales"`
	Returns   DocumentSummary `json:"returns"`
	Purchases DocumentSummary `json:"purchases"`
	ByRate    []RateSummary   `json:"by_rate"`
	// OutputTax is GST on sales less GST on returns
	OutputTax float64 `json:"output_tax"`
	// InputTax is GST paid on purchases
	InputTax float64 `json:"input_tax"`
	// NetPayable is OutputTax less InputTax; negative means a credit
	NetPayable  float64   `json:"net_payable"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PaginationResult represents paginated results
type PaginationResult struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPaginationResult fills the navigation flags
func NewPaginationResult(total, limit, offset int) *PaginationResult {
	return &PaginationResult{
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasNext:     limit > 0 && offset+limit < total,
		HasPrevious: offset > 0,
	}
}

// HealthCheck represents system health status
type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
