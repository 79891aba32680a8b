package gst

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultDiscountPercent is the sales discount applied when none is given
const DefaultDiscountPercent = 5.0

// DiscountKind tells how a Discount value is interpreted
type DiscountKind string

const (
	DiscountPercent  DiscountKind = "percent"
	DiscountAbsolute DiscountKind = "absolute"
)

// Discount is a document discount. Sales invoices and returns use a
// percentage, purchase invoices an absolute amount.
type Discount struct {
	Kind  DiscountKind `json:"kind"`
	Value float64      `json:"value"`
}

// Percent builds a percentage discount
func Percent(value float64) Discount {
	return Discount{Kind: DiscountPercent, Value: value}
}

// Absolute builds a currency-amount discount
func Absolute(value float64) Discount {
	return Discount{Kind: DiscountAbsolute, Value: value}
}

// Amount returns the discount in currency for a gross amount
func (d Discount) Amount(gross float64) float64 {
	switch d.Kind {
	case DiscountAbsolute:
		return Round2(d.Value)
	default:
		return Round2(gross * d.Value / 100)
	}
}

// Validate checks the value against the bounds of its kind
func (d Discount) Validate() error {
	switch d.Kind {
	case DiscountPercent:
		if d.Value < 0 || d.Value > 100 {
			return fmt.Errorf("discount must be between 0 and 100, got %v", d.Value)
		}
	case DiscountAbsolute:
		if d.Value < 0 {
			return fmt.Errorf("discount cannot be negative, got %v", d.Value)
		}
	default:
		return fmt.Errorf("unknown discount kind %q", d.Kind)
	}
	return nil
}

// InvoiceTotals aggregates a document
type InvoiceTotals struct {
	TotalInvoiceValue float64 `json:"total_invoice_value"`
	Discount          float64 `json:"discount"`
	Total             float64 `json:"total"`
}

// CalculateInvoiceTotals sums the invoice values of items and deducts a
// percentage discount.
func CalculateInvoiceTotals(items []LineItem, discountPercent float64) InvoiceTotals {
	return totalsFor(sumInvoiceValues(items), Percent(discountPercent))
}

// CalculateDocumentTotals is CalculateInvoiceTotals with the discount
// convention carried by the Discount value.
func CalculateDocumentTotals(items []LineItem, discount Discount) InvoiceTotals {
	return totalsFor(sumInvoiceValues(items), discount)
}

// CalculatePurchaseInvoiceTotals sums line totals (after line discounts) and
// deducts a document-level discount.
func CalculatePurchaseInvoiceTotals(lines []PurchaseLineTotals, discount Discount) InvoiceTotals {
	var sum float64
	for _, l := range lines {
		sum += l.Total
	}
	return totalsFor(sum, discount)
}

func sumInvoiceValues(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.InvoiceValue
	}
	return sum
}

// totalsFor rounds the summed gross once for display; Discount and Total use the unrounded sum
func totalsFor(gross float64, discount Discount) InvoiceTotals {
	amount := discount.Amount(gross)
	return InvoiceTotals{
		TotalInvoiceValue: Round2(gross),
		Discount:          amount,
		Total:             Round2(gross - amount),
	}
}

// RateTotals is one row of a GST breakdown
type RateTotals struct {
	TaxableAmount float64 `json:"taxable_amount"`
	GSTAmount     float64 `json:"gst_amount"`
}

// BreakdownEntry pairs a rate with its totals
type BreakdownEntry struct {
	GSTRate float64 `json:"gst_rate"`
	RateTotals
}

// Breakdown maps GST rate to aggregated amounts. Rates keep the order in
// which they first appeared.
type Breakdown struct {
	rates  []float64
	totals map[float64]RateTotals
}

// GetGSTBreakdown groups items by GST rate. Sums are rounded once per rate,
// after summation.
func GetGSTBreakdown(items []LineItem) *Breakdown {
	b := &Breakdown{totals: make(map[float64]RateTotals)}
	for _, item := range items {
		t, seen := b.totals[item.GSTRate]
		if !seen {
			b.rates = append(b.rates, item.GSTRate)
		}
		t.TaxableAmount += item.TaxableValue
		t.GSTAmount += item.GST
		b.totals[item.GSTRate] = t
	}
	for rate, t := range b.totals {
		b.totals[rate] = RateTotals{
			TaxableAmount: Round2(t.TaxableAmount),
			GSTAmount:     Round2(t.GSTAmount),
		}
	}
	return b
}

// Get returns the totals for a rate
func (b *Breakdown) Get(rate float64) (RateTotals, bool) {
	t, ok := b.totals[rate]
	return t, ok
}

// Len returns the number of distinct rates
func (b *Breakdown) Len() int {
	return len(b.rates)
}

// Rates returns the rates in first-seen order
func (b *Breakdown) Rates() []float64 {
	return append([]float64(nil), b.rates...)
}

// SortedRates returns the rates in ascending order
func (b *Breakdown) SortedRates() []float64 {
	rates := b.Rates()
	sort.Float64s(rates)
	return rates
}

// Entries returns the rows in first-seen order
func (b *Breakdown) Entries() []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(b.rates))
	for _, rate := range b.rates {
		entries = append(entries, BreakdownEntry{GSTRate: rate, RateTotals: b.totals[rate]})
	}
	return entries
}

// MarshalJSON encodes the breakdown as an ordered list
func (b *Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Entries())
}
