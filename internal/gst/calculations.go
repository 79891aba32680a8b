// Package gst implements the GST arithmetic used on sales invoices, returns
// and purchase invoices: line totals, tax splits, discounts, per-rate
// breakdowns, document numbering and input validation.
//
// Every intermediate money value is rounded to paise with Round2 in a fixed
// order. Do not collapse the chain into a single final rounding: totals would
// drift from previously issued documents for some inputs.
package gst

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidProduct is returned when a product reference resolves to nothing.
var ErrInvalidProduct = errors.New("Invalid product")

// now is replaced in tests.
var now = time.Now

// LineItem is a computed invoice line
type LineItem struct {
	Product      string    `json:"product"`
	Qty          float64   `json:"qty"`
	Rate         float64   `json:"rate"`
	ExpiryDate   time.Time `json:"expiry_date"`
	TaxableValue float64   `json:"taxable_value"`
	GST          float64   `json:"gst"`
	InvoiceValue float64   `json:"invoice_value"`
	GSTRate      float64   `json:"gst_rate"`
	Unit         string    `json:"unit"`
	HSNCode      string    `json:"hsn_code,omitempty"`
}

// PurchaseLineTotals is a computed purchase line with its absolute discount
type PurchaseLineTotals struct {
	LineItem
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// TaxSplit holds the GST amount divided between the levies
type TaxSplit struct {
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`
	IGST float64 `json:"igst"`
}

// Round2 rounds to two decimal places, halves away from zero
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// CalculateGST returns the tax on amount at gstRate percent. Negative inputs
// yield zero.
func CalculateGST(amount, gstRate float64) float64 {
	if amount < 0 || gstRate < 0 {
		return 0
	}
	return Round2(amount * gstRate / 100)
}

// CalculateTotalWithGST returns amount plus its GST
func CalculateTotalWithGST(amount, gstRate float64) float64 {
	return Round2(amount + CalculateGST(amount, gstRate))
}

// CalculateCGSTSGST halves an intra-state GST amount. An odd number of paise
// makes cgst+sgst differ from gstAmount by one paisa; no correction is applied.
func CalculateCGSTSGST(gstAmount float64) TaxSplit {
	half := Round2(gstAmount / 2)
	return TaxSplit{CGST: half, SGST: half}
}

// CalculateIGST returns the inter-state levy, which is the whole GST amount.
func CalculateIGST(gstAmount float64) float64 {
	return Round2(gstAmount)
}

// CalculateItemTotals computes a sales line. A non-zero rate overrides the
// product's rate; a nil expiry is replaced with the current time.
func CalculateItemTotals(product any, qty, rate float64, expiry *time.Time) (LineItem, error) {
	details, ok := GetProductDetails(product)
	if !ok {
		return LineItem{}, fmt.Errorf("%w: %s", ErrInvalidProduct, describeProduct(product))
	}

	actualRate := details.Rate
	if rate != 0 {
		actualRate = rate
	}

	expiryDate := now()
	if expiry != nil {
		expiryDate = *expiry
	}

	taxable := Round2(qty * actualRate)
	tax := CalculateGST(taxable, details.GSTRate)

	return LineItem{
		Product:      details.Name,
		Qty:          qty,
		Rate:         actualRate,
		ExpiryDate:   expiryDate,
		TaxableValue: taxable,
		GST:          tax,
		InvoiceValue: Round2(taxable + tax),
		GSTRate:      details.GSTRate,
		Unit:         details.Unit,
		HSNCode:      details.HSNCode,
	}, nil
}

// CalculatePurchaseTotals computes a purchase line at the vendor's rate,
// less an absolute discount.
func CalculatePurchaseTotals(product any, qty, rate, discount float64) (PurchaseLineTotals, error) {
	details, ok := GetProductDetails(product)
	if !ok {
		return PurchaseLineTotals{}, fmt.Errorf("%w: %s", ErrInvalidProduct, describeProduct(product))
	}

	taxable := Round2(qty * rate)
	tax := CalculateGST(taxable, details.GSTRate)
	invoiceValue := Round2(taxable + tax)

	return PurchaseLineTotals{
		LineItem: LineItem{
			Product:      details.Name,
			Qty:          qty,
			Rate:         rate,
			TaxableValue: taxable,
			GST:          tax,
			InvoiceValue: invoiceValue,
			GSTRate:      details.GSTRate,
			Unit:         details.Unit,
			HSNCode:      details.HSNCode,
		},
		Discount: discount,
		Total:    Round2(invoiceValue - discount),
	}, nil
}

// PurchaseLineItems strips the purchase-only fields so purchase lines can be
// fed to the breakdown.
func PurchaseLineItems(lines []PurchaseLineTotals) []LineItem {
	items := make([]LineItem, len(lines))
	for i, l := range lines {
		items[i] = l.LineItem
	}
	return items
}

// SplitTax divides a GST amount according to the supply type
func SplitTax(gstAmount float64, supply SupplyType) TaxSplit {
	if supply == SupplyInterState {
		return TaxSplit{IGST: CalculateIGST(gstAmount)}
	}
	return CalculateCGSTSGST(gstAmount)
}
