package services_test

import (
	"fmt"
	"time"

	"gst-invoice-api/internal/services"
)

func ExampleTaxService_CalculateInvoice() {
	tax, err := services.NewTaxServiceForCountry("IN", "29")
	if err != nil {
		panic(err)
	}

	expiry := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	calc, err := tax.CalculateInvoice(&services.CalculateInvoiceRequest{
		Items: []services.CalculateItemRequest{
			{Product: "dosa", Qty: 20, ExpiryDate: &expiry},
			{Product: "paneer", Qty: 1, ExpiryDate: &expiry},
		},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("supply: %s\n", calc.SupplyType)
	fmt.Printf("taxable: %.2f gst: %.2f\n", calc.TaxableAmount, calc.GSTAmount)
	fmt.Printf("cgst: %.2f sgst: %.2f igst: %.2f\n", calc.Split.CGST, calc.Split.SGST, calc.Split.IGST)
	fmt.Printf("total: %.2f less %.2f = %.2f\n", calc.Totals.TotalInvoiceValue, calc.Totals.Discount, calc.Totals.Total)
	// Output:
	// supply: intra
	// taxable: 800.00 gst: 61.00
	// cgst: 30.50 sgst: 30.50 igst: 0.00
	// total: 861.00 less 43.05 = 817.95
}

func ExampleTaxService_CalculateInvoice_interState() {
	tax, err := services.NewTaxServiceForCountry("IN", "29")
	if err != nil {
		panic(err)
	}

	expiry := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	noDiscount := 0.0
	calc, err := tax.CalculateInvoice(&services.CalculateInvoiceRequest{
		BuyerGSTIN: "27ABCDE1234F1Z5",
		Discount:   &noDiscount,
		Items: []services.CalculateItemRequest{
			{Product: "paneer", Qty: 2, ExpiryDate: &expiry},
		},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("supply: %s igst: %.2f total: %.2f\n", calc.SupplyType, calc.Split.IGST, calc.Totals.Total)
	// Output:
	// supply: inter igst: 72.00 total: 672.00
}
