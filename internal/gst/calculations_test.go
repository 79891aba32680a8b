package gst

import (
	"errors"
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{12.5, 12.5},
		{0.125, 0.13},
		{-0.125, -0.13},
		{262.499, 262.5},
		{-1.5, -1.5},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCalculateGST(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		rate   float64
		want   float64
	}{
		{"five percent", 250, 5, 12.5},
		{"twelve percent", 600, 12, 72},
		{"zero rate", 100, 0, 0},
		{"negative amount", -100, 5, 0},
		{"negative rate", 100, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateGST(tt.amount, tt.rate); got != tt.want {
				t.Errorf("CalculateGST(%v, %v) = %v, want %v", tt.amount, tt.rate, got, tt.want)
			}
		})
	}
}

func TestCalculateTotalWithGST(t *testing.T) {
	if got := CalculateTotalWithGST(250, 5); got != 262.5 {
		t.Errorf("CalculateTotalWithGST(250, 5) = %v, want 262.5", got)
	}
	if got := CalculateTotalWithGST(-10, 5); got != -10 {
		t.Errorf("CalculateTotalWithGST(-10, 5) = %v, want -10", got)
	}
}

func TestCalculateCGSTSGSTKeepsOddPaisa(t *testing.T) {
	split := CalculateCGSTSGST(0.01)
	if split.CGST != 0.01 || split.SGST != 0.01 {
		t.Errorf("CalculateCGSTSGST(0.01) = %+v, want 0.01 each", split)
	}
	if split.IGST != 0 {
		t.Errorf("intra-state split has IGST %v", split.IGST)
	}

	even := CalculateCGSTSGST(12.5)
	if even.CGST != 6.25 || even.SGST != 6.25 {
		t.Errorf("CalculateCGSTSGST(12.5) = %+v, want 6.25 each", even)
	}
}

func TestCalculateIGST(t *testing.T) {
	for _, g := range []float64{0, 12.5, 72, 0.01} {
		if got := CalculateIGST(g); got != g {
			t.Errorf("CalculateIGST(%v) = %v", g, got)
		}
	}
}

func TestSplitTax(t *testing.T) {
	inter := SplitTax(72, SupplyInterState)
	if inter.IGST != 72 || inter.CGST != 0 || inter.SGST != 0 {
		t.Errorf("SplitTax inter = %+v", inter)
	}
	intra := SplitTax(72, SupplyIntraState)
	if intra.CGST != 36 || intra.SGST != 36 || intra.IGST != 0 {
		t.Errorf("SplitTax intra = %+v", intra)
	}
}

func TestCalculateItemTotals(t *testing.T) {
	expiry := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	item, err := CalculateItemTotals("dosa", 10, 0, &expiry)
	if err != nil {
		t.Fatalf("CalculateItemTotals() failed: %v", err)
	}

	if item.TaxableValue != 250 {
		t.Errorf("TaxableValue = %v, want 250", item.TaxableValue)
	}
	if item.GST != 12.5 {
		t.Errorf("GST = %v, want 12.5", item.GST)
	}
	if item.InvoiceValue != 262.5 {
		t.Errorf("InvoiceValue = %v, want 262.5", item.InvoiceValue)
	}
	if item.GSTRate != 5 {
		t.Errorf("GSTRate = %v, want 5", item.GSTRate)
	}
	if item.Unit != "packet" {
		t.Errorf("Unit = %q, want packet", item.Unit)
	}
	if item.Rate != 25 {
		t.Errorf("Rate = %v, want catalog rate 25", item.Rate)
	}
	if !item.ExpiryDate.Equal(expiry) {
		t.Errorf("ExpiryDate = %v, want %v", item.ExpiryDate, expiry)
	}
}

func TestCalculateItemTotalsRateOverride(t *testing.T) {
	item, err := CalculateItemTotals("Dosa", 4, 30, nil)
	if err != nil {
		t.Fatalf("CalculateItemTotals() failed: %v", err)
	}
	if item.Rate != 30 || item.TaxableValue != 120 || item.GST != 6 || item.InvoiceValue != 126 {
		t.Errorf("unexpected line %+v", item)
	}
}

func TestCalculateItemTotalsDefaultsExpiryToNow(t *testing.T) {
	fixed := time.Date(2025, 1, 27, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	item, err := CalculateItemTotals("idli", 1, 0, nil)
	if err != nil {
		t.Fatalf("CalculateItemTotals() failed: %v", err)
	}
	if !item.ExpiryDate.Equal(fixed) {
		t.Errorf("ExpiryDate = %v, want %v", item.ExpiryDate, fixed)
	}
}

func TestCalculateItemTotalsProductObject(t *testing.T) {
	product := ProductDetails{Name: "Filter Coffee Decoction", Rate: 90, GSTRate: 18, Unit: "bottle"}

	item, err := CalculateItemTotals(product, 2, 0, nil)
	if err != nil {
		t.Fatalf("CalculateItemTotals() failed: %v", err)
	}
	if item.Product != "Filter Coffee Decoction" || item.TaxableValue != 180 || item.GST != 32.4 {
		t.Errorf("unexpected line %+v", item)
	}
}

func TestCalculateItemTotalsInvalidProduct(t *testing.T) {
	_, err := CalculateItemTotals("caviar", 1, 0, nil)
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("error %v does not wrap ErrInvalidProduct", err)
	}
	if err.Error() != "Invalid product: caviar" {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestCalculatePurchaseTotals(t *testing.T) {
	line, err := CalculatePurchaseTotals("paneer", 2, 300, 50)
	if err != nil {
		t.Fatalf("CalculatePurchaseTotals() failed: %v", err)
	}

	if line.TaxableValue != 600 {
		t.Errorf("TaxableValue = %v, want 600", line.TaxableValue)
	}
	if line.GST != 72 {
		t.Errorf("GST = %v, want 72", line.GST)
	}
	if line.InvoiceValue != 672 {
		t.Errorf("InvoiceValue = %v, want 672", line.InvoiceValue)
	}
	if line.Total != 622 {
		t.Errorf("Total = %v, want 622", line.Total)
	}
	if line.Discount != 50 {
		t.Errorf("Discount = %v, want 50", line.Discount)
	}
	if !line.ExpiryDate.IsZero() {
		t.Errorf("purchase line should not set an expiry, got %v", line.ExpiryDate)
	}
}

func TestCalculatePurchaseTotalsUnknownProduct(t *testing.T) {
	if _, err := CalculatePurchaseTotals("saffron", 1, 100, 0); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got %v", err)
	}
}
