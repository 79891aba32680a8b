package gst

import (
	"reflect"
	"testing"
	"time"
)

func TestValidateInvoiceDataCollectsAllErrors(t *testing.T) {
	got := ValidateInvoiceData(InvoiceInput{CustomerName: "", Items: nil})

	want := ValidationResult{
		IsValid: false,
		Errors:  []string{"Customer name is required", "At least one item is required"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ValidateInvoiceData() = %+v, want %+v", got, want)
	}
}

func TestValidateInvoiceData(t *testing.T) {
	expiry := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	over := 150.0
	ok := 10.0

	tests := []struct {
		name  string
		input InvoiceInput
		want  []string
	}{
		{
			name: "valid",
			input: InvoiceInput{
				CustomerName: "Annapoorna Stores",
				Items:        []ItemInput{{Product: "dosa", Qty: 10, ExpiryDate: &expiry}},
				Discount:     &ok,
			},
			want: []string{},
		},
		{
			name: "per item problems",
			input: InvoiceInput{
				CustomerName: "Annapoorna Stores",
				Items: []ItemInput{
					{Product: "caviar", Qty: 0},
					{Product: "", Qty: 1, ExpiryDate: &expiry},
				},
				Discount: &over,
			},
			want: []string{
				"Item 1: Invalid product",
				"Item 1: Quantity must be greater than 0",
				"Item 1: Expiry date is required",
				"Item 2: Product is required",
				"Discount must be between 0 and 100",
			},
		},
		{
			name: "sales only accept catalog names",
			input: InvoiceInput{
				CustomerName: "Annapoorna Stores",
				Items: []ItemInput{{
					Product:    ProductDetails{Name: "Custom Sweet", Rate: 10, GSTRate: 5, Unit: "box"},
					Qty:        1,
					ExpiryDate: &expiry,
				}},
			},
			want: []string{"Item 1: Invalid product"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateInvoiceData(tt.input)
			if !reflect.DeepEqual(got.Errors, tt.want) {
				t.Errorf("Errors = %q, want %q", got.Errors, tt.want)
			}
			if got.IsValid != (len(tt.want) == 0) {
				t.Errorf("IsValid = %v with errors %q", got.IsValid, got.Errors)
			}
		})
	}
}

func TestValidatePurchaseData(t *testing.T) {
	expiry := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	negative := -1.0

	valid := PurchaseInput{
		VendorName: "Sri Lakshmi Dairy",
		Items: []ItemInput{{
			Product:    map[string]any{"name": "Fresh Cream", "gst_rate": 5.0, "unit": "litre"},
			Qty:        3,
			Rate:       180,
			Unit:       "litre",
			ExpiryDate: &expiry,
		}},
	}
	if got := ValidatePurchaseData(valid); !got.IsValid {
		t.Errorf("expected valid purchase, got %q", got.Errors)
	}

	invalid := PurchaseInput{
		Items:    []ItemInput{{Product: map[string]any{"rate": 1.0}}},
		Discount: &negative,
	}
	want := []string{
		"Vendor name is required",
		"Item 1: Invalid product",
		"Item 1: Quantity must be greater than 0",
		"Item 1: Rate must be greater than 0",
		"Item 1: Unit is required",
		"Item 1: Expiry date is required",
		"Discount cannot be negative",
	}
	got := ValidatePurchaseData(invalid)
	if got.IsValid || !reflect.DeepEqual(got.Errors, want) {
		t.Errorf("ValidatePurchaseData() = %+v, want errors %q", got, want)
	}
}

func TestValidatorCustomResolver(t *testing.T) {
	expiry := time.Now()
	v := Validator{SalesProducts: PassthroughResolver{}, PurchaseProducts: PassthroughResolver{}}

	got := v.ValidateInvoice(InvoiceInput{
		CustomerName: "Walk-in",
		Items: []ItemInput{{
			Product:    &ProductDetails{Name: "Custom Sweet", Rate: 10, GSTRate: 5, Unit: "box"},
			Qty:        2,
			ExpiryDate: &expiry,
		}},
	})
	if !got.IsValid {
		t.Errorf("passthrough sales policy should accept product objects, got %q", got.Errors)
	}
}
