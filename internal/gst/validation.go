package gst

import (
	"fmt"
	"strings"
	"time"
)

// ItemInput is an item as entered on a document form
type ItemInput struct {
	Product    any        `json:"product"`
	Qty        float64    `json:"qty"`
	Rate       float64    `json:"rate,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// InvoiceInput is the data of a sales invoice or return before calculation
type InvoiceInput struct {
	CustomerName string      `json:"customer_name"`
	Items        []ItemInput `json:"items"`
	Discount     *float64    `json:"discount,omitempty"`
}

// PurchaseInput is the data of a purchase invoice before calculation
type PurchaseInput struct {
	VendorName string      `json:"vendor_name"`
	Items      []ItemInput `json:"items"`
	Discount   *float64    `json:"discount,omitempty"`
}

// ValidationResult lists every violation found
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validator checks document input. The resolvers decide what counts as a
// known product on each document type.
type Validator struct {
	SalesProducts    ProductResolver
	PurchaseProducts ProductResolver
}

// DefaultValidator accepts only catalog names on sales documents and any
// product object on purchases.
var DefaultValidator = Validator{
	SalesProducts:    StaticCatalogResolver{},
	PurchaseProducts: PassthroughResolver{},
}

// ValidateInvoiceData validates with DefaultValidator
func ValidateInvoiceData(data InvoiceInput) ValidationResult {
	return DefaultValidator.ValidateInvoice(data)
}

// ValidatePurchaseData validates with DefaultValidator
func ValidatePurchaseData(data PurchaseInput) ValidationResult {
	return DefaultValidator.ValidatePurchase(data)
}

// ValidateInvoice collects all problems with a sales document
func (v Validator) ValidateInvoice(data InvoiceInput) ValidationResult {
	var errs []string

	if strings.TrimSpace(data.CustomerName) == "" {
		errs = append(errs, "Customer name is required")
	}
	if len(data.Items) == 0 {
		errs = append(errs, "At least one item is required")
	}

	for i, item := range data.Items {
		prefix := fmt.Sprintf("Item %d: ", i+1)
		errs = append(errs, productErrors(v.SalesProducts, item.Product, prefix)...)
		if item.Qty <= 0 {
			errs = append(errs, prefix+"Quantity must be greater than 0")
		}
		if item.ExpiryDate == nil || item.ExpiryDate.IsZero() {
			errs = append(errs, prefix+"Expiry date is required")
		}
	}

	if data.Discount != nil && (*data.Discount < 0 || *data.Discount > 100) {
		errs = append(errs, "Discount must be between 0 and 100")
	}

	return result(errs)
}

// ValidatePurchase collects all problems with a purchase document
func (v Validator) ValidatePurchase(data PurchaseInput) ValidationResult {
	var errs []string

	if strings.TrimSpace(data.VendorName) == "" {
		errs = append(errs, "Vendor name is required")
	}
	if len(data.Items) == 0 {
		errs = append(errs, "At least one item is required")
	}

	for i, item := range data.Items {
		prefix := fmt.Sprintf("Item %d: ", i+1)
		errs = append(errs, productErrors(v.PurchaseProducts, item.Product, prefix)...)
		if item.Qty <= 0 {
			errs = append(errs, prefix+"Quantity must be greater than 0")
		}
		if item.Rate <= 0 {
			errs = append(errs, prefix+"Rate must be greater than 0")
		}
		if strings.TrimSpace(item.Unit) == "" {
			errs = append(errs, prefix+"Unit is required")
		}
		if item.ExpiryDate == nil || item.ExpiryDate.IsZero() {
			errs = append(errs, prefix+"Expiry date is required")
		}
	}

	if data.Discount != nil && *data.Discount < 0 {
		errs = append(errs, "Discount cannot be negative")
	}

	return result(errs)
}

func productErrors(resolver ProductResolver, product any, prefix string) []string {
	if product == nil {
		return []string{prefix + "Product is required"}
	}
	if s, ok := product.(string); ok && strings.TrimSpace(s) == "" {
		return []string{prefix + "Product is required"}
	}
	if _, ok := resolver.Resolve(product); !ok {
		return []string{prefix + "Invalid product"}
	}
	return nil
}

func result(errs []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
