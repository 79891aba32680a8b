package models

import (
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"

	"github.com/google/uuid"
)

// Product represents a stocked product with its GST classification
type Product struct {
	ID           string    `json:"id" db:"id" validate:"required,uuid"`
	Name         string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Category     string    `json:"category" db:"category"`
	HSNCode      string    `json:"hsn_code" db:"hsn_code" validate:"omitempty,numeric,min=4,max=8"`
	Unit         string    `json:"unit" db:"unit" validate:"required"`
	Rate         float64   `json:"rate" db:"rate" validate:"min=0"`
	GSTRate      float64   `json:"gst_rate" db:"gst_rate" validate:"gst_rate"`
	ReorderLevel float64   `json:"reorder_level" db:"reorder_level" validate:"min=0"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a new product with generated ID and timestamps
func NewProduct(name, unit string, rate, gstRate float64) *Product {
	now := time.Now()
	return &Product{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      unit,
		Rate:      rate,
		GSTRate:   gstRate,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewProductFromCatalog creates a product from a built-in catalog entry
func NewProductFromCatalog(details gst.ProductDetails) *Product {
	p := NewProduct(details.Name, details.Unit, details.Rate, details.GSTRate)
	p.HSNCode = details.HSNCode
	return p
}

// Validate validates the product data
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if len(p.Name) > 255 {
		return fmt.Errorf("product name cannot exceed 255 characters")
	}

	if strings.TrimSpace(p.Unit) == "" {
		return fmt.Errorf("product unit is required")
	}

	if p.Rate < 0 {
		return fmt.Errorf("rate cannot be negative")
	}

	if !gst.IsValidGSTRate(p.GSTRate) {
		return fmt.Errorf("invalid GST rate %v: must be one of 0, 5, 12, 18, 28", p.GSTRate)
	}

	if p.HSNCode != "" && !gst.IsValidHSNCode(p.HSNCode) {
		return fmt.Errorf("invalid HSN code %q: must be 4 to 8 digits", p.HSNCode)
	}

	if p.ReorderLevel < 0 {
		return fmt.Errorf("reorder level cannot be negative")
	}

	return nil
}

// GSTDetails exposes the product to the GST engine
func (p *Product) GSTDetails() gst.ProductDetails {
	return gst.ProductDetails{
		Name:    p.Name,
		Rate:    p.Rate,
		GSTRate: p.GSTRate,
		Unit:    p.Unit,
		HSNCode: p.HSNCode,
	}
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (p *Product) UpdateTimestamp() {
	p.UpdatedAt = time.Now()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Active
}

// SetDescription sets the product description
func (p *Product) SetDescription(description string) {
	if strings.TrimSpace(description) == "" {
		p.Description = nil
	} else {
		p.Description = &description
	}
}
