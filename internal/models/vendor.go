package models

import (
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"

	"github.com/google/uuid"
)

// Vendor represents a supplier on purchase invoices
type Vendor struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name" validate:"required,max=255"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	Email     *string   `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewVendor creates a vendor with a generated ID and code
func NewVendor(name string) *Vendor {
	now := time.Now()
	return &Vendor{
		ID:        uuid.New().String(),
		Code:      gst.GenerateVendorCode(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the vendor data
func (v *Vendor) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vendor ID is required")
	}

	if strings.TrimSpace(v.Code) == "" {
		return fmt.Errorf("vendor code is required")
	}

	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("vendor name is required")
	}

	if v.GSTIN != nil && !gst.IsValidGSTNumber(*v.GSTIN) {
		return fmt.Errorf("invalid GSTIN: %s", *v.GSTIN)
	}

	if v.Email != nil && *v.Email != "" && !isValidEmail(*v.Email) {
		return fmt.Errorf("invalid email format: %s", *v.Email)
	}

	return nil
}

// RegenerateCode draws a new vendor code candidate
func (v *Vendor) RegenerateCode() {
	v.Code = gst.GenerateVendorCode()
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (v *Vendor) UpdateTimestamp() {
	v.UpdatedAt = time.Now()
}
