package models

import (
	"fmt"
	"strings"
	"time"

	"gst-invoice-api/internal/gst"

	"github.com/google/uuid"
)

// Customer represents a buyer on sales invoices
type Customer struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	Name      string    `json:"name" db:"name" validate:"required,max=255"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	StateCode *string   `json:"state_code,omitempty" db:"state_code" validate:"omitempty,len=2,numeric"`
	Email     *string   `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCustomer creates a new customer with generated ID and timestamps
func NewCustomer(name string) *Customer {
	now := time.Now()
	return &Customer{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the customer data
func (c *Customer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer name is required")
	}

	if c.GSTIN != nil && !gst.IsValidGSTNumber(*c.GSTIN) {
		return fmt.Errorf("invalid GSTIN: %s", *c.GSTIN)
	}

	if c.Email != nil && *c.Email != "" && !isValidEmail(*c.Email) {
		return fmt.Errorf("invalid email format: %s", *c.Email)
	}

	if c.Phone != nil && !IsValidPhone(*c.Phone) {
		return fmt.Errorf("invalid phone number: %s", *c.Phone)
	}

	return nil
}

// IsRegistered returns true if the customer has a GSTIN
func (c *Customer) IsRegistered() bool {
	return c.GSTIN != nil && strings.TrimSpace(*c.GSTIN) != ""
}

// GetStateCode returns the explicit state code, falling back to the GSTIN prefix
func (c *Customer) GetStateCode() string {
	if c.StateCode != nil && *c.StateCode != "" {
		return *c.StateCode
	}
	if c.GSTIN != nil {
		return gst.StateCodeFromGSTIN(*c.GSTIN)
	}
	return ""
}

// UpdateTimestamp updates the UpdatedAt timestamp
func (c *Customer) UpdateTimestamp() {
	c.UpdatedAt = time.Now()
}

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
