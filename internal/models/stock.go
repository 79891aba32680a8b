package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// MovementReason records which document caused a movement
type MovementReason string

const (
	ReasonPurchase   MovementReason = "purchase"
	ReasonSale       MovementReason = "sale"
	ReasonReturn     MovementReason = "return"
	ReasonAdjustment MovementReason = "adjustment"
)

// StockMovement is an append-only entry in the stock ledger
type StockMovement struct {
	ID              string          `json:"id" db:"id"`
	ProductID       string          `json:"product_id" db:"product_id"`
	MovementType    MovementType    `json:"movement_type" db:"movement_type"`
	Reason          MovementReason  `json:"reason" db:"reason"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	ReferenceID     *string         `json:"reference_id,omitempty" db:"reference_id"`
	ReferenceNumber *string         `json:"reference_number,omitempty" db:"reference_number"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty" db:"expiry_date"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// NewStockMovement creates a movement with a generated ID
func NewStockMovement(productID string, movementType MovementType, reason MovementReason, qty, unitCost decimal.Decimal) *StockMovement {
	return &StockMovement{
		ID:           uuid.New().String(),
		ProductID:    productID,
		MovementType: movementType,
		Reason:       reason,
		Quantity:     qty,
		UnitCost:     unitCost,
		CreatedAt:    time.Now(),
	}
}

// Validate validates the movement
func (m *StockMovement) Validate() error {
	if m.ProductID == "" {
		return fmt.Errorf("product ID is required")
	}
	if m.MovementType != MovementIn && m.MovementType != MovementOut {
		return fmt.Errorf("invalid movement type: %s", m.MovementType)
	}
	if !m.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be greater than 0")
	}
	if m.UnitCost.IsNegative() {
		return fmt.Errorf("unit cost cannot be negative")
	}
	return nil
}

// SignedQuantity is positive for receipts and negative for issues
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.MovementType == MovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockLevel is the current position of one product
type StockLevel struct {
	ProductID    string          `json:"product_id" db:"product_id"`
	ProductName  string          `json:"product_name" db:"product_name"`
	Unit         string          `json:"unit" db:"unit"`
	OnHand       decimal.Decimal `json:"on_hand" db:"qty_on_hand"`
	AverageCost  decimal.Decimal `json:"average_cost" db:"unit_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level" db:"reorder_level"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Value returns the weighted-average valuation of the stock on hand
func (s *StockLevel) Value() decimal.Decimal {
	return s.OnHand.Mul(s.AverageCost).Round(2)
}

// BelowReorderLevel returns true when the product needs restocking
func (s *StockLevel) BelowReorderLevel() bool {
	return s.ReorderLevel.IsPositive() && s.OnHand.LessThanOrEqual(s.ReorderLevel)
}

// Receive applies an inward movement, recomputing the weighted average cost
func (s *StockLevel) Receive(qty, unitCost decimal.Decimal) {
	newQty := s.OnHand.Add(qty)
	if newQty.IsZero() || s.OnHand.IsNegative() {
		s.AverageCost = unitCost
	} else {
		s.AverageCost = s.OnHand.Mul(s.AverageCost).Add(qty.Mul(unitCost)).Div(newQty)
	}
	s.OnHand = newQty
}

// Issue applies an outward movement. The average cost is unchanged.
func (s *StockLevel) Issue(qty decimal.Decimal) {
	s.OnHand = s.OnHand.Sub(qty)
}

// ExpiringStock is a received batch approaching its expiry date
type ExpiringStock struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
}
