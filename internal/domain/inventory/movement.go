package inventory

import (
	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementReason classifies what caused a stock movement
type MovementReason string

const (
	// MovementReasonAdjustment is a manual on-hand correction
	MovementReasonAdjustment MovementReason = "adjustment"
	// MovementReasonTransferOut is the debit leg of a location transfer
	MovementReasonTransferOut MovementReason = "transfer_out"
	// MovementReasonTransferIn is the credit leg of a location transfer
	MovementReasonTransferIn MovementReason = "transfer_in"
	// MovementReasonReservation is a soft hold placed for an order
	MovementReasonReservation MovementReason = "reservation"
	// MovementReasonRelease is a reservation returned to availability
	MovementReasonRelease MovementReason = "release"
	// MovementReasonFulfillment is a reservation converted to a permanent decrement
	MovementReasonFulfillment MovementReason = "fulfillment"
)

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the movement reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case MovementReasonAdjustment,
		MovementReasonTransferOut,
		MovementReasonTransferIn,
		MovementReasonReservation,
		MovementReasonRelease,
		MovementReasonFulfillment:
		return true
	}
	return false
}

// AffectsQuantity reports whether movements with this reason change on-hand
// quantity. Reservation and release only move stock between available and
// reserved, on-hand is untouched.
func (r MovementReason) AffectsQuantity() bool {
	switch r {
	case MovementReasonAdjustment,
		MovementReasonTransferOut,
		MovementReasonTransferIn,
		MovementReasonFulfillment:
		return true
	}
	return false
}

// Movement is an immutable audit record of one ledger change. Once created,
// movements are never updated or deleted; corrections produce new movements.
type Movement struct {
	shared.BaseEntity
	VariantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_variant"`
	LocationID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_location"`
	Delta         decimal.Decimal `gorm:"type:decimal(18,4);not null"`        // Signed quantity change
	Reason        MovementReason  `gorm:"type:varchar(20);not null;index"`    // What caused the movement
	OrderID       *uuid.UUID      `gorm:"type:uuid;index:idx_movement_order"` // Originating order, when any
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`        // On-hand quantity before
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`        // On-hand quantity after
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a new movement record
func NewMovement(
	variantID uuid.UUID,
	locationID uuid.UUID,
	delta decimal.Decimal,
	reason MovementReason,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
) (*Movement, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement delta cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid movement reason")
	}

	movement := &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		VariantID:     variantID,
		LocationID:    locationID,
		Delta:         delta,
		Reason:        reason,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}

	return movement, nil
}

// WithOrderID links the movement to the order that caused it
func (m *Movement) WithOrderID(orderID uuid.UUID) *Movement {
	m.OrderID = &orderID
	return m
}

// SignedDelta returns the delta as recorded; positive means stock in,
// negative means stock out
func (m *Movement) SignedDelta() decimal.Decimal {
	return m.Delta
}
