package inventory

import (
	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockEntry tracks on-hand and reserved quantity of one product variant at
// one fulfillment location. It is the aggregate root for all stock mutations.
// The composite identifier is VariantID + LocationID.
type StockEntry struct {
	shared.BaseAggregateRoot
	VariantID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_entry_variant_location,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_entry_variant_location,priority:2"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // On-hand quantity
	Reserved   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Held for pending orders
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewStockEntry creates an empty stock entry for a variant-location combination
func NewStockEntry(variantID, locationID uuid.UUID) (*StockEntry, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}

	entry := &StockEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VariantID:         variantID,
		LocationID:        locationID,
		Quantity:          decimal.Zero,
		Reserved:          decimal.Zero,
	}

	return entry, nil
}

// Available returns the sellable-right-now quantity (on-hand minus reserved)
func (e *StockEntry) Available() decimal.Decimal {
	return e.Quantity.Sub(e.Reserved)
}

// HasStock reports whether any on-hand or reserved quantity remains
func (e *StockEntry) HasStock() bool {
	return e.Quantity.IsPositive() || e.Reserved.IsPositive()
}

// AdjustQuantity applies a signed delta to the on-hand quantity.
// The resulting quantity must stay non-negative and must still cover the
// currently reserved amount, otherwise nothing is mutated.
func (e *StockEntry) AdjustQuantity(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	newQuantity := e.Quantity.Add(delta)
	if newQuantity.IsNegative() {
		return shared.ErrInvalidAdjustment
	}
	if newQuantity.LessThan(e.Reserved) {
		return shared.ErrOverReservation
	}

	e.Quantity = newQuantity
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewStockAdjustedEvent(e, delta))

	return nil
}

// AdjustReserved applies a signed delta to the reserved quantity.
// Reserved must stay within [0, quantity], otherwise nothing is mutated.
func (e *StockEntry) AdjustReserved(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reservation delta cannot be zero")
	}

	newReserved := e.Reserved.Add(delta)
	if newReserved.IsNegative() {
		return shared.ErrInvalidAdjustment
	}
	if newReserved.GreaterThan(e.Quantity) {
		return shared.ErrOverReservation
	}

	e.Reserved = newReserved
	e.Touch()
	e.IncrementVersion()
	if delta.IsPositive() {
		e.AddDomainEvent(NewStockReservedEvent(e, delta))
	} else {
		e.AddDomainEvent(NewStockReleasedEvent(e, delta.Neg()))
	}

	return nil
}

// Fulfill converts a reservation into a permanent decrement: both on-hand and
// reserved drop by quantity as one state transition. This is the terminal
// transition of a reservation and cannot be reversed.
func (e *StockEntry) Fulfill(quantity decimal.Decimal, orderID *uuid.UUID) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Fulfillment quantity must be positive")
	}
	if e.Reserved.LessThan(quantity) {
		return shared.ErrInsufficientReservation
	}

	e.Quantity = e.Quantity.Sub(quantity)
	e.Reserved = e.Reserved.Sub(quantity)
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewStockFulfilledEvent(e, quantity, orderID))

	return nil
}

// CheckInvariants verifies the core stock invariants hold
func (e *StockEntry) CheckInvariants() error {
	if e.Quantity.IsNegative() {
		return shared.ErrInvalidAdjustment
	}
	if e.Reserved.IsNegative() || e.Reserved.GreaterThan(e.Quantity) {
		return shared.ErrOverReservation
	}
	return nil
}

var _ shared.AggregateRoot = (*StockEntry)(nil)
