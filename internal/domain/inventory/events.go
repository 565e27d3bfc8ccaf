package inventory

import (
	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeStockEntry = "StockEntry"
	AggregateTypeLocation   = "Location"
)

// Event type constants
const (
	EventTypeStockAdjusted       = "StockAdjusted"
	EventTypeStockReserved       = "StockReserved"
	EventTypeStockReleased       = "StockReleased"
	EventTypeStockFulfilled      = "StockFulfilled"
	EventTypeStockTransferred    = "StockTransferred"
	EventTypeLocationCreated     = "LocationCreated"
	EventTypeLocationUpdated     = "LocationUpdated"
	EventTypeLocationActivated   = "LocationActivated"
	EventTypeLocationDeactivated = "LocationDeactivated"
)

// StockAdjustedEvent is raised when on-hand quantity changes by a signed delta
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockEntryID uuid.UUID       `json:"stock_entry_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Delta        decimal.Decimal `json:"delta"`
	NewQuantity  decimal.Decimal `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(entry *StockEntry, delta decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockEntry, entry.ID),
		StockEntryID:    entry.ID,
		VariantID:       entry.VariantID,
		LocationID:      entry.LocationID,
		Delta:           delta,
		NewQuantity:     entry.Quantity,
	}
}

// StockReservedEvent is raised when stock is soft-held for an order
type StockReservedEvent struct {
	shared.BaseDomainEvent
	StockEntryID uuid.UUID       `json:"stock_entry_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	NewReserved  decimal.Decimal `json:"new_reserved"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(entry *StockEntry, quantity decimal.Decimal) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeStockEntry, entry.ID),
		StockEntryID:    entry.ID,
		VariantID:       entry.VariantID,
		LocationID:      entry.LocationID,
		Quantity:        quantity,
		NewReserved:     entry.Reserved,
	}
}

// StockReleasedEvent is raised when a reservation is returned to availability
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	StockEntryID uuid.UUID       `json:"stock_entry_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	NewReserved  decimal.Decimal `json:"new_reserved"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(entry *StockEntry, quantity decimal.Decimal) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeStockEntry, entry.ID),
		StockEntryID:    entry.ID,
		VariantID:       entry.VariantID,
		LocationID:      entry.LocationID,
		Quantity:        quantity,
		NewReserved:     entry.Reserved,
	}
}

// StockFulfilledEvent is raised when a reservation becomes a permanent decrement
type StockFulfilledEvent struct {
	shared.BaseDomainEvent
	StockEntryID uuid.UUID       `json:"stock_entry_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	NewQuantity  decimal.Decimal `json:"new_quantity"`
}

// NewStockFulfilledEvent creates a new StockFulfilledEvent
func NewStockFulfilledEvent(entry *StockEntry, quantity decimal.Decimal, orderID *uuid.UUID) *StockFulfilledEvent {
	return &StockFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockFulfilled, AggregateTypeStockEntry, entry.ID),
		StockEntryID:    entry.ID,
		VariantID:       entry.VariantID,
		LocationID:      entry.LocationID,
		Quantity:        quantity,
		OrderID:         orderID,
		NewQuantity:     entry.Quantity,
	}
}

// StockTransferredEvent is raised once per completed transfer, on the source entry
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	VariantID      uuid.UUID       `json:"variant_id"`
	FromLocationID uuid.UUID       `json:"from_location_id"`
	ToLocationID   uuid.UUID       `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(from *StockEntry, toLocationID uuid.UUID, quantity decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeStockEntry, from.ID),
		VariantID:       from.VariantID,
		FromLocationID:  from.LocationID,
		ToLocationID:    toLocationID,
		Quantity:        quantity,
	}
}

// LocationCreatedEvent is raised when a location is registered
type LocationCreatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID    `json:"location_id"`
	Name       string       `json:"name"`
	Type       LocationType `json:"type"`
}

// NewLocationCreatedEvent creates a new LocationCreatedEvent
func NewLocationCreatedEvent(location *Location) *LocationCreatedEvent {
	return &LocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationCreated, AggregateTypeLocation, location.ID),
		LocationID:      location.ID,
		Name:            location.Name,
		Type:            location.Type,
	}
}

// LocationUpdatedEvent is raised when a location's details change
type LocationUpdatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID    `json:"location_id"`
	Name       string       `json:"name"`
	Type       LocationType `json:"type"`
}

// NewLocationUpdatedEvent creates a new LocationUpdatedEvent
func NewLocationUpdatedEvent(location *Location) *LocationUpdatedEvent {
	return &LocationUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationUpdated, AggregateTypeLocation, location.ID),
		LocationID:      location.ID,
		Name:            location.Name,
		Type:            location.Type,
	}
}

// LocationActivatedEvent is raised when a location is re-enabled
type LocationActivatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
}

// NewLocationActivatedEvent creates a new LocationActivatedEvent
func NewLocationActivatedEvent(location *Location) *LocationActivatedEvent {
	return &LocationActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationActivated, AggregateTypeLocation, location.ID),
		LocationID:      location.ID,
	}
}

// LocationDeactivatedEvent is raised when a location is retired
type LocationDeactivatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
}

// NewLocationDeactivatedEvent creates a new LocationDeactivatedEvent
func NewLocationDeactivatedEvent(location *Location) *LocationDeactivatedEvent {
	return &LocationDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationDeactivated, AggregateTypeLocation, location.ID),
		LocationID:      location.ID,
	}
}
