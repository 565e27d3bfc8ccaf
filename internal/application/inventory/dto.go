package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockEntryResponse represents a stock entry in API responses
type StockEntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	VariantID  uuid.UUID       `json:"variant_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reserved   decimal.Decimal `json:"reserved"`
	Available  decimal.Decimal `json:"available"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// ToStockEntryResponse converts a stock entry to its response form
func ToStockEntryResponse(entry *inventory.StockEntry) *StockEntryResponse {
	return &StockEntryResponse{
		ID:         entry.ID,
		VariantID:  entry.VariantID,
		LocationID: entry.LocationID,
		Quantity:   entry.Quantity,
		Reserved:   entry.Reserved,
		Available:  entry.Available(),
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
		Version:    entry.Version,
	}
}

// ToStockEntryResponses converts a slice of stock entries
func ToStockEntryResponses(entries []inventory.StockEntry) []StockEntryResponse {
	responses := make([]StockEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *ToStockEntryResponse(&entries[i])
	}
	return responses
}

// EmptyStockEntryResponse is what callers see for a pair that was never
// written: a zero ledger position, not an error
func EmptyStockEntryResponse(variantID, locationID uuid.UUID) *StockEntryResponse {
	return &StockEntryResponse{
		VariantID:  variantID,
		LocationID: locationID,
		Quantity:   decimal.Zero,
		Reserved:   decimal.Zero,
		Available:  decimal.Zero,
	}
}

// AdjustInventoryRequest asks for a signed on-hand quantity change
type AdjustInventoryRequest struct {
	VariantID  uuid.UUID       `json:"variant_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Delta      decimal.Decimal `json:"delta" binding:"required"`
	OrderID    *uuid.UUID      `json:"order_id"`
}

// ReservationItem is one line of a reservation batch
type ReservationItem struct {
	VariantID  uuid.UUID       `json:"variant_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// ReserveStockRequest reserves a batch of items atomically
type ReserveStockRequest struct {
	Items   []ReservationItem `json:"items" binding:"required,min=1,dive"`
	OrderID *uuid.UUID        `json:"order_id"`
}

// ReleaseStockRequest returns previously reserved items to availability
type ReleaseStockRequest struct {
	Items   []ReservationItem `json:"items" binding:"required,min=1,dive"`
	OrderID *uuid.UUID        `json:"order_id"`
}

// FulfillStockRequest converts a reservation into a permanent decrement
type FulfillStockRequest struct {
	VariantID  uuid.UUID       `json:"variant_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	OrderID    *uuid.UUID      `json:"order_id"`
}

// FailedReservationItem reports one batch line that could not be reserved
type FailedReservationItem struct {
	Index      int       `json:"index"`
	VariantID  uuid.UUID `json:"variant_id"`
	LocationID uuid.UUID `json:"location_id"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
}

// ReservationResult reports the outcome of a reservation batch. Either every
// item was reserved or none were; Failed lists the items that blocked it.
type ReservationResult struct {
	Reserved []StockEntryResponse    `json:"reserved"`
	Failed   []FailedReservationItem `json:"failed,omitempty"`
}

// TransferInventoryRequest moves quantity between two locations atomically
type TransferInventoryRequest struct {
	VariantID      uuid.UUID       `json:"variant_id" binding:"required"`
	FromLocationID uuid.UUID       `json:"from_location_id" binding:"required"`
	ToLocationID   uuid.UUID       `json:"to_location_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
}

// TransferResult carries both legs of a completed transfer
type TransferResult struct {
	From *StockEntryResponse `json:"from"`
	To   *StockEntryResponse `json:"to"`
}

// LocationAvailability is one location's position for an availability check
type LocationAvailability struct {
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reserved   decimal.Decimal `json:"reserved"`
	Available  decimal.Decimal `json:"available"`
}

// AvailabilityResult answers a variant-wide availability check
type AvailabilityResult struct {
	VariantID      uuid.UUID              `json:"variant_id"`
	TotalQuantity  decimal.Decimal        `json:"total_quantity"`
	TotalAvailable decimal.Decimal        `json:"total_available"`
	Fulfillable    bool                   `json:"fulfillable"`
	Locations      []LocationAvailability `json:"locations"`
}

// CreateLocationRequest registers a new fulfillment location
type CreateLocationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Type string `json:"type" binding:"required,oneof=warehouse store"`
}

// UpdateLocationRequest changes a location's details
type UpdateLocationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Type string `json:"type" binding:"required,oneof=warehouse store"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToLocationResponse converts a location to its response form
func ToLocationResponse(location *inventory.Location) *LocationResponse {
	return &LocationResponse{
		ID:        location.ID,
		Name:      location.Name,
		Type:      location.Type.String(),
		Active:    location.Active,
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
		Version:   location.Version,
	}
}

// ToLocationResponses converts a slice of locations
func ToLocationResponses(locations []inventory.Location) []LocationResponse {
	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = *ToLocationResponse(&locations[i])
	}
	return responses
}

// LocationWithInventoryResponse pairs a location with its stock entries
type LocationWithInventoryResponse struct {
	Location LocationResponse     `json:"location"`
	Entries  []StockEntryResponse `json:"entries"`
}

// LocationListFilter represents filter options for location listing
type LocationListFilter struct {
	Type       string `form:"type" binding:"omitempty,oneof=warehouse store"`
	ActiveOnly bool   `form:"active_only"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementResponse represents a movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	VariantID     uuid.UUID       `json:"variant_id"`
	LocationID    uuid.UUID       `json:"location_id"`
	Delta         decimal.Decimal `json:"delta"`
	Reason        string          `json:"reason"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToMovementResponse converts a movement to its response form
func ToMovementResponse(movement *inventory.Movement) *MovementResponse {
	return &MovementResponse{
		ID:            movement.ID,
		VariantID:     movement.VariantID,
		LocationID:    movement.LocationID,
		Delta:         movement.Delta,
		Reason:        movement.Reason.String(),
		OrderID:       movement.OrderID,
		BalanceBefore: movement.BalanceBefore,
		BalanceAfter:  movement.BalanceAfter,
		CreatedAt:     movement.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *ToMovementResponse(&movements[i])
	}
	return responses
}

// MovementListFilter represents filter options for movement history queries
type MovementListFilter struct {
	VariantID  *uuid.UUID `form:"variant_id"`
	LocationID *uuid.UUID `form:"location_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	Reason     string     `form:"reason" binding:"omitempty,oneof=adjustment transfer_out transfer_in reservation release fulfillment"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockEntryListFilter represents filter options for stock entry listing
type StockEntryListFilter struct {
	VariantID     *uuid.UUID `form:"variant_id"`
	LocationID    *uuid.UUID `form:"location_id"`
	WithStockOnly bool       `form:"with_stock_only"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
