package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockEntryRepository defines the interface for stock entry persistence
type StockEntryRepository interface {
	// FindByID finds a stock entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockEntry, error)

	// FindByVariantAndLocation finds the entry for a variant-location pair
	FindByVariantAndLocation(ctx context.Context, variantID, locationID uuid.UUID) (*StockEntry, error)

	// FindByVariant finds all entries for a variant across locations
	FindByVariant(ctx context.Context, variantID uuid.UUID) ([]StockEntry, error)

	// FindByLocation finds entries at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockEntry, error)

	// FindAll finds entries matching the filter
	FindAll(ctx context.Context, filter StockEntryFilter) ([]StockEntry, error)

	// GetOrCreate returns the entry for the pair, creating an empty one when absent
	GetOrCreate(ctx context.Context, variantID, locationID uuid.UUID) (*StockEntry, error)

	// Save creates or updates a stock entry
	Save(ctx context.Context, entry *StockEntry) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, entry *StockEntry) error

	// SumQuantityByVariant totals on-hand quantity for a variant across locations
	SumQuantityByVariant(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error)

	// SumAvailableByVariant totals available (on-hand minus reserved) for a variant
	SumAvailableByVariant(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error)

	// CountWithStockByLocation counts entries at a location still holding
	// on-hand or reserved quantity
	CountWithStockByLocation(ctx context.Context, locationID uuid.UUID) (int64, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, filter StockEntryFilter) (int64, error)
}

// MovementRepository defines the interface for the append-only movement log
type MovementRepository interface {
	// Create appends a movement record; movements are never updated
	Create(ctx context.Context, movement *Movement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindAll finds movements matching the filter
	FindAll(ctx context.Context, filter MovementFilter) ([]Movement, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, filter MovementFilter) (int64, error)

	// SumDeltaByVariantAndLocation totals quantity-affecting deltas for a pair
	// since creation; used for ledger reconciliation against the entry
	SumDeltaByVariantAndLocation(ctx context.Context, variantID, locationID uuid.UUID) (decimal.Decimal, error)
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindAll finds locations matching the filter
	FindAll(ctx context.Context, filter LocationFilter) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, location *Location) error

	// Delete hard-deletes a location; callers must check for live stock first
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts locations matching the filter
	Count(ctx context.Context, filter LocationFilter) (int64, error)
}

// StockEntryFilter filters stock entry queries
type StockEntryFilter struct {
	shared.Filter
	VariantID     *uuid.UUID
	LocationID    *uuid.UUID
	WithStockOnly bool // Only entries holding on-hand or reserved quantity
}

// MovementFilter filters movement log queries with a closed set of
// typed parameters
type MovementFilter struct {
	shared.Filter
	VariantID  *uuid.UUID
	LocationID *uuid.UUID
	OrderID    *uuid.UUID
	Reason     *MovementReason
	From       *time.Time
	To         *time.Time
}

// LocationFilter filters location queries
type LocationFilter struct {
	shared.Filter
	Type       *LocationType
	ActiveOnly bool
}
