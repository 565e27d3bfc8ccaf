package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryService is the single entry point Cart, Orders, and admin tooling
// call into. It holds no state of its own; every operation delegates to one
// of the focused services or the allocation strategy.
type InventoryService struct {
	ledger      *LedgerService
	reservation *ReservationService
	transfer    *TransferService
	locations   *LocationService
	movements    *MovementService
	allocation   *inventory.AllocationService
	entryRepo    inventory.StockEntryRepository
	locationRepo inventory.LocationRepository
}

// NewInventoryService composes the inventory facade
func NewInventoryService(
	ledger *LedgerService,
	reservation *ReservationService,
	transfer *TransferService,
	locations *LocationService,
	movements *MovementService,
	allocation *inventory.AllocationService,
	entryRepo inventory.StockEntryRepository,
	locationRepo inventory.LocationRepository,
) *InventoryService {
	return &InventoryService{
		ledger:       ledger,
		reservation:  reservation,
		transfer:     transfer,
		locations:    locations,
		movements:    movements,
		allocation:   allocation,
		entryRepo:    entryRepo,
		locationRepo: locationRepo,
	}
}

// Ledger returns the stock ledger service
func (s *InventoryService) Ledger() *LedgerService { return s.ledger }

// Reservations returns the reservation service
func (s *InventoryService) Reservations() *ReservationService { return s.reservation }

// Transfers returns the transfer service
func (s *InventoryService) Transfers() *TransferService { return s.transfer }

// Locations returns the location registry service
func (s *InventoryService) Locations() *LocationService { return s.locations }

// Movements returns the movement query service
func (s *InventoryService) Movements() *MovementService { return s.movements }

// CheckAvailability answers whether the required quantity of a variant can
// be fulfilled from a single location, with the per-location breakdown
func (s *InventoryService) CheckAvailability(ctx context.Context, variantID uuid.UUID, required decimal.Decimal) (*AvailabilityResult, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	entries, err := s.entryRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		VariantID:      variantID,
		TotalQuantity:  decimal.Zero,
		TotalAvailable: decimal.Zero,
		Locations:      make([]LocationAvailability, 0, len(entries)),
	}
	for i := range entries {
		entry := &entries[i]
		result.TotalQuantity = result.TotalQuantity.Add(entry.Quantity)
		result.TotalAvailable = result.TotalAvailable.Add(entry.Available())
		result.Locations = append(result.Locations, LocationAvailability{
			LocationID: entry.LocationID,
			Quantity:   entry.Quantity,
			Reserved:   entry.Reserved,
			Available:  entry.Available(),
		})
	}

	result.Fulfillable = len(s.allocation.RankCandidates(entries, required)) > 0
	return result, nil
}

// GetInventoryByVariant returns all ledger entries for a variant
func (s *InventoryService) GetInventoryByVariant(ctx context.Context, variantID uuid.UUID) ([]StockEntryResponse, error) {
	return s.ledger.GetByVariant(ctx, variantID)
}

// GetInventoryByLocation returns ledger entries at a location
func (s *InventoryService) GetInventoryByLocation(ctx context.Context, locationID uuid.UUID) ([]StockEntryResponse, error) {
	return s.ledger.GetByLocation(ctx, locationID, shared.DefaultFilter())
}

// AdjustInventory applies a signed on-hand delta
func (s *InventoryService) AdjustInventory(ctx context.Context, req AdjustInventoryRequest) (*StockEntryResponse, error) {
	return s.ledger.AdjustQuantity(ctx, req)
}

// TransferInventory moves quantity between two locations atomically
func (s *InventoryService) TransferInventory(ctx context.Context, req TransferInventoryRequest) (*TransferResult, error) {
	return s.transfer.Transfer(ctx, req)
}

// ReserveStock places soft holds for a batch, all items or none
func (s *InventoryService) ReserveStock(ctx context.Context, req ReserveStockRequest) (*ReservationResult, error) {
	return s.reservation.Reserve(ctx, req)
}

// ReleaseStock returns previously reserved quantity to availability
func (s *InventoryService) ReleaseStock(ctx context.Context, req ReleaseStockRequest) error {
	return s.reservation.Release(ctx, req)
}

// FulfillReservedStock converts a reservation into a permanent decrement
func (s *InventoryService) FulfillReservedStock(ctx context.Context, req FulfillStockRequest) (*StockEntryResponse, error) {
	return s.reservation.Fulfill(ctx, req)
}

// FindBestLocationForFulfillment picks the single location best placed to
// fulfill the required quantity of a variant. Deactivated locations are
// retired from fulfillment, so their entries never rank as candidates.
func (s *InventoryService) FindBestLocationForFulfillment(ctx context.Context, variantID uuid.UUID, required decimal.Decimal) (uuid.UUID, error) {
	entries, err := s.entryRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return uuid.Nil, err
	}

	active, err := s.locationRepo.FindAll(ctx, inventory.LocationFilter{ActiveOnly: true})
	if err != nil {
		return uuid.Nil, err
	}
	activeIDs := make(map[uuid.UUID]bool, len(active))
	for _, location := range active {
		activeIDs[location.ID] = true
	}

	fulfillable := make([]inventory.StockEntry, 0, len(entries))
	for _, entry := range entries {
		if activeIDs[entry.LocationID] {
			fulfillable = append(fulfillable, entry)
		}
	}

	return s.allocation.FindBestLocation(fulfillable, required)
}
