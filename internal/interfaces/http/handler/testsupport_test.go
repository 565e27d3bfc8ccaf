package handler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	inventoryapp "github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/application/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the real application services under test.

type stubStockEntryRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]inventory.StockEntry
}

func newStubStockEntryRepository() *stubStockEntryRepository {
	return &stubStockEntryRepository{entries: make(map[uuid.UUID]inventory.StockEntry)}
}

func (r *stubStockEntryRepository) put(entry *inventory.StockEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = *entry
}

func (r *stubStockEntryRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &entry, nil
}

func (r *stubStockEntryRepository) FindByVariantAndLocation(_ context.Context, variantID, locationID uuid.UUID) (*inventory.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.VariantID == variantID && entry.LocationID == locationID {
			found := entry
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubStockEntryRepository) FindByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []inventory.StockEntry
	for _, entry := range r.entries {
		if entry.VariantID == variantID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *stubStockEntryRepository) FindByLocation(_ context.Context, locationID uuid.UUID, _ shared.Filter) ([]inventory.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []inventory.StockEntry
	for _, entry := range r.entries {
		if entry.LocationID == locationID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *stubStockEntryRepository) FindAll(_ context.Context, filter inventory.StockEntryFilter) ([]inventory.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []inventory.StockEntry
	for _, entry := range r.entries {
		if filter.VariantID != nil && entry.VariantID != *filter.VariantID {
			continue
		}
		if filter.LocationID != nil && entry.LocationID != *filter.LocationID {
			continue
		}
		if filter.WithStockOnly && !entry.HasStock() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *stubStockEntryRepository) GetOrCreate(ctx context.Context, variantID, locationID uuid.UUID) (*inventory.StockEntry, error) {
	if entry, err := r.FindByVariantAndLocation(ctx, variantID, locationID); err == nil {
		return entry, nil
	}
	entry, err := inventory.NewStockEntry(variantID, locationID)
	if err != nil {
		return nil, err
	}
	r.put(entry)
	found := *entry
	return &found, nil
}

func (r *stubStockEntryRepository) Save(_ context.Context, entry *inventory.StockEntry) error {
	r.put(entry)
	return nil
}

func (r *stubStockEntryRepository) SaveWithLock(_ context.Context, entry *inventory.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.entries[entry.ID]
	if !ok || current.Version != entry.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *stubStockEntryRepository) SumQuantityByVariant(_ context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, entry := range r.entries {
		if entry.VariantID == variantID {
			total = total.Add(entry.Quantity)
		}
	}
	return total, nil
}

func (r *stubStockEntryRepository) SumAvailableByVariant(_ context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, entry := range r.entries {
		if entry.VariantID == variantID {
			total = total.Add(entry.Quantity.Sub(entry.Reserved))
		}
	}
	return total, nil
}

func (r *stubStockEntryRepository) CountWithStockByLocation(_ context.Context, locationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, entry := range r.entries {
		if entry.LocationID == locationID && entry.HasStock() {
			count++
		}
	}
	return count, nil
}

func (r *stubStockEntryRepository) Count(ctx context.Context, filter inventory.StockEntryFilter) (int64, error) {
	entries, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

var _ inventory.StockEntryRepository = (*stubStockEntryRepository)(nil)

type stubMovementRepository struct {
	mu        sync.Mutex
	movements []inventory.Movement
}

func newStubMovementRepository() *stubMovementRepository {
	return &stubMovementRepository{}
}

func (r *stubMovementRepository) Create(_ context.Context, movement *inventory.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *stubMovementRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, movement := range r.movements {
		if movement.ID == id {
			found := movement
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubMovementRepository) FindAll(_ context.Context, filter inventory.MovementFilter) ([]inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var movements []inventory.Movement
	for _, movement := range r.movements {
		if filter.VariantID != nil && movement.VariantID != *filter.VariantID {
			continue
		}
		if filter.LocationID != nil && movement.LocationID != *filter.LocationID {
			continue
		}
		if filter.OrderID != nil && (movement.OrderID == nil || *movement.OrderID != *filter.OrderID) {
			continue
		}
		if filter.Reason != nil && movement.Reason != *filter.Reason {
			continue
		}
		movements = append(movements, movement)
	}
	return movements, nil
}

func (r *stubMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	movements, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(movements)), nil
}

func (r *stubMovementRepository) SumDeltaByVariantAndLocation(_ context.Context, variantID, locationID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, movement := range r.movements {
		if movement.VariantID == variantID && movement.LocationID == locationID && movement.Reason.AffectsQuantity() {
			total = total.Add(movement.Delta)
		}
	}
	return total, nil
}

var _ inventory.MovementRepository = (*stubMovementRepository)(nil)

type stubLocationRepository struct {
	mu        sync.Mutex
	locations map[uuid.UUID]inventory.Location
}

func newStubLocationRepository() *stubLocationRepository {
	return &stubLocationRepository{locations: make(map[uuid.UUID]inventory.Location)}
}

func (r *stubLocationRepository) put(location *inventory.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[location.ID] = *location
}

func (r *stubLocationRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &location, nil
}

func (r *stubLocationRepository) FindAll(_ context.Context, filter inventory.LocationFilter) ([]inventory.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var locations []inventory.Location
	for _, location := range r.locations {
		if filter.ActiveOnly && !location.Active {
			continue
		}
		if filter.Type != nil && location.Type != *filter.Type {
			continue
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (r *stubLocationRepository) Save(_ context.Context, location *inventory.Location) error {
	r.put(location)
	return nil
}

func (r *stubLocationRepository) SaveWithLock(_ context.Context, location *inventory.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.locations[location.ID]
	if !ok || current.Version != location.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.locations[location.ID] = *location
	return nil
}

func (r *stubLocationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

func (r *stubLocationRepository) Count(ctx context.Context, filter inventory.LocationFilter) (int64, error) {
	locations, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(locations)), nil
}

var _ inventory.LocationRepository = (*stubLocationRepository)(nil)

// handlerFixture wires real application services over the in-memory stores
type handlerFixture struct {
	entryRepo    *stubStockEntryRepository
	movementRepo *stubMovementRepository
	locationRepo *stubLocationRepository
	facade       *inventoryapp.InventoryService
}

func newHandlerFixture() *handlerFixture {
	entryRepo := newStubStockEntryRepository()
	movementRepo := newStubMovementRepository()
	locationRepo := newStubLocationRepository()
	scope := inventoryapp.NewNoOpTransactionScope(entryRepo, movementRepo, locationRepo)

	ledger := inventoryapp.NewLedgerService(entryRepo, movementRepo, scope)
	reservation := inventoryapp.NewReservationService(entryRepo, scope, false)
	transfer := inventoryapp.NewTransferService(scope)
	locations := inventoryapp.NewLocationService(locationRepo, entryRepo, scope)
	movements := inventoryapp.NewMovementService(movementRepo)
	facade := inventoryapp.NewInventoryService(
		ledger, reservation, transfer, locations, movements,
		inventory.NewAllocationService(), entryRepo, locationRepo,
	)

	return &handlerFixture{
		entryRepo:    entryRepo,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
		facade:       facade,
	}
}

// seedEntry installs an entry with the given quantities directly, backing it
// with an active location so allocation treats the entry as fulfillable
func (f *handlerFixture) seedEntry(variantID, locationID uuid.UUID, quantity, reserved int64) *inventory.StockEntry {
	if _, err := f.locationRepo.FindByID(context.Background(), locationID); err != nil {
		location, _ := inventory.NewLocation("Location "+locationID.String()[:8], inventory.LocationTypeWarehouse)
		location.ID = locationID
		f.locationRepo.put(location)
	}
	entry, _ := inventory.NewStockEntry(variantID, locationID)
	entry.Quantity = decimal.NewFromInt(quantity)
	entry.Reserved = decimal.NewFromInt(reserved)
	f.entryRepo.put(entry)
	return entry
}

// seedLocation installs a location directly
func (f *handlerFixture) seedLocation(name, locType string) *inventory.Location {
	location, _ := inventory.NewLocation(name, inventory.LocationType(locType))
	f.locationRepo.put(location)
	return location
}
