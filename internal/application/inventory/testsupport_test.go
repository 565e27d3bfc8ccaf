package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// memStockEntryRepository is an in-memory StockEntryRepository with the same
// compare-and-swap semantics the versioned UPDATE gives the real one. Finds
// return copies, so every caller works on its own snapshot like a separate
// database session would.
type memStockEntryRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]inventory.StockEntry
}

func newMemStockEntryRepository() *memStockEntryRepository {
	return &memStockEntryRepository{entries: make(map[uuid.UUID]inventory.StockEntry)}
}

func (r *memStockEntryRepository) snapshot() map[uuid.UUID]inventory.StockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[uuid.UUID]inventory.StockEntry, len(r.entries))
	for id, entry := range r.entries {
		copied[id] = entry
	}
	return copied
}

func (r *memStockEntryRepository) restore(snapshot map[uuid.UUID]inventory.StockEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = snapshot
}

func (r *memStockEntryRepository) put(entry *inventory.StockEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = *entry
}

func (r *memStockEntryRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &entry, nil
}

func (r *memStockEntryRepository) FindByVariantAndLocation(_ context.Context, variantID, locationID uuid.UUID) (*inventory.StockEntry, error) {
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

func (r *memStockEntryRepository) FindByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.StockEntry, error) {
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

func (r *memStockEntryRepository) FindByLocation(_ context.Context, locationID uuid.UUID, _ shared.Filter) ([]inventory.StockEntry, error) {
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

func (r *memStockEntryRepository) FindAll(_ context.Context, filter inventory.StockEntryFilter) ([]inventory.StockEntry, error) {
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

func (r *memStockEntryRepository) GetOrCreate(ctx context.Context, variantID, locationID uuid.UUID) (*inventory.StockEntry, error) {
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

func (r *memStockEntryRepository) Save(_ context.Context, entry *inventory.StockEntry) error {
	r.put(entry)
	return nil
}

func (r *memStockEntryRepository) SaveWithLock(_ context.Context, entry *inventory.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.entries[entry.ID]
	if !ok || current.Version != entry.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *memStockEntryRepository) SumQuantityByVariant(_ context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
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

func (r *memStockEntryRepository) SumAvailableByVariant(_ context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
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

func (r *memStockEntryRepository) CountWithStockByLocation(_ context.Context, locationID uuid.UUID) (int64, error) {
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

func (r *memStockEntryRepository) Count(ctx context.Context, filter inventory.StockEntryFilter) (int64, error) {
	entries, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

var _ inventory.StockEntryRepository = (*memStockEntryRepository)(nil)

// memMovementRepository is an in-memory append-only MovementRepository
type memMovementRepository struct {
	mu        sync.Mutex
	movements []inventory.Movement
}

func newMemMovementRepository() *memMovementRepository {
	return &memMovementRepository{}
}

func (r *memMovementRepository) snapshot() []inventory.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]inventory.Movement(nil), r.movements...)
}

func (r *memMovementRepository) restore(snapshot []inventory.Movement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = snapshot
}

func (r *memMovementRepository) Create(_ context.Context, movement *inventory.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.Movement, error) {
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

func (r *memMovementRepository) FindAll(_ context.Context, filter inventory.MovementFilter) ([]inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var movements []inventory.Movement
	for _, movement := range r.movements {
		if matchesMovementFilter(movement, filter) {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

func (r *memMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	movements, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(movements)), nil
}

func (r *memMovementRepository) SumDeltaByVariantAndLocation(_ context.Context, variantID, locationID uuid.UUID) (decimal.Decimal, error) {
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

func matchesMovementFilter(movement inventory.Movement, filter inventory.MovementFilter) bool {
	if filter.VariantID != nil && movement.VariantID != *filter.VariantID {
		return false
	}
	if filter.LocationID != nil && movement.LocationID != *filter.LocationID {
		return false
	}
	if filter.OrderID != nil && (movement.OrderID == nil || *movement.OrderID != *filter.OrderID) {
		return false
	}
	if filter.Reason != nil && movement.Reason != *filter.Reason {
		return false
	}
	return true
}

var _ inventory.MovementRepository = (*memMovementRepository)(nil)

// memLocationRepository is an in-memory LocationRepository
type memLocationRepository struct {
	mu        sync.Mutex
	locations map[uuid.UUID]inventory.Location
}

func newMemLocationRepository() *memLocationRepository {
	return &memLocationRepository{locations: make(map[uuid.UUID]inventory.Location)}
}

func (r *memLocationRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &location, nil
}

func (r *memLocationRepository) FindAll(_ context.Context, filter inventory.LocationFilter) ([]inventory.Location, error) {
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

func (r *memLocationRepository) Save(_ context.Context, location *inventory.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[location.ID] = *location
	return nil
}

func (r *memLocationRepository) SaveWithLock(_ context.Context, location *inventory.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.locations[location.ID]
	if !ok || current.Version != location.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.locations[location.ID] = *location
	return nil
}

func (r *memLocationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

func (r *memLocationRepository) Count(ctx context.Context, filter inventory.LocationFilter) (int64, error) {
	locations, err := r.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(locations)), nil
}

var _ inventory.LocationRepository = (*memLocationRepository)(nil)

// memTransactionScope snapshots the in-memory stores on entry and restores
// them when the scoped function fails, mirroring a rolled-back transaction
type memTransactionScope struct {
	entryRepo    *memStockEntryRepository
	movementRepo *memMovementRepository
	locationRepo *memLocationRepository
}

func newMemTransactionScope(
	entryRepo *memStockEntryRepository,
	movementRepo *memMovementRepository,
	locationRepo *memLocationRepository,
) *memTransactionScope {
	return &memTransactionScope{
		entryRepo:    entryRepo,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
	}
}

func (s *memTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	entrySnapshot := s.entryRepo.snapshot()
	movementSnapshot := s.movementRepo.snapshot()

	if err := fn(s); err != nil {
		s.entryRepo.restore(entrySnapshot)
		s.movementRepo.restore(movementSnapshot)
		return err
	}
	return nil
}

func (s *memTransactionScope) EntryRepo() inventory.StockEntryRepository  { return s.entryRepo }
func (s *memTransactionScope) MovementRepo() inventory.MovementRepository { return s.movementRepo }
func (s *memTransactionScope) LocationRepo() inventory.LocationRepository { return s.locationRepo }

var _ TransactionScope = (*memTransactionScope)(nil)
var _ TransactionalRepositories = (*memTransactionScope)(nil)

// inventoryFixture wires the services against the in-memory stores
type inventoryFixture struct {
	entryRepo    *memStockEntryRepository
	movementRepo *memMovementRepository
	locationRepo *memLocationRepository
	ledger       *LedgerService
	reservation  *ReservationService
	transfer     *TransferService
	locations    *LocationService
	movements    *MovementService
	facade       *InventoryService
}

func newInventoryFixture(logReservations bool) *inventoryFixture {
	entryRepo := newMemStockEntryRepository()
	movementRepo := newMemMovementRepository()
	locationRepo := newMemLocationRepository()
	scope := newMemTransactionScope(entryRepo, movementRepo, locationRepo)

	ledger := NewLedgerService(entryRepo, movementRepo, scope)
	reservation := NewReservationService(entryRepo, scope, logReservations)
	transfer := NewTransferService(scope)
	locations := NewLocationService(locationRepo, entryRepo, scope)
	movements := NewMovementService(movementRepo)
	facade := NewInventoryService(ledger, reservation, transfer, locations, movements, inventory.NewAllocationService(), entryRepo, locationRepo)

	return &inventoryFixture{
		entryRepo:    entryRepo,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
		ledger:       ledger,
		reservation:  reservation,
		transfer:     transfer,
		locations:    locations,
		movements:    movements,
		facade:       facade,
	}
}

// seedEntry installs an entry with the given quantities directly
func (f *inventoryFixture) seedEntry(variantID, locationID uuid.UUID, quantity, reserved int64) *inventory.StockEntry {
	f.seedLocation(locationID, true)
	entry, _ := inventory.NewStockEntry(variantID, locationID)
	entry.Quantity = decimal.NewFromInt(quantity)
	entry.Reserved = decimal.NewFromInt(reserved)
	f.entryRepo.put(entry)
	return entry
}

// seedLocation registers a warehouse under the given ID, leaving an already
// registered location untouched
func (f *inventoryFixture) seedLocation(locationID uuid.UUID, active bool) {
	f.locationRepo.mu.Lock()
	defer f.locationRepo.mu.Unlock()
	if _, ok := f.locationRepo.locations[locationID]; ok {
		return
	}
	location, _ := inventory.NewLocation("Location "+locationID.String()[:8], inventory.LocationTypeWarehouse)
	location.ID = locationID
	location.Active = active
	f.locationRepo.locations[locationID] = *location
}
