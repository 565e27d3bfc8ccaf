package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// LedgerService owns all on-hand quantity mutations. Every mutation runs in
// one store transaction together with its movement record, guarded by
// optimistic locking on the entry's version column.
type LedgerService struct {
	entryRepo      inventory.StockEntryRepository
	movementRepo   inventory.MovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	txTimeout      time.Duration
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	entryRepo inventory.StockEntryRepository,
	movementRepo inventory.MovementRepository,
	txScope TransactionScope,
) *LedgerService {
	return &LedgerService{
		entryRepo:    entryRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		txTimeout:    DefaultTxTimeout,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxTimeout overrides the per-transaction timeout
func (s *LedgerService) SetTxTimeout(timeout time.Duration) {
	s.txTimeout = timeout
}

// GetEntry returns the ledger position for a variant-location pair. A pair
// that was never written reads as a zero position, not an error.
func (s *LedgerService) GetEntry(ctx context.Context, variantID, locationID uuid.UUID) (*StockEntryResponse, error) {
	entry, err := s.entryRepo.FindByVariantAndLocation(ctx, variantID, locationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return EmptyStockEntryResponse(variantID, locationID), nil
		}
		return nil, err
	}
	return ToStockEntryResponse(entry), nil
}

// List returns stock entries matching the filter
func (s *LedgerService) List(ctx context.Context, filter StockEntryListFilter) ([]StockEntryResponse, int64, error) {
	domainFilter := toStockEntryFilter(filter)

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockEntryResponses(entries), total, nil
}

// GetByVariant returns all entries for a variant across locations
func (s *LedgerService) GetByVariant(ctx context.Context, variantID uuid.UUID) ([]StockEntryResponse, error) {
	entries, err := s.entryRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return ToStockEntryResponses(entries), nil
}

// GetByLocation returns entries at a location
func (s *LedgerService) GetByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockEntryResponse, error) {
	entries, err := s.entryRepo.FindByLocation(ctx, locationID, filter)
	if err != nil {
		return nil, err
	}
	return ToStockEntryResponses(entries), nil
}

// TotalQuantity totals on-hand quantity for a variant across locations
func (s *LedgerService) TotalQuantity(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	return s.entryRepo.SumQuantityByVariant(ctx, variantID)
}

// TotalAvailable totals sellable quantity for a variant across locations
func (s *LedgerService) TotalAvailable(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	return s.entryRepo.SumAvailableByVariant(ctx, variantID)
}

// AdjustQuantity applies a signed on-hand delta for a pair. The entry is
// materialized lazily on first write, the movement is appended in the same
// transaction, and an optimistic-lock loser retries against fresh state.
func (s *LedgerService) AdjustQuantity(ctx context.Context, req AdjustInventoryRequest) (*StockEntryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.adjust_quantity",
		telemetry.SpanAttrVariantID.String(req.VariantID.String()),
		telemetry.SpanAttrLocationID.String(req.LocationID.String()),
		telemetry.SpanAttrQuantity.String(req.Delta.String()),
	)
	defer span.End()

	var (
		response *StockEntryResponse
		events   []shared.DomainEvent
	)

	err := retryOnConflict(func() error {
		txCtx, cancel := withTxTimeout(ctx, s.txTimeout)
		defer cancel()

		err := s.txScope.Execute(txCtx, func(repos TransactionalRepositories) error {
			entry, err := repos.EntryRepo().GetOrCreate(txCtx, req.VariantID, req.LocationID)
			if err != nil {
				return err
			}

			balanceBefore := entry.Quantity

			if err := entry.AdjustQuantity(req.Delta); err != nil {
				return err
			}
			if err := repos.EntryRepo().SaveWithLock(txCtx, entry); err != nil {
				return err
			}

			movement, err := inventory.NewMovement(
				entry.VariantID, entry.LocationID,
				req.Delta, inventory.MovementReasonAdjustment,
				balanceBefore, entry.Quantity,
			)
			if err != nil {
				return err
			}
			if req.OrderID != nil {
				movement.WithOrderID(*req.OrderID)
			}
			if err := repos.MovementRepo().Create(txCtx, movement); err != nil {
				return err
			}

			response = ToStockEntryResponse(entry)
			events = entry.GetDomainEvents()
			entry.ClearDomainEvents()
			return nil
		})
		return mapStoreError(txCtx, err)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, events)
	return response, nil
}

// Reconcile verifies that the sum of quantity-affecting movement deltas for a
// pair equals the entry's current on-hand quantity
func (s *LedgerService) Reconcile(ctx context.Context, variantID, locationID uuid.UUID) (bool, decimal.Decimal, decimal.Decimal, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.reconcile",
		telemetry.SpanAttrVariantID.String(variantID.String()),
		telemetry.SpanAttrLocationID.String(locationID.String()),
	)
	defer span.End()

	quantity := decimal.Zero
	entry, err := s.entryRepo.FindByVariantAndLocation(ctx, variantID, locationID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return false, decimal.Zero, decimal.Zero, err
	}
	if entry != nil {
		quantity = entry.Quantity
	}

	sum, err := s.movementRepo.SumDeltaByVariantAndLocation(ctx, variantID, locationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return false, decimal.Zero, decimal.Zero, err
	}

	if !quantity.Equal(sum) {
		telemetry.AddEvent(span, "ledger drift detected")
	}
	return quantity.Equal(sum), quantity, sum, nil
}

func (s *LedgerService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func toStockEntryFilter(filter StockEntryListFilter) inventory.StockEntryFilter {
	domainFilter := inventory.StockEntryFilter{
		Filter:        shared.DefaultFilter(),
		VariantID:     filter.VariantID,
		LocationID:    filter.LocationID,
		WithStockOnly: filter.WithStockOnly,
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	return domainFilter
}
