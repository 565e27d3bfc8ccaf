package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
)

// LocationService handles the fulfillment location registry
type LocationService struct {
	locationRepo   inventory.LocationRepository
	entryRepo      inventory.StockEntryRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	txTimeout      time.Duration
}

// NewLocationService creates a new LocationService
func NewLocationService(
	locationRepo inventory.LocationRepository,
	entryRepo inventory.StockEntryRepository,
	txScope TransactionScope,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		entryRepo:    entryRepo,
		txScope:      txScope,
		txTimeout:    DefaultTxTimeout,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *LocationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new fulfillment location
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	location, err := inventory.NewLocation(req.Name, inventory.LocationType(req.Type))
	if err != nil {
		return nil, err
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, location)
	return ToLocationResponse(location), nil
}

// Update changes a location's details
func (s *LocationService) Update(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	var location *inventory.Location

	err := retryOnConflict(func() error {
		var err error
		location, err = s.locationRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := location.Update(req.Name, inventory.LocationType(req.Type)); err != nil {
			return err
		}
		return s.locationRepo.SaveWithLock(ctx, location)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, location)
	return ToLocationResponse(location), nil
}

// Get returns a location by ID
func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToLocationResponse(location), nil
}

// List returns locations matching the filter
func (s *LocationService) List(ctx context.Context, filter LocationListFilter) ([]LocationResponse, int64, error) {
	domainFilter := toLocationFilter(filter)

	locations, err := s.locationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.locationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLocationResponses(locations), total, nil
}

// GetWithInventory returns a location together with its stock entries
func (s *LocationService) GetWithInventory(ctx context.Context, id uuid.UUID) (*LocationWithInventoryResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.FindByLocation(ctx, id, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	return &LocationWithInventoryResponse{
		Location: *ToLocationResponse(location),
		Entries:  ToStockEntryResponses(entries),
	}, nil
}

// Activate re-enables a deactivated location
func (s *LocationService) Activate(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	return s.transition(ctx, id, (*inventory.Location).Activate)
}

// Deactivate retires a location from fulfillment without deleting it
func (s *LocationService) Deactivate(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	return s.transition(ctx, id, (*inventory.Location).Deactivate)
}

// Delete removes a location outright. It refuses while any stock entry for
// the location still holds on-hand or reserved quantity; stock is never
// silently orphaned.
func (s *LocationService) Delete(ctx context.Context, id uuid.UUID) error {
	txCtx, cancel := withTxTimeout(ctx, s.txTimeout)
	defer cancel()

	err := s.txScope.Execute(txCtx, func(repos TransactionalRepositories) error {
		if _, err := repos.LocationRepo().FindByID(txCtx, id); err != nil {
			return err
		}

		count, err := repos.EntryRepo().CountWithStockByLocation(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrConflict
		}

		return repos.LocationRepo().Delete(txCtx, id)
	})
	return mapStoreError(txCtx, err)
}

func (s *LocationService) transition(ctx context.Context, id uuid.UUID, op func(*inventory.Location) error) (*LocationResponse, error) {
	var location *inventory.Location

	err := retryOnConflict(func() error {
		var err error
		location, err = s.locationRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := op(location); err != nil {
			return err
		}
		return s.locationRepo.SaveWithLock(ctx, location)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, location)
	return ToLocationResponse(location), nil
}

func (s *LocationService) publishEvents(ctx context.Context, location *inventory.Location) {
	if s.eventPublisher == nil {
		return
	}
	events := location.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	location.ClearDomainEvents()
}

func toLocationFilter(filter LocationListFilter) inventory.LocationFilter {
	domainFilter := inventory.LocationFilter{
		Filter:     shared.DefaultFilter(),
		ActiveOnly: filter.ActiveOnly,
	}
	if filter.Type != "" {
		locationType := inventory.LocationType(filter.Type)
		domainFilter.Type = &locationType
	}
	domainFilter.Search = filter.Search
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
