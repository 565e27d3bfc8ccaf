package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
)

// MovementService exposes read-only queries over the audit trail. Writes go
// through the ledger, reservation, and transfer flows only; letting business
// logic append movements directly would let the trail drift from the ledger.
type MovementService struct {
	movementRepo inventory.MovementRepository
}

// NewMovementService creates a new MovementService
func NewMovementService(movementRepo inventory.MovementRepository) *MovementService {
	return &MovementService{movementRepo: movementRepo}
}

// Get returns a movement by ID
func (s *MovementService) Get(ctx context.Context, id uuid.UUID) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(movement), nil
}

// List returns movements matching the filter
func (s *MovementService) List(ctx context.Context, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := toMovementFilter(filter)

	movements, err := s.movementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.movementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}

// ListByVariant returns movements for a variant
func (s *MovementService) ListByVariant(ctx context.Context, variantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	filter.VariantID = &variantID
	return s.List(ctx, filter)
}

// ListByLocation returns movements at a location
func (s *MovementService) ListByLocation(ctx context.Context, locationID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	filter.LocationID = &locationID
	return s.List(ctx, filter)
}

// ListByOrder returns movements caused by an order
func (s *MovementService) ListByOrder(ctx context.Context, orderID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	filter.OrderID = &orderID
	return s.List(ctx, filter)
}

func toMovementFilter(filter MovementListFilter) inventory.MovementFilter {
	domainFilter := inventory.MovementFilter{
		Filter:     shared.DefaultFilter(),
		VariantID:  filter.VariantID,
		LocationID: filter.LocationID,
		OrderID:    filter.OrderID,
		From:       filter.From,
		To:         filter.To,
	}
	if filter.Reason != "" {
		reason := inventory.MovementReason(filter.Reason)
		domainFilter.Reason = &reason
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
