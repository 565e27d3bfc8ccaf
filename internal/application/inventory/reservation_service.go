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

// ReservationService moves stock through the reservation state machine:
// available to reserved, reserved back to available, reserved to fulfilled.
// A batch reserves all of its items or none of them.
type ReservationService struct {
	entryRepo       inventory.StockEntryRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	txTimeout       time.Duration
	logReservations bool
}

// NewReservationService creates a new ReservationService. When
// logReservations is set, reservation and release transitions append
// movement records alongside the quantity-affecting ones.
func NewReservationService(
	entryRepo inventory.StockEntryRepository,
	txScope TransactionScope,
	logReservations bool,
) *ReservationService {
	return &ReservationService{
		entryRepo:       entryRepo,
		txScope:         txScope,
		txTimeout:       DefaultTxTimeout,
		logReservations: logReservations,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxTimeout overrides the per-transaction timeout
func (s *ReservationService) SetTxTimeout(timeout time.Duration) {
	s.txTimeout = timeout
}

// Reserve places a soft hold on every item of the batch inside one store
// transaction. If any item cannot be covered, the whole batch rolls back and
// the result reports each item that blocked it.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveStockRequest) (*ReservationResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reservation.reserve",
		telemetry.SpanAttrItemCount.Int(len(req.Items)),
	)
	defer span.End()

	var (
		result *ReservationResult
		events []shared.DomainEvent
	)

	err := retryOnConflict(func() error {
		txCtx, cancel := withTxTimeout(ctx, s.txTimeout)
		defer cancel()

		err := s.txScope.Execute(txCtx, func(repos TransactionalRepositories) error {
			result = &ReservationResult{Reserved: make([]StockEntryResponse, 0, len(req.Items))}
			events = nil
			var firstErr error

			for i, item := range req.Items {
				entry, err := s.reserveItem(txCtx, repos, item, req)
				if err != nil {
					if isReservationFailure(err) {
						result.Failed = append(result.Failed, failedItem(i, item, err))
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					return err
				}

				result.Reserved = append(result.Reserved, *ToStockEntryResponse(entry))
				events = append(events, entry.GetDomainEvents()...)
				entry.ClearDomainEvents()
			}

			if firstErr != nil {
				// Roll back every hold already applied in this batch
				result.Reserved = nil
				return firstErr
			}
			return nil
		})
		return mapStoreError(txCtx, err)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if result != nil && len(result.Failed) > 0 {
			return result, err
		}
		return nil, err
	}

	s.publishEvents(ctx, events)
	return result, nil
}

// reserveItem holds one batch line. A pair that was never written has zero
// on-hand, so reserving against it fails the same way an oversized
// reservation does.
func (s *ReservationService) reserveItem(ctx context.Context, repos TransactionalRepositories, item ReservationItem, req ReserveStockRequest) (*inventory.StockEntry, error) {
	if item.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}

	entry, err := repos.EntryRepo().FindByVariantAndLocation(ctx, item.VariantID, item.LocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrOverReservation
		}
		return nil, err
	}

	if err := entry.AdjustReserved(item.Quantity); err != nil {
		return nil, err
	}
	if err := repos.EntryRepo().SaveWithLock(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.recordReservationMovement(ctx, repos, entry, item.Quantity, inventory.MovementReasonReservation, req.OrderID); err != nil {
		return nil, err
	}

	return entry, nil
}

// Release returns previously held quantity to availability. Duplicate
// releases are not deduplicated here; tracking reservation identity is the
// caller's responsibility.
func (s *ReservationService) Release(ctx context.Context, req ReleaseStockRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "reservation.release",
		telemetry.SpanAttrItemCount.Int(len(req.Items)),
	)
	defer span.End()

	var events []shared.DomainEvent

	err := retryOnConflict(func() error {
		txCtx, cancel := withTxTimeout(ctx, s.txTimeout)
		defer cancel()

		err := s.txScope.Execute(txCtx, func(repos TransactionalRepositories) error {
			events = nil
			for _, item := range req.Items {
				if item.Quantity.LessThanOrEqual(decimal.Zero) {
					return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
				}

				entry, err := repos.EntryRepo().FindByVariantAndLocation(txCtx, item.VariantID, item.LocationID)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						return shared.ErrInsufficientReservation
					}
					return err
				}

				if err := entry.AdjustReserved(item.Quantity.Neg()); err != nil {
					// Dropping reserved below zero means the caller releases
					// more than it ever held
					if errors.Is(err, shared.ErrInvalidAdjustment) {
						return shared.ErrInsufficientReservation
					}
					return err
				}
				if err := repos.EntryRepo().SaveWithLock(txCtx, entry); err != nil {
					return err
				}
				if err := s.recordReservationMovement(txCtx, repos, entry, item.Quantity.Neg(), inventory.MovementReasonRelease, req.OrderID); err != nil {
					return err
				}

				events = append(events, entry.GetDomainEvents()...)
				entry.ClearDomainEvents()
			}
			return nil
		})
		return mapStoreError(txCtx, err)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.publishEvents(ctx, events)
	return nil
}

// Fulfill converts reserved quantity into a permanent decrement: on-hand and
// reserved drop together in one transaction, with a fulfillment movement.
func (s *ReservationService) Fulfill(ctx context.Context, req FulfillStockRequest) (*StockEntryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "reservation.fulfill",
		telemetry.SpanAttrVariantID.String(req.VariantID.String()),
		telemetry.SpanAttrLocationID.String(req.LocationID.String()),
		telemetry.SpanAttrQuantity.String(req.Quantity.String()),
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
			entry, err := repos.EntryRepo().FindByVariantAndLocation(txCtx, req.VariantID, req.LocationID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrInsufficientReservation
				}
				return err
			}

			balanceBefore := entry.Quantity

			if err := entry.Fulfill(req.Quantity, req.OrderID); err != nil {
				return err
			}
			if err := repos.EntryRepo().SaveWithLock(txCtx, entry); err != nil {
				return err
			}

			movement, err := inventory.NewMovement(
				entry.VariantID, entry.LocationID,
				req.Quantity.Neg(), inventory.MovementReasonFulfillment,
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

// recordReservationMovement appends an audit record for a hold or release
// when the reservation-logging policy is enabled. These movements never
// change on-hand quantity, so both balance snapshots carry the same value.
func (s *ReservationService) recordReservationMovement(
	ctx context.Context,
	repos TransactionalRepositories,
	entry *inventory.StockEntry,
	delta decimal.Decimal,
	reason inventory.MovementReason,
	orderID *uuid.UUID,
) error {
	if !s.logReservations {
		return nil
	}

	movement, err := inventory.NewMovement(entry.VariantID, entry.LocationID, delta, reason, entry.Quantity, entry.Quantity)
	if err != nil {
		return err
	}
	if orderID != nil {
		movement.WithOrderID(*orderID)
	}
	return repos.MovementRepo().Create(ctx, movement)
}

func (s *ReservationService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// isReservationFailure reports whether the error is a per-item invariant
// violation rather than an infrastructure failure
func isReservationFailure(err error) bool {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	switch domainErr.Code {
	case shared.ErrOverReservation.Code, shared.ErrInvalidAdjustment.Code, "INVALID_QUANTITY":
		return true
	}
	return false
}

func failedItem(index int, item ReservationItem, err error) FailedReservationItem {
	failed := FailedReservationItem{
		Index:      index,
		VariantID:  item.VariantID,
		LocationID: item.LocationID,
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		failed.Code = domainErr.Code
		failed.Message = domainErr.Message
	} else {
		failed.Code = "INTERNAL_ERROR"
		failed.Message = err.Error()
	}
	return failed
}
