package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// TransferService moves on-hand quantity between two locations' ledger
// entries as one atomic unit. The debit leg only succeeds against available
// quantity; stock already promised to an order stays where it is.
type TransferService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	txTimeout      time.Duration
}

// NewTransferService creates a new TransferService
func NewTransferService(txScope TransactionScope) *TransferService {
	return &TransferService{
		txScope:   txScope,
		txTimeout: DefaultTxTimeout,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxTimeout overrides the per-transaction timeout
func (s *TransferService) SetTxTimeout(timeout time.Duration) {
	s.txTimeout = timeout
}

// Transfer debits the source entry and credits the destination entry in one
// transaction; either both legs commit or neither does. The destination
// entry is materialized lazily when the pair was never stocked before.
func (s *TransferService) Transfer(ctx context.Context, req TransferInventoryRequest) (*TransferResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination locations must differ")
	}

	ctx, span := telemetry.StartSpan(ctx, "transfer.execute",
		telemetry.SpanAttrVariantID.String(req.VariantID.String()),
		telemetry.SpanAttrFromLocationID.String(req.FromLocationID.String()),
		telemetry.SpanAttrToLocationID.String(req.ToLocationID.String()),
		telemetry.SpanAttrQuantity.String(req.Quantity.String()),
	)
	defer span.End()

	var (
		result *TransferResult
		events []shared.DomainEvent
	)

	err := retryOnConflict(func() error {
		txCtx, cancel := withTxTimeout(ctx, s.txTimeout)
		defer cancel()

		err := s.txScope.Execute(txCtx, func(repos TransactionalRepositories) error {
			from, err := repos.EntryRepo().FindByVariantAndLocation(txCtx, req.VariantID, req.FromLocationID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrInvalidAdjustment
				}
				return err
			}

			// The entry invariant rejects any debit that would cut into
			// reserved stock, so available is what the transfer draws from
			fromBefore := from.Quantity
			if err := from.AdjustQuantity(req.Quantity.Neg()); err != nil {
				return err
			}

			to, err := repos.EntryRepo().GetOrCreate(txCtx, req.VariantID, req.ToLocationID)
			if err != nil {
				return err
			}
			toBefore := to.Quantity
			if err := to.AdjustQuantity(req.Quantity); err != nil {
				return err
			}

			if err := repos.EntryRepo().SaveWithLock(txCtx, from); err != nil {
				return err
			}
			if err := repos.EntryRepo().SaveWithLock(txCtx, to); err != nil {
				return err
			}

			outMovement, err := inventory.NewMovement(
				req.VariantID, req.FromLocationID,
				req.Quantity.Neg(), inventory.MovementReasonTransferOut,
				fromBefore, from.Quantity,
			)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Create(txCtx, outMovement); err != nil {
				return err
			}

			inMovement, err := inventory.NewMovement(
				req.VariantID, req.ToLocationID,
				req.Quantity, inventory.MovementReasonTransferIn,
				toBefore, to.Quantity,
			)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Create(txCtx, inMovement); err != nil {
				return err
			}

			from.AddDomainEvent(inventory.NewStockTransferredEvent(from, req.ToLocationID, req.Quantity))

			result = &TransferResult{
				From: ToStockEntryResponse(from),
				To:   ToStockEntryResponse(to),
			}
			events = append(from.GetDomainEvents(), to.GetDomainEvents()...)
			from.ClearDomainEvents()
			to.ClearDomainEvents()
			return nil
		})
		return mapStoreError(txCtx, err)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, events)
	return result, nil
}

func (s *TransferService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
