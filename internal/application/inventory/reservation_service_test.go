package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationService_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves a single item", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 0)

		result, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: decimal.NewFromInt(4)}},
		})

		require.NoError(t, err)
		require.Len(t, result.Reserved, 1)
		assert.Empty(t, result.Failed)
		assert.True(t, result.Reserved[0].Reserved.Equal(decimal.NewFromInt(4)))
		assert.True(t, result.Reserved[0].Available.Equal(decimal.NewFromInt(6)))

		entry, err := fixture.entryRepo.FindByVariantAndLocation(ctx, variantID, locationID)
		require.NoError(t, err)
		assert.True(t, entry.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, entry.Reserved.Equal(decimal.NewFromInt(4)))
	})

	t.Run("batch reserves all items or none", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantA := uuid.New()
		variantB := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantA, locationID, 10, 0)
		fixture.seedEntry(variantB, locationID, 2, 0)

		result, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{
				{VariantID: variantA, LocationID: locationID, Quantity: decimal.NewFromInt(5)},
				{VariantID: variantB, LocationID: locationID, Quantity: decimal.NewFromInt(3)},
			},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrOverReservation)
		require.NotNil(t, result)
		assert.Empty(t, result.Reserved)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, 1, result.Failed[0].Index)
		assert.Equal(t, variantB, result.Failed[0].VariantID)
		assert.Equal(t, shared.ErrOverReservation.Code, result.Failed[0].Code)

		// The covered item must not keep its hold after the rollback
		entry, err := fixture.entryRepo.FindByVariantAndLocation(ctx, variantA, locationID)
		require.NoError(t, err)
		assert.True(t, entry.Reserved.IsZero())
	})

	t.Run("reports every failing item in the batch", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantA := uuid.New()
		variantB := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantA, locationID, 1, 0)
		fixture.seedEntry(variantB, locationID, 1, 0)

		result, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{
				{VariantID: variantA, LocationID: locationID, Quantity: decimal.NewFromInt(2)},
				{VariantID: variantB, LocationID: locationID, Quantity: decimal.NewFromInt(2)},
			},
		})

		require.Error(t, err)
		require.NotNil(t, result)
		assert.Len(t, result.Failed, 2)
	})

	t.Run("never-written pair cannot be reserved", func(t *testing.T) {
		fixture := newInventoryFixture(true)

		result, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{{VariantID: uuid.New(), LocationID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrOverReservation)
		require.NotNil(t, result)
		require.Len(t, result.Failed, 1)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 0)

		result, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: decimal.Zero}},
		})

		require.Error(t, err)
		require.NotNil(t, result)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "INVALID_QUANTITY", result.Failed[0].Code)
	})

	t.Run("logs reservation movements when the policy is on", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 0)

		_, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: decimal.NewFromInt(3)}},
		})
		require.NoError(t, err)

		reason := inventory.MovementReasonReservation
		movements, err := fixture.movementRepo.FindAll(ctx, inventory.MovementFilter{Reason: &reason})
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(3)))
		assert.True(t, movements[0].BalanceBefore.Equal(movements[0].BalanceAfter))
	})

	t.Run("skips reservation movements when the policy is off", func(t *testing.T) {
		fixture := newInventoryFixture(false)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 0)

		_, err := fixture.reservation.Reserve(ctx, ReserveStockRequest{
			Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: decimal.NewFromInt(3)}},
		})
		require.NoError(t, err)

		count, err := fixture.movementRepo.Count(ctx, inventory.MovementFilter{VariantID: &variantID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestReservationService_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("returns held quantity to availability", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 6)

		err := fixture.reservation.Release(ctx, ReleaseStockRequest{
			Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: decimal.NewFromInt(4)}},
		})
		require.NoError(t, err)

		entry, err := fixture.entryRepo.FindByVariantAndLocation(ctx, variantID, locationID)
		require.NoError(t, err)
		assert.True(t, entry.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, entry.Reserved.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects releasing more than held", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 2)

		err := fixture.reservation.Release(ctx, ReleaseStockRequest{
			Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: decimal.NewFromInt(3)}},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientReservation)

		entry, err := fixture.entryRepo.FindByVariantAndLocation(ctx, variantID, locationID)
		require.NoError(t, err)
		assert.True(t, entry.Reserved.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects release against a never-written pair", func(t *testing.T) {
		fixture := newInventoryFixture(true)

		err := fixture.reservation.Release(ctx, ReleaseStockRequest{
			Items: []ReservationItem{{VariantID: uuid.New(), LocationID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientReservation)
	})
}

func TestReservationService_Fulfill(t *testing.T) {
	ctx := context.Background()

	t.Run("drops on-hand and reserved together", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		orderID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 6)

		response, err := fixture.reservation.Fulfill(ctx, FulfillStockRequest{
			VariantID:  variantID,
			LocationID: locationID,
			Quantity:   decimal.NewFromInt(4),
			OrderID:    &orderID,
		})

		require.NoError(t, err)
		assert.True(t, response.Quantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, response.Reserved.Equal(decimal.NewFromInt(2)))

		movements, err := fixture.movementRepo.FindAll(ctx, inventory.MovementFilter{OrderID: &orderID})
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, inventory.MovementReasonFulfillment, movements[0].Reason)
		assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(-4)))
		assert.True(t, movements[0].BalanceBefore.Equal(decimal.NewFromInt(10)))
		assert.True(t, movements[0].BalanceAfter.Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects fulfilling beyond the reservation", func(t *testing.T) {
		fixture := newInventoryFixture(true)
		variantID := uuid.New()
		locationID := uuid.New()
		fixture.seedEntry(variantID, locationID, 10, 2)

		_, err := fixture.reservation.Fulfill(ctx, FulfillStockRequest{
			VariantID:  variantID,
			LocationID: locationID,
			Quantity:   decimal.NewFromInt(3),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientReservation)
	})

	t.Run("rejects fulfilling a never-written pair", func(t *testing.T) {
		fixture := newInventoryFixture(true)

		_, err := fixture.reservation.Fulfill(ctx, FulfillStockRequest{
			VariantID:  uuid.New(),
			LocationID: uuid.New(),
			Quantity:   decimal.NewFromInt(1),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientReservation)
	})
}

// TestReservationService_ConcurrentReserve races many single-item reservations
// for the full available quantity against the same entry. The version check
// must let exactly one of them through.
func TestReservationService_ConcurrentReserve(t *testing.T) {
	ctx := context.Background()
	entryRepo := newMemStockEntryRepository()
	movementRepo := newMemMovementRepository()
	locationRepo := newMemLocationRepository()
	scope := NewNoOpTransactionScope(entryRepo, movementRepo, locationRepo)
	service := NewReservationService(entryRepo, scope, false)

	variantID := uuid.New()
	locationID := uuid.New()
	quantity := decimal.NewFromInt(10)

	entry, err := inventory.NewStockEntry(variantID, locationID)
	require.NoError(t, err)
	require.NoError(t, entry.AdjustQuantity(quantity))
	entry.ClearDomainEvents()
	entryRepo.put(entry)

	const workers = 16
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)
	failures := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Reserve(ctx, ReserveStockRequest{
				Items: []ReservationItem{{VariantID: variantID, LocationID: locationID, Quantity: quantity}},
			})
			if err != nil {
				failures <- err
			} else {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)
	close(failures)

	assert.Equal(t, 1, len(successes))
	for err := range failures {
		conflict := errors.Is(err, shared.ErrOverReservation) || errors.Is(err, shared.ErrConcurrencyConflict)
		assert.True(t, conflict, "unexpected failure: %v", err)
	}

	final, err := entryRepo.FindByVariantAndLocation(ctx, variantID, locationID)
	require.NoError(t, err)
	assert.True(t, final.Reserved.Equal(quantity))
	assert.True(t, final.Quantity.Equal(quantity))
}
