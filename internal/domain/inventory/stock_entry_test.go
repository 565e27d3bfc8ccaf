package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStockEntry(t *testing.T) *StockEntry {
	t.Helper()
	entry, err := NewStockEntry(uuid.New(), uuid.New())
	require.NoError(t, err)
	return entry
}

func TestNewStockEntry(t *testing.T) {
	variantID := uuid.New()
	locationID := uuid.New()

	t.Run("creates stock entry successfully", func(t *testing.T) {
		entry, err := NewStockEntry(variantID, locationID)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, variantID, entry.VariantID)
		assert.Equal(t, locationID, entry.LocationID)
		assert.True(t, entry.Quantity.IsZero())
		assert.True(t, entry.Reserved.IsZero())
		assert.Equal(t, 1, entry.Version)
	})

	t.Run("fails with nil variant ID", func(t *testing.T) {
		entry, err := NewStockEntry(uuid.Nil, locationID)

		require.Error(t, err)
		assert.Nil(t, entry)
		assert.Contains(t, err.Error(), "Variant ID")
	})

	t.Run("fails with nil location ID", func(t *testing.T) {
		entry, err := NewStockEntry(variantID, uuid.Nil)

		require.Error(t, err)
		assert.Nil(t, entry)
		assert.Contains(t, err.Error(), "Location ID")
	})
}

func TestStockEntry_Available(t *testing.T) {
	entry := createTestStockEntry(t)
	entry.Quantity = decimal.NewFromInt(10)
	entry.Reserved = decimal.NewFromInt(3)

	assert.Equal(t, decimal.NewFromInt(7), entry.Available())
}

func TestStockEntry_AdjustQuantity(t *testing.T) {
	t.Run("applies positive delta", func(t *testing.T) {
		entry := createTestStockEntry(t)

		err := entry.AdjustQuantity(decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(10), entry.Quantity)
		assert.Equal(t, 2, entry.Version)
	})

	t.Run("applies negative delta", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)

		err := entry.AdjustQuantity(decimal.NewFromInt(-4))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(6), entry.Quantity)
	})

	t.Run("fails when result would go negative and mutates nothing", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(2)

		err := entry.AdjustQuantity(decimal.NewFromInt(-3))

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidAdjustment))
		assert.Equal(t, decimal.NewFromInt(2), entry.Quantity)
		assert.Equal(t, 1, entry.Version)
	})

	t.Run("fails when result would drop below reserved", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)
		entry.Reserved = decimal.NewFromInt(8)

		err := entry.AdjustQuantity(decimal.NewFromInt(-5))

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOverReservation))
		assert.Equal(t, decimal.NewFromInt(10), entry.Quantity)
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		entry := createTestStockEntry(t)

		err := entry.AdjustQuantity(decimal.Zero)

		require.Error(t, err)
	})

	t.Run("emits StockAdjusted event", func(t *testing.T) {
		entry := createTestStockEntry(t)

		err := entry.AdjustQuantity(decimal.NewFromInt(5))

		require.NoError(t, err)
		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockAdjusted, events[0].EventType())
	})
}

func TestStockEntry_AdjustReserved(t *testing.T) {
	t.Run("reserves within available quantity", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)

		err := entry.AdjustReserved(decimal.NewFromInt(4))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(4), entry.Reserved)
		assert.Equal(t, decimal.NewFromInt(6), entry.Available())
	})

	t.Run("fails when reservation would exceed quantity", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)
		entry.Reserved = decimal.NewFromInt(8)

		err := entry.AdjustReserved(decimal.NewFromInt(3))

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOverReservation))
		assert.Equal(t, decimal.NewFromInt(8), entry.Reserved)
	})

	t.Run("fails when release would drop reserved below zero", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)
		entry.Reserved = decimal.NewFromInt(2)

		err := entry.AdjustReserved(decimal.NewFromInt(-3))

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidAdjustment))
		assert.Equal(t, decimal.NewFromInt(2), entry.Reserved)
	})

	t.Run("emits StockReserved on positive delta", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)

		require.NoError(t, entry.AdjustReserved(decimal.NewFromInt(2)))

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockReserved, events[0].EventType())
	})

	t.Run("emits StockReleased on negative delta", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)
		entry.Reserved = decimal.NewFromInt(5)

		require.NoError(t, entry.AdjustReserved(decimal.NewFromInt(-5)))

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockReleased, events[0].EventType())
	})
}

func TestStockEntry_Fulfill(t *testing.T) {
	t.Run("decrements quantity and reserved together", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)
		entry.Reserved = decimal.NewFromInt(5)
		orderID := uuid.New()

		err := entry.Fulfill(decimal.NewFromInt(5), &orderID)

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(5), entry.Quantity)
		assert.True(t, entry.Reserved.IsZero())

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockFulfilled, events[0].EventType())
	})

	t.Run("fails when quantity exceeds reserved and mutates nothing", func(t *testing.T) {
		entry := createTestStockEntry(t)
		entry.Quantity = decimal.NewFromInt(10)
		entry.Reserved = decimal.NewFromInt(5)

		err := entry.Fulfill(decimal.NewFromInt(6), nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientReservation))
		assert.Equal(t, decimal.NewFromInt(10), entry.Quantity)
		assert.Equal(t, decimal.NewFromInt(5), entry.Reserved)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		entry := createTestStockEntry(t)

		err := entry.Fulfill(decimal.Zero, nil)

		require.Error(t, err)
	})
}

// Invariants hold after any sequence of ledger operations on one entry.
func TestStockEntry_InvariantsAcrossOperationSequence(t *testing.T) {
	entry := createTestStockEntry(t)

	steps := []struct {
		name string
		op   func() error
	}{
		{"adjust +10", func() error { return entry.AdjustQuantity(decimal.NewFromInt(10)) }},
		{"reserve 6", func() error { return entry.AdjustReserved(decimal.NewFromInt(6)) }},
		{"release 2", func() error { return entry.AdjustReserved(decimal.NewFromInt(-2)) }},
		{"fulfill 4", func() error { return entry.Fulfill(decimal.NewFromInt(4), nil) }},
		{"adjust -3", func() error { return entry.AdjustQuantity(decimal.NewFromInt(-3)) }},
		{"over-reserve fails", func() error {
			err := entry.AdjustReserved(decimal.NewFromInt(100))
			require.Error(t, err)
			return nil
		}},
	}

	for _, step := range steps {
		require.NoError(t, step.op(), step.name)
		require.NoError(t, entry.CheckInvariants(), step.name)
	}

	assert.Equal(t, decimal.NewFromInt(3), entry.Quantity)
	assert.True(t, entry.Reserved.IsZero())
}
