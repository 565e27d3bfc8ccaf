package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newBusinessMetrics(t *testing.T, provider telemetry.StockMetricsProvider) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("inventory.business")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        zap.NewNop(),
		StockProvider: provider,
	})
	require.NoError(t, err)
	t.Cleanup(bm.Stop)
	return bm, reader
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})

	assert.Nil(t, bm)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestBusinessMetrics_Counters(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)
	ctx := context.Background()
	locationID := uuid.New()

	bm.RecordMovement(ctx, locationID, "adjustment")
	bm.RecordMovement(ctx, locationID, "transfer_out")
	bm.RecordReservation(ctx, locationID, telemetry.ReservationOutcomeSuccess)
	bm.RecordReservation(ctx, locationID, telemetry.ReservationOutcomeRejected)
	bm.RecordTransfer(ctx, uuid.New(), uuid.New())

	metrics := collectDataPoints(t, reader)
	assert.Equal(t, int64(2), sumDataPoints(t, metrics, "inv_movement_total"))
	assert.Equal(t, int64(2), sumDataPoints(t, metrics, "inv_reservation_total"))
	assert.Equal(t, int64(1), sumDataPoints(t, metrics, "inv_transfer_total"))
}

func sumDataPoints(t *testing.T, metrics map[string]metricdata.Metrics, name string) int64 {
	t.Helper()

	m, ok := metrics[name]
	require.True(t, ok, "missing metric %s", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

type stubStockProvider struct {
	reservedByLocation map[uuid.UUID]float64
	depletedCount      int64
	err                error
}

func (p *stubStockProvider) GetReservedQuantityByLocation(context.Context) (map[uuid.UUID]float64, error) {
	return p.reservedByLocation, p.err
}

func (p *stubStockProvider) GetDepletedStockRowCount(context.Context) (int64, error) {
	return p.depletedCount, p.err
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	locationID := uuid.New()
	provider := &stubStockProvider{
		reservedByLocation: map[uuid.UUID]float64{locationID: 42.5},
		depletedCount:      3,
	}
	bm, reader := newBusinessMetrics(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The loop collects once immediately; the long interval keeps the
	// ticker out of the picture.
	bm.StartPeriodicCollection(ctx, time.Hour)
	bm.StartPeriodicCollection(ctx, time.Second)

	require.Eventually(t, func() bool {
		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			return false
		}
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name == "inv_depleted_stock_rows" {
					return true
				}
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	metrics := collectDataPoints(t, reader)
	depleted, ok := metrics["inv_depleted_stock_rows"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, depleted.DataPoints, 1)
	assert.Equal(t, int64(3), depleted.DataPoints[0].Value)

	reserved, ok := metrics["inv_reserved_quantity"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, reserved.DataPoints, 1)
	assert.Equal(t, 42.5, reserved.DataPoints[0].Value)
}

func TestBusinessMetrics_PeriodicCollection_ProviderFailure(t *testing.T) {
	bm, _ := newBusinessMetrics(t, &stubStockProvider{err: errors.New("ledger unavailable")})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	bm.Stop()
}

func TestBusinessMetrics_StopIdempotent(t *testing.T) {
	bm, _ := newBusinessMetrics(t, nil)

	bm.Stop()
	bm.Stop()
}
