package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// StockMetricsProvider supplies aggregated ledger state for the periodic
// gauges without coupling the telemetry layer to the inventory domain.
type StockMetricsProvider interface {
	GetReservedQuantityByLocation(ctx context.Context) (map[uuid.UUID]float64, error)
	GetDepletedStockRowCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig configures BusinessMetrics. CollectInterval defaults
// to five minutes.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration
	StockProvider   StockMetricsProvider
}

// ReservationOutcome labels the result of a reservation attempt.
type ReservationOutcome string

const (
	ReservationOutcomeSuccess  ReservationOutcome = "success"
	ReservationOutcomeRejected ReservationOutcome = "rejected"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter.
var ErrMeterNil = errors.New("business metrics: meter is required")

// BusinessMetrics exposes the inventory-level instruments: movement,
// reservation and transfer counters, plus ledger gauges refreshed by a
// periodic collector.
type BusinessMetrics struct {
	logger        *zap.Logger
	stockProvider StockMetricsProvider

	movementTotal    *Counter
	reservationTotal *Counter
	transferTotal    *Counter

	reservedQuantity  *FloatGauge
	depletedStockRows *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewBusinessMetrics registers the inventory instruments on the meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:        logger,
		stockProvider: cfg.StockProvider,
		stopChan:      make(chan struct{}),
	}

	var err error
	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.movementTotal, "inv_movement_total", "Total number of recorded stock movements", "{movements}"},
		{&bm.reservationTotal, "inv_reservation_total", "Total number of reservation attempts", "{reservations}"},
		{&bm.transferTotal, "inv_transfer_total", "Total number of inter-location transfers", "{transfers}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(cfg.Meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	bm.reservedQuantity, err = NewFloatGauge(cfg.Meter,
		"inv_reserved_quantity", "Current reserved quantity per location", "{units}")
	if err != nil {
		return nil, err
	}
	bm.depletedStockRows, err = NewGauge(cfg.Meter,
		"inv_depleted_stock_rows", "Number of stock rows with no quantity left to promise", "{rows}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordMovement counts one appended movement record.
func (bm *BusinessMetrics) RecordMovement(ctx context.Context, locationID uuid.UUID, reason string) {
	bm.movementTotal.Inc(ctx,
		AttrLocationID.String(locationID.String()),
		AttrMovementReason.String(reason),
	)
}

// RecordReservation counts one reservation attempt with its outcome.
func (bm *BusinessMetrics) RecordReservation(ctx context.Context, locationID uuid.UUID, outcome ReservationOutcome) {
	bm.reservationTotal.Inc(ctx,
		AttrLocationID.String(locationID.String()),
		AttrOutcome.String(string(outcome)),
	)
}

// RecordTransfer counts one completed inter-location transfer.
func (bm *BusinessMetrics) RecordTransfer(ctx context.Context, fromLocationID, toLocationID uuid.UUID) {
	bm.transferTotal.Inc(ctx,
		AttrFromLocationID.String(fromLocationID.String()),
		AttrToLocationID.String(toLocationID.String()),
	)
}

// RecordReservedQuantity sets the reserved-quantity gauge for one location.
func (bm *BusinessMetrics) RecordReservedQuantity(ctx context.Context, locationID uuid.UUID, quantity float64) {
	bm.reservedQuantity.Record(ctx, quantity, AttrLocationID.String(locationID.String()))
}

// RecordDepletedStockRows sets the depleted-rows gauge.
func (bm *BusinessMetrics) RecordDepletedStockRows(ctx context.Context, count int64) {
	bm.depletedStockRows.Record(ctx, count)
}

// StartPeriodicCollection launches the gauge refresh loop. Subsequent calls
// are no-ops; Stop or context cancellation ends the loop.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.collectLoop(ctx, interval)
	})
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectLedgerMetrics(ctx)
	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Business metrics collection stopped")
			return
		case <-ctx.Done():
			bm.logger.Info("Business metrics collection cancelled")
			return
		case <-ticker.C:
			bm.collectLedgerMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectLedgerMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		return
	}

	reservedByLocation, err := bm.stockProvider.GetReservedQuantityByLocation(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect reserved quantity", zap.Error(err))
	} else {
		for locationID, quantity := range reservedByLocation {
			bm.RecordReservedQuantity(ctx, locationID, quantity)
		}
	}

	depleted, err := bm.stockProvider.GetDepletedStockRowCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect depleted row count", zap.Error(err))
	} else {
		bm.RecordDepletedStockRows(ctx, depleted)
	}
}

// Stop ends the collection loop. Safe to call more than once.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
