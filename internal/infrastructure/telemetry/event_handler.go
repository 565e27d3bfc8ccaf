package telemetry

import (
	"context"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// StockEventMetricsHandler subscribes to inventory domain events and records
// business metrics for them. It never fails the event dispatch: metric
// recording problems are logged and swallowed.
type StockEventMetricsHandler struct {
	metrics *BusinessMetrics
	logger  *zap.Logger
}

// NewStockEventMetricsHandler creates a handler that feeds BusinessMetrics
// from stock events.
func NewStockEventMetricsHandler(metrics *BusinessMetrics, logger *zap.Logger) *StockEventMetricsHandler {
	return &StockEventMetricsHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockEventMetricsHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockAdjusted,
		inventory.EventTypeStockReserved,
		inventory.EventTypeStockReleased,
		inventory.EventTypeStockFulfilled,
		inventory.EventTypeStockTransferred,
	}
}

// Handle records the business metric matching the event type
func (h *StockEventMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockAdjustedEvent:
		h.metrics.RecordMovement(ctx, e.LocationID, string(inventory.MovementReasonAdjustment))
	case *inventory.StockReservedEvent:
		h.metrics.RecordReservation(ctx, e.LocationID, ReservationOutcomeSuccess)
	case *inventory.StockReleasedEvent:
		h.metrics.RecordMovement(ctx, e.LocationID, string(inventory.MovementReasonRelease))
	case *inventory.StockFulfilledEvent:
		h.metrics.RecordMovement(ctx, e.LocationID, string(inventory.MovementReasonFulfillment))
	case *inventory.StockTransferredEvent:
		h.metrics.RecordTransfer(ctx, e.FromLocationID, e.ToLocationID)
	default:
		h.logger.Debug("ignoring event without metric mapping",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

// Ensure StockEventMetricsHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockEventMetricsHandler)(nil)
