package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName scopes the spans produced by the service layer.
const TracerName = "inventory-service"

// Span attribute keys used by the application layer.
var (
	SpanAttrLocationID     = attribute.Key("inventory.location_id")
	SpanAttrVariantID      = attribute.Key("inventory.variant_id")
	SpanAttrReservationID  = attribute.Key("inventory.reservation_id")
	SpanAttrFromLocationID = attribute.Key("inventory.from_location_id")
	SpanAttrToLocationID   = attribute.Key("inventory.to_location_id")
	SpanAttrQuantity       = attribute.Key("inventory.quantity")
	SpanAttrMovementReason = attribute.Key("inventory.movement_reason")
	SpanAttrItemCount      = attribute.Key("inventory.item_count")
)

// StartSpan opens an internal span on the service tracer. The caller must
// End the returned span.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks the current span as failed. Nil errors are ignored so
// callers can defer it against a named error return.
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes adds attributes to the span when it is recording.
func SetAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// AddEvent stamps a named event on the span when it is recording.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// TraceID returns the hex trace id of the span in ctx, or "" when the
// context carries no sampled span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
