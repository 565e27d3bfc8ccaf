package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/telemetry"
)

// HTTPMetricsConfig wires the metrics middleware to the process meter
// provider.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	ServiceName   string
	Enabled       bool
}

// HTTPMetrics returns a middleware recording request count, latency,
// response size, and in-flight requests. When metrics are disabled or the
// instruments cannot be created, requests pass through uninstrumented.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passthrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"))
}

// HTTPMetricsWithMeter builds the metrics middleware against an explicit
// meter.
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	ins, err := newRequestInstruments(meter)
	if err != nil {
		return passthrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		ins.inFlight.Add(ctx, 1)
		c.Next()
		ins.inFlight.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		routeAttrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}

		ins.requests.Inc(ctx, append(routeAttrs,
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))...)
		ins.latency.RecordDuration(ctx, time.Since(start), routeAttrs...)
		if size := c.Writer.Size(); size > 0 {
			ins.responseBytes.Record(ctx, float64(size), routeAttrs...)
		}
	}
}

func passthrough(c *gin.Context) {
	c.Next()
}

type requestInstruments struct {
	requests      *telemetry.Counter
	latency       *telemetry.Histogram
	responseBytes *telemetry.Histogram
	inFlight      metric.Int64UpDownCounter
}

func newRequestInstruments(meter metric.Meter) (*requestInstruments, error) {
	requests, err := telemetry.NewCounter(meter,
		"http_server_request_total", "Completed HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}

	latency, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	responseBytes, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_response_size_bytes",
		Description: "HTTP response body size",
		Unit:        "By",
		Boundaries:  []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576},
	})
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &requestInstruments{
		requests:      requests,
		latency:       latency,
		responseBytes: responseBytes,
		inFlight:      inFlight,
	}, nil
}
