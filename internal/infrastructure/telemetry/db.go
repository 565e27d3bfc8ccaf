package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBInstrumentationConfig controls query tracing for the gorm connection.
type DBInstrumentationConfig struct {
	Enabled    bool
	DBName     string
	LogFullSQL bool
}

// RegisterDBTracing installs the otelgorm plugin so every query runs inside
// a span. Query variables are stripped from span attributes unless
// LogFullSQL is set; production configs keep it off.
func RegisterDBTracing(db *gorm.DB, cfg DBInstrumentationConfig, log *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	log.Info("database tracing enabled",
		zap.String("db_name", cfg.DBName),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
	)
	return nil
}

// DBPoolMetrics exports sql.DB connection pool statistics as observable
// gauges. The values are sampled by the SDK at collection time, so there is
// no polling goroutine to manage.
type DBPoolMetrics struct {
	registration metric.Registration
	logger       *zap.Logger
}

// RegisterDBPoolMetrics wires pool stats into the given meter. Callers gate
// registration on the meter provider being enabled.
func RegisterDBPoolMetrics(db *gorm.DB, meter metric.Meter, log *zap.Logger) (*DBPoolMetrics, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	open, err := meter.Int64ObservableGauge("db_pool_connections_open",
		metric.WithDescription("Open connections, both in use and idle"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_connections_in_use",
		metric.WithDescription("Connections currently executing queries"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	idle, err := meter.Int64ObservableGauge("db_pool_connections_idle",
		metric.WithDescription("Idle connections held by the pool"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	waitCount, err := meter.Int64ObservableGauge("db_pool_wait_count",
		metric.WithDescription("Cumulative number of waits for a connection"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return nil, err
	}
	waitSeconds, err := meter.Float64ObservableGauge("db_pool_wait_duration_seconds",
		metric.WithDescription("Cumulative time blocked waiting for a connection"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	registration, err := meter.RegisterCallback(
		func(_ context.Context, observer metric.Observer) error {
			stats := sqlDB.Stats()
			observer.ObserveInt64(open, int64(stats.OpenConnections))
			observer.ObserveInt64(inUse, int64(stats.InUse))
			observer.ObserveInt64(idle, int64(stats.Idle))
			observer.ObserveInt64(waitCount, stats.WaitCount)
			observer.ObserveFloat64(waitSeconds, stats.WaitDuration.Seconds())
			return nil
		},
		open, inUse, idle, waitCount, waitSeconds,
	)
	if err != nil {
		return nil, err
	}

	log.Info("database pool metrics registered")
	return &DBPoolMetrics{registration: registration, logger: log}, nil
}

// Stop detaches the pool stats callback from the meter.
func (m *DBPoolMetrics) Stop() {
	if m == nil || m.registration == nil {
		return
	}
	if err := m.registration.Unregister(); err != nil {
		m.logger.Warn("failed to unregister database pool metrics", zap.Error(err))
	}
}

// SlowQueryThresholdOrDefault normalizes a configured slow query threshold,
// falling back when the config leaves it unset.
func SlowQueryThresholdOrDefault(configured time.Duration) time.Duration {
	if configured <= 0 {
		return 200 * time.Millisecond
	}
	return configured
}
