// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider using GORM.
// It queries the stock_entries table directly for aggregated metrics.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// GetReservedQuantityByLocation returns total reserved quantity per location.
func (p *GormStockMetricsProvider) GetReservedQuantityByLocation(ctx context.Context) (map[uuid.UUID]float64, error) {
	type result struct {
		LocationID       uuid.UUID `gorm:"column:location_id"`
		ReservedQuantity float64   `gorm:"column:reserved_quantity"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("stock_entries").
		Select("location_id, COALESCE(SUM(reserved), 0) as reserved_quantity").
		Group("location_id").
		Having("SUM(reserved) > 0").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]float64, len(results))
	for _, r := range results {
		m[r.LocationID] = r.ReservedQuantity
	}

	return m, nil
}

// GetDepletedStockRowCount returns the number of stock rows with nothing left to promise.
func (p *GormStockMetricsProvider) GetDepletedStockRowCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("stock_entries").
		Where("quantity - reserved <= 0").
		Count(&count).Error

	return count, err
}
