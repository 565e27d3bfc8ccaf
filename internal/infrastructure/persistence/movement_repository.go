package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// Movements are append-only; this repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement record
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAll finds movements matching the filter
func (r *GormMovementRepository) FindAll(ctx context.Context, filter inventory.MovementFilter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	query := applyPagination(r.applyMovementFilter(r.db.WithContext(ctx).Model(&inventory.Movement{}), filter), filter.Filter, MovementSortFields)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	var count int64
	query := r.applyMovementFilter(r.db.WithContext(ctx).Model(&inventory.Movement{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumDeltaByVariantAndLocation totals quantity-affecting deltas for a pair.
// Reservation and release movements shift stock between available and
// reserved without touching on-hand, so they are excluded.
func (r *GormMovementRepository) SumDeltaByVariantAndLocation(ctx context.Context, variantID, locationID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Select("COALESCE(SUM(delta), 0) as total").
		Where("variant_id = ? AND location_id = ? AND reason IN ?", variantID, locationID, quantityAffectingReasons()).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyMovementFilter applies the typed movement filter without pagination
func (r *GormMovementRepository) applyMovementFilter(query *gorm.DB, filter inventory.MovementFilter) *gorm.DB {
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Reason != nil {
		query = query.Where("reason = ?", *filter.Reason)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

func quantityAffectingReasons() []inventory.MovementReason {
	return []inventory.MovementReason{
		inventory.MovementReasonAdjustment,
		inventory.MovementReasonTransferOut,
		inventory.MovementReasonTransferIn,
		inventory.MovementReasonFulfillment,
	}
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
