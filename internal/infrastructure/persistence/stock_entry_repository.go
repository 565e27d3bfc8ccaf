package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockEntryRepository implements StockEntryRepository using GORM
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// FindByID finds a stock entry by its ID
func (r *GormStockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockEntry, error) {
	var entry inventory.StockEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByVariantAndLocation finds the entry for a variant-location pair
func (r *GormStockEntryRepository) FindByVariantAndLocation(ctx context.Context, variantID, locationID uuid.UUID) (*inventory.StockEntry, error) {
	var entry inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByVariant finds all entries for a variant across locations
func (r *GormStockEntryRepository) FindByVariant(ctx context.Context, variantID uuid.UUID) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("location_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByLocation finds entries at a location
func (r *GormStockEntryRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	query := applyPagination(
		r.db.WithContext(ctx).Model(&inventory.StockEntry{}).
			Where("location_id = ?", locationID),
		filter,
		StockEntrySortFields,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds entries matching the filter
func (r *GormStockEntryRepository) FindAll(ctx context.Context, filter inventory.StockEntryFilter) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	query := applyPagination(r.applyEntryFilter(r.db.WithContext(ctx).Model(&inventory.StockEntry{}), filter), filter.Filter, StockEntrySortFields)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetOrCreate returns the entry for the pair, creating an empty one when absent
func (r *GormStockEntryRepository) GetOrCreate(ctx context.Context, variantID, locationID uuid.UUID) (*inventory.StockEntry, error) {
	entry, err := r.FindByVariantAndLocation(ctx, variantID, locationID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	entry, err = inventory.NewStockEntry(variantID, locationID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT absorbs the race where two writers materialize the same pair
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "variant_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	// Zero rows affected means another writer won the race; load its row
	// instead of handing back the unpersisted candidate
	if result.RowsAffected == 0 {
		return r.FindByVariantAndLocation(ctx, variantID, locationID)
	}

	return entry, nil
}

// Save creates or updates a stock entry
func (r *GormStockEntryRepository) Save(ctx context.Context, entry *inventory.StockEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockEntryRepository) SaveWithLock(ctx context.Context, entry *inventory.StockEntry) error {
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("id = ? AND version = ?", entry.ID, entry.Version-1).
		Updates(map[string]interface{}{
			"quantity":   entry.Quantity,
			"reserved":   entry.Reserved,
			"version":    entry.Version,
			"updated_at": entry.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumQuantityByVariant totals on-hand quantity for a variant across locations
func (r *GormStockEntryRepository) SumQuantityByVariant(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockEntry{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("variant_id = ?", variantID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumAvailableByVariant totals available (on-hand minus reserved) for a variant
func (r *GormStockEntryRepository) SumAvailableByVariant(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockEntry{}).
		Select("COALESCE(SUM(quantity - reserved), 0) as total").
		Where("variant_id = ?", variantID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountWithStockByLocation counts entries at a location still holding stock
func (r *GormStockEntryRepository) CountWithStockByLocation(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockEntry{}).
		Where("location_id = ? AND (quantity > 0 OR reserved > 0)", locationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts entries matching the filter
func (r *GormStockEntryRepository) Count(ctx context.Context, filter inventory.StockEntryFilter) (int64, error) {
	var count int64
	query := r.applyEntryFilter(r.db.WithContext(ctx).Model(&inventory.StockEntry{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyEntryFilter applies the typed stock entry filter without pagination
func (r *GormStockEntryRepository) applyEntryFilter(query *gorm.DB, filter inventory.StockEntryFilter) *gorm.DB {
	if filter.VariantID != nil {
		query = query.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.WithStockOnly {
		query = query.Where("quantity > 0 OR reserved > 0")
	}
	return query
}

// applyPagination applies pagination and ordering shared by the inventory
// repositories. Sort fields are validated against a per-table whitelist so
// caller input never reaches the ORDER BY clause unchecked.
func applyPagination(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormStockEntryRepository implements StockEntryRepository
var _ inventory.StockEntryRepository = (*GormStockEntryRepository)(nil)
