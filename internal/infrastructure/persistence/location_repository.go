package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Location, error) {
	var location inventory.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindAll finds locations matching the filter
func (r *GormLocationRepository) FindAll(ctx context.Context, filter inventory.LocationFilter) ([]inventory.Location, error) {
	var locations []inventory.Location
	query := applyPagination(r.applyLocationFilter(r.db.WithContext(ctx).Model(&inventory.Location{}), filter), filter.Filter, LocationSortFields)

	if err := query.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *inventory.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormLocationRepository) SaveWithLock(ctx context.Context, location *inventory.Location) error {
	result := r.db.WithContext(ctx).
		Model(location).
		Where("id = ? AND version = ?", location.ID, location.Version-1).
		Updates(map[string]interface{}{
			"name":       location.Name,
			"type":       location.Type,
			"active":     location.Active,
			"version":    location.Version,
			"updated_at": location.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete hard-deletes a location
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts locations matching the filter
func (r *GormLocationRepository) Count(ctx context.Context, filter inventory.LocationFilter) (int64, error) {
	var count int64
	query := r.applyLocationFilter(r.db.WithContext(ctx).Model(&inventory.Location{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyLocationFilter applies the typed location filter without pagination
func (r *GormLocationRepository) applyLocationFilter(query *gorm.DB, filter inventory.LocationFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormLocationRepository implements LocationRepository
var _ inventory.LocationRepository = (*GormLocationRepository)(nil)
