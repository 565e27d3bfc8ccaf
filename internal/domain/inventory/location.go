package inventory

import (
	"strings"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
)

// LocationType represents the kind of fulfillment location
type LocationType string

const (
	LocationTypeWarehouse LocationType = "warehouse" // Dedicated fulfillment warehouse
	LocationTypeStore     LocationType = "store"     // Retail store that also ships orders
)

// String returns the string representation of LocationType
func (t LocationType) String() string {
	return string(t)
}

// IsValid returns true if the location type is valid
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeStore:
		return true
	}
	return false
}

// Location represents a physical or logical fulfillment point.
// It is the aggregate root for location-related operations. Locations are
// never hard-deleted while stock entries reference them with live quantity;
// deactivation is the normal way to retire one.
type Location struct {
	shared.BaseAggregateRoot
	Name   string       `gorm:"type:varchar(200);not null"`
	Type   LocationType `gorm:"type:varchar(20);not null;default:'warehouse'"`
	Active bool         `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new active location
func NewLocation(name string, locationType LocationType) (*Location, error) {
	if err := validateLocationName(name); err != nil {
		return nil, err
	}
	if !locationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION_TYPE", "Invalid location type")
	}

	location := &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Type:              locationType,
		Active:            true,
	}

	location.AddDomainEvent(NewLocationCreatedEvent(location))

	return location, nil
}

// Update updates the location's basic information
func (l *Location) Update(name string, locationType LocationType) error {
	if err := validateLocationName(name); err != nil {
		return err
	}
	if !locationType.IsValid() {
		return shared.NewDomainError("INVALID_LOCATION_TYPE", "Invalid location type")
	}

	l.Name = strings.TrimSpace(name)
	l.Type = locationType
	l.Touch()
	l.IncrementVersion()

	l.AddDomainEvent(NewLocationUpdatedEvent(l))

	return nil
}

// Activate enables the location for fulfillment
func (l *Location) Activate() error {
	if l.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Location is already active")
	}

	l.Active = true
	l.Touch()
	l.IncrementVersion()

	l.AddDomainEvent(NewLocationActivatedEvent(l))

	return nil
}

// Deactivate retires the location from fulfillment without deleting it
func (l *Location) Deactivate() error {
	if !l.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Location is already inactive")
	}

	l.Active = false
	l.Touch()
	l.IncrementVersion()

	l.AddDomainEvent(NewLocationDeactivatedEvent(l))

	return nil
}

func validateLocationName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 200 characters")
	}
	return nil
}

var _ shared.AggregateRoot = (*Location)(nil)
