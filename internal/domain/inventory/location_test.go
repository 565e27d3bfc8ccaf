package inventory

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	t.Run("creates active warehouse location", func(t *testing.T) {
		location, err := NewLocation("Central Warehouse", LocationTypeWarehouse)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, location.ID)
		assert.Equal(t, "Central Warehouse", location.Name)
		assert.Equal(t, LocationTypeWarehouse, location.Type)
		assert.True(t, location.Active)

		events := location.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeLocationCreated, events[0].EventType())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		location, err := NewLocation("  Downtown Store ", LocationTypeStore)

		require.NoError(t, err)
		assert.Equal(t, "Downtown Store", location.Name)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		location, err := NewLocation("   ", LocationTypeWarehouse)

		require.Error(t, err)
		assert.Nil(t, location)
	})

	t.Run("fails with overlong name", func(t *testing.T) {
		location, err := NewLocation(strings.Repeat("x", 201), LocationTypeWarehouse)

		require.Error(t, err)
		assert.Nil(t, location)
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		location, err := NewLocation("Central", LocationType("depot"))

		require.Error(t, err)
		assert.Nil(t, location)
	})
}

func TestLocation_Update(t *testing.T) {
	location, err := NewLocation("Central", LocationTypeWarehouse)
	require.NoError(t, err)
	location.ClearDomainEvents()

	err = location.Update("Central East", LocationTypeStore)

	require.NoError(t, err)
	assert.Equal(t, "Central East", location.Name)
	assert.Equal(t, LocationTypeStore, location.Type)
	assert.Equal(t, 2, location.Version)

	events := location.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeLocationUpdated, events[0].EventType())
}

func TestLocation_ActivateDeactivate(t *testing.T) {
	location, err := NewLocation("Central", LocationTypeWarehouse)
	require.NoError(t, err)
	location.ClearDomainEvents()

	t.Run("deactivates an active location", func(t *testing.T) {
		require.NoError(t, location.Deactivate())
		assert.False(t, location.Active)
	})

	t.Run("deactivating twice fails", func(t *testing.T) {
		require.Error(t, location.Deactivate())
	})

	t.Run("activates an inactive location", func(t *testing.T) {
		require.NoError(t, location.Activate())
		assert.True(t, location.Active)
	})

	t.Run("activating twice fails", func(t *testing.T) {
		require.Error(t, location.Activate())
	})
}
