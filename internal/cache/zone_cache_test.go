package cache

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baykery/storefront-service/internal/models"
)

func TestZoneCacheMissWhenEmpty(t *testing.T) {
	c := NewZoneCache()

	zones, ok := c.Get()
	assert.False(t, ok)
	assert.Nil(t, zones)
}

func TestZoneCacheSetGet(t *testing.T) {
	c := NewZoneCache()
	c.Set([]models.DeliveryZone{
		{ID: "z1", Name: "Miraflores", FeePEN: decimal.RequireFromString("10.00"), Active: true},
	})

	zones, ok := c.Get()
	require.True(t, ok)
	require.Len(t, zones, 1)
	assert.Equal(t, "Miraflores", zones[0].Name)
}

func TestZoneCacheGetReturnsCopy(t *testing.T) {
	c := NewZoneCache()
	c.Set([]models.DeliveryZone{{ID: "z1", Name: "Miraflores"}})

	zones, _ := c.Get()
	zones[0].Name = "mutated"

	again, _ := c.Get()
	assert.Equal(t, "Miraflores", again[0].Name)
}

func TestZoneCacheInvalidate(t *testing.T) {
	c := NewZoneCache()
	c.Set([]models.DeliveryZone{{ID: "z1"}})
	c.Invalidate()

	_, ok := c.Get()
	assert.False(t, ok)
}

func TestZoneCacheCachesEmptyList(t *testing.T) {
	c := NewZoneCache()
	c.Set([]models.DeliveryZone{})

	zones, ok := c.Get()
	assert.True(t, ok, "an empty zone list is still a valid cached value")
	assert.Empty(t, zones)
}
