package cache

import (
	"sync"

	"github.com/baykery/storefront-service/internal/models"
)

// ZoneCache holds the active delivery-zone list for the public storefront.
// Zones change rarely (admin edits only), so the cache is invalidated on
// every admin zone write rather than expiring on a timer.
type ZoneCache struct {
	mu    sync.RWMutex
	zones []models.DeliveryZone
	ok    bool
}

func NewZoneCache() *ZoneCache {
	return &ZoneCache{}
}

func (c *ZoneCache) Get() ([]models.DeliveryZone, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok {
		return nil, false
	}
	out := make([]models.DeliveryZone, len(c.zones))
	copy(out, c.zones)
	return out, true
}

func (c *ZoneCache) Set(zones []models.DeliveryZone) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zones = make([]models.DeliveryZone, len(zones))
	copy(c.zones, zones)
	c.ok = true
}

func (c *ZoneCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zones = nil
	c.ok = false
}
