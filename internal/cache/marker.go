package cache

import (
	"github.com/enemyradar/extension/pkg/handle"
	"github.com/enemyradar/extension/pkg/hostapi"
)

// MarkerCache maps host objects to the world markers spawned for them.
type MarkerCache struct {
	markers map[handle.ID]hostapi.MarkerID
	order   []handle.ID
}

// NewMarkerCache creates an empty MarkerCache.
func NewMarkerCache() *MarkerCache {
	return &MarkerCache{markers: make(map[handle.ID]hostapi.MarkerID)}
}

// Get retrieves the marker spawned for owner.
func (c *MarkerCache) Get(owner handle.ID) (hostapi.MarkerID, bool) {
	id, ok := c.markers[owner]
	return id, ok
}

// Set stores the marker spawned for owner. A marker it replaces is returned so
// the caller can destroy it.
func (c *MarkerCache) Set(owner handle.ID, id hostapi.MarkerID) (prev hostapi.MarkerID, replaced bool) {
	prev, replaced = c.markers[owner]
	if !replaced {
		c.order = append(c.order, owner)
	}
	c.markers[owner] = id
	return prev, replaced
}

// Len returns the number of tracked markers.
func (c *MarkerCache) Len() int {
	return len(c.markers)
}

// Drain empties the cache and returns the markers in insertion order.
func (c *MarkerCache) Drain() []hostapi.MarkerID {
	out := make([]hostapi.MarkerID, 0, len(c.order))
	for _, owner := range c.order {
		out = append(out, c.markers[owner])
	}
	c.markers = make(map[handle.ID]hostapi.MarkerID)
	c.order = c.order[:0]
	return out
}
